package jwtutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"theater-portal/pkg/config"
)

func TestGenerateAndValidate(t *testing.T) {
	j := NewJWTUtil(&config.JWTConfig{SigningKey: "k", ExpirationHours: 1})

	token, err := j.GenerateToken("a@example.org", 7)
	require.NoError(t, err)

	claims, err := j.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "a@example.org", claims.Email)
}

func TestValidate_WrongKey(t *testing.T) {
	token, err := NewJWTUtil(&config.JWTConfig{SigningKey: "a", ExpirationHours: 1}).GenerateToken("a@example.org", 1)
	require.NoError(t, err)

	_, err = NewJWTUtil(&config.JWTConfig{SigningKey: "b", ExpirationHours: 1}).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidate_Expired(t *testing.T) {
	claims := UserClaims{
		Email:  "a@example.org",
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewJWTUtil(&config.JWTConfig{SigningKey: "k"}).ValidateToken(token)
	assert.Error(t, err)
}

func TestNilConfig(t *testing.T) {
	j := NewJWTUtil(nil)
	_, err := j.GenerateToken("a@example.org", 1)
	assert.Error(t, err)
	_, err = j.ValidateToken("x")
	assert.Error(t, err)
}
