package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"theater-portal/internal/tenancy"
	"theater-portal/pkg/jwtutil"
	"theater-portal/pkg/logger"
	"theater-portal/prometheus"
)

// Echo context keys set by the auth middleware
const (
	UserIDKey = "user_id"
	EmailKey  = "email"
)

// TokenValidator parses bearer tokens into user claims
type TokenValidator interface {
	ValidateToken(token string) (*jwtutil.UserClaims, error)
}

// AuthMiddleware verifies the bearer token and stores the caller's identity
func AuthMiddleware(tokens TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			tokenString := c.Request().Header.Get("Authorization")
			if tokenString == "" {
				log.Warn("Missing authorization token")
				prometheus.RecordError("unauthorized")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}

			// Remove "Bearer " prefix if present
			if len(tokenString) > 7 && strings.ToUpper(tokenString[0:7]) == "BEARER " {
				tokenString = tokenString[7:]
			}

			claims, err := tokens.ValidateToken(tokenString)
			if err != nil {
				log.Warn("Invalid token", zap.Error(err))
				prometheus.RecordError("unauthorized")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set(UserIDKey, claims.UserID)
			c.Set(EmailKey, claims.Email)
			logger.SetEcho(c, log.With(zap.Uint("user_id", claims.UserID)))

			return next(c)
		}
	}
}

// CurrentIdentity returns the identity stored by AuthMiddleware
func CurrentIdentity(c echo.Context) (tenancy.Identity, bool) {
	userID, ok := c.Get(UserIDKey).(uint)
	if !ok || userID == 0 {
		return tenancy.Identity{}, false
	}
	email, _ := c.Get(EmailKey).(string)
	return tenancy.Identity{UserID: userID, Email: email}, true
}

// RequireAdmin allows only identities whose email is on the admin list
func RequireAdmin(emails []string) echo.MiddlewareFunc {
	admins := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		admins[tenancy.NormalizeEmail(e)] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := CurrentIdentity(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			if _, ok := admins[tenancy.NormalizeEmail(id.Email)]; !ok {
				logger.FromEcho(c).Warn("Admin access denied")
				prometheus.RecordError("forbidden")
				return c.JSON(http.StatusForbidden, echo.Map{"error": "admin access required"})
			}
			return next(c)
		}
	}
}
