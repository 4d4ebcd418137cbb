package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("email is already registered")
	ErrEventNotFound = errors.New("event not found")
)

// translate maps gorm's sentinel errors onto the caller's domain errors.
// TranslateError must be enabled on the connection for duplicates to be detected.
func translate(err, notFound, duplicate error) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case duplicate != nil && errors.Is(err, gorm.ErrDuplicatedKey):
		return duplicate
	}
	return err
}
