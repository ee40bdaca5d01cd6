// Package server provides the HTTP REST API for the recruitment backend.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/recrutaai/recruta-backend/internal/chat"
	"github.com/recrutaai/recruta-backend/internal/db"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		emailExists *ErrEmailAlreadyExists
		badCreds    *ErrInvalidCredentials
		userMissing *ErrUserNotFound
		pwMismatch  *ErrPasswordMismatch
		jobMissing  *chat.ErrJobNotFound
		badState    *chat.ErrInvalidState
		validation  *chat.ErrValidation
		upstream    *chat.ErrUpstreamUnavailable
	)

	switch {
	case errors.As(err, &emailExists):
		return http.StatusConflict
	case errors.As(err, &badCreds), errors.As(err, &pwMismatch):
		return http.StatusUnauthorized
	case errors.As(err, &userMissing), errors.As(err, &jobMissing):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &badState), errors.Is(err, db.ErrVersionConflict):
		return http.StatusConflict
	case errors.As(err, &upstream):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicErrorMessage hides internal detail on 5xx responses.
func publicErrorMessage(err error, status int) string {
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		return "internal server error"
	}
	return err.Error()
}
