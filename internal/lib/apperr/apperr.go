// Package apperr carries domain failures together with the HTTP status
// they should surface as. Anything that is not an *AppError is treated
// by the boundary as an internal server error.
package apperr

import (
	"errors"
	"net/http"
)

type AppError struct {
	Message string
	Status  int
}

func (e *AppError) Error() string {
	return e.Message
}

func New(message string, status int) *AppError {
	return &AppError{Message: message, Status: status}
}

func NotFound(message string) *AppError {
	return New(message, http.StatusNotFound)
}

func BadRequest(message string) *AppError {
	return New(message, http.StatusBadRequest)
}

func Unauthorized(message string) *AppError {
	return New(message, http.StatusUnauthorized)
}

// From extracts an *AppError from err's chain, or nil.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
