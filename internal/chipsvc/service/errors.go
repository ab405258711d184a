package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the looked up session or player does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStore means the gateway could not serve the call.
	ErrStore = errors.New("store operation failed")
	// ErrDetection means the chip detection service gave no usable answer.
	ErrDetection = errors.New("chip detection failed")
)

// ValidationError is invalid user input, caught before any gateway call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// notFound yields errors such as "Session not found".
func notFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

func storeFailure(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}

// IsValidation reports whether err is a *ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
