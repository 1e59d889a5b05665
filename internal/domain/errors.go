package domain

import (
	"errors"
	"fmt"
)

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

var (
	// ErrTemplateMissing is returned when no certificate template has been saved yet.
	ErrTemplateMissing = errors.New("certificate template not saved")

	// ErrAssetMissing is returned by asset stores for absent files.
	ErrAssetMissing = errors.New("asset missing")

	ErrInvalidToken = errors.New("invalid box token")
	ErrTokenExpired = errors.New("box token expired")

	// ErrNotAuthorised is returned when a box update arrives without a token.
	ErrNotAuthorised = errors.New("box update not authorised")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RenderingError wraps a failure of the external rendering backend.
type RenderingError struct {
	Cause error
}

func (e *RenderingError) Error() string {
	return fmt.Sprintf("rendering failed: %v", e.Cause)
}

func (e *RenderingError) Unwrap() error {
	return e.Cause
}
