package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so the API layer can pick a status code.
type ErrorKind string

const (
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	KindForbidden  ErrorKind = "forbidden"
	KindValidation ErrorKind = "validation"
	// KindUnauthorized is reserved for failed credential checks.
	KindUnauthorized ErrorKind = "unauthorized"
)

type ServiceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func NotFound(message string) error {
	return &ServiceError{Kind: KindNotFound, Message: message}
}

func Conflict(message string) error {
	return &ServiceError{Kind: KindConflict, Message: message}
}

func Forbidden(message string) error {
	return &ServiceError{Kind: KindForbidden, Message: message}
}

func Validation(message string, err error) error {
	return &ServiceError{Kind: KindValidation, Message: message, Err: err}
}

func Unauthorized(message string) error {
	return &ServiceError{Kind: KindUnauthorized, Message: message}
}

// IsKind reports whether err carries a ServiceError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}

// AsServiceError returns the ServiceError wrapped in err, if any.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	ok := errors.As(err, &se)
	return se, ok
}
