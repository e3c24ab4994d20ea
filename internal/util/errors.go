package util

import (
	"errors"
	"net/http"
)

// Kind classifies an error by how it is reported to the caller.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnauthorized
	KindDependency
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindDependency:
		return "dependency"
	default:
		return "internal"
	}
}

// Status maps the kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// AppError carries a caller-facing message and the underlying cause.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newError(kind Kind, msg string, cause error) *AppError {
	return &AppError{Kind: kind, Message: msg, Err: cause}
}

func Validation(msg string) error {
	return newError(KindValidation, msg, nil)
}

func NotFound(msg string, cause error) error {
	return newError(KindNotFound, msg, cause)
}

func Conflict(msg string, cause error) error {
	return newError(KindConflict, msg, cause)
}

func UnauthorizedError(msg string) error {
	return newError(KindUnauthorized, msg, nil)
}

func Dependency(msg string, cause error) error {
	return newError(KindDependency, msg, cause)
}

var (
	ErrUserNotFound       = newError(KindNotFound, "user not found", nil)
	ErrPredictionNotFound = newError(KindNotFound, "prediction not found", nil)
	ErrUsernameTaken      = newError(KindConflict, "username already exists", nil)
	ErrInvalidCredentials = UnauthorizedError("invalid credentials")
)

// KindOf reports the kind of the first AppError in err's chain.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-facing message, hiding internal causes.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	return "Internal server error"
}
