package types

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingToken       = errors.New("no token provided")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("action forbidden")
	ErrNotFound           = errors.New("resource not found")
)

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

type ErrorCode string

const (
	CodeValidation         ErrorCode = "VALIDATION_ERROR"
	CodeDuplicateEmail     ErrorCode = "DUPLICATE_EMAIL"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeMissingToken       ErrorCode = "MISSING_TOKEN"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodeInternal           ErrorCode = "SERVER_ERROR"
)

// StatusError is an error resolved to what the client is allowed to see.
type StatusError struct {
	Error   error
	Status  int
	Code    ErrorCode
	Message string
	Details any
}

func (e StatusError) Unwrap() error {
	return e.Error
}

func (e StatusError) HTTPStatus() int {
	return e.Status
}

func NewStatusError(err error, status int) StatusError {
	return StatusError{
		Error:   err,
		Status:  status,
		Code:    CodeInternal,
		Message: http.StatusText(status),
	}
}

// FromError classifies err. Unknown errors become a 500 whose message
// does not carry the underlying error text.
func FromError(err error) StatusError {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return StatusError{Error: err, Status: http.StatusBadRequest, Code: CodeValidation,
			Message: ve.Error(), Details: map[string]string{"field": ve.Field}}
	case errors.Is(err, ErrValidation):
		return classified(err, ErrValidation, http.StatusBadRequest, CodeValidation)
	case errors.Is(err, ErrDuplicateEmail):
		return classified(err, ErrDuplicateEmail, http.StatusBadRequest, CodeDuplicateEmail)
	case errors.Is(err, ErrInvalidCredentials):
		return classified(err, ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials)
	case errors.Is(err, ErrMissingToken):
		return classified(err, ErrMissingToken, http.StatusUnauthorized, CodeMissingToken)
	case errors.Is(err, ErrInvalidToken):
		return classified(err, ErrInvalidToken, http.StatusForbidden, CodeInvalidToken)
	case errors.Is(err, ErrForbidden):
		return classified(err, ErrForbidden, http.StatusForbidden, CodeForbidden)
	case errors.Is(err, ErrNotFound):
		return classified(err, ErrNotFound, http.StatusNotFound, CodeNotFound)
	}
	return NewStatusError(err, http.StatusInternalServerError)
}

// classified uses the sentinel's text so wrapped context stays server side.
func classified(err, sentinel error, status int, code ErrorCode) StatusError {
	return StatusError{Error: err, Status: status, Code: code, Message: sentinel.Error()}
}
