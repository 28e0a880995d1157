package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Repository level signals. Services translate these into AppErrors.
var (
	ErrRegistrationNotFound      = errors.New("registration not found")
	ErrAlreadyProcessed          = errors.New("registration already processed")
	ErrUsernameTaken             = errors.New("username already taken")
	ErrPendingRegistrationExists = errors.New("pending registration already exists for username")
	ErrFileNotFound              = errors.New("file not found")
	ErrUserNotFound              = errors.New("user not found")
)

// ErrorType is the client-visible fault identifier written as "type" in error bodies.
type ErrorType string

const (
	ErrTypeValidation              ErrorType = "ValidationError"
	ErrTypeForbidden               ErrorType = "ForbiddenError"
	ErrTypeNotFound                ErrorType = "NotFound"
	ErrTypeRegistrationNotFound    ErrorType = "RegistrationNotFound"
	ErrTypeAlreadyExistingUsername ErrorType = "AlreadyExistingUsername"
	ErrTypeRegistrationPending     ErrorType = "RegistrationPending"
	ErrTypeAlreadyProcessed        ErrorType = "AlreadyProcessed"
	ErrTypeInvalidCredentials      ErrorType = "InvalidCredentials"
	ErrTypeUnknown                 ErrorType = "UnknownError"
	ErrTypeSearch                  ErrorType = "SearchError"
	ErrTypeUserCreation            ErrorType = "UserCreationError"
	ErrTypeConfig                  ErrorType = "ConfigError"
	ErrTypeTranslation             ErrorType = "TranslationError"
)

// AppError is a structured client or server fault.
type AppError struct {
	Type       ErrorType         `json:"type"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	StatusCode int               `json:"-"`
	Internal   error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Internal
}

// WithDetail attaches a field level validation message.
func (e *AppError) WithDetail(field, message string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[field] = message
	return e
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Type:       ErrTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(errType ErrorType, message string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewConflictError(errType ErrorType, message string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Type:       ErrTypeForbidden,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewUnauthorizedError(errType ErrorType, message string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewServerError(errType ErrorType, message string, err error) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Internal:   err,
	}
}

// AsAppError returns err as an AppError, wrapping anything unrecognised as UnknownError.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewServerError(ErrTypeUnknown, "Unknown server error", err)
}
