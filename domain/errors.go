package domain

import (
	"errors"
	"net/http"
)

// Account errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidID          = errors.New("invalid id")
	ErrInvalidUserData    = errors.New("invalid user data")
	ErrRoleNotAllowed     = errors.New("role cannot be self-assigned")
)

// Activation errors
var (
	ErrActivationCodeInvalid = errors.New("activation code is not valid")
	ErrActivationExpired     = errors.New("activation token has expired")
	ErrDeliveryFailed        = errors.New("failed to send activation email")
)

// Token errors
var (
	ErrTokenInvalid          = errors.New("invalid token")
	ErrTokenExpired          = errors.New("token has expired")
	ErrTokenMalformed        = errors.New("malformed token")
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
	ErrTokenRevoked          = errors.New("token has been revoked")
)

// Authorization errors
var (
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrInsufficientRole = errors.New("insufficient role permissions")
)

// ErrorKind is the client-facing class of an error
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindConflict     ErrorKind = "conflict"
	KindAuth         ErrorKind = "auth"
	KindNotFound     ErrorKind = "not_found"
	KindDelivery     ErrorKind = "delivery"
	KindUnclassified ErrorKind = "unclassified"
)

// AppError is an error that has been classified into the response taxonomy
type AppError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Operational reports whether the message is safe to show to clients
func (e *AppError) Operational() bool { return e.Kind != KindUnclassified }

func NewValidationError(msg string, err error) *AppError {
	return &AppError{Kind: KindValidation, Status: http.StatusBadRequest, Message: msg, Err: err}
}

func NewConflictError(msg string, err error) *AppError {
	return &AppError{Kind: KindConflict, Status: http.StatusConflict, Message: msg, Err: err}
}

func NewAuthError(status int, msg string, err error) *AppError {
	return &AppError{Kind: KindAuth, Status: status, Message: msg, Err: err}
}

func NewNotFoundError(msg string, err error) *AppError {
	return &AppError{Kind: KindNotFound, Status: http.StatusNotFound, Message: msg, Err: err}
}

func NewDeliveryError(msg string, err error) *AppError {
	return &AppError{Kind: KindDelivery, Status: http.StatusInternalServerError, Message: msg, Err: err}
}

func NewUnclassifiedError(err error) *AppError {
	return &AppError{Kind: KindUnclassified, Status: http.StatusInternalServerError, Message: "Something went very wrong", Err: err}
}
