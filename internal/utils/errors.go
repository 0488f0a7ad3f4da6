package utils

import "errors"

// AppError is the error type used across the application. Code identifies the
// failure class, Origin carries the underlying error when there is one.
type AppError struct {
	Code    string
	Message string
	Origin  error
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

func (appErr *AppError) Unwrap() error {
	return appErr.Origin
}

// Standard error codes for the application
const (
	// Resource errors
	ErrNotFound      = "NOT_FOUND"
	ErrDuplicate     = "DUPLICATE"
	ErrInvalidInput  = "INVALID_INPUT"
	ErrMalformedData = "MALFORMED_DATA"

	// Record store errors
	ErrNotInitialized = "NOT_INITIALIZED"
	ErrRemoteRejected = "REMOTE_REJECTED"

	// Authentication/Authorization errors
	ErrUnauthorized       = "UNAUTHORIZED"
	ErrInvalidToken       = "INVALID_TOKEN"
	ErrInvalidCredentials = "INVALID_CREDENTIALS"

	// Actor communication errors
	ErrActorTimeout = "ACTOR_TIMEOUT"
)

func NewAppError(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

// NewNotFoundError builds the uniform not-found error used by every entity
// kind. Lookup misses never panic and never return bare nils.
func NewNotFoundError(what string) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: what + " not found",
	}
}

// IsErrorCode reports whether err is an AppError with the given code.
func IsErrorCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// AppErrorToHTTPStatus converts an AppError code to an HTTP status code.
func AppErrorToHTTPStatus(errorCode string) int {
	switch errorCode {
	case ErrNotFound:
		return 404 // http.StatusNotFound
	case ErrInvalidInput, ErrMalformedData:
		return 400 // http.StatusBadRequest
	case ErrUnauthorized, ErrInvalidToken, ErrInvalidCredentials:
		return 401 // http.StatusUnauthorized
	case ErrDuplicate:
		return 409 // http.StatusConflict
	case ErrNotInitialized, ErrRemoteRejected, ErrActorTimeout:
		return 500 // http.StatusInternalServerError
	default:
		return 500
	}
}
