// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrForbidden         = errors.New("forbidden")
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenInvalid      = errors.New("token invalid")
	ErrTokenRevoked      = errors.New("token revoked")
	ErrWrongTokenType    = errors.New("wrong token type")
	ErrMalformedClaims   = errors.New("malformed token claims")
	ErrCorruptCredential = errors.New("corrupt stored credential")
)

// genericCredentialMessage is the single message for every authentication
// failure. Which sub-check failed is never disclosed to the caller.
const genericCredentialMessage = "Could not validate credentials"

type AppError struct {
	Err     error
	Message string
	Status  int
	Code    string
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Status)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, status int, code string) *AppError {
	return &AppError{
		Err:     err,
		Message: message,
		Status:  status,
		Code:    code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "Authentication required"
	}
	return NewAppError(nil, message, http.StatusUnauthorized, "UNAUTHORIZED")
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "Forbidden"
	}
	return NewAppError(ErrForbidden, message, http.StatusForbidden, "FORBIDDEN")
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrNotFound, message, http.StatusNotFound, "NOT_FOUND")
}

func DuplicateError(field string) *AppError {
	return NewAppError(
		ErrDuplicateKey,
		field+" already exists",
		http.StatusConflict,
		"DUPLICATE",
	)
}

func ValidationError(message string) *AppError {
	return NewAppError(
		nil,
		message,
		http.StatusUnprocessableEntity,
		"VALIDATION_FAILED",
	)
}

// CredentialError covers every token verification failure and the
// valid-token-but-missing-user case with one indistinguishable response.
func CredentialError(err error) *AppError {
	return NewAppError(
		err,
		genericCredentialMessage,
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
	)
}

func TokenExpiredError() *AppError {
	return CredentialError(ErrTokenExpired)
}

func TokenInvalidError() *AppError {
	return CredentialError(ErrTokenInvalid)
}

func TokenRevokedError() *AppError {
	return CredentialError(ErrTokenRevoked)
}
