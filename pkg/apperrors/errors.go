package apperrors

import (
	"fmt"
	"net/http"
	"strings"
	"unicode"
)

// AppError is the one error shape every failure in the application is
// mapped onto before it reaches a client. Type names the error kind in
// CamelCase; the snake_cased derivation is exposed as "cause" in the
// rendered envelope so clients can switch on it.
type AppError struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Context interface{} `json:"context,omitempty"`
	Status  int         `json:"-"`
	Err     error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Cause returns the snake_cased type name, e.g.
// "InvalidPasswordResetToken" -> "invalid_password_reset_token".
func (e *AppError) Cause() string {
	return snakeCase(e.Type)
}

func (e *AppError) WithContext(ctx interface{}) *AppError {
	e.Context = ctx
	return e
}

func New(typ, message string, status int) *AppError {
	return &AppError{Type: typ, Message: message, Status: status}
}

func Wrap(err error, typ, message string, status int) *AppError {
	return &AppError{Type: typ, Message: message, Status: status, Err: err}
}

// --- Validation ---

// CannotCreate builds the validation failure raised when a create
// request for the given entity carries invalid attributes. Context
// holds the field -> message map.
func CannotCreate(entity string, fields interface{}) *AppError {
	return New("CannotCreate"+entity, "The given attributes are invalid", http.StatusUnprocessableEntity).
		WithContext(fields)
}

// CannotUpdate is the update-side counterpart of CannotCreate.
func CannotUpdate(entity string, fields interface{}) *AppError {
	return New("CannotUpdate"+entity, "The given attributes are invalid", http.StatusUnprocessableEntity).
		WithContext(fields)
}

// InvalidPagination is raised before any query runs when limit or page
// are malformed.
func InvalidPagination(fields interface{}) *AppError {
	return New("InvalidPagination", "Invalid pagination parameters", http.StatusUnprocessableEntity).
		WithContext(fields)
}

// --- Not found ---

func NotFound(entity string) *AppError {
	return New(entity+"NotFound", entity+" not found", http.StatusNotFound)
}

// --- Token failures, each a distinct cause so clients can tell
// "ask for a new token" from "try again" ---

func InvalidEmailVerificationToken() *AppError {
	return New("InvalidEmailVerificationToken", "The email verification token is invalid", http.StatusUnprocessableEntity)
}

func InvalidPasswordResetToken() *AppError {
	return New("InvalidPasswordResetToken", "The password reset token is invalid", http.StatusUnprocessableEntity)
}

func PasswordResetTokenExpired() *AppError {
	return New("PasswordResetTokenExpired", "The password reset token has expired", http.StatusUnprocessableEntity)
}

func InvalidPassword(fields interface{}) *AppError {
	return New("InvalidPassword", "The given password is too weak", http.StatusUnprocessableEntity).
		WithContext(fields)
}

// --- Authorization ---

func Unauthenticated(message string) *AppError {
	return New("Unauthenticated", message, http.StatusUnauthorized)
}

func Forbidden(message string) *AppError {
	return New("Forbidden", message, http.StatusForbidden)
}

// --- Fallback ---

func Internal(err error) *AppError {
	return Wrap(err, "InternalError", "Internal server error", http.StatusInternalServerError)
}

// FromStatus derives a generic error from a bare HTTP status. Used as
// the last-resort mapping for upstream errors nobody recognized.
func FromStatus(status int, message string) *AppError {
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}
	if message == "" {
		message = http.StatusText(status)
	}
	typ := strings.ReplaceAll(http.StatusText(status), " ", "")
	if typ == "" {
		typ = "InternalError"
	}
	return New(typ, message, status)
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
