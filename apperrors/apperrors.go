package apperrors

import "fmt"

// Stable machine-readable error kinds
const (
	KindValidation        = "validation"
	KindAuthorization     = "authorization"
	KindConflict          = "conflict"
	KindNotFound          = "not_found"
	KindInvalidTransition = "invalid_transition"
	KindInternal          = "internal"
)

// Error membawa kind yang stabil untuk mesin plus pesan untuk manusia
type Error struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

func NewValidation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewAuthorization(format string, args ...interface{}) *Error {
	return &Error{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

func NewConflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewInvalidTransition(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

// NewInternal menyembunyikan detail internal dari caller. The original
// error should be logged at the call site, never returned to the user.
func NewInternal() *Error {
	return &Error{Kind: KindInternal, Message: "internal server error"}
}

// KindOf returns the kind of err, or KindInternal for non-app errors.
func KindOf(err error) string {
	if appErr, ok := err.(*Error); ok {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind cek apakah err merupakan *Error dengan kind tertentu
func IsKind(err error, kind string) bool {
	return KindOf(err) == kind
}
