package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindAuthentication
	KindAccountInactive
	KindNotFound
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	case KindAccountInactive:
		return "account_inactive"
	case KindNotFound:
		return "not_found"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// Error is the error type returned by the record services.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	// Timeout is only meaningful for KindPersistence.
	Timeout bool
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports malformed input. fields may be nil.
func Validation(message string, fields map[string]string, err error) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: message,
		Fields:  fields,
		Err:     err,
	}
}

func Conflict(message string, err error) *Error {
	return &Error{
		Kind:    KindConflict,
		Message: message,
		Err:     err,
	}
}

// InvalidCredentials is returned for both an unknown identifier and a wrong
// password. The two causes must stay indistinguishable.
func InvalidCredentials() *Error {
	return &Error{
		Kind:    KindAuthentication,
		Message: "invalid email or password",
	}
}

func AccountInactive() *Error {
	return &Error{
		Kind:    KindAccountInactive,
		Message: "user account is inactive",
	}
}

func NotFound(resource string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func Persistence(op string, err error) *Error {
	return &Error{
		Kind:    KindPersistence,
		Message: fmt.Sprintf("%s failed", op),
		Err:     err,
	}
}

func PersistenceTimeout(op string, err error) *Error {
	return &Error{
		Kind:    KindPersistence,
		Message: fmt.Sprintf("%s timed out", op),
		Timeout: true,
		Err:     err,
	}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsTimeout reports whether err is a persistence timeout.
func IsTimeout(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == KindPersistence && appErr.Timeout
}
