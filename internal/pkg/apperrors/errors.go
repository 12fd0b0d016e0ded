package apperrors

import "errors"

// Kind classifies a failure by what went wrong, not where. The HTTP layer
// maps kinds to status codes; services only decide the kind.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindFormat        Kind = "format"
	KindNotFound      Kind = "not_found"
	KindStorage       Kind = "storage"
	KindRetrieval     Kind = "retrieval"
	KindConfiguration Kind = "configuration"
	KindGeneration    Kind = "generation"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from anywhere in the error chain. Unclassified
// errors report KindStorage, the safest default for a 500.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStorage
}

// Is reports whether any error in the chain carries the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
