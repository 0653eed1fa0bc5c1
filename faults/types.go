package faults

import "errors"

type ErrorCategory string

const (
	ValidationError  ErrorCategory = "ValidationError"
	NotFoundError    ErrorCategory = "NotFoundError"
	ConflictError    ErrorCategory = "ConflictError"
	AuthError        ErrorCategory = "AuthError"
	TransportError   ErrorCategory = "TransportError"
	UnsupportedError ErrorCategory = "UnsupportedError"
	InternalError    ErrorCategory = "InternalError"
)

var (
	// ErrMissingCredential is the cause of every AuthError raised because the
	// session store holds no token at call time.
	ErrMissingCredential = errors.New("no authentication token in session")
	// ErrUnknownResource is the cause of resolution failures for a resource
	// that has no path under the caller's role.
	ErrUnknownResource = errors.New("unknown resource")
	// ErrUnsupportedOperation is the cause of requests for an operation kind
	// the data provider does not translate into a single HTTP request.
	ErrUnsupportedOperation = errors.New("unsupported operation")
)

type TypedError struct {
	Category ErrorCategory
	Message  string
	Cause    error
}

func (e *TypedError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message != "" && e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return string(e.Category)
}

func (e *TypedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewTypedError(category ErrorCategory, message string, cause error) *TypedError {
	return &TypedError{
		Category: category,
		Message:  message,
		Cause:    cause,
	}
}

func IsCategory(err error, category ErrorCategory) bool {
	if err == nil {
		return false
	}

	var typedErr *TypedError
	if !errors.As(err, &typedErr) {
		return false
	}
	return typedErr.Category == category
}

// CategoryOf returns the category of the outermost TypedError in err's chain,
// or an empty category when err carries none.
func CategoryOf(err error) ErrorCategory {
	var typedErr *TypedError
	if !errors.As(err, &typedErr) || typedErr == nil {
		return ""
	}
	return typedErr.Category
}
