package common

import "fmt"

// ErrKind classifies the structured errors produced across dvi2svg.
type ErrKind int

// The error kinds shared by every subpackage. Not every kind is
// produced by every package; a reader can always errors.As into *Error
// and switch on Kind to decide whether a failure is fatal.
const (
	InvalidDVIFile ErrKind = iota
	StackUnderflow
	FontNotSelected
	UnknownFont
	TruncatedInput
	SeekFailed
	SingularMatrix
	FontNotFound
	CircularReference
	Cancelled
)

func (k ErrKind) String() string {
	switch k {
	case InvalidDVIFile:
		return "InvalidDVIFile"
	case StackUnderflow:
		return "StackUnderflow"
	case FontNotSelected:
		return "FontNotSelected"
	case UnknownFont:
		return "UnknownFont"
	case TruncatedInput:
		return "TruncatedInput"
	case SeekFailed:
		return "SeekFailed"
	case SingularMatrix:
		return "SingularMatrix"
	case FontNotFound:
		return "FontNotFound"
	case CircularReference:
		return "CircularReference"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Error is the structured error type returned by every dvi2svg package.
// Offset is a byte offset into the input stream when known, or -1.
type Error struct {
	Kind    ErrKind
	Message string
	Offset  int64
	cause   error
}

// NewError builds an *Error with no known stream offset.
func NewError(kind ErrKind, message string) *Error {
	return &Error{Kind: kind, Message: message, Offset: -1}
}

// NewErrorAt builds an *Error tagged with a byte offset into the input.
func NewErrorAt(kind ErrKind, message string, offset int64) *Error {
	return &Error{Kind: kind, Message: message, Offset: offset}
}

// Wrap builds an *Error that chains a lower-level cause.
func Wrap(kind ErrKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Offset: -1, cause: cause}
}

func (e *Error) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s: %s (offset %d)", e.Kind, e.Message, e.Offset)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the chained cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same Kind, so that
// errors.Is(err, common.NewError(common.SeekFailed, "")) works without
// the caller needing to match Message or Offset.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}
