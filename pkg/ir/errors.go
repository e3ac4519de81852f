package ir

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies a ParseError
type ErrorKind int

const (
	// Unimplemented means the schema was recognized but cannot be generated.
	// It aborts the enclosing resolution.
	Unimplemented ErrorKind = iota
	// OtherType means "this resolver does not handle this shape, try the next one".
	// It never leaves the type resolver.
	OtherType
)

func (k ErrorKind) String() string {
	switch k {
	case Unimplemented:
		return "unimplemented"
	case OtherType:
		return "other type"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ParseError is returned when a document node cannot be turned into IR
type ParseError struct {
	Kind   ErrorKind
	Detail string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case Unimplemented:
		if e.Detail != "" {
			return "the type description is currently unsupported: " + e.Detail
		}
		return "the type description is currently unsupported"
	default:
		return "this object is unsupported by this function"
	}
}

// Is matches any ParseError of the same kind
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Kind == e.Kind
}

// ErrOtherType is the fallback signal between type resolver attempts.
// It carries no stack since it is created on every miss.
var ErrOtherType = &ParseError{Kind: OtherType}

// ErrUnimplemented can be used with errors.Is to detect fatal parse errors
var ErrUnimplemented = &ParseError{Kind: Unimplemented}

// Unimplementedf returns a fatal ParseError with a captured stack trace.
// Format it with %+v to print the trace.
func Unimplementedf(format string, args ...any) error {
	return errors.WithStack(&ParseError{Kind: Unimplemented, Detail: fmt.Sprintf(format, args...)})
}

// IsOtherType reports whether err is the fallback signal
func IsOtherType(err error) bool {
	return stderrors.Is(err, ErrOtherType)
}

// IsUnimplemented reports whether err is, or wraps, a fatal ParseError
func IsUnimplemented(err error) bool {
	return stderrors.Is(err, ErrUnimplemented)
}
