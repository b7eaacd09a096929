// Package errs defines the failure kinds raised by the collection runtime.
//
// Every failure is an *Error carrying a Kind. Errors compare equal under
// errors.Is when their kinds match, so callers test against the exported
// sentinels:
//
//	if errors.Is(err, errs.ErrConcurrentModification) { ... }
package errs

import (
	"errors"
	"fmt"
)

// Error is the unified runtime error type.
type Error struct {
	Kind    Kind
	Message string
	// Details carries the offending values (index, length, argument name...).
	Details map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// KindOf returns the kind of err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// NoElement is raised when an element is required from an empty sequence.
func NoElement() *Error {
	return &Error{Kind: KindEmptySequence, Message: "No element"}
}

// TooMany is raised when a single element was expected but more were found.
func TooMany() *Error {
	return &Error{Kind: KindTooManyElements, Message: "Too many elements"}
}

// TooFew is raised when a bulk copy needed more source elements.
func TooFew() *Error {
	return &Error{Kind: KindTooFewElements, Message: "Too few elements"}
}

// IndexOutOfRange reports index outside [0, length).
func IndexOutOfRange(index, length int, name string) *Error {
	return &Error{
		Kind:    KindIndexOutOfRange,
		Message: fmt.Sprintf("Invalid value for %s: %d, valid range is [0, %d)", name, index, length),
		Details: map[string]any{"index": index, "length": length, "name": name},
	}
}

// InvalidArgument reports an argument failing a precondition.
func InvalidArgument(name string, value any, reason string) *Error {
	return &Error{
		Kind:    KindInvalidArgument,
		Message: fmt.Sprintf("Invalid argument %s (%v): %s", name, value, reason),
		Details: map[string]any{"name": name, "value": value},
	}
}

// InvalidRange reports a (start, end) pair outside [0, length].
func InvalidRange(start, end, length int) *Error {
	return &Error{
		Kind:    KindInvalidRange,
		Message: fmt.Sprintf("Invalid range [%d, %d) for length %d", start, end, length),
		Details: map[string]any{"start": start, "end": end, "length": length},
	}
}

// ConcurrentModification reports that source changed during a traversal.
func ConcurrentModification(source any) *Error {
	return &Error{
		Kind:    KindConcurrentModification,
		Message: fmt.Sprintf("Concurrent modification during iteration of %T", source),
	}
}

// Unsupported reports a mutator called on a receiver that disallows it.
func Unsupported(op string) *Error {
	return &Error{
		Kind:    KindUnsupported,
		Message: fmt.Sprintf("Cannot %s", op),
		Details: map[string]any{"operation": op},
	}
}

// CheckNotNegative fails with InvalidArgument when value < 0.
func CheckNotNegative(value int, name string) error {
	if value < 0 {
		return InvalidArgument(name, value, "must not be negative")
	}
	return nil
}

// CheckValidIndex fails with IndexOutOfRange unless 0 <= index < length.
func CheckValidIndex(index, length int, name string) error {
	if index < 0 || index >= length {
		return IndexOutOfRange(index, length, name)
	}
	return nil
}

// CheckValidRange fails with InvalidRange unless 0 <= start <= end <= length.
func CheckValidRange(start, end, length int) error {
	if start < 0 || start > length || end < start || end > length {
		return InvalidRange(start, end, length)
	}
	return nil
}
