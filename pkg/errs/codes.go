package errs

// Kind is a machine-readable failure category.
type Kind string

const (
	// KindEmptySequence means an element was required but the sequence is empty.
	KindEmptySequence Kind = "EMPTY_SEQUENCE"
	// KindTooManyElements means a unique element was required but more than one qualified.
	KindTooManyElements Kind = "TOO_MANY_ELEMENTS"
	// KindTooFewElements means a bulk copy ran out of source elements.
	KindTooFewElements Kind = "TOO_FEW_ELEMENTS"
	// KindIndexOutOfRange means an index fell outside the valid range.
	KindIndexOutOfRange Kind = "INDEX_OUT_OF_RANGE"
	// KindInvalidArgument means an argument failed a sign or type precondition.
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
	// KindInvalidRange means a (start, end) pair violates 0 <= start <= end <= length.
	KindInvalidRange Kind = "INVALID_RANGE"
	// KindConcurrentModification means a collection changed length mid-traversal.
	KindConcurrentModification Kind = "CONCURRENT_MODIFICATION"
	// KindUnsupported means the receiver does not allow the operation.
	KindUnsupported Kind = "UNSUPPORTED"
)

// Sentinels for errors.Is. Any *Error of the same kind matches.
var (
	ErrEmptySequence          = &Error{Kind: KindEmptySequence, Message: "No element"}
	ErrTooManyElements        = &Error{Kind: KindTooManyElements, Message: "Too many elements"}
	ErrTooFewElements         = &Error{Kind: KindTooFewElements, Message: "Too few elements"}
	ErrIndexOutOfRange        = &Error{Kind: KindIndexOutOfRange, Message: "Index out of range"}
	ErrInvalidArgument        = &Error{Kind: KindInvalidArgument, Message: "Invalid argument"}
	ErrInvalidRange           = &Error{Kind: KindInvalidRange, Message: "Invalid range"}
	ErrConcurrentModification = &Error{Kind: KindConcurrentModification, Message: "Concurrent modification during iteration"}
	ErrUnsupported            = &Error{Kind: KindUnsupported, Message: "Unsupported operation"}
)
