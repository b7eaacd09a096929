// Package iterator implements lazy iterables over a pull-based cursor
// protocol.
//
// An Iterable produces a fresh Iterator on every call to Itr. Combinators
// (Where, Take, Skip, Map, Expand...) return views that hold a reference to
// their source and do no work until an iterator over them is advanced.
//
// Failures are returned as errors from the terminal operations. An iterator
// that fails stops: Move returns false from then on and Err reports why.
package iterator

// Iterator is a single-use forward cursor.
type Iterator[V any] interface {
	// Move advances to the next element and reports whether there was one.
	// Once Move has returned false it keeps returning false.
	Move() bool

	// Current returns the element at the cursor. It returns the zero value
	// before the first successful Move and after Move returns false.
	Current() V

	// Err returns the failure that ended the iteration, or nil when the
	// iterator is still running or ran out of elements normally.
	Err() error
}

type Iterable[V any] interface {
	Itr() Iterator[V]

	Length() (int, error)

	IsEmpty() (bool, error)

	IsNotEmpty() (bool, error)

	First() (V, error)

	Last() (V, error)

	Single() (V, error)

	ElementAt(index int) (V, error)

	Any(pred func(V) bool) (bool, error)

	Every(pred func(V) bool) (bool, error)

	FirstWhere(pred func(V) bool, orElse func() V) (V, error)

	LastWhere(pred func(V) bool, orElse func() V) (V, error)

	SingleWhere(pred func(V) bool, orElse func() V) (V, error)

	Join(separator string) (string, error)

	Reduce(combine func(V, V) V) (V, error)

	ForEach(f func(V)) error

	ToSlice() ([]V, error)

	ToList(growable bool) (MutableList[V], error)

	Take(n int) (Iterable[V], error)

	Skip(n int) (Iterable[V], error)

	TakeWhile(pred func(V) bool) Iterable[V]

	SkipWhile(pred func(V) bool) Iterable[V]

	Where(pred func(V) bool) Iterable[V]

	FollowedBy(itr ...Iterable[V]) Iterable[V]

	Reversed() Iterable[V]
}

// EfficientLength is implemented by iterables that know their length
// without iterating.
type EfficientLength interface {
	Len() int
}

// List is the read surface of an indexable collection. Len is live: it
// reflects the current size of the collection every time it is called.
// At may assume 0 <= index < Len().
type List[V any] interface {
	Len() int
	At(index int) V
}
