package util

// Comparable is implemented by types with a natural order. CompareTo
// returns a negative number, zero or a positive number when the receiver
// sorts before, with or after other.
type Comparable[T any] interface {
	CompareTo(other T) int
}

// Compare orders two Comparable values; it fits sorting comparator slots.
func Compare[T Comparable[T]](a, b T) int {
	return a.CompareTo(b)
}
