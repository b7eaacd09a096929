package iterator

import (
	"fmt"
	"strings"

	"github.com/johnjamespj/corelib/pkg/errs"
)

// ListIterable is an Iterable over a List with O(1) indexed access.
//
// Every index loop reads the list length once at the start and compares it
// with the live length after each element it hands to caller code. A
// mismatch aborts the operation with a ConcurrentModification error.
type ListIterable[V any] struct {
	*BaseIterable[V]
	list List[V]
}

func NewListIterable[V any](list List[V]) *ListIterable[V] {
	l := &ListIterable[V]{list: list}
	l.BaseIterable = newBase[V](l, func() Iterator[V] {
		return newListIterator[V](list)
	})
	return l
}

func (l *ListIterable[V]) Len() int {
	return l.list.Len()
}

func (l *ListIterable[V]) At(index int) V {
	return l.list.At(index)
}

func (l *ListIterable[V]) Length() (int, error) {
	return l.list.Len(), nil
}

func (l *ListIterable[V]) IsEmpty() (bool, error) {
	return l.list.Len() == 0, nil
}

func (l *ListIterable[V]) IsNotEmpty() (bool, error) {
	return l.list.Len() != 0, nil
}

func (l *ListIterable[V]) First() (V, error) {
	if l.list.Len() == 0 {
		return zero[V](), errs.NoElement()
	}
	return l.list.At(0), nil
}

func (l *ListIterable[V]) Last() (V, error) {
	length := l.list.Len()
	if length == 0 {
		return zero[V](), errs.NoElement()
	}
	return l.list.At(length - 1), nil
}

func (l *ListIterable[V]) Single() (V, error) {
	switch l.list.Len() {
	case 0:
		return zero[V](), errs.NoElement()
	case 1:
		return l.list.At(0), nil
	}
	return zero[V](), errs.TooMany()
}

func (l *ListIterable[V]) ElementAt(index int) (V, error) {
	if sub, ok := l.list.(*subListView[V]); ok {
		return sub.elementAt(index)
	}
	if err := errs.CheckValidIndex(index, l.list.Len(), "index"); err != nil {
		return zero[V](), err
	}
	return l.list.At(index), nil
}

func (l *ListIterable[V]) ForEach(f func(V)) error {
	length := l.list.Len()
	for i := 0; i < length; i++ {
		f(l.list.At(i))
		if err := l.checkLength(length); err != nil {
			return err
		}
	}
	return nil
}

func (l *ListIterable[V]) Any(pred func(V) bool) (bool, error) {
	length := l.list.Len()
	for i := 0; i < length; i++ {
		if pred(l.list.At(i)) {
			return true, nil
		}
		if err := l.checkLength(length); err != nil {
			return false, err
		}
	}
	return false, nil
}

func (l *ListIterable[V]) Every(pred func(V) bool) (bool, error) {
	length := l.list.Len()
	for i := 0; i < length; i++ {
		if !pred(l.list.At(i)) {
			return false, nil
		}
		if err := l.checkLength(length); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (l *ListIterable[V]) FirstWhere(pred func(V) bool, orElse func() V) (V, error) {
	length := l.list.Len()
	for i := 0; i < length; i++ {
		v := l.list.At(i)
		if pred(v) {
			return v, nil
		}
		if err := l.checkLength(length); err != nil {
			return zero[V](), err
		}
	}
	return fallback(orElse)
}

func (l *ListIterable[V]) LastWhere(pred func(V) bool, orElse func() V) (V, error) {
	length := l.list.Len()
	for i := length - 1; i >= 0; i-- {
		v := l.list.At(i)
		if pred(v) {
			return v, nil
		}
		if err := l.checkLength(length); err != nil {
			return zero[V](), err
		}
	}
	return fallback(orElse)
}

func (l *ListIterable[V]) SingleWhere(pred func(V) bool, orElse func() V) (V, error) {
	length := l.list.Len()
	var match V
	found := false
	for i := 0; i < length; i++ {
		v := l.list.At(i)
		if pred(v) {
			if found {
				return zero[V](), errs.TooMany()
			}
			found = true
			match = v
		}
		if err := l.checkLength(length); err != nil {
			return zero[V](), err
		}
	}
	if found {
		return match, nil
	}
	return fallback(orElse)
}

func (l *ListIterable[V]) Join(separator string) (string, error) {
	length := l.list.Len()
	var sb strings.Builder
	for i := 0; i < length; i++ {
		if i > 0 {
			sb.WriteString(separator)
		}
		fmt.Fprint(&sb, l.list.At(i))
		if err := l.checkLength(length); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

func (l *ListIterable[V]) Reduce(combine func(V, V) V) (V, error) {
	length := l.list.Len()
	if length == 0 {
		return zero[V](), errs.NoElement()
	}

	value := l.list.At(0)
	for i := 1; i < length; i++ {
		value = combine(value, l.list.At(i))
		if err := l.checkLength(length); err != nil {
			return zero[V](), err
		}
	}
	return value, nil
}

func (l *ListIterable[V]) ToSlice() ([]V, error) {
	if sub, ok := l.list.(*subListView[V]); ok {
		return sub.toSlice()
	}

	length := l.list.Len()
	result := make([]V, 0, length)
	for i := 0; i < length; i++ {
		result = append(result, l.list.At(i))
		if err := l.checkLength(length); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (l *ListIterable[V]) ToList(growable bool) (MutableList[V], error) {
	items, err := l.ToSlice()
	if err != nil {
		return nil, err
	}
	return newListFromSlice(items, growable), nil
}

func (l *ListIterable[V]) Take(n int) (Iterable[V], error) {
	if err := errs.CheckNotNegative(n, "count"); err != nil {
		return nil, err
	}
	if sub, ok := l.list.(*subListView[V]); ok {
		return sub.take(l, n)
	}
	return asIterable(newSubListIterable[V](l.list, 0, n, true))
}

func (l *ListIterable[V]) Skip(n int) (Iterable[V], error) {
	if err := errs.CheckNotNegative(n, "count"); err != nil {
		return nil, err
	}
	if sub, ok := l.list.(*subListView[V]); ok {
		return sub.skip(n)
	}
	return asIterable(newSubListIterable[V](l.list, n, 0, false))
}

func (l *ListIterable[V]) Reversed() Iterable[V] {
	if rev, ok := l.list.(*reversedListView[V]); ok {
		return NewListIterable[V](rev.source)
	}
	return NewListIterable[V](&reversedListView[V]{source: l.list})
}

// GetRange returns a live view of the elements in [start, end).
func (l *ListIterable[V]) GetRange(start, end int) (*ListIterable[V], error) {
	if err := errs.CheckValidRange(start, end, l.list.Len()); err != nil {
		return nil, err
	}
	return newSubListIterable[V](l.list, start, end, true)
}

func asIterable[V any](l *ListIterable[V], err error) (Iterable[V], error) {
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (l *ListIterable[V]) checkLength(length int) error {
	if l.list.Len() != length {
		return errs.ConcurrentModification(l.list)
	}
	return nil
}

// NewSubListIterable returns a view of source starting at start and ending
// at the optional end (exclusive). The window is recomputed against the live
// length of source on every access.
func NewSubListIterable[V any](source List[V], start int, end ...int) (*ListIterable[V], error) {
	if len(end) > 0 {
		return newSubListIterable[V](source, start, end[0], true)
	}
	return newSubListIterable[V](source, start, 0, false)
}

func newSubListIterable[V any](source List[V], start, end int, hasEnd bool) (*ListIterable[V], error) {
	if err := errs.CheckNotNegative(start, "start"); err != nil {
		return nil, err
	}
	if hasEnd {
		if err := errs.CheckNotNegative(end, "end"); err != nil {
			return nil, err
		}
		if start > end {
			return nil, errs.InvalidRange(start, end, end)
		}
	}
	return NewListIterable[V](&subListView[V]{
		source:   source,
		start:    start,
		end:      end,
		hasEnd:   hasEnd,
		capacity: source.Len(),
	}), nil
}

type subListView[V any] struct {
	source List[V]
	start  int
	end    int
	hasEnd bool

	// source length when the window was first declared
	capacity int
}

// derive builds a narrower window that keeps the original capacity, so a
// shrink before the derivation is still detected by toSlice.
func (s *subListView[V]) derive(start, end int, hasEnd bool) (Iterable[V], error) {
	l, err := newSubListIterable[V](s.source, start, end, hasEnd)
	if err != nil {
		return nil, err
	}
	l.list.(*subListView[V]).capacity = s.capacity
	return l, nil
}

func (s *subListView[V]) endIndex() int {
	length := s.source.Len()
	if !s.hasEnd || s.end > length {
		return length
	}
	return s.end
}

func (s *subListView[V]) startIndex() int {
	return min(s.start, s.source.Len())
}

func (s *subListView[V]) Len() int {
	length := s.source.Len()
	if s.start >= length {
		return 0
	}
	if !s.hasEnd || s.end >= length {
		return length - s.start
	}
	return s.end - s.start
}

func (s *subListView[V]) At(index int) V {
	return s.source.At(s.start + index)
}

func (s *subListView[V]) elementAt(index int) (V, error) {
	realIndex := s.startIndex() + index
	if index < 0 || realIndex >= s.endIndex() {
		return zero[V](), errs.IndexOutOfRange(index, s.Len(), "index")
	}
	return s.source.At(realIndex), nil
}

func (s *subListView[V]) skip(count int) (Iterable[V], error) {
	start := s.start + count
	if s.hasEnd && start >= s.end {
		return Empty[V](), nil
	}
	return s.derive(start, s.end, s.hasEnd)
}

func (s *subListView[V]) take(owner *ListIterable[V], count int) (Iterable[V], error) {
	end := s.start + count
	if s.hasEnd && s.end < end {
		return owner, nil
	}
	return s.derive(s.start, end, true)
}

// toSlice fails if the source has shrunk below the part of the window it
// covered when the view was declared, or if it shrinks while being copied.
// A declared end past the source length is not a modification.
func (s *subListView[V]) toSlice() ([]V, error) {
	end := s.source.Len()
	if s.hasEnd {
		if end < min(s.end, s.capacity) {
			return nil, errs.ConcurrentModification(s.source)
		}
		end = min(end, s.end)
	}

	length := max(end-s.start, 0)
	result := make([]V, 0, length)
	for i := 0; i < length; i++ {
		result = append(result, s.source.At(s.start+i))
		if s.source.Len() < end {
			return nil, errs.ConcurrentModification(s.source)
		}
	}
	return result, nil
}

type mappedListView[T, U any] struct {
	source List[T]
	f      func(T) U
}

func (m *mappedListView[T, U]) Len() int { return m.source.Len() }

func (m *mappedListView[T, U]) At(index int) U { return m.f(m.source.At(index)) }

type reversedListView[V any] struct {
	source List[V]
}

func (r *reversedListView[V]) Len() int { return r.source.Len() }

func (r *reversedListView[V]) At(index int) V {
	return r.source.At(r.source.Len() - 1 - index)
}
