package iterator

import (
	"github.com/johnjamespj/corelib/pkg/errs"
	"github.com/johnjamespj/corelib/pkg/sorting"
)

// MutableList is an indexable collection that may support writes. Which
// writes are allowed depends on the capability class of the receiver;
// disallowed ones fail with an Unsupported error.
type MutableList[V any] interface {
	Iterable[V]
	List[V]

	Set(index int, value V) error

	// SetRange copies elements of from, after skipping skipCount of them,
	// into [start, end).
	SetRange(start, end int, from Iterable[V], skipCount int) error

	// SetAll overwrites elements starting at index with values.
	SetAll(index int, values Iterable[V]) error

	Sort(compare func(a, b V) int) error

	Add(value V) error

	AddAll(values Iterable[V]) error

	Insert(index int, value V) error

	RemoveAt(index int) (V, error)

	RemoveLast() (V, error)

	RemoveWhere(pred func(V) bool) error

	RetainWhere(pred func(V) bool) error

	Clear() error
}

func newListFromSlice[V any](items []V, growable bool) MutableList[V] {
	list := NewGrowableList[V]()
	list.items = items
	if growable {
		return list
	}
	return NewFixedLengthList[V](list)
}

// GrowableList is a slice-backed resizable list.
type GrowableList[V any] struct {
	*ListIterable[V]
	items []V
}

// NewGrowableList returns a list holding a copy of items.
func NewGrowableList[V any](items ...V) *GrowableList[V] {
	l := &GrowableList[V]{items: append([]V(nil), items...)}
	l.ListIterable = NewListIterable[V](l)
	return l
}

func (l *GrowableList[V]) Len() int { return len(l.items) }

func (l *GrowableList[V]) At(index int) V { return l.items[index] }

func (l *GrowableList[V]) Set(index int, value V) error {
	if err := errs.CheckValidIndex(index, len(l.items), "index"); err != nil {
		return err
	}
	l.items[index] = value
	return nil
}

func (l *GrowableList[V]) SetRange(start, end int, from Iterable[V], skipCount int) error {
	if err := errs.CheckValidRange(start, end, len(l.items)); err != nil {
		return err
	}
	length := end - start
	if length == 0 {
		return nil
	}
	if err := errs.CheckNotNegative(skipCount, "skipCount"); err != nil {
		return err
	}

	var src List[V]
	srcStart := skipCount
	if list, ok := from.(List[V]); ok {
		src = list
	} else {
		skipped, err := from.Skip(skipCount)
		if err != nil {
			return err
		}
		items, err := skipped.ToSlice()
		if err != nil {
			return err
		}
		src = sliceList[V](items)
		srcStart = 0
	}
	if srcStart+length > src.Len() {
		return errs.TooFew()
	}

	// Copy backwards when the source overlaps the destination ahead of it.
	if srcStart < start {
		for i := length - 1; i >= 0; i-- {
			l.items[start+i] = src.At(srcStart + i)
		}
	} else {
		for i := 0; i < length; i++ {
			l.items[start+i] = src.At(srcStart + i)
		}
	}
	return nil
}

func (l *GrowableList[V]) SetAll(index int, values Iterable[V]) error {
	items, err := values.ToSlice()
	if err != nil {
		return err
	}
	if err := errs.CheckValidRange(index, index+len(items), len(l.items)); err != nil {
		return err
	}
	copy(l.items[index:], items)
	return nil
}

func (l *GrowableList[V]) Sort(compare func(a, b V) int) error {
	sorting.Sort(l.items, compare)
	return nil
}

func (l *GrowableList[V]) Add(value V) error {
	l.items = append(l.items, value)
	return nil
}

func (l *GrowableList[V]) AddAll(values Iterable[V]) error {
	items, err := values.ToSlice()
	if err != nil {
		return err
	}
	l.items = append(l.items, items...)
	return nil
}

func (l *GrowableList[V]) Insert(index int, value V) error {
	if index < 0 || index > len(l.items) {
		return errs.IndexOutOfRange(index, len(l.items)+1, "index")
	}
	var z V
	l.items = append(l.items, z)
	copy(l.items[index+1:], l.items[index:])
	l.items[index] = value
	return nil
}

func (l *GrowableList[V]) RemoveAt(index int) (V, error) {
	if err := errs.CheckValidIndex(index, len(l.items), "index"); err != nil {
		return zero[V](), err
	}
	v := l.items[index]
	copy(l.items[index:], l.items[index+1:])
	l.items[len(l.items)-1] = zero[V]()
	l.items = l.items[:len(l.items)-1]
	return v, nil
}

func (l *GrowableList[V]) RemoveLast() (V, error) {
	if len(l.items) == 0 {
		return zero[V](), errs.NoElement()
	}
	return l.RemoveAt(len(l.items) - 1)
}

// RemoveWhere removes every element matching pred. The list is left
// untouched if pred modifies it during the scan.
func (l *GrowableList[V]) RemoveWhere(pred func(V) bool) error {
	return l.filter(pred, false)
}

// RetainWhere removes every element not matching pred. The list is left
// untouched if pred modifies it during the scan.
func (l *GrowableList[V]) RetainWhere(pred func(V) bool) error {
	return l.filter(pred, true)
}

func (l *GrowableList[V]) filter(pred func(V) bool, retainMatching bool) error {
	var retained []V
	length := len(l.items)
	for i := 0; i < length; i++ {
		v := l.items[i]
		if pred(v) == retainMatching {
			retained = append(retained, v)
		}
		if len(l.items) != length {
			return errs.ConcurrentModification(l)
		}
	}
	if len(retained) != length {
		clear(l.items[len(retained):])
		l.items = append(l.items[:0], retained...)
	}
	return nil
}

func (l *GrowableList[V]) Clear() error {
	clear(l.items)
	l.items = l.items[:0]
	return nil
}

// Sublist returns a new list holding a copy of [start, end).
func (l *GrowableList[V]) Sublist(start, end int) (*GrowableList[V], error) {
	if err := errs.CheckValidRange(start, end, len(l.items)); err != nil {
		return nil, err
	}
	return NewGrowableList(l.items[start:end]...), nil
}

// AsMap returns an index-keyed view of the list.
func (l *GrowableList[V]) AsMap() *ListMapView[V] {
	return NewListMapView[V](l)
}

// FixedLengthList allows element writes on an inner list but rejects every
// operation that would change its length.
type FixedLengthList[V any] struct {
	*ListIterable[V]
	inner MutableList[V]
}

func NewFixedLengthList[V any](inner MutableList[V]) *FixedLengthList[V] {
	return &FixedLengthList[V]{
		ListIterable: NewListIterable[V](inner),
		inner:        inner,
	}
}

func (f *FixedLengthList[V]) Len() int { return f.inner.Len() }

func (f *FixedLengthList[V]) At(index int) V { return f.inner.At(index) }

func (f *FixedLengthList[V]) Set(index int, value V) error {
	return f.inner.Set(index, value)
}

func (f *FixedLengthList[V]) SetRange(start, end int, from Iterable[V], skipCount int) error {
	return f.inner.SetRange(start, end, from, skipCount)
}

func (f *FixedLengthList[V]) SetAll(index int, values Iterable[V]) error {
	return f.inner.SetAll(index, values)
}

func (f *FixedLengthList[V]) Sort(compare func(a, b V) int) error {
	return f.inner.Sort(compare)
}

func (f *FixedLengthList[V]) Add(V) error {
	return errs.Unsupported("add to a fixed-length list")
}

func (f *FixedLengthList[V]) AddAll(Iterable[V]) error {
	return errs.Unsupported("add to a fixed-length list")
}

func (f *FixedLengthList[V]) Insert(int, V) error {
	return errs.Unsupported("add to a fixed-length list")
}

func (f *FixedLengthList[V]) RemoveAt(int) (V, error) {
	return zero[V](), errs.Unsupported("remove from a fixed-length list")
}

func (f *FixedLengthList[V]) RemoveLast() (V, error) {
	return zero[V](), errs.Unsupported("remove from a fixed-length list")
}

func (f *FixedLengthList[V]) RemoveWhere(func(V) bool) error {
	return errs.Unsupported("remove from a fixed-length list")
}

func (f *FixedLengthList[V]) RetainWhere(func(V) bool) error {
	return errs.Unsupported("remove from a fixed-length list")
}

func (f *FixedLengthList[V]) Clear() error {
	return errs.Unsupported("clear a fixed-length list")
}

// UnmodifiableList exposes the read surface of a list. The view is live:
// changes made through the original list are visible.
type UnmodifiableList[V any] struct {
	*ListIterable[V]
	inner List[V]
}

func NewUnmodifiableList[V any](inner List[V]) *UnmodifiableList[V] {
	return &UnmodifiableList[V]{
		ListIterable: NewListIterable[V](inner),
		inner:        inner,
	}
}

func (u *UnmodifiableList[V]) Len() int { return u.inner.Len() }

func (u *UnmodifiableList[V]) At(index int) V { return u.inner.At(index) }

func (u *UnmodifiableList[V]) Set(int, V) error {
	return errs.Unsupported("modify an unmodifiable list")
}

func (u *UnmodifiableList[V]) SetRange(int, int, Iterable[V], int) error {
	return errs.Unsupported("modify an unmodifiable list")
}

func (u *UnmodifiableList[V]) SetAll(int, Iterable[V]) error {
	return errs.Unsupported("modify an unmodifiable list")
}

func (u *UnmodifiableList[V]) Sort(func(a, b V) int) error {
	return errs.Unsupported("modify an unmodifiable list")
}

func (u *UnmodifiableList[V]) Add(V) error {
	return errs.Unsupported("add to an unmodifiable list")
}

func (u *UnmodifiableList[V]) AddAll(Iterable[V]) error {
	return errs.Unsupported("add to an unmodifiable list")
}

func (u *UnmodifiableList[V]) Insert(int, V) error {
	return errs.Unsupported("add to an unmodifiable list")
}

func (u *UnmodifiableList[V]) RemoveAt(int) (V, error) {
	return zero[V](), errs.Unsupported("remove from an unmodifiable list")
}

func (u *UnmodifiableList[V]) RemoveLast() (V, error) {
	return zero[V](), errs.Unsupported("remove from an unmodifiable list")
}

func (u *UnmodifiableList[V]) RemoveWhere(func(V) bool) error {
	return errs.Unsupported("remove from an unmodifiable list")
}

func (u *UnmodifiableList[V]) RetainWhere(func(V) bool) error {
	return errs.Unsupported("remove from an unmodifiable list")
}

func (u *UnmodifiableList[V]) Clear() error {
	return errs.Unsupported("clear an unmodifiable list")
}
