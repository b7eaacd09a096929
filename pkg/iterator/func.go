package iterator

import "github.com/johnjamespj/corelib/pkg/errs"

// Map returns a lazy view yielding f(x) for each x of it.
//
// The concrete view depends on what it can do: list-backed sources give an
// indexable view, sources with an efficient length keep that capability.
func Map[T, U any](it Iterable[T], f func(T) U) Iterable[U] {
	switch src := it.(type) {
	case *EmptyIterable[T]:
		return Empty[U]()
	case List[T]:
		return NewListIterable[U](&mappedListView[T, U]{source: src, f: f})
	}
	return newMappedIterable(it, f)
}

// Expand returns a lazy view that flattens f(x) for each x of it.
func Expand[T, U any](it Iterable[T], f func(T) Iterable[U]) Iterable[U] {
	return BaseIterableFrom(func() Iterator[U] {
		return &expandIterator[T, U]{
			inner:     it.Itr(),
			f:         f,
			expansion: emptyIterator[U]{},
		}
	})
}

// WhereType returns a lazy view of the elements of it whose dynamic type is U.
func WhereType[T, U any](it Iterable[T]) Iterable[U] {
	return BaseIterableFrom(func() Iterator[U] {
		return &whereTypeIterator[T, U]{inner: it.Itr()}
	})
}

// Fold combines the elements of it into initial, in iteration order.
func Fold[V, R any](it Iterable[V], initial R, combine func(R, V) R) (R, error) {
	value := initial
	if list, ok := it.(List[V]); ok {
		length := list.Len()
		for i := 0; i < length; i++ {
			value = combine(value, list.At(i))
			if list.Len() != length {
				return initial, errs.ConcurrentModification(list)
			}
		}
		return value, nil
	}

	itr := it.Itr()
	for itr.Move() {
		value = combine(value, itr.Current())
	}
	if err := itr.Err(); err != nil {
		return initial, err
	}
	return value, nil
}

// Contains reports whether it yields an element equal to element.
func Contains[V comparable](it Iterable[V], element V) (bool, error) {
	if list, ok := it.(List[V]); ok {
		length := list.Len()
		for i := 0; i < length; i++ {
			if list.At(i) == element {
				return true, nil
			}
			if list.Len() != length {
				return false, errs.ConcurrentModification(list)
			}
		}
		return false, nil
	}

	return it.Any(func(v V) bool { return v == element })
}

// IndexOf returns the first index >= start holding element, or -1.
func IndexOf[V comparable](list List[V], element V, start int) int {
	for i := max(start, 0); i < list.Len(); i++ {
		if list.At(i) == element {
			return i
		}
	}
	return -1
}

// LastIndexOf returns the last index <= start holding element, or -1.
// A negative start searches from the end.
func LastIndexOf[V comparable](list List[V], element V, start int) int {
	length := list.Len()
	if start < 0 || start >= length {
		start = length - 1
	}
	for i := start; i >= 0; i-- {
		if list.At(i) == element {
			return i
		}
	}
	return -1
}

// ToSet collects the distinct elements of it.
func ToSet[V comparable](it Iterable[V]) (map[V]struct{}, error) {
	set := make(map[V]struct{})
	err := it.ForEach(func(v V) {
		set[v] = struct{}{}
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

type Group[K comparable, V any] struct {
	Key    K
	Values []V
}

// GroupBy partitions it by key, keeping groups and their values in the
// order they were first seen.
func GroupBy[V any, K comparable](it Iterable[V], key func(V) K) ([]Group[K, V], error) {
	var groups []Group[K, V]
	index := make(map[K]int)

	err := it.ForEach(func(v V) {
		k := key(v)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[K, V]{Key: k})
		}
		groups[i].Values = append(groups[i].Values, v)
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}
