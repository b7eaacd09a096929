package iterator

import "github.com/johnjamespj/corelib/pkg/errs"

// EmptyIterable never yields an element. Every operation is constant time.
type EmptyIterable[V any] struct{}

// Empty returns the empty iterable of V.
func Empty[V any]() *EmptyIterable[V] {
	return &EmptyIterable[V]{}
}

func (e *EmptyIterable[V]) Itr() Iterator[V] { return emptyIterator[V]{} }

func (e *EmptyIterable[V]) Len() int { return 0 }

func (e *EmptyIterable[V]) Length() (int, error) { return 0, nil }

func (e *EmptyIterable[V]) IsEmpty() (bool, error) { return true, nil }

func (e *EmptyIterable[V]) IsNotEmpty() (bool, error) { return false, nil }

func (e *EmptyIterable[V]) First() (V, error) { return zero[V](), errs.NoElement() }

func (e *EmptyIterable[V]) Last() (V, error) { return zero[V](), errs.NoElement() }

func (e *EmptyIterable[V]) Single() (V, error) { return zero[V](), errs.NoElement() }

func (e *EmptyIterable[V]) ElementAt(index int) (V, error) {
	return zero[V](), errs.IndexOutOfRange(index, 0, "index")
}

func (e *EmptyIterable[V]) Any(func(V) bool) (bool, error) { return false, nil }

func (e *EmptyIterable[V]) Every(func(V) bool) (bool, error) { return true, nil }

func (e *EmptyIterable[V]) FirstWhere(_ func(V) bool, orElse func() V) (V, error) {
	return fallback(orElse)
}

func (e *EmptyIterable[V]) LastWhere(_ func(V) bool, orElse func() V) (V, error) {
	return fallback(orElse)
}

func (e *EmptyIterable[V]) SingleWhere(_ func(V) bool, orElse func() V) (V, error) {
	return fallback(orElse)
}

func (e *EmptyIterable[V]) Join(string) (string, error) { return "", nil }

func (e *EmptyIterable[V]) Reduce(func(V, V) V) (V, error) { return zero[V](), errs.NoElement() }

func (e *EmptyIterable[V]) ForEach(func(V)) error { return nil }

func (e *EmptyIterable[V]) ToSlice() ([]V, error) { return []V{}, nil }

func (e *EmptyIterable[V]) ToList(growable bool) (MutableList[V], error) {
	return newListFromSlice([]V{}, growable), nil
}

func (e *EmptyIterable[V]) Take(n int) (Iterable[V], error) {
	if err := errs.CheckNotNegative(n, "count"); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *EmptyIterable[V]) Skip(n int) (Iterable[V], error) {
	if err := errs.CheckNotNegative(n, "count"); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *EmptyIterable[V]) TakeWhile(func(V) bool) Iterable[V] { return e }

func (e *EmptyIterable[V]) SkipWhile(func(V) bool) Iterable[V] { return e }

func (e *EmptyIterable[V]) Where(func(V) bool) Iterable[V] { return e }

func (e *EmptyIterable[V]) FollowedBy(itr ...Iterable[V]) Iterable[V] {
	switch len(itr) {
	case 0:
		return e
	case 1:
		return itr[0]
	}
	return newFollowedByIterable(itr)
}

func (e *EmptyIterable[V]) Reversed() Iterable[V] { return e }
