package iterator

import "github.com/johnjamespj/corelib/pkg/errs"

type takeIterable[V any] struct {
	*BaseIterable[V]
	source Iterable[V]
	count  int
}

type efficientLengthTakeIterable[V any] struct {
	*takeIterable[V]
	length EfficientLength
}

func newTakeIterable[V any](source Iterable[V], count int) (Iterable[V], error) {
	if err := errs.CheckNotNegative(count, "count"); err != nil {
		return nil, err
	}

	t := &takeIterable[V]{source: source, count: count}
	t.BaseIterable = newBase[V](t, func() Iterator[V] {
		return &takeIterator[V]{inner: source.Itr(), remaining: count}
	})

	if el, ok := source.(EfficientLength); ok {
		e := &efficientLengthTakeIterable[V]{takeIterable: t, length: el}
		t.bind(e)
		return e, nil
	}
	return t, nil
}

func (t *efficientLengthTakeIterable[V]) Len() int {
	return min(t.length.Len(), t.count)
}

type skipIterable[V any] struct {
	*BaseIterable[V]
	source Iterable[V]
	count  int
}

type efficientLengthSkipIterable[V any] struct {
	*skipIterable[V]
	length EfficientLength
}

func newSkipIterable[V any](source Iterable[V], count int) (Iterable[V], error) {
	if err := errs.CheckNotNegative(count, "count"); err != nil {
		return nil, err
	}

	s := &skipIterable[V]{source: source, count: count}
	s.BaseIterable = newBase[V](s, func() Iterator[V] {
		return &skipIterator[V]{inner: source.Itr(), remaining: count}
	})

	if el, ok := source.(EfficientLength); ok {
		e := &efficientLengthSkipIterable[V]{skipIterable: s, length: el}
		s.bind(e)
		return e, nil
	}
	return s, nil
}

// Skip merges the counts instead of stacking another skip view.
func (s *skipIterable[V]) Skip(n int) (Iterable[V], error) {
	if err := errs.CheckNotNegative(n, "count"); err != nil {
		return nil, err
	}
	return newSkipIterable(s.source, s.count+n)
}

func (s *efficientLengthSkipIterable[V]) Len() int {
	return max(s.length.Len()-s.count, 0)
}

type mappedIterable[T, U any] struct {
	*BaseIterable[U]
	source Iterable[T]
	f      func(T) U
}

type efficientLengthMappedIterable[T, U any] struct {
	*mappedIterable[T, U]
	length EfficientLength
}

func newMappedIterable[T, U any](source Iterable[T], f func(T) U) Iterable[U] {
	m := &mappedIterable[T, U]{source: source, f: f}
	m.BaseIterable = newBase[U](m, func() Iterator[U] {
		return &mappedIterator[T, U]{inner: source.Itr(), f: f}
	})

	if el, ok := source.(EfficientLength); ok {
		e := &efficientLengthMappedIterable[T, U]{mappedIterable: m, length: el}
		m.bind(e)
		return e
	}
	return m
}

func (m *mappedIterable[T, U]) Length() (int, error) {
	return m.source.Length()
}

func (m *mappedIterable[T, U]) IsEmpty() (bool, error) {
	return m.source.IsEmpty()
}

func (m *mappedIterable[T, U]) First() (U, error) {
	return m.apply(m.source.First())
}

func (m *mappedIterable[T, U]) Last() (U, error) {
	return m.apply(m.source.Last())
}

func (m *mappedIterable[T, U]) Single() (U, error) {
	return m.apply(m.source.Single())
}

func (m *mappedIterable[T, U]) ElementAt(index int) (U, error) {
	return m.apply(m.source.ElementAt(index))
}

func (m *mappedIterable[T, U]) apply(v T, err error) (U, error) {
	if err != nil {
		return zero[U](), err
	}
	return m.f(v), nil
}

func (e *efficientLengthMappedIterable[T, U]) Len() int {
	return e.length.Len()
}

type followedByIterable[V any] struct {
	*BaseIterable[V]
	sources []Iterable[V]
}

type efficientLengthFollowedByIterable[V any] struct {
	*followedByIterable[V]
}

func newFollowedByIterable[V any](sources []Iterable[V]) Iterable[V] {
	f := &followedByIterable[V]{sources: sources}
	f.BaseIterable = newBase[V](f, func() Iterator[V] {
		return &followedByIterator[V]{sources: sources}
	})

	for _, s := range sources {
		if _, ok := s.(EfficientLength); !ok {
			return f
		}
	}
	e := &efficientLengthFollowedByIterable[V]{followedByIterable: f}
	f.bind(e)
	return e
}

func (f *followedByIterable[V]) FollowedBy(itr ...Iterable[V]) Iterable[V] {
	sources := make([]Iterable[V], 0, len(f.sources)+len(itr))
	sources = append(sources, f.sources...)
	sources = append(sources, itr...)
	return newFollowedByIterable(sources)
}

func (e *efficientLengthFollowedByIterable[V]) Len() int {
	total := 0
	for _, s := range e.sources {
		total += s.(EfficientLength).Len()
	}
	return total
}
