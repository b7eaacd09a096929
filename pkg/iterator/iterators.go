package iterator

import "github.com/johnjamespj/corelib/pkg/errs"

// NewSliceIterable returns a list-backed iterable over slice. The slice is
// not copied.
func NewSliceIterable[V any](slice []V) *ListIterable[V] {
	return NewListIterable[V](sliceList[V](slice))
}

// NewGeneratorIterable returns a list-backed iterable of length elements
// where element i is generator(i). Elements are computed on every access.
func NewGeneratorIterable[V any](generator func(idx int) V, length int) (*ListIterable[V], error) {
	if err := errs.CheckNotNegative(length, "length"); err != nil {
		return nil, err
	}
	return NewListIterable[V](&generatorList[V]{generator: generator, length: length}), nil
}

type sliceList[V any] []V

func (s sliceList[V]) Len() int { return len(s) }

func (s sliceList[V]) At(index int) V { return s[index] }

type generatorList[V any] struct {
	generator func(idx int) V
	length    int
}

func (g *generatorList[V]) Len() int { return g.length }

func (g *generatorList[V]) At(index int) V { return g.generator(index) }

type emptyIterator[V any] struct{}

func (emptyIterator[V]) Move() bool { return false }

func (emptyIterator[V]) Current() V { return zero[V]() }

func (emptyIterator[V]) Err() error { return nil }

// listIterator walks a List by index and fails if its length changes.
type listIterator[V any] struct {
	list    List[V]
	length  int
	index   int
	current V
	err     error
}

func newListIterator[V any](list List[V]) *listIterator[V] {
	return &listIterator[V]{list: list, length: list.Len()}
}

func (it *listIterator[V]) Move() bool {
	if it.err != nil {
		return false
	}

	length := it.list.Len()
	if it.length != length {
		it.err = errs.ConcurrentModification(it.list)
		it.current = zero[V]()
		return false
	}
	if it.index >= length {
		it.current = zero[V]()
		return false
	}

	it.current = it.list.At(it.index)
	it.index++
	return true
}

func (it *listIterator[V]) Current() V { return it.current }

func (it *listIterator[V]) Err() error { return it.err }

type mappedIterator[T, U any] struct {
	inner   Iterator[T]
	f       func(T) U
	current U
}

func (it *mappedIterator[T, U]) Move() bool {
	if it.inner.Move() {
		it.current = it.f(it.inner.Current())
		return true
	}
	it.current = zero[U]()
	return false
}

func (it *mappedIterator[T, U]) Current() U { return it.current }

func (it *mappedIterator[T, U]) Err() error { return it.inner.Err() }

type whereIterator[V any] struct {
	inner     Iterator[V]
	predicate func(V) bool
}

func (it *whereIterator[V]) Move() bool {
	for it.inner.Move() {
		if it.predicate(it.inner.Current()) {
			return true
		}
	}
	return false
}

func (it *whereIterator[V]) Current() V { return it.inner.Current() }

func (it *whereIterator[V]) Err() error { return it.inner.Err() }

type whereTypeIterator[T, U any] struct {
	inner   Iterator[T]
	current U
}

func (it *whereTypeIterator[T, U]) Move() bool {
	for it.inner.Move() {
		if v, ok := any(it.inner.Current()).(U); ok {
			it.current = v
			return true
		}
	}
	it.current = zero[U]()
	return false
}

func (it *whereTypeIterator[T, U]) Current() U { return it.current }

func (it *whereTypeIterator[T, U]) Err() error { return it.inner.Err() }

// expandIterator drains the current expansion before advancing the outer
// iterator.
type expandIterator[T, U any] struct {
	inner     Iterator[T]
	f         func(T) Iterable[U]
	expansion Iterator[U]
	current   U
	err       error
}

func (it *expandIterator[T, U]) Move() bool {
	if it.expansion == nil || it.err != nil {
		return false
	}

	for !it.expansion.Move() {
		it.current = zero[U]()
		if err := it.expansion.Err(); err != nil {
			it.fail(err)
			return false
		}
		if !it.inner.Move() {
			if err := it.inner.Err(); err != nil {
				it.err = err
			}
			it.expansion = nil
			return false
		}
		it.expansion = it.f(it.inner.Current()).Itr()
	}

	it.current = it.expansion.Current()
	return true
}

func (it *expandIterator[T, U]) fail(err error) {
	it.err = err
	it.expansion = nil
}

func (it *expandIterator[T, U]) Current() U { return it.current }

func (it *expandIterator[T, U]) Err() error { return it.err }

type takeIterator[V any] struct {
	inner     Iterator[V]
	remaining int
}

func (it *takeIterator[V]) Move() bool {
	it.remaining--
	if it.remaining >= 0 {
		return it.inner.Move()
	}
	it.remaining = -1
	return false
}

func (it *takeIterator[V]) Current() V {
	if it.remaining < 0 {
		return zero[V]()
	}
	return it.inner.Current()
}

func (it *takeIterator[V]) Err() error { return it.inner.Err() }

type takeWhileIterator[V any] struct {
	inner     Iterator[V]
	predicate func(V) bool
	finished  bool
}

func (it *takeWhileIterator[V]) Move() bool {
	if it.finished {
		return false
	}
	if !it.inner.Move() || !it.predicate(it.inner.Current()) {
		it.finished = true
		return false
	}
	return true
}

func (it *takeWhileIterator[V]) Current() V {
	if it.finished {
		return zero[V]()
	}
	return it.inner.Current()
}

func (it *takeWhileIterator[V]) Err() error { return it.inner.Err() }

type skipIterator[V any] struct {
	inner     Iterator[V]
	remaining int
}

func (it *skipIterator[V]) Move() bool {
	for ; it.remaining > 0; it.remaining-- {
		if !it.inner.Move() {
			it.remaining = 0
			return false
		}
	}
	return it.inner.Move()
}

func (it *skipIterator[V]) Current() V { return it.inner.Current() }

func (it *skipIterator[V]) Err() error { return it.inner.Err() }

type skipWhileIterator[V any] struct {
	inner     Iterator[V]
	predicate func(V) bool
	skipped   bool
}

func (it *skipWhileIterator[V]) Move() bool {
	if !it.skipped {
		it.skipped = true
		for it.inner.Move() {
			if !it.predicate(it.inner.Current()) {
				return true
			}
		}
		return false
	}
	return it.inner.Move()
}

func (it *skipWhileIterator[V]) Current() V { return it.inner.Current() }

func (it *skipWhileIterator[V]) Err() error { return it.inner.Err() }

// followedByIterator creates each source iterator only when the previous
// one is exhausted.
type followedByIterator[V any] struct {
	sources []Iterable[V]
	current Iterator[V]
	idx     int
}

func (it *followedByIterator[V]) Move() bool {
	for {
		if it.current != nil {
			if it.current.Move() {
				return true
			}
			if it.current.Err() != nil {
				it.sources = nil
				return false
			}
		}
		if it.idx >= len(it.sources) {
			return false
		}
		it.current = it.sources[it.idx].Itr()
		it.idx++
	}
}

func (it *followedByIterator[V]) Current() V {
	if it.current == nil {
		return zero[V]()
	}
	return it.current.Current()
}

func (it *followedByIterator[V]) Err() error {
	if it.current == nil {
		return nil
	}
	return it.current.Err()
}

type reversedIterator[V any] struct {
	inner   Iterator[V]
	stack   []V
	loaded  bool
	current V
	err     error
}

func (it *reversedIterator[V]) Move() bool {
	if !it.loaded {
		it.loaded = true
		for it.inner.Move() {
			it.stack = append(it.stack, it.inner.Current())
		}
		if err := it.inner.Err(); err != nil {
			it.err = err
			it.stack = nil
		}
	}

	if len(it.stack) == 0 {
		it.current = zero[V]()
		return false
	}
	it.current = it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	return true
}

func (it *reversedIterator[V]) Current() V { return it.current }

func (it *reversedIterator[V]) Err() error { return it.err }
