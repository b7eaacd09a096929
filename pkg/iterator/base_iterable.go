package iterator

import (
	"fmt"
	"strings"

	"github.com/johnjamespj/corelib/pkg/errs"
)

// BaseIterable implements every Iterable operation on top of an iterator
// factory. Views embed it and override what they can do faster.
type BaseIterable[V any] struct {
	builder func() Iterator[V]
	// self is the outermost value embedding this base. Combinators use it as
	// their source so capability checks (EfficientLength) see the real type.
	self Iterable[V]
}

func BaseIterableFrom[V any](builder func() Iterator[V]) *BaseIterable[V] {
	b := &BaseIterable[V]{builder: builder}
	b.self = b
	return b
}

func newBase[V any](self Iterable[V], builder func() Iterator[V]) *BaseIterable[V] {
	return &BaseIterable[V]{builder: builder, self: self}
}

func (i *BaseIterable[V]) bind(self Iterable[V]) {
	i.self = self
}

func (i *BaseIterable[V]) Itr() Iterator[V] {
	return i.builder()
}

func (i *BaseIterable[V]) Length() (int, error) {
	if el, ok := i.self.(EfficientLength); ok {
		return el.Len(), nil
	}

	itr := i.Itr()
	count := 0
	for itr.Move() {
		count++
	}
	return count, itr.Err()
}

func (i *BaseIterable[V]) IsEmpty() (bool, error) {
	if el, ok := i.self.(EfficientLength); ok {
		return el.Len() == 0, nil
	}

	itr := i.Itr()
	if itr.Move() {
		return false, nil
	}
	return true, itr.Err()
}

func (i *BaseIterable[V]) IsNotEmpty() (bool, error) {
	empty, err := i.self.IsEmpty()
	return !empty && err == nil, err
}

func (i *BaseIterable[V]) First() (V, error) {
	itr := i.Itr()
	if !itr.Move() {
		return zero[V](), orNoElement(itr.Err())
	}
	return itr.Current(), nil
}

func (i *BaseIterable[V]) Last() (V, error) {
	itr := i.Itr()
	if !itr.Move() {
		return zero[V](), orNoElement(itr.Err())
	}

	result := itr.Current()
	for itr.Move() {
		result = itr.Current()
	}
	if err := itr.Err(); err != nil {
		return zero[V](), err
	}
	return result, nil
}

func (i *BaseIterable[V]) Single() (V, error) {
	itr := i.Itr()
	if !itr.Move() {
		return zero[V](), orNoElement(itr.Err())
	}

	result := itr.Current()
	if itr.Move() {
		return zero[V](), errs.TooMany()
	}
	if err := itr.Err(); err != nil {
		return zero[V](), err
	}
	return result, nil
}

func (i *BaseIterable[V]) ElementAt(index int) (V, error) {
	if index < 0 {
		return zero[V](), errs.IndexOutOfRange(index, 0, "index")
	}

	itr := i.Itr()
	count := 0
	for itr.Move() {
		if count == index {
			return itr.Current(), nil
		}
		count++
	}
	if err := itr.Err(); err != nil {
		return zero[V](), err
	}
	return zero[V](), errs.IndexOutOfRange(index, count, "index")
}

func (i *BaseIterable[V]) Any(pred func(V) bool) (bool, error) {
	itr := i.Itr()
	for itr.Move() {
		if pred(itr.Current()) {
			return true, nil
		}
	}
	return false, itr.Err()
}

func (i *BaseIterable[V]) Every(pred func(V) bool) (bool, error) {
	itr := i.Itr()
	for itr.Move() {
		if !pred(itr.Current()) {
			return false, nil
		}
	}
	if err := itr.Err(); err != nil {
		return false, err
	}
	return true, nil
}

func (i *BaseIterable[V]) FirstWhere(pred func(V) bool, orElse func() V) (V, error) {
	itr := i.Itr()
	for itr.Move() {
		if v := itr.Current(); pred(v) {
			return v, nil
		}
	}
	if err := itr.Err(); err != nil {
		return zero[V](), err
	}
	return fallback(orElse)
}

func (i *BaseIterable[V]) LastWhere(pred func(V) bool, orElse func() V) (V, error) {
	itr := i.Itr()
	var result V
	found := false
	for itr.Move() {
		if v := itr.Current(); pred(v) {
			result = v
			found = true
		}
	}
	if err := itr.Err(); err != nil {
		return zero[V](), err
	}
	if found {
		return result, nil
	}
	return fallback(orElse)
}

func (i *BaseIterable[V]) SingleWhere(pred func(V) bool, orElse func() V) (V, error) {
	itr := i.Itr()
	var result V
	found := false
	for itr.Move() {
		v := itr.Current()
		if !pred(v) {
			continue
		}
		if found {
			return zero[V](), errs.TooMany()
		}
		result = v
		found = true
	}
	if err := itr.Err(); err != nil {
		return zero[V](), err
	}
	if found {
		return result, nil
	}
	return fallback(orElse)
}

func (i *BaseIterable[V]) Join(separator string) (string, error) {
	itr := i.Itr()
	var sb strings.Builder
	for first := true; itr.Move(); first = false {
		if !first {
			sb.WriteString(separator)
		}
		fmt.Fprint(&sb, itr.Current())
	}
	if err := itr.Err(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (i *BaseIterable[V]) Reduce(combine func(V, V) V) (V, error) {
	itr := i.Itr()
	if !itr.Move() {
		return zero[V](), orNoElement(itr.Err())
	}

	value := itr.Current()
	for itr.Move() {
		value = combine(value, itr.Current())
	}
	if err := itr.Err(); err != nil {
		return zero[V](), err
	}
	return value, nil
}

func (i *BaseIterable[V]) ForEach(f func(V)) error {
	itr := i.Itr()
	for itr.Move() {
		f(itr.Current())
	}
	return itr.Err()
}

func (i *BaseIterable[V]) ToSlice() ([]V, error) {
	itr := i.Itr()
	list := []V{}
	for itr.Move() {
		list = append(list, itr.Current())
	}
	if err := itr.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (i *BaseIterable[V]) ToList(growable bool) (MutableList[V], error) {
	items, err := i.self.ToSlice()
	if err != nil {
		return nil, err
	}
	return newListFromSlice(items, growable), nil
}

func (i *BaseIterable[V]) Take(n int) (Iterable[V], error) {
	return newTakeIterable(i.self, n)
}

func (i *BaseIterable[V]) Skip(n int) (Iterable[V], error) {
	return newSkipIterable(i.self, n)
}

func (i *BaseIterable[V]) TakeWhile(pred func(V) bool) Iterable[V] {
	source := i.self
	return BaseIterableFrom(func() Iterator[V] {
		return &takeWhileIterator[V]{
			inner:     source.Itr(),
			predicate: pred,
		}
	})
}

func (i *BaseIterable[V]) SkipWhile(pred func(V) bool) Iterable[V] {
	source := i.self
	return BaseIterableFrom(func() Iterator[V] {
		return &skipWhileIterator[V]{
			inner:     source.Itr(),
			predicate: pred,
		}
	})
}

func (i *BaseIterable[V]) Where(pred func(V) bool) Iterable[V] {
	source := i.self
	return BaseIterableFrom(func() Iterator[V] {
		return &whereIterator[V]{
			inner:     source.Itr(),
			predicate: pred,
		}
	})
}

func (i *BaseIterable[V]) FollowedBy(itr ...Iterable[V]) Iterable[V] {
	sources := make([]Iterable[V], 0, len(itr)+1)
	sources = append(sources, i.self)
	sources = append(sources, itr...)
	return newFollowedByIterable(sources)
}

// Reversed buffers the whole source on the first Move of each iterator.
func (i *BaseIterable[V]) Reversed() Iterable[V] {
	source := i.self
	return BaseIterableFrom(func() Iterator[V] {
		return &reversedIterator[V]{inner: source.Itr()}
	})
}

func zero[V any]() V {
	var v V
	return v
}

func orNoElement(err error) error {
	if err != nil {
		return err
	}
	return errs.NoElement()
}

func fallback[V any](orElse func() V) (V, error) {
	if orElse != nil {
		return orElse(), nil
	}
	return zero[V](), errs.NoElement()
}
