package iterator

import "github.com/johnjamespj/corelib/pkg/errs"

// ListMapView is a read-only map view of a list keyed by index. Only keys in
// [0, Len()) are present; the set of keys follows the live list length.
type ListMapView[V any] struct {
	values List[V]
}

func NewListMapView[V any](values List[V]) *ListMapView[V] {
	return &ListMapView[V]{values: values}
}

func (m *ListMapView[V]) Len() int { return m.values.Len() }

func (m *ListMapView[V]) IsEmpty() bool { return m.values.Len() == 0 }

func (m *ListMapView[V]) ContainsKey(key int) bool {
	return key >= 0 && key < m.values.Len()
}

// Get returns the element at key and whether key is present.
func (m *ListMapView[V]) Get(key int) (V, bool) {
	if !m.ContainsKey(key) {
		return zero[V](), false
	}
	return m.values.At(key), true
}

func (m *ListMapView[V]) Keys() *ListIterable[int] {
	return NewListIterable[int](&indicesView[V]{backing: m.values})
}

func (m *ListMapView[V]) Values() *ListIterable[V] {
	return NewListIterable[V](m.values)
}

func (m *ListMapView[V]) ForEach(f func(key int, value V)) error {
	length := m.values.Len()
	for i := 0; i < length; i++ {
		f(i, m.values.At(i))
		if m.values.Len() != length {
			return errs.ConcurrentModification(m.values)
		}
	}
	return nil
}

func (m *ListMapView[V]) Set(int, V) error {
	return errs.Unsupported("modify an unmodifiable map")
}

func (m *ListMapView[V]) Remove(int) error {
	return errs.Unsupported("modify an unmodifiable map")
}

func (m *ListMapView[V]) Clear() error {
	return errs.Unsupported("modify an unmodifiable map")
}

type indicesView[V any] struct {
	backing List[V]
}

func (v *indicesView[V]) Len() int { return v.backing.Len() }

func (v *indicesView[V]) At(index int) int { return index }
