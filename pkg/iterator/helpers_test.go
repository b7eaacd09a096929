package iterator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func must2[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func collect[V any](t *testing.T, it Iterable[V]) []V {
	t.Helper()
	got, err := it.ToSlice()
	require.NoError(t, err)
	return got
}

// countingSource is a generator whose element accessor records every call.
type countingSource struct {
	*ListIterable[int]
	calls []int
}

func newCountingSource(length int) *countingSource {
	c := &countingSource{}
	c.ListIterable = must2(NewGeneratorIterable(func(i int) int {
		c.calls = append(c.calls, i)
		return i
	}, length))
	return c
}

// streamOf hides every capability of list except iteration.
func streamOf[V any](items ...V) Iterable[V] {
	return BaseIterableFrom(func() Iterator[V] {
		return newListIterator[V](sliceList[V](items))
	})
}
