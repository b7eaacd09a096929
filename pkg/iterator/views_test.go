package iterator

import (
	"testing"

	"github.com/johnjamespj/corelib/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewsAreLazy(t *testing.T) {
	src := newCountingSource(10)

	mapped := Map[int, int](src, func(v int) int { return v * 10 })
	filtered := mapped.Where(func(v int) bool { return v%20 == 0 })
	taken := must2(filtered.Take(2))
	skipped := must2(taken.Skip(1))
	itr := taken.Itr()
	_ = skipped.TakeWhile(func(int) bool { return true })
	assert.Empty(t, src.calls)

	require.True(t, itr.Move())
	assert.Equal(t, 0, itr.Current())
	assert.Equal(t, []int{0}, src.calls)

	require.True(t, itr.Move())
	assert.Equal(t, 20, itr.Current())
	assert.Equal(t, []int{0, 1, 2}, src.calls)

	// The take limit is reached without pulling another element.
	assert.False(t, itr.Move())
	assert.Equal(t, []int{0, 1, 2}, src.calls)
	assert.NoError(t, itr.Err())
}

func TestSkipComposition(t *testing.T) {
	for name, it := range sources(0, 1, 2, 3, 4, 5, 6, 7) {
		t.Run(name, func(t *testing.T) {
			twice := must2(must2(it.Skip(2)).Skip(3))
			once := must2(it.Skip(5))
			assert.Equal(t, []int{5, 6, 7}, collect(t, twice))
			assert.Equal(t, collect(t, once), collect(t, twice))

			assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, collect(t, must2(it.Skip(0))))
			assert.Empty(t, collect(t, must2(it.Skip(8))))
			assert.Empty(t, collect(t, must2(it.Skip(20))))

			_, err := it.Skip(-1)
			assert.ErrorIs(t, err, errs.ErrInvalidArgument)
		})
	}
}

func TestSkipMergesCounts(t *testing.T) {
	stream := streamOf(0, 1, 2, 3, 4, 5, 6, 7)

	twice := must2(must2(stream.Skip(2)).Skip(3))
	merged, ok := twice.(*skipIterable[int])
	require.True(t, ok)
	assert.Equal(t, 5, merged.count)
	assert.Same(t, stream, merged.source)

	_, err := must2(stream.Skip(2)).Skip(-1)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestTake(t *testing.T) {
	for name, it := range sources(1, 2, 3, 4) {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, collect(t, must2(it.Take(0))))
			assert.Equal(t, []int{1, 2}, collect(t, must2(it.Take(2))))
			assert.Equal(t, []int{1, 2, 3, 4}, collect(t, must2(it.Take(4))))
			assert.Equal(t, []int{1, 2, 3, 4}, collect(t, must2(it.Take(10))))
			assert.Equal(t, []int{2, 3}, collect(t, must2(must2(it.Take(3)).Skip(1))))

			_, err := it.Take(-1)
			assert.ErrorIs(t, err, errs.ErrInvalidArgument)
		})
	}
}

func TestTakeIteratorStaysExhausted(t *testing.T) {
	itr := must2(streamOf(1, 2, 3).Take(1)).Itr()

	require.True(t, itr.Move())
	assert.Equal(t, 1, itr.Current())
	assert.False(t, itr.Move())
	assert.Equal(t, 0, itr.Current())
	assert.False(t, itr.Move())
}

func TestTakeWhile(t *testing.T) {
	small := func(v int) bool { return v < 3 }

	for name, it := range sources(1, 2, 5, 1, 2) {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, []int{1, 2}, collect(t, it.TakeWhile(small)))
			assert.Empty(t, collect(t, it.TakeWhile(func(int) bool { return false })))
			assert.Equal(t, []int{1, 2, 5, 1, 2}, collect(t, it.TakeWhile(func(int) bool { return true })))
		})
	}

	// Once the predicate fails the iterator never yields again, even though
	// later elements would match.
	itr := streamOf(1, 2, 5, 1, 2).TakeWhile(small).Itr()
	require.True(t, itr.Move())
	require.True(t, itr.Move())
	assert.False(t, itr.Move())
	assert.False(t, itr.Move())
	assert.Equal(t, 0, itr.Current())
}

func TestSkipWhile(t *testing.T) {
	for name, it := range sources(1, 2, 5, 1, 2) {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, []int{5, 1, 2}, collect(t, it.SkipWhile(func(v int) bool { return v < 3 })))
			assert.Equal(t, []int{1, 2, 5, 1, 2}, collect(t, it.SkipWhile(func(v int) bool { return v > 3 })))
			assert.Empty(t, collect(t, it.SkipWhile(func(int) bool { return true })))
		})
	}
}

func TestWhere(t *testing.T) {
	for name, it := range sources(1, 2, 3, 4, 5, 6) {
		t.Run(name, func(t *testing.T) {
			even := it.Where(func(v int) bool { return v%2 == 0 })
			assert.Equal(t, []int{2, 4, 6}, collect(t, even))
			assert.Equal(t, 3, must2(even.Length()))
			assert.Equal(t, 6, must2(even.Last()))
			assert.Empty(t, collect(t, it.Where(func(v int) bool { return v > 10 })))
		})
	}
}

func TestExpand(t *testing.T) {
	repeat := func(v int) Iterable[int] {
		items := make([]int, v)
		for i := range items {
			items[i] = v
		}
		return NewSliceIterable(items)
	}

	for name, it := range sources(1, 0, 2, 0, 3) {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, []int{1, 2, 2, 3, 3, 3}, collect(t, Expand(it, repeat)))
		})
	}

	assert.Empty(t, collect(t, Expand(streamOf(0, 0), repeat)))
	assert.Empty(t, collect(t, Expand(streamOf[int](), repeat)))
}

func TestExpandPropagatesErrors(t *testing.T) {
	list := NewGrowableList(1, 2)
	expanded := Expand[int, int](streamOf(1, 2), func(v int) Iterable[int] {
		if v == 2 {
			return list.Where(func(int) bool {
				_ = list.Add(0)
				return true
			})
		}
		return NewSliceIterable([]int{v})
	})

	_, err := expanded.ToSlice()
	assert.ErrorIs(t, err, errs.ErrConcurrentModification)
}

func TestFollowedBy(t *testing.T) {
	first := NewSliceIterable([]int{1, 2})
	second := streamOf(3)
	third := NewGrowableList(4, 5)

	chained := first.FollowedBy(second, third)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, collect(t, chained))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, collect(t, chained.FollowedBy(streamOf(6))))
	assert.Equal(t, []int{1, 2}, collect(t, first.FollowedBy()))
	assert.Equal(t, []int{3}, collect(t, Empty[int]().FollowedBy(second)))

	// Each traversal gets its own cursors.
	a, b := chained.Itr(), chained.Itr()
	require.True(t, a.Move())
	require.True(t, a.Move())
	require.True(t, a.Move())
	require.True(t, b.Move())
	assert.Equal(t, 3, a.Current())
	assert.Equal(t, 1, b.Current())

	// Sources are read lazily, so later changes are visible.
	require.NoError(t, third.Add(6))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, collect(t, chained))
}

func TestFollowedByFlattens(t *testing.T) {
	a, b, c := streamOf(1), streamOf(2), streamOf(3)

	nested := a.FollowedBy(b).FollowedBy(c)
	flat, ok := nested.(*followedByIterable[int])
	require.True(t, ok)
	assert.Len(t, flat.sources, 3)
	assert.Equal(t, []int{1, 2, 3}, collect(t, nested))
}

func TestEfficientLengthViews(t *testing.T) {
	chained := NewSliceIterable([]int{1, 2}).FollowedBy(NewSliceIterable([]int{3, 4}))

	el, ok := chained.(EfficientLength)
	require.True(t, ok)
	assert.Equal(t, 4, el.Len())
	assert.Equal(t, 4, must2(chained.Length()))

	taken := must2(chained.Take(3))
	require.Implements(t, (*EfficientLength)(nil), taken)
	assert.Equal(t, 3, taken.(EfficientLength).Len())
	assert.Equal(t, []int{1, 2, 3}, collect(t, taken))
	assert.Equal(t, 4, must2(chained.Take(10)).(EfficientLength).Len())

	skipped := must2(chained.Skip(3))
	require.Implements(t, (*EfficientLength)(nil), skipped)
	assert.Equal(t, 1, skipped.(EfficientLength).Len())
	assert.Equal(t, 0, must2(chained.Skip(10)).(EfficientLength).Len())
	assert.Equal(t, 0, must2(must2(chained.Skip(1)).Skip(9)).(EfficientLength).Len())

	mapped := Map(chained, func(v int) string { return string(rune('a' + v)) })
	require.Implements(t, (*EfficientLength)(nil), mapped)
	assert.Equal(t, 4, mapped.(EfficientLength).Len())
	assert.Equal(t, "b,c,d,e", must2(mapped.Join(",")))

	empty, err := must2(chained.Skip(4)).IsEmpty()
	require.NoError(t, err)
	assert.True(t, empty)

	_, ok = streamOf(1).FollowedBy(chained).(EfficientLength)
	assert.False(t, ok)
}

func TestReversed(t *testing.T) {
	for name, it := range sources(1, 2, 3) {
		t.Run(name, func(t *testing.T) {
			reversed := it.Reversed()
			assert.Equal(t, []int{3, 2, 1}, collect(t, reversed))
			assert.Equal(t, must2(it.Last()), must2(reversed.ElementAt(0)))
			assert.Equal(t, []int{1, 2, 3}, collect(t, reversed.Reversed()))
		})
	}
}

func TestMappedDelegatesToSource(t *testing.T) {
	calls := 0
	mapped := Map(streamOf(1, 2, 3), func(v int) int {
		calls++
		return v * 2
	})

	assert.Equal(t, 6, must2(mapped.Last()))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 4, must2(mapped.ElementAt(1)))
	assert.Equal(t, 2, calls)
	assert.Equal(t, 3, must2(mapped.Length()))
	assert.Equal(t, 2, calls)

	_, err := mapped.Single()
	assert.ErrorIs(t, err, errs.ErrTooManyElements)
	assert.Equal(t, 2, calls)
}
