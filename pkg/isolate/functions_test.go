package isolate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunctionResolver(t *testing.T) {
	r, err := NewFunctionResolver(2)
	require.NoError(t, err)

	require.NoError(t, r.Register("a", "fa"))
	require.NoError(t, r.Register("b", "fb"))
	assert.Error(t, r.Register("a", "again"))
	assert.Error(t, r.Register("", "fn"))
	assert.Error(t, r.Register("c", nil))

	assert.True(t, r.Has("a"))
	assert.False(t, r.Has("c"))

	fn, err := r.Resolve("b")
	require.NoError(t, err)
	assert.Equal(t, "fb", fn)

	_, err = r.Resolve("c")
	assert.ErrorIs(t, err, ErrUnknownFunction)
}

func TestFunctionResolver_Cache(t *testing.T) {
	r, err := NewFunctionResolver(2)
	require.NoError(t, err)
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, r.Register(name, "f"+name))
	}

	lookups := 0
	r.lookup = func(name string) (any, bool) {
		lookups++
		return r.find(name)
	}

	for i := 0; i < 3; i++ {
		_, err := r.Resolve("a")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, lookups)

	_, _ = r.Resolve("b")
	_, _ = r.Resolve("c")
	assert.Equal(t, 3, lookups)
	assert.Equal(t, 2, r.cache.Len())

	// "a" was evicted by "c"
	_, _ = r.Resolve("a")
	assert.Equal(t, 4, lookups)
}

func TestNewFunctionResolver_InvalidSize(t *testing.T) {
	_, err := NewFunctionResolver(0)
	assert.Error(t, err)
}
