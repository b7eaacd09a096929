package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := IndexOutOfRange(4, 3, "index")
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.NotErrorIs(t, err, ErrInvalidRange)

	wrapped := fmt.Errorf("reading: %w", ConcurrentModification([]int{}))
	assert.ErrorIs(t, wrapped, ErrConcurrentModification)
	assert.Equal(t, KindConcurrentModification, KindOf(wrapped))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}

func TestDetails(t *testing.T) {
	err := IndexOutOfRange(4, 3, "index")
	assert.Equal(t, 4, err.Details["index"])
	assert.Equal(t, 3, err.Details["length"])

	err = NoElement().WithDetail("op", "first")
	assert.Equal(t, "first", err.Details["op"])
	assert.Equal(t, "EMPTY_SEQUENCE: No element", err.Error())
}

func TestChecks(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want *Error
	}{
		{"negative count", CheckNotNegative(-1, "count"), ErrInvalidArgument},
		{"zero count", CheckNotNegative(0, "count"), nil},
		{"index below", CheckValidIndex(-1, 3, "index"), ErrIndexOutOfRange},
		{"index at length", CheckValidIndex(3, 3, "index"), ErrIndexOutOfRange},
		{"index ok", CheckValidIndex(2, 3, "index"), nil},
		{"range start negative", CheckValidRange(-1, 2, 3), ErrInvalidRange},
		{"range end past length", CheckValidRange(0, 4, 3), ErrInvalidRange},
		{"range reversed", CheckValidRange(2, 1, 3), ErrInvalidRange},
		{"range empty at end", CheckValidRange(3, 3, 3), nil},
		{"range full", CheckValidRange(0, 3, 3), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want == nil {
				assert.NoError(t, tt.err)
				return
			}
			assert.ErrorIs(t, tt.err, tt.want)
		})
	}
}
