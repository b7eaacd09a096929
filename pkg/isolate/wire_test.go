package isolate

import (
	"bytes"
	"strings"
	"testing"

	"github.com/johnjamespj/corelib/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFrames(t *testing.T, payloads ...[]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := NewFrameWriter(&buf)
	for _, p := range payloads {
		require.NoError(t, w.WriteFrame(p))
	}
	return buf.Bytes()
}

func TestFrames_RoundTrip(t *testing.T) {
	payloads := [][]byte{[]byte("first"), {}, bytes.Repeat([]byte{7}, 1000)}
	raw := writeFrames(t, payloads...)
	assert.Len(t, raw, 3*frameHeaderSize+5+1000)

	got, err := NewFrameReader(bytes.NewReader(raw)).Frames().ToSlice()
	require.NoError(t, err)
	assert.Equal(t, payloads, got)
}

func TestFrames_Empty(t *testing.T) {
	got, err := NewFrameReader(bytes.NewReader(nil)).Frames().ToSlice()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFrames_Corrupt(t *testing.T) {
	raw := writeFrames(t, []byte("good"), []byte("bad"))
	raw[len(raw)-1] ^= 0xff

	var seen []string
	err := NewFrameReader(bytes.NewReader(raw)).Frames().ForEach(func(p []byte) {
		seen = append(seen, string(p))
	})
	assert.ErrorIs(t, err, ErrFrameCorrupt)
	assert.Equal(t, []string{"good"}, seen)
}

func TestFrames_Truncated(t *testing.T) {
	raw := writeFrames(t, []byte("payload"))

	for _, cut := range []int{1, 7, frameHeaderSize + 3} {
		_, err := NewFrameReader(bytes.NewReader(raw[:len(raw)-cut])).Frames().ToSlice()
		assert.ErrorIs(t, err, ErrFrameCorrupt, "cut %d", cut)
	}
}

func TestFrames_LengthOutOfRange(t *testing.T) {
	for _, size := range []int64{1 << 60, MaxFrameSize + 1, -1} {
		header := make([]byte, frameHeaderSize)
		util.PutInt64(header[util.DigestSize:], size)
		raw := append(writeFrames(t, []byte("ok")), header...)

		var seen []string
		err := NewFrameReader(bytes.NewReader(raw)).Frames().ForEach(func(p []byte) {
			seen = append(seen, string(p))
		})
		assert.ErrorIs(t, err, ErrFrameCorrupt, "length %d", size)
		assert.Equal(t, []string{"ok"}, seen)
	}

	err := NewFrameWriter(&bytes.Buffer{}).WriteFrame(make([]byte, MaxFrameSize+1))
	assert.Error(t, err)
}

func TestFrames_ConsumeReader(t *testing.T) {
	raw := writeFrames(t, []byte("a"), []byte("b"), []byte("c"))
	frames := NewFrameReader(bytes.NewReader(raw)).Frames()

	first, err := frames.First()
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), first)

	rest, err := frames.ToSlice()
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("b"), []byte("c")}, rest)
}

func TestCodec(t *testing.T) {
	tree := []any{tagString, strings.Repeat("isolate ", 200)}

	for _, algorithm := range []*CompressionAlgorithm{None, Lz4} {
		t.Run(algorithm.Name, func(t *testing.T) {
			codec := NewCodec(algorithm)
			b, err := codec.Marshal(tree)
			require.NoError(t, err)
			if algorithm == Lz4 {
				assert.Less(t, len(b), 800)
			}

			got, err := codec.Unmarshal(b)
			require.NoError(t, err)
			assert.Equal(t, tree, got)
		})
	}

	_, err := NewCodec(Lz4).Unmarshal([]byte("not lz4"))
	assert.ErrorIs(t, err, ErrMalformedMessage)
}

func TestCompressionByName(t *testing.T) {
	c, err := CompressionByName("")
	require.NoError(t, err)
	assert.Same(t, None, c)

	c, err = CompressionByName("lz4")
	require.NoError(t, err)
	assert.Same(t, Lz4, c)

	_, err = CompressionByName("gzip")
	assert.Error(t, err)
}

func TestEnvelope(t *testing.T) {
	b, err := (&envelope{Port: 42, Payload: []byte("msg")}).ToBytes()
	require.NoError(t, err)

	env, err := envelopeFromBytes(b)
	require.NoError(t, err)
	assert.Equal(t, int64(42), env.Port)
	assert.Equal(t, []byte("msg"), env.Payload)

	_, err = envelopeFromBytes(b[:1])
	assert.ErrorIs(t, err, ErrMalformedMessage)
}
