package isolate

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/johnjamespj/corelib/pkg/iterator"
	"github.com/johnjamespj/corelib/pkg/util"
	"github.com/vmihailenco/msgpack"
)

var ErrFrameCorrupt = fmt.Errorf("frame is corrupt")

const (
	frameHeaderSize = util.DigestSize + util.Int64Size

	// MaxFrameSize bounds a single payload. A header declaring more is
	// treated as corrupt before anything is allocated for it.
	MaxFrameSize = 64 << 20
)

// FrameWriter writes length-prefixed, checksummed frames:
//
//	md5(payload) [16] | len(payload) [8, little-endian] | payload
type FrameWriter struct {
	w io.Writer
}

func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w}
}

func (f *FrameWriter) WriteFrame(payload []byte) error {
	if len(payload) > MaxFrameSize {
		return fmt.Errorf("payload of %d bytes exceeds frame limit %d", len(payload), MaxFrameSize)
	}
	header := make([]byte, frameHeaderSize)
	copy(header, util.HashBytes(payload))
	util.PutInt64(header[util.DigestSize:], int64(len(payload)))

	if _, err := f.w.Write(header); err != nil {
		return err
	}
	_, err := f.w.Write(payload)
	return err
}

// FrameReader reads frames written by FrameWriter.
type FrameReader struct {
	r io.Reader
}

func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r}
}

// Frames returns the remaining frames as an iterable. The underlying reader
// is consumed, so every iterator continues where the previous one stopped.
// A truncated or mismatching frame stops iteration with ErrFrameCorrupt.
func (f *FrameReader) Frames() iterator.Iterable[[]byte] {
	return iterator.BaseIterableFrom(func() iterator.Iterator[[]byte] {
		return &frameIterator{r: f.r}
	})
}

type frameIterator struct {
	r       io.Reader
	current []byte
	err     error
	done    bool
}

func (it *frameIterator) Move() bool {
	it.current = nil
	if it.done {
		return false
	}

	payload, err := readFrame(it.r)
	if err != nil {
		it.done = true
		if !errors.Is(err, io.EOF) {
			it.err = err
		}
		return false
	}
	it.current = payload
	return true
}

func (it *frameIterator) Current() []byte { return it.current }

func (it *frameIterator) Err() error { return it.err }

// readFrame returns io.EOF only at a clean frame boundary.
func readFrame(r io.Reader) ([]byte, error) {
	header := make([]byte, frameHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: truncated header", ErrFrameCorrupt)
		}
		return nil, err
	}

	size, err := util.BytesToInt64(header, util.DigestSize)
	if err != nil {
		return nil, err
	}
	if size < 0 || size > MaxFrameSize {
		return nil, fmt.Errorf("%w: length %d out of range", ErrFrameCorrupt, size)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("%w: truncated payload: %v", ErrFrameCorrupt, err)
	}
	if !bytes.Equal(util.HashBytes(payload), header[:util.DigestSize]) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrFrameCorrupt)
	}
	return payload, nil
}

// Codec turns message trees into bytes and back.
type Codec struct {
	compression *CompressionAlgorithm
}

func NewCodec(compression *CompressionAlgorithm) *Codec {
	if compression == nil {
		compression = None
	}
	return &Codec{compression: compression}
}

func (c *Codec) Marshal(tree any) ([]byte, error) {
	b, err := msgpack.Marshal(tree)
	if err != nil {
		return nil, err
	}
	return c.compression.Compress(b)
}

func (c *Codec) Unmarshal(b []byte) (any, error) {
	raw, err := c.compression.Decompress(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	var tree any
	if err := msgpack.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return tree, nil
}

// envelope addresses an encoded message to a receive port.
type envelope struct {
	Port    int64
	Payload []byte
}

func (e *envelope) ToBytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.EncodeInt64(e.Port); err != nil {
		return nil, err
	}
	if err := enc.EncodeBytes(e.Payload); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func envelopeFromBytes(b []byte) (*envelope, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(b))

	port, err := dec.DecodeInt64()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	payload, err := dec.DecodeBytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return &envelope{Port: port, Payload: payload}, nil
}
