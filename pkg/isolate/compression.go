package isolate

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4"
)

const (
	CompressionNone = "none"
	CompressionLz4  = "lz4"
)

type Compressor interface {
	Compress([]byte) ([]byte, error)
}

type Decompressor interface {
	Decompress([]byte) ([]byte, error)
}

type CompressionAlgorithm struct {
	Name         string
	compressor   Compressor
	decompressor Decompressor
}

var (
	None = &CompressionAlgorithm{
		Name:         CompressionNone,
		compressor:   noCompression{},
		decompressor: noCompression{},
	}
	Lz4 = &CompressionAlgorithm{
		Name:         CompressionLz4,
		compressor:   lz4Compression{},
		decompressor: lz4Compression{},
	}
)

func CompressionByName(name string) (*CompressionAlgorithm, error) {
	switch name {
	case CompressionNone, "":
		return None, nil
	case CompressionLz4:
		return Lz4, nil
	}
	return nil, fmt.Errorf("compression must be one of [%s %s] (got: %s)", CompressionNone, CompressionLz4, name)
}

func (c *CompressionAlgorithm) Compress(p []byte) ([]byte, error) {
	return c.compressor.Compress(p)
}

func (c *CompressionAlgorithm) Decompress(p []byte) ([]byte, error) {
	return c.decompressor.Decompress(p)
}

type noCompression struct{}

func (noCompression) Compress(p []byte) ([]byte, error) { return p, nil }

func (noCompression) Decompress(p []byte) ([]byte, error) { return p, nil }

type lz4Compression struct{}

func (lz4Compression) Compress(p []byte) ([]byte, error) {
	var b bytes.Buffer
	writer := lz4.NewWriter(&b)
	if _, err := writer.Write(p); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (lz4Compression) Decompress(p []byte) ([]byte, error) {
	var b bytes.Buffer
	if _, err := io.Copy(&b, lz4.NewReader(bytes.NewReader(p))); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
