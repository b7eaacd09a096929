package util

import (
	"crypto/md5"
	"fmt"
)

const (
	DigestSize = md5.Size
	Int64Size  = 8
)

// HashBytes returns the md5 digest of b.
func HashBytes(b []byte) []byte {
	res := md5.Sum(b)
	return res[:]
}

// Int64ToBytes encodes i little-endian.
func Int64ToBytes(i int64) []byte {
	res := make([]byte, Int64Size)
	PutInt64(res, i)
	return res
}

func PutInt64(dst []byte, i int64) {
	for j := 0; j < Int64Size; j++ {
		dst[j] = byte(i >> uint(j*8))
	}
}

// BytesToInt64 decodes the little-endian int64 stored at b[i:].
func BytesToInt64(b []byte, i int) (int64, error) {
	if i < 0 || len(b)-i < Int64Size {
		return 0, fmt.Errorf("need %d bytes at offset %d, have %d", Int64Size, i, len(b))
	}
	res := int64(0)
	for j := 0; j < Int64Size; j++ {
		res |= int64(b[i+j]) << uint(j*8)
	}
	return res, nil
}
