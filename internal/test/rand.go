package test

import (
	"io"

	"golang.org/x/crypto/sha3"
)

// Reader returns a deterministic stream of bytes derived from seed, for reproducible tests.
func Reader(seed string) io.Reader {
	h := sha3.NewShake128()
	_, _ = h.Write([]byte("threshold-paillier test reader"))
	_, _ = h.Write([]byte(seed))
	return h
}
