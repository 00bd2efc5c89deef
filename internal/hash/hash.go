package hash

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/threshold-paillier/internal/params"
	"github.com/zeebo/blake3"
)

const DigestLengthBytes = params.SecBytes * 2 // 64

// Hash is the hash function used to fingerprint the public material of a
// threshold key, so that parties can compare what they hold.
//
// Internally, this is a wrapper around blake3, but any hash function with
// an easily extendable output would work as well.
type Hash struct {
	h *blake3.Hasher
}

// New creates a Hash whose state is bound to the given domain.
func New(domain string) *Hash {
	hash := &Hash{h: blake3.New()}
	_ = hash.WriteAny(&BytesWithDomain{
		TheDomain: "Hash Domain",
		Bytes:     []byte(domain),
	})
	return hash
}

// Digest returns a reader for the current output of the function.
//
// This finalizes the current state of the hash, and returns what's
// essentially a stream of random bytes.
func (hash *Hash) Digest() io.Reader {
	return hash.h.Digest()
}

// Sum returns a slice of length DigestLengthBytes resulting from the current hash state.
// If a different length is required, use io.ReadFull(hash.Digest(), out) instead.
func (hash *Hash) Sum() []byte {
	out := make([]byte, DigestLengthBytes)
	if _, err := io.ReadFull(hash.Digest(), out); err != nil {
		panic(fmt.Sprintf("hash.Sum: internal hash failure: %v", err))
	}
	return out
}

// WriteAny takes many different data types and writes them to the hash state.
//
// Currently supported types:
//
//   - []byte
//   - int, uint64
//   - *saferith.Nat
//   - *saferith.Int
//   - *saferith.Modulus
//   - hash.WriterToWithDomain
//
// This function will apply its own domain separation for the first types.
// The last type already suggests which domain to use, and this function respects it.
func (hash *Hash) WriteAny(data ...interface{}) error {
	var toBeWritten WriterToWithDomain
	for _, d := range data {
		switch t := d.(type) {
		case []byte:
			toBeWritten = &BytesWithDomain{"[]byte", t}
		case int:
			buf := make([]byte, 8)
			binary.BigEndian.PutUint64(buf, uint64(t))
			toBeWritten = &BytesWithDomain{"int", buf}
		case uint64:
			buf := make([]byte, 8)
			binary.BigEndian.PutUint64(buf, t)
			toBeWritten = &BytesWithDomain{"uint64", buf}
		case *saferith.Nat:
			if t == nil {
				return fmt.Errorf("hash.Hash: write *saferith.Nat: nil")
			}
			toBeWritten = &BytesWithDomain{"saferith.Nat", t.Bytes()}
		case *saferith.Int:
			if t == nil {
				return fmt.Errorf("hash.Hash: write *saferith.Int: nil")
			}
			// sign byte, followed by the absolute value
			bytes := append([]byte{byte(t.IsNegative())}, t.Abs().Bytes()...)
			toBeWritten = &BytesWithDomain{"saferith.Int", bytes}
		case *saferith.Modulus:
			if t == nil {
				return fmt.Errorf("hash.Hash: write *saferith.Modulus: nil")
			}
			toBeWritten = &BytesWithDomain{"saferith.Modulus", t.Bytes()}
		case WriterToWithDomain:
			toBeWritten = t
		default:
			return fmt.Errorf("hash.Hash: unsupported type %T", d)
		}
		if err := writeWithDomain(hash.h, toBeWritten); err != nil {
			return fmt.Errorf("hash.Hash: write %s: %w", toBeWritten.Domain(), err)
		}
	}
	return nil
}

// Clone returns a copy of the Hash in its current state.
func (hash *Hash) Clone() *Hash {
	return &Hash{h: hash.h.Clone()}
}
