package party

import (
	"encoding/binary"
	"io"
	"strconv"

	"github.com/cronokirby/saferith"
)

// ByteSize is the number of bytes required to store an ID.
const ByteSize = 2

// MAX is the maximum integer that can represent a party.
// It bounds both the number of shareholders and the value of an ID.
const MAX = (1 << (ByteSize * 8)) - 1

// ID represents the index of a shareholder.
//
// IDs are the evaluation points of the Shamir sharing of the decryption exponent,
// and are therefore in [1, parties]. The value 0 is reserved for the secret itself.
type ID uint16

// Nat returns the ID as a saferith.Nat.
func (id ID) Nat() *saferith.Nat {
	return new(saferith.Nat).SetUint64(uint64(id))
}

// Valid returns true if id is a possible index for a group of the given size.
func (id ID) Valid(parties int) bool {
	return id != 0 && int(id) <= parties
}

// Bytes returns a big-endian []byte slice of length party.ByteSize.
func (id ID) Bytes() []byte {
	bytes := make([]byte, ByteSize)
	binary.BigEndian.PutUint16(bytes, uint16(id))
	return bytes
}

// String returns a base 10 representation of ID.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (id ID) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(id.Bytes())
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (ID) Domain() string {
	return "ID"
}

// FromBytes reads the first party.ByteSize bytes from b and creates an ID from it.
func FromBytes(b []byte) ID {
	return ID(binary.BigEndian.Uint16(b))
}

// IDFromString reads a base 10 string and attempts to generate an ID from it.
func IDFromString(str string) (ID, error) {
	p, err := strconv.ParseUint(str, 10, 16)
	if err != nil {
		return 0, err
	}
	return ID(p), nil
}
