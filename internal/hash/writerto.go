package hash

import (
	"encoding/binary"
	"io"
)

// WriterToWithDomain represents a type writing itself, and knowing its domain.
//
// Providing a domain string lets us distinguish the output of different types
// implementing this same interface.
type WriterToWithDomain interface {
	io.WriterTo

	// Domain returns a context string, which should be unique for each implementor
	Domain() string
}

// writeWithDomain writes out a piece of data, prefixed by its domain.
//
// Both the domain and the data are length-prefixed, so that two different
// sequences of writes cannot produce the same stream.
func writeWithDomain(w io.Writer, object WriterToWithDomain) error {
	domain := []byte(object.Domain())
	if err := writeLength(w, len(domain)); err != nil {
		return err
	}
	if _, err := w.Write(domain); err != nil {
		return err
	}

	var buf lengthCounter
	if _, err := object.WriteTo(&buf); err != nil {
		return err
	}
	if err := writeLength(w, buf.n); err != nil {
		return err
	}
	_, err := object.WriteTo(w)
	return err
}

func writeLength(w io.Writer, n int) error {
	var l [8]byte
	binary.BigEndian.PutUint64(l[:], uint64(n))
	_, err := w.Write(l[:])
	return err
}

// lengthCounter discards everything written to it, remembering only the size.
type lengthCounter struct {
	n int
}

func (c *lengthCounter) Write(p []byte) (int, error) {
	c.n += len(p)
	return len(p), nil
}

// BytesWithDomain is a useful wrapper to annotate some chunk of data with a domain.
//
// The intention is to wrap some data using this struct, and then call WriteWithDomain,
// or use this struct as a WriterToWithDomain somewhere else.
type BytesWithDomain struct {
	TheDomain string
	Bytes     []byte
}

// WriteTo implements io.WriterTo.
func (b BytesWithDomain) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.Bytes)
	return int64(n), err
}

// Domain implements WriterToWithDomain.
func (b BytesWithDomain) Domain() string {
	return b.TheDomain
}
