package paillier

import (
	"encoding"
	"errors"
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
)

var (
	_ encoding.BinaryMarshaler   = (*PublicKey)(nil)
	_ encoding.BinaryUnmarshaler = (*PublicKey)(nil)
	_ encoding.BinaryMarshaler   = (*Ciphertext)(nil)
	_ encoding.BinaryUnmarshaler = (*Ciphertext)(nil)
)

type publicKeyMarshal struct {
	N []byte
}

type ciphertextMarshal struct {
	N []byte
	C []byte
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&publicKeyMarshal{N: pk.n.Bytes()})
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (pk *PublicKey) UnmarshalBinary(data []byte) error {
	var pm publicKeyMarshal
	if err := cbor.Unmarshal(data, &pm); err != nil {
		return fmt.Errorf("paillier: %w", err)
	}
	n, err := modulusFromBytes(pm.N)
	if err != nil {
		return err
	}
	*pk = *NewPublicKey(n)
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
//
// The modulus of the key is included, so that the ciphertext can be decoded on its own.
func (ct *Ciphertext) MarshalBinary() ([]byte, error) {
	if ct.pk == nil || ct.c == nil {
		return nil, errors.New("paillier: cannot marshal empty ciphertext")
	}
	return cbor.Marshal(&ciphertextMarshal{
		N: ct.pk.n.Bytes(),
		C: ct.c.Bytes(),
	})
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (ct *Ciphertext) UnmarshalBinary(data []byte) error {
	var cm ciphertextMarshal
	if err := cbor.Unmarshal(data, &cm); err != nil {
		return fmt.Errorf("paillier: %w", err)
	}
	n, err := modulusFromBytes(cm.N)
	if err != nil {
		return err
	}
	decoded := NewCiphertext(NewPublicKey(n), new(saferith.Nat).SetBytes(cm.C))
	if decoded == nil {
		return ErrInvalidCiphertext
	}
	*ct = *decoded
	return nil
}

func modulusFromBytes(data []byte) (*saferith.Modulus, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("paillier: %w", ErrPaillierNil)
	}
	n := saferith.ModulusFromBytes(data)
	if err := ValidateN(n); err != nil {
		return nil, fmt.Errorf("paillier: %w", err)
	}
	return n, nil
}
