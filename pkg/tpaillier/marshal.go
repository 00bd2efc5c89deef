package tpaillier

import (
	"encoding"
	"errors"
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/threshold-paillier/pkg/party"
)

var (
	_ encoding.BinaryMarshaler   = (*Public)(nil)
	_ encoding.BinaryUnmarshaler = (*Public)(nil)
	_ encoding.BinaryMarshaler   = (*SharedKey)(nil)
	_ encoding.BinaryUnmarshaler = (*SharedKey)(nil)
	_ encoding.BinaryMarshaler   = (*Share)(nil)
	_ encoding.BinaryUnmarshaler = (*Share)(nil)
)

type publicMarshal struct {
	N         []byte
	Threshold int
	Parties   int
	Delta     []byte
	Theta     []byte
}

type sharedKeyMarshal struct {
	Public []byte
	ID     party.ID
	Share  []byte
	X      []byte
}

type shareMarshal struct {
	ID    party.ID
	Value []byte
}

func (p *Public) marshal() *publicMarshal {
	return &publicMarshal{
		N:         p.paillier.N().Bytes(),
		Threshold: p.threshold,
		Parties:   p.parties,
		Delta:     p.delta.Bytes(),
		Theta:     p.theta.Bytes(),
	}
}

func (pm *publicMarshal) unmarshal() (*Public, error) {
	if len(pm.N) == 0 || pm.Delta == nil || pm.Theta == nil {
		return nil, fmt.Errorf("%w: missing public parameters", ErrInvalidKey)
	}
	return NewPublic(PublicParameters{
		N:         saferith.ModulusFromBytes(pm.N),
		Threshold: pm.Threshold,
		Parties:   pm.Parties,
		Delta:     new(saferith.Nat).SetBytes(pm.Delta),
		Theta:     new(saferith.Nat).SetBytes(pm.Theta),
	})
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (p *Public) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(p.marshal())
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
// The decoded parameters go through the same validation as NewPublic.
func (p *Public) UnmarshalBinary(data []byte) error {
	var pm publicMarshal
	if err := cbor.Unmarshal(data, &pm); err != nil {
		return fmt.Errorf("tpaillier: %w", err)
	}
	decoded, err := pm.unmarshal()
	if err != nil {
		return err
	}
	*p = *decoded
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
//
// The output contains the secret share, and must be stored accordingly.
func (k *SharedKey) MarshalBinary() ([]byte, error) {
	public, err := k.Public.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(&sharedKeyMarshal{
		Public: public,
		ID:     k.id,
		Share:  k.share.Bytes(),
		X:      k.x.Bytes(),
	})
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (k *SharedKey) UnmarshalBinary(data []byte) error {
	var km sharedKeyMarshal
	if err := cbor.Unmarshal(data, &km); err != nil {
		return fmt.Errorf("tpaillier: %w", err)
	}
	public := new(Public)
	if err := public.UnmarshalBinary(km.Public); err != nil {
		return err
	}
	decoded, err := newSharedKey(public, km.ID, new(saferith.Nat).SetBytes(km.Share), new(saferith.Nat).SetBytes(km.X))
	if err != nil {
		return err
	}
	*k = *decoded
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s *Share) MarshalBinary() ([]byte, error) {
	if s.Value == nil {
		return nil, errors.New("tpaillier: cannot marshal empty share")
	}
	return cbor.Marshal(&shareMarshal{ID: s.ID, Value: s.Value.Bytes()})
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *Share) UnmarshalBinary(data []byte) error {
	var sm shareMarshal
	if err := cbor.Unmarshal(data, &sm); err != nil {
		return fmt.Errorf("tpaillier: %w", err)
	}
	if sm.ID == 0 || sm.Value == nil {
		return fmt.Errorf("%w: empty share", ErrTypeMismatch)
	}
	s.ID = sm.ID
	s.Value = new(saferith.Nat).SetBytes(sm.Value)
	return nil
}
