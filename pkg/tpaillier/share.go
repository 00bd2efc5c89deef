package tpaillier

import (
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/threshold-paillier/pkg/party"
)

// Share is a value computed by a single party, either a partial decryption or
// a partial randomness.
type Share struct {
	ID    party.ID
	Value *saferith.Nat
}

// Collect indexes shares by the ID of the party which sent them, so they can be given to
// Public.Combine or Public.CombineRandomness.
//
// It returns ErrInvalidReconstructionSet if two shares come from the same party.
func Collect(shares ...*Share) (map[party.ID]*saferith.Nat, error) {
	collected := make(map[party.ID]*saferith.Nat, len(shares))
	for _, s := range shares {
		if s == nil || s.Value == nil {
			return nil, fmt.Errorf("%w: empty share", ErrTypeMismatch)
		}
		if _, ok := collected[s.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate share from party %s", ErrInvalidReconstructionSet, s.ID)
		}
		collected[s.ID] = s.Value
	}
	return collected, nil
}
