package tpaillier

import (
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/threshold-paillier/internal/hash"
	"github.com/taurusgroup/threshold-paillier/internal/params"
	"github.com/taurusgroup/threshold-paillier/pkg/math/arith"
	"github.com/taurusgroup/threshold-paillier/pkg/paillier"
	"github.com/taurusgroup/threshold-paillier/pkg/party"
)

// PublicParameters are the inputs to NewPublic.
type PublicParameters struct {
	// N is the shared Paillier modulus.
	N *saferith.Modulus
	// Threshold is the number of partial decryptions needed to decrypt.
	Threshold int
	// Parties is the total number of shareholders, whose IDs are 1, …, Parties.
	Parties int
	// Delta must be Parties!.
	Delta *saferith.Nat
	// Theta is the constant removed from the combined decryption, 4Δ² for a dealt key.
	Theta *saferith.Nat
}

// Public is the public part of a threshold Paillier key.
// It is identical for all parties, and is all that is needed to combine partial decryptions.
type Public struct {
	paillier  *paillier.PublicKey
	threshold int
	parties   int
	delta     *saferith.Nat
	theta     *saferith.Nat
	// thetaInv = θ⁻¹ (mod N)
	thetaInv *saferith.Nat
}

// NewPublic validates the public parameters and precomputes θ⁻¹ (mod N).
//
// It returns ErrArithmetic if θ is not invertible mod N, and ErrInvalidKey for any other
// invalid parameter.
func NewPublic(pp PublicParameters) (*Public, error) {
	if err := paillier.ValidateN(pp.N); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	if pp.Parties < 1 || pp.Parties > params.MaxParties || pp.Parties > party.MAX {
		return nil, fmt.Errorf("%w: number of parties %d is not in [1, %d]", ErrInvalidKey, pp.Parties, params.MaxParties)
	}
	if pp.Threshold < 1 || pp.Threshold > pp.Parties {
		return nil, fmt.Errorf("%w: threshold %d is not in [1, %d]", ErrInvalidKey, pp.Threshold, pp.Parties)
	}
	if pp.Delta == nil || pp.Delta.Eq(arith.Factorial(pp.Parties)) != 1 {
		return nil, fmt.Errorf("%w: Δ is not %d!", ErrInvalidKey, pp.Parties)
	}
	if pp.Theta == nil {
		return nil, fmt.Errorf("%w: θ is nil", ErrInvalidKey)
	}

	n := pp.N
	thetaModN := new(saferith.Nat).Mod(pp.Theta, n)
	if thetaModN.IsUnit(n) != 1 {
		return nil, fmt.Errorf("%w: θ is not invertible mod N", ErrArithmetic)
	}

	return &Public{
		paillier:  paillier.NewPublicKey(n),
		threshold: pp.Threshold,
		parties:   pp.Parties,
		delta:     new(saferith.Nat).SetNat(pp.Delta),
		theta:     new(saferith.Nat).SetNat(pp.Theta),
		thetaInv:  new(saferith.Nat).ModInverse(thetaModN, n),
	}, nil
}

// PublicKey returns the Paillier public key ciphertexts must be encrypted under.
func (p *Public) PublicKey() *paillier.PublicKey {
	return p.paillier
}

// N returns the Paillier modulus.
func (p *Public) N() *saferith.Modulus {
	return p.paillier.N()
}

// NSquared returns N².
func (p *Public) NSquared() *saferith.Modulus {
	return p.paillier.NSquared()
}

// Threshold is the minimum size of a reconstruction set.
func (p *Public) Threshold() int {
	return p.threshold
}

// Parties is the total number of shareholders.
func (p *Public) Parties() int {
	return p.parties
}

// Delta returns a copy of Δ = Parties!.
func (p *Public) Delta() *saferith.Nat {
	return new(saferith.Nat).SetNat(p.delta)
}

// Theta returns a copy of θ.
func (p *Public) Theta() *saferith.Nat {
	return new(saferith.Nat).SetNat(p.theta)
}

// ThetaInverse returns a copy of θ⁻¹ (mod N).
func (p *Public) ThetaInverse() *saferith.Nat {
	return new(saferith.Nat).SetNat(p.thetaInv)
}

// PartyIDs returns all the IDs of the shareholders {1, …, Parties}.
func (p *Public) PartyIDs() party.IDSlice {
	return party.FirstN(p.parties)
}

// Equal returns true if both parameter sets are identical.
func (p *Public) Equal(other *Public) bool {
	if other == nil {
		return false
	}
	return p.paillier.Equal(other.paillier) &&
		p.threshold == other.threshold &&
		p.parties == other.parties &&
		p.delta.Eq(other.delta) == 1 &&
		p.theta.Eq(other.theta) == 1
}

// Fingerprint returns a digest of all public parameters.
//
// Parties compare fingerprints to make sure they hold bit-for-bit identical public material.
func (p *Public) Fingerprint() []byte {
	h := hash.New("tpaillier.Public")
	if err := h.WriteAny(p.paillier.N(), p.threshold, p.parties, p.delta, p.theta); err != nil {
		panic(fmt.Sprintf("tpaillier: fingerprint: %v", err))
	}
	return h.Sum()
}

// Combine merges the partial decryptions of every party in the reconstruction set into the plaintext.
//
// The set must be the one every party passed to PartialDecrypt. Entries of partials for
// parties outside of the set are ignored.
//
//	combined = ∏ᵢ cᵢ (mod N²)
//	m = [(combined - 1)/N]⋅θ⁻¹ (mod N)
//
// It returns ErrInconsistentCiphertext if combined ≠ 1 (mod N), which happens when the
// parties decrypted different ciphertexts, used different sets, or one of the shares is bad.
func (p *Public) Combine(set party.IDSlice, partials map[party.ID]*saferith.Nat) (*saferith.Nat, error) {
	set, err := p.reconstructionSet(set)
	if err != nil {
		return nil, err
	}
	if len(partials) < p.threshold {
		return nil, fmt.Errorf("%w: got %d partial decryptions, need %d", ErrInsufficientShares, len(partials), p.threshold)
	}

	n, nSquared := p.paillier.N(), p.paillier.NSquared()
	one := arith.One()
	combined := arith.One()
	for _, id := range set {
		partial := partials[id]
		if partial == nil {
			return nil, fmt.Errorf("%w: missing partial decryption from party %s", ErrInsufficientShares, id)
		}
		if _, _, lt := partial.CmpMod(nSquared); lt != 1 {
			return nil, fmt.Errorf("%w: partial decryption from party %s is not in [0, N²-1]", ErrTypeMismatch, id)
		}
		combined.ModMul(combined, partial, nSquared)
	}

	if new(saferith.Nat).Mod(combined, n).Eq(one) != 1 {
		return nil, ErrInconsistentCiphertext
	}
	// m = [(combined - 1)/N]⋅θ⁻¹ (mod N)
	m := new(saferith.Nat).Sub(combined, one, -1)
	m.Div(m, n, -1)
	return m.ModMul(m, p.thetaInv, n), nil
}

// CombineRandomness multiplies the partial randomness of all parties into the nonce ρ (mod N).
//
// Unlike decryption, this needs every party: the shares of N⁻¹ (mod ϕ(N)) are additive.
func (p *Public) CombineRandomness(partials map[party.ID]*saferith.Nat) (*saferith.Nat, error) {
	n := p.paillier.N()
	r := arith.One()
	for _, id := range p.PartyIDs() {
		partial := partials[id]
		if partial == nil {
			return nil, fmt.Errorf("%w: missing partial randomness from party %s", ErrInsufficientShares, id)
		}
		if _, _, lt := partial.CmpMod(n); lt != 1 {
			return nil, fmt.Errorf("%w: partial randomness from party %s is not in [0, N-1]", ErrTypeMismatch, id)
		}
		r.ModMul(r, partial, n)
	}
	return r, nil
}

// VerifyRandomness returns true if ct = (1+N)ᵐ⋅ρᴺ (mod N²).
func (p *Public) VerifyRandomness(ct *paillier.Ciphertext, m, rho *saferith.Nat) bool {
	if p.checkCiphertext(ct) != nil || m == nil || rho == nil {
		return false
	}
	n := p.paillier.N()
	if _, _, lt := m.CmpMod(n); lt != 1 {
		return false
	}
	if !arith.IsValidNatModN(n, rho) {
		return false
	}
	return p.paillier.EncWithNonce(m, rho).Equal(ct)
}

// checkCiphertext makes sure ct is a valid ciphertext under this key.
func (p *Public) checkCiphertext(ct *paillier.Ciphertext) error {
	if ct == nil || ct.PublicKey() == nil {
		return ErrTypeMismatch
	}
	if !p.paillier.Equal(ct.PublicKey()) {
		return ErrKeyMismatch
	}
	if !p.paillier.ValidateCiphertexts(ct) {
		return ErrTypeMismatch
	}
	return nil
}

// reconstructionSet returns a sorted copy of set, after checking that it is a valid
// reconstruction set for this key.
func (p *Public) reconstructionSet(set party.IDSlice) (party.IDSlice, error) {
	sorted := party.NewIDSlice(set)
	if !sorted.Valid() {
		return nil, fmt.Errorf("%w: %v contains duplicates or 0", ErrInvalidReconstructionSet, set)
	}
	for _, id := range sorted {
		if !id.Valid(p.parties) {
			return nil, fmt.Errorf("%w: party %s is not in [1, %d]", ErrInvalidReconstructionSet, id, p.parties)
		}
	}
	if len(sorted) < p.threshold {
		return nil, fmt.Errorf("%w: reconstruction set has %d parties, need %d", ErrInsufficientShares, len(sorted), p.threshold)
	}
	return sorted, nil
}
