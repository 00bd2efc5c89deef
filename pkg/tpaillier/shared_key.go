package tpaillier

import (
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/threshold-paillier/pkg/math/arith"
	"github.com/taurusgroup/threshold-paillier/pkg/paillier"
	"github.com/taurusgroup/threshold-paillier/pkg/party"
	"github.com/taurusgroup/threshold-paillier/pkg/pool"
)

// KeyParameters are the inputs to NewSharedKey.
type KeyParameters struct {
	PublicParameters
	// ID of the shareholder, in [1, Parties].
	ID party.ID
	// Share is the Shamir share f(ID) of d, where d ≡ 0 (mod ϕ(N)) and d ≡ 1 (mod N).
	Share *saferith.Nat
	// X is this party's additive share of N⁻¹ (mod ϕ(N)), used to recover randomness.
	X *saferith.Nat
}

// SharedKey is the key material of a single shareholder.
// It is immutable once created, and may be used concurrently.
type SharedKey struct {
	*Public
	id    party.ID
	share *saferith.Nat
	x     *saferith.Nat
}

// NewSharedKey validates the parameters and returns the shareholder's key.
func NewSharedKey(kp KeyParameters) (*SharedKey, error) {
	public, err := NewPublic(kp.PublicParameters)
	if err != nil {
		return nil, err
	}
	return newSharedKey(public, kp.ID, kp.Share, kp.X)
}

func newSharedKey(public *Public, id party.ID, share, x *saferith.Nat) (*SharedKey, error) {
	if !id.Valid(public.parties) {
		return nil, fmt.Errorf("%w: party %s is not in [1, %d]", ErrInvalidKey, id, public.parties)
	}
	if share == nil {
		return nil, fmt.Errorf("%w: share is nil", ErrInvalidKey)
	}
	if x == nil {
		return nil, fmt.Errorf("%w: randomness share is nil", ErrInvalidKey)
	}
	return &SharedKey{
		Public: public,
		id:     id,
		share:  new(saferith.Nat).SetNat(share),
		x:      new(saferith.Nat).SetNat(x),
	}, nil
}

// ID of the shareholder.
func (k *SharedKey) ID() party.ID {
	return k.id
}

// LagrangeExponent returns 2⋅Δ⋅ℓᵢ(0) for this party over set.
func (k *SharedKey) LagrangeExponent(set party.IDSlice) (*saferith.Int, error) {
	return LagrangeExponent(k.delta, k.id, set)
}

// PartialDecrypt returns this party's contribution to the decryption of ct
// by the parties in set:
//
//	cᵢ = (c^{2⋅Δ⋅sᵢ})^{eᵢ} (mod N²)
//
// where sᵢ is the share and eᵢ the Lagrange exponent of this party.
//
// Every party contributing to a decryption must be given the same set, which must contain
// this party and at least Threshold members.
func (k *SharedKey) PartialDecrypt(ct *paillier.Ciphertext, set party.IDSlice) (*saferith.Nat, error) {
	if err := k.checkCiphertext(ct); err != nil {
		return nil, err
	}
	set, err := k.reconstructionSet(set)
	if err != nil {
		return nil, err
	}
	exponent, err := k.LagrangeExponent(set)
	if err != nil {
		return nil, err
	}

	nSquared := k.paillier.ModulusSquared()

	// base = c^{2⋅Δ⋅sᵢ} (mod N²)
	e := new(saferith.Nat).Lsh(k.delta, 1, -1)
	e.Mul(e, k.share, -1)
	base := nSquared.Exp(ct.Nat(), e)

	// a negative exponent is applied to base⁻¹, which exists since c is a unit
	if exponent.IsNegative() == 1 {
		base = new(saferith.Nat).ModInverse(base, k.paillier.NSquared())
	}
	return nSquared.Exp(base, exponent.Abs()), nil
}

// PartialDecryptShare is PartialDecrypt, with the result tagged by this party's ID.
func (k *SharedKey) PartialDecryptShare(ct *paillier.Ciphertext, set party.IDSlice) (*Share, error) {
	partial, err := k.PartialDecrypt(ct, set)
	if err != nil {
		return nil, err
	}
	return &Share{ID: k.id, Value: partial}, nil
}

// PartialDecryptBatch runs PartialDecrypt on every ciphertext, in parallel over pl.
// A nil pool computes everything on the calling goroutine.
func (k *SharedKey) PartialDecryptBatch(pl *pool.Pool, cts []*paillier.Ciphertext, set party.IDSlice) ([]*saferith.Nat, error) {
	type result struct {
		partial *saferith.Nat
		err     error
	}
	results := pool.Parallelize(pl, len(cts), func(i int) result {
		partial, err := k.PartialDecrypt(cts[i], set)
		return result{partial, err}
	})

	partials := make([]*saferith.Nat, len(cts))
	for i, r := range results {
		if r.err != nil {
			return nil, fmt.Errorf("ciphertext %d: %w", i, r.err)
		}
		partials[i] = r.partial
	}
	return partials, nil
}

// PartialRandomness returns this party's share of the nonce ρ used to encrypt ct,
// given its decryption m:
//
//	rᵢ = [c⋅(1 - m⋅N) mod N²]^{xᵢ} (mod N)
//
// Since c⋅(1 - m⋅N) ≡ ρᴺ (mod N²) and ∑ xᵢ ≡ N⁻¹ (mod ϕ(N)), the product of all
// the partial randomness is ρ.
func (k *SharedKey) PartialRandomness(ct *paillier.Ciphertext, m *saferith.Nat) (*saferith.Nat, error) {
	if err := k.checkCiphertext(ct); err != nil {
		return nil, err
	}
	n, nSquared := k.paillier.N(), k.paillier.NSquared()
	if m == nil {
		return nil, ErrInvalidPlaintext
	}
	if _, _, lt := m.CmpMod(n); lt != 1 {
		return nil, ErrInvalidPlaintext
	}

	// ρᴺ = c⋅(1 - m⋅N) (mod N²)
	mN := new(saferith.Nat).ModMul(m, n.Nat(), nSquared)
	rhoN := new(saferith.Nat).ModSub(arith.One(), mN, nSquared)
	rhoN.ModMul(rhoN, ct.Nat(), nSquared)

	return k.paillier.Modulus().Exp(rhoN.Mod(rhoN, n), k.x), nil
}

// PartialRandomnessShare is PartialRandomness, with the result tagged by this party's ID.
func (k *SharedKey) PartialRandomnessShare(ct *paillier.Ciphertext, m *saferith.Nat) (*Share, error) {
	partial, err := k.PartialRandomness(ct, m)
	if err != nil {
		return nil, err
	}
	return &Share{ID: k.id, Value: partial}, nil
}

// String omits all secret material.
func (k *SharedKey) String() string {
	return fmt.Sprintf("tpaillier.SharedKey{ID: %s, Threshold: %d, Parties: %d}", k.id, k.threshold, k.parties)
}
