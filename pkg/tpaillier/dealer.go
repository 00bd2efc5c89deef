package tpaillier

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/threshold-paillier/internal/params"
	"github.com/taurusgroup/threshold-paillier/pkg/math/arith"
	"github.com/taurusgroup/threshold-paillier/pkg/math/polynomial"
	"github.com/taurusgroup/threshold-paillier/pkg/math/sample"
	"github.com/taurusgroup/threshold-paillier/pkg/paillier"
	"github.com/taurusgroup/threshold-paillier/pkg/party"
)

// Deal splits the secret key into a threshold-of-parties sharing, as a trusted dealer.
//
// The decryption exponent d = ϕ⋅[ϕ⁻¹ (mod N)] satisfies d ≡ 0 (mod ϕ) and d ≡ 1 (mod N).
// It is shared with a random polynomial f of degree threshold-1 over ℤ_{N⋅ϕ}, and party i
// receives sᵢ = f(i). The randomness exponent N⁻¹ (mod ϕ) is shared additively.
//
// The dealer learns everything, and must erase sk and the returned keys after distribution.
func Deal(rand io.Reader, sk *paillier.SecretKey, parties, threshold int) (map[party.ID]*SharedKey, error) {
	if sk == nil {
		return nil, fmt.Errorf("%w: secret key is nil", ErrInvalidKey)
	}
	if parties < 1 || parties > params.MaxParties {
		return nil, fmt.Errorf("%w: number of parties %d is not in [1, %d]", ErrInvalidKey, parties, params.MaxParties)
	}
	if threshold < 1 || threshold > parties {
		return nil, fmt.Errorf("%w: threshold %d is not in [1, %d]", ErrInvalidKey, threshold, parties)
	}

	n := sk.N()
	nNat := n.Nat()
	phi := sk.Phi()
	if nNat.Coprime(phi) != 1 {
		return nil, fmt.Errorf("%w: N and ϕ(N) are not coprime", ErrInvalidKey)
	}
	phiMod := saferith.ModulusFromNat(phi)

	// Δ = parties!, θ = 4⋅Δ²
	delta := arith.Factorial(parties)
	theta := new(saferith.Nat).Mul(delta, delta, -1)
	theta.Lsh(theta, 2, -1)

	public, err := NewPublic(PublicParameters{
		N:         n,
		Threshold: threshold,
		Parties:   parties,
		Delta:     delta,
		Theta:     theta,
	})
	if err != nil {
		return nil, err
	}

	// d = ϕ⋅[ϕ⁻¹ (mod N)]
	d := new(saferith.Nat).ModInverse(new(saferith.Nat).Mod(phi, n), n)
	d.Mul(d, phi, -1)
	nPhi := saferith.ModulusFromNat(new(saferith.Nat).Mul(nNat, phi, -1))
	f := polynomial.NewPolynomial(rand, nPhi, threshold-1, d)

	// ∑ᵢ xᵢ = N⁻¹ (mod ϕ)
	nInv := new(saferith.Nat).ModInverse(new(saferith.Nat).Mod(nNat, phiMod), phiMod)
	sum := new(saferith.Nat)

	ids := party.FirstN(parties)
	keys := make(map[party.ID]*SharedKey, parties)
	for i, id := range ids {
		var x *saferith.Nat
		if i == len(ids)-1 {
			x = new(saferith.Nat).ModSub(nInv, sum, phiMod)
		} else {
			x = sample.ModN(rand, phiMod)
			sum.ModAdd(sum, x, phiMod)
		}
		key, err := newSharedKey(public, id, f.Evaluate(id), x)
		if err != nil {
			return nil, err
		}
		keys[id] = key
	}
	return keys, nil
}
