package paillier

import (
	"crypto/rand"
	"errors"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/threshold-paillier/pkg/math/arith"
	"github.com/taurusgroup/threshold-paillier/pkg/math/sample"
	"github.com/taurusgroup/threshold-paillier/pkg/pool"
)

var ErrInvalidCiphertext = errors.New("paillier: failed to decrypt invalid ciphertext")

// SecretKey is the secret key corresponding to a Public Paillier Key.
//
// A public key is a modulus N, and the secret key contains the information
// needed to factor N into two primes, P and Q. This allows us to decrypt
// values encrypted using this modulus, and to deal shares of the decryption
// exponent.
type SecretKey struct {
	*PublicKey
	// p, q such that N = p⋅q
	p, q *saferith.Nat
	// phi = ϕ = (p-1)(q-1)
	phi *saferith.Nat
	// phiInv = ϕ⁻¹ mod N
	phiInv *saferith.Nat
}

// P returns the first of the two factors composing this key.
func (sk *SecretKey) P() *saferith.Nat {
	return sk.p
}

// Q returns the second of the two factors composing this key.
func (sk *SecretKey) Q() *saferith.Nat {
	return sk.q
}

// Phi returns ϕ = (P-1)(Q-1).
//
// This is the result of the totient function ϕ(N), where N = P⋅Q
// is our public key. This function counts the number of units mod N.
func (sk *SecretKey) Phi() *saferith.Nat {
	return sk.phi
}

// KeyGen generates a new PublicKey and its associated SecretKey, with factors of the given size.
func KeyGen(pl *pool.Pool, bits int) (pk *PublicKey, sk *SecretKey, err error) {
	sk, err = NewSecretKey(pl, bits)
	if err != nil {
		return nil, nil, err
	}
	return sk.PublicKey, sk, nil
}

// NewSecretKey generates primes p and q suitable for the scheme, and returns the initialized SecretKey.
func NewSecretKey(pl *pool.Pool, bits int) (*SecretKey, error) {
	p, q, err := sample.Paillier(rand.Reader, pl, bits)
	if err != nil {
		return nil, err
	}
	return NewSecretKeyFromPrimes(p, q), nil
}

// NewSecretKeyFromPrimes generates a new SecretKey. Assumes that P and Q are distinct primes,
// and that N = P⋅Q is coprime to ϕ(N), which holds for primes of equal size.
func NewSecretKeyFromPrimes(P, Q *saferith.Nat) *SecretKey {
	oneNat := arith.One()

	n := arith.ModulusFromFactors(P, Q)

	nNat := n.Nat()
	nPlusOne := new(saferith.Nat).Add(nNat, oneNat, -1)
	// Tightening is fine, since n is public
	nPlusOne.Resize(nPlusOne.TrueLen())

	pMinus1 := new(saferith.Nat).Sub(P, oneNat, -1)
	qMinus1 := new(saferith.Nat).Sub(Q, oneNat, -1)
	phi := new(saferith.Nat).Mul(pMinus1, qMinus1, -1)
	// ϕ⁻¹ mod N
	phiInv := new(saferith.Nat).ModInverse(phi, n.Modulus)

	pSquared := new(saferith.Nat).Mul(P, P, -1)
	qSquared := new(saferith.Nat).Mul(Q, Q, -1)
	nSquared := arith.ModulusFromFactors(pSquared, qSquared)

	return &SecretKey{
		p:      P,
		q:      Q,
		phi:    phi,
		phiInv: phiInv,
		PublicKey: &PublicKey{
			n:        n,
			nSquared: nSquared,
			nNat:     nNat,
			nPlusOne: nPlusOne,
		},
	}
}

// Dec decrypts c and returns the plaintext m ∈ [0, N-1].
// It returns an error if gcd(c, N²) != 1 or if c is not in [1, N²-1].
func (sk *SecretKey) Dec(ct *Ciphertext) (*saferith.Nat, error) {
	if !sk.PublicKey.ValidateCiphertexts(ct) {
		return nil, ErrInvalidCiphertext
	}
	n := sk.PublicKey.n.Modulus

	// r = c^Phi 						(mod N²)
	result := sk.PublicKey.nSquared.Exp(ct.c, sk.phi)
	// r = c^Phi - 1
	result.Sub(result, arith.One(), -1)
	// r = [(c^Phi - 1)/N]
	result.Div(result, n, -1)
	// r = [(c^Phi - 1)/N] • Phi^-1		(mod N)
	result.ModMul(result, sk.phiInv, n)
	return result, nil
}

// DecWithRandomness returns the underlying plaintext, as well as the randomness used.
func (sk *SecretKey) DecWithRandomness(ct *Ciphertext) (*saferith.Nat, *saferith.Nat, error) {
	m, err := sk.Dec(ct)
	if err != nil {
		return nil, nil, err
	}
	// (1+N)ᵐ = 1 (mod N), so ρᴺ = C (mod N)
	x := new(saferith.Nat).Mod(ct.c, sk.n.Modulus)

	// ρ = xⁿ⁻¹ (mod N), with the inverse taken mod ϕ
	nInverse := new(saferith.Nat).ModInverse(sk.nNat, saferith.ModulusFromNat(sk.phi))
	r := sk.n.Exp(x, nInverse)
	return m, r, nil
}
