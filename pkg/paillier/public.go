package paillier

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/threshold-paillier/pkg/math/arith"
	"github.com/taurusgroup/threshold-paillier/pkg/math/sample"
)

var (
	ErrPaillierNil   = errors.New("modulus N is nil")
	ErrPaillierEven  = errors.New("modulus N is even")
	ErrPaillierSmall = errors.New("modulus N is smaller than 3")
)

// PublicKey is a Paillier public key. It is represented by a modulus N.
type PublicKey struct {
	// n = p⋅q
	n *arith.Modulus
	// nSquared = n²
	nSquared *arith.Modulus

	// These values are cached out of convenience, and performance
	nNat *saferith.Nat
	// nPlusOne = n + 1
	nPlusOne *saferith.Nat
}

// NewPublicKey returns an initialized PublicKey.
// The modulus is not validated, use ValidateN beforehand when it comes from an untrusted source.
func NewPublicKey(n *saferith.Modulus) *PublicKey {
	oneNat := arith.One()
	nNat := n.Nat()
	nSquared := saferith.ModulusFromNat(new(saferith.Nat).Mul(nNat, nNat, -1))
	nPlusOne := new(saferith.Nat).Add(nNat, oneNat, -1)
	// Tightening is fine, since n is public
	nPlusOne.Resize(nPlusOne.TrueLen())

	return &PublicKey{
		n:        arith.ModulusFromN(n),
		nSquared: arith.ModulusFromN(nSquared),
		nNat:     nNat,
		nPlusOne: nPlusOne,
	}
}

// ValidateN performs basic checks to make sure the modulus is valid:
// - N is not nil
// - N is odd
// - N > 1.
func ValidateN(n *saferith.Modulus) error {
	if n == nil {
		return ErrPaillierNil
	}
	if !arith.IsOdd(n.Nat()) {
		return ErrPaillierEven
	}
	if n.BitLen() < 2 {
		return ErrPaillierSmall
	}
	return nil
}

// Enc returns the encryption of m under the public key pk.
// The nonce used to encrypt is returned.
//
// The message m must be in the range [0, N-1].
//
// ct = (1+N)ᵐρᴺ (mod N²).
func (pk *PublicKey) Enc(m *saferith.Nat) (*Ciphertext, *saferith.Nat) {
	return pk.EncFrom(rand.Reader, m)
}

// EncFrom is Enc, with the nonce sampled from the given source of randomness.
func (pk *PublicKey) EncFrom(rand io.Reader, m *saferith.Nat) (*Ciphertext, *saferith.Nat) {
	nonce := sample.UnitModN(rand, pk.n.Modulus)
	return pk.EncWithNonce(m, nonce), nonce
}

// EncWithNonce returns the encryption of m under the public key pk.
// The nonce is not returned.
//
// ct = (1+N)ᵐρᴺ (mod N²).
func (pk *PublicKey) EncWithNonce(m *saferith.Nat, nonce *saferith.Nat) *Ciphertext {
	nSquared := pk.nSquared.Modulus
	// (1+N)ᵐ = 1 + m⋅N (mod N²)
	c := new(saferith.Nat).ModMul(m, pk.nNat, nSquared)
	c.ModAdd(c, arith.One(), nSquared)
	// ρᴺ (mod N²)
	rhoN := pk.nSquared.Exp(nonce, pk.nNat)
	c.ModMul(c, rhoN, nSquared)
	return &Ciphertext{pk: pk, c: c}
}

// Equal returns true if pk ≡ other.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	if other == nil {
		return false
	}
	_, eq, _ := pk.n.Cmp(other.n.Modulus)
	return eq == 1
}

// ValidateCiphertexts checks if all ciphertexts are encrypted under pk, and
// are in the appropriate range and coprime to N².
func (pk *PublicKey) ValidateCiphertexts(cts ...*Ciphertext) bool {
	for _, ct := range cts {
		if ct == nil || ct.c == nil || !pk.Equal(ct.pk) {
			return false
		}
		if !arith.IsValidNatModN(pk.nSquared.Modulus, ct.c) {
			return false
		}
	}
	return true
}

// N is the public modulus making up this key.
func (pk *PublicKey) N() *saferith.Modulus {
	return pk.n.Modulus
}

// NSquared is the modulus N² of the ciphertext space.
func (pk *PublicKey) NSquared() *saferith.Modulus {
	return pk.nSquared.Modulus
}

// Modulus returns an arith.Modulus for N which may allow for accelerated exponentiation when this
// public key was generated from a secret key.
func (pk *PublicKey) Modulus() *arith.Modulus {
	return pk.n
}

// ModulusSquared returns an arith.Modulus for N² which may allow for accelerated exponentiation when this
// public key was generated from a secret key.
func (pk *PublicKey) ModulusSquared() *arith.Modulus {
	return pk.nSquared
}

// G returns the generator N+1 of the plaintext subgroup.
func (pk *PublicKey) G() *saferith.Nat {
	return new(saferith.Nat).SetNat(pk.nPlusOne)
}

// String returns the hexadecimal representation of N.
func (pk *PublicKey) String() string {
	return fmt.Sprintf("paillier.PublicKey{N: %s}", pk.n.Hex())
}
