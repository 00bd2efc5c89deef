package paillier

import (
	"crypto/rand"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/threshold-paillier/pkg/math/sample"
)

// Ciphertext represents an integer of the form
//
//	ct = (1+N)ᵐρᴺ (mod N²)
//
// together with the public key it was encrypted under.
type Ciphertext struct {
	pk *PublicKey
	c  *saferith.Nat
}

// NewCiphertext wraps a raw value c ∈ ℤ_N²ˣ produced under pk.
// It returns nil if c is not a valid ciphertext for pk.
func NewCiphertext(pk *PublicKey, c *saferith.Nat) *Ciphertext {
	ct := &Ciphertext{pk: pk, c: new(saferith.Nat).SetNat(c)}
	if pk == nil || !pk.ValidateCiphertexts(ct) {
		return nil
	}
	return ct
}

// PublicKey returns the key this ciphertext was encrypted under.
func (ct *Ciphertext) PublicKey() *PublicKey {
	return ct.pk
}

// Add sets ct to the homomorphic sum ct ⊕ ct₂.
// ct = ct•ct₂ (mod N²).
//
// Both ciphertexts must have been encrypted under the same key.
func (ct *Ciphertext) Add(ct2 *Ciphertext) *Ciphertext {
	if ct2 == nil {
		return ct
	}
	ct.c.ModMul(ct.c, ct2.c, ct.pk.nSquared.Modulus)
	return ct
}

// Mul sets ct to the homomorphic multiplication of k ⊙ ct.
// ct = ctᵏ (mod N²).
func (ct *Ciphertext) Mul(k *saferith.Int) *Ciphertext {
	if k == nil {
		return ct
	}
	ct.c = ct.pk.nSquared.ExpI(ct.c, k)
	return ct
}

// Equal check whether ct ≡ ctₐ (mod N²).
func (ct *Ciphertext) Equal(ctA *Ciphertext) bool {
	if ctA == nil || !ct.pk.Equal(ctA.pk) {
		return false
	}
	return ct.c.Eq(ctA.c) == 1
}

// Clone returns a deep copy of ct.
func (ct Ciphertext) Clone() *Ciphertext {
	c := new(saferith.Nat)
	c.SetNat(ct.c)
	return &Ciphertext{pk: ct.pk, c: c}
}

// Randomize multiplies the ciphertext's nonce by a newly generated one.
// ct *= nonceᴺ for some nonce either given or generated here (if nonce = nil).
// The updated receiver is returned, as well as the nonce update.
func (ct *Ciphertext) Randomize(nonce *saferith.Nat) *saferith.Nat {
	if nonce == nil {
		nonce = sample.UnitModN(rand.Reader, ct.pk.n.Modulus)
	}
	// c = c*r^N
	tmp := ct.pk.nSquared.Exp(nonce, ct.pk.nNat)
	ct.c.ModMul(ct.c, tmp, ct.pk.nSquared.Modulus)
	return nonce
}

// Nat returns a copy of the underlying value of the ciphertext.
func (ct *Ciphertext) Nat() *saferith.Nat {
	return new(saferith.Nat).SetNat(ct.c)
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (ct *Ciphertext) WriteTo(w io.Writer) (int64, error) {
	if ct == nil || ct.c == nil {
		return 0, io.ErrUnexpectedEOF
	}
	buf := make([]byte, (ct.pk.nSquared.BitLen()+7)/8)
	ct.c.FillBytes(buf)
	n, err := w.Write(buf)
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (*Ciphertext) Domain() string {
	return "Paillier Ciphertext"
}
