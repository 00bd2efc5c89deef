package arith

import (
	"github.com/cronokirby/saferith"
)

// Modulus wraps a saferith.Modulus and enables faster modular exponentiation when
// the factorization is known.
//
// The dealer, who knows n = p⋅q, can then compute xᵉ (mod n) or (mod n²) with two
// half-size exponentiations. Shareholders only know n, and use ModulusFromN.
type Modulus struct {
	// represents modulus n
	*saferith.Modulus
	// n = p⋅q, with p, q coprime
	p, q *saferith.Modulus
	// pInv = p⁻¹ (mod q)
	pNat, pInv *saferith.Nat
}

// ModulusFromN creates a simple wrapper around a given modulus n.
// The modulus is not copied.
func ModulusFromN(n *saferith.Modulus) *Modulus {
	return &Modulus{
		Modulus: n,
	}
}

// ModulusFromFactors creates the necessary cached values to accelerate
// exponentiation mod n = p⋅q.
//
// p and q only need to be coprime, so p², q² is also a valid factorization.
func ModulusFromFactors(p, q *saferith.Nat) *Modulus {
	nNat := new(saferith.Nat).Mul(p, q, -1)
	qMod := saferith.ModulusFromNat(q)
	return &Modulus{
		Modulus: saferith.ModulusFromNat(nNat),
		p:       saferith.ModulusFromNat(p),
		q:       qMod,
		pNat:    new(saferith.Nat).SetNat(p),
		pInv:    new(saferith.Nat).ModInverse(p, qMod),
	}
}

// Exp is equivalent to (saferith.Nat).Exp(x, e, n.Modulus).
// It returns xᵉ (mod n).
func (n *Modulus) Exp(x, e *saferith.Nat) *saferith.Nat {
	if !n.hasFactorization() {
		return new(saferith.Nat).Exp(x, e, n.Modulus)
	}
	var xp, xq saferith.Nat
	xp.Exp(x, e, n.p) // xₚ = xᵉ (mod p)
	xq.Exp(x, e, n.q) // x_q = xᵉ (mod q)
	return n.recombine(&xp, &xq)
}

// ExpI returns xᵉ (mod n) for a signed exponent e.
//
// When e is negative, this is (x⁻¹)^|e|, which requires x to be a unit mod n.
func (n *Modulus) ExpI(x *saferith.Nat, e *saferith.Int) *saferith.Nat {
	y := n.Exp(x, e.Abs())
	inverted := new(saferith.Nat).ModInverse(y, n.Modulus)
	y.CondAssign(e.IsNegative(), inverted)
	return y
}

// recombine returns the unique r (mod n) such that r = xₚ (mod p) and r = x_q (mod q).
//
// r = xₚ + p⋅[p⁻¹ (mod q)]⋅[x_q - xₚ] (mod n)
func (n *Modulus) recombine(xp, xq *saferith.Nat) *saferith.Nat {
	r := new(saferith.Nat).ModSub(xq, xp, n.Modulus)
	r.ModMul(r, n.pInv, n.Modulus)
	r.ModMul(r, n.pNat, n.Modulus)
	return r.ModAdd(r, xp, n.Modulus)
}

func (n *Modulus) hasFactorization() bool {
	return n.p != nil && n.q != nil && n.pNat != nil && n.pInv != nil
}
