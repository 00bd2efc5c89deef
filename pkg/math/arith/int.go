package arith

import (
	"math/big"

	"github.com/cronokirby/saferith"
)

var one = new(saferith.Nat).SetUint64(1)

// One returns a new saferith.Nat set to 1.
func One() *saferith.Nat {
	return new(saferith.Nat).SetNat(one)
}

// Factorial returns n! = 1⋅2⋅…⋅n, and 1 for n ⩽ 0.
func Factorial(n int) *saferith.Nat {
	f := new(big.Int).MulRange(1, int64(n))
	if n <= 0 {
		f.SetUint64(1)
	}
	return new(saferith.Nat).SetBig(f, f.BitLen())
}

// ExactQuo returns num / den when den divides num, and false otherwise.
// The inputs are public, signed integers.
func ExactQuo(num, den *big.Int) (*big.Int, bool) {
	if den.Sign() == 0 {
		return nil, false
	}
	q, r := new(big.Int).QuoRem(num, den, new(big.Int))
	if r.Sign() != 0 {
		return nil, false
	}
	return q, true
}

// IntFromBig converts a signed big.Int into a saferith.Int with a tight capacity.
func IntFromBig(x *big.Int) *saferith.Int {
	return new(saferith.Int).SetBig(x, x.BitLen())
}

// IsValidNatModN checks that every x is in the range [1, n-1] and coprime to n.
func IsValidNatModN(n *saferith.Modulus, xs ...*saferith.Nat) bool {
	for _, x := range xs {
		if x == nil {
			return false
		}
		if _, _, lt := x.CmpMod(n); lt != 1 {
			return false
		}
		if x.IsUnit(n) != 1 {
			return false
		}
	}
	return true
}

// IsOdd returns true if x is odd.
func IsOdd(x *saferith.Nat) bool {
	return x.Byte(0)&1 == 1
}
