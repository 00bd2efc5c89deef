package polynomial

import (
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/threshold-paillier/pkg/math/sample"
	"github.com/taurusgroup/threshold-paillier/pkg/party"
)

// Polynomial represents f(X) = a₀ + a₁⋅X + … + aₜ⋅Xᵗ, with coefficients in ℤₘ.
//
// Since the modulus is a multiple of the order of the group in which the
// shares are used as exponents, interpolation in the exponent over the
// integers remains exact.
type Polynomial struct {
	modulus      *saferith.Modulus
	coefficients []*saferith.Nat
}

// NewPolynomial generates a Polynomial f(X) = constant + a₁⋅X + … + aₜ⋅Xᵗ,
// with coefficients sampled uniformly in ℤₘ, and degree t.
func NewPolynomial(rand io.Reader, modulus *saferith.Modulus, degree int, constant *saferith.Nat) *Polynomial {
	polynomial := &Polynomial{
		modulus:      modulus,
		coefficients: make([]*saferith.Nat, degree+1),
	}

	// if the constant is nil, we interpret it as 0.
	if constant == nil {
		constant = new(saferith.Nat)
	}
	polynomial.coefficients[0] = new(saferith.Nat).Mod(constant, modulus)

	for i := 1; i <= degree; i++ {
		polynomial.coefficients[i] = sample.ModN(rand, modulus)
	}
	return polynomial
}

// Evaluate evaluates a polynomial at the point given by a party's ID.
// We use Horner's method: https://en.wikipedia.org/wiki/Horner%27s_method
func (p *Polynomial) Evaluate(id party.ID) *saferith.Nat {
	if id == 0 {
		panic("polynomial: attempt to leak secret")
	}

	x := id.Nat()
	result := new(saferith.Nat)
	// reverse order
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		// bₙ₋₁ = bₙ * x + aₙ₋₁
		result.ModMul(result, x, p.modulus)
		result.ModAdd(result, p.coefficients[i], p.modulus)
	}
	return result
}

// Constant returns a reference to the constant coefficient of the polynomial.
func (p *Polynomial) Constant() *saferith.Nat {
	return p.coefficients[0]
}

// Degree is the highest power of the Polynomial.
func (p *Polynomial) Degree() int {
	return len(p.coefficients) - 1
}
