package polynomial

import (
	"math/big"

	"github.com/taurusgroup/threshold-paillier/pkg/party"
)

// LagrangeTerms returns the numerator and denominator of the Lagrange coefficient at 0
// of the party with index j, over the integers:
//
//	                 ∏ᵢ xᵢ
//	ℓⱼ(0) = ---------------------    for all i ≠ j in the interpolation domain.
//	         ∏ᵢ (xᵢ - xⱼ)
//
// The fraction is not reduced. Multiplying the numerator by Δ = n! makes it
// divisible by the denominator for any domain of IDs in [1, n].
//
// The formulas are taken from https://en.wikipedia.org/wiki/Lagrange_polynomial
func LagrangeTerms(interpolationDomain party.IDSlice, j party.ID) (numerator, denominator *big.Int) {
	numerator = big.NewInt(1)
	denominator = big.NewInt(1)
	xJ := big.NewInt(int64(j))
	tmp := new(big.Int)
	for _, id := range interpolationDomain {
		if id == j {
			continue
		}
		xI := big.NewInt(int64(id))
		// numerator *= xᵢ
		numerator.Mul(numerator, xI)
		// denominator *= xᵢ - xⱼ
		tmp.Sub(xI, xJ)
		denominator.Mul(denominator, tmp)
	}
	return numerator, denominator
}
