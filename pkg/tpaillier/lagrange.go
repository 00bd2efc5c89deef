package tpaillier

import (
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/threshold-paillier/pkg/math/arith"
	"github.com/taurusgroup/threshold-paillier/pkg/math/polynomial"
	"github.com/taurusgroup/threshold-paillier/pkg/party"
)

// LagrangeExponent returns the integer 2⋅Δ⋅ℓᵢ(0) of party id over the reconstruction set:
//
//	        2⋅Δ⋅∏ⱼ j
//	eᵢ = --------------    for all j ≠ i in set.
//	      ∏ⱼ (j - i)
//
// The value is public and may be negative. It returns ErrArithmetic if the division is
// not exact, which cannot happen when Δ = n! and the set is a subset of {1, …, n}.
func LagrangeExponent(delta *saferith.Nat, id party.ID, set party.IDSlice) (*saferith.Int, error) {
	if delta == nil {
		return nil, fmt.Errorf("%w: Δ is nil", ErrArithmetic)
	}
	sorted := party.NewIDSlice(set)
	if !sorted.Valid() {
		return nil, fmt.Errorf("%w: %v contains duplicates or 0", ErrInvalidReconstructionSet, set)
	}
	if !sorted.Contains(id) {
		return nil, fmt.Errorf("%w: party %s is not in %v", ErrInvalidReconstructionSet, id, sorted)
	}

	numerator, denominator := polynomial.LagrangeTerms(sorted, id)
	// numerator = 2⋅Δ⋅∏ⱼ j
	numerator.Mul(numerator, delta.Big())
	numerator.Lsh(numerator, 1)

	exponent, ok := arith.ExactQuo(numerator, denominator)
	if !ok {
		return nil, fmt.Errorf("%w: %v is not divisible by %v", ErrArithmetic, numerator, denominator)
	}
	return arith.IntFromBig(exponent), nil
}
