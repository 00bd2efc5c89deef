package arith

import (
	"math/big"
	mrand "math/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	p, q, pSquared, qSquared   *saferith.Nat
	n, nSquared                *saferith.Modulus
	mFast, mSlow               *Modulus
	mSquaredFast, mSquaredSlow *Modulus
)

func init() {
	p, _ = new(saferith.Nat).SetHex("D4438C2EF360C186C512948177E1C6C2EA1BFDF7E672B1E321CB790CE4AEEE93")
	q, _ = new(saferith.Nat).SetHex("F79C15F80F5EAE578DF9D2CA267B4EA4A5CA82957152648A78D97214F3BD00C3")
	n = saferith.ModulusFromNat(new(saferith.Nat).Mul(p, q, -1))
	mFast = ModulusFromFactors(p, q)
	mSlow = ModulusFromN(n)

	pSquared = new(saferith.Nat).Mul(p, p, -1)
	qSquared = new(saferith.Nat).Mul(q, q, -1)
	nSquared = saferith.ModulusFromNat(new(saferith.Nat).Mul(pSquared, qSquared, -1))
	mSquaredFast = ModulusFromFactors(pSquared, qSquared)
	mSquaredSlow = ModulusFromN(nSquared)
}

func randomNat(r *mrand.Rand, bits int) *saferith.Nat {
	buf := make([]byte, bits/8)
	_, _ = r.Read(buf)
	return new(saferith.Nat).SetBytes(buf)
}

func TestModulus_Exp(t *testing.T) {
	r := mrand.New(mrand.NewSource(0))
	assert.Equal(t, saferith.Choice(1), mFast.Nat().Eq(mSlow.Nat()), "n moduli should be the same")
	assert.Equal(t, saferith.Choice(1), mSquaredFast.Nat().Eq(mSquaredSlow.Nat()), "n² moduli should be the same")

	for _, m := range []struct {
		fast, slow *Modulus
	}{{mFast, mSlow}, {mSquaredFast, mSquaredSlow}} {
		x := new(saferith.Nat).Mod(randomNat(r, 1024), m.slow.Modulus)
		e := randomNat(r, 600)
		eNeg := new(saferith.Int).SetNat(e).Neg(1)

		yExpected := new(saferith.Nat).Exp(x, e, m.slow.Modulus)
		assert.Equal(t, saferith.Choice(1), yExpected.Eq(m.fast.Exp(x, e)), "exponentiation with acceleration should give the same result")
		assert.Equal(t, saferith.Choice(1), yExpected.Eq(m.slow.Exp(x, e)), "exponentiation without acceleration should give the same result")

		yExpected.ExpI(x, eNeg, m.slow.Modulus)
		assert.Equal(t, saferith.Choice(1), yExpected.Eq(m.fast.ExpI(x, eNeg)), "negative exponentiation with acceleration should give the same result")
		assert.Equal(t, saferith.Choice(1), yExpected.Eq(m.slow.ExpI(x, eNeg)), "negative exponentiation without acceleration should give the same result")

		// x⁻ᵉ⋅xᵉ = 1
		prod := new(saferith.Nat).ModMul(m.slow.ExpI(x, eNeg), m.slow.Exp(x, e), m.slow.Modulus)
		assert.Equal(t, saferith.Choice(1), prod.Eq(One()))
	}
}

func TestFactorial(t *testing.T) {
	assert.Equal(t, uint64(1), Factorial(0).Big().Uint64())
	assert.Equal(t, uint64(1), Factorial(1).Big().Uint64())
	assert.Equal(t, uint64(2), Factorial(2).Big().Uint64())
	assert.Equal(t, uint64(3628800), Factorial(10).Big().Uint64())
}

func TestExactQuo(t *testing.T) {
	quo, ok := ExactQuo(big.NewInt(-12), big.NewInt(4))
	require.True(t, ok)
	assert.Equal(t, int64(-3), quo.Int64())

	_, ok = ExactQuo(big.NewInt(13), big.NewInt(4))
	assert.False(t, ok)

	_, ok = ExactQuo(big.NewInt(13), big.NewInt(0))
	assert.False(t, ok)

	i := IntFromBig(big.NewInt(-7))
	assert.Equal(t, saferith.Choice(1), i.IsNegative())
	assert.Equal(t, uint64(7), i.Abs().Big().Uint64())
}

func TestIsValidNatModN(t *testing.T) {
	assert.True(t, IsValidNatModN(n, One(), new(saferith.Nat).SetUint64(2)))
	assert.False(t, IsValidNatModN(n, new(saferith.Nat)))
	assert.False(t, IsValidNatModN(n, p))
	assert.False(t, IsValidNatModN(n, n.Nat()))
	assert.False(t, IsValidNatModN(n, nil))

	assert.True(t, IsOdd(p))
	assert.False(t, IsOdd(new(saferith.Nat).Add(p, One(), -1)))
}
