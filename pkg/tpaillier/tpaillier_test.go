package tpaillier_test

import (
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/threshold-paillier/internal/test"
	"github.com/taurusgroup/threshold-paillier/pkg/math/arith"
	"github.com/taurusgroup/threshold-paillier/pkg/math/sample"
	"github.com/taurusgroup/threshold-paillier/pkg/paillier"
	"github.com/taurusgroup/threshold-paillier/pkg/party"
	"github.com/taurusgroup/threshold-paillier/pkg/pool"
	"github.com/taurusgroup/threshold-paillier/pkg/tpaillier"
)

func nat(x uint64) *saferith.Nat {
	return new(saferith.Nat).SetUint64(x)
}

func TestSmallScenario(t *testing.T) {
	keys := test.SmallKeys()
	server, analyst := keys[1], keys[2]
	set := party.IDSlice{1, 2}

	ct := server.PublicKey().EncWithNonce(nat(12), nat(5))
	assert.Equal(t, uint64(416881), ct.Nat().Big().Uint64())

	p1, err := server.PartialDecrypt(ct, set)
	require.NoError(t, err)
	p2, err := analyst.PartialDecrypt(ct, set)
	require.NoError(t, err)
	assert.Equal(t, uint64(236369), p1.Big().Uint64())
	assert.Equal(t, uint64(336669), p2.Big().Uint64())

	m, err := server.Combine(set, map[party.ID]*saferith.Nat{1: p1, 2: p2})
	require.NoError(t, err)
	assert.Equal(t, uint64(12), m.Big().Uint64())

	// the analyst combines the same values
	m2, err := analyst.Combine(set, map[party.ID]*saferith.Nat{1: p1, 2: p2})
	require.NoError(t, err)
	assert.Equal(t, saferith.Choice(1), m.Eq(m2))

	r1, err := server.PartialRandomness(ct, m)
	require.NoError(t, err)
	r2, err := analyst.PartialRandomness(ct, m)
	require.NoError(t, err)
	assert.Equal(t, uint64(31), r1.Big().Uint64())
	assert.Equal(t, uint64(361), r2.Big().Uint64())

	rho, err := server.CombineRandomness(map[party.ID]*saferith.Nat{1: r1, 2: r2})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), rho.Big().Uint64())
	assert.True(t, server.VerifyRandomness(ct, m, rho))
	assert.False(t, server.VerifyRandomness(ct, m, nat(6)))
	assert.False(t, server.VerifyRandomness(ct, nat(13), rho))
}

func TestPartialDecryptDeterministic(t *testing.T) {
	keys := test.SmallKeys()
	set := party.IDSlice{2, 1}
	ct := keys[1].PublicKey().EncWithNonce(nat(12), nat(5))

	a, err := keys[2].PartialDecrypt(ct, set)
	require.NoError(t, err)
	b, err := keys[2].PartialDecrypt(ct, party.IDSlice{1, 2})
	require.NoError(t, err)
	assert.Equal(t, saferith.Choice(1), a.Eq(b), "the order of the set should not matter")
}

func TestPartialDecryptErrors(t *testing.T) {
	keys := test.SmallKeys()
	key := keys[1]
	set := party.IDSlice{1, 2}
	ct := key.PublicKey().EncWithNonce(nat(12), nat(5))

	_, err := key.PartialDecrypt(nil, set)
	assert.ErrorIs(t, err, tpaillier.ErrTypeMismatch)

	_, err = key.PartialDecrypt(&paillier.Ciphertext{}, set)
	assert.ErrorIs(t, err, tpaillier.ErrTypeMismatch)

	other := paillier.NewPublicKey(saferith.ModulusFromUint64(851))
	_, err = key.PartialDecrypt(other.EncWithNonce(nat(12), nat(5)), set)
	assert.ErrorIs(t, err, tpaillier.ErrKeyMismatch)

	_, err = key.PartialDecrypt(ct, party.IDSlice{1})
	assert.ErrorIs(t, err, tpaillier.ErrInsufficientShares)

	_, err = key.PartialDecrypt(ct, party.IDSlice{1, 1})
	assert.ErrorIs(t, err, tpaillier.ErrInvalidReconstructionSet)

	_, err = key.PartialDecrypt(ct, party.IDSlice{1, 3})
	assert.ErrorIs(t, err, tpaillier.ErrInvalidReconstructionSet)

	_, err = key.PartialDecrypt(ct, party.IDSlice{0, 2})
	assert.ErrorIs(t, err, tpaillier.ErrInvalidReconstructionSet)
}

func TestPartialRandomnessErrors(t *testing.T) {
	key := test.SmallKeys()[1]
	ct := key.PublicKey().EncWithNonce(nat(12), nat(5))

	_, err := key.PartialRandomness(ct, nat(799))
	assert.ErrorIs(t, err, tpaillier.ErrInvalidPlaintext)
	_, err = key.PartialRandomness(ct, nil)
	assert.ErrorIs(t, err, tpaillier.ErrInvalidPlaintext)
	_, err = key.PartialRandomness(nil, nat(12))
	assert.ErrorIs(t, err, tpaillier.ErrTypeMismatch)

	_, err = key.CombineRandomness(map[party.ID]*saferith.Nat{1: nat(31)})
	assert.ErrorIs(t, err, tpaillier.ErrInsufficientShares)
}

func TestCombineErrors(t *testing.T) {
	keys := test.SmallKeys()
	key := keys[1]
	set := party.IDSlice{1, 2}
	pk := key.PublicKey()
	ct1 := pk.EncWithNonce(nat(12), nat(5))
	ct2 := pk.EncWithNonce(nat(798), nat(2))

	p1, err := keys[1].PartialDecrypt(ct1, set)
	require.NoError(t, err)
	p2, err := keys[2].PartialDecrypt(ct2, set)
	require.NoError(t, err)

	_, err = key.Combine(set, map[party.ID]*saferith.Nat{1: p1, 2: p2})
	assert.ErrorIs(t, err, tpaillier.ErrInconsistentCiphertext, "partial decryptions of different ciphertexts")

	_, err = key.Combine(set, map[party.ID]*saferith.Nat{1: p1})
	assert.ErrorIs(t, err, tpaillier.ErrInsufficientShares)

	_, err = key.Combine(party.IDSlice{1}, map[party.ID]*saferith.Nat{1: p1, 2: p2})
	assert.ErrorIs(t, err, tpaillier.ErrInsufficientShares)

	_, err = key.Combine(set, map[party.ID]*saferith.Nat{1: p1, 3: p2})
	assert.ErrorIs(t, err, tpaillier.ErrInsufficientShares, "partial decryption of party 2 is missing")
}

func TestLagrangeExponent(t *testing.T) {
	delta := arith.Factorial(2)
	set := party.IDSlice{1, 2}

	e1, err := tpaillier.LagrangeExponent(delta, 1, set)
	require.NoError(t, err)
	e2, err := tpaillier.LagrangeExponent(delta, 2, set)
	require.NoError(t, err)
	assert.Equal(t, int64(8), e1.Big().Int64())
	assert.Equal(t, int64(-4), e2.Big().Int64())

	_, err = tpaillier.LagrangeExponent(arith.One(), 1, party.IDSlice{1, 4})
	assert.ErrorIs(t, err, tpaillier.ErrArithmetic, "2⋅4/3 is not an integer")

	_, err = tpaillier.LagrangeExponent(delta, 3, set)
	assert.ErrorIs(t, err, tpaillier.ErrInvalidReconstructionSet)

	// the exponents sum to 2⋅Δ for any set, since ∑ⱼ ℓⱼ(0) = 1
	delta5 := arith.Factorial(5)
	for _, s := range []party.IDSlice{{1, 2, 3}, {2, 4, 5}, {1, 3, 4, 5}, {1, 2, 3, 4, 5}} {
		var sum int64
		for _, id := range s {
			e, err := tpaillier.LagrangeExponent(delta5, id, s)
			require.NoError(t, err)
			sum += e.Big().Int64()
		}
		assert.Equal(t, int64(240), sum, s)
	}
}

func TestNewSharedKey(t *testing.T) {
	valid := func() tpaillier.KeyParameters {
		return tpaillier.KeyParameters{
			PublicParameters: tpaillier.PublicParameters{
				N:         saferith.ModulusFromUint64(799),
				Threshold: 2,
				Parties:   2,
				Delta:     nat(2),
				Theta:     nat(16),
			},
			ID:    1,
			Share: nat(1088108),
			X:     nat(379),
		}
	}
	key, err := tpaillier.NewSharedKey(valid())
	require.NoError(t, err)
	assert.Equal(t, party.ID(1), key.ID())
	assert.Equal(t, 2, key.Threshold())
	assert.Equal(t, 2, key.Parties())
	// 16⁻¹ (mod 799)
	assert.Equal(t, uint64(50), key.ThetaInverse().Big().Uint64())
	assert.NotContains(t, key.String(), "1088108")

	tests := []struct {
		name   string
		modify func(kp *tpaillier.KeyParameters)
		err    error
	}{
		{"nil N", func(kp *tpaillier.KeyParameters) { kp.N = nil }, tpaillier.ErrInvalidKey},
		{"even N", func(kp *tpaillier.KeyParameters) { kp.N = saferith.ModulusFromUint64(800) }, tpaillier.ErrInvalidKey},
		{"threshold 0", func(kp *tpaillier.KeyParameters) { kp.Threshold = 0 }, tpaillier.ErrInvalidKey},
		{"threshold too large", func(kp *tpaillier.KeyParameters) { kp.Threshold = 3 }, tpaillier.ErrInvalidKey},
		{"no parties", func(kp *tpaillier.KeyParameters) { kp.Parties = 0 }, tpaillier.ErrInvalidKey},
		{"wrong Δ", func(kp *tpaillier.KeyParameters) { kp.Delta = nat(6) }, tpaillier.ErrInvalidKey},
		{"nil Δ", func(kp *tpaillier.KeyParameters) { kp.Delta = nil }, tpaillier.ErrInvalidKey},
		{"nil θ", func(kp *tpaillier.KeyParameters) { kp.Theta = nil }, tpaillier.ErrInvalidKey},
		{"θ not invertible", func(kp *tpaillier.KeyParameters) { kp.Theta = nat(17) }, tpaillier.ErrArithmetic},
		{"ID 0", func(kp *tpaillier.KeyParameters) { kp.ID = 0 }, tpaillier.ErrInvalidKey},
		{"ID too large", func(kp *tpaillier.KeyParameters) { kp.ID = 3 }, tpaillier.ErrInvalidKey},
		{"nil share", func(kp *tpaillier.KeyParameters) { kp.Share = nil }, tpaillier.ErrInvalidKey},
		{"nil randomness share", func(kp *tpaillier.KeyParameters) { kp.X = nil }, tpaillier.ErrInvalidKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kp := valid()
			tt.modify(&kp)
			_, err := tpaillier.NewSharedKey(kp)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestDealSmall(t *testing.T) {
	sk := paillier.NewSecretKeyFromPrimes(nat(17), nat(47))
	keys, err := tpaillier.Deal(test.Reader("deal small"), sk, 2, 2)
	require.NoError(t, err)
	require.Len(t, keys, 2)

	ct := sk.EncWithNonce(nat(12), nat(5))
	set := keys[1].PartyIDs()
	partials, err := test.PartialDecryptAll(keys, ct, set)
	require.NoError(t, err)
	m, err := keys[2].Combine(set, partials)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), m.Big().Uint64())

	randomness, err := test.PartialRandomnessAll(keys, ct, m)
	require.NoError(t, err)
	rho, err := keys[1].CombineRandomness(randomness)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), rho.Big().Uint64())
}

func TestDeal(t *testing.T) {
	pl := pool.NewPool(0)
	defer pl.TearDown()

	source := test.Reader("deal 3 of 5")
	sk, keys := test.GenerateKeys(source, pl, 5, 3, 128)
	require.Len(t, keys, 5)
	for id, key := range keys {
		assert.Equal(t, id, key.ID())
		assert.Equal(t, keys[1].Fingerprint(), key.Fingerprint())
		assert.True(t, keys[1].Public.Equal(key.Public))
	}

	m := sample.ModN(source, sk.N())
	ct, nonce := sk.EncFrom(source, m)

	sets := []party.IDSlice{{1, 2, 3}, {3, 4, 5}, {1, 3, 5}, {2, 3, 4, 5}, {1, 2, 3, 4, 5}}
	for _, set := range sets {
		partials, err := test.PartialDecryptAll(keys, ct, set)
		require.NoError(t, err, set)
		decrypted, err := keys[set[0]].Combine(set, partials)
		require.NoError(t, err, set)
		assert.Equal(t, saferith.Choice(1), m.Eq(decrypted), set)
	}

	// an insufficient set is rejected by every party
	for _, id := range []party.ID{1, 2} {
		_, err := keys[id].PartialDecrypt(ct, party.IDSlice{1, 2})
		assert.ErrorIs(t, err, tpaillier.ErrInsufficientShares)
	}

	// partial decryptions computed for different sets don't combine
	p1, err := keys[1].PartialDecrypt(ct, party.IDSlice{1, 2, 3})
	require.NoError(t, err)
	p2, err := keys[2].PartialDecrypt(ct, party.IDSlice{1, 2, 4})
	require.NoError(t, err)
	p3, err := keys[3].PartialDecrypt(ct, party.IDSlice{1, 2, 3})
	require.NoError(t, err)
	_, err = keys[1].Combine(party.IDSlice{1, 2, 3}, map[party.ID]*saferith.Nat{1: p1, 2: p2, 3: p3})
	assert.ErrorIs(t, err, tpaillier.ErrInconsistentCiphertext)

	randomness, err := test.PartialRandomnessAll(keys, ct, m)
	require.NoError(t, err)
	rho, err := keys[4].CombineRandomness(randomness)
	require.NoError(t, err)
	assert.Equal(t, saferith.Choice(1), nonce.Eq(rho))
	assert.True(t, keys[5].VerifyRandomness(ct, m, rho))

	delete(randomness, 5)
	_, err = keys[4].CombineRandomness(randomness)
	assert.ErrorIs(t, err, tpaillier.ErrInsufficientShares)
}

func TestDealErrors(t *testing.T) {
	sk := paillier.NewSecretKeyFromPrimes(nat(17), nat(47))
	source := test.Reader("deal errors")

	_, err := tpaillier.Deal(source, nil, 2, 2)
	assert.ErrorIs(t, err, tpaillier.ErrInvalidKey)
	_, err = tpaillier.Deal(source, sk, 0, 0)
	assert.ErrorIs(t, err, tpaillier.ErrInvalidKey)
	_, err = tpaillier.Deal(source, sk, 2, 3)
	assert.ErrorIs(t, err, tpaillier.ErrInvalidKey)
	_, err = tpaillier.Deal(source, sk, 3, 0)
	assert.ErrorIs(t, err, tpaillier.ErrInvalidKey)
}

func TestPartialDecryptBatch(t *testing.T) {
	pl := pool.NewPool(0)
	defer pl.TearDown()

	keys := test.SmallKeys()
	set := party.IDSlice{1, 2}
	pk := keys[1].PublicKey()

	messages := []uint64{0, 1, 12, 400, 798}
	cts := make([]*paillier.Ciphertext, len(messages))
	for i, m := range messages {
		cts[i] = pk.EncWithNonce(nat(m), nat(5))
	}

	batch1, err := keys[1].PartialDecryptBatch(pl, cts, set)
	require.NoError(t, err)
	batch2, err := keys[2].PartialDecryptBatch(nil, cts, set)
	require.NoError(t, err)
	require.Len(t, batch1, len(cts))

	for i, m := range messages {
		single, err := keys[1].PartialDecrypt(cts[i], set)
		require.NoError(t, err)
		assert.Equal(t, saferith.Choice(1), single.Eq(batch1[i]))

		decrypted, err := keys[1].Combine(set, map[party.ID]*saferith.Nat{1: batch1[i], 2: batch2[i]})
		require.NoError(t, err)
		assert.Equal(t, m, decrypted.Big().Uint64())
	}

	cts[3] = nil
	_, err = keys[1].PartialDecryptBatch(pl, cts, set)
	assert.ErrorIs(t, err, tpaillier.ErrTypeMismatch)
}

func TestCollect(t *testing.T) {
	shares := []*tpaillier.Share{
		{ID: 1, Value: nat(1)},
		{ID: 2, Value: nat(2)},
	}
	collected, err := tpaillier.Collect(shares...)
	require.NoError(t, err)
	assert.Len(t, collected, 2)

	_, err = tpaillier.Collect(append(shares, &tpaillier.Share{ID: 1, Value: nat(3)})...)
	assert.ErrorIs(t, err, tpaillier.ErrInvalidReconstructionSet)

	_, err = tpaillier.Collect(&tpaillier.Share{ID: 1})
	assert.ErrorIs(t, err, tpaillier.ErrTypeMismatch)
}
