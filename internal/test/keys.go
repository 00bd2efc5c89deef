package test

import (
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/threshold-paillier/pkg/math/arith"
	"github.com/taurusgroup/threshold-paillier/pkg/math/sample"
	"github.com/taurusgroup/threshold-paillier/pkg/paillier"
	"github.com/taurusgroup/threshold-paillier/pkg/party"
	"github.com/taurusgroup/threshold-paillier/pkg/pool"
	"github.com/taurusgroup/threshold-paillier/pkg/tpaillier"
)

// GenerateKeys samples a Paillier key with primes of the given size, and deals it to
// the parties. It panics on failure.
func GenerateKeys(source io.Reader, pl *pool.Pool, parties, threshold, bits int) (*paillier.SecretKey, map[party.ID]*tpaillier.SharedKey) {
	p, q, err := sample.Paillier(source, pl, bits)
	if err != nil {
		panic(err)
	}
	sk := paillier.NewSecretKeyFromPrimes(p, q)
	keys, err := tpaillier.Deal(source, sk, parties, threshold)
	if err != nil {
		panic(err)
	}
	return sk, keys
}

// SmallKeys returns the 2-of-2 sharing of N = 17⋅47 = 799 between a server with ID 1
// and an analyst with ID 2.
//
// Encrypting m = 12 with ρ = 5 gives a ciphertext both parties can decrypt together.
func SmallKeys() map[party.ID]*tpaillier.SharedKey {
	n := saferith.ModulusFromUint64(799)
	public := tpaillier.PublicParameters{
		N:         n,
		Threshold: 2,
		Parties:   2,
		Delta:     arith.Factorial(2),
		Theta:     new(saferith.Nat).SetUint64(16),
	}
	shares := map[party.ID][2]uint64{
		1: {1088108, 379},
		2: {1584955, 100},
	}
	keys := make(map[party.ID]*tpaillier.SharedKey, len(shares))
	for id, s := range shares {
		key, err := tpaillier.NewSharedKey(tpaillier.KeyParameters{
			PublicParameters: public,
			ID:               id,
			Share:            new(saferith.Nat).SetUint64(s[0]),
			X:                new(saferith.Nat).SetUint64(s[1]),
		})
		if err != nil {
			panic(err)
		}
		keys[id] = key
	}
	return keys
}
