package test

import (
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/threshold-paillier/pkg/paillier"
	"github.com/taurusgroup/threshold-paillier/pkg/party"
	"github.com/taurusgroup/threshold-paillier/pkg/tpaillier"
	"golang.org/x/sync/errgroup"
)

// Contribute is the computation of a single party.
type Contribute func(key *tpaillier.SharedKey) (*tpaillier.Share, error)

// Rounds runs f concurrently for every key of a party in ids.
// Each share is serialized and decoded again, as it would be when sent to a combiner.
func Rounds(keys map[party.ID]*tpaillier.SharedKey, ids party.IDSlice, f Contribute) (map[party.ID]*saferith.Nat, error) {
	var (
		errGroup errgroup.Group
		out      = make(chan []byte, len(ids))
	)
	for _, id := range ids {
		id := id
		key := keys[id]
		errGroup.Go(func() error {
			if key == nil {
				return fmt.Errorf("test: no key for party %s", id)
			}
			share, err := f(key)
			if err != nil {
				return err
			}
			data, err := share.MarshalBinary()
			if err != nil {
				return err
			}
			out <- data
			return nil
		})
	}
	err := errGroup.Wait()
	close(out)
	if err != nil {
		return nil, err
	}

	shares := make([]*tpaillier.Share, 0, len(ids))
	for data := range out {
		share := new(tpaillier.Share)
		if err = share.UnmarshalBinary(data); err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}
	return tpaillier.Collect(shares...)
}

// PartialDecryptAll returns the partial decryptions of ct by every party in set.
func PartialDecryptAll(keys map[party.ID]*tpaillier.SharedKey, ct *paillier.Ciphertext, set party.IDSlice) (map[party.ID]*saferith.Nat, error) {
	return Rounds(keys, set, func(key *tpaillier.SharedKey) (*tpaillier.Share, error) {
		return key.PartialDecryptShare(ct, set)
	})
}

// PartialRandomnessAll returns the partial randomness of ct from every party.
func PartialRandomnessAll(keys map[party.ID]*tpaillier.SharedKey, ct *paillier.Ciphertext, m *saferith.Nat) (map[party.ID]*saferith.Nat, error) {
	ids := make(party.IDSlice, 0, len(keys))
	for id := range keys {
		ids = append(ids, id)
	}
	return Rounds(keys, party.NewIDSlice(ids), func(key *tpaillier.SharedKey) (*tpaillier.Share, error) {
		return key.PartialRandomnessShare(ct, m)
	})
}
