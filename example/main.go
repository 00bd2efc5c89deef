package main

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cronokirby/saferith"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"
	"github.com/taurusgroup/threshold-paillier/pkg/paillier"
	"github.com/taurusgroup/threshold-paillier/pkg/party"
	"github.com/taurusgroup/threshold-paillier/pkg/pool"
	"github.com/taurusgroup/threshold-paillier/pkg/tpaillier"
	"golang.org/x/sync/errgroup"
)

// receive reads count shares of round r and indexes them by sender.
func receive(n Network, id party.ID, r round, count int) (map[party.ID]*saferith.Nat, error) {
	shares := make([]*tpaillier.Share, 0, count)
	for msg := range n.Next(id, r) {
		share := new(tpaillier.Share)
		if err := share.UnmarshalBinary(msg.Data); err != nil {
			return nil, fmt.Errorf("message from %s: %w", msg.From, err)
		}
		if share.ID != msg.From {
			return nil, fmt.Errorf("message from %s contains a share of %s", msg.From, share.ID)
		}
		shares = append(shares, share)
		if len(shares) == count {
			break
		}
	}
	return tpaillier.Collect(shares...)
}

func broadcast(n Network, from party.ID, r round, share *tpaillier.Share) error {
	data, err := share.MarshalBinary()
	if err != nil {
		return err
	}
	n.Broadcast(&Message{From: from, Round: r, Data: data})
	return nil
}

// Decrypt is run by every shareholder. Members of the set broadcast a partial decryption,
// then everyone combines them and contributes to the recovery of the nonce.
func Decrypt(key *tpaillier.SharedKey, ct *paillier.Ciphertext, set party.IDSlice, n Network, log zerolog.Logger) (*saferith.Nat, error) {
	id := key.ID()

	if set.Contains(id) {
		share, err := key.PartialDecryptShare(ct, set)
		if err != nil {
			return nil, err
		}
		if err = broadcast(n, id, roundDecryption, share); err != nil {
			return nil, err
		}
		log.Debug().Msg("sent partial decryption")
	}

	partials, err := receive(n, id, roundDecryption, len(set))
	if err != nil {
		return nil, err
	}
	m, err := key.Combine(set, partials)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("plaintext", m.Big().String()).Msg("decrypted")

	share, err := key.PartialRandomnessShare(ct, m)
	if err != nil {
		return nil, err
	}
	if err = broadcast(n, id, roundRandomness, share); err != nil {
		return nil, err
	}

	randomness, err := receive(n, id, roundRandomness, key.Parties())
	if err != nil {
		return nil, err
	}
	rho, err := key.CombineRandomness(randomness)
	if err != nil {
		return nil, err
	}
	if !key.VerifyRandomness(ct, m, rho) {
		return nil, errors.New("recovered nonce does not match the ciphertext")
	}
	log.Debug().Msg("recovered nonce")
	return m, nil
}

func run(cfg *Config, log zerolog.Logger) error {
	pl := pool.NewPool(0)
	defer pl.TearDown()

	start := time.Now()
	sk, err := paillier.NewSecretKey(pl, cfg.Bits)
	if err != nil {
		return fmt.Errorf("paillier key generation: %w", err)
	}
	log.Info().Int("bits", sk.N().BitLen()).Dur("took", time.Since(start)).Msg("generated Paillier key")

	keys, err := tpaillier.Deal(rand.Reader, sk, cfg.Parties, cfg.Threshold)
	if err != nil {
		return fmt.Errorf("deal: %w", err)
	}
	log.Info().
		Int("parties", cfg.Parties).
		Int("threshold", cfg.Threshold).
		Hex("fingerprint", keys[1].Fingerprint()[:8]).
		Msg("dealt key shares")

	m := new(saferith.Nat).SetBytes([]byte(cfg.Message))
	if _, _, lt := m.CmpMod(sk.N()); lt != 1 {
		return fmt.Errorf("message is too long for a %d bit modulus", sk.N().BitLen())
	}
	ct, _ := sk.Enc(m)

	ids := keys[1].PartyIDs()
	// any threshold-sized set works, as long as every party uses the same one
	set := party.NewIDSlice(ids[len(ids)-cfg.Threshold:])
	log.Info().Str("set", fmt.Sprint(set)).Msg("decrypting")

	net := NewNetwork(ids)
	type result struct {
		id        party.ID
		plaintext *saferith.Nat
	}
	results := make(map[party.ID]*saferith.Nat, len(ids))
	resultsCh := make(chan result, len(ids))
	var errGroup errgroup.Group
	for _, id := range ids {
		key := keys[id]
		errGroup.Go(func() error {
			plaintext, err := Decrypt(key, ct, set, net, log.With().Stringer("party", key.ID()).Logger())
			if err != nil {
				return fmt.Errorf("party %s: %w", key.ID(), err)
			}
			resultsCh <- result{key.ID(), plaintext}
			return nil
		})
	}
	err = errGroup.Wait()
	close(resultsCh)
	if err != nil {
		return err
	}
	for r := range resultsCh {
		results[r.id] = r.plaintext
	}

	for id, plaintext := range results {
		if plaintext.Eq(m) != 1 {
			return fmt.Errorf("party %s decrypted a different message", id)
		}
	}
	log.Info().
		Str("message", string(results[ids[0]].Big().Bytes())).
		Dur("took", time.Since(start)).
		Msg("all parties decrypted the message and recovered its nonce")
	return nil
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := validateConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("threshold decryption failed")
	}
}
