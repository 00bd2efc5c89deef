package sample

import (
	"fmt"
	"io"
	"math"
	"math/big"
	"sync"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/threshold-paillier/internal/params"
	"github.com/taurusgroup/threshold-paillier/pkg/pool"
)

// primes generates an array containing all the odd prime numbers < below
func primes(below uint32) []uint32 {
	sieve := make([]bool, below)
	for i := 2; i < len(sieve); i++ {
		sieve[i] = true
	}
	for p := 2; p*p < len(sieve); p++ {
		if !sieve[p] {
			continue
		}
		for i := p << 1; i < len(sieve); i += p {
			sieve[i] = false
		}
	}
	// There are approximately N / log N primes below N
	nF := float64(below)
	out := make([]uint32, 0, int(nF/math.Log(nF)))
	for p := uint32(3); p < below; p++ {
		if sieve[p] {
			out = append(out, p)
		}
	}
	return out
}

// The number of numbers to check after our initial prime guess
const sieveSize = 1 << 18

// The upper bound on the prime numbers used for sieving
const primeBound = 1 << 20

// the number of iterations to use when checking primality of (p-1)/2
const blumPrimalityIterations = 20

// thePrimes are the sieving primes, and theInverses holds 4⁻¹ (mod r) for each of them.
var thePrimes, theInverses []uint32
var initPrimes sync.Once

var sievePool = sync.Pool{
	New: func() interface{} {
		sieve := make([]bool, sieveSize)
		return &sieve
	},
}

// tryBlumPrime attempts to find a safe Blum prime of exactly the given size
// in a window after a random starting point.
func tryBlumPrime(rand io.Reader, bits int) (*saferith.Nat, bool) {
	initPrimes.Do(func() {
		thePrimes = primes(primeBound)
		theInverses = make([]uint32, len(thePrimes))
		four := big.NewInt(4)
		for i, r := range thePrimes {
			rBig := new(big.Int).SetUint64(uint64(r))
			theInverses[i] = uint32(new(big.Int).ModInverse(four, rBig).Uint64())
		}
	})

	bytes := make([]byte, (bits+7)/8)
	if _, err := io.ReadFull(rand, bytes); err != nil {
		return nil, false
	}
	// drop the excess high bits, then set the two top bits, so that the product
	// of two such primes has exactly 2⋅bits bits
	excess := uint(len(bytes)*8 - bits)
	bytes[0] &= 0xFF >> excess
	base := new(big.Int).SetBytes(bytes)
	base.SetBit(base, bits-1, 1)
	base.SetBit(base, bits-2, 1)
	// p = 3 mod 4
	base.SetBit(base, 0, 1)
	base.SetBit(base, 1, 1)

	// sieve[i] is the candidacy of base + 4i, all of which are 3 mod 4
	sievePtr := sievePool.Get().(*[]bool)
	sieve := *sievePtr
	defer sievePool.Put(sievePtr)
	for i := range sieve {
		sieve[i] = true
	}
	remainder, rBig := new(big.Int), new(big.Int)
	for j, prime := range thePrimes {
		r := uint64(prime)
		rem := remainder.Mod(base, rBig.SetUint64(r)).Uint64()
		// x = 0 (mod r) means x isn't prime, x = 1 (mod r) means (x-1)/2 isn't.
		// 4 is invertible mod r, so x = base + 4i hits both residues once per r steps.
		inv4 := uint64(theInverses[j])
		for _, target := range []uint64{0, 1} {
			start := ((target + r - rem) % r) * inv4 % r
			for i := start; i < sieveSize; i += r {
				sieve[i] = false
			}
		}
	}

	p := new(big.Int)
	half := new(big.Int)
	for i := range sieve {
		if !sieve[i] {
			continue
		}
		p.SetUint64(4 * uint64(i))
		p.Add(p, base)
		if p.BitLen() > bits {
			return nil, false
		}
		// Since p is odd, this is equivalent to (p - 1) / 2
		half.Rsh(p, 1)
		// p is likely to be prime already, so do the check more likely to fail first.
		if !half.ProbablyPrime(blumPrimalityIterations) {
			continue
		}
		// A single Miller-Rabin iteration is sufficient when (p-1)/2 is prime.
		if !p.ProbablyPrime(0) {
			continue
		}
		return new(saferith.Nat).SetBig(p, bits), true
	}
	return nil, false
}

// BlumPrime returns a safe prime p of the given size, with p = 3 (mod 4).
func BlumPrime(rand io.Reader, bits int) *saferith.Nat {
	for {
		if p, ok := tryBlumPrime(rand, bits); ok {
			return p
		}
	}
}

// Paillier generates the two distinct factors of a Paillier modulus.
// p, q are safe primes ((p - 1) / 2 is also prime) and Blum primes (p = 3 mod 4),
// each of the given size.
func Paillier(rand io.Reader, pl *pool.Pool, bits int) (p, q *saferith.Nat, err error) {
	if bits < params.MinBitsBlumPrime {
		return nil, nil, fmt.Errorf("sample: prime size %d is smaller than %d bits", bits, params.MinBitsBlumPrime)
	}
	reader := pool.NewLockedReader(rand)
	for {
		results := pool.Search(pl, 2, func() (*saferith.Nat, bool) {
			return tryBlumPrime(reader, bits)
		})
		p, q = results[0], results[1]
		if p.Eq(q) != 1 {
			return p, q, nil
		}
	}
}
