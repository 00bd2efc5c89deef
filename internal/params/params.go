package params

const (
	SecParam  = 256
	SecBytes  = SecParam / 8
	StatParam = 80

	// BitsBlumPrime is the default size of each factor of a dealt Paillier modulus.
	BitsBlumPrime = 4 * SecParam      // = 1024
	BitsPaillier  = 2 * BitsBlumPrime // = 2048

	// MinBitsBlumPrime is the smallest prime size accepted when sampling.
	// Anything below is only useful for tests.
	MinBitsBlumPrime = 64

	BytesPaillier   = BitsPaillier / 8  // = 256
	BytesCiphertext = 2 * BytesPaillier // = 512

	// MaxParties bounds the number of shareholders, so that Δ = MaxParties! stays small.
	MaxParties = 1 << 10
)
