package tpaillier

import "errors"

var (
	ErrTypeMismatch             = errors.New("tpaillier: value is not a valid Paillier ciphertext")
	ErrKeyMismatch              = errors.New("tpaillier: ciphertext was encrypted under a different key")
	ErrInsufficientShares       = errors.New("tpaillier: not enough shares")
	ErrInconsistentCiphertext   = errors.New("tpaillier: combined decryption minus one is not divisible by N")
	ErrArithmetic               = errors.New("tpaillier: arithmetic failure")
	ErrInvalidKey               = errors.New("tpaillier: invalid key parameters")
	ErrInvalidReconstructionSet = errors.New("tpaillier: invalid reconstruction set")
	ErrInvalidPlaintext         = errors.New("tpaillier: plaintext is not in [0, N-1]")
)
