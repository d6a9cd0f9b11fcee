package pubkey

import "errors"

var (
	ErrInvalidBase58Character = errors.New("invalid base58 character")
	ErrInvalidPubkeyLength    = errors.New("invalid public key length")
	ErrInvalidSignatureLength = errors.New("invalid signature length")
	ErrInvalidKeypairLength   = errors.New("invalid keypair length")
	ErrMaxSeedLengthExceeded  = errors.New("length of the seed is too long for address generation")
	ErrTooManySeeds           = errors.New("too many seeds for address generation")
	ErrInvalidSeeds           = errors.New("provided seeds do not result in a valid address")
	ErrNoViableBumpSeed       = errors.New("unable to find a viable program address bump seed")
)
