package pubkey

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
)

const (
	MaxSeeds      = 16
	MaxSeedLength = 32

	pdaMarker = "ProgramDerivedAddress"
)

// IsOnCurve reports whether raw is the encoding of a point on the ed25519
// curve. Program derived addresses must fall off the curve so that no
// private key can exist for them.
func IsOnCurve(raw []byte) bool {
	if len(raw) != PubkeyLength {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(raw)
	return err == nil
}

// CreateProgramAddress hashes seeds with programID and rejects results that
// land on the curve.
func CreateProgramAddress(seeds [][]byte, programID Pubkey) (Pubkey, error) {
	if len(seeds) > MaxSeeds {
		return Pubkey{}, ErrTooManySeeds
	}

	hasher := sha256.New()
	for _, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return Pubkey{}, ErrMaxSeedLengthExceeded
		}
		hasher.Write(seed)
	}
	hasher.Write(programID[:])
	hasher.Write([]byte(pdaMarker))

	var address Pubkey
	copy(address[:], hasher.Sum(nil))
	if IsOnCurve(address[:]) {
		return Pubkey{}, ErrInvalidSeeds
	}
	return address, nil
}

// FindProgramAddress searches bump seeds from 255 downwards and returns the
// first off-curve address together with the bump that produced it.
func FindProgramAddress(seeds [][]byte, programID Pubkey) (Pubkey, uint8, error) {
	if len(seeds) >= MaxSeeds {
		return Pubkey{}, 0, ErrTooManySeeds
	}

	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	bump := []byte{0}
	withBump[len(seeds)] = bump

	for candidate := 255; candidate > 0; candidate-- {
		bump[0] = uint8(candidate)
		address, err := CreateProgramAddress(withBump, programID)
		if err == nil {
			return address, uint8(candidate), nil
		}
		if err != ErrInvalidSeeds {
			return Pubkey{}, 0, err
		}
	}

	return Pubkey{}, 0, ErrNoViableBumpSeed
}
