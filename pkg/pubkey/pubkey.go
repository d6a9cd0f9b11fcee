package pubkey

import (
	"crypto/ed25519"
	"encoding/binary"
	"fmt"
	"strings"
	"sync/atomic"
)

const (
	// PubkeyLength is the size of an account address in bytes.
	PubkeyLength = 32
	// SignatureLength is the size of an ed25519 signature in bytes.
	SignatureLength = 64
	// KeypairLength is the size of a serialized keypair (secret seed followed
	// by the public key), as stored in Solana CLI keypair files.
	KeypairLength = 64

	maxPubkeyBase58Length    = 44
	maxSignatureBase58Length = 88
)

// Pubkey is a 32-byte account address.
type Pubkey [PubkeyLength]byte

// FromBytes copies a 32-byte slice into a Pubkey.
func FromBytes(raw []byte) (Pubkey, error) {
	var key Pubkey
	if len(raw) != PubkeyLength {
		return key, fmt.Errorf("%w: %d", ErrInvalidPubkeyLength, len(raw))
	}
	copy(key[:], raw)
	return key, nil
}

// FromString parses a base58 encoded address.
func FromString(value string) (Pubkey, error) {
	var key Pubkey
	trimmed := strings.TrimSpace(value)
	if len(trimmed) > maxPubkeyBase58Length {
		return key, fmt.Errorf("%w: %q", ErrInvalidPubkeyLength, value)
	}
	decoded, err := Base58Decode(trimmed)
	if err != nil {
		return key, fmt.Errorf("invalid public key %q: %w", value, err)
	}
	return FromBytes(decoded)
}

// MustFromString parses a base58 address and panics on failure. It is meant
// for package-level program ID constants.
func MustFromString(value string) Pubkey {
	key, err := FromString(value)
	if err != nil {
		panic(err)
	}
	return key
}

var uniqueCounter atomic.Uint64

// NewUnique returns a distinct, deterministic address on every call. The
// result has no private key and is only suitable for tests and fixtures.
func NewUnique() Pubkey {
	var key Pubkey
	binary.BigEndian.PutUint64(key[:8], uniqueCounter.Add(1))
	return key
}

// String returns the base58 form of the key.
func (p Pubkey) String() string {
	return Base58Encode(p[:])
}

// Bytes returns a copy of the raw key bytes.
func (p Pubkey) Bytes() []byte {
	out := make([]byte, PubkeyLength)
	copy(out, p[:])
	return out
}

// IsZero reports whether every byte of the key is zero.
func (p Pubkey) IsZero() bool {
	return p == Pubkey{}
}

// MarshalText implements encoding.TextMarshaler.
func (p Pubkey) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Pubkey) UnmarshalText(text []byte) error {
	parsed, err := FromString(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Signature is a 64-byte ed25519 signature.
type Signature [SignatureLength]byte

// SignatureFromBytes copies a 64-byte slice into a Signature.
func SignatureFromBytes(raw []byte) (Signature, error) {
	var signature Signature
	if len(raw) != SignatureLength {
		return signature, fmt.Errorf("%w: %d", ErrInvalidSignatureLength, len(raw))
	}
	copy(signature[:], raw)
	return signature, nil
}

// SignatureFromString parses a base58 encoded signature.
func SignatureFromString(value string) (Signature, error) {
	var signature Signature
	trimmed := strings.TrimSpace(value)
	if len(trimmed) > maxSignatureBase58Length {
		return signature, fmt.Errorf("%w: %q", ErrInvalidSignatureLength, value)
	}
	decoded, err := Base58Decode(trimmed)
	if err != nil {
		return signature, fmt.Errorf("invalid signature %q: %w", value, err)
	}
	return SignatureFromBytes(decoded)
}

// String returns the base58 form of the signature.
func (s Signature) String() string {
	return Base58Encode(s[:])
}

// Verify reports whether s is a valid signature of message by signer.
func (s Signature) Verify(signer Pubkey, message []byte) bool {
	return ed25519.Verify(ed25519.PublicKey(signer[:]), message, s[:])
}

// MarshalText implements encoding.TextMarshaler.
func (s Signature) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Signature) UnmarshalText(text []byte) error {
	parsed, err := SignatureFromString(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Keypair is an ed25519 signing key with its account address.
type Keypair struct {
	privateKey ed25519.PrivateKey
}

// NewKeypair generates a random keypair.
func NewKeypair() (Keypair, error) {
	_, privateKey, err := ed25519.GenerateKey(nil)
	if err != nil {
		return Keypair{}, fmt.Errorf("failed to generate keypair: %w", err)
	}
	return Keypair{privateKey: privateKey}, nil
}

// KeypairFromSeed derives a keypair from a 32-byte ed25519 seed.
func KeypairFromSeed(seed []byte) (Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return Keypair{}, fmt.Errorf("%w: seed must be %d bytes", ErrInvalidKeypairLength, ed25519.SeedSize)
	}
	return Keypair{privateKey: ed25519.NewKeyFromSeed(seed)}, nil
}

// KeypairFromBytes parses the 64-byte secret-then-public layout used by
// Solana keypair files. The embedded public key must match the seed.
func KeypairFromBytes(raw []byte) (Keypair, error) {
	if len(raw) != KeypairLength {
		return Keypair{}, fmt.Errorf("%w: %d", ErrInvalidKeypairLength, len(raw))
	}
	keypair, err := KeypairFromSeed(raw[:ed25519.SeedSize])
	if err != nil {
		return Keypair{}, err
	}
	expected := keypair.Pubkey()
	if string(expected[:]) != string(raw[ed25519.SeedSize:]) {
		return Keypair{}, fmt.Errorf("keypair public key does not match its secret seed")
	}
	return keypair, nil
}

// Pubkey returns the keypair's address.
func (k Keypair) Pubkey() Pubkey {
	var key Pubkey
	copy(key[:], k.privateKey.Public().(ed25519.PublicKey))
	return key
}

// Sign signs message with the keypair.
func (k Keypair) Sign(message []byte) Signature {
	var signature Signature
	copy(signature[:], ed25519.Sign(k.privateKey, message))
	return signature
}

// Bytes returns the 64-byte serialized keypair.
func (k Keypair) Bytes() []byte {
	out := make([]byte, KeypairLength)
	copy(out, k.privateKey)
	return out
}
