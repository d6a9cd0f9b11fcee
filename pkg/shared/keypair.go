package shared

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/pubkey"
)

// LoadKeypair reads a keypair file in the solana-keygen format: a JSON array
// of the 64 secret key bytes.
func LoadKeypair(path string) (pubkey.Keypair, error) {
	if strings.TrimSpace(path) == "" {
		return pubkey.Keypair{}, fmt.Errorf("keypair path is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return pubkey.Keypair{}, fmt.Errorf("failed to read keypair file: %w", err)
	}
	return ParseKeypair(string(raw))
}

// ParseKeypair accepts a JSON byte array or a base58 string holding the 64
// secret key bytes.
func ParseKeypair(raw string) (pubkey.Keypair, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return pubkey.Keypair{}, fmt.Errorf("keypair cannot be empty")
	}

	if strings.HasPrefix(candidate, "[") {
		var secret []byte
		var values []int
		if err := json.Unmarshal([]byte(candidate), &values); err != nil {
			return pubkey.Keypair{}, fmt.Errorf("failed to decode keypair JSON: %w", err)
		}
		for index, value := range values {
			if value < 0 || value > 255 {
				return pubkey.Keypair{}, fmt.Errorf("keypair byte %d out of range: %d", index, value)
			}
			secret = append(secret, byte(value))
		}
		return pubkey.KeypairFromBytes(secret)
	}

	secret, err := pubkey.Base58Decode(candidate)
	if err != nil {
		return pubkey.Keypair{}, fmt.Errorf("failed to decode base58 keypair: %w", err)
	}
	return pubkey.KeypairFromBytes(secret)
}
