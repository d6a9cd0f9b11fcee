package bubblegum

import (
	"encoding/binary"
	"fmt"

	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/pubkey"
)

var (
	// ProgramID is the Bubblegum program.
	ProgramID = pubkey.MustFromString("BGUMAp9Gq7iTEuizy4pqaxsTyUCBK68MDfK752saRPUY")
	// CompressionProgramID is the SPL account compression program that owns
	// tree accounts.
	CompressionProgramID = pubkey.MustFromString("cmtDvXumGCrqC1Age74AVPhSRVXJMd8PJS91L8KbNCK")
	// NoopProgramID is the SPL noop log wrapper.
	NoopProgramID = pubkey.MustFromString("noopb9bkMVfRPU8AsbpTUg8AQkHtKwMYZiFUjNRtMmV")
)

const assetSeed = "asset"

// GetAssetID derives the id of the asset minted at nonce in tree.
func GetAssetID(tree pubkey.Pubkey, nonce uint64) (pubkey.Pubkey, error) {
	nonceBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(nonceBytes, nonce)

	id, _, err := pubkey.FindProgramAddress([][]byte{[]byte(assetSeed), tree[:], nonceBytes}, ProgramID)
	if err != nil {
		return pubkey.Pubkey{}, fmt.Errorf("failed to derive asset id for nonce %d: %w", nonce, err)
	}
	return id, nil
}

// DeriveTreeConfig returns the tree config (tree authority) account that
// Bubblegum keeps alongside a tree.
func DeriveTreeConfig(tree pubkey.Pubkey) (pubkey.Pubkey, error) {
	config, _, err := pubkey.FindProgramAddress([][]byte{tree[:]}, ProgramID)
	if err != nil {
		return pubkey.Pubkey{}, fmt.Errorf("failed to derive tree config for %s: %w", tree, err)
	}
	return config, nil
}
