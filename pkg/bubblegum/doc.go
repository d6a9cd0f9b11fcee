// Package bubblegum implements the off-chain half of the Metaplex Bubblegum
// leaf format: the metadata types carried by a compressed NFT, their
// canonical Borsh serialization, asset id derivation, and the data, creator
// and leaf hashes that end up in the tree.
//
// # Hashing an Asset
//
//	hash, err := bubblegum.HashMetadataArgs(nonce, treeID, owner, delegate, metadata)
//	if err != nil {
//		return err
//	}
//	// hash.LeafHash is appended to the tree.
//	// hash.Message() is what verified creators sign.
//
// The creator message is the nonce in big-endian order followed by the leaf
// hash, so the nonce of a signed asset can always be recovered with
// NonceFromMessage.
//
// # Wire Format
//
// Every type marshals to the JSON shape produced by the Rust SDK: snake_case
// field names, enums as variant names, hashes as arrays of numbers and keys
// as base58 strings. LeafSchema is wrapped in its version tag, {"V1": {...}}.
package bubblegum
