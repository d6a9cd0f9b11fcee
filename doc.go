// The Bubblegum Batch Mint SDK for Go builds Metaplex Bubblegum compressed
// NFT trees off-chain. A batch of assets is appended to a local copy of the
// SPL concurrent Merkle tree, serialized to a batch file for immutable
// storage, and finalized on-chain with a single root, while validators
// replay the same file to confirm every asset.
//
// # Packages
//
//   - pkg/pubkey: 32-byte addresses, ed25519 signatures, base58 and PDAs
//   - pkg/merkle: the concurrent Merkle tree and the supported tree shapes
//   - pkg/bubblegum: metadata types, Borsh encoding and leaf hashing
//   - pkg/treeaccount: the tree account layout and canopy diffing
//   - pkg/batchmint: batch builder, batch file codec, validator and client
//   - pkg/rpc: a JSON-RPC ledger reader for tree accounts
//   - pkg/shared: network names, environment configuration and keypairs
//
// # Workflow
//
//  1. Prepare a tree account of a supported (depth, buffer size) shape.
//  2. Add assets with a batchmint.Builder and attach creator signatures.
//  3. Upload the batch file and the canopy leaves.
//  4. Finalize the tree with the builder's root, last leaf and proof.
//
// # Installation
//
//	go get github.com/metaplex-foundation/bubblegum-batch-sdk@latest
package bubblegum_batch_sdk
