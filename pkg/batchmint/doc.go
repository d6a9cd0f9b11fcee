// Package batchmint assembles Bubblegum batch mints off-chain and validates
// them.
//
// A batch mint builds a whole compressed NFT tree locally and commits only
// its root, rightmost proof and canopy to the ledger. The full tree is
// published to immutable storage as a BatchMint file, and any validator can
// replay it to confirm the committed root.
//
// # Building a Batch
//
//	client, err := batchmint.NewClient(batchmint.ClientConfig{Ledger: rpcClient})
//	if err != nil {
//		return err
//	}
//	builder, err := client.CreateBuilder(ctx, treeID)
//	if err != nil {
//		return err
//	}
//	hash, err := builder.AddAsset(owner, owner, metadata)
//	if err != nil {
//		return err
//	}
//	// verified creators sign hash.Message()
//	err = builder.AddSignaturesForVerifiedCreators(map[uint64]map[pubkey.Pubkey]pubkey.Signature{
//		hash.Nonce: {creator: signature},
//	})
//	batch, err := builder.Build()
//
// # Creator Verification
//
// Creators are marked verified in the metadata before the asset is added,
// and the flag is hashed into the leaf. A verified creator must then sign
// the asset message, nonce big-endian followed by the leaf hash, before the
// batch can be built. Signatures for creators that are not marked verified
// are rejected.
//
// # Validating a Batch
//
//	batch, err := batchmint.ReadJSON(file)
//	if err != nil {
//		return err
//	}
//	if err := batchmint.ValidateBatchMint(ctx, batch, &collectionMint); err != nil {
//		code := batchmint.CodeOf(err)
//		...
//	}
//
// Every failure is an *Error carrying a Code and a Kind, so callers can tell
// a tampered hash from a bad path or a missing signature.
package batchmint
