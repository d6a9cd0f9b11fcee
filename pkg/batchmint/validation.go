package batchmint

import (
	"context"
	"errors"
	"strconv"

	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/bubblegum"
	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/merkle"
	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/pubkey"
)

// ValidateBatchMint checks a batch the way a validator picking it up from
// immutable storage would: every asset's id and hashes are recomputed from
// its metadata, collection and creator authorization is enforced, and the
// leaves are replayed through an empty tree whose paths, indices and final
// root must match the batch. When collectionMint is nil no asset may claim a
// verified collection. The batch is not modified.
func ValidateBatchMint(ctx context.Context, batch *BatchMint, collectionMint *pubkey.Pubkey) error {
	if batch == nil {
		return newError(KindStructural, ErrorCodeIllegalArguments, "batch mint is nil")
	}

	tree, err := merkle.NewConcurrentTree(batch.MaxDepth, batch.MaxBufferSize)
	if err != nil {
		return shapeError(err, batch.MaxDepth, batch.MaxBufferSize)
	}
	if _, err := tree.Initialize(); err != nil {
		return wrapError(KindConfiguration, ErrorCodeIllegalArguments, err, "failed to initialize tree")
	}

	leaves := make([]merkle.Node, 0, len(batch.BatchMints))
	for index, asset := range batch.BatchMints {
		if err := ctx.Err(); err != nil {
			return err
		}

		leaf, err := verifiedLeafHash(uint64(index), asset, batch.TreeID)
		if err != nil {
			return err
		}
		if err := checkCollection(asset, collectionMint); err != nil {
			return err
		}
		if err := checkCreatorSignatures(asset); err != nil {
			return err
		}
		leaves = append(leaves, leaf)
	}

	return replayChangeLogs(ctx, tree, leaves, batch)
}

// verifiedLeafHash recomputes the asset id, data hash and creator hash and
// returns the stored leaf's hash once all of them agree.
func verifiedLeafHash(position uint64, asset BatchMintInstruction, treeID pubkey.Pubkey) (merkle.Node, error) {
	leaf := asset.LeafUpdate
	assetID := leaf.ID.String()

	if leaf.Nonce != position {
		return merkle.Node{}, &Error{
			Code:     ErrorCodeWrongNonce,
			Kind:     KindStructural,
			Message:  "asset nonce does not match its position in the batch",
			Asset:    assetID,
			Expected: formatUint(position),
			Actual:   formatUint(leaf.Nonce),
		}
	}

	expectedID, err := bubblegum.GetAssetID(treeID, leaf.Nonce)
	if err != nil {
		return merkle.Node{}, wrapError(KindStructural, ErrorCodePDACheckFail, err, "cannot derive asset id")
	}
	if expectedID != leaf.ID {
		return merkle.Node{}, mismatchError(KindStructural, ErrorCodePDACheckFail, "PDACheckFail", assetID, expectedID.String(), assetID)
	}

	dataHash := bubblegum.HashData(asset.MintArgs)
	if dataHash != leaf.DataHash {
		return merkle.Node{}, mismatchError(KindHashMismatch, ErrorCodeInvalidDataHash, "InvalidDataHash", assetID, encodeNode(dataHash), encodeNode(leaf.DataHash))
	}

	creatorHash := bubblegum.HashCreators(asset.MintArgs.Creators)
	if creatorHash != leaf.CreatorHash {
		return merkle.Node{}, mismatchError(KindHashMismatch, ErrorCodeInvalidCreatorsHash, "InvalidCreatorsHash", assetID, encodeNode(creatorHash), encodeNode(leaf.CreatorHash))
	}

	return leaf.Hash(), nil
}

func checkCollection(asset BatchMintInstruction, collectionMint *pubkey.Pubkey) error {
	collection := asset.MintArgs.Collection
	if collection == nil || !collection.Verified {
		return nil
	}
	if collectionMint == nil {
		return &Error{
			Code:    ErrorCodeWrongCollectionVerified,
			Kind:    KindAuthorization,
			Message: "WrongCollectionVerified: " + collection.Key.String(),
			Asset:   asset.LeafUpdate.ID.String(),
		}
	}
	if *collectionMint != collection.Key {
		return mismatchError(
			KindAuthorization,
			ErrorCodeVerifiedCollectionMismatch,
			"VerifiedCollectionMismatch",
			asset.LeafUpdate.ID.String(),
			collectionMint.String(),
			collection.Key.String(),
		)
	}
	return nil
}

func checkCreatorSignatures(asset BatchMintInstruction) error {
	message := bubblegum.NewMetadataArgsHash(asset.LeafUpdate).Message()
	for _, creator := range asset.MintArgs.Creators {
		if !creator.Verified {
			continue
		}
		signature, ok := asset.CreatorSignature[creator.Address]
		if !ok {
			return &Error{
				Code:    ErrorCodeMissingCreatorSignature,
				Kind:    KindAuthorization,
				Message: "missing creator's signature in batch mint: " + creator.Address.String(),
				Asset:   asset.LeafUpdate.ID.String(),
			}
		}
		if !signature.Verify(creator.Address, message) {
			return &Error{
				Code:    ErrorCodeFailedCreatorVerification,
				Kind:    KindAuthorization,
				Message: "failed creator's signature verification: " + creator.Address.String(),
				Asset:   asset.LeafUpdate.ID.String(),
			}
		}
	}
	return nil
}

// replayChangeLogs appends leaves to tree and compares each resulting change
// log with the batch entry at the same position.
func replayChangeLogs(ctx context.Context, tree merkle.Tree, leaves []merkle.Node, batch *BatchMint) error {
	for index, leaf := range leaves {
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := tree.Append(leaf); err != nil {
			if errors.Is(err, merkle.ErrTreeFull) {
				return wrapError(KindCapacity, ErrorCodeTreeFull, err, "batch holds more assets than the tree")
			}
			return wrapError(KindStructural, ErrorCodeIllegalArguments, err, "failed to replay asset %d", index)
		}
		changeLog := tree.ActiveChangeLog()

		if index >= len(batch.BatchMints) {
			return newError(KindStructural, ErrorCodeNoRelevantBatchMint, "NoRelevantBatchMint: index %d", index)
		}
		mint := batch.BatchMints[index]
		assetID := mint.LeafUpdate.ID.String()

		if !equalPaths(mint.TreeUpdate.Path, changeLogPath(changeLog)) {
			return &Error{
				Code:    ErrorCodeWrongAssetPath,
				Kind:    KindStructural,
				Message: "WrongAssetPath: id " + assetID,
				Asset:   assetID,
			}
		}
		if mint.TreeUpdate.ID != batch.TreeID {
			return mismatchError(KindStructural, ErrorCodeWrongTreeIDForChangeLog, "WrongTreeIdForChangeLog", assetID, batch.TreeID.String(), mint.TreeUpdate.ID.String())
		}
		if mint.TreeUpdate.Index != changeLog.Index {
			return mismatchError(KindStructural, ErrorCodeWrongChangeLogIndex, "WrongChangeLogIndex", assetID, formatUint(uint64(changeLog.Index)), formatUint(uint64(mint.TreeUpdate.Index)))
		}
	}

	if root := tree.Root(); root != batch.MerkleRoot {
		return mismatchError(KindRootMismatch, ErrorCodeInvalidRoot, "InvalidRoot", "", encodeNode(root), encodeNode(batch.MerkleRoot))
	}
	if last := tree.RightmostLeaf(); last != batch.LastLeafHash {
		return mismatchError(KindRootMismatch, ErrorCodeInvalidLastLeafHash, "InvalidLastLeafHash", "", encodeNode(last), encodeNode(batch.LastLeafHash))
	}
	return nil
}

func encodeNode(node merkle.Node) string {
	return pubkey.Base58Encode(node[:])
}

func formatUint(value uint64) string {
	return strconv.FormatUint(value, 10)
}
