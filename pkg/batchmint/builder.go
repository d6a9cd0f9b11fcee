package batchmint

import (
	"bytes"
	"encoding/json"
	"errors"
	"maps"
	"slices"

	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/bubblegum"
	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/merkle"
	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/pubkey"
)

// CollectionConfig names the collection every verified collection reference
// in the batch must point to, and the accounts needed to finalize against it.
type CollectionConfig struct {
	CollectionAuthority          pubkey.Pubkey
	CollectionAuthorityRecordPDA *pubkey.Pubkey
	CollectionMint               pubkey.Pubkey
	CollectionMetadata           pubkey.Pubkey
	EditionAccount               pubkey.Pubkey
}

// Builder assembles a batch mint off-chain. It owns one tree mirror and the
// canopy leaves derived from it and is not safe for concurrent use.
type Builder struct {
	treeID      pubkey.Pubkey
	maxDepth    uint32
	bufferSize  uint32
	canopyDepth uint32

	tree         merkle.Tree
	mints        []BatchMintInstruction
	lastLeafHash merkle.Node
	canopyLeaves []merkle.Node
	collection   *CollectionConfig
}

// NewBuilder creates a builder over an empty tree of the given shape.
func NewBuilder(treeID pubkey.Pubkey, maxDepth, bufferSize, canopyDepth uint32) (*Builder, error) {
	if err := merkle.ValidateTreeShape(maxDepth, bufferSize, canopyDepth); err != nil {
		return nil, shapeError(err, maxDepth, bufferSize)
	}

	tree, err := merkle.NewConcurrentTree(maxDepth, bufferSize)
	if err != nil {
		return nil, shapeError(err, maxDepth, bufferSize)
	}
	if _, err := tree.Initialize(); err != nil {
		return nil, wrapError(KindConfiguration, ErrorCodeIllegalArguments, err, "failed to initialize tree")
	}

	return &Builder{
		treeID:      treeID,
		maxDepth:    maxDepth,
		bufferSize:  bufferSize,
		canopyDepth: canopyDepth,
		tree:        tree,
	}, nil
}

// AddAsset appends an asset minted to owner. The nonce is the number of
// assets already added. On error the builder is unchanged.
func (b *Builder) AddAsset(owner, delegate pubkey.Pubkey, metadata bubblegum.MetadataArgs) (bubblegum.MetadataArgsHash, error) {
	nonce := uint64(len(b.mints))
	if nonce >= uint64(1)<<b.maxDepth {
		return bubblegum.MetadataArgsHash{}, newError(KindCapacity, ErrorCodeTreeFull, "tree is full: depth=%d holds %d assets", b.maxDepth, nonce)
	}

	hash, err := bubblegum.HashMetadataArgs(nonce, b.treeID, owner, delegate, metadata)
	if err != nil {
		return bubblegum.MetadataArgsHash{}, wrapError(KindConfiguration, ErrorCodeIllegalArguments, err, "failed to hash asset %d", nonce)
	}

	if _, err := b.tree.Append(hash.LeafHash); err != nil {
		if errors.Is(err, merkle.ErrTreeFull) {
			return bubblegum.MetadataArgsHash{}, wrapError(KindCapacity, ErrorCodeTreeFull, err, "failed to append asset %d", nonce)
		}
		return bubblegum.MetadataArgsHash{}, wrapError(KindStructural, ErrorCodeIllegalArguments, err, "failed to append asset %d", nonce)
	}

	changeLog := b.tree.ActiveChangeLog()
	b.updateCanopy(changeLog)
	b.lastLeafHash = hash.LeafHash
	b.mints = append(b.mints, BatchMintInstruction{
		TreeUpdate: ChangeLogEvent{
			ID:    b.treeID,
			Path:  changeLogPath(changeLog),
			Seq:   b.tree.SequenceNumber(),
			Index: changeLog.Index,
		},
		LeafUpdate: hash.Leaf(owner, delegate),
		MintArgs:   metadata.Clone(),
		Authority:  owner,
	})

	return hash, nil
}

// updateCanopy records the canopy leaf above the appended leaf. Slots are
// written in order, so the cache only ever grows by one at its end.
func (b *Builder) updateCanopy(changeLog merkle.ChangeLog) {
	if b.canopyDepth == 0 {
		return
	}
	levelsBelow := b.maxDepth - b.canopyDepth
	slot := int(changeLog.Index >> levelsBelow)
	node := changeLog.Path[levelsBelow]
	for len(b.canopyLeaves) <= slot {
		b.canopyLeaves = append(b.canopyLeaves, merkle.Node{})
	}
	b.canopyLeaves[slot] = node
}

// AddSignaturesForVerifiedCreators attaches creator signatures, keyed by
// asset nonce. A creator must already be marked verified in the asset
// metadata to be signed for, and each signature must cover the asset
// message. Every signature is checked before any is stored.
func (b *Builder) AddSignaturesForVerifiedCreators(signatures map[uint64]map[pubkey.Pubkey]pubkey.Signature) error {
	nonces := slices.Sorted(maps.Keys(signatures))

	for _, nonce := range nonces {
		if nonce >= uint64(len(b.mints)) {
			return newError(KindStructural, ErrorCodeMissingBatchMint, "missing batch mint with nonce: %d", nonce)
		}
		mint := b.mints[nonce]
		message := bubblegum.NewMetadataArgsHash(mint.LeafUpdate).Message()

		for _, creator := range slices.SortedFunc(maps.Keys(signatures[nonce]), comparePubkeys) {
			declared, ok := mint.MintArgs.FindCreator(creator)
			if !ok {
				return &Error{
					Code:    ErrorCodeExtraCreatorsReceived,
					Kind:    KindAuthorization,
					Message: "extra creators were passed for verification: " + creator.String(),
					Asset:   mint.LeafUpdate.ID.String(),
				}
			}
			if !declared.Verified {
				return &Error{
					Code:    ErrorCodeUnverifiedCreator,
					Kind:    KindAuthorization,
					Message: "cannot add signature for unverified creator: " + creator.String(),
					Asset:   mint.LeafUpdate.ID.String(),
				}
			}
			if !signatures[nonce][creator].Verify(creator, message) {
				return &Error{
					Code:    ErrorCodeFailedCreatorVerification,
					Kind:    KindAuthorization,
					Message: "failed signature verification for creator: " + creator.String(),
					Asset:   mint.LeafUpdate.ID.String(),
				}
			}
		}
	}

	for _, nonce := range nonces {
		mint := &b.mints[nonce]
		if mint.CreatorSignature == nil {
			mint.CreatorSignature = make(map[pubkey.Pubkey]pubkey.Signature, len(signatures[nonce]))
		}
		maps.Copy(mint.CreatorSignature, signatures[nonce])
	}
	return nil
}

// SetCollectionConfig sets the collection verified collection references
// must match.
func (b *Builder) SetCollectionConfig(config CollectionConfig) {
	b.collection = &config
}

// Build checks that every verified creator has signed and every verified
// collection reference matches the configured collection, then returns a
// snapshot of the batch. The snapshot shares no memory with the builder.
func (b *Builder) Build() (*BatchMint, error) {
	for _, mint := range b.mints {
		message := bubblegum.NewMetadataArgsHash(mint.LeafUpdate).Message()
		for _, creator := range mint.MintArgs.Creators {
			if !creator.Verified {
				continue
			}
			signature, ok := mint.CreatorSignature[creator.Address]
			if !ok {
				return nil, &Error{
					Code:    ErrorCodeMissingCreatorSignature,
					Kind:    KindAuthorization,
					Message: "missed signature from creator: " + creator.Address.String(),
					Asset:   mint.LeafUpdate.ID.String(),
				}
			}
			if !signature.Verify(creator.Address, message) {
				return nil, &Error{
					Code:    ErrorCodeFailedCreatorVerification,
					Kind:    KindAuthorization,
					Message: "failed signature verification for creator: " + creator.Address.String(),
					Asset:   mint.LeafUpdate.ID.String(),
				}
			}
		}

		collection := mint.MintArgs.Collection
		if collection == nil || !collection.Verified {
			continue
		}
		if b.collection == nil || b.collection.CollectionMint != collection.Key {
			return nil, &Error{
				Code:    ErrorCodeMissingCollectionSignature,
				Kind:    KindAuthorization,
				Message: "missing collection signature: " + collection.Key.String(),
				Asset:   mint.LeafUpdate.ID.String(),
			}
		}
	}

	batch := &BatchMint{
		TreeID:         b.treeID,
		BatchMints:     b.mints,
		RawMetadataMap: map[string]json.RawMessage{},
		MaxDepth:       b.maxDepth,
		MaxBufferSize:  b.bufferSize,
		MerkleRoot:     b.tree.Root(),
		LastLeafHash:   b.lastLeafHash,
	}
	return batch.Clone(), nil
}

func (b *Builder) TreeID() pubkey.Pubkey { return b.treeID }

func (b *Builder) MaxDepth() uint32 { return b.maxDepth }

func (b *Builder) MaxBufferSize() uint32 { return b.bufferSize }

func (b *Builder) CanopyDepth() uint32 { return b.canopyDepth }

// Len returns the number of assets added.
func (b *Builder) Len() int { return len(b.mints) }

func (b *Builder) MerkleRoot() merkle.Node { return b.tree.Root() }

func (b *Builder) LastLeafHash() merkle.Node { return b.lastLeafHash }

// RightmostProof returns the proof of the last appended leaf.
func (b *Builder) RightmostProof() []merkle.Node { return b.tree.RightmostProof() }

// CanopyLeaves returns a copy of the canopy leaves built so far.
func (b *Builder) CanopyLeaves() []merkle.Node {
	return append([]merkle.Node(nil), b.canopyLeaves...)
}

// CollectionConfig returns the configured collection, if any.
func (b *Builder) CollectionConfig() (CollectionConfig, bool) {
	if b.collection == nil {
		return CollectionConfig{}, false
	}
	return *b.collection, true
}

func shapeError(err error, maxDepth, bufferSize uint32) *Error {
	if errors.Is(err, merkle.ErrUnsupportedShape) {
		return wrapError(KindConfiguration, ErrorCodeUnexpectedTreeSize, err, "invalid tree shape (%d, %d)", maxDepth, bufferSize)
	}
	return wrapError(KindConfiguration, ErrorCodeIllegalArguments, err, "invalid tree shape (%d, %d)", maxDepth, bufferSize)
}

func comparePubkeys(left, right pubkey.Pubkey) int {
	return bytes.Compare(left[:], right[:])
}
