package batchmint

import (
	"encoding/json"
	"maps"

	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/bubblegum"
	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/merkle"
	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/pubkey"
)

// PathNode is a node on an asset's path, addressed by its position in the
// complete binary tree where the root is 1 and the children of n are 2n and
// 2n+1.
type PathNode struct {
	Node  merkle.Node `json:"node"`
	Index uint32      `json:"index"`
}

// ChangeLogEvent is the change log emitted when an asset was appended.
type ChangeLogEvent struct {
	ID    pubkey.Pubkey `json:"id"`
	Path  []PathNode    `json:"path"`
	Seq   uint64        `json:"seq"`
	Index uint32        `json:"index"`
}

type changeLogEventJSON ChangeLogEvent

func (c ChangeLogEvent) MarshalJSON() ([]byte, error) {
	out := changeLogEventJSON(c)
	if out.Path == nil {
		out.Path = []PathNode{}
	}
	return json.Marshal(out)
}

func (c ChangeLogEvent) equal(other ChangeLogEvent) bool {
	if c.ID != other.ID || c.Seq != other.Seq || c.Index != other.Index {
		return false
	}
	return equalPaths(c.Path, other.Path)
}

// BatchMintInstruction is one minted asset of a batch.
type BatchMintInstruction struct {
	TreeUpdate ChangeLogEvent         `json:"tree_update"`
	LeafUpdate bubblegum.LeafSchema   `json:"leaf_update"`
	MintArgs   bubblegum.MetadataArgs `json:"mint_args"`
	Authority  pubkey.Pubkey          `json:"authority"`
	// CreatorSignature maps verified creators to their signature over the
	// asset message. It is nil until a signature is attached.
	CreatorSignature map[pubkey.Pubkey]pubkey.Signature `json:"creator_signature"`
}

func (b BatchMintInstruction) Equal(other BatchMintInstruction) bool {
	return b.TreeUpdate.equal(other.TreeUpdate) &&
		b.LeafUpdate == other.LeafUpdate &&
		b.MintArgs.Equal(other.MintArgs) &&
		b.Authority == other.Authority &&
		maps.Equal(b.CreatorSignature, other.CreatorSignature)
}

func (b BatchMintInstruction) clone() BatchMintInstruction {
	out := b
	out.TreeUpdate.Path = append([]PathNode(nil), b.TreeUpdate.Path...)
	out.MintArgs = b.MintArgs.Clone()
	if b.CreatorSignature != nil {
		out.CreatorSignature = maps.Clone(b.CreatorSignature)
	}
	return out
}

// BatchMint is the off-chain tree handed to validators through immutable
// storage. Replaying BatchMints in order through an empty tree of shape
// (MaxDepth, MaxBufferSize) reproduces MerkleRoot and LastLeafHash.
type BatchMint struct {
	TreeID     pubkey.Pubkey          `json:"tree_id"`
	BatchMints []BatchMintInstruction `json:"batch_mints"`
	// RawMetadataMap maps metadata URLs to their JSON documents.
	RawMetadataMap map[string]json.RawMessage `json:"raw_metadata_map"`
	MaxDepth       uint32                     `json:"max_depth"`
	MaxBufferSize  uint32                     `json:"max_buffer_size"`
	MerkleRoot     merkle.Node                `json:"merkle_root"`
	LastLeafHash   merkle.Node                `json:"last_leaf_hash"`
}

type batchMintJSON BatchMint

func (b BatchMint) MarshalJSON() ([]byte, error) {
	out := batchMintJSON(b)
	if out.BatchMints == nil {
		out.BatchMints = []BatchMintInstruction{}
	}
	if out.RawMetadataMap == nil {
		out.RawMetadataMap = map[string]json.RawMessage{}
	}
	return json.Marshal(out)
}

// UnmarshalJSON also accepts files written before batch_mints was renamed
// from rolled_mints.
func (b *BatchMint) UnmarshalJSON(data []byte) error {
	var in struct {
		batchMintJSON
		RolledMints []BatchMintInstruction `json:"rolled_mints"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*b = BatchMint(in.batchMintJSON)
	if b.BatchMints == nil && in.RolledMints != nil {
		b.BatchMints = in.RolledMints
	}
	return nil
}

// Equal compares two batches. RawMetadataMap is not part of the comparison.
func (b *BatchMint) Equal(other *BatchMint) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b.TreeID != other.TreeID ||
		b.MaxDepth != other.MaxDepth ||
		b.MaxBufferSize != other.MaxBufferSize ||
		b.MerkleRoot != other.MerkleRoot ||
		b.LastLeafHash != other.LastLeafHash ||
		len(b.BatchMints) != len(other.BatchMints) {
		return false
	}
	for index := range b.BatchMints {
		if !b.BatchMints[index].Equal(other.BatchMints[index]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the batch.
func (b *BatchMint) Clone() *BatchMint {
	out := *b
	out.BatchMints = make([]BatchMintInstruction, len(b.BatchMints))
	for index, instruction := range b.BatchMints {
		out.BatchMints[index] = instruction.clone()
	}
	out.RawMetadataMap = make(map[string]json.RawMessage, len(b.RawMetadataMap))
	for url, raw := range b.RawMetadataMap {
		out.RawMetadataMap[url] = append(json.RawMessage(nil), raw...)
	}
	return &out
}

func equalPaths(left, right []PathNode) bool {
	if len(left) != len(right) {
		return false
	}
	for index := range left {
		if left[index] != right[index] {
			return false
		}
	}
	return true
}

// changeLogPath converts a change log into absolute tree positions, leaf
// first, with the root appended at position 1.
func changeLogPath(changeLog merkle.ChangeLog) []PathNode {
	pathLength := uint32(len(changeLog.Path))
	path := make([]PathNode, 0, pathLength+1)
	for level, node := range changeLog.Path {
		path = append(path, PathNode{
			Node:  node,
			Index: (1 << (pathLength - uint32(level))) + (changeLog.Index >> uint32(level)),
		})
	}
	return append(path, PathNode{Node: changeLog.Root, Index: 1})
}
