package bubblegum

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/merkle"
	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/pubkey"
)

// LeafVersionV1 is the version tag hashed in front of every V1 leaf.
const LeafVersionV1 = 1

// MessageLength is the size of the message a creator signs.
const MessageLength = 8 + merkle.NodeLength

var ErrInvalidMessage = errors.New("invalid creator message")

// LeafSchema is the V1 leaf stored in a Bubblegum tree.
type LeafSchema struct {
	ID          pubkey.Pubkey `json:"id"`
	Owner       pubkey.Pubkey `json:"owner"`
	Delegate    pubkey.Pubkey `json:"delegate"`
	Nonce       uint64        `json:"nonce"`
	DataHash    merkle.Node   `json:"data_hash"`
	CreatorHash merkle.Node   `json:"creator_hash"`
}

type leafSchemaV1 LeafSchema

type leafSchemaEnvelope struct {
	V1 *leafSchemaV1 `json:"V1"`
}

func (l LeafSchema) MarshalJSON() ([]byte, error) {
	v1 := leafSchemaV1(l)
	return json.Marshal(leafSchemaEnvelope{V1: &v1})
}

func (l *LeafSchema) UnmarshalJSON(data []byte) error {
	var envelope leafSchemaEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("failed to decode leaf schema: %w", err)
	}
	if envelope.V1 == nil {
		return fmt.Errorf("unsupported leaf schema version: %s", string(data))
	}
	*l = LeafSchema(*envelope.V1)
	return nil
}

// Hash returns the leaf hash:
// keccak(version || id || owner || delegate || nonce LE || data hash || creator hash).
func (l LeafSchema) Hash() merkle.Node {
	nonce := make([]byte, 8)
	binary.LittleEndian.PutUint64(nonce, l.Nonce)
	return merkle.Keccak256(
		[]byte{LeafVersionV1},
		l.ID[:],
		l.Owner[:],
		l.Delegate[:],
		nonce,
		l.DataHash[:],
		l.CreatorHash[:],
	)
}

// HashMetadata is keccak over the Borsh encoding of metadata.
func HashMetadata(metadata MetadataArgs) merkle.Node {
	return merkle.Keccak256(SerializeMetadataArgs(metadata))
}

// HashData binds the metadata hash to the seller fee, which is stored twice
// so marketplaces can read it without the full metadata.
func HashData(metadata MetadataArgs) merkle.Node {
	metadataHash := HashMetadata(metadata)
	fee := make([]byte, 2)
	binary.LittleEndian.PutUint16(fee, metadata.SellerFeeBasisPoints)
	return merkle.Keccak256(metadataHash[:], fee)
}

func HashCreators(creators []Creator) merkle.Node {
	parts := make([][]byte, 0, len(creators))
	for _, creator := range creators {
		entry := make([]byte, 0, pubkey.PubkeyLength+2)
		entry = append(entry, creator.Address[:]...)
		if creator.Verified {
			entry = append(entry, 1)
		} else {
			entry = append(entry, 0)
		}
		entry = append(entry, creator.Share)
		parts = append(parts, entry)
	}
	return merkle.Keccak256(parts...)
}

// MetadataArgsHash is everything derived from one asset: its id, nonce,
// the two content hashes and the resulting leaf hash.
type MetadataArgsHash struct {
	ID          pubkey.Pubkey
	Nonce       uint64
	DataHash    merkle.Node
	CreatorHash merkle.Node
	LeafHash    merkle.Node
}

// HashMetadataArgs computes the leaf for an asset minted at nonce.
func HashMetadataArgs(
	nonce uint64,
	tree pubkey.Pubkey,
	owner pubkey.Pubkey,
	delegate pubkey.Pubkey,
	metadata MetadataArgs,
) (MetadataArgsHash, error) {
	id, err := GetAssetID(tree, nonce)
	if err != nil {
		return MetadataArgsHash{}, err
	}

	leaf := LeafSchema{
		ID:          id,
		Owner:       owner,
		Delegate:    delegate,
		Nonce:       nonce,
		DataHash:    HashData(metadata),
		CreatorHash: HashCreators(metadata.Creators),
	}

	return MetadataArgsHash{
		ID:          id,
		Nonce:       nonce,
		DataHash:    leaf.DataHash,
		CreatorHash: leaf.CreatorHash,
		LeafHash:    leaf.Hash(),
	}, nil
}

// NewMetadataArgsHash rebuilds the hash record of a stored leaf without
// recomputing the asset id.
func NewMetadataArgsHash(leaf LeafSchema) MetadataArgsHash {
	return MetadataArgsHash{
		ID:          leaf.ID,
		Nonce:       leaf.Nonce,
		DataHash:    leaf.DataHash,
		CreatorHash: leaf.CreatorHash,
		LeafHash:    leaf.Hash(),
	}
}

// Message returns the bytes verified creators sign: nonce BE || leaf hash.
func (h MetadataArgsHash) Message() []byte {
	message := make([]byte, MessageLength)
	binary.BigEndian.PutUint64(message[:8], h.Nonce)
	copy(message[8:], h.LeafHash[:])
	return message
}

// Leaf returns the leaf schema this hash was computed for.
func (h MetadataArgsHash) Leaf(owner, delegate pubkey.Pubkey) LeafSchema {
	return LeafSchema{
		ID:          h.ID,
		Owner:       owner,
		Delegate:    delegate,
		Nonce:       h.Nonce,
		DataHash:    h.DataHash,
		CreatorHash: h.CreatorHash,
	}
}

// NonceFromMessage recovers the nonce from a creator message.
func NonceFromMessage(message []byte) (uint64, error) {
	if len(message) < 8 {
		return 0, fmt.Errorf("%w: %d bytes", ErrInvalidMessage, len(message))
	}
	return binary.BigEndian.Uint64(message[:8]), nil
}
