package merkle

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// MaxDepth is the largest tree depth accepted by the on-chain program.
const MaxDepth = 30

// NodeLength is the size of a tree node in bytes.
const NodeLength = 32

// Node is a 32-byte keccak256 digest. It encodes to JSON as an array of
// numbers, matching the serde form used by batch files.
type Node [NodeLength]byte

var emptyNodes [MaxDepth + 1]Node

func init() {
	for level := 1; level <= MaxDepth; level++ {
		emptyNodes[level] = HashPair(emptyNodes[level-1], emptyNodes[level-1])
	}
}

// Keccak256 hashes the concatenation of parts.
func Keccak256(parts ...[]byte) Node {
	hasher := sha3.NewLegacyKeccak256()
	for _, part := range parts {
		hasher.Write(part)
	}
	var out Node
	copy(out[:], hasher.Sum(nil))
	return out
}

// HashPair returns keccak256(left || right).
func HashPair(left, right Node) Node {
	return Keccak256(left[:], right[:])
}

// EmptyNode returns the root of an empty subtree of the given height.
// Level zero is the all-zero leaf.
func EmptyNode(level uint32) Node {
	if level > MaxDepth {
		node := emptyNodes[MaxDepth]
		for current := uint32(MaxDepth); current < level; current++ {
			node = HashPair(node, node)
		}
		return node
	}
	return emptyNodes[level]
}

func (n Node) IsZero() bool {
	return n == Node{}
}

// Hex returns the lowercase hex form of the node, for logs.
func (n Node) Hex() string {
	return hex.EncodeToString(n[:])
}

func hashToParent(node, sibling Node, isLeft bool) Node {
	if isLeft {
		return HashPair(node, sibling)
	}
	return HashPair(sibling, node)
}
