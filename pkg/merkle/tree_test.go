package merkle

import (
	"errors"
	"testing"
)

func leafFor(index int) Node {
	return Keccak256([]byte{byte(index), byte(index >> 8), 0xab})
}

// referenceLevels builds every level of a fully materialized tree whose
// missing leaves are zero.
func referenceLevels(leaves []Node, depth uint32) [][]Node {
	width := 1 << depth
	level := make([]Node, width)
	copy(level, leaves)
	levels := [][]Node{level}
	for height := uint32(0); height < depth; height++ {
		next := make([]Node, len(level)/2)
		for index := range next {
			next[index] = HashPair(level[2*index], level[2*index+1])
		}
		levels = append(levels, next)
		level = next
	}
	return levels
}

func TestEmptyNodes(t *testing.T) {
	if !EmptyNode(0).IsZero() {
		t.Fatalf("level zero must be the zero node")
	}
	for level := uint32(1); level <= 5; level++ {
		expected := HashPair(EmptyNode(level-1), EmptyNode(level-1))
		if EmptyNode(level) != expected {
			t.Fatalf("empty node mismatch at level %d", level)
		}
	}
	if EmptyNode(MaxDepth+1) != HashPair(EmptyNode(MaxDepth), EmptyNode(MaxDepth)) {
		t.Fatalf("empty node beyond the table mismatch")
	}
}

func TestInitializeSetsEmptyRoot(t *testing.T) {
	tree, err := NewConcurrentTree(5, 8)
	if err != nil {
		t.Fatalf("NewConcurrentTree failed: %v", err)
	}
	root, err := tree.Initialize()
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if root != EmptyNode(5) || tree.Root() != root {
		t.Fatalf("unexpected initial root")
	}
	if tree.SequenceNumber() != 0 || tree.ActiveIndex() != 0 || tree.BufferSize() != 1 {
		t.Fatalf("unexpected counters after initialize")
	}
	if _, err := tree.Initialize(); !errors.Is(err, ErrTreeAlreadyInitialized) {
		t.Fatalf("expected already initialized error, got %v", err)
	}
}

func TestAppendMatchesReferenceTree(t *testing.T) {
	const depth = 5
	tree, err := NewConcurrentTree(depth, 8)
	if err != nil {
		t.Fatalf("NewConcurrentTree failed: %v", err)
	}
	if _, err := tree.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	var leaves []Node
	for index := 0; index < 1<<depth; index++ {
		leaf := leafFor(index)
		leaves = append(leaves, leaf)

		root, err := tree.Append(leaf)
		if err != nil {
			t.Fatalf("Append %d failed: %v", index, err)
		}

		levels := referenceLevels(leaves, depth)
		if root != levels[depth][0] || tree.Root() != root {
			t.Fatalf("root mismatch after %d leaves", index+1)
		}

		changeLog := tree.ActiveChangeLog()
		if changeLog.Index != uint32(index) || changeLog.Root != root {
			t.Fatalf("unexpected change log after %d leaves: %+v", index+1, changeLog)
		}
		proof := tree.RightmostProof()
		for level := uint32(0); level < depth; level++ {
			position := index >> level
			if changeLog.Path[level] != levels[level][position] {
				t.Fatalf("path mismatch for leaf %d at level %d", index, level)
			}
			if proof[level] != levels[level][position^1] {
				t.Fatalf("rightmost proof mismatch for leaf %d at level %d", index, level)
			}
		}

		if tree.RightmostLeaf() != leaf || tree.RightmostIndex() != uint32(index+1) {
			t.Fatalf("unexpected rightmost state after %d leaves", index+1)
		}
		if tree.SequenceNumber() != uint64(index+1) {
			t.Fatalf("unexpected sequence number %d", tree.SequenceNumber())
		}
		if tree.ActiveIndex() != uint64(index+1)%8 {
			t.Fatalf("unexpected active index %d", tree.ActiveIndex())
		}
		if tree.BufferSize() != min(uint64(index+2), 8) {
			t.Fatalf("unexpected buffer size %d", tree.BufferSize())
		}
	}

	if _, err := tree.Append(leafFor(99)); !errors.Is(err, ErrTreeFull) {
		t.Fatalf("expected tree full error, got %v", err)
	}
}

func TestAppendRejections(t *testing.T) {
	tree, err := NewConcurrentTree(3, 8)
	if err != nil {
		t.Fatalf("NewConcurrentTree failed: %v", err)
	}
	if _, err := tree.Append(leafFor(1)); !errors.Is(err, ErrTreeNotInitialized) {
		t.Fatalf("expected not initialized error, got %v", err)
	}
	if _, err := tree.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if _, err := tree.Append(Node{}); !errors.Is(err, ErrCannotAppendEmptyNode) {
		t.Fatalf("expected empty node error, got %v", err)
	}
	if tree.SequenceNumber() != 0 {
		t.Fatalf("rejected append must not change the tree")
	}
}

func TestRightmostProofIsCopy(t *testing.T) {
	tree, _ := NewConcurrentTree(3, 8)
	_, _ = tree.Initialize()
	proof := tree.RightmostProof()
	proof[0] = leafFor(7)
	if tree.RightmostProof()[0] != EmptyNode(0) {
		t.Fatalf("rightmost proof must not alias tree state")
	}
}
