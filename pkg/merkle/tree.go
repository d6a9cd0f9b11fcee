package merkle

import (
	"fmt"
	"math/bits"
)

// ChangeLog records the state of the tree after one append: the new root,
// the path from the appended leaf up to (but excluding) the root, and the
// leaf index.
type ChangeLog struct {
	Root  Node   `json:"root"`
	Path  []Node `json:"path"`
	Index uint32 `json:"index"`
}

func (c ChangeLog) clone() ChangeLog {
	path := make([]Node, len(c.Path))
	copy(path, c.Path)
	return ChangeLog{Root: c.Root, Path: path, Index: c.Index}
}

// Tree is the append-only view of a concurrent Merkle tree. Implementations
// are not safe for concurrent use.
type Tree interface {
	Initialize() (Node, error)
	Append(leaf Node) (Node, error)
	ActiveIndex() uint64
	ActiveChangeLog() ChangeLog
	SequenceNumber() uint64
	BufferSize() uint64
	Root() Node
	RightmostProof() []Node
	RightmostLeaf() Node
	RightmostIndex() uint32
	Depth() uint32
	MaxBufferSize() uint32
}

type rightmostPath struct {
	proof []Node
	leaf  Node
	index uint32
}

type concurrentTree struct {
	depth         uint32
	maxBufferSize uint32

	sequenceNumber uint64
	activeIndex    uint64
	bufferSize     uint64
	changeLogs     []ChangeLog
	rightmost      rightmostPath
	initialized    bool
}

func newConcurrentTree(depth, maxBufferSize uint32) *concurrentTree {
	changeLogs := make([]ChangeLog, maxBufferSize)
	for index := range changeLogs {
		changeLogs[index].Path = make([]Node, depth)
	}
	return &concurrentTree{
		depth:         depth,
		maxBufferSize: maxBufferSize,
		changeLogs:    changeLogs,
		rightmost:     rightmostPath{proof: make([]Node, depth)},
	}
}

func (t *concurrentTree) Initialize() (Node, error) {
	if t.initialized {
		return Node{}, ErrTreeAlreadyInitialized
	}

	for level := uint32(0); level < t.depth; level++ {
		empty := EmptyNode(level)
		t.rightmost.proof[level] = empty
		t.changeLogs[0].Path[level] = empty
	}
	t.rightmost.leaf = Node{}
	t.rightmost.index = 0

	t.changeLogs[0].Root = EmptyNode(t.depth)
	t.changeLogs[0].Index = 0
	t.sequenceNumber = 0
	t.activeIndex = 0
	t.bufferSize = 1
	t.initialized = true

	return t.changeLogs[0].Root, nil
}

func (t *concurrentTree) Append(leaf Node) (Node, error) {
	if !t.initialized {
		return Node{}, ErrTreeNotInitialized
	}
	if leaf.IsZero() {
		return Node{}, ErrCannotAppendEmptyNode
	}
	if uint64(t.rightmost.index) >= uint64(1)<<t.depth {
		return Node{}, fmt.Errorf("%w: depth=%d", ErrTreeFull, t.depth)
	}

	index := t.rightmost.index
	path := make([]Node, t.depth)
	node := leaf

	if index == 0 {
		for level := uint32(0); level < t.depth; level++ {
			path[level] = node
			node = hashToParent(node, t.rightmost.proof[level], true)
		}
	} else {
		previous := index - 1
		intersection := uint32(bits.TrailingZeros32(index))
		intersectionNode := t.rightmost.leaf
		for level := uint32(0); level < t.depth; level++ {
			path[level] = node
			switch {
			case level < intersection:
				sibling := EmptyNode(level)
				intersectionNode = hashToParent(intersectionNode, t.rightmost.proof[level], (previous>>level)&1 == 0)
				node = hashToParent(node, sibling, true)
				t.rightmost.proof[level] = sibling
			case level == intersection:
				node = hashToParent(node, intersectionNode, false)
				t.rightmost.proof[level] = intersectionNode
			default:
				node = hashToParent(node, t.rightmost.proof[level], (previous>>level)&1 == 0)
			}
		}
	}

	t.incrementCounters()
	t.changeLogs[t.activeIndex] = ChangeLog{Root: node, Path: path, Index: index}
	t.rightmost.index = index + 1
	t.rightmost.leaf = leaf

	return node, nil
}

func (t *concurrentTree) incrementCounters() {
	t.activeIndex = (t.activeIndex + 1) & uint64(t.maxBufferSize-1)
	t.bufferSize = min(t.bufferSize+1, uint64(t.maxBufferSize))
	t.sequenceNumber++
}

func (t *concurrentTree) ActiveIndex() uint64 { return t.activeIndex }

func (t *concurrentTree) ActiveChangeLog() ChangeLog {
	return t.changeLogs[t.activeIndex].clone()
}

func (t *concurrentTree) SequenceNumber() uint64 { return t.sequenceNumber }

func (t *concurrentTree) BufferSize() uint64 { return t.bufferSize }

func (t *concurrentTree) Root() Node { return t.changeLogs[t.activeIndex].Root }

func (t *concurrentTree) RightmostProof() []Node {
	proof := make([]Node, len(t.rightmost.proof))
	copy(proof, t.rightmost.proof)
	return proof
}

func (t *concurrentTree) RightmostLeaf() Node { return t.rightmost.leaf }

func (t *concurrentTree) RightmostIndex() uint32 { return t.rightmost.index }

func (t *concurrentTree) Depth() uint32 { return t.depth }

func (t *concurrentTree) MaxBufferSize() uint32 { return t.maxBufferSize }
