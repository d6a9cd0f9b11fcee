package merkle

import (
	"fmt"
	"math/bits"
	"sort"
)

// HeaderSize is the size of the concurrent Merkle tree account header.
const HeaderSize = 56

// MaxCanopyGap is how far the canopy may sit above the leaves: proofs longer
// than this do not fit in a transaction.
const MaxCanopyGap = 17

// Shape identifies a supported (depth, buffer size) pair.
type Shape struct {
	Depth      uint32 `json:"max_depth"`
	BufferSize uint32 `json:"max_buffer_size"`
}

type treeFactory func() Tree

func factory(depth, bufferSize uint32) treeFactory {
	return func() Tree { return newConcurrentTree(depth, bufferSize) }
}

var registry = map[Shape]treeFactory{
	{3, 8}:     factory(3, 8),
	{5, 8}:     factory(5, 8),
	{6, 16}:    factory(6, 16),
	{7, 16}:    factory(7, 16),
	{8, 16}:    factory(8, 16),
	{9, 16}:    factory(9, 16),
	{10, 32}:   factory(10, 32),
	{11, 32}:   factory(11, 32),
	{12, 32}:   factory(12, 32),
	{13, 32}:   factory(13, 32),
	{14, 64}:   factory(14, 64),
	{14, 256}:  factory(14, 256),
	{14, 1024}: factory(14, 1024),
	{14, 2048}: factory(14, 2048),
	{15, 64}:   factory(15, 64),
	{16, 64}:   factory(16, 64),
	{17, 64}:   factory(17, 64),
	{18, 64}:   factory(18, 64),
	{19, 64}:   factory(19, 64),
	{20, 64}:   factory(20, 64),
	{20, 256}:  factory(20, 256),
	{20, 1024}: factory(20, 1024),
	{20, 2048}: factory(20, 2048),
	{24, 64}:   factory(24, 64),
	{24, 256}:  factory(24, 256),
	{24, 512}:  factory(24, 512),
	{24, 1024}: factory(24, 1024),
	{24, 2048}: factory(24, 2048),
	{26, 512}:  factory(26, 512),
	{26, 1024}: factory(26, 1024),
	{26, 2048}: factory(26, 2048),
	{30, 512}:  factory(30, 512),
	{30, 1024}: factory(30, 1024),
	{30, 2048}: factory(30, 2048),
}

// NewConcurrentTree returns an uninitialized tree for a supported shape.
func NewConcurrentTree(depth, bufferSize uint32) (Tree, error) {
	build, ok := registry[Shape{Depth: depth, BufferSize: bufferSize}]
	if !ok {
		return nil, unsupportedShapeError(depth, bufferSize)
	}
	return build(), nil
}

// SupportedShapes lists every supported shape ordered by depth, then buffer size.
func SupportedShapes() []Shape {
	shapes := make([]Shape, 0, len(registry))
	for shape := range registry {
		shapes = append(shapes, shape)
	}
	sort.Slice(shapes, func(i, j int) bool {
		if shapes[i].Depth != shapes[j].Depth {
			return shapes[i].Depth < shapes[j].Depth
		}
		return shapes[i].BufferSize < shapes[j].BufferSize
	})
	return shapes
}

func IsSupportedShape(depth, bufferSize uint32) bool {
	_, ok := registry[Shape{Depth: depth, BufferSize: bufferSize}]
	return ok
}

// ValidateTreeShape checks the shape against the registry and the canopy
// bounds enforced on-chain.
func ValidateTreeShape(depth, bufferSize, canopyDepth uint32) error {
	if !IsSupportedShape(depth, bufferSize) {
		return unsupportedShapeError(depth, bufferSize)
	}
	if canopyDepth >= depth {
		return fmt.Errorf("%w: canopy depth=%d, tree depth=%d", ErrCanopyTooDeep, canopyDepth, depth)
	}
	if int(canopyDepth) < int(depth)-MaxCanopyGap {
		return fmt.Errorf(
			"%w: canopy depth=%d, minimum for tree depth %d is %d",
			ErrCanopyTooShallow,
			canopyDepth,
			depth,
			int(depth)-MaxCanopyGap,
		)
	}
	return nil
}

// TreeBodySize is the serialized size of the tree without header or canopy:
// the three counters, bufferSize change logs and the rightmost path.
func TreeBodySize(depth, bufferSize uint32) (int, bool) {
	if !IsSupportedShape(depth, bufferSize) {
		return 0, false
	}
	changeLogSize := 32 + 32*int(depth) + 4 + 4
	rightmostPathSize := 32*int(depth) + 32 + 4 + 4
	return 24 + int(bufferSize)*changeLogSize + rightmostPathSize, true
}

func TreeSize(depth, bufferSize, canopyDepth uint32) (int, bool) {
	body, ok := TreeBodySize(depth, bufferSize)
	if !ok {
		return 0, false
	}
	return body + CanopySize(canopyDepth), true
}

// TreeAccountSize is the full account length including the header.
func TreeAccountSize(depth, bufferSize, canopyDepth uint32) (int, bool) {
	size, ok := TreeSize(depth, bufferSize, canopyDepth)
	if !ok {
		return 0, false
	}
	return HeaderSize + size, true
}

// CanopySize is the byte length of a canopy that caches every node of the
// top canopyDepth levels below the root.
func CanopySize(canopyDepth uint32) int {
	if canopyDepth == 0 {
		return 0
	}
	return NodeLength * ((1 << (canopyDepth + 1)) - 2)
}

// CanopyDepthFromBufferSize inverts CanopySize.
func CanopyDepthFromBufferSize(size int) uint32 {
	if size < NodeLength {
		return 0
	}
	return uint32(bits.Len(uint(size/NodeLength+2)) - 2)
}

func unsupportedShapeError(depth, bufferSize uint32) error {
	return fmt.Errorf("%w: unexpected tree depth=%d and max size=%d", ErrUnsupportedShape, depth, bufferSize)
}
