package treeaccount

import "github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/merkle"

// CanopyNodesPerTx is how many canopy nodes fit in one add-canopy transaction.
const CanopyNodesPerTx = 24

// CanopyChunk is one add-canopy upload: Nodes are written starting at
// canopy leaf StartIndex.
type CanopyChunk struct {
	StartIndex uint32
	Nodes      []merkle.Node
}

// CanopyToAdd returns the suffix of local that still has to be uploaded and
// the canopy index it starts at. When existing is a prefix of local only the
// remainder is returned. Any disagreement, including a remote canopy longer
// than the local one, restarts the upload from index zero.
func CanopyToAdd(existing, local []merkle.Node) ([]merkle.Node, int) {
	if len(existing) > len(local) {
		return local, 0
	}
	for index, node := range existing {
		if local[index] != node {
			return local, 0
		}
	}
	return local[len(existing):], len(existing)
}

// ChunkCanopy splits nodes into uploads of at most size nodes whose start
// indices continue from offset.
func ChunkCanopy(nodes []merkle.Node, offset int, size int) []CanopyChunk {
	if size <= 0 {
		size = CanopyNodesPerTx
	}

	chunks := make([]CanopyChunk, 0, (len(nodes)+size-1)/size)
	for start := 0; start < len(nodes); start += size {
		end := min(start+size, len(nodes))
		chunk := make([]merkle.Node, end-start)
		copy(chunk, nodes[start:end])
		chunks = append(chunks, CanopyChunk{
			StartIndex: uint32(offset + start),
			Nodes:      chunk,
		})
	}
	return chunks
}
