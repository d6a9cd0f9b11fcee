// Package merkle mirrors the SPL account-compression concurrent Merkle tree
// off-chain. A tree built here and a tree built by appending the same leaves
// on-chain hold identical roots, change logs and rightmost proofs, which is
// what allows a batch of mints to be assembled locally and committed to the
// ledger as a single root.
//
// Only the (depth, buffer size) pairs accepted by the on-chain program are
// supported. Look them up with SupportedShapes or construct a tree directly:
//
//	tree, err := merkle.NewConcurrentTree(14, 64)
//	if err != nil {
//		return err
//	}
//	if _, err := tree.Initialize(); err != nil {
//		return err
//	}
//	root, err := tree.Append(leaf)
//
// The package also carries the account size arithmetic used when planning a
// tree account: TreeBodySize, CanopySize, TreeAccountSize and the inverse
// CanopyDepthFromBufferSize.
package merkle
