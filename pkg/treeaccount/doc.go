// Package treeaccount reads concurrent Merkle tree accounts fetched from the
// ledger and plans canopy uploads against them.
//
// Parse splits raw account bytes into the 56-byte header, the tree body and
// the canopy segment. NonEmptyCanopyLeaves reports which canopy leaves have
// already been written, and CanopyToAdd compares them with the locally built
// canopy so an interrupted upload can resume where it stopped:
//
//	info, err := treeaccount.Parse(data)
//	if err != nil {
//		return err
//	}
//	existing, err := info.NonEmptyCanopyLeaves()
//	if err != nil {
//		return err
//	}
//	missing, offset := treeaccount.CanopyToAdd(existing, builder.CanopyLeaves())
//	for _, chunk := range treeaccount.ChunkCanopy(missing, offset, treeaccount.CanopyNodesPerTx) {
//		// send chunk.Nodes starting at chunk.StartIndex
//	}
package treeaccount
