// Package rpc provides a minimal Solana JSON-RPC client used by the Bubblegum
// Batch Mint SDK to read tree accounts from the ledger. It implements the
// batchmint.Ledger interface, so a Client can back canopy synchronization and
// builder restoration directly.
//
//	client, err := rpc.NewClient(rpc.Config{Network: "devnet"})
//	data, err := client.GetAccountData(ctx, tree)
//
// This package is part of the Bubblegum Batch Mint SDK for Go.
package rpc
