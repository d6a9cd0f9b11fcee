// Package shared provides common utilities used across the Bubblegum Batch
// Mint SDK for Go: cluster name normalization, environment and .env
// configuration loading, and keypair file parsing.
//
// # Environment Variables
//
//   - SOLANA_NETWORK: mainnet-beta, devnet (default), testnet or localnet
//   - SOLANA_RPC_URL: JSON-RPC endpoint, defaults to the public cluster URL
//   - SOLANA_KEYPAIR_PATH: payer keypair file in solana-keygen format
//
// Each variable may be overridden per cluster with a prefix, for example
// DEVNET_SOLANA_RPC_URL or MAINNET_SOLANA_KEYPAIR_PATH.
//
// This package is part of the Bubblegum Batch Mint SDK for Go.
package shared
