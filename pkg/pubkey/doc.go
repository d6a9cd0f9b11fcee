// Package pubkey provides the 32-byte account addresses and 64-byte ed25519
// signatures used by the Bubblegum Batch Mint SDK for Go, together with their
// base58 text encoding and program-derived address (PDA) derivation.
//
// Solana identifies every account, program and signer by a 32-byte public
// key. Keys and signatures travel through JSON batch files in their base58
// string form, so both types implement encoding.TextMarshaler.
//
// # Program Derived Addresses
//
// Asset identifiers and tree config accounts are PDAs: addresses derived from
// a list of seeds and a program ID that are guaranteed to have no private key.
//
//	id, bump, err := pubkey.FindProgramAddress(
//		[][]byte{[]byte("asset"), tree[:], nonceBytes},
//		bubblegumProgramID,
//	)
//
// This package is part of the Bubblegum Batch Mint SDK for Go.
package pubkey
