// Command bubblegum-batch builds, validates and plans Bubblegum batch mints.
//
//	bubblegum-batch build --manifest assets.yaml --creator-keypair creator.json -o batch_mint.json.br
//	bubblegum-batch validate batch_mint.json.br
//	bubblegum-batch prepare --tree <address> --depth 14 --buffer-size 64 --canopy-depth 3
//	bubblegum-batch plan batch_mint.json.br --metadata-url https://arweave.net/<id>
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
