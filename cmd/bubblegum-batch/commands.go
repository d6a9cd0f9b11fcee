package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/batchmint"
	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/merkle"
	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/pubkey"
	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/shared"
)

func (a *app) buildCommand() *cobra.Command {
	var (
		manifestPath string
		outputPath   string
		keypairPaths []string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a batch file from an asset manifest",
		Long: `Build a batch file from a YAML asset manifest.

Verified creators are signed for with the keypairs passed through
--creator-keypair. Outputs ending in .br are brotli compressed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := loadManifest(manifestPath)
			if err != nil {
				return err
			}
			signers, err := loadSigners(keypairPaths)
			if err != nil {
				return err
			}

			batch, err := buildFromManifest(loaded, signers)
			if err != nil {
				return err
			}
			if err := writeBatch(outputPath, batch); err != nil {
				return err
			}

			printf(cmd.OutOrStdout(), "wrote %d assets to %s\nroot: %s\nlast leaf: %s\n",
				len(batch.BatchMints), outputPath, batch.MerkleRoot.Hex(), batch.LastLeafHash.Hex())
			return nil
		},
	}
	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "asset manifest (YAML)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "batch_mint.json", "batch file to write")
	cmd.Flags().StringArrayVar(&keypairPaths, "creator-keypair", nil, "keypair file of a verified creator (repeatable)")
	_ = cmd.MarkFlagRequired("manifest")
	return cmd
}

func (a *app) validateCommand() *cobra.Command {
	var collection string

	cmd := &cobra.Command{
		Use:   "validate <batch file>",
		Short: "Validate a batch file the way a validator would",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := readBatch(args[0])
			if err != nil {
				return err
			}

			var collectionMint *pubkey.Pubkey
			if collection != "" {
				mint, err := parseKey("collection mint", collection)
				if err != nil {
					return err
				}
				collectionMint = &mint
			}

			if err := batchmint.ValidateBatchMint(cmd.Context(), batch, collectionMint); err != nil {
				return fmt.Errorf("batch for tree %s is invalid (%s): %w", batch.TreeID, batchmint.CodeOf(err), err)
			}
			printf(cmd.OutOrStdout(), "batch for tree %s is valid: %d assets, root %s\n",
				batch.TreeID, len(batch.BatchMints), batch.MerkleRoot.Hex())
			return nil
		},
	}
	cmd.Flags().StringVar(&collection, "collection", "", "collection mint verified collections must match")
	return cmd
}

func (a *app) prepareCommand() *cobra.Command {
	var (
		tree        string
		depth       uint32
		bufferSize  uint32
		canopyDepth uint32
	)

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Plan the tree account for a batch mint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			treeID, err := parseKey("tree", tree)
			if err != nil {
				return err
			}
			plan, err := batchmint.PrepareTree(batchmint.PrepareTreeArgs{
				Tree:          treeID,
				MaxDepth:      depth,
				MaxBufferSize: bufferSize,
				CanopyDepth:   canopyDepth,
			})
			if err != nil {
				return err
			}

			printf(cmd.OutOrStdout(), "tree: %s\ntree config: %s\nowner: %s\naccount size: %d\ncapacity: %d assets\n",
				plan.Tree, plan.TreeConfig, plan.Owner, plan.AccountSize, uint64(1)<<plan.MaxDepth)
			return nil
		},
	}
	cmd.Flags().StringVar(&tree, "tree", "", "tree account address")
	cmd.Flags().Uint32Var(&depth, "depth", 10, "maximum tree depth")
	cmd.Flags().Uint32Var(&bufferSize, "buffer-size", 32, "maximum change log buffer size")
	cmd.Flags().Uint32Var(&canopyDepth, "canopy-depth", 0, "canopy depth")
	_ = cmd.MarkFlagRequired("tree")
	return cmd
}

func (a *app) planCommand() *cobra.Command {
	var (
		metadataURL  string
		metadataHash string
		collection   manifestCollection
	)

	cmd := &cobra.Command{
		Use:   "plan <batch file>",
		Short: "Plan the canopy uploads and finalize arguments of a batch",
		Long: `Plan the canopy uploads and finalize arguments of a batch.

The batch is replayed against the prepared tree on the cluster. Canopy
leaves already present on-chain are skipped, so the printed chunks are
the uploads still needed. Batches with verified collections need the
collection passed with --collection.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := readBatch(args[0])
			if err != nil {
				return err
			}
			var collectionConfig *batchmint.CollectionConfig
			if collection.Mint != "" {
				if collectionConfig, err = collection.config(); err != nil {
					return err
				}
			}
			client, err := a.client(cmd)
			if err != nil {
				return err
			}

			builder, err := client.RestoreBuilder(cmd.Context(), batch, collectionConfig)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			transmitter := &printingTransmitter{out: out}
			sent, err := client.SyncCanopy(cmd.Context(), builder, transmitter)
			if err != nil {
				return err
			}

			finalize, err := client.FinalizeArgs(builder, metadataURL, metadataHash)
			if err != nil {
				return err
			}
			printf(out, "canopy nodes to upload: %d\nroot: %s\nrightmost leaf: %s\nrightmost index: %d\nproof:\n",
				sent, finalize.Root.Hex(), finalize.RightmostLeaf.Hex(), finalize.RightmostIndex)
			for _, node := range finalize.Proof {
				printf(out, "  %s\n", pubkey.Base58Encode(node[:]))
			}
			if finalize.Collection != nil {
				printf(out, "collection: %s\n", finalize.Collection.CollectionMint)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&metadataURL, "metadata-url", "", "immutable storage URL of the batch file")
	cmd.Flags().StringVar(&metadataHash, "metadata-hash", "", "hash of the uploaded batch file")
	cmd.Flags().StringVar(&collection.Mint, "collection", "", "collection mint of verified collection references")
	cmd.Flags().StringVar(&collection.Authority, "collection-authority", "", "collection update authority")
	cmd.Flags().StringVar(&collection.AuthorityRecordPDA, "collection-authority-record", "", "collection authority record, when a delegate signs")
	cmd.Flags().StringVar(&collection.Metadata, "collection-metadata", "", "collection metadata account")
	cmd.Flags().StringVar(&collection.Edition, "collection-edition", "", "collection master edition account")
	return cmd
}

func loadSigners(paths []string) (map[pubkey.Pubkey]pubkey.Keypair, error) {
	signers := make(map[pubkey.Pubkey]pubkey.Keypair, len(paths))
	for _, path := range paths {
		keypair, err := shared.LoadKeypair(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load creator keypair %s: %w", path, err)
		}
		signers[keypair.Pubkey()] = keypair
	}
	return signers, nil
}

// buildFromManifest adds every manifest asset and signs each verified
// creator that has a keypair in signers.
func buildFromManifest(loaded *manifest, signers map[pubkey.Pubkey]pubkey.Keypair) (*batchmint.BatchMint, error) {
	treeID, err := loaded.treeID()
	if err != nil {
		return nil, err
	}
	builder, err := batchmint.NewBuilder(treeID, loaded.MaxDepth, loaded.MaxBufferSize, loaded.CanopyDepth)
	if err != nil {
		return nil, err
	}
	collection, err := loaded.collectionConfig()
	if err != nil {
		return nil, err
	}
	if collection != nil {
		builder.SetCollectionConfig(*collection)
	}

	signatures := make(map[uint64]map[pubkey.Pubkey]pubkey.Signature)
	for index, asset := range loaded.Assets {
		owner, delegate, metadata, err := asset.resolve()
		if err != nil {
			return nil, fmt.Errorf("asset %d: %w", index, err)
		}
		hash, err := builder.AddAsset(owner, delegate, metadata)
		if err != nil {
			return nil, fmt.Errorf("asset %d: %w", index, err)
		}
		for _, creator := range metadata.Creators {
			signer, ok := signers[creator.Address]
			if !creator.Verified || !ok {
				continue
			}
			if signatures[hash.Nonce] == nil {
				signatures[hash.Nonce] = make(map[pubkey.Pubkey]pubkey.Signature)
			}
			signatures[hash.Nonce][creator.Address] = signer.Sign(hash.Message())
		}
	}

	if err := builder.AddSignaturesForVerifiedCreators(signatures); err != nil {
		return nil, err
	}
	return builder.Build()
}

func readBatch(path string) (*batchmint.BatchMint, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer file.Close()

	if strings.HasSuffix(path, ".br") {
		return batchmint.ReadCompressed(file)
	}
	return batchmint.ReadJSON(file)
}

func writeBatch(path string, batch *batchmint.BatchMint) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create batch file: %w", err)
	}

	if strings.HasSuffix(path, ".br") {
		err = batch.WriteCompressed(file)
	} else {
		err = batch.WriteJSON(file)
	}
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close batch file: %w", closeErr)
	}
	return err
}

// printingTransmitter prints each add_canopy upload instead of sending it.
type printingTransmitter struct {
	out    io.Writer
	chunks int
}

func (p *printingTransmitter) AddCanopy(_ context.Context, args batchmint.AddCanopyArgs) error {
	p.chunks++
	first, last := args.CanopyNodes[0], args.CanopyNodes[len(args.CanopyNodes)-1]
	printf(p.out, "add_canopy #%d start=%d nodes=%d first=%s last=%s\n",
		p.chunks, args.StartIndex, len(args.CanopyNodes), shortNode(first), shortNode(last))
	return nil
}

func shortNode(node merkle.Node) string {
	return node.Hex()[:12]
}
