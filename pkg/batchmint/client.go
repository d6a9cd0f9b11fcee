package batchmint

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/bubblegum"
	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/merkle"
	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/pubkey"
	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/treeaccount"
)

// Ledger reads raw account data.
type Ledger interface {
	GetAccountData(ctx context.Context, account pubkey.Pubkey) ([]byte, error)
}

// AddCanopyArgs is one add-canopy upload.
type AddCanopyArgs struct {
	Tree        pubkey.Pubkey
	TreeConfig  pubkey.Pubkey
	StartIndex  uint32
	CanopyNodes []merkle.Node
}

// CanopyTransmitter writes canopy nodes to the tree account, typically by
// sending an add_canopy transaction. Uploads are idempotent per index.
type CanopyTransmitter interface {
	AddCanopy(ctx context.Context, args AddCanopyArgs) error
}

type ClientConfig struct {
	Ledger Ledger
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Client drives the ledger-facing steps of a batch mint. It restores
// builders from remote state, uploads the canopy and assembles the finalize
// arguments.
type Client struct {
	ledger Ledger
	logger *slog.Logger
}

// NewClient creates a new Client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.Ledger == nil {
		return nil, fmt.Errorf("ledger is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{ledger: config.Ledger, logger: logger}, nil
}

type PrepareTreeArgs struct {
	Tree          pubkey.Pubkey
	TreeCreator   pubkey.Pubkey
	Payer         pubkey.Pubkey
	MaxDepth      uint32
	MaxBufferSize uint32
	CanopyDepth   uint32
}

// PrepareTreePlan is what a prepare_tree transaction needs: the account to
// create, its size and owner, and the tree config account.
type PrepareTreePlan struct {
	Tree          pubkey.Pubkey
	TreeConfig    pubkey.Pubkey
	TreeCreator   pubkey.Pubkey
	Payer         pubkey.Pubkey
	Owner         pubkey.Pubkey
	AccountSize   int
	MaxDepth      uint32
	MaxBufferSize uint32
	CanopyDepth   uint32
}

// PrepareTree validates the requested shape and sizes the tree account. It
// reads nothing from the ledger. Trees deeper than 17 need a canopy of at
// least depth-17 levels so proofs fit in a transaction.
func PrepareTree(args PrepareTreeArgs) (PrepareTreePlan, error) {
	if args.CanopyDepth >= args.MaxDepth {
		return PrepareTreePlan{}, newError(KindConfiguration, ErrorCodeIllegalArguments, "canopy depth should be less than tree maximum depth")
	}
	if required := int(args.MaxDepth) - merkle.MaxCanopyGap; int(args.CanopyDepth) < required {
		return PrepareTreePlan{}, newError(KindConfiguration, ErrorCodeIllegalArguments, "tree of depth=%d requires at least canopy=%d", args.MaxDepth, required)
	}

	size, ok := merkle.TreeAccountSize(args.MaxDepth, args.MaxBufferSize, args.CanopyDepth)
	if !ok {
		return PrepareTreePlan{}, newError(KindConfiguration, ErrorCodeUnexpectedTreeSize, "unexpected tree depth=%d and max size=%d", args.MaxDepth, args.MaxBufferSize)
	}

	treeConfig, err := bubblegum.DeriveTreeConfig(args.Tree)
	if err != nil {
		return PrepareTreePlan{}, wrapError(KindConfiguration, ErrorCodeIllegalArguments, err, "failed to derive tree config")
	}

	return PrepareTreePlan{
		Tree:          args.Tree,
		TreeConfig:    treeConfig,
		TreeCreator:   args.TreeCreator,
		Payer:         args.Payer,
		Owner:         bubblegum.CompressionProgramID,
		AccountSize:   size,
		MaxDepth:      args.MaxDepth,
		MaxBufferSize: args.MaxBufferSize,
		CanopyDepth:   args.CanopyDepth,
	}, nil
}

// CreateBuilder returns an empty builder shaped like the prepared tree.
func (c *Client) CreateBuilder(ctx context.Context, tree pubkey.Pubkey) (*Builder, error) {
	info, err := c.fetchTree(ctx, tree)
	if err != nil {
		return nil, err
	}
	return NewBuilder(tree, info.MaxDepth, info.MaxBufferSize, info.CanopyDepth)
}

// RestoreBuilder rebuilds a builder from a saved batch so more assets can be
// added. Assets are re-added in order and their signatures reattached. A
// batch file does not carry its collection config, so batches with verified
// collections need it passed back in collection to finalize.
func (c *Client) RestoreBuilder(ctx context.Context, batch *BatchMint, collection *CollectionConfig) (*Builder, error) {
	builder, err := c.CreateBuilder(ctx, batch.TreeID)
	if err != nil {
		return nil, err
	}
	if collection != nil {
		builder.SetCollectionConfig(*collection)
	}

	for _, mint := range batch.BatchMints {
		hash, err := builder.AddAsset(mint.LeafUpdate.Owner, mint.LeafUpdate.Delegate, mint.MintArgs)
		if err != nil {
			return nil, err
		}
		if mint.CreatorSignature == nil {
			continue
		}
		signatures := map[uint64]map[pubkey.Pubkey]pubkey.Signature{hash.Nonce: mint.CreatorSignature}
		if err := builder.AddSignaturesForVerifiedCreators(signatures); err != nil {
			return nil, err
		}
	}

	c.logger.Info("restored batch mint builder", "tree", batch.TreeID.String(), "assets", builder.Len())
	return builder, nil
}

// SyncCanopy uploads the canopy leaves the remote tree is missing and returns
// how many nodes were sent. A previously interrupted upload resumes after the
// last leaf that matches; any disagreement resends the whole canopy.
func (c *Client) SyncCanopy(ctx context.Context, builder *Builder, transmitter CanopyTransmitter) (int, error) {
	if builder.CanopyDepth() == 0 {
		return 0, nil
	}

	info, err := c.fetchTree(ctx, builder.TreeID())
	if err != nil {
		return 0, err
	}
	if info.CanopyDepth != builder.CanopyDepth() {
		return 0, newError(KindConfiguration, ErrorCodeIllegalArguments, "remote canopy depth %d does not match builder canopy depth %d", info.CanopyDepth, builder.CanopyDepth())
	}

	existing, err := info.NonEmptyCanopyLeaves()
	if err != nil {
		return 0, wrapError(KindCodec, ErrorCodeInvalidTreeData, err, "failed to read remote canopy")
	}

	treeConfig, err := bubblegum.DeriveTreeConfig(builder.TreeID())
	if err != nil {
		return 0, wrapError(KindConfiguration, ErrorCodeIllegalArguments, err, "failed to derive tree config")
	}

	missing, offset := treeaccount.CanopyToAdd(existing, builder.CanopyLeaves())
	if offset == 0 && len(existing) > 0 {
		c.logger.Warn("remote canopy disagrees with local canopy, resending", "tree", builder.TreeID().String(), "remote_leaves", len(existing))
	}

	sent := 0
	for _, chunk := range treeaccount.ChunkCanopy(missing, offset, treeaccount.CanopyNodesPerTx) {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		err := transmitter.AddCanopy(ctx, AddCanopyArgs{
			Tree:        builder.TreeID(),
			TreeConfig:  treeConfig,
			StartIndex:  chunk.StartIndex,
			CanopyNodes: chunk.Nodes,
		})
		if err != nil {
			return sent, fmt.Errorf("failed to add canopy at index %d: %w", chunk.StartIndex, err)
		}
		sent += len(chunk.Nodes)
		c.logger.Debug("canopy chunk sent", "tree", builder.TreeID().String(), "start_index", chunk.StartIndex, "nodes", len(chunk.Nodes))
	}

	c.logger.Info("canopy synchronized", "tree", builder.TreeID().String(), "skipped", offset, "sent", sent)
	return sent, nil
}

// FinalizeTreeArgs carries the arguments of finalize_tree_with_root, with
// or without a collection.
type FinalizeTreeArgs struct {
	Tree           pubkey.Pubkey
	TreeConfig     pubkey.Pubkey
	Root           merkle.Node
	RightmostLeaf  merkle.Node
	RightmostIndex uint32
	// Proof is the rightmost proof, passed as remaining accounts.
	Proof        []merkle.Node
	MetadataURL  string
	MetadataHash string
	Collection   *CollectionConfig
}

// FinalizeArgs builds the batch and returns the finalize arguments for it.
// It fails if the batch cannot be built.
func (c *Client) FinalizeArgs(builder *Builder, metadataURL, metadataHash string) (FinalizeTreeArgs, error) {
	batch, err := builder.Build()
	if err != nil {
		return FinalizeTreeArgs{}, err
	}

	treeConfig, err := bubblegum.DeriveTreeConfig(batch.TreeID)
	if err != nil {
		return FinalizeTreeArgs{}, wrapError(KindConfiguration, ErrorCodeIllegalArguments, err, "failed to derive tree config")
	}

	var rightmostIndex uint32
	if count := len(batch.BatchMints); count > 0 {
		rightmostIndex = uint32(count - 1)
	}

	args := FinalizeTreeArgs{
		Tree:           batch.TreeID,
		TreeConfig:     treeConfig,
		Root:           batch.MerkleRoot,
		RightmostLeaf:  batch.LastLeafHash,
		RightmostIndex: rightmostIndex,
		Proof:          builder.RightmostProof(),
		MetadataURL:    metadataURL,
		MetadataHash:   metadataHash,
	}
	if collection, ok := builder.CollectionConfig(); ok {
		args.Collection = &collection
	}

	c.logger.Info("finalize arguments prepared", "tree", batch.TreeID.String(), "assets", len(batch.BatchMints), "root", args.Root.Hex())
	return args, nil
}

func (c *Client) fetchTree(ctx context.Context, tree pubkey.Pubkey) (*treeaccount.TreeDataInfo, error) {
	data, err := c.ledger.GetAccountData(ctx, tree)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tree account %s: %w", tree, err)
	}
	info, err := treeaccount.Parse(data)
	if err != nil {
		return nil, wrapError(KindCodec, ErrorCodeInvalidTreeData, err, "failed to parse tree account %s", tree)
	}
	return info, nil
}
