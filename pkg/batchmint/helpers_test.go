package batchmint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/bubblegum"
	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/merkle"
	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/pubkey"
	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/treeaccount"
)

func testMetadata(index int) bubblegum.MetadataArgs {
	metadata := bubblegum.MetadataArgs{
		Name:                 fmt.Sprintf("%d", index),
		Symbol:               fmt.Sprintf("symbol-%d", index),
		URI:                  fmt.Sprintf("https://immutable-storage/asset/%d", index),
		SellerFeeBasisPoints: uint16(index % 10000),
		PrimarySaleHappened:  index%2 == 0,
		IsMutable:            index%3 == 0,
		TokenProgramVersion:  bubblegum.TokenProgramVersionOriginal,
	}
	if index%4 == 0 {
		standard := bubblegum.TokenStandardNonFungible
		metadata.TokenStandard = &standard
	}
	if index%5 == 0 {
		editionNonce := uint8(index % 255)
		metadata.EditionNonce = &editionNonce
	}
	if index%7 == 0 {
		metadata.Collection = &bubblegum.Collection{Verified: false, Key: pubkey.NewUnique()}
	}
	for creator := 0; creator < 1+index%4; creator++ {
		metadata.Creators = append(metadata.Creators, bubblegum.Creator{
			Address: pubkey.NewUnique(),
			Share:   uint8((creator * 13) % 100),
		})
	}
	return metadata
}

func newTestBuilder(t *testing.T, tree pubkey.Pubkey, depth, bufferSize, canopyDepth uint32) *Builder {
	t.Helper()
	builder, err := NewBuilder(tree, depth, bufferSize, canopyDepth)
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}
	return builder
}

func addAssets(t *testing.T, builder *Builder, owner pubkey.Pubkey, count int) []bubblegum.MetadataArgsHash {
	t.Helper()
	hashes := make([]bubblegum.MetadataArgsHash, 0, count)
	for index := 0; index < count; index++ {
		hash, err := builder.AddAsset(owner, owner, testMetadata(builder.Len()+1))
		if err != nil {
			t.Fatalf("AddAsset %d failed: %v", index, err)
		}
		hashes = append(hashes, hash)
	}
	return hashes
}

func generateBatch(t *testing.T, size int) *BatchMint {
	t.Helper()
	builder := newTestBuilder(t, pubkey.NewUnique(), 10, 32, 0)
	addAssets(t, builder, pubkey.NewUnique(), size)
	batch, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return batch
}

func newKeypair(t *testing.T) pubkey.Keypair {
	t.Helper()
	keypair, err := pubkey.NewKeypair()
	if err != nil {
		t.Fatalf("NewKeypair failed: %v", err)
	}
	return keypair
}

func expectCode(t *testing.T, err error, code ErrorCode) *Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if CodeOf(err) != code {
		t.Fatalf("expected %s error, got %v (%s)", code, err, CodeOf(err))
	}
	var batchErr *Error
	if !errors.As(err, &batchErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	return batchErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeLedger struct {
	mu       sync.Mutex
	accounts map[pubkey.Pubkey][]byte
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{accounts: make(map[pubkey.Pubkey][]byte)}
}

func (l *fakeLedger) GetAccountData(_ context.Context, account pubkey.Pubkey) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	data, ok := l.accounts[account]
	if !ok {
		return nil, fmt.Errorf("account %s not found", account)
	}
	return append([]byte(nil), data...), nil
}

func (l *fakeLedger) prepare(t *testing.T, tree pubkey.Pubkey, depth, bufferSize, canopyDepth uint32) {
	t.Helper()
	data, err := treeaccount.EncodeAccount(treeaccount.Header{MaxBufferSize: bufferSize, MaxDepth: depth}, canopyDepth, nil)
	if err != nil {
		t.Fatalf("EncodeAccount failed: %v", err)
	}
	l.mu.Lock()
	l.accounts[tree] = data
	l.mu.Unlock()
}

// writeCanopy stores nodes into the canopy leaf slots of a tree account,
// the way an add_canopy instruction would.
func (l *fakeLedger) writeCanopy(tree pubkey.Pubkey, start uint32, nodes []merkle.Node) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	data := l.accounts[tree]
	info, err := treeaccount.Parse(data)
	if err != nil {
		return err
	}
	leavesStart := len(data) - info.CanopyLeavesCount*merkle.NodeLength
	for index, node := range nodes {
		offset := leavesStart + (int(start)+index)*merkle.NodeLength
		copy(data[offset:offset+merkle.NodeLength], node[:])
	}
	return nil
}

type recordingTransmitter struct {
	ledger  *fakeLedger
	failAt  int
	calls   []AddCanopyArgs
	attempt int
}

func (r *recordingTransmitter) AddCanopy(_ context.Context, args AddCanopyArgs) error {
	r.attempt++
	if r.failAt > 0 && r.attempt == r.failAt {
		return fmt.Errorf("transaction dropped")
	}
	r.calls = append(r.calls, args)
	return r.ledger.writeCanopy(args.Tree, args.StartIndex, args.CanopyNodes)
}
