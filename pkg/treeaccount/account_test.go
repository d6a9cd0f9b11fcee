package treeaccount

import (
	"errors"
	"testing"

	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/merkle"
	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/pubkey"
)

func nodes(count int, seed byte) []merkle.Node {
	out := make([]merkle.Node, count)
	for index := range out {
		out[index] = merkle.Keccak256([]byte{seed, byte(index)})
	}
	return out
}

func TestParseHeaderAndCanopy(t *testing.T) {
	header := Header{
		MaxBufferSize:      64,
		MaxDepth:           20,
		Authority:          pubkey.NewUnique(),
		CreationSlot:       77,
		IsBatchInitialized: true,
	}
	leaves := nodes(5, 1)

	data, err := EncodeAccount(header, 3, leaves)
	if err != nil {
		t.Fatalf("EncodeAccount failed: %v", err)
	}
	expectedSize, _ := merkle.TreeAccountSize(20, 64, 3)
	if len(data) != expectedSize {
		t.Fatalf("unexpected account size %d, want %d", len(data), expectedSize)
	}

	info, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if info.Header != header {
		t.Fatalf("header mismatch: %+v", info.Header)
	}
	if info.CanopyDepth != 3 || info.CanopyLeavesCount != 8 || len(info.CanopyBuffer) != merkle.CanopySize(3) {
		t.Fatalf("unexpected canopy info: depth=%d leaves=%d buffer=%d", info.CanopyDepth, info.CanopyLeavesCount, len(info.CanopyBuffer))
	}

	existing, err := info.NonEmptyCanopyLeaves()
	if err != nil {
		t.Fatalf("NonEmptyCanopyLeaves failed: %v", err)
	}
	if len(existing) != len(leaves) {
		t.Fatalf("expected %d leaves, got %d", len(leaves), len(existing))
	}
	for index := range leaves {
		if existing[index] != leaves[index] {
			t.Fatalf("leaf %d mismatch", index)
		}
	}
}

func TestParseWithoutCanopy(t *testing.T) {
	data, err := EncodeAccount(Header{MaxBufferSize: 8, MaxDepth: 5}, 0, nil)
	if err != nil {
		t.Fatalf("EncodeAccount failed: %v", err)
	}
	info, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if info.CanopyDepth != 0 {
		t.Fatalf("expected no canopy, got depth %d", info.CanopyDepth)
	}
	leaves, err := info.NonEmptyCanopyLeaves()
	if err != nil || len(leaves) != 0 {
		t.Fatalf("expected no canopy leaves, got %d (%v)", len(leaves), err)
	}
}

func TestParseRejectsMalformedAccounts(t *testing.T) {
	valid, err := EncodeAccount(Header{MaxBufferSize: 8, MaxDepth: 5}, 0, nil)
	if err != nil {
		t.Fatalf("EncodeAccount failed: %v", err)
	}

	wrongType := append([]byte(nil), valid...)
	wrongType[0] = 2
	wrongVersion := append([]byte(nil), valid...)
	wrongVersion[1] = 1
	unsupported := append([]byte(nil), valid...)
	unsupported[6] = 4

	cases := []struct {
		name string
		data []byte
		want error
	}{
		{name: "short", data: valid[:20], want: ErrInvalidTreeAccount},
		{name: "truncated body", data: valid[:len(valid)-1], want: ErrInvalidTreeAccount},
		{name: "account type", data: wrongType, want: ErrUnsupportedAccountType},
		{name: "header version", data: wrongVersion, want: ErrUnsupportedHeaderVersion},
		{name: "shape", data: unsupported, want: merkle.ErrUnsupportedShape},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(tc.data); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if _, err := EncodeAccount(Header{MaxBufferSize: 8, MaxDepth: 5}, 1, nodes(3, 0)); !errors.Is(err, ErrTooManyCanopyLeaves) {
		t.Fatalf("expected too many leaves error, got %v", err)
	}
}
