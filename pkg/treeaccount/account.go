package treeaccount

import (
	"encoding/binary"
	"fmt"

	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/merkle"
	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/pubkey"
)

const (
	// AccountTypeConcurrentMerkleTree is the compression account discriminator
	// of a tree account.
	AccountTypeConcurrentMerkleTree = 1
	// HeaderVersionV1 is the only header layout in use.
	HeaderVersionV1 = 0
)

// Header is the V1 concurrent Merkle tree account header.
type Header struct {
	MaxBufferSize      uint32
	MaxDepth           uint32
	Authority          pubkey.Pubkey
	CreationSlot       uint64
	IsBatchInitialized bool
}

// TreeDataInfo describes a parsed tree account.
type TreeDataInfo struct {
	Header
	CanopyDepth       uint32
	CanopyLeavesCount int
	// CanopyBuffer aliases the account bytes passed to Parse.
	CanopyBuffer []byte
}

// Parse decodes a tree account as returned by the ledger.
func Parse(data []byte) (*TreeDataInfo, error) {
	if len(data) < merkle.HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the %d byte header", ErrInvalidTreeAccount, len(data), merkle.HeaderSize)
	}
	if data[0] != AccountTypeConcurrentMerkleTree {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedAccountType, data[0])
	}
	if data[1] != HeaderVersionV1 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedHeaderVersion, data[1])
	}

	header := Header{
		MaxBufferSize:      binary.LittleEndian.Uint32(data[2:6]),
		MaxDepth:           binary.LittleEndian.Uint32(data[6:10]),
		CreationSlot:       binary.LittleEndian.Uint64(data[42:50]),
		IsBatchInitialized: data[50] != 0,
	}
	copy(header.Authority[:], data[10:42])

	bodySize, ok := merkle.TreeBodySize(header.MaxDepth, header.MaxBufferSize)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected tree depth=%d and max size=%d", merkle.ErrUnsupportedShape, header.MaxDepth, header.MaxBufferSize)
	}

	rest := data[merkle.HeaderSize:]
	if len(rest) < bodySize {
		return nil, fmt.Errorf("%w: tree body needs %d bytes, have %d", ErrInvalidTreeAccount, bodySize, len(rest))
	}
	canopyBuffer := rest[bodySize:]
	canopyDepth := merkle.CanopyDepthFromBufferSize(len(canopyBuffer))

	return &TreeDataInfo{
		Header:            header,
		CanopyDepth:       canopyDepth,
		CanopyLeavesCount: 1 << canopyDepth,
		CanopyBuffer:      canopyBuffer,
	}, nil
}

// NonEmptyCanopyLeaves returns the canopy leaves written so far. Leaves are
// written left to right, so the scan stops at the first empty slot.
func (t *TreeDataInfo) NonEmptyCanopyLeaves() ([]merkle.Node, error) {
	if t.CanopyDepth == 0 {
		return nil, nil
	}

	leavesStart := len(t.CanopyBuffer) - t.CanopyLeavesCount*merkle.NodeLength
	if leavesStart < 0 {
		return nil, fmt.Errorf("%w: canopy buffer of %d bytes cannot hold %d leaves", ErrInvalidCanopyBuffer, len(t.CanopyBuffer), t.CanopyLeavesCount)
	}
	leaves := t.CanopyBuffer[leavesStart:]

	out := make([]merkle.Node, 0, t.CanopyLeavesCount)
	for index := 0; index < t.CanopyLeavesCount; index++ {
		var node merkle.Node
		copy(node[:], leaves[index*merkle.NodeLength:(index+1)*merkle.NodeLength])
		if node.IsZero() {
			break
		}
		out = append(out, node)
	}
	return out, nil
}

// EncodeAccount lays out a tree account with a zeroed tree body and the
// given canopy leaves written from slot zero. It produces the bytes a freshly
// prepared tree would hold after the leaves were uploaded.
func EncodeAccount(header Header, canopyDepth uint32, canopyLeaves []merkle.Node) ([]byte, error) {
	bodySize, ok := merkle.TreeBodySize(header.MaxDepth, header.MaxBufferSize)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected tree depth=%d and max size=%d", merkle.ErrUnsupportedShape, header.MaxDepth, header.MaxBufferSize)
	}
	leafSlots := 0
	if canopyDepth > 0 {
		leafSlots = 1 << canopyDepth
	}
	if len(canopyLeaves) > leafSlots {
		return nil, fmt.Errorf("%w: %d leaves, %d slots", ErrTooManyCanopyLeaves, len(canopyLeaves), leafSlots)
	}

	canopySize := merkle.CanopySize(canopyDepth)
	data := make([]byte, merkle.HeaderSize+bodySize+canopySize)
	data[0] = AccountTypeConcurrentMerkleTree
	data[1] = HeaderVersionV1
	binary.LittleEndian.PutUint32(data[2:6], header.MaxBufferSize)
	binary.LittleEndian.PutUint32(data[6:10], header.MaxDepth)
	copy(data[10:42], header.Authority[:])
	binary.LittleEndian.PutUint64(data[42:50], header.CreationSlot)
	if header.IsBatchInitialized {
		data[50] = 1
	}

	leavesStart := len(data) - leafSlots*merkle.NodeLength
	for index, leaf := range canopyLeaves {
		copy(data[leavesStart+index*merkle.NodeLength:], leaf[:])
	}
	return data, nil
}
