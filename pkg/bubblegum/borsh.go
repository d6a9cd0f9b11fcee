package bubblegum

import (
	"encoding/binary"

	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/pubkey"
)

// borshWriter appends the Borsh encoding of primitive values. Integers are
// little-endian, strings and vectors carry a u32 length prefix and options
// carry a 0/1 tag.
type borshWriter struct {
	buf []byte
}

func (w *borshWriter) u8(value uint8) {
	w.buf = append(w.buf, value)
}

func (w *borshWriter) bool(value bool) {
	if value {
		w.u8(1)
		return
	}
	w.u8(0)
}

func (w *borshWriter) u16(value uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, value)
}

func (w *borshWriter) u32(value uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, value)
}

func (w *borshWriter) u64(value uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, value)
}

func (w *borshWriter) string(value string) {
	w.u32(uint32(len(value)))
	w.buf = append(w.buf, value...)
}

func (w *borshWriter) pubkey(value pubkey.Pubkey) {
	w.buf = append(w.buf, value[:]...)
}

func (w *borshWriter) option(present bool) bool {
	w.bool(present)
	return present
}

// SerializeMetadataArgs returns the Borsh encoding of metadata, in the field
// order of the on-chain MetadataArgs struct.
func SerializeMetadataArgs(metadata MetadataArgs) []byte {
	w := &borshWriter{buf: make([]byte, 0, 128+len(metadata.Name)+len(metadata.Symbol)+len(metadata.URI)+34*len(metadata.Creators))}

	w.string(metadata.Name)
	w.string(metadata.Symbol)
	w.string(metadata.URI)
	w.u16(metadata.SellerFeeBasisPoints)
	w.bool(metadata.PrimarySaleHappened)
	w.bool(metadata.IsMutable)

	if w.option(metadata.EditionNonce != nil) {
		w.u8(*metadata.EditionNonce)
	}
	if w.option(metadata.TokenStandard != nil) {
		w.u8(uint8(*metadata.TokenStandard))
	}
	if w.option(metadata.Collection != nil) {
		w.bool(metadata.Collection.Verified)
		w.pubkey(metadata.Collection.Key)
	}
	if w.option(metadata.Uses != nil) {
		w.u8(uint8(metadata.Uses.UseMethod))
		w.u64(metadata.Uses.Remaining)
		w.u64(metadata.Uses.Total)
	}

	w.u8(uint8(metadata.TokenProgramVersion))

	w.u32(uint32(len(metadata.Creators)))
	for _, creator := range metadata.Creators {
		w.pubkey(creator.Address)
		w.bool(creator.Verified)
		w.u8(creator.Share)
	}

	return w.buf
}
