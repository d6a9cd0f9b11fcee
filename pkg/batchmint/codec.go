package batchmint

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
)

// WriteJSON writes the batch in the JSON format read by validators.
func (b *BatchMint) WriteJSON(w io.Writer) error {
	if err := json.NewEncoder(w).Encode(b); err != nil {
		return wrapError(KindCodec, ErrorCodeInvalidBatchFile, err, "failed to encode batch mint")
	}
	return nil
}

// ReadJSON decodes a batch written by WriteJSON.
func ReadJSON(r io.Reader) (*BatchMint, error) {
	var batch BatchMint
	if err := json.NewDecoder(r).Decode(&batch); err != nil {
		return nil, wrapError(KindCodec, ErrorCodeInvalidBatchFile, err, "failed to decode batch mint")
	}
	return &batch, nil
}

// WriteCompressed writes the JSON form brotli-compressed, for upload to
// immutable storage.
func (b *BatchMint) WriteCompressed(w io.Writer) error {
	compressor := brotli.NewWriterLevel(w, brotli.BestCompression)
	if err := b.WriteJSON(compressor); err != nil {
		_ = compressor.Close()
		return err
	}
	if err := compressor.Close(); err != nil {
		return wrapError(KindCodec, ErrorCodeInvalidBatchFile, err, "failed to flush compressed batch mint")
	}
	return nil
}

func ReadCompressed(r io.Reader) (*BatchMint, error) {
	batch, err := ReadJSON(brotli.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("failed to read compressed batch mint: %w", err)
	}
	return batch, nil
}
