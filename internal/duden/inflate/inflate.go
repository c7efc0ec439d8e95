// Package inflate decodes a single Duden BOF block: a raw DEFLATE stream
// (RFC 1951) with a known, bounded output size.
//
// Decoding is done by the standard library's compress/flate. Stored
// (type 0) and dynamic-Huffman (type 2) blocks decode as RFC 1951 defines
// them. Fixed-Huffman (type 1) blocks are decoded with the standard RFC
// 1951 fixed code tables: this package has no Duden-specific fixed
// literal/length or distance tables of its own.
package inflate

import (
	"bytes"
	"compress/flate"
	"fmt"
	"io"
)

// MaxBlockSize is g_DecodedBofBlockSize from original_source/lib/duden/Archive.cpp:
// every decoded BOF block must fit in one 8KB scratch buffer.
const MaxBlockSize = 0x2000

// DecodeBofBlock inflates a raw-DEFLATE encoded BOF block. outputSize is
// the exact number of decoded bytes the archive index promises; a mismatch
// (short or long) is an error, mirroring duden_inflate's nonzero-return
// "inflate failed" check plus Archive::readBlock's decoded-size assert.
func DecodeBofBlock(block []byte, outputSize int) ([]byte, error) {
	if outputSize > MaxBlockSize {
		return nil, fmt.Errorf("duden/inflate: decoded size %d exceeds block size %d", outputSize, MaxBlockSize)
	}
	fr := flate.NewReader(bytes.NewReader(block))
	defer fr.Close()
	out := make([]byte, outputSize)
	n, err := io.ReadFull(fr, out)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("duden/inflate: %w", err)
	}
	if n != outputSize {
		return nil, fmt.Errorf("duden/inflate: decoded %d bytes, want %d", n, outputSize)
	}
	if extra, _ := fr.Read(make([]byte, 1)); extra > 0 {
		return nil, fmt.Errorf("duden/inflate: decoded more than %d bytes", outputSize)
	}
	return out, nil
}
