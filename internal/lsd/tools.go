// Package lsd implements the Lingvo System Dictionary (LSD) reader: header
// parsing, the three dialect decoders, heading-page B-tree traversal, and
// the heading/variant-collapse algebra (spec.md components C3–C6).
package lsd

import (
	"fmt"
	"unicode/utf16"

	"github.com/dicebound/lsd2dsl/internal/bitio"
)

// MajorVersion, MinorVersion, RevisionVersion decompose a packed LSD
// version field, per original_source/lib/lsd/tools.cpp.
func MajorVersion(v uint32) int    { return int(v >> 16) }
func MinorVersion(v uint32) int    { return int((v >> 12) & 0x0F) }
func RevisionVersion(v uint32) int { return int(v & 0xFFF) }

// readUnicodeString reads len UTF-16 code units (optionally byte-swapped)
// and returns the decoded string.
func readUnicodeString(br *bitio.BitReader, n int, bigEndian bool) (string, error) {
	units := make([]uint16, n)
	for i := 0; i < n; i++ {
		var b [2]byte
		if _, err := br.ReadSome(b[:]); err != nil {
			return "", fmt.Errorf("lsd: readUnicodeString: %w", err)
		}
		var u uint16
		if bigEndian {
			u = uint16(b[0])<<8 | uint16(b[1])
		} else {
			u = uint16(b[1])<<8 | uint16(b[0])
		}
		units[i] = u
	}
	return string(utf16.Decode(units)), nil
}

// readSymbols reads a length-prefixed symbol alphabet: count (u32),
// bits-per-symbol (u8), then count symbols of that width.
func readSymbols(br *bitio.BitReader) ([]uint32, error) {
	lenU, err := br.ReadBits(32)
	if err != nil {
		return nil, fmt.Errorf("lsd: readSymbols: length: %w", err)
	}
	bitsU, err := br.ReadBits(8)
	if err != nil {
		return nil, fmt.Errorf("lsd: readSymbols: bits-per-symbol: %w", err)
	}
	n := int(lenU)
	bitsPerSymbol := int(bitsU)
	res := make([]uint32, n)
	for i := 0; i < n; i++ {
		sym, err := br.ReadBits(bitsPerSymbol)
		if err != nil {
			return nil, fmt.Errorf("lsd: readSymbols: symbol %d/%d: %w", i, n, err)
		}
		res[i] = sym
	}
	return res, nil
}

// readReference decodes the compact reference code shared by both
// "huffman number" flavours: 2 control bits; 3 means a literal u32
// follows, otherwise the control bits are the top 2 bits of an
// L-bit-wide value (L-2 more bits follow) where L = BitLength(huffmanNumber).
func readReference(br *bitio.BitReader, huffmanNumber uint32) (uint32, error) {
	code, err := br.ReadBits(2)
	if err != nil {
		return 0, fmt.Errorf("lsd: readReference: control bits: %w", err)
	}
	if code == 3 {
		v, err := br.ReadBits(32)
		if err != nil {
			return 0, fmt.Errorf("lsd: readReference: literal: %w", err)
		}
		return v, nil
	}
	bitlen := bitio.BitLength(int(huffmanNumber))
	if bitlen < 2 {
		return 0, fmt.Errorf("lsd: readReference: huffman number %d too small (bitlen %d)", huffmanNumber, bitlen)
	}
	rest, err := br.ReadBits(bitlen - 2)
	if err != nil {
		return 0, fmt.Errorf("lsd: readReference: remainder: %w", err)
	}
	return (code << uint(bitlen-2)) | rest, nil
}
