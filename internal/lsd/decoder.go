package lsd

import (
	"github.com/dicebound/lsd2dsl/internal/bitio"
)

// DialectDecoder is the shared contract of the three LSD dialect decoders
// (spec.md §4.3 / C3): User, System, Abbreviation. All three load their
// state from the decoder section with Read, then decode headings and
// article bodies on demand.
type DialectDecoder interface {
	// Read consumes the decoder's state, positioned at header.DictionaryEncoderOffset.
	Read(br *bitio.BitReader) error
	// DecodeHeading reads n 16-bit code points via the heading Huffman table.
	DecodeHeading(br *bitio.BitReader, n int) (string, error)
	// DecodeArticle reads a length-prefixed article body.
	DecodeArticle(br *bitio.BitReader) (string, error)
	// DecodePrefixLen/DecodePostfixLen decode a heading-page prefix/postfix
	// run length via the respective LenTable.
	DecodePrefixLen(br *bitio.BitReader) (int, error)
	DecodePostfixLen(br *bitio.BitReader) (int, error)
	// ReadReference1/ReadReference2 decode the two back-reference code
	// flavours, sized by two independently tracked huffman numbers.
	ReadReference1(br *bitio.BitReader) (uint32, error)
	ReadReference2(br *bitio.BitReader) (uint32, error)
	// Prefix returns the dictionary-wide prefix string used by
	// back-reference decoding.
	Prefix() string
}
