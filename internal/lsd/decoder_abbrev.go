package lsd

import (
	"fmt"

	"github.com/dicebound/lsd2dsl/internal/bitio"
	"github.com/dicebound/lsd2dsl/internal/huffman"
)

// constant XOR masks applied to the Abbreviation dialect's prefix string
// and symbol alphabets at load time, per
// original_source/lib/lingvo/AbbreviationDictionaryDecoder.cpp.
const (
	abbrevPrefixXor = 0x879A
	abbrevSymbolXor = 0x1325
)

// AbbrevDecoder implements the "Abbreviation" LSD dialect (spec.md §4.3).
// After the constant-XOR load, article decoding is identical to the User
// dialect (the original delegates to UserDictionaryDecoder::DecodeArticle).
type AbbrevDecoder struct {
	prefix         string
	articleSymbols []uint32
	headingSymbols []uint32
	ltArticles     huffman.LenTable
	ltHeadings     huffman.LenTable
	ltPrefixLens   huffman.LenTable
	ltPostfixLens  huffman.LenTable
	huffman1Number uint32
	huffman2Number uint32
}

var _ DialectDecoder = (*AbbrevDecoder)(nil)

func readXoredPrefix(br *bitio.BitReader, n int) (string, error) {
	out := make([]rune, n)
	for i := 0; i < n; i++ {
		sym, err := br.ReadBits(16)
		if err != nil {
			return "", fmt.Errorf("lsd: readXoredPrefix: %w", err)
		}
		out[i] = rune(sym ^ abbrevPrefixXor)
	}
	return string(out), nil
}

func readXoredSymbols(br *bitio.BitReader) ([]uint32, error) {
	lenU, err := br.ReadBits(32)
	if err != nil {
		return nil, fmt.Errorf("lsd: readXoredSymbols: length: %w", err)
	}
	bitsU, err := br.ReadBits(8)
	if err != nil {
		return nil, fmt.Errorf("lsd: readXoredSymbols: bits-per-symbol: %w", err)
	}
	n := int(lenU)
	bitsPerSymbol := int(bitsU)
	res := make([]uint32, n)
	for i := 0; i < n; i++ {
		sym, err := br.ReadBits(bitsPerSymbol)
		if err != nil {
			return nil, fmt.Errorf("lsd: readXoredSymbols: symbol %d/%d: %w", i, n, err)
		}
		res[i] = sym ^ abbrevSymbolXor
	}
	return res, nil
}

func (d *AbbrevDecoder) Read(br *bitio.BitReader) error {
	lenU, err := br.ReadBits(32)
	if err != nil {
		return fmt.Errorf("lsd: abbrev decoder: prefix length: %w", err)
	}
	if d.prefix, err = readXoredPrefix(br, int(lenU)); err != nil {
		return fmt.Errorf("lsd: abbrev decoder: %w", err)
	}
	if d.articleSymbols, err = readXoredSymbols(br); err != nil {
		return fmt.Errorf("lsd: abbrev decoder: article symbols: %w", err)
	}
	if d.headingSymbols, err = readXoredSymbols(br); err != nil {
		return fmt.Errorf("lsd: abbrev decoder: heading symbols: %w", err)
	}
	if err = d.ltArticles.Read(br); err != nil {
		return fmt.Errorf("lsd: abbrev decoder: article len table: %w", err)
	}
	if err = d.ltHeadings.Read(br); err != nil {
		return fmt.Errorf("lsd: abbrev decoder: heading len table: %w", err)
	}
	if err = d.ltPrefixLens.Read(br); err != nil {
		return fmt.Errorf("lsd: abbrev decoder: prefix length table: %w", err)
	}
	if err = d.ltPostfixLens.Read(br); err != nil {
		return fmt.Errorf("lsd: abbrev decoder: postfix length table: %w", err)
	}
	if d.huffman1Number, err = br.ReadBits(32); err != nil {
		return fmt.Errorf("lsd: abbrev decoder: huffman1 number: %w", err)
	}
	if d.huffman2Number, err = br.ReadBits(32); err != nil {
		return fmt.Errorf("lsd: abbrev decoder: huffman2 number: %w", err)
	}
	return nil
}

func (d *AbbrevDecoder) DecodeHeading(br *bitio.BitReader, n int) (string, error) {
	return decodeHeadingWith(br, &d.ltHeadings, d.headingSymbols, n)
}

func (d *AbbrevDecoder) DecodeArticle(br *bitio.BitReader) (string, error) {
	return decodeUserStyleArticle(br, d.prefix, &d.ltArticles, d.articleSymbols)
}

func (d *AbbrevDecoder) DecodePrefixLen(br *bitio.BitReader) (int, error) {
	_, idx, err := d.ltPrefixLens.Decode(br)
	return int(idx), err
}

func (d *AbbrevDecoder) DecodePostfixLen(br *bitio.BitReader) (int, error) {
	_, idx, err := d.ltPostfixLens.Decode(br)
	return int(idx), err
}

func (d *AbbrevDecoder) ReadReference1(br *bitio.BitReader) (uint32, error) {
	return readReference(br, d.huffman1Number)
}

func (d *AbbrevDecoder) ReadReference2(br *bitio.BitReader) (uint32, error) {
	return readReference(br, d.huffman2Number)
}

func (d *AbbrevDecoder) Prefix() string { return d.prefix }
