package lsd

import (
	"fmt"

	"github.com/dicebound/lsd2dsl/internal/bitio"
	"github.com/dicebound/lsd2dsl/internal/huffman"
)

// UserDecoder implements the "User" LSD dialect (spec.md §4.3), grounded
// on original_source/dictlsd/UserDictionaryDecoder.cpp.
type UserDecoder struct {
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

var _ DialectDecoder = (*UserDecoder)(nil)

func (d *UserDecoder) Read(br *bitio.BitReader) error {
	lenU, err := br.ReadBits(32)
	if err != nil {
		return fmt.Errorf("lsd: user decoder: prefix length: %w", err)
	}
	d.prefix, err = readUnicodeString(br, int(lenU), true)
	if err != nil {
		return fmt.Errorf("lsd: user decoder: prefix: %w", err)
	}
	if d.articleSymbols, err = readSymbols(br); err != nil {
		return fmt.Errorf("lsd: user decoder: article symbols: %w", err)
	}
	if d.headingSymbols, err = readSymbols(br); err != nil {
		return fmt.Errorf("lsd: user decoder: heading symbols: %w", err)
	}
	if err = d.ltArticles.Read(br); err != nil {
		return fmt.Errorf("lsd: user decoder: article len table: %w", err)
	}
	if err = d.ltHeadings.Read(br); err != nil {
		return fmt.Errorf("lsd: user decoder: heading len table: %w", err)
	}
	if err = d.ltPrefixLens.Read(br); err != nil {
		return fmt.Errorf("lsd: user decoder: prefix length table: %w", err)
	}
	if err = d.ltPostfixLens.Read(br); err != nil {
		return fmt.Errorf("lsd: user decoder: postfix length table: %w", err)
	}
	if d.huffman1Number, err = br.ReadBits(32); err != nil {
		return fmt.Errorf("lsd: user decoder: huffman1 number: %w", err)
	}
	if d.huffman2Number, err = br.ReadBits(32); err != nil {
		return fmt.Errorf("lsd: user decoder: huffman2 number: %w", err)
	}
	return nil
}

func (d *UserDecoder) DecodeHeading(br *bitio.BitReader, n int) (string, error) {
	return decodeHeadingWith(br, &d.ltHeadings, d.headingSymbols, n)
}

func (d *UserDecoder) DecodeArticle(br *bitio.BitReader) (string, error) {
	return decodeUserStyleArticle(br, d.prefix, &d.ltArticles, d.articleSymbols)
}

// decodeUserStyleArticle implements spec.md §4.3's User-dialect article
// body decode, shared verbatim by UserDecoder and AbbrevDecoder (the
// latter delegates to UserDictionaryDecoder::DecodeArticle in
// original_source).
func decodeUserStyleArticle(br *bitio.BitReader, prefix string, lt *huffman.LenTable, symbols []uint32) (string, error) {
	lenU, err := br.ReadBits(16)
	if err != nil {
		return "", fmt.Errorf("lsd: decode article: length: %w", err)
	}
	length := int(lenU)
	if length == 0xFFFF {
		l32, err := br.ReadBits(32)
		if err != nil {
			return "", fmt.Errorf("lsd: decode article: extended length: %w", err)
		}
		length = int(l32)
	}
	prefixRunes := []rune(prefix)
	var out []rune
	for len(out) < length {
		_, symIdx, err := lt.Decode(br)
		if err != nil {
			return "", fmt.Errorf("lsd: decode article: symbol: %w", err)
		}
		if int(symIdx) >= len(symbols) {
			return "", fmt.Errorf("lsd: decode article: symbol index %d out of range (%d symbols)", symIdx, len(symbols))
		}
		sym := symbols[symIdx]
		switch {
		case sym >= 0x10040:
			startIdx, err := br.ReadBits(bitio.BitLength(length))
			if err != nil {
				return "", fmt.Errorf("lsd: decode article: output back-ref start: %w", err)
			}
			runLen := int(sym) - 0x1003d
			out, err = appendBackRef(out, out, int(startIdx), runLen)
			if err != nil {
				return "", fmt.Errorf("lsd: decode article: output back-ref: %w", err)
			}
		case sym >= 0x10000:
			startIdx, err := br.ReadBits(bitio.BitLength(len(prefixRunes)))
			if err != nil {
				return "", fmt.Errorf("lsd: decode article: prefix back-ref start: %w", err)
			}
			runLen := int(sym) - 0xfffd
			out, err = appendBackRef(out, prefixRunes, int(startIdx), runLen)
			if err != nil {
				return "", fmt.Errorf("lsd: decode article: prefix back-ref: %w", err)
			}
		default:
			out = append(out, rune(sym))
		}
	}
	return string(out), nil
}

func appendBackRef(dst, src []rune, start, length int) ([]rune, error) {
	if start < 0 || length < 0 || start+length > len(src) {
		return nil, fmt.Errorf("lsd: back-reference [%d:%d) out of range (source length %d)", start, start+length, len(src))
	}
	return append(dst, src[start:start+length]...), nil
}

func decodeHeadingWith(br *bitio.BitReader, lt *huffman.LenTable, symbols []uint32, n int) (string, error) {
	out := make([]rune, 0, n)
	for i := 0; i < n; i++ {
		_, symIdx, err := lt.Decode(br)
		if err != nil {
			return "", fmt.Errorf("lsd: decode heading: symbol %d/%d: %w", i, n, err)
		}
		if int(symIdx) >= len(symbols) {
			return "", fmt.Errorf("lsd: decode heading: symbol index %d out of range (%d symbols)", symIdx, len(symbols))
		}
		sym := symbols[symIdx]
		if sym > 0xffff {
			return "", fmt.Errorf("lsd: decode heading: symbol %#x exceeds 0xffff", sym)
		}
		out = append(out, rune(sym))
	}
	return string(out), nil
}

func (d *UserDecoder) DecodePrefixLen(br *bitio.BitReader) (int, error) {
	_, idx, err := d.ltPrefixLens.Decode(br)
	return int(idx), err
}

func (d *UserDecoder) DecodePostfixLen(br *bitio.BitReader) (int, error) {
	_, idx, err := d.ltPostfixLens.Decode(br)
	return int(idx), err
}

func (d *UserDecoder) ReadReference1(br *bitio.BitReader) (uint32, error) {
	return readReference(br, d.huffman1Number)
}

func (d *UserDecoder) ReadReference2(br *bitio.BitReader) (uint32, error) {
	return readReference(br, d.huffman2Number)
}

func (d *UserDecoder) Prefix() string { return d.prefix }
