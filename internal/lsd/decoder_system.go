package lsd

import (
	"fmt"

	"github.com/dicebound/lsd2dsl/internal/bitio"
	"github.com/dicebound/lsd2dsl/internal/huffman"
)

// SystemDecoder implements the "System" LSD dialect (spec.md §4.3),
// grounded on original_source/lib/lingvo/SystemDictionaryDecoder.cpp. When
// xoring is true (version 0x151005) both Read and DecodeArticle operate
// through a fresh XorCursor wrapping the underlying stream for that call's
// duration.
type SystemDecoder struct {
	xoring         bool
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

func NewSystemDecoder(xoring bool) *SystemDecoder { return &SystemDecoder{xoring: xoring} }

var _ DialectDecoder = (*SystemDecoder)(nil)

// withXor wraps br's underlying source stream in an XorCursor if xoring is
// enabled, for the duration of fn, then resumes br from wherever the
// scoped reader left off. This models XoringStreamAdapter's role in
// original_source as a transient decorator constructed fresh around the
// same underlying stream for exactly one Read or DecodeArticle call.
func withXor(br *bitio.BitReader, xoring bool, fn func(*bitio.BitReader) error) error {
	if !xoring {
		return fn(br)
	}
	xr := bitio.NewBitReader(bitio.NewXorCursor(br.Cursor()))
	xr.Seek(br.Tell())
	err := fn(xr)
	br.Seek(xr.Tell())
	return err
}

func (d *SystemDecoder) readInner(br *bitio.BitReader) error {
	lenU, err := br.ReadBits(32)
	if err != nil {
		return fmt.Errorf("length: %w", err)
	}
	if d.prefix, err = readUnicodeString(br, int(lenU), true); err != nil {
		return fmt.Errorf("prefix: %w", err)
	}
	if d.articleSymbols, err = readSymbols(br); err != nil {
		return fmt.Errorf("article symbols: %w", err)
	}
	if d.headingSymbols, err = readSymbols(br); err != nil {
		return fmt.Errorf("heading symbols: %w", err)
	}
	if err = d.ltArticles.Read(br); err != nil {
		return fmt.Errorf("article len table: %w", err)
	}
	if err = d.ltHeadings.Read(br); err != nil {
		return fmt.Errorf("heading len table: %w", err)
	}
	// Order per original_source: postfix lengths, then a discarded u32,
	// then prefix lengths — NOT prefix-then-postfix as in the User dialect.
	if err = d.ltPostfixLens.Read(br); err != nil {
		return fmt.Errorf("postfix length table: %w", err)
	}
	if _, err = br.ReadBits(32); err != nil {
		return fmt.Errorf("reserved word: %w", err)
	}
	if err = d.ltPrefixLens.Read(br); err != nil {
		return fmt.Errorf("prefix length table: %w", err)
	}
	if d.huffman1Number, err = br.ReadBits(32); err != nil {
		return fmt.Errorf("huffman1 number: %w", err)
	}
	if d.huffman2Number, err = br.ReadBits(32); err != nil {
		return fmt.Errorf("huffman2 number: %w", err)
	}
	return nil
}

func (d *SystemDecoder) Read(br *bitio.BitReader) error {
	err := withXor(br, d.xoring, d.readInner)
	if err != nil {
		return fmt.Errorf("lsd: system decoder: %w", err)
	}
	return nil
}

func (d *SystemDecoder) DecodeHeading(br *bitio.BitReader, n int) (string, error) {
	return decodeHeadingWith(br, &d.ltHeadings, d.headingSymbols, n)
}

func (d *SystemDecoder) decodeArticleInner(br *bitio.BitReader) (string, error) {
	maxlenU, err := br.ReadBits(16)
	if err != nil {
		return "", fmt.Errorf("length: %w", err)
	}
	maxlen := int(maxlenU)
	if maxlen == 0xFFFF {
		l32, err := br.ReadBits(32)
		if err != nil {
			return "", fmt.Errorf("extended length: %w", err)
		}
		maxlen = int(l32)
	}
	prefixRunes := []rune(d.prefix)
	var out []rune
	for len(out) < maxlen {
		_, symIdx, err := d.ltArticles.Decode(br)
		if err != nil {
			return "", fmt.Errorf("symbol: %w", err)
		}
		if int(symIdx) >= len(d.articleSymbols) {
			return "", fmt.Errorf("symbol index %d out of range (%d symbols)", symIdx, len(d.articleSymbols))
		}
		sym := d.articleSymbols[symIdx]
		switch {
		case sym < 0x80:
			if sym <= 0x3F {
				startIdx, err := br.ReadBits(bitio.BitLength(len(prefixRunes)))
				if err != nil {
					return "", fmt.Errorf("prefix back-ref start: %w", err)
				}
				runLen := int(sym) + 3
				out, err = appendBackRef(out, prefixRunes, int(startIdx), runLen)
				if err != nil {
					return "", fmt.Errorf("prefix back-ref: %w", err)
				}
			} else {
				startIdx, err := br.ReadBits(bitio.BitLength(maxlen))
				if err != nil {
					return "", fmt.Errorf("output back-ref start: %w", err)
				}
				runLen := int(sym) - 0x3d
				out, err = appendBackRef(out, out, int(startIdx), runLen)
				if err != nil {
					return "", fmt.Errorf("output back-ref: %w", err)
				}
			}
		default:
			out = append(out, rune(sym-0x80))
		}
	}
	return string(out), nil
}

func (d *SystemDecoder) DecodeArticle(br *bitio.BitReader) (string, error) {
	var res string
	err := withXor(br, d.xoring, func(xbr *bitio.BitReader) error {
		var innerErr error
		res, innerErr = d.decodeArticleInner(xbr)
		return innerErr
	})
	if err != nil {
		return "", fmt.Errorf("lsd: system decoder: decode article: %w", err)
	}
	return res, nil
}

func (d *SystemDecoder) DecodePrefixLen(br *bitio.BitReader) (int, error) {
	_, idx, err := d.ltPrefixLens.Decode(br)
	return int(idx), err
}

func (d *SystemDecoder) DecodePostfixLen(br *bitio.BitReader) (int, error) {
	_, idx, err := d.ltPostfixLens.Decode(br)
	return int(idx), err
}

func (d *SystemDecoder) ReadReference1(br *bitio.BitReader) (uint32, error) {
	return readReference(br, d.huffman1Number)
}

func (d *SystemDecoder) ReadReference2(br *bitio.BitReader) (uint32, error) {
	return readReference(br, d.huffman2Number)
}

func (d *SystemDecoder) Prefix() string { return d.prefix }
