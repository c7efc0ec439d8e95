// Package charset decodes Duden's proprietary 8/16/24/32-bit character
// encoding (dudenTable plus a Windows-1252 fallback) into UTF-8, and the
// plain Windows-1252 encoding used by INF/LD/FSI container text.
//
// Grounded on original_source/lib/duden/Duden.cpp's dudenTable,
// dudenCharToUtf, win1252toUtf/win1252toUtf8, and dudenToUtf8.
package charset

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// dudenTable is the verbatim 66-entry remap table indexed by ch-0x203,
// applied to codepoints in [0x203, 0x245) before the generic Windows-1252
// fallback. Values are Unicode codepoints (0 means "drop the character").
var dudenTable = [66]uint16{
	0x2992, 0x2694, 0x0000, 0x0294, 0x00AE, 0x2655, 0x26AE, 0x26AD, 0x007E, 0x0000,
	0x020D, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000,
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000,
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000,
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000,
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000,
	0x0000, 0x0000, 0x0000, 0x0241, 0x0242, 0x0152,
}

// DudenCharToUTF maps a decoded Duden codepoint (post multi-byte assembly)
// to its Unicode target. A handful of codepoints are special-cased
// exactly as dudenCharToUtf does; everything in [0x203,0x245) goes through
// dudenTable; anything else under 256 falls through to the caller, which
// applies the Windows-1252 fallback.
func DudenCharToUTF(ch uint32) uint32 {
	switch ch {
	case 0x25FF:
		return 0xA0
	case 0x25FE:
		return 0x2012
	case 0x25FD:
		return 0x2014
	}
	if uint16(ch-0x203) > 0x41 {
		if ch == 0x36E {
			return 0x35C
		}
		if ch != 0x36F {
			return ch
		}
		return 0
	}
	return uint32(dudenTable[ch-0x203])
}

// win1252 is the shared decoder for the single-byte Windows-1252 fallback
// path, used instead of a hand-rolled 256-entry table.
var win1252 = charmap.Windows1252

// Win1252ToUTF8 decodes a Windows-1252 byte string to UTF-8, as used for
// INF/LD/FSI container text (names, codes, descriptions).
func Win1252ToUTF8(s string) (string, error) {
	out, err := win1252.NewDecoder().String(s)
	if err != nil {
		return "", fmt.Errorf("duden/charset: win1252 decode: %w", err)
	}
	return out, nil
}

// win1252ToUTF is the single-rune counterpart used inside DudenToUTF8's
// byte-at-a-time state machine.
func win1252ToUTF(b byte) rune {
	r, ok := win1252.DecodeByte(b)
	if !ok {
		return rune(b)
	}
	return r
}

// next reads the byte at position *i in s, advancing *i. It does no bounds
// check (indexing past the end panics); callers bound the loop by len(s).
func next(s []byte, i *int) byte {
	b := s[*i]
	*i++
	return b
}

// DudenToUTF8 decodes a raw Duden-encoded article/heading byte string into
// UTF-8 text, reproducing dudenToUtf8's dual state machine: most bytes go
// through the multi-byte Duden codepoint assembly (1-4 bytes, threshold
// bands at 0xa0/0xf6/0xfc) and DudenCharToUTF/win1252 fallback, but bytes
// inside a "\S{"/"\w{" sound/weblink reference run (until the matching
// "}") pass through raw, and an "@C" escape consumes the remainder of its
// line (or a literal "%") uninterpreted.
func DudenToUTF8(s string) (string, error) {
	raw := []byte(s)
	var utf []rune
	i := 0
	sref := false

	for i < len(raw) {
		first := uint32(next(raw, &i))
		ch := first

		if !sref {
			if first >= 0xa0 {
				if i >= len(raw) {
					return "", fmt.Errorf("duden/charset: truncated multi-byte sequence")
				}
				ch = (ch << 8) | uint32(next(raw, &i))
				if first >= 0xf6 {
					if i >= len(raw) {
						return "", fmt.Errorf("duden/charset: truncated multi-byte sequence")
					}
					ch = (ch << 8) | uint32(next(raw, &i))
					if first >= 0xfc {
						if i >= len(raw) {
							return "", fmt.Errorf("duden/charset: truncated multi-byte sequence")
						}
						ch = (ch << 8) | uint32(next(raw, &i))
					}
				}
			}
			if ch >= 0xf600 {
				return "", fmt.Errorf("duden/charset: bad encoding (ch=%#x)", ch)
			}
			if ch < 0xa0 {
				// pass through unchanged
			} else if ch < 0xa100 {
				ch &= 0xff
			} else {
				c := uint8(ch - 0x21)
				if c > 0x5e {
					c -= 0x21
				}
				ch = 0xbe*(uint32(uint16(ch+0x5edf))>>8) + uint32(c) + 0x100
			}
			ch = DudenCharToUTF(ch)
			if ch < 256 {
				ch = uint32(win1252ToUTF(byte(ch)))
			}
		}

		if ch != 0 {
			utf = append(utf, rune(ch))
		}

		if len(utf) > 0 && utf[len(utf)-1] == '}' {
			sref = false
		}

		size := len(utf)
		if size >= 3 {
			isSorW := utf[size-2] == 'S' || utf[size-2] == 'w'
			if utf[size-3] == '\\' && isSorW && utf[size-1] == '{' {
				sref = true
			}
		}
		if size >= 2 && utf[size-2] == '@' && utf[size-1] == 'C' {
			if i >= len(raw) {
				continue
			}
			c := next(raw, &i)
			if c == '%' {
				utf = append(utf, '%')
			} else {
				utf = append(utf, win1252ToUTF(c))
				for i < len(raw) {
					c := next(raw, &i)
					utf = append(utf, win1252ToUTF(c))
					if c == '\n' {
						break
					}
				}
			}
		}
	}

	var b strings.Builder
	b.Grow(len(utf))
	for _, r := range utf {
		b.WriteRune(r)
	}
	return b.String(), nil
}
