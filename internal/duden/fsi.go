package duden

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/dicebound/lsd2dsl/internal/bitio"
	"github.com/dicebound/lsd2dsl/internal/duden/charset"
)

// FsiEntry names a resource (picture, sound, table) stored inside a
// resource archive's BOF/IDX pair, at the given plaintext offset/size.
// Grounded on original_source/lib/duden/Duden.h's FsiEntry.
type FsiEntry struct {
	Name   string
	Offset uint32
	Size   uint32
}

var fsiEntryRe = regexp.MustCompile(`^(.+?);(\d+)$`)

func parseFsiEntry(raw string) (string, uint32, error) {
	m := fsiEntryRe.FindStringSubmatch(raw)
	if m == nil {
		return "", 0, fmt.Errorf("duden: fsi entry parse error: %q", raw)
	}
	size, err := strconv.ParseUint(m[2], 10, 32)
	if err != nil {
		return "", 0, fmt.Errorf("duden: fsi entry size: %w", err)
	}
	return m[1], uint32(size), nil
}

// parseFsiString reads bytes until a 0xa1 terminator (last=true) or a NUL
// (last=false, string ended without the 0xa1 marker), matching
// parseFsiString's two-outcome contract.
func parseFsiString(c bitio.ByteCursor) (last bool, s string, err error) {
	var out []byte
	for {
		ch, err := readU8(c)
		if err != nil {
			return false, "", err
		}
		if ch == 0xa1 {
			return true, string(out), nil
		}
		if ch == 0 {
			return false, string(out), nil
		}
		out = append(out, ch)
	}
}

// ParseFsiBlock reads one 0x400-byte FSI block, returning the resource
// entries it lists. Only block type 0xc carries entries (type 0xb blocks
// are skipped, matching the original). Grounded on Duden.cpp's
// parseFsiBlock.
func ParseFsiBlock(c bitio.ByteCursor) ([]FsiEntry, error) {
	typ, err := readU16(c)
	if err != nil {
		return nil, err
	}
	if typ != 0xc && typ != 0xb {
		return nil, fmt.Errorf("duden: unexpected fsi block type %#x", typ)
	}
	if _, err := readU32(c); err != nil {
		return nil, err
	}
	rawCount, err := readU16(c)
	if err != nil {
		return nil, err
	}
	var entries []FsiEntry
	if typ != 0xc {
		return entries, nil
	}
	c.Seek(c.Tell() + 7)
	for i := 0; i < int(rawCount)*2; i++ {
		offset, err := readU32(c)
		if err != nil {
			return nil, err
		}
		last, str, err := parseFsiString(c)
		if err != nil {
			return nil, err
		}
		if str == "" {
			if offset == 0 {
				break
			}
			if _, err := readU8(c); err != nil {
				return nil, err
			}
			last, str, err = parseFsiString(c)
			if err != nil {
				return nil, err
			}
		}
		if offset == 0 && str == "" {
			break
		}
		name, size, err := parseFsiEntry(str)
		if err != nil {
			return nil, err
		}
		name, err = charset.Win1252ToUTF8(name)
		if err != nil {
			return nil, err
		}
		entries = append(entries, FsiEntry{Name: name, Offset: offset, Size: size})
		if last {
			break
		}
		peek, err := peekU32(c)
		if err == nil && peek == 0xa1a1a1a1 {
			break
		}
		if _, err := readU8(c); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// ParseFsiFile reads every block of an FSI file (fixed 0x400-byte blocks,
// block count at offset 0x12, block 0 is a header), de-duplicating entries
// by name the way original_source's std::set<FsiEntry> does (first
// occurrence by FsiEntry's operator< on name wins when names collide,
// since set insertion drops later duplicates).
func ParseFsiFile(c bitio.ByteCursor) ([]FsiEntry, error) {
	const blockSize = 0x400
	c.Seek(0x12)
	blockCount, err := readU16(c)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []FsiEntry
	for i := 1; i <= int(blockCount); i++ {
		c.Seek(int64(i) * blockSize)
		block, err := ParseFsiBlock(c)
		if err != nil {
			return nil, fmt.Errorf("duden: fsi block %d: %w", i, err)
		}
		for _, e := range block {
			if seen[e.Name] {
				continue
			}
			seen[e.Name] = true
			out = append(out, e)
		}
	}
	return out, nil
}
