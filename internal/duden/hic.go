package duden

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/dicebound/lsd2dsl/internal/bitio"
	"github.com/dicebound/lsd2dsl/internal/duden/charset"
)

// HicEntryType classifies a HIC leaf entry. Grounded on
// original_source/lib/duden/Duden.h's HicEntryType enum.
type HicEntryType int

const (
	HicPlain          HicEntryType = 1
	HicReference      HicEntryType = 2
	HicPlain3         HicEntryType = 3 // undeclared gap value; see DESIGN.md Open Questions
	HicRange          HicEntryType = 4
	HicPerson         HicEntryType = 6
	HicVariantWith    HicEntryType = 7
	HicVariantWithout HicEntryType = 8
	HicVariant        HicEntryType = 10
	HicUnknown11      HicEntryType = 11
)

// HicLeaf is a decoded HIC tree leaf: a heading string plus the article
// offset/type it names. Grounded on Duden.h's HicEntry/HicLeaf.
type HicLeaf struct {
	Heading    string
	Type       HicEntryType
	TextOffset int32
}

type hicNodeRef struct {
	delta     uint32
	count     int
	hicOffset uint32
}

type hicEntryRaw struct {
	isLeaf bool
	leaf   HicLeaf
	node   hicNodeRef
	// rawHeading accumulates the raw (not yet charset-decoded) heading bytes
	// during the two-pass parseHicNodeHeadings read.
	rawHeading string
}

type hicPage struct {
	offset  int64
	entries []hicEntryRaw
}

// HicFile is a parsed HIC container: its name/version plus the flattened
// set of leaf headings reachable from the root page (Dictionary.collectLeafs'
// DFS, performed eagerly here since nothing needs the tree shape
// afterwards).
type HicFile struct {
	Name    string
	Version uint8
	Leaves  []HicLeaf
}

// hic3Header/hic4Header/hic5Header mirror the packed Hic3Header/Hic4Header/
// Hic5Header structs: each version prepends more leading reserved fields
// before converging on the same tail (headingCount, blockCount, and a
// name length byte).
type hicHeaderTail struct {
	headingCount uint32
	blockCount   uint32
	namelen      uint8
}

func readHicHeader(c bitio.ByteCursor, version uint8) (hicHeaderTail, error) {
	var leading int
	switch version {
	case 3:
		leading = 4 + 2 // Hic3Header's extra unk fields before the common tail
	case 4:
		leading = 4 + 2 + 4 // Hic4Header adds one more unk32
	default:
		leading = 4 + 2 + 4 + 4 // Hic5Header (and anything >=5) adds another
	}
	for i := 0; i < leading; i++ {
		if _, err := readU8(c); err != nil {
			return hicHeaderTail{}, err
		}
	}
	headingCount, err := readU32(c)
	if err != nil {
		return hicHeaderTail{}, err
	}
	blockCount, err := readU32(c)
	if err != nil {
		return hicHeaderTail{}, err
	}
	// unk7,unk8 (u16,u16), unk9 (u32), unk10 (u16), unk11 (u8)
	for _, n := range []int{2, 2, 4, 2, 1} {
		for i := 0; i < n; i++ {
			if _, err := readU8(c); err != nil {
				return hicHeaderTail{}, err
			}
		}
	}
	namelen, err := readU8(c)
	if err != nil {
		return hicHeaderTail{}, err
	}
	return hicHeaderTail{headingCount, blockCount, namelen}, nil
}

// decodeHeadingPrefixes reconstructs each entry's heading by resolving its
// run-length-encoded shared prefix against the previous entry's full
// heading, exactly like LSD's ArticleHeading prefix scheme: a leading byte
// under 0x20 names how many characters of the previous heading to reuse.
func decodeHeadingPrefixes(block []hicEntryRaw) {
	if len(block) == 0 {
		return
	}
	current := ""
	for i := range block {
		h := block[i].rawHeading
		if len(h) == 0 {
			continue
		}
		n := int(h[0])
		if n < 0x20 {
			if n > len(current) {
				n = len(current)
			}
			h = current[:n] + h[1:]
		}
		block[i].rawHeading = h
		current = h
	}
}

func parseHicNodeHeadings(c bitio.ByteCursor, block []hicEntryRaw) error {
	for i := range block {
		s, _ := readLine(c, 0)
		block[i].rawHeading = s
	}
	decodeHeadingPrefixes(block)
	for i := range block {
		decoded, err := charset.DudenToUTF8(block[i].rawHeading)
		if err != nil {
			return fmt.Errorf("duden: decode heading: %w", err)
		}
		if block[i].isLeaf {
			block[i].leaf.Heading = decoded
		}
	}
	return nil
}

// parseHicNode6 reads a version>=6 HIC page body. Grounded on Duden.cpp's
// parseHicNode6.
func parseHicNode6(c bitio.ByteCursor) ([]hicEntryRaw, error) {
	count, err := readU8(c)
	if err != nil {
		return nil, err
	}
	block := make([]hicEntryRaw, count)
	for i := range block {
		raw, err := readU32(c)
		if err != nil {
			return nil, err
		}
		typ, err := readU8(c)
		if err != nil {
			return nil, err
		}
		isLeaf := raw&1 == 0
		if isLeaf {
			block[i] = hicEntryRaw{
				isLeaf: true,
				leaf: HicLeaf{
					TextOffset: int32(raw>>1) - 1,
					Type:       HicEntryType(typ >> 4),
				},
			}
		} else {
			delta, err := readU32(c)
			if err != nil {
				return nil, err
			}
			block[i] = hicEntryRaw{node: hicNodeRef{delta: delta, count: int(typ), hicOffset: raw >> 1}}
		}
	}
	if err := parseHicNodeHeadings(c, block); err != nil {
		return nil, err
	}
	return block, nil
}

// parseHicNode45 reads a version 4/5 HIC page body. Grounded on
// Duden.cpp's parseHicNode45.
func parseHicNode45(c bitio.ByteCursor) ([]hicEntryRaw, error) {
	count, err := readU8(c)
	if err != nil {
		return nil, err
	}
	block := make([]hicEntryRaw, count)
	for i := range block {
		raw, err := readU32(c)
		if err != nil {
			return nil, err
		}
		isLeaf := raw&1 == 0
		if isLeaf {
			block[i] = hicEntryRaw{
				isLeaf: true,
				leaf: HicLeaf{
					TextOffset: int32(raw>>5) - 1,
					Type:       HicEntryType((raw >> 1) & 0xf),
				},
			}
		} else {
			delta, err := readU32(c)
			if err != nil {
				return nil, err
			}
			block[i] = hicEntryRaw{node: hicNodeRef{delta: delta, count: int((raw >> 1) & 0xf), hicOffset: raw >> 9}}
		}
	}
	if err := parseHicNodeHeadings(c, block); err != nil {
		return nil, err
	}
	return block, nil
}

// ParseHicFile parses a complete .hic file and flattens its page tree into
// the leaf list Dictionary.collectLeafs would produce. Page lookups during
// the traversal key on xxhash.Sum64 of the page's byte offset rather than
// the raw uint32, per SPEC_FULL's domain-stack wiring (a hashed map key
// instead of a native-int one).
func ParseHicFile(c bitio.ByteCursor) (HicFile, error) {
	magic := make([]byte, 0x22)
	if _, err := readFull(c, magic); err != nil {
		return HicFile{}, fmt.Errorf("duden: read hic magic: %w", err)
	}
	if string(magic) != "compressed PC-Bibliothek Hierarchy" {
		return HicFile{}, fmt.Errorf("duden: not a HIC file")
	}
	if _, err := readU8(c); err != nil { // unused separator byte
		return HicFile{}, err
	}
	version, err := readU8(c)
	if err != nil {
		return HicFile{}, err
	}
	if version < 3 {
		return HicFile{}, fmt.Errorf("duden: unsupported HIC version %d", version)
	}

	hdr, err := readHicHeader(c, version)
	if err != nil {
		return HicFile{}, err
	}
	name := make([]byte, int(hdr.namelen)-1)
	if _, err := readFull(c, name); err != nil {
		return HicFile{}, fmt.Errorf("duden: read hic name: %w", err)
	}
	if _, err := readU8(c); err != nil { // name's trailing NUL
		return HicFile{}, err
	}

	pages := make(map[uint64]*hicPage, hdr.blockCount)
	var pageOrder []uint64
	var rootKey uint64

	for i := uint32(0); i < hdr.blockCount; i++ {
		curPos := c.Tell()
		nodeSize, err := readU16(c)
		if err != nil {
			return HicFile{}, err
		}
		var entries []hicEntryRaw
		if version >= 6 {
			entries, err = parseHicNode6(c)
		} else {
			entries, err = parseHicNode45(c)
		}
		if err != nil {
			return HicFile{}, fmt.Errorf("duden: parse hic page at %d: %w", curPos, err)
		}
		c.Seek(curPos + int64(nodeSize) + 2)

		key := xxhash.Sum64(offsetKey(curPos))
		pages[key] = &hicPage{offset: curPos, entries: entries}
		pageOrder = append(pageOrder, key)
		if i == 0 {
			rootKey = key
		}
	}

	leafCount := 0
	for _, key := range pageOrder {
		page := pages[key]
		for i := range page.entries {
			e := &page.entries[i]
			if e.isLeaf {
				leafCount++
				continue
			}
			childKey := xxhash.Sum64(offsetKey(int64(e.node.hicOffset)))
			if _, ok := pages[childKey]; !ok {
				return HicFile{}, fmt.Errorf("duden: hic is misformed (missing page at offset %d)", e.node.hicOffset)
			}
		}
	}
	if uint32(leafCount) != hdr.headingCount {
		return HicFile{}, fmt.Errorf("duden: hic heading count mismatch: header says %d, tree has %d", hdr.headingCount, leafCount)
	}

	var leaves []HicLeaf
	var walk func(key uint64)
	seen := make(map[uint64]bool)
	walk = func(key uint64) {
		if seen[key] {
			return
		}
		seen[key] = true
		page := pages[key]
		for _, e := range page.entries {
			if e.isLeaf {
				leaves = append(leaves, e.leaf)
			} else {
				walk(xxhash.Sum64(offsetKey(int64(e.node.hicOffset))))
			}
		}
	}
	walk(rootKey)

	return HicFile{Name: string(name), Version: version, Leaves: leaves}, nil
}

func offsetKey(off int64) []byte {
	var b [8]byte
	v := uint64(off)
	for i := 0; i < 8; i++ {
		b[i] = byte(v)
		v >>= 8
	}
	return b[:]
}
