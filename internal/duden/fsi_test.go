package duden

import (
	"strconv"
	"testing"

	"github.com/dicebound/lsd2dsl/internal/bitio"
)

// buildFsiBlock assembles one type-0xc FSI block with a single named entry,
// terminated by 0xa1 (parseFsiString's "last" marker), per ParseFsiBlock's
// layout: u16 type, u32 (ignored), u16 rawCount, 7 skipped bytes, then
// rawCount*2 (offset, string) pairs.
func buildFsiBlock(name string, offset, size uint32) []byte {
	var buf []byte
	buf = append(buf, le16Bytes(0xc)...)
	buf = append(buf, le32Bytes(0)...)
	buf = append(buf, le16Bytes(1)...)
	buf = append(buf, make([]byte, 7)...)
	buf = append(buf, le32Bytes(offset)...)
	buf = append(buf, []byte(name)...)
	buf = append(buf, ';')
	buf = append(buf, []byte(strconv.FormatUint(uint64(size), 10))...)
	buf = append(buf, 0xa1)
	return buf
}

func TestParseFsiBlockSingleEntry(t *testing.T) {
	buf := buildFsiBlock("picture.bmp", 1000, 500)
	c := bitio.NewStreamCursor(bitio.NewMemStream(buf))
	entries, err := ParseFsiBlock(c)
	if err != nil {
		t.Fatalf("ParseFsiBlock: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Name != "picture.bmp" || e.Offset != 1000 || e.Size != 500 {
		t.Fatalf("entry = %+v", e)
	}
}

func TestParseFsiBlockSkipsTypeB(t *testing.T) {
	var buf []byte
	buf = append(buf, le16Bytes(0xb)...)
	buf = append(buf, le32Bytes(0)...)
	buf = append(buf, le16Bytes(5)...) // rawCount, never consulted for type 0xb
	c := bitio.NewStreamCursor(bitio.NewMemStream(buf))
	entries, err := ParseFsiBlock(c)
	if err != nil {
		t.Fatalf("ParseFsiBlock: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("len(entries) = %d, want 0 for a type-0xb block", len(entries))
	}
}

func TestParseFsiFileDedupesByName(t *testing.T) {
	const blockSize = 0x400
	block1 := buildFsiBlock("a.bmp", 10, 20)
	block2 := buildFsiBlock("a.bmp", 30, 40)

	buf := make([]byte, 3*blockSize)
	buf[0x12] = 2 // blockCount (u16 LE, high byte 0)
	copy(buf[blockSize:], block1)
	copy(buf[2*blockSize:], block2)

	c := bitio.NewStreamCursor(bitio.NewMemStream(buf))
	entries, err := ParseFsiFile(c)
	if err != nil {
		t.Fatalf("ParseFsiFile: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1 (duplicate name collapsed)", len(entries))
	}
	if entries[0].Offset != 10 {
		t.Fatalf("Offset = %d, want 10 (first occurrence wins)", entries[0].Offset)
	}
}
