package duden

import (
	"bytes"
	"compress/flate"
	"testing"

	"github.com/dicebound/lsd2dsl/internal/bitio"
	"github.com/dicebound/lsd2dsl/internal/duden/inflate"
)

func deflateBlock(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		t.Fatalf("flate.NewWriter: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return buf.Bytes()
}

func putLE32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

// buildArchive encodes two plaintext blocks (the first exactly
// inflate.MaxBlockSize bytes, matching Archive::read's block-size
// assumption) and returns an Archive over them plus the plaintext.
func buildArchive(t *testing.T, cache *BlockCache) (*Archive, []byte) {
	t.Helper()
	block0 := bytes.Repeat([]byte{0xA5}, inflate.MaxBlockSize)
	block1 := []byte("the remainder block, shorter than 8KB")
	plain := append(append([]byte{}, block0...), block1...)

	c0 := deflateBlock(t, block0)
	c1 := deflateBlock(t, block1)
	bof := append(append([]byte{}, c0...), c1...)

	var idx []byte
	idx = append(idx, putLE32(0)...)
	idx = append(idx, putLE32(uint32(len(c0)))...)
	idx = append(idx, putLE32(uint32(len(c0)+len(c1)))...)
	idx = append(idx, putLE32(uint32(len(plain)))...)

	a, err := OpenArchive("test-archive", bitio.NewMemStream(bof), bitio.NewMemStream(idx), cache)
	if err != nil {
		t.Fatalf("OpenArchive: %v", err)
	}
	return a, plain
}

func TestArchiveSize(t *testing.T) {
	a, plain := buildArchive(t, nil)
	if a.Size() != int64(len(plain)) {
		t.Fatalf("Size() = %d, want %d", a.Size(), len(plain))
	}
}

func TestArchiveReadWithinFirstBlock(t *testing.T) {
	a, plain := buildArchive(t, nil)
	got, err := a.Read(10, 20)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got, plain[10:30]) {
		t.Fatalf("got %x, want %x", got, plain[10:30])
	}
}

func TestArchiveReadAcrossBlockBoundary(t *testing.T) {
	a, plain := buildArchive(t, nil)
	offset := int64(inflate.MaxBlockSize - 5)
	got, err := a.Read(offset, 15)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := plain[offset : offset+15]
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func TestArchiveReadPastEndErrors(t *testing.T) {
	a, plain := buildArchive(t, nil)
	if _, err := a.Read(int64(len(plain))+1, 1); err == nil {
		t.Fatalf("expected error reading past archive size")
	}
}

func TestArchiveReadUsesSharedBlockCache(t *testing.T) {
	cache := NewBlockCache(16)
	a, plain := buildArchive(t, cache)

	if _, err := a.Read(0, 4); err != nil {
		t.Fatalf("Read: %v", err)
	}

	// A second Archive sharing the cache under the same id and a matching
	// index, but a bof stream with nothing readable, should still resolve
	// block 0 from the cache rather than failing to read bof.
	idx := append(append(putLE32(0), putLE32(1)...), putLE32(uint32(len(plain)))...)
	b, err := OpenArchive("test-archive", bitio.NewMemStream(nil), bitio.NewMemStream(idx), cache)
	if err != nil {
		t.Fatalf("OpenArchive: %v", err)
	}
	got, err := b.Read(0, 4)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got, plain[:4]) {
		t.Fatalf("got %x, want %x", got, plain[:4])
	}
}
