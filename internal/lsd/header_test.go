package lsd

import (
	"errors"
	"testing"

	"github.com/dicebound/lsd2dsl/internal/bitio"
)

func buildHeaderBytes(magic string, version uint32) []byte {
	buf := make([]byte, 52)
	copy(buf[0:8], magic)
	putLE32 := func(off int, v uint32) {
		buf[off] = byte(v)
		buf[off+1] = byte(v >> 8)
		buf[off+2] = byte(v >> 16)
		buf[off+3] = byte(v >> 24)
	}
	putLE32(8, version)
	putLE32(12, 0)  // unk
	putLE32(16, 0)  // checksum
	putLE32(20, 3)  // entriesCount
	putLE32(24, 0)  // annotationOffset
	putLE32(28, 0)  // dictionaryEncoderOffset
	putLE32(32, 0)  // articlesOffset
	putLE32(36, 0)  // pagesOffset
	putLE32(40, 0)  // unk1
	// unk2, unk3, sourceLanguage, targetLanguage are u16 at 44,46,48,50
	buf[48] = 0x09 // sourceLanguage = 9
	buf[50] = 0x13 // targetLanguage = 0x13
	return buf
}

func TestReadHeaderRejectsBadMagic(t *testing.T) {
	buf := buildHeaderBytes("NotLSD\x00\x00", 0x132001)
	br := bitio.NewBitReader(bitio.NewStreamCursor(bitio.NewMemStream(buf)))
	_, err := readHeader(br)
	if !errors.Is(err, ErrNotLSD) {
		t.Fatalf("err = %v, want ErrNotLSD", err)
	}
}

func TestReadHeaderAcceptsLingVoMagic(t *testing.T) {
	buf := buildHeaderBytes("LingVo\x00\x00", 0x132001)
	br := bitio.NewBitReader(bitio.NewStreamCursor(bitio.NewMemStream(buf)))
	h, err := readHeader(br)
	if err != nil {
		t.Fatalf("readHeader: %v", err)
	}
	if h.Version != 0x132001 {
		t.Fatalf("Version = %#x, want 0x132001", h.Version)
	}
	if h.EntriesCount != 3 {
		t.Fatalf("EntriesCount = %d, want 3", h.EntriesCount)
	}
	if h.SourceLanguage != 9 {
		t.Fatalf("SourceLanguage = %d, want 9", h.SourceLanguage)
	}
}

func TestDialectForDispatchTable(t *testing.T) {
	supported := []uint32{0x132001, 0x142001, 0x152001, 0x141004, 0x131001, 0x145001, 0x155001, 0x151005}
	for _, v := range supported {
		if _, ok := dialectFor(v); !ok {
			t.Errorf("dialectFor(%#x) not supported, want supported", v)
		}
	}
	unsupported := []uint32{0, 1, 0x999999, 0x120001}
	for _, v := range unsupported {
		if _, ok := dialectFor(v); ok {
			t.Errorf("dialectFor(%#x) supported, want unsupported", v)
		}
	}
}

func TestDialectForSystemXoring(t *testing.T) {
	plain, _ := dialectFor(0x141004)
	xored, _ := dialectFor(0x151005)
	sp, ok := plain.(*SystemDecoder)
	if !ok {
		t.Fatalf("0x141004 did not dispatch to *SystemDecoder")
	}
	sx, ok := xored.(*SystemDecoder)
	if !ok {
		t.Fatalf("0x151005 did not dispatch to *SystemDecoder")
	}
	if sp.xoring {
		t.Fatalf("0x141004 dialect should not be xoring")
	}
	if !sx.xoring {
		t.Fatalf("0x151005 dialect should be xoring")
	}
}

func TestUnsupportedVersionStillExposesHeader(t *testing.T) {
	buf := buildHeaderBytes("LingVo\x00\x00", 0xDEADBEEF)
	br := bitio.NewBitReader(bitio.NewStreamCursor(bitio.NewMemStream(buf)))
	r, err := NewReader(br)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if r.Supported() {
		t.Fatalf("Supported() = true, want false for 0xDEADBEEF")
	}
	if r.Header().Version != 0xDEADBEEF {
		t.Fatalf("Header().Version = %#x, want 0xDEADBEEF", r.Header().Version)
	}
	if r.Header().EntriesCount != 3 {
		t.Fatalf("Header().EntriesCount = %d, want 3 (metadata must survive unsupported version)", r.Header().EntriesCount)
	}
	if _, err := r.PagesCount(); !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("PagesCount() err = %v, want ErrUnsupportedVersion", err)
	}
}
