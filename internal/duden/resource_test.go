package duden

import (
	"testing"

	"github.com/dicebound/lsd2dsl/internal/bitio"
)

// buildSimpleArchive builds a single-block Archive whose decoded content is
// exactly plain (must be smaller than inflate.MaxBlockSize).
func buildSimpleArchive(t *testing.T, id string, plain []byte) *Archive {
	t.Helper()
	cipher := deflateBlock(t, plain)
	var idx []byte
	idx = append(idx, putLE32(0)...)
	idx = append(idx, putLE32(uint32(len(cipher)))...)
	idx = append(idx, putLE32(uint32(len(plain)))...)
	a, err := OpenArchive(id, bitio.NewMemStream(cipher), bitio.NewMemStream(idx), nil)
	if err != nil {
		t.Fatalf("OpenArchive: %v", err)
	}
	return a
}

type fakePacker struct {
	files map[string][]byte
}

func newFakePacker() *fakePacker { return &fakePacker{files: make(map[string][]byte)} }

func (p *fakePacker) AddFile(name string, data []byte) error {
	cp := append([]byte{}, data...)
	p.files[name] = cp
	return nil
}

func TestResourceSetUnpackAllWholeArchive(t *testing.T) {
	plain := []byte("whole archive contents")
	a := buildSimpleArchive(t, "res.bof", plain)
	rs := &ResourceSet{files: map[string]*resourceFile{
		"res.bof": {archive: a},
	}}
	packer := newFakePacker()
	if err := rs.UnpackAll(packer); err != nil {
		t.Fatalf("UnpackAll: %v", err)
	}
	if string(packer.files["res.bof"]) != string(plain) {
		t.Fatalf("packer.files[res.bof] = %q, want %q", packer.files["res.bof"], plain)
	}
}

func TestResourceSetUnpackAllByName(t *testing.T) {
	plain := []byte("0123456789ABCDEF")
	a := buildSimpleArchive(t, "res.bof", plain)
	rs := &ResourceSet{files: map[string]*resourceFile{
		"res.bof": {
			archive: a,
			byName:  map[string]FsiEntry{"pic.bmp": {Name: "pic.bmp", Offset: 2, Size: 5}},
		},
	}}
	packer := newFakePacker()
	if err := rs.UnpackAll(packer); err != nil {
		t.Fatalf("UnpackAll: %v", err)
	}
	if got, want := string(packer.files["pic.bmp"]), "23456"; got != want {
		t.Fatalf("packer.files[pic.bmp] = %q, want %q", got, want)
	}
}

func TestResourceSetReaderNamedEntry(t *testing.T) {
	plain := []byte("0123456789ABCDEF")
	a := buildSimpleArchive(t, "res.bof", plain)
	rs := &ResourceSet{files: map[string]*resourceFile{
		"pic.bmp": {
			archive: a,
			byName:  map[string]FsiEntry{"pic.bmp": {Name: "pic.bmp", Offset: 2, Size: 5}},
		},
	}}
	read := rs.Reader()
	got, err := read("pic.bmp", 1)
	if err != nil {
		t.Fatalf("Reader: %v", err)
	}
	if got != "34567" {
		t.Fatalf("got %q, want %q", got, "34567")
	}
}

func TestResourceSetReaderUnknownFileErrors(t *testing.T) {
	rs := &ResourceSet{files: map[string]*resourceFile{}}
	read := rs.Reader()
	if _, err := read("nope.bmp", 0); err == nil {
		t.Fatalf("expected error for an unknown resource file")
	}
}
