package duden

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseInfFile(t *testing.T) {
	raw := "V 10\n" +
		"T \"MyDict\"\n" +
		"F;dict.hic\n" +
		"F;dict.bof\n" +
		"F;dict.idx\n" +
		"F;pics.bof\n" +
		"F;pics.idx\n" +
		"F;pics.fsi\n"

	infs, err := ParseInfFile(cursorFromString(raw))
	if err != nil {
		t.Fatalf("ParseInfFile: %v", err)
	}
	if len(infs) != 1 {
		t.Fatalf("len(infs) = %d, want 1", len(infs))
	}
	inf := infs[0]
	if inf.Version != 16 {
		t.Fatalf("Version = %d, want 16", inf.Version)
	}
	if inf.Name != "MyDict" {
		t.Fatalf("Name = %q, want %q", inf.Name, "MyDict")
	}
	want := PrimaryArchive{Bof: "dict.bof", Idx: "dict.idx", Hic: "dict.hic"}
	if inf.Primary != want {
		t.Fatalf("Primary = %+v, want %+v", inf.Primary, want)
	}
	if len(inf.Resources) != 1 {
		t.Fatalf("len(Resources) = %d, want 1", len(inf.Resources))
	}
	res := inf.Resources[0]
	if res.Bof != "pics.bof" || res.Idx != "pics.idx" || res.Fsi != "pics.fsi" {
		t.Fatalf("Resources[0] = %+v", res)
	}
}

func TestParseInfFileMissingHicErrors(t *testing.T) {
	raw := "T \"MyDict\"\nF;dict.bof\nF;dict.idx\n"
	if _, err := ParseInfFile(cursorFromString(raw)); err == nil {
		t.Fatalf("expected error for a dictionary with no .hic file")
	}
}

func TestFileSystemFixCase(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "MyPic.BMP"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	fsys, err := NewFileSystem(dir)
	if err != nil {
		t.Fatalf("NewFileSystem: %v", err)
	}
	got, err := fsys.FixCase("mypic.bmp")
	if err != nil {
		t.Fatalf("FixCase: %v", err)
	}
	if got != "MyPic.BMP" {
		t.Fatalf("FixCase = %q, want %q", got, "MyPic.BMP")
	}
}

func TestFileSystemFixCaseNoMatchErrors(t *testing.T) {
	dir := t.TempDir()
	fsys, err := NewFileSystem(dir)
	if err != nil {
		t.Fatalf("NewFileSystem: %v", err)
	}
	if _, err := fsys.FixCase("missing.bof"); err == nil {
		t.Fatalf("expected error for a name with no match in the directory")
	}
}

func TestFixFileNameCaseRewritesAllFields(t *testing.T) {
	dir := t.TempDir()
	names := []string{"Dict.HIC", "Dict.BOF", "Dict.IDX", "Pics.BOF", "Pics.IDX", "Pics.FSI"}
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	fsys, err := NewFileSystem(dir)
	if err != nil {
		t.Fatalf("NewFileSystem: %v", err)
	}
	inf := &InfFile{
		Primary:   PrimaryArchive{Hic: "dict.hic", Bof: "dict.bof", Idx: "dict.idx"},
		Resources: []ResourceArchive{{Bof: "pics.bof", Idx: "pics.idx", Fsi: "pics.fsi"}},
	}
	if err := FixFileNameCase(inf, fsys); err != nil {
		t.Fatalf("FixFileNameCase: %v", err)
	}
	want := PrimaryArchive{Hic: "Dict.HIC", Bof: "Dict.BOF", Idx: "Dict.IDX"}
	if inf.Primary != want {
		t.Fatalf("Primary = %+v, want %+v", inf.Primary, want)
	}
	wantRes := ResourceArchive{Bof: "Pics.BOF", Idx: "Pics.IDX", Fsi: "Pics.FSI"}
	if inf.Resources[0] != wantRes {
		t.Fatalf("Resources[0] = %+v, want %+v", inf.Resources[0], wantRes)
	}
}
