package duden

import (
	"testing"

	"github.com/dicebound/lsd2dsl/internal/bitio"
)

func cursorFromString(s string) bitio.ByteCursor {
	return bitio.NewStreamCursor(bitio.NewMemStream([]byte(s)))
}

func TestParseLdFile(t *testing.T) {
	raw := "GREF|Picture|P\n\nDpictures.bof 100 200\n"
	ld, err := ParseLdFile(cursorFromString(raw))
	if err != nil {
		t.Fatalf("ParseLdFile: %v", err)
	}
	if len(ld.References) != 2 {
		t.Fatalf("len(References) = %d, want 2 (built-in Web + REF)", len(ld.References))
	}
	if ld.References[0] != (ReferenceInfo{Type: "WEB", Name: "Web", Code: "W"}) {
		t.Fatalf("References[0] = %+v, want the built-in Web entry", ld.References[0])
	}
	ref := ld.References[1]
	if ref.Type != "REF" || ref.Name != "Picture" || ref.Code != "P" {
		t.Fatalf("References[1] = %+v", ref)
	}
	if len(ld.Ranges) != 1 {
		t.Fatalf("len(Ranges) = %d, want 1", len(ld.Ranges))
	}
	rng := ld.Ranges[0]
	if rng.FileName != "pictures.bof" || rng.First != 100 || rng.Last != 200 {
		t.Fatalf("Ranges[0] = %+v", rng)
	}
}

func TestParseLdFileMalformedGLineErrors(t *testing.T) {
	if _, err := ParseLdFile(cursorFromString("Gnotpipedelimited\n")); err == nil {
		t.Fatalf("expected error for a malformed G line")
	}
}
