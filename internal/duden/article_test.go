package duden

import "testing"

func TestParseHeadingPlain(t *testing.T) {
	p, ok, err := parseHeading("cat")
	if err != nil {
		t.Fatalf("parseHeading: %v", err)
	}
	if !ok {
		t.Fatalf("ok = false, want true")
	}
	if p.name != "cat" || p.offset != -1 {
		t.Fatalf("parsed = %+v, want name=cat offset=-1", p)
	}
}

func TestParseHeadingWithExplicitOffset(t *testing.T) {
	p, ok, err := parseHeading("cat $$$$ 5 3 7")
	if err != nil {
		t.Fatalf("parseHeading: %v", err)
	}
	if !ok {
		t.Fatalf("ok = false, want true")
	}
	if p.name != "cat" || p.offset != 4 {
		t.Fatalf("parsed = %+v, want name=cat offset=4", p)
	}
}

func TestParseHeadingWithFourthFieldIsUnparseable(t *testing.T) {
	_, ok, err := parseHeading("cat $$$$ 5 3 7 9")
	if err != nil {
		t.Fatalf("parseHeading: %v", err)
	}
	if ok {
		t.Fatalf("ok = true, want false for a heading with a 4th $$$$ field")
	}
}

func TestGroupHicEntries(t *testing.T) {
	entries := []HicLeaf{
		{Heading: "cat", Type: HicPlain, TextOffset: 10},
		{Heading: "kitty", Type: HicPlain, TextOffset: 10},
		{Heading: "dog", Type: HicPlain, TextOffset: 20},
		{Heading: "doggo", Type: HicVariant, TextOffset: 20},
		{Heading: "bad $$$$ 1 2 3 4", Type: HicPlain, TextOffset: 99},
	}
	groups, err := GroupHicEntries(entries)
	if err != nil {
		t.Fatalf("GroupHicEntries: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}
	g10, ok := groups[10]
	if !ok {
		t.Fatalf("groups[10] missing")
	}
	if len(g10.Headings) != 2 || g10.Headings[0] != "cat" || g10.Headings[1] != "kitty" {
		t.Fatalf("groups[10].Headings = %v, want [cat kitty]", g10.Headings)
	}
	if g10.ArticleSize != 10 {
		t.Fatalf("groups[10].ArticleSize = %d, want 10", g10.ArticleSize)
	}
	g20, ok := groups[20]
	if !ok {
		t.Fatalf("groups[20] missing")
	}
	if len(g20.Headings) != 1 || g20.Headings[0] != "dog" {
		t.Fatalf("groups[20].Headings = %v, want [dog]", g20.Headings)
	}
	if g20.ArticleSize != -1 {
		t.Fatalf("groups[20].ArticleSize = %d, want -1 (last group)", g20.ArticleSize)
	}
	if _, ok := groups[99]; ok {
		t.Fatalf("groups[99] should not exist; its heading was unparseable")
	}
}

func TestDedupHeadingStripsMatchingPrefix(t *testing.T) {
	got := DedupHeading("cat", "cat\nfeline animal")
	if got != "feline animal" {
		t.Fatalf("DedupHeading = %q, want %q", got, "feline animal")
	}
}

func TestDedupHeadingLeavesMismatchedTextAlone(t *testing.T) {
	got := DedupHeading("cat", "feline animal")
	if got != "feline animal" {
		t.Fatalf("DedupHeading = %q, want unchanged", got)
	}
}

func TestDictionaryArticleCount(t *testing.T) {
	d := &Dictionary{Leaves: []HicLeaf{
		{Type: HicPlain},
		{Type: HicVariant},
		{Type: HicReference},
		{Type: HicRange},
	}}
	if got, want := d.ArticleCount(), 2; got != want {
		t.Fatalf("ArticleCount() = %d, want %d", got, want)
	}
}

func TestDictionaryLdReferences(t *testing.T) {
	d := &Dictionary{Ld: LdFile{
		References: []ReferenceInfo{{Type: "WEB", Name: "Web", Code: "W"}},
		Ranges:     []ReferenceRange{{FileName: "pics.bof", First: 100, Last: 200}},
	}}
	refs := d.LdReferences()
	entry, ok := refs.ByCode["W"]
	if !ok || entry.Name != "Web" {
		t.Fatalf("ByCode[W] = %+v, ok=%v", entry, ok)
	}
	name, local, ok := refs.FindFileName(150)
	if !ok || name != "pics.bof" || local != 50 {
		t.Fatalf("FindFileName(150) = %q, %d, %v", name, local, ok)
	}
	if _, _, ok := refs.FindFileName(250); ok {
		t.Fatalf("FindFileName(250) should miss (outside any range)")
	}
}
