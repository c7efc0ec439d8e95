package lsd

import "testing"

func mkHeading(ref uint32, text string, unsortedRanges ...[2]int) ArticleHeading {
	runes := []rune(text)
	chars := make([]CharInfo, len(runes))
	for i, r := range runes {
		chars[i] = CharInfo{Chr: r, Sorted: true}
	}
	for _, rng := range unsortedRanges {
		for i := rng[0]; i < rng[1]; i++ {
			chars[i].Sorted = false
		}
	}
	return ArticleHeading{reference: ref, chars: chars}
}

func TestArticleHeadingTextVsDslText(t *testing.T) {
	h := mkHeading(1, "Something", [2]int{4, 9})
	if got, want := h.Text(), "Some"; got != want {
		t.Fatalf("Text() = %q, want %q", got, want)
	}
	if got, want := h.DslText(), "Some{thing}"; got != want {
		t.Fatalf("DslText() = %q, want %q", got, want)
	}
}

func TestGroupHeadingsByReference(t *testing.T) {
	hs := []ArticleHeading{
		mkHeading(1, "a"),
		mkHeading(2, "b"),
		mkHeading(1, "c"),
		mkHeading(3, "d"),
		mkHeading(2, "e"),
	}
	grouped := GroupHeadingsByReference(hs)
	var refs []uint32
	for _, h := range grouped {
		refs = append(refs, h.reference)
	}
	want := []uint32{1, 1, 2, 2, 3}
	if len(refs) != len(want) {
		t.Fatalf("len = %d, want %d", len(refs), len(want))
	}
	for i := range want {
		if refs[i] != want[i] {
			t.Fatalf("refs[%d] = %d, want %d", i, refs[i], want[i])
		}
	}
}

// TestCollapseVariantsAB exercises the spec's 12-into-5 style variant
// collapse: a heading with an optional parenthesised part, e.g.
// "aa(bb)cc", decoded by the original dialect as two sibling headings
// "aa{(bb)}cc" (unsorted middle = parens+text) and "aa{(}bb{)}cc"
// (unsorted parens only, "bb" sorted) sharing one article reference.
func TestCollapseVariantsAB(t *testing.T) {
	// variant1: aa(bb)cc, with "(bb)" entirely unsorted -> matches matchA
	v1 := mkHeading(7, "aa(bb)cc", [2]int{2, 6})
	// variant2: aa(bb)cc, with only "(" and ")" unsorted, "bb" sorted -> matches matchB
	v2 := mkHeading(7, "aa(bb)cc", [2]int{2, 3}, [2]int{5, 6})

	collapsed, ok := tryCollapseAB(&v1, &v2)
	if !ok {
		t.Fatalf("tryCollapseAB did not collapse")
	}
	// the synthesized '(' ')' are marked sorted (real DSL optional-part
	// syntax, distinct from the curly-brace unsorted-run convention), so
	// the reconstructed heading renders with no curly braces at all.
	if got, want := collapsed.DslText(), "aa(bb)cc"; got != want {
		t.Fatalf("collapsed.DslText() = %q, want %q", got, want)
	}
}

func TestCollapseVariantsRemovesRedundantEntry(t *testing.T) {
	v1 := mkHeading(7, "aa(bb)cc", [2]int{2, 6})
	v2 := mkHeading(7, "aa(bb)cc", [2]int{2, 3}, [2]int{5, 6})
	other := mkHeading(9, "zzz")

	headings := []ArticleHeading{v1, other, v2}
	collapsed := CollapseVariants(headings)
	if len(collapsed) != 2 {
		t.Fatalf("len(collapsed) = %d, want 2", len(collapsed))
	}
	var sawCollapsed, sawOther bool
	for _, h := range collapsed {
		if h.reference == 7 {
			sawCollapsed = true
			if got, want := h.DslText(), "aa(bb)cc"; got != want {
				t.Fatalf("collapsed entry DslText() = %q, want %q", got, want)
			}
		}
		if h.reference == 9 {
			sawOther = true
		}
	}
	if !sawCollapsed || !sawOther {
		t.Fatalf("collapse dropped an unrelated heading: %+v", collapsed)
	}
}

func TestCollapseVariantsNoMatchLeavesBothEntries(t *testing.T) {
	v1 := mkHeading(7, "aa bb")
	v2 := mkHeading(7, "cc dd")
	collapsed := CollapseVariants([]ArticleHeading{v1, v2})
	if len(collapsed) != 2 {
		t.Fatalf("len(collapsed) = %d, want 2 (no collapse should occur)", len(collapsed))
	}
}
