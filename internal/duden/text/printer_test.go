package text

import "testing"

func TestEscapeDslBrackets(t *testing.T) {
	if got, want := escapeDsl("a[b]c"), `a\[b\]c`; got != want {
		t.Fatalf("escapeDsl = %q, want %q", got, want)
	}
}

func TestPrintDslArticleReferenceWithCaption(t *testing.T) {
	ref := NewRun(KindArticleReference)
	ref.Heading = "Katze"
	ref.Caption = &Run{Kind: KindRoot, Children: []*Run{{Kind: KindPlain, Text: "cat"}}}
	root := NewRun(KindRoot)
	root.AddChild(ref)

	if got, want := PrintDsl(root), "[ref]Katze[/ref] (cat)"; got != want {
		t.Fatalf("PrintDsl = %q, want %q", got, want)
	}
}

func TestPrintDslArticleReferenceCaptionMatchingHeadingOmitted(t *testing.T) {
	ref := NewRun(KindArticleReference)
	ref.Heading = "Katze"
	ref.Caption = &Run{Kind: KindRoot, Children: []*Run{{Kind: KindPlain, Text: "Katze"}}}
	root := NewRun(KindRoot)
	root.AddChild(ref)

	if got, want := PrintDsl(root), "[ref]Katze[/ref]"; got != want {
		t.Fatalf("PrintDsl = %q, want %q", got, want)
	}
}

func TestPrintDslInlineSoundMultipleNames(t *testing.T) {
	sound := NewRun(KindInlineSound)
	sound.Names = []InlineSoundName{
		{File: "a.wav"},
		{File: "b.wav", Label: &Run{Kind: KindRoot, Children: []*Run{{Kind: KindPlain, Text: "alt"}}}},
	}
	root := NewRun(KindRoot)
	root.AddChild(sound)

	if got, want := PrintDsl(root), "[s]a.wav[/s], [s]b.wav[/s] alt "; got != want {
		t.Fatalf("PrintDsl = %q, want %q", got, want)
	}
}

func TestPrintDslPictureReferenceBlock(t *testing.T) {
	pic := NewRun(KindPictureReference)
	pic.Header = &Run{Kind: KindRoot, Children: []*Run{{Kind: KindPlain, Text: "Figure 1"}}}
	pic.FileName = "fig1.bmp"
	root := NewRun(KindRoot)
	root.AddChild(pic)

	want := "\n----------\nFigure 1\n[s]fig1.bmp[/s]\n----------\n"
	if got := PrintDsl(root); got != want {
		t.Fatalf("PrintDsl = %q, want %q", got, want)
	}
}

func TestCollapseDoubleNewlines(t *testing.T) {
	if got, want := collapseDoubleNewlines("a\n\n\n\nb"), "a\n\nb"; got != want {
		t.Fatalf("collapseDoubleNewlines = %q, want %q", got, want)
	}
}

func TestPlainTextSkipsNonPlainRuns(t *testing.T) {
	bold := NewRun(KindBold)
	bold.AddChild(&Run{Kind: KindPlain, Text: "strong"})
	root := NewRun(KindRoot)
	root.AddChild(&Run{Kind: KindPlain, Text: "a "})
	root.AddChild(bold)
	root.AddChild(&Run{Kind: KindTab, Num: 1})

	if got, want := plainText(root), "a strong"; got != want {
		t.Fatalf("plainText = %q, want %q", got, want)
	}
}
