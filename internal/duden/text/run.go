// Package text implements Duden's inline markup: a recursive-descent
// parser from the raw tag syntax (\b{...}, \S{...;code:num}, \tab{...},
// etc.) into a small run tree, reference resolution over that tree, and a
// DSL-target printer.
//
// Grounded on original_source/lib/duden/text/TextRun.h, Parser.cpp,
// Reference.cpp and Printers.cpp.
package text

// Kind discriminates the payload a Run carries. Grounded on TextRun.h's
// class hierarchy (TextRun/FormattingRun/ReferenceRun and their concrete
// subclasses); Go's single tagged struct replaces the C++ visitor
// hierarchy, with the printer switching on Kind instead of double
// dispatch.
type Kind int

const (
	KindRoot Kind = iota
	KindPlain
	KindBold
	KindItalic
	KindUnderline
	KindSuperscript
	KindSubscript
	KindAddendum
	KindAlignment
	KindColor
	KindWebLinkFormatting
	KindSticky
	KindID
	KindTab
	KindLineBreak
	KindSoftLineBreak
	KindReferencePlaceholder
	KindArticleReference
	KindWebReference
	KindTableReference
	KindPictureReference
	KindInlineImage
	KindInlineSound
	KindTable
	KindTableCell
	KindTableTag
)

// ReferenceID is the parsed ".code:from-to" suffix of a \S{...} reference
// placeholder (sid() in the original parser).
type ReferenceID struct {
	Code string
	Num  int64
	Num2 int64
}

// InlineSoundName is one resolved file name inside a \w{...} run, paired
// with the caption run that follows it (if any).
type InlineSoundName struct {
	File  string
	Label *Run
}

// Run is a single node of a parsed Duden text tree. Only the fields
// relevant to Kind are meaningful; see each Kind's construction site in
// parser.go/reference.go for which fields it populates.
type Run struct {
	Kind Kind

	Parent   *Run
	Children []*Run

	Text string // KindPlain

	Num  int64 // KindSticky/KindID/KindTab
	From int64 // KindTableReference/KindPictureReference/KindArticleReference: source offset
	To   int64 // reference range "to", when present

	RGB  uint32 // KindColor
	Name string // KindColor: the colour tag's text as written (e.g. "ff0000")

	ID ReferenceID // KindReferencePlaceholder

	FileName string // KindTableReference/KindPictureReference; KindWebReference: the link
	Caption  *Run   // KindTableReference/KindPictureReference/KindArticleReference
	Content  *Run   // KindTableReference (rendered table body)
	Header   *Run   // KindPictureReference
	Desc     *Run   // KindPictureReference
	MT       string // KindTableReference
	Copyright string // KindPictureReference
	Image     string // KindPictureReference/KindInlineImage: resolved image file

	Heading string // KindArticleReference, filled in by ResolveArticleReferences

	Secondary string // KindInlineImage

	Names []InlineSoundName // KindInlineSound
}

// AddChild appends run as a child of r, setting its Parent.
func (r *Run) AddChild(run *Run) {
	run.Parent = r
	r.Children = append(r.Children, run)
}

// Replace swaps child (a direct child of r) for replacement in place.
func (r *Run) Replace(child, replacement *Run) {
	for i, c := range r.Children {
		if c == child {
			replacement.Parent = r
			r.Children[i] = replacement
			return
		}
	}
}

// NewRun builds a detached Run of the given kind.
func NewRun(kind Kind) *Run { return &Run{Kind: kind} }
