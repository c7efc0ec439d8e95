package text

import (
	"strings"
)

// PrintDsl renders a parsed (and reference-resolved) run tree into Lingvo
// DSL source markup. Grounded on original_source/lib/duden/text/Printers.cpp's
// DslVisitor and printDsl.
func PrintDsl(run *Run) string {
	var b strings.Builder
	printDslRun(&b, run)
	return collapseDoubleNewlines(b.String())
}

func printDslChildren(b *strings.Builder, run *Run) {
	for _, c := range run.Children {
		printDslRun(b, c)
	}
}

func printDslTag(b *strings.Builder, tag string, run *Run) {
	b.WriteByte('[')
	b.WriteString(tag)
	b.WriteByte(']')
	printDslChildren(b, run)
	b.WriteString("[/")
	b.WriteString(tag)
	b.WriteByte(']')
}

func printDslRun(b *strings.Builder, run *Run) {
	switch run.Kind {
	case KindPlain:
		b.WriteString(escapeDsl(run.Text))
	case KindBold:
		printDslTag(b, "b", run)
	case KindItalic:
		printDslTag(b, "i", run)
	case KindUnderline:
		printDslTag(b, "u", run)
	case KindSuperscript:
		printDslTag(b, "sup", run)
	case KindSubscript:
		printDslTag(b, "sub", run)
	case KindColor:
		b.WriteString("[c ")
		b.WriteString(run.Name)
		b.WriteByte(']')
		printDslChildren(b, run)
		b.WriteString("[/c]")
	case KindAddendum:
		b.WriteByte('(')
		printDslChildren(b, run)
		b.WriteByte(')')
	case KindAlignment, KindWebLinkFormatting, KindRoot:
		printDslChildren(b, run)
	case KindLineBreak:
		b.WriteByte('\n')
	case KindSoftLineBreak:
		// dropped, matching the original's printDsl
	case KindTab, KindSticky, KindID, KindTableTag:
		// no textual representation
	case KindReferencePlaceholder:
		// unresolved references print as nothing; ResolveReferences must
		// run first to turn these into one of the concrete reference kinds
	case KindArticleReference:
		b.WriteString("[ref]")
		b.WriteString(escapeDsl(run.Heading))
		b.WriteString("[/ref]")
		if run.Caption != nil {
			caption := plainText(run.Caption)
			if caption != "" && caption != run.Heading {
				b.WriteString(" (")
				b.WriteString(escapeDsl(caption))
				b.WriteByte(')')
			}
		}
	case KindWebReference:
		b.WriteString("[s]")
		b.WriteString(run.FileName)
		b.WriteString("[/s]")
	case KindTableReference:
		printReferenceBlock(b, run, true)
	case KindPictureReference:
		printReferenceBlock(b, run, false)
	case KindInlineImage:
		name := run.Image
		if name == "" {
			name = run.Secondary
		}
		b.WriteString("[s]")
		b.WriteString(name)
		b.WriteString("[/s]")
	case KindInlineSound:
		first := true
		for _, n := range run.Names {
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteString("[s]")
			b.WriteString(n.File)
			b.WriteString("[/s]")
			if n.Label != nil {
				if label := plainText(n.Label); label != "" {
					b.WriteByte(' ')
					b.WriteString(escapeDsl(label))
				}
			}
		}
		b.WriteByte(' ')
	case KindTable:
		// A full rendered-image table is out of scope (no TableRenderer is
		// wired); render a plain-text approximation of the grid instead.
		b.WriteString("[s]")
		b.WriteString(tablePlainText(run))
		b.WriteString("[/s]")
	case KindTableCell:
		printDslChildren(b, run)
		b.WriteByte('\t')
	default:
		printDslChildren(b, run)
	}
}

// printReferenceBlock renders a TableReference/PictureReference as a
// separator-delimited block, matching DslVisitor's handling of those kinds.
func printReferenceBlock(b *strings.Builder, run *Run, isTable bool) {
	const sep = "----------"
	b.WriteByte('\n')
	b.WriteString(sep)
	b.WriteByte('\n')
	if run.Header != nil {
		printDslRun(b, run.Header)
		b.WriteByte('\n')
	} else if run.Caption != nil {
		printDslRun(b, run.Caption)
		b.WriteByte('\n')
	}
	if run.Content != nil {
		printDslRun(b, run.Content)
		b.WriteByte('\n')
	} else if run.Desc != nil {
		printDslRun(b, run.Desc)
		b.WriteByte('\n')
	}
	if run.FileName != "" {
		b.WriteString("[s]")
		b.WriteString(run.FileName)
		b.WriteString("[/s]\n")
	}
	if run.Copyright != "" {
		b.WriteString(run.Copyright)
		b.WriteByte('\n')
	}
	b.WriteString(sep)
	b.WriteByte('\n')
	_ = isTable
}

func escapeDsl(s string) string {
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}

func plainText(run *Run) string {
	var b strings.Builder
	var walk func(*Run)
	walk = func(r *Run) {
		if r.Kind == KindPlain {
			b.WriteString(r.Text)
		}
		for _, c := range r.Children {
			walk(c)
		}
	}
	walk(run)
	return b.String()
}

// tablePlainText renders a Table run's cells as plain text separated by
// tabs, with no row breaks; tables have no rendered (image or HTML) form.
func tablePlainText(table *Run) string {
	var b strings.Builder
	col := 0
	for _, c := range table.Children {
		if c.Kind != KindTableCell {
			continue
		}
		if col > 0 {
			b.WriteByte('\t')
		}
		b.WriteString(plainText(c))
		col++
	}
	return b.String()
}

func collapseDoubleNewlines(s string) string {
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return s
}
