package text

import (
	"fmt"
	"strings"
)

// LdReferences is the slice of reference data a Duden LD file exposes to
// ResolveReferences: the parser's internal/duden package owns the actual
// LdFile type, so this is satisfied by a small adapter at the call site to
// avoid an import cycle between internal/duden and internal/duden/text.
type LdReferences struct {
	// ByCode maps a reference code (LdFile.References[i].Code) to its
	// declared entry, mirroring Reference.cpp's lookup against ld.references.
	ByCode map[string]ReferenceEntry
	// FindFileName resolves an absolute article-archive offset to the
	// resource file name and local offset that contains it, per
	// Reference.cpp's findFileName(offset) helper over LdFile.ranges.
	FindFileName func(offset int64) (fileName string, localOffset int64, ok bool)
}

// ReferenceEntry is the subset of LdFile.ReferenceInfo the resolver needs.
type ReferenceEntry struct {
	Type string
	Name string
	Code string
}

// replaceAdpExtWithWav rewrites a ".adp"-suffixed file name's extension to
// ".wav", matching AdpDecoder.cpp's replaceAdpExtWithWav: Duden ships its
// sound archive entries as raw ADPCM under a ".adp" name, but the produced
// .dsl.files.zip always carries the decoded .wav.
func replaceAdpExtWithWav(name string) string {
	if len(name) >= 4 && strings.EqualFold(name[len(name)-4:], ".adp") {
		return name[:len(name)-4] + ".wav"
	}
	return name
}

// ResolveReferences walks a parsed run tree, turning InlineSound label text
// into resolved file names and ReferencePlaceholder runs into one of
// ArticleReference/InlineImage/TableReference/PictureReference/WebReference,
// exactly as ReferenceResolverRewriter does in Reference.cpp. Runs that
// can't be resolved are left as-is and the printer renders them as nothing.
func ResolveReferences(run *Run, refs LdReferences) error {
	for _, c := range run.Children {
		if c.Kind == KindInlineSound {
			resolveInlineSound(c)
			continue
		}
		if err := ResolveReferences(c, refs); err != nil {
			return err
		}
	}
	if run.Kind == KindReferencePlaceholder {
		return resolvePlaceholder(run, refs)
	}
	return nil
}

// resolveInlineSound splits each \w{...} entry's "file \"caption\"" plain
// text into a resolved file name (with .adp rewritten to .wav) and an
// optional caption label.
func resolveInlineSound(run *Run) {
	for _, child := range run.Children {
		text := plainText(child)
		file := text
		var label *Run
		if idx := strings.Index(text, " \""); idx >= 0 && strings.HasSuffix(text, "\"") {
			file = text[:idx]
			caption := text[idx+2 : len(text)-1]
			label = &Run{Kind: KindPlain, Text: caption}
		}
		run.Names = append(run.Names, InlineSoundName{
			File:  replaceAdpExtWithWav(strings.TrimSpace(file)),
			Label: label,
		})
	}
	run.Children = nil
}

func resolvePlaceholder(run *Run, refs LdReferences) error {
	id := run.ID
	code := id.Code

	if code == "" && id.Num != -1 {
		run.Kind = KindArticleReference
		run.From = id.Num
		if len(run.Children) > 0 {
			run.Caption = run.Children[0]
		}
		return nil
	}

	if strings.HasPrefix(code, "I") {
		run.Kind = KindInlineImage
		run.Image = strings.TrimSpace(plainText(run))
		return nil
	}

	entry, ok := refs.ByCode[code]
	if !ok {
		// Unknown reference code: the original throws; downgraded to a
		// no-op placeholder here per the Warning-class policy for
		// malformed/missing reference data.
		return nil
	}

	if !strings.HasPrefix(code, "M") {
		return nil
	}

	switch entry.Name {
	case "Tabellen":
		run.Kind = KindTableReference
	case "Bilder":
		run.Kind = KindPictureReference
	case "Web":
		run.Kind = KindWebReference
		run.FileName = strings.TrimSpace(plainText(run))
		return nil
	default:
		return nil
	}

	if refs.FindFileName == nil {
		return fmt.Errorf("duden/text: reference %q needs FindFileName", code)
	}
	fileName, localOffset, ok := refs.FindFileName(id.Num)
	if !ok {
		// "reference into unknown file": downgraded to a no-op per
		// DESIGN.md's Warning-class decision rather than a hard error.
		return nil
	}
	run.FileName = fileName
	run.From = localOffset
	return nil
}

// ResourceReader fetches the text of one resource entry (a table or
// picture description block), decoded from the Duden charset to UTF-8,
// starting at localOffset inside fileName.
type ResourceReader func(fileName string, localOffset int64) (string, error)

// InlineReferences seeks into each TableReference/PictureReference's
// resource file and parses its embedded @C%KEY=value attribute block plus
// trailing caption/body text, per Reference.cpp's ReferenceInlinerRewriter.
func InlineReferences(run *Run, read ResourceReader) error {
	for _, c := range run.Children {
		if err := InlineReferences(c, read); err != nil {
			return err
		}
	}
	switch run.Kind {
	case KindTableReference:
		return inlineBlock(run, read, true)
	case KindPictureReference:
		return inlineBlock(run, read, false)
	}
	return nil
}

func inlineBlock(run *Run, read ResourceReader, isTable bool) error {
	raw, err := read(run.FileName, run.From)
	if err != nil {
		// "reference into unknown file": downgraded per DESIGN.md.
		return nil
	}
	attrs := map[string]string{}
	lines := strings.Split(raw, "\n")
	bodyStart := 0
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		if !strings.HasPrefix(line, "@C%") {
			bodyStart = i
			break
		}
		kv := line[3:]
		eq := strings.IndexByte(kv, '=')
		if eq < 0 {
			continue
		}
		attrs[kv[:eq]] = kv[eq+1:]
	}
	body := strings.Join(lines[bodyStart:], "\n")
	bodyRun, err := ParseDudenText(body)
	if err != nil {
		return nil
	}

	run.MT = attrs["MT"]
	run.Copyright = attrs["CR"]
	if file, ok := attrs["File"]; ok {
		run.FileName = replaceAdpExtWithWav(file)
	}
	if isTable {
		run.Content = bodyRun
	} else {
		run.Desc = bodyRun
	}
	return nil
}

// ResolveArticleReferences fills in ArticleReference runs' Heading text by
// resolving their stored article offset via resolveArticle, per
// Reference.cpp's ArticleReferenceVisitor.
func ResolveArticleReferences(run *Run, resolveArticle func(offset int64) string) {
	for _, c := range run.Children {
		ResolveArticleReferences(c, resolveArticle)
	}
	if run.Kind == KindArticleReference {
		run.Heading = resolveArticle(run.From)
	}
}
