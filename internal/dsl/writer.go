// Package dsl writes the Lingvo DSL source format: a UTF-16LE text file
// with a handful of "#KEY value" header lines followed by
// heading/tab-indented-article block pairs.
//
// Grounded on original_source's root-level DslWriter.h/.cpp.
package dsl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf16"
)

var utf16BOM = []byte{0xff, 0xfe}

// Writer incrementally builds one .dsl file plus its sibling .ann/.bmp
// files, matching dsl::Writer's constructor-to-close lifecycle.
type Writer struct {
	f       *os.File
	w       *bufio.Writer
	dslPath string
}

// New opens outputPath/name.dsl for writing and emits the UTF-16LE BOM,
// matching dsl::Writer's constructor.
func New(outputPath, name string) (*Writer, error) {
	dslPath := filepath.Join(outputPath, replaceExt(name, "dsl"))
	f, err := os.Create(dslPath)
	if err != nil {
		return nil, fmt.Errorf("dsl: create %q: %w", dslPath, err)
	}
	w := &Writer{f: f, w: bufio.NewWriter(f), dslPath: dslPath}
	if _, err := w.w.Write(utf16BOM); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// DslFileName returns the base name of the .dsl file being written.
func (w *Writer) DslFileName() string { return filepath.Base(w.dslPath) }

// DslFilePath returns the full path of the .dsl file being written.
func (w *Writer) DslFilePath() string { return w.dslPath }

func replaceExt(name, ext string) string {
	base := name[:len(name)-len(filepath.Ext(name))]
	return base + "." + ext
}

func (w *Writer) writeUTF16(s string) error {
	for _, r := range utf16.Encode([]rune(s)) {
		if err := w.w.WriteByte(byte(r)); err != nil {
			return err
		}
		if err := w.w.WriteByte(byte(r >> 8)); err != nil {
			return err
		}
	}
	return nil
}

// SetName writes the "#NAME" header line, matching Writer::setName.
func (w *Writer) SetName(name string) error {
	return w.writeUTF16("#NAME\t\"" + name + "\"\r\n")
}

// SetAnnotation writes a sibling .ann file holding the dictionary's
// front-matter annotation text, matching Writer::setAnnotation.
func (w *Writer) SetAnnotation(annotation string) error {
	path := replaceExt(w.dslPath, "ann")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dsl: create %q: %w", path, err)
	}
	defer f.Close()
	if _, err := f.Write(utf16BOM); err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	for _, r := range utf16.Encode([]rune(annotation)) {
		if err := bw.WriteByte(byte(r)); err != nil {
			return err
		}
		if err := bw.WriteByte(byte(r >> 8)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SetLanguage writes the "#INDEX_LANGUAGE"/"#CONTENTS_LANGUAGE" header
// lines, resolving the numeric codes via langFromCode, matching
// Writer::setLanguage.
func (w *Writer) SetLanguage(source, target int, langFromCode func(int) string) error {
	if err := w.writeUTF16("#INDEX_LANGUAGE\t\"" + langFromCode(source) + "\"\n"); err != nil {
		return err
	}
	return w.writeUTF16("#CONTENTS_LANGUAGE\t\"" + langFromCode(target) + "\"\n")
}

// SetIcon writes a sibling .bmp file and the "#ICON_FILE" header line
// pointing to it, matching Writer::setIcon.
func (w *Writer) SetIcon(icon []byte) error {
	path := replaceExt(w.dslPath, "bmp")
	if err := w.writeUTF16("#ICON_FILE\t\"" + filepath.Base(path) + "\"\n\n"); err != nil {
		return err
	}
	return os.WriteFile(path, icon, 0o644)
}

// WriteHeading writes one heading line, matching Writer::writeHeading.
func (w *Writer) WriteHeading(heading string) error {
	return w.writeUTF16(heading + "\n")
}

// WriteArticle writes an article body, tab-indenting every line (the DSL
// format requires each article line start with a tab), matching
// Writer::writeArticle.
func (w *Writer) WriteArticle(article string) error {
	if err := w.writeUTF16("\t"); err != nil {
		return err
	}
	if err := w.writeUTF16(strings.ReplaceAll(article, "\n", "\n\t")); err != nil {
		return err
	}
	return w.writeUTF16("\n")
}

// Close flushes and closes the underlying .dsl file.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}

var _ io.Closer = (*Writer)(nil)
