package lsd

import (
	"fmt"

	"github.com/dicebound/lsd2dsl/internal/bitio"
)

// Dictionary is the top-level LSD entry point, grounded on
// original_source/dictlsd/lsd.h's LSDDictionary: it ties together the
// header/decoder reader, the heading page scan, and the overlay reader.
type Dictionary struct {
	br      *bitio.BitReader
	reader  *Reader
	overlay *OverlayReader // nil until first use; overlay directory requires a supported version
}

// Open parses an LSD dictionary starting at br's current position
// (normally offset 0).
func Open(br *bitio.BitReader) (*Dictionary, error) {
	reader, err := NewReader(br)
	if err != nil {
		return nil, err
	}
	return &Dictionary{br: br, reader: reader}, nil
}

// Name returns the dictionary's display name.
func (d *Dictionary) Name() string { return d.reader.Name() }

// Supported reports whether this file's version has a dialect decoder.
func (d *Dictionary) Supported() bool { return d.reader.Supported() }

// Header returns the packed file header.
func (d *Dictionary) Header() Header { return d.reader.Header() }

// Icon returns the raw icon bytes.
func (d *Dictionary) Icon() []byte { return d.reader.Icon() }

// Annotation decodes the dictionary-level annotation.
func (d *Dictionary) Annotation() (string, error) { return d.reader.Annotation() }

// ReadHeadings performs the flat scan over every heading page described
// by the header (pagesOffset through the overlay directory's start) and
// returns every decoded ArticleHeading, in page order, with prefix
// compression resolved (see collectHeadingsFromPage / loadArticleHeading).
// It does not collapse DSL variants; call CollapseVariants separately.
func (d *Dictionary) ReadHeadings() ([]ArticleHeading, error) {
	if !d.reader.Supported() {
		return nil, fmt.Errorf("lsd: read headings: %w", ErrUnsupportedVersion)
	}
	decoder, err := d.reader.Decoder()
	if err != nil {
		return nil, err
	}
	pagesCount, err := d.reader.PagesCount()
	if err != nil {
		return nil, err
	}
	var headings []ArticleHeading
	for i := uint32(0); i < pagesCount; i++ {
		page, err := collectHeadingsFromPage(d.br, decoder, d.reader.Header().PagesOffset, i)
		if err != nil {
			return nil, fmt.Errorf("lsd: read headings: page %d: %w", i, err)
		}
		headings = append(headings, page...)
	}
	return headings, nil
}

// ReadArticle decodes the article body at the given reference.
func (d *Dictionary) ReadArticle(reference uint32) (string, error) {
	return d.reader.DecodeArticle(reference)
}

func (d *Dictionary) ensureOverlay() error {
	if d.overlay != nil {
		return nil
	}
	if !d.reader.Supported() {
		return fmt.Errorf("lsd: overlay: %w", ErrUnsupportedVersion)
	}
	overlay, err := NewOverlayReader(d.br, d.reader.OverlayHeadingsOffset(), d.reader.OverlayDataOffset())
	if err != nil {
		return fmt.Errorf("lsd: overlay: %w", err)
	}
	d.overlay = overlay
	return nil
}

// ReadOverlayHeadings returns the overlay directory's entries.
func (d *Dictionary) ReadOverlayHeadings() ([]OverlayHeading, error) {
	if err := d.ensureOverlay(); err != nil {
		return nil, err
	}
	return d.overlay.ReadHeadings()
}

// ReadOverlayEntry decompresses one overlay heading's payload.
func (d *Dictionary) ReadOverlayEntry(h OverlayHeading) ([]byte, error) {
	if err := d.ensureOverlay(); err != nil {
		return nil, err
	}
	return d.overlay.ReadEntry(h)
}
