package lsd

import (
	"fmt"
	"math/bits"

	"github.com/dicebound/lsd2dsl/internal/bitio"
)

// Reader is the Go analogue of original_source's DictionaryReader: it owns
// the parsed Header plus the metadata that follows it for supported
// versions, and lazily loads the dialect decoder on first use.
//
// Per spec.md §4.4/§7 (UnsupportedVersion: header metadata stays
// inspectable even when decoder operations are unavailable), the packed
// Header is always fully parsed regardless of version support — only the
// name/icon/pagesEnd/overlayData fields and the decoder itself require a
// supported version, matching original_source's constructor which returns
// immediately after the dispatch switch for an unrecognised version
// (leaving those fields at their zero values, not an error).
type Reader struct {
	br            *bitio.BitReader
	header        Header
	supported     bool
	decoder       DialectDecoder
	decoderLoaded bool

	name        string
	icon        []byte
	pagesEnd    uint32
	overlayData uint32
}

// NewReader parses the header (and, for supported versions, the
// remaining fixed-layout metadata) starting at br's current position,
// which must be offset 0 of the LSD stream.
func NewReader(br *bitio.BitReader) (*Reader, error) {
	h, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	r := &Reader{br: br, header: h}

	decoder, ok := dialectFor(h.Version)
	if !ok {
		r.supported = false
		return r, nil
	}
	r.supported = true
	r.decoder = decoder

	var nameLen [1]byte
	if _, err := br.ReadSome(nameLen[:]); err != nil {
		return nil, fmt.Errorf("lsd: read name length: %w", err)
	}
	if r.name, err = readUnicodeString(br, int(nameLen[0]), false); err != nil {
		return nil, fmt.Errorf("lsd: read name: %w", err)
	}

	firstHeadingLen, err := br.ReadBits(8)
	if err != nil {
		return nil, fmt.Errorf("lsd: read first-heading length: %w", err)
	}
	if _, err := readUnicodeString(br, int(firstHeadingLen), false); err != nil {
		return nil, fmt.Errorf("lsd: read first heading: %w", err)
	}
	lastHeadingLen, err := br.ReadBits(8)
	if err != nil {
		return nil, fmt.Errorf("lsd: read last-heading length: %w", err)
	}
	if _, err := readUnicodeString(br, int(lastHeadingLen), false); err != nil {
		return nil, fmt.Errorf("lsd: read last heading: %w", err)
	}

	capitalsLenRaw, err := br.ReadBits(32)
	if err != nil {
		return nil, fmt.Errorf("lsd: read capitals length: %w", err)
	}
	capitalsLen := bits.ReverseBytes32(capitalsLenRaw)
	if _, err := readUnicodeString(br, int(capitalsLen), false); err != nil {
		return nil, fmt.Errorf("lsd: read capitals: %w", err)
	}

	var iconLenBuf [2]byte
	if _, err := br.ReadSome(iconLenBuf[:]); err != nil {
		return nil, fmt.Errorf("lsd: read icon length: %w", err)
	}
	iconLen := int(iconLenBuf[0]) | int(iconLenBuf[1])<<8
	r.icon = make([]byte, iconLen)
	if iconLen > 0 {
		if _, err := br.ReadSome(r.icon); err != nil {
			return nil, fmt.Errorf("lsd: read icon: %w", err)
		}
	}

	if h.Version > 0x140000 {
		var checksum [4]byte
		if _, err := br.ReadSome(checksum[:]); err != nil {
			return nil, fmt.Errorf("lsd: skip checksum: %w", err)
		}
	}

	var pagesEndBuf [4]byte
	if _, err := br.ReadSome(pagesEndBuf[:]); err != nil {
		return nil, fmt.Errorf("lsd: read pagesEnd: %w", err)
	}
	r.pagesEnd = le32(pagesEndBuf)

	var overlayDataBuf [4]byte
	if _, err := br.ReadSome(overlayDataBuf[:]); err != nil {
		return nil, fmt.Errorf("lsd: read overlayData: %w", err)
	}
	r.overlayData = le32(overlayDataBuf)
	if h.Version < 0x140000 {
		r.overlayData = 0 // headings use absolute offsets
	}

	return r, nil
}

func le32(b [4]byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// Supported reports whether this version has a dialect decoder.
func (r *Reader) Supported() bool { return r.supported }

// Header returns the packed file header (always populated).
func (r *Reader) Header() Header { return r.header }

// Name returns the dictionary's display name (empty for unsupported versions).
func (r *Reader) Name() string { return r.name }

// Icon returns the raw icon bytes (nil for unsupported versions).
func (r *Reader) Icon() []byte { return r.icon }

// PagesCount derives the heading-page count from pagesEnd and the header's
// pagesOffset, per original_source's 512-byte fixed page size.
func (r *Reader) PagesCount() (uint32, error) {
	if !r.supported {
		return 0, fmt.Errorf("lsd: pages count: %w", ErrUnsupportedVersion)
	}
	return (r.pagesEnd - r.header.PagesOffset) / 512, nil
}

// OverlayHeadingsOffset is where the overlay heading directory begins.
func (r *Reader) OverlayHeadingsOffset() uint32 { return r.pagesEnd }

// OverlayDataOffset is where overlay entry payloads begin (0 for versions
// whose headings carry absolute offsets already).
func (r *Reader) OverlayDataOffset() uint32 { return r.overlayData }

func (r *Reader) loadDecoder() error {
	if !r.supported {
		return fmt.Errorf("lsd: load decoder: %w", ErrUnsupportedVersion)
	}
	if r.decoderLoaded {
		return nil
	}
	pos := r.br.Tell()
	r.br.Seek(int64(r.header.DictionaryEncoderOffset))
	if err := r.decoder.Read(r.br); err != nil {
		return fmt.Errorf("lsd: load decoder: %w", err)
	}
	r.decoderLoaded = true
	r.br.Seek(pos)
	return nil
}

// Decoder returns the loaded dialect decoder, loading it on first call.
func (r *Reader) Decoder() (DialectDecoder, error) {
	if err := r.loadDecoder(); err != nil {
		return nil, err
	}
	return r.decoder, nil
}

// Prefix returns the decoder's shared run-length prefix string.
func (r *Reader) Prefix() (string, error) {
	if err := r.loadDecoder(); err != nil {
		return "", err
	}
	return r.decoder.Prefix(), nil
}

// Annotation decodes the dictionary-level annotation article.
func (r *Reader) Annotation() (string, error) {
	if err := r.loadDecoder(); err != nil {
		return "", err
	}
	r.br.Seek(int64(r.header.AnnotationOffset))
	anno, err := r.decoder.DecodeArticle(r.br)
	if err != nil {
		return "", fmt.Errorf("lsd: decode annotation: %w", err)
	}
	return anno, nil
}

// DecodeArticle decodes the article body at the given reference, an
// offset relative to the header's articlesOffset.
func (r *Reader) DecodeArticle(reference uint32) (string, error) {
	if err := r.loadDecoder(); err != nil {
		return "", err
	}
	r.br.Seek(int64(r.header.ArticlesOffset) + int64(reference))
	body, err := r.decoder.DecodeArticle(r.br)
	if err != nil {
		return "", fmt.Errorf("lsd: decode article at reference %#x: %w", reference, err)
	}
	return body, nil
}
