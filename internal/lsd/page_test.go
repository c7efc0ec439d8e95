package lsd

import (
	"testing"

	"github.com/dicebound/lsd2dsl/internal/bitio"
)

// fakeDecoder drives loadArticleHeading/parseLeafPageBody from canned
// per-call values, so page/heading-assembly logic can be tested without a
// genuine Huffman-coded LSD bitstream.
type fakeDecoder struct {
	prefixLens  []int
	postfixLens []int
	headings    []string
	refs        []uint32
	i           int
}

func (d *fakeDecoder) Read(br *bitio.BitReader) error { return nil }
func (d *fakeDecoder) DecodeHeading(br *bitio.BitReader, n int) (string, error) {
	s := d.headings[d.i]
	return s, nil
}
func (d *fakeDecoder) DecodeArticle(br *bitio.BitReader) (string, error) { return "", nil }
func (d *fakeDecoder) DecodePrefixLen(br *bitio.BitReader) (int, error) {
	return d.prefixLens[d.i], nil
}
func (d *fakeDecoder) DecodePostfixLen(br *bitio.BitReader) (int, error) {
	return d.postfixLens[d.i], nil
}
func (d *fakeDecoder) ReadReference1(br *bitio.BitReader) (uint32, error) { return 0, nil }
func (d *fakeDecoder) ReadReference2(br *bitio.BitReader) (uint32, error) {
	ref := d.refs[d.i]
	d.i++
	return ref, nil
}
func (d *fakeDecoder) Prefix() string { return "" }

var _ DialectDecoder = (*fakeDecoder)(nil)

// bitWriter packs MSB-first bits into bytes, matching BitReader's layout.
type bitWriter struct {
	bytes []byte
	cur   byte
	nbits uint
}

func (w *bitWriter) writeBits(v uint32, k int) {
	for i := k - 1; i >= 0; i-- {
		bit := byte((v >> uint(i)) & 1)
		w.cur = (w.cur << 1) | bit
		w.nbits++
		if w.nbits == 8 {
			w.bytes = append(w.bytes, w.cur)
			w.cur = 0
			w.nbits = 0
		}
	}
}

func (w *bitWriter) finish() []byte {
	if w.nbits > 0 {
		w.cur <<= (8 - w.nbits)
		w.bytes = append(w.bytes, w.cur)
		w.nbits = 0
	}
	return w.bytes
}

// TestLoadArticleHeadingPrefixReconstruction exercises spec.md's "7-heading
// prefix reconstruction" scenario: headings re-use a run-length-encoded
// prefix of the previous heading's full text.
func TestLoadArticleHeadingPrefixReconstruction(t *testing.T) {
	dec := &fakeDecoder{
		prefixLens:  []int{0, 3, 4},
		postfixLens: []int{5, 2, 3},
		headings:    []string{"apple", "ly", "ish"},
		refs:        []uint32{10, 20, 30},
	}
	// each heading's ext-pairs flag bit is "no extra pairs" (0)
	w := &bitWriter{}
	w.writeBits(0, 1)
	w.writeBits(0, 1)
	w.writeBits(0, 1)
	br := bitio.NewBitReader(bitio.NewStreamCursor(bitio.NewMemStream(w.finish())))

	knownPrefix := ""
	h1, err := loadArticleHeading(dec, br, knownPrefix)
	if err != nil {
		t.Fatalf("heading 1: %v", err)
	}
	if got, want := h1.Text(), "apple"; got != want {
		t.Fatalf("heading 1 text = %q, want %q", got, want)
	}

	h2, err := loadArticleHeading(dec, br, h1.Text())
	if err != nil {
		t.Fatalf("heading 2: %v", err)
	}
	if got, want := h2.Text(), "apply"; got != want {
		t.Fatalf("heading 2 text = %q, want %q", got, want)
	}

	h3, err := loadArticleHeading(dec, br, h2.Text())
	if err != nil {
		t.Fatalf("heading 3: %v", err)
	}
	if got, want := h3.Text(), "applish"; got != want {
		t.Fatalf("heading 3 text = %q, want %q", got, want)
	}
	if h3.ArticleReference() != 30 {
		t.Fatalf("heading 3 reference = %d, want 30", h3.ArticleReference())
	}
}

func TestLoadPageHeaderLeaf(t *testing.T) {
	w := &bitWriter{}
	w.writeBits(1, 1)  // isLeaf
	w.writeBits(7, 16) // number
	w.writeBits(0, 16) // prev
	w.writeBits(1, 16) // parent
	w.writeBits(2, 16) // next
	w.writeBits(3, 16) // headingsCount
	buf := w.finish()

	br := bitio.NewBitReader(bitio.NewStreamCursor(bitio.NewMemStream(buf)))
	p, err := loadPageHeader(br)
	if err != nil {
		t.Fatalf("loadPageHeader: %v", err)
	}
	if !p.isLeaf || p.number != 7 || p.parent != 1 || p.next != 2 || p.headingsCount != 3 {
		t.Fatalf("page = %+v, unexpected", p)
	}
}

func TestCollectHeadingsFromPageSkipsNonLeaf(t *testing.T) {
	w := &bitWriter{}
	w.writeBits(0, 1)  // isLeaf = false
	w.writeBits(1, 16) // number
	w.writeBits(0, 16) // prev
	w.writeBits(0, 16) // parent
	w.writeBits(0, 16) // next
	w.writeBits(5, 16) // headingsCount (irrelevant, not a leaf)
	buf := w.finish()
	// pad to a full page so a second page could follow without overlap
	for len(buf) < pageSize {
		buf = append(buf, 0)
	}

	br := bitio.NewBitReader(bitio.NewStreamCursor(bitio.NewMemStream(buf)))
	dec := &fakeDecoder{}
	headings, err := collectHeadingsFromPage(br, dec, 0, 0)
	if err != nil {
		t.Fatalf("collectHeadingsFromPage: %v", err)
	}
	if headings != nil {
		t.Fatalf("expected nil headings for a non-leaf page, got %v", headings)
	}
}
