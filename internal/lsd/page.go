package lsd

import (
	"fmt"

	"github.com/dicebound/lsd2dsl/internal/bitio"
)

const pageSize = 512

// page is the 11-byte header (1 bit plus five 16-bit fields, byte-aligned)
// shared by leaf and node heading pages,
// grounded on original_source/dictlsd/CachePage.cpp's loadHeader.
type page struct {
	isLeaf        bool
	number        uint32
	prev          uint32
	next          uint32
	parent        uint32
	headingsCount uint32
}

func loadPageHeader(br *bitio.BitReader) (page, error) {
	var p page
	leafBit, err := br.ReadBit()
	if err != nil {
		return p, fmt.Errorf("lsd: page header: leaf bit: %w", err)
	}
	p.isLeaf = leafBit != 0
	if p.number, err = br.ReadBits(16); err != nil {
		return p, fmt.Errorf("lsd: page header: number: %w", err)
	}
	if p.prev, err = br.ReadBits(16); err != nil {
		return p, fmt.Errorf("lsd: page header: prev: %w", err)
	}
	if p.parent, err = br.ReadBits(16); err != nil {
		return p, fmt.Errorf("lsd: page header: parent: %w", err)
	}
	if p.next, err = br.ReadBits(16); err != nil {
		return p, fmt.Errorf("lsd: page header: next: %w", err)
	}
	if p.headingsCount, err = br.ReadBits(16); err != nil {
		return p, fmt.Errorf("lsd: page header: headings count: %w", err)
	}
	br.AlignToByte()
	return p, nil
}

// nodePageBody is the interior-node page body: a first-child page number
// plus count-1 separator prefixes (the last entry's prefix is always
// empty, matching the original's loop). Kept for structural completeness
// even though the top-level heading scan only visits leaf pages (see
// collectHeadingsFromPage).
type nodePageBody struct {
	firstChild uint32
	prefixes   []string
}

func parseNodePageBody(br *bitio.BitReader, decoder DialectDecoder, count int) (nodePageBody, error) {
	var res nodePageBody
	firstChild, err := decoder.ReadReference1(br)
	if err != nil {
		return res, fmt.Errorf("lsd: node page: first child: %w", err)
	}
	res.firstChild = firstChild
	res.prefixes = make([]string, 0, count)
	for i := 0; i < count; i++ {
		if i == count-1 {
			res.prefixes = append(res.prefixes, "")
			continue
		}
		prefixLen, err := decoder.DecodePrefixLen(br)
		if err != nil {
			return res, fmt.Errorf("lsd: node page: prefix length %d: %w", i, err)
		}
		postfixLen, err := decoder.DecodePostfixLen(br)
		if err != nil {
			return res, fmt.Errorf("lsd: node page: postfix length %d: %w", i, err)
		}
		heading, err := decoder.DecodeHeading(br, postfixLen)
		if err != nil {
			return res, fmt.Errorf("lsd: node page: heading %d: %w", i, err)
		}
		_ = prefixLen // the original discards prefixLen for interior separators too
		res.prefixes = append(res.prefixes, heading)
	}
	return res, nil
}

func parseLeafPageBody(br *bitio.BitReader, decoder DialectDecoder, count int, knownPrefix string) ([]ArticleHeading, error) {
	headings := make([]ArticleHeading, 0, count)
	for i := 0; i < count; i++ {
		h, err := loadArticleHeading(decoder, br, knownPrefix)
		if err != nil {
			return nil, fmt.Errorf("lsd: leaf page: heading %d/%d: %w", i, count, err)
		}
		knownPrefix = h.Text()
		headings = append(headings, h)
	}
	return headings, nil
}

// collectHeadingsFromPage reads one fixed-size page at pagesOffset +
// pageSize*pageNumber and, if it is a leaf, decodes its headings. Interior
// (non-leaf) pages are skipped, matching
// original_source/dictlsd/lsd.cpp's collectHeadingFromPage, which never
// recurses into node pages — LSDDictionary::readHeadings is a flat scan
// over every page, relying on leaf pages alone to cover all headings.
func collectHeadingsFromPage(br *bitio.BitReader, decoder DialectDecoder, pagesOffset uint32, pageNumber uint32) ([]ArticleHeading, error) {
	br.Seek(int64(pagesOffset) + int64(pageSize)*int64(pageNumber))
	p, err := loadPageHeader(br)
	if err != nil {
		return nil, err
	}
	if !p.isLeaf {
		return nil, nil
	}
	return parseLeafPageBody(br, decoder, int(p.headingsCount), "")
}
