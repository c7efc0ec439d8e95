package lsd

import (
	"fmt"

	"github.com/dicebound/lsd2dsl/internal/bitio"
)

// CharInfo tags one rune of a heading with its sortedness (used by
// searching/indexing) and whether it was escaped with a backslash in the
// DSL source, grounded on original_source/lib/lsd/ArticleHeading.cpp.
type CharInfo struct {
	Chr     rune
	Sorted  bool
	Escaped bool
}

func (a CharInfo) equalIgnoreSort(b CharInfo) bool {
	return a.Escaped == b.Escaped && a.Chr == b.Chr
}

func (a CharInfo) equal(b CharInfo) bool {
	return a.Sorted == b.Sorted && a.equalIgnoreSort(b)
}

// ArticleHeading is one decoded heading entry: its sorted/unsorted
// character stream plus the reference to the article it points at.
// Grounded on lib/lsd's (bug-fixed) ArticleHeading, authoritative over
// dictlsd's version per DESIGN.md's Open Questions #6.
type ArticleHeading struct {
	chars     []CharInfo
	reference uint32
}

type extPair struct {
	idx uint32
	chr rune
}

func makeCharsFromPairs(pairs []extPair, text []rune) []CharInfo {
	chars := make([]CharInfo, 0, len(pairs)+len(text))
	ti := 0
	pi := 0
	var idx uint32
	nextChar := func() (rune, bool) {
		if pi < len(pairs) && pairs[pi].idx == idx {
			c := pairs[pi].chr
			pi++
			return c, false
		}
		c := text[ti]
		ti++
		return c, true
	}
	for ti < len(text) || pi < len(pairs) {
		var info CharInfo
		info.Chr, info.Sorted = nextChar()
		if info.Chr == '\\' {
			idx++
			info.Chr, info.Sorted = nextChar()
			info.Escaped = true
		}
		chars = append(chars, info)
		idx++
	}
	return chars
}

// loadArticleHeading decodes one heading entry, threading knownPrefix
// (the previous heading's full text) through the shared prefix-length
// compression, grounded on ArticleHeading::Load.
func loadArticleHeading(decoder DialectDecoder, br *bitio.BitReader, knownPrefix string) (ArticleHeading, error) {
	var h ArticleHeading

	prefixLen, err := decoder.DecodePrefixLen(br)
	if err != nil {
		return h, fmt.Errorf("lsd: heading: prefix length: %w", err)
	}
	postfixLen, err := decoder.DecodePostfixLen(br)
	if err != nil {
		return h, fmt.Errorf("lsd: heading: postfix length: %w", err)
	}
	text, err := decoder.DecodeHeading(br, postfixLen)
	if err != nil {
		return h, fmt.Errorf("lsd: heading: decode: %w", err)
	}
	ref, err := decoder.ReadReference2(br)
	if err != nil {
		return h, fmt.Errorf("lsd: heading: reference: %w", err)
	}
	h.reference = ref

	prefixRunes := []rune(knownPrefix)
	if prefixLen > len(prefixRunes) {
		return h, fmt.Errorf("lsd: heading: prefix length %d exceeds known prefix %d", prefixLen, len(prefixRunes))
	}
	full := append([]rune{}, prefixRunes[:prefixLen]...)
	full = append(full, []rune(text)...)

	hasPairs, err := br.ReadBit()
	if err != nil {
		return h, fmt.Errorf("lsd: heading: ext-pairs flag: %w", err)
	}
	var pairs []extPair
	if hasPairs != 0 {
		n, err := br.ReadBits(8)
		if err != nil {
			return h, fmt.Errorf("lsd: heading: ext-pairs count: %w", err)
		}
		pairs = make([]extPair, n)
		for i := range pairs {
			idx, err := br.ReadBits(8)
			if err != nil {
				return h, fmt.Errorf("lsd: heading: ext-pair %d index: %w", i, err)
			}
			chr, err := br.ReadBits(16)
			if err != nil {
				return h, fmt.Errorf("lsd: heading: ext-pair %d char: %w", i, err)
			}
			pairs[i] = extPair{idx: idx, chr: rune(chr)}
		}
	}
	h.chars = makeCharsFromPairs(pairs, full)
	return h, nil
}

// Text returns the heading's sorted-only characters: the indexable form
// used as knownPrefix for the next heading and for search/collation.
func (h ArticleHeading) Text() string {
	out := make([]rune, 0, len(h.chars))
	for _, c := range h.chars {
		if c.Sorted {
			out = append(out, c.Chr)
		}
	}
	return string(out)
}

// DslText renders the full heading (sorted and unsorted parts), wrapping
// maximal runs of unsorted characters in curly braces, the DSL
// convention for text that is visible but not used for sorting/search.
func (h ArticleHeading) DslText() string {
	var out []rune
	group := false
	for _, info := range h.chars {
		if group && info.Sorted {
			out = append(out, '}')
			group = false
		} else if !group && !info.Sorted {
			out = append(out, '{')
			group = true
		}
		if info.Escaped {
			out = append(out, '\\')
		}
		out = append(out, info.Chr)
	}
	if group {
		out = append(out, '}')
	}
	return string(out)
}

// ArticleReference returns the offset (relative to articlesOffset) of
// the article body this heading points to.
func (h ArticleHeading) ArticleReference() uint32 { return h.reference }

// GroupHeadingsByReference performs a stable bucket-sort by reference,
// matching groupHeadingsByReference's map-of-indices-then-reassemble
// behaviour (first-seen-reference order is preserved, entries sharing a
// reference become contiguous). Exported so callers walking headings
// without collapsing variants (writeDSL's "dumb" mode) can still assemble
// reference-contiguous runs the way foreachReferenceSet requires.
func GroupHeadingsByReference(headings []ArticleHeading) []ArticleHeading {
	buckets := make(map[uint32][]int)
	order := make([]uint32, 0)
	for i, h := range headings {
		if _, seen := buckets[h.reference]; !seen {
			order = append(order, h.reference)
		}
		buckets[h.reference] = append(buckets[h.reference], i)
	}
	res := make([]ArticleHeading, 0, len(headings))
	seen := make(map[uint32]bool, len(order))
	for _, ref := range order {
		if seen[ref] {
			continue
		}
		seen[ref] = true
		for _, idx := range buckets[ref] {
			res = append(res, headings[idx])
		}
	}
	return res
}

type charVec []CharInfo

func (v charVec) equalIgnoreSort(o charVec) bool {
	if len(v) != len(o) {
		return false
	}
	for i := range v {
		if !v[i].equalIgnoreSort(o[i]) {
			return false
		}
	}
	return true
}

func (v charVec) equal(o charVec) bool {
	if len(v) != len(o) {
		return false
	}
	for i := range v {
		if !v[i].equal(o[i]) {
			return false
		}
	}
	return true
}

func allUnsorted(v charVec) bool {
	for _, c := range v {
		if c.Sorted {
			return false
		}
	}
	return true
}

func findChar(v charVec, want CharInfo) int {
	for i, c := range v {
		if !c.Escaped && !c.Sorted && c.Chr == want.Chr {
			return i
		}
	}
	return -1
}

func findSeq(v charVec, want charVec) int {
	if len(want) == 0 || len(v) < len(want) {
		return -1
	}
	for i := 0; i+len(want) <= len(v); i++ {
		ok := true
		for j := range want {
			c := v[i+j]
			w := want[j]
			if c.Escaped != w.Escaped || c.Chr != w.Chr || c.Sorted != w.Sorted {
				ok = false
				break
			}
		}
		if ok {
			return i
		}
	}
	return -1
}

// matchB finds the first balanced '(' ... ')' span (both unsorted,
// unescaped) and splits chars into left/middle/right around it. middle
// excludes the parentheses themselves.
func matchB(chars charVec) (left, middle, right charVec, ok bool) {
	mOpen := findChar(chars, CharInfo{Chr: '('})
	if mOpen < 0 {
		return nil, nil, nil, false
	}
	rClose := findChar(chars[mOpen:], CharInfo{Chr: ')'})
	if rClose < 0 {
		return nil, nil, nil, false
	}
	rClose += mOpen
	left = chars[:mOpen]
	middle = chars[mOpen+1 : rClose]
	right = chars[rClose+1:]
	return left, middle, right, true
}

func matchA(chars charVec) (left, middle, right charVec, ok bool) {
	left, middle, right, ok = matchB(chars)
	if !ok {
		return nil, nil, nil, false
	}
	return left, middle, right, allUnsorted(middle)
}

func matchCD(chars charVec, firstSpaceSorted bool) (left, middle, right charVec, ok bool) {
	want := charVec{{Chr: ' ', Sorted: firstSpaceSorted}, {Chr: '('}}
	m := findSeq(chars, want)
	if m < 0 {
		return nil, nil, nil, false
	}
	rWant := charVec{{Chr: ')'}}
	r := findSeq(chars[m:], rWant)
	if r < 0 {
		return nil, nil, nil, false
	}
	r += m
	if r+1 != len(chars) {
		return nil, nil, nil, false
	}
	left = chars[:m]
	middle = chars[m+2 : r]
	return left, middle, nil, true
}

func matchC(chars charVec) (left, middle, right charVec, ok bool) {
	left, middle, right, ok = matchCD(chars, false)
	if !ok {
		return nil, nil, nil, false
	}
	return left, middle, right, allUnsorted(middle)
}

func matchD(chars charVec) (left, middle, right charVec, ok bool) {
	return matchCD(chars, true)
}

func matchEF(chars charVec, lastSpaceSorted bool) (left, middle, right charVec, ok bool) {
	want := charVec{{Chr: ' ', Sorted: true}, {Chr: '('}}
	m := findSeq(chars, want)
	if m < 0 {
		return nil, nil, nil, false
	}
	rWant := charVec{{Chr: ')'}, {Chr: ' ', Sorted: lastSpaceSorted}}
	r := findSeq(chars[m:], rWant)
	if r < 0 {
		return nil, nil, nil, false
	}
	r += m
	left = chars[:m]
	middle = chars[m+2 : r]
	right = chars[r+2:]
	return left, middle, right, true
}

func matchE(chars charVec) (left, middle, right charVec, ok bool) {
	left, middle, right, ok = matchEF(chars, false)
	if !ok {
		return nil, nil, nil, false
	}
	return left, middle, right, allUnsorted(middle)
}

func matchF(chars charVec) (left, middle, right charVec, ok bool) {
	return matchEF(chars, true)
}

type matcher func(charVec) (left, middle, right charVec, ok bool)

func tryCollapseWith(v1, v2 *ArticleHeading, beforeMiddle, afterMiddle charVec, a, b matcher) (ArticleHeading, bool) {
	// force DslText()-equivalent materialisation order as in the original
	_ = v1.DslText()
	_ = v2.DslText()

	chars1 := charVec(v1.chars)
	chars2 := charVec(v2.chars)

	var aleft, amiddle, aright, bleft, bmiddle, bright charVec
	var match bool
	if al, am, ar, ok := a(chars1); ok {
		aleft, amiddle, aright = al, am, ar
		bleft, bmiddle, bright, match = b(chars2)
	} else if bl, bm, br, ok := b(chars1); ok {
		bleft, bmiddle, bright = bl, bm, br
		aleft, amiddle, aright, match = a(chars2)
	} else {
		return ArticleHeading{}, false
	}

	if !match {
		return ArticleHeading{}, false
	}
	if !aleft.equal(bleft) || !amiddle.equalIgnoreSort(bmiddle) || !aright.equal(bright) {
		return ArticleHeading{}, false
	}

	var collapsed ArticleHeading
	collapsed.reference = v1.reference
	chars := make([]CharInfo, 0, len(bleft)+len(beforeMiddle)+len(bmiddle)+len(afterMiddle)+len(bright))
	chars = append(chars, bleft...)
	chars = append(chars, beforeMiddle...)
	chars = append(chars, bmiddle...)
	chars = append(chars, afterMiddle...)
	chars = append(chars, bright...)
	collapsed.chars = chars
	return collapsed, true
}

func tryCollapseAB(v1, v2 *ArticleHeading) (ArticleHeading, bool) {
	beforeMiddle := charVec{{Chr: '(', Sorted: true}}
	afterMiddle := charVec{{Chr: ')', Sorted: true}}
	return tryCollapseWith(v1, v2, beforeMiddle, afterMiddle, matchA, matchB)
}

func tryCollapseCD(v1, v2 *ArticleHeading) (ArticleHeading, bool) {
	beforeMiddle := charVec{{Chr: ' ', Sorted: true}, {Chr: '(', Sorted: true}}
	afterMiddle := charVec{{Chr: ')', Sorted: true}}
	return tryCollapseWith(v1, v2, beforeMiddle, afterMiddle, matchC, matchD)
}

func tryCollapseEF(v1, v2 *ArticleHeading) (ArticleHeading, bool) {
	beforeMiddle := charVec{{Chr: ' ', Sorted: true}, {Chr: '(', Sorted: true}}
	afterMiddle := charVec{{Chr: ')', Sorted: true}, {Chr: ' ', Sorted: true}}
	return tryCollapseWith(v1, v2, beforeMiddle, afterMiddle, matchE, matchF)
}

// tryCollapsePair scans [first,last) for the first pair that collapses
// under any of the three patterns, replacing headings[first-relative i]
// in place with the collapsed heading and returning the index of the
// now-redundant partner (to be marked for removal), or -1 if none collapse.
func tryCollapsePair(headings []ArticleHeading, first, last int) int {
	for i := first; i < last; i++ {
		for j := i + 1; j < last; j++ {
			if c, ok := tryCollapseAB(&headings[i], &headings[j]); ok {
				headings[i] = c
				return j
			}
			if c, ok := tryCollapseCD(&headings[i], &headings[j]); ok {
				headings[i] = c
				return j
			}
			if c, ok := tryCollapseEF(&headings[i], &headings[j]); ok {
				headings[i] = c
				return j
			}
		}
	}
	return -1
}

// CollapseVariants groups headings sharing an article reference and
// merges adjacent DSL-variant pairs (the "(optional)" parenthesis
// expansion, spec.md §4.6) back into a single heading wherever the three
// collapse patterns apply, grounded on
// original_source/lib/lsd/ArticleHeading.cpp's collapseVariants (the
// fixed toRemove-indexing version, see DESIGN.md's Open Questions #6).
func CollapseVariants(headings []ArticleHeading) []ArticleHeading {
	headings = GroupHeadingsByReference(headings)
	toRemove := make([]bool, len(headings))

	i := 0
	for i < len(headings) {
		ref := headings[i].reference
		j := i
		for j < len(headings) && headings[j].reference == ref {
			j++
		}
		if j-i > 1 {
			for {
				k := tryCollapsePair(headings, i, j)
				if k < 0 {
					break
				}
				toRemove[k] = true
			}
		}
		i = j
	}

	res := make([]ArticleHeading, 0, len(headings))
	for idx, h := range headings {
		if !toRemove[idx] {
			res = append(res, h)
		}
	}
	return res
}

