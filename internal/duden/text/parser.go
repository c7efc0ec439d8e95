package text

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// tableInfo tracks the cell-counting state of one open \tab{...} run,
// mirroring Parser.cpp's TableInfo.
type tableInfo struct {
	table        *Run
	cellsParsed  int
	rows, cols   int
	cellActive   bool
}

// parser is a recursive-descent reader over Duden's inline tag syntax.
// Grounded on original_source/lib/duden/text/Parser.cpp's Parser class.
type parser struct {
	src     []byte
	pos     int
	root    *Run
	current *Run
	plain   strings.Builder
	tables  []*tableInfo
}

func newParser(s string) *parser {
	root := NewRun(KindRoot)
	return &parser{src: []byte(s), root: root, current: root}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) lit(s string) bool {
	if p.pos+len(s) > len(p.src) {
		return false
	}
	if string(p.src[p.pos:p.pos+len(s)]) != s {
		return false
	}
	p.pos += len(s)
	return true
}

func (p *parser) expectLit(s string) error {
	if !p.lit(s) {
		return fmt.Errorf("duden/text: expected %q near %q", s, p.context())
	}
	return nil
}

func (p *parser) context() string {
	end := p.pos + 16
	if end > len(p.src) {
		end = len(p.src)
	}
	return string(p.src[p.pos:end])
}

func (p *parser) digit() (int, bool) {
	if p.eof() {
		return 0, false
	}
	c := p.peek()
	if c < '0' || c > '9' {
		return 0, false
	}
	p.pos++
	return int(c - '0'), true
}

func (p *parser) dec() (int64, bool) {
	d, ok := p.digit()
	if !ok {
		return 0, false
	}
	v := int64(d)
	for {
		d, ok := p.digit()
		if !ok {
			break
		}
		v = v*10 + int64(d)
	}
	return v, true
}

// chr consumes and returns one plain character, unless it is a control
// introducer ('@','\\') or (depending on context) a terminator (';','}').
func (p *parser) chr(acceptSemicolon, acceptClosingBrace bool) (byte, bool) {
	if p.eof() {
		return 0, false
	}
	c := p.peek()
	if c == 0 || c == '@' || c == '\\' {
		return 0, false
	}
	if !acceptSemicolon && c == ';' {
		return 0, false
	}
	if !acceptClosingBrace && c == '}' {
		return 0, false
	}
	p.pos++
	return c, true
}

func (p *parser) push(r *Run) {
	p.current.AddChild(r)
	p.current = r
}

func (p *parser) pop() {
	if p.current.Parent != nil {
		p.current = p.current.Parent
	}
}

func (p *parser) appendPlain(s string) { p.plain.WriteString(s) }

func (p *parser) finishPlain() {
	if p.plain.Len() > 0 {
		p.current.AddChild(&Run{Kind: KindPlain, Text: p.plain.String()})
		p.plain.Reset()
	}
}

func (p *parser) table() (*tableInfo, error) {
	if len(p.tables) == 0 {
		return nil, fmt.Errorf("duden/text: table tag outside table")
	}
	return p.tables[len(p.tables)-1], nil
}

var rgbRe = regexp.MustCompile(`^([0-9a-fA-F]{2})\s?([0-9a-fA-F]{2})\s?([0-9a-fA-F]{2})$`)

func parseRGB(s string) (uint32, bool) {
	m := rgbRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	r, _ := strconv.ParseUint(m[1], 16, 32)
	g, _ := strconv.ParseUint(m[2], 16, 32)
	b, _ := strconv.ParseUint(m[3], 16, 32)
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b), true
}

// sticky reads the body of an "@" escape that wasn't one of the single
// literal-char shorthands: "C%ID=" id runs, "C..." line comments consumed
// to EOL, and bare digit sticky-formatting markers.
func (p *parser) sticky() error {
	if p.lit("C%ID=") {
		n, ok := p.dec()
		if !ok {
			n = -1
		}
		p.lit("%")
		p.current.AddChild(&Run{Kind: KindID, Num: n})
		return nil
	}
	if p.lit("C") {
		for !p.eof() && p.peek() != '\n' {
			p.pos++
		}
		p.lit("\n")
		return nil
	}
	if d, ok := p.digit(); ok {
		p.current.AddChild(&Run{Kind: KindSticky, Num: int64(d)})
	}
	return nil
}

func (p *parser) control() (bool, error) {
	if p.lit("@") {
		switch {
		case p.lit("@"):
			p.appendPlain("@")
		case p.lit("\\"):
			p.appendPlain("\\")
		case p.lit("~"):
			p.appendPlain("~")
		case p.lit(";"):
			p.appendPlain(";")
		case p.lit("S"):
			p.appendPlain("↑")
		default:
			p.finishPlain()
			if err := p.sticky(); err != nil {
				return false, err
			}
		}
		return true, nil
	}
	if p.lit("\\") {
		if p.lit("'") {
			p.appendPlain("'")
			return true, nil
		}
		if err := p.escape(); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (p *parser) text(acceptSemicolon, acceptClosingBrace bool) error {
	for {
		if p.eof() {
			p.finishPlain()
			return nil
		}
		did, err := p.control()
		if err != nil {
			return err
		}
		if did {
			continue
		}
		if p.lit("\r\n") || p.lit("\n") {
			p.finishPlain()
			p.current.AddChild(NewRun(KindSoftLineBreak))
			continue
		}
		if p.lit("~") {
			p.appendPlain(" ")
			continue
		}
		if c, ok := p.chr(acceptSemicolon, acceptClosingBrace); ok {
			p.appendPlain(string(rune(c)))
		} else {
			return nil
		}
	}
}

func (p *parser) wrapFormatting(kind Kind, closer string) error {
	p.finishPlain()
	p.push(NewRun(kind))
	if err := p.text(true, false); err != nil {
		return err
	}
	p.finishPlain()
	p.pop()
	p.lit(closer)
	return nil
}

func (p *parser) sref() error {
	placeholder := NewRun(KindReferencePlaceholder)
	p.push(placeholder)
	p.push(NewRun(KindRoot))
	if err := p.text(false, false); err != nil {
		return err
	}
	p.finishPlain()
	p.pop()
	if !p.lit(";") {
		p.pop()
		return nil
	}
	id, err := p.sid()
	if err != nil {
		return err
	}
	placeholder.ID = id
	for p.lit(";") {
		if err := p.text(false, false); err != nil {
			return err
		}
		p.finishPlain()
	}
	if p.lit(":") {
		from, ok := p.dec()
		if !ok {
			return fmt.Errorf("duden/text: expected reference range start near %q", p.context())
		}
		to := int64(0)
		if p.lit("-") {
			to, ok = p.dec()
			if !ok {
				return fmt.Errorf("duden/text: expected reference range end near %q", p.context())
			}
		}
		placeholder.From, placeholder.To = from, to
	}
	if !p.lit("}") {
		p.appendPlain(";")
		if err := p.text(false, false); err != nil {
			return err
		}
		p.finishPlain()
		for p.lit(";") {
			if err := p.text(false, false); err != nil {
				return err
			}
			p.finishPlain()
		}
		if err := p.expectLit("}"); err != nil {
			return err
		}
	}
	p.pop()
	return nil
}

func (p *parser) sid() (ReferenceID, error) {
	var code string
	if p.lit(".") {
		for !p.eof() && p.peek() != ':' && p.peek() != ';' && p.peek() != '}' {
			code += string(p.peek())
			p.pos++
		}
	}
	num, num2 := int64(-1), int64(-1)
	if p.lit(":") {
		num, _ = p.dec()
		if p.lit("-") {
			num2, _ = p.dec()
		}
	}
	return ReferenceID{Code: code, Num: num, Num2: num2}, nil
}

func (p *parser) wref() error {
	p.push(NewRun(KindInlineSound))
	for {
		p.push(NewRun(KindRoot))
		if err := p.text(false, false); err != nil {
			return err
		}
		p.finishPlain()
		p.pop()
		if !p.lit(";") {
			break
		}
	}
	if err := p.expectLit("}"); err != nil {
		return err
	}
	p.pop()
	return nil
}

func (p *parser) parseRange() (int64, int64, error) {
	from, ok := p.dec()
	if !ok {
		return 0, 0, fmt.Errorf("duden/text: expected number near %q", p.context())
	}
	to := from
	if p.lit("-") {
		to, ok = p.dec()
		if !ok {
			return 0, 0, fmt.Errorf("duden/text: expected number near %q", p.context())
		}
	}
	return from, to, nil
}

// tname/scode read a tag name up to its terminator, matching Parser.cpp's
// tname/scode helpers.
func (p *parser) readUntil(terms string) string {
	var out strings.Builder
	for !p.eof() && !strings.ContainsRune(terms, rune(p.peek())) {
		out.WriteByte(p.peek())
		p.pos++
	}
	return out.String()
}

func (p *parser) sftag() (string, bool) {
	if !p.lit("F{_") && !p.lit("F{~") {
		return "", false
	}
	name := p.readUntil("_~}")
	if !p.lit("}") {
		return "", false
	}
	return name, true
}

func (p *parser) eftag() (string, bool) {
	if !p.lit("F{") {
		return "", false
	}
	name := p.readUntil("_~}")
	if !p.lit("_}") && !p.lit("~}") {
		return "", false
	}
	return name, true
}

// escape handles the body of a "\\" control, dispatching on the tag
// keyword that follows. Grounded on Parser.cpp's escape().
func (p *parser) escape() error {
	if p.lit("\\") {
		p.finishPlain()
		p.current.AddChild(NewRun(KindLineBreak))
		return nil
	}
	if p.lit("{") {
		p.appendPlain("\\{")
		if err := p.text(true, true); err != nil {
			return err
		}
		p.lit("}")
		p.appendPlain("}")
		return nil
	}
	switch {
	case p.lit("u{"):
		return p.wrapFormatting(KindUnderline, "}")
	case p.lit("b{"):
		return p.wrapFormatting(KindBold, "}")
	case p.lit("i{"), p.lit("s{"):
		return p.wrapFormatting(KindItalic, "}")
	case p.lit("sup{"):
		return p.wrapFormatting(KindSuperscript, "}")
	case p.lit("sub{"):
		return p.wrapFormatting(KindSubscript, "}")
	}
	if p.lit("eb{") {
		p.finishPlain()
		n, ok := p.dec()
		if !ok {
			return fmt.Errorf("duden/text: expected tab stop near %q", p.context())
		}
		p.lit("}")
		p.current.AddChild(&Run{Kind: KindTab, Num: n})
		return nil
	}
	if p.lit("ee") {
		p.finishPlain()
		p.current.AddChild(&Run{Kind: KindTab, Num: -1})
		return nil
	}
	if p.lit("tab{") {
		p.finishPlain()
		table := NewRun(KindTable)
		p.tables = append(p.tables, &tableInfo{table: table})
		p.push(table)
		return p.text(true, true)
	}
	if ok, err := p.tableTag(); ok || err != nil {
		return err
	}
	if name, ok := p.sftag(); ok {
		p.finishPlain()
		switch {
		case name == "ADD" || name == "UE":
			p.push(NewRun(KindAddendum))
		default:
			if rgb, ok := parseRGB(name); ok {
				p.push(&Run{Kind: KindColor, RGB: rgb, Name: name})
			} else if name == "WebLink" {
				p.push(NewRun(KindWebLinkFormatting))
			} else if name == "Left" || name == "Right" || name == "Center" {
				p.push(NewRun(KindAlignment))
			} else {
				// unknown formatting tag name: tolerated, see DESIGN.md Open Questions
				p.push(NewRun(KindAlignment))
			}
		}
		return p.text(true, false)
	}
	if _, ok := p.eftag(); ok {
		p.finishPlain()
		// Well-formed documents nest formatting tags properly; the closing
		// tag's name is redundant with whatever sftag pushed, so just close
		// the innermost open formatting container.
		p.pop()
		return nil
	}
	if p.lit("S{") {
		p.finishPlain()
		return p.sref()
	}
	if p.lit("w{") {
		p.finishPlain()
		return p.wref()
	}
	// unknown escape: silently ignored, matching the original's tolerant stance
	return nil
}

// tableTag handles the \tcn, \tln, \tau, \tcd, \tld, \ter, \ted, \tfl,
// \tcc, \tcl, \tcr, \tcm, \tfu, \tlt family. Full column/row geometry
// (Table::merged/hspan/vspan) is out of scope here (see DESIGN.md): these
// tags are recorded as KindTableTag markers and \tcc still drives real
// cell boundary tracking, which is what the DSL printer needs.
func (p *parser) tableTag() (bool, error) {
	switch {
	case p.lit("tcn"):
		t, err := p.table()
		if err != nil {
			return true, err
		}
		n, ok := p.dec()
		if !ok {
			return true, fmt.Errorf("duden/text: expected column count near %q", p.context())
		}
		t.cols = int(n)
		p.current.AddChild(NewRun(KindTableTag))
		return true, nil
	case p.lit("tln"):
		t, err := p.table()
		if err != nil {
			return true, err
		}
		n, ok := p.dec()
		if !ok {
			return true, fmt.Errorf("duden/text: expected row count near %q", p.context())
		}
		t.rows = int(n)
		p.current.AddChild(NewRun(KindTableTag))
		return true, nil
	case p.lit("tau"), p.lit("tcd"), p.lit("tld"), p.lit("ter"), p.lit("ted"):
		if _, err := p.table(); err != nil {
			return true, err
		}
		p.current.AddChild(NewRun(KindTableTag))
		return true, nil
	case p.lit("tfl"), p.lit("tcl"), p.lit("tcr"), p.lit("tcm"), p.lit("tfu"), p.lit("tlt"):
		if _, err := p.table(); err != nil {
			return true, err
		}
		if _, _, err := p.parseRange(); err != nil {
			return true, err
		}
		p.current.AddChild(NewRun(KindTableTag))
		return true, nil
	case p.lit("tcc"):
		p.finishPlain()
		t, err := p.table()
		if err != nil {
			return true, err
		}
		if t.cellsParsed >= t.rows*t.cols {
			if p.lit("}") {
				if t.cellActive {
					p.pop()
				}
				p.pop()
				p.tables = p.tables[:len(p.tables)-1]
			}
			return true, nil
		}
		if t.cellActive {
			p.pop()
		}
		t.cellActive = true
		cell := NewRun(KindTableCell)
		p.push(cell)
		t.cellsParsed++
		return true, nil
	}
	return false, nil
}

// ParseDudenText parses a raw Duden-tagged string into a run tree,
// applying the post-parse rewrites (sticky-number formatting, bold+italic
// splitting) just like original_source's parseDudenText.
func ParseDudenText(s string) (*Run, error) {
	p := newParser(s)
	if err := p.text(true, true); err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, fmt.Errorf("duden/text: incomplete parse, remainder %q", p.context())
	}
	rewriteStickyFormatting(p.root)
	rewriteBoldItalic(p.root)
	return p.root, nil
}

// rewriteStickyFormatting groups runs between paired KindSticky markers
// (a marker and the next one) into Bold/Italic/BoldItalic containers, per
// the opening marker's number (1/4/7=bold, 2=italic, 3=bold+italic); both
// markers are removed. For any other number the two markers are dropped and
// the runs between them are kept unformatted.
// Grounded on Parser.cpp's rewriteStickyFormatting/stickyNumToRun.
func rewriteStickyFormatting(run *Run) {
	for _, c := range run.Children {
		rewriteStickyFormatting(c)
	}

	for {
		firstIdx := -1
		for i, c := range run.Children {
			if c.Kind == KindSticky {
				firstIdx = i
				break
			}
		}
		if firstIdx == -1 {
			return
		}
		nextIdx := len(run.Children)
		for i := firstIdx + 1; i < len(run.Children); i++ {
			if run.Children[i].Kind == KindSticky {
				nextIdx = i
				break
			}
		}
		num := run.Children[firstIdx].Num
		var container *Run
		switch num {
		case 1, 4, 7:
			container = NewRun(KindBold)
		case 2:
			container = NewRun(KindItalic)
		case 3:
			container = NewRun(KindBold)
			container.AddChild(NewRun(KindItalic))
		}
		end := nextIdx
		if nextIdx < len(run.Children) {
			end = nextIdx + 1 // the closing marker is consumed too
		}
		if container == nil {
			rest := append([]*Run{}, run.Children[:firstIdx]...)
			rest = append(rest, run.Children[firstIdx+1:nextIdx]...)
			rest = append(rest, run.Children[end:]...)
			run.Children = rest
			continue
		}
		target := container
		if container.Kind == KindBold && len(container.Children) == 1 && container.Children[0].Kind == KindItalic {
			target = container.Children[0]
		}
		for i := firstIdx + 1; i < nextIdx; i++ {
			target.AddChild(run.Children[i])
		}
		rest := append([]*Run{}, run.Children[:firstIdx]...)
		rest = append(rest, container)
		rest = append(rest, run.Children[end:]...)
		run.Children = rest
		container.Parent = run
	}
}

// rewriteBoldItalic is a no-op now that sticky-num-3 is produced directly
// as Bold>Italic; kept as the named rewrite pass site original_source
// performs separately (BoldItalicRewriter), for readers tracing the
// pipeline against the C++ source.
func rewriteBoldItalic(run *Run) {
	for _, c := range run.Children {
		rewriteBoldItalic(c)
	}
}
