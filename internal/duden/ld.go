package duden

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dicebound/lsd2dsl/internal/bitio"
	"github.com/dicebound/lsd2dsl/internal/duden/charset"
)

// ReferenceInfo names a reference-collaborator type line declared in an LD
// file ("G..." lines): its type, display name and short code.
type ReferenceInfo struct {
	Type string
	Name string
	Code string
}

// ReferenceRange maps a contiguous span of absolute article offsets onto a
// resource file name ("D..." lines): references whose numeric target
// falls in [First,Last) live in FileName.
type ReferenceRange struct {
	FileName string
	First    uint32
	Last     uint32
}

// LdFile is a parsed .ld language-description file. Grounded on
// original_source/lib/duden/LdFile.h/.cpp.
type LdFile struct {
	SourceLanguage int
	TargetLanguage int
	References     []ReferenceInfo
	Ranges         []ReferenceRange
}

var ldGRe = regexp.MustCompile(`^.(.*?)\|(.*?)\|(.*?)$`)
var ldDRe = regexp.MustCompile(`^D(.+?) (\d+) (\d+).*$`)

// ParseLdFile reads a full LD file. A built-in "Web"/"W" reference is
// always present, matching the original's hard-coded first entry.
func ParseLdFile(c bitio.ByteCursor) (LdFile, error) {
	ld := LdFile{
		References: []ReferenceInfo{{Type: "WEB", Name: "Web", Code: "W"}},
	}
	for {
		raw, ok := readLine(c, '\n')
		if !ok {
			break
		}
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		decoded, err := charset.Win1252ToUTF8(line)
		if err != nil {
			return LdFile{}, fmt.Errorf("duden: ld line decode: %w", err)
		}
		line = decoded
		switch line[0] {
		case 'G', 'g':
			m := ldGRe.FindStringSubmatch(line)
			if m == nil {
				return LdFile{}, fmt.Errorf("duden: LD parsing error: %q", line)
			}
			ld.References = append(ld.References, ReferenceInfo{Type: m[1], Name: m[2], Code: m[3]})
		case 'D':
			m := ldDRe.FindStringSubmatch(line)
			if m == nil {
				return LdFile{}, fmt.Errorf("duden: LD parsing error: %q", line)
			}
			first, err := strconv.ParseUint(m[2], 10, 32)
			if err != nil {
				return LdFile{}, fmt.Errorf("duden: ld range first: %w", err)
			}
			last, err := strconv.ParseUint(m[3], 10, 32)
			if err != nil {
				return LdFile{}, fmt.Errorf("duden: ld range last: %w", err)
			}
			ld.Ranges = append(ld.Ranges, ReferenceRange{FileName: m[1], First: uint32(first), Last: uint32(last)})
		}
	}
	return ld, nil
}
