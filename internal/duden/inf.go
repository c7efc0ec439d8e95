package duden

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dicebound/lsd2dsl/internal/bitio"
	"github.com/dicebound/lsd2dsl/internal/duden/charset"
)

// PrimaryArchive names the HIC/BOF/IDX triple holding a dictionary's
// heading tree and article text.
type PrimaryArchive struct {
	Bof, Idx, Hic string
}

// ResourceArchive names a BOF/IDX pair (plus an optional FSI index for
// named-entry lookup) holding pictures, sounds or tables.
type ResourceArchive struct {
	Bof, Idx, Fsi string
}

// InfFile describes one dictionary listed in an INF manifest: an INF may
// name more than one (each "T" line starts a new one), so ParseInfFile
// returns a slice. Grounded on original_source/lib/duden/InfFile.h/.cpp.
type InfFile struct {
	Version   int
	Name      string
	Primary   PrimaryArchive
	Resources []ResourceArchive
}

// ParseInfFile reads an INF manifest's V/T/F lines, grouping F (file)
// lines under the most recent T (title) line into one InfFile per title,
// then resolves each group's primary HIC/BOF/IDX and any resource
// BOF/IDX/FSI triples.
func ParseInfFile(c bitio.ByteCursor) ([]InfFile, error) {
	version := 0
	var allFiles [][]string
	var currentFiles []string
	var names []string

	for {
		raw, ok := readLine(c, '\n')
		if !ok {
			break
		}
		if raw == "" {
			continue
		}
		line, err := charset.Win1252ToUTF8(raw)
		if err != nil {
			return nil, fmt.Errorf("duden: inf line decode: %w", err)
		}
		switch line[0] {
		case 'V':
			v, err := strconv.ParseInt(strings.TrimSpace(line[2:]), 16, 32)
			if err != nil {
				return nil, fmt.Errorf("duden: inf version: %w", err)
			}
			version = int(v)
		case 'T':
			if len(currentFiles) > 0 {
				allFiles = append(allFiles, currentFiles)
				currentFiles = nil
			}
			name := strings.Trim(line[2:], "\r\"")
			names = append(names, name)
		case 'F':
			idx := strings.IndexByte(line, ';')
			if idx < 0 {
				return nil, fmt.Errorf("duden: INF file syntax error: %q", line)
			}
			currentFiles = append(currentFiles, strings.TrimRight(line[idx+1:], "\r"))
		}
	}
	allFiles = append(allFiles, currentFiles)

	var infs []InfFile
	for i, files := range allFiles {
		inf := InfFile{Version: version, Name: names[i]}

		findExt := func(ext string) (string, []string, bool) {
			for j, f := range files {
				if strings.HasSuffix(strings.ToLower(f), ext) {
					rest := append(append([]string{}, files[:j]...), files[j+1:]...)
					return f, rest, true
				}
			}
			return "", files, false
		}
		find := func(name string) (string, []string, bool) {
			lower := strings.ToLower(name)
			for j, f := range files {
				if strings.ToLower(f) == lower {
					rest := append(append([]string{}, files[:j]...), files[j+1:]...)
					return f, rest, true
				}
			}
			return "", files, false
		}

		hic, _, ok := findExt(".hic")
		if !ok {
			return nil, fmt.Errorf("duden: dictionary %q doesn't contain a HIC file", inf.Name)
		}
		inf.Primary.Hic = hic

		baseName := func(name string) string {
			lower := strings.ToLower(name)
			return lower[:len(lower)-4]
		}
		primaryBaseName := baseName(hic)

		primaryBof, files2, ok := find(primaryBaseName + ".bof")
		if !ok {
			return nil, fmt.Errorf("duden: dictionary %q doesn't contain an IDX or BOF file", inf.Name)
		}
		primaryIdx, _, ok := find(primaryBaseName + ".idx")
		if !ok {
			return nil, fmt.Errorf("duden: dictionary %q doesn't contain an IDX or BOF file", inf.Name)
		}
		inf.Primary.Bof = primaryBof
		inf.Primary.Idx = primaryIdx
		files = files2

		for {
			bof, rest, ok := findExt(".bof")
			if !ok {
				break
			}
			files = rest
			var resource ResourceArchive
			resource.Bof = bof
			base := baseName(bof)
			fsi, _, fsiOK := find(base + ".fsi")
			idx, rest2, idxOK := find(base + ".idx")
			if !idxOK {
				return nil, fmt.Errorf("duden: a resource archive doesn't have a corresponding IDX or FSI file")
			}
			if fsiOK {
				resource.Fsi = fsi
			}
			resource.Idx = idx
			files = rest2
			inf.Resources = append(inf.Resources, resource)
		}

		infs = append(infs, inf)
	}

	return infs, nil
}

// FileSystem resolves case-insensitive file names against a real
// directory, for matching INF-declared names (which may not match the
// on-disk case) to the files actually present. Case-fixing matches
// requested names against a lower-cased doublestar glob rather than a
// bespoke fold-and-compare walker, per SPEC_FULL's domain-stack wiring.
type FileSystem struct {
	root  string
	files []string
}

// NewFileSystem builds a FileSystem rooted at dir, eagerly listing its
// entries once.
func NewFileSystem(dir string) (*FileSystem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("duden: list %q: %w", dir, err)
	}
	fsys := &FileSystem{root: dir}
	for _, e := range entries {
		if !e.IsDir() {
			fsys.files = append(fsys.files, e.Name())
		}
	}
	return fsys, nil
}

// FixCase returns the on-disk spelling of name, matched case-insensitively.
func (f *FileSystem) FixCase(name string) (string, error) {
	if name == "" {
		return "", nil
	}
	pattern := strings.ToLower(name)
	for _, candidate := range f.files {
		ok, err := doublestar.Match(pattern, strings.ToLower(candidate))
		if err != nil {
			return "", fmt.Errorf("duden: case-fix glob %q: %w", pattern, err)
		}
		if ok {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("duden: no file matching %q in %q", name, f.root)
}

// Open opens name (resolved relative to the filesystem's root) for
// reading, mapping it when possible.
func (f *FileSystem) Open(name string) (*bitio.FileStream, error) {
	return bitio.OpenFileStream(filepath.Join(f.root, name))
}

// FixFileNameCase rewrites every path field of inf in place to its
// on-disk spelling, matching original_source's fixFileNameCase.
func FixFileNameCase(inf *InfFile, fsys *FileSystem) error {
	fix := func(name *string) error {
		if *name == "" {
			return nil
		}
		fixed, err := fsys.FixCase(*name)
		if err != nil {
			return err
		}
		*name = fixed
		return nil
	}
	if err := fix(&inf.Primary.Bof); err != nil {
		return err
	}
	if err := fix(&inf.Primary.Hic); err != nil {
		return err
	}
	if err := fix(&inf.Primary.Idx); err != nil {
		return err
	}
	for i := range inf.Resources {
		if err := fix(&inf.Resources[i].Bof); err != nil {
			return err
		}
		if err := fix(&inf.Resources[i].Fsi); err != nil {
			return err
		}
		if err := fix(&inf.Resources[i].Idx); err != nil {
			return err
		}
	}
	return nil
}
