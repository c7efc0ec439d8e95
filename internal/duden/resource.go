package duden

import (
	"fmt"

	"github.com/dicebound/lsd2dsl/internal/duden/charset"
	"github.com/dicebound/lsd2dsl/internal/duden/text"
)

// resourceFile is one opened BOF/IDX resource archive, optionally indexed
// by name via an FSI table (pictures/tables/sounds that reference
// inlining needs to seek into by name, rather than by raw offset).
type resourceFile struct {
	archive *Archive
	byName  map[string]FsiEntry
}

// ResourceSet opens every resource archive an InfFile names, keeping them
// alive for the lifetime of one dictionary conversion. Grounded on
// Dictionary.h's resourceArchives()/resourceIndex, which the original's
// writeDSL walks once per dictionary to unpack media and resolve
// table/picture references by name.
type ResourceSet struct {
	files map[string]*resourceFile // keyed by the resource's BOF file name
}

// OpenResources opens every resource archive named in inf.Resources.
func OpenResources(fsys *FileSystem, inf InfFile, cache *BlockCache) (*ResourceSet, error) {
	rs := &ResourceSet{files: make(map[string]*resourceFile)}
	for _, res := range inf.Resources {
		idxStream, err := fsys.Open(res.Idx)
		if err != nil {
			return nil, err
		}
		bofStream, err := fsys.Open(res.Bof)
		if err != nil {
			idxStream.Close()
			return nil, err
		}
		archive, err := OpenArchive(res.Bof, bofStream, idxStream, cache)
		idxStream.Close()
		if err != nil {
			return nil, fmt.Errorf("duden: open resource archive %q: %w", res.Bof, err)
		}

		rf := &resourceFile{archive: archive}
		if res.Fsi != "" {
			fsiStream, err := fsys.Open(res.Fsi)
			if err != nil {
				return nil, err
			}
			entries, err := ParseFsiFile(newCursor(fsiStream))
			fsiStream.Close()
			if err != nil {
				return nil, fmt.Errorf("duden: parse fsi %q: %w", res.Fsi, err)
			}
			rf.byName = make(map[string]FsiEntry, len(entries))
			for _, e := range entries {
				rf.byName[e.Name] = e
			}
		}
		rs.files[res.Bof] = rf
	}
	return rs, nil
}

// UnpackAll feeds every FSI-named entry (or, for an FSI-less archive, the
// whole decoded stream as one file under its BOF name) to packer, matching
// writeDSL's "unpack resource archives into the .dsl.files.zip overlay"
// step.
func (rs *ResourceSet) UnpackAll(packer ResourcePacker) error {
	for bofName, rf := range rs.files {
		if rf.byName == nil {
			data, err := rf.archive.Read(0, int(rf.archive.Size()))
			if err != nil {
				return fmt.Errorf("duden: unpack %q: %w", bofName, err)
			}
			if err := packer.AddFile(bofName, data); err != nil {
				return err
			}
			continue
		}
		for name, entry := range rf.byName {
			data, err := rf.archive.Read(int64(entry.Offset), int(entry.Size))
			if err != nil {
				return fmt.Errorf("duden: unpack %q from %q: %w", name, bofName, err)
			}
			if err := packer.AddFile(name, data); err != nil {
				return err
			}
		}
	}
	return nil
}

// Reader returns a text.ResourceReader backed by fileName's FSI-indexed
// byte range, decoded to UTF-8 via the Duden charset state machine. It
// satisfies InlineReferences' contract for seeking into a table/picture
// reference's resource file.
func (rs *ResourceSet) Reader() text.ResourceReader {
	return func(fileName string, localOffset int64) (string, error) {
		rf, ok := rs.files[fileName]
		if !ok {
			return "", fmt.Errorf("duden: unknown resource file %q", fileName)
		}
		entry, ok := rf.byName[fileName]
		size := int(rf.archive.Size() - localOffset)
		start := localOffset
		if ok {
			size = int(entry.Size)
			start = int64(entry.Offset) + localOffset
		}
		raw, err := rf.archive.Read(start, size)
		if err != nil {
			return "", err
		}
		return charset.DudenToUTF8(string(raw))
	}
}
