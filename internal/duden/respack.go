package duden

// ResourcePacker receives each resource-archive entry unpacked while
// writing a dictionary's DSL: sound, picture and table files that
// originally shipped inside Duden's own bespoke archive format. A real
// implementation bundles them into a ".dsl.files.zip" sidecar the way
// ZipWriter.cpp does, but ZIP container writing is a Non-goal (spec.md
// §1), so the conversion pipeline accepts this interface instead of
// depending on archive/zip directly.
type ResourcePacker interface {
	AddFile(name string, data []byte) error
}

// NoopResourcePacker discards every entry. It exists so the conversion
// pipeline always has a concrete ResourcePacker to call even when the
// caller has no interest in the dictionary's media files, and so the
// injection point itself is exercised without pulling in a ZIP writer.
type NoopResourcePacker struct{}

// AddFile implements ResourcePacker by discarding data.
func (NoopResourcePacker) AddFile(name string, data []byte) error { return nil }
