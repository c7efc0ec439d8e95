// Package lsdconv drives one LSD dictionary end to end: open the file,
// read its headings (optionally collapsing variants), unpack the overlay
// archive, and write everything out through internal/dsl.Writer.
//
// Grounded on original_source's root-level DslWriter.cpp's writeDSL free
// function; logging follows the pattern internal/sit's format readers use
// for a package-level *slog.Logger threaded through the call, per
// SPEC_FULL.md's AMBIENT STACK.
package lsdconv

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dicebound/lsd2dsl/internal/bitio"
	"github.com/dicebound/lsd2dsl/internal/dsl"
	"github.com/dicebound/lsd2dsl/internal/lsd"
)

// Options controls one conversion run.
type Options struct {
	// Dumb disables variant-heading collapsing, matching writeDSL's "dumb"
	// flag.
	Dumb bool
	// SkipOverlay disables unpacking the overlay directory into a
	// ResourcePacker even when one is present.
	SkipOverlay bool
	// FilterLanguages gates SourceFilter/TargetFilter; left false (the zero
	// value), no filtering happens, so Options{} always converts. Set true
	// to skip dictionaries whose header source/target language code
	// doesn't match, mirroring decoder.cpp's parseLSD
	// --source-filter/--target-filter handling.
	FilterLanguages bool
	SourceFilter    int
	TargetFilter    int
}

// ResourcePacker receives overlay entries (pictures/sounds keyed by name)
// during conversion; see internal/duden.ResourcePacker for the Duden-side
// analogue of the same injection point.
type ResourcePacker interface {
	AddFile(name string, data []byte) error
}

// Convert opens the LSD file at path, writes name.dsl (plus .ann/.bmp
// siblings) into outputDir, and unpacks its overlay (if any) through
// packer. log receives one slog.Info at start/end and one slog.Warn per
// recoverable problem, never a global logger.
func Convert(path, outputDir string, packer ResourcePacker, opts Options, log *slog.Logger) error {
	log.Info("lsd: starting conversion", "path", path)

	fs, err := bitio.OpenFileStream(path)
	if err != nil {
		return fmt.Errorf("lsdconv: open %q: %w", path, err)
	}
	defer fs.Close()

	br := bitio.NewBitReader(bitio.NewStreamCursor(fs))
	dict, err := lsd.Open(br)
	if err != nil {
		return fmt.Errorf("lsdconv: %q: %w", path, err)
	}
	if !dict.Supported() {
		return fmt.Errorf("lsdconv: %q: %w", path, lsd.ErrUnsupportedVersion)
	}

	header := dict.Header()
	if opts.FilterLanguages &&
		((opts.SourceFilter != -1 && opts.SourceFilter != int(header.SourceLanguage)) ||
			(opts.TargetFilter != -1 && opts.TargetFilter != int(header.TargetLanguage))) {
		log.Info("lsd: ignoring (language filter)", "path", path)
		return nil
	}

	headings, err := dict.ReadHeadings()
	if err != nil {
		return fmt.Errorf("lsdconv: %q: read headings: %w", path, err)
	}
	if uint32(len(headings)) != dict.Header().EntriesCount {
		return fmt.Errorf("lsdconv: %q: decoded %d headings, header declares %d", path, len(headings), dict.Header().EntriesCount)
	}

	if opts.Dumb {
		headings = lsd.GroupHeadingsByReference(headings)
	} else {
		headings = lsd.CollapseVariants(headings)
	}

	w, err := dsl.New(outputDir, dict.Name())
	if err != nil {
		return fmt.Errorf("lsdconv: %q: %w", path, err)
	}
	defer w.Close()

	if packer != nil && !opts.SkipOverlay {
		overlayHeadings, err := dict.ReadOverlayHeadings()
		if err != nil && !errors.Is(err, lsd.ErrUnsupportedVersion) {
			return fmt.Errorf("lsdconv: %q: overlay: %w", path, err)
		}
		for _, oh := range overlayHeadings {
			data, err := dict.ReadOverlayEntry(oh)
			if err != nil {
				log.Warn("lsd: skipping overlay entry", "path", path, "name", oh.Name, "err", err)
				continue
			}
			if err := packer.AddFile(oh.Name, data); err != nil {
				return fmt.Errorf("lsdconv: %q: pack overlay entry %q: %w", path, oh.Name, err)
			}
		}
	}

	if anno, err := dict.Annotation(); err == nil && anno != "" {
		if err := w.SetAnnotation(anno); err != nil {
			return fmt.Errorf("lsdconv: %q: annotation: %w", path, err)
		}
	}
	if icon := dict.Icon(); len(icon) > 0 {
		if err := w.SetIcon(icon); err != nil {
			return fmt.Errorf("lsdconv: %q: icon: %w", path, err)
		}
	}

	if err := w.SetName(dict.Name()); err != nil {
		return err
	}
	if err := w.SetLanguage(int(header.SourceLanguage), int(header.TargetLanguage), lsd.LangFromCode); err != nil {
		return err
	}

	for i := 0; i < len(headings); {
		j := i + 1
		for j < len(headings) && headings[j].ArticleReference() == headings[i].ArticleReference() {
			j++
		}
		for _, h := range headings[i:j] {
			if err := w.WriteHeading(h.DslText()); err != nil {
				return err
			}
		}
		article, err := dict.ReadArticle(headings[i].ArticleReference())
		if err != nil {
			log.Warn("lsd: skipping unreadable article", "path", path, "reference", headings[i].ArticleReference(), "err", err)
			i = j
			continue
		}
		if err := w.WriteArticle(article); err != nil {
			return err
		}
		i = j
	}

	log.Info("lsd: finished conversion", "path", path, "headings", len(headings))
	return nil
}
