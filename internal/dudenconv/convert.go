// Package dudenconv drives one Duden dictionary end to end: parse its INF
// manifest, open its HIC/archive/resource files, group headings by
// article offset, and write the parsed-and-reference-resolved articles
// out through internal/dsl.Writer.
//
// Grounded on original_source/lib/duden/Dictionary.cpp and Writer.cpp's
// writeDSL; logging follows SPEC_FULL.md's AMBIENT STACK convention of a
// *slog.Logger threaded through the call, never a global.
package dudenconv

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/dicebound/lsd2dsl/internal/dsl"
	"github.com/dicebound/lsd2dsl/internal/duden"
	"github.com/dicebound/lsd2dsl/internal/duden/text"
)

// Options controls one conversion run.
type Options struct {
	// CacheBlocks sizes the shared decoded-block cache (internal/duden.BlockCache).
	CacheBlocks int
}

// Convert opens the INF manifest at infPath (inside dir), writes one
// .dsl file per dictionary it names into outputDir (no .ann or .bmp
// sibling is written), and feeds
// every unpacked resource file (pictures/sounds/tables) to packer.
func Convert(dir, infPath, outputDir string, packer duden.ResourcePacker, opts Options, log *slog.Logger) error {
	log.Info("duden: starting conversion", "path", infPath)

	if opts.CacheBlocks <= 0 {
		opts.CacheBlocks = 256
	}
	cache := duden.NewBlockCache(opts.CacheBlocks)

	fsys, err := duden.NewFileSystem(dir)
	if err != nil {
		return fmt.Errorf("dudenconv: %w", err)
	}

	for i := 0; ; i++ {
		dict, err := duden.OpenDictionary(fsys, infPath, i, cache)
		if err != nil {
			if i == 0 {
				return fmt.Errorf("dudenconv: %q: %w", infPath, err)
			}
			break
		}
		if err := convertOne(fsys, dict, outputDir, packer, cache, log); err != nil {
			log.Error("duden: skipping dictionary", "path", infPath, "index", i, "err", err)
		}
	}

	log.Info("duden: finished conversion", "path", infPath)
	return nil
}

func convertOne(fsys *duden.FileSystem, dict *duden.Dictionary, outputDir string, packer duden.ResourcePacker, cache *duden.BlockCache, log *slog.Logger) error {
	groups, err := duden.GroupHicEntries(dict.Leaves)
	if err != nil {
		return fmt.Errorf("group headings: %w", err)
	}

	resources, err := duden.OpenResources(fsys, dict.Inf, cache)
	if err != nil {
		return fmt.Errorf("open resources: %w", err)
	}
	if packer != nil {
		if err := resources.UnpackAll(packer); err != nil {
			return fmt.Errorf("unpack resources: %w", err)
		}
	}

	w, err := dsl.New(outputDir, dict.Inf.Name)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.SetName(dict.Inf.Name); err != nil {
		return err
	}
	// Unlike the LSD side, original_source's Duden Writer.cpp never calls
	// setLanguage: LdFile carries sourceLanguage/targetLanguage fields but
	// parseLdFile never populates them, so the Duden DSL output omits the
	// #INDEX_LANGUAGE/#CONTENTS_LANGUAGE header lines entirely.

	offsets := make([]int32, 0, len(groups))
	for off := range groups {
		offsets = append(offsets, off)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })

	resolveHeading := func(offset int64) string {
		if g, ok := groups[int32(offset)]; ok && len(g.Headings) > 0 {
			return g.Headings[0]
		}
		return ""
	}

	ldRefs := dict.LdReferences()

	for _, off := range offsets {
		group := groups[off]
		size := int(group.ArticleSize)
		if size < 0 {
			size = int(dict.ArticleArchiveSize() - int64(off))
		}

		run, err := dict.ParseArticle(int64(off), size)
		if err != nil {
			log.Warn("duden: skipping unreadable article", "offset", off, "err", err)
			continue
		}
		if err := text.InlineReferences(run, resources.Reader()); err != nil {
			log.Warn("duden: reference inlining failed", "offset", off, "err", err)
		}
		if err := text.ResolveReferences(run, ldRefs); err != nil {
			log.Warn("duden: second reference pass failed", "offset", off, "err", err)
		}
		text.ResolveArticleReferences(run, resolveHeading)

		article := text.PrintDsl(run)
		if len(group.Headings) == 1 {
			article = duden.DedupHeading(group.Headings[0], article)
		}

		for _, h := range group.Headings {
			if err := w.WriteHeading(h); err != nil {
				return err
			}
		}
		if err := w.WriteArticle(article); err != nil {
			return err
		}
	}
	return nil
}
