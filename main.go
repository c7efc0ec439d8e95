// Command lsd2dsl converts ABBYY Lingvo LSD and Duden dictionaries to the
// DSL format. Grounded on original_source/console/decoder.cpp's option
// set and dispatch, minus the GUI/LSA/debug-only (--bof/--idx/--fsi/--text)
// paths that have no Go-side equivalent in this module's scope.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dicebound/lsd2dsl/internal/dudenconv"
	"github.com/dicebound/lsd2dsl/internal/lsd"
	"github.com/dicebound/lsd2dsl/internal/lsdconv"
)

func printLanguages(w *os.File) {
	for _, e := range lsd.LangEntries() {
		fmt.Fprintf(w, "%d %s\n", e.Code, e.Name)
	}
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("lsd2dsl", flag.ContinueOnError)
	lsdPath := fs.String("lsd", "", "LSD dictionary to decode")
	dudenPath := fs.String("duden", "", "Duden dictionary to decode (.inf file)")
	outDir := fs.String("out", "", "output directory")
	sourceFilter := fs.Int("source-filter", -1, "ignore dictionaries with source language != source-filter")
	targetFilter := fs.Int("target-filter", -1, "ignore dictionaries with target language != target-filter")
	dumb := fs.Bool("dumb", false, "don't combine variant headings and headings referencing the same article")
	codes := fs.Bool("codes", false, "print supported languages and their codes")
	verbose := fs.Bool("verbose", false, "verbose logging")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *codes {
		printLanguages(os.Stdout)
		return 0
	}

	if *lsdPath == "" && *dudenPath == "" {
		fs.Usage()
		return 0
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			fmt.Fprintln(os.Stderr, "lsd2dsl:", err)
			return 1
		}
	}

	// Matching decoder.cpp's parseLSD/parseDuden: an empty --out means
	// "report only", no conversion is attempted.
	if *lsdPath != "" && *outDir != "" {
		opts := lsdconv.Options{
			Dumb:            *dumb,
			FilterLanguages: *sourceFilter != -1 || *targetFilter != -1,
			SourceFilter:    *sourceFilter,
			TargetFilter:    *targetFilter,
		}
		if err := lsdconv.Convert(*lsdPath, *outDir, nil, opts, log); err != nil {
			fmt.Fprintln(os.Stderr, "lsd2dsl:", err)
			return 1
		}
	}
	if *dudenPath != "" && *outDir != "" {
		dir := filepath.Dir(*dudenPath)
		name := filepath.Base(*dudenPath)
		if err := dudenconv.Convert(dir, name, *outDir, nil, dudenconv.Options{}, log); err != nil {
			fmt.Fprintln(os.Stderr, "lsd2dsl:", err)
			return 1
		}
	}
	return 0
}
