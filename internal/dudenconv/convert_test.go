package dudenconv

import (
	"io"
	"log/slog"
	"testing"

	"github.com/dicebound/lsd2dsl/internal/duden"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConvertMissingDirErrors(t *testing.T) {
	err := Convert("/nonexistent/dir", "dict.inf", t.TempDir(), duden.NoopResourcePacker{}, Options{}, discardLogger())
	if err == nil {
		t.Fatalf("expected an error for a nonexistent source directory")
	}
}

func TestConvertMissingInfErrors(t *testing.T) {
	dir := t.TempDir()
	err := Convert(dir, "dict.inf", t.TempDir(), duden.NoopResourcePacker{}, Options{}, discardLogger())
	if err == nil {
		t.Fatalf("expected an error when the named INF file doesn't exist in dir")
	}
}
