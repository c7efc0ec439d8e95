package inflate

import (
	"bytes"
	"compress/flate"
	"testing"
)

func deflate(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		t.Fatalf("flate.NewWriter: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeBofBlockRoundTrip(t *testing.T) {
	want := bytes.Repeat([]byte("duden archive block content "), 100)
	encoded := deflate(t, want)

	got, err := DecodeBofBlock(encoded, len(want))
	if err != nil {
		t.Fatalf("DecodeBofBlock: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("decoded %d bytes, want %d; mismatch", len(got), len(want))
	}
}

func TestDecodeBofBlockOutputSizeExceedsMax(t *testing.T) {
	if _, err := DecodeBofBlock(nil, MaxBlockSize+1); err == nil {
		t.Fatalf("expected error when outputSize exceeds MaxBlockSize")
	}
}

func TestDecodeBofBlockSizeMismatch(t *testing.T) {
	encoded := deflate(t, []byte("short"))
	if _, err := DecodeBofBlock(encoded, 100); err == nil {
		t.Fatalf("expected error when decoded size is shorter than outputSize")
	}
}
