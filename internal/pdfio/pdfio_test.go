package pdfio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveAsset(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "logo.png")
	if err := os.WriteFile(present, []byte("png"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, ok := ResolveAsset([]string{
		"",
		filepath.Join(dir, "missing.png"),
		present,
		filepath.Join(dir, "later.png"),
	})
	if !ok {
		t.Fatal("expected an asset to resolve")
	}
	if got != present {
		t.Errorf("ResolveAsset = %q, want %q", got, present)
	}

	if _, ok := ResolveAsset([]string{filepath.Join(dir, "missing.png")}); ok {
		t.Error("expected no asset to resolve")
	}

	// Directories are not assets.
	if _, ok := ResolveAsset([]string{dir}); ok {
		t.Error("expected a directory candidate to be skipped")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.pdf")

	if err := WriteFileAtomic(dest, []byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(dest, []byte("second")); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("destination content = %q, want %q", data, "second")
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the destination file in %s, found %d entries", dir, len(entries))
	}
}

func TestReadTextRejectsBadInput(t *testing.T) {
	r := NewReader(1024 * 1024)

	if _, err := r.ReadText(""); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := r.ReadText(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}

	notPDF := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(notPDF, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := r.ReadText(notPDF); err == nil {
		t.Error("expected error for non-PDF extension")
	}
}

func TestReadTextBytesRejectsOversize(t *testing.T) {
	r := NewReader(4)
	if _, err := r.ReadTextBytes([]byte("too big for the cap")); err == nil {
		t.Error("expected error for oversized document")
	}
}

func TestValidateBytesRejectsGarbage(t *testing.T) {
	if err := ValidateBytes([]byte("not a pdf at all")); err == nil {
		t.Error("expected validation failure for non-PDF bytes")
	}
}
