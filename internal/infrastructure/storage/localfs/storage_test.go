package localfs

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	if err := store.Save(ctx, "ML24001A001.pdf", bytes.NewReader([]byte("pdf-bytes"))); err != nil {
		t.Fatalf("Save: %v", err)
	}

	rc, err := store.Open(ctx, "ML24001A001.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "pdf-bytes" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestPathFlattensTraversal(t *testing.T) {
	base := t.TempDir()
	store, err := New(base)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := store.Path("../../etc/passwd")
	if got != filepath.Join(base, "passwd") {
		t.Fatalf("expected traversal to be flattened into the base dir, got %q", got)
	}
}
