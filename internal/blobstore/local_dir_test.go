package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

type failingReader struct {
	data []byte
	read bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.read {
		r.read = true
		return copy(p, r.data), nil
	}
	return 0, errors.New("connection reset")
}

func TestLocalDirPutOpenDelete(t *testing.T) {
	dir, err := NewLocalDir(t.TempDir())
	if err != nil {
		t.Fatalf("new local dir: %v", err)
	}
	ctx := context.Background()

	entry, err := dir.Put(ctx, "a.txt", bytes.NewBufferString("hello"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if entry.Name != "a.txt" || entry.SizeBytes != 5 {
		t.Fatalf("unexpected entry: %#v", entry)
	}

	obj, err := dir.Open(ctx, "a.txt")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, err := io.ReadAll(obj.Content)
	_ = obj.Content.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("expected hello, got %q", string(data))
	}

	if _, err := dir.Put(ctx, "a.txt", bytes.NewBufferString("again")); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	if err := dir.Delete(ctx, "a.txt"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := dir.Delete(ctx, "a.txt"); err != nil {
		t.Fatalf("delete missing should be noop: %v", err)
	}
	if _, err := dir.Open(ctx, "a.txt"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLocalDirPutFailureLeavesNothing(t *testing.T) {
	root := t.TempDir()
	dir, err := NewLocalDir(root)
	if err != nil {
		t.Fatalf("new local dir: %v", err)
	}

	_, err = dir.Put(context.Background(), "partial.bin", &failingReader{data: []byte("half")})
	if err == nil {
		t.Fatal("expected put error")
	}
	if _, statErr := os.Stat(filepath.Join(root, "partial.bin")); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("expected no committed object, stat err=%v", statErr)
	}
	tmpEntries, err := os.ReadDir(filepath.Join(root, tmpDirName))
	if err != nil {
		t.Fatalf("read tmp dir: %v", err)
	}
	if len(tmpEntries) != 0 {
		t.Fatalf("expected temp dir cleaned, found %d entries", len(tmpEntries))
	}
}

func TestLocalDirList(t *testing.T) {
	dir, err := NewLocalDir(t.TempDir())
	if err != nil {
		t.Fatalf("new local dir: %v", err)
	}
	ctx := context.Background()
	for _, name := range []string{"one.txt", "two.txt"} {
		if _, err := dir.Put(ctx, name, bytes.NewBufferString(name)); err != nil {
			t.Fatalf("put %s: %v", name, err)
		}
	}

	entries, err := dir.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries (temp dir hidden), got %#v", entries)
	}
	for _, entry := range entries {
		if entry.SizeBytes != int64(len(entry.Name)) {
			t.Fatalf("unexpected size for %s: %d", entry.Name, entry.SizeBytes)
		}
		if entry.ModTime.IsZero() {
			t.Fatalf("expected mod time for %s", entry.Name)
		}
	}
}

func TestValidName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{name: "0b0e.jpg", want: true},
		{name: "", want: false},
		{name: ".tmp", want: false},
		{name: "..", want: false},
		{name: "../etc/passwd", want: false},
		{name: "a/b", want: false},
		{name: `a\b`, want: false},
		{name: " padded", want: false},
	}
	for _, tt := range tests {
		if got := ValidName(tt.name); got != tt.want {
			t.Fatalf("ValidName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	dir, err := NewLocalDir(t.TempDir())
	if err != nil {
		t.Fatalf("new local dir: %v", err)
	}
	if err := dir.Delete(context.Background(), "../x"); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}
