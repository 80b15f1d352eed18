package storage

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStore_SaveOpenRemove(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	path, err := s.Save(7, "doc.pdf", bytes.NewReader([]byte("content")))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Dir(path) != s.Root() {
		t.Fatalf("blob escaped root: %q", path)
	}

	rc, err := s.Open(7, "doc.pdf")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	b, err := io.ReadAll(rc)
	rc.Close()
	if err != nil || string(b) != "content" {
		t.Fatalf("read back %q err %v", b, err)
	}

	if err := s.Remove(7, "doc.pdf"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	// Removing again is fine; Remove is the compensation step and must be
	// idempotent.
	if err := s.Remove(7, "doc.pdf"); err != nil {
		t.Fatalf("re-remove: %v", err)
	}
	if _, err := s.Open(7, "doc.pdf"); err == nil {
		t.Fatal("open after remove succeeded")
	}
}

func TestLocalStore_NamespacesByAgent(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := s.Save(1, "doc.pdf", bytes.NewReader([]byte("one"))); err != nil {
		t.Fatalf("save 1: %v", err)
	}
	if _, err := s.Save(2, "doc.pdf", bytes.NewReader([]byte("two"))); err != nil {
		t.Fatalf("save 2: %v", err)
	}

	rc, err := s.Open(1, "doc.pdf")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	b, _ := io.ReadAll(rc)
	rc.Close()
	if string(b) != "one" {
		t.Fatalf("agent 1 blob = %q", b)
	}
}

func TestLocalStore_SanitizesTraversal(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStore(root)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	evil := []string{
		"../../etc/passwd",
		"..\\..\\evil.exe",
		"/absolute/path.pdf",
	}
	for _, name := range evil {
		path := s.Path(3, name)
		if filepath.Dir(path) != root {
			t.Fatalf("Path(%q) escaped root: %q", name, path)
		}
		if strings.Contains(filepath.Base(path), "/") {
			t.Fatalf("separator survived: %q", path)
		}
	}

	// The sanitized file actually lands inside the root.
	path, err := s.Save(3, "../../escape.pdf", bytes.NewReader([]byte("x")))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, filepath.Base(path))); err != nil {
		t.Fatalf("blob not under root: %v", err)
	}
}

func TestNewLocalStore_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	if _, err := NewLocalStore(dir); err != nil {
		t.Fatalf("new: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("dir missing: %v", err)
	}
}
