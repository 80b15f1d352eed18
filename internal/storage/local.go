// Package storage provides the on-disk blob store for uploaded agent files.
//
// Content is namespaced by agent ID plus a sanitized filename, so concurrent
// uploads for different agents never collide; same-agent, same-name races are
// resolved by the (agent_id, filename) uniqueness constraint in the metadata
// table, not here.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes uploaded blobs beneath a single root directory.
type LocalStore struct {
	root string
}

// NewLocalStore creates (if needed) and returns a store rooted at dir.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{root: dir}, nil
}

// Root returns the store's base directory.
func (s *LocalStore) Root() string { return s.root }

// Path returns the namespaced on-disk path for (agentID, filename).
func (s *LocalStore) Path(agentID uint, filename string) string {
	return filepath.Join(s.root, fmt.Sprintf("%d_%s", agentID, sanitize(filename)))
}

// Save streams r to the file for (agentID, filename), creating or truncating
// it, and returns the path written.
func (s *LocalStore) Save(agentID uint, filename string, r io.Reader) (string, error) {
	path := s.Path(agentID, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// Remove deletes the blob for (agentID, filename). A missing file is not an
// error: Remove is the compensation step after a failed metadata insert and
// must be idempotent.
func (s *LocalStore) Remove(agentID uint, filename string) error {
	err := os.Remove(s.Path(agentID, filename))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Open returns a reader over the stored blob.
func (s *LocalStore) Open(agentID uint, filename string) (io.ReadCloser, error) {
	return os.Open(s.Path(agentID, filename))
}

// sanitize strips path separators so a filename cannot escape the root.
func sanitize(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	return filepath.Base(name)
}
