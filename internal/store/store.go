// Package store persists the topology document consumed by the graph page.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"switchgraph/internal/codec"
	"switchgraph/internal/domain"
)

// FileStore writes the topology document to a single file. Each write fully
// replaces the previous document; readers never see a partial file.
type FileStore struct {
	path  string
	codec codec.Codec
}

// NewFileStore creates a store for the given path and format
func NewFileStore(path string, c codec.Codec) *FileStore {
	return &FileStore{path: path, codec: c}
}

// Path returns the document location
func (s *FileStore) Path() string {
	return s.path
}

// Save writes the graph to a temporary file and renames it into place
func (s *FileStore) Save(graph *domain.TopologyGraph) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := s.codec.Export(graph, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	// CreateTemp uses 0600; the web server serving the page must be able to read it
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// Load reads the current document. A missing file yields (nil, nil).
func (s *FileStore) Load() (*domain.TopologyGraph, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	return s.codec.Parse(f)
}
