package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LocalArchive keeps a copy of generated roster documents on disk so exports
// remain retrievable after the HTTP response is gone.
type LocalArchive struct {
	baseDir string
}

// NewLocalArchive ensures the base directory exists and returns a handle.
func NewLocalArchive(baseDir string) (*LocalArchive, error) {
	if baseDir == "" {
		baseDir = "./exports"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	return &LocalArchive{baseDir: baseDir}, nil
}

// Save writes the document under a date-stamped subdirectory and returns the
// relative path of the stored file.
func (a *LocalArchive) Save(filename string, data []byte) (string, error) {
	rel := filepath.Join(time.Now().UTC().Format("2006-01"), filepath.Base(filename))
	path := filepath.Join(a.baseDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare archive directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write archive file: %w", err)
	}
	return rel, nil
}
