package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// metadata is written next to each stored object as <name>.meta.yaml.
type metadata struct {
	ContentType string    `yaml:"content_type"`
	Language    string    `yaml:"content_language,omitempty"`
	Model       string    `yaml:"transcription_model,omitempty"`
	SavedAt     time.Time `yaml:"saved_at"`
}

// FileSink stores objects under a root directory on the local disk.
type FileSink struct {
	root string
	now  func() time.Time
}

// NewFileSink creates a FileSink rooted at dir.
func NewFileSink(dir string) *FileSink {
	return &FileSink{root: dir, now: time.Now}
}

// Root returns the directory objects are stored under.
func (s *FileSink) Root() string {
	return s.root
}

// Resolve maps an object path to its location on disk. Paths escaping the
// root are rejected.
func (s *FileSink) Resolve(objPath string) (string, error) {
	clean := path.Clean("/" + objPath)
	if clean == "/" || strings.HasSuffix(objPath, "/") {
		return "", fmt.Errorf("invalid object path %q", objPath)
	}
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// Save writes the object body and its metadata sidecar atomically.
func (s *FileSink) Save(ctx context.Context, obj Object) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dest, err := s.Resolve(obj.Path)
	if err != nil {
		return err
	}

	if err := atomicWrite(dest, obj.Body); err != nil {
		return fmt.Errorf("save %s: %w", obj.Path, err)
	}

	meta, err := yaml.Marshal(metadata{
		ContentType: obj.ContentType,
		Language:    obj.Language,
		Model:       obj.Model,
		SavedAt:     s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := atomicWrite(dest+".meta.yaml", meta); err != nil {
		return fmt.Errorf("save %s metadata: %w", obj.Path, err)
	}

	return nil
}

// Load reads a previously saved object body.
func (s *FileSink) Load(ctx context.Context, objPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := s.Resolve(objPath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(src)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", objPath, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", objPath, err)
	}
	return data, nil
}

// atomicWrite writes data to dest using a temp file + rename.
func atomicWrite(dest string, data []byte) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".upload-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
