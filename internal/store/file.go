package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileKV keeps one JSON file per key under dir/data.
type FileKV struct {
	dir string
}

// NewFileKV creates the data directory if needed.
func NewFileKV(root string) (*FileKV, error) {
	dir := filepath.Join(root, "data")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &FileKV{dir: dir}, nil
}

// Path returns the file backing key.
func (f *FileKV) Path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileKV) Get(key string) ([]byte, error) {
	b, err := os.ReadFile(f.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return b, nil
}

// Put writes to a temp file in the same directory and renames it over the
// old value so readers never see a partial write.
func (f *FileKV) Put(key string, value []byte) error {
	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), f.Path(key)); err != nil {
		return fmt.Errorf("replacing %s: %w", key, err)
	}
	return nil
}

func (f *FileKV) Close() error { return nil }
