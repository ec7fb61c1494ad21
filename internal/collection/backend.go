package collection

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// StorageKey is the single key the serialized collection lives under. It
// matches the key used by earlier releases so existing collections load.
const StorageKey = "coinCollection"

// Backend is the persistence collaborator: one opaque blob under one key.
// Absence is not an error, it is a fresh collection.
type Backend interface {
	Read(ctx context.Context) (data []byte, ok bool, err error)
	Write(ctx context.Context, data []byte) error
	Migrate(ctx context.Context) error
	Close() error
}

// FileBackend stores the blob as a single JSON file, written atomically via
// a temp file and rename.
type FileBackend struct {
	path string
}

// NewFile creates a file backend rooted at path. The parent directory is
// created on first write.
func NewFile(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (b *FileBackend) Read(ctx context.Context) ([]byte, bool, error) {
	data, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrapf(err, "file: read %s", b.path)
	}
	return data, true, nil
}

func (b *FileBackend) Write(ctx context.Context, data []byte) error {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "file: mkdir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(b.path)+".tmp-*")
	if err != nil {
		return eris.Wrap(err, "file: create temp")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return eris.Wrap(err, "file: write temp")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return eris.Wrap(err, "file: close temp")
	}
	if err := os.Rename(tmp.Name(), b.path); err != nil {
		os.Remove(tmp.Name())
		return eris.Wrapf(err, "file: rename to %s", b.path)
	}
	return nil
}

func (b *FileBackend) Migrate(ctx context.Context) error { return nil }

func (b *FileBackend) Close() error { return nil }
