package cache

import (
	"context"
	"encoding/base32"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// FileStore is a Store backed by a directory of flat files, one per key.
// It is the durable-local-storage backend: a single client on a single
// machine keeping its session across restarts. Writes go through a temp
// file and an atomic rename so a crash mid-write leaves the previous value
// intact. TTL enforcement is left to the cache layer; the file keeps the
// stamped envelope and nothing else expires it.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory (0700) if needed and returns a store
// over it.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("cache: file store directory required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Get implements Store.
func (f *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Set implements Store. The ttl is ignored; validity is judged by the
// cache layer from the envelope timestamp.
func (f *FileStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	target := f.path(key)
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Delete implements Store. Deleting an absent key is not an error.
func (f *FileStore) Delete(_ context.Context, key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (f *FileStore) path(key string) string {
	// Keys are caller-controlled constants today, but encode anyway so an
	// arbitrary key can never escape the store directory.
	name := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString([]byte(key))
	return filepath.Join(f.dir, name+".kv")
}
