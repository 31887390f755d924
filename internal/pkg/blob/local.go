package blob

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps blobs on disk under root. The api binary serves root at
// /profile, so locations are paths under that prefix.
type LocalStore struct {
	root   string
	prefix string
}

func NewLocalStore(root, prefix string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{root, strings.TrimSuffix(prefix, "/")}, nil
}

func (store *LocalStore) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	path := filepath.Join(store.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return "", err
	}
	return store.prefix + "/" + key, nil
}

func (store *LocalStore) Remove(_ context.Context, key string) error {
	return os.Remove(filepath.Join(store.root, filepath.FromSlash(key)))
}

func (store *LocalStore) Keys(_ context.Context) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(store.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(store.root, path)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}
