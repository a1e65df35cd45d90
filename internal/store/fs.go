package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FSStore writes values as files under a private namespace directory.
// Each FSStore gets its own uuid-named subdirectory, so concurrent runs
// never share scratch space.
type FSStore struct {
	root string
}

// NewFSStore creates the namespace directory under baseDir. An empty
// baseDir uses the system temp directory.
func NewFSStore(baseDir string) (*FSStore, error) {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	root := filepath.Join(baseDir, "inspiredoc-"+uuid.New().String())
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return &FSStore{root: root}, nil
}

// Root returns the namespace directory, useful for surfacing export
// paths to the user.
func (s *FSStore) Root() string {
	return s.root
}

func (s *FSStore) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, value, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (s *FSStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}
	value, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &NotFoundError{Key: key}
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, nil
}

func (s *FSStore) Close() error {
	return os.RemoveAll(s.root)
}

// pathFor rejects keys that would escape the namespace directory.
func (s *FSStore) pathFor(key string) (string, error) {
	if key == "" || strings.Contains(key, "/") || strings.Contains(key, "\\") || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid store key %q", key)
	}
	return filepath.Join(s.root, key), nil
}
