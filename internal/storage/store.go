package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrPathTraversal is returned when a requested path escapes the store root.
var ErrPathTraversal = errors.New("path escapes storage root")

// Store keeps uploaded documents on the local filesystem under a single
// root directory. Stored names are prefixed with a uuid so uploads cannot
// collide or overwrite each other.
type Store struct {
	root     string
	maxBytes int64
}

func NewStore(root string, maxBytes int64) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: abs, maxBytes: maxBytes}, nil
}

// Save writes the reader's contents under a uuid-prefixed version of name
// and returns the relative path to hand back to the caller.
func (s *Store) Save(name string, r io.Reader) (string, error) {
	base := sanitizeName(name)
	rel := uuid.NewString() + "_" + base

	dst, err := s.resolve(rel)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	limited := io.LimitReader(r, s.maxBytes+1)
	n, err := io.Copy(f, limited)
	if err != nil {
		os.Remove(dst)
		return "", err
	}
	if n > s.maxBytes {
		os.Remove(dst)
		return "", errors.New("file exceeds maximum upload size")
	}

	return rel, nil
}

// Open returns the stored file for streaming. Paths that resolve outside
// the root are rejected.
func (s *Store) Open(rel string) (*os.File, error) {
	path, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Remove deletes a stored file. Missing files are not an error.
func (s *Store) Remove(rel string) error {
	path, err := s.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// resolve maps a relative path to an absolute path under root, rejecting
// any traversal outside it.
func (s *Store) resolve(rel string) (string, error) {
	cleaned := filepath.Clean(strings.TrimLeft(rel, "/\\"))
	joined := filepath.Join(s.root, filepath.FromSlash(cleaned))
	if joined != s.root && !strings.HasPrefix(joined, s.root+string(filepath.Separator)) {
		return "", ErrPathTraversal
	}
	return joined, nil
}

func sanitizeName(name string) string {
	base := filepath.Base(filepath.Clean(name))
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "upload"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
}
