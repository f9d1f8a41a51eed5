package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store writes message attachments to local disk. Files land under a
// per-session directory: <root>/session_<id>/<filename>.
type Store struct {
	root string
}

// New creates the store, ensuring the root directory exists
func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media root: %w", err)
	}
	return &Store{root: root}, nil
}

// Save writes an attachment and returns its path relative to the media
// root. A name collision gets a random prefix instead of overwriting.
func (s *Store) Save(sessionID uuid.UUID, filename string, r io.Reader) (string, error) {
	name := sanitize(filename)
	if name == "" {
		name = uuid.New().String()
	}

	dir := fmt.Sprintf("session_%s", sessionID)
	if err := os.MkdirAll(filepath.Join(s.root, dir), 0o755); err != nil {
		return "", fmt.Errorf("failed to create session directory: %w", err)
	}

	rel := filepath.Join(dir, name)
	if _, err := os.Stat(filepath.Join(s.root, rel)); err == nil {
		rel = filepath.Join(dir, uuid.New().String()[:8]+"_"+name)
	}

	dst, err := os.Create(filepath.Join(s.root, rel))
	if err != nil {
		return "", fmt.Errorf("failed to create attachment file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(filepath.Join(s.root, rel))
		return "", fmt.Errorf("failed to save attachment: %w", err)
	}

	return filepath.ToSlash(rel), nil
}

// Path resolves a stored relative path to an absolute one, refusing
// anything that would escape the media root.
func (s *Store) Path(rel string) (string, error) {
	abs := filepath.Join(s.root, filepath.FromSlash(rel))
	rootAbs, err := filepath.Abs(s.root)
	if err != nil {
		return "", err
	}
	absClean, err := filepath.Abs(abs)
	if err != nil {
		return "", err
	}
	if absClean != rootAbs && !strings.HasPrefix(absClean, rootAbs+string(filepath.Separator)) {
		return "", fmt.Errorf("attachment path escapes media root: %s", rel)
	}
	return absClean, nil
}

// sanitize strips directory components and characters unsafe in filenames
func sanitize(filename string) string {
	name := filepath.Base(filepath.ToSlash(filename))
	if name == "." || name == ".." || name == "/" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '\x00', '\n', '\r':
			return -1
		}
		return r
	}, name)
}
