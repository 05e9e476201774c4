// Package uploads stores product images on the local filesystem. Records
// reference images by their public path under /uploads.
package uploads

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const publicPrefix = "/uploads/"

// Store writes uploaded files into a single directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates the upload directory when missing.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("uploads: create dir: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Save writes the uploaded file under a fresh name and returns its public
// path. The original filename only contributes its extension.
func (s *Store) Save(src io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	name := uuid.NewString() + ext

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("uploads: create file: %w", err)
	}
	defer func() {
		_ = dst.Close()
	}()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("uploads: write file: %w", err)
	}
	return publicPrefix + name, nil
}

// Remove deletes the file behind a public path. Failures are logged, not
// surfaced: a missing image must never block record deletion.
func (s *Store) Remove(publicPath string) {
	if !strings.HasPrefix(publicPath, publicPrefix) {
		return
	}
	name := filepath.Base(strings.TrimPrefix(publicPath, publicPrefix))
	if name == "" || name == "." || name == "/" {
		return
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		if s.logger != nil {
			s.logger.Warn("failed to delete image", slog.String("path", publicPath), slog.Any("error", err))
		}
	}
}
