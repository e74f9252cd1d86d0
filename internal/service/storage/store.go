// Package storage persists uploaded documents on a filesystem rooted
// at the configured upload directory.
package storage

import (
	"context"
	"os"
	"path"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Store writes uploaded files. Writes are upserts: a second upload to
// the same path replaces the previous content.
type Store struct {
	fs  afero.Fs
	log *zap.Logger
}

// New returns a Store rooted at dir on the host filesystem.
func New(dir string, log *zap.Logger) *Store {
	return &Store{
		fs:  afero.NewBasePathFs(afero.NewOsFs(), dir),
		log: log,
	}
}

// NewWithFs returns a Store over an arbitrary filesystem.
func NewWithFs(fs afero.Fs, log *zap.Logger) *Store {
	return &Store{fs: fs, log: log}
}

// ObjectPath builds the canonical storage path for an uploaded
// document: <entityType>/<entityID>/<filename>.
func ObjectPath(entityType, entityID, filename string) string {
	return path.Join(entityType, entityID, filename)
}

// Put stores data at the given path, creating parent directories as
// needed and overwriting any existing object.
func (s *Store) Put(ctx context.Context, objectPath string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if dir := path.Dir(objectPath); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := afero.WriteFile(s.fs, objectPath, data, 0o644); err != nil {
		return err
	}

	s.log.Info("stored document",
		zap.String("path", objectPath),
		zap.Int("bytes", len(data)),
		zap.String("content_type", contentType))
	return nil
}

// Exists reports whether an object is already stored at the path.
func (s *Store) Exists(objectPath string) (bool, error) {
	_, err := s.fs.Stat(objectPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
