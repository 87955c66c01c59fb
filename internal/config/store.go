package config

import (
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/forge-cli/forge/internal/paths"
	"github.com/forge-cli/forge/pkg/fileutil"
)

// Store persists a finalized configuration artifact.
// Write must be atomic from the caller's view: on failure no partially
// written artifact is observable.
type Store interface {
	Write(cfg *File) error
}

// FilePerm is the permission for the persisted artifact. It may contain an
// API token, so it is private to the user.
const FilePerm = 0o600

// FileStore writes the artifact to a directory, encoded in the format the
// configuration itself selects (persistence.format).
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir.
// An empty dir means the default forge config directory.
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = paths.ConfigDir()
	}
	return &FileStore{dir: dir}
}

// Path returns the file the given configuration would be written to.
func (s *FileStore) Path(cfg *File) string {
	format := cfg.Persistence.Format
	if format == "" {
		format = FormatYAML
	}
	return filepath.Join(s.dir, "config."+format)
}

// Write implements Store using a temp file + rename so a failed write leaves
// any previous artifact intact.
func (s *FileStore) Write(cfg *File) error {
	if err := paths.EnsureDir(s.dir, 0); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	path := s.Path(cfg)
	switch cfg.Persistence.Format {
	case FormatJSON:
		return fileutil.AtomicWriteJSON(path, cfg, FilePerm)
	case FormatTOML:
		return fileutil.AtomicWriteTOML(path, cfg, FilePerm)
	default:
		return fileutil.AtomicWriteYAML(path, cfg, FilePerm)
	}
}
