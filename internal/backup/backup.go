// Package backup snapshots the configuration artifact so a forced re-setup
// never destroys the only copy of a working configuration.
//
// Snapshots live under the forge data directory, one directory per snapshot
// keyed by timestamp, each with a manifest recording the original location,
// permissions, and a SHA256 hash for integrity verification on restore.
package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/forge-cli/forge/internal/paths"
	"github.com/forge-cli/forge/pkg/fileutil"
)

// ManifestVersion is the manifest format version for forward compatibility.
const ManifestVersion = 1

// DefaultRetentionCount is the number of snapshots kept before pruning.
const DefaultRetentionCount = 5

// Sentinel errors for snapshot operations.
var (
	// ErrNoSnapshots indicates no snapshots exist.
	ErrNoSnapshots = errors.New("no snapshots found")

	// ErrSnapshotCorrupted indicates integrity verification failed.
	ErrSnapshotCorrupted = errors.New("snapshot corrupted")
)

// Manifest describes one snapshot. It is stored as manifest.json in the
// snapshot directory.
type Manifest struct {
	// Version is the manifest format version.
	Version int `json:"version"`

	// CreatedAt is when the snapshot was taken.
	CreatedAt time.Time `json:"created_at"`

	// OriginalPath is where the artifact lived.
	OriginalPath string `json:"original_path"`

	// FileName is the artifact's name inside the snapshot directory.
	FileName string `json:"file_name"`

	// SHA256Hash is the hex-encoded hash of the artifact contents.
	SHA256Hash string `json:"sha256_hash"`

	// Mode is the artifact's permission bits.
	Mode fs.FileMode `json:"mode"`

	// ID is the snapshot identifier (timestamp format: 20260123T100712).
	// Populated when loading from disk, not stored in JSON.
	ID string `json:"-"`
}

// Manager creates, restores, and prunes snapshots.
type Manager struct {
	rootDir        string
	retentionCount int
}

// Option configures a Manager.
type Option func(*Manager)

// WithSnapshotDir sets the root snapshot directory.
func WithSnapshotDir(dir string) Option {
	return func(m *Manager) {
		m.rootDir = dir
	}
}

// WithRetentionCount sets the number of snapshots to retain.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// NewManager creates a Manager with the given options. The default root is
// the backups directory under the forge data directory.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		rootDir:        filepath.Join(paths.DataDir(), "backups"),
		retentionCount: DefaultRetentionCount,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Snapshot copies the artifact at path into a new snapshot and prunes old
// snapshots beyond the retention count. Returns the manifest of the new
// snapshot.
func (m *Manager) Snapshot(path string) (*Manifest, error) {
	if path == "" {
		return nil, errors.New("path is required")
	}

	id := time.Now().Format("20060102T150405")
	dir := filepath.Join(m.rootDir, id)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "creating snapshot directory")
	}

	name := filepath.Base(path)
	hash, mode, err := copyFile(path, filepath.Join(dir, name))
	if err != nil {
		os.RemoveAll(dir)
		return nil, errors.Wrapf(err, "snapshotting %s", path)
	}

	manifest := &Manifest{
		Version:      ManifestVersion,
		CreatedAt:    time.Now().UTC(),
		OriginalPath: path,
		FileName:     name,
		SHA256Hash:   hash,
		Mode:         mode,
		ID:           id,
	}

	if err := fileutil.AtomicWriteJSON(filepath.Join(dir, "manifest.json"), manifest, 0o600); err != nil {
		os.RemoveAll(dir)
		return nil, errors.Wrap(err, "writing manifest")
	}

	if err := m.Prune(m.retentionCount); err != nil {
		return nil, err
	}
	return manifest, nil
}

// Restore copies a snapshot back to its original location after verifying
// its integrity. An empty id restores the newest snapshot.
func (m *Manager) Restore(id string) (*Manifest, error) {
	var manifest *Manifest
	var err error
	if id == "" {
		manifests, listErr := m.List()
		if listErr != nil {
			return nil, listErr
		}
		manifest = &manifests[0]
	} else {
		manifest, err = m.Get(id)
		if err != nil {
			return nil, err
		}
	}

	src := filepath.Join(m.rootDir, manifest.ID, manifest.FileName)

	hash, err := hashFile(src)
	if err != nil {
		return nil, errors.Wrapf(err, "reading snapshot %s", manifest.ID)
	}
	if hash != manifest.SHA256Hash {
		return nil, errors.Wrapf(ErrSnapshotCorrupted, "snapshot %s hash mismatch", manifest.ID)
	}

	if err := os.MkdirAll(filepath.Dir(manifest.OriginalPath), paths.DefaultDirPerm); err != nil {
		return nil, errors.Wrapf(err, "creating directory for %s", manifest.OriginalPath)
	}
	if _, _, err := copyFile(src, manifest.OriginalPath); err != nil {
		return nil, errors.Wrapf(err, "restoring %s", manifest.OriginalPath)
	}
	if err := os.Chmod(manifest.OriginalPath, manifest.Mode); err != nil {
		return nil, errors.Wrapf(err, "setting permissions for %s", manifest.OriginalPath)
	}

	return manifest, nil
}

// List returns all snapshots, newest first.
func (m *Manager) List() ([]Manifest, error) {
	entries, err := os.ReadDir(m.rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshots
		}
		return nil, errors.Wrap(err, "reading snapshot directory")
	}

	manifests := make([]Manifest, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest, err := m.Get(entry.Name())
		if err != nil {
			// Skip invalid snapshot directories
			continue
		}
		manifests = append(manifests, *manifest)
	}

	if len(manifests) == 0 {
		return nil, ErrNoSnapshots
	}

	slices.SortFunc(manifests, func(a, b Manifest) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return manifests, nil
}

// Get returns the manifest for a specific snapshot.
func (m *Manager) Get(id string) (*Manifest, error) {
	if id == "" {
		return nil, errors.New("snapshot ID is required")
	}

	data, err := os.ReadFile(filepath.Join(m.rootDir, id, "manifest.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNoSnapshots, "snapshot %s not found", id)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}
	manifest.ID = id
	return &manifest, nil
}

// Prune removes snapshots beyond the most recent keep.
func (m *Manager) Prune(keep int) error {
	if keep < 0 {
		return errors.New("keep must be non-negative")
	}

	manifests, err := m.List()
	if err != nil {
		if errors.Is(err, ErrNoSnapshots) {
			return nil
		}
		return err
	}

	for i := keep; i < len(manifests); i++ {
		if err := os.RemoveAll(filepath.Join(m.rootDir, manifests[i].ID)); err != nil {
			return errors.Wrapf(err, "removing snapshot %s", manifests[i].ID)
		}
	}
	return nil
}

// hashFile computes the SHA256 hash of a file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "opening file")
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, "reading file")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyFile copies src to dst, returning the SHA256 hash and mode of the
// source. The destination ends up with the source's permissions.
func copyFile(src, dst string) (hash string, mode fs.FileMode, err error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return "", 0, errors.Wrap(err, "opening source file")
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return "", 0, errors.Wrap(err, "stat source file")
	}
	mode = srcInfo.Mode()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return "", 0, errors.Wrap(err, "creating destination file")
	}

	h := sha256.New()
	w := io.MultiWriter(dstFile, h)
	if _, err := io.Copy(w, srcFile); err != nil {
		dstFile.Close()
		return "", 0, errors.Wrap(err, "copying file")
	}
	if err := dstFile.Close(); err != nil {
		return "", 0, errors.Wrap(err, "closing destination file")
	}
	if err := os.Chmod(dst, mode); err != nil {
		return "", 0, errors.Wrap(err, "setting permissions")
	}

	return hex.EncodeToString(h.Sum(nil)), mode, nil
}
