package backup

import (
	"io/fs"
	"time"

	"github.com/thoreinstein/syncmcp/internal/errors"
)

// ManifestVersion is the manifest format version.
const ManifestVersion = 1

// DefaultRetentionCount is the number of backups kept per tool.
const DefaultRetentionCount = 5

// manifestName is the file holding a backup's metadata.
const manifestName = "manifest.json"

// Sentinel errors for backup operations.
var (
	// ErrNoBackupsFound indicates no backups exist for the requested tool or ID.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrBackupCorrupted indicates a stored file no longer matches its
	// recorded hash.
	ErrBackupCorrupted = errors.New("backup corrupted")

	// ErrRestoreConflict indicates the file on disk changed after sync-mcp
	// last wrote it. Restoring would discard those edits.
	ErrRestoreConflict = errors.New("restore conflict")

	// ErrNothingToBackUp indicates none of the requested paths exist.
	ErrNothingToBackUp = errors.New("no files to back up")
)

// Manifest describes one backup. It is stored as manifest.json inside the
// backup directory.
type Manifest struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`

	// Tool is the catalog id of the tool whose config was saved.
	Tool  string `json:"tool"`
	Files []File `json:"files"`

	// SyncMCPVersion is the version of sync-mcp that wrote the backup.
	SyncMCPVersion string `json:"sync_mcp_version"`

	// ID is the backup directory name. Populated on load, not stored.
	ID string `json:"-"`
}

// File is one saved file within a backup.
type File struct {
	// OriginalPath is the absolute path the file was copied from.
	OriginalPath string `json:"original_path"`

	// RelPath is the location of the copy relative to the backup directory.
	RelPath string `json:"rel_path"`

	SHA256Hash string      `json:"sha256_hash"`
	Mode       fs.FileMode `json:"mode"`

	// ReplacementHash is the hash of the content written over the original
	// right after the backup was taken. Empty when unknown.
	ReplacementHash string `json:"replacement_sha256,omitempty"`
}

// Paths returns the original paths of every file in the backup.
func (m *Manifest) Paths() []string {
	out := make([]string, 0, len(m.Files))
	for _, f := range m.Files {
		out = append(out, f.OriginalPath)
	}
	return out
}
