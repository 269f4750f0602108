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
	"strconv"
	"strings"
	"time"

	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/paths"
	"github.com/thoreinstein/syncmcp/pkg/fileutil"
)

// idLayout names backup directories. It sorts chronologically and contains
// no characters that are invalid in Windows file names.
const idLayout = "20060102T150405.000"

// Manager creates, lists, restores and prunes backups under a root
// directory laid out as <root>/<tool>/<id>/.
type Manager struct {
	rootDir        string
	retentionCount int
	version        string
	now            func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir sets the root backup directory.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		if dir != "" {
			m.rootDir = dir
		}
	}
}

// WithRetentionCount sets the number of backups kept per tool by
// [Manager.BackupBeforeWrite]. Non-positive values are ignored.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// WithVersion records the running sync-mcp version in new manifests.
func WithVersion(v string) Option {
	return func(m *Manager) {
		m.version = v
	}
}

// NewManager creates a Manager rooted at [paths.BackupDir] unless
// overridden.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		rootDir:        paths.BackupDir(),
		retentionCount: DefaultRetentionCount,
		version:        "dev",
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Root returns the root backup directory.
func (m *Manager) Root() string {
	return m.rootDir
}

// Backup copies the given files into a new backup for tool. Paths that do
// not exist are skipped; if none exist, [ErrNothingToBackUp] is returned.
func (m *Manager) Backup(tool string, files []string) (*Manifest, error) {
	return m.backup(tool, files, nil)
}

// BackupBeforeWrite saves path ahead of it being overwritten with next,
// then prunes the tool's backups down to the retention count. A missing
// file is not an error: nil is returned with no backup taken.
func (m *Manager) BackupBeforeWrite(tool, path string, next []byte) (*Manifest, error) {
	sum := sha256.Sum256(next)
	manifest, err := m.backup(tool, []string{path}, map[int]string{0: hex.EncodeToString(sum[:])})
	if errors.Is(err, ErrNothingToBackUp) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if _, err := m.Prune(tool, m.retentionCount); err != nil {
		return manifest, errors.Wrap(err, "pruning old backups")
	}
	return manifest, nil
}

func (m *Manager) backup(tool string, files []string, replacements map[int]string) (*Manifest, error) {
	if tool == "" {
		return nil, errors.New("tool is required")
	}
	if len(files) == 0 {
		return nil, errors.New("at least one path is required")
	}

	type source struct {
		path        string
		replacement string
	}
	var sources []source
	for i, p := range files {
		expanded, err := paths.Expand(p)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving %s", p)
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, "stat %s", p)
		}
		if !info.Mode().IsRegular() {
			return nil, errors.Newf("%s is not a regular file", p)
		}
		sources = append(sources, source{path: expanded, replacement: replacements[i]})
	}
	if len(sources) == 0 {
		return nil, ErrNothingToBackUp
	}

	createdAt := m.now().UTC()
	id, dir, err := m.claimDir(tool, createdAt)
	if err != nil {
		return nil, err
	}

	manifest := &Manifest{
		Version:        ManifestVersion,
		CreatedAt:      createdAt,
		Tool:           tool,
		SyncMCPVersion: m.version,
		ID:             id,
	}
	for _, src := range sources {
		bf, err := backupFile(src.path, dir)
		if err != nil {
			_ = os.RemoveAll(dir)
			return nil, errors.Wrapf(err, "backing up %s", src.path)
		}
		bf.ReplacementHash = src.replacement
		manifest.Files = append(manifest.Files, *bf)
	}

	if err := fileutil.AtomicWriteJSON(filepath.Join(dir, manifestName), manifest); err != nil {
		_ = os.RemoveAll(dir)
		return nil, errors.Wrap(err, "writing manifest")
	}
	return manifest, nil
}

// claimDir creates a fresh backup directory for tool. Backups taken within
// the same millisecond get a numeric suffix.
func (m *Manager) claimDir(tool string, at time.Time) (id, dir string, err error) {
	toolDir := m.toolDir(tool)
	if err := paths.EnsureDir(toolDir, paths.DefaultDirPerm); err != nil {
		return "", "", errors.Wrap(err, "creating backup directory")
	}

	base := at.Format(idLayout)
	for n := 0; n < 1000; n++ {
		id = base
		if n > 0 {
			id = base + "-" + strconv.Itoa(n)
		}
		dir = filepath.Join(toolDir, id)
		err = os.Mkdir(dir, paths.DefaultDirPerm)
		if err == nil {
			return id, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", errors.Wrap(err, "creating backup directory")
		}
	}
	return "", "", errors.Newf("too many backups for %s at %s", tool, base)
}

func backupFile(src, dir string) (*File, error) {
	relPath := generateRelPath(src)
	dst := filepath.Join(dir, relPath)
	if err := paths.EnsureDir(filepath.Dir(dst), paths.DefaultDirPerm); err != nil {
		return nil, errors.Wrap(err, "creating parent directory")
	}

	hash, mode, err := copyFile(src, dst)
	if err != nil {
		return nil, err
	}
	return &File{
		OriginalPath: src,
		RelPath:      relPath,
		SHA256Hash:   hash,
		Mode:         mode,
	}, nil
}

// Restore writes the files of a backup back to their original locations.
//
// Before anything is written every file is checked. A stored copy whose
// hash does not match the manifest yields [ErrBackupCorrupted]. A file on
// disk that differs from both the backup and the content sync-mcp wrote
// over it yields [ErrRestoreConflict] unless force is set.
func (m *Manager) Restore(tool, id string, force bool) ([]string, error) {
	manifest, err := m.Get(tool, id)
	if err != nil {
		return nil, err
	}
	dir := m.backupPath(tool, manifest.ID)

	for _, bf := range manifest.Files {
		hash, err := hashFile(filepath.Join(dir, bf.RelPath))
		if err != nil {
			return nil, errors.Wrapf(err, "reading backup file %s", bf.RelPath)
		}
		if hash != bf.SHA256Hash {
			return nil, errors.Wrapf(ErrBackupCorrupted, "file %s hash mismatch", bf.RelPath)
		}
		if force || bf.ReplacementHash == "" {
			continue
		}
		current, err := hashFile(bf.OriginalPath)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, errors.Wrapf(err, "reading %s", bf.OriginalPath)
		}
		if current != bf.ReplacementHash && current != bf.SHA256Hash {
			return nil, errors.WithHint(
				errors.Wrapf(ErrRestoreConflict, "%s was modified after the backup was taken", paths.Display(bf.OriginalPath)),
				"Use --force to overwrite it anyway",
			)
		}
	}

	restored := make([]string, 0, len(manifest.Files))
	for _, bf := range manifest.Files {
		data, err := os.ReadFile(filepath.Join(dir, bf.RelPath))
		if err != nil {
			return restored, errors.Wrapf(err, "reading backup file %s", bf.RelPath)
		}
		if err := paths.EnsureDir(filepath.Dir(bf.OriginalPath), paths.DefaultDirPerm); err != nil {
			return restored, errors.Wrapf(err, "creating directory for %s", bf.OriginalPath)
		}
		if err := fileutil.AtomicWriteFile(bf.OriginalPath, data, bf.Mode.Perm()); err != nil {
			return restored, errors.Wrapf(err, "restoring %s", bf.OriginalPath)
		}
		restored = append(restored, bf.OriginalPath)
	}
	return restored, nil
}

// Tools returns the ids of tools that have a backup directory, sorted.
func (m *Manager) Tools() ([]string, error) {
	entries, err := os.ReadDir(m.rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}
	var tools []string
	for _, e := range entries {
		if e.IsDir() {
			tools = append(tools, e.Name())
		}
	}
	slices.Sort(tools)
	return tools, nil
}

// List returns the backups for tool, newest first. Directories without a
// readable manifest are skipped.
func (m *Manager) List(tool string) ([]Manifest, error) {
	if tool == "" {
		return nil, errors.New("tool is required")
	}

	entries, err := os.ReadDir(m.toolDir(tool))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoBackupsFound
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	manifests := make([]Manifest, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest, err := m.Get(tool, entry.Name())
		if err != nil {
			continue
		}
		manifests = append(manifests, *manifest)
	}
	if len(manifests) == 0 {
		return nil, ErrNoBackupsFound
	}

	slices.SortFunc(manifests, func(a, b Manifest) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return compareIDs(b.ID, a.ID)
	})
	return manifests, nil
}

// Latest returns the newest backup for tool.
func (m *Manager) Latest(tool string) (*Manifest, error) {
	manifests, err := m.List(tool)
	if err != nil {
		return nil, err
	}
	return &manifests[0], nil
}

// Prune removes all but the newest keep backups for tool and reports how
// many were removed.
func (m *Manager) Prune(tool string, keep int) (int, error) {
	if tool == "" {
		return 0, errors.New("tool is required")
	}
	if keep < 0 {
		return 0, errors.New("keep must be non-negative")
	}

	manifests, err := m.List(tool)
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for i := keep; i < len(manifests); i++ {
		if err := os.RemoveAll(m.backupPath(tool, manifests[i].ID)); err != nil {
			return removed, errors.Wrapf(err, "removing backup %s", manifests[i].ID)
		}
		removed++
	}
	return removed, nil
}

// Get loads the manifest of one backup. The id "latest" selects the newest.
func (m *Manager) Get(tool, id string) (*Manifest, error) {
	if tool == "" {
		return nil, errors.New("tool is required")
	}
	if id == "" {
		return nil, errors.New("backup ID is required")
	}
	if id == "latest" {
		return m.Latest(tool)
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return nil, errors.Newf("invalid backup ID %q", id)
	}

	data, err := os.ReadFile(filepath.Join(m.backupPath(tool, id), manifestName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "backup %s not found", id)
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

// Path returns the directory holding a backup.
func (m *Manager) Path(tool, id string) string {
	return m.backupPath(tool, id)
}

func (m *Manager) backupPath(tool, id string) string {
	return filepath.Join(m.toolDir(tool), id)
}

func (m *Manager) toolDir(tool string) string {
	return filepath.Join(m.rootDir, tool)
}

// compareIDs orders backup IDs, treating a numeric collision suffix as a
// number so that "-10" sorts after "-9".
func compareIDs(a, b string) int {
	aBase, aN := splitID(a)
	bBase, bN := splitID(b)
	if c := strings.Compare(aBase, bBase); c != 0 {
		return c
	}
	return aN - bN
}

func splitID(id string) (string, int) {
	i := strings.LastIndexByte(id, '-')
	if i < 0 {
		return id, 0
	}
	n, err := strconv.Atoi(id[i+1:])
	if err != nil {
		return id, 0
	}
	return id[:i], n
}

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

// copyFile copies src to dst and returns the content hash and source mode.
func copyFile(src, dst string) (hash string, mode fs.FileMode, err error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return "", 0, errors.Wrap(err, "opening source file")
	}
	defer srcFile.Close()

	info, err := srcFile.Stat()
	if err != nil {
		return "", 0, errors.Wrap(err, "stat source file")
	}
	mode = info.Mode()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", 0, errors.Wrap(err, "creating destination file")
	}

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(dstFile, h), srcFile); err != nil {
		dstFile.Close()
		return "", 0, errors.Wrap(err, "copying file")
	}
	if err := dstFile.Close(); err != nil {
		return "", 0, errors.Wrap(err, "closing destination file")
	}
	return hex.EncodeToString(h.Sum(nil)), mode, nil
}

// generateRelPath maps an absolute path to its location inside a backup
// directory. Leading separators and drive colons are removed.
func generateRelPath(absPath string) string {
	clean := filepath.Clean(absPath)
	clean = strings.ReplaceAll(clean, ":", "")
	return strings.TrimLeft(clean, `/\`)
}
