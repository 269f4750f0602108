package paths

import (
	"cmp"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "sync-mcp"

var (
	ErrHomeDirNotFound = errors.New("home directory not found")
	ErrInvalidPath     = errors.New("invalid path")
)

// DefaultDirPerm keeps sync-mcp's directories private to the owner, since
// backups hold copies of files with API tokens.
const DefaultDirPerm = 0o700

// EnsureDir is os.MkdirAll with DefaultDirPerm substituted for a zero perm.
func EnsureDir(dir string, perm os.FileMode) error {
	return os.MkdirAll(dir, cmp.Or(perm, DefaultDirPerm))
}

// Home is ResolveHome with the error dropped; it returns "" when the home
// directory is unknown.
func Home() string {
	dir, _ := ResolveHome()
	return dir
}

// ResolveHome returns the home directory, or an error marked with
// ErrHomeDirNotFound.
func ResolveHome() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "resolving home directory"), ErrHomeDirNotFound)
	}
	return dir, nil
}

// AppData returns the Windows roaming application data directory:
// %APPDATA% when set, ~/AppData/Roaming otherwise.
func AppData() string {
	if dir := os.Getenv("APPDATA"); dir != "" {
		return dir
	}
	if h := Home(); h != "" {
		return filepath.Join(h, "AppData", "Roaming")
	}
	return ""
}

// ConfigHome, DataHome and StateHome are the XDG base directories as
// resolved by xdg.Reload. They honor XDG_* variables on every platform.
func ConfigHome() string { return xdg.ConfigHome }

func DataHome() string { return xdg.DataHome }

func StateHome() string { return xdg.StateHome }

// AppConfigDir returns <ConfigHome>/sync-mcp.
func AppConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// BackupDir returns the root of the backup store: <DataHome>/sync-mcp/backups.
func BackupDir() string {
	return filepath.Join(DataHome(), AppName, "backups")
}

// HistoryFile returns the sync journal database: <StateHome>/sync-mcp/history.db.
func HistoryFile() string {
	return filepath.Join(StateHome(), AppName, "history.db")
}

// Expand resolves a user-supplied path: a leading ~ becomes the home
// directory and the result is made absolute.
func Expand(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.Wrap(ErrInvalidPath, "empty path")
	}

	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := ResolveHome()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidPath, "%s: %v", path, err)
	}
	return abs, nil
}

// Display shortens path for output by replacing the home directory prefix
// with ~. Paths outside the home directory are returned unchanged.
func Display(path string) string {
	home := Home()
	if home == "" || path == "" {
		return path
	}
	if path == home {
		return "~"
	}
	prefix := strings.TrimSuffix(home, string(filepath.Separator)) + string(filepath.Separator)
	if strings.HasPrefix(path, prefix) {
		return filepath.Join("~", path[len(prefix):])
	}
	return path
}

// Normalize returns a form of path suitable for equality checks: absolute,
// cleaned, and lower-cased on Windows where the file system is case-insensitive.
func Normalize(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	if runtime.GOOS == "windows" {
		abs = strings.ToLower(abs)
	}
	return abs
}

// Same reports whether a and b refer to the same location after normalization.
func Same(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return Normalize(a) == Normalize(b)
}
