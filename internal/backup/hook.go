package backup

import (
	"sync"

	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/paths"
)

// Session takes at most one backup per target file. Watch mode rewrites
// the same target on every source change; only the first write of the
// session is worth saving.
//
// A Session is safe for concurrent use.
type Session struct {
	mgr *Manager

	mu    sync.Mutex
	taken map[string]*Manifest
}

// NewSession returns a Session that stores backups through mgr.
func NewSession(mgr *Manager) *Session {
	return &Session{
		mgr:   mgr,
		taken: make(map[string]*Manifest),
	}
}

// EnsureBackedUp backs up path before it is overwritten with next, unless
// this session already did so. The second return reports whether a new
// backup was created. A failed backup is not remembered so the caller may
// retry.
func (s *Session) EnsureBackedUp(tool, path string, next []byte) (*Manifest, bool, error) {
	key := paths.Normalize(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.taken[key]; ok {
		return m, false, nil
	}

	m, err := s.mgr.BackupBeforeWrite(tool, path, next)
	if err != nil {
		return nil, false, errors.Wrapf(err, "creating backup for %s", tool)
	}
	s.taken[key] = m
	return m, m != nil, nil
}

// Reset forgets every backup taken in this session.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taken = make(map[string]*Manifest)
}
