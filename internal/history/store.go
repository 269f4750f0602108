package history

import (
	"encoding/binary"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
	berrors "go.etcd.io/bbolt/errors"

	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/paths"
)

// Bucket names.
const (
	recordsBucket = "runs"
	metaBucket    = "meta"
)

const (
	schemaVersionKey     = "schema"
	currentSchemaVersion = 1
)

// DefaultMaxRecords is the journal length kept by [Store.Append].
const DefaultMaxRecords = 500

// openTimeout bounds the wait for the database file lock.
const openTimeout = time.Second

var (
	// ErrLocked indicates another process holds the history database.
	ErrLocked = errors.New("history database is locked")

	// ErrClosed indicates the store was used after Close.
	ErrClosed = errors.New("history store is closed")
)

// Store is the on-disk sync journal. It is safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	db         *bbolt.DB
	maxRecords int
	now        func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithMaxRecords sets how many records are kept. Older ones are dropped on
// append. Non-positive values are ignored.
func WithMaxRecords(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxRecords = n
		}
	}
}

// Open opens or creates the journal at path, creating parent directories
// as needed.
func Open(path string, opts ...Option) (*Store, error) {
	if err := paths.EnsureDir(filepath.Dir(path), paths.DefaultDirPerm); err != nil {
		return nil, errors.Wrap(err, "creating history directory")
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		if errors.Is(err, berrors.ErrTimeout) {
			return nil, errors.WithHint(
				errors.Wrapf(ErrLocked, "opening %s", path),
				"Another sync-mcp process may be running",
			)
		}
		return nil, errors.Wrapf(err, "opening history database %s", path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(recordsBucket)); err != nil {
			return errors.Wrap(err, "creating records bucket")
		}
		meta, err := tx.CreateBucketIfNotExists([]byte(metaBucket))
		if err != nil {
			return errors.Wrap(err, "creating meta bucket")
		}
		return meta.Put([]byte(schemaVersionKey), itob(currentSchemaVersion))
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{
		db:         db,
		maxRecords: DefaultMaxRecords,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Append journals r. ID and Time are filled in when empty. Records beyond
// the retention limit are removed oldest first.
func (s *Store) Append(r *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return ErrClosed
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Time.IsZero() {
		r.Time = s.now().UTC()
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(recordsBucket))
		seq, err := bucket.NextSequence()
		if err != nil {
			return errors.Wrap(err, "allocating record key")
		}
		data, err := r.MarshalBinary()
		if err != nil {
			return errors.Wrap(err, "encoding record")
		}
		if err := bucket.Put(itob(seq), data); err != nil {
			return errors.Wrap(err, "saving record")
		}
		return trim(bucket, s.maxRecords)
	})
}

// trim deletes the oldest entries until at most keep remain.
func trim(bucket *bbolt.Bucket, keep int) error {
	excess := count(bucket) - keep
	if excess <= 0 {
		return nil
	}
	c := bucket.Cursor()
	for k, _ := c.First(); k != nil && excess > 0; k, _ = c.First() {
		if err := c.Delete(); err != nil {
			return errors.Wrap(err, "trimming history")
		}
		excess--
	}
	return nil
}

// List returns up to limit records, newest first. A non-positive limit
// returns everything. Undecodable entries are skipped.
func (s *Store) List(limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrClosed
	}

	var records []Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(recordsBucket)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(records) >= limit {
				break
			}
			var r Record
			if err := r.UnmarshalBinary(v); err != nil {
				continue
			}
			records = append(records, r)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "reading history")
	}
	return records, nil
}

// Get returns the record with the given id, or one whose id starts with it.
func (s *Store) Get(id string) (*Record, error) {
	records, err := s.List(0)
	if err != nil {
		return nil, err
	}
	var match *Record
	for i := range records {
		r := &records[i]
		if r.ID == id {
			return r, nil
		}
		if id != "" && len(id) < len(r.ID) && r.ID[:len(id)] == id {
			if match != nil {
				return nil, errors.Newf("history id %q is ambiguous", id)
			}
			match = r
		}
	}
	if match == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "history record %q", id)
	}
	return match, nil
}

// Clear removes every record and reports how many there were.
func (s *Store) Clear() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return 0, ErrClosed
	}

	var n int
	err := s.db.Update(func(tx *bbolt.Tx) error {
		n = count(tx.Bucket([]byte(recordsBucket)))
		if err := tx.DeleteBucket([]byte(recordsBucket)); err != nil {
			return errors.Wrap(err, "clearing history")
		}
		_, err := tx.CreateBucket([]byte(recordsBucket))
		return errors.Wrap(err, "recreating records bucket")
	})
	return n, err
}

// count walks the bucket with a cursor, which also sees writes made
// earlier in the same transaction.
func count(bucket *bbolt.Bucket) int {
	n := 0
	c := bucket.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		n++
	}
	return n
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
