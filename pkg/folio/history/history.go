// Package history keeps a local record of audit runs in an embedded badger
// database so size trends can be reviewed between builds.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/jamesainslie/folio/pkg/folio/bundle"
	"github.com/jamesainslie/folio/pkg/folio/logging"
)

// ErrNotFound is returned when no run has the requested ID.
var ErrNotFound = errors.New("history entry not found")

// Key prefixes:
//
//	r:<unix-nanos>:<id> -> Entry (JSON), nanos zero-padded so keys sort by time
//	i:<id>              -> primary r: key
//	m:__schema__        -> Schema
const (
	prefixRun   = "r:"
	prefixIndex = "i:"
	schemaKey   = "m:__schema__"
)

// Entry summarizes one audit run. Report holds the full report.
type Entry struct {
	ID           string         `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	Status       bundle.Status  `json:"status"`
	TotalSize    int64          `json:"total_size"`
	FileCount    int            `json:"file_count"`
	ErrorCount   int            `json:"error_count"`
	WarningCount int            `json:"warning_count"`
	Report       *bundle.Report `json:"report,omitempty"`
}

// NewEntry summarizes a report.
func NewEntry(r *bundle.Report) Entry {
	return Entry{
		ID:           r.ID,
		Timestamp:    r.Timestamp,
		Status:       r.Status,
		TotalSize:    r.TotalSize,
		FileCount:    len(r.Files),
		ErrorCount:   len(r.Checks.Errors),
		WarningCount: len(r.Checks.Warnings),
		Report:       r,
	}
}

// Store wraps badger for run history.
type Store struct {
	db  *badger.DB
	now func() time.Time
}

// Open opens or creates a history store at path.
func Open(path string) (*Store, error) {
	return open(badger.DefaultOptions(path))
}

// OpenInMemory opens a store that is discarded on Close.
func OpenInMemory() (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Store, error) {
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if s.GetSchema() == nil {
		if err := s.SetSchema(&Schema{Version: CurrentSchemaVersion, UpdatedAt: s.now()}); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return s, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a summary of r, replacing any earlier run with the same ID.
func (s *Store) Record(r *bundle.Report) error {
	if r == nil || r.ID == "" {
		return errors.New("history: report has no id")
	}

	value, err := json.Marshal(NewEntry(r))
	if err != nil {
		return err
	}
	key := runKey(r.Timestamp, r.ID)

	err = s.db.Update(func(txn *badger.Txn) error {
		if old, err := lookup(txn, r.ID); err == nil {
			if err := txn.Delete(old); err != nil {
				return err
			}
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		if err := txn.Set(key, value); err != nil {
			return err
		}
		return txn.Set(indexKey(r.ID), key)
	})
	if err != nil {
		return fmt.Errorf("recording run %s: %w", r.ID, err)
	}

	logging.Get("history").Debug("recorded run", "id", r.ID, "status", r.Status, "total_kb", r.TotalSize)
	return nil
}

// List returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) List(limit int) ([]Entry, error) {
	entries := []Entry{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(prefixRun)
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration must seek past the last key with the prefix.
		for it.Seek([]byte(prefixRun + "\xff")); it.ValidForPrefix([]byte(prefixRun)); it.Next() {
			var e Entry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				return err
			}
			entries = append(entries, e)
			if limit > 0 && len(entries) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Get returns the run with the given ID. A unique ID prefix of at least
// eight characters also matches.
func (s *Store) Get(id string) (*Entry, error) {
	var entry Entry

	err := s.db.View(func(txn *badger.Txn) error {
		key, err := lookup(txn, id)
		if errors.Is(err, ErrNotFound) && len(id) >= 8 {
			key, err = lookupPrefix(txn, id)
		}
		if err != nil {
			return err
		}

		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Cleanup deletes runs older than retention and returns how many were
// removed. A non-positive retention keeps everything.
func (s *Store) Cleanup(retention time.Duration) (int, error) {
	if retention <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-retention).UnixNano()

	var stale []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefixRun)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			nanos, _, ok := parseRunKey(key)
			if !ok {
				continue
			}
			if nanos >= cutoff {
				break
			}
			stale = append(stale, key)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range stale {
		_, id, _ := parseRunKey(key)
		if err := wb.Delete([]byte(key)); err != nil {
			return 0, err
		}
		if err := wb.Delete(indexKey(id)); err != nil {
			return 0, err
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("cleaning history: %w", err)
	}

	if len(stale) > 0 {
		logging.Get("history").Info("removed old runs", "count", len(stale), "retention", retention)
	}
	return len(stale), nil
}

func lookup(txn *badger.Txn, id string) ([]byte, error) {
	item, err := txn.Get(indexKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func lookupPrefix(txn *badger.Txn, prefix string) ([]byte, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = indexKey(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	var found []byte
	for it.Rewind(); it.Valid(); it.Next() {
		if found != nil {
			return nil, fmt.Errorf("ambiguous run id %q", prefix)
		}
		v, err := it.Item().ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		found = v
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

func runKey(ts time.Time, id string) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", prefixRun, ts.UnixNano(), id))
}

func indexKey(id string) []byte {
	return []byte(prefixIndex + id)
}

func parseRunKey(key string) (nanos int64, id string, ok bool) {
	rest, found := strings.CutPrefix(key, prefixRun)
	if !found {
		return 0, "", false
	}
	ts, id, found := strings.Cut(rest, ":")
	if !found {
		return 0, "", false
	}
	n, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return 0, "", false
	}
	return n, id, true
}
