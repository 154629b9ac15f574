// Package store owns the durable collection of reflection entries. All reads
// and writes to the backing files go through a single Store instance; the
// in-memory collection is kept consistent with reviews.json after every
// successful mutation.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/Kenneth-cs/DeepReview/pkg/review"
)

const (
	primaryFileName = "reviews.json"
	backupFileName  = "reviews_backup.json"
)

// Store is the sole owner of reviews.json and its single backup slot.
// Mutating operations are serialized; a second mutation observes the fully
// applied effect of the prior one.
type Store struct {
	dir         string
	primaryPath string
	backupPath  string

	mu           sync.Mutex
	entries      []review.Entry
	lastBackup   time.Time
	integrity    IntegrityStatus
	integrityMsg string
	loadErr      string

	backups sync.WaitGroup
	nowFn   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the wall clock used for "today" queries and backup
// timestamps. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.nowFn = now
	}
}

// New creates a Store rooted at dir, creating the directory when needed. The
// collection starts empty; call Load to read any existing data file.
func New(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, errors.New("store: data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}
	s := &Store{
		dir:         dir,
		primaryPath: filepath.Join(dir, primaryFileName),
		backupPath:  filepath.Join(dir, backupFileName),
		integrity:   IntegrityUnknown,
		nowFn:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if info, err := os.Stat(s.backupPath); err == nil {
		s.lastBackup = info.ModTime()
	}
	return s, nil
}

// Load reads the backing file into memory, sorted by date descending. A
// missing file is not an error. A corrupt file resets the collection to empty
// and returns a recoverable error wrapping ErrDeserialize.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadErr = ""
	data, err := os.ReadFile(s.primaryPath)
	if errors.Is(err, os.ErrNotExist) {
		s.entries = nil
		return nil
	}
	if err != nil {
		s.entries = nil
		s.loadErr = err.Error()
		return fmt.Errorf("store: read %s: %w", primaryFileName, err)
	}

	var loaded []review.Entry
	if err := json.Unmarshal(data, &loaded); err != nil {
		s.entries = nil
		s.loadErr = fmt.Sprintf("decode %s: %v", primaryFileName, err)
		return fmt.Errorf("%w: %v", ErrDeserialize, err)
	}

	sortByDateDesc(loaded)
	s.entries = loaded
	logx.Infof("store: loaded %d entries from %s", len(loaded), s.primaryPath)
	return nil
}

// LoadError returns the published message from the last failed load, or empty.
func (s *Store) LoadError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Add inserts the entry and persists the collection, then backs up
// asynchronously. If an entry already exists for the same calendar day it is
// replaced instead, so "today" stays unique.
func (s *Store) Add(entry review.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]review.Entry, len(s.entries), len(s.entries)+1)
	copy(next, s.entries)

	replaced := false
	for i := range next {
		if review.SameDay(next[i].Date, entry.Date) {
			next[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		next = append([]review.Entry{entry}, next...)
	}
	sortByDateDesc(next)

	if err := s.saveLocked(next); err != nil {
		return err
	}
	s.entries = next
	s.backupAsync("after add")
	return nil
}

// Update replaces the record with the matching identifier, advances its
// UpdatedAt to the mutation time and persists. Returns ErrNotFound when no
// record matches.
func (s *Store) Update(entry review.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.entries {
		if s.entries[i].ID == entry.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, entry.ID)
	}

	entry.UpdatedAt = s.nowFn().UTC()
	next := make([]review.Entry, len(s.entries))
	copy(next, s.entries)
	next[idx] = entry
	sortByDateDesc(next)

	if err := s.saveLocked(next); err != nil {
		return err
	}
	s.entries = next
	s.backupAsync("after update")
	return nil
}

// Delete backs up the current state first, then removes the matching
// identifier and persists. The backup runs synchronously so accidentally
// deleted data is always recoverable; an unknown identifier leaves the
// backup slot untouched.
func (s *Store) Delete(entry review.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]review.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.ID != entry.ID {
			next = append(next, e)
		}
	}
	if len(next) == len(s.entries) {
		return fmt.Errorf("%w: %s", ErrNotFound, entry.ID)
	}

	if err := s.createBackupLocked("before delete"); err != nil {
		return err
	}

	if err := s.saveLocked(next); err != nil {
		return err
	}
	s.entries = next
	return nil
}

// ClearAllData empties the collection, persists the empty state and removes
// the backup slot.
func (s *Store) ClearAllData() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.saveLocked(nil); err != nil {
		return err
	}
	s.entries = nil
	if err := os.Remove(s.backupPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("store: remove backup: %w", err)
	}
	s.lastBackup = time.Time{}
	return nil
}

// Flush waits for all pending asynchronous backups to finish. Call it before
// shutdown and in tests.
func (s *Store) Flush() {
	s.backups.Wait()
}

// saveLocked serializes entries and writes them atomically: the bytes land in
// a temp file in the same directory which then replaces the destination, so a
// crash mid-write leaves the previous durable state intact.
func (s *Store) saveLocked(entries []review.Entry) error {
	if entries == nil {
		entries = []review.Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("store: encode entries: %w", err)
	}
	return atomicWrite(s.primaryPath, data)
}

func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".reviews-*.tmp")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("store: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("store: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (s *Store) backupAsync(reason string) {
	s.backups.Add(1)
	go func() {
		defer s.backups.Done()
		if err := s.CreateBackup(reason); err != nil {
			logx.Errorf("store: background backup (%s) failed: %v", reason, err)
		}
	}()
}

func sortByDateDesc(entries []review.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
}

// All returns a copy of the collection, most recent date first.
func (s *Store) All() []review.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]review.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// ByID looks up an entry by identifier.
func (s *Store) ByID(id uuid.UUID) (review.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return review.Entry{}, false
}

// ByDate returns the entry whose date falls on the same calendar day, if any.
func (s *Store) ByDate(date time.Time) (review.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if review.SameDay(e.Date, date) {
			return e, true
		}
	}
	return review.Entry{}, false
}

// Recent returns up to limit entries, most recent date first.
func (s *Store) Recent(limit int) []review.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit < 0 {
		limit = 0
	}
	if limit > len(s.entries) {
		limit = len(s.entries)
	}
	out := make([]review.Entry, limit)
	copy(out, s.entries[:limit])
	return out
}
