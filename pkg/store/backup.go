package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/Kenneth-cs/DeepReview/pkg/review"
)

// CreateBackup copies the current primary file into the single backup slot,
// overwriting any prior backup, and records the backup timestamp. It is a
// no-op while the primary file does not exist yet.
func (s *Store) CreateBackup(reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createBackupLocked(reason)
}

func (s *Store) createBackupLocked(reason string) error {
	data, err := os.ReadFile(s.primaryPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("store: read primary for backup: %w", err)
	}
	if err := atomicWrite(s.backupPath, data); err != nil {
		return fmt.Errorf("store: write backup: %w", err)
	}
	s.lastBackup = s.nowFn()
	logx.Infof("store: backup created (%s), %d bytes", reason, len(data))
	return nil
}

// RestoreFromBackup replaces the primary file with the backup snapshot and
// reloads the in-memory collection from it. Returns ErrBackupMissing when no
// backup exists. The backup is decoded before the primary file is touched, so
// a corrupt snapshot never destroys the current state.
func (s *Store) RestoreFromBackup() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.backupPath)
	if errors.Is(err, os.ErrNotExist) {
		return ErrBackupMissing
	}
	if err != nil {
		return fmt.Errorf("store: read backup: %w", err)
	}

	var restored []review.Entry
	if err := json.Unmarshal(data, &restored); err != nil {
		return fmt.Errorf("%w: backup: %v", ErrDeserialize, err)
	}

	if err := atomicWrite(s.primaryPath, data); err != nil {
		return err
	}
	sortByDateDesc(restored)
	s.entries = restored
	logx.Infof("store: restored %d entries from backup", len(restored))
	return nil
}

// LastBackupAt returns the time of the most recent backup, or zero when no
// backup has been made.
func (s *Store) LastBackupAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastBackup
}
