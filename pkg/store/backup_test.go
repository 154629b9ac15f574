package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Kenneth-cs/DeepReview/pkg/review"
)

func TestCreateBackupNoPrimary(t *testing.T) {
	s, dir := newTestStore(t)
	require.NoError(t, s.CreateBackup("manual"))
	require.NoFileExists(t, filepath.Join(dir, backupFileName))
	require.True(t, s.LastBackupAt().IsZero())
}

func TestCreateBackupCopiesPrimary(t *testing.T) {
	fixed := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	s, dir := newTestStore(t, WithClock(func() time.Time { return fixed }))
	require.NoError(t, s.Load())
	require.NoError(t, s.Add(entryOn(t, fixed, review.Reflection{FreeWriting: "snapshot me"})))
	s.Flush()

	require.NoError(t, s.CreateBackup("manual"))

	primary, err := os.ReadFile(filepath.Join(dir, primaryFileName))
	require.NoError(t, err)
	backup, err := os.ReadFile(filepath.Join(dir, backupFileName))
	require.NoError(t, err)
	require.Equal(t, primary, backup)
	require.True(t, s.LastBackupAt().Equal(fixed))
}

func TestBackupOverwritesPriorSnapshot(t *testing.T) {
	s, dir := newTestStore(t)
	require.NoError(t, s.Load())

	require.NoError(t, s.Add(entryOn(t, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), review.Reflection{})))
	require.NoError(t, s.CreateBackup("first"))
	require.NoError(t, s.Add(entryOn(t, time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC), review.Reflection{})))
	s.Flush()
	require.NoError(t, s.CreateBackup("second"))

	primary, err := os.ReadFile(filepath.Join(dir, primaryFileName))
	require.NoError(t, err)
	backup, err := os.ReadFile(filepath.Join(dir, backupFileName))
	require.NoError(t, err)
	require.Equal(t, primary, backup)
}

func TestRestoreFromBackup(t *testing.T) {
	t.Run("missing backup", func(t *testing.T) {
		s, _ := newTestStore(t)
		require.ErrorIs(t, s.RestoreFromBackup(), ErrBackupMissing)
	})

	t.Run("restores entries and primary file", func(t *testing.T) {
		s, dir := newTestStore(t)
		require.NoError(t, s.Load())

		keep := entryOn(t, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), review.Reflection{FreeWriting: "original"})
		require.NoError(t, s.Add(keep))
		s.Flush()
		require.NoError(t, s.CreateBackup("before damage"))

		require.NoError(t, s.Delete(keep))
		// Delete's own pre-mutation backup replaced ours with identical content,
		// so the snapshot still holds the entry.
		require.Empty(t, s.All())

		require.NoError(t, s.RestoreFromBackup())

		all := s.All()
		require.Len(t, all, 1)
		require.Equal(t, keep.ID, all[0].ID)

		primary, err := os.ReadFile(filepath.Join(dir, primaryFileName))
		require.NoError(t, err)
		backup, err := os.ReadFile(filepath.Join(dir, backupFileName))
		require.NoError(t, err)
		require.Equal(t, backup, primary)
	})

	t.Run("corrupt backup leaves current state intact", func(t *testing.T) {
		s, dir := newTestStore(t)
		require.NoError(t, s.Load())
		e := entryOn(t, time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC), review.Reflection{})
		require.NoError(t, s.Add(e))
		s.Flush()

		require.NoError(t, os.WriteFile(filepath.Join(dir, backupFileName), []byte("not json"), 0o644))

		require.ErrorIs(t, s.RestoreFromBackup(), ErrDeserialize)
		require.Len(t, s.All(), 1)

		reopened, err := New(dir)
		require.NoError(t, err)
		require.NoError(t, reopened.Load())
		require.Len(t, reopened.All(), 1)
	})
}

func TestMutationsBackUpAsynchronously(t *testing.T) {
	s, dir := newTestStore(t)
	require.NoError(t, s.Load())

	require.NoError(t, s.Add(entryOn(t, time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC), review.Reflection{})))
	s.Flush()

	primary, err := os.ReadFile(filepath.Join(dir, primaryFileName))
	require.NoError(t, err)
	backup, err := os.ReadFile(filepath.Join(dir, backupFileName))
	require.NoError(t, err)
	require.Equal(t, primary, backup)
	require.False(t, s.LastBackupAt().IsZero())
}
