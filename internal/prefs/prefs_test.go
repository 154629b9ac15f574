package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenAbsentFile(t *testing.T) {
	p, err := Open(filepath.Join(t.TempDir(), "prefs.json"))
	require.NoError(t, err)
	require.Empty(t, p.Get(KeyUserName))
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	_, err := Open(path)
	require.Error(t, err)
}

func TestSetGetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	p, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, p.Set(KeyUserName, "ken"))
	require.NoError(t, p.Set(KeyDeepSeekAPIKey, "sk-test"))
	require.Equal(t, "ken", p.Get(KeyUserName))

	reopened, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, "ken", reopened.Get(KeyUserName))
	require.Equal(t, "sk-test", reopened.Get(KeyDeepSeekAPIKey))
}

func TestSetCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "prefs.json")
	p, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, p.Set(KeyDashScopeAPIKey, "ds-test"))
	require.FileExists(t, path)
}

func TestDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	p, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, p.Set(KeyUserName, "ken"))
	require.NoError(t, p.Delete(KeyUserName))
	require.Empty(t, p.Get(KeyUserName))

	// Deleting a key that is not there is fine.
	require.NoError(t, p.Delete("neverSet"))

	reopened, err := Open(path)
	require.NoError(t, err)
	require.Empty(t, reopened.Get(KeyUserName))
}

func TestOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	p, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, p.Set(KeyUserName, "first"))
	require.NoError(t, p.Set(KeyUserName, "second"))
	require.Equal(t, "second", p.Get(KeyUserName))
}
