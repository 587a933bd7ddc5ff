package secrets

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreAndFetch(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	require.NoError(t, Store("Bank", "sk-live-123"))

	got, err := Fetch("bank")
	require.NoError(t, err)
	require.Equal(t, "sk-live-123", got)

	// overwrite
	require.NoError(t, Store("bank", "sk-live-456"))
	got, err = Fetch("bank")
	require.NoError(t, err)
	require.Equal(t, "sk-live-456", got)

	_, err = Fetch("unknown")
	require.ErrorContains(t, err, "no key stored")
}

func TestKeyNotStoredInPlainText(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	require.NoError(t, Store("bank", "sk-live-123"))

	data, err := os.ReadFile(filepath.Join(dir, "duet", "keys.json"))
	require.NoError(t, err)
	require.NotContains(t, string(data), "sk-live-123")

	var kf keyFile
	require.NoError(t, json.Unmarshal(data, &kf))
	require.Contains(t, kf.Services, "bank")
}

func TestStorePermissions(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	require.NoError(t, Store("bank", "sk-live-123"))

	info, err := os.Stat(filepath.Join(dir, "duet"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o700), info.Mode().Perm(), "key directory is owner-only")

	info, err = os.Stat(filepath.Join(dir, "duet", "keys.json"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStoreRejectsEmptyService(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	require.Error(t, Store("  ", "value"))
}
