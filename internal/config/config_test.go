package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DUET_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "self", cfg.User.ID)
	require.InDelta(t, 0.25, cfg.Swipe.Threshold, 1e-9)
	require.Equal(t, 300, cfg.Swipe.CommitMs)
	require.Equal(t, 180, cfg.Swipe.SnapMs)
	require.Equal(t, 3, cfg.Swipe.StackDepth)
	require.Equal(t, "http://localhost:5000", cfg.Verify.BaseURL)
	require.Equal(t, "https://ifsc.razorpay.com", cfg.Bank.BaseURL)
	require.Equal(t, "DUET_BANK_API_KEY", cfg.Bank.APIKeyEnv)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[user]
id = "jas"

[swipe]
threshold = 0.4
commit_ms = 250

[verify]
base_url = "http://verify.local:8080"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	t.Setenv("DUET_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "jas", cfg.User.ID)
	require.InDelta(t, 0.4, cfg.Swipe.Threshold, 1e-9)
	require.Equal(t, 250, cfg.Swipe.CommitMs)
	require.Equal(t, "http://verify.local:8080", cfg.Verify.BaseURL)
	// untouched keys keep defaults
	require.Equal(t, 180, cfg.Swipe.SnapMs)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("DUET_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	cfg.Swipe.Threshold = 0.3
	cfg.Swipe.StackDepth = 5
	cfg.UI.Accent = "mauve"
	require.NoError(t, Save(cfg))

	got, err := Load()
	require.NoError(t, err)
	require.InDelta(t, 0.3, got.Swipe.Threshold, 1e-9)
	require.Equal(t, 5, got.Swipe.StackDepth)
	require.Equal(t, "mauve", got.UI.Accent)
}
