package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveValue_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dir", "config.yaml")

	require.NoError(t, SaveValue(path, "pager", "delta --dark"))
	require.NoError(t, SaveValue(path, "ui.search_lead_in", "3"))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	require.Equal(t, "delta --dark", cfg.Pager)
	require.Equal(t, 3, cfg.UI.SearchLeadIn)
}

func TestSaveValue_PreservesCommentsAndOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SaveValue(path, "debounce_ms", "350"))
	require.NoError(t, SaveValue(path, "theme.match", "#00ff00"))
	require.NoError(t, SaveValue(path, "ui.show_help_bar", "false"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# gitmon configuration")
	assert.Contains(t, string(data), "# Key hints under the status bar")
	assert.Contains(t, string(data), "debounce_ms: 350")
	assert.Contains(t, string(data), `match: "#00ff00"`)

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	require.Equal(t, 350, cfg.DebounceMs)
	require.Equal(t, "#00ff00", cfg.Theme.Match)
	require.False(t, cfg.UI.ShowHelpBar)
	require.Equal(t, Defaults().LogLimit, cfg.LogLimit)
}

func TestSaveValue_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := SaveValue(path, "watch.extra_ignores", "x")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown config key")

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr), "nothing written on error")
}

func TestSaveValue_RejectsNonMappingDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- a\n- b\n"), 0o600))

	require.Error(t, SaveValue(path, "pager", "less"))
}

func TestSaveValue_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, SaveValue(path, "log_limit", "20"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "config.yaml", entries[0].Name())
}

func TestScalarKeys_ReturnsCopy(t *testing.T) {
	keys := ScalarKeys()
	keys[0] = "changed"
	require.Equal(t, "debounce_ms", ScalarKeys()[0])
}
