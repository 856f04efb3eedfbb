package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	base := t.TempDir()

	t.Run("relative paths are anchored at the base", func(t *testing.T) {
		paths, err := NewPaths(base, Default())
		require.NoError(t, err)

		assert.Equal(t, base, paths.BaseDir)
		assert.Equal(t, filepath.Join(base, "data", "matches"), paths.MatchesDir)
		assert.Equal(t, filepath.Join(base, "data", "reports"), paths.ReportsDir)
		assert.Equal(t, filepath.Join(base, "logs"), paths.LogsDir)
		assert.Equal(t, filepath.Join(base, "data", "reports", "deliveries.csv"), paths.GetReportPath("deliveries.csv"))
	})

	t.Run("absolute paths are kept", func(t *testing.T) {
		cfg := Default()
		other := t.TempDir()
		cfg.Pipeline.MatchesDir = other

		paths, err := NewPaths(base, cfg)
		require.NoError(t, err)
		assert.Equal(t, other, paths.MatchesDir)
	})

	t.Run("empty base uses the working directory", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)

		paths, err := NewPaths("", nil)
		require.NoError(t, err)
		assert.Equal(t, wd, paths.BaseDir)
	})

	t.Run("config base dir", func(t *testing.T) {
		cfg := Default()
		cfg.Paths.BaseDir = base

		paths, err := cfg.ResolvePaths()
		require.NoError(t, err)
		assert.Equal(t, base, paths.BaseDir)
	})
}

func TestPaths_EnsureDirectories(t *testing.T) {
	paths, err := NewPaths(t.TempDir(), Default())
	require.NoError(t, err)

	require.NoError(t, paths.EnsureDirectories())

	assert.DirExists(t, paths.ReportsDir)
	assert.DirExists(t, paths.LogsDir)
	assert.NoDirExists(t, paths.MatchesDir)
	assert.True(t, FileExists(paths.ReportsDir))
	assert.False(t, FileExists(filepath.Join(paths.BaseDir, "missing")))
}
