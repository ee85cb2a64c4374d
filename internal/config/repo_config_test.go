package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"stax.dev/stax/internal/config"
)

func newRepoDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0700))
	return dir
}

func TestRepoConfig(t *testing.T) {
	t.Run("defaults to main when unset", func(t *testing.T) {
		dir := newRepoDir(t)

		trunk, err := config.GetTrunk(dir)
		require.NoError(t, err)
		require.Equal(t, "main", trunk)
		require.False(t, config.IsInitialized(dir))
	})

	t.Run("set trunk persists", func(t *testing.T) {
		dir := newRepoDir(t)

		require.NoError(t, config.SetTrunk(dir, "develop"))
		require.True(t, config.IsInitialized(dir))

		trunk, err := config.GetTrunk(dir)
		require.NoError(t, err)
		require.Equal(t, "develop", trunk)
	})

	t.Run("overwriting the trunk keeps the file valid", func(t *testing.T) {
		dir := newRepoDir(t)

		require.NoError(t, config.SetTrunk(dir, "main"))
		require.NoError(t, config.SetTrunk(dir, "develop"))

		trunk, err := config.GetTrunk(dir)
		require.NoError(t, err)
		require.Equal(t, "develop", trunk)
	})
}
