package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Structure(t *testing.T) {
	assert.Equal(t, "fmd", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.True(t, rootCmd.SilenceUsage)
	assert.True(t, rootCmd.SilenceErrors)

	for _, name := range []string{"config", "data", "output", "mods-path", "verbose", "json", "no-progress"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestAppDirs_Explicit(t *testing.T) {
	configDir = "/tmp/cfg"
	dataDir = "/tmp/dat"

	cfgDir, datDir, err := appDirs()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/cfg", cfgDir)
	assert.Equal(t, "/tmp/dat", datDir)
}

func TestAppDirs_Defaults(t *testing.T) {
	configDir = ""
	dataDir = ""

	cfgDir, datDir, err := appDirs()
	require.NoError(t, err)
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "fmd"), cfgDir)
	assert.Equal(t, filepath.Join(home, ".local", "share", "fmd"), datDir)
}

func TestInitService(t *testing.T) {
	// Use temp directories to avoid polluting real config
	configDir = t.TempDir()
	dataDir = t.TempDir()

	svc, err := initService()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, svc.Close())
	})

	// The history database is created under the data directory.
	_, err = os.Stat(filepath.Join(dataDir, "fmd.db"))
	assert.NoError(t, err)
}

func TestHistoryCmd_Structure(t *testing.T) {
	assert.Equal(t, "history", historyCmd.Use)
	assert.NotEmpty(t, historyCmd.Short)
	assert.NotNil(t, historyCmd.Flags().Lookup("limit"))
	assert.NotNil(t, historyCmd.Flags().Lookup("prune"))
}
