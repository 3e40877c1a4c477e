package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fmd/internal/domain"
)

// newOptionsCmd builds a throwaway command carrying the shared download
// flags, with the path globals cleared and the config dirs pointed at temp
// directories.
func newOptionsCmd(t *testing.T) *cobra.Command {
	t.Helper()
	configDir = t.TempDir()
	dataDir = t.TempDir()
	outputPath = ""
	modsPath = ""

	cmd := &cobra.Command{Use: "test"}
	addDownloadFlags(cmd)
	return cmd
}

func writeConfig(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0644))
}

func TestBuildOptions_Defaults(t *testing.T) {
	cmd := newOptionsCmd(t)

	ropts, dopts, err := buildOptions(cmd)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultFactorioVersion, ropts.FactorioVersion)
	assert.True(t, ropts.InstallOptional)
	assert.False(t, ropts.InstallOptionalAll)
	assert.Equal(t, domain.DefaultMaxDepth, ropts.MaxDepth)
	assert.Equal(t, "mods", dopts.OutputPath)
	assert.Equal(t, domain.DefaultConcurrency, dopts.Concurrency)
	assert.True(t, dopts.ContinueOnError)
}

func TestBuildOptions_ConfigFileApplies(t *testing.T) {
	cmd := newOptionsCmd(t)
	writeConfig(t, `
factorio_version: "1.1"
concurrency: 8
install_optional: false
mods_path: /srv/factorio/mods
`)

	ropts, dopts, err := buildOptions(cmd)
	require.NoError(t, err)
	assert.Equal(t, "1.1", ropts.FactorioVersion)
	assert.False(t, ropts.InstallOptional)
	assert.Equal(t, 8, dopts.Concurrency)
	assert.Equal(t, "/srv/factorio/mods", modsPath)
}

func TestBuildOptions_FlagsWinOverConfig(t *testing.T) {
	cmd := newOptionsCmd(t)
	writeConfig(t, `
factorio_version: "1.1"
concurrency: 8
install_optional: false
`)

	require.NoError(t, cmd.Flags().Set("factorio-version", "2.0"))
	require.NoError(t, cmd.Flags().Set("concurrency", "2"))
	require.NoError(t, cmd.Flags().Set("optional", "true"))

	ropts, dopts, err := buildOptions(cmd)
	require.NoError(t, err)
	assert.Equal(t, "2.0", ropts.FactorioVersion)
	assert.True(t, ropts.InstallOptional)
	assert.Equal(t, 2, dopts.Concurrency)
}

func TestBuildOptions_OutputFlagWins(t *testing.T) {
	cmd := newOptionsCmd(t)
	writeConfig(t, "output_path: /from/config\n")
	outputPath = "/from/flag"

	_, dopts, err := buildOptions(cmd)
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", dopts.OutputPath)
}

func TestMaybeUpdateModList(t *testing.T) {
	modsPath = t.TempDir()
	getEnable = true
	jsonOutput = true
	t.Cleanup(func() {
		modsPath = ""
		jsonOutput = false
	})

	res := &domain.Result{
		Downloaded: []string{"Some_Mod", "flib"},
		Files:      []string{"Some_Mod_1.2.3.zip", "flib_0.16.3.zip"},
	}
	require.NoError(t, maybeUpdateModList(res))

	data, err := os.ReadFile(filepath.Join(modsPath, "mod-list.json"))
	require.NoError(t, err)
	var list struct {
		Mods []struct {
			Name    string `json:"name"`
			Enabled bool   `json:"enabled"`
		} `json:"mods"`
	}
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list.Mods, 2)
	// Bare names come from the archive file names, version suffix stripped.
	assert.Equal(t, "Some_Mod", list.Mods[0].Name)
	assert.Equal(t, "flib", list.Mods[1].Name)
	assert.True(t, list.Mods[0].Enabled)
}

func TestMaybeUpdateModList_NoModsPath(t *testing.T) {
	modsPath = ""

	res := &domain.Result{Files: []string{"flib_0.16.3.zip"}}
	require.NoError(t, maybeUpdateModList(res))
}

func TestGetCmd_Structure(t *testing.T) {
	assert.Equal(t, "get <mod-url|mod-id>", getCmd.Use)
	assert.NotEmpty(t, getCmd.Short)
	assert.NotEmpty(t, getCmd.Long)

	for _, name := range []string{"factorio-version", "mod-version", "optional", "optional-all", "max-depth", "concurrency", "continue-on-error", "enable"} {
		assert.NotNil(t, getCmd.Flags().Lookup(name), name)
	}
}

func TestBatchCmd_Structure(t *testing.T) {
	assert.Equal(t, "batch <file>", batchCmd.Use)
	assert.NotEmpty(t, batchCmd.Short)
	assert.NotNil(t, batchCmd.Flags().Lookup("concurrency"))
	assert.NotNil(t, batchCmd.Flags().Lookup("continue-on-error"))
}
