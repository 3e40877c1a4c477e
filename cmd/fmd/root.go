package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"fmd/internal/core"
	"fmd/internal/registry"
	"fmd/internal/storage/config"
	"fmd/internal/storage/db"
)

var (
	version = "0.3.0"

	// Global flags
	configDir  string
	dataDir    string
	outputPath string
	modsPath   string
	verbose    bool
	jsonOutput bool
	noProgress bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fmd",
	Short: "Factorio mod downloader with dependency resolution",
	Long: `fmd downloads Factorio mods from the mod portal together with their
transitive dependencies, honoring optional-dependency policy and target
Factorio version compatibility.

Mods can be given as portal URLs, bare identifiers, or id@version.`,
	Version:       version,
	SilenceUsage:  true, // Runtime errors should not print usage
	SilenceErrors: true, // We handle error output in Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default: ~/.config/fmd)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default: ~/.local/share/fmd)")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "directory to write mod archives to")
	rootCmd.PersistentFlags().StringVar(&modsPath, "mods-path", "", "Factorio mods directory; when set, mod-list.json is updated after downloads")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output results in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable the interactive progress view")

	cobra.OnInitialize(func() {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	})
}

// Execute runs the root command. Exit codes: 0 = success, 1 = error.
// When --json is set and an error occurs, prints {"error":"..."} to stdout.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if jsonOutput {
			fmt.Printf(`{"error":%q}`+"\n", err.Error())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// appDirs resolves the config and data directories, applying defaults.
func appDirs() (cfgDir, datDir string, err error) {
	cfgDir, datDir = configDir, dataDir
	if cfgDir != "" && datDir != "" {
		return cfgDir, datDir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", "", fmt.Errorf("home directory: %w", err)
	}
	if cfgDir == "" {
		cfgDir = filepath.Join(homeDir, ".config", "fmd")
	}
	if datDir == "" {
		datDir = filepath.Join(homeDir, ".local", "share", "fmd")
	}
	return cfgDir, datDir, nil
}

// loadConfig reads the app config from the effective config directory.
func loadConfig() (*config.Config, error) {
	cfgDir, _, err := appDirs()
	if err != nil {
		return nil, err
	}
	return config.Load(cfgDir)
}

// initService creates the download service with a shared portal client
// and the download history database.
func initService() (*core.Service, error) {
	_, datDir, err := appDirs()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(datDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	history, err := db.New(filepath.Join(datDir, "fmd.db"))
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	httpClient := &http.Client{}
	portal := registry.New(httpClient)
	return core.NewService(portal, httpClient, history), nil
}
