package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"fmd/internal/domain"
)

// Config holds persistent application settings. Keys absent from the file
// keep their defaults; explicit false/zero values in the file win.
type Config struct {
	OutputPath         string `yaml:"output_path"`
	ModsPath           string `yaml:"mods_path"`
	FactorioVersion    string `yaml:"factorio_version"`
	Concurrency        int    `yaml:"concurrency"`
	ContinueOnError    bool   `yaml:"continue_on_error"`
	InstallOptional    bool   `yaml:"install_optional"`
	InstallOptionalAll bool   `yaml:"install_optional_all"`
	MaxDepth           int    `yaml:"max_depth"`
}

// Default returns the documented default configuration.
func Default() *Config {
	return &Config{
		OutputPath:      "mods",
		FactorioVersion: domain.DefaultFactorioVersion,
		Concurrency:     domain.DefaultConcurrency,
		ContinueOnError: true,
		InstallOptional: true,
		MaxDepth:        domain.DefaultMaxDepth,
	}
}

// Load reads config.yaml from the given directory. A missing file yields
// the defaults.
func Load(configDir string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(configDir, "config.yaml"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to config.yaml in the given directory.
func (c *Config) Save(configDir string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ResolveOptions converts the file config into resolver options.
func (c *Config) ResolveOptions() domain.ResolveOptions {
	return domain.ResolveOptions{
		FactorioVersion:    c.FactorioVersion,
		InstallOptional:    c.InstallOptional,
		InstallOptionalAll: c.InstallOptionalAll,
		MaxDepth:           c.MaxDepth,
	}
}

// DownloadOptions converts the file config into downloader options.
func (c *Config) DownloadOptions() domain.DownloadOptions {
	return domain.DownloadOptions{
		OutputPath:      c.OutputPath,
		Concurrency:     c.Concurrency,
		ContinueOnError: c.ContinueOnError,
	}
}
