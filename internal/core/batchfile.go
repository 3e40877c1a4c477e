package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BatchFile is a modpack manifest: metadata plus the list of mod URLs or
// identifiers to download together.
type BatchFile struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Version     string   `json:"version,omitempty"`
	Author      string   `json:"author,omitempty"`
	Mods        []string `json:"mods"`
}

// LoadBatchFile reads a batch file from disk. Files ending in .json are
// parsed as a BatchFile manifest; anything else is treated as a plain list
// with one mod URL or identifier per line, blank lines and #-comments
// ignored.
func LoadBatchFile(path string) (*BatchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var batch BatchFile
		if err := json.Unmarshal(data, &batch); err != nil {
			return nil, fmt.Errorf("parsing batch file %s: %w", path, err)
		}
		if len(batch.Mods) == 0 {
			return nil, fmt.Errorf("batch file %s lists no mods", path)
		}
		return &batch, nil
	}

	batch := &BatchFile{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		batch.Mods = append(batch.Mods, line)
	}
	if len(batch.Mods) == 0 {
		return nil, fmt.Errorf("batch file %s lists no mods", path)
	}
	return batch, nil
}
