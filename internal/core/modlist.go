package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ModListEntry is one row of Factorio's mod-list.json.
type ModListEntry struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// modList matches the on-disk shape of mod-list.json.
type modList struct {
	Mods []ModListEntry `json:"mods"`
}

// UpdateModList appends downloaded mods to mod-list.json in modsDir,
// setting their enablement flag. Mods already listed are left untouched.
// names may be archive file names ("flib_0.16.3.zip"); the bare mod name
// is everything before the version suffix. Returns how many entries were
// added; the file is rewritten only when that is non-zero.
func UpdateModList(modsDir string, names []string, enabled bool) (int, error) {
	listPath := filepath.Join(modsDir, "mod-list.json")

	list := modList{Mods: []ModListEntry{}}
	data, err := os.ReadFile(listPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &list); err != nil {
			return 0, fmt.Errorf("parsing %s: %w", listPath, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Start a fresh list.
	default:
		return 0, fmt.Errorf("reading %s: %w", listPath, err)
	}

	existing := make(map[string]struct{}, len(list.Mods))
	for _, entry := range list.Mods {
		existing[entry.Name] = struct{}{}
	}

	added := 0
	for _, name := range names {
		bare := bareModName(name)
		if _, ok := existing[bare]; ok {
			continue
		}
		existing[bare] = struct{}{}
		list.Mods = append(list.Mods, ModListEntry{Name: bare, Enabled: enabled})
		added++
	}
	if added == 0 {
		return 0, nil
	}

	out, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encoding mod list: %w", err)
	}
	if err := os.WriteFile(listPath, out, 0644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", listPath, err)
	}
	return added, nil
}

// bareModName strips the "_<version>.zip" suffix from an archive file
// name. Mod names may themselves contain underscores, so the cut is at
// the last one.
func bareModName(name string) string {
	if !strings.HasSuffix(name, ".zip") || !strings.Contains(name, "_") {
		return name
	}
	return name[:strings.LastIndex(name, "_")]
}
