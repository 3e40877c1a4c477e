package domain

// ModInfo is the mod portal's metadata document for a single mod.
type ModInfo struct {
	Name           string    `json:"name"`
	Title          string    `json:"title"`
	Summary        string    `json:"summary"`
	DownloadsCount uint64    `json:"downloads_count"`
	Owner          string    `json:"owner"`
	Releases       []Release `json:"releases"`
}

// Release is one published version of a mod. The portal returns releases
// ordered oldest-first; release selection relies on that ordering.
type Release struct {
	Version     string   `json:"version"`
	DownloadURL string   `json:"download_url"`
	FileName    string   `json:"file_name"`
	ReleasedAt  string   `json:"released_at"`
	SHA1        string   `json:"sha1"`
	InfoJSON    InfoJSON `json:"info_json"`
}

// InfoJSON mirrors the info.json fragment the portal embeds per release.
type InfoJSON struct {
	FactorioVersion string   `json:"factorio_version"`
	Dependencies    []string `json:"dependencies"`
}

// Dependency is a single parsed dependency declaration.
// Incompatibility declarations ("!mod") never produce a Dependency.
type Dependency struct {
	Name     string
	Optional bool
}

// PlanEntry is the minimal record needed to fetch and store one artifact.
type PlanEntry struct {
	ModName  string
	Version  string
	FileName string
}

// baseDependencies are shipped with the game itself and are never resolved
// or downloaded. Official expansions and the engine pseudo-mods.
var baseDependencies = map[string]struct{}{
	"base":           {},
	"core":           {},
	"freeplay":       {},
	"elevated-rails": {},
	"quality":        {},
	"space-age":      {},
}

// IsBaseDependency reports whether name identifies functionality bundled
// with the game rather than a downloadable mod.
func IsBaseDependency(name string) bool {
	_, ok := baseDependencies[name]
	return ok
}
