package core

import (
	"strings"

	"fmd/internal/domain"
)

// ParseDependency turns one raw dependency declaration into a typed record.
// Returns false when the declaration yields nothing to install: empty
// strings, incompatibility declarations ("!mod"), and base pseudo-mods.
//
// Grammar, applied in order against the trimmed string:
//
//	"!"        incompatibility, dropped entirely
//	"?", "(?)" optional marker
//	"~"        no-load-order marker, ignored
//
// Any version constraint (">= 1.2.0" and friends) is discarded; only the
// identity matters here.
func ParseDependency(raw string) (domain.Dependency, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return domain.Dependency{}, false
	}
	if strings.HasPrefix(s, "!") {
		return domain.Dependency{}, false
	}

	optional := false
	switch {
	case strings.HasPrefix(s, "(?)"):
		optional = true
		s = strings.TrimSpace(s[len("(?)"):])
	case strings.HasPrefix(s, "?"):
		optional = true
		s = strings.TrimSpace(s[1:])
	}
	if strings.HasPrefix(s, "~") {
		s = strings.TrimSpace(s[1:])
	}

	// The identifier runs up to the first comparison operator or blank,
	// whichever comes first. "mod >= 1.0" and "mod>=1.0" both parse.
	if i := strings.IndexAny(s, "<>="); i >= 0 {
		s = s[:i]
	}
	name := ""
	if fields := strings.Fields(s); len(fields) > 0 {
		name = fields[0]
	}

	if name == "" || domain.IsBaseDependency(name) {
		return domain.Dependency{}, false
	}
	return domain.Dependency{Name: name, Optional: optional}, true
}

// ParseDependencies parses a release's raw dependency list, keeping
// declaration order and dropping declarations that yield no record.
func ParseDependencies(raw []string) []domain.Dependency {
	deps := make([]domain.Dependency, 0, len(raw))
	for _, r := range raw {
		if dep, ok := ParseDependency(r); ok {
			deps = append(deps, dep)
		}
	}
	return deps
}
