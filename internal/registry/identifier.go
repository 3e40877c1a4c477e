package registry

import (
	"fmt"
	"strings"

	"fmd/internal/domain"
)

// ExtractModID pulls the portal mod identifier out of user input.
//
// Accepted forms:
//   - bare identifier: "flib"
//   - identifier with version spec: "flib@0.16.3", "flib@latest"
//   - portal URL: "https://re146.dev/factorio/mods/en#mod/flib", or any URL
//     containing a "/mod/<id>" segment, with optional trailing slash and
//     query string
func ExtractModID(input string) (string, error) {
	input = strings.TrimSpace(input)

	if !strings.Contains(input, "://") {
		id, _, _ := strings.Cut(input, "@")
		if id != "" {
			return id, nil
		}
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidModID, input)
	}

	trimmed := strings.TrimSuffix(input, "/")
	if _, after, ok := strings.Cut(trimmed, "/mod/"); ok {
		id, _, _ := strings.Cut(after, "?")
		id = strings.TrimSuffix(id, "/")
		if id != "" {
			return id, nil
		}
		return "", fmt.Errorf("%w: empty mod segment in %q", domain.ErrInvalidModID, input)
	}

	// Fallback: last path segment of the URL.
	parts := strings.Split(trimmed, "/")
	last := parts[len(parts)-1]
	last, _, _ = strings.Cut(last, "?")
	if last != "" && !strings.Contains(last, "://") {
		return last, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidModID, input)
}

// ExtractVersionSpec returns the version requested via the "id@version"
// shorthand, or "" when none was given. "@latest" means default behavior
// and also yields "".
func ExtractVersionSpec(input string) string {
	input = strings.TrimSpace(input)
	if strings.Contains(input, "://") {
		return ""
	}
	_, version, ok := strings.Cut(input, "@")
	if !ok || version == "latest" {
		return ""
	}
	return version
}
