package core

import (
	"fmt"
	"strings"

	"fmd/internal/domain"
)

// SelectRelease picks the release to install for a mod.
//
// A root mod with an exact requested version must match it exactly
// (domain.ErrVersionNotFound otherwise). Everything else gets the newest
// release whose declared Factorio version is compatible with the target;
// "newest" is the last entry of the portal's oldest-first release list.
func SelectRelease(info *domain.ModInfo, opts domain.ResolveOptions, isRoot bool) (*domain.Release, error) {
	if isRoot && opts.TargetModVersion != "" {
		for i := range info.Releases {
			if info.Releases[i].Version == opts.TargetModVersion {
				return &info.Releases[i], nil
			}
		}
		return nil, fmt.Errorf("%w: %s has no release %s", domain.ErrVersionNotFound, info.Name, opts.TargetModVersion)
	}

	var compatible *domain.Release
	for i := range info.Releases {
		if versionCompatible(info.Releases[i].InfoJSON.FactorioVersion, opts.FactorioVersion) {
			compatible = &info.Releases[i]
		}
	}
	if compatible == nil {
		return nil, fmt.Errorf("%w: %s (Factorio %s)", domain.ErrNoCompatibleRelease, info.Name, opts.FactorioVersion)
	}
	return compatible, nil
}

// versionCompatible reports whether a release's declared Factorio version
// satisfies the target. Majors must match; a target with a minor component
// ("1.1") also pins the minor, while a bare major ("1") accepts any minor.
func versionCompatible(releaseVersion, targetVersion string) bool {
	release := strings.Split(releaseVersion, ".")
	target := strings.Split(targetVersion, ".")
	if release[0] == "" || target[0] == "" {
		return false
	}
	if release[0] != target[0] {
		return false
	}
	if len(target) == 1 {
		return true
	}
	return len(release) >= 2 && release[1] == target[1]
}
