package core

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"fmd/internal/domain"
)

// ModInfoFetcher is the slice of the portal client the resolver needs.
type ModInfoFetcher interface {
	GetModInfo(ctx context.Context, modID string) (*domain.ModInfo, error)
}

// Resolver expands a root mod into a flat download plan by walking its
// dependency graph.
type Resolver struct {
	portal ModInfoFetcher
}

// NewResolver creates a resolver backed by the given portal client.
func NewResolver(portal ModInfoFetcher) *Resolver {
	return &Resolver{portal: portal}
}

// Resolve expands modID and its transitive dependencies into plan entries,
// in discovery order (each mod before its dependencies' subtrees).
//
// The pass owns a visited set, so within one root no mod is fetched twice
// even through dependency diamonds or cycles. Dependencies are resolved one
// at a time: the visited set has a single writer by design.
//
// Failures on the root itself (unreachable metadata, no compatible release)
// are returned as errors. Failures below the root are best-effort and never
// error: the branch contributes nothing and resolution continues.
//
// The plan may still name the same mod twice when two roots are resolved
// into one batch; DedupPlan handles that separately.
func (r *Resolver) Resolve(ctx context.Context, modID string, opts domain.ResolveOptions) ([]domain.PlanEntry, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = domain.DefaultMaxDepth
	}
	visited := map[string]struct{}{modID: {}}

	if domain.IsBaseDependency(modID) {
		return nil, nil
	}

	info, err := r.portal.GetModInfo(ctx, modID)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", modID, err)
	}
	release, err := SelectRelease(info, opts, true)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", modID, err)
	}
	log.Debug("resolved", "mod", info.Name, "version", release.Version, "depth", 0)

	plan := []domain.PlanEntry{{
		ModName:  info.Name,
		Version:  release.Version,
		FileName: release.FileName,
	}}
	return append(plan, r.expand(ctx, release, opts, visited, 0)...), nil
}

// expand walks one release's dependency list, recursing via resolveBranch.
// depth is the depth of the release's own mod.
func (r *Resolver) expand(ctx context.Context, release *domain.Release, opts domain.ResolveOptions, visited map[string]struct{}, depth int) []domain.PlanEntry {
	var plan []domain.PlanEntry
	for _, dep := range ParseDependencies(release.InfoJSON.Dependencies) {
		if !shouldInstall(dep, depth, opts) {
			continue
		}
		plan = append(plan, r.resolveBranch(ctx, dep.Name, opts, visited, depth+1)...)
	}
	return plan
}

// resolveBranch resolves one non-root dependency subtree. Branch failures
// are swallowed here; a broken dependency must not abort the whole tree.
func (r *Resolver) resolveBranch(ctx context.Context, modID string, opts domain.ResolveOptions, visited map[string]struct{}, depth int) []domain.PlanEntry {
	if depth > opts.MaxDepth {
		log.Debug("max depth exceeded, truncating", "mod", modID, "depth", depth)
		return nil
	}
	if _, seen := visited[modID]; seen {
		return nil
	}
	// Mark before recursing so diamonds are fetched once.
	visited[modID] = struct{}{}

	if domain.IsBaseDependency(modID) {
		return nil
	}

	info, err := r.portal.GetModInfo(ctx, modID)
	if err != nil {
		log.Debug("skipping unreachable dependency", "mod", modID, "err", err)
		return nil
	}
	release, err := SelectRelease(info, opts, false)
	if err != nil {
		log.Debug("skipping dependency without compatible release", "mod", modID, "err", err)
		return nil
	}
	log.Debug("resolved", "mod", info.Name, "version", release.Version, "depth", depth)

	plan := []domain.PlanEntry{{
		ModName:  info.Name,
		Version:  release.Version,
		FileName: release.FileName,
	}}
	return append(plan, r.expand(ctx, release, opts, visited, depth)...)
}

// shouldInstall applies the optional-dependency policy: required
// dependencies always install; the root's own optionals follow
// InstallOptional, every deeper optional follows InstallOptionalAll.
func shouldInstall(dep domain.Dependency, depth int, opts domain.ResolveOptions) bool {
	if !dep.Optional {
		return true
	}
	if depth == 0 {
		return opts.InstallOptional
	}
	return opts.InstallOptionalAll
}

// DedupPlan collapses a plan to one entry per mod name, first seen wins.
// Later duplicates are dropped even when they carry a different version.
// The input is not modified; the operation is idempotent.
func DedupPlan(plan []domain.PlanEntry) []domain.PlanEntry {
	seen := make(map[string]struct{}, len(plan))
	unique := make([]domain.PlanEntry, 0, len(plan))
	for _, entry := range plan {
		if _, dup := seen[entry.ModName]; dup {
			continue
		}
		seen[entry.ModName] = struct{}{}
		unique = append(unique, entry)
	}
	return unique
}
