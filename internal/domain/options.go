package domain

// Defaults for the caller-facing configuration surface.
const (
	DefaultFactorioVersion = "2.0"
	DefaultMaxDepth        = 10
	DefaultConcurrency     = 4
)

// ResolveOptions controls one dependency resolution pass.
// The value is copied per root and never mutated during a pass.
type ResolveOptions struct {
	// FactorioVersion is the target game version ("2.0", "1.1", ...).
	FactorioVersion string
	// TargetModVersion requests an exact release version for the root mod.
	// Empty means "latest compatible". Ignored for dependencies.
	TargetModVersion string
	// InstallOptional installs optional dependencies of the root mod.
	InstallOptional bool
	// InstallOptionalAll installs optional dependencies found below the root.
	InstallOptionalAll bool
	// MaxDepth bounds recursion; the root is depth 0 and each dependency
	// edge increments by one. Deeper branches are silently truncated.
	MaxDepth int
}

// DefaultResolveOptions returns the documented defaults.
func DefaultResolveOptions() ResolveOptions {
	return ResolveOptions{
		FactorioVersion: DefaultFactorioVersion,
		InstallOptional: true,
		MaxDepth:        DefaultMaxDepth,
	}
}

// DownloadOptions controls execution of a download plan.
type DownloadOptions struct {
	// OutputPath is the directory mod archives are written to.
	OutputPath string
	// Concurrency caps parallel fetches. Values < 1 mean DefaultConcurrency.
	Concurrency int
	// ContinueOnError keeps downloading after individual failures.
	// When false the plan is processed sequentially and stops at the
	// first failure.
	ContinueOnError bool
}

// DefaultDownloadOptions returns the documented defaults.
func DefaultDownloadOptions(outputPath string) DownloadOptions {
	return DownloadOptions{
		OutputPath:      outputPath,
		Concurrency:     DefaultConcurrency,
		ContinueOnError: true,
	}
}
