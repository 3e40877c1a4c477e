package core

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"fmd/internal/domain"
	"fmd/internal/registry"
	"fmd/internal/storage/db"
)

// Service orchestrates resolution and download for one or more root mods.
type Service struct {
	resolver   *Resolver
	downloader *Downloader
	history    *db.DB
}

// NewService wires the pipeline around a shared portal client. The
// history database is optional; pass nil to skip download bookkeeping.
func NewService(portal *registry.Client, httpClient *http.Client, history *db.DB) *Service {
	return &Service{
		resolver:   NewResolver(portal),
		downloader: NewDownloader(httpClient, portal),
		history:    history,
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.history != nil {
		return s.history.Close()
	}
	return nil
}

// Download resolves and downloads a single root mod with its dependency
// tree. The root accepts the same identifier forms as Batch, and an
// "id@version" shorthand overrides ropts.TargetModVersion when that is
// unset.
func (s *Service) Download(ctx context.Context, root string, ropts domain.ResolveOptions, dopts domain.DownloadOptions, progressFn ProgressFunc) *domain.Result {
	return s.run(ctx, []string{root}, ropts, dopts, progressFn)
}

// Batch resolves every root, merges the plans, deduplicates once across
// the whole batch, then downloads once. Per-root failures (bad identifier,
// unreachable root, no compatible root release) become Failed entries;
// they never abort the rest of the batch. The download stage honors
// dopts.ContinueOnError as usual.
func (s *Service) Batch(ctx context.Context, roots []string, ropts domain.ResolveOptions, dopts domain.DownloadOptions, progressFn ProgressFunc) *domain.Result {
	return s.run(ctx, roots, ropts, dopts, progressFn)
}

func (s *Service) run(ctx context.Context, roots []string, ropts domain.ResolveOptions, dopts domain.DownloadOptions, progressFn ProgressFunc) *domain.Result {
	start := time.Now()
	res := &domain.Result{}

	if len(roots) == 0 {
		res.AddFailure("batch", errors.New("no mod URLs provided"))
		return res.Finalize(start)
	}

	// Phase one: resolve every root before downloading anything, so a
	// shared dependency reached from two roots is planned only once.
	var plan []domain.PlanEntry
	for _, root := range roots {
		modID, err := registry.ExtractModID(root)
		if err != nil {
			res.AddFailure(root, err)
			continue
		}
		rootOpts := ropts
		if v := registry.ExtractVersionSpec(root); v != "" && rootOpts.TargetModVersion == "" {
			rootOpts.TargetModVersion = v
		}
		entries, err := s.resolver.Resolve(ctx, modID, rootOpts)
		if err != nil {
			res.AddFailure(modID, err)
			continue
		}
		plan = append(plan, entries...)
	}
	plan = DedupPlan(plan)
	log.Debug("resolution complete", "roots", len(roots), "plan", len(plan), "elapsed", time.Since(start))

	// Phase two: one download pass over the combined plan.
	dl := s.downloader.Run(ctx, plan, dopts, s.recordingProgress(plan, progressFn))
	res.Downloaded = dl.Downloaded
	res.Files = dl.Files
	res.Failed = append(res.Failed, dl.Failed...)
	res.TotalBytes = dl.TotalBytes
	return res.Finalize(start)
}

// recordingProgress tees downloader progress into the history database.
// History writes are best-effort; a bookkeeping failure never fails a
// download that already succeeded.
func (s *Service) recordingProgress(plan []domain.PlanEntry, next ProgressFunc) ProgressFunc {
	if s.history == nil {
		return next
	}
	byName := make(map[string]domain.PlanEntry, len(plan))
	for _, entry := range plan {
		byName[entry.ModName] = entry
	}
	return func(ev ProgressEvent) {
		if ev.Kind == ProgressDone && ev.Err == nil {
			entry := byName[ev.ModName]
			rec := db.DownloadRecord{
				ModName:      entry.ModName,
				Version:      entry.Version,
				FileName:     entry.FileName,
				SizeBytes:    ev.Downloaded,
				DownloadedAt: time.Now(),
			}
			if err := s.history.SaveDownload(rec); err != nil {
				log.Warn("recording download history", "mod", ev.ModName, "err", err)
			}
		}
		if next != nil {
			next(ev)
		}
	}
}
