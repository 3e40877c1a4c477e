package core

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"fmd/internal/domain"
)

// ArtifactFetchTimeout bounds a single artifact fetch, body included.
// Generous compared to the metadata timeout since archives can be large.
const ArtifactFetchTimeout = 120 * time.Second

// ProgressEvent describes downloader activity for progress rendering.
// Under concurrent downloads the callback is invoked from multiple
// goroutines; consumers must be safe for that.
type ProgressEvent struct {
	// Kind discriminates the event.
	Kind ProgressKind
	// Planned is the number of artifacts about to be downloaded
	// (ProgressPlanned only).
	Planned int
	// ModName identifies the artifact (all kinds except ProgressPlanned).
	ModName string
	// Downloaded and TotalBytes track one artifact's body transfer.
	// TotalBytes is 0 when the server did not declare a length.
	Downloaded int64
	TotalBytes int64
	// Err is set for ProgressDone when the artifact failed.
	Err error
}

// ProgressKind enumerates downloader progress event types.
type ProgressKind int

const (
	ProgressPlanned ProgressKind = iota
	ProgressBytes
	ProgressDone
)

// ProgressFunc receives progress events. May be nil.
type ProgressFunc func(ProgressEvent)

// ArtifactSource maps a plan entry to its download URL.
type ArtifactSource interface {
	ArtifactURL(modName, version string) string
}

// Downloader executes a deduplicated download plan against the storage
// host, writing each artifact under the output directory as its declared
// file name. Existing files are overwritten; when two entries name the
// same file the last writer wins.
type Downloader struct {
	httpClient *http.Client
	source     ArtifactSource
}

// NewDownloader creates a Downloader. If httpClient is nil a default
// client is used; per-artifact deadlines come from the request context.
func NewDownloader(httpClient *http.Client, source ArtifactSource) *Downloader {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Downloader{httpClient: httpClient, source: source}
}

// Run executes the plan and returns the collected outcome (Downloaded,
// Failed, TotalBytes; Success and Duration are the orchestrator's concern).
//
// With opts.ContinueOnError set, up to opts.Concurrency fetches run in
// parallel and one failure never cancels its siblings. Without it, entries
// run one at a time and the first failure stops the remainder of the plan.
// Either way the result sequences are completion-ordered.
func (d *Downloader) Run(ctx context.Context, plan []domain.PlanEntry, opts domain.DownloadOptions, progressFn ProgressFunc) *domain.Result {
	res := &domain.Result{}
	if progressFn != nil {
		progressFn(ProgressEvent{Kind: ProgressPlanned, Planned: len(plan)})
	}
	if len(plan) == 0 {
		return res
	}

	if !opts.ContinueOnError {
		for _, entry := range plan {
			size, err := d.fetchOne(ctx, entry, opts.OutputPath, progressFn)
			if err != nil {
				res.AddFailure(entry.ModName, err)
				break
			}
			res.AddDownloaded(entry.ModName, entry.FileName, uint64(size))
		}
		return res
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = domain.DefaultConcurrency
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, entry := range plan {
		g.Go(func() error {
			size, err := d.fetchOne(ctx, entry, opts.OutputPath, progressFn)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.AddFailure(entry.ModName, err)
				return nil
			}
			res.AddDownloaded(entry.ModName, entry.FileName, uint64(size))
			return nil
		})
	}
	g.Wait()
	return res
}

// fetchOne streams a single artifact to outputDir/<file_name>, writing to
// a temp file first so a partial download never replaces a complete one.
func (d *Downloader) fetchOne(ctx context.Context, entry domain.PlanEntry, outputDir string, progressFn ProgressFunc) (written int64, err error) {
	defer func() {
		if progressFn != nil {
			progressFn(ProgressEvent{Kind: ProgressDone, ModName: entry.ModName, Downloaded: written, Err: err})
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, ArtifactFetchTimeout)
	defer cancel()

	url := d.source.ArtifactURL(entry.ModName, entry.Version)
	log.Debug("downloading", "mod", entry.ModName, "version", entry.Version, "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: creating request: %v", domain.ErrDownloadFailed, err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("%w: HTTP %d", domain.ErrDownloadFailed, resp.StatusCode)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, fmt.Errorf("%w: creating output directory: %v", domain.ErrWriteFailed, err)
	}

	destPath := filepath.Join(outputDir, entry.FileName)
	tempPath := destPath + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
	}
	defer func() {
		file.Close()
		os.Remove(tempPath) // no-op after a successful rename
	}()

	reader := &progressReader{
		reader:     resp.Body,
		totalBytes: resp.ContentLength,
		modName:    entry.ModName,
		progressFn: progressFn,
	}
	written, err = io.Copy(file, reader)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
	}
	if err := file.Close(); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
	}
	if err := os.Rename(tempPath, destPath); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
	}
	return written, nil
}

// progressReader emits ProgressBytes events as an artifact body streams.
type progressReader struct {
	reader     io.Reader
	totalBytes int64
	modName    string
	downloaded int64
	progressFn ProgressFunc
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.downloaded += int64(n)
		if r.progressFn != nil {
			r.progressFn(ProgressEvent{
				Kind:       ProgressBytes,
				ModName:    r.modName,
				Downloaded: r.downloaded,
				TotalBytes: r.totalBytes,
			})
		}
	}
	return n, err
}
