package core_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fmd/internal/core"
	"fmd/internal/domain"
	"fmd/internal/registry"
)

// storageServer serves fake archives at /<name>/<version>.zip and records
// which paths were requested.
type storageServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []string
	missing  map[string]bool
}

func newStorageServer(t *testing.T) *storageServer {
	t.Helper()
	s := &storageServer{missing: make(map[string]bool)}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.URL.Path)
		miss := s.missing[r.URL.Path]
		s.mu.Unlock()
		if miss {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("archive:" + r.URL.Path))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *storageServer) requestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *storageServer) downloader() *core.Downloader {
	source := registry.NewWithBaseURLs(s.Client(), s.URL, s.URL)
	return core.NewDownloader(s.Client(), source)
}

func entry(name, version string) domain.PlanEntry {
	return domain.PlanEntry{ModName: name, Version: version, FileName: name + "_" + version + ".zip"}
}

func TestDownloaderRun(t *testing.T) {
	server := newStorageServer(t)
	dir := t.TempDir()

	plan := []domain.PlanEntry{
		entry("alpha", "1.0.0"),
		entry("beta", "2.1.0"),
		entry("gamma", "0.3.2"),
	}
	res := server.downloader().Run(context.Background(), plan, domain.DefaultDownloadOptions(dir), nil)

	assert.Empty(t, res.Failed)
	assert.ElementsMatch(t, []string{"alpha", "beta", "gamma"}, res.Downloaded)

	data, err := os.ReadFile(filepath.Join(dir, "alpha_1.0.0.zip"))
	require.NoError(t, err)
	assert.Equal(t, "archive:/alpha/1.0.0.zip", string(data))

	// Temp files are cleaned up.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), e.Name())
	}
	assert.Len(t, entries, 3)
}

func TestDownloaderRun_FailureDoesNotAbortSiblings(t *testing.T) {
	server := newStorageServer(t)
	server.missing["/gone/1.0.0.zip"] = true
	dir := t.TempDir()

	plan := []domain.PlanEntry{
		entry("alpha", "1.0.0"),
		entry("gone", "1.0.0"),
		entry("beta", "1.0.0"),
	}
	res := server.downloader().Run(context.Background(), plan, domain.DefaultDownloadOptions(dir), nil)

	assert.ElementsMatch(t, []string{"alpha", "beta"}, res.Downloaded)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "gone", res.Failed[0].Name)
	assert.Contains(t, res.Failed[0].Message, "HTTP 404")
}

func TestDownloaderRun_StopOnFirstFailure(t *testing.T) {
	server := newStorageServer(t)
	server.missing["/gone/1.0.0.zip"] = true
	dir := t.TempDir()

	opts := domain.DefaultDownloadOptions(dir)
	opts.ContinueOnError = false

	plan := []domain.PlanEntry{
		entry("alpha", "1.0.0"),
		entry("gone", "1.0.0"),
		entry("beta", "1.0.0"),
	}
	res := server.downloader().Run(context.Background(), plan, opts, nil)

	assert.Equal(t, []string{"alpha"}, res.Downloaded)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "gone", res.Failed[0].Name)
	// beta is never attempted.
	assert.Equal(t, 2, server.requestCount())
	_, err := os.Stat(filepath.Join(dir, "beta_1.0.0.zip"))
	assert.True(t, os.IsNotExist(err))
}

func TestDownloaderRun_Overwrites(t *testing.T) {
	server := newStorageServer(t)
	dir := t.TempDir()

	dest := filepath.Join(dir, "alpha_1.0.0.zip")
	require.NoError(t, os.WriteFile(dest, []byte("stale"), 0644))

	plan := []domain.PlanEntry{entry("alpha", "1.0.0")}
	res := server.downloader().Run(context.Background(), plan, domain.DefaultDownloadOptions(dir), nil)
	assert.Empty(t, res.Failed)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "archive:/alpha/1.0.0.zip", string(data))
}

func TestDownloaderRun_ProgressEvents(t *testing.T) {
	server := newStorageServer(t)
	dir := t.TempDir()

	var mu sync.Mutex
	var events []core.ProgressEvent
	progressFn := func(ev core.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
	}

	plan := []domain.PlanEntry{entry("alpha", "1.0.0"), entry("beta", "1.0.0")}
	res := server.downloader().Run(context.Background(), plan, domain.DefaultDownloadOptions(dir), progressFn)
	require.Empty(t, res.Failed)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, events)
	assert.Equal(t, core.ProgressPlanned, events[0].Kind)
	assert.Equal(t, 2, events[0].Planned)

	done := 0
	bytes := 0
	for _, ev := range events[1:] {
		switch ev.Kind {
		case core.ProgressDone:
			done++
			assert.NoError(t, ev.Err)
			assert.Positive(t, ev.Downloaded)
		case core.ProgressBytes:
			bytes++
			assert.Positive(t, ev.Downloaded)
		}
	}
	assert.Equal(t, 2, done)
	assert.Positive(t, bytes)
}

func TestDownloaderRun_EmptyPlan(t *testing.T) {
	server := newStorageServer(t)

	var events []core.ProgressEvent
	res := server.downloader().Run(context.Background(), nil, domain.DefaultDownloadOptions(t.TempDir()), func(ev core.ProgressEvent) {
		events = append(events, ev)
	})

	assert.Empty(t, res.Downloaded)
	assert.Empty(t, res.Failed)
	require.Len(t, events, 1)
	assert.Equal(t, core.ProgressPlanned, events[0].Kind)
	assert.Zero(t, events[0].Planned)
}
