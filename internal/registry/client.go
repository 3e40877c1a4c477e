package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"fmd/internal/domain"
)

const (
	defaultPortalURL  = "https://re146.dev/factorio/mods"
	defaultStorageURL = "https://mods-storage.re146.dev"

	// The portal serves browser traffic; a browser user agent avoids
	// being rejected as a bot.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// Metadata responses are small; a short timeout keeps resolution moving.
	modInfoTimeout = 30 * time.Second
)

// Client talks to the mod portal (metadata) and its storage host
// (artifacts). One Client is constructed at startup and shared by all
// fetches so connections are reused.
type Client struct {
	httpClient *http.Client
	portalURL  string
	storageURL string
}

// New creates a portal client. If httpClient is nil, a fresh client is
// used; per-call deadlines are applied via context, not client timeouts.
func New(httpClient *http.Client) *Client {
	return NewWithBaseURLs(httpClient, defaultPortalURL, defaultStorageURL)
}

// NewWithBaseURLs creates a client against custom portal/storage hosts.
func NewWithBaseURLs(httpClient *http.Client, portalURL, storageURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		httpClient: httpClient,
		portalURL:  portalURL,
		storageURL: storageURL,
	}
}

// GetModInfo fetches the metadata document for one mod.
// Non-2xx responses are reported as domain.ErrModInfoFetch.
func (c *Client) GetModInfo(ctx context.Context, modID string) (*domain.ModInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, modInfoTimeout)
	defer cancel()

	reqURL := fmt.Sprintf("%s/modinfo?id=%s", c.portalURL, url.QueryEscape(modID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrModInfoFetch, modID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %s: HTTP %d", domain.ErrModInfoFetch, modID, resp.StatusCode)
	}

	var info domain.ModInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: %s: decoding response: %v", domain.ErrModInfoFetch, modID, err)
	}
	return &info, nil
}

// ArtifactURL builds the storage URL for a mod release archive.
// The storage host names archives <name>/<version>.zip regardless of the
// release's declared file name.
func (c *Client) ArtifactURL(modName, version string) string {
	return fmt.Sprintf("%s/%s/%s.zip", c.storageURL, url.PathEscape(modName), url.PathEscape(version))
}
