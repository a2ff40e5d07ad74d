// Package fetch retrieves remote dataset files into the working tree.
//
// A download is a single best-effort attempt written straight to its final
// path. An interrupted transfer leaves a partial file behind that the stage
// gate will treat as complete; delete it by hand to force a re-fetch.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"demoload/internal/fileutil"
	"demoload/internal/services"
)

// Downloader transfers url into dest. dest's parent directory already exists.
type Downloader interface {
	Download(ctx context.Context, url, dest string) error
}

// ProgressFunc returns a writer that observes the response body as it is
// copied. total is -1 when the server does not announce a length.
type ProgressFunc func(total int64, label string) io.Writer

// HTTPDownloader downloads over HTTP(S) following the client's default
// redirect policy.
type HTTPDownloader struct {
	client    *http.Client
	userAgent string
	progress  ProgressFunc
}

// Option configures an HTTPDownloader.
type Option func(*HTTPDownloader)

// WithClient replaces the HTTP client.
func WithClient(client *http.Client) Option {
	return func(d *HTTPDownloader) {
		if client != nil {
			d.client = client
		}
	}
}

// WithTimeout bounds the whole transfer. Zero disables the timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(d *HTTPDownloader) {
		d.client.Timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(d *HTTPDownloader) {
		d.userAgent = strings.TrimSpace(ua)
	}
}

// WithProgress installs a progress observer.
func WithProgress(fn ProgressFunc) Option {
	return func(d *HTTPDownloader) {
		d.progress = fn
	}
}

// NewHTTPDownloader builds a downloader with the supplied options.
func NewHTTPDownloader(opts ...Option) *HTTPDownloader {
	d := &HTTPDownloader{client: &http.Client{}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Download performs a GET and writes the body to dest.
func (d *HTTPDownloader) Download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("request %s: unexpected status %d", url, resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if d.progress != nil {
		if w := d.progress(resp.ContentLength, url); w != nil {
			body = io.TeeReader(resp.Body, w)
		}
	}
	if _, err := fileutil.WriteFrom(dest, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return nil
}

// Fetcher prepares the target location and delegates the transfer.
type Fetcher struct {
	downloader Downloader
}

// New returns a Fetcher backed by downloader.
func New(downloader Downloader) *Fetcher {
	return &Fetcher{downloader: downloader}
}

// Fetch downloads url to target, creating target's parent directories first.
// Failures are reported as services.ErrFetch.
func (f *Fetcher) Fetch(ctx context.Context, url, target string) error {
	if f == nil || f.downloader == nil {
		return services.Wrap(services.ErrFetch, "fetch", "download", "no downloader configured", nil)
	}
	if strings.TrimSpace(url) == "" {
		return services.Wrap(services.ErrFetch, "fetch", "download", "source url is empty", nil)
	}
	if err := fileutil.EnsureParent(target); err != nil {
		return services.Wrap(services.ErrFetch, "fetch", "prepare target", target, err)
	}
	if err := f.downloader.Download(ctx, url, target); err != nil {
		if errors.Is(err, context.Canceled) {
			return services.Wrap(services.ErrFetch, "fetch", "download", "interrupted, remove "+target+" before retrying", err)
		}
		return services.Wrap(services.ErrFetch, "fetch", "download", fmt.Sprintf("%s -> %s", url, target), err)
	}
	return nil
}

