// Package assets fetches the VAD model the Tauri backend needs at
// runtime. The fetch is idempotent: if the file already exists nothing
// touches the network. curl is tried first (more reliable for large
// blobs), with a plain HTTP fallback when curl is missing or fails.
package assets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/handycomputer/voice-input-launcher/internal/metrics"
)

// DefaultModelURL is where the VAD model is published.
const DefaultModelURL = "https://blob.handy.computer/silero_vad_v4.onnx"

// FetchError reports that every transport failed. The launch path that
// required the asset decides whether to abort or proceed without it.
type FetchError struct {
	URL     string
	CurlErr error
	HTTPErr error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s failed: curl: %v; http: %v", e.URL, e.CurlErr, e.HTTPErr)
}

// Config holds construction options for a Fetcher.
type Config struct {
	Logger *slog.Logger

	// Collector, when set, counts fetch attempts per transport.
	Collector *metrics.Collector

	// HTTPClient overrides the fallback transport's client. Nil selects
	// a client with a generous timeout suited to a ~2 MB model file.
	HTTPClient *http.Client

	// CurlPath overrides curl discovery. Empty means look up "curl" on
	// PATH; tests point this at a nonexistent path to force the
	// fallback.
	CurlPath string

	// Retries is the number of additional HTTP attempts after the first
	// fails. Zero means DefaultRetries; negative disables retries.
	Retries int

	// Backoff shapes the delay between HTTP retries. The zero value
	// selects DefaultBackoffConfig.
	Backoff BackoffConfig
}

// DefaultRetries is the number of HTTP retry attempts after the first
// failure. Blob-store downloads fail transiently often enough that one
// shot is not a fair trial.
const DefaultRetries = 2

// Fetcher downloads the asset if absent.
type Fetcher struct {
	logger    *slog.Logger
	collector *metrics.Collector
	client    *http.Client
	curlPath  string
	retries   int
	backoff   BackoffConfig
}

// NewFetcher creates a Fetcher from cfg.
func NewFetcher(cfg Config) *Fetcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	retries := cfg.Retries
	switch {
	case retries == 0:
		retries = DefaultRetries
	case retries < 0:
		retries = 0
	}
	bo := cfg.Backoff
	if bo == (BackoffConfig{}) {
		bo = DefaultBackoffConfig()
	}
	return &Fetcher{
		logger:    logger,
		collector: cfg.Collector,
		client:    client,
		curlPath:  cfg.CurlPath,
		retries:   retries,
		backoff:   bo,
	}
}

// EnsurePresent downloads url to path unless path already exists.
// Parent directories are created as needed. Returns a *FetchError when
// both transports fail; the file is never left half-written.
func (f *Fetcher) EnsurePresent(ctx context.Context, path, url string) error {
	if _, err := os.Stat(path); err == nil {
		f.logger.Debug("asset_present", "path", path)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating asset directory: %w", err)
	}

	f.logger.Info("asset_downloading", "url", url, "path", path)

	curlErr := f.fetchWithCurl(ctx, path, url)
	if curlErr == nil {
		f.logger.Info("asset_downloaded", "path", path, "transport", "curl")
		return nil
	}
	f.logger.Warn("asset_curl_failed", "error", curlErr, "fallback", "http")

	httpErr := f.fetchHTTPWithRetries(ctx, path, url)
	if httpErr == nil {
		f.logger.Info("asset_downloaded", "path", path, "transport", "http")
		return nil
	}

	return &FetchError{URL: url, CurlErr: curlErr, HTTPErr: httpErr}
}

// fetchHTTPWithRetries drives the fallback transport through jittered
// exponential backoff. Context cancellation ends the retry loop.
func (f *Fetcher) fetchHTTPWithRetries(ctx context.Context, path, url string) error {
	bo := newBackoff(f.backoff)

	var err error
	for attempt := 0; ; attempt++ {
		err = f.fetchWithHTTP(ctx, path, url)
		if err == nil || attempt >= f.retries || ctx.Err() != nil {
			return err
		}

		delay := bo.next()
		f.logger.Warn("asset_http_retry", "attempt", attempt+1, "delay", delay, "error", err)
		if serr := sleep(ctx, delay); serr != nil {
			return err
		}
	}
}

// fetchWithCurl downloads to a temp file next to path and renames into
// place on success.
func (f *Fetcher) fetchWithCurl(ctx context.Context, path, url string) error {
	curl := f.curlPath
	if curl == "" {
		found, err := exec.LookPath("curl")
		if err != nil {
			f.record("curl", "error")
			return fmt.Errorf("curl not found: %w", err)
		}
		curl = found
	}

	tmp := path + ".partial"
	cmd := exec.CommandContext(ctx, curl, "-fsSL", "-o", tmp, url)
	if err := cmd.Run(); err != nil {
		os.Remove(tmp)
		f.record("curl", "error")
		return fmt.Errorf("curl: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		f.record("curl", "error")
		return err
	}
	f.record("curl", "ok")
	return nil
}

// fetchWithHTTP is the fallback transport.
func (f *Fetcher) fetchWithHTTP(ctx context.Context, path, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		f.record("http", "error")
		return err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.record("http", "error")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.record("http", "error")
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	tmp := path + ".partial"
	out, err := os.Create(tmp)
	if err != nil {
		f.record("http", "error")
		return err
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tmp)
		f.record("http", "error")
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		f.record("http", "error")
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		f.record("http", "error")
		return err
	}
	f.record("http", "ok")
	return nil
}

func (f *Fetcher) record(transport, result string) {
	if f.collector != nil {
		f.collector.RecordAssetFetch(transport, result)
	}
}
