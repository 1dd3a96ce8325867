package cds

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"
)

// Fetcher downloads CDS files, keeping a copy under Cache so repeated runs
// work offline. An empty Cache disables caching.
type Fetcher struct {
	Client *http.Client
	Cache  string
	Logger *slog.Logger
}

// NewFetcher returns a Fetcher with a one-minute client timeout.
func NewFetcher(cache string, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		Client: &http.Client{Timeout: time.Minute},
		Cache:  cache,
		Logger: logger,
	}
}

// Fetch returns the body of rawURL, from the cache when present.
func (f *Fetcher) Fetch(
	ctx context.Context,
	rawURL string,
) (
	[]byte, error,
) {

	cached, err := f.cachePath(rawURL)
	if err != nil {
		return nil, err
	}
	if cached != "" {
		if body, err := os.ReadFile(cached); err == nil {
			f.Logger.Debug("cds cache hit", "url", rawURL, "path", cached)
			return body, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("cds: building request: %w", err)
	}

	f.Logger.Info("downloading", "url", rawURL)
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cds: fetching %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cds: fetching %s: %s", rawURL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cds: reading %s: %w", rawURL, err)
	}

	if cached != "" {
		if err := writeAtomic(cached, body); err != nil {
			f.Logger.Warn("could not cache download", "path", cached, "error", err)
		}
	}

	return body, nil
}

// FetchTable downloads a ReadMe and its data file and parses the table.
func (f *Fetcher) FetchTable(
	ctx context.Context,
	tableURL, readmeURL string,
) (
	*Table, error,
) {

	readme, err := f.Fetch(ctx, readmeURL)
	if err != nil {
		return nil, err
	}
	data, err := f.Fetch(ctx, tableURL)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(tableURL)
	if err != nil {
		return nil, fmt.Errorf("cds: %w", err)
	}

	cols, err := ParseReadMe(bytes.NewReader(readme), path.Base(u.Path))
	if err != nil {
		return nil, err
	}
	return ReadTable(bytes.NewReader(data), cols)
}

func (f *Fetcher) cachePath(
	rawURL string,
) (
	string, error,
) {

	if f.Cache == "" {
		return "", nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("cds: %w", err)
	}
	return filepath.Join(f.Cache, u.Host, filepath.FromSlash(path.Clean("/"+u.Path))), nil
}

func writeAtomic(
	name string,
	body []byte,
) (
	error,
) {

	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(name), ".download-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), name)
}
