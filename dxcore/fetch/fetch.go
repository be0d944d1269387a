/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package fetch downloads files into a local cache keyed by destination path.
//
// A destination that already exists is trusted as-is: there is no checksum
// verification and no re-download. Downloads are written to a temporary file
// next to the destination and renamed into place, so an interrupted transfer
// never leaves a truncated file that would later be trusted.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds FetchAll when no limit is configured.
const DefaultConcurrency = 8

// Job is a single download.
type Job struct {
	URL  string
	Dest string
}

// Fetcher downloads a URL to a destination path unless the path exists.
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) error
	FetchAll(ctx context.Context, jobs []Job) error
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithConcurrency sets how many downloads FetchAll runs at once.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// Client is the HTTP Fetcher.
type Client struct {
	http        *http.Client
	concurrency int
	logger      *slog.Logger
}

var _ Fetcher = (*Client)(nil)

// New returns a Client.
func New(opts ...Option) *Client {
	c := &Client{
		http:        &http.Client{Timeout: 10 * time.Minute},
		concurrency: DefaultConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch downloads rawURL to dest unless dest already exists. Parent
// directories are created as needed.
func (c *Client) Fetch(ctx context.Context, rawURL, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("fetch: stat %s: %w", dest, err)
	}

	c.logger.Info("downloading", "url", redact(rawURL), "dest", dest)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("fetch: %s: %w", redact(rawURL), err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: GET %s: %w", redact(rawURL), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch: GET %s: unexpected status %s", redact(rawURL), resp.Status)
	}

	return writeAtomic(dest, resp.Body)
}

// FetchAll runs every job with bounded concurrency and returns the first
// error. Jobs are independent: each one writes its own destination, so their
// order does not matter.
func (c *Client) FetchAll(ctx context.Context, jobs []Job) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, job := range jobs {
		g.Go(func() error {
			return c.Fetch(ctx, job.URL, job.Dest)
		})
	}
	return g.Wait()
}

func writeAtomic(dest string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("fetch: creating directory for %s: %w", dest, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return fmt.Errorf("fetch: creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("fetch: writing %s: %w", dest, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("fetch: chmod %s: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("fetch: closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("fetch: renaming to %s: %w", dest, err)
	}

	success = true
	return nil
}

// redact strips credentials and query strings, which may hold signatures.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "[invalid url]"
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
