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

// Package registry manages the on-disk set of match records.
//
// Records live under a matches directory:
//
//	{dir}/{bucket}/{era}/{A}#{B}.match
//	{dir}/{bucket}/{A}#{B}.match        when B has no era
//
// where bucket is the side name when both sides agree and "cross" otherwise
// (see model.MatchKey). A record is written once and never rewritten by
// dxmatch; mapping tools edit it afterwards.
package registry

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"dirpx.dev/dxmatch/dxcore/catalog"
	"dirpx.dev/dxmatch/dxcore/model"
)

// ErrExists is returned by Create when the record file is already present.
var ErrExists = errors.New("registry: match record already exists")

// Registry is the matches directory.
type Registry struct {
	dir     string
	catalog catalog.Catalog
	logger  *slog.Logger
}

// New returns a Registry over dir. The catalog supplies the era of each
// key's B version. A nil logger means slog.Default().
func New(dir string, cat catalog.Catalog, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{dir: dir, catalog: cat, logger: logger}
}

// Dir returns the matches directory.
func (r *Registry) Dir() string {
	return r.dir
}

// Path returns the absolute record path of key.
func (r *Registry) Path(ctx context.Context, key model.MatchKey) (string, error) {
	if err := key.Validate(); err != nil {
		return "", err
	}
	era, err := r.catalog.Era(ctx, key.VersionB)
	if err != nil {
		return "", fmt.Errorf("registry: era of %s: %w", key.VersionB, err)
	}
	return filepath.Join(r.dir, key.RelPath(era)), nil
}

// Exists reports whether the record of key is present. It has no side
// effects.
func (r *Registry) Exists(ctx context.Context, key model.MatchKey) (bool, error) {
	path, err := r.Path(ctx, key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// Create writes rec to its path, creating directories as needed, and returns
// the path. It never overwrites: an existing file yields ErrExists.
func (r *Registry) Create(ctx context.Context, rec Record) (string, error) {
	path, err := r.Path(ctx, rec.Key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("registry: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrExists, path)
		}
		return "", fmt.Errorf("registry: %w", err)
	}
	if _, err := f.Write(rec.Bytes()); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("registry: writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("registry: closing %s: %w", path, err)
	}

	r.logger.Info("created match", "match", rec.Key.String(), "path", path)
	return path, nil
}

// Entry is a record found by Scan.
type Entry struct {
	Key    model.MatchKey
	Bucket string
	// Era is empty for records stored directly in the bucket.
	Era string
	// Path is relative to the matches directory.
	Path string
}

// Scan lists every record in bucket, era and file name order. Files that are
// not records are ignored; record names that cannot be parsed are logged and
// skipped. A missing matches directory is empty.
func (r *Registry) Scan() ([]Entry, error) {
	buckets, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("registry: %w", err)
	}

	var entries []Entry
	for _, b := range buckets {
		if !b.IsDir() {
			continue
		}
		bucketDir := filepath.Join(r.dir, b.Name())
		children, err := os.ReadDir(bucketDir)
		if err != nil {
			return nil, fmt.Errorf("registry: %w", err)
		}
		for _, c := range children {
			if !c.IsDir() {
				entries = r.appendEntry(entries, b.Name(), "", c.Name())
				continue
			}
			files, err := os.ReadDir(filepath.Join(bucketDir, c.Name()))
			if err != nil {
				return nil, fmt.Errorf("registry: %w", err)
			}
			for _, f := range files {
				if f.IsDir() {
					continue
				}
				entries = r.appendEntry(entries, b.Name(), c.Name(), f.Name())
			}
		}
	}
	return entries, nil
}

func (r *Registry) appendEntry(entries []Entry, bucket, era, name string) []Entry {
	if filepath.Ext(name) != model.MatchExt {
		return entries
	}
	key, err := model.ParseMatchPath(bucket, name)
	if err != nil {
		r.logger.Warn("skipping unrecognized match file", "bucket", bucket, "era", era, "file", name, "error", err)
		return entries
	}
	return append(entries, Entry{
		Key:    key,
		Bucket: bucket,
		Era:    era,
		Path:   filepath.Join(bucket, era, name),
	})
}

// Header returns the first line of the record at entry.
func (r *Registry) Header(entry Entry) (string, error) {
	f, err := os.Open(filepath.Join(r.dir, entry.Path))
	if err != nil {
		return "", err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if sc.Scan() {
		return sc.Text(), nil
	}
	return "", sc.Err()
}
