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

// Package catalog provides read-only access to the version catalog: the
// per-version details documents and the launch manifests they point to.
//
// The catalog lives on disk in the layout of the mc-versions data set:
//
//	{dir}/version_manifest.json     main manifest: versions[{omniId, url}]
//	{dir}/version/{id}.json         details document of one version
//	{dir}/{url}                     launch manifest referenced by the main manifest
//
// A Store loads the main manifest once when it is opened and decodes the other
// documents lazily, keeping the most recently used ones in LRU caches. A Store
// is safe for concurrent use.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	dxerrors "dirpx.dev/dxmatch/dxcore/errors"
	"dirpx.dev/dxmatch/dxcore/model"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	manifestFile = "version_manifest.json"
	versionDir   = "version"

	// DefaultCacheSize bounds each of the two document caches.
	DefaultCacheSize = 1024
)

// Catalog is the read-only view of version metadata that the resolver,
// walker, registry and report depend on.
type Catalog interface {
	// Details returns the details document of id, or a *errors.NotFoundError
	// when the catalog has no such version.
	Details(ctx context.Context, id string) (model.Version, error)

	// LaunchManifest returns the launch manifest of id. ok is false when the
	// main manifest does not list id.
	LaunchManifest(ctx context.Context, id string) (m model.LaunchManifest, ok bool, err error)

	// Era returns the era of id, or "" when it has none.
	Era(ctx context.Context, id string) (string, error)
}

// Option configures a Store.
type Option func(*Store) error

// WithCacheSize sets the capacity of each document cache.
func WithCacheSize(n int) Option {
	return func(s *Store) error {
		if n <= 0 {
			return fmt.Errorf("catalog: cache size must be positive, got %d", n)
		}
		s.cacheSize = n
		return nil
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) error {
		if l == nil {
			return fmt.Errorf("catalog: logger cannot be nil")
		}
		s.logger = l
		return nil
	}
}

// Store is a Catalog backed by a directory on disk.
type Store struct {
	dir       string
	manifest  model.MainManifest
	cacheSize int
	logger    *slog.Logger

	details *lru.Cache[string, model.Version]
	launch  *lru.Cache[string, model.LaunchManifest]
}

var _ Catalog = (*Store)(nil)

// Open reads the main manifest under dir and returns a Store. An unreadable
// or malformed main manifest is an error; the individual details documents
// are only read on demand.
func Open(dir string, opts ...Option) (*Store, error) {
	s := &Store{
		dir:       dir,
		cacheSize: DefaultCacheSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return nil, fmt.Errorf("catalog: read main manifest: %w", err)
	}
	if err := json.Unmarshal(data, &s.manifest); err != nil {
		return nil, &dxerrors.UnmarshalError{Type: "MainManifest", Data: data, Reason: err.Error()}
	}

	if s.details, err = lru.New[string, model.Version](s.cacheSize); err != nil {
		return nil, err
	}
	if s.launch, err = lru.New[string, model.LaunchManifest](s.cacheSize); err != nil {
		return nil, err
	}

	s.logger.Debug("catalog opened", "dir", dir, "versions", len(s.manifest.Versions))
	return s, nil
}

// Dir returns the catalog data directory.
func (s *Store) Dir() string {
	return s.dir
}

// Details implements Catalog.
func (s *Store) Details(ctx context.Context, id string) (model.Version, error) {
	if v, ok := s.details.Get(id); ok {
		return v, nil
	}
	if err := ctx.Err(); err != nil {
		return model.Version{}, err
	}
	if id == "" || strings.ContainsAny(id, "/\\") || id == "." || id == ".." {
		return model.Version{}, &dxerrors.NotFoundError{Type: "Version", ID: id}
	}

	var v model.Version
	if err := readJSON(filepath.Join(s.dir, versionDir, id+".json"), &v); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.Version{}, &dxerrors.NotFoundError{Type: "Version", ID: id}
		}
		return model.Version{}, fmt.Errorf("catalog: version %s: %w", id, err)
	}
	s.details.Add(id, v)
	return v, nil
}

// LaunchManifest implements Catalog.
func (s *Store) LaunchManifest(ctx context.Context, id string) (model.LaunchManifest, bool, error) {
	if m, ok := s.launch.Get(id); ok {
		return m, true, nil
	}
	if err := ctx.Err(); err != nil {
		return model.LaunchManifest{}, false, err
	}

	entry, ok := s.manifest.Lookup(id)
	if !ok {
		s.logger.Warn("version not in main manifest", "version", id)
		return model.LaunchManifest{}, false, nil
	}

	var m model.LaunchManifest
	if err := readJSON(filepath.Join(s.dir, filepath.FromSlash(entry.URL)), &m); err != nil {
		return model.LaunchManifest{}, false, fmt.Errorf("catalog: launch manifest %s: %w", id, err)
	}
	s.launch.Add(id, m)
	return m, true, nil
}

// Era implements Catalog.
func (s *Store) Era(ctx context.Context, id string) (string, error) {
	if era, ok := model.PrefixEra(id); ok {
		return era, nil
	}
	v, err := s.Details(ctx, id)
	if err != nil {
		return "", err
	}
	return v.Era(), nil
}

// All returns every details document in the catalog ordered by release
// time. Documents that fail to decode are skipped and logged.
func (s *Store) All(ctx context.Context) ([]model.Version, error) {
	root := filepath.Join(s.dir, versionDir)
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("catalog: list versions: %w", err)
	}

	var out []model.Version
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		v, err := s.Details(ctx, strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("skipping version document", "file", e.Name(), "error", err)
			continue
		}
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReleaseTime < out[j].ReleaseTime
	})
	return out, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
