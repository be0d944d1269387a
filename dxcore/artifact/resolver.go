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

// Package artifact materializes the jars a match needs on local disk.
//
// Everything lives under one data root:
//
//	versions/{id}/{client,server}.jar                                   raw downloads
//	libraries/com/mojang/minecraft-{side}/{id}/minecraft-{side}-{id}.jar resolved main jars
//	libraries/{path}                                                   launch manifest libraries
//
// Resolution is idempotent: files that already exist are reused without
// verification.
package artifact

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"dirpx.dev/dxmatch/dxcore/catalog"
	dxerrors "dirpx.dev/dxmatch/dxcore/errors"
	"dirpx.dev/dxmatch/dxcore/fetch"
	"dirpx.dev/dxmatch/dxcore/model"
	"dirpx.dev/dxmatch/dxcore/tool"
)

const (
	versionsDir  = "versions"
	librariesDir = "libraries"
)

// JarResolver is what the walker and registry need from a Resolver.
type JarResolver interface {
	ResolveJar(ctx context.Context, id string, side model.Side) (path string, ok bool, err error)
	Libraries(ctx context.Context, m model.LaunchManifest) ([]string, error)
}

// Resolver resolves main jars and libraries under a data root.
type Resolver struct {
	root    string
	catalog catalog.Catalog
	fetcher fetch.Fetcher
	merger  tool.Merger
	logger  *slog.Logger
}

var _ JarResolver = (*Resolver)(nil)

// NewResolver returns a Resolver rooted at root. A nil logger means
// slog.Default().
func NewResolver(root string, cat catalog.Catalog, f fetch.Fetcher, m tool.Merger, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{root: root, catalog: cat, fetcher: f, merger: m, logger: logger}
}

// LibrariesDir returns the directory libraries and tools are stored in.
func (r *Resolver) LibrariesDir() string {
	return filepath.Join(r.root, librariesDir)
}

// JarPath returns the deterministic location of the resolved main jar of id
// for side, whether or not it exists.
func (r *Resolver) JarPath(id string, side model.Side) string {
	name := "minecraft-" + side.String()
	return filepath.Join(r.root, librariesDir, "com", "mojang", name, id, name+"-"+id+".jar")
}

// ResolveJar makes sure the main jar of version id for side exists and
// returns its path.
//
// Every jar download of the version is fetched first. ok is false, with a
// nil error, when the version cannot provide the side: the raw jar is missing,
// or side is merged and the version lacks either jar or shared mappings.
// A jar download keyed other than client or server, or a version without any
// jar download, is a *errors.ManifestError.
func (r *Resolver) ResolveJar(ctx context.Context, id string, side model.Side) (string, bool, error) {
	if err := side.Validate(); err != nil {
		return "", false, err
	}
	details, err := r.catalog.Details(ctx, id)
	if err != nil {
		return "", false, err
	}

	files, err := r.fetchRawJars(ctx, details)
	if err != nil {
		return "", false, err
	}

	dest := r.JarPath(id, side)
	if exists(dest) {
		return dest, true, nil
	}

	log := r.logger.With("version", id, "side", side.String())

	if side == model.SideMerged {
		client, server := files[model.SideClientStr], files[model.SideServerStr]
		if client == "" || server == "" || !details.SharedMappings {
			log.Debug("merged jar not available")
			return "", false, nil
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return "", false, err
		}
		if err := r.mergeInto(ctx, client, server, dest); err != nil {
			return "", false, fmt.Errorf("artifact: merging %s: %w", id, err)
		}
		return dest, true, nil
	}

	raw := files[side.String()]
	if raw == "" {
		log.Debug("raw jar not available")
		return "", false, nil
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", false, err
	}
	if err := linkOrCopy(raw, dest); err != nil {
		return "", false, fmt.Errorf("artifact: linking %s: %w", id, err)
	}
	return dest, true, nil
}

// fetchRawJars downloads every jar of the version and returns their local
// paths keyed "client" / "server".
func (r *Resolver) fetchRawJars(ctx context.Context, details model.Version) (map[string]string, error) {
	files := make(map[string]string, 2)
	var jobs []fetch.Job
	for _, key := range details.DownloadKeys() {
		d := details.Downloads[key]
		if !d.IsJar() {
			continue
		}
		if key != model.SideClientStr && key != model.SideServerStr {
			return nil, &dxerrors.ManifestError{Version: details.ID, Key: key, Reason: "unexpected jar download"}
		}
		file := filepath.Join(r.root, versionsDir, details.ID, key+".jar")
		files[key] = file
		jobs = append(jobs, fetch.Job{URL: d.URL, Dest: file})
	}
	if len(files) == 0 {
		return nil, &dxerrors.ManifestError{Version: details.ID, Reason: "expected at least one jar"}
	}
	if err := r.fetcher.FetchAll(ctx, jobs); err != nil {
		return nil, fmt.Errorf("artifact: downloading %s: %w", details.ID, err)
	}
	return files, nil
}

// Libraries fetches every library artifact of m into the libraries directory
// and returns the local paths in manifest order.
func (r *Resolver) Libraries(ctx context.Context, m model.LaunchManifest) ([]string, error) {
	artifacts := m.Artifacts()
	paths := make([]string, 0, len(artifacts))
	jobs := make([]fetch.Job, 0, len(artifacts))
	for _, a := range artifacts {
		rel := filepath.FromSlash(a.Path)
		if !filepath.IsLocal(rel) {
			return nil, &dxerrors.ManifestError{Version: m.ID, Key: a.Path, Reason: "library path escapes the libraries directory"}
		}
		p := filepath.Join(r.root, librariesDir, rel)
		paths = append(paths, p)
		jobs = append(jobs, fetch.Job{URL: a.URL, Dest: p})
	}
	if err := r.fetcher.FetchAll(ctx, jobs); err != nil {
		return nil, fmt.Errorf("artifact: libraries of %s: %w", m.ID, err)
	}
	return paths, nil
}

// mergeInto runs the merger against a sibling staging path and renames it to
// dest only on success, so dest never holds a partial merge.
func (r *Resolver) mergeInto(ctx context.Context, client, server, dest string) error {
	staging := filepath.Join(filepath.Dir(dest), ".merging-"+filepath.Base(dest))
	if err := os.Remove(staging); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := r.merger.MergeJars(ctx, client, server, staging); err != nil {
		os.Remove(staging)
		return err
	}
	if err := os.Rename(staging, dest); err != nil {
		os.Remove(staging)
		return err
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// linkOrCopy hard-links src to dst, copying when the two are on different
// devices.
func linkOrCopy(src, dst string) error {
	if err := os.Link(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".link-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
