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

// Package walker discovers version pairs that still lack a match record and
// creates the records.
//
// The walk is a breadth-first traversal of the version succession graph
// starting from fixed roots. For every successor edge (current, next) the
// walker tries the side combinations in Candidates order and stops at the
// first one that is viable, whether or not it produced a new record. Errors
// are contained per pair: a malformed version never aborts the traversal.
package walker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"dirpx.dev/dxmatch/dxcore/artifact"
	"dirpx.dev/dxmatch/dxcore/catalog"
	"dirpx.dev/dxmatch/dxcore/model"
	"dirpx.dev/dxmatch/dxcore/registry"
)

// Candidate is a side combination for an ordered version pair.
type Candidate struct {
	A model.Side
	B model.Side
}

// Candidates lists the side combinations in priority order. A merged jar is
// preferred whenever the B version has one.
var Candidates = []Candidate{
	{model.SideMerged, model.SideMerged},
	{model.SideClient, model.SideMerged},
	{model.SideClient, model.SideClient},
	{model.SideServer, model.SideMerged},
	{model.SideServer, model.SideServer},
}

// DefaultRoots are the earliest known client and server versions.
var DefaultRoots = []string{"rd-132211-launcher", "server-c1.2"}

// Registry is the part of the match registry the walker writes through.
type Registry interface {
	Exists(ctx context.Context, key model.MatchKey) (bool, error)
	Create(ctx context.Context, rec registry.Record) (string, error)
}

// Outcome is the result of trying one candidate.
type Outcome struct {
	// CanCreate is true when the pairing is viable: both jars resolved, or a
	// record already exists, or the pair was filtered out by era.
	CanCreate bool

	// DidCreate is true when a new record was written.
	DidCreate bool
}

// Result summarizes a walk.
type Result struct {
	// Created lists the new records in creation order.
	Created []model.MatchKey

	// Visited is the number of distinct versions expanded.
	Visited int
}

// Walker creates match records.
type Walker struct {
	catalog     catalog.Catalog
	registry    Registry
	resolver    artifact.JarResolver
	currentFile string
	logger      *slog.Logger
}

// Option configures a Walker.
type Option func(*Walker)

// WithCurrentFile sets the file that names the most recently created match.
// An empty path disables it.
func WithCurrentFile(path string) Option {
	return func(w *Walker) {
		w.currentFile = path
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Walker) {
		if l != nil {
			w.logger = l
		}
	}
}

// New returns a Walker.
func New(cat catalog.Catalog, reg Registry, res artifact.JarResolver, opts ...Option) *Walker {
	w := &Walker{
		catalog:  cat,
		registry: reg,
		resolver: res,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Setup tries to create the record for key.
//
// When era is non-empty and differs from the era of key.VersionB the pair is
// out of scope: it reports CanCreate without creating anything, so callers
// stop looking at lower priority candidates. An existing record is likewise
// viable but not created. A missing jar or launch manifest makes the
// candidate not viable.
func (w *Walker) Setup(ctx context.Context, key model.MatchKey, era string) (Outcome, error) {
	if err := key.Validate(); err != nil {
		return Outcome{}, err
	}

	eraB, err := w.catalog.Era(ctx, key.VersionB)
	if err != nil {
		return Outcome{}, err
	}
	if era != "" && era != eraB {
		return Outcome{CanCreate: true}, nil
	}

	exists, err := w.registry.Exists(ctx, key)
	if err != nil {
		return Outcome{}, err
	}
	if exists {
		return Outcome{CanCreate: true}, nil
	}

	jarA, okA, err := w.resolver.ResolveJar(ctx, key.VersionA, key.SideA)
	if err != nil {
		return Outcome{}, err
	}
	jarB, okB, err := w.resolver.ResolveJar(ctx, key.VersionB, key.SideB)
	if err != nil {
		return Outcome{}, err
	}
	manifestA, hasA, err := w.catalog.LaunchManifest(ctx, key.VersionA)
	if err != nil {
		return Outcome{}, err
	}
	manifestB, hasB, err := w.catalog.LaunchManifest(ctx, key.VersionB)
	if err != nil {
		return Outcome{}, err
	}
	if !okA || !okB || !hasA || !hasB {
		return Outcome{}, nil
	}

	libsA, err := w.libraries(ctx, key.SideA, manifestA)
	if err != nil {
		return Outcome{}, err
	}
	libsB, err := w.libraries(ctx, key.SideB, manifestB)
	if err != nil {
		return Outcome{}, err
	}

	detailsA, err := w.catalog.Details(ctx, key.VersionA)
	if err != nil {
		return Outcome{}, err
	}
	detailsB, err := w.catalog.Details(ctx, key.VersionB)
	if err != nil {
		return Outcome{}, err
	}

	rec := registry.NewRecord(key, jarA, jarB, libsA, libsB, detailsA, detailsB)
	w.logger.Debug("libraries", "match", key.String(),
		"shared", len(rec.Shared), "only_a", len(rec.UniqueA), "only_b", len(rec.UniqueB))

	if _, err := w.registry.Create(ctx, rec); err != nil {
		if errors.Is(err, registry.ErrExists) {
			return Outcome{CanCreate: true}, nil
		}
		return Outcome{}, err
	}
	if err := w.writeCurrent(key); err != nil {
		return Outcome{CanCreate: true, DidCreate: true}, err
	}
	return Outcome{CanCreate: true, DidCreate: true}, nil
}

// libraries returns the library paths of one side. Server jars bundle their
// dependencies, so a server side has none.
func (w *Walker) libraries(ctx context.Context, side model.Side, m model.LaunchManifest) ([]string, error) {
	if side == model.SideServer {
		return nil, nil
	}
	return w.resolver.Libraries(ctx, m)
}

func (w *Walker) writeCurrent(key model.MatchKey) error {
	if w.currentFile == "" {
		return nil
	}
	content := fmt.Sprintf("Current Match: %s → %s", key.VersionA, key.VersionB)
	if err := os.WriteFile(w.currentFile, []byte(content), 0o644); err != nil {
		return fmt.Errorf("walker: writing %s: %w", w.currentFile, err)
	}
	return nil
}

// SetupAny tries the Candidates for the ordered pair (a, b) in order and
// returns the key of the record it created, if any.
//
// The search stops at the first viable candidate even when it created
// nothing. A candidate that fails is logged and counts as not viable. Only
// context cancellation is returned as an error.
func (w *Walker) SetupAny(ctx context.Context, a, b, era string) (model.MatchKey, bool, error) {
	for _, c := range Candidates {
		key := model.NewMatchKey(c.A, a, c.B, b)
		out, err := w.Setup(ctx, key, era)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return model.MatchKey{}, false, ctxErr
			}
			w.logger.Warn("candidate failed", "match", key.String(), "error", err)
			if !out.DidCreate {
				continue
			}
		}
		if out.DidCreate {
			return key, true, nil
		}
		if out.CanCreate {
			break
		}
	}
	return model.MatchKey{}, false, nil
}

// Walk traverses the succession graph from roots and tries every edge with
// SetupAny.
//
// In SingleShot mode the whole walk ends at the first created record. In
// Exhaustive mode it continues until every reachable version has been
// expanded. Every successor is enqueued whether or not its pair produced a
// record, and each version is expanded at most once, so cycles terminate.
// A walk that creates nothing is not an error.
func (w *Walker) Walk(ctx context.Context, roots []string, mode model.WalkMode, era string) (Result, error) {
	if err := mode.Validate(); err != nil {
		return Result{}, err
	}

	var res Result
	visited := make(map[string]bool)
	frontier := append([]string(nil), roots...)

	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		current := frontier[0]
		frontier = frontier[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		res.Visited++

		details, err := w.catalog.Details(ctx, current)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return res, ctxErr
			}
			w.logger.Warn("skipping version", "version", current, "error", err)
			continue
		}

		for _, next := range details.Next {
			key, created, err := w.SetupAny(ctx, current, next, era)
			if err != nil {
				return res, err
			}
			if created {
				res.Created = append(res.Created, key)
				if mode == model.SingleShot {
					return res, nil
				}
			}
			if !visited[next] {
				frontier = append(frontier, next)
			}
		}
	}
	return res, nil
}
