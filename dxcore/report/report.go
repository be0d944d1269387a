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

// Package report gathers the state of all match records for display and
// export: which versions are connected, which era each belongs to and how far
// mapping work on each record has progressed.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"slices"
	"sync"

	"dirpx.dev/dxmatch/dxcore/catalog"
	"dirpx.dev/dxmatch/dxcore/model"
	"dirpx.dev/dxmatch/dxcore/registry"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the number of match files read at once.
const DefaultConcurrency = 16

// Match is one edge of the match graph.
type Match struct {
	// A and B are node keys ("side-version").
	A string `json:"a"`
	B string `json:"b"`
	// File is the record path, slash separated and prefixed with the
	// matches directory name.
	File string `json:"file"`
}

// VersionInfo describes a node of the match graph.
type VersionInfo struct {
	// ID is a graph-safe identifier derived from the node key.
	ID      string     `json:"id"`
	Type    model.Side `json:"type"`
	Version string     `json:"version"`
	Era     string     `json:"era"`
}

// Data is everything a report renders.
type Data struct {
	Matches  []Match                `json:"matches"`
	Versions map[string]VersionInfo `json:"versions"`

	// Status maps Match.File to the progress header of the record, for
	// records that have one.
	Status map[string]model.MatchStatus `json:"-"`

	// VersionsByEra lists the node keys of every catalog version per era,
	// in release order. Only filled when the catalog can enumerate itself.
	VersionsByEra map[string][]string `json:"-"`
}

// Lister is implemented by catalogs that can enumerate all versions.
type Lister interface {
	All(ctx context.Context) ([]model.Version, error)
}

// Source is what Collect reads records from.
type Source interface {
	Dir() string
	Scan() ([]registry.Entry, error)
	Header(entry registry.Entry) (string, error)
}

var unsafeID = regexp.MustCompile(`[-.~]`)

// NodeID turns a node key into an identifier usable in graph languages:
// '-', '.' and '~' become '_' and a leading digit gets a "v" prefix.
func NodeID(key string) string {
	id := unsafeID.ReplaceAllString(key, "_")
	if id != "" && id[0] >= '0' && id[0] <= '9' {
		id = "v" + id
	}
	return id
}

// Collect scans the registry and builds the report data. Record headers are
// read concurrently.
func Collect(ctx context.Context, src Source, cat catalog.Catalog) (Data, error) {
	entries, err := src.Scan()
	if err != nil {
		return Data{}, err
	}

	data := Data{
		Versions:      make(map[string]VersionInfo),
		Status:        make(map[string]model.MatchStatus),
		VersionsByEra: make(map[string][]string),
	}
	prefix := filepath.Base(src.Dir())

	for _, e := range entries {
		m := Match{
			A:    e.Key.NodeA(),
			B:    e.Key.NodeB(),
			File: prefix + "/" + filepath.ToSlash(e.Path),
		}
		data.Matches = append(data.Matches, m)

		if err := addVersion(ctx, cat, data.Versions, m.B, e.Key.SideB, e.Key.VersionB); err != nil {
			return Data{}, err
		}
		if err := addVersion(ctx, cat, data.Versions, m.A, e.Key.SideA, e.Key.VersionA); err != nil {
			return Data{}, err
		}
	}

	if err := readStatus(ctx, src, entries, data); err != nil {
		return Data{}, err
	}

	if lister, ok := cat.(Lister); ok {
		all, err := lister.All(ctx)
		if err != nil {
			return Data{}, err
		}
		for _, v := range all {
			era := v.Era()
			for _, side := range v.Sides() {
				data.VersionsByEra[era] = append(data.VersionsByEra[era], side.String()+"-"+v.ID)
			}
		}
	}
	return data, nil
}

func addVersion(ctx context.Context, cat catalog.Catalog, versions map[string]VersionInfo, key string, side model.Side, id string) error {
	if _, ok := versions[key]; ok {
		return nil
	}
	era, err := cat.Era(ctx, id)
	if err != nil {
		return fmt.Errorf("report: era of %s: %w", id, err)
	}
	versions[key] = VersionInfo{ID: NodeID(key), Type: side, Version: id, Era: era}
	return nil
}

func readStatus(ctx context.Context, src Source, entries []registry.Entry, data Data) error {
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultConcurrency)
	for i, e := range entries {
		file := data.Matches[i].File
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			header, err := src.Header(e)
			if err != nil {
				return fmt.Errorf("report: %s: %w", file, err)
			}
			if status, ok := model.ParseStatus(header); ok {
				mu.Lock()
				data.Status[file] = status
				mu.Unlock()
			}
			return nil
		})
	}
	return g.Wait()
}

// Eras returns the eras of VersionsByEra in display order.
func (d Data) Eras() []string {
	eras := make([]string, 0, len(d.VersionsByEra))
	for era := range d.VersionsByEra {
		eras = append(eras, era)
	}
	slices.SortFunc(eras, model.CompareEras)
	return eras
}

// Incoming returns the matches whose B end is key, in scan order.
func (d Data) Incoming(key string) []Match {
	var out []Match
	for _, m := range d.Matches {
		if m.B == key {
			out = append(out, m)
		}
	}
	return out
}

// WriteJSON writes the matches and versions as indented JSON.
func WriteJSON(w io.Writer, d Data) error {
	export := struct {
		Matches  []Match                `json:"matches"`
		Versions map[string]VersionInfo `json:"versions"`
	}{
		Matches:  d.Matches,
		Versions: d.Versions,
	}
	if export.Matches == nil {
		export.Matches = []Match{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(export)
}
