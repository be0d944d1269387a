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

// Package catalogtest provides an in-memory catalog for tests.
package catalogtest

import (
	"context"
	"sync"

	"dirpx.dev/dxmatch/dxcore/catalog"
	dxerrors "dirpx.dev/dxmatch/dxcore/errors"
	"dirpx.dev/dxmatch/dxcore/model"
)

// Fake is a catalog.Catalog backed by maps. The zero value is empty and ready
// to use.
type Fake struct {
	mu        sync.Mutex
	versions  map[string]model.Version
	manifests map[string]model.LaunchManifest
}

var _ catalog.Catalog = (*Fake)(nil)

// AddVersion registers a details document.
func (f *Fake) AddVersion(v model.Version) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.versions == nil {
		f.versions = make(map[string]model.Version)
	}
	f.versions[v.ID] = v
	return f
}

// AddManifest registers a launch manifest for id.
func (f *Fake) AddManifest(id string, libs ...model.Artifact) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.manifests == nil {
		f.manifests = make(map[string]model.LaunchManifest)
	}
	m := model.LaunchManifest{ID: id}
	for i := range libs {
		m.Libraries = append(m.Libraries, model.Library{
			Name:      libs[i].Path,
			Downloads: &model.LibraryDownloads{Artifact: &libs[i]},
		})
	}
	f.manifests[id] = m
	return f
}

// Details implements catalog.Catalog.
func (f *Fake) Details(ctx context.Context, id string) (model.Version, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.versions[id]
	if !ok {
		return model.Version{}, &dxerrors.NotFoundError{Type: "Version", ID: id}
	}
	return v, nil
}

// LaunchManifest implements catalog.Catalog.
func (f *Fake) LaunchManifest(ctx context.Context, id string) (model.LaunchManifest, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.manifests[id]
	return m, ok, nil
}

// Era implements catalog.Catalog.
func (f *Fake) Era(ctx context.Context, id string) (string, error) {
	if era, ok := model.PrefixEra(id); ok {
		return era, nil
	}
	v, err := f.Details(ctx, id)
	if err != nil {
		return "", err
	}
	return v.Era(), nil
}
