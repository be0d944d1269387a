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

package registry

import (
	"context"
	"fmt"

	"dirpx.dev/dxmatch/dxcore/artifact"
	"dirpx.dev/dxmatch/dxcore/model"
	"go.uber.org/multierr"
)

// SideVersion is one end of a match.
type SideVersion struct {
	Side    model.Side
	Version string
}

// Versions returns every (side, version) mentioned by entries, deduplicated,
// in order of first appearance.
func Versions(entries []Entry) []SideVersion {
	seen := make(map[SideVersion]bool)
	var out []SideVersion
	for _, e := range entries {
		for _, sv := range [2]SideVersion{
			{e.Key.SideA, e.Key.VersionA},
			{e.Key.SideB, e.Key.VersionB},
		} {
			if !seen[sv] {
				seen[sv] = true
				out = append(out, sv)
			}
		}
	}
	return out
}

// Refresh re-materializes the artifacts of every version referenced by an
// existing record: the main jar for its side and, except for servers, its
// libraries. Record contents are not touched.
//
// A version missing from the catalog's main manifest is skipped. Failures of
// individual versions are logged, collected and returned together once the
// scan completes.
func (r *Registry) Refresh(ctx context.Context, resolver artifact.JarResolver) error {
	entries, err := r.Scan()
	if err != nil {
		return err
	}

	var errs error
	for _, sv := range Versions(entries) {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}
		if err := r.refreshOne(ctx, resolver, sv); err != nil {
			r.logger.Error("refresh failed", "version", sv.Version, "side", sv.Side.String(), "error", err)
			errs = multierr.Append(errs, fmt.Errorf("%s %s: %w", sv.Side, sv.Version, err))
		}
	}
	return errs
}

func (r *Registry) refreshOne(ctx context.Context, resolver artifact.JarResolver, sv SideVersion) error {
	r.logger.Info("refreshing", "version", sv.Version, "side", sv.Side.String())

	manifest, ok, err := r.catalog.LaunchManifest(ctx, sv.Version)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if _, _, err := resolver.ResolveJar(ctx, sv.Version, sv.Side); err != nil {
		return err
	}
	if sv.Side != model.SideServer {
		if _, err := resolver.Libraries(ctx, manifest); err != nil {
			return err
		}
	}
	return nil
}
