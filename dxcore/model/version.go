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

package model

import (
	"encoding/json"
	"net/url"
	"sort"
	"strings"

	"dirpx.dev/dxmatch/dxcore/errors"
	"gopkg.in/yaml.v3"
)

// Download is one entry of a version's "downloads" map.
type Download struct {
	URL  string `json:"url" yaml:"url"`
	SHA1 string `json:"sha1,omitempty" yaml:"sha1,omitempty"`
	Size int64  `json:"size,omitempty" yaml:"size,omitempty"`
}

// IsJar reports whether the download points at a jar file.
func (d Download) IsJar() bool {
	return strings.HasSuffix(d.URL, ".jar")
}

// Redacted returns the URL without its query string and fragment.
func (d Download) Redacted() string {
	return redactURL(d.URL)
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "[invalid url]"
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.User = nil
	return u.String()
}

// Version is the details document of one game version as stored in the
// version catalog (mc-versions/data/version/{id}.json).
//
// Only the fields dxmatch needs are decoded; everything else in the document
// is ignored. Versions are immutable once loaded.
type Version struct {
	// ID is the globally unique version identifier, e.g. "1.12.2" or
	// "rd-132211-launcher".
	ID string `json:"id" yaml:"id"`

	// ReleaseTime is an ISO 8601 timestamp. It is compared as a string.
	ReleaseTime string `json:"releaseTime" yaml:"releaseTime"`

	// ReleaseTarget is the coarse version family hint, e.g. "1.13" for a
	// snapshot. Optional.
	ReleaseTarget string `json:"releaseTarget,omitempty" yaml:"releaseTarget,omitempty"`

	// Next lists the ids of successor versions in the release graph.
	Next []string `json:"next,omitempty" yaml:"next,omitempty"`

	// Previous lists the ids of predecessor versions.
	Previous []string `json:"previous,omitempty" yaml:"previous,omitempty"`

	Client         bool `json:"client" yaml:"client"`
	Server         bool `json:"server" yaml:"server"`
	SharedMappings bool `json:"sharedMappings" yaml:"sharedMappings"`

	// Downloads maps a download key ("client", "server", "server_zip", ...)
	// to its location.
	Downloads map[string]Download `json:"downloads,omitempty" yaml:"downloads,omitempty"`
}

// Compile-time check that Version implements model.Model interface.
var _ Model = (*Version)(nil)

// Era returns the era of the version, see EraOf.
func (v Version) Era() string {
	return EraOf(v.ID, v.ReleaseTarget)
}

// Mergeable reports whether client and server can be matched as one merged
// jar.
func (v Version) Mergeable() bool {
	return v.Client && v.Server && v.SharedMappings
}

// Sides lists the sides under which the version appears in reports: merged
// when mergeable, otherwise whichever of client and server exist.
func (v Version) Sides() []Side {
	if v.Mergeable() {
		return []Side{SideMerged}
	}
	var sides []Side
	if v.Client {
		sides = append(sides, SideClient)
	}
	if v.Server {
		sides = append(sides, SideServer)
	}
	return sides
}

// DownloadKeys returns the keys of Downloads in sorted order.
func (v Version) DownloadKeys() []string {
	keys := make([]string, 0, len(v.Downloads))
	for k := range v.Downloads {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String returns the version id.
func (v Version) String() string {
	return v.ID
}

// Redacted returns the version id.
func (v Version) Redacted() string {
	return v.ID
}

// TypeName returns "Version".
func (v Version) TypeName() string {
	return "Version"
}

// IsZero reports whether v has no id.
func (v Version) IsZero() bool {
	return v.ID == ""
}

// Validate requires a non-empty id and a URL on every download.
func (v Version) Validate() error {
	if v.ID == "" {
		return &errors.ValidationError{Type: "Version", Field: "ID", Reason: "must not be empty"}
	}
	for _, key := range v.DownloadKeys() {
		if v.Downloads[key].URL == "" {
			return &errors.ValidationError{Type: "Version", Field: "Downloads", Reason: "missing url for " + key, Value: v.ID}
		}
	}
	return nil
}

// MarshalJSON encodes a valid Version.
func (v Version) MarshalJSON() ([]byte, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	type alias Version
	return json.Marshal(alias(v))
}

// UnmarshalJSON decodes a details document and validates it.
func (v *Version) UnmarshalJSON(data []byte) error {
	type alias Version
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return &errors.UnmarshalError{Type: "Version", Data: data, Reason: err.Error()}
	}
	if err := Version(a).Validate(); err != nil {
		return err
	}
	*v = Version(a)
	return nil
}

// MarshalYAML encodes a valid Version.
func (v Version) MarshalYAML() (any, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	type alias Version
	return alias(v), nil
}

// UnmarshalYAML decodes a details document and validates it.
func (v *Version) UnmarshalYAML(node *yaml.Node) error {
	type alias Version
	var a alias
	if err := node.Decode(&a); err != nil {
		return &errors.UnmarshalError{Type: "Version", Reason: err.Error()}
	}
	if err := Version(a).Validate(); err != nil {
		return err
	}
	*v = Version(a)
	return nil
}

// Artifact is a library jar as listed in a launch manifest.
type Artifact struct {
	URL  string `json:"url"`
	Path string `json:"path"`
	SHA1 string `json:"sha1,omitempty"`
	Size int64  `json:"size,omitempty"`
}

// Library is one entry of a launch manifest's "libraries" array. Native-only
// libraries have no artifact.
type Library struct {
	Name      string            `json:"name"`
	Downloads *LibraryDownloads `json:"downloads,omitempty"`
}

// LibraryDownloads holds the downloads of a library. Classifier downloads
// (natives) are not decoded.
type LibraryDownloads struct {
	Artifact *Artifact `json:"artifact,omitempty"`
}

// LaunchManifest is the per-version launcher document referenced from the
// main manifest.
type LaunchManifest struct {
	ID        string    `json:"id"`
	Libraries []Library `json:"libraries"`
}

// Artifacts returns the library artifacts in manifest order, skipping
// libraries without one.
func (m LaunchManifest) Artifacts() []Artifact {
	var out []Artifact
	for _, lib := range m.Libraries {
		if lib.Downloads == nil || lib.Downloads.Artifact == nil {
			continue
		}
		out = append(out, *lib.Downloads.Artifact)
	}
	return out
}

// ManifestEntry points from a version id to its launch manifest, relative to
// the catalog data directory.
type ManifestEntry struct {
	OmniID string `json:"omniId"`
	URL    string `json:"url"`
}

// MainManifest is the catalog's version_manifest.json.
type MainManifest struct {
	Versions []ManifestEntry `json:"versions"`
}

// Lookup returns the first entry whose OmniID equals id.
func (m MainManifest) Lookup(id string) (ManifestEntry, bool) {
	for _, e := range m.Versions {
		if e.OmniID == id {
			return e, true
		}
	}
	return ManifestEntry{}, false
}
