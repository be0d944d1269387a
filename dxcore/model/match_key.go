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
	"path/filepath"
	"strings"

	"dirpx.dev/dxmatch/dxcore/errors"
	"gopkg.in/yaml.v3"
)

// BucketCross is the bucket holding matches between two different sides.
const BucketCross = "cross"

// MatchExt is the file extension of match records.
const MatchExt = ".match"

// MatchKey identifies a match: an ordered pairing of (SideA, VersionA) with
// (SideB, VersionB).
//
// Two keys denote the same match only if all four components are equal. The
// pairing is directional: A precedes B in the version succession graph, so
// {client 1.0, merged 1.1} and {merged 1.1, client 1.0} are different keys.
//
// The key alone determines where the match record lives on disk, apart from
// the era directory which depends on VersionB and is supplied by the caller.
type MatchKey struct {
	SideA    Side   `json:"sideA" yaml:"sideA"`
	VersionA string `json:"versionA" yaml:"versionA"`
	SideB    Side   `json:"sideB" yaml:"sideB"`
	VersionB string `json:"versionB" yaml:"versionB"`
}

// Compile-time check that MatchKey implements model.Model interface.
var _ Model = (*MatchKey)(nil)

// NewMatchKey is a convenience constructor that keeps call sites readable.
func NewMatchKey(sideA Side, versionA string, sideB Side, versionB string) MatchKey {
	return MatchKey{SideA: sideA, VersionA: versionA, SideB: sideB, VersionB: versionB}
}

// Bucket returns the top-level directory of the record: the side name when
// both sides are equal, BucketCross otherwise.
func (k MatchKey) Bucket() string {
	if k.SideA == k.SideB {
		return k.SideA.String()
	}
	return BucketCross
}

// FileName returns the record file name "{A}#{B}.match". In the cross bucket
// each version is prefixed with its side and a hyphen, because the bucket no
// longer implies it.
//
//	{merged 1.0, merged 1.1} -> "1.0#1.1.match"
//	{client 1.0, merged 1.1} -> "client-1.0#merged-1.1.match"
func (k MatchKey) FileName() string {
	var prefixA, prefixB string
	if k.Bucket() == BucketCross {
		prefixA = k.SideA.String() + "-"
		prefixB = k.SideB.String() + "-"
	}
	return prefixA + k.VersionA + "#" + prefixB + k.VersionB + MatchExt
}

// RelPath returns the record path relative to the matches directory:
// bucket/era/file, or bucket/file when era is empty.
func (k MatchKey) RelPath(era string) string {
	if era == "" {
		return filepath.Join(k.Bucket(), k.FileName())
	}
	return filepath.Join(k.Bucket(), era, k.FileName())
}

// NodeA returns the "side-version" node key of the A end.
func (k MatchKey) NodeA() string {
	return k.SideA.String() + "-" + k.VersionA
}

// NodeB returns the "side-version" node key of the B end.
func (k MatchKey) NodeB() string {
	return k.SideB.String() + "-" + k.VersionB
}

// ParseMatchPath recovers a MatchKey from a bucket name and a record file
// name, inverting Bucket and FileName.
//
// For the side buckets both sides are the bucket. Cross file names carry their
// own "side-" prefixes, which are split off here. Anything that is not a
// well-formed record name yields a *ParseError.
func ParseMatchPath(bucket, file string) (MatchKey, error) {
	name, ok := strings.CutSuffix(filepath.Base(file), MatchExt)
	if !ok {
		return MatchKey{}, &errors.ParseError{Type: "MatchKey", Value: file}
	}
	a, b, ok := strings.Cut(name, "#")
	if !ok || a == "" || b == "" || strings.Contains(b, "#") {
		return MatchKey{}, &errors.ParseError{Type: "MatchKey", Value: file}
	}

	if bucket != BucketCross {
		side, err := ParseSide(bucket)
		if err != nil {
			return MatchKey{}, err
		}
		return NewMatchKey(side, a, side, b), nil
	}

	sideA, versionA, err := splitSidePrefix(a)
	if err != nil {
		return MatchKey{}, err
	}
	sideB, versionB, err := splitSidePrefix(b)
	if err != nil {
		return MatchKey{}, err
	}
	return NewMatchKey(sideA, versionA, sideB, versionB), nil
}

// splitSidePrefix splits "client-1.0" into (SideClient, "1.0").
func splitSidePrefix(s string) (Side, string, error) {
	prefix, rest, ok := strings.Cut(s, "-")
	if !ok || rest == "" {
		return SideUnknown, "", &errors.ParseError{Type: "Side", Value: s}
	}
	side, err := ParseSide(prefix)
	if err != nil {
		return SideUnknown, "", err
	}
	return side, rest, nil
}

// String returns "sideA-versionA -> sideB-versionB".
func (k MatchKey) String() string {
	return k.NodeA() + " -> " + k.NodeB()
}

// Redacted returns the same as String. Match keys carry nothing sensitive.
func (k MatchKey) Redacted() string {
	return k.String()
}

// TypeName returns "MatchKey".
func (k MatchKey) TypeName() string {
	return "MatchKey"
}

// IsZero reports whether k is the zero MatchKey.
func (k MatchKey) IsZero() bool {
	return k == MatchKey{}
}

// Equal reports whether k equals other, which may be a MatchKey or *MatchKey.
func (k MatchKey) Equal(other any) bool {
	switch v := other.(type) {
	case MatchKey:
		return k == v
	case *MatchKey:
		if v == nil {
			return false
		}
		return k == *v
	default:
		return false
	}
}

// Validate checks both sides and both version ids. Version ids become path
// components, so separators and the '#' delimiter are rejected.
func (k MatchKey) Validate() error {
	if err := k.SideA.Validate(); err != nil {
		return &errors.ValidationError{Type: "MatchKey", Field: "SideA", Reason: err.Error(), Value: int(k.SideA)}
	}
	if err := k.SideB.Validate(); err != nil {
		return &errors.ValidationError{Type: "MatchKey", Field: "SideB", Reason: err.Error(), Value: int(k.SideB)}
	}
	if err := validateVersionID("VersionA", k.VersionA); err != nil {
		return err
	}
	return validateVersionID("VersionB", k.VersionB)
}

func validateVersionID(field, id string) error {
	switch {
	case id == "":
		return &errors.ValidationError{Type: "MatchKey", Field: field, Reason: "must not be empty"}
	case strings.ContainsAny(id, "#/\\"):
		return &errors.ValidationError{Type: "MatchKey", Field: field, Reason: "must not contain '#' or path separators", Value: id}
	case id == "." || id == "..":
		return &errors.ValidationError{Type: "MatchKey", Field: field, Reason: "must not be a relative path element", Value: id}
	}
	return nil
}

// MarshalJSON encodes a valid MatchKey as an object with string sides.
func (k MatchKey) MarshalJSON() ([]byte, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}
	type alias MatchKey
	return json.Marshal(alias(k))
}

// UnmarshalJSON decodes and validates a MatchKey object.
func (k *MatchKey) UnmarshalJSON(data []byte) error {
	type alias MatchKey
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return &errors.UnmarshalError{Type: "MatchKey", Data: data, Reason: err.Error()}
	}
	if err := MatchKey(a).Validate(); err != nil {
		return err
	}
	*k = MatchKey(a)
	return nil
}

// MarshalYAML encodes a valid MatchKey as a mapping with string sides.
func (k MatchKey) MarshalYAML() (any, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}
	type alias MatchKey
	return alias(k), nil
}

// UnmarshalYAML decodes and validates a MatchKey mapping.
func (k *MatchKey) UnmarshalYAML(node *yaml.Node) error {
	type alias MatchKey
	var a alias
	if err := node.Decode(&a); err != nil {
		return &errors.UnmarshalError{Type: "MatchKey", Data: []byte(node.Value), Reason: err.Error()}
	}
	if err := MatchKey(a).Validate(); err != nil {
		return err
	}
	*k = MatchKey(a)
	return nil
}
