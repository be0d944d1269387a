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

// Package semver parses and orders the dotted release numerals used by game
// versions ("1.12", "1.14.4", "1.16-pre3").
//
// Release numerals are not SemVer: they routinely omit the patch component
// and use ad-hoc suffixes. This package wraps github.com/blang/semver/v4 in
// tolerant mode so that such numerals can still be ordered numerically, which
// is what era grouping needs ("1.9" sorts before "1.10").
package semver

import (
	"fmt"
	"strings"

	dxerrors "dirpx.dev/dxmatch/dxcore/errors"
	bsemver "github.com/blang/semver/v4"
)

// Version is a parsed release numeral.
//
// Missing components are zero, so "1.12" parses to {1, 12, 0}. Anything
// after the first '-' is kept verbatim in Prerelease and participates in
// ordering the way SemVer prerelease identifiers do: "1.16-pre3" < "1.16".
type Version struct {
	Major      int
	Minor      int
	Patch      int
	Prerelease string
}

// ParseVersion parses a release numeral.
//
// An optional leading "v" is stripped. Short forms with one or two numeric
// components are accepted and padded with zeros:
//
//	ParseVersion("1.12")      -> Version{Major: 1, Minor: 12}
//	ParseVersion("1.14.4")    -> Version{Major: 1, Minor: 14, Patch: 4}
//	ParseVersion("1.16-pre3") -> Version{Major: 1, Minor: 16, Prerelease: "pre3"}
//
// Identifiers that do not start with a numeral ("b1.7.3", "rd-132211")
// return an error.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	if s == "" || s[0] < '0' || s[0] > '9' {
		return Version{}, &dxerrors.ParseError{Type: "Version", Value: s}
	}

	// ParseTolerant refuses short forms with a suffix, so pad the numeric
	// core first and reattach the suffix afterwards.
	core, pre, _ := strings.Cut(s, "-")
	bv, err := bsemver.ParseTolerant(core)
	if err != nil {
		return Version{}, fmt.Errorf("invalid release numeral %q: %w", s, err)
	}
	if pre != "" {
		for _, part := range strings.Split(pre, ".") {
			prv, err := bsemver.NewPRVersion(part)
			if err != nil {
				return Version{}, fmt.Errorf("invalid release numeral %q: %w", s, err)
			}
			bv.Pre = append(bv.Pre, prv)
		}
	}
	return fromBlangSemver(bv), nil
}

// String renders the numeral in full "Major.Minor.Patch[-Prerelease]" form.
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	return s
}

func (v Version) toBlangSemver() (bsemver.Version, error) {
	return bsemver.Parse(v.String())
}

func fromBlangSemver(bv bsemver.Version) Version {
	var prerelease string
	if len(bv.Pre) > 0 {
		parts := make([]string, len(bv.Pre))
		for i, p := range bv.Pre {
			parts[i] = p.String()
		}
		prerelease = strings.Join(parts, ".")
	}
	return Version{
		Major:      int(bv.Major),
		Minor:      int(bv.Minor),
		Patch:      int(bv.Patch),
		Prerelease: prerelease,
	}
}

// Compare returns -1, 0 or +1 depending on whether v orders before, equal
// to or after other.
func (v Version) Compare(other Version) int {
	bv, errA := v.toBlangSemver()
	bo, errB := other.toBlangSemver()
	if errA == nil && errB == nil {
		return bv.Compare(bo)
	}
	for _, d := range [...]int{v.Major - other.Major, v.Minor - other.Minor, v.Patch - other.Patch} {
		if d < 0 {
			return -1
		}
		if d > 0 {
			return 1
		}
	}
	return strings.Compare(v.Prerelease, other.Prerelease)
}
