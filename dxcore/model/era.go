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
	"regexp"
	"strings"

	"dirpx.dev/dxmatch/dxcore/model/semver"
)

// Era labels for the historical releases that predate numeral eras.
const (
	EraPreClassic = "pre-classic"
	EraClassic    = "classic"
	EraIndev      = "indev"
	EraInfdev     = "infdev"
	EraAlpha      = "alpha"
	EraBeta       = "beta"
	EraAprilFools = "april-fools"
	EraCombat     = "combat"
)

// eraPrefix maps a version id prefix to its era label.
type eraPrefix struct {
	prefix string
	era    string
}

// eraPrefixes is checked top to bottom and the first hit wins. Several
// prefixes are prefixes of each other ("in" of "inf", "a" of "af"), so the
// longer ones must come first.
var eraPrefixes = [...]eraPrefix{
	{"inf", EraInfdev},
	{"in", EraIndev},
	{"af", EraAprilFools},
	{"a", EraAlpha},
	{"server-a", EraAlpha},
	{"b", EraBeta},
	{"combat", EraCombat},
	{"c", EraClassic},
	{"server-c", EraClassic},
	{"rd", EraPreClassic},
}

var numeralEra = regexp.MustCompile(`^\d+\.\d+`)

// EraOf classifies a version into its era.
//
// The id is matched against a fixed prefix table first. When no prefix
// applies, a releaseTarget that starts with a "major.minor" numeral yields
// that numeral ("1.12.2" -> "1.12"); any other releaseTarget is returned
// verbatim. An empty result means the version has no era and callers must
// skip era bucketing for it.
//
// EraOf is pure: it performs no I/O and the same inputs always produce the
// same label.
//
//	EraOf("rd-132211", "")          // "pre-classic"
//	EraOf("server-a0.2.8", "")      // "alpha"
//	EraOf("1.12.2", "1.12")         // "1.12"
//	EraOf("17w43a", "1.13")         // "1.13"
func EraOf(id, releaseTarget string) string {
	if era, ok := PrefixEra(id); ok {
		return era
	}
	if m := numeralEra.FindString(releaseTarget); m != "" {
		return m
	}
	return releaseTarget
}

// PrefixEra reports the era an id belongs to by prefix alone. Callers use it
// to classify historical versions without loading their details.
func PrefixEra(id string) (string, bool) {
	for _, p := range eraPrefixes {
		if strings.HasPrefix(id, p.prefix) {
			return p.era, true
		}
	}
	return "", false
}

// eraDisplayOrder lists the named eras in chronological order.
var eraDisplayOrder = []string{
	EraPreClassic,
	EraClassic,
	EraIndev,
	EraInfdev,
	EraAlpha,
	EraBeta,
}

func eraRank(era string) int {
	for i, e := range eraDisplayOrder {
		if e == era {
			return i
		}
	}
	return -1
}

// CompareEras orders era labels for display. It returns a negative number
// when a sorts before b, zero when they are equal and a positive number
// otherwise.
//
// The named historical eras come first in chronological order. Numeral eras
// follow, ordered numerically so that "1.9" precedes "1.10". Everything else
// sorts lexicographically.
func CompareEras(a, b string) int {
	ra, rb := eraRank(a), eraRank(b)
	switch {
	case ra >= 0 && rb >= 0 && ra != rb:
		return ra - rb
	case ra >= 0 && rb < 0:
		return -1
	case ra < 0 && rb >= 0:
		return 1
	}

	if strings.HasPrefix(a, "1.") && strings.HasPrefix(b, "1.") {
		va, errA := semver.ParseVersion(a)
		vb, errB := semver.ParseVersion(b)
		if errA == nil && errB == nil {
			if c := va.Compare(vb); c != 0 {
				return c
			}
		}
	}
	return strings.Compare(a, b)
}
