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
	"path/filepath"
	"strings"

	"dirpx.dev/dxmatch/dxcore/model"
)

const (
	recordHeader = "Matches saved auto-generated"
	recordFooter = "c\tLdummy;\tLdummy;"

	// Releases before this date shipped the bundled sound and SSH libraries
	// (paulscode, jcraft) unobfuscated.
	nonObfCutoff = "2013-04-18"
	nonObfLibs   = "paulscode|jcraft"
)

// Record is the content of a freshly generated match file.
type Record struct {
	Key model.MatchKey

	// JarA and JarB are the resolved main jars. Only their base names are
	// written.
	JarA string
	JarB string

	// Shared lists the libraries both versions use, UniqueA and UniqueB the
	// ones only one of them uses.
	Shared  []string
	UniqueA []string
	UniqueB []string

	// NonObfA and NonObfB mark sides whose release still bundled
	// unobfuscated third-party packages.
	NonObfA bool
	NonObfB bool
}

// NewRecord builds the record for key from the resolved jars, the library
// paths of both sides and their details documents.
func NewRecord(key model.MatchKey, jarA, jarB string, libsA, libsB []string, a, b model.Version) Record {
	shared, uniqueA, uniqueB := ComputeShared(libsA, libsB)
	return Record{
		Key:     key,
		JarA:    jarA,
		JarB:    jarB,
		Shared:  shared,
		UniqueA: uniqueA,
		UniqueB: uniqueB,
		NonObfA: HasNonObfuscatedLibraries(a),
		NonObfB: HasNonObfuscatedLibraries(b),
	}
}

// ComputeShared splits two library lists into the entries present in both
// and those unique to each side. Duplicates are dropped; order follows first
// appearance in a, then in b.
func ComputeShared(a, b []string) (shared, onlyA, onlyB []string) {
	inA := make(map[string]bool, len(a))
	for _, x := range a {
		inA[x] = true
	}
	inB := make(map[string]bool, len(b))
	for _, x := range b {
		inB[x] = true
	}

	seen := make(map[string]bool, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, x := range list {
			if seen[x] {
				continue
			}
			seen[x] = true
			switch {
			case inA[x] && inB[x]:
				shared = append(shared, x)
			case inA[x]:
				onlyA = append(onlyA, x)
			default:
				onlyB = append(onlyB, x)
			}
		}
	}
	return shared, onlyA, onlyB
}

// HasNonObfuscatedLibraries reports whether v was released before
// 2013-04-18, or belongs to the 1.5 family which kept the old packaging.
// Release times are compared as strings, so any timestamp on the cutoff day
// itself counts as after it.
func HasNonObfuscatedLibraries(v model.Version) bool {
	// 1.5.2 shipped after the cutoff but still bundles the
	// unobfuscated libraries. The check is a plain id prefix, matching the
	// records already published, so any id starting with "1.5" qualifies.
	return v.ReleaseTime <= nonObfCutoff || strings.HasPrefix(v.ID, "1.5")
}

// Bytes renders the record. The output is byte-exact: downstream tools parse
// it.
func (r Record) Bytes() []byte {
	lines := []string{recordHeader}
	lines = append(lines, "\ta:", "\t\t"+filepath.Base(r.JarA))
	lines = append(lines, "\tb:", "\t\t"+filepath.Base(r.JarB))
	lines = appendSection(lines, "\tcp:", r.Shared)
	lines = appendSection(lines, "\tcp a:", r.UniqueA)
	lines = appendSection(lines, "\tcp b:", r.UniqueB)
	// Placeholder lines for sides with unobfuscated libraries, see
	// HasNonObfuscatedLibraries for the 1.5 exception.
	for _, kind := range []string{"cls", "mem"} {
		if r.NonObfA {
			lines = append(lines, "\tnon-obf "+kind+" a\t"+nonObfLibs)
		}
		if r.NonObfB {
			lines = append(lines, "\tnon-obf "+kind+" b\t"+nonObfLibs)
		}
	}
	lines = append(lines, recordFooter, "")
	return []byte(strings.Join(lines, "\n"))
}

func appendSection(lines []string, title string, paths []string) []string {
	lines = append(lines, title)
	for _, p := range paths {
		lines = append(lines, "\t\t"+filepath.Base(p))
	}
	return lines
}
