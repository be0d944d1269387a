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

	"dirpx.dev/dxmatch/dxcore/errors"
	"gopkg.in/yaml.v3"
)

// Side selects which artifact of a version a match refers to.
//
// Early releases shipped separate client and server jars obfuscated with
// unrelated mappings, so a match has to say which one it is about. Versions
// that declare shared mappings can instead be matched as a single merged jar
// produced by an external merge tool. SideMerged is therefore only
// resolvable when both raw jars exist and the version declares shared
// mappings; the artifact resolver reports anything else as "absent".
type Side int

const (
	// SideUnknown is the zero value. It never names a real artifact and is
	// rejected by Validate.
	SideUnknown Side = iota

	// SideClient is the client jar.
	SideClient

	// SideServer is the dedicated server jar.
	SideServer

	// SideMerged is the client and server jars merged into one artifact
	// under a shared mapping.
	SideMerged
)

// String constants for Side values.
//
// These names appear in match bucket directory names, cross-match file name
// prefixes and artifact paths (minecraft-{side}), so changing them breaks
// every existing data directory.
const (
	SideClientStr = "client"
	SideServerStr = "server"
	SideMergedStr = "merged"
)

// Compile-time check that Side implements model.Model interface.
var _ Model = (*Side)(nil)

// ParseSide converts a textual representation into a Side value.
//
// Only the lowercase and title-case spellings are accepted:
//
//	"client", "Client" -> SideClient
//	"server", "Server" -> SideServer
//	"merged", "Merged" -> SideMerged
//
// Any other input yields SideUnknown and a *ParseError.
func ParseSide(s string) (Side, error) {
	switch s {
	case SideClientStr, "Client":
		return SideClient, nil
	case SideServerStr, "Server":
		return SideServer, nil
	case SideMergedStr, "Merged":
		return SideMerged, nil
	default:
		return SideUnknown, &errors.ParseError{Type: "Side", Value: s}
	}
}

// String returns the canonical lowercase name, or "unknown".
func (s Side) String() string {
	switch s {
	case SideClient:
		return SideClientStr
	case SideServer:
		return SideServerStr
	case SideMerged:
		return SideMergedStr
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of SideClient, SideServer or SideMerged.
func (s Side) Valid() bool {
	return s == SideClient || s == SideServer || s == SideMerged
}

// TypeName returns "Side".
func (s Side) TypeName() string {
	return "Side"
}

// Redacted returns the same string representation as String().
func (s Side) Redacted() string {
	return s.String()
}

// IsZero reports whether s is SideUnknown.
func (s Side) IsZero() bool {
	return s == SideUnknown
}

// Equal reports whether s equals other, which may be a Side or *Side.
func (s Side) Equal(other any) bool {
	switch v := other.(type) {
	case Side:
		return s == v
	case *Side:
		if v == nil {
			return false
		}
		return s == *v
	default:
		return false
	}
}

// Validate returns a *ValidationError unless s is a concrete side.
func (s Side) Validate() error {
	if !s.Valid() {
		return &errors.ValidationError{
			Type:   "Side",
			Reason: "invalid Side value",
			Value:  int(s),
		}
	}
	return nil
}

// MarshalJSON encodes a valid Side as its lowercase name.
func (s Side) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, &errors.MarshalError{Type: "Side", Value: int(s)}
	}
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON accepts the string form resolved via ParseSide.
func (s *Side) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return &errors.UnmarshalError{Type: "Side", Data: data, Reason: "empty data"}
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return &errors.UnmarshalError{Type: "Side", Data: data, Reason: err.Error()}
	}
	parsed, err := ParseSide(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalYAML encodes a valid Side as its lowercase name.
func (s Side) MarshalYAML() (any, error) {
	if !s.Valid() {
		return nil, &errors.MarshalError{Type: "Side", Value: int(s)}
	}
	return s.String(), nil
}

// UnmarshalYAML accepts the string form resolved via ParseSide.
func (s *Side) UnmarshalYAML(node *yaml.Node) error {
	var str string
	if err := node.Decode(&str); err != nil {
		return &errors.UnmarshalError{Type: "Side", Data: []byte(node.Value), Reason: err.Error()}
	}
	parsed, err := ParseSide(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler for Side.
func (s Side) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, &errors.MarshalError{Type: "Side", Value: int(s)}
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for Side.
func (s *Side) UnmarshalText(text []byte) error {
	parsed, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
