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

// WalkMode controls when a match discovery walk stops.
//
// Both modes run the same per-edge step over the version succession graph;
// they differ only in the stopping condition:
//
//  1. SingleShot stops the entire walk as soon as one new match record has
//     been created anywhere in the graph. This is the operator's "give me the
//     next pair to work on" flow.
//
//  2. Exhaustive keeps going until the frontier is empty, creating a record
//     for every reachable pair that is still missing one.
//
// The mode is passed explicitly to the walker rather than inferred from the
// return value of individual steps.
type WalkMode int

const (
	// SingleShot halts after the first created record.
	//
	// Example:
	//   Graph = a -> b -> c, no records yet
	//   Created = [a#b]
	SingleShot WalkMode = iota

	// Exhaustive visits the whole reachable graph.
	//
	// Example:
	//   Graph = a -> b -> c, no records yet
	//   Created = [a#b, b#c]
	Exhaustive
)

// Compile-time check that WalkMode implements model.Model interface.
var _ Model = (*WalkMode)(nil)

// String constants for WalkMode values, used in configuration and flags.
const (
	SingleShotStr = "single-shot"
	ExhaustiveStr = "exhaustive"
)

// String returns the canonical kebab-case name, or "unknown".
func (m WalkMode) String() string {
	switch m {
	case SingleShot:
		return SingleShotStr
	case Exhaustive:
		return ExhaustiveStr
	default:
		return "unknown"
	}
}

// ParseWalkMode converts a textual representation into a WalkMode value.
//
// Accepted inputs:
//
//	"single-shot", "SingleShot", "single_shot", "next" -> SingleShot
//	"exhaustive", "Exhaustive", "fill"                 -> Exhaustive
//
// "next" and "fill" are the names of the CLI commands that run each mode.
func ParseWalkMode(str string) (WalkMode, error) {
	switch str {
	case SingleShotStr, "SingleShot", "single_shot", "next":
		return SingleShot, nil
	case ExhaustiveStr, "Exhaustive", "fill":
		return Exhaustive, nil
	default:
		return SingleShot, &errors.ParseError{Type: "WalkMode", Value: str}
	}
}

// Valid reports whether m is one of the defined constants.
func (m WalkMode) Valid() bool {
	return m == SingleShot || m == Exhaustive
}

// MarshalJSON encodes a valid WalkMode as its canonical name.
func (m WalkMode) MarshalJSON() ([]byte, error) {
	if !m.Valid() {
		return nil, &errors.MarshalError{Type: "WalkMode", Value: int(m)}
	}
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts the string vocabulary of ParseWalkMode or the
// numeric constants 0 and 1.
func (m *WalkMode) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return &errors.UnmarshalError{Type: "WalkMode", Data: data, Reason: "empty data"}
	}

	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return &errors.UnmarshalError{Type: "WalkMode", Data: data, Reason: err.Error()}
		}
		parsed, err := ParseWalkMode(str)
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	}

	var i int
	if err := json.Unmarshal(data, &i); err != nil {
		return &errors.UnmarshalError{Type: "WalkMode", Data: data, Reason: err.Error()}
	}
	*m = WalkMode(i)
	if !m.Valid() {
		return &errors.UnmarshalError{Type: "WalkMode", Data: data, Reason: "invalid numeric value"}
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler for WalkMode.
func (m WalkMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, &errors.MarshalError{Type: "WalkMode", Value: int(m)}
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for WalkMode.
func (m *WalkMode) UnmarshalText(text []byte) error {
	parsed, err := ParseWalkMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// TypeName returns "WalkMode".
func (m WalkMode) TypeName() string {
	return "WalkMode"
}

// Redacted returns the same string representation as String().
func (m WalkMode) Redacted() string {
	return m.String()
}

// IsZero reports whether m is SingleShot. The zero value is valid.
func (m WalkMode) IsZero() bool {
	return m == SingleShot
}

// Equal reports whether m equals other, which may be a WalkMode or *WalkMode.
func (m WalkMode) Equal(other any) bool {
	switch v := other.(type) {
	case WalkMode:
		return m == v
	case *WalkMode:
		if v == nil {
			return false
		}
		return m == *v
	default:
		return false
	}
}

// Validate returns a *MarshalError for values outside the defined constants.
func (m WalkMode) Validate() error {
	if !m.Valid() {
		return &errors.MarshalError{Type: "WalkMode", Value: int(m)}
	}
	return nil
}

// MarshalYAML encodes a valid WalkMode as its canonical name.
func (m WalkMode) MarshalYAML() (any, error) {
	if !m.Valid() {
		return nil, &errors.MarshalError{Type: "WalkMode", Value: int(m)}
	}
	return m.String(), nil
}

// UnmarshalYAML accepts the string vocabulary of ParseWalkMode.
func (m *WalkMode) UnmarshalYAML(node *yaml.Node) error {
	var str string
	if err := node.Decode(&str); err != nil {
		return &errors.UnmarshalError{Type: "WalkMode", Data: []byte(node.Value), Reason: err.Error()}
	}
	parsed, err := ParseWalkMode(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
