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

// Package model defines the value types dxmatch reasons about and the
// contract every one of them implements.
//
// The domain is small: a Version is a catalog entry describing one release of
// the game, a Side selects which of its artifacts (client, server or a merged
// jar) is meant, a MatchKey names an ordered pairing of two (Side, Version)
// tuples, and an Era buckets versions for storage and display. MatchStatus
// carries the progress counters a mapping tool writes back into a match file.
//
// Every type implements Model (or the subset that makes sense for it):
// validation, JSON and YAML serialization, safe logging, a canonical type name
// and zero-value detection.
//
// Model values are immutable once constructed. Concurrent reads are safe;
// unmarshal methods mutate the receiver and require exclusive access.
package model

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Model is the root interface combining all contracts required for dxmatch
// domain types.
//
// Implementations SHOULD add a compile-time assertion:
//
//	var _ Model = (*MatchKey)(nil)
type Model interface {
	Validatable
	Serializable
	Loggable
	Identifiable
	ZeroCheckable
}

// Validatable defines the contract for types that validate their own state.
//
// Validate MUST be fast, deterministic and free of side effects: no I/O, no
// logging, no mutation of the receiver. Callers invoke it after decoding
// catalog documents and before writing anything derived from a value to disk.
type Validatable interface {
	// Validate returns nil if the instance is valid, or a descriptive error
	// (typically *errors.ValidationError) explaining what is wrong.
	Validate() error
}

// Serializable defines the contract for types that round-trip through JSON
// and YAML.
//
// Marshal methods MUST refuse to encode invalid values. Unmarshal methods
// SHOULD validate the decoded result and leave the receiver unusable on
// failure. Struct types use the local "type alias" pattern to delegate to the
// standard encoders without recursing:
//
//	func (k MatchKey) MarshalJSON() ([]byte, error) {
//	    if err := k.Validate(); err != nil {
//	        return nil, err
//	    }
//	    type alias MatchKey
//	    return json.Marshal(alias(k))
//	}
type Serializable interface {
	json.Marshaler
	json.Unmarshaler
	yaml.Marshaler
	yaml.Unmarshaler
}

// Loggable defines the contract for types that provide string forms for logs.
//
// dxmatch values rarely carry anything sensitive, but download URLs can embed
// signed query strings, so Redacted exists to keep those out of structured
// logs. String MAY include everything.
type Loggable interface {
	// Redacted returns a representation safe for logs.
	Redacted() string

	// String returns the full human-readable representation.
	String() string
}

// Identifiable defines the contract for types that name themselves.
//
// TypeName MUST return a constant CamelCase name without package prefix,
// used in error messages and log attributes.
type Identifiable interface {
	TypeName() string
}

// ZeroCheckable defines the contract for types that can report whether they
// are in a zero or empty state.
type ZeroCheckable interface {
	// IsZero reports whether this instance carries no meaningful data.
	IsZero() bool
}
