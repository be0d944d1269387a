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

// Package errors provides reusable error types for dxmatch.
//
// The types in this package are simple value carriers with stable message
// formats. Model packages use them when parsing or (un)marshaling enum-like
// values such as Side or WalkMode, and the catalog and artifact packages use
// them to report malformed version documents.
//
// # Error Types
//
//   - ParseError
//     Returned when parsing a string into an enum-like type fails.
//
//   - MarshalError
//     Returned when marshaling an invalid enum-like value fails.
//
//   - UnmarshalError
//     Returned when unmarshaling data into a model type fails.
//
//   - ValidationError
//     Returned by Validate() methods to report constraint violations.
//
//   - ManifestError
//     Returned when a version document has a shape the resolver does not
//     understand (for example, a jar download keyed neither "client" nor
//     "server").
//
//   - NotFoundError
//     Returned when a version id is not present in the catalog.
//
// # Usage
//
//	func ParseSide(s string) (Side, error) {
//	    switch s {
//	    case "client":
//	        return SideClient, nil
//	    default:
//	        return SideUnknown, &errors.ParseError{Type: "Side", Value: s}
//	    }
//	}
package errors

import "strconv"

// ParseError is returned when parsing a string into a strongly typed enum-like
// value fails.
//
// Type identifies the logical type being parsed (for example, "Side"), and
// Value contains the exact string that could not be interpreted.
type ParseError struct {
	// Type is the logical name of the type being parsed (for example, "Side").
	Type string

	// Value is the invalid textual representation that was provided.
	Value string
}

// Error implements the error interface for ParseError.
//
// The error message format is:
//
//	"dxmatch: invalid {Type} value: {Value}"
func (e *ParseError) Error() string {
	return "dxmatch: invalid " + e.Type + " value: " + e.Value
}

// MarshalError is returned when marshaling a typed value fails due to it being
// outside the set of valid constants.
//
// In most cases a MarshalError indicates a programming error (for example, a
// zero Side that was never validated before being written to matches.json).
type MarshalError struct {
	// Type is the logical name of the type being marshaled.
	Type string

	// Value is the underlying numeric representation that could not be
	// marshaled because it does not correspond to a known constant.
	Value int
}

// Error implements the error interface for MarshalError.
//
// The error message format is:
//
//	"dxmatch: cannot marshal invalid {Type} value: {Value}"
func (e *MarshalError) Error() string {
	return "dxmatch: cannot marshal invalid " + e.Type + " value: " + strconv.Itoa(e.Value)
}

// UnmarshalError is returned when unmarshaling data into a typed value fails.
//
// Data contains the original raw payload and Reason a short human-readable
// description of what went wrong. Data is deliberately left out of Error()
// because version documents can be large.
type UnmarshalError struct {
	// Type is the logical name of the type being unmarshaled into.
	Type string

	// Data is the raw input that failed to unmarshal.
	Data []byte

	// Reason is a short, human-readable explanation of the failure.
	Reason string
}

// Error implements the error interface for UnmarshalError.
//
// The error message format is:
//
//	"dxmatch: cannot unmarshal {Type}: {Reason}"
func (e *UnmarshalError) Error() string {
	return "dxmatch: cannot unmarshal " + e.Type + ": " + e.Reason
}

// ValidationError is returned when validation of a model type fails.
//
// Field optionally identifies which field failed validation, and Value
// optionally carries the offending value.
type ValidationError struct {
	// Type is the logical name of the type being validated.
	Type string

	// Field is the name of the field that failed validation.
	// May be empty if the error applies to the entire type.
	Field string

	// Reason is a short, human-readable explanation of why validation failed.
	Reason string

	// Value optionally contains the invalid value.
	Value any
}

// Error implements the error interface for ValidationError.
//
// The error message format is:
//
//	"dxmatch: invalid {Type}.{Field}: {Reason}" (when Field is specified)
//	"dxmatch: invalid {Type}: {Reason}" (when Field is empty)
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "dxmatch: invalid " + e.Type + "." + e.Field + ": " + e.Reason
	}
	return "dxmatch: invalid " + e.Type + ": " + e.Reason
}

// ManifestError is returned when a version document contains an entry the
// artifact resolver cannot interpret.
//
// It is fatal for the single resolution call that produced it. The walker
// logs it together with the version and moves on to the next pair.
type ManifestError struct {
	// Version is the id of the version whose document is malformed.
	Version string

	// Key is the offending download key, if any.
	Key string

	// Reason describes the problem.
	Reason string
}

// Error implements the error interface for ManifestError.
//
// The error message format is:
//
//	"dxmatch: version {Version}: {Reason} '{Key}'" (when Key is specified)
//	"dxmatch: version {Version}: {Reason}" (when Key is empty)
func (e *ManifestError) Error() string {
	if e.Key != "" {
		return "dxmatch: version " + e.Version + ": " + e.Reason + " '" + e.Key + "'"
	}
	return "dxmatch: version " + e.Version + ": " + e.Reason
}

// NotFoundError is returned when an id is not known to the catalog.
type NotFoundError struct {
	// Type is the kind of object that was looked up (for example, "Version").
	Type string

	// ID is the identifier that could not be found.
	ID string
}

// Error implements the error interface for NotFoundError.
//
// The error message format is:
//
//	"dxmatch: {Type} {ID} not found"
func (e *NotFoundError) Error() string {
	return "dxmatch: " + e.Type + " " + e.ID + " not found"
}
