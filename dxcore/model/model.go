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

// Package model defines the core contracts that dxver domain types implement
// to ensure consistency, type safety, and predictable behavior across the
// system.
//
// Every domain type representing a value the calculator passes between its
// components (such as semver.Version, semver.Identifier, git.Hash,
// git.TagName, Increment) SHOULD implement the Model interface or its
// constituent parts (Validatable, Serializable, Loggable, Identifiable,
// ZeroCheckable). These interfaces establish a common contract for
// validation, serialization, logging, and identity that enables generic
// operations and guarantees safety at compile time.
//
// The contracts prioritize data integrity and debuggability. Validation
// ensures that invalid states cannot be constructed or persisted.
// Serialization provides round-trip guarantees for configuration files and
// structured output. Loggable keeps log lines compact and safe. Identifiable
// enables structured diagnostics. ZeroCheckable supports optional-field
// detection and default handling.
//
// Unless explicitly documented otherwise, implementations are not thread-safe
// for concurrent mutation. Model types are designed as immutable value types,
// making them naturally safe for concurrent read access. Callers MUST
// synchronize any concurrent writes to mutable instances.
//
// Types implementing Model can be used with the generic helper functions in
// this package, such as ValidateAll, FilterZero, ToJSON, ToYAML, FromJSON
// and FromYAML. The helpers constrain on the constituent contracts they
// exercise, so they accept both full Model implementations and plain values
// that satisfy the relevant piece.
package model

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Model is the root interface combining all fundamental contracts required
// for dxver domain types. Any type implementing Model gains automatic
// support for validation, serialization to JSON and YAML, safe logging,
// type identification, and zero-value detection.
//
// Implementations MUST satisfy all embedded interfaces: Validatable ensures
// data integrity by checking invariants; Serializable provides round-trip
// JSON and YAML encoding; Loggable offers both compact (Redacted) and full
// (String) representations; Identifiable supplies a canonical type name; and
// ZeroCheckable detects empty or uninitialized instances.
//
// Model instances are treated as immutable value types. Methods defined on
// Model SHOULD NOT mutate the receiver unless explicitly documented.
// Concurrent reads are safe; concurrent writes require external
// synchronization.
type Model interface {
	Validatable
	Serializable
	Loggable
	Identifiable
	ZeroCheckable
}

// Validatable defines the contract for types that validate their own state.
//
// The Validate method MUST check all invariants: required fields for
// non-empty or non-zero values, cross-field consistency, and recursive
// validity of nested values. It MUST return nil if and only if the instance
// is fully valid. When validation fails, the returned error MUST describe
// what is invalid in a way that helps callers diagnose and fix the problem;
// prefer specific messages like "numeric identifier has a leading zero" over
// generic ones like "validation failed".
//
// Validate MUST be fast, deterministic, and idempotent. It MUST NOT mutate
// the receiver, MUST NOT have side effects, and MUST NOT depend on external
// mutable state. Callers SHOULD invoke Validate at boundaries: immediately
// after unmarshaling external input, after constructing instances from user
// input, and before emitting values into user-facing output.
type Validatable interface {
	// Validate checks that the instance satisfies all invariants and is
	// ready for use. It returns nil if the instance is valid, or a
	// descriptive error explaining what is wrong.
	//
	// This method MUST NOT mutate the receiver and MUST NOT have side
	// effects. It MUST be safe to call concurrently with other reads.
	Validate() error
}

// Serializable defines the contract for types that can be serialized to and
// deserialized from JSON and YAML. Model types support both formats so they
// can appear in structured command output (JSON/YAML) and in configuration
// payloads.
//
// Implementations MUST call Validate before marshaling so that only valid
// instances are serialized, and after unmarshaling so that malformed
// external data is rejected at the boundary. A value serialized to JSON and
// then deserialized MUST equal the original value, and the same MUST hold
// for YAML.
//
// Marshal methods are safe for concurrent use on immutable receivers.
// Unmarshal methods mutate the receiver and are not safe for concurrent
// use; callers MUST ensure exclusive access during unmarshaling.
type Serializable interface {
	json.Marshaler
	json.Unmarshaler
	yaml.Marshaler
	yaml.Unmarshaler
}

// Loggable defines the contract for types that provide string
// representations for diagnostics.
//
// Redacted returns the compact representation used in warnings and logs. For
// dxver types this typically means an abbreviated form (for example, a
// 7-character commit hash) rather than hidden data; none of the calculator's
// model types carry secrets, but the method keeps log lines short and gives
// the object graph a single consistent redaction point.
//
// String returns the complete human-readable representation, intended for
// development, debugging, and test output.
//
// Both methods MUST be fast, MUST NOT perform I/O, MUST NOT mutate the
// receiver, and MUST be safe to call concurrently.
type Loggable interface {
	// Redacted returns a compact string representation suitable for
	// diagnostics and logs.
	Redacted() string

	// String returns the full human-readable representation of the
	// instance.
	String() string
}

// Identifiable defines the contract for types that can identify themselves
// by a canonical type name.
//
// The name returned by TypeName MUST be constant for a given type, unique
// within the dxver domain, in CamelCase (for example, "Version", "Hash",
// "Increment"), and without a package prefix. It identifies the type, not
// the instance. Type names appear in error messages (the errors package
// embeds them in ParseError and ValidationError) and in structured
// diagnostics.
//
// TypeName MUST be fast, SHOULD return a string constant, MUST NOT have
// side effects, and MUST be safe to call concurrently.
type Identifiable interface {
	// TypeName returns the canonical name of this model type.
	TypeName() string
}

// ZeroCheckable defines the contract for types that can report whether they
// are in a zero or empty state. This enables optional-field detection,
// default value handling, and conditional logic based on whether an instance
// carries meaningful data.
//
// IsZero MUST return true if and only if the instance is semantically empty.
// For types with a single field this typically means checking that field
// against its zero value; for multi-field types IsZero SHOULD return true
// only if all fields are zero. Note that for some types the zero value is
// itself meaningful (a zero semver.Version is 0.0.0, the baseline of a
// repository with no release tags); IsZero reporting true does not imply the
// value is invalid.
//
// IsZero MUST be fast, deterministic, and idempotent. It MUST NOT have side
// effects and MUST be safe to call concurrently.
type ZeroCheckable interface {
	// IsZero reports whether the instance is in its zero or empty state.
	IsZero() bool
}
