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

	"dirpx.dev/dxver/dxcore/errors"
	"gopkg.in/yaml.v3"
)

// Increment selects which component of a stable base version dxver bumps
// when commits exist on top of it.
//
// When the nearest version tag reachable from HEAD is a stable release (no
// pre-release identifiers) and HEAD sits some number of commits above it,
// the synthesizer must move to the "next" version before attaching the
// pre-release height suffix. Increment names that next step: bump the patch
// component (the default), the minor component, or the major component.
//
// Increment has no effect when the base tag is itself a pre-release (the
// height is appended to the existing pre-release identifiers instead) and no
// effect when HEAD is exactly the tagged commit (the tag is authoritative).
type Increment int

const (
	// IncrementPatch bumps the Patch component of the base version.
	//
	// This is the default behavior: a stable base X.Y.Z with commits on top
	// becomes X.Y.(Z+1) before the pre-release identifiers are attached.
	// It is the conservative choice, promising no more than backwards
	// compatible fixes until a release tag says otherwise.
	//
	// IncrementPatch is the zero value of Increment, so an unconfigured
	// record gets patch semantics without further defaulting logic.
	IncrementPatch Increment = iota

	// IncrementMinor bumps the Minor component and resets Patch to zero.
	//
	// A stable base X.Y.Z with commits on top becomes X.(Y+1).0 before the
	// pre-release identifiers are attached. Teams that land features
	// between releases configure this so that interim builds already sort
	// above the last release's patch line.
	IncrementMinor

	// IncrementMajor bumps the Major component and resets Minor and Patch
	// to zero.
	//
	// A stable base X.Y.Z with commits on top becomes (X+1).0.0 before the
	// pre-release identifiers are attached. This is appropriate while a
	// breaking release is being prepared on the default branch.
	IncrementMajor
)

// Compile-time check that Increment implements model.Model interface.
var _ Model = (*Increment)(nil)

// String constants for Increment values used in serialization, parsing,
// and human-facing output.
//
// These names form the stable, external representation of Increment and MAY
// be used in CLI flags, environment variables, and JSON/YAML documents.
// Changing them is a breaking change for any consumer that relies on textual
// configuration.
const (
	IncrementPatchStr = "patch"
	IncrementMinorStr = "minor"
	IncrementMajorStr = "major"
)

// ParseIncrement converts a textual representation into an Increment value.
//
// The function accepts the lowercase, capitalized and uppercase spelling of
// each name (other mixed-case spellings are rejected) and maps them to the
// corresponding constants:
//
//	"patch", "Patch", "PATCH" -> IncrementPatch
//	"minor", "Minor", "MINOR" -> IncrementMinor
//	"major", "Major", "MAJOR" -> IncrementMajor
//
// Any other input is treated as invalid, and ParseIncrement returns a
// *ParseError. The returned error includes the original string value, which
// can be surfaced back to the user in diagnostics.
func ParseIncrement(s string) (Increment, error) {
	switch s {
	case IncrementPatchStr, "Patch", "PATCH":
		return IncrementPatch, nil
	case IncrementMinorStr, "Minor", "MINOR":
		return IncrementMinor, nil
	case IncrementMajorStr, "Major", "MAJOR":
		return IncrementMajor, nil
	default:
		return IncrementPatch, &errors.ParseError{Type: "Increment", Value: s}
	}
}

// String returns the canonical string representation of the Increment value.
//
// The returned value is always lowercase and suitable for use in CLI flags,
// logs, and structured output. The mapping is:
//
//	IncrementPatch -> "patch"
//	IncrementMinor -> "minor"
//	IncrementMajor -> "major"
//
// If the Increment value is not one of the defined constants, String returns
// "unknown". Callers that need to ensure only valid values are emitted
// SHOULD call Valid before invoking String, or treat "unknown" as an
// indicator of a configuration or programming error.
func (i Increment) String() string {
	switch i {
	case IncrementPatch:
		return IncrementPatchStr
	case IncrementMinor:
		return IncrementMinorStr
	case IncrementMajor:
		return IncrementMajorStr
	default:
		return "unknown"
	}
}

// Valid reports whether the Increment value is one of the defined constants.
//
// This method is primarily useful when Increment values may have been
// created via deserialization, numeric casts, or untrusted input. Code that
// relies on Increment being well-formed SHOULD call Valid before using the
// value in synthesis logic.
func (i Increment) Valid() bool {
	return i == IncrementPatch || i == IncrementMinor || i == IncrementMajor
}

// TypeName returns "Increment", the name of the type for logging and
// debugging.
//
// This method implements part of the model.Model interface, allowing
// Increment values to be used consistently with other model types in error
// messages and diagnostics.
func (i Increment) TypeName() string {
	return "Increment"
}

// Redacted returns the same string representation as String().
//
// Increment values contain no sensitive information (they are simply enum
// constants), so the redacted form is identical to the regular string form.
// This method implements part of the model.Model interface.
func (i Increment) Redacted() string {
	return i.String()
}

// IsZero reports whether the Increment has its zero value.
//
// For Increment (an enum type), the zero value is IncrementPatch
// (constant 0). This method implements part of the model.Model interface.
//
// Note: the zero value is the documented default, so IsZero returning true
// does not indicate an error condition; it indicates that the field was
// left at its default.
func (i Increment) IsZero() bool {
	return i == IncrementPatch
}

// Equal reports whether this Increment is equal to another value.
//
// The method accepts any type for other and uses type assertion to check if
// it is an Increment or *Increment. Two Increment values are equal if they
// represent the same enum constant.
func (i Increment) Equal(other any) bool {
	switch v := other.(type) {
	case Increment:
		return i == v
	case *Increment:
		if v == nil {
			return false
		}
		return i == *v
	default:
		return false
	}
}

// Validate checks whether the Increment value is one of the defined
// constants.
//
// This method returns nil if the Increment is valid (IncrementPatch,
// IncrementMinor, or IncrementMajor), and returns a *ValidationError if the
// value is outside the valid range.
//
// This method implements part of the model.Model interface and is typically
// called after deserialization or numeric casts to ensure the value is
// well-formed before using it in synthesis logic.
func (i Increment) Validate() error {
	if !i.Valid() {
		return &errors.ValidationError{
			Type:   "Increment",
			Field:  "",
			Reason: "invalid Increment value",
			Value:  int(i),
		}
	}
	return nil
}

// MarshalJSON implements json.Marshaler for Increment.
//
// A valid Increment is serialized as its lowercase string representation
// (for example, "patch" or "minor"). If the value is not valid, MarshalJSON
// returns a *MarshalError and does not produce any JSON output.
//
// This behavior ensures that invalid Increment values do not silently
// appear in JSON payloads and instead surface as explicit failures during
// encoding.
func (i Increment) MarshalJSON() ([]byte, error) {
	if !i.Valid() {
		return nil, &errors.MarshalError{Type: "Increment", Value: int(i)}
	}
	return []byte(`"` + i.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for Increment.
//
// The method accepts both string and numeric JSON representations:
//
//   - String: "patch", "minor", "major" (the capitalized and uppercase
//     spellings are also accepted via ParseIncrement).
//
//   - Number: 0 (IncrementPatch), 1 (IncrementMinor), 2 (IncrementMajor).
//
// String input is the preferred, stable representation. Numeric input is
// accepted for compatibility with payloads that store enum values as
// integers. An unrecognized string yields the *ParseError from
// ParseIncrement; input that is neither a JSON string nor a number, or a
// number outside the defined constants, yields an *UnmarshalError.
func (i *Increment) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return &errors.UnmarshalError{Type: "Increment", Data: data, Reason: "empty data"}
	}

	// Try string format first.
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return &errors.UnmarshalError{Type: "Increment", Data: data, Reason: err.Error()}
		}
		parsed, err := ParseIncrement(s)
		if err != nil {
			return err
		}
		*i = parsed
		return nil
	}

	// Fallback to numeric format.
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return &errors.UnmarshalError{Type: "Increment", Data: data, Reason: err.Error()}
	}
	*i = Increment(n)
	if !i.Valid() {
		return &errors.UnmarshalError{Type: "Increment", Data: data, Reason: "invalid numeric value"}
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler for Increment.
//
// A valid Increment is serialized as its canonical string representation
// (for example, "patch"). If the value is not valid, MarshalYAML returns a
// *MarshalError.
func (i Increment) MarshalYAML() (any, error) {
	if !i.Valid() {
		return nil, &errors.MarshalError{Type: "Increment", Value: int(i)}
	}
	return i.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler for Increment.
//
// The method accepts string representations of Increment values
// (for example, "patch", "minor") and resolves them via ParseIncrement.
// A node that does not decode as a string yields an *UnmarshalError; an
// unrecognized string yields the *ParseError from ParseIncrement.
func (i *Increment) UnmarshalYAML(node *yaml.Node) error {
	var str string
	if err := node.Decode(&str); err != nil {
		return &errors.UnmarshalError{Type: "Increment", Data: []byte(node.Value), Reason: err.Error()}
	}
	parsed, err := ParseIncrement(str)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler for Increment.
//
// Textual form is the same lowercase string representation as used by
// String() (for example, "patch", "minor"). This encoding is what pflag and
// environment-variable resolution feed through ParseIncrement. If the
// Increment value is invalid, MarshalText returns a *MarshalError.
func (i Increment) MarshalText() ([]byte, error) {
	if !i.Valid() {
		return nil, &errors.MarshalError{Type: "Increment", Value: int(i)}
	}
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for Increment.
//
// The method accepts the same textual vocabulary as ParseIncrement, using
// it as the single source of truth for mapping strings to Increment values.
// On failure, UnmarshalText returns the underlying *ParseError.
func (i *Increment) UnmarshalText(text []byte) error {
	parsed, err := ParseIncrement(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
