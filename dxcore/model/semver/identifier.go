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

package semver

import (
	"encoding/json"
	"strconv"
	"strings"

	dxerrors "dirpx.dev/dxver/dxcore/errors"
	bsemver "github.com/blang/semver/v4"

	"gopkg.in/yaml.v3"
)

// Identifier is a single pre-release identifier according to SemVer 2.0.0.
//
// An identifier is either numeric (a non-negative integer with no leading
// zeros, fitting in uint64) or alphanumeric (a non-empty token matching
// [0-9A-Za-z-] that is not purely numeric). The distinction matters for
// precedence: numeric identifiers compare numerically and always have lower
// precedence than alphanumeric ones.
//
// Identifier wraps github.com/blang/semver/v4's PRVersion representation so
// that parsing and comparison stay on the library's SemVer 2.0.0 rules,
// while presenting the immutable value-type surface the rest of dxver
// expects.
//
// The zero value of Identifier is empty and invalid; construct values with
// NewIdentifier or NumericIdentifier.
type Identifier struct {
	str     string
	num     uint64
	numeric bool
}

// NewIdentifier parses a single pre-release identifier.
//
// Purely numeric input produces a numeric identifier; numeric input with a
// leading zero ("01") is rejected, as is input containing characters outside
// [0-9A-Za-z-], empty input, and numeric input that overflows uint64.
//
// Examples:
//
//	NewIdentifier("alpha") -> alphanumeric identifier "alpha"
//	NewIdentifier("0")     -> numeric identifier 0
//	NewIdentifier("01")    -> error (leading zero)
//	NewIdentifier("x_y")   -> error (underscore not allowed)
func NewIdentifier(s string) (Identifier, error) {
	pr, err := bsemver.NewPRVersion(s)
	if err != nil {
		return Identifier{}, &dxerrors.ParseError{Type: "Identifier", Value: s}
	}
	return fromPRVersion(pr), nil
}

// NumericIdentifier returns the numeric identifier with value n.
//
// The synthesizer uses this to append the walk height to a pre-release
// identifier sequence.
func NumericIdentifier(n uint64) Identifier {
	return Identifier{num: n, numeric: true}
}

// fromPRVersion converts a blang/semver pre-release identifier into an
// Identifier.
func fromPRVersion(pr bsemver.PRVersion) Identifier {
	return Identifier{str: pr.VersionStr, num: pr.VersionNum, numeric: pr.IsNum}
}

// prVersion converts the Identifier back into blang/semver's representation
// for comparison and validation.
func (i Identifier) prVersion() bsemver.PRVersion {
	return bsemver.PRVersion{VersionStr: i.str, VersionNum: i.num, IsNum: i.numeric}
}

// IsNumeric reports whether the identifier is numeric.
func (i Identifier) IsNumeric() bool {
	return i.numeric
}

// Num returns the numeric value of a numeric identifier. For alphanumeric
// identifiers it returns 0; callers SHOULD check IsNumeric first.
func (i Identifier) Num() uint64 {
	return i.num
}

// String returns the canonical textual form of the identifier: the decimal
// rendering for numeric identifiers, the token itself for alphanumeric
// ones.
func (i Identifier) String() string {
	if i.numeric {
		return strconv.FormatUint(i.num, 10)
	}
	return i.str
}

// Compare compares two identifiers according to SemVer 2.0.0 §11: numeric
// identifiers compare numerically, alphanumeric identifiers compare in ASCII
// sort order, and numeric identifiers always have lower precedence than
// alphanumeric ones. It returns -1, 0, or +1.
func (i Identifier) Compare(other Identifier) int {
	return i.prVersion().Compare(other.prVersion())
}

// TypeName returns "Identifier", the name of the type for diagnostics.
//
// This method implements part of the model.Model interface.
func (i Identifier) TypeName() string {
	return "Identifier"
}

// Redacted returns the same string representation as String().
//
// Identifiers carry no sensitive information. This method implements part
// of the model.Model interface.
func (i Identifier) Redacted() string {
	return i.String()
}

// IsZero reports whether the Identifier is the (invalid) zero value.
//
// This method implements part of the model.Model interface. Note that the
// numeric identifier 0 produced by NumericIdentifier(0) is NOT zero in this
// sense; it is a valid identifier with the value 0.
func (i Identifier) IsZero() bool {
	return !i.numeric && i.str == ""
}

// Validate checks that the identifier is well-formed: non-empty, and for
// alphanumeric identifiers containing only [0-9A-Za-z-].
//
// This method implements part of the model.Model interface.
func (i Identifier) Validate() error {
	if i.IsZero() {
		return &dxerrors.ValidationError{
			Type:   "Identifier",
			Reason: "must not be empty",
		}
	}
	if i.numeric {
		return nil
	}
	if _, err := bsemver.NewPRVersion(i.str); err != nil {
		return &dxerrors.ValidationError{
			Type:   "Identifier",
			Reason: "must contain only [0-9A-Za-z-]",
			Value:  i.str,
		}
	}
	return nil
}

// MarshalJSON implements json.Marshaler for Identifier.
//
// A valid Identifier is serialized as a JSON string in its canonical form
// ("alpha", "5"). Validation is performed before encoding.
func (i Identifier) MarshalJSON() ([]byte, error) {
	if err := i.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(i.String())
}

// UnmarshalJSON implements json.Unmarshaler for Identifier.
//
// The JSON value is expected to be a string; it is parsed via NewIdentifier
// and any parse error is returned to the caller.
func (i *Identifier) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &dxerrors.UnmarshalError{
			Type:   "Identifier",
			Data:   data,
			Reason: err.Error(),
		}
	}

	parsed, err := NewIdentifier(s)
	if err != nil {
		return err
	}

	*i = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler for Identifier.
//
// A valid Identifier is serialized as a scalar string in its canonical
// form. Validation is performed before encoding.
func (i Identifier) MarshalYAML() (interface{}, error) {
	if err := i.Validate(); err != nil {
		return nil, err
	}
	return i.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler for Identifier.
//
// The YAML value is expected to be a scalar string; it is parsed via
// NewIdentifier and any parse error is returned to the caller.
func (i *Identifier) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return &dxerrors.UnmarshalError{
			Type:   "Identifier",
			Data:   nil,
			Reason: err.Error(),
		}
	}

	parsed, err := NewIdentifier(s)
	if err != nil {
		return err
	}

	*i = parsed
	return nil
}

// Identifiers is an ordered sequence of pre-release identifiers.
//
// The sequence order is significant: SemVer compares pre-release identifier
// lists element by element, and dxver appends the walk height as the final
// numeric element.
type Identifiers []Identifier

// ParseIdentifiers parses a dot-separated identifier list such as "alpha.0"
// or "rc.1".
//
// Empty input yields a nil (empty) sequence, which is how configuration
// expresses "no identifiers". A list with an empty element ("alpha..1") or
// any invalid element is rejected.
func ParseIdentifiers(s string) (Identifiers, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ".")
	ids := make(Identifiers, 0, len(parts))
	for _, part := range parts {
		id, err := NewIdentifier(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// String returns the canonical dot-joined form of the sequence, or the
// empty string for an empty sequence.
func (ids Identifiers) String() string {
	if len(ids) == 0 {
		return ""
	}

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ".")
}

// Validate checks every identifier in the sequence and returns the first
// failure, wrapped with its position.
func (ids Identifiers) Validate() error {
	for n, id := range ids {
		if err := id.Validate(); err != nil {
			return &dxerrors.ValidationError{
				Type:   "Identifiers",
				Field:  "[" + strconv.Itoa(n) + "]",
				Reason: err.Error(),
				Value:  id.String(),
			}
		}
	}
	return nil
}

// Clone returns a copy of the sequence that shares no backing storage with
// the receiver. The synthesizer uses this before appending the height so
// that a Decision's base version is never mutated.
func (ids Identifiers) Clone() Identifiers {
	if ids == nil {
		return nil
	}
	out := make(Identifiers, len(ids))
	copy(out, ids)
	return out
}

// ParseBuildIdentifiers parses a dot-separated build metadata list such as
// "build.123" or "20130313144700".
//
// Build identifiers follow looser rules than pre-release identifiers:
// leading zeros are permitted, but each token must be a non-empty string of
// [0-9A-Za-z-]. Empty input yields a nil (empty) list.
func ParseBuildIdentifiers(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ".")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		b, err := bsemver.NewBuildVersion(part)
		if err != nil {
			return nil, &dxerrors.ParseError{Type: "BuildIdentifier", Value: part}
		}
		out = append(out, b)
	}
	return out, nil
}
