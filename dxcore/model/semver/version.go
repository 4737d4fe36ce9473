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

// Package semver provides the strict SemVer 2.0.0 value types used by the
// dxver version calculator: Version, Identifier, and the identifier
// sequences that configuration and synthesis manipulate.
//
// The package wraps github.com/blang/semver/v4 for parsing, validation, and
// precedence so that the calculator never re-implements the SemVer
// production rules, while exposing a dxver-specific immutable API.
package semver

import (
	"encoding/json"
	"fmt"

	dxerrors "dirpx.dev/dxver/dxcore/errors"
	bsemver "github.com/blang/semver/v4"

	"gopkg.in/yaml.v3"
)

// Version represents a semantic version according to the Semantic
// Versioning 2.0.0 specification (https://semver.org), as computed and
// compared by the dxver version calculator.
//
// This implementation wraps github.com/blang/semver/v4 to provide full
// SemVer 2.0.0 compliance while maintaining a clean, dxver-specific API.
//
// Version supports the full SemVer 2.0.0 format:
// Major.Minor.Patch[-Pre][+Build]
//
// Components:
//   - Major, Minor, Patch: non-negative integers for the version core
//   - Pre: ordered pre-release identifier sequence (e.g. "alpha.0.5")
//   - Build: ordered build metadata tokens (e.g. "build.123")
//
// Ordering and comparison follow SemVer 2.0.0 §11:
//   - Versions with pre-release identifiers have lower precedence than the
//     same version without: 1.0.0-alpha < 1.0.0
//   - Pre-release identifier lists are compared element by element:
//     1.0.0-alpha < 1.0.0-alpha.1 < 1.0.0-beta
//   - Build metadata does NOT affect precedence:
//     1.0.0+build1 == 1.0.0+build2
//
// The zero value of Version is 0.0.0, the baseline dxver uses for a
// repository whose history contains no version tags.
type Version struct {
	// Major is the first component of the semantic version.
	//
	// Incrementing Major indicates a breaking change according to semantic
	// versioning rules. The calculator only increments Major when the
	// configured auto-increment selects it.
	Major uint64

	// Minor is the second component of the semantic version.
	//
	// Incrementing Minor indicates the addition of backwards-compatible
	// functionality. Incrementing it resets Patch to zero.
	Minor uint64

	// Patch is the third component of the semantic version.
	//
	// Incrementing Patch indicates backwards-compatible fixes. It is the
	// component bumped by the calculator's default auto-increment.
	Patch uint64

	// Pre is the ordered pre-release identifier sequence.
	//
	// When non-empty, each element MUST be a valid SemVer 2.0.0 pre-release
	// identifier: numeric with no leading zeros, or a non-empty token of
	// [0-9A-Za-z-]. A version with a non-empty Pre has lower precedence
	// than the same version without.
	//
	// A nil and an empty sequence are equivalent and both mean "stable
	// release".
	Pre Identifiers

	// Build is the ordered build metadata token list.
	//
	// When non-empty, each element MUST be a non-empty string of
	// [0-9A-Za-z-]; leading zeros are permitted. Build metadata is ignored
	// when determining precedence: two versions that differ only in Build
	// have the same precedence.
	Build []string
}

// ParseVersion parses a strict SemVer 2.0.0 version string into a Version
// value.
//
// This function uses github.com/blang/semver/v4 internally to ensure full
// SemVer 2.0.0 compliance.
//
// The expected input format is "Major.Minor.Patch[-Pre][+Build]". Parsing
// is strict: a leading "v" is REJECTED at this layer. Tag-prefix stripping
// (including any "v" convention) is the tag index's responsibility, and
// keeping the parser strict means a misconfigured prefix surfaces as a
// skipped tag rather than a silently accepted one.
//
// Examples:
//
//	ParseVersion("1.2.3")              -> Version{Major: 1, Minor: 2, Patch: 3}
//	ParseVersion("1.0.0-alpha.1")      -> pre-release [alpha, 1]
//	ParseVersion("2.0.0-rc.1+b.5")     -> pre-release [rc, 1], build [b, 5]
//	ParseVersion("v1.2.3")             -> error (prefix not stripped)
//	ParseVersion("1.2.3-01")           -> error (leading zero)
//
// On error, ParseVersion returns a zero Version and a *ParseError. Callers
// MUST check the error before using the returned value.
func ParseVersion(s string) (Version, error) {
	bv, err := bsemver.Parse(s)
	if err != nil {
		return Version{}, &dxerrors.ParseError{Type: "Version", Value: s}
	}
	return fromBlangSemver(bv), nil
}

// MustParseVersion parses a version string and panics on failure.
//
// It is intended for tests and hardcoded constants only.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the canonical textual representation of the Version
// according to SemVer 2.0.0.
//
// The format is "Major.Minor.Patch[-Pre][+Build]" with the numeric
// components rendered as decimal integers. Pre and Build are included only
// when non-empty.
//
// Examples:
//
//	Version{Major: 1, Minor: 2, Patch: 3}.String()
//	// Output: "1.2.3"
//
//	Version{Major: 1, Pre: Identifiers{...alpha, 0, 5...}}.String()
//	// Output: "1.0.0-alpha.0.5"
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if len(v.Pre) > 0 {
		s += "-" + v.Pre.String()
	}
	if len(v.Build) > 0 {
		s += "+" + joinBuild(v.Build)
	}
	return s
}

func joinBuild(build []string) string {
	out := build[0]
	for _, b := range build[1:] {
		out += "." + b
	}
	return out
}

// blangSemver converts this Version to a blang/semver.Version for
// comparison and validation. The conversion is structural and cannot fail;
// malformed identifier contents are caught by Validate instead.
func (v Version) blangSemver() bsemver.Version {
	var pre []bsemver.PRVersion
	if len(v.Pre) > 0 {
		pre = make([]bsemver.PRVersion, len(v.Pre))
		for i, id := range v.Pre {
			pre[i] = id.prVersion()
		}
	}

	return bsemver.Version{
		Major: v.Major,
		Minor: v.Minor,
		Patch: v.Patch,
		Pre:   pre,
		Build: v.Build,
	}
}

// fromBlangSemver creates a Version from a blang/semver.Version.
func fromBlangSemver(bv bsemver.Version) Version {
	var pre Identifiers
	if len(bv.Pre) > 0 {
		pre = make(Identifiers, len(bv.Pre))
		for i, p := range bv.Pre {
			pre[i] = fromPRVersion(p)
		}
	}

	var build []string
	if len(bv.Build) > 0 {
		build = make([]string, len(bv.Build))
		copy(build, bv.Build)
	}

	return Version{
		Major: bv.Major,
		Minor: bv.Minor,
		Patch: bv.Patch,
		Pre:   pre,
		Build: build,
	}
}

// Validate checks that the Version components are well-formed according to
// SemVer 2.0.0.
//
// This method uses github.com/blang/semver/v4 internally. Validation
// enforces that every pre-release identifier is a valid SemVer 2.0.0
// identifier (numeric with no leading zeros, or non-empty [0-9A-Za-z-])
// and that every build metadata token is a non-empty [0-9A-Za-z-] string.
//
// This method is intended for use at boundaries such as deserialization or
// before emitting a version into user-facing output; the synthesizer calls
// it as its final round-trip check.
func (v Version) Validate() error {
	if err := v.blangSemver().Validate(); err != nil {
		return &dxerrors.ValidationError{
			Type:   "Version",
			Reason: err.Error(),
			Value:  v.String(),
		}
	}
	return nil
}

// IsZero reports whether the Version is exactly 0.0.0 with no pre-release
// identifiers or build metadata.
//
// This distinguishes the "no releases yet" baseline from explicit versions
// in higher-level logic. Note: "0.0.0-alpha" or "0.0.0+build" are NOT
// considered zero because they carry meaning beyond the numeric core.
func (v Version) IsZero() bool {
	return v.Major == 0 && v.Minor == 0 && v.Patch == 0 && len(v.Pre) == 0 && len(v.Build) == 0
}

// IsPreRelease reports whether the Version carries pre-release
// identifiers.
//
// The synthesizer forks on this: a pre-release base keeps its identifiers
// and gains a height element, while a stable base is auto-incremented and
// given the configured default identifiers.
func (v Version) IsPreRelease() bool {
	return len(v.Pre) > 0
}

// Compare compares v with other and reports their ordering according to
// SemVer 2.0.0 precedence rules.
//
// This method uses github.com/blang/semver/v4 internally to ensure correct
// SemVer 2.0.0 comparison semantics.
//
// It returns:
//   - -1 if v <  other
//   - 0 if v == other
//   - +1 if v >  other
//
// Ordering follows SemVer 2.0.0 §11:
//  1. Major, Minor, and Patch are compared numerically.
//  2. A version with pre-release identifiers has LOWER precedence than the
//     same version without: 1.0.0-alpha < 1.0.0
//  3. Pre-release identifier lists compare element by element: numeric
//     identifiers numerically, alphanumeric identifiers in ASCII order,
//     numeric before alphanumeric, shorter lists before longer ones when
//     all shared elements are equal.
//  4. Build metadata is ignored.
func (v Version) Compare(other Version) int {
	return v.blangSemver().Compare(other.blangSemver())
}

// Less reports whether v is strictly less than other according to SemVer
// 2.0.0 precedence.
func (v Version) Less(other Version) bool {
	return v.Compare(other) < 0
}

// Equal reports whether v and other have the same precedence.
//
// Note: per SemVer 2.0.0, build metadata is ignored, so 1.0.0+build1
// equals 1.0.0+build2.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// Greater reports whether v is strictly greater than other according to
// SemVer 2.0.0 precedence.
func (v Version) Greater(other Version) bool {
	return v.Compare(other) > 0
}

// TypeName returns "Version", the name of the type for diagnostics.
//
// This method implements part of the model.Model interface.
func (v Version) TypeName() string {
	return "Version"
}

// Redacted returns the same representation as String().
//
// Version values contain no sensitive information and are short enough for
// log lines as-is. This method implements part of the model.Model
// interface.
func (v Version) Redacted() string {
	return v.String()
}

// MarshalJSON implements json.Marshaler for Version.
//
// A valid Version is serialized as a JSON string in canonical SemVer form
// (for example, "1.2.3-alpha.0.5"). Before encoding, MarshalJSON calls
// Validate; if the Version is not well-formed, it returns the validation
// error and produces no JSON output.
func (v Version) MarshalJSON() ([]byte, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(v.String())
}

// UnmarshalJSON implements json.Unmarshaler for Version.
//
// The method expects the JSON value to be a string in canonical SemVer
// form. The string is parsed via ParseVersion (strict; no "v" prefix), and
// any parse error is returned directly to the caller.
func (v *Version) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &dxerrors.UnmarshalError{
			Type:   "Version",
			Data:   data,
			Reason: err.Error(),
		}
	}

	parsed, err := ParseVersion(s)
	if err != nil {
		return err
	}

	*v = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler for Version.
//
// A valid Version is serialized as a scalar string in canonical SemVer
// form. Validation is performed before encoding; if the Version is not
// well-formed, the validation error is returned and no YAML value is
// produced.
func (v Version) MarshalYAML() (interface{}, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler for Version.
//
// The YAML value is expected to be a scalar string in canonical SemVer
// form. The string is parsed via ParseVersion. Any parse error is returned
// to the caller, and in that case the Version MUST NOT be used.
func (v *Version) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return &dxerrors.UnmarshalError{
			Type:   "Version",
			Data:   nil,
			Reason: err.Error(),
		}
	}

	parsed, err := ParseVersion(s)
	if err != nil {
		return err
	}

	*v = parsed
	return nil
}
