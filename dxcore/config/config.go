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

// Package config defines the immutable configuration record consumed by the
// version calculator.
//
// The record is resolved outside the core: cmd/dxver materializes it from
// command-line flags and DXVER_* environment variables (flag > env >
// default) and hands the finished value in. The core validates it once,
// before any repository access, and treats it as read-only afterwards.
package config

import (
	"fmt"
	"strconv"
	"strings"

	dxerrors "dirpx.dev/dxver/dxcore/errors"
	"dirpx.dev/dxver/dxcore/model"
	"dirpx.dev/dxver/dxcore/model/semver"
	"go.uber.org/multierr"
)

// MajorMinor is an inclusive floor on the major and minor components of a
// synthesized version.
type MajorMinor struct {
	// Major is the floor's major component.
	Major uint64 `json:"major" yaml:"major"`

	// Minor is the floor's minor component.
	Minor uint64 `json:"minor" yaml:"minor"`
}

// ParseMajorMinor parses a "MAJOR.MINOR" string such as "1.0" into a
// MajorMinor value.
//
// Both components must be decimal integers without leading zeros, matching
// the SemVer core-component rules. Anything else (a single number, a full
// triple, signs, spaces) is rejected with a *ParseError.
func ParseMajorMinor(s string) (MajorMinor, error) {
	major, minor, ok := strings.Cut(s, ".")
	if !ok {
		return MajorMinor{}, &dxerrors.ParseError{Type: "MajorMinor", Value: s}
	}

	ma, err := parseVersionComponent(major)
	if err != nil {
		return MajorMinor{}, &dxerrors.ParseError{Type: "MajorMinor", Value: s}
	}
	mi, err := parseVersionComponent(minor)
	if err != nil {
		return MajorMinor{}, &dxerrors.ParseError{Type: "MajorMinor", Value: s}
	}

	return MajorMinor{Major: ma, Minor: mi}, nil
}

// parseVersionComponent parses one SemVer core component: a decimal uint64
// with no leading zeros and no signs.
func parseVersionComponent(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty component")
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, fmt.Errorf("leading zero")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("non-digit %q", s[i])
		}
	}
	return strconv.ParseUint(s, 10, 64)
}

// String returns the "MAJOR.MINOR" form of the floor.
func (m MajorMinor) String() string {
	return strconv.FormatUint(m.Major, 10) + "." + strconv.FormatUint(m.Minor, 10)
}

// Exceeds reports whether the pair (major, minor) meets or exceeds the
// floor in lexicographic order.
func (m MajorMinor) Exceeds(major, minor uint64) bool {
	if major != m.Major {
		return major > m.Major
	}
	return minor >= m.Minor
}

// Configuration is the immutable option record of the version calculator.
//
// The zero value is NOT the default configuration: Default() supplies the
// documented defaults (patch auto-increment, "alpha.0" pre-release
// identifiers). Callers that build a Configuration by hand are expected to
// start from Default() and override fields.
//
// The record is a plain value; copying it is cheap and the calculator never
// mutates it.
type Configuration struct {
	// TagPrefix is stripped from tag names before version parsing. Tags
	// that do not begin with the prefix are ignored entirely. The empty
	// prefix matches every tag.
	TagPrefix string `json:"tag-prefix" yaml:"tag-prefix"`

	// AutoIncrement selects which version component is bumped when the
	// base is a stable release with commits on top. The zero value is
	// IncrementPatch, the documented default.
	AutoIncrement model.Increment `json:"auto-increment" yaml:"auto-increment"`

	// DefaultPreRelease is the identifier sequence attached after an
	// auto-increment (and in the no-tag baseline case), before the height
	// element. Default: alpha.0.
	DefaultPreRelease semver.Identifiers `json:"default-pre-release-identifiers" yaml:"default-pre-release-identifiers"`

	// MinimumMajorMinor, when non-nil, floors the synthesized major and
	// minor components. An exact tag match is never floored.
	MinimumMajorMinor *MajorMinor `json:"minimum-major-minor,omitempty" yaml:"minimum-major-minor,omitempty"`

	// IgnoreHeight, when true, zeroes the height element of the
	// synthesized pre-release (and omits it entirely in the no-tag
	// baseline case).
	IgnoreHeight bool `json:"ignore-height" yaml:"ignore-height"`

	// BuildMetadata, when non-empty, is attached verbatim to the final
	// version, replacing any build metadata the base tag carried.
	BuildMetadata []string `json:"build-metadata,omitempty" yaml:"build-metadata,omitempty"`
}

// Default returns the documented default configuration: empty tag prefix,
// patch auto-increment, "alpha.0" default pre-release identifiers, no
// floor, height honored, no build metadata.
func Default() Configuration {
	alpha, err := semver.ParseIdentifiers("alpha.0")
	if err != nil {
		// The literal is a constant of this package; failure to parse it
		// is unreachable.
		panic(err)
	}

	return Configuration{
		TagPrefix:         "",
		AutoIncrement:     model.IncrementPatch,
		DefaultPreRelease: alpha,
	}
}

// Validate checks the configuration record before any repository access.
//
// All field failures are collected with multierr and wrapped in a single
// *ConfigurationError, so one run reports every mistake:
//
//   - AutoIncrement must be a defined constant.
//   - DefaultPreRelease identifiers must each be valid SemVer pre-release
//     identifiers.
//   - BuildMetadata tokens must each be non-empty [0-9A-Za-z-] strings.
//
// TagPrefix is unconstrained (any string, including empty, is a valid
// prefix), and MinimumMajorMinor is structurally valid by construction.
func (c Configuration) Validate() error {
	var err error

	if verr := c.AutoIncrement.Validate(); verr != nil {
		err = multierr.Append(err, verr)
	}

	if verr := model.ValidateAll(c.DefaultPreRelease); verr != nil {
		err = multierr.Append(err, fmt.Errorf("default pre-release identifiers: %w", verr))
	}

	for i, b := range c.BuildMetadata {
		if b == "" || strings.Contains(b, ".") {
			err = multierr.Append(err, fmt.Errorf("build metadata [%d]: %q is not a valid build identifier", i, b))
			continue
		}
		if _, perr := semver.ParseBuildIdentifiers(b); perr != nil {
			err = multierr.Append(err, fmt.Errorf("build metadata [%d]: %q is not a valid build identifier", i, b))
		}
	}

	if err != nil {
		return &dxerrors.ConfigurationError{Err: err}
	}
	return nil
}
