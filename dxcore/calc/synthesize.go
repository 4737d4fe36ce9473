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

package calc

import (
	"dirpx.dev/dxver/dxcore/config"
	"dirpx.dev/dxver/dxcore/errors"
	"dirpx.dev/dxver/dxcore/model"
	"dirpx.dev/dxver/dxcore/model/semver"
)

// Synthesize transforms a base decision and a configuration into the final
// version. It is a pure function: it mutates neither input and depends on
// nothing else.
//
// The logic forks on four cases:
//
//   - Exact (height 0, tag source): the tag is authoritative. No
//     auto-increment, no default pre-release, and, uniquely, no minimum
//     floor.
//   - Pre-release base (tag source, height > 0, base has pre-release
//     identifiers): the base keeps its identifiers and gains one numeric
//     element carrying the height.
//   - Stable base (tag source, height > 0, no pre-release identifiers):
//     the configured component is bumped (resetting the lower ones), then
//     the default pre-release identifiers and the height element are
//     attached.
//   - Root (no tag reachable): 0.0.0 plus the default pre-release
//     identifiers; the height element is attached unless IgnoreHeight, in
//     which case it is omitted entirely. This is the only case where the
//     height suffix disappears rather than becoming 0.
//
// After the case fork: the minimum major.minor floor (if configured, and
// never for Exact) resets a too-small result to (M, m, 0) and re-applies
// the default pre-release identifiers and height element; configured build
// metadata then replaces whatever the base carried. A base tag's own build
// metadata is always discarded: only configuration supplies it.
//
// The result is validated against the SemVer production rules before being
// returned; a failure is a *SynthesisError and indicates a bug rather than
// bad input.
func Synthesize(d Decision, cfg config.Configuration) (semver.Version, error) {
	exact := d.Source == SourceTag && d.Height == 0

	var v semver.Version
	switch {
	case exact:
		v = d.Base
		v.Pre = d.Base.Pre.Clone()

	case d.Source == SourceTag && d.Base.IsPreRelease():
		v = d.Base
		v.Pre = append(d.Base.Pre.Clone(), semver.NumericIdentifier(heightElement(d, cfg)))

	case d.Source == SourceTag:
		v = bump(d.Base, cfg.AutoIncrement)
		v.Pre = append(cfg.DefaultPreRelease.Clone(), semver.NumericIdentifier(heightElement(d, cfg)))

	default: // SourceRoot
		v = semver.Version{}
		v.Pre = cfg.DefaultPreRelease.Clone()
		if !cfg.IgnoreHeight {
			v.Pre = append(v.Pre, semver.NumericIdentifier(d.Height))
		}
	}

	// The base tag's build metadata never propagates.
	v.Build = nil

	if cfg.MinimumMajorMinor != nil && !exact && !cfg.MinimumMajorMinor.Exceeds(v.Major, v.Minor) {
		v = semver.Version{
			Major: cfg.MinimumMajorMinor.Major,
			Minor: cfg.MinimumMajorMinor.Minor,
		}
		v.Pre = cfg.DefaultPreRelease.Clone()
		if d.Source == SourceRoot {
			if !cfg.IgnoreHeight {
				v.Pre = append(v.Pre, semver.NumericIdentifier(d.Height))
			}
		} else {
			v.Pre = append(v.Pre, semver.NumericIdentifier(heightElement(d, cfg)))
		}
	}

	if len(cfg.BuildMetadata) > 0 {
		v.Build = make([]string, len(cfg.BuildMetadata))
		copy(v.Build, cfg.BuildMetadata)
	}

	if err := v.Validate(); err != nil {
		return semver.Version{}, &errors.SynthesisError{
			Version: v.String(),
			Reason:  err.Error(),
		}
	}
	return v, nil
}

// heightElement returns the numeric value of the trailing height
// identifier: the decision's height, or 0 when the configuration ignores
// height.
func heightElement(d Decision, cfg config.Configuration) uint64 {
	if cfg.IgnoreHeight {
		return 0
	}
	return d.Height
}

// bump applies the configured auto-increment to a stable base: major
// resets minor and patch, minor resets patch, patch bumps patch. The
// base's identifier sequences are not carried over.
func bump(base semver.Version, inc model.Increment) semver.Version {
	switch inc {
	case model.IncrementMajor:
		return semver.Version{Major: base.Major + 1}
	case model.IncrementMinor:
		return semver.Version{Major: base.Major, Minor: base.Minor + 1}
	default:
		return semver.Version{Major: base.Major, Minor: base.Minor, Patch: base.Patch + 1}
	}
}
