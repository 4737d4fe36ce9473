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
	"dirpx.dev/dxver/dxcore/diag"
	"dirpx.dev/dxver/dxcore/model/git"
	"dirpx.dev/dxver/dxcore/model/semver"
)

// Source records where a base version came from.
type Source int

const (
	// SourceTag means the base was parsed from a reachable version tag.
	SourceTag Source = iota

	// SourceRoot means no qualifying tag was reachable and the base is
	// the 0.0.0 baseline.
	SourceRoot
)

// String returns "tag" or "root" (or "unknown" for an out-of-range value).
func (s Source) String() string {
	switch s {
	case SourceTag:
		return "tag"
	case SourceRoot:
		return "root"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler for Source, so that Result
// serializes the provenance as "tag" or "root" rather than an integer.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// MarshalYAML implements yaml.Marshaler for Source.
func (s Source) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// Decision is the base selector's answer: the base version the synthesizer
// starts from, the height at which it was found, and its provenance.
type Decision struct {
	// Base is the winning base version; 0.0.0 when Source is SourceRoot.
	Base semver.Version

	// Height is the depth at which the base was found. Zero means HEAD
	// itself carries the winning tag. For SourceRoot it is the depth of
	// the nearest terminal commit (root or shallow boundary).
	Height uint64

	// Source records whether the base came from a tag or is the no-tag
	// baseline.
	Source Source

	// Tag is the full name of the winning tag; zero for SourceRoot.
	Tag git.TagName

	// Shallow reports that the walk was cut short by shallow-clone
	// boundaries without reaching a root, so Height may understate the
	// true height. Only meaningful for SourceRoot: a tag found before
	// the boundary is exact regardless of the truncation.
	Shallow bool
}

// SelectBase consumes the walker's emissions against the tag index and
// picks the winning (base, height) pair.
//
// The contract is depth-minimal, precedence-maximal: among all tagged
// commits reachable from HEAD, the smallest depth wins, and among tagged
// commits tied at that depth the highest SemVer precedence wins (a tie
// that survives precedence goes to the lexicographically larger tag name,
// the same rule the index applies within one commit). To detect equal-depth ties at a
// merge, the walker is pulled until the first emission strictly deeper
// than the first candidate, and no further.
//
// If the walk exhausts without a candidate, the decision is the 0.0.0
// baseline with the nearest terminal commit's depth as the height; if the
// walk ended only because of shallow boundaries, a KindShallowHistory
// warning is emitted and the decision is flagged.
func SelectBase(w *Walker, idx *TagIndex, sink diag.Sink) (Decision, error) {
	if sink == nil {
		sink = diag.Discard
	}

	var (
		found      bool
		foundDepth uint64
		candidates []TaggedVersion
	)

	for {
		e, ok, err := w.Next()
		if err != nil {
			return Decision{}, err
		}
		if !ok {
			break
		}
		if found && e.Depth > foundDepth {
			// The candidate level is complete; nothing deeper can win.
			break
		}

		if entry, tagged := idx.Lookup(e.Commit); tagged {
			// The entry is precedence-descending; only its head can win.
			if !found {
				found = true
				foundDepth = e.Depth
			}
			candidates = append(candidates, entry[0])
		}
	}

	if found {
		win := candidates[0]
		for _, c := range candidates[1:] {
			if c.Version.Greater(win.Version) ||
				(c.Version.Equal(win.Version) && c.Tag > win.Tag) {
				win = c
			}
		}
		return Decision{
			Base:   win.Version,
			Height: foundDepth,
			Source: SourceTag,
			Tag:    win.Tag,
		}, nil
	}

	shallow := w.Shallow()
	if shallow {
		sink.Warn(diag.Warning{
			Kind:    diag.KindShallowHistory,
			Message: "no version tag reachable before the shallow boundary; computed height may be truncated",
		})
	}

	return Decision{
		Base:    semver.Version{},
		Height:  w.TerminalDepth(),
		Source:  SourceRoot,
		Shallow: shallow,
	}, nil
}
