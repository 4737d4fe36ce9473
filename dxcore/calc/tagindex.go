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
	"sort"

	"dirpx.dev/dxver/dxcore/diag"
	"dirpx.dev/dxver/dxcore/model/git"
	"dirpx.dev/dxver/dxcore/model/semver"
)

// TaggedVersion is one parsed version tag: the version the tag name parsed
// to (after prefix stripping) and the full tag name it came from. The name
// is retained for the equal-precedence tiebreak and for diagnostics.
type TaggedVersion struct {
	// Version is the parsed version.
	Version semver.Version

	// Tag is the full short name of the tag the version was parsed from.
	Tag git.TagName
}

// TagIndex maps commit ids to the version tags that target them.
//
// Within an entry, versions are ordered by SemVer precedence descending
// (highest first). Versions of equal precedence collapse to one entry, kept
// for the lexicographically larger full tag name, a stable, total tiebreak
// for tags that differ only in build metadata.
//
// The index is built once per calculation and is read-only afterwards.
type TagIndex struct {
	entries map[git.Hash][]TaggedVersion
}

// BuildTagIndex scans the repository's tag namespace and builds the index
// for the given tag prefix.
//
// For each reference: names not starting with the prefix are discarded
// silently (they are simply out of scope); names whose remainder does not
// parse as a strict SemVer 2.0.0 version are skipped with a
// KindUnparseableTag warning; targets that cannot be read are skipped with
// a KindUnreadableRef warning; targets that peel to a non-commit object are
// skipped with a KindTagPointsToNonCommit warning. None of these conditions
// is fatal.
//
// Only a failure to enumerate the tag namespace itself aborts the build.
func BuildTagIndex(repo Repository, prefix string, sink diag.Sink) (*TagIndex, error) {
	if sink == nil {
		sink = diag.Discard
	}

	refs, err := repo.TagRefs()
	if err != nil {
		return nil, err
	}

	idx := &TagIndex{entries: make(map[git.Hash][]TaggedVersion)}
	for _, ref := range refs {
		if !ref.Name.HasPrefix(prefix) {
			continue
		}

		version, perr := semver.ParseVersion(ref.Name.StripPrefix(prefix))
		if perr != nil {
			sink.Warn(diag.Warning{
				Kind:    diag.KindUnparseableTag,
				Subject: ref.Name.String(),
				Message: "not a semantic version after stripping prefix",
			})
			continue
		}

		commit, ok, rerr := repo.PeelToCommit(ref.Target)
		if rerr != nil {
			sink.Warn(diag.Warning{
				Kind:    diag.KindUnreadableRef,
				Subject: ref.Name.String(),
				Message: rerr.Error(),
			})
			continue
		}
		if !ok {
			sink.Warn(diag.Warning{
				Kind:    diag.KindTagPointsToNonCommit,
				Subject: ref.Name.String(),
				Message: "tag target is not a commit",
			})
			continue
		}

		idx.add(commit, TaggedVersion{Version: version, Tag: ref.Name})
	}

	return idx, nil
}

// add inserts one tagged version into the entry for commit, keeping the
// entry ordered by precedence descending and collapsing equal-precedence
// versions onto the lexicographically larger tag name.
func (x *TagIndex) add(commit git.Hash, tv TaggedVersion) {
	entry := x.entries[commit]

	for i, existing := range entry {
		if existing.Version.Equal(tv.Version) {
			if tv.Tag > existing.Tag {
				entry[i] = tv
			}
			return
		}
	}

	entry = append(entry, tv)
	sort.Slice(entry, func(i, j int) bool {
		return entry[i].Version.Greater(entry[j].Version)
	})
	x.entries[commit] = entry
}

// Lookup returns the tagged versions for commit, highest precedence first,
// and whether the commit has any.
//
// The returned slice is the index's own storage; callers MUST NOT mutate
// it.
func (x *TagIndex) Lookup(commit git.Hash) ([]TaggedVersion, bool) {
	entry, ok := x.entries[commit]
	return entry, ok
}

// Len returns the number of distinct tagged commits in the index.
func (x *TagIndex) Len() int {
	return len(x.entries)
}
