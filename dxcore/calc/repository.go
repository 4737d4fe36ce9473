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

// Package calc implements the dxver version calculator: the tag index, the
// history walker, the base selector, and the version synthesizer.
//
// The calculator is single-threaded, synchronous, and pure in its inputs:
// given an unchanged repository state and configuration, repeated runs
// produce byte-identical results. It reaches the Git object database only
// through the narrow read-only Repository interface; dxcore/gitdb provides
// the go-git implementation.
package calc

import (
	"dirpx.dev/dxver/dxcore/model/git"
)

// TagRef is one reference from the tag namespace: the tag's short name
// (without "refs/tags/") and the object id the reference points at. For
// annotated tags the target is the tag object, not the commit; PeelToCommit
// resolves it.
type TagRef struct {
	// Name is the tag's short name.
	Name git.TagName

	// Target is the object id the reference points at.
	Target git.Hash
}

// Repository is the capability bundle the calculator requires from the
// surrounding system. It is read-only: no method mutates repository state,
// and the calculator never retains the value beyond a single calculation.
//
// Implementations are not required to be safe for concurrent use; the
// calculator is single-threaded and callers MUST NOT share one calculation
// across goroutines.
type Repository interface {
	// Head resolves the current HEAD commit.
	//
	// An unborn branch (a repository with no commits) is a resolution
	// failure; implementations return an error describing it.
	Head() (git.Hash, error)

	// TagRefs lists every reference under the tag namespace, in any
	// order. The calculator's result does not depend on the order.
	//
	// A failure to enumerate the namespace at all is fatal; individually
	// unreadable references are the tag index's concern and surface
	// through PeelToCommit instead.
	TagRefs() ([]TagRef, error)

	// PeelToCommit resolves a tag target to a commit id.
	//
	// Lightweight tags point at the commit directly; annotated tags (and
	// nested tags of tags) are peeled until a non-tag object is reached.
	// The boolean is false when the peeled object is not a commit. An
	// error indicates the target could not be read at all.
	PeelToCommit(id git.Hash) (git.Hash, bool, error)

	// Parents returns the parent commit ids of commit in recorded order
	// (first parent first).
	//
	// For a commit at a shallow-clone boundary the recorded parents are
	// unavailable; implementations return an empty slice and report the
	// truncation through IsShallowBoundary.
	Parents(commit git.Hash) ([]git.Hash, error)

	// IsShallowBoundary reports whether commit's parent edges are absent
	// because the clone is shallow.
	IsShallowBoundary(commit git.Hash) (bool, error)
}
