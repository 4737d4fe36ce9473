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
	"dirpx.dev/dxver/dxcore/errors"
	"dirpx.dev/dxver/dxcore/model/git"
)

// Emission is one step of the history walk: a commit and its depth, the
// number of edges from HEAD along the traversal that reached it first.
type Emission struct {
	// Commit is the emitted commit id.
	Commit git.Hash

	// Depth is the BFS level of the commit: 0 for HEAD itself, and on a
	// linear history the number of commits between HEAD and this one.
	Depth uint64
}

// Walker produces the ancestors of HEAD as a lazy, pull-driven sequence of
// (commit, depth) emissions.
//
// The traversal is breadth-first: commits come out level by level, and
// within a dequeued commit the parents are enqueued in recorded order,
// first parent first. That gives the first-parent lineage priority inside
// each level while keeping depth equal to the true edge distance. A visited
// set prevents re-emission of shared ancestry on merge-heavy histories.
//
// The sequence is finite. It ends when every reachable commit has been
// emitted or when the consumer simply stops pulling; there is no other
// cancellation mechanism and no background work.
type Walker struct {
	repo  Repository
	queue []Emission
	seen  map[git.Hash]struct{}

	emitted    uint64
	sawRoot    bool
	sawShallow bool

	hasTerminal   bool
	terminalDepth uint64
}

// NewWalker returns a Walker positioned to emit head at depth 0.
func NewWalker(repo Repository, head git.Hash) *Walker {
	return &Walker{
		repo:  repo,
		queue: []Emission{{Commit: head}},
		seen:  map[git.Hash]struct{}{head: {}},
	}
}

// Next returns the next emission in traversal order. The boolean is false
// when the walk is exhausted (or an error occurred), after which Next keeps
// returning false.
//
// A parent lookup failure aborts the walk with a *RepositoryReadError: a
// partially walked history could understate the height, so the error is
// fatal to the calculation.
func (w *Walker) Next() (Emission, bool, error) {
	if len(w.queue) == 0 {
		return Emission{}, false, nil
	}

	e := w.queue[0]
	w.queue = w.queue[1:]
	w.emitted++

	parents, err := w.repo.Parents(e.Commit)
	if err != nil {
		w.queue = nil
		return Emission{}, false, &errors.RepositoryReadError{Op: "read parents of " + e.Commit.Short(), Err: err}
	}

	if len(parents) == 0 {
		shallow, serr := w.repo.IsShallowBoundary(e.Commit)
		if serr != nil {
			w.queue = nil
			return Emission{}, false, &errors.RepositoryReadError{Op: "check shallow boundary of " + e.Commit.Short(), Err: serr}
		}
		if shallow {
			w.sawShallow = true
		} else {
			w.sawRoot = true
		}
		// BFS emits in nondecreasing depth, so the first terminal commit
		// is the nearest one.
		if !w.hasTerminal {
			w.hasTerminal = true
			w.terminalDepth = e.Depth
		}
	}

	for _, p := range parents {
		if _, ok := w.seen[p]; ok {
			continue
		}
		w.seen[p] = struct{}{}
		w.queue = append(w.queue, Emission{Commit: p, Depth: e.Depth + 1})
	}

	return e, true, nil
}

// Shallow reports whether the walk ran out of history solely because of
// shallow-clone boundaries, without reaching any true root commit. It is
// meaningful once Next has returned false.
func (w *Walker) Shallow() bool {
	return w.sawShallow && !w.sawRoot
}

// TerminalDepth returns the depth of the nearest commit whose parent edges
// end the walk: a root commit, or a shallow boundary. It is meaningful
// once Next has returned false; on an exhausted walk of a non-empty
// history at least one such commit always exists.
func (w *Walker) TerminalDepth() uint64 {
	return w.terminalDepth
}

// Emitted returns the number of commits emitted so far.
func (w *Walker) Emitted() uint64 {
	return w.emitted
}
