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
	stderrors "errors"
	"fmt"
	"testing"

	dxerrors "dirpx.dev/dxver/dxcore/errors"
	"dirpx.dev/dxver/dxcore/model/git"
)

// drain pulls the walker to exhaustion and returns the emissions.
func drain(t *testing.T, w *Walker) []Emission {
	t.Helper()

	var out []Emission
	for {
		e, ok, err := w.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if !ok {
			return out
		}
		out = append(out, e)
	}
}

func TestWalker_Linear(t *testing.T) {
	r := linearRepo(4)
	w := NewWalker(r, r.head)

	got := drain(t, w)
	want := []Emission{
		{Commit: commitHash("c3"), Depth: 0},
		{Commit: commitHash("c2"), Depth: 1},
		{Commit: commitHash("c1"), Depth: 2},
		{Commit: commitHash("c0"), Depth: 3},
	}

	if len(got) != len(want) {
		t.Fatalf("emitted %d commits, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("emission[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if w.Shallow() {
		t.Errorf("Shallow() = true, want false")
	}
	if w.TerminalDepth() != 3 {
		t.Errorf("TerminalDepth() = %d, want 3", w.TerminalDepth())
	}
	if w.Emitted() != 4 {
		t.Errorf("Emitted() = %d, want 4", w.Emitted())
	}
}

func TestWalker_MergeFirstParentFirst(t *testing.T) {
	// m's recorded parent order is (a, b); within depth 1 the walker must
	// emit a before b.
	r := newFakeRepo()
	r.commit("base")
	r.commit("a", "base")
	r.commit("b", "base")
	r.commit("m", "a", "b")
	r.head = commitHash("m")

	got := drain(t, NewWalker(r, r.head))
	want := []Emission{
		{Commit: commitHash("m"), Depth: 0},
		{Commit: commitHash("a"), Depth: 1},
		{Commit: commitHash("b"), Depth: 1},
		{Commit: commitHash("base"), Depth: 2},
	}

	if len(got) != len(want) {
		t.Fatalf("emitted %d commits, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("emission[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestWalker_SharedAncestryEmittedOnce(t *testing.T) {
	// Diamond: base is reachable via both sides but must come out once,
	// at its minimal depth.
	r := newFakeRepo()
	r.commit("root")
	r.commit("base", "root")
	r.commit("a", "base")
	r.commit("b", "base")
	r.commit("m", "a", "b")
	r.head = commitHash("m")

	got := drain(t, NewWalker(r, r.head))

	seen := make(map[git.Hash]int)
	for _, e := range got {
		seen[e.Commit]++
	}
	for h, n := range seen {
		if n != 1 {
			t.Errorf("commit %s emitted %d times", h.Short(), n)
		}
	}
	if len(got) != 5 {
		t.Errorf("emitted %d commits, want 5", len(got))
	}
}

func TestWalker_UnevenMergeDepths(t *testing.T) {
	// Second-parent line is longer; depths follow edges, not commit
	// counts per line.
	r := newFakeRepo()
	r.commit("root")
	r.commit("a", "root")
	r.commit("b1", "root")
	r.commit("b2", "b1")
	r.commit("m", "a", "b2")
	r.head = commitHash("m")

	got := drain(t, NewWalker(r, r.head))

	depths := make(map[git.Hash]uint64)
	for _, e := range got {
		depths[e.Commit] = e.Depth
	}

	wantDepths := map[string]uint64{
		"m": 0, "a": 1, "b2": 1, "root": 2, "b1": 2,
	}
	for label, want := range wantDepths {
		if got := depths[commitHash(label)]; got != want {
			t.Errorf("depth of %s = %d, want %d", label, got, want)
		}
	}
}

func TestWalker_ShallowBoundary(t *testing.T) {
	// A shallow clone: c0's parents are truncated.
	r := linearRepo(3)
	r.parents[commitHash("c0")] = nil
	r.shallow[commitHash("c0")] = true

	w := NewWalker(r, r.head)
	drain(t, w)

	if !w.Shallow() {
		t.Errorf("Shallow() = false, want true")
	}
	if w.TerminalDepth() != 2 {
		t.Errorf("TerminalDepth() = %d, want 2", w.TerminalDepth())
	}
}

func TestWalker_ShallowNotFlaggedWhenRootReached(t *testing.T) {
	// One line ends at a true root, another at a shallow boundary: the
	// walk did reach a root, so the shallow flag stays off.
	r := newFakeRepo()
	r.commit("root")
	r.commit("cut")
	r.shallow[commitHash("cut")] = true
	r.commit("a", "root")
	r.commit("b", "cut")
	r.commit("m", "a", "b")
	r.head = commitHash("m")

	w := NewWalker(r, r.head)
	drain(t, w)

	if w.Shallow() {
		t.Errorf("Shallow() = true, want false when a root was reached")
	}
}

func TestWalker_ParentErrorIsFatal(t *testing.T) {
	r := linearRepo(3)
	r.parentsErr[commitHash("c1")] = fmt.Errorf("loose object corrupt")

	w := NewWalker(r, r.head)

	var err error
	for {
		_, ok, nerr := w.Next()
		if nerr != nil {
			err = nerr
			break
		}
		if !ok {
			break
		}
	}

	if err == nil {
		t.Fatal("walk completed, want repository read error")
	}
	var rre *dxerrors.RepositoryReadError
	if !stderrors.As(err, &rre) {
		t.Errorf("error type = %T, want *RepositoryReadError", err)
	}

	// The walk stays exhausted after the error.
	if _, ok, _ := w.Next(); ok {
		t.Errorf("Next() after error still emitting")
	}
}
