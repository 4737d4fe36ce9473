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
	"fmt"
	"testing"

	"dirpx.dev/dxver/dxcore/diag"
	"dirpx.dev/dxver/dxcore/model/git"
)

func TestBuildTagIndex_PrefixFiltering(t *testing.T) {
	r := linearRepo(3)
	r.tag("v1.0.0", "c0")
	r.tag("v2.0.0", "c1")
	r.tag("1.5.0", "c2")         // no prefix: out of scope
	r.tag("release-3.0.0", "c2") // different prefix: out of scope

	var sink diag.Collector
	idx, err := BuildTagIndex(r, "v", &sink)
	if err != nil {
		t.Fatalf("BuildTagIndex() error = %v", err)
	}

	if idx.Len() != 2 {
		t.Errorf("Len() = %d, want 2", idx.Len())
	}
	if _, ok := idx.Lookup(commitHash("c2")); ok {
		t.Errorf("non-prefixed tags were indexed")
	}
	// Out-of-scope names are not warnings.
	if len(sink.Warnings()) != 0 {
		t.Errorf("unexpected warnings: %v", sink.Warnings())
	}

	entry, ok := idx.Lookup(commitHash("c0"))
	if !ok || len(entry) != 1 || entry[0].Version.String() != "1.0.0" {
		t.Errorf("Lookup(c0) = %v, %v; want [1.0.0]", entry, ok)
	}
}

func TestBuildTagIndex_UnparseableTagWarned(t *testing.T) {
	r := linearRepo(1)
	r.tag("v1.0.0", "c0")
	r.tag("vnext", "c0")
	r.tag("v1.0", "c0")

	var sink diag.Collector
	idx, err := BuildTagIndex(r, "v", &sink)
	if err != nil {
		t.Fatalf("BuildTagIndex() error = %v", err)
	}

	entry, _ := idx.Lookup(commitHash("c0"))
	if len(entry) != 1 {
		t.Errorf("indexed %d versions, want 1", len(entry))
	}

	warnings := sink.Warnings()
	if len(warnings) != 2 {
		t.Fatalf("got %d warnings, want 2: %v", len(warnings), warnings)
	}
	for _, w := range warnings {
		if w.Kind != diag.KindUnparseableTag {
			t.Errorf("warning kind = %v, want unparseable-tag", w.Kind)
		}
	}
}

func TestBuildTagIndex_NonCommitTargetWarned(t *testing.T) {
	r := linearRepo(1)
	blob := commitHash("blob-object")
	r.nonCommits[blob] = true
	r.tags = append(r.tags, TagRef{Name: git.TagName("1.0.0"), Target: blob})
	r.tag("2.0.0", "c0")

	var sink diag.Collector
	idx, err := BuildTagIndex(r, "", &sink)
	if err != nil {
		t.Fatalf("BuildTagIndex() error = %v", err)
	}

	if idx.Len() != 1 {
		t.Errorf("Len() = %d, want 1", idx.Len())
	}
	warnings := sink.Warnings()
	if len(warnings) != 1 || warnings[0].Kind != diag.KindTagPointsToNonCommit {
		t.Errorf("warnings = %v, want one tag-points-to-non-commit", warnings)
	}
}

func TestBuildTagIndex_UnreadableRefWarnedAndSkipped(t *testing.T) {
	r := linearRepo(1)
	broken := commitHash("missing-object")
	r.peelErr[broken] = fmt.Errorf("object not found")
	r.tags = append(r.tags, TagRef{Name: git.TagName("1.0.0"), Target: broken})
	r.tag("2.0.0", "c0")

	var sink diag.Collector
	idx, err := BuildTagIndex(r, "", &sink)
	if err != nil {
		t.Fatalf("BuildTagIndex() error = %v", err)
	}

	if idx.Len() != 1 {
		t.Errorf("Len() = %d, want 1", idx.Len())
	}
	warnings := sink.Warnings()
	if len(warnings) != 1 || warnings[0].Kind != diag.KindUnreadableRef {
		t.Errorf("warnings = %v, want one unreadable-ref", warnings)
	}
}

func TestBuildTagIndex_EntryOrderedByPrecedence(t *testing.T) {
	r := linearRepo(1)
	r.tag("1.0.0-rc.1", "c0")
	r.tag("1.1.0", "c0")
	r.tag("1.0.0", "c0")

	idx, err := BuildTagIndex(r, "", nil)
	if err != nil {
		t.Fatalf("BuildTagIndex() error = %v", err)
	}

	entry, ok := idx.Lookup(commitHash("c0"))
	if !ok {
		t.Fatal("Lookup(c0) = not found")
	}

	want := []string{"1.1.0", "1.0.0", "1.0.0-rc.1"}
	if len(entry) != len(want) {
		t.Fatalf("entry has %d versions, want %d", len(entry), len(want))
	}
	for i, s := range want {
		if entry[i].Version.String() != s {
			t.Errorf("entry[%d] = %s, want %s", i, entry[i].Version, s)
		}
	}
}

func TestBuildTagIndex_EqualPrecedenceCollapsesToLargerTag(t *testing.T) {
	// 1.0.0+a and 1.0.0+b have equal precedence; the lexicographically
	// larger full tag name wins.
	r := linearRepo(1)
	r.tag("1.0.0+a", "c0")
	r.tag("1.0.0+b", "c0")

	idx, err := BuildTagIndex(r, "", nil)
	if err != nil {
		t.Fatalf("BuildTagIndex() error = %v", err)
	}

	entry, _ := idx.Lookup(commitHash("c0"))
	if len(entry) != 1 {
		t.Fatalf("entry has %d versions, want 1 (collapsed)", len(entry))
	}
	if entry[0].Tag != git.TagName("1.0.0+b") {
		t.Errorf("winning tag = %q, want %q", entry[0].Tag, "1.0.0+b")
	}
}

func TestBuildTagIndex_AnnotatedTagPeeled(t *testing.T) {
	r := linearRepo(2)
	r.annotatedTag("1.0.0", "c0")

	idx, err := BuildTagIndex(r, "", nil)
	if err != nil {
		t.Fatalf("BuildTagIndex() error = %v", err)
	}

	if _, ok := idx.Lookup(commitHash("c0")); !ok {
		t.Errorf("annotated tag not indexed under its target commit")
	}
}
