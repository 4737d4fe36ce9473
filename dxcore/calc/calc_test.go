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
	"encoding/hex"
	"fmt"
	"testing"

	"dirpx.dev/dxver/dxcore/config"
	"dirpx.dev/dxver/dxcore/diag"
	"dirpx.dev/dxver/dxcore/model"
	"dirpx.dev/dxver/dxcore/model/git"
)

// commitHash derives a deterministic 40-hex commit id from a short label,
// so tests can speak in names like "a" and "merge".
func commitHash(label string) git.Hash {
	enc := hex.EncodeToString([]byte(label))
	if len(enc) > git.HashHexSizeSHA1 {
		enc = enc[:git.HashHexSizeSHA1]
	}
	for len(enc) < git.HashHexSizeSHA1 {
		enc += "0"
	}
	return git.Hash(enc)
}

// fakeRepo is an in-memory Repository for calculator tests.
type fakeRepo struct {
	head       git.Hash
	parents    map[git.Hash][]git.Hash
	tags       []TagRef
	peeled     map[git.Hash]git.Hash // annotated tag object -> commit
	nonCommits map[git.Hash]bool     // objects that peel to non-commits
	shallow    map[git.Hash]bool
	parentsErr map[git.Hash]error
	peelErr    map[git.Hash]error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		parents:    make(map[git.Hash][]git.Hash),
		peeled:     make(map[git.Hash]git.Hash),
		nonCommits: make(map[git.Hash]bool),
		shallow:    make(map[git.Hash]bool),
		parentsErr: make(map[git.Hash]error),
		peelErr:    make(map[git.Hash]error),
	}
}

// commit records a commit with the given parents (labels) and returns its
// hash. It does not change HEAD; callers set r.head themselves.
func (r *fakeRepo) commit(label string, parentLabels ...string) git.Hash {
	h := commitHash(label)
	ps := make([]git.Hash, len(parentLabels))
	for i, p := range parentLabels {
		ps[i] = commitHash(p)
	}
	r.parents[h] = ps
	return h
}

// tag records a lightweight tag pointing at the labelled commit.
func (r *fakeRepo) tag(name, commitLabel string) {
	r.tags = append(r.tags, TagRef{Name: git.TagName(name), Target: commitHash(commitLabel)})
}

// annotatedTag records an annotated tag: the ref targets a tag object that
// peels to the labelled commit.
func (r *fakeRepo) annotatedTag(name, commitLabel string) {
	obj := commitHash("tagobj-" + name)
	r.peeled[obj] = commitHash(commitLabel)
	r.tags = append(r.tags, TagRef{Name: git.TagName(name), Target: obj})
}

func (r *fakeRepo) Head() (git.Hash, error) {
	return r.head, nil
}

func (r *fakeRepo) TagRefs() ([]TagRef, error) {
	return r.tags, nil
}

func (r *fakeRepo) PeelToCommit(id git.Hash) (git.Hash, bool, error) {
	if err := r.peelErr[id]; err != nil {
		return git.Hash(""), false, err
	}
	if r.nonCommits[id] {
		return git.Hash(""), false, nil
	}
	if commit, ok := r.peeled[id]; ok {
		return commit, true, nil
	}
	if _, ok := r.parents[id]; ok {
		return id, true, nil
	}
	return git.Hash(""), false, nil
}

func (r *fakeRepo) Parents(commit git.Hash) ([]git.Hash, error) {
	if err := r.parentsErr[commit]; err != nil {
		return nil, err
	}
	return r.parents[commit], nil
}

func (r *fakeRepo) IsShallowBoundary(commit git.Hash) (bool, error) {
	return r.shallow[commit], nil
}

// linearRepo builds a linear history of n commits "c0" (root) .. "c{n-1}"
// with HEAD at the last.
func linearRepo(n int) *fakeRepo {
	r := newFakeRepo()
	for i := 0; i < n; i++ {
		if i == 0 {
			r.commit("c0")
		} else {
			r.commit(fmt.Sprintf("c%d", i), fmt.Sprintf("c%d", i-1))
		}
	}
	r.head = commitHash(fmt.Sprintf("c%d", n-1))
	return r
}

func TestCalculate_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		repo   func() *fakeRepo
		config func() config.Configuration
		want   string
	}{
		{
			// One commit tagged 1.0.0; HEAD is that commit.
			name: "exact tag on head",
			repo: func() *fakeRepo {
				r := linearRepo(1)
				r.tag("1.0.0", "c0")
				return r
			},
			config: config.Default,
			want:   "1.0.0",
		},
		{
			// Tag 1.0.0 five commits below HEAD.
			name: "stable base with height",
			repo: func() *fakeRepo {
				r := linearRepo(6)
				r.tag("1.0.0", "c0")
				return r
			},
			config: config.Default,
			want:   "1.0.1-alpha.0.5",
		},
		{
			// Pre-release tag three commits below HEAD.
			name: "prerelease base with height",
			repo: func() *fakeRepo {
				r := linearRepo(4)
				r.tag("1.0.0-beta.1", "c0")
				return r
			},
			config: config.Default,
			want:   "1.0.0-beta.1.3",
		},
		{
			// Three commits, no tags at all.
			name: "no tags",
			repo: func() *fakeRepo {
				return linearRepo(3)
			},
			config: config.Default,
			want:   "0.0.0-alpha.0.2",
		},
		{
			// Minor auto-increment.
			name: "minor auto increment",
			repo: func() *fakeRepo {
				r := linearRepo(6)
				r.tag("1.0.0", "c0")
				return r
			},
			config: func() config.Configuration {
				cfg := config.Default()
				cfg.AutoIncrement = model.IncrementMinor
				return cfg
			},
			want: "1.1.0-alpha.0.5",
		},
		{
			// Major auto-increment.
			name: "major auto increment",
			repo: func() *fakeRepo {
				r := linearRepo(3)
				r.tag("1.2.3", "c0")
				return r
			},
			config: func() config.Configuration {
				cfg := config.Default()
				cfg.AutoIncrement = model.IncrementMajor
				return cfg
			},
			want: "2.0.0-alpha.0.2",
		},
		{
			// Minimum major.minor floors the bumped version.
			name: "minimum floor applies",
			repo: func() *fakeRepo {
				r := linearRepo(3)
				r.tag("0.5.0", "c0")
				return r
			},
			config: func() config.Configuration {
				cfg := config.Default()
				cfg.MinimumMajorMinor = &config.MajorMinor{Major: 1, Minor: 0}
				return cfg
			},
			want: "1.0.0-alpha.0.2",
		},
		{
			// Merge with equal-depth tags on both parents: higher
			// precedence wins the tie.
			name: "merge equal depth tie",
			repo: func() *fakeRepo {
				r := newFakeRepo()
				r.commit("base")
				r.commit("a", "base")
				r.commit("b", "base")
				r.commit("m", "a", "b")
				r.head = commitHash("m")
				r.tag("1.0.0", "a")
				r.tag("1.2.0", "b")
				return r
			},
			config: config.Default,
			want:   "1.2.1-alpha.0.1",
		},
		{
			// Tag prefix stripping.
			name: "tag prefix",
			repo: func() *fakeRepo {
				r := linearRepo(1)
				r.tag("v2.3.4", "c0")
				return r
			},
			config: func() config.Configuration {
				cfg := config.Default()
				cfg.TagPrefix = "v"
				return cfg
			},
			want: "2.3.4",
		},
		{
			// A nearer tag beats a farther, higher one.
			name: "nearest tag wins over higher",
			repo: func() *fakeRepo {
				r := linearRepo(4)
				r.tag("2.0.0", "c0")
				r.tag("1.0.0", "c2")
				return r
			},
			config: config.Default,
			want:   "1.0.1-alpha.0.1",
		},
		{
			// Multiple tags on one commit: highest precedence wins.
			name: "multiple tags one commit",
			repo: func() *fakeRepo {
				r := linearRepo(1)
				r.tag("1.0.0", "c0")
				r.tag("1.1.0", "c0")
				r.tag("0.9.0", "c0")
				return r
			},
			config: config.Default,
			want:   "1.1.0",
		},
		{
			// Annotated tags peel to their target commit.
			name: "annotated tag",
			repo: func() *fakeRepo {
				r := linearRepo(2)
				r.annotatedTag("1.5.0", "c0")
				return r
			},
			config: config.Default,
			want:   "1.5.1-alpha.0.1",
		},
		{
			// Ignore height zeroes the trailing identifier.
			name: "ignore height on stable base",
			repo: func() *fakeRepo {
				r := linearRepo(6)
				r.tag("1.0.0", "c0")
				return r
			},
			config: func() config.Configuration {
				cfg := config.Default()
				cfg.IgnoreHeight = true
				return cfg
			},
			want: "1.0.1-alpha.0.0",
		},
		{
			// Ignore height in the root case omits the identifier
			// entirely.
			name: "ignore height with no tags",
			repo: func() *fakeRepo {
				return linearRepo(3)
			},
			config: func() config.Configuration {
				cfg := config.Default()
				cfg.IgnoreHeight = true
				return cfg
			},
			want: "0.0.0-alpha.0",
		},
		{
			// Configured build metadata is appended.
			name: "build metadata",
			repo: func() *fakeRepo {
				r := linearRepo(6)
				r.tag("1.0.0", "c0")
				return r
			},
			config: func() config.Configuration {
				cfg := config.Default()
				cfg.BuildMetadata = []string{"build", "42"}
				return cfg
			},
			want: "1.0.1-alpha.0.5+build.42",
		},
		{
			// The base tag's own build metadata is discarded.
			name: "tag build metadata discarded",
			repo: func() *fakeRepo {
				r := linearRepo(1)
				r.tag("1.0.0+ci.99", "c0")
				return r
			},
			config: config.Default,
			want:   "1.0.0",
		},
		{
			// An exact tag is never floored.
			name: "exact tag not floored",
			repo: func() *fakeRepo {
				r := linearRepo(1)
				r.tag("0.5.0", "c0")
				return r
			},
			config: func() config.Configuration {
				cfg := config.Default()
				cfg.MinimumMajorMinor = &config.MajorMinor{Major: 1, Minor: 0}
				return cfg
			},
			want: "0.5.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Calculate(tt.repo(), tt.config(), nil)
			if err != nil {
				t.Fatalf("Calculate() error = %v", err)
			}
			if got := result.Version.String(); got != tt.want {
				t.Errorf("Calculate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	build := func() *fakeRepo {
		r := newFakeRepo()
		r.commit("base")
		r.commit("a", "base")
		r.commit("b", "base")
		r.commit("m", "a", "b")
		r.head = commitHash("m")
		r.tag("1.0.0", "a")
		r.tag("1.2.0", "b")
		return r
	}

	first, err := Calculate(build(), config.Default(), nil)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Calculate(build(), config.Default(), nil)
		if err != nil {
			t.Fatalf("Calculate() error = %v", err)
		}
		if again.Version.String() != first.Version.String() {
			t.Fatalf("run %d = %q, first run = %q", i, again.Version, first.Version)
		}
	}
}

func TestCalculate_ExactTagUnaffectedByConfiguration(t *testing.T) {
	// With HEAD exactly on the highest tag of the commit, every option
	// except build metadata must be inert.
	build := func() *fakeRepo {
		r := linearRepo(2)
		r.tag("1.4.0", "c1")
		return r
	}

	cfg := config.Default()
	cfg.AutoIncrement = model.IncrementMajor
	cfg.IgnoreHeight = true
	cfg.MinimumMajorMinor = &config.MajorMinor{Major: 9, Minor: 9}

	result, err := Calculate(build(), cfg, nil)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if got := result.Version.String(); got != "1.4.0" {
		t.Errorf("Calculate() = %q, want %q", got, "1.4.0")
	}

	cfg.BuildMetadata = []string{"ci"}
	result, err = Calculate(build(), cfg, nil)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if got := result.Version.String(); got != "1.4.0+ci" {
		t.Errorf("Calculate() with metadata = %q, want %q", got, "1.4.0+ci")
	}
}

func TestCalculate_BuildMetadataDoesNotChangePrecedence(t *testing.T) {
	build := func() *fakeRepo {
		r := linearRepo(4)
		r.tag("1.0.0", "c0")
		return r
	}

	plain, err := Calculate(build(), config.Default(), nil)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	cfg := config.Default()
	cfg.BuildMetadata = []string{"build", "7"}
	tagged, err := Calculate(build(), cfg, nil)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	if !plain.Version.Equal(tagged.Version) {
		t.Errorf("precedence changed by build metadata: %s vs %s", plain.Version, tagged.Version)
	}
}

func TestCalculate_UntaggedCommitNeverDecreases(t *testing.T) {
	// Growing the history by untagged commits must never decrease the
	// synthesized version.
	prev, err := Calculate(func() *fakeRepo {
		r := linearRepo(2)
		r.tag("1.0.0", "c0")
		return r
	}(), config.Default(), nil)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	for n := 3; n <= 6; n++ {
		r := linearRepo(n)
		r.tag("1.0.0", "c0")
		next, err := Calculate(r, config.Default(), nil)
		if err != nil {
			t.Fatalf("Calculate() error = %v", err)
		}
		if next.Version.Less(prev.Version) {
			t.Errorf("version decreased from %s to %s at %d commits", prev.Version, next.Version, n)
		}
		prev = next
	}
}

func TestCalculate_InvalidConfigurationBeforeRepositoryAccess(t *testing.T) {
	cfg := config.Default()
	cfg.AutoIncrement = model.Increment(42)

	// A repository that panics on use proves the configuration is
	// rejected first.
	_, err := Calculate(panicRepo{}, cfg, nil)
	if err == nil {
		t.Fatal("Calculate() = nil error, want configuration error")
	}
}

type panicRepo struct{}

func (panicRepo) Head() (git.Hash, error)                       { panic("repository accessed") }
func (panicRepo) TagRefs() ([]TagRef, error)                    { panic("repository accessed") }
func (panicRepo) PeelToCommit(git.Hash) (git.Hash, bool, error) { panic("repository accessed") }
func (panicRepo) Parents(git.Hash) ([]git.Hash, error)          { panic("repository accessed") }
func (panicRepo) IsShallowBoundary(git.Hash) (bool, error)      { panic("repository accessed") }

func TestCalculate_ResultCarriesDecision(t *testing.T) {
	r := linearRepo(6)
	r.tag("1.0.0", "c0")

	var sink diag.Collector
	result, err := Calculate(r, config.Default(), &sink)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	if result.Base.String() != "1.0.0" {
		t.Errorf("Base = %s, want 1.0.0", result.Base)
	}
	if result.Height != 5 {
		t.Errorf("Height = %d, want 5", result.Height)
	}
	if result.Source != SourceTag {
		t.Errorf("Source = %v, want tag", result.Source)
	}
	if result.Tag != git.TagName("1.0.0") {
		t.Errorf("Tag = %q, want 1.0.0", result.Tag)
	}
	if len(sink.Warnings()) != 0 {
		t.Errorf("unexpected warnings: %v", sink.Warnings())
	}
}
