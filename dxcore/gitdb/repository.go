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

// Package gitdb adapts a go-git repository to the calculator's read-only
// Repository interface.
//
// The adapter is the only place dxver touches github.com/go-git/go-git;
// everything above it speaks dxcore/model/git values. It performs no
// writes and holds no locks; a single adapter value MUST NOT be shared
// across concurrent calculations.
package gitdb

import (
	stderrors "errors"

	"dirpx.dev/dxver/dxcore/calc"
	dxerrors "dirpx.dev/dxver/dxcore/errors"
	"dirpx.dev/dxver/dxcore/model/git"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// maxPeelDepth bounds nested tag-object peeling. Git tolerates tags of
// tags; chains deeper than this are treated as unreadable rather than
// looping forever on a corrupt store.
const maxPeelDepth = 16

// Repository adapts a go-git repository handle.
type Repository struct {
	repo *gogit.Repository

	// shallow caches the storer's shallow roots; loaded on first use.
	shallow map[plumbing.Hash]bool
}

// Open opens the repository containing path, searching upwards for a .git
// directory the way git itself does.
//
// A location with no repository yields a *NoRepositoryError; any other
// failure to open is a *RepositoryReadError.
func Open(path string) (*Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if stderrors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, &dxerrors.NoRepositoryError{Path: path}
		}
		return nil, &dxerrors.RepositoryReadError{Op: "open repository", Err: err}
	}
	return New(repo), nil
}

// New wraps an already opened go-git repository.
func New(repo *gogit.Repository) *Repository {
	return &Repository{repo: repo}
}

// Compile-time check that Repository implements calc.Repository.
var _ calc.Repository = (*Repository)(nil)

// Head resolves the current HEAD commit.
func (r *Repository) Head() (git.Hash, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return git.Hash(""), &dxerrors.RepositoryReadError{Op: "resolve HEAD", Err: err}
	}
	return git.Hash(ref.Hash().String()), nil
}

// TagRefs lists every reference under refs/tags. Note that iterating
// references (rather than tag objects) is deliberate: unreferenced tag
// objects, such as deleted tags still present in the store, must not
// contribute versions.
func (r *Repository) TagRefs() ([]calc.TagRef, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, &dxerrors.RepositoryReadError{Op: "iterate tags", Err: err}
	}

	var refs []calc.TagRef
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		refs = append(refs, calc.TagRef{
			Name:   git.TagName(ref.Name().Short()),
			Target: git.Hash(ref.Hash().String()),
		})
		return nil
	})
	if err != nil {
		return nil, &dxerrors.RepositoryReadError{Op: "iterate tags", Err: err}
	}
	return refs, nil
}

// PeelToCommit resolves a tag target to a commit id, peeling nested tag
// objects as needed. The boolean is false when the target peels to a tree
// or blob.
func (r *Repository) PeelToCommit(id git.Hash) (git.Hash, bool, error) {
	h := plumbing.NewHash(id.String())

	for depth := 0; depth < maxPeelDepth; depth++ {
		obj, err := r.repo.Object(plumbing.AnyObject, h)
		if err != nil {
			return git.Hash(""), false, err
		}

		switch o := obj.(type) {
		case *object.Commit:
			return git.Hash(o.Hash.String()), true, nil
		case *object.Tag:
			h = o.Target
		default:
			return git.Hash(""), false, nil
		}
	}

	return git.Hash(""), false, stderrors.New("tag object chain too deep")
}

// Parents returns the parent commit ids in recorded order. For a commit at
// a shallow boundary the recorded parents are unavailable in the store, so
// the slice is empty; IsShallowBoundary distinguishes that from a true
// root.
func (r *Repository) Parents(commit git.Hash) ([]git.Hash, error) {
	shallow, err := r.shallowSet()
	if err != nil {
		return nil, err
	}

	h := plumbing.NewHash(commit.String())
	if shallow[h] {
		return nil, nil
	}

	c, err := r.repo.CommitObject(h)
	if err != nil {
		return nil, err
	}

	parents := make([]git.Hash, len(c.ParentHashes))
	for i, p := range c.ParentHashes {
		parents[i] = git.Hash(p.String())
	}
	return parents, nil
}

// IsShallowBoundary reports whether commit is recorded as a shallow root
// of the clone.
func (r *Repository) IsShallowBoundary(commit git.Hash) (bool, error) {
	shallow, err := r.shallowSet()
	if err != nil {
		return false, err
	}
	return shallow[plumbing.NewHash(commit.String())], nil
}

// shallowSet loads and caches the storer's shallow roots.
func (r *Repository) shallowSet() (map[plumbing.Hash]bool, error) {
	if r.shallow != nil {
		return r.shallow, nil
	}

	hashes, err := r.repo.Storer.Shallow()
	if err != nil {
		return nil, err
	}

	r.shallow = make(map[plumbing.Hash]bool, len(hashes))
	for _, h := range hashes {
		r.shallow[h] = true
	}
	return r.shallow, nil
}
