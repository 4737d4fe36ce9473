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
	"dirpx.dev/dxver/dxcore/diag"
	"dirpx.dev/dxver/dxcore/model/git"
	"dirpx.dev/dxver/dxcore/model/semver"
)

// Result is the calculator's complete answer: the synthesized version plus
// the base decision it was derived from, for callers that render
// structured output.
type Result struct {
	// Version is the synthesized version.
	Version semver.Version `json:"version" yaml:"version"`

	// Base is the base version the synthesis started from; 0.0.0 when no
	// tag was reachable.
	Base semver.Version `json:"base" yaml:"base"`

	// Height is the depth at which the base was found.
	Height uint64 `json:"height" yaml:"height"`

	// Source is "tag" or "root".
	Source Source `json:"source" yaml:"source"`

	// Tag is the winning tag's name; empty when Source is root.
	Tag git.TagName `json:"tag,omitempty" yaml:"tag,omitempty"`
}

// Calculate runs the full pipeline against a repository: validate the
// configuration, build the tag index, walk the history from HEAD, select
// the base, and synthesize the final version.
//
// Non-fatal conditions (skipped tags, shallow truncation) flow to sink; a
// nil sink discards them. Fatal conditions are returned as the structured
// errors of dxcore/errors: *ConfigurationError before any repository
// access, *RepositoryReadError from the scan or the walk, *SynthesisError
// from the final invariant check. Repository acquisition failures
// (*NoRepositoryError) are the adapter's to report before Calculate is
// ever called.
//
// Calculate is deterministic: the same repository state and configuration
// produce an identical Result.
func Calculate(repo Repository, cfg config.Configuration, sink diag.Sink) (Result, error) {
	if sink == nil {
		sink = diag.Discard
	}

	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	idx, err := BuildTagIndex(repo, cfg.TagPrefix, sink)
	if err != nil {
		return Result{}, err
	}

	head, err := repo.Head()
	if err != nil {
		return Result{}, err
	}

	decision, err := SelectBase(NewWalker(repo, head), idx, sink)
	if err != nil {
		return Result{}, err
	}

	version, err := Synthesize(decision, cfg)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Version: version,
		Base:    decision.Base,
		Height:  decision.Height,
		Source:  decision.Source,
		Tag:     decision.Tag,
	}, nil
}
