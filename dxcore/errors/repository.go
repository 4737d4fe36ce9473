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

package errors

// NoRepositoryError is returned when no Git object database is accessible at
// the requested location.
//
// Path contains the location that was probed. This error is fatal: there is
// nothing to compute a version from, and the caller SHOULD surface it to the
// user and exit non-zero.
//
// Callers can detect this condition with errors.As:
//
//	var nre *errors.NoRepositoryError
//	if stderrors.As(err, &nre) {
//	    // handle "not a repository"
//	}
type NoRepositoryError struct {
	// Path is the filesystem location at which a repository was expected.
	Path string
}

// Error implements the error interface for NoRepositoryError.
//
// The error message format is:
//
//	"dxver: no git repository at {Path}"
func (e *NoRepositoryError) Error() string {
	return "dxver: no git repository at " + e.Path
}

// RepositoryReadError is returned when the Git object database is corrupt or
// unreadable while the calculator is scanning references or walking history.
//
// Op names the operation that failed (for example, "resolve HEAD",
// "read parents", "iterate tags") and Err carries the underlying storage
// error. This error is fatal: a partially read history would produce a wrong
// version, so the calculation is abandoned.
type RepositoryReadError struct {
	// Op is the repository operation that failed.
	Op string

	// Err is the underlying error reported by the object store.
	Err error
}

// Error implements the error interface for RepositoryReadError.
//
// The error message format is:
//
//	"dxver: repository read failed during {Op}: {Err}"
func (e *RepositoryReadError) Error() string {
	msg := "dxver: repository read failed during " + e.Op
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying storage error, allowing callers to inspect
// it with errors.Is and errors.As.
func (e *RepositoryReadError) Unwrap() error {
	return e.Err
}

// ConfigurationError is returned when the resolved configuration record is
// invalid: an unparseable minimum major.minor pair, default pre-release
// identifiers that violate SemVer identifier rules, build metadata containing
// forbidden characters, and so on.
//
// The error is detected before any repository access, so a configuration
// mistake never costs a history walk. Err aggregates every individual field
// failure (the config package collects them with go.uber.org/multierr), so
// one run reports all mistakes at once.
type ConfigurationError struct {
	// Err holds the aggregated field-level validation failures.
	Err error
}

// Error implements the error interface for ConfigurationError.
//
// The error message format is:
//
//	"dxver: invalid configuration: {Err}"
func (e *ConfigurationError) Error() string {
	msg := "dxver: invalid configuration"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the aggregated field errors.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// SynthesisError is returned when the version synthesizer produces a record
// that does not round-trip to a canonical SemVer 2.0.0 string.
//
// Under correct inputs this is unreachable; it exists as a final invariant
// check so that a bug in the synthesis rules surfaces as an explicit failure
// rather than as a silently malformed version string.
type SynthesisError struct {
	// Version is the string form of the offending record.
	Version string

	// Reason describes which production rule the record violates.
	Reason string
}

// Error implements the error interface for SynthesisError.
//
// The error message format is:
//
//	"dxver: synthesized version {Version} is not canonical: {Reason}"
func (e *SynthesisError) Error() string {
	return "dxver: synthesized version " + e.Version + " is not canonical: " + e.Reason
}
