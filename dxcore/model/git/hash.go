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

// Package git defines the Git-facing value types of the dxver domain model:
// commit object ids (Hash) and tag names (TagName).
//
// These types deliberately know nothing about how a repository is accessed;
// the calculator reaches the object database through a narrow read-only
// interface, and these values are what flows across it.
package git

import (
	"encoding/json"
	"regexp"
	"strings"

	"dirpx.dev/dxver/dxcore/errors"
	"dirpx.dev/dxver/dxcore/model"
	"gopkg.in/yaml.v3"
)

// Compile-time check that Hash implements model.Model interface.
var _ model.Model = (*Hash)(nil)

const (
	// HashHexSizeSHA1 is the number of hexadecimal characters in a
	// canonical SHA-1 Git object id (a 20-byte digest).
	HashHexSizeSHA1 = 40

	// HashHexSizeSHA256 is the number of hexadecimal characters in a
	// canonical SHA-256 Git object id (a 32-byte digest). Repositories
	// initialized with the sha256 object format produce these.
	HashHexSizeSHA256 = 64

	// HashShortLen is the default length for abbreviated hashes in display
	// contexts. Seven characters is git's own default abbreviation.
	HashShortLen = 7
)

// hashHexPattern matches canonical Git object ids: exactly 40 or exactly 64
// lowercase hex characters. Input is expected to be normalized (no
// surrounding whitespace, lowercase) before matching; ParseHash performs
// that normalization.
const hashHexPattern = `^(?:[0-9a-f]{40}|[0-9a-f]{64})$`

var hashHexRegexp = regexp.MustCompile(hashHexPattern)

// Hash represents a canonical Git commit object id. It is the calculator's
// commit identity: the tag index is keyed by Hash, the history walker emits
// Hash values, and the repository interface speaks Hash on both sides.
//
// Hash values MUST be fully expanded object ids in canonical form:
// lowercase hexadecimal strings of exactly 40 characters (SHA-1) or exactly
// 64 characters (SHA-256). Abbreviated hashes are display-only; Short()
// produces them, nothing accepts them. Beyond length validation the value
// is treated as opaque bytes; dxver never interprets hash contents.
//
// The zero value (empty string) represents "no commit" and is used as the
// absent value in optional positions. Validation accepts it; code that
// requires a real commit id checks IsZero explicitly.
//
// This type implements the model.Model interface.
type Hash string

// ParseHash parses a string into a validated Hash, trimming surrounding
// whitespace and lowercasing before validation. Git treats object ids
// case-insensitively; dxver normalizes to lowercase so that equality on
// Hash is equality on objects.
//
// Empty input (after trimming) yields the zero Hash with no error. Input
// that is not a 40- or 64-character hex string is rejected with a
// *ValidationError.
func ParseHash(s string) (Hash, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Hash(""), nil
	}

	h := Hash(s)
	if err := h.Validate(); err != nil {
		return Hash(""), err
	}
	return h, nil
}

// String returns the full canonical object id, or the empty string for the
// zero Hash.
func (h Hash) String() string {
	return string(h)
}

// Short returns the abbreviated form of the hash for display: the first
// HashShortLen characters, or the whole value if it is already shorter.
func (h Hash) Short() string {
	if len(h) <= HashShortLen {
		return string(h)
	}
	return string(h[:HashShortLen])
}

// IsSHA1 reports whether the hash has the canonical SHA-1 length.
func (h Hash) IsSHA1() bool {
	return len(h) == HashHexSizeSHA1
}

// IsSHA256 reports whether the hash has the canonical SHA-256 length.
func (h Hash) IsSHA256() bool {
	return len(h) == HashHexSizeSHA256
}

// TypeName returns "Hash", the name of the type for diagnostics.
//
// This method implements part of the model.Model interface.
func (h Hash) TypeName() string {
	return "Hash"
}

// Redacted returns the abbreviated hash.
//
// Hashes are not sensitive, but full object ids make log lines long;
// the short form is the conventional display. This method implements part
// of the model.Model interface.
func (h Hash) Redacted() string {
	return h.Short()
}

// IsZero reports whether the Hash is empty, meaning no commit is attached.
//
// This method implements part of the model.Model interface.
func (h Hash) IsZero() bool {
	return h == ""
}

// Validate checks that the Hash is either empty (the valid zero value) or a
// canonical 40- or 64-character lowercase hex object id.
//
// This method implements part of the model.Model interface.
func (h Hash) Validate() error {
	if h == "" {
		return nil
	}
	if !hashHexRegexp.MatchString(string(h)) {
		return &errors.ValidationError{
			Type:   "Hash",
			Reason: "must be a 40- or 64-character lowercase hex string",
			Value:  string(h),
		}
	}
	return nil
}

// Equal reports whether this Hash is equal to another value.
//
// The method accepts any type for other and uses type assertion to check
// if it is a Hash or *Hash.
func (h Hash) Equal(other any) bool {
	switch v := other.(type) {
	case Hash:
		return h == v
	case *Hash:
		if v == nil {
			return false
		}
		return h == *v
	default:
		return false
	}
}

// MarshalJSON implements json.Marshaler for Hash.
//
// A valid Hash is serialized as a JSON string containing the full object
// id. Validation is performed before encoding.
func (h Hash) MarshalJSON() ([]byte, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(string(h))
}

// UnmarshalJSON implements json.Unmarshaler for Hash.
//
// The JSON value is expected to be a string; it is parsed via ParseHash,
// which normalizes and validates it.
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &errors.UnmarshalError{
			Type:   "Hash",
			Data:   data,
			Reason: err.Error(),
		}
	}

	parsed, err := ParseHash(s)
	if err != nil {
		return err
	}

	*h = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler for Hash.
//
// A valid Hash is serialized as a scalar string containing the full object
// id. Validation is performed before encoding.
func (h Hash) MarshalYAML() (interface{}, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return string(h), nil
}

// UnmarshalYAML implements yaml.Unmarshaler for Hash.
//
// The YAML value is expected to be a scalar string; it is parsed via
// ParseHash, which normalizes and validates it.
func (h *Hash) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return &errors.UnmarshalError{
			Type:   "Hash",
			Data:   nil,
			Reason: err.Error(),
		}
	}

	parsed, err := ParseHash(s)
	if err != nil {
		return err
	}

	*h = parsed
	return nil
}
