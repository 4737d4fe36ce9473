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

package git

import (
	"encoding/json"
	"regexp"
	"strings"

	"dirpx.dev/dxver/dxcore/errors"
	"dirpx.dev/dxver/dxcore/model"
	"gopkg.in/yaml.v3"
)

// Compile-time check that TagName implements model.Model interface.
var _ model.Model = (*TagName)(nil)

const (
	// TagNameMaxLen is the maximum number of runes dxver accepts in a tag
	// name. Git itself supports longer names, but 256 runes accommodates
	// every observed convention (including hierarchical names such as
	// "moduleA/v1.2.3") while keeping diagnostics and serialization
	// bounded.
	TagNameMaxLen = 256
)

// tagNamePattern is intentionally permissive: it accepts the full range of
// naming conventions the tag index may encounter (semver tags, hierarchical
// prefixes, dates, build metadata with "+"). Names the pattern rejects
// could never parse as a prefixed version anyway, so the index can discard
// them early with a precise reason. Full git-check-ref-format enforcement
// is left to git itself.
const tagNamePattern = `^[a-zA-Z0-9._/@{}\-^~:+]+$`

var tagNameRegexp = regexp.MustCompile(tagNamePattern)

// TagName represents a Git tag name without the "refs/tags/" prefix.
//
// The tag index consumes TagName values when filtering by the configured
// prefix and parsing the remainder as a version; diagnostics carry them
// when reporting tags that were skipped. Values preserve their original
// case and structure; the only normalization applied is whitespace
// trimming.
//
// The zero value (empty string) is valid and represents "no tag". This
// type implements the model.Model interface.
type TagName string

// ParseTagName parses a string into a validated TagName, trimming
// surrounding whitespace first.
//
// Empty input (after trimming) yields the zero TagName with no error.
// Input that exceeds TagNameMaxLen runes or contains characters outside
// the accepted set is rejected with a *ValidationError.
func ParseTagName(s string) (TagName, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TagName(""), nil
	}

	n := TagName(s)
	if err := n.Validate(); err != nil {
		return TagName(""), err
	}
	return n, nil
}

// String returns the tag name as provided, or the empty string for the
// zero TagName.
func (n TagName) String() string {
	return string(n)
}

// Ref returns the fully qualified reference name, "refs/tags/" + name.
// The zero TagName yields the empty string.
func (n TagName) Ref() string {
	if n == "" {
		return ""
	}
	return "refs/tags/" + string(n)
}

// HasPrefix reports whether the tag name begins with the given prefix.
// Every name has the empty prefix.
func (n TagName) HasPrefix(prefix string) bool {
	return strings.HasPrefix(string(n), prefix)
}

// StripPrefix returns the name with the given prefix removed. Callers MUST
// check HasPrefix first; StripPrefix on a non-matching name returns the
// name unchanged.
func (n TagName) StripPrefix(prefix string) string {
	return strings.TrimPrefix(string(n), prefix)
}

// TypeName returns "TagName", the name of the type for diagnostics.
//
// This method implements part of the model.Model interface.
func (n TagName) TypeName() string {
	return "TagName"
}

// Redacted returns the same representation as String().
//
// Tag names are not sensitive and are short enough for log lines as-is.
// This method implements part of the model.Model interface.
func (n TagName) Redacted() string {
	return string(n)
}

// IsZero reports whether the TagName is empty.
//
// This method implements part of the model.Model interface.
func (n TagName) IsZero() bool {
	return n == ""
}

// Validate checks that the TagName is either empty (the valid zero value)
// or a well-formed tag name within the accepted length and character set.
//
// This method implements part of the model.Model interface.
func (n TagName) Validate() error {
	if n == "" {
		return nil
	}
	if len([]rune(string(n))) > TagNameMaxLen {
		return &errors.ValidationError{
			Type:   "TagName",
			Reason: "must not exceed 256 runes",
			Value:  string(n),
		}
	}
	if !tagNameRegexp.MatchString(string(n)) {
		return &errors.ValidationError{
			Type:   "TagName",
			Reason: "contains characters outside the accepted set",
			Value:  string(n),
		}
	}
	return nil
}

// Equal reports whether this TagName is equal to another value.
//
// The method accepts any type for other and uses type assertion to check
// if it is a TagName or *TagName. Comparison is case-sensitive, matching
// git's treatment of reference names.
func (n TagName) Equal(other any) bool {
	switch v := other.(type) {
	case TagName:
		return n == v
	case *TagName:
		if v == nil {
			return false
		}
		return n == *v
	default:
		return false
	}
}

// MarshalJSON implements json.Marshaler for TagName.
//
// A valid TagName is serialized as a JSON string. Validation is performed
// before encoding.
func (n TagName) MarshalJSON() ([]byte, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(string(n))
}

// UnmarshalJSON implements json.Unmarshaler for TagName.
//
// The JSON value is expected to be a string; it is parsed via
// ParseTagName.
func (n *TagName) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &errors.UnmarshalError{
			Type:   "TagName",
			Data:   data,
			Reason: err.Error(),
		}
	}

	parsed, err := ParseTagName(s)
	if err != nil {
		return err
	}

	*n = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler for TagName.
//
// A valid TagName is serialized as a scalar string. Validation is
// performed before encoding.
func (n TagName) MarshalYAML() (interface{}, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return string(n), nil
}

// UnmarshalYAML implements yaml.Unmarshaler for TagName.
//
// The YAML value is expected to be a scalar string; it is parsed via
// ParseTagName.
func (n *TagName) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return &errors.UnmarshalError{
			Type:   "TagName",
			Data:   nil,
			Reason: err.Error(),
		}
	}

	parsed, err := ParseTagName(s)
	if err != nil {
		return err
	}

	*n = parsed
	return nil
}
