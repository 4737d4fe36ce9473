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

package model

import (
	"encoding/json"
	"fmt"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// validatable constrains the generic helpers to the contracts they
// actually exercise. The full Model interface includes the unmarshaling
// methods, which live on pointer receivers; constraining on the value-side
// contracts lets the helpers accept plain model values.
type validatable interface {
	Validatable
	Identifiable
}

// ValidateAll validates a slice of models and returns all validation errors
// encountered, not just the first one.
//
// The function iterates through each model in the provided slice and invokes
// its Validate method. When a model fails validation, the error is wrapped
// with contextual information including the model's position in the slice
// (zero-indexed) and its type name from TypeName, so callers can identify
// exactly which models failed and why.
//
// Individual failures are aggregated with go.uber.org/multierr into a single
// combined error. If all models pass validation, ValidateAll returns nil.
// The function always processes the entire slice even when early elements
// fail, ensuring complete error reporting. Empty slices are valid and return
// nil.
//
// Example usage for batch validation of configured identifiers:
//
//	if err := model.ValidateAll(cfg.DefaultPreRelease); err != nil {
//	    return &errors.ConfigurationError{Err: err}
//	}
func ValidateAll[T validatable](models []T) error {
	var err error

	for i, m := range models {
		if verr := m.Validate(); verr != nil {
			err = multierr.Append(err, fmt.Errorf("model[%d] (%s): %w", i, m.TypeName(), verr))
		}
	}

	return err
}

// FilterZero returns a new slice containing only non-zero models, removing
// all instances where IsZero reports true.
//
// The returned slice is always a new allocation and never shares backing
// array storage with the input, so modifications to either slice do not
// affect the other. If all models in the input are zero, or the input is
// empty or nil, the function returns an empty non-nil slice.
//
// Callers SHOULD use FilterZero before serializing collections to avoid
// emitting empty placeholder values. The function does not validate models;
// it only checks for zero values via IsZero.
func FilterZero[T ZeroCheckable](models []T) []T {
	result := make([]T, 0, len(models))

	for _, m := range models {
		if !m.IsZero() {
			result = append(result, m)
		}
	}

	return result
}

// MustValidate validates a model and panics if validation fails.
//
// If validation succeeds, MustValidate returns the model unchanged, allowing
// inline initialization patterns. If validation fails, the function panics
// with a message including the model's type name and the validation error.
//
// Callers MUST only use MustValidate where panic is an acceptable control
// flow mechanism: test setup, package initialization, or construction of
// hardcoded constants. Invalid data in those contexts is a programming
// error, and MustValidate makes it fail immediately and loudly.
//
// Example usage in test setup:
//
//	v := model.MustValidate(semver.MustParseVersion("1.2.3"))
func MustValidate[T validatable](m T) T {
	if err := m.Validate(); err != nil {
		panic(fmt.Sprintf("model validation failed for %s: %v", m.TypeName(), err))
	}
	return m
}

// ToJSON converts a model to JSON bytes after validating that the model is
// in a consistent state.
//
// The function first invokes Validate; if validation fails, ToJSON returns
// an error that wraps the failure with the model's type name, and no
// marshaling is attempted. If validation succeeds, the model is serialized
// with json.Marshal, which invokes the model's MarshalJSON method where
// implemented.
//
// Callers SHOULD use ToJSON instead of json.Marshal directly when they need
// the guarantee that only valid models reach the encoder.
func ToJSON[T validatable](m T) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", m.TypeName(), err)
	}
	return json.Marshal(m)
}

// ToYAML converts a model to YAML bytes after validating that the model is
// in a consistent state.
//
// The function first invokes Validate; if validation fails, ToYAML returns
// an error that wraps the failure with the model's type name, and no
// marshaling is attempted. If validation succeeds, the model is serialized
// with yaml.Marshal, which invokes the model's MarshalYAML method where
// implemented.
func ToYAML[T validatable](m T) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", m.TypeName(), err)
	}
	return yaml.Marshal(m)
}

// FromJSON parses JSON bytes into a model and validates the result.
//
// The function first invokes json.Unmarshal to decode the bytes into the
// provided model pointer; a decoding failure is returned without attempting
// validation. On success, the model's Validate method is invoked so that
// syntactically correct but semantically invalid input is rejected at the
// boundary. If FromJSON returns an error, the state of the model variable is
// undefined and MUST NOT be used.
//
// Example usage:
//
//	var v semver.Version
//	if err := model.FromJSON(data, &v); err != nil {
//	    return err
//	}
func FromJSON[T Validatable](data []byte, m *T) error {
	if err := json.Unmarshal(data, m); err != nil {
		return fmt.Errorf("cannot unmarshal JSON: %w", err)
	}
	if err := (*m).Validate(); err != nil {
		return fmt.Errorf("unmarshaled model is invalid: %w", err)
	}
	return nil
}

// FromYAML parses YAML bytes into a model and validates the result.
//
// The function first invokes yaml.Unmarshal to decode the bytes into the
// provided model pointer; a decoding failure is returned without attempting
// validation. On success, the model's Validate method is invoked so that
// syntactically correct but semantically invalid input is rejected at the
// boundary. If FromYAML returns an error, the state of the model variable is
// undefined and MUST NOT be used.
func FromYAML[T Validatable](data []byte, m *T) error {
	if err := yaml.Unmarshal(data, m); err != nil {
		return fmt.Errorf("cannot unmarshal YAML: %w", err)
	}
	if err := (*m).Validate(); err != nil {
		return fmt.Errorf("unmarshaled model is invalid: %w", err)
	}
	return nil
}
