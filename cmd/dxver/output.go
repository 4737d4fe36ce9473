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

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"dirpx.dev/dxver/dxcore/calc"
	dxerrors "dirpx.dev/dxver/dxcore/errors"

	"gopkg.in/yaml.v3"
)

// render writes the result in the requested format.
//
//	plain  the version string alone, for shell substitution
//	kv     key=value lines with the full decision, for CI log scraping
//	json   the Result record as JSON
//	yaml   the Result record as YAML
func render(w io.Writer, format string, result calc.Result) error {
	switch format {
	case "plain":
		_, err := fmt.Fprintln(w, result.Version)
		return err

	case "kv":
		fmt.Fprintf(w, "version=%s\n", result.Version)
		fmt.Fprintf(w, "base=%s\n", result.Base)
		fmt.Fprintf(w, "height=%d\n", result.Height)
		fmt.Fprintf(w, "source=%s\n", result.Source)
		if result.Tag != "" {
			fmt.Fprintf(w, "tag=%s\n", result.Tag)
		}
		return nil

	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case "yaml":
		data, err := yaml.Marshal(result)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err

	default:
		return &dxerrors.ConfigurationError{
			Err: &dxerrors.ParseError{Type: "OutputFormat", Value: format},
		}
	}
}
