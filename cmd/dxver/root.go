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
	"os"

	"dirpx.dev/dxver/dxcore/calc"
	"dirpx.dev/dxver/dxcore/config"
	"dirpx.dev/dxver/dxcore/diag"
	dxerrors "dirpx.dev/dxver/dxcore/errors"
	"dirpx.dev/dxver/dxcore/gitdb"
	"dirpx.dev/dxver/dxcore/model"
	"dirpx.dev/dxver/dxcore/model/semver"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// envPrefix + the flag name (upper-cased, dashes to underscores) names the
// environment variable backing each flag. Resolution order is flag, then
// environment, then default.
const envPrefix = "DXVER_"

// options holds the raw flag values before they are resolved into a
// config.Configuration.
type options struct {
	tagPrefix         string
	autoIncrement     string
	preRelease        string
	minimumMajorMinor string
	ignoreHeight      bool
	buildMetadata     string
	output            string
	verbosity         int
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "dxver [path]",
		Short: "Compute a semantic version from Git tags and history",
		Long: `dxver derives a Semantic Versioning 2.0.0 version for a Git working
copy without committing a version file. It finds the nearest version tag
reachable from HEAD (first parent preferred), counts the commits walked to
reach it, and synthesizes the next version from that base and height.

Every flag can also be supplied through a DXVER_* environment variable
(for example DXVER_TAG_PREFIX); flags take precedence over the
environment.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,

		RunE: func(cmd *cobra.Command, args []string) error {
			applyEnvironment(cmd.Flags())

			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			return run(cmd, opts, path)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.tagPrefix, "tag-prefix", "", "prefix stripped from tag names before version parsing")
	flags.StringVar(&opts.autoIncrement, "auto-increment", "patch", "version component to bump above a stable tag (major|minor|patch)")
	flags.StringVar(&opts.preRelease, "default-pre-release-identifiers", "alpha.0", "dot-separated identifiers attached after an auto-increment")
	flags.StringVar(&opts.minimumMajorMinor, "minimum-major-minor", "", "MAJOR.MINOR floor applied to the synthesized version")
	flags.BoolVar(&opts.ignoreHeight, "ignore-height", false, "treat the walk height as zero")
	flags.StringVar(&opts.buildMetadata, "build-metadata", "", "dot-separated build metadata appended to the version")
	flags.StringVar(&opts.output, "output", "plain", "output format (plain|kv|json|yaml)")
	flags.IntVar(&opts.verbosity, "verbosity", 1, "0 suppresses warnings, 1 prints them to stderr")

	return cmd
}

// applyEnvironment fills every flag the user did not set from its DXVER_*
// environment variable. Values go through the flag's own parser; an error
// from that parser is discarded, so a malformed value does not fail the run.
func applyEnvironment(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			return
		}
		name := envPrefix + envName(f.Name)
		if value, ok := os.LookupEnv(name); ok {
			// String-valued options report malformed input when the
			// configuration is resolved; a malformed boolean or integer
			// is not reported.
			_ = flags.Set(f.Name, value)
		}
	})
}

// envName converts a flag name to its environment suffix:
// "tag-prefix" -> "TAG_PREFIX".
func envName(flag string) string {
	out := make([]byte, len(flag))
	for i := 0; i < len(flag); i++ {
		c := flag[i]
		switch {
		case c == '-':
			out[i] = '_'
		case c >= 'a' && c <= 'z':
			out[i] = c - 'a' + 'A'
		default:
			out[i] = c
		}
	}
	return string(out)
}

// configuration resolves the raw option values into a validated
// Configuration. Any unparseable value is an InvalidConfiguration failure,
// reported before the repository is touched.
func (o *options) configuration() (config.Configuration, error) {
	cfg := config.Default()
	cfg.TagPrefix = o.tagPrefix
	cfg.IgnoreHeight = o.ignoreHeight

	increment, err := model.ParseIncrement(o.autoIncrement)
	if err != nil {
		return config.Configuration{}, &dxerrors.ConfigurationError{Err: err}
	}
	cfg.AutoIncrement = increment

	identifiers, err := semver.ParseIdentifiers(o.preRelease)
	if err != nil {
		return config.Configuration{}, &dxerrors.ConfigurationError{Err: err}
	}
	cfg.DefaultPreRelease = identifiers

	if o.minimumMajorMinor != "" {
		floor, err := config.ParseMajorMinor(o.minimumMajorMinor)
		if err != nil {
			return config.Configuration{}, &dxerrors.ConfigurationError{Err: err}
		}
		cfg.MinimumMajorMinor = &floor
	}

	build, err := semver.ParseBuildIdentifiers(o.buildMetadata)
	if err != nil {
		return config.Configuration{}, &dxerrors.ConfigurationError{Err: err}
	}
	cfg.BuildMetadata = build

	return cfg, nil
}

// sink returns the warning sink for the chosen verbosity.
func (o *options) sink(cmd *cobra.Command) diag.Sink {
	if o.verbosity <= 0 {
		return diag.Discard
	}
	return diag.NewWriterSink(cmd.ErrOrStderr())
}

func run(cmd *cobra.Command, opts *options, path string) error {
	cfg, err := opts.configuration()
	if err != nil {
		return err
	}

	repo, err := gitdb.Open(path)
	if err != nil {
		return err
	}

	result, err := calc.Calculate(repo, cfg, opts.sink(cmd))
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), opts.output, result)
}
