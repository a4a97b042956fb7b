//
// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package cli

import (
	"fmt"
	"io"

	"github.com/joshua-oss/yarrow"
	"github.com/joshua-oss/yarrow/codec"
	"github.com/spf13/cobra"
)

// ValidationResult is the output of the validate command.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// NewValidateCommand returns the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <manifest-or-dir>",
		Short: "Validate an analysis without evaluating it",
		Long: `Validate an analysis: its structure, the types and shapes of its
arguments and the domains of its parameters. Every problem is reported, not
only the first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd.OutOrStdout())
		},
	}
}

func runValidate(rootOpts *RootOptions, path string, w io.Writer) error {
	f := newFormatter(rootOpts, w)
	in, err := LoadInputs(path)
	if err != nil {
		return f.result(nil, err, nil)
	}
	b, err := yarrow.ValidateAnalysis(in.Analysis, in.Release)
	if err != nil {
		return f.result(nil, err, nil)
	}
	v, err := codec.DecodeValidated(b)
	if err != nil {
		return f.result(nil, err, nil)
	}
	res := ValidationResult{Valid: v.OK, Errors: v.Errors}
	if !v.OK {
		err = fmt.Errorf("validation failed with %d error(s)", len(v.Errors))
	}
	return f.result(res, err, func(w io.Writer) {
		if v.OK {
			fmt.Fprintln(w, "analysis is valid")
			return
		}
		for _, e := range v.Errors {
			fmt.Fprintln(w, e)
		}
	})
}
