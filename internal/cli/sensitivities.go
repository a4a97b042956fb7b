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
	"slices"

	"github.com/joshua-oss/yarrow"
	"github.com/joshua-oss/yarrow/codec"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
)

// NewSensitivitiesCommand returns the sensitivities command.
func NewSensitivitiesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sensitivities <manifest-or-dir>",
		Short: "Print the L1 sensitivity of every statistic of an analysis",
		Long: `Print the L1 sensitivity of every differentially private statistic of
an analysis. Statistics whose bounds or record count are computed from the
data are omitted.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSensitivities(rootOpts, args[0], cmd.OutOrStdout())
		},
	}
}

func runSensitivities(rootOpts *RootOptions, path string, w io.Writer) error {
	f := newFormatter(rootOpts, w)
	in, err := LoadInputs(path)
	if err != nil {
		return f.result(nil, err, nil)
	}
	b, err := yarrow.ComputeSensitivities(in.Analysis, in.Release)
	if err != nil {
		return f.result(nil, err, nil)
	}
	s, err := codec.DecodeSensitivities(b)
	if err != nil {
		return f.result(nil, err, nil)
	}
	return f.result(s, nil, func(w io.Writer) {
		ids := maps.Keys(s)
		slices.Sort(ids)
		for _, id := range ids {
			fmt.Fprintf(w, "node %d: %g\n", id, s[id])
		}
	})
}
