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
	"os"

	log "github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/joshua-oss/yarrow"
	"github.com/joshua-oss/yarrow/codec"
	"github.com/spf13/cobra"
)

// ReleaseOptions holds the flags of the release command.
type ReleaseOptions struct {
	Seed    int64
	HasSeed bool
	Out     string
}

// NewReleaseCommand returns the release command.
func NewReleaseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReleaseOptions{}
	cmd := &cobra.Command{
		Use:   "release <manifest-or-dir>",
		Short: "Compute the differentially private release of an analysis",
		Long: `Compute the release of an analysis: the values of its differentially
private statistics, with noise added.

--seed makes the noise reproducible. Seeded noise does not protect privacy.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.HasSeed = cmd.Flags().Changed("seed")
			return runRelease(rootOpts, opts, args[0], cmd.OutOrStdout())
		},
	}
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "seed the noise (for tests and demonstrations only)")
	cmd.Flags().StringVar(&opts.Out, "out", "", "also write the encoded release to this file")
	return cmd
}

func runRelease(rootOpts *RootOptions, opts *ReleaseOptions, path string, w io.Writer) error {
	f := newFormatter(rootOpts, w)
	in, err := LoadInputs(path)
	if err != nil {
		return f.result(nil, err, nil)
	}

	requestID := uuid.NewString()
	ropts := []yarrow.Option{yarrow.WithRequestID(requestID)}
	if opts.HasSeed {
		log.Warningf("release %s: noise seeded with %d, the release is not private", requestID, opts.Seed)
		ropts = append(ropts, yarrow.WithSeed(opts.Seed))
	}
	// On failure b holds the partial release, which may be empty.
	b, relErr := yarrow.ComputeRelease(in.Dataset, in.Analysis, in.Release, ropts...)
	r, err := codec.DecodeRelease(b)
	if err != nil {
		return f.result(nil, err, nil)
	}
	if opts.Out != "" && relErr == nil {
		if err := os.WriteFile(opts.Out, b, 0o644); err != nil {
			return f.result(nil, fmt.Errorf("failed to write release: %w", err), nil)
		}
		log.Infof("release %s: wrote %d bytes to %s", requestID, len(b), opts.Out)
	}
	return f.result(newRelease(r), relErr, func(w io.Writer) { writeRelease(w, r) })
}
