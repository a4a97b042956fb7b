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
	"path/filepath"

	log "github.com/golang/glog"
	"github.com/spf13/cobra"
)

// EncodeResult is the output of the encode command.
type EncodeResult struct {
	Files map[string]int `json:"files"` // file name to size in bytes
}

// NewEncodeCommand returns the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "encode <manifest> --out <dir>",
		Short: "Compile a YAML manifest to encoded messages",
		Long: `Compile a YAML manifest to the wire format. The analysis, dataset and
release are written to analysis.pb, dataset.pb and release.pb in the output
directory, which the other commands accept in place of the manifest.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(rootOpts, args[0], out, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output directory")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func runEncode(rootOpts *RootOptions, path, dir string, w io.Writer) error {
	f := newFormatter(rootOpts, w)
	in, err := loadManifest(path)
	if err != nil {
		return f.result(nil, err, nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return f.result(nil, fmt.Errorf("failed to create output directory: %w", err), nil)
	}
	res := EncodeResult{Files: make(map[string]int)}
	for _, file := range []struct {
		name string
		b    []byte
	}{
		{AnalysisFile, in.Analysis},
		{DatasetFile, in.Dataset},
		{ReleaseFile, in.Release},
	} {
		if err := os.WriteFile(filepath.Join(dir, file.name), file.b, 0o644); err != nil {
			return f.result(nil, fmt.Errorf("failed to write %s: %w", file.name, err), nil)
		}
		res.Files[file.name] = len(file.b)
	}
	log.Infof("encoded %s into %s", path, dir)
	return f.result(res, nil, func(w io.Writer) {
		for _, name := range []string{AnalysisFile, DatasetFile, ReleaseFile} {
			fmt.Fprintf(w, "%s: %d bytes\n", filepath.Join(dir, name), res.Files[name])
		}
	})
}
