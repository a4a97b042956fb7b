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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	log "github.com/golang/glog"
	"github.com/joshua-oss/yarrow/codec"
	"github.com/joshua-oss/yarrow/manifest"
)

// File names of the messages in a directory written by "yarrow encode".
const (
	AnalysisFile = "analysis.pb"
	DatasetFile  = "dataset.pb"
	ReleaseFile  = "release.pb"
)

// Inputs are the encoded messages a command operates on. Dataset and Release
// are nil when absent.
type Inputs struct {
	Analysis []byte
	Dataset  []byte
	Release  []byte
}

// LoadInputs reads path, which is either a YAML manifest or a directory of
// encoded messages.
func LoadInputs(path string) (*Inputs, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return loadEncoded(path)
	}
	return loadManifest(path)
}

func loadEncoded(dir string) (*Inputs, error) {
	read := func(name string, required bool) ([]byte, error) {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil, nil
		}
		return b, err
	}
	var (
		in  Inputs
		err error
	)
	if in.Analysis, err = read(AnalysisFile, true); err != nil {
		return nil, err
	}
	if in.Dataset, err = read(DatasetFile, false); err != nil {
		return nil, err
	}
	if in.Release, err = read(ReleaseFile, false); err != nil {
		return nil, err
	}
	log.V(1).Infof("read %d analysis, %d dataset and %d release bytes from %s", len(in.Analysis), len(in.Dataset), len(in.Release), dir)
	return &in, nil
}

func loadManifest(path string) (*Inputs, error) {
	m, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	g, err := m.Graph()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ds, err := m.Dataset()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r, err := m.Release()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.V(1).Infof("loaded manifest %s: %d nodes, %d tables, %d released values", path, g.Len(), len(ds.Tables), len(r))
	return &Inputs{
		Analysis: codec.EncodeAnalysis(g),
		Dataset:  codec.EncodeDataset(ds),
		Release:  codec.EncodeRelease(r),
	}, nil
}
