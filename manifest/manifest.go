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

// Package manifest reads analyses, datasets and releases written by hand in
// YAML.
//
// A manifest looks like this:
//
//	analysis:
//	  - {id: 1, kind: DataSource, table: people}
//	  - {id: 2, kind: Literal, value: {type: I64, data: 100}}
//	  - {id: 3, kind: Literal, value: {data: 0}}
//	  - {id: 4, kind: Literal, value: {data: 150000}}
//	  - id: 5
//	    kind: DpMean
//	    args: {data: 1, num_records: 2, minimum: 3, maximum: 4}
//	    epsilon: 1
//	dataset:
//	  people: {file: people.csv, column: income, type: F64}
//	release:
//	  7: {data: 42.5}
//
// Values default to type F64. Without an explicit shape, a single element is
// a scalar and anything else a 1-D array. Relative file paths are resolved
// against the directory of the manifest.
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joshua-oss/yarrow/dataset"
	"github.com/joshua-oss/yarrow/graph"
	"github.com/joshua-oss/yarrow/noise"
	"github.com/joshua-oss/yarrow/release"
	"github.com/joshua-oss/yarrow/status"
	"github.com/joshua-oss/yarrow/value"
	"gopkg.in/yaml.v3"
)

// Manifest is an analysis together with the dataset it reads and the values
// released so far. Every section is optional.
type Manifest struct {
	Nodes  []Node           `yaml:"analysis,omitempty"`
	Tables map[string]Table `yaml:"dataset,omitempty"`
	Values map[uint32]Value `yaml:"release,omitempty"`

	// baseDir is the directory relative file paths are resolved against.
	baseDir string
}

// Node is one node of an analysis.
type Node struct {
	ID   uint32 `yaml:"id"`
	Kind string `yaml:"kind"`
	// Args maps argument names to the ids of the nodes they read from.
	Args map[string]uint32 `yaml:"args,omitempty"`

	// Literal.
	Value *Value `yaml:"value,omitempty"`
	// DataSource.
	Table  string `yaml:"table,omitempty"`
	Column string `yaml:"column,omitempty"`
	// Privatizers. Mechanism defaults to Laplace.
	Mechanism     string  `yaml:"mechanism,omitempty"`
	Epsilon       float64 `yaml:"epsilon,omitempty"`
	Order         int64   `yaml:"order,omitempty"`
	Delta         float64 `yaml:"delta,omitempty"`
	NumBins       int64   `yaml:"num_bins,omitempty"`
	InclusiveLeft bool    `yaml:"inclusive_left,omitempty"`
}

// Table is a table of the dataset: either a CSV file or a literal.
type Table struct {
	File    string `yaml:"file,omitempty"`
	Column  string `yaml:"column,omitempty"`
	Type    string `yaml:"type,omitempty"`
	Literal *Value `yaml:"literal,omitempty"`
}

// Value is an array. Data is a single element or a sequence of elements.
type Value struct {
	Type  string    `yaml:"type,omitempty"`
	Shape []int     `yaml:"shape,omitempty"`
	Data  yaml.Node `yaml:"data"`
}

// Load reads the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}
	return Parse(data, filepath.Dir(path))
}

// Parse parses a manifest. Relative file paths are resolved against baseDir.
// Unknown fields are rejected.
func Parse(data []byte, baseDir string) (*Manifest, error) {
	var m Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil {
		return nil, status.Errorf(status.SchemaError, "failed to parse YAML: %w", err)
	}
	m.baseDir = baseDir
	return &m, nil
}

// Graph returns the analysis of the manifest.
func (m *Manifest) Graph() (*graph.Graph, error) {
	g, _ := graph.NewGraph()
	for i, n := range m.Nodes {
		node, err := n.compile()
		if err != nil {
			return nil, fmt.Errorf("analysis[%d] (id %d): %w", i, n.ID, err)
		}
		if err := g.Add(node); err != nil {
			return nil, fmt.Errorf("analysis[%d]: %w", i, err)
		}
	}
	return g, nil
}

func (n Node) compile() (*graph.Node, error) {
	kind, ok := graph.ParseKind(n.Kind)
	if !ok {
		return nil, status.Errorf(status.SchemaError, "unknown kind %q", n.Kind)
	}
	args := make(map[string]graph.Field, len(n.Args))
	for name, id := range n.Args {
		args[name] = graph.From(id)
	}
	p := graph.Params{
		TableID:       n.Table,
		ColumnID:      n.Column,
		Epsilon:       n.Epsilon,
		Order:         n.Order,
		Delta:         n.Delta,
		NumBins:       n.NumBins,
		InclusiveLeft: n.InclusiveLeft,
	}
	if n.Value != nil {
		v, err := n.Value.compile()
		if err != nil {
			return nil, err
		}
		p.Value = v
	}
	if n.Mechanism != "" {
		m, err := parseMechanism(n.Mechanism)
		if err != nil {
			return nil, err
		}
		p.Mechanism = m
	}
	return graph.New(n.ID, kind, args, p), nil
}

func parseMechanism(name string) (noise.Mechanism, error) {
	for _, m := range []noise.Mechanism{noise.LaplaceMechanism, noise.GaussianMechanism, noise.ExponentialMechanism} {
		if strings.EqualFold(m.String(), name) {
			return m, nil
		}
	}
	return 0, status.Errorf(status.SchemaError, "unknown mechanism %q", name)
}

func parseKind(name string) (value.Kind, error) {
	if name == "" {
		return value.F64, nil
	}
	for k := value.F64; k <= value.Bytes; k++ {
		if strings.EqualFold(k.String(), name) {
			return k, nil
		}
	}
	return 0, status.Errorf(status.SchemaError, "unknown element type %q", name)
}

// Dataset returns the dataset of the manifest.
func (m *Manifest) Dataset() (*dataset.Dataset, error) {
	ds := &dataset.Dataset{Tables: make(map[string]*dataset.Table, len(m.Tables))}
	for id, t := range m.Tables {
		kind, err := parseKind(t.Type)
		if err != nil {
			return nil, fmt.Errorf("dataset table %q: %w", id, err)
		}
		table := &dataset.Table{Column: t.Column, ElementType: kind}
		if t.File != "" {
			table.FilePath = t.File
			if !filepath.IsAbs(t.File) && m.baseDir != "" {
				table.FilePath = filepath.Join(m.baseDir, t.File)
			}
		}
		if t.Literal != nil {
			if table.Literal, err = t.Literal.compile(); err != nil {
				return nil, fmt.Errorf("dataset table %q: %w", id, err)
			}
		}
		ds.Tables[id] = table
	}
	return ds, nil
}

// Release returns the values the manifest declares as released.
func (m *Manifest) Release() (release.Release, error) {
	r := make(release.Release, len(m.Values))
	for id, v := range m.Values {
		val, err := v.compile()
		if err != nil {
			return nil, fmt.Errorf("release node %d: %w", id, err)
		}
		r[id] = val
	}
	return r, nil
}

func (v *Value) compile() (*value.Value, error) {
	kind, err := parseKind(v.Type)
	if err != nil {
		return nil, err
	}
	data := &v.Data
	if data.Kind == yaml.ScalarNode {
		data = &yaml.Node{Kind: yaml.SequenceNode, Content: []*yaml.Node{&v.Data}}
	}
	if data.Kind != 0 && data.Kind != yaml.SequenceNode {
		return nil, status.Errorf(status.SchemaError, "line %d: data must be a scalar or a sequence", v.Data.Line)
	}
	shape := v.Shape
	if shape == nil && len(data.Content) != 1 {
		shape = []int{len(data.Content)}
	}

	var out *value.Value
	switch kind {
	case value.F64:
		var xs []float64
		if err := decodeData(data, &xs); err != nil {
			return nil, err
		}
		out, err = value.NewF64(shape, xs)
	case value.I64:
		var xs []int64
		if err := decodeData(data, &xs); err != nil {
			return nil, err
		}
		out, err = value.NewI64(shape, xs)
	case value.Bool:
		var xs []bool
		if err := decodeData(data, &xs); err != nil {
			return nil, err
		}
		out, err = value.NewBool(shape, xs)
	case value.String:
		var xs []string
		if err := decodeData(data, &xs); err != nil {
			return nil, err
		}
		out, err = value.NewString(shape, xs)
	case value.Bytes:
		var xs []uint8
		if err := decodeData(data, &xs); err != nil {
			return nil, err
		}
		out, err = value.NewBytes(shape, xs)
	}
	if err != nil {
		return nil, status.Errorf(status.SchemaError, "%w", err)
	}
	return out, nil
}

func decodeData(n *yaml.Node, out any) error {
	if n.Kind == 0 {
		return nil
	}
	if err := n.Decode(out); err != nil {
		return status.Errorf(status.SchemaError, "failed to parse data: %w", err)
	}
	return nil
}
