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

package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joshua-oss/yarrow/graph"
	"github.com/joshua-oss/yarrow/noise"
	"github.com/joshua-oss/yarrow/status"
	"github.com/joshua-oss/yarrow/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const meanManifest = `
analysis:
  - {id: 1, kind: DataSource, table: people}
  - {id: 2, kind: Literal, value: {type: I64, data: 5}}
  - {id: 3, kind: Literal, value: {data: 0}}
  - {id: 4, kind: Literal, value: {data: 10}}
  - id: 5
    kind: DpMean
    args: {data: 1, num_records: 2, minimum: 3, maximum: 4}
    epsilon: 1
  - id: 6
    kind: DpHistogram
    args: {data: 1, minimum: 3, maximum: 4}
    mechanism: gaussian
    epsilon: 0.5
    delta: 1e-5
    num_bins: 4
    inclusive_left: true
dataset:
  people: {file: people.csv, column: age, type: i64}
  inline: {literal: {data: [1, 2, 3]}}
release:
  7: {data: 42.5}
`

func TestParseMeanManifest(t *testing.T) {
	m, err := Parse([]byte(meanManifest), "/data")
	require.NoError(t, err)

	g, err := m.Graph()
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 3, 4, 5, 6}, g.IDs())

	mean, _ := g.Get(5)
	assert.Equal(t, graph.DpMean, mean.Kind)
	assert.Equal(t, noise.LaplaceMechanism, mean.Params.Mechanism)
	assert.Equal(t, 1.0, mean.Params.Epsilon)
	f, ok := mean.Argument(graph.ArgNumRecords)
	require.True(t, ok)
	assert.Equal(t, graph.From(2), f)

	hist, _ := g.Get(6)
	assert.Equal(t, noise.GaussianMechanism, hist.Params.Mechanism)
	assert.Equal(t, 1e-5, hist.Params.Delta)
	assert.Equal(t, int64(4), hist.Params.NumBins)
	assert.True(t, hist.Params.InclusiveLeft)

	n, _ := g.Get(2)
	assert.True(t, n.Params.Value.Equal(value.ScalarI64(5)), "got %v", n.Params.Value)

	ds, err := m.Dataset()
	require.NoError(t, err)
	require.Contains(t, ds.Tables, "people")
	assert.Equal(t, filepath.Join("/data", "people.csv"), ds.Tables["people"].FilePath)
	assert.Equal(t, value.I64, ds.Tables["people"].ElementType)
	assert.True(t, ds.Tables["inline"].Literal.Equal(value.VectorF64([]float64{1, 2, 3})))

	r, err := m.Release()
	require.NoError(t, err)
	assert.True(t, r[7].Equal(value.ScalarF64(42.5)), "got %v", r[7])
}

func scalarBool(b bool) *value.Value {
	v, _ := value.NewBool([]int{}, []bool{b})
	return v
}

func TestValueShapes(t *testing.T) {
	for _, tc := range []struct {
		yaml string
		want *value.Value
	}{
		{`{data: [7]}`, value.ScalarF64(7)},
		{`{shape: [1], data: [7]}`, value.VectorF64([]float64{7})},
		{`{type: STRING, data: [a, b]}`, value.VectorString([]string{"a", "b"})},
		{`{type: bool, data: [true]}`, scalarBool(true)},
		{`{type: bytes, data: [0, 255]}`, value.VectorBytes([]byte{0, 255})},
		{`{data: []}`, value.VectorF64(nil)},
	} {
		m, err := Parse([]byte("release: {1: "+tc.yaml+"}"), "")
		require.NoError(t, err, tc.yaml)
		r, err := m.Release()
		require.NoError(t, err, tc.yaml)
		assert.True(t, r[1].Equal(tc.want), "%s: got %v, want %v", tc.yaml, r[1], tc.want)
	}

	m, err := Parse([]byte("release: {1: {shape: [2, 2], data: [1, 2, 3, 4]}}"), "")
	require.NoError(t, err)
	r, err := m.Release()
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, r[1].Shape())
}

func TestManifestErrors(t *testing.T) {
	for _, tc := range []struct {
		desc  string
		yaml  string
		build func(*Manifest) error
	}{
		{"unknown field", "analysis: [{id: 1, kind: Literal, valeu: {data: 1}}]", nil},
		{"malformed yaml", "analysis: [", nil},
		{"unknown kind", "analysis: [{id: 1, kind: DpMedian}]", func(m *Manifest) error { _, err := m.Graph(); return err }},
		{"unknown mechanism", "analysis: [{id: 1, kind: DpMean, mechanism: snapping}]", func(m *Manifest) error { _, err := m.Graph(); return err }},
		{"unknown element type", "dataset: {t: {file: a.csv, type: F32}}", func(m *Manifest) error { _, err := m.Dataset(); return err }},
		{"shape mismatch", "release: {1: {shape: [3], data: [1, 2]}}", func(m *Manifest) error { _, err := m.Release(); return err }},
		{"byte out of range", "release: {1: {type: bytes, data: [256]}}", func(m *Manifest) error { _, err := m.Release(); return err }},
		{"mapping as data", "release: {1: {data: {a: 1}}}", func(m *Manifest) error { _, err := m.Release(); return err }},
	} {
		m, err := Parse([]byte(tc.yaml), "")
		if tc.build == nil {
			assert.True(t, status.Is(err, status.SchemaError), "%s: got %v", tc.desc, err)
			continue
		}
		require.NoError(t, err, tc.desc)
		err = tc.build(m)
		assert.True(t, status.Is(err, status.SchemaError), "%s: got %v", tc.desc, err)
	}
}

func TestDuplicateNodeID(t *testing.T) {
	m, err := Parse([]byte("analysis: [{id: 1, kind: Literal, value: {data: 1}}, {id: 1, kind: Literal, value: {data: 2}}]"), "")
	require.NoError(t, err)
	_, err = m.Graph()
	assert.True(t, status.Is(err, status.GraphStructureError), "got %v", err)
}

func TestLoadResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "analysis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(meanManifest), 0o600))

	m, err := Load(path)
	require.NoError(t, err)
	ds, err := m.Dataset()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "people.csv"), ds.Tables["people"].FilePath)

	_, err = Load(filepath.Join(dir, "absent.yaml"))
	assert.Error(t, err)
}
