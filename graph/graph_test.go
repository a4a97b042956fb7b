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

package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/joshua-oss/yarrow/status"
	"github.com/joshua-oss/yarrow/value"
)

func meanGraph(t *testing.T) *Graph {
	t.Helper()
	g, err := NewGraph(
		NewDataSource(1, "t", ""),
		NewLiteral(2, value.ScalarF64(5)),
		NewLiteral(3, value.ScalarF64(0)),
		NewLiteral(4, value.ScalarF64(10)),
		NewDpMean(9, From(1), From(2), From(3), From(4), PrivacyParams{Epsilon: 1}),
	)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	return g
}

func TestGraphAccessors(t *testing.T) {
	g := meanGraph(t)
	if got, want := g.Len(), 5; got != want {
		t.Errorf("Len: got %d, want %d", got, want)
	}
	if diff := cmp.Diff([]uint32{1, 2, 3, 4, 9}, g.IDs()); diff != "" {
		t.Errorf("IDs: got diff (-want +got):\n%s", diff)
	}
	var kinds []Kind
	for _, n := range g.Nodes() {
		kinds = append(kinds, n.Kind)
	}
	if diff := cmp.Diff([]Kind{DataSource, Literal, Literal, Literal, DpMean}, kinds); diff != "" {
		t.Errorf("Nodes: kinds diff (-want +got):\n%s", diff)
	}
	n, ok := g.Get(9)
	if !ok {
		t.Fatalf("Get(9): not found")
	}
	if diff := cmp.Diff([]string{"data", "maximum", "minimum", "num_records"}, n.ArgumentNames()); diff != "" {
		t.Errorf("ArgumentNames: got diff (-want +got):\n%s", diff)
	}
	if f, _ := n.Argument(ArgMaximum); f != From(4) {
		t.Errorf("Argument(maximum): got %+v, want %+v", f, From(4))
	}
	if diff := cmp.Diff([]uint32{1, 2, 3, 4}, n.Sources()); diff != "" {
		t.Errorf("Sources: got diff (-want +got):\n%s", diff)
	}
	if _, ok := g.Get(42); ok {
		t.Errorf("Get(42): found a node that was never added")
	}
}

func TestNewGraphRejectsDuplicateIDs(t *testing.T) {
	_, err := NewGraph(NewLiteral(1, value.ScalarF64(1)), NewLiteral(1, value.ScalarF64(2)))
	if !status.Is(err, status.GraphStructureError) {
		t.Errorf("NewGraph: with duplicate ids got %v, want a GraphStructureError", err)
	}
}

func TestConsumers(t *testing.T) {
	g, err := NewGraph(
		NewLiteral(1, value.ScalarF64(1)),
		NewAdd(2, From(1), From(1)),
		NewNegate(3, From(1)),
		NewNegate(4, From(7)),
	)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	want := map[uint32][]uint32{1: {2, 3}, 7: {4}}
	if diff := cmp.Diff(want, g.Consumers()); diff != "" {
		t.Errorf("Consumers: got diff (-want +got):\n%s", diff)
	}
}

func TestNewCopiesArguments(t *testing.T) {
	args := map[string]Field{ArgData: From(1)}
	n := New(2, Negate, args, Params{})
	args[ArgData] = From(5)
	if f, _ := n.Argument(ArgData); f.SourceNodeID != 1 {
		t.Errorf("New: node argument changed to %+v after modifying the caller's map", f)
	}
}

func TestKindClassification(t *testing.T) {
	for _, tc := range []struct {
		kind       Kind
		privatizer bool
		ingestion  bool
		binary     bool
		numArgs    int
	}{
		{Literal, false, false, false, 0},
		{DataSource, false, true, false, 0},
		{Add, false, false, true, 2},
		{Power, false, false, true, 2},
		{Negate, false, false, false, 1},
		{DpMean, true, false, false, 4},
		{DpVariance, true, false, false, 4},
		{DpMomentRaw, true, false, false, 4},
		{DpCovariance, true, false, false, 7},
		{DpHistogram, true, false, false, 3},
	} {
		if got := tc.kind.IsPrivatizer(); got != tc.privatizer {
			t.Errorf("%v.IsPrivatizer: got %t, want %t", tc.kind, got, tc.privatizer)
		}
		if got := tc.kind.IsIngestion(); got != tc.ingestion {
			t.Errorf("%v.IsIngestion: got %t, want %t", tc.kind, got, tc.ingestion)
		}
		if got := tc.kind.IsBinaryArithmetic(); got != tc.binary {
			t.Errorf("%v.IsBinaryArithmetic: got %t, want %t", tc.kind, got, tc.binary)
		}
		if got := len(tc.kind.Signature()); got != tc.numArgs {
			t.Errorf("%v.Signature: got %d arguments, want %d", tc.kind, got, tc.numArgs)
		}
	}
}

func TestParseKindRoundTrips(t *testing.T) {
	for k := Kind(0); k < NumKinds; k++ {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q): got %v, %t, want %v, true", k.String(), got, ok, k)
		}
	}
	if _, ok := ParseKind("DpMedian"); ok {
		t.Errorf("ParseKind(DpMedian): got ok, want not found")
	}
	if Kind(99).Valid() {
		t.Errorf("Kind(99).Valid: got true, want false")
	}
}

func TestArgAcceptsKinds(t *testing.T) {
	a, ok := DpMean.Arg(ArgNumRecords)
	if !ok {
		t.Fatalf("DpMean.Arg(num_records): not found")
	}
	if !a.Accepts(value.I64) || !a.Accepts(value.F64) || a.Accepts(value.String) {
		t.Errorf("DpMean num_records: got kinds %v, want F64 and I64", a.Kinds)
	}
	if !a.Scalar {
		t.Errorf("DpMean num_records: got Scalar false, want true")
	}
	if d, _ := DpMean.Arg(ArgData); d.Accepts(value.I64) {
		t.Errorf("DpMean data: accepts I64, want F64 only")
	}
	if _, ok := Add.Arg(ArgData); ok {
		t.Errorf("Add.Arg(data): found, want not found")
	}
}
