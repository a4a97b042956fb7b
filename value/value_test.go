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

package value

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/joshua-oss/yarrow/status"
)

func mustF64(t *testing.T, shape []int, data []float64) *Value {
	t.Helper()
	v, err := NewF64(shape, data)
	if err != nil {
		t.Fatalf("NewF64(%v, %v): %v", shape, data, err)
	}
	return v
}

func mustI64(t *testing.T, shape []int, data []int64) *Value {
	t.Helper()
	v, err := NewI64(shape, data)
	if err != nil {
		t.Fatalf("NewI64(%v, %v): %v", shape, data, err)
	}
	return v
}

func TestConstructorsRejectShapeMismatch(t *testing.T) {
	for _, tc := range []struct {
		desc string
		fn   func() error
	}{
		{"F64 with too few elements", func() error { _, err := NewF64([]int{2, 2}, []float64{1, 2, 3}); return err }},
		{"I64 scalar with two elements", func() error { _, err := NewI64([]int{}, []int64{1, 2}); return err }},
		{"BOOL with negative dimension", func() error { _, err := NewBool([]int{-1}, nil); return err }},
		{"F64 whose element count overflows", func() error { _, err := NewF64([]int{65536, 65536, 65536, 65536}, nil); return err }},
		{"I64 whose element count wraps to zero", func() error { _, err := NewI64([]int{1 << 32, 1 << 32}, nil); return err }},
		{"STRING with too many elements", func() error { _, err := NewString([]int{1}, []string{"a", "b"}); return err }},
		{"BYTES with too few elements", func() error { _, err := NewBytes([]int{3}, []byte{1}); return err }},
	} {
		if err := tc.fn(); !status.Is(err, status.ShapeError) {
			t.Errorf("constructor: when %s got %v, want a ShapeError", tc.desc, err)
		}
	}
}

func TestScalarsHaveRankZero(t *testing.T) {
	for _, v := range []*Value{ScalarF64(1.5), ScalarI64(3)} {
		if v.Rank() != 0 || v.Len() != 1 {
			t.Errorf("%v: got rank %d and %d elements, want rank 0 and 1 element", v, v.Rank(), v.Len())
		}
	}
}

func TestScalarFloat64(t *testing.T) {
	for _, tc := range []struct {
		desc     string
		v        *Value
		want     float64
		wantKind status.Kind
	}{
		{"F64 scalar", ScalarF64(2.5), 2.5, ""},
		{"I64 scalar", ScalarI64(5), 5, ""},
		{"one-element vector", VectorF64([]float64{7}), 7, ""},
		{"two-element vector", VectorF64([]float64{1, 2}), 0, status.ShapeError},
		{"string scalar", VectorString([]string{"x"}), 0, status.TypeError},
	} {
		got, err := tc.v.ScalarFloat64()
		if status.KindOf(err) != tc.wantKind {
			t.Errorf("ScalarFloat64: when %s got err %v, want kind %q", tc.desc, err, tc.wantKind)
		}
		if got != tc.want {
			t.Errorf("ScalarFloat64: when %s got %f, want %f", tc.desc, got, tc.want)
		}
	}
}

func TestFloat64SliceDoesNotPromoteIntegers(t *testing.T) {
	if _, err := VectorI64([]int64{1, 2}).Float64Slice(); !status.Is(err, status.TypeError) {
		t.Errorf("Float64Slice: on I64 got %v, want a TypeError", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	v := VectorF64([]float64{1, 2, 3})
	c := v.Clone()
	c.F64s()[0] = 100
	if v.F64s()[0] != 1 {
		t.Errorf("Clone: modifying the clone changed the original to %v", v)
	}
	if !v.Equal(VectorF64([]float64{1, 2, 3})) {
		t.Errorf("Clone: original changed to %v", v)
	}
}

func TestBroadcastShapes(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		a, b    []int
		want    []int
		wantErr bool
	}{
		{"equal shapes", []int{3}, []int{3}, []int{3}, false},
		{"scalar and vector", []int{}, []int{4}, []int{4}, false},
		{"trailing alignment", []int{2, 3}, []int{3}, []int{2, 3}, false},
		{"ones stretch", []int{2, 1}, []int{1, 3}, []int{2, 3}, false},
		{"unknown matches known", []int{Unknown}, []int{5}, []int{5}, false},
		{"unknown against unknown", []int{Unknown}, []int{Unknown}, []int{Unknown}, false},
		{"mismatch", []int{2}, []int{3}, nil, true},
		{"inner mismatch", []int{2, 3}, []int{4, 3}, nil, true},
	} {
		got, err := BroadcastShapes(tc.a, tc.b)
		if (err != nil) != tc.wantErr {
			t.Errorf("BroadcastShapes: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
			continue
		}
		if err == nil {
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("BroadcastShapes: when %s got diff (-want +got):\n%s", tc.desc, diff)
			}
		}
	}
}

func TestArithmeticF64(t *testing.T) {
	x := VectorF64([]float64{1, 2, 3})
	y := VectorF64([]float64{4, 5, 6})
	two := ScalarF64(2)
	for _, tc := range []struct {
		desc string
		op   func(a, b *Value) (*Value, error)
		a, b *Value
		want []float64
	}{
		{"add", Add, x, y, []float64{5, 7, 9}},
		{"subtract", Sub, x, y, []float64{-3, -3, -3}},
		{"multiply", Mul, x, y, []float64{4, 10, 18}},
		{"divide", Div, y, two, []float64{2, 2.5, 3}},
		{"power", Pow, x, two, []float64{1, 4, 9}},
		{"scalar on the left", Sub, two, x, []float64{1, 0, -1}},
		{"divide by zero is infinite", Div, x, ScalarF64(0), []float64{math.Inf(1), math.Inf(1), math.Inf(1)}},
	} {
		got, err := tc.op(tc.a, tc.b)
		if err != nil {
			t.Fatalf("%s: got unexpected error %v", tc.desc, err)
		}
		if diff := cmp.Diff(tc.want, got.F64s()); diff != "" {
			t.Errorf("%s: got diff (-want +got):\n%s", tc.desc, diff)
		}
	}
}

func TestArithmeticBroadcastsMatrixAndRow(t *testing.T) {
	m := mustF64(t, []int{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	row := VectorF64([]float64{10, 20, 30})
	got, err := Add(m, row)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	want := mustF64(t, []int{2, 3}, []float64{11, 22, 33, 14, 25, 36})
	if !got.Equal(want) {
		t.Errorf("Add: got %v, want %v", got, want)
	}

	col := mustF64(t, []int{2, 1}, []float64{100, 200})
	got, err = Add(m, col)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	want = mustF64(t, []int{2, 3}, []float64{101, 102, 103, 204, 205, 206})
	if !got.Equal(want) {
		t.Errorf("Add: got %v, want %v", got, want)
	}
}

func TestArithmeticI64(t *testing.T) {
	x := VectorI64([]int64{7, -7, 3})
	for _, tc := range []struct {
		desc string
		op   func(a, b *Value) (*Value, error)
		b    *Value
		want []int64
	}{
		{"add", Add, ScalarI64(1), []int64{8, -6, 4}},
		{"multiply", Mul, ScalarI64(-2), []int64{-14, 14, -6}},
		{"divide truncates", Div, ScalarI64(2), []int64{3, -3, 1}},
		{"power", Pow, ScalarI64(3), []int64{343, -343, 27}},
		{"power zero", Pow, ScalarI64(0), []int64{1, 1, 1}},
	} {
		got, err := tc.op(x, tc.b)
		if err != nil {
			t.Fatalf("%s: got unexpected error %v", tc.desc, err)
		}
		if got.Kind() != I64 {
			t.Errorf("%s: got kind %v, want I64", tc.desc, got.Kind())
		}
		if diff := cmp.Diff(tc.want, got.I64s()); diff != "" {
			t.Errorf("%s: got diff (-want +got):\n%s", tc.desc, diff)
		}
	}
}

func TestArithmeticErrors(t *testing.T) {
	for _, tc := range []struct {
		desc     string
		op       func(a, b *Value) (*Value, error)
		a, b     *Value
		wantKind status.Kind
	}{
		{"mixed kinds are not promoted", Add, VectorF64([]float64{1}), VectorI64([]int64{1}), status.TypeError},
		{"strings", Add, VectorString([]string{"a"}), VectorString([]string{"b"}), status.TypeError},
		{"booleans", Mul, VectorBool([]bool{true}), VectorBool([]bool{true}), status.TypeError},
		{"non-broadcastable", Add, VectorF64([]float64{1, 2}), VectorF64([]float64{1, 2, 3}), status.ShapeError},
		{"integer division by zero", Div, VectorI64([]int64{1, 2}), VectorI64([]int64{1, 0}), status.DomainError},
		{"negative integer exponent", Pow, ScalarI64(2), ScalarI64(-1), status.DomainError},
	} {
		_, err := tc.op(tc.a, tc.b)
		if !status.Is(err, tc.wantKind) {
			t.Errorf("%s: got %v, want kind %q", tc.desc, err, tc.wantKind)
		}
	}
}

func TestNegate(t *testing.T) {
	f, err := Negate(mustF64(t, []int{2}, []float64{1.5, -2}))
	if err != nil {
		t.Fatalf("Negate: %v", err)
	}
	if diff := cmp.Diff([]float64{-1.5, 2}, f.F64s()); diff != "" {
		t.Errorf("Negate: got diff (-want +got):\n%s", diff)
	}
	i, err := Negate(mustI64(t, []int{}, []int64{4}))
	if err != nil {
		t.Fatalf("Negate: %v", err)
	}
	if !i.Equal(ScalarI64(-4)) {
		t.Errorf("Negate: got %v, want I64 scalar -4", i)
	}
	if _, err := Negate(VectorBytes([]byte{1})); !status.Is(err, status.TypeError) {
		t.Errorf("Negate: on BYTES got %v, want a TypeError", err)
	}
}
