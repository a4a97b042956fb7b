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

// Package value provides the tagged N-dimensional array passed between
// analysis nodes.
//
// A Value holds exactly one element kind and an explicit shape. Scalars have
// rank 0 and a single element. Elements are stored flat in row-major order.
package value

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/joshua-oss/yarrow/status"
)

// Kind is the element type of a Value. The numeric values are part of the
// wire format.
type Kind int32

// Element kinds.
const (
	F64 Kind = iota
	I64
	Bool
	String
	Bytes
)

func (k Kind) String() string {
	switch k {
	case F64:
		return "F64"
	case I64:
		return "I64"
	case Bool:
		return "BOOL"
	case String:
		return "STRING"
	case Bytes:
		return "BYTES"
	default:
		return fmt.Sprintf("Kind(%d)", int32(k))
	}
}

// IsNumeric reports whether arithmetic is defined on k.
func (k Kind) IsNumeric() bool {
	return k == F64 || k == I64
}

// Value is an immutable-by-convention tagged array. Use Clone before
// modifying the slices returned by the accessors.
type Value struct {
	kind  Kind
	shape []int

	f64   []float64
	i64   []int64
	bools []bool
	strs  []string
	bytes []byte
}

// NumElements returns the number of elements of an array with the given shape.
// A rank-0 shape has one element.
func NumElements(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

func checkShape(shape []int, length int) error {
	for i, d := range shape {
		if d < 0 {
			return status.Errorf(status.ShapeError, "dimension %d of shape %v is negative", i, shape)
		}
	}
	if !slices.Contains(shape, 0) {
		n := 1
		for _, d := range shape {
			if n > math.MaxInt/d {
				return status.Errorf(status.ShapeError, "shape %v holds more than %d elements", shape, math.MaxInt)
			}
			n *= d
		}
	}
	if want := NumElements(shape); want != length {
		return status.Errorf(status.ShapeError, "shape %v holds %d elements, got %d", shape, want, length)
	}
	return nil
}

func copyShape(shape []int) []int {
	s := make([]int, len(shape))
	copy(s, shape)
	return s
}

// NewF64 returns a float64 array. It returns a ShapeError if len(data) does
// not match the shape.
func NewF64(shape []int, data []float64) (*Value, error) {
	if err := checkShape(shape, len(data)); err != nil {
		return nil, err
	}
	return &Value{kind: F64, shape: copyShape(shape), f64: data}, nil
}

// NewI64 returns an int64 array.
func NewI64(shape []int, data []int64) (*Value, error) {
	if err := checkShape(shape, len(data)); err != nil {
		return nil, err
	}
	return &Value{kind: I64, shape: copyShape(shape), i64: data}, nil
}

// NewBool returns a boolean array.
func NewBool(shape []int, data []bool) (*Value, error) {
	if err := checkShape(shape, len(data)); err != nil {
		return nil, err
	}
	return &Value{kind: Bool, shape: copyShape(shape), bools: data}, nil
}

// NewString returns a string array.
func NewString(shape []int, data []string) (*Value, error) {
	if err := checkShape(shape, len(data)); err != nil {
		return nil, err
	}
	return &Value{kind: String, shape: copyShape(shape), strs: data}, nil
}

// NewBytes returns a byte array. Each element is a single byte.
func NewBytes(shape []int, data []byte) (*Value, error) {
	if err := checkShape(shape, len(data)); err != nil {
		return nil, err
	}
	return &Value{kind: Bytes, shape: copyShape(shape), bytes: data}, nil
}

// ScalarF64 returns a rank-0 float64 value.
func ScalarF64(x float64) *Value {
	return &Value{kind: F64, shape: []int{}, f64: []float64{x}}
}

// ScalarI64 returns a rank-0 int64 value.
func ScalarI64(x int64) *Value {
	return &Value{kind: I64, shape: []int{}, i64: []int64{x}}
}

// VectorF64 returns a 1-D float64 array.
func VectorF64(data []float64) *Value {
	return &Value{kind: F64, shape: []int{len(data)}, f64: data}
}

// VectorI64 returns a 1-D int64 array.
func VectorI64(data []int64) *Value {
	return &Value{kind: I64, shape: []int{len(data)}, i64: data}
}

// VectorString returns a 1-D string array.
func VectorString(data []string) *Value {
	return &Value{kind: String, shape: []int{len(data)}, strs: data}
}

// VectorBool returns a 1-D boolean array.
func VectorBool(data []bool) *Value {
	return &Value{kind: Bool, shape: []int{len(data)}, bools: data}
}

// VectorBytes returns a 1-D byte array.
func VectorBytes(data []byte) *Value {
	return &Value{kind: Bytes, shape: []int{len(data)}, bytes: data}
}

// Kind returns the element kind.
func (v *Value) Kind() Kind { return v.kind }

// Shape returns the shape. The caller must not modify it.
func (v *Value) Shape() []int { return v.shape }

// Rank returns the number of dimensions.
func (v *Value) Rank() int { return len(v.shape) }

// Len returns the number of elements.
func (v *Value) Len() int { return NumElements(v.shape) }

// F64s returns the float64 elements, or nil if v is not F64.
func (v *Value) F64s() []float64 { return v.f64 }

// I64s returns the int64 elements, or nil if v is not I64.
func (v *Value) I64s() []int64 { return v.i64 }

// Bools returns the boolean elements, or nil if v is not BOOL.
func (v *Value) Bools() []bool { return v.bools }

// Strings returns the string elements, or nil if v is not STRING.
func (v *Value) Strings() []string { return v.strs }

// Bytes returns the byte elements, or nil if v is not BYTES.
func (v *Value) Bytes() []byte { return v.bytes }

// Clone returns a deep copy of v.
func (v *Value) Clone() *Value {
	c := &Value{kind: v.kind, shape: copyShape(v.shape)}
	switch v.kind {
	case F64:
		c.f64 = append([]float64(nil), v.f64...)
	case I64:
		c.i64 = append([]int64(nil), v.i64...)
	case Bool:
		c.bools = append([]bool(nil), v.bools...)
	case String:
		c.strs = append([]string(nil), v.strs...)
	case Bytes:
		c.bytes = append([]byte(nil), v.bytes...)
	}
	return c
}

// Float64Slice returns the elements of a float64 array as a flat slice. It
// returns a TypeError for any other kind. No integer promotion takes place.
func (v *Value) Float64Slice() ([]float64, error) {
	if v.kind != F64 {
		return nil, status.Errorf(status.TypeError, "want an F64 array, got %v", v.kind)
	}
	return v.f64, nil
}

// ScalarFloat64 returns the single element of a one-element F64 or I64
// value as a float64. Parameters such as bounds and record counts are read
// this way.
func (v *Value) ScalarFloat64() (float64, error) {
	if v.Len() != 1 {
		return 0, status.Errorf(status.ShapeError, "want a scalar, got shape %v", v.shape)
	}
	switch v.kind {
	case F64:
		return v.f64[0], nil
	case I64:
		return float64(v.i64[0]), nil
	default:
		return 0, status.Errorf(status.TypeError, "want a numeric scalar, got %v", v.kind)
	}
}

// String returns a short human-readable rendering, e.g. "F64[3][1 2 3]".
func (v *Value) String() string {
	var b strings.Builder
	b.WriteString(v.kind.String())
	dims := make([]string, len(v.shape))
	for i, d := range v.shape {
		dims[i] = fmt.Sprint(d)
	}
	fmt.Fprintf(&b, "[%s]", strings.Join(dims, ","))
	switch v.kind {
	case F64:
		fmt.Fprintf(&b, "%v", v.f64)
	case I64:
		fmt.Fprintf(&b, "%v", v.i64)
	case Bool:
		fmt.Fprintf(&b, "%v", v.bools)
	case String:
		fmt.Fprintf(&b, "%q", v.strs)
	case Bytes:
		fmt.Fprintf(&b, "%v", v.bytes)
	}
	return b.String()
}

// Equal reports whether v and w have the same kind, shape and elements. NaN
// elements compare unequal, as with ==.
func (v *Value) Equal(w *Value) bool {
	if v == nil || w == nil {
		return v == w
	}
	if v.kind != w.kind || !slices.Equal(v.shape, w.shape) {
		return false
	}
	switch v.kind {
	case F64:
		return slices.Equal(v.f64, w.f64)
	case I64:
		return slices.Equal(v.i64, w.i64)
	case Bool:
		return slices.Equal(v.bools, w.bools)
	case String:
		return slices.Equal(v.strs, w.strs)
	case Bytes:
		return slices.Equal(v.bytes, w.bytes)
	}
	return false
}
