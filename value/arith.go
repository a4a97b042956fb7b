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
	"slices"

	"github.com/joshua-oss/yarrow/status"
	"gonum.org/v1/gonum/floats"
)

// Unknown marks a dimension whose size is not known statically. BroadcastShapes
// treats it as a wildcard.
const Unknown = -1

// BroadcastShapes returns the shape that a and b broadcast to. Shapes are
// aligned on their trailing dimensions; two dimensions are compatible if they
// are equal or one of them is 1. Unknown dimensions match anything.
func BroadcastShapes(a, b []int) ([]int, error) {
	n := max(len(a), len(b))
	out := make([]int, n)
	for i := 1; i <= n; i++ {
		da, db := 1, 1
		if i <= len(a) {
			da = a[len(a)-i]
		}
		if i <= len(b) {
			db = b[len(b)-i]
		}
		switch {
		case da == db:
			out[n-i] = da
		case da == 1:
			out[n-i] = db
		case db == 1:
			out[n-i] = da
		case da == Unknown:
			out[n-i] = db
		case db == Unknown:
			out[n-i] = da
		default:
			return nil, status.Errorf(status.ShapeError, "shapes %v and %v are not broadcastable", a, b)
		}
	}
	return out, nil
}

// sourceIndices maps every flat index of an array of shape out to the flat
// index of the element of an array of shape in that broadcasts onto it.
func sourceIndices(in, out []int) []int {
	strides := make([]int, len(out))
	stride := 1
	for i := len(in) - 1; i >= 0; i-- {
		j := i + len(out) - len(in)
		if in[i] != 1 {
			strides[j] = stride
		}
		stride *= in[i]
	}
	idx := make([]int, NumElements(out))
	counter := make([]int, len(out))
	for k := range idx {
		off := 0
		for d, c := range counter {
			off += c * strides[d]
		}
		idx[k] = off
		for d := len(out) - 1; d >= 0; d-- {
			counter[d]++
			if counter[d] < out[d] {
				break
			}
			counter[d] = 0
		}
	}
	return idx
}

func broadcastApply[T any](a, b []T, sa, sb, out []int, f func(x, y T) (T, error)) ([]T, error) {
	ia, ib := sourceIndices(sa, out), sourceIndices(sb, out)
	res := make([]T, len(ia))
	for k := range res {
		r, err := f(a[ia[k]], b[ib[k]])
		if err != nil {
			return nil, err
		}
		res[k] = r
	}
	return res, nil
}

type binaryOp int

const (
	opAdd binaryOp = iota
	opSub
	opMul
	opDiv
	opPow
)

func (o binaryOp) String() string {
	return [...]string{"Add", "Subtract", "Multiply", "Divide", "Power"}[o]
}

// Add returns a + b elementwise.
func Add(a, b *Value) (*Value, error) { return apply(opAdd, a, b) }

// Sub returns a - b elementwise.
func Sub(a, b *Value) (*Value, error) { return apply(opSub, a, b) }

// Mul returns a * b elementwise.
func Mul(a, b *Value) (*Value, error) { return apply(opMul, a, b) }

// Div returns a / b elementwise. Integer division truncates toward zero and
// returns a DomainError on a zero divisor. Float division follows IEEE 754.
func Div(a, b *Value) (*Value, error) { return apply(opDiv, a, b) }

// Pow returns a raised to the power b elementwise. A negative integer
// exponent is a DomainError.
func Pow(a, b *Value) (*Value, error) { return apply(opPow, a, b) }

func apply(op binaryOp, a, b *Value) (*Value, error) {
	if !a.kind.IsNumeric() || !b.kind.IsNumeric() {
		return nil, status.Errorf(status.TypeError, "%v is not defined on %v and %v", op, a.kind, b.kind)
	}
	if a.kind != b.kind {
		return nil, status.Errorf(status.TypeError, "%v operands have different element types %v and %v", op, a.kind, b.kind)
	}
	out, err := BroadcastShapes(a.shape, b.shape)
	if err != nil {
		return nil, err
	}
	if a.kind == F64 {
		res, err := applyF64(op, a, b, out)
		if err != nil {
			return nil, err
		}
		return &Value{kind: F64, shape: out, f64: res}, nil
	}
	res, err := broadcastApply(a.i64, b.i64, a.shape, b.shape, out, i64Func(op))
	if err != nil {
		return nil, err
	}
	return &Value{kind: I64, shape: out, i64: res}, nil
}

func applyF64(op binaryOp, a, b *Value, out []int) ([]float64, error) {
	if op != opPow && slices.Equal(a.shape, b.shape) {
		dst := make([]float64, len(a.f64))
		switch op {
		case opAdd:
			floats.AddTo(dst, a.f64, b.f64)
		case opSub:
			floats.SubTo(dst, a.f64, b.f64)
		case opMul:
			floats.MulTo(dst, a.f64, b.f64)
		case opDiv:
			floats.DivTo(dst, a.f64, b.f64)
		}
		return dst, nil
	}
	return broadcastApply(a.f64, b.f64, a.shape, b.shape, out, f64Func(op))
}

func f64Func(op binaryOp) func(x, y float64) (float64, error) {
	switch op {
	case opAdd:
		return func(x, y float64) (float64, error) { return x + y, nil }
	case opSub:
		return func(x, y float64) (float64, error) { return x - y, nil }
	case opMul:
		return func(x, y float64) (float64, error) { return x * y, nil }
	case opDiv:
		return func(x, y float64) (float64, error) { return x / y, nil }
	default:
		return func(x, y float64) (float64, error) { return math.Pow(x, y), nil }
	}
}

func i64Func(op binaryOp) func(x, y int64) (int64, error) {
	switch op {
	case opAdd:
		return func(x, y int64) (int64, error) { return x + y, nil }
	case opSub:
		return func(x, y int64) (int64, error) { return x - y, nil }
	case opMul:
		return func(x, y int64) (int64, error) { return x * y, nil }
	case opDiv:
		return func(x, y int64) (int64, error) {
			if y == 0 {
				return 0, status.Errorf(status.DomainError, "integer division by zero")
			}
			return x / y, nil
		}
	default:
		return powInt64
	}
}

// powInt64 computes x^y by repeated squaring. Overflow wraps.
func powInt64(x, y int64) (int64, error) {
	if y < 0 {
		return 0, status.Errorf(status.DomainError, "negative integer exponent %d", y)
	}
	r := int64(1)
	for y > 0 {
		if y&1 == 1 {
			r *= x
		}
		x *= x
		y >>= 1
	}
	return r, nil
}

// Negate returns -a elementwise.
func Negate(a *Value) (*Value, error) {
	switch a.kind {
	case F64:
		dst := append([]float64(nil), a.f64...)
		floats.Scale(-1, dst)
		return &Value{kind: F64, shape: copyShape(a.shape), f64: dst}, nil
	case I64:
		dst := make([]int64, len(a.i64))
		for i, x := range a.i64 {
			dst[i] = -x
		}
		return &Value{kind: I64, shape: copyShape(a.shape), i64: dst}, nil
	default:
		return nil, status.Errorf(status.TypeError, "Negate is not defined on %v", a.kind)
	}
}
