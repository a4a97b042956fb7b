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

package codec

import (
	"math"

	"github.com/joshua-oss/yarrow/status"
	"github.com/joshua-oss/yarrow/value"
	"google.golang.org/protobuf/encoding/protowire"
)

// EncodeValue returns the wire encoding of v. Repeated scalar fields are
// packed.
func EncodeValue(v *value.Value) []byte {
	var b []byte
	if v.Kind() != value.F64 {
		b = appendVarintField(b, 1, uint64(v.Kind()))
	}
	if len(v.Shape()) > 0 {
		var packed []byte
		for _, d := range v.Shape() {
			packed = protowire.AppendVarint(packed, uint64(int64(d)))
		}
		b = appendMessageField(b, 2, packed)
	}
	switch v.Kind() {
	case value.F64:
		var packed []byte
		for _, x := range v.F64s() {
			packed = protowire.AppendFixed64(packed, math.Float64bits(x))
		}
		b = appendMessageField(b, 3, packed)
	case value.I64:
		var packed []byte
		for _, x := range v.I64s() {
			packed = protowire.AppendVarint(packed, uint64(x))
		}
		b = appendMessageField(b, 4, packed)
	case value.Bool:
		var packed []byte
		for _, x := range v.Bools() {
			packed = protowire.AppendVarint(packed, protowire.EncodeBool(x))
		}
		b = appendMessageField(b, 5, packed)
	case value.String:
		for _, s := range v.Strings() {
			b = appendStringField(b, 6, s)
		}
	case value.Bytes:
		b = appendMessageField(b, 7, v.Bytes())
	}
	return b
}

// DecodeValue decodes a Value message.
func DecodeValue(b []byte) (*value.Value, error) {
	const msg = "Value"
	fs, err := parse(msg, b)
	if err != nil {
		return nil, err
	}
	kind := value.F64
	var (
		shape []int
		f64   []float64
		i64   []int64
		bools []bool
		strs  []string
		bytes []byte
	)
	for _, f := range fs {
		switch f.num {
		case 1:
			if err := f.expect(msg, protowire.VarintType); err != nil {
				return nil, err
			}
			kind = value.Kind(int32(f.u))
		case 2:
			us, err := f.varints(msg)
			if err != nil {
				return nil, err
			}
			for _, u := range us {
				d := int64(u)
				if d < 0 || d > math.MaxInt32 {
					return nil, status.Errorf(status.SchemaError, "%s: dimension %d out of range", msg, d)
				}
				shape = append(shape, int(d))
			}
		case 3:
			us, err := f.fixed64s(msg)
			if err != nil {
				return nil, err
			}
			for _, u := range us {
				f64 = append(f64, math.Float64frombits(u))
			}
		case 4:
			us, err := f.varints(msg)
			if err != nil {
				return nil, err
			}
			for _, u := range us {
				i64 = append(i64, int64(u))
			}
		case 5:
			us, err := f.varints(msg)
			if err != nil {
				return nil, err
			}
			for _, u := range us {
				bools = append(bools, protowire.DecodeBool(u))
			}
		case 6:
			if err := f.expect(msg, protowire.BytesType); err != nil {
				return nil, err
			}
			strs = append(strs, string(f.b))
		case 7:
			if err := f.expect(msg, protowire.BytesType); err != nil {
				return nil, err
			}
			bytes = append(bytes, f.b...)
		}
	}

	var v *value.Value
	switch kind {
	case value.F64:
		v, err = value.NewF64(shape, f64)
	case value.I64:
		v, err = value.NewI64(shape, i64)
	case value.Bool:
		v, err = value.NewBool(shape, bools)
	case value.String:
		v, err = value.NewString(shape, strs)
	case value.Bytes:
		v, err = value.NewBytes(shape, bytes)
	default:
		return nil, status.Errorf(status.SchemaError, "%s: unknown element type %d", msg, int32(kind))
	}
	if err != nil {
		return nil, status.Errorf(status.SchemaError, "%s: %w", msg, err)
	}
	return v, nil
}
