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

// Package codec encodes analyses, datasets and releases in the protocol
// buffer wire format.
//
// The messages and their field numbers are:
//
//	Value         { Kind type = 1; repeated int64 shape = 2; repeated double f64 = 3;
//	                repeated int64 i64 = 4; repeated bool bool = 5;
//	                repeated string string = 6; bytes bytes = 7; }
//	Field         { uint32 source_node_id = 1; string source_field = 2; }
//	Params        { Mechanism mechanism = 1; double epsilon = 2; int64 order = 3;
//	                double delta = 4; int64 num_bins = 5; bool inclusive_left = 6;
//	                Value value = 7; string table_id = 8; string column_id = 9; }
//	Component     { map<string, Field> arguments = 1;
//	                oneof kind { Params literal = 10; ... Params dp_histogram = 22; } }
//	Analysis      { map<uint32, Component> graph = 1; }
//	Table         { oneof value { string file_path = 1; Value literal = 2; }
//	                string column = 3; Kind element_type = 4; }
//	Dataset       { map<string, Table> tables = 1; }
//	Release       { map<uint32, Value> values = 1; }
//	Validated     { bool ok = 1; repeated string errors = 2; }
//	Sensitivities { map<uint32, double> values = 1; }
//
// The kind field of a Component is 10 plus the graph.Kind of the node.
// Encoding is deterministic: map entries are written in ascending key order.
// Unknown fields are skipped when decoding. Every decoding failure is a
// status.SchemaError.
package codec

import (
	"math"

	"github.com/joshua-oss/yarrow/status"
	"google.golang.org/protobuf/encoding/protowire"
)

// field is one decoded field of a message.
type field struct {
	num protowire.Number
	typ protowire.Type
	// u holds the value of varint and fixed64 fields.
	u uint64
	// b holds the contents of length-delimited fields.
	b []byte
}

// parse splits a message into its fields, in wire order.
func parse(msg string, b []byte) ([]field, error) {
	var fs []field
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, wireError(msg, n)
		}
		b = b[n:]
		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.u, n = protowire.ConsumeVarint(b)
		case protowire.Fixed64Type:
			f.u, n = protowire.ConsumeFixed64(b)
		case protowire.BytesType:
			f.b, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return nil, wireError(msg, n)
		}
		b = b[n:]
		fs = append(fs, f)
	}
	return fs, nil
}

func wireError(msg string, n int) error {
	return status.Errorf(status.SchemaError, "%s: %w", msg, protowire.ParseError(n))
}

func (f field) expect(msg string, typ protowire.Type) error {
	if f.typ != typ {
		return status.Errorf(status.SchemaError, "%s: field %d has wire type %d, want %d", msg, f.num, f.typ, typ)
	}
	return nil
}

func (f field) float64(msg string) (float64, error) {
	if err := f.expect(msg, protowire.Fixed64Type); err != nil {
		return 0, err
	}
	return math.Float64frombits(f.u), nil
}

// varints returns the values of a repeated varint field, packed or not.
func (f field) varints(msg string) ([]uint64, error) {
	switch f.typ {
	case protowire.VarintType:
		return []uint64{f.u}, nil
	case protowire.BytesType:
		var out []uint64
		for b := f.b; len(b) > 0; {
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, wireError(msg, n)
			}
			out = append(out, v)
			b = b[n:]
		}
		return out, nil
	}
	return nil, f.expect(msg, protowire.BytesType)
}

// fixed64s returns the values of a repeated fixed64 field, packed or not.
func (f field) fixed64s(msg string) ([]uint64, error) {
	switch f.typ {
	case protowire.Fixed64Type:
		return []uint64{f.u}, nil
	case protowire.BytesType:
		var out []uint64
		for b := f.b; len(b) > 0; {
			v, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return nil, wireError(msg, n)
			}
			out = append(out, v)
			b = b[n:]
		}
		return out, nil
	}
	return nil, f.expect(msg, protowire.BytesType)
}

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendDoubleField(b []byte, num protowire.Number, x float64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(x))
}

func appendStringField(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendMessageField(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

// mapEntry is a decoded map entry: key is field 1 and value is field 2.
type mapEntry struct {
	key, value field
	hasValue   bool
}

func parseEntry(msg string, b []byte) (mapEntry, error) {
	fs, err := parse(msg, b)
	if err != nil {
		return mapEntry{}, err
	}
	var e mapEntry
	for _, f := range fs {
		switch f.num {
		case 1:
			e.key = f
		case 2:
			e.value, e.hasValue = f, true
		}
	}
	return e, nil
}

// uint32Key returns the key of a map entry keyed by uint32.
func (e mapEntry) uint32Key(msg string) (uint32, error) {
	if e.key.num == 0 {
		return 0, nil
	}
	if err := e.key.expect(msg, protowire.VarintType); err != nil {
		return 0, err
	}
	if e.key.u > math.MaxUint32 {
		return 0, status.Errorf(status.SchemaError, "%s: key %d overflows uint32", msg, e.key.u)
	}
	return uint32(e.key.u), nil
}

// stringKey returns the key of a map entry keyed by string.
func (e mapEntry) stringKey(msg string) (string, error) {
	if e.key.num == 0 {
		return "", nil
	}
	if err := e.key.expect(msg, protowire.BytesType); err != nil {
		return "", err
	}
	return string(e.key.b), nil
}
