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
	"slices"

	"github.com/joshua-oss/yarrow/dataset"
	"github.com/joshua-oss/yarrow/release"
	"github.com/joshua-oss/yarrow/status"
	"github.com/joshua-oss/yarrow/validator"
	"github.com/joshua-oss/yarrow/value"
	"golang.org/x/exp/maps"
	"google.golang.org/protobuf/encoding/protowire"
)

// EncodeTable returns the wire encoding of a Table message.
func EncodeTable(t *dataset.Table) []byte {
	var b []byte
	if t.FilePath != "" {
		b = appendStringField(b, 1, t.FilePath)
	}
	if t.Literal != nil {
		b = appendMessageField(b, 2, EncodeValue(t.Literal))
	}
	if t.Column != "" {
		b = appendStringField(b, 3, t.Column)
	}
	if t.ElementType != value.F64 {
		b = appendVarintField(b, 4, uint64(t.ElementType))
	}
	return b
}

// DecodeTable decodes a Table message.
func DecodeTable(b []byte) (*dataset.Table, error) {
	const msg = "Table"
	fs, err := parse(msg, b)
	if err != nil {
		return nil, err
	}
	t := &dataset.Table{}
	for _, f := range fs {
		switch f.num {
		case 1:
			if err := f.expect(msg, protowire.BytesType); err != nil {
				return nil, err
			}
			t.FilePath, t.Literal = string(f.b), nil
		case 2:
			if err := f.expect(msg, protowire.BytesType); err != nil {
				return nil, err
			}
			if t.Literal, err = DecodeValue(f.b); err != nil {
				return nil, err
			}
			t.FilePath = ""
		case 3:
			if err := f.expect(msg, protowire.BytesType); err != nil {
				return nil, err
			}
			t.Column = string(f.b)
		case 4:
			if err := f.expect(msg, protowire.VarintType); err != nil {
				return nil, err
			}
			k := value.Kind(int32(f.u))
			if k < value.F64 || k > value.Bytes {
				return nil, status.Errorf(status.SchemaError, "%s: unknown element type %d", msg, int32(k))
			}
			t.ElementType = k
		}
	}
	return t, nil
}

// EncodeDataset returns the wire encoding of a Dataset message.
func EncodeDataset(ds *dataset.Dataset) []byte {
	var b []byte
	ids := maps.Keys(ds.Tables)
	slices.Sort(ids)
	for _, id := range ids {
		var entry []byte
		entry = appendStringField(entry, 1, id)
		entry = appendMessageField(entry, 2, EncodeTable(ds.Tables[id]))
		b = appendMessageField(b, 1, entry)
	}
	return b
}

// DecodeDataset decodes a Dataset message.
func DecodeDataset(b []byte) (*dataset.Dataset, error) {
	const msg = "Dataset"
	fs, err := parse(msg, b)
	if err != nil {
		return nil, err
	}
	ds := &dataset.Dataset{Tables: make(map[string]*dataset.Table)}
	for _, f := range fs {
		if f.num != 1 {
			continue
		}
		e, err := entryOf(msg+".tables", f)
		if err != nil {
			return nil, err
		}
		id, err := e.stringKey(msg + ".tables")
		if err != nil {
			return nil, err
		}
		t := &dataset.Table{}
		if e.hasValue {
			if t, err = DecodeTable(e.value.b); err != nil {
				return nil, err
			}
		}
		ds.Tables[id] = t
	}
	return ds, nil
}

// entryOf parses the map entry held by f and checks that its value, if any,
// is length-delimited.
func entryOf(msg string, f field) (mapEntry, error) {
	if err := f.expect(msg, protowire.BytesType); err != nil {
		return mapEntry{}, err
	}
	e, err := parseEntry(msg, f.b)
	if err != nil {
		return mapEntry{}, err
	}
	if e.hasValue {
		if err := e.value.expect(msg, protowire.BytesType); err != nil {
			return mapEntry{}, err
		}
	}
	return e, nil
}

// EncodeRelease returns the wire encoding of a Release message.
func EncodeRelease(r release.Release) []byte {
	var b []byte
	for _, id := range r.IDs() {
		var entry []byte
		entry = appendVarintField(entry, 1, uint64(id))
		entry = appendMessageField(entry, 2, EncodeValue(r[id]))
		b = appendMessageField(b, 1, entry)
	}
	return b
}

// DecodeRelease decodes a Release message. Empty input decodes to an empty
// release.
func DecodeRelease(b []byte) (release.Release, error) {
	const msg = "Release"
	fs, err := parse(msg, b)
	if err != nil {
		return nil, err
	}
	r := make(release.Release)
	for _, f := range fs {
		if f.num != 1 {
			continue
		}
		e, err := entryOf(msg+".values", f)
		if err != nil {
			return nil, err
		}
		id, err := e.uint32Key(msg + ".values")
		if err != nil {
			return nil, err
		}
		if !e.hasValue {
			return nil, status.Errorf(status.SchemaError, "%s: node %d has no value", msg, id)
		}
		v, err := DecodeValue(e.value.b)
		if err != nil {
			return nil, err
		}
		r[id] = v
	}
	return r, nil
}

// EncodeValidated returns the wire encoding of a Validated message.
func EncodeValidated(v *validator.Validated) []byte {
	var b []byte
	if v.OK {
		b = appendVarintField(b, 1, protowire.EncodeBool(true))
	}
	for _, e := range v.Errors {
		b = appendStringField(b, 2, e)
	}
	return b
}

// DecodeValidated decodes a Validated message. Only OK and Errors are
// carried on the wire.
func DecodeValidated(b []byte) (*validator.Validated, error) {
	const msg = "Validated"
	fs, err := parse(msg, b)
	if err != nil {
		return nil, err
	}
	v := &validator.Validated{}
	for _, f := range fs {
		switch f.num {
		case 1:
			if err := f.expect(msg, protowire.VarintType); err != nil {
				return nil, err
			}
			v.OK = protowire.DecodeBool(f.u)
		case 2:
			if err := f.expect(msg, protowire.BytesType); err != nil {
				return nil, err
			}
			v.Errors = append(v.Errors, string(f.b))
		}
	}
	return v, nil
}

// EncodeSensitivities returns the wire encoding of a Sensitivities message.
func EncodeSensitivities(s map[uint32]float64) []byte {
	var b []byte
	ids := maps.Keys(s)
	slices.Sort(ids)
	for _, id := range ids {
		var entry []byte
		entry = appendVarintField(entry, 1, uint64(id))
		entry = appendDoubleField(entry, 2, s[id])
		b = appendMessageField(b, 1, entry)
	}
	return b
}

// DecodeSensitivities decodes a Sensitivities message.
func DecodeSensitivities(b []byte) (map[uint32]float64, error) {
	const msg = "Sensitivities"
	fs, err := parse(msg, b)
	if err != nil {
		return nil, err
	}
	s := make(map[uint32]float64)
	for _, f := range fs {
		if f.num != 1 {
			continue
		}
		if err := f.expect(msg, protowire.BytesType); err != nil {
			return nil, err
		}
		e, err := parseEntry(msg+".values", f.b)
		if err != nil {
			return nil, err
		}
		id, err := e.uint32Key(msg + ".values")
		if err != nil {
			return nil, err
		}
		var x float64
		if e.hasValue {
			if x, err = e.value.float64(msg + ".values"); err != nil {
				return nil, err
			}
		}
		s[id] = x
	}
	return s, nil
}
