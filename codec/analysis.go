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

	"github.com/joshua-oss/yarrow/graph"
	"github.com/joshua-oss/yarrow/noise"
	"github.com/joshua-oss/yarrow/status"
	"google.golang.org/protobuf/encoding/protowire"
)

// kindFieldBase is the field number of the Literal member of the Component
// oneof. The member of kind k has field number kindFieldBase + k.
const kindFieldBase = 10

// EncodeField returns the wire encoding of a Field message.
func EncodeField(f graph.Field) []byte {
	var b []byte
	if f.SourceNodeID != 0 {
		b = appendVarintField(b, 1, uint64(f.SourceNodeID))
	}
	if f.SourceField != "" {
		b = appendStringField(b, 2, f.SourceField)
	}
	return b
}

// DecodeField decodes a Field message.
func DecodeField(b []byte) (graph.Field, error) {
	const msg = "Field"
	fs, err := parse(msg, b)
	if err != nil {
		return graph.Field{}, err
	}
	var out graph.Field
	for _, f := range fs {
		switch f.num {
		case 1:
			if err := f.expect(msg, protowire.VarintType); err != nil {
				return graph.Field{}, err
			}
			if f.u > math.MaxUint32 {
				return graph.Field{}, status.Errorf(status.SchemaError, "%s: source_node_id %d overflows uint32", msg, f.u)
			}
			out.SourceNodeID = uint32(f.u)
		case 2:
			if err := f.expect(msg, protowire.BytesType); err != nil {
				return graph.Field{}, err
			}
			out.SourceField = string(f.b)
		}
	}
	return out, nil
}

func encodeParams(k graph.Kind, p graph.Params) []byte {
	var b []byte
	switch {
	case k == graph.Literal:
		if p.Value != nil {
			b = appendMessageField(b, 7, EncodeValue(p.Value))
		}
	case k == graph.DataSource:
		b = appendStringField(b, 8, p.TableID)
		if p.ColumnID != "" {
			b = appendStringField(b, 9, p.ColumnID)
		}
	case k.IsPrivatizer():
		if p.Mechanism != noise.LaplaceMechanism {
			b = appendVarintField(b, 1, uint64(p.Mechanism))
		}
		b = appendDoubleField(b, 2, p.Epsilon)
		switch k {
		case graph.DpMomentRaw:
			b = appendVarintField(b, 3, uint64(p.Order))
		case graph.DpHistogram:
			if p.Delta != 0 {
				b = appendDoubleField(b, 4, p.Delta)
			}
			b = appendVarintField(b, 5, uint64(p.NumBins))
			if p.InclusiveLeft {
				b = appendVarintField(b, 6, protowire.EncodeBool(true))
			}
		}
	}
	return b
}

func decodeParams(b []byte) (graph.Params, error) {
	const msg = "Params"
	fs, err := parse(msg, b)
	if err != nil {
		return graph.Params{}, err
	}
	var p graph.Params
	for _, f := range fs {
		switch f.num {
		case 1, 3, 5, 6:
			if err := f.expect(msg, protowire.VarintType); err != nil {
				return graph.Params{}, err
			}
		case 2, 4:
			if err := f.expect(msg, protowire.Fixed64Type); err != nil {
				return graph.Params{}, err
			}
		case 7, 8, 9:
			if err := f.expect(msg, protowire.BytesType); err != nil {
				return graph.Params{}, err
			}
		}
		switch f.num {
		case 1:
			p.Mechanism = noise.Mechanism(int32(f.u))
		case 2:
			p.Epsilon = math.Float64frombits(f.u)
		case 3:
			p.Order = int64(f.u)
		case 4:
			p.Delta = math.Float64frombits(f.u)
		case 5:
			p.NumBins = int64(f.u)
		case 6:
			p.InclusiveLeft = protowire.DecodeBool(f.u)
		case 7:
			if p.Value, err = DecodeValue(f.b); err != nil {
				return graph.Params{}, err
			}
		case 8:
			p.TableID = string(f.b)
		case 9:
			p.ColumnID = string(f.b)
		}
	}
	return p, nil
}

// EncodeComponent returns the wire encoding of n as a Component message. The
// node id is not part of the message; it is the key of the Analysis map.
func EncodeComponent(n *graph.Node) []byte {
	var b []byte
	for _, name := range n.ArgumentNames() {
		f, _ := n.Argument(name)
		var entry []byte
		entry = appendStringField(entry, 1, name)
		entry = appendMessageField(entry, 2, EncodeField(f))
		b = appendMessageField(b, 1, entry)
	}
	return appendMessageField(b, protowire.Number(kindFieldBase+int32(n.Kind)), encodeParams(n.Kind, n.Params))
}

// DecodeComponent decodes a Component message into the node with the given id.
func DecodeComponent(id uint32, b []byte) (*graph.Node, error) {
	const msg = "Component"
	fs, err := parse(msg, b)
	if err != nil {
		return nil, err
	}
	args := make(map[string]graph.Field)
	var (
		kind    graph.Kind
		params  graph.Params
		hasKind bool
	)
	for _, f := range fs {
		switch {
		case f.num == 1:
			e, err := entryOf(msg+".arguments", f)
			if err != nil {
				return nil, err
			}
			name, err := e.stringKey(msg + ".arguments")
			if err != nil {
				return nil, err
			}
			var arg graph.Field
			if e.hasValue {
				if arg, err = DecodeField(e.value.b); err != nil {
					return nil, err
				}
			}
			args[name] = arg
		case f.num >= kindFieldBase && f.num < kindFieldBase+graph.NumKinds:
			if hasKind {
				return nil, status.Errorf(status.SchemaError, "%s %d: more than one kind is set", msg, id)
			}
			if err := f.expect(msg, protowire.BytesType); err != nil {
				return nil, err
			}
			kind, hasKind = graph.Kind(f.num-kindFieldBase), true
			if params, err = decodeParams(f.b); err != nil {
				return nil, err
			}
		}
	}
	if !hasKind {
		return nil, status.Errorf(status.SchemaError, "%s %d: no kind is set", msg, id)
	}
	return graph.New(id, kind, args, params), nil
}

// EncodeAnalysis returns the wire encoding of g as an Analysis message.
func EncodeAnalysis(g *graph.Graph) []byte {
	var b []byte
	for _, n := range g.Nodes() {
		var entry []byte
		entry = appendVarintField(entry, 1, uint64(n.ID))
		entry = appendMessageField(entry, 2, EncodeComponent(n))
		b = appendMessageField(b, 1, entry)
	}
	return b
}

// DecodeAnalysis decodes an Analysis message. A node id that appears twice is
// a SchemaError.
func DecodeAnalysis(b []byte) (*graph.Graph, error) {
	const msg = "Analysis"
	fs, err := parse(msg, b)
	if err != nil {
		return nil, err
	}
	g, _ := graph.NewGraph()
	for _, f := range fs {
		if f.num != 1 {
			continue
		}
		e, err := entryOf(msg+".graph", f)
		if err != nil {
			return nil, err
		}
		id, err := e.uint32Key(msg + ".graph")
		if err != nil {
			return nil, err
		}
		if !e.hasValue {
			return nil, status.Errorf(status.SchemaError, "%s: node %d has no component", msg, id)
		}
		n, err := DecodeComponent(id, e.value.b)
		if err != nil {
			return nil, err
		}
		if err := g.Add(n); err != nil {
			return nil, status.Errorf(status.SchemaError, "%s: %s", msg, err)
		}
	}
	return g, nil
}
