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

// Package graph models an analysis: a directed acyclic graph of computation
// nodes connected by named argument edges.
//
// Edges are stored by id on the consuming node. A node never holds a pointer
// to another node, so a malformed (cyclic or dangling) graph can be built and
// handed to the validator.
package graph

import (
	"fmt"
	"slices"

	"github.com/joshua-oss/yarrow/noise"
	"github.com/joshua-oss/yarrow/status"
	"github.com/joshua-oss/yarrow/value"
	"golang.org/x/exp/maps"
)

// DefaultField is the output name every node produces.
const DefaultField = "data"

// Field references an output of another node.
type Field struct {
	SourceNodeID uint32
	SourceField  string
}

// From returns a reference to the default output of node id.
func From(id uint32) Field {
	return Field{SourceNodeID: id, SourceField: DefaultField}
}

// Params holds the static parameters of a node. Only the fields relevant to
// the node's kind are meaningful.
type Params struct {
	// Literal.
	Value *value.Value

	// DataSource. ColumnID, if set, overrides the column of the table.
	TableID  string
	ColumnID string

	// Privatizers.
	Mechanism noise.Mechanism
	Epsilon   float64

	// DpMomentRaw.
	Order int64

	// DpHistogram. A zero Delta selects the Laplace histogram, a nonzero Delta
	// the stability-based histogram.
	Delta         float64
	NumBins       int64
	InclusiveLeft bool
}

// Node is one computation unit of an analysis.
type Node struct {
	ID     uint32
	Kind   Kind
	Params Params

	args map[string]Field
}

// New returns a node of any kind with the given arguments. The arguments are
// not checked against the kind's signature; see package validator.
func New(id uint32, kind Kind, args map[string]Field, params Params) *Node {
	a := make(map[string]Field, len(args))
	for name, f := range args {
		a[name] = f
	}
	return &Node{ID: id, Kind: kind, Params: params, args: a}
}

// Arguments returns the named argument edges of n. The caller must not modify
// the result.
func (n *Node) Arguments() map[string]Field {
	return n.args
}

// Argument returns the named argument edge.
func (n *Node) Argument(name string) (Field, bool) {
	f, ok := n.args[name]
	return f, ok
}

// ArgumentNames returns the argument names of n in ascending order.
func (n *Node) ArgumentNames() []string {
	names := maps.Keys(n.args)
	slices.Sort(names)
	return names
}

// Sources returns the distinct ids n reads from, in ascending order.
func (n *Node) Sources() []uint32 {
	seen := make(map[uint32]bool, len(n.args))
	for _, f := range n.args {
		seen[f.SourceNodeID] = true
	}
	ids := maps.Keys(seen)
	slices.Sort(ids)
	return ids
}

func (n *Node) String() string {
	return fmt.Sprintf("%v(%d)", n.Kind, n.ID)
}

// Graph maps node ids to nodes.
type Graph struct {
	nodes map[uint32]*Node
}

// NewGraph returns a graph holding the given nodes. It returns a
// GraphStructureError if two nodes share an id.
func NewGraph(nodes ...*Node) (*Graph, error) {
	g := &Graph{nodes: make(map[uint32]*Node, len(nodes))}
	for _, n := range nodes {
		if err := g.Add(n); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Add inserts n. It returns a GraphStructureError if a node with the same id
// already exists.
func (g *Graph) Add(n *Node) error {
	if g.nodes == nil {
		g.nodes = make(map[uint32]*Node)
	}
	if _, ok := g.nodes[n.ID]; ok {
		return status.Errorf(status.GraphStructureError, "duplicate node id %d", n.ID)
	}
	g.nodes[n.ID] = n
	return nil
}

// Get returns the node with the given id.
func (g *Graph) Get(id uint32) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// IDs returns the node ids in ascending order.
func (g *Graph) IDs() []uint32 {
	ids := maps.Keys(g.nodes)
	slices.Sort(ids)
	return ids
}

// Nodes returns the nodes in ascending id order.
func (g *Graph) Nodes() []*Node {
	ids := g.IDs()
	nodes := make([]*Node, len(ids))
	for i, id := range ids {
		nodes[i] = g.nodes[id]
	}
	return nodes
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Consumers returns, for every node id, the ids of the nodes that read from
// it, in ascending order. Dangling sources appear as keys too.
func (g *Graph) Consumers() map[uint32][]uint32 {
	out := make(map[uint32][]uint32)
	for _, n := range g.Nodes() {
		for _, src := range n.Sources() {
			out[src] = append(out[src], n.ID)
		}
	}
	return out
}
