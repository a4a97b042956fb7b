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

package validator

import (
	"slices"

	"github.com/joshua-oss/yarrow/graph"
	"github.com/joshua-oss/yarrow/status"
	"golang.org/x/exp/maps"
)

// Visitation states of the cycle search.
const (
	White = iota // unvisited
	Gray         // on the current path
	Black        // finished
)

// Sinks returns the ids of the nodes no other node reads from, in ascending
// order.
func Sinks(g *graph.Graph) []uint32 {
	sinks := make(map[uint32]bool, g.Len())
	for _, id := range g.IDs() {
		sinks[id] = true
	}
	for _, n := range g.Nodes() {
		for _, f := range n.Arguments() {
			delete(sinks, f.SourceNodeID)
		}
	}
	ids := maps.Keys(sinks)
	slices.Sort(ids)
	return ids
}

// BackEdge is an argument edge that closes a cycle: Consumer reads from
// Source, and Source depends on Consumer.
type BackEdge struct {
	Consumer, Source uint32
}

// FindCycles searches g depth-first along argument edges, from consumer to
// source, starting at the sinks and then at every node not yet visited, both
// in ascending id order. It returns every back edge in discovery order. g is
// acyclic if and only if the result is empty. Dangling references are
// ignored.
func FindCycles(g *graph.Graph) []BackEdge {
	state := make(map[uint32]int, g.Len())
	var back []BackEdge
	var visit func(id uint32)
	visit = func(id uint32) {
		state[id] = Gray
		n, _ := g.Get(id)
		for _, src := range n.Sources() {
			if _, ok := g.Get(src); !ok {
				continue
			}
			switch state[src] {
			case White:
				visit(src)
			case Gray:
				back = append(back, BackEdge{Consumer: id, Source: src})
			}
		}
		state[id] = Black
	}
	for _, roots := range [][]uint32{Sinks(g), g.IDs()} {
		for _, id := range roots {
			if state[id] == White {
				visit(id)
			}
		}
	}
	return back
}

// Privatizers returns the release nodes of g: the privatizer nodes reached by
// a breadth-first search from the sinks along argument edges. The search
// does not continue past a privatizer, since its output is already public.
// The result is in ascending id order.
func Privatizers(g *graph.Graph) []uint32 {
	visited := make(map[uint32]bool, g.Len())
	queue := Sinks(g)
	for _, id := range queue {
		visited[id] = true
	}
	var found []uint32
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		n, ok := g.Get(id)
		if !ok {
			continue
		}
		if n.Kind.IsPrivatizer() {
			found = append(found, id)
			continue
		}
		for _, src := range n.Sources() {
			if !visited[src] {
				visited[src] = true
				queue = append(queue, src)
			}
		}
	}
	slices.Sort(found)
	return found
}

// Closure returns the ids the given roots transitively read from, the roots
// included. The search stops at ids for which stop returns true; those ids
// are included but their arguments are not followed. Ids missing from g are
// included as they are found.
func Closure(g *graph.Graph, roots []uint32, stop func(uint32) bool) map[uint32]bool {
	in := make(map[uint32]bool)
	stack := slices.Clone(roots)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if in[id] {
			continue
		}
		in[id] = true
		if stop != nil && stop(id) {
			continue
		}
		if n, ok := g.Get(id); ok {
			stack = append(stack, n.Sources()...)
		}
	}
	return in
}

// TopologicalOrder orders the ids in include so that every node comes after
// the included nodes it reads from. It uses Kahn's algorithm; among the nodes
// ready at each step, ingestion nodes come first and ties are broken by
// ascending id. Edges to ids outside include are ignored. It returns a
// GraphStructureError if the included nodes contain a cycle.
func TopologicalOrder(g *graph.Graph, include map[uint32]bool) ([]uint32, error) {
	indegree := make(map[uint32]int, len(include))
	consumers := make(map[uint32][]uint32)
	for id := range include {
		n, ok := g.Get(id)
		if !ok {
			continue
		}
		if _, ok := indegree[id]; !ok {
			indegree[id] = 0
		}
		for _, src := range n.Sources() {
			if _, ok := g.Get(src); !ok || !include[src] {
				continue
			}
			indegree[id]++
			consumers[src] = append(consumers[src], id)
		}
	}

	less := func(a, b uint32) bool {
		na, _ := g.Get(a)
		nb, _ := g.Get(b)
		if ia, ib := na.Kind.IsIngestion(), nb.Kind.IsIngestion(); ia != ib {
			return ia
		}
		return a < b
	}
	var ready []uint32
	for id, d := range indegree {
		if d == 0 {
			ready = append(ready, id)
		}
	}
	order := make([]uint32, 0, len(indegree))
	for len(ready) > 0 {
		best := 0
		for i := range ready {
			if less(ready[i], ready[best]) {
				best = i
			}
		}
		id := ready[best]
		ready = slices.Delete(ready, best, best+1)
		order = append(order, id)
		for _, c := range consumers[id] {
			indegree[c]--
			if indegree[c] == 0 {
				ready = append(ready, c)
			}
		}
	}
	if len(order) != len(indegree) {
		return nil, status.Errorf(status.GraphStructureError, "graph has a cycle, ordered %d of %d nodes", len(order), len(indegree))
	}
	return order, nil
}
