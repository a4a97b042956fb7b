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

// Package validator statically checks an analysis before it is evaluated.
//
// The validator never stops at the first problem: every structural and
// per-node error is collected. Structural errors (cycles) come first in the
// order they are discovered, followed by per-node errors in ascending node id
// order.
package validator

import (
	"math"

	log "github.com/golang/glog"
	"github.com/joshua-oss/yarrow/checks"
	"github.com/joshua-oss/yarrow/dataset"
	"github.com/joshua-oss/yarrow/graph"
	"github.com/joshua-oss/yarrow/noise"
	"github.com/joshua-oss/yarrow/release"
	"github.com/joshua-oss/yarrow/status"
	"github.com/joshua-oss/yarrow/value"
)

// Validated is the result of validating an analysis.
type Validated struct {
	// OK is set if and only if Errors is empty.
	OK     bool
	Errors []string
	// Issues holds the errors behind Errors, in the same order.
	Issues []*status.Error
	// ReleaseNodes are the privatizers whose outputs the analysis releases.
	ReleaseNodes []uint32
	// Order is a topological order of the whole graph. It is empty if the
	// graph has a cycle.
	Order []uint32
}

func (v *Validated) add(err *status.Error) {
	v.Issues = append(v.Issues, err)
	v.Errors = append(v.Errors, err.Error())
}

func (v *Validated) addAt(id uint32, kind status.Kind, format string, args ...any) {
	e := status.Errorf(kind, format, args...)
	e.Node, e.HasNode = id, true
	v.add(e)
}

// Validate checks g for acyclicity, closure, arity, element types, shape
// conformability and parameter domains. releaseIn holds values already
// disclosed; they count as statically known. ds may be nil, in which case the
// types of DataSource outputs are unknown and unchecked.
func Validate(g *graph.Graph, releaseIn release.Release, ds *dataset.Dataset) *Validated {
	v := &Validated{}
	if g == nil || g.Len() == 0 {
		v.add(status.Errorf(status.GraphStructureError, "analysis has no nodes"))
		return v
	}

	cycles := FindCycles(g)
	for _, e := range cycles {
		v.addAt(e.Consumer, status.GraphStructureError, "cycle: node %d reads from node %d, which depends on node %d", e.Consumer, e.Source, e.Consumer)
	}
	v.ReleaseNodes = Privatizers(g)

	in := &inferrer{g: g, releaseIn: releaseIn, ds: ds, memo: make(map[uint32]*info), busy: make(map[uint32]bool)}
	for _, n := range g.Nodes() {
		checkNode(v, in, n)
	}

	if len(cycles) == 0 {
		all := make(map[uint32]bool, g.Len())
		for _, id := range g.IDs() {
			all[id] = true
		}
		order, err := TopologicalOrder(g, all)
		if e, ok := err.(*status.Error); ok {
			v.add(e)
		}
		v.Order = order
	}
	v.OK = len(v.Errors) == 0
	if !v.OK {
		log.V(1).Infof("Validate: %d errors", len(v.Errors))
	}
	return v
}

// info is what is statically known about a node's output.
type info struct {
	kind      value.Kind
	kindKnown bool
	// shape uses value.Unknown for dimensions that are not known. A nil shape
	// means not even the rank is known.
	shape []int
	// val is the output itself when it is known without evaluating the data.
	val *value.Value
	// private is set when the output is computed from dataset contents without
	// passing through a privatizer.
	private bool
}

type inferrer struct {
	g         *graph.Graph
	releaseIn release.Release
	ds        *dataset.Dataset
	memo      map[uint32]*info
	busy      map[uint32]bool
}

func fromValue(val *value.Value) *info {
	return &info{kind: val.Kind(), kindKnown: true, shape: val.Shape(), val: val}
}

// infer returns what is known about the output of node id. Nodes on a cycle
// or missing from the graph are unknown.
func (in *inferrer) infer(id uint32) *info {
	if r, ok := in.memo[id]; ok {
		return r
	}
	if v, ok := in.releaseIn[id]; ok && v != nil {
		r := fromValue(v)
		in.memo[id] = r
		return r
	}
	n, ok := in.g.Get(id)
	if !ok || in.busy[id] {
		return &info{}
	}
	in.busy[id] = true
	defer delete(in.busy, id)

	r := &info{}
	switch {
	case n.Kind == graph.Literal:
		if n.Params.Value != nil {
			r = fromValue(n.Params.Value)
		}
	case n.Kind == graph.DataSource:
		r = in.inferDataSource(n)
	case n.Kind.IsBinaryArithmetic():
		l, rt := in.arg(n, graph.ArgLeft), in.arg(n, graph.ArgRight)
		if l.val != nil && rt.val != nil {
			if val, err := staticOps[n.Kind](l.val, rt.val); err == nil {
				r = fromValue(val)
				break
			}
		}
		if l.kindKnown && rt.kindKnown && l.kind == rt.kind {
			r.kind, r.kindKnown = l.kind, true
		}
		if l.shape != nil && rt.shape != nil {
			if s, err := value.BroadcastShapes(l.shape, rt.shape); err == nil {
				r.shape = s
			}
		}
		r.private = l.private || rt.private
	case n.Kind == graph.Negate:
		d := in.arg(n, graph.ArgData)
		if d.val != nil {
			if val, err := value.Negate(d.val); err == nil {
				r = fromValue(val)
				break
			}
		}
		r.kind, r.kindKnown, r.shape, r.private = d.kind, d.kindKnown, d.shape, d.private
	case n.Kind == graph.DpHistogram:
		r.kind, r.kindKnown = value.F64, true
		if n.Params.NumBins > 0 {
			r.shape = []int{int(n.Params.NumBins)}
		}
	case n.Kind.IsPrivatizer():
		r.kind, r.kindKnown, r.shape = value.F64, true, []int{}
	}
	in.memo[id] = r
	return r
}

// staticOps folds arithmetic over statically known operands. Failures such as
// an integer division by zero leave the result unknown for the evaluator to
// report.
var staticOps = map[graph.Kind]func(a, b *value.Value) (*value.Value, error){
	graph.Add:      value.Add,
	graph.Subtract: value.Sub,
	graph.Multiply: value.Mul,
	graph.Divide:   value.Div,
	graph.Power:    value.Pow,
}

func (in *inferrer) inferDataSource(n *graph.Node) *info {
	if in.ds == nil {
		return &info{private: true}
	}
	t, ok := in.ds.Tables[n.Params.TableID]
	if !ok || t == nil {
		return &info{private: true}
	}
	if t.Literal != nil {
		// The literal is not exposed as a known value: its contents are private.
		return &info{kind: t.Literal.Kind(), kindKnown: true, shape: t.Literal.Shape(), private: true}
	}
	return &info{kind: t.ElementType, kindKnown: true, shape: []int{value.Unknown}, private: true}
}

func (in *inferrer) arg(n *graph.Node, name string) *info {
	f, ok := n.Argument(name)
	if !ok {
		return &info{}
	}
	return in.infer(f.SourceNodeID)
}

// scalar returns the statically known value of the named scalar argument.
func (in *inferrer) scalar(n *graph.Node, name string) (float64, bool) {
	a := in.arg(n, name)
	if a.val == nil {
		return 0, false
	}
	x, err := a.val.ScalarFloat64()
	return x, err == nil
}

func checkNode(v *Validated, in *inferrer, n *graph.Node) {
	if !n.Kind.Valid() {
		v.addAt(n.ID, status.SchemaError, "unknown node kind %v", n.Kind)
		return
	}
	checkArguments(v, in, n)
	checkParams(v, in, n)
	checkConformability(v, in, n)
}

// checkArguments checks closure, arity and element types.
func checkArguments(v *Validated, in *inferrer, n *graph.Node) {
	for _, name := range n.ArgumentNames() {
		f, _ := n.Argument(name)
		if _, ok := n.Kind.Arg(name); !ok {
			v.addAt(n.ID, status.GraphStructureError, "%v does not take argument %q", n.Kind, name)
			continue
		}
		if _, ok := in.g.Get(f.SourceNodeID); !ok {
			v.addAt(n.ID, status.GraphStructureError, "argument %q reads from node %d, which does not exist", name, f.SourceNodeID)
			continue
		}
		if f.SourceField != graph.DefaultField {
			v.addAt(n.ID, status.GraphStructureError, "argument %q reads field %q of node %d, want %q", name, f.SourceField, f.SourceNodeID, graph.DefaultField)
		}
	}
	for _, spec := range n.Kind.Signature() {
		f, ok := n.Argument(spec.Name)
		if !ok {
			v.addAt(n.ID, status.GraphStructureError, "%v is missing argument %q", n.Kind, spec.Name)
			continue
		}
		a := in.infer(f.SourceNodeID)
		if a.kindKnown && !spec.Accepts(a.kind) {
			v.addAt(n.ID, status.TypeError, "argument %q has element type %v, want one of %v", spec.Name, a.kind, spec.Kinds)
		}
		if spec.Scalar && a.shape != nil && !hasUnknown(a.shape) && value.NumElements(a.shape) != 1 {
			v.addAt(n.ID, status.ShapeError, "argument %q has shape %v, want a scalar", spec.Name, a.shape)
		}
	}
	if n.Kind.IsBinaryArithmetic() {
		l, r := in.arg(n, graph.ArgLeft), in.arg(n, graph.ArgRight)
		if l.kindKnown && r.kindKnown && l.kind != r.kind {
			v.addAt(n.ID, status.TypeError, "operands have different element types %v and %v", l.kind, r.kind)
		}
	}
}

func hasUnknown(shape []int) bool {
	for _, d := range shape {
		if d == value.Unknown {
			return true
		}
	}
	return false
}

// checkParams checks the static parameters and statically known bounds.
func checkParams(v *Validated, in *inferrer, n *graph.Node) {
	p := n.Params
	switch n.Kind {
	case graph.Literal:
		if p.Value == nil {
			v.addAt(n.ID, status.SchemaError, "Literal has no value")
		}
		return
	case graph.DataSource:
		if p.TableID == "" {
			v.addAt(n.ID, status.SchemaError, "DataSource has no table id")
		} else if in.ds != nil {
			if _, ok := in.ds.Tables[p.TableID]; !ok {
				v.addAt(n.ID, status.IngestionError, "table %q is not in the dataset", p.TableID)
			}
		}
		return
	}
	if !n.Kind.IsPrivatizer() {
		return
	}

	if p.Mechanism < noise.LaplaceMechanism || p.Mechanism > noise.ExponentialMechanism {
		v.addAt(n.ID, status.SchemaError, "unknown mechanism (%d)", int32(p.Mechanism))
	}
	addDomain(v, n.ID, checks.CheckEpsilonStrict(p.Epsilon))
	switch n.Kind {
	case graph.DpMomentRaw:
		addDomain(v, n.ID, checks.CheckOrder(p.Order))
	case graph.DpHistogram:
		addDomain(v, n.ID, checks.CheckNumBins(p.NumBins))
		if p.Delta != 0 {
			addDomain(v, n.ID, checks.CheckDeltaStrict(p.Delta))
		}
	}

	if n.Kind != graph.DpHistogram {
		if nr, ok := in.scalar(n, graph.ArgNumRecords); ok {
			addDomain(v, n.ID, checks.CheckNumRecords(nr))
		}
	}
	for _, pair := range boundPairs(n.Kind) {
		lo, okLo := in.scalar(n, pair[0])
		hi, okHi := in.scalar(n, pair[1])
		if okLo && okHi {
			if err := checks.CheckBoundsFloat64(lo, hi); err != nil {
				v.addAt(n.ID, status.DomainError, "%s/%s: %s", pair[0], pair[1], message(err))
			}
		} else if okLo && (math.IsNaN(lo) || math.IsInf(lo, 0)) || okHi && (math.IsNaN(hi) || math.IsInf(hi, 0)) {
			v.addAt(n.ID, status.DomainError, "%s/%s: bounds must be finite", pair[0], pair[1])
		}
	}
	// num_records and the bounds must not depend on dataset contents.
	for _, spec := range n.Kind.Signature() {
		if spec.Scalar && in.arg(n, spec.Name).private {
			v.addAt(n.ID, status.DomainError, "argument %q is computed from the dataset, it must be public", spec.Name)
		}
	}
}

func boundPairs(k graph.Kind) [][2]string {
	if k == graph.DpCovariance {
		return [][2]string{{graph.ArgMinimumX, graph.ArgMaximumX}, {graph.ArgMinimumY, graph.ArgMaximumY}}
	}
	return [][2]string{{graph.ArgMinimum, graph.ArgMaximum}}
}

func message(err error) string {
	if e, ok := err.(*status.Error); ok {
		return e.Msg
	}
	return err.Error()
}

func addDomain(v *Validated, id uint32, err error) {
	if err != nil {
		v.add(status.AtNode(err, id, status.DomainError))
	}
}

// checkConformability checks that binary operands broadcast and that
// covariance columns are 1-D arrays of equal length.
func checkConformability(v *Validated, in *inferrer, n *graph.Node) {
	switch {
	case n.Kind.IsBinaryArithmetic():
		l, r := in.arg(n, graph.ArgLeft), in.arg(n, graph.ArgRight)
		if l.shape == nil || r.shape == nil {
			return
		}
		if _, err := value.BroadcastShapes(l.shape, r.shape); err != nil {
			v.add(status.AtNode(err, n.ID, status.ShapeError))
		}
	case n.Kind == graph.DpCovariance:
		x, y := in.arg(n, graph.ArgDataX), in.arg(n, graph.ArgDataY)
		for _, a := range []struct {
			name string
			i    *info
		}{{graph.ArgDataX, x}, {graph.ArgDataY, y}} {
			if a.i.shape != nil && len(a.i.shape) != 1 {
				v.addAt(n.ID, status.ShapeError, "argument %q has shape %v, want a 1-D array", a.name, a.i.shape)
			}
		}
		if len(x.shape) == 1 && len(y.shape) == 1 && x.shape[0] != value.Unknown && y.shape[0] != value.Unknown && x.shape[0] != y.shape[0] {
			v.addAt(n.ID, status.ShapeError, "data_x has %d records and data_y has %d", x.shape[0], y.shape[0])
		}
	case n.Kind.IsPrivatizer():
		d := in.arg(n, graph.ArgData)
		if d.shape != nil && len(d.shape) != 1 {
			v.addAt(n.ID, status.ShapeError, "argument %q has shape %v, want a 1-D array", graph.ArgData, d.shape)
		}
	}
}
