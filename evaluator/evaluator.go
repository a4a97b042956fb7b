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

// Package evaluator computes the release of an analysis.
//
// Evaluation is a single pass over the release nodes' argument closure in
// topological order. Each request owns its intermediate values and its noise
// source; nothing is shared between requests.
package evaluator

import (
	"fmt"
	"strings"

	log "github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/joshua-oss/yarrow/dataset"
	"github.com/joshua-oss/yarrow/graph"
	"github.com/joshua-oss/yarrow/noise"
	"github.com/joshua-oss/yarrow/rand"
	"github.com/joshua-oss/yarrow/release"
	"github.com/joshua-oss/yarrow/status"
	"github.com/joshua-oss/yarrow/validator"
	"github.com/joshua-oss/yarrow/value"
)

// Options configures ComputeRelease.
type Options struct {
	// Source supplies the randomness of every privatizer of the request.
	// Defaults to rand.NewSecure(). Pass a rand.NewSeeded source for
	// reproducible runs.
	Source noise.Source
	// RequestID tags the log lines of the request. Defaults to a random UUID.
	RequestID string
}

// ComputeRelease evaluates the release nodes of g that are not already in
// releaseIn and returns releaseIn together with their outputs. Intermediate
// values are discarded.
//
// g is validated first; if validation fails, the first validation error is
// returned. Evaluation stops at the first failing node. In that case the
// returned release holds releaseIn and the release nodes computed so far, and
// the error is a *status.Error attributed to the failing node.
func ComputeRelease(g *graph.Graph, releaseIn release.Release, ds *dataset.Dataset, opt *Options) (release.Release, error) {
	if opt == nil {
		opt = &Options{}
	}
	src := opt.Source
	if src == nil {
		src = rand.NewSecure()
	}
	reqID := opt.RequestID
	if reqID == "" {
		reqID = uuid.NewString()
	}

	out := releaseIn.Clone()
	v := validator.Validate(g, releaseIn, ds)
	if !v.OK {
		log.Warningf("[%s] ComputeRelease: analysis failed validation: %s", reqID, strings.Join(v.Errors, "; "))
		return out, v.Issues[0]
	}

	released := func(id uint32) bool { return releaseIn.Has(id) }
	isRelease := make(map[uint32]bool, len(v.ReleaseNodes))
	var pending []uint32
	for _, id := range v.ReleaseNodes {
		isRelease[id] = true
		if !released(id) {
			pending = append(pending, id)
		}
	}
	order, err := validator.TopologicalOrder(g, validator.Closure(g, pending, released))
	if err != nil {
		return out, err
	}
	log.V(1).Infof("[%s] ComputeRelease: evaluating %d nodes for %d release nodes", reqID, len(order), len(pending))

	e := &evaluation{ds: ds, src: src, values: releaseIn.Clone()}
	for _, id := range order {
		if e.values[id] != nil {
			continue
		}
		n, _ := g.Get(id)
		val, err := e.evaluate(n)
		if err != nil {
			log.Warningf("[%s] ComputeRelease: %v failed: %v", reqID, n, err)
			return out, status.AtNode(err, id, status.DomainError)
		}
		log.V(1).Infof("[%s] %v = %v", reqID, n, summarize(val))
		e.values[id] = val
		if isRelease[id] {
			out[id] = val
		}
	}
	return out, nil
}

// summarize formats a value for the logs without its private contents.
func summarize(v *value.Value) string {
	return fmt.Sprintf("%v%v", v.Kind(), v.Shape())
}

type evaluation struct {
	ds     *dataset.Dataset
	src    noise.Source
	values release.Release
}

// args resolves the arguments of n to the values already evaluated.
func (e *evaluation) args(n *graph.Node) (map[string]*value.Value, error) {
	args := make(map[string]*value.Value, len(n.Arguments()))
	for name, f := range n.Arguments() {
		v, ok := e.values[f.SourceNodeID]
		if !ok {
			return nil, status.Errorf(status.GraphStructureError, "argument %q reads from node %d, which has not been evaluated", name, f.SourceNodeID)
		}
		args[name] = v
	}
	return args, nil
}
