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

package evaluator

import (
	"errors"
	"fmt"

	log "github.com/golang/glog"
	"github.com/joshua-oss/yarrow/dpagg"
	"github.com/joshua-oss/yarrow/graph"
	"github.com/joshua-oss/yarrow/noise"
	"github.com/joshua-oss/yarrow/status"
	"github.com/joshua-oss/yarrow/value"
)

var binaryOps = map[graph.Kind]func(a, b *value.Value) (*value.Value, error){
	graph.Add:      value.Add,
	graph.Subtract: value.Sub,
	graph.Multiply: value.Mul,
	graph.Divide:   value.Div,
	graph.Power:    value.Pow,
}

// evaluate computes the output of n from the outputs of its arguments.
func (e *evaluation) evaluate(n *graph.Node) (*value.Value, error) {
	switch n.Kind {
	case graph.Literal:
		if n.Params.Value == nil {
			return nil, status.Errorf(status.SchemaError, "Literal has no value")
		}
		return n.Params.Value.Clone(), nil
	case graph.DataSource:
		return e.ds.Load(n.Params.TableID, n.Params.ColumnID)
	}

	args, err := e.args(n)
	if err != nil {
		return nil, err
	}
	switch {
	case n.Kind.IsBinaryArithmetic():
		return binaryOps[n.Kind](args[graph.ArgLeft], args[graph.ArgRight])
	case n.Kind == graph.Negate:
		return value.Negate(args[graph.ArgData])
	case n.Kind.IsPrivatizer():
		lap, err := noise.ForMechanism(n.Params.Mechanism, e.src)
		if err != nil {
			return nil, err
		}
		return privatize(n, args, lap)
	}
	return nil, status.Errorf(status.SchemaError, "unknown node kind %v", n.Kind)
}

// scalars extracts the named one-element arguments as float64.
func scalars(args map[string]*value.Value, names ...string) ([]float64, error) {
	xs := make([]float64, len(names))
	for i, name := range names {
		x, err := args[name].ScalarFloat64()
		if err != nil {
			return nil, argError(name, err)
		}
		xs[i] = x
	}
	return xs, nil
}

func column(args map[string]*value.Value, name string) ([]float64, error) {
	v := args[name]
	if v.Rank() != 1 {
		return nil, status.Errorf(status.ShapeError, "argument %q has shape %v, want a 1-D array", name, v.Shape())
	}
	data, err := v.Float64Slice()
	if err != nil {
		return nil, argError(name, err)
	}
	return data, nil
}

func argError(name string, err error) error {
	var se *status.Error
	if errors.As(err, &se) {
		return status.Errorf(se.Kind, "argument %q: %s", name, se.Msg)
	}
	return fmt.Errorf("argument %q: %w", name, err)
}

func privatize(n *graph.Node, args map[string]*value.Value, lap *noise.Laplace) (*value.Value, error) {
	p := n.Params
	switch n.Kind {
	case graph.DpCovariance:
		x, err := column(args, graph.ArgDataX)
		if err != nil {
			return nil, err
		}
		y, err := column(args, graph.ArgDataY)
		if err != nil {
			return nil, err
		}
		s, err := scalars(args, graph.ArgNumRecords, graph.ArgMinimumX, graph.ArgMaximumX, graph.ArgMinimumY, graph.ArgMaximumY)
		if err != nil {
			return nil, err
		}
		c, err := dpagg.Covariance(x, y, &dpagg.CovarianceOptions{
			Epsilon: p.Epsilon, NumRecords: s[0],
			LowerX: s[1], UpperX: s[2], LowerY: s[3], UpperY: s[4],
			Noise: lap,
		})
		if err != nil {
			return nil, err
		}
		return value.ScalarF64(c), nil

	case graph.DpHistogram:
		data, err := column(args, graph.ArgData)
		if err != nil {
			return nil, err
		}
		s, err := scalars(args, graph.ArgMinimum, graph.ArgMaximum)
		if err != nil {
			return nil, err
		}
		opt := &dpagg.HistogramOptions{
			Epsilon: p.Epsilon, Delta: p.Delta,
			Lower: s[0], Upper: s[1],
			NumBins: p.NumBins, InclusiveLeft: p.InclusiveLeft,
			Noise: lap,
		}
		histogram := dpagg.HistogramLaplace
		if p.Delta != 0 {
			histogram = dpagg.HistogramStability
		}
		labels, counts, err := histogram(data, opt)
		if err != nil {
			return nil, err
		}
		log.V(2).Infof("%v: bins %v", n, labels)
		return value.VectorF64(counts), nil
	}

	data, err := column(args, graph.ArgData)
	if err != nil {
		return nil, err
	}
	s, err := scalars(args, graph.ArgNumRecords, graph.ArgMinimum, graph.ArgMaximum)
	if err != nil {
		return nil, err
	}
	numRecords, lower, upper := s[0], s[1], s[2]
	var r float64
	switch n.Kind {
	case graph.DpMean:
		r, err = dpagg.Mean(data, &dpagg.MeanOptions{Epsilon: p.Epsilon, Lower: lower, Upper: upper, NumRecords: numRecords, Noise: lap})
	case graph.DpVariance:
		r, err = dpagg.Variance(data, &dpagg.VarianceOptions{Epsilon: p.Epsilon, Lower: lower, Upper: upper, NumRecords: numRecords, Noise: lap})
	case graph.DpMomentRaw:
		r, err = dpagg.MomentRaw(data, &dpagg.MomentRawOptions{Epsilon: p.Epsilon, Lower: lower, Upper: upper, NumRecords: numRecords, Order: p.Order, Noise: lap})
	default:
		return nil, status.Errorf(status.SchemaError, "unknown privatizer %v", n.Kind)
	}
	if err != nil {
		return nil, err
	}
	return value.ScalarF64(r), nil
}
