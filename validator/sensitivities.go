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
	"github.com/joshua-oss/yarrow/dpagg"
	"github.com/joshua-oss/yarrow/graph"
	"github.com/joshua-oss/yarrow/release"
	"github.com/joshua-oss/yarrow/status"
)

// ComputeSensitivities returns the L1 sensitivity of every release node whose
// bounds and number of records are statically known, either as Literal
// sources or as values in releaseIn. Release nodes whose parameters depend on
// data are left out. It returns an error if the analysis does not validate.
func ComputeSensitivities(g *graph.Graph, releaseIn release.Release) (map[uint32]float64, error) {
	v := Validate(g, releaseIn, nil)
	if !v.OK {
		return nil, v.Issues[0]
	}
	in := &inferrer{g: g, releaseIn: releaseIn, memo: make(map[uint32]*info), busy: make(map[uint32]bool)}
	out := make(map[uint32]float64, len(v.ReleaseNodes))
	for _, id := range v.ReleaseNodes {
		n, _ := g.Get(id)
		if s, ok := sensitivity(in, n); ok {
			out[id] = s
		}
	}
	return out, nil
}

func sensitivity(in *inferrer, n *graph.Node) (float64, bool) {
	scalars := func(names ...string) ([]float64, bool) {
		xs := make([]float64, len(names))
		for i, name := range names {
			x, ok := in.scalar(n, name)
			if !ok {
				return nil, false
			}
			xs[i] = x
		}
		return xs, true
	}
	switch n.Kind {
	case graph.DpHistogram:
		return dpagg.HistogramSensitivity, true
	case graph.DpCovariance:
		xs, ok := scalars(graph.ArgMinimumX, graph.ArgMaximumX, graph.ArgMinimumY, graph.ArgMaximumY, graph.ArgNumRecords)
		if !ok {
			return 0, false
		}
		return dpagg.CovarianceSensitivity(xs[0], xs[1], xs[2], xs[3], xs[4]), true
	}
	xs, ok := scalars(graph.ArgMinimum, graph.ArgMaximum, graph.ArgNumRecords)
	if !ok {
		return 0, false
	}
	switch n.Kind {
	case graph.DpMean:
		return dpagg.MeanSensitivity(xs[0], xs[1], xs[2]), true
	case graph.DpVariance:
		return dpagg.VarianceSensitivity(xs[0], xs[1], xs[2]), true
	case graph.DpMomentRaw:
		return dpagg.MomentRawSensitivity(xs[0], xs[1], xs[2], n.Params.Order), true
	}
	return 0, false
}

// PrivacyUsage is the privacy budget spent by one release node.
type PrivacyUsage struct {
	Epsilon float64
	Delta   float64
}

// Accuracy bounds the error of a released value at a confidence level.
type Accuracy struct {
	Value float64
	Alpha float64
}

// Report summarizes a release.
type Report struct {
	Entries []string
}

// ComputePrivacyUsage returns the privacy usage of the analysis. Accounting
// is not implemented yet; the result is always empty.
func ComputePrivacyUsage(g *graph.Graph, releaseIn release.Release) (map[uint32]PrivacyUsage, error) {
	if g == nil {
		return nil, status.Errorf(status.GraphStructureError, "analysis has no nodes")
	}
	return map[uint32]PrivacyUsage{}, nil
}

// GenerateReport returns an empty report.
func GenerateReport(g *graph.Graph, r release.Release) (*Report, error) {
	return &Report{}, nil
}

// InferConstraints returns g unchanged.
func InferConstraints(g *graph.Graph, releaseIn release.Release) (*graph.Graph, error) {
	return g, nil
}

// AccuracyToPrivacyUsage returns the zero usage.
func AccuracyToPrivacyUsage(n *graph.Node, a Accuracy) (PrivacyUsage, error) {
	return PrivacyUsage{}, nil
}

// PrivacyUsageToAccuracy returns the zero accuracy.
func PrivacyUsageToAccuracy(n *graph.Node, u PrivacyUsage) (Accuracy, error) {
	return Accuracy{}, nil
}
