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

// Package binning assigns values to labelled bins and computes non-private
// equal-width histograms.
//
// n edges define n-1 bins. Interior bins are half-open on the side selected by
// inclusiveLeft. The leftmost bin is always closed on the left and the
// rightmost bin is always closed on the right, so every value in
// [edges[0], edges[n-1]] falls into exactly one bin.
package binning

import (
	"math"
	"slices"
	"sort"
	"strconv"

	"github.com/joshua-oss/yarrow/checks"
	"github.com/joshua-oss/yarrow/status"
	"gonum.org/v1/gonum/floats"
)

func formatEdge(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func sortedEdges(edges []float64) ([]float64, error) {
	if len(edges) < 2 {
		return nil, status.Errorf(status.DomainError, "need at least 2 edges to define a bin, got %d", len(edges))
	}
	for _, e := range edges {
		if math.IsNaN(e) {
			return nil, status.Errorf(status.DomainError, "edges cannot contain NaN")
		}
	}
	e := slices.Clone(edges)
	slices.Sort(e)
	return e, nil
}

// label returns the label of the i-th bin of the sorted edges.
func label(edges []float64, i int, inclusiveLeft bool) string {
	left, right := "(", ")"
	if i == 0 || inclusiveLeft {
		left = "["
	}
	if i == len(edges)-2 || !inclusiveLeft {
		right = "]"
	}
	return left + formatEdge(edges[i]) + ", " + formatEdge(edges[i+1]) + right
}

// index returns the bin of x in the sorted edges, or -1 if x lies outside
// [edges[0], edges[n-1]].
func index(edges []float64, x float64, inclusiveLeft bool) int {
	last := len(edges) - 1
	if math.IsNaN(x) || x < edges[0] || x > edges[last] {
		return -1
	}
	var i int
	if inclusiveLeft {
		// Last edge that is <= x.
		i = sort.Search(len(edges), func(j int) bool { return edges[j] > x }) - 1
	} else {
		// Bin whose right edge is the first edge >= x.
		i = sort.SearchFloat64s(edges, x) - 1
	}
	return min(max(i, 0), last-1)
}

// Labels returns the labels of the bins defined by edges, in ascending order.
func Labels(edges []float64, inclusiveLeft bool) ([]string, error) {
	e, err := sortedEdges(edges)
	if err != nil {
		return nil, err
	}
	labels := make([]string, len(e)-1)
	for i := range labels {
		labels[i] = label(e, i, inclusiveLeft)
	}
	return labels, nil
}

// Bin returns, for every value, the label of the bin it falls into, or the
// empty string if it lies outside the edges. The edges are sorted on a copy.
func Bin(values, edges []float64, inclusiveLeft bool) ([]string, error) {
	e, err := sortedEdges(edges)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(values))
	for k, x := range values {
		if i := index(e, x, inclusiveLeft); i >= 0 {
			out[k] = label(e, i, inclusiveLeft)
		}
	}
	return out, nil
}

// Edges returns numBins+1 linearly spaced edges from lower to upper.
func Edges(lower, upper float64, numBins int64) ([]float64, error) {
	if err := checks.CheckBoundsFloat64(lower, upper); err != nil {
		return nil, err
	}
	if err := checks.CheckNumBins(numBins); err != nil {
		return nil, err
	}
	return floats.Span(make([]float64, numBins+1), lower, upper), nil
}

// Counts returns the labels of numBins equal-width bins over [lower, upper]
// and the number of values falling into each, in bin order. Values outside
// the range are not counted.
func Counts(values []float64, lower, upper float64, numBins int64, inclusiveLeft bool) ([]string, []float64, error) {
	e, err := Edges(lower, upper, numBins)
	if err != nil {
		return nil, nil, err
	}
	labels := make([]string, len(e)-1)
	for i := range labels {
		labels[i] = label(e, i, inclusiveLeft)
	}
	counts := make([]float64, len(labels))
	for _, x := range values {
		if i := index(e, x, inclusiveLeft); i >= 0 {
			counts[i]++
		}
	}
	return labels, counts, nil
}

// Histogram returns the counts of Counts keyed by bin label. Every bin is
// present, including empty ones.
func Histogram(values []float64, lower, upper float64, numBins int64, inclusiveLeft bool) (map[string]float64, error) {
	labels, counts, err := Counts(values, lower, upper, numBins, inclusiveLeft)
	if err != nil {
		return nil, err
	}
	h := make(map[string]float64, len(labels))
	for i, l := range labels {
		h[l] = counts[i]
	}
	return h, nil
}
