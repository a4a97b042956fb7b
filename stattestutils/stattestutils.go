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

// Package stattestutils computes the plain, non-private statistics that
// differentially private releases are compared against in tests.
//
// Every statistic is the population version, dividing by n, as the kernels in
// package dpagg do. Empty inputs give 0.
package stattestutils

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// SampleMean returns the mean of values.
func SampleMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// SampleVariance returns the population variance of values.
func SampleVariance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	_, variance := stat.PopMeanVariance(values, nil)
	return variance
}

// SampleRawMoment returns the mean of the order-th powers of values.
func SampleRawMoment(values []float64, order int) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += math.Pow(v, float64(order))
	}
	return sum / float64(len(values))
}

// SampleCovariance returns the population covariance of x and y, which must
// have the same length.
func SampleCovariance(x, y []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	meanX, meanY := stat.Mean(x, nil), stat.Mean(y, nil)
	var sum float64
	for i := range x {
		sum += (x[i] - meanX) * (y[i] - meanY)
	}
	return sum / float64(len(x))
}

// Draw calls release n times and returns the results. It stops at the first
// error.
func Draw(n int, release func() (float64, error)) ([]float64, error) {
	out := make([]float64, n)
	for i := range out {
		x, err := release()
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}

// LaplaceTolerance returns how far the mean of n Laplace samples of scale b
// may be from the true mean: z standard errors of a variance of 2b².
func LaplaceTolerance(b float64, n int, z float64) float64 {
	return z * math.Sqrt(2*b*b/float64(n))
}
