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

package dpagg

import (
	"fmt"

	"github.com/joshua-oss/yarrow/checks"
	"github.com/joshua-oss/yarrow/noise"
	"github.com/joshua-oss/yarrow/status"
	"gonum.org/v1/gonum/stat"
)

// CovarianceOptions contains the options necessary to compute a
// differentially private covariance.
type CovarianceOptions struct {
	Epsilon float64 // Privacy parameter ε. Required.
	// Bounds for clamping the x and y columns. Required; each lower bound must
	// be strictly less than its upper bound.
	LowerX, UpperX float64
	LowerY, UpperY float64
	NumRecords     float64        // Public number of records n. Required.
	Noise          *noise.Laplace // Defaults to Laplace noise from a secure source.
}

// CovarianceSensitivity returns the L1 sensitivity
// 2·(n-1)/n·(upperX - lowerX)(upperY - lowerY) of the population covariance
// of n clamped pairs.
func CovarianceSensitivity(lowerX, upperX, lowerY, upperY, numRecords float64) float64 {
	return 2 * (numRecords - 1) / numRecords * (upperX - lowerX) * (upperY - lowerY)
}

// Covariance returns a differentially private population covariance, the mean
// of (x - x̄)(y - ȳ), of x and y clamped to their bounds. x and y must have the
// same length.
func Covariance(x, y []float64, opt *CovarianceOptions) (float64, error) {
	if opt == nil {
		opt = &CovarianceOptions{}
	}
	if len(x) != len(y) {
		return 0, status.Errorf(status.ShapeError, "Covariance: x has %d records and y has %d", len(x), len(y))
	}
	if err := checkBoundedKernel(opt.Epsilon, opt.LowerX, opt.UpperX, opt.NumRecords, len(x)); err != nil {
		return 0, fmt.Errorf("Covariance: %w", err)
	}
	if err := checks.CheckBoundsFloat64(opt.LowerY, opt.UpperY); err != nil {
		return 0, fmt.Errorf("Covariance: %w", err)
	}
	cx, err := ClampFloat64s(x, opt.LowerX, opt.UpperX)
	if err != nil {
		return 0, err
	}
	cy, err := ClampFloat64s(y, opt.LowerY, opt.UpperY)
	if err != nil {
		return 0, err
	}
	meanX, meanY := stat.Mean(cx, nil), stat.Mean(cy, nil)
	products := make([]float64, len(cx))
	for i := range cx {
		products[i] = (cx[i] - meanX) * (cy[i] - meanY)
	}
	cov := stat.Mean(products, nil)
	sens := CovarianceSensitivity(opt.LowerX, opt.UpperX, opt.LowerY, opt.UpperY, opt.NumRecords)
	return laplaceOrDefault(opt.Noise).AddNoiseFloat64(cov, sens, opt.Epsilon)
}
