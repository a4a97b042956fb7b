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
	"math"

	"github.com/joshua-oss/yarrow/noise"
	"gonum.org/v1/gonum/stat"
)

// VarianceOptions contains the options necessary to compute a differentially
// private variance.
type VarianceOptions struct {
	Epsilon float64 // Privacy parameter ε. Required.
	// Lower and Upper bounds for clamping. Required; must be such that Lower < Upper.
	Lower, Upper float64
	NumRecords   float64        // Public number of records n. Required.
	Noise        *noise.Laplace // Defaults to Laplace noise from a secure source.
}

// VarianceSensitivity returns the L1 sensitivity (n - 1)·((upper - lower)/n)²
// of the second central moment of n values clamped to [lower, upper].
func VarianceSensitivity(lower, upper, numRecords float64) float64 {
	return (numRecords - 1) * math.Pow((upper-lower)/numRecords, 2)
}

// Variance returns a differentially private second central moment (the
// population variance, dividing by the number of records) of data clamped to
// [opt.Lower, opt.Upper].
func Variance(data []float64, opt *VarianceOptions) (float64, error) {
	if opt == nil {
		opt = &VarianceOptions{}
	}
	if err := checkBoundedKernel(opt.Epsilon, opt.Lower, opt.Upper, opt.NumRecords, len(data)); err != nil {
		return 0, fmt.Errorf("Variance: %w", err)
	}
	clamped, err := ClampFloat64s(data, opt.Lower, opt.Upper)
	if err != nil {
		return 0, err
	}
	variance := stat.Moment(2, clamped, nil)
	return laplaceOrDefault(opt.Noise).AddNoiseFloat64(variance, VarianceSensitivity(opt.Lower, opt.Upper, opt.NumRecords), opt.Epsilon)
}
