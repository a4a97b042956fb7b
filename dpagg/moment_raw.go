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

	"github.com/joshua-oss/yarrow/checks"
	"github.com/joshua-oss/yarrow/noise"
	"gonum.org/v1/gonum/stat"
)

// MomentRawOptions contains the options necessary to compute a differentially
// private raw moment.
type MomentRawOptions struct {
	Epsilon float64 // Privacy parameter ε. Required.
	// Lower and Upper bounds for clamping. Required; must be such that Lower < Upper.
	Lower, Upper float64
	NumRecords   float64        // Public number of records n. Required.
	Order        int64          // Order k of the moment. Required; must be at least 1.
	Noise        *noise.Laplace // Defaults to Laplace noise from a secure source.
}

// MomentRawSensitivity returns the L1 sensitivity (upper - lower)^k / n of the
// k-th raw moment of n values clamped to [lower, upper].
func MomentRawSensitivity(lower, upper, numRecords float64, order int64) float64 {
	return math.Pow(upper-lower, float64(order)) / numRecords
}

// MomentRaw returns a differentially private k-th raw moment, the mean of
// clamp(x)^k, of data.
func MomentRaw(data []float64, opt *MomentRawOptions) (float64, error) {
	if opt == nil {
		opt = &MomentRawOptions{}
	}
	if err := checkBoundedKernel(opt.Epsilon, opt.Lower, opt.Upper, opt.NumRecords, len(data)); err != nil {
		return 0, fmt.Errorf("MomentRaw: %w", err)
	}
	if err := checks.CheckOrder(opt.Order); err != nil {
		return 0, fmt.Errorf("MomentRaw: %w", err)
	}
	clamped, err := ClampFloat64s(data, opt.Lower, opt.Upper)
	if err != nil {
		return 0, err
	}
	k := float64(opt.Order)
	for i, x := range clamped {
		clamped[i] = math.Pow(x, k)
	}
	moment := stat.Mean(clamped, nil)
	return laplaceOrDefault(opt.Noise).AddNoiseFloat64(moment, MomentRawSensitivity(opt.Lower, opt.Upper, opt.NumRecords, opt.Order), opt.Epsilon)
}
