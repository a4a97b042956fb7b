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

// Package dpagg contains differentially private statistical kernels.
//
// Every kernel clamps its input to the declared bounds, computes the statistic
// on the clamped data and adds Laplace noise with scale Δ/ε, where Δ is the
// kernel's L1 sensitivity. Sensitivities assume bounded differential privacy:
// neighbouring datasets have the same public number of records and differ in
// the value of one of them.
//
// The kernels trust the declared bounds and record count. Both must be public;
// deriving them from the data invalidates the privacy guarantee.
package dpagg

import (
	"math"

	"github.com/joshua-oss/yarrow/checks"
	"github.com/joshua-oss/yarrow/noise"
	"github.com/joshua-oss/yarrow/rand"
	"github.com/joshua-oss/yarrow/status"
)

// ClampFloat64 clamps e within lower and upper, such that lower is returned
// if e < lower, and upper is returned if e > upper. NaN is mapped to lower.
// Otherwise, e is returned.
func ClampFloat64(e, lower, upper float64) (float64, error) {
	if lower > upper {
		return 0, status.Errorf(status.DomainError, "cannot clamp to [%v, %v]: lower bound exceeds upper bound", lower, upper)
	}
	if math.IsNaN(e) || e < lower {
		return lower, nil
	}
	if e > upper {
		return upper, nil
	}
	return e, nil
}

// ClampFloat64s returns a clamped copy of data.
func ClampFloat64s(data []float64, lower, upper float64) ([]float64, error) {
	out := make([]float64, len(data))
	for i, e := range data {
		c, err := ClampFloat64(e, lower, upper)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// checkBoundedKernel checks the parameters shared by the bounded kernels.
func checkBoundedKernel(epsilon, lower, upper, numRecords float64, dataLen int) error {
	if err := checks.CheckEpsilonStrict(epsilon); err != nil {
		return err
	}
	if err := checks.CheckBoundsFloat64(lower, upper); err != nil {
		return err
	}
	if err := checks.CheckNumRecords(numRecords); err != nil {
		return err
	}
	return checks.CheckNotEmpty(dataLen, "Data")
}

func laplaceOrDefault(l *noise.Laplace) *noise.Laplace {
	if l == nil {
		return noise.NewLaplace(rand.NewSecure())
	}
	return l
}
