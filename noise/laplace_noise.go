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

package noise

import (
	"math"

	"github.com/joshua-oss/yarrow/checks"
	"github.com/joshua-oss/yarrow/status"
)

// SampleLaplace draws a sample from the Laplace distribution with location mu
// and scale b by inverting the CDF at a uniform variate u ∈ (-0.5, 0.5):
//
//	x = μ - b·sgn(u)·ln(1 - 2|u|)
//
// It returns a DomainError if b is not strictly positive and finite.
func SampleLaplace(src Source, mu, b float64) (float64, error) {
	if err := checks.CheckScale(b); err != nil {
		return 0, err
	}
	if math.IsNaN(mu) || math.IsInf(mu, 0) {
		return 0, status.Errorf(status.DomainError, "Location is %f, must be finite", mu)
	}
	u := src.CenteredUniform()
	return mu - b*sign(u)*math.Log(1-2*math.Abs(u)), nil
}

// sign returns -1, 0 or +1. Unlike math.Copysign, zero maps to zero, so a
// source that always returns 0 adds no noise.
func sign(u float64) float64 {
	switch {
	case u > 0:
		return 1
	case u < 0:
		return -1
	default:
		return 0
	}
}

// Laplace adds Laplace noise calibrated to an L1 sensitivity and a privacy
// parameter ε. It owns no state besides its source.
type Laplace struct {
	src Source
}

// NewLaplace returns a Laplace noise adder drawing from src.
func NewLaplace(src Source) *Laplace {
	return &Laplace{src: src}
}

// Scale returns the scale b = Δ/ε of the Laplace noise that makes a query with
// L1 sensitivity Δ ε-differentially private.
func Scale(l1Sensitivity, epsilon float64) (float64, error) {
	if err := checks.CheckEpsilonStrict(epsilon); err != nil {
		return 0, err
	}
	if l1Sensitivity < 0 || math.IsNaN(l1Sensitivity) || math.IsInf(l1Sensitivity, 0) {
		return 0, status.Errorf(status.DomainError, "L1Sensitivity is %f, must be nonnegative and finite", l1Sensitivity)
	}
	return l1Sensitivity / epsilon, nil
}

// Sample draws from Laplace(mu, b).
func (l *Laplace) Sample(mu, b float64) (float64, error) {
	return SampleLaplace(l.src, mu, b)
}

// AddNoiseFloat64 adds Laplace noise to x so that the output is
// ε-differentially private given the L1 sensitivity of the query.
//
// A zero sensitivity means the query does not depend on the data (for
// example a mean over a single public record); x is returned unchanged.
func (l *Laplace) AddNoiseFloat64(x, l1Sensitivity, epsilon float64) (float64, error) {
	b, err := Scale(l1Sensitivity, epsilon)
	if err != nil {
		return 0, err
	}
	if b == 0 {
		return x, nil
	}
	n, err := l.Sample(0, b)
	if err != nil {
		return 0, err
	}
	return x + n, nil
}

// StabilityThreshold returns the count below which a noisy histogram bin is
// suppressed by the stability-based histogram:
//
//	2·ln(2/δ)/ε + 1
func StabilityThreshold(epsilon, delta float64) (float64, error) {
	if err := checks.CheckEpsilonStrict(epsilon); err != nil {
		return 0, err
	}
	if err := checks.CheckDeltaStrict(delta); err != nil {
		return 0, err
	}
	return 2*math.Log(2/delta)/epsilon + 1, nil
}

func (*Laplace) String() string {
	return "Laplace Noise"
}
