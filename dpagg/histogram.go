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

	log "github.com/golang/glog"
	"github.com/joshua-oss/yarrow/binning"
	"github.com/joshua-oss/yarrow/checks"
	"github.com/joshua-oss/yarrow/noise"
)

// HistogramSensitivity is the L1 sensitivity of a vector of bin counts:
// changing one record moves one unit of count from one bin to another.
const HistogramSensitivity = 2.0

// HistogramOptions contains the options necessary to compute a
// differentially private histogram.
type HistogramOptions struct {
	Epsilon float64 // Privacy parameter ε. Required.
	// Privacy parameter δ. Required by HistogramStability, ignored by
	// HistogramLaplace.
	Delta float64
	// Lower and Upper bounds of the bins. Required; must be such that Lower < Upper.
	Lower, Upper  float64
	NumBins       int64          // Number of equal-width bins. Required; must be at least 1.
	InclusiveLeft bool           // Interior bins are [a, b) if set and (a, b] otherwise.
	Noise         *noise.Laplace // Defaults to Laplace noise from a secure source.
}

func histogramCounts(data []float64, opt *HistogramOptions) ([]string, []float64, error) {
	if err := checks.CheckEpsilonStrict(opt.Epsilon); err != nil {
		return nil, nil, err
	}
	if err := checks.CheckBoundsFloat64(opt.Lower, opt.Upper); err != nil {
		return nil, nil, err
	}
	if err := checks.CheckNotEmpty(len(data), "Data"); err != nil {
		return nil, nil, err
	}
	clamped, err := ClampFloat64s(data, opt.Lower, opt.Upper)
	if err != nil {
		return nil, nil, err
	}
	return binning.Counts(clamped, opt.Lower, opt.Upper, opt.NumBins, opt.InclusiveLeft)
}

// HistogramLaplace returns the labels of opt.NumBins equal-width bins over
// [opt.Lower, opt.Upper] and differentially private counts of the clamped
// data in each of them.
func HistogramLaplace(data []float64, opt *HistogramOptions) ([]string, []float64, error) {
	if opt == nil {
		opt = &HistogramOptions{}
	}
	labels, counts, err := histogramCounts(data, opt)
	if err != nil {
		return nil, nil, fmt.Errorf("HistogramLaplace: %w", err)
	}
	lap := laplaceOrDefault(opt.Noise)
	for i, c := range counts {
		if counts[i], err = lap.AddNoiseFloat64(c, HistogramSensitivity, opt.Epsilon); err != nil {
			return nil, nil, err
		}
	}
	return labels, counts, nil
}

// HistogramStability returns a stability-based differentially private
// histogram. Bins that are empty in the data are never perturbed and stay
// zero. Noise is added to the other bins, and a noisy count below
// noise.StabilityThreshold(ε, δ) is suppressed to zero.
func HistogramStability(data []float64, opt *HistogramOptions) ([]string, []float64, error) {
	if opt == nil {
		opt = &HistogramOptions{}
	}
	threshold, err := noise.StabilityThreshold(opt.Epsilon, opt.Delta)
	if err != nil {
		return nil, nil, fmt.Errorf("HistogramStability: %w", err)
	}
	labels, counts, err := histogramCounts(data, opt)
	if err != nil {
		return nil, nil, fmt.Errorf("HistogramStability: %w", err)
	}
	lap := laplaceOrDefault(opt.Noise)
	suppressed := 0
	for i, c := range counts {
		if c == 0 {
			continue
		}
		noisy, err := lap.AddNoiseFloat64(c, HistogramSensitivity, opt.Epsilon)
		if err != nil {
			return nil, nil, err
		}
		if noisy < threshold {
			noisy = 0
			suppressed++
		}
		counts[i] = noisy
	}
	log.V(1).Infof("HistogramStability: suppressed %d of %d bins below threshold %f", suppressed, len(counts), threshold)
	return labels, counts, nil
}
