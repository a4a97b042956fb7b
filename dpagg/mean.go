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
	"github.com/joshua-oss/yarrow/noise"
	"gonum.org/v1/gonum/stat"
)

// MeanOptions contains the options necessary to compute a differentially
// private mean.
type MeanOptions struct {
	Epsilon float64 // Privacy parameter ε. Required.
	// Lower and Upper bounds for clamping. Required; must be such that Lower < Upper.
	Lower, Upper float64
	NumRecords   float64        // Public number of records n. Required.
	Noise        *noise.Laplace // Defaults to Laplace noise from a secure source.
}

// MeanSensitivity returns the L1 sensitivity (upper - lower) / n of the mean
// of n values clamped to [lower, upper].
func MeanSensitivity(lower, upper, numRecords float64) float64 {
	return (upper - lower) / numRecords
}

// Mean returns a differentially private arithmetic mean of data clamped to
// [opt.Lower, opt.Upper].
func Mean(data []float64, opt *MeanOptions) (float64, error) {
	if opt == nil {
		opt = &MeanOptions{}
	}
	if err := checkBoundedKernel(opt.Epsilon, opt.Lower, opt.Upper, opt.NumRecords, len(data)); err != nil {
		return 0, fmt.Errorf("Mean: %w", err)
	}
	if n := float64(len(data)); n != opt.NumRecords {
		log.Warningf("Mean: data has %v records, NumRecords is %v", n, opt.NumRecords)
	}
	clamped, err := ClampFloat64s(data, opt.Lower, opt.Upper)
	if err != nil {
		return 0, err
	}
	mean := stat.Mean(clamped, nil)
	return laplaceOrDefault(opt.Noise).AddNoiseFloat64(mean, MeanSensitivity(opt.Lower, opt.Upper, opt.NumRecords), opt.Epsilon)
}
