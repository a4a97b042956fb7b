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

// Package checks contains parameter checks for differentially private kernels.
// Every check returns a status.DomainError.
package checks

import (
	"fmt"
	"math"

	log "github.com/golang/glog"
	"github.com/joshua-oss/yarrow/status"
)

const (
	epsilonName = "Epsilon"
	deltaName   = "Delta"
)

func verifyName(defaultName string, nameSlice []string) (string, error) {
	switch len(nameSlice) {
	case 0:
		return defaultName, nil
	case 1:
		return nameSlice[0], nil
	default:
		return "", fmt.Errorf("there should be 0 or 1 'name' parameter, got %d", len(nameSlice))
	}
}

// CheckEpsilonStrict returns an error if ε is nonpositive, +∞ or NaN.
func CheckEpsilonStrict(epsilon float64, name ...string) error {
	epsName, err := verifyName(epsilonName, name)
	if err != nil {
		return err
	}
	if epsilon <= 0 || math.IsInf(epsilon, 0) || math.IsNaN(epsilon) {
		return status.Errorf(status.DomainError, "%s is %f, must be strictly positive and finite", epsName, epsilon)
	}
	return nil
}

// CheckDeltaStrict returns an error if δ is nonpositive, NaN or greater than
// or equal to 1.
func CheckDeltaStrict(delta float64, name ...string) error {
	delName, err := verifyName(deltaName, name)
	if err != nil {
		return err
	}
	if math.IsNaN(delta) {
		return status.Errorf(status.DomainError, "%s is %e, cannot be NaN", delName, delta)
	}
	if delta <= 0 {
		return status.Errorf(status.DomainError, "%s is %e, must be strictly positive", delName, delta)
	}
	if delta >= 1 {
		return status.Errorf(status.DomainError, "%s is %e, must be strictly less than 1", delName, delta)
	}
	return nil
}

// CheckBoundsFloat64 returns an error if either bound is NaN or ±∞, or if
// lower is not strictly smaller than upper.
func CheckBoundsFloat64(lower, upper float64) error {
	if math.IsNaN(lower) {
		return status.Errorf(status.DomainError, "Lower bound cannot be NaN")
	}
	if math.IsNaN(upper) {
		return status.Errorf(status.DomainError, "Upper bound cannot be NaN")
	}
	if math.IsInf(lower, 0) {
		return status.Errorf(status.DomainError, "Lower bound cannot be infinity")
	}
	if math.IsInf(upper, 0) {
		return status.Errorf(status.DomainError, "Upper bound cannot be infinity")
	}
	if lower >= upper {
		return status.Errorf(status.DomainError, "Upper bound (%g) must be strictly larger than lower bound (%g)", upper, lower)
	}
	return nil
}

// CheckNumRecords returns an error if the public record count n is
// nonpositive, +∞ or NaN.
func CheckNumRecords(n float64) error {
	if n <= 0 || math.IsInf(n, 0) || math.IsNaN(n) {
		return status.Errorf(status.DomainError, "NumRecords is %f, must be strictly positive and finite", n)
	}
	if n != math.Trunc(n) {
		log.Warningf("NumRecords is %f, which is not a whole number of records", n)
	}
	return nil
}

// MaxNumBins is the largest number of histogram bins accepted.
const MaxNumBins = 1 << 20

// CheckNumBins returns an error if numBins is less than 1 or greater than
// MaxNumBins.
func CheckNumBins(numBins int64) error {
	if numBins < 1 {
		return status.Errorf(status.DomainError, "NumBins is %d, must be at least 1", numBins)
	}
	if numBins > MaxNumBins {
		return status.Errorf(status.DomainError, "NumBins is %d, must be at most %d", numBins, MaxNumBins)
	}
	return nil
}

// CheckOrder returns an error if the moment order is less than 1.
func CheckOrder(order int64) error {
	if order < 1 {
		return status.Errorf(status.DomainError, "Order is %d, must be at least 1", order)
	}
	return nil
}

// CheckScale returns an error if the noise scale b is nonpositive, +∞ or NaN.
func CheckScale(b float64) error {
	if b <= 0 || math.IsInf(b, 0) || math.IsNaN(b) {
		return status.Errorf(status.DomainError, "Scale is %f, must be strictly positive and finite", b)
	}
	return nil
}

// CheckNotEmpty returns an error if a data argument has no records.
func CheckNotEmpty(length int, name string) error {
	if length == 0 {
		return status.Errorf(status.DomainError, "%s is empty, must contain at least one record", name)
	}
	return nil
}
