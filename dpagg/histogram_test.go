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
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/joshua-oss/yarrow/checks"
	"github.com/joshua-oss/yarrow/noise"
	"github.com/joshua-oss/yarrow/status"
)

func TestHistogramLaplaceNoNoise(t *testing.T) {
	labels, counts, err := HistogramLaplace([]float64{0, 5, 10, -3, 12}, &HistogramOptions{
		Epsilon:       1,
		Lower:         0,
		Upper:         10,
		NumBins:       2,
		InclusiveLeft: true,
		Noise:         noNoise(),
	})
	if err != nil {
		t.Fatalf("HistogramLaplace: %v", err)
	}
	if diff := cmp.Diff([]string{"[0, 5)", "[5, 10]"}, labels); diff != "" {
		t.Errorf("HistogramLaplace: labels diff (-want +got):\n%s", diff)
	}
	// -3 and 12 are clamped into the outer bins.
	if diff := cmp.Diff([]float64{2, 3}, counts); diff != "" {
		t.Errorf("HistogramLaplace: counts diff (-want +got):\n%s", diff)
	}
}

func TestHistogramLaplacePerturbsEmptyBins(t *testing.T) {
	// b = 2/1, u = 0.25 adds 2·ln 2 to every bin.
	_, counts, err := HistogramLaplace([]float64{1}, &HistogramOptions{
		Epsilon: 1,
		Lower:   0,
		Upper:   10,
		NumBins: 2,
		Noise:   noise.NewLaplace(constSource(0.25)),
	})
	if err != nil {
		t.Fatalf("HistogramLaplace: %v", err)
	}
	want := []float64{1 + 2*math.Ln2, 2 * math.Ln2}
	if diff := cmp.Diff(want, counts, cmp.Comparer(ApproxEqual)); diff != "" {
		t.Errorf("HistogramLaplace: counts diff (-want +got):\n%s", diff)
	}
}

func TestHistogramStabilitySuppressesSmallBins(t *testing.T) {
	labels, counts, err := HistogramStability([]float64{1}, &HistogramOptions{
		Epsilon: 1,
		Delta:   1e-5,
		Lower:   0,
		Upper:   10,
		NumBins: 10,
		Noise:   noNoise(),
	})
	if err != nil {
		t.Fatalf("HistogramStability: %v", err)
	}
	if len(labels) != 10 {
		t.Errorf("HistogramStability: got %d labels, want 10", len(labels))
	}
	if diff := cmp.Diff(make([]float64, 10), counts); diff != "" {
		t.Errorf("HistogramStability: counts diff (-want +got):\n%s", diff)
	}
}

func TestHistogramStabilityReleasesLargeBinsAndKeepsEmptyBinsZero(t *testing.T) {
	data := make([]float64, 40)
	for i := range data {
		data[i] = 1
	}
	// u = 0.25 adds 2·ln 2 ≈ 1.39 to nonempty bins only.
	_, counts, err := HistogramStability(data, &HistogramOptions{
		Epsilon: 1,
		Delta:   1e-5,
		Lower:   0,
		Upper:   10,
		NumBins: 5,
		Noise:   noise.NewLaplace(constSource(0.25)),
	})
	if err != nil {
		t.Fatalf("HistogramStability: %v", err)
	}
	want := []float64{40 + 2*math.Ln2, 0, 0, 0, 0}
	if diff := cmp.Diff(want, counts, cmp.Comparer(ApproxEqual)); diff != "" {
		t.Errorf("HistogramStability: counts diff (-want +got):\n%s", diff)
	}
}

func TestHistogramErrors(t *testing.T) {
	for _, tc := range []struct {
		desc      string
		stability bool
		opt       HistogramOptions
	}{
		{"zero bins", false, HistogramOptions{Epsilon: 1, Lower: 0, Upper: 1, NumBins: 0}},
		{"largest int64 bins", false, HistogramOptions{Epsilon: 1, Lower: 0, Upper: 1, NumBins: math.MaxInt64}},
		{"too many bins", true, HistogramOptions{Epsilon: 1, Delta: 1e-5, Lower: 0, Upper: 1, NumBins: checks.MaxNumBins + 1}},
		{"zero epsilon", false, HistogramOptions{Epsilon: 0, Lower: 0, Upper: 1, NumBins: 1}},
		{"reversed bounds", false, HistogramOptions{Epsilon: 1, Lower: 1, Upper: 0, NumBins: 1}},
		{"zero delta", true, HistogramOptions{Epsilon: 1, Lower: 0, Upper: 1, NumBins: 1}},
		{"delta of one", true, HistogramOptions{Epsilon: 1, Delta: 1, Lower: 0, Upper: 1, NumBins: 1}},
	} {
		tc.opt.Noise = noNoise()
		var err error
		if tc.stability {
			_, _, err = HistogramStability([]float64{0.5}, &tc.opt)
		} else {
			_, _, err = HistogramLaplace([]float64{0.5}, &tc.opt)
		}
		if !status.Is(err, status.DomainError) {
			t.Errorf("histogram: when %s got %v, want a DomainError", tc.desc, err)
		}
	}
}
