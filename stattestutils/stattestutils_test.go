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

package stattestutils

import (
	"errors"
	"math"
	"testing"
)

var elevenPoints = []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

func TestSampleStatistics(t *testing.T) {
	for _, tc := range []struct {
		desc string
		got  float64
		want float64
	}{
		{"mean of nothing", SampleMean(nil), 0},
		{"mean of one value", SampleMean([]float64{100.123}), 100.123},
		{"mean", SampleMean(elevenPoints), 5},
		{"variance of nothing", SampleVariance(nil), 0},
		{"variance of one value", SampleVariance([]float64{100.123}), 0},
		{"variance", SampleVariance(elevenPoints), 10},
		{"first raw moment", SampleRawMoment(elevenPoints, 1), 5},
		{"second raw moment", SampleRawMoment([]float64{1, 2, 3}, 2), 14.0 / 3},
		{"raw moment of nothing", SampleRawMoment(nil, 3), 0},
		{"covariance with itself", SampleCovariance(elevenPoints, elevenPoints), 10},
		{"anti-correlated covariance", SampleCovariance([]float64{1, 2, 3}, []float64{3, 2, 1}), -2.0 / 3},
		{"covariance of nothing", SampleCovariance(nil, nil), 0},
	} {
		if math.Abs(tc.got-tc.want) > 1e-10 {
			t.Errorf("%s: got %f, want %f", tc.desc, tc.got, tc.want)
		}
	}
}

func TestDraw(t *testing.T) {
	i := 0
	got, err := Draw(3, func() (float64, error) { i++; return float64(i), nil })
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if SampleMean(got) != 2 {
		t.Errorf("Draw: got %v, want [1 2 3]", got)
	}

	calls := 0
	boom := errors.New("boom")
	if _, err := Draw(5, func() (float64, error) { calls++; return 0, boom }); !errors.Is(err, boom) || calls != 1 {
		t.Errorf("Draw: got error %v after %d calls, want boom after 1", err, calls)
	}
}

func TestLaplaceTolerance(t *testing.T) {
	// Scale 2 has variance 8; 800 samples have a standard error of 0.1.
	if got := LaplaceTolerance(2, 800, 3); math.Abs(got-0.3) > 1e-12 {
		t.Errorf("LaplaceTolerance(2, 800, 3): got %f, want 0.3", got)
	}
}
