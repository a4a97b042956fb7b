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
	"testing"

	"github.com/joshua-oss/yarrow/rand"
	"github.com/joshua-oss/yarrow/status"
)

var (
	ln2 = math.Log(2)
	ln3 = math.Log(3)
)

// constSource always returns the same centered uniform.
type constSource float64

func (c constSource) CenteredUniform() float64 { return float64(c) }

func nearEqual(a, b, maxError float64) bool {
	return math.Abs(a-b) < maxError
}

func TestMechanismString(t *testing.T) {
	for _, tc := range []struct {
		m    Mechanism
		want string
	}{
		{LaplaceMechanism, "Laplace"},
		{GaussianMechanism, "Gaussian"},
		{ExponentialMechanism, "Exponential"},
		{Mechanism(7), "Unrecognised"},
	} {
		if got := tc.m.String(); got != tc.want {
			t.Errorf("String: for %d got %q, want %q", int32(tc.m), got, tc.want)
		}
	}
}

func TestForMechanism(t *testing.T) {
	for _, tc := range []struct {
		m       Mechanism
		wantErr bool
	}{
		{LaplaceMechanism, false},
		{GaussianMechanism, true},
		{ExponentialMechanism, true},
		{Mechanism(-1), true},
	} {
		l, err := ForMechanism(tc.m, constSource(0))
		if (err != nil) != tc.wantErr {
			t.Errorf("ForMechanism(%v): got err %v, want error %t", tc.m, err, tc.wantErr)
		}
		if err != nil && !status.Is(err, status.UnsupportedMechanism) {
			t.Errorf("ForMechanism(%v): got error kind %q, want %q", tc.m, status.KindOf(err), status.UnsupportedMechanism)
		}
		if err == nil && l == nil {
			t.Errorf("ForMechanism(%v): got nil noise adder with nil error", tc.m)
		}
	}
}

var benchResultFloat64 float64

func BenchmarkLaplaceFloat64(b *testing.B) {
	lap := NewLaplace(rand.NewSeeded(1))
	var r float64
	for i := 0; i < b.N; i++ {
		r, _ = lap.AddNoiseFloat64(42, 1, ln3)
	}
	benchResultFloat64 = r
}
