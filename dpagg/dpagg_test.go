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

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/joshua-oss/yarrow/noise"
)

// This file contains structs, functions, and values used to test DP aggregations.

var (
	ln3    = math.Log(3)
	tenten = math.Pow10(-10)
)

// zeroSource is a noise.Source whose uniform variates are always 0, so that
// Laplace noise sampled from it is exactly 0.
type zeroSource struct{}

func (zeroSource) CenteredUniform() float64 { return 0 }

// constSource always returns the same centered uniform.
type constSource float64

func (c constSource) CenteredUniform() float64 { return float64(c) }

func noNoise() *noise.Laplace {
	return noise.NewLaplace(zeroSource{})
}

func ApproxEqual(x, y float64) bool {
	return cmp.Equal(x, y, cmpopts.EquateApprox(0, tenten))
}
