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

// Package noise contains methods to generate and add noise to data.
package noise

import (
	log "github.com/golang/glog"
	"github.com/joshua-oss/yarrow/status"
)

// Mechanism is an enum type. Its values are the noise mechanisms an analysis
// may request. The numeric values are part of the wire format.
type Mechanism int32

// Mechanisms declared by the schema. Only Laplace is implemented.
const (
	LaplaceMechanism Mechanism = iota
	GaussianMechanism
	ExponentialMechanism
)

func (m Mechanism) String() string {
	switch m {
	case LaplaceMechanism:
		return "Laplace"
	case GaussianMechanism:
		return "Gaussian"
	case ExponentialMechanism:
		return "Exponential"
	default:
		return "Unrecognised"
	}
}

// Source supplies uniform variates on the open interval (-0.5, 0.5).
// *rand.Rand implements Source.
type Source interface {
	CenteredUniform() float64
}

// ForMechanism returns the Laplace noise adder for LaplaceMechanism and an
// UnsupportedMechanism error for any other mechanism.
func ForMechanism(m Mechanism, src Source) (*Laplace, error) {
	switch m {
	case LaplaceMechanism:
		return NewLaplace(src), nil
	case GaussianMechanism, ExponentialMechanism:
		log.Warningf("ForMechanism: %v mechanism is declared but not implemented", m)
		return nil, status.Errorf(status.UnsupportedMechanism, "%v mechanism is not supported, only Laplace is", m)
	default:
		return nil, status.Errorf(status.UnsupportedMechanism, "unknown mechanism (%d)", int32(m))
	}
}
