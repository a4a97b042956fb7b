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

package graph

import (
	"fmt"

	"github.com/joshua-oss/yarrow/value"
)

// Kind is the closed set of node kinds.
type Kind int32

// Node kinds.
const (
	Literal Kind = iota
	DataSource
	Add
	Subtract
	Multiply
	Divide
	Power
	Negate
	DpMean
	DpVariance
	DpMomentRaw
	DpCovariance
	DpHistogram
)

// NumKinds is the number of node kinds.
const NumKinds = 13

var kindNames = [NumKinds]string{
	"Literal", "DataSource", "Add", "Subtract", "Multiply", "Divide", "Power",
	"Negate", "DpMean", "DpVariance", "DpMomentRaw", "DpCovariance", "DpHistogram",
}

func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int32(k))
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < NumKinds
}

// IsPrivatizer reports whether nodes of kind k add differential privacy noise
// to their output. Their outputs are releasable.
func (k Kind) IsPrivatizer() bool {
	return k >= DpMean && k <= DpHistogram
}

// IsIngestion reports whether nodes of kind k read from the dataset.
func (k Kind) IsIngestion() bool {
	return k == DataSource
}

// IsBinaryArithmetic reports whether k is an elementwise binary operator.
func (k Kind) IsBinaryArithmetic() bool {
	return k >= Add && k <= Power
}

// Argument names.
const (
	ArgLeft       = "left"
	ArgRight      = "right"
	ArgData       = "data"
	ArgDataX      = "data_x"
	ArgDataY      = "data_y"
	ArgNumRecords = "num_records"
	ArgMinimum    = "minimum"
	ArgMaximum    = "maximum"
	ArgMinimumX   = "minimum_x"
	ArgMaximumX   = "maximum_x"
	ArgMinimumY   = "minimum_y"
	ArgMaximumY   = "maximum_y"
)

// ArgSpec declares one required argument of a kind.
type ArgSpec struct {
	Name string
	// Kinds lists the accepted element kinds.
	Kinds []value.Kind
	// Scalar requires the argument to hold exactly one element.
	Scalar bool
}

// Accepts reports whether an argument of element kind vk is accepted.
func (a ArgSpec) Accepts(vk value.Kind) bool {
	for _, k := range a.Kinds {
		if k == vk {
			return true
		}
	}
	return false
}

var (
	numeric = []value.Kind{value.F64, value.I64}
	float   = []value.Kind{value.F64}
)

var signatures = [NumKinds][]ArgSpec{
	Literal:     nil,
	DataSource:  nil,
	Add:         binarySignature,
	Subtract:    binarySignature,
	Multiply:    binarySignature,
	Divide:      binarySignature,
	Power:       binarySignature,
	Negate:      {{Name: ArgData, Kinds: numeric}},
	DpMean:      boundedSignature,
	DpVariance:  boundedSignature,
	DpMomentRaw: boundedSignature,
	DpCovariance: {
		{Name: ArgDataX, Kinds: float},
		{Name: ArgDataY, Kinds: float},
		{Name: ArgNumRecords, Kinds: numeric, Scalar: true},
		{Name: ArgMinimumX, Kinds: float, Scalar: true},
		{Name: ArgMaximumX, Kinds: float, Scalar: true},
		{Name: ArgMinimumY, Kinds: float, Scalar: true},
		{Name: ArgMaximumY, Kinds: float, Scalar: true},
	},
	DpHistogram: {
		{Name: ArgData, Kinds: float},
		{Name: ArgMinimum, Kinds: float, Scalar: true},
		{Name: ArgMaximum, Kinds: float, Scalar: true},
	},
}

var binarySignature = []ArgSpec{
	{Name: ArgLeft, Kinds: numeric},
	{Name: ArgRight, Kinds: numeric},
}

var boundedSignature = []ArgSpec{
	{Name: ArgData, Kinds: float},
	{Name: ArgNumRecords, Kinds: numeric, Scalar: true},
	{Name: ArgMinimum, Kinds: float, Scalar: true},
	{Name: ArgMaximum, Kinds: float, Scalar: true},
}

// Signature returns the arguments nodes of kind k require, in declaration
// order. The caller must not modify the result.
func (k Kind) Signature() []ArgSpec {
	if !k.Valid() {
		return nil
	}
	return signatures[k]
}

// Arg returns the declaration of the named argument of k.
func (k Kind) Arg(name string) (ArgSpec, bool) {
	for _, a := range k.Signature() {
		if a.Name == name {
			return a, true
		}
	}
	return ArgSpec{}, false
}
