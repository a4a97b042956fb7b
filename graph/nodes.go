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
	"github.com/joshua-oss/yarrow/noise"
	"github.com/joshua-oss/yarrow/value"
)

// PrivacyParams are the parameters shared by every privatizer.
type PrivacyParams struct {
	Mechanism noise.Mechanism
	Epsilon   float64
}

// NewLiteral returns a node that outputs v.
func NewLiteral(id uint32, v *value.Value) *Node {
	return New(id, Literal, nil, Params{Value: v})
}

// NewDataSource returns a node that reads a table of the dataset. columnID
// may be empty.
func NewDataSource(id uint32, tableID, columnID string) *Node {
	return New(id, DataSource, nil, Params{TableID: tableID, ColumnID: columnID})
}

func newBinary(id uint32, kind Kind, left, right Field) *Node {
	return New(id, kind, map[string]Field{ArgLeft: left, ArgRight: right}, Params{})
}

// NewAdd returns a node computing left + right.
func NewAdd(id uint32, left, right Field) *Node { return newBinary(id, Add, left, right) }

// NewSubtract returns a node computing left - right.
func NewSubtract(id uint32, left, right Field) *Node { return newBinary(id, Subtract, left, right) }

// NewMultiply returns a node computing left * right.
func NewMultiply(id uint32, left, right Field) *Node { return newBinary(id, Multiply, left, right) }

// NewDivide returns a node computing left / right.
func NewDivide(id uint32, left, right Field) *Node { return newBinary(id, Divide, left, right) }

// NewPower returns a node computing left ^ right.
func NewPower(id uint32, left, right Field) *Node { return newBinary(id, Power, left, right) }

// NewNegate returns a node computing -data.
func NewNegate(id uint32, data Field) *Node {
	return New(id, Negate, map[string]Field{ArgData: data}, Params{})
}

func newBounded(id uint32, kind Kind, data, numRecords, minimum, maximum Field, p Params) *Node {
	return New(id, kind, map[string]Field{
		ArgData:       data,
		ArgNumRecords: numRecords,
		ArgMinimum:    minimum,
		ArgMaximum:    maximum,
	}, p)
}

// NewDpMean returns a privatizer releasing the mean of data.
func NewDpMean(id uint32, data, numRecords, minimum, maximum Field, pp PrivacyParams) *Node {
	return newBounded(id, DpMean, data, numRecords, minimum, maximum, Params{Mechanism: pp.Mechanism, Epsilon: pp.Epsilon})
}

// NewDpVariance returns a privatizer releasing the variance of data.
func NewDpVariance(id uint32, data, numRecords, minimum, maximum Field, pp PrivacyParams) *Node {
	return newBounded(id, DpVariance, data, numRecords, minimum, maximum, Params{Mechanism: pp.Mechanism, Epsilon: pp.Epsilon})
}

// NewDpMomentRaw returns a privatizer releasing the order-th raw moment of
// data.
func NewDpMomentRaw(id uint32, data, numRecords, minimum, maximum Field, pp PrivacyParams, order int64) *Node {
	return newBounded(id, DpMomentRaw, data, numRecords, minimum, maximum, Params{Mechanism: pp.Mechanism, Epsilon: pp.Epsilon, Order: order})
}

// CovarianceArgs are the argument edges of a DpCovariance node.
type CovarianceArgs struct {
	DataX, DataY       Field
	NumRecords         Field
	MinimumX, MaximumX Field
	MinimumY, MaximumY Field
}

// NewDpCovariance returns a privatizer releasing the covariance of two
// columns.
func NewDpCovariance(id uint32, args CovarianceArgs, pp PrivacyParams) *Node {
	return New(id, DpCovariance, map[string]Field{
		ArgDataX:      args.DataX,
		ArgDataY:      args.DataY,
		ArgNumRecords: args.NumRecords,
		ArgMinimumX:   args.MinimumX,
		ArgMaximumX:   args.MaximumX,
		ArgMinimumY:   args.MinimumY,
		ArgMaximumY:   args.MaximumY,
	}, Params{Mechanism: pp.Mechanism, Epsilon: pp.Epsilon})
}

// HistogramParams are the parameters specific to DpHistogram.
type HistogramParams struct {
	// Delta selects the stability-based histogram when nonzero.
	Delta         float64
	NumBins       int64
	InclusiveLeft bool
}

// NewDpHistogram returns a privatizer releasing the bin counts of data.
func NewDpHistogram(id uint32, data, minimum, maximum Field, pp PrivacyParams, hp HistogramParams) *Node {
	return New(id, DpHistogram, map[string]Field{
		ArgData:    data,
		ArgMinimum: minimum,
		ArgMaximum: maximum,
	}, Params{
		Mechanism:     pp.Mechanism,
		Epsilon:       pp.Epsilon,
		Delta:         hp.Delta,
		NumBins:       hp.NumBins,
		InclusiveLeft: hp.InclusiveLeft,
	})
}
