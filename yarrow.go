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

// Package yarrow computes differentially private releases of analyses.
//
// An analysis is a graph of nodes: literals, dataset columns, elementwise
// arithmetic and differentially private statistics (privatizers). Only the
// outputs of privatizers are released. Every entry point takes and returns
// messages in the wire format of package codec.
package yarrow

import (
	"github.com/joshua-oss/yarrow/codec"
	"github.com/joshua-oss/yarrow/evaluator"
	"github.com/joshua-oss/yarrow/noise"
	"github.com/joshua-oss/yarrow/rand"
	"github.com/joshua-oss/yarrow/validator"
)

// Option configures ComputeRelease.
type Option func(*evaluator.Options)

// WithSeed makes the noise of the release reproducible. Seeded noise does not
// protect privacy; use it for tests and demonstrations only.
func WithSeed(seed int64) Option {
	return func(o *evaluator.Options) { o.Source = rand.NewSeeded(seed) }
}

// WithSource draws the noise of the release from src.
func WithSource(src noise.Source) Option {
	return func(o *evaluator.Options) { o.Source = src }
}

// WithRequestID tags the log lines of the release with id.
func WithRequestID(id string) Option {
	return func(o *evaluator.Options) { o.RequestID = id }
}

// ComputeRelease decodes a Dataset, an Analysis and a Release, computes the
// release of the analysis and returns it encoded as a Release message. On an
// evaluation error, the partial release is returned along with the error.
func ComputeRelease(datasetBytes, analysisBytes, releaseBytes []byte, opts ...Option) ([]byte, error) {
	ds, err := codec.DecodeDataset(datasetBytes)
	if err != nil {
		return nil, err
	}
	g, err := codec.DecodeAnalysis(analysisBytes)
	if err != nil {
		return nil, err
	}
	in, err := codec.DecodeRelease(releaseBytes)
	if err != nil {
		return nil, err
	}
	opt := &evaluator.Options{}
	for _, o := range opts {
		o(opt)
	}
	out, err := evaluator.ComputeRelease(g, in, ds, opt)
	return codec.EncodeRelease(out), err
}

// ValidateAnalysis validates an Analysis against a Release and returns the
// result encoded as a Validated message. The error is only set if the input
// cannot be decoded.
func ValidateAnalysis(analysisBytes, releaseBytes []byte) ([]byte, error) {
	g, err := codec.DecodeAnalysis(analysisBytes)
	if err != nil {
		return nil, err
	}
	in, err := codec.DecodeRelease(releaseBytes)
	if err != nil {
		return nil, err
	}
	return codec.EncodeValidated(validator.Validate(g, in, nil)), nil
}

// ComputeSensitivities returns the L1 sensitivities of the release nodes of an
// Analysis, encoded as a Sensitivities message.
func ComputeSensitivities(analysisBytes, releaseBytes []byte) ([]byte, error) {
	g, err := codec.DecodeAnalysis(analysisBytes)
	if err != nil {
		return nil, err
	}
	in, err := codec.DecodeRelease(releaseBytes)
	if err != nil {
		return nil, err
	}
	s, err := validator.ComputeSensitivities(g, in)
	if err != nil {
		return nil, err
	}
	return codec.EncodeSensitivities(s), nil
}

// ComputePrivacyUsage returns the privacy usage of an Analysis. Accounting is
// not implemented; the result is an empty message.
func ComputePrivacyUsage(analysisBytes, releaseBytes []byte) ([]byte, error) {
	if _, err := codec.DecodeAnalysis(analysisBytes); err != nil {
		return nil, err
	}
	return []byte{}, nil
}

// GenerateReport returns a report on a Release. Reports are not implemented;
// the result is an empty message.
func GenerateReport(analysisBytes, releaseBytes []byte) ([]byte, error) {
	if _, err := codec.DecodeRelease(releaseBytes); err != nil {
		return nil, err
	}
	return []byte{}, nil
}

// InferConstraints returns the Analysis unchanged.
func InferConstraints(analysisBytes, releaseBytes []byte) ([]byte, error) {
	g, err := codec.DecodeAnalysis(analysisBytes)
	if err != nil {
		return nil, err
	}
	return codec.EncodeAnalysis(g), nil
}

// AccuracyToPrivacyUsage is not implemented; it returns an empty message.
func AccuracyToPrivacyUsage(componentBytes, accuracyBytes []byte) ([]byte, error) {
	return []byte{}, nil
}

// PrivacyUsageToAccuracy is not implemented; it returns an empty message.
func PrivacyUsageToAccuracy(componentBytes, usageBytes []byte) ([]byte, error) {
	return []byte{}, nil
}
