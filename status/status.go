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

// Package status defines the error kinds reported while decoding, validating
// and evaluating an analysis.
package status

import (
	"errors"
	"fmt"
)

// Kind categorizes an error.
type Kind string

// Error kinds.
const (
	// SchemaError means bytes failed to decode against the wire schema.
	SchemaError Kind = "SchemaError"
	// GraphStructureError covers cycles, dangling references and missing arguments.
	GraphStructureError Kind = "GraphStructureError"
	// TypeError means an argument has the wrong element type.
	TypeError Kind = "TypeError"
	// ShapeError means argument shapes are not conformable.
	ShapeError Kind = "ShapeError"
	// DomainError means a numeric parameter is out of its domain, e.g. ε ≤ 0 or min ≥ max.
	DomainError Kind = "DomainError"
	// UnsupportedMechanism means a mechanism other than Laplace was requested.
	UnsupportedMechanism Kind = "UnsupportedMechanism"
	// IngestionError means a table could not be read or parsed.
	IngestionError Kind = "IngestionError"
)

// Error is an error of a given Kind, optionally attributed to a graph node.
type Error struct {
	Kind Kind
	// Node is the id of the node the error is attributed to. Only meaningful
	// when HasNode is set.
	Node    uint32
	HasNode bool
	Msg     string
	// Err is the underlying cause, if any.
	Err error
}

// Errorf returns an *Error of the given kind with a formatted message. If the
// last argument is an error wrapped with %w, it is kept as the cause.
func Errorf(kind Kind, format string, args ...any) *Error {
	wrapped := fmt.Errorf(format, args...)
	return &Error{Kind: kind, Msg: wrapped.Error(), Err: errors.Unwrap(wrapped)}
}

// AtNode returns a copy of err attributed to node id. Errors that are not
// *Error are wrapped into an *Error of kind fallback.
func AtNode(err error, id uint32, fallback Kind) *Error {
	var e *Error
	if !errors.As(err, &e) {
		return &Error{Kind: fallback, Node: id, HasNode: true, Msg: err.Error(), Err: err}
	}
	c := *e
	c.Node, c.HasNode = id, true
	return &c
}

func (e *Error) Error() string {
	if e.HasNode {
		return fmt.Sprintf("%s: node %d: %s", e.Kind, e.Node, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether err, or an error it wraps, is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf returns the kind of err, or "" if err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
