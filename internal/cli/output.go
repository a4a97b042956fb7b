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

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/joshua-oss/yarrow/release"
	"github.com/joshua-oss/yarrow/status"
	"github.com/joshua-oss/yarrow/value"
)

// Response is the JSON document every command writes with --format json.
type Response struct {
	Status string      `json:"status"` // "ok" or "error"
	Data   any         `json:"data,omitempty"`
	Error  *ErrorField `json:"error,omitempty"`
}

// ErrorField describes a failed command.
type ErrorField struct {
	Kind    string  `json:"kind,omitempty"`
	Node    *uint32 `json:"node,omitempty"`
	Message string  `json:"message"`
}

// Value is the JSON form of a value.Value.
type Value struct {
	Type  string `json:"type"`
	Shape []int  `json:"shape"`
	Data  any    `json:"data"`
}

func newValue(v *value.Value) Value {
	out := Value{Type: v.Kind().String(), Shape: v.Shape()}
	if out.Shape == nil {
		out.Shape = []int{}
	}
	switch v.Kind() {
	case value.F64:
		out.Data = v.F64s()
	case value.I64:
		out.Data = v.I64s()
	case value.Bool:
		out.Data = v.Bools()
	case value.String:
		out.Data = v.Strings()
	case value.Bytes:
		// []byte would be marshalled as base64.
		xs := make([]int, len(v.Bytes()))
		for i, b := range v.Bytes() {
			xs[i] = int(b)
		}
		out.Data = xs
	}
	return out
}

func newRelease(r release.Release) map[uint32]Value {
	out := make(map[uint32]Value, len(r))
	for id, v := range r {
		out[id] = newValue(v)
	}
	return out
}

func newErrorField(err error) *ErrorField {
	out := &ErrorField{Message: err.Error()}
	var e *status.Error
	if errors.As(err, &e) {
		out.Kind, out.Message = string(e.Kind), e.Msg
		if e.HasNode {
			id := e.Node
			out.Node = &id
		}
	}
	return out
}

// formatter writes command output as text or JSON.
type formatter struct {
	json bool
	w    io.Writer
}

func newFormatter(opts *RootOptions, w io.Writer) *formatter {
	return &formatter{json: opts.Format == "json", w: w}
}

// result writes data, or err along with data if err is not nil. text writes
// the text form of the output.
func (f *formatter) result(data any, err error, text func(io.Writer)) error {
	if f.json {
		resp := Response{Status: "ok", Data: data}
		if err != nil {
			resp.Status, resp.Error = "error", newErrorField(err)
		}
		enc := json.NewEncoder(f.w)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(resp); encErr != nil {
			return encErr
		}
		return err
	}
	if text != nil {
		text(f.w)
	}
	if err != nil {
		fmt.Fprintf(f.w, "error: %v\n", err)
	}
	return err
}

func writeRelease(w io.Writer, r release.Release) {
	for _, id := range r.IDs() {
		fmt.Fprintf(w, "node %d: %v\n", id, r[id])
	}
}
