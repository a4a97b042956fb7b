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

// Package dataset describes the tables an analysis reads and ingests them
// into values.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	log "github.com/golang/glog"
	"github.com/joshua-oss/yarrow/status"
	"github.com/joshua-oss/yarrow/value"
)

// Table is either a column of a CSV file or an inline literal. Exactly one of
// FilePath and Literal is set.
type Table struct {
	// FilePath is a CSV file whose first line is a header.
	FilePath string
	// Column selects a column of the CSV file by header name. If empty, the
	// first column is read.
	Column string
	// ElementType is the kind the column is parsed as.
	ElementType value.Kind

	Literal *value.Value
}

// Dataset is a named collection of tables. It is read-only while an analysis
// is evaluated.
type Dataset struct {
	Tables map[string]*Table
}

// Load returns the contents of the named table. A non-empty column overrides
// the table's column.
func (d *Dataset) Load(tableID, column string) (*value.Value, error) {
	if d == nil {
		return nil, status.Errorf(status.IngestionError, "no dataset, cannot read table %q", tableID)
	}
	t, ok := d.Tables[tableID]
	if !ok || t == nil {
		return nil, status.Errorf(status.IngestionError, "table %q is not in the dataset", tableID)
	}
	switch {
	case t.Literal != nil && t.FilePath != "":
		return nil, status.Errorf(status.IngestionError, "table %q has both a file path and a literal", tableID)
	case t.Literal != nil:
		return t.Literal.Clone(), nil
	case t.FilePath != "":
		if column == "" {
			column = t.Column
		}
		return ReadColumnFile(t.FilePath, column, t.ElementType)
	default:
		return nil, status.Errorf(status.IngestionError, "table %q has neither a file path nor a literal", tableID)
	}
}

// ReadColumnFile reads one column of a CSV file. See ReadColumn.
func ReadColumnFile(path, column string, kind value.Kind) (*value.Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, status.Errorf(status.IngestionError, "couldn't open the csv file = %q: %w", path, err)
	}
	defer f.Close()
	v, err := ReadColumn(f, column, kind)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	log.V(1).Infof("read %d records of column %q from %q", v.Len(), column, path)
	return v, nil
}

// ReadColumn reads the named column of CSV data whose first record is a
// header and parses every cell as kind. An empty column name selects the
// first column. The result is a 1-D array.
//
// BYTES cells hold one byte each, written as a decimal number in [0, 255].
func ReadColumn(r io.Reader, column string, kind value.Kind) (*value.Value, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return nil, status.Errorf(status.IngestionError, "csv data is empty, want a header line")
	}
	if err != nil {
		return nil, status.Errorf(status.IngestionError, "couldn't read the csv header: %w", err)
	}
	idx := 0
	if column != "" {
		idx = -1
		for i, h := range header {
			if strings.TrimSpace(h) == column {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, status.Errorf(status.IngestionError, "column %q not found in header %q", column, header)
		}
	}

	p, err := newParser(kind)
	if err != nil {
		return nil, err
	}
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, status.Errorf(status.IngestionError, "couldn't read the csv data: %w", err)
		}
		if idx >= len(record) {
			return nil, status.Errorf(status.IngestionError, "line %d has %d fields, want at least %d", line, len(record), idx+1)
		}
		if err := p.parse(strings.TrimSpace(record[idx])); err != nil {
			return nil, status.Errorf(status.IngestionError, "couldn't read %q on line %d as %v: %w", record[idx], line, kind, err)
		}
	}
	return p.value(), nil
}

// parser accumulates the cells of a column as one element kind.
type parser struct {
	kind  value.Kind
	f64   []float64
	i64   []int64
	bools []bool
	strs  []string
	bytes []byte
}

func newParser(kind value.Kind) (*parser, error) {
	switch kind {
	case value.F64, value.I64, value.Bool, value.String, value.Bytes:
		return &parser{kind: kind}, nil
	default:
		return nil, status.Errorf(status.IngestionError, "unknown element type %v", kind)
	}
}

func (p *parser) parse(cell string) error {
	switch p.kind {
	case value.F64:
		x, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return err
		}
		p.f64 = append(p.f64, x)
	case value.I64:
		x, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return err
		}
		p.i64 = append(p.i64, x)
	case value.Bool:
		x, err := strconv.ParseBool(cell)
		if err != nil {
			return err
		}
		p.bools = append(p.bools, x)
	case value.String:
		p.strs = append(p.strs, cell)
	case value.Bytes:
		x, err := strconv.ParseUint(cell, 10, 8)
		if err != nil {
			return err
		}
		p.bytes = append(p.bytes, byte(x))
	}
	return nil
}

func (p *parser) value() *value.Value {
	switch p.kind {
	case value.F64:
		return value.VectorF64(nonNil(p.f64))
	case value.I64:
		return value.VectorI64(nonNil(p.i64))
	case value.Bool:
		return value.VectorBool(nonNil(p.bools))
	case value.String:
		return value.VectorString(nonNil(p.strs))
	default:
		return value.VectorBytes(nonNil(p.bytes))
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
