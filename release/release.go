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

// Package release holds the publicly disclosable outputs of an analysis.
package release

import (
	"slices"

	"github.com/joshua-oss/yarrow/value"
	"golang.org/x/exp/maps"
)

// Release maps node ids to their released values.
type Release map[uint32]*value.Value

// IDs returns the released node ids in ascending order.
func (r Release) IDs() []uint32 {
	ids := maps.Keys(r)
	slices.Sort(ids)
	return ids
}

// Clone returns a deep copy of r. A nil release clones to an empty one.
func (r Release) Clone() Release {
	c := make(Release, len(r))
	for id, v := range r {
		c[id] = v.Clone()
	}
	return c
}

// Merge adds the values of other to r. Values already in r are kept, so a
// release never changes a value it has disclosed.
func (r Release) Merge(other Release) {
	for id, v := range other {
		if _, ok := r[id]; !ok {
			r[id] = v
		}
	}
}

// Project returns the entries of r whose ids are in ids. Missing ids are
// skipped.
func (r Release) Project(ids []uint32) Release {
	out := make(Release, len(ids))
	for _, id := range ids {
		if v, ok := r[id]; ok {
			out[id] = v
		}
	}
	return out
}

// Has reports whether id is released.
func (r Release) Has(id uint32) bool {
	_, ok := r[id]
	return ok
}
