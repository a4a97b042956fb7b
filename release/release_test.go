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

package release

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/joshua-oss/yarrow/value"
)

func TestIDsAreSorted(t *testing.T) {
	r := Release{9: value.ScalarF64(1), 2: value.ScalarF64(2), 5: value.ScalarF64(3)}
	if diff := cmp.Diff([]uint32{2, 5, 9}, r.IDs()); diff != "" {
		t.Errorf("IDs: got diff (-want +got):\n%s", diff)
	}
}

func TestCloneIsDeep(t *testing.T) {
	r := Release{1: value.VectorF64([]float64{1, 2})}
	c := r.Clone()
	c[1].F64s()[0] = 42
	if r[1].F64s()[0] != 1 {
		t.Errorf("Clone: modifying the clone changed the original to %v", r[1])
	}
	if got := Release(nil).Clone(); got == nil || len(got) != 0 {
		t.Errorf("Clone(nil): got %v, want an empty release", got)
	}
}

func TestMergeKeepsDisclosedValues(t *testing.T) {
	r := Release{1: value.ScalarF64(1)}
	r.Merge(Release{1: value.ScalarF64(100), 2: value.ScalarF64(2)})
	if got := r[1].F64s()[0]; got != 1 {
		t.Errorf("Merge: overwrote node 1 with %v, want 1", got)
	}
	if !r.Has(2) {
		t.Errorf("Merge: node 2 missing after merge")
	}
}

func TestProject(t *testing.T) {
	r := Release{1: value.ScalarF64(1), 2: value.ScalarF64(2), 3: value.ScalarF64(3)}
	got := r.Project([]uint32{3, 1, 7})
	if diff := cmp.Diff([]uint32{1, 3}, got.IDs()); diff != "" {
		t.Errorf("Project: got diff (-want +got):\n%s", diff)
	}
}
