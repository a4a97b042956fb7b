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

package rand

import (
	"bytes"
	"math"
	"testing"
)

func TestU64IsLittleEndian(t *testing.T) {
	r := New(bytes.NewReader([]byte{
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x80,
	}))
	for i, want := range []uint64{1, 1<<63 | 1<<8} {
		if got := r.U64(); got != want {
			t.Errorf("U64: got %#x, want %#x in %d-th iteration", got, want, i)
		}
	}
}

func TestUniformNeverReturnsEndpoints(t *testing.T) {
	for _, tc := range []struct {
		desc string
		b    byte
		want float64
	}{
		{"all zero bits", 0x00, math.Ldexp(0.5, -52)},
		{"all one bits", 0xff, 1 - math.Ldexp(0.5, -52)},
	} {
		r := New(bytes.NewReader(bytes.Repeat([]byte{tc.b}, 8)))
		got := r.Uniform()
		if got != tc.want {
			t.Errorf("Uniform: when %s got %v, want %v", tc.desc, got, tc.want)
		}
		if got <= 0 || got >= 1 {
			t.Errorf("Uniform: when %s got %v, want a value in (0, 1)", tc.desc, got)
		}
	}
}

func TestCenteredUniformIsInOpenInterval(t *testing.T) {
	for _, b := range []byte{0x00, 0x7f, 0x80, 0xff} {
		r := New(bytes.NewReader(bytes.Repeat([]byte{b}, 8)))
		if got := r.CenteredUniform(); got <= -0.5 || got >= 0.5 {
			t.Errorf("CenteredUniform: for bytes %#x got %v, want a value in (-0.5, 0.5)", b, got)
		}
	}
}

func TestNewSeededIsDeterministic(t *testing.T) {
	r1, r2 := NewSeeded(42), NewSeeded(42)
	for i := 0; i < 100; i++ {
		if a, b := r1.CenteredUniform(), r2.CenteredUniform(); a != b {
			t.Fatalf("CenteredUniform: seeded generators diverged at %d-th draw: %v != %v", i, a, b)
		}
	}
}

func TestNewSecureProducesDistinctValues(t *testing.T) {
	r := NewSecure()
	seen := make(map[uint64]bool)
	for i := 0; i < 16; i++ {
		seen[r.U64()] = true
	}
	if len(seen) < 2 {
		t.Errorf("U64: got %d distinct values out of 16 draws from the secure source", len(seen))
	}
}
