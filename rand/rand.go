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

// Package rand provides per-request uniform random number generators for the
// noise package.
//
// A Rand is owned by exactly one request. There is no package-level generator:
// two requests evaluated with the same seed produce the same noise.
package rand

import (
	"bufio"
	cryptorand "crypto/rand"
	"encoding/binary"
	"io"
	mathrand "math/rand"

	log "github.com/golang/glog"
)

// Rand turns a stream of random bytes into uniform variates.
//
// Not thread-safe.
type Rand struct {
	src io.Reader
	buf [8]byte
}

// New returns a Rand reading its randomness from r.
func New(r io.Reader) *Rand {
	return &Rand{src: r}
}

// NewSecure returns a Rand backed by the operating system's cryptographically
// strong entropy source.
func NewSecure() *Rand {
	return New(bufio.NewReaderSize(cryptorand.Reader, 4096))
}

// NewSeeded returns a deterministic Rand. It must only be used for tests and
// reproducible runs; the output is not suitable for protecting privacy.
func NewSeeded(seed int64) *Rand {
	return New(mathrand.New(mathrand.NewSource(seed)))
}

// U64 returns a uniformly random uint64.
func (r *Rand) U64() uint64 {
	if _, err := io.ReadFull(r.src, r.buf[:]); err != nil {
		log.Fatalf("out of randomness, should never happen: %v", err)
	}
	return binary.LittleEndian.Uint64(r.buf[:])
}

// Uniform returns a float64 from the open interval (0, 1).
//
// The result is (k + 0.5) / 2⁵² for a uniformly random 52-bit integer k. All
// such values are exact in float64, so neither endpoint can be returned.
func (r *Rand) Uniform() float64 {
	k := r.U64() >> 12
	return (float64(k) + 0.5) / (1 << 52)
}

// CenteredUniform returns a float64 from the open interval (-0.5, 0.5).
func (r *Rand) CenteredUniform() float64 {
	return r.Uniform() - 0.5
}
