/*
Copyright © 2017 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package neutronics

import "github.com/nctransport/core/internal/seed"

// RngStream is a per-particle uniform [0,1) generator. RunGeneration
// builds one RngStream per history, used by a single worker; there is no
// locking and no shared
// state between streams, which is what lets transport scale trivially
// across histories.
//
// The generator is splitmix64: a simple, fast, well-distributed
// stream-splitting PRNG. It is not cryptographically secure, which is
// fine — reproducibility given a seed is the only contract the core
// promises.
type RngStream struct {
	state uint64
}

// NewRngStream derives a substream for the given history from a base
// seed, so that re-running the same history id against the same base
// seed always reproduces the same sequence of draws, independent of
// which worker or goroutine executes it.
func NewRngStream(baseSeed uint64, historyID int64) *RngStream {
	return &RngStream{state: seed.Derive(baseSeed, historyID)}
}

// next advances the generator and returns the next raw 64-bit output.
func (r *RngStream) next() uint64 {
	r.state += 0x9E3779B97F4A7C15
	z := r.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Float64 draws a uniform variate in [0,1), following math/rand's
// naming convention.
func (r *RngStream) Float64() float64 {
	// 53 significant bits, same technique as math/rand.Float64.
	return float64(r.next()>>11) / (1 << 53)
}

func (r *RngStream) rang() float64 { return r.Float64() }
