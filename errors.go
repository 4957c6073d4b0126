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

// Package neutronics implements the neutron transport core of a
// continuous-energy Monte Carlo particle-transport engine: per-particle
// random walk, cross-section lookup, collision sampling, and
// fission-site banking. Geometry traversal, cross-section file parsing,
// tally accumulation, and the outer batch/cycle driver are external
// collaborators consumed through the interfaces in geometry.go.
package neutronics

import "fmt"

// FatalError marks a condition that must abort the run: the cumulative
// nuclide/reaction sampling loop fell off the end, an invariant was
// violated, or an unsupported tabulated-data feature (NR>1, discrete
// energy lines, unknown interpolation/angular-distribution type) was
// encountered. The core never retries a FatalError; it is the driver's
// job to decide whether to abort the whole run or just the current
// history.
type FatalError struct {
	Op  string // component/operation where the error occurred
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("neutronics: fatal in %s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// fatalf builds a *FatalError from a format string, wrapping it the
// same way fmt.Errorf does instead of panicking.
func fatalf(op, format string, args ...interface{}) *FatalError {
	return &FatalError{Op: op, Err: fmt.Errorf(format, args...)}
}
