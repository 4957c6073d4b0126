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

import (
	"sort"

	"github.com/nctransport/core/data"
)

// binarySearch returns the index i such that xs[i] <= x < xs[i+1],
// clamped to [0, len(xs)-2]. Callers are responsible for
// noticing when x actually falls outside [xs[0], xs[len(xs)-1]) and
// flagging the out-of-range condition themselves, since the clamped
// index alone doesn't distinguish "in range" from "clamped".
func binarySearch(xs []float64, x float64) int {
	n := len(xs)
	i := sort.SearchFloat64s(xs, x)
	// sort.SearchFloat64s returns the smallest i with xs[i] >= x; we want
	// the largest i with xs[i] <= x, so step back unless x lands exactly
	// on a grid point.
	if i == n || xs[i] > x {
		i--
	}
	if i < 0 {
		i = 0
	}
	if i > n-2 {
		i = n - 2
	}
	return i
}

// interpolateTab1 evaluates an ENDF TAB1-style tabulated function at x,
// using linear-linear or histogram interpolation between the bracketing
// points. NR > 1 (more than one interpolation region) is
// rejected as fatal, matching this core's documented limitation.
func interpolateTab1(t *data.Tab1D, x float64) (float64, error) {
	if t.NR > 1 {
		return 0, fatalf("Interp.interpolate_tab1", "NR=%d interpolation regions not supported", t.NR)
	}
	n := len(t.X)
	if n == 0 {
		return 0, fatalf("Interp.interpolate_tab1", "empty tabulated function")
	}
	if n == 1 || x <= t.X[0] {
		return t.Y[0], nil
	}
	if x >= t.X[n-1] {
		return t.Y[n-1], nil
	}
	i := binarySearch(t.X, x)
	switch t.Interp {
	case data.Histogram:
		return t.Y[i], nil
	case data.LinLin:
		f := (x - t.X[i]) / (t.X[i+1] - t.X[i])
		return (1-f)*t.Y[i] + f*t.Y[i+1], nil
	default:
		return 0, fatalf("Interp.interpolate_tab1", "unknown interpolation code %d", t.Interp)
	}
}
