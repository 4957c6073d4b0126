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
	"testing"

	"github.com/nctransport/core/data"
)

func TestBinarySearch(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4}
	cases := []struct {
		x    float64
		want int
	}{
		{0, 0},
		{0.5, 0},
		{1, 1},
		{3.9, 3},
		{4, 3}, // clamped to len-2
		{100, 3},
		{-5, 0},
	}
	for _, c := range cases {
		if got := binarySearch(xs, c.x); got != c.want {
			t.Errorf("binarySearch(%v, %v) = %d, want %d", xs, c.x, got, c.want)
		}
	}
}

func TestInterpolateTab1LinLin(t *testing.T) {
	tab := &data.Tab1D{
		NR:     1,
		Interp: data.LinLin,
		X:      []float64{0, 10},
		Y:      []float64{0, 100},
	}
	got, err := interpolateTab1(tab, 5)
	if err != nil {
		t.Fatal(err)
	}
	if got != 50 {
		t.Errorf("interpolateTab1 midpoint = %v, want 50", got)
	}
}

func TestInterpolateTab1Histogram(t *testing.T) {
	tab := &data.Tab1D{
		NR:     1,
		Interp: data.Histogram,
		X:      []float64{0, 10, 20},
		Y:      []float64{1, 2, 3},
	}
	got, err := interpolateTab1(tab, 15)
	if err != nil {
		t.Fatal(err)
	}
	if got != 2 {
		t.Errorf("interpolateTab1 histogram at 15 = %v, want 2", got)
	}
}

func TestInterpolateTab1ClampsAtEnds(t *testing.T) {
	tab := &data.Tab1D{NR: 1, Interp: data.LinLin, X: []float64{1, 2, 3}, Y: []float64{10, 20, 30}}
	if got, _ := interpolateTab1(tab, -5); got != 10 {
		t.Errorf("below range: got %v, want 10", got)
	}
	if got, _ := interpolateTab1(tab, 50); got != 30 {
		t.Errorf("above range: got %v, want 30", got)
	}
}

func TestInterpolateTab1RejectsMultipleRegions(t *testing.T) {
	tab := &data.Tab1D{NR: 2, X: []float64{0, 1}, Y: []float64{0, 1}}
	_, err := interpolateTab1(tab, 0.5)
	if err == nil {
		t.Fatal("expected error for NR>1")
	}
	var fe *FatalError
	if !asFatal(err, &fe) {
		t.Errorf("expected *FatalError, got %T", err)
	}
}

func asFatal(err error, target **FatalError) bool {
	fe, ok := err.(*FatalError)
	if ok {
		*target = fe
	}
	return ok
}
