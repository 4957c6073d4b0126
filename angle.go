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
	"math"

	"github.com/nctransport/core/data"
)

// SampleAngle draws a scattering cosine µ for a reaction at incoming
// energy-grid index ieN with interpolation fraction f. A
// nil AngleDist is the isotropic shortcut.
func SampleAngle(rng *RngStream, ad *data.AngleDist, ieN int, f float64) (float64, error) {
	if ad == nil || len(ad.Bins) == 0 {
		return 2*rng.Float64() - 1, nil
	}

	bin, err := selectAngleBin(rng, ad, ieN, f)
	if err != nil {
		return 0, err
	}

	switch bin.Type {
	case data.AngleIsotropic:
		return 2*rng.Float64() - 1, nil
	case data.AngleEquiprobable32:
		return sampleEquiprobable32(rng, bin.EquiprobableCosines)
	case data.AngleTabular:
		return sampleTabularCosine(rng, bin)
	default:
		return 0, fatalf("AngleSampler.sample_angle", "unknown angle bin type %d", bin.Type)
	}
}

// selectAngleBin picks the AngleBin for a collision at unionized-grid
// position (ieN, f): the nearer of the two incoming-energy breakpoints
// bracketing ieN is chosen stochastically, weighted by f, matching the
// same energy-breakpoint convention EnergySampler uses for law 4.
func selectAngleBin(rng *RngStream, ad *data.AngleDist, ieN int, f float64) (data.AngleBin, error) {
	n := len(ad.Bins)
	if n == 1 {
		return ad.Bins[0], nil
	}
	if ieN >= n-1 {
		return ad.Bins[n-1], nil
	}
	if rng.Float64() < f {
		return ad.Bins[ieN+1], nil
	}
	return ad.Bins[ieN], nil
}

// sampleEquiprobable32 draws µ from a 32-equiprobable-bin histogram: pick
// one of the 32 bins uniformly, then linearly interpolate within it.
func sampleEquiprobable32(rng *RngStream, bounds []float64) (float64, error) {
	nBins := len(bounds) - 1
	if nBins <= 0 {
		return 0, fatalf("AngleSampler.sample_equiprobable32", "malformed equiprobable-bin table")
	}
	i := int(rng.Float64() * float64(nBins))
	if i >= nBins {
		i = nBins - 1
	}
	r := rng.Float64()
	mu := (1-r)*bounds[i] + r*bounds[i+1]
	return clampCosine(mu), nil
}

// sampleTabularCosine inverts a tabulated cosine CDF. For
// histogram interpolation, the bin is picked directly from the CDF step;
// for lin-lin interpolation, the within-bin solution requires the
// quadratic formula unless the local pdf slope is zero, in which case it
// degenerates to linear interpolation.
func sampleTabularCosine(rng *RngStream, bin data.AngleBin) (float64, error) {
	n := len(bin.CDF)
	if n == 0 {
		return 0, fatalf("AngleSampler.sample_tabular_cosine", "empty tabular angle distribution")
	}
	xi := rng.Float64() * bin.CDF[n-1]
	i := binarySearch(bin.CDF, xi)

	switch bin.Interp {
	case data.Histogram:
		if bin.PDF[i] <= 0 {
			return clampCosine(bin.Cosine[i]), nil
		}
		mu := bin.Cosine[i] + (xi-bin.CDF[i])/bin.PDF[i]
		return clampCosine(mu), nil
	case data.LinLin:
		c0, c1 := bin.Cosine[i], bin.Cosine[i+1]
		p0, p1 := bin.PDF[i], bin.PDF[i+1]
		m := (p1 - p0) / (c1 - c0)
		if m == 0 {
			if p0 <= 0 {
				return clampCosine(c0), nil
			}
			mu := c0 + (xi-bin.CDF[i])/p0
			return clampCosine(mu), nil
		}
		disc := p0*p0 + 2*m*(xi-bin.CDF[i])
		if disc < 0 {
			disc = 0
		}
		mu := c0 + (-p0+math.Sqrt(disc))/m
		return clampCosine(mu), nil
	default:
		return 0, fatalf("AngleSampler.sample_tabular_cosine", "unknown interpolation code %d", bin.Interp)
	}
}
