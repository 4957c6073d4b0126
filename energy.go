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
	"github.com/nctransport/core/energylaw"
)

// fissionRejectCeiling is the outgoing-energy ceiling at or above which
// a fission daughter's energy sample is rejected and resampled: laws 4
// and 44 apply it themselves when isFission is set, and
// CreateFissionSites applies it to every law. No realistic fission
// neutron carries 20 MeV.
const fissionRejectCeiling = 20.0

// SampleEnergy draws a secondary particle energy (and, for the
// correlated laws, its scattering cosine) from a reaction's EnergyDist
// given the particle's incoming energy. mu is nil unless
// the law samples angle jointly with energy. awr and q are the owning
// nuclide's atomic weight ratio and the reaction's Q-value; only law 66
// consumes them (its phase-space maximum energy depends on both).
func SampleEnergy(rng *RngStream, ed *data.EnergyDist, einc float64, isFission bool, awr, q float64) (eout float64, mu *float64, err error) {
	if ed == nil {
		return einc, nil, nil
	}

	switch ed.Law {
	case 1:
		eout, err = sampleLaw1(rng, ed.Law1, einc)
	case 3:
		eout, err = sampleLaw3(ed.Law3, einc)
	case 4:
		eout, mu, err = sampleLaw4(rng, ed.Law4, einc, isFission)
	case 5:
		eout, err = energylaw.SampleLaw5(rng, ed.Law5.ThetaTab.X, ed.Law5.ThetaTab.Y, ed.Law5.GX, ed.Law5.GY, einc)
	case 7:
		eout, err = sampleLaw7(rng, ed.Law7, einc)
	case 9:
		eout, err = sampleLaw9(rng, ed.Law9, einc)
	case 11:
		eout, err = sampleLaw11(rng, ed.Law11, einc)
	case 44:
		eout, mu, err = sampleLaw44(rng, ed.Law44, einc, isFission)
	case 61:
		eout, mu, err = sampleLaw61(rng, ed.Law61, einc)
	case 66:
		eout, err = sampleLaw66(rng, ed.Law66, einc, awr, q)
	case 67:
		eout, mu, err = energylaw.SampleLaw67(rng, ed.Law67.ExtensionName, einc)
	default:
		return 0, nil, fatalf("EnergySampler.sample_energy", "unrecognized energy law %d", ed.Law)
	}
	return eout, mu, err
}

// sampleLaw1 is tabular equiprobable energy bins: bracket the incoming
// energy between two stored breakpoints, pick one of the two tables
// stochastically (probability 1-f vs f, the same incident-bin
// interpolation convention laws 4/44/61 use), then a uniformly random
// bin within the chosen table, then interpolate linearly within the bin.
func sampleLaw1(rng *RngStream, l *data.Law1Data, einc float64) (float64, error) {
	n := len(l.EnergyIn)
	if n == 0 {
		return 0, fatalf("EnergySampler.sample_law1", "empty law 1 table")
	}
	var lo, hi int
	var f float64
	switch {
	case einc <= l.EnergyIn[0]:
		lo, hi, f = 0, 0, 0
	case einc >= l.EnergyIn[n-1]:
		lo, hi, f = n-1, n-1, 0
	default:
		lo = binarySearch(l.EnergyIn, einc)
		hi = lo + 1
		f = (einc - l.EnergyIn[lo]) / (l.EnergyIn[hi] - l.EnergyIn[lo])
	}
	i := lo
	if hi != lo && rng.Float64() < f {
		i = hi
	}
	bounds := l.Bounds[i]
	if len(bounds) < 2 {
		return 0, fatalf("EnergySampler.sample_law1", "malformed law 1 bin boundaries")
	}
	nBins := len(bounds) - 1
	k := int(rng.Float64() * float64(nBins))
	if k >= nBins {
		k = nBins - 1
	}
	r := rng.Float64()
	return (1-r)*bounds[k] + r*bounds[k+1], nil
}

// sampleLaw3 is inelastic level scattering: a deterministic function of
// incoming energy, no sampling involved.
func sampleLaw3(l *data.Law3Data, einc float64) (float64, error) {
	e := l.A * (einc - l.B)
	if e < 0 {
		e = 0
	}
	return e, nil
}

// sampleLaw4 is the continuous tabular distribution, ENDF law 4. The
// incoming-energy bin is chosen stochastically by interpolation
// fraction (the "unit base" scale transform), then the outgoing energy
// is drawn from that bin's CDF and rescaled back into the true energy
// range.
func sampleLaw4(rng *RngStream, l *data.Law4Data, einc float64, isFission bool) (float64, *float64, error) {
	for {
		e, err := sampleContinuousTabSet(rng, l.EnergyIn, l.Tables, einc)
		if err != nil {
			return 0, nil, err
		}
		if isFission && e >= fissionRejectCeiling {
			continue
		}
		return e, nil, nil
	}
}

// sampleContinuousTabSet implements the unit-base scale interpolation
// used by law 4: bracket einc between two incoming-energy tables, pick
// one of them with probability 1-f vs f, sample its outgoing-energy CDF,
// then rescale the raw sample from the chosen table's
// [Eout[0], Eout[last]] onto the range interpolated (by f) between the
// two bracketing tables' first and last outgoing energies.
func sampleContinuousTabSet(rng *RngStream, energyIn []float64, tables []data.ContinuousTab, einc float64) (float64, error) {
	n := len(energyIn)
	if n == 0 {
		return 0, fatalf("EnergySampler.sample_continuous_tab", "empty continuous tabular law")
	}
	var lo, hi int
	var f float64
	switch {
	case einc <= energyIn[0]:
		lo, hi, f = 0, 0, 0
	case einc >= energyIn[n-1]:
		lo, hi, f = n-1, n-1, 0
	default:
		lo = binarySearch(energyIn, einc)
		hi = lo + 1
		f = (einc - energyIn[lo]) / (energyIn[hi] - energyIn[lo])
	}

	idx := lo
	if hi != lo && rng.Float64() < f {
		idx = hi
	}
	t := tables[idx]
	if t.ND > 0 {
		return 0, fatalf("EnergySampler.sample_continuous_tab", "discrete lines (ND=%d) not supported", t.ND)
	}
	e, err := sampleOneContinuousTab(rng, t)
	if err != nil {
		return 0, err
	}
	if lt, ht := tables[lo].Eout, tables[hi].Eout; hi != lo && len(lt) > 0 && len(ht) > 0 {
		e1 := lt[0] + f*(ht[0]-lt[0])
		eK := lt[len(lt)-1] + f*(ht[len(ht)-1]-lt[len(lt)-1])
		if el1, elK := t.Eout[0], t.Eout[len(t.Eout)-1]; elK > el1 {
			e = e1 + (e-el1)*(eK-e1)/(elK-el1)
		}
	}
	return e, nil
}

func sampleOneContinuousTab(rng *RngStream, t data.ContinuousTab) (float64, error) {
	n := len(t.CDF)
	if n < 2 {
		return 0, fatalf("EnergySampler.sample_continuous_tab", "degenerate outgoing-energy table")
	}
	xi := rng.Float64() * t.CDF[n-1]
	i := binarySearch(t.CDF, xi)

	switch t.Interp {
	case data.Histogram:
		if t.PDF[i] <= 0 {
			return t.Eout[i], nil
		}
		return t.Eout[i] + (xi-t.CDF[i])/t.PDF[i], nil
	case data.LinLin:
		e0, e1 := t.Eout[i], t.Eout[i+1]
		p0, p1 := t.PDF[i], t.PDF[i+1]
		m := (p1 - p0) / (e1 - e0)
		if m == 0 {
			if p0 <= 0 {
				return e0, nil
			}
			return e0 + (xi-t.CDF[i])/p0, nil
		}
		disc := p0*p0 + 2*m*(xi-t.CDF[i])
		if disc < 0 {
			disc = 0
		}
		return e0 + (-p0+math.Sqrt(disc))/m, nil
	default:
		return 0, fatalf("EnergySampler.sample_continuous_tab", "unknown interpolation code %d", t.Interp)
	}
}

// sampleLaw7 is the Maxwell fission spectrum with energy-dependent
// nuclear temperature.
func sampleLaw7(rng *RngStream, l *data.Law7Data, einc float64) (float64, error) {
	t, err := interpolateTab1(&l.TempTab, einc)
	if err != nil {
		return 0, err
	}
	restrict := einc - l.U
	for {
		e := maxwell(rng, t)
		if e <= restrict {
			return e, nil
		}
	}
}

// sampleLaw9 is the evaporation spectrum.
func sampleLaw9(rng *RngStream, l *data.Law9Data, einc float64) (float64, error) {
	t, err := interpolateTab1(&l.TempTab, einc)
	if err != nil {
		return 0, err
	}
	restrict := einc - l.U
	for {
		xi1, xi2 := rng.Float64(), rng.Float64()
		e := -t * math.Log(xi1*xi2)
		if e <= restrict {
			return e, nil
		}
	}
}

// sampleLaw11 is the energy-dependent Watt spectrum, ENDF law 11.
func sampleLaw11(rng *RngStream, l *data.Law11Data, einc float64) (float64, error) {
	a, err := interpolateTab1(&l.ATab, einc)
	if err != nil {
		return 0, err
	}
	b, err := interpolateTab1(&l.BTab, einc)
	if err != nil {
		return 0, err
	}
	restrict := einc - l.U
	for {
		e := watt(rng, a, b)
		if e <= restrict {
			return e, nil
		}
	}
}

// sampleLaw44 is Kalbach-Mann correlated energy-angle, ENDF law 44. The
// outgoing energy is drawn and scale-interpolated as in law 4 (tables
// with discrete lines, ND > 0, are not rejected here); the
// interpolated Kalbach-Mann (R, A) pair at the raw table sample determines
// the correlated cosine via the standard two-branch rule.
//
// mu is always returned non-nil for law 44, and CollisionEngine must
// use it directly instead of calling SampleAngle again, since the
// cosine is correlated with the sampled energy rather than independent
// of it.
func sampleLaw44(rng *RngStream, l *data.Law44Data, einc float64, isFission bool) (float64, *float64, error) {
	for {
		e, r, a, err := sampleKalbachMann(rng, l.EnergyIn, l.Tables, einc)
		if err != nil {
			return 0, nil, err
		}
		if isFission && e >= fissionRejectCeiling {
			continue
		}
		mu := sampleKalbachCosine(rng, r, a)
		return e, &mu, nil
	}
}

func sampleKalbachMann(rng *RngStream, energyIn []float64, tables []data.ContinuousTab, einc float64) (e, r, a float64, err error) {
	n := len(energyIn)
	if n == 0 {
		return 0, 0, 0, fatalf("EnergySampler.sample_kalbach_mann", "empty law 44 table")
	}
	var lo, hi int
	var f float64
	switch {
	case einc <= energyIn[0]:
		lo, hi, f = 0, 0, 0
	case einc >= energyIn[n-1]:
		lo, hi, f = n-1, n-1, 0
	default:
		lo = binarySearch(energyIn, einc)
		hi = lo + 1
		f = (einc - energyIn[lo]) / (energyIn[hi] - energyIn[lo])
	}
	idx := lo
	if hi != lo && rng.Float64() < f {
		idx = hi
	}
	t := tables[idx]
	e, err = sampleOneContinuousTab(rng, t)
	if err != nil {
		return 0, 0, 0, err
	}
	eScaled := e
	if lt, ht := tables[lo].Eout, tables[hi].Eout; hi != lo && len(lt) > 0 && len(ht) > 0 {
		e1 := lt[0] + f*(ht[0]-lt[0])
		eK := lt[len(lt)-1] + f*(ht[len(ht)-1]-lt[len(lt)-1])
		if el1, elK := t.Eout[0], t.Eout[len(t.Eout)-1]; elK > el1 {
			eScaled = e1 + (e-el1)*(eK-e1)/(elK-el1)
		}
	}
	j := binarySearch(t.Eout, e)
	if len(t.R) == 0 {
		return eScaled, 0, 0, nil
	}
	if j+1 >= len(t.R) {
		return eScaled, t.R[j], t.A[j], nil
	}
	g := (e - t.Eout[j]) / (t.Eout[j+1] - t.Eout[j])
	r = (1-g)*t.R[j] + g*t.R[j+1]
	a = (1-g)*t.A[j] + g*t.A[j+1]
	return eScaled, r, a, nil
}

// sampleKalbachCosine applies the Kalbach-Mann angular rule: with
// probability R, draw µ from the symmetric cosh(aµ) density by asinh
// inversion; otherwise draw from the exp(aµ) density. a==0 degenerates
// to isotropic.
func sampleKalbachCosine(rng *RngStream, r, a float64) float64 {
	if a == 0 {
		return 2*rng.Float64() - 1
	}
	if rng.Float64() < r {
		t := (2*rng.Float64() - 1) * math.Sinh(a)
		return clampCosine(math.Log(t+math.Sqrt(t*t+1)) / a)
	}
	xi := rng.Float64()
	mu := math.Log(xi*math.Exp(a)+(1-xi)*math.Exp(-a)) / a
	return clampCosine(mu)
}

// sampleLaw61 is correlated energy-angle via an explicit per-bin
// tabular angle distribution, rather than the Kalbach-Mann systematics
// of law 44.
func sampleLaw61(rng *RngStream, l *data.Law61Data, einc float64) (float64, *float64, error) {
	n := len(l.EnergyIn)
	if n == 0 {
		return 0, nil, fatalf("EnergySampler.sample_law61", "empty law 61 table")
	}
	var lo, hi int
	var f float64
	switch {
	case einc <= l.EnergyIn[0]:
		lo, hi, f = 0, 0, 0
	case einc >= l.EnergyIn[n-1]:
		lo, hi, f = n-1, n-1, 0
	default:
		lo = binarySearch(l.EnergyIn, einc)
		hi = lo + 1
		f = (einc - l.EnergyIn[lo]) / (l.EnergyIn[hi] - l.EnergyIn[lo])
	}
	idx := lo
	if hi != lo && rng.Float64() < f {
		idx = hi
	}
	t := l.Tables[idx]
	e, err := sampleOneContinuousTab(rng, t)
	if err != nil {
		return 0, nil, err
	}

	var mu float64
	if t.Angle == nil {
		mu = 2*rng.Float64() - 1
	} else {
		m, err := sampleTabularCosine(rng, *t.Angle)
		if err != nil {
			return 0, nil, err
		}
		mu = m
	}
	return e, &mu, nil
}

// sampleLaw66 is the N-body phase space distribution, ENDF law 66. The
// maximum available energy E_max follows directly from the reaction
// Q-value and the target AWR; x is always a Maxwell(1) variate and y is
// a body-count-dependent companion variate, with E_out = E_max*x/(x+y).
func sampleLaw66(rng *RngStream, l *data.Law66Data, einc, awr, q float64) (float64, error) {
	ap := l.Ap
	if ap == 0 {
		ap = 1
	}
	emax := (ap - 1) / ap * (awr/(awr+1)*einc + q)
	if emax <= 0 {
		return 0, nil
	}

	x := maxwell(rng, 1)
	var y float64
	switch l.NBodies {
	case 3:
		y = maxwell(rng, 1)
	case 4:
		xi1, xi2, xi3 := rng.Float64(), rng.Float64(), rng.Float64()
		y = -math.Log(xi1 * xi2 * xi3)
	case 5:
		xi1, xi2, xi3, xi4, xi5, xi6 := rng.Float64(), rng.Float64(), rng.Float64(), rng.Float64(), rng.Float64(), rng.Float64()
		c := math.Cos(math.Pi / 2 * xi6)
		y = -math.Log(xi1*xi2*xi3*xi4) - math.Log(xi5)*c*c
	default:
		return 0, fatalf("EnergySampler.sample_law66", "unsupported body count %d", l.NBodies)
	}

	return emax * x / (x + y), nil
}
