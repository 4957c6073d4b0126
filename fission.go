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

// nuTotal interpolates a nuclide's total neutrons-per-fission at
// incoming energy e.
func nuTotal(nuc *data.Nuclide, e float64) (float64, error) {
	if nuc.NuTotal == nil {
		return 0, fatalf("FissionSampler.nu_total", "nuclide %s has no nu-total data", nuc.Name)
	}
	return interpolateTab1(nuc.NuTotal, e)
}

// nuPromptDelayed splits total nu into its prompt and delayed
// components at incoming energy e, per §4.5 step 1: nu_prompt from its
// own tabulation when the nuclide carries one (else nu_total, i.e. an
// entirely-prompt yield), and nu_delayed from its own tabulation when
// present. When only one of the two tables is present, the other is
// derived from nu_total by subtraction so the two always sum to it.
func nuPromptDelayed(nuc *data.Nuclide, e float64) (prompt, delayed float64, err error) {
	total, err := nuTotal(nuc, e)
	if err != nil {
		return 0, 0, err
	}

	switch {
	case nuc.NuPrompt != nil && nuc.NuDelayed != nil:
		prompt, err = interpolateTab1(nuc.NuPrompt, e)
		if err != nil {
			return 0, 0, err
		}
		delayed, err = interpolateTab1(nuc.NuDelayed, e)
		if err != nil {
			return 0, 0, err
		}
	case nuc.NuDelayed != nil:
		delayed, err = interpolateTab1(nuc.NuDelayed, e)
		if err != nil {
			return 0, 0, err
		}
		prompt = total - delayed
	case nuc.NuPrompt != nil:
		prompt, err = interpolateTab1(nuc.NuPrompt, e)
		if err != nil {
			return 0, 0, err
		}
		delayed = total - prompt
	default:
		return total, 0, nil
	}

	if prompt < 0 {
		prompt = 0
	}
	if delayed < 0 {
		delayed = 0
	}
	return prompt, delayed, nil
}

// CreateFissionSites banks the next-generation fission source produced
// by a fission event on nuc at the particle's current phase space.
//
// fissionProb is the probability weight this call represents: 1.0 for
// an actual-collision fission event (actualEvent == true), or the
// fission/total cross-section ratio at this nuclide when called on
// every collision under survival biasing (actualEvent == false).
// actualEvent controls whether the parent particle is killed:
// under survival biasing the parent survives every collision (its
// weight is attenuated elsewhere), so only the actual-collision path
// consumes it.
//
// Daughter polar cosines are sampled from the fission reaction's own
// angular distribution (isotropic when it has none), but the azimuth
// and resulting direction cosines are built about the fixed lab axes
// rather than relative to the parent's incoming direction — fission
// neutron emission has no preferred direction, so the two are physically
// equivalent, but this core preserves the axis-aligned sampling as the
// documented convention rather than re-deriving a parent-relative frame.
func CreateFissionSites(rng *RngStream, nuc *data.Nuclide, p *Particle, keff *Keff, actualEvent bool, fissionProb float64, bank *FissionBank) error {
	prompt, delayed, err := nuPromptDelayed(nuc, p.E)
	if err != nil {
		return err
	}
	nuBar := prompt + delayed
	if nuBar <= 0 {
		if actualEvent {
			p.Kill()
		}
		return nil
	}

	k := keff.Estimate()
	if k <= 0 {
		return fatalf("FissionSampler.create_fission_sites", "non-positive keff estimate %g", k)
	}

	expected := p.Weight * fissionProb * nuBar / k
	n := int(expected)
	if rng.Float64() < expected-float64(n) {
		n++
	}

	fissionRxn := nuc.Reactions[nuc.IndexFission]
	ieN, f, err := gridPosition(nuc, p.E)
	if err != nil {
		return err
	}

	delayedFrac := delayed / nuBar
	for i := 0; i < n; i++ {
		site := Site{UID: p.UID, X: p.X, Y: p.Y, Z: p.Z}

		mu, err := SampleAngle(rng, fissionRxn.Angle, ieN, f)
		if err != nil {
			return err
		}
		phi := 2 * math.Pi * rng.Float64()
		sinTheta := math.Sqrt(1 - mu*mu)
		site.U = sinTheta * math.Cos(phi)
		site.V = sinTheta * math.Sin(phi)
		site.W = mu

		isDelayed := delayedFrac > 0 && rng.Float64() < delayedFrac
		var e float64
		// §4.5 step 4 requires resampling while E_out >= 20 MeV regardless
		// of which law produced the draw; this is enforced here rather
		// than relying on each law's own isFission handling, since laws
		// 7/9/11 only restrict to E_in-U and law 61 doesn't see the
		// isFission flag at all.
		for {
			if isDelayed {
				e, err = sampleDelayedEnergy(rng, nuc, p.E)
			} else {
				e, _, err = SampleEnergy(rng, fissionRxn.Edist, p.E, true, nuc.AWR, fissionRxn.Q)
			}
			if err != nil {
				return err
			}
			if e < fissionRejectCeiling {
				break
			}
		}
		site.E = e

		bank.Push(site)
	}

	if actualEvent {
		p.Kill()
	}
	return nil
}

// sampleDelayedEnergy picks a delayed-neutron precursor group weighted
// by its fractional yield at the current energy, then samples that
// group's own secondary energy distribution.
func sampleDelayedEnergy(rng *RngStream, nuc *data.Nuclide, einc float64) (float64, error) {
	groups := nuc.DelayedGroups
	if len(groups) == 0 {
		return 0, fatalf("FissionSampler.sample_delayed_energy", "nuclide %s has no delayed groups", nuc.Name)
	}

	yields := make([]float64, len(groups))
	var total float64
	for i, g := range groups {
		y, err := interpolateTab1(&g.Yield, einc)
		if err != nil {
			return 0, err
		}
		yields[i] = y
		total += y
	}
	if total <= 0 {
		e, _, err := SampleEnergy(rng, groups[0].Edist, einc, true, nuc.AWR, 0)
		return e, err
	}

	xi := rng.Float64() * total
	var cum float64
	for i, y := range yields {
		cum += y
		if xi <= cum {
			e, _, err := SampleEnergy(rng, groups[i].Edist, einc, true, nuc.AWR, 0)
			return e, err
		}
	}
	e, _, err := SampleEnergy(rng, groups[len(groups)-1].Edist, einc, true, nuc.AWR, 0)
	return e, err
}
