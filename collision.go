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

	"github.com/sirupsen/logrus"

	"github.com/nctransport/core/data"
)

// MT-number conventions this core recognizes. MTElastic
// and MTInelasticTotal are skipped during per-reaction selection because
// they're handled by their own dedicated branches rather than sampled as
// one reaction among many; MT >= 200 are special/documentation entries
// (e.g. heating numbers) that never produce a transportable secondary.
const (
	MTElastic        = 2
	MTInelasticTotal = 4 // sum of discrete-level reactions 51-91; not itself sampled
	MTFissionFirst   = 18
	MTFissionLast    = 21
	MTFissionN       = 38
	mtSpecialFloor   = 200

	// MT range reserved for neutron-disappearance reactions (radiative
	// capture, (n,p), (n,alpha), etc.): these have no transportable
	// neutron secondary but are a modeled, expected absorption outcome,
	// not an unrecognized reaction — so they're killed without a warning.
	mtDisappearanceFirst = 102
	mtDisappearanceLast  = 117
)

func isFissionMT(mt int) bool {
	return (mt >= MTFissionFirst && mt <= MTFissionLast) || mt == MTFissionN
}

// CollisionEngine executes a single collision for a particle that has
// already been positioned at its collision site by Transport.
// SurvivalBiasing selects between the implicit-capture and analog
// branches; WeightCutoff/WeightSurvive parameterize the Russian
// roulette applied under survival biasing.
type CollisionEngine struct {
	SurvivalBiasing bool
	WeightCutoff    float64
	WeightSurvive   float64
}

// Collide runs nuclide selection, the survival-biasing or analog
// reaction branch, the energy-cutoff check, and tally/cache bookkeeping,
// in that order.
func (ce *CollisionEngine) Collide(rng *RngStream, lib *data.Library, p *Particle, xc *XsCache, keff *Keff, bank *FissionBank, tally Tally) error {
	mat := lib.Materials[p.Material]
	nuc, entry, err := selectNuclide(rng, lib, mat, xc)
	if err != nil {
		return err
	}

	p.LastWeight = p.Weight
	p.LastEnergy = p.E
	p.Collisions++

	var scattered bool
	if ce.SurvivalBiasing {
		scattered, err = ce.collideSurvivalBiasing(rng, nuc, entry, p, keff, bank)
	} else {
		scattered, err = ce.collideAnalog(rng, nuc, entry, p, keff, bank)
	}
	if err != nil {
		return err
	}

	if p.Alive && p.E < EnergyCutoff {
		p.Kill()
	}

	if tally != nil {
		tally.Score(p, scattered)
	}
	if p.Alive {
		xc.FindEnergyIndex(lib, p)
	}
	return nil
}

// selectNuclide draws the colliding nuclide by a cumulative
// macroscopic-total-cross-section scan. Exhausting
// the scan without reaching xi is a fatal data-consistency error: it
// means the cached MacroXs.Total didn't actually equal the sum of its
// per-nuclide contributions.
func selectNuclide(rng *RngStream, lib *data.Library, mat *data.Material, xc *XsCache) (*data.Nuclide, MicroXsEntry, error) {
	xi := rng.Float64() * xc.Macro.Total
	var cum float64
	for i, nucIdx := range mat.NuclideIndex {
		density := mat.AtomDensity[i]
		entry := xc.Micro[nucIdx]
		cum += density * entry.Total
		if xi <= cum {
			return lib.Nuclides[nucIdx], entry, nil
		}
	}
	return nil, MicroXsEntry{}, fatalf("CollisionEngine.select_nuclide", "cumulative total cross section scan exhausted without reaching sampled value")
}

// collideSurvivalBiasing implements implicit capture: the particle
// never dies to absorption directly. Its weight is attenuated by the
// scattering survival probability, a fission-site contribution is
// banked proportionally to the fission probability at this nuclide, and
// Russian roulette is applied below the weight cutoff.
func (ce *CollisionEngine) collideSurvivalBiasing(rng *RngStream, nuc *data.Nuclide, entry MicroXsEntry, p *Particle, keff *Keff, bank *FissionBank) (bool, error) {
	if entry.Total <= 0 {
		return false, fatalf("CollisionEngine.collide_survival_biasing", "zero total cross section at selected nuclide %s", nuc.Name)
	}

	if nuc.IsFissionable() && entry.Fission > 0 {
		fissionProb := entry.Fission / entry.Total
		if err := CreateFissionSites(rng, nuc, p, keff, false, fissionProb, bank); err != nil {
			return false, err
		}
	}

	survival := (entry.Total - entry.Absorption) / entry.Total
	p.Weight *= survival

	if p.Weight < ce.WeightCutoff {
		if rng.Float64() < p.Weight/ce.WeightSurvive {
			p.Weight = ce.WeightSurvive
		} else {
			p.Kill()
			return false, nil
		}
	}

	return ce.scatterReaction(rng, nuc, p, MTInelasticTotal)
}

// collideAnalog implements the non-survival-biasing branch: a reaction
// is sampled directly from the nuclide's full reaction list (excluding
// the elastic/inelastic-total bookkeeping entries), and absorption or
// fission genuinely terminates the particle.
func (ce *CollisionEngine) collideAnalog(rng *RngStream, nuc *data.Nuclide, entry MicroXsEntry, p *Particle, keff *Keff, bank *FissionBank) (bool, error) {
	if entry.Total <= 0 {
		return false, fatalf("CollisionEngine.collide_analog", "zero total cross section at selected nuclide %s", nuc.Name)
	}

	xi := rng.Float64() * entry.Total
	var cum float64

	cum += entry.Elastic
	if xi <= cum {
		return elasticScatter(rng, nuc, p)
	}

	if nuc.IsFissionable() {
		cum += entry.Fission
		if xi <= cum {
			return false, CreateFissionSites(rng, nuc, p, keff, true, 1.0, bank)
		}
	}

	for _, r := range nuc.Reactions {
		if r.MT == MTElastic || r.MT >= mtSpecialFloor || r.MT == MTInelasticTotal || isFissionMT(r.MT) {
			continue
		}
		sigma, ok := r.SigmaAt(entry.GridIndex, entry.InterpFactor)
		if !ok {
			continue
		}
		cum += sigma
		if xi <= cum {
			if r.TY != 0 {
				return ce.applyReaction(rng, nuc, r, p)
			}
			if r.MT >= mtDisappearanceFirst && r.MT <= mtDisappearanceLast {
				p.Kill()
				return false, nil
			}
			logrus.Warnf("CollisionEngine: MT=%d has no transportable secondary, treating as absorption", r.MT)
			p.Kill()
			return false, nil
		}
	}

	p.Kill()
	return false, nil
}

// scatterReaction dispatches to the elastic or inelastic kinematics
// helpers for the survival-biasing branch: it decides elastic vs.
// inelastic, and inelasticScatterGeneric then picks the individual
// inelastic level. excludeMT is accepted for symmetry with
// collideAnalog's reaction walk but unused here.
func (ce *CollisionEngine) scatterReaction(rng *RngStream, nuc *data.Nuclide, p *Particle, excludeMT int) (bool, error) {
	_ = excludeMT
	// Elastic vs. inelastic split is decided by the elastic share of the
	// scattering cross section sigma_t - sigma_a at the collision energy;
	// absorption is already accounted for by the weight attenuation.
	ieN, f, err := gridPosition(nuc, p.E)
	if err != nil {
		return false, err
	}
	scatter := lerp(nuc.Total, ieN, f) - lerp(nuc.Absorption, ieN, f)
	elastic := lerp(nuc.Elastic, ieN, f)
	var elasticFrac float64
	if scatter > 0 {
		elasticFrac = elastic / scatter
	}

	if rng.Float64() < elasticFrac {
		return elasticScatter(rng, nuc, p)
	}
	return inelasticScatterGeneric(rng, nuc, p)
}

func gridPosition(nuc *data.Nuclide, e float64) (int, float64, error) {
	ie := locateGridIndex(nuc.E, e)
	n := len(nuc.E)
	if ie >= n-1 {
		return n - 1, 0, nil
	}
	f := (e - nuc.E[ie]) / (nuc.E[ie+1] - nuc.E[ie])
	return ie, f, nil
}

// applyReaction dispatches an analog-selected reaction by MT family:
// elastic, inelastic scatter with a secondary, or a warn-and-absorb
// fallback for anything this core doesn't model kinematically.
func (ce *CollisionEngine) applyReaction(rng *RngStream, nuc *data.Nuclide, r *data.Reaction, p *Particle) (bool, error) {
	switch {
	case r.MT == MTElastic:
		return elasticScatter(rng, nuc, p)
	case r.MT < mtSpecialFloor:
		return inelasticScatterReaction(rng, nuc, r, p)
	default:
		logrus.Warnf("CollisionEngine: unrecognized reaction MT=%d, treating as absorption", r.MT)
		p.Kill()
		return false, nil
	}
}

// elasticScatter samples elastic scattering in the center-of-mass frame
// and transforms the result to the lab frame. AWR -> inf
// degenerates to scattering off an immobile target: the lab and CM
// frames coincide and the outgoing energy depends only on µ.
func elasticScatter(rng *RngStream, nuc *data.Nuclide, p *Particle) (bool, error) {
	ieN, f, err := gridPosition(nuc, p.E)
	if err != nil {
		return false, err
	}
	var angle *data.AngleDist
	for _, r := range nuc.Reactions {
		if r.MT == MTElastic {
			angle = r.Angle
			break
		}
	}
	muCM, err := SampleAngle(rng, angle, ieN, f)
	if err != nil {
		return false, err
	}

	awr := nuc.AWR
	einc := p.E
	eOut := einc * (awr*awr + 2*awr*muCM + 1) / ((awr + 1) * (awr + 1))
	if eOut < 0 {
		eOut = 0
	}

	muLab := (awr*muCM + 1) / math.Sqrt(awr*awr+2*awr*muCM+1)
	muLab = clampCosine(muLab)

	u, v, w := rotateAngle(rng, p.U, p.V, p.W, muLab)
	p.U, p.V, p.W = u, v, w
	p.E = eOut
	p.LastMu = muLab
	return true, nil
}

// inelasticScatterReaction applies a specific analog-selected inelastic
// reaction's own energy and angle distributions.
func inelasticScatterReaction(rng *RngStream, nuc *data.Nuclide, r *data.Reaction, p *Particle) (bool, error) {
	ieN, f, err := gridPosition(nuc, p.E)
	if err != nil {
		return false, err
	}

	eOut, muFromEnergy, err := SampleEnergy(rng, r.Edist, p.E, isFissionMT(r.MT), nuc.AWR, r.Q)
	if err != nil {
		return false, err
	}

	var mu float64
	if muFromEnergy != nil {
		mu = *muFromEnergy
	} else {
		mu, err = SampleAngle(rng, r.Angle, ieN, f)
		if err != nil {
			return false, err
		}
	}

	// TY's sign marks which frame the sampled (E_out, mu) pair is
	// expressed in: negative means CM, requiring the Jacobian-derived
	// transform to the lab frame before the secondary is transported.
	if r.TY < 0 {
		eOut, mu = cmToLab(eOut, p.E, mu, nuc.AWR)
	}

	yield := r.TY
	if yield < 0 {
		yield = -yield
	}
	if yield == 0 {
		yield = 1
	}
	p.Weight *= float64(yield)

	u, v, w := rotateAngle(rng, p.U, p.V, p.W, mu)
	p.U, p.V, p.W = u, v, w
	p.E = eOut
	p.LastMu = mu
	return true, nil
}

// cmToLab converts an inelastic secondary's (energy, cosine) pair
// sampled in the center-of-mass frame into the lab frame, given the
// incoming lab energy and the target's atomic weight ratio.
func cmToLab(eCM, eIn, muCM, awr float64) (eLab, muLab float64) {
	ap1 := awr + 1
	eLab = eCM + (eIn+2*muCM*ap1*math.Sqrt(eIn*eCM))/(ap1*ap1)
	if eLab <= 0 {
		return 0, muCM
	}
	muLab = muCM*math.Sqrt(eCM/eLab) + math.Sqrt(eIn/eLab)/ap1
	return eLab, clampCosine(muLab)
}

// inelasticScatterGeneric resolves the survival-biasing branch's
// inelastic channel by inverting a cumulative over the same candidate
// set §4.7.3d names for the analog reaction walk: skip fission,
// skip gas-production/documentation entries (MT >= 200), and skip the
// MT=4 total-inelastic summary itself, selecting among the individual
// discrete/continuum levels rather than lumping them under MT=4.
func inelasticScatterGeneric(rng *RngStream, nuc *data.Nuclide, p *Particle) (bool, error) {
	ieN, f, err := gridPosition(nuc, p.E)
	if err != nil {
		return false, err
	}

	type candidate struct {
		r     *data.Reaction
		sigma float64
	}
	var candidates []candidate
	var total float64
	for _, r := range nuc.Reactions {
		if r.MT == MTElastic || r.MT == MTInelasticTotal || r.MT >= mtSpecialFloor || isFissionMT(r.MT) {
			continue
		}
		sigma, ok := r.SigmaAt(ieN, f)
		if !ok || sigma <= 0 {
			continue
		}
		candidates = append(candidates, candidate{r, sigma})
		total += sigma
	}
	if len(candidates) == 0 {
		return false, fatalf("CollisionEngine.inelastic_scatter_generic", "nuclide %s has no inelastic levels for survival-biased scatter", nuc.Name)
	}

	xi := rng.Float64() * total
	var cum float64
	for _, c := range candidates {
		cum += c.sigma
		if xi <= cum {
			return inelasticScatterReaction(rng, nuc, c.r, p)
		}
	}
	return inelasticScatterReaction(rng, nuc, candidates[len(candidates)-1].r, p)
}
