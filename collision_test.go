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
	"testing"

	"github.com/nctransport/core/data"
)

// absorberOnlyLibrary describes one nuclide with sigma_a == sigma_t == 1
// and elastic == 0. MT 102 (radiative capture) carries no transportable
// secondary, so the analog branch must treat it as absorption.
func absorberOnlyLibrary() *data.Library {
	grid := []float64{1, 2, 3}
	nuc := &data.Nuclide{
		Name: "Absorber", AWR: 1,
		E: grid,
		Total:      []float64{1, 1, 1},
		Elastic:    []float64{0, 0, 0},
		Absorption: []float64{1, 1, 1},
		GridIndex:  []int{0, 1, 2},
	}
	capture := &data.Reaction{MT: 102, IE: 0, Sigma: []float64{1, 1, 1}}
	nuc.Reactions = []*data.Reaction{capture}
	mat := &data.Material{Name: "absorber", NuclideIndex: []int{0}, AtomDensity: []float64{1}}
	return &data.Library{Nuclides: []*data.Nuclide{nuc}, Materials: []*data.Material{mat}, Grid: data.UnionizedGrid{E: grid}}
}

func TestCollideAnalogPureAbsorberKillsParticle(t *testing.T) {
	lib := absorberOnlyLibrary()
	ce := &CollisionEngine{SurvivalBiasing: false}
	rng := NewRngStream(50, 0)
	xc := NewXsCache(1)
	keff := NewKeff(1.0)
	bank := NewFissionBank(10)

	p := NewParticle(1, 0, 0, 0, 0, 0, 1, 2.0, 1.0)
	p.Material = 0
	if err := xc.Calculate(lib, p); err != nil {
		t.Fatal(err)
	}
	if err := ce.Collide(rng, lib, p, xc, keff, bank, nil); err != nil {
		t.Fatal(err)
	}
	if p.Alive {
		t.Error("particle should be dead after a pure-absorber collision")
	}
	if bank.Len() != 0 {
		t.Errorf("fission bank should be untouched by a non-fissionable absorber, got %d", bank.Len())
	}
}

// elasticOnlyNuclide is a pure elastic scatterer with the given AWR,
// forced to sample mu == 0 via a degenerate equiprobable-32 angle table
// (every boundary cosine is 0).
func elasticOnlyNuclide(awr float64) *data.Nuclide {
	grid := []float64{1, 2, 3}
	bounds := make([]float64, 33)
	ad := &data.AngleDist{
		EnergyIn: []float64{1.0},
		Bins:     []data.AngleBin{{Type: data.AngleEquiprobable32, EquiprobableCosines: bounds}},
	}
	nuc := &data.Nuclide{
		Name: "Scatterer", AWR: awr,
		E: grid,
		Total:      []float64{1, 1, 1},
		Elastic:    []float64{1, 1, 1},
		Absorption: []float64{0, 0, 0},
		GridIndex:  []int{0, 1, 2},
	}
	nuc.Reactions = []*data.Reaction{{MT: MTElastic, IE: 0, Sigma: []float64{1, 1, 1}, Angle: ad}}
	return nuc
}

func TestElasticScatterAwrOneHalvesEnergyAtMuZero(t *testing.T) {
	nuc := elasticOnlyNuclide(1.0)
	rng := NewRngStream(51, 0)
	p := NewParticle(1, 0, 0, 0, 0, 0, 1, 4.0, 1.0)
	scattered, err := elasticScatter(rng, nuc, p)
	if err != nil {
		t.Fatal(err)
	}
	if !scattered {
		t.Fatal("elastic scatter should report scattered==true")
	}
	if math.Abs(p.E-2.0) > 1e-9 {
		t.Errorf("AWR=1, mu=0 elastic scatter: E_out = %v, want E_in/2 = 2.0", p.E)
	}
	norm := math.Sqrt(p.U*p.U + p.V*p.V + p.W*p.W)
	if math.Abs(norm-1) > 1e-9 {
		t.Errorf("direction not unit after elastic scatter: %v", norm)
	}
}

// TestElasticScatterHeavyTargetApproachesUnchangedEnergy checks that as
// AWR -> large, elastic scattering degenerates toward an unchanged
// energy (pure direction change), since the target is effectively
// immobile.
func TestElasticScatterHeavyTargetApproachesUnchangedEnergy(t *testing.T) {
	nuc := elasticOnlyNuclide(1e6)
	rng := NewRngStream(52, 0)
	p := NewParticle(1, 0, 0, 0, 0, 0, 1, 10.0, 1.0)
	if _, err := elasticScatter(rng, nuc, p); err != nil {
		t.Fatal(err)
	}
	if math.Abs(p.E-10.0) > 1e-4 {
		t.Errorf("heavy-target elastic scatter changed energy too much: %v, want ~10.0", p.E)
	}
}

// survivalBiasingNuclide is tuned so that after implicit-capture
// attenuation a unit-weight particle's weight lands exactly at 0.1,
// against weight_cutoff=0.25 and weight_survive=1.0.
func survivalBiasingNuclide() *data.Nuclide {
	grid := []float64{1, 2, 3}
	nuc := &data.Nuclide{
		Name: "Biased", AWR: 1,
		E:          grid,
		Total:      []float64{10, 10, 10},
		Elastic:    []float64{1, 1, 1},
		Absorption: []float64{9, 9, 9},
		GridIndex:  []int{0, 1, 2},
	}
	nuc.Reactions = []*data.Reaction{
		{MT: MTElastic, IE: 0, Sigma: []float64{1, 1, 1}},
		{MT: MTInelasticTotal, IE: 0, Sigma: []float64{1, 1, 1}, Edist: &data.EnergyDist{Law: 3, Law3: &data.Law3Data{A: 1, B: 0}}},
	}
	return nuc
}

func biasedLibrary() *data.Library {
	nuc := survivalBiasingNuclide()
	mat := &data.Material{Name: "biased", NuclideIndex: []int{0}, AtomDensity: []float64{1}}
	return &data.Library{Nuclides: []*data.Nuclide{nuc}, Materials: []*data.Material{mat}, Grid: data.UnionizedGrid{E: nuc.E}}
}

// TestCollideSurvivalBiasingRouletteIsFair checks that with w=0.1 after
// attenuation, weight_cutoff=0.25, weight_survive=1.0, the survivor
// fraction across many trials is ~0.1 and every survivor carries exactly
// weight_survive.
func TestCollideSurvivalBiasingRouletteIsFair(t *testing.T) {
	lib := biasedLibrary()
	ce := &CollisionEngine{SurvivalBiasing: true, WeightCutoff: 0.25, WeightSurvive: 1.0}
	rng := NewRngStream(53, 0)
	keff := NewKeff(1.0)

	const trials = 200000
	survivors := 0
	for i := 0; i < trials; i++ {
		xc := NewXsCache(1)
		bank := NewFissionBank(4)
		p := NewParticle(int64(i), 0, 0, 0, 0, 0, 1, 1.0, 1.0)
		p.Material = 0
		if err := xc.Calculate(lib, p); err != nil {
			t.Fatal(err)
		}
		if err := ce.Collide(rng, lib, p, xc, keff, bank, nil); err != nil {
			t.Fatal(err)
		}
		if p.Alive {
			survivors++
			if math.Abs(p.Weight-1.0) > 1e-9 {
				t.Fatalf("surviving particle weight = %v, want exactly weight_survive=1.0", p.Weight)
			}
		}
	}
	frac := float64(survivors) / trials
	sigma := 3 * math.Sqrt(0.1*0.9/trials)
	if math.Abs(frac-0.1) > sigma+0.005 {
		t.Errorf("survivor fraction = %v, want 0.1 +/- %v", frac, sigma)
	}
}

func TestSelectNuclideCumulativeScanIsWeighted(t *testing.T) {
	grid := []float64{1, 2}
	nucA := &data.Nuclide{Name: "A", AWR: 1, E: grid, Total: []float64{1, 1}, GridIndex: []int{0, 0}}
	nucB := &data.Nuclide{Name: "B", AWR: 1, E: grid, Total: []float64{1, 1}, GridIndex: []int{0, 0}}
	mat := &data.Material{NuclideIndex: []int{0, 1}, AtomDensity: []float64{3, 1}} // A three times denser than B
	lib := &data.Library{Nuclides: []*data.Nuclide{nucA, nucB}, Materials: []*data.Material{mat}, Grid: data.UnionizedGrid{E: grid}}

	xc := NewXsCache(2)
	rng := NewRngStream(54, 0)
	p := NewParticle(1, 0, 0, 0, 0, 0, 1, 1.5, 1.0)
	if err := xc.Calculate(lib, p); err != nil {
		t.Fatal(err)
	}

	const trials = 40000
	countA := 0
	for i := 0; i < trials; i++ {
		nuc, _, err := selectNuclide(rng, lib, mat, xc)
		if err != nil {
			t.Fatal(err)
		}
		if nuc.Name == "A" {
			countA++
		}
	}
	frac := float64(countA) / trials
	// Density-weighted: A should be selected ~3/4 of the time.
	if math.Abs(frac-0.75) > 0.02 {
		t.Errorf("nuclide A selection fraction = %v, want ~0.75", frac)
	}
}

func TestCmToLabPositiveEnergyAtZeroCosine(t *testing.T) {
	// With mu_cm == 0 and equal incoming/outgoing CM energies the lab
	// transform (not an identity: eLab is 1.25 here) should still produce
	// a positive energy and an in-range cosine.
	eLab, muLab := cmToLab(1.0, 1.0, 0.0, 1.0)
	if eLab <= 0 {
		t.Errorf("cmToLab produced non-positive lab energy %v", eLab)
	}
	if muLab < -1 || muLab > 1 {
		t.Errorf("cmToLab produced out-of-range mu %v", muLab)
	}
}

// discreteLevelLibrary describes one nuclide whose only reaction is an
// MT=91 (continuum inelastic) level with TY=-1, the common CM-frame
// single-neutron case: sigma_a == 0, so the only way to kill the
// particle is a dispatch bug that misreads TY=-1 as "no secondary".
func discreteLevelLibrary() *data.Library {
	grid := []float64{1, 2, 3}
	nuc := &data.Nuclide{
		Name: "Scatterer91", AWR: 12.0,
		E: grid,
		Total:      []float64{1, 1, 1},
		Elastic:    []float64{0, 0, 0},
		Absorption: []float64{0, 0, 0},
		GridIndex:  []int{0, 1, 2},
	}
	level := &data.Reaction{
		MT: 91, IE: 0, Sigma: []float64{1, 1, 1}, Q: 0, TY: -1,
		Edist: &data.EnergyDist{Law: 3, Law3: &data.Law3Data{A: 0.9, B: 0}},
	}
	nuc.Reactions = []*data.Reaction{level}
	mat := &data.Material{Name: "scatterer", NuclideIndex: []int{0}, AtomDensity: []float64{1}}
	return &data.Library{Nuclides: []*data.Nuclide{nuc}, Materials: []*data.Material{mat}, Grid: data.UnionizedGrid{E: grid}}
}

// TestCollideAnalogNegativeTYScattersNotKills guards the analog reaction
// dispatch in collideAnalog itself (not inelasticScatterReaction
// directly): an MT=91/TY=-1 level is a CM-frame single-neutron inelastic
// scatter and must come out of Collide alive and scattered, never
// absorbed, since TY=-1 still carries one transportable secondary.
func TestCollideAnalogNegativeTYScattersNotKills(t *testing.T) {
	lib := discreteLevelLibrary()
	ce := &CollisionEngine{SurvivalBiasing: false}
	rng := NewRngStream(56, 0)
	xc := NewXsCache(1)
	keff := NewKeff(1.0)
	bank := NewFissionBank(10)

	p := NewParticle(1, 0, 0, 0, 0, 0, 1, 2.0, 1.0)
	p.Material = 0
	if err := xc.Calculate(lib, p); err != nil {
		t.Fatal(err)
	}
	if err := ce.Collide(rng, lib, p, xc, keff, bank, nil); err != nil {
		t.Fatal(err)
	}
	if !p.Alive {
		t.Fatal("MT=91/TY=-1 analog collision killed the particle; TY=-1 still has a transportable secondary")
	}
	if p.Collisions != 1 {
		t.Errorf("Collisions = %d, want 1", p.Collisions)
	}
	norm := math.Sqrt(p.U*p.U + p.V*p.V + p.W*p.W)
	if math.Abs(norm-1) > 1e-9 {
		t.Errorf("direction not unit after analog inelastic scatter: %v", norm)
	}
}

func TestInelasticScatterReactionAppliesCmToLabWhenNegativeTY(t *testing.T) {
	grid := []float64{1, 2, 3}
	nuc := &data.Nuclide{Name: "N", AWR: 12.0, E: grid}
	r := &data.Reaction{
		MT: 91, IE: 0, Sigma: []float64{1, 1, 1}, Q: 0, TY: -1,
		Edist: &data.EnergyDist{Law: 3, Law3: &data.Law3Data{A: 0.9, B: 0}},
	}
	rng := NewRngStream(55, 0)
	p := NewParticle(1, 0, 0, 0, 0, 0, 1, 5.0, 1.0)
	scattered, err := inelasticScatterReaction(rng, nuc, r, p)
	if err != nil {
		t.Fatal(err)
	}
	if !scattered {
		t.Fatal("inelastic scatter should report scattered==true")
	}
	if p.E <= 0 {
		t.Errorf("lab energy after CM conversion should be positive, got %v", p.E)
	}
	norm := math.Sqrt(p.U*p.U + p.V*p.V + p.W*p.W)
	if math.Abs(norm-1) > 1e-9 {
		t.Errorf("direction not unit after inelastic scatter: %v", norm)
	}
}
