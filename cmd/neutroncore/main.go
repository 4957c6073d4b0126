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

// Command neutroncore runs a continuous-energy Monte Carlo criticality
// calculation against a synthetic single-nuclide demonstration library,
// since evaluated nuclear data loading and geometry traversal are both
// out of scope for the transport core itself.
package main

import (
	"fmt"
	"math"
	"os"

	"github.com/sirupsen/logrus"

	neutronics "github.com/nctransport/core"
	"github.com/nctransport/core/data"
)

func main() {
	cfg := InitializeConfig()
	if err := cfg.Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// infiniteMediumGeometry is a trivial Geometry test double: a single
// unbounded cell filled with material 0. It demonstrates the core
// against a pure-collision demo run without depending on any real
// geometry implementation.
type infiniteMediumGeometry struct{}

func (infiniteMediumGeometry) FindCell(p *neutronics.Particle) bool {
	p.Cell = 0
	p.Material = 0
	return true
}

func (infiniteMediumGeometry) DistanceToBoundary(p *neutronics.Particle) (float64, int, bool) {
	return math.Inf(1), -1, false
}

func (infiniteMediumGeometry) CrossSurface(p *neutronics.Particle, lastCell int) {}
func (infiniteMediumGeometry) CrossLattice(p *neutronics.Particle)              {}

// countingTally is a trivial Tally test double that counts scattering
// and absorption/fission events separately.
type countingTally struct {
	scatters, absorptions int
}

func (t *countingTally) Score(p *neutronics.Particle, scattered bool) {
	if scattered {
		t.scatters++
	} else {
		t.absorptions++
	}
}

// demoLibrary builds a minimal single-nuclide fissionable library for
// the run command's demonstration, in lieu of a real evaluated nuclear
// data loader.
func demoLibrary() *data.Library {
	grid := []float64{1e-5, 0.0253, 1.0, 1e6, 2e7}

	nuc := &data.Nuclide{
		Name:        "Demo-235",
		AWR:         235.0,
		E:           grid,
		Total:       []float64{530, 430, 15, 7, 5.5},
		Elastic:     []float64{10, 10, 10, 6, 5},
		Absorption:  []float64{520, 420, 5, 1, 0.5},
		Fission:     []float64{70, 70, 5, 1, 0.5},
		GridIndex:   []int{0, 1, 2, 3, 3},
		Fissionable: true,
		NuTotal: &data.Tab1D{
			NR: 1, Interp: data.LinLin,
			X: grid, Y: []float64{2.4, 2.43, 2.5, 2.6, 2.8},
		},
	}

	fissionReaction := &data.Reaction{
		MT:    18,
		IE:    0,
		Sigma: nuc.Fission,
		Q:     200.0,
		TY:    0,
		Edist: &data.EnergyDist{
			Law: 7,
			Law7: &data.Law7Data{
				TempTab: data.Tab1D{NR: 1, Interp: data.LinLin, X: grid, Y: []float64{1.32, 1.32, 1.32, 1.35, 1.4}},
				U:       0,
			},
		},
	}
	elasticReaction := &data.Reaction{MT: neutronics.MTElastic, IE: 0, Sigma: nuc.Elastic}
	nuc.Reactions = []*data.Reaction{elasticReaction, fissionReaction}
	nuc.IndexFission = 1

	mat := &data.Material{Name: "demo-fuel", NuclideIndex: []int{0}, AtomDensity: []float64{0.048}}

	return &data.Library{
		Nuclides:  []*data.Nuclide{nuc},
		Materials: []*data.Material{mat},
		Grid:      data.UnionizedGrid{E: grid},
	}
}

func runCriticality(cfg *Cfg) error {
	lib := demoLibrary()
	geom := infiniteMediumGeometry{}
	tally := &countingTally{}
	keff := neutronics.NewKeff(1.0)

	runCfg := neutronics.Config{
		BaseSeed:        cfg.GetUint64("Seed"),
		NParticles:      cfg.GetInt("NParticles"),
		SurvivalBiasing: cfg.GetBool("SurvivalBiasing"),
		WeightCutoff:    cfg.GetFloat64("WeightCutoff"),
		WeightSurvive:   cfg.GetFloat64("WeightSurvive"),
	}
	nGenerations := cfg.GetInt("NGenerations")
	nSkip := cfg.GetInt("NSkip")

	sources := make([]*neutronics.Particle, runCfg.NParticles)
	for i := range sources {
		sources[i] = neutronics.NewParticle(int64(i), 0, 0, 0, 0, 0, 1, 2.0, 1.0)
	}

	var sumK, sumK2 float64
	var nActive int
	for gen := 0; gen < nGenerations; gen++ {
		result, err := neutronics.RunGeneration(runCfg, lib, geom, tally, keff, int64(gen)*int64(len(sources)), sources)
		if err != nil {
			return err
		}

		nextGen := result.Bank.Len()
		estimate := float64(nextGen) / float64(len(sources))
		if gen >= nSkip {
			sumK += estimate
			sumK2 += estimate * estimate
			nActive++
			mean := sumK / float64(nActive)
			var stdErr float64
			if nActive > 1 {
				variance := sumK2/float64(nActive) - mean*mean
				if variance < 0 {
					variance = 0
				}
				stdErr = math.Sqrt(variance / float64(nActive-1))
			}
			keff.SetEstimate(mean, stdErr)
		} else {
			keff.SetEstimate(estimate, 0)
		}

		logrus.Infof("generation %d: k=%.5f (running estimate %.5f +/- %.5f)", gen, estimate, keff.Estimate(), keff.StdErr())

		sources = neutronics.SitesToParticles(result.Bank.Sites())
		if len(sources) == 0 {
			return fmt.Errorf("neutroncore: fission chain died out at generation %d", gen)
		}
	}

	fmt.Printf("k-effective = %.5f +/- %.5f\n", keff.Estimate(), keff.StdErr())
	fmt.Printf("scatters=%d absorptions=%d\n", tally.scatters, tally.absorptions)
	return nil
}
