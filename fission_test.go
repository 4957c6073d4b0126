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

func fissionableNuclide(nuBar float64) *data.Nuclide {
	grid := []float64{1e-5, 1.0, 2e7}
	nuc := &data.Nuclide{
		Name: "Test-235",
		AWR:  235.0,
		E:    grid,
		NuTotal: &data.Tab1D{
			NR: 1, Interp: data.LinLin, X: grid, Y: []float64{nuBar, nuBar, nuBar},
		},
	}
	fissionRxn := &data.Reaction{
		MT: 18,
		Q:  200.0,
		Edist: &data.EnergyDist{
			Law: 7,
			Law7: &data.Law7Data{
				TempTab: data.Tab1D{NR: 1, Interp: data.LinLin, X: grid, Y: []float64{1.32, 1.32, 1.32}},
			},
		},
	}
	nuc.Reactions = []*data.Reaction{fissionRxn}
	nuc.IndexFission = 0
	nuc.Fissionable = true
	return nuc
}

func TestNuTotalInterpolates(t *testing.T) {
	nuc := fissionableNuclide(2.5)
	nu, err := nuTotal(nuc, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(nu-2.5) > 1e-12 {
		t.Errorf("nuTotal = %v, want 2.5", nu)
	}
}

func TestNuPromptDelayedAllPromptWithoutSeparateTable(t *testing.T) {
	nuc := fissionableNuclide(2.5)
	prompt, delayed, err := nuPromptDelayed(nuc, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if prompt != 2.5 || delayed != 0 {
		t.Errorf("prompt=%v delayed=%v, want 2.5/0", prompt, delayed)
	}
}

func TestNuPromptDelayedSplitsWhenSeparateTableExists(t *testing.T) {
	nuc := fissionableNuclide(2.5)
	nuc.NuPrompt = &data.Tab1D{NR: 1, Interp: data.LinLin, X: nuc.E, Y: []float64{2.43, 2.43, 2.43}}
	prompt, delayed, err := nuPromptDelayed(nuc, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(prompt-2.43) > 1e-9 {
		t.Errorf("prompt = %v, want 2.43", prompt)
	}
	if math.Abs(delayed-(2.5-2.43)) > 1e-9 {
		t.Errorf("delayed = %v, want %v", delayed, 2.5-2.43)
	}
}

// TestCreateFissionSitesAverageDaughterCount checks that with nu_bar =
// 2.5, unit weight, k = 1, and no survival biasing (fissionProb=1,
// actualEvent=true), the average banked daughters per fission event
// converges to 2.5.
func TestCreateFissionSitesAverageDaughterCount(t *testing.T) {
	nuc := fissionableNuclide(2.5)
	keff := NewKeff(1.0)
	rng := NewRngStream(40, 0)

	const trials = 200000
	bank := NewFissionBank(trials * 4)
	for i := 0; i < trials; i++ {
		p := NewParticle(int64(i), 0, 0, 0, 0, 0, 1, 1.0, 1.0)
		if err := CreateFissionSites(rng, nuc, p, keff, true, 1.0, bank); err != nil {
			t.Fatal(err)
		}
	}
	avg := float64(bank.Len()) / trials
	// 3-sigma bound for a stochastically-rounded Poisson-like count
	// around mean 2.5 over 200000 trials.
	sigma := math.Sqrt(2.5/trials) * 3
	if math.Abs(avg-2.5) > sigma+0.01 {
		t.Errorf("average banked daughters = %v, want 2.5 +/- %v", avg, sigma)
	}
}

func TestCreateFissionSitesKillsParentOnActualEvent(t *testing.T) {
	nuc := fissionableNuclide(2.5)
	keff := NewKeff(1.0)
	rng := NewRngStream(41, 0)
	bank := NewFissionBank(100)
	p := NewParticle(1, 0, 0, 0, 0, 0, 1, 1.0, 1.0)
	if err := CreateFissionSites(rng, nuc, p, keff, true, 1.0, bank); err != nil {
		t.Fatal(err)
	}
	if p.Alive {
		t.Error("parent should be killed on an actual fission event")
	}
}

func TestCreateFissionSitesSurvivesUnderBiasing(t *testing.T) {
	nuc := fissionableNuclide(2.5)
	keff := NewKeff(1.0)
	rng := NewRngStream(42, 0)
	bank := NewFissionBank(100)
	p := NewParticle(1, 0, 0, 0, 0, 0, 1, 1.0, 1.0)
	if err := CreateFissionSites(rng, nuc, p, keff, false, 0.1, bank); err != nil {
		t.Fatal(err)
	}
	if !p.Alive {
		t.Error("parent must survive the survival-biasing fission path")
	}
}

// TestFissionBankSaturates checks that requesting more daughters than
// the bank's capacity does not write past the buffer and leaves
// n_bank == capacity.
func TestFissionBankSaturates(t *testing.T) {
	nuc := fissionableNuclide(100.0) // deliberately huge nu-bar
	keff := NewKeff(1.0)
	rng := NewRngStream(43, 0)
	const capacity = 10
	bank := NewFissionBank(capacity)
	p := NewParticle(1, 0, 0, 0, 0, 0, 1, 1.0, 1.0)
	if err := CreateFissionSites(rng, nuc, p, keff, true, 1.0, bank); err != nil {
		t.Fatal(err)
	}
	if bank.Len() != capacity {
		t.Errorf("bank.Len() = %d, want exactly capacity %d", bank.Len(), capacity)
	}
	if len(bank.Sites()) > capacity {
		t.Fatalf("bank grew past capacity: %d sites", len(bank.Sites()))
	}
}

func TestCreateFissionSitesNonPositiveKeffIsFatal(t *testing.T) {
	nuc := fissionableNuclide(2.5)
	keff := NewKeff(0)
	rng := NewRngStream(44, 0)
	bank := NewFissionBank(10)
	p := NewParticle(1, 0, 0, 0, 0, 0, 1, 1.0, 1.0)
	err := CreateFissionSites(rng, nuc, p, keff, true, 1.0, bank)
	if err == nil {
		t.Fatal("expected fatal error for non-positive keff")
	}
	if _, ok := err.(*FatalError); !ok {
		t.Errorf("expected *FatalError, got %T", err)
	}
}

func TestCreateFissionSitesDaughtersHaveUnitDirection(t *testing.T) {
	nuc := fissionableNuclide(3.0)
	keff := NewKeff(1.0)
	rng := NewRngStream(45, 0)
	bank := NewFissionBank(1000)
	p := NewParticle(1, 1, 2, 3, 0, 0, 1, 1.0, 1.0)
	if err := CreateFissionSites(rng, nuc, p, keff, true, 1.0, bank); err != nil {
		t.Fatal(err)
	}
	for _, s := range bank.Sites() {
		norm := math.Sqrt(s.U*s.U + s.V*s.V + s.W*s.W)
		if math.Abs(norm-1) > 1e-9 {
			t.Fatalf("daughter direction not unit: %v", norm)
		}
		if s.X != p.X || s.Y != p.Y || s.Z != p.Z {
			t.Errorf("daughter should inherit parent position")
		}
		if s.E <= 0 {
			t.Errorf("daughter energy must be positive, got %v", s.E)
		}
	}
}
