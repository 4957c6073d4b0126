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
	"runtime"
	"sync"

	"github.com/nctransport/core/data"
)

// Config holds the per-run settings CollisionEngine and RunGeneration
// need, mirroring the survival-biasing parameters a data-loading layer
// typically reads from a run's input deck.
type Config struct {
	BaseSeed        uint64
	NParticles      int
	SurvivalBiasing bool
	WeightCutoff    float64
	WeightSurvive   float64
}

// GenerationResult is what RunGeneration hands back to the power-
// iteration driver: the merged fission bank for the next generation. A
// fatal error a worker encountered is returned separately by
// RunGeneration.
type GenerationResult struct {
	Bank *FissionBank
}

// RunGeneration transports every particle born from sources (the first
// generation) or from the previous generation's fission bank (every
// later one) to completion, spread across GOMAXPROCS workers. Each
// worker owns its own XsCache and a worker-local FissionBank slice for
// the entire generation and builds a fresh RngStream for each history it
// transports — there is no
// shared mutable state and therefore no locking in the hot path, unlike
// the cell-level locking the sequential per-cell calculation pattern
// this is adapted from requires.
func RunGeneration(cfg Config, lib *data.Library, geom Geometry, tally Tally, keff *Keff, historyIDBase int64, sources []*Particle) (*GenerationResult, error) {
	nprocs := runtime.GOMAXPROCS(0)
	if nprocs > len(sources) && len(sources) > 0 {
		nprocs = len(sources)
	}
	if nprocs < 1 {
		nprocs = 1
	}

	nNuclides := len(lib.Nuclides)
	bankCapacity := 3*len(sources) + 1

	var wg sync.WaitGroup
	workerBanks := make([]*FissionBank, nprocs)
	workerErrs := make([]error, nprocs)

	collision := &CollisionEngine{
		SurvivalBiasing: cfg.SurvivalBiasing,
		WeightCutoff:    cfg.WeightCutoff,
		WeightSurvive:   cfg.WeightSurvive,
	}
	transport := &Transport{Geometry: geom, Collision: collision}

	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			defer wg.Done()

			xc := NewXsCache(nNuclides)
			bank := NewFissionBank(bankCapacity / nprocs + 1)
			workerBanks[pp] = bank

			for ii := pp; ii < len(sources); ii += nprocs {
				p := sources[ii]
				rng := NewRngStream(cfg.BaseSeed, historyIDBase+int64(ii))

				if err := transport.RunHistory(rng, lib, p, xc, keff, bank, tally); err != nil {
					workerErrs[pp] = err
					return
				}
			}
		}(pp)
	}
	wg.Wait()

	for _, err := range workerErrs {
		if err != nil {
			return nil, err
		}
	}

	merged := NewFissionBank(bankCapacity)
	for _, b := range workerBanks {
		if b == nil {
			continue
		}
		for _, s := range b.Sites() {
			merged.Push(s)
		}
	}
	return &GenerationResult{Bank: merged}, nil
}

// SitesToParticles converts a fission bank's sites into the next
// generation's source particles, each starting at unit weight.
func SitesToParticles(sites []Site) []*Particle {
	particles := make([]*Particle, len(sites))
	for i, s := range sites {
		particles[i] = NewParticle(s.UID, s.X, s.Y, s.Z, s.U, s.V, s.W, s.E, 1.0)
	}
	return particles
}
