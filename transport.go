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

// Transport carries a single particle history from birth to death:
// locate the starting cell, then alternate between computing the
// distance to the next collision and the distance to the next
// geometric boundary, moving the shorter of the two and dispatching
// the corresponding event.
type Transport struct {
	Geometry  Geometry
	Collision *CollisionEngine
}

// RunHistory transports p until it dies, returning nil once the
// particle reaches EnergyCutoff, is absorbed, undergoes a terminal
// fission, leaks from the modeled geometry, or is killed by Russian
// roulette.
func (t *Transport) RunHistory(rng *RngStream, lib *data.Library, p *Particle, xc *XsCache, keff *Keff, bank *FissionBank, tally Tally) error {
	if p.Cell == 0 && p.Material == 0 {
		if !t.Geometry.FindCell(p) {
			return fatalf("Transport.run_history", "particle %d born outside the modeled geometry", p.UID)
		}
	}

	for p.Alive {
		if err := xc.Calculate(lib, p); err != nil {
			return err
		}

		distBoundary, surface, inLattice := t.Geometry.DistanceToBoundary(p)
		distCollision := sampleCollisionDistance(rng, xc.Macro.Total)

		if distBoundary <= distCollision {
			lastCell := p.Cell
			advance(p, distBoundary)
			p.LastSurface = surface
			p.LastMaterial = p.Material
			if inLattice {
				t.Geometry.CrossLattice(p)
			} else {
				t.Geometry.CrossSurface(p, lastCell)
			}
			continue
		}

		advance(p, distCollision)
		if err := t.Collision.Collide(rng, lib, p, xc, keff, bank, tally); err != nil {
			return err
		}
	}
	return nil
}

// sampleCollisionDistance draws an exponentially distributed
// flight-path length from the current macroscopic total cross section.
// A non-positive total cross section (vacuum) yields an unbounded
// flight distance.
func sampleCollisionDistance(rng *RngStream, macroTotal float64) float64 {
	if macroTotal <= 0 {
		return math.Inf(1)
	}
	return -math.Log(rng.Float64()) / macroTotal
}

func advance(p *Particle, d float64) {
	p.X += p.U * d
	p.Y += p.V * d
	p.Z += p.W * d
}
