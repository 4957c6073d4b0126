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

// Geometry is the external collaborator that locates cells, measures
// distance to the next boundary, and moves a particle across
// surface/lattice boundaries. Geometry
// traversal itself is out of scope for this core; the core
// only consumes this interface.
type Geometry interface {
	// FindCell locates p.Cell (and any local-coordinate bookkeeping) for
	// a particle that doesn't yet have one, returning false if the
	// particle's position isn't inside the modeled geometry at all.
	FindCell(p *Particle) bool

	// DistanceToBoundary returns the distance to the next surface or
	// lattice boundary along p's current direction, which surface it is,
	// and whether crossing it means entering/leaving a lattice.
	DistanceToBoundary(p *Particle) (distance float64, surface int, inLattice bool)

	// CrossSurface moves p across the surface it just reached, updating
	// p.Cell and p.Material. lastCell is the cell index p occupied
	// before the crossing, for collision-cache invalidation.
	CrossSurface(p *Particle, lastCell int)

	// CrossLattice moves p across a lattice boundary, updating p.Cell
	// and p.Material.
	CrossLattice(p *Particle)
}

// Tally is the external collaborator that accumulates statistics about
// transport events. Tally accumulation is out of
// scope for this core; the core only informs it of events.
type Tally interface {
	// Score records a collision event. scattered is true when the
	// collision produced a surviving secondary particle (elastic or
	// inelastic scatter) and false for absorption/fission, matching the
	// "scattered" flag threaded through CollisionEngine.
	Score(p *Particle, scattered bool)
}
