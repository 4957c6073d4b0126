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

// EnergyCutoff is the minimum energy (MeV) a particle may carry before
// it is killed as a floating-underflow guard.
const EnergyCutoff = 1e-100

// Particle is the transient per-history state threaded through
// Transport, XsCache, and CollisionEngine. It is created by source
// sampling (not this core's concern) or from banked fission sites
// (SitesToParticles) and destroyed by absorption, leakage, weight-cutoff
// kill, or energy-cutoff.
type Particle struct {
	X, Y, Z    float64
	U, V, W    float64 // direction cosines; U*U+V*V+W*W == 1
	E          float64 // MeV, strictly positive while alive
	Weight     float64

	Alive bool

	Cell     int
	Material int

	LastSurface  int
	LastMaterial int

	Collisions int
	UID        int64
	BirthCell  int

	// Cached unionized-grid position, refreshed by XsCache.FindEnergyIndex
	// after a collision the particle survives. CollisionEngine does not
	// read it; it locates its own nuclide-grid position.
	GridIndex     int
	InterpFactor  float64

	// last-collision snapshot, used by FissionSampler's survival-biasing
	// normalization and by tallies.
	LastWeight float64
	LastEnergy float64
	LastMu     float64
}

// NewParticle constructs a particle in the alive state with the given
// birth phase space. Cell/Material are left at zero, the sentinel for
// "not yet located" that Transport checks for on first entry.
func NewParticle(uid int64, x, y, z, u, v, w, e, weight float64) *Particle {
	return &Particle{
		X: x, Y: y, Z: z,
		U: u, V: v, W: w,
		E:      e,
		Weight: weight,
		Alive:  true,
		UID:    uid,
	}
}

// Kill marks the particle dead. It is idempotent.
func (p *Particle) Kill() { p.Alive = false }

// Keff is the current k-eigenvalue estimate and its running standard
// error. It is read-only to the core; the driver updates it
// between cycles via SetEstimate. FissionSampler reads Estimate() to
// normalize the expected fission-daughter count.
type Keff struct {
	estimate float64
	stdErr   float64
}

// NewKeff constructs a Keff at the given starting estimate (1.0 is the
// conventional initial guess before any cycles have run).
func NewKeff(estimate float64) *Keff { return &Keff{estimate: estimate} }

// Estimate returns the current k-eigenvalue estimate.
func (k *Keff) Estimate() float64 { return k.estimate }

// StdErr returns the current running standard error of the estimate.
func (k *Keff) StdErr() float64 { return k.stdErr }

// SetEstimate is called by the driver between cycles; the core never
// calls it itself.
func (k *Keff) SetEstimate(estimate, stdErr float64) {
	k.estimate = estimate
	k.stdErr = stdErr
}
