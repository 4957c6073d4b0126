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

import "github.com/nctransport/core/data"

// MicroXsEntry is one nuclide's cached microscopic cross sections at the
// particle's current energy.
type MicroXsEntry struct {
	Total, Elastic, Absorption, Fission, NuFission float64
	GridIndex                                      int
	InterpFactor                                   float64
}

// MacroXs is the particle's current material's aggregated macroscopic
// cross sections.
type MacroXs struct {
	Total, Elastic, Absorption, Fission, NuFission float64
}

// XsCache is the per-worker scratch holding one MicroXsEntry per nuclide
// in the library plus the current MacroXs. It is owned
// exclusively by one worker and overwritten on every Calculate call.
type XsCache struct {
	Micro []MicroXsEntry
	Macro MacroXs

	lastMaterial int
	lastE        float64
	valid        bool
}

// NewXsCache allocates a cache sized for nNuclidesTotal nuclides.
func NewXsCache(nNuclidesTotal int) *XsCache {
	return &XsCache{Micro: make([]MicroXsEntry, nNuclidesTotal), lastMaterial: -1}
}

// locateGridIndex finds the unionized-grid bracket for energy e,
// clamping at the ends.
func locateGridIndex(eGrid []float64, e float64) int {
	n := len(eGrid)
	if e < eGrid[0] {
		return 0
	}
	if e > eGrid[n-1] {
		return n - 2
	}
	return binarySearch(eGrid, e)
}

// Calculate recomputes the particle's macroscopic cross sections in its
// current material at its current energy.
//
// The short-circuit compares both p.Material and p.E against the last
// values this cache was computed for: cross sections are energy-dependent,
// so comparing material alone would miss a collision that changes energy
// without changing material.
func (xc *XsCache) Calculate(lib *data.Library, p *Particle) error {
	if xc.valid && p.Material == xc.lastMaterial && p.E == xc.lastE {
		return nil
	}

	xc.Macro = MacroXs{}

	ie := locateGridIndex(lib.Grid.E, p.E)

	mat := lib.Materials[p.Material]
	for i, nucIdx := range mat.NuclideIndex {
		density := mat.AtomDensity[i]
		nuc := lib.Nuclides[nucIdx]

		ieN := nuc.GridIndex[ie]
		if ieN > len(nuc.E)-2 {
			ieN = len(nuc.E) - 2
		}
		f := (p.E - nuc.E[ieN]) / (nuc.E[ieN+1] - nuc.E[ieN])

		entry := MicroXsEntry{GridIndex: ieN, InterpFactor: f}
		entry.Total = lerp(nuc.Total, ieN, f)
		entry.Elastic = lerp(nuc.Elastic, ieN, f)
		entry.Absorption = lerp(nuc.Absorption, ieN, f)
		if nuc.IsFissionable() {
			entry.Fission = lerp(nuc.Fission, ieN, f)
			nuBar, err := nuTotal(nuc, p.E)
			if err != nil {
				return err
			}
			entry.NuFission = nuBar * entry.Fission
		}
		xc.Micro[nucIdx] = entry

		xc.Macro.Total += density * entry.Total
		xc.Macro.Elastic += density * entry.Elastic
		xc.Macro.Absorption += density * entry.Absorption
		xc.Macro.Fission += density * entry.Fission
		xc.Macro.NuFission += density * entry.NuFission
	}

	xc.lastMaterial = p.Material
	xc.lastE = p.E
	xc.valid = true
	return nil
}

// FindEnergyIndex refreshes the particle's cached unionized-grid index
// and interpolation fraction after a collision changes its energy,
// without recomputing the full macroscopic cross section set.
func (xc *XsCache) FindEnergyIndex(lib *data.Library, p *Particle) {
	ie := locateGridIndex(lib.Grid.E, p.E)
	p.GridIndex = ie
	n := len(lib.Grid.E)
	if ie >= n-1 {
		p.InterpFactor = 1
		return
	}
	p.InterpFactor = (p.E - lib.Grid.E[ie]) / (lib.Grid.E[ie+1] - lib.Grid.E[ie])
}

func lerp(y []float64, i int, f float64) float64 {
	if len(y) == 0 {
		return 0
	}
	if i+1 >= len(y) {
		return y[len(y)-1]
	}
	return y[i] + f*(y[i+1]-y[i])
}
