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

// Package data holds the read-only nuclear-data tables consumed by the
// neutronics transport core: nuclides, reactions, materials, and the
// unionized energy grid. Everything in this package is
// built once by a data-loading layer and borrowed immutably by the core
// for the lifetime of a run; nothing here is mutated during a cycle.
//
// Energy- and angle-distribution data is a tagged variant per law/type
// rather than a flat numeric blob, favoring a tagged representation
// over the brittle flat-blob layout legacy evaluated-data formats use.
package data

// InterpCode is an ENDF-style interpolation law. Only Histogram and
// LinLin are supported by this core; any other code is a fatal error.
type InterpCode int

const (
	Histogram InterpCode = 1
	LinLin    InterpCode = 2
)

// Tab1D is a one-dimensional ENDF TAB1-style tabulated function: X is
// strictly increasing, Y is the function value at each X, and Interp is
// the interpolation law between points. NR counts the number of
// interpolation regions in the original evaluated data; this core only
// supports NR == 1 (a single interpolation law over the whole range) —
// NR > 1 is rejected as fatal by the Interp component.
type Tab1D struct {
	NR     int
	X, Y   []float64
	Interp InterpCode
}

// AngleBin is one incoming-energy bin's worth of scattering-cosine data.
// Exactly one of the three shapes is populated, selected by Type.
type AngleBin struct {
	Type AngleBinType

	// EquiprobableCosines holds the 33 bin-boundary cosines for a
	// 32-equiprobable-bin distribution.
	EquiprobableCosines []float64

	// Tabular cosine/pdf/cdf triplet, all the same length.
	Cosine, PDF, CDF []float64
	Interp           InterpCode
}

type AngleBinType int

const (
	AngleIsotropic AngleBinType = iota
	AngleEquiprobable32
	AngleTabular
)

// AngleDist is a reaction's full scattering-angle distribution: one
// AngleBin per incoming-energy breakpoint in EnergyIn.
type AngleDist struct {
	EnergyIn []float64
	Bins     []AngleBin
}

// ContinuousTab is one incoming-energy bin's outgoing-energy table, used
// by energy laws 4, 44, and 61. R and A are populated
// only for law 44 (Kalbach-Mann); Angle is populated only for law 61,
// and nil there means "isotropic" (the offset-zero shortcut in
// this core's description of law 61).
type ContinuousTab struct {
	Eout, PDF, CDF []float64
	Interp         InterpCode
	ND             int // discrete lines; ND > 0 is rejected as fatal.

	R, A []float64 // Kalbach-Mann parameters, law 44 only.

	Angle *AngleBin // per-bin correlated angle table, law 61 only.
}

// Law1Data is energy law 1: tabular equiprobable energy bins.
type Law1Data struct {
	EnergyIn []float64
	NET      int
	// Bounds[i] holds the NET+1 outgoing-energy bin boundaries for
	// incoming-energy breakpoint i.
	Bounds [][]float64
}

// Law3Data is energy law 3 (inelastic level scattering): E_out =
// A*(E_in - B).
type Law3Data struct {
	A, B float64
}

// Law4Data is energy law 4: continuous tabular distribution.
type Law4Data struct {
	EnergyIn []float64
	Tables   []ContinuousTab
}

// Law5Data is energy law 5 (general evaporation spectrum): a tabulated
// theta(E_in) scale function (E_out = x*theta) plus a shared shape
// function g(x). This
// core treats law 5 as a recognized extension point and
// dispatches it through package energylaw rather than deriving it here.
type Law5Data struct {
	ThetaTab Tab1D
	GX, GY   []float64 // tabulated g(x) shape function
}

// Law7Data is energy law 7 (Maxwell fission spectrum): nuclear
// temperature T tabulated in incoming energy, plus the restriction
// energy U.
type Law7Data struct {
	TempTab Tab1D
	U       float64
}

// Law9Data is energy law 9 (evaporation spectrum).
type Law9Data struct {
	TempTab Tab1D
	U       float64
}

// Law11Data is energy law 11 (energy-dependent Watt spectrum).
type Law11Data struct {
	ATab, BTab Tab1D
	U          float64
}

// Law44Data is energy law 44 (Kalbach-Mann correlated energy-angle).
type Law44Data struct {
	EnergyIn []float64
	Tables   []ContinuousTab
}

// Law61Data is energy law 61 (correlated energy-angle via per-bin
// tabular angle distributions).
type Law61Data struct {
	EnergyIn []float64
	Tables   []ContinuousTab
}

// Law66Data is energy law 66 (N-body phase space distribution).
type Law66Data struct {
	NBodies int // 3, 4, or 5
	Ap      float64 // total mass ratio of the N emitted bodies to the neutron mass
}

// Law67Data is energy law 67 (lab energy-angle law). Like law 5, this
// core treats it as a recognized extension point rather than deriving
// it directly, since evaluated-data libraries vary in how they
// parameterize it.
type Law67Data struct {
	ExtensionName string
}

// EnergyDist is a reaction's secondary energy distribution. Law selects
// which of the LawN fields is populated.
type EnergyDist struct {
	Law int

	Law1  *Law1Data
	Law3  *Law3Data
	Law4  *Law4Data
	Law5  *Law5Data
	Law7  *Law7Data
	Law9  *Law9Data
	Law11 *Law11Data
	Law44 *Law44Data
	Law61 *Law61Data
	Law66 *Law66Data
	Law67 *Law67Data
}

// Reaction is one MT-numbered reaction channel on a nuclide.
// Sigma[j] corresponds to the nuclide's own energy grid at index
// IE+j, i.e. Sigma is aligned to start at the reaction's threshold.
type Reaction struct {
	MT     int
	IE     int // threshold index into the owning nuclide's E grid
	Sigma  []float64
	Q      float64
	TY     int // signed yield/frame: sign = CM(-)/LAB(+), magnitude = multiplicity
	Angle  *AngleDist
	Edist  *EnergyDist
}

// SigmaAt returns the reaction's microscopic cross section at the
// nuclide-grid index ieN with interpolation fraction f, or (0, false) if
// ieN is below the reaction's threshold.
func (r *Reaction) SigmaAt(ieN int, f float64) (float64, bool) {
	j := ieN - r.IE
	if j < 0 || j+1 >= len(r.Sigma) {
		if j == len(r.Sigma)-1 {
			return r.Sigma[j], true
		}
		return 0, false
	}
	return (1-f)*r.Sigma[j] + f*r.Sigma[j+1], true
}

// DelayedGroup is one delayed-neutron precursor group: its fractional
// yield as a function of incoming energy, and the energy distribution
// of neutrons it emits.
type DelayedGroup struct {
	DecayConstant float64
	Yield         Tab1D
	Edist         *EnergyDist
}

// Nuclide is a single evaluated-data nuclide. All
// cross-section slices share the length of E and are indexed in
// lock-step; GridIndex translates a unionized-grid index into this
// nuclide's own grid index and is monotone non-decreasing by
// construction.
type Nuclide struct {
	Name string
	AWR  float64

	E                                  []float64
	Total, Elastic, Absorption, Fission []float64

	GridIndex []int

	Reactions []*Reaction

	Fissionable       bool
	IndexFission      int
	HasPartialFission bool

	NuTotal, NuPrompt, NuDelayed *Tab1D // nil NuPrompt: prompt = NuTotal - NuDelayed (all of NuTotal if NuDelayed is nil too)
	DelayedGroups                []DelayedGroup
}

// IsFissionable reports whether this nuclide carries fission data.
func (n *Nuclide) IsFissionable() bool { return n.Fissionable }

// Material is an ordered list of (nuclide, atom density) pairs.
// NuclideIndex values index into the enclosing Library's Nuclides
// slice, arena-style, rather than holding pointers directly.
type Material struct {
	Name          string
	NuclideIndex  []int
	AtomDensity   []float64 // atoms/barn-cm
}

// UnionizedGrid is the single strictly increasing energy grid spanning
// every nuclide's range.
type UnionizedGrid struct {
	E []float64
}

// Library is the full set of immutable read-only tables a run needs:
// every nuclide, every material, and the shared unionized grid. It is
// built once by the data-loading layer (out of scope for this core) and
// borrowed immutably thereafter.
type Library struct {
	Nuclides []*Nuclide
	Materials []*Material
	Grid      UnionizedGrid
}
