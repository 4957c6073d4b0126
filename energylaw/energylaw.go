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

// Package energylaw holds the secondary energy-distribution laws this
// core treats as recognized extension points rather than laws it
// derives itself: ENDF law 5 (general evaporation
// spectrum) and law 67 (lab energy-angle law). Evaluated-data libraries
// vary in how they parameterize these two laws, so each is resolved by
// name through a small registry, the same pattern simplechem.Mechanism
// uses to resolve its dry- and wet-deposition options.
package energylaw

import "fmt"

// Rng is the minimal random source an extension needs; it mirrors the
// core's RngStream without importing it, keeping this package free of a
// dependency back on the root module.
type Rng interface {
	Float64() float64
}

// law5Options holds the general-evaporation-spectrum samplers known to
// this build, keyed by name. SampleLaw5 always uses the "default" entry:
// Law5Data carries no name, so no other entry is ever selected.
var law5Options = map[string]func(rng Rng, thetaX, thetaY, gx, gy []float64, einc float64) (float64, error){
	"default": sampleGeneralEvaporationDefault,
}

// SampleLaw5 draws an outgoing energy from the general evaporation
// spectrum (ENDF law 5): E_out = x * theta(E_in), where x is drawn from
// the tabulated shape function g(x) and theta is interpolated in
// incoming energy.
func SampleLaw5(rng Rng, thetaX, thetaY, gx, gy []float64, einc float64) (float64, error) {
	f, ok := law5Options["default"]
	if !ok {
		return 0, fmt.Errorf("energylaw: no law 5 implementation registered")
	}
	return f(rng, thetaX, thetaY, gx, gy, einc)
}

// law67Options holds the lab energy-angle law implementations known to
// this build, keyed by the ExtensionName recorded on the nuclide's
// Law67Data at data-load time.
var law67Options = map[string]func(rng Rng, einc float64) (float64, *float64, error){
	"isotropic-fallback": sampleLabEnergyAngleIsotropic,
}

// SampleLaw67 draws a correlated (energy, cosine) pair for ENDF law 67
// (lab energy-angle law), dispatching by the name recorded on the
// reaction's Law67Data. There is no single systematics formula for this
// law across evaluated libraries, so unrecognized names are a fatal
// configuration error rather than a silent fallback.
func SampleLaw67(rng Rng, name string, einc float64) (float64, *float64, error) {
	f, ok := law67Options[name]
	if !ok {
		return 0, nil, fmt.Errorf("energylaw: invalid law 67 option %q; %q is the only valid option", name, "isotropic-fallback")
	}
	return f(rng, einc)
}
