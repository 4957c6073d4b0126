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

package energylaw

// sampleLabEnergyAngleIsotropic is the fallback ENDF law 67
// implementation: it preserves the incoming energy (no energy loss
// systematics are assumed) and samples an isotropic lab-frame cosine.
// A data-loading layer that encounters a library-specific law 67
// parameterization should register its own name in law67Options rather
// than relying on this fallback.
func sampleLabEnergyAngleIsotropic(rng Rng, einc float64) (float64, *float64, error) {
	mu := 2*rng.Float64() - 1
	return einc, &mu, nil
}
