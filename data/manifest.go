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

package data

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// manifest is the on-disk shape of a material composition file: which
// nuclides make up the material and at what atom density. Nuclide cross
// section data itself is not part of the manifest — that's the data
// loader's job — the manifest only binds
// names used elsewhere (e.g. in a Library built by that loader) to atom
// densities for a named material.
type manifest struct {
	Material []manifestMaterial `toml:"material"`
}

type manifestMaterial struct {
	Name    string             `toml:"name"`
	Nuclide []manifestNuclide `toml:"nuclide"`
}

type manifestNuclide struct {
	Name        string  `toml:"name"`
	AtomDensity float64 `toml:"atom_density"`
}

// LoadMaterialManifest reads a TOML manifest of material compositions
// and resolves each named nuclide against nuclideIndex (typically built
// from a Library's Nuclides slice keyed by name), producing Materials
// ready to append to a Library.
func LoadMaterialManifest(path string, nuclideIndex map[string]int) ([]*Material, error) {
	var m manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("data: decoding material manifest %s: %w", path, err)
	}
	materials := make([]*Material, 0, len(m.Material))
	for _, mm := range m.Material {
		if len(mm.Nuclide) == 0 {
			return nil, fmt.Errorf("data: material %q has no nuclides", mm.Name)
		}
		mat := &Material{
			Name:         mm.Name,
			NuclideIndex: make([]int, len(mm.Nuclide)),
			AtomDensity:  make([]float64, len(mm.Nuclide)),
		}
		for i, n := range mm.Nuclide {
			idx, ok := nuclideIndex[n.Name]
			if !ok {
				return nil, fmt.Errorf("data: material %q references unknown nuclide %q", mm.Name, n.Name)
			}
			mat.NuclideIndex[i] = idx
			mat.AtomDensity[i] = n.AtomDensity
		}
		materials = append(materials, mat)
	}
	return materials, nil
}

// WriteMaterialManifest is a test/tooling helper that serializes
// materials back into the manifest TOML shape, given a lookup from
// nuclide index to name.
func WriteMaterialManifest(path string, materials []*Material, names []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("data: creating manifest %s: %w", path, err)
	}
	defer f.Close()

	var m manifest
	for _, mat := range materials {
		mm := manifestMaterial{Name: mat.Name}
		for i, idx := range mat.NuclideIndex {
			mm.Nuclide = append(mm.Nuclide, manifestNuclide{
				Name:        names[idx],
				AtomDensity: mat.AtomDensity[i],
			})
		}
		m.Material = append(m.Material, mm)
	}
	return toml.NewEncoder(f).Encode(m)
}
