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

// Package seed derives reproducible per-history RNG seeds from a base
// seed and a history identifier, by hashing them with fnv64a over a gob
// encoding and falling back to a spew dump when gob can't encode the
// value (e.g. NaNs). Here the "object" is always a fixed (baseSeed,
// historyID) pair, so the fallback path is unreachable in practice but
// is kept as the same belt-and-suspenders guard a hash helper normally
// carries for arbitrary inputs.
package seed

import (
	"encoding/gob"
	"fmt"
	"hash/fnv"

	"github.com/davecgh/go-spew/spew"
)

// Derive returns a deterministic 64-bit seed for the given base seed and
// history id. Equal inputs always produce equal output, and the
// derivation is independent of process, goroutine, or map iteration
// order, matching RngStream's reproducibility contract.
func Derive(baseSeed uint64, historyID int64) uint64 {
	h := fnv.New64a()

	e := gob.NewEncoder(h)
	input := struct {
		BaseSeed  uint64
		HistoryID int64
	}{baseSeed, historyID}
	if err := e.Encode(input); err != nil {
		// Defensive fallback; gob encoding of two fixed-width integers
		// cannot fail, but don't assume it never will.
		h = fnv.New64a()
		printer := spew.ConfigState{
			Indent:         " ",
			SortKeys:       true,
			DisableMethods: true,
			SpewKeys:       true,
		}
		printer.Fprintf(h, "%#v", input)
	}
	return h.Sum64()
}

// String is a convenience formatter used by tests and logging to show a
// seed derivation without exposing the raw hash bytes.
func String(baseSeed uint64, historyID int64) string {
	return fmt.Sprintf("seed(%d,history=%d)=%#x", baseSeed, historyID, Derive(baseSeed, historyID))
}
