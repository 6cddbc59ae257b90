// seehuhn.de/go/rangelimit - range limits for 2D visibility polygons
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package rangelimit

import (
	"fmt"
)

// Engine is a registry of range-limiting regions.  Queries are answered
// from a compiled snapshot of the registry, which is rebuilt on the first
// query after the registry was modified.  Internal buffers are reused
// between queries, so that steady-state ray casts do not allocate.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	regions map[string]Region
	dirty   bool
	set     *compiledSet

	// ray cast buffers (reused across calls)
	heap    eventHeap
	hits    []int  // compiled index of each region touched by the ray
	inShape []bool // per hit: ray position is inside the region's shape
	inMask  []bool // per hit: ray position is inside the region's mask
}

// NewEngine returns an empty Engine.
func NewEngine() *Engine {
	return &Engine{
		regions: make(map[string]Region),
		dirty:   true,
	}
}

// Add registers a new region under the given id.
func (e *Engine) Add(id string, r Region) error {
	if id == "" {
		return e.reject(id, ErrEmptyID)
	}
	if _, exists := e.regions[id]; exists {
		return e.reject(id, ErrDuplicateID)
	}
	if err := r.validate(); err != nil {
		return e.reject(id, err)
	}
	if r.Mask != nil {
		m := *r.Mask
		r.Mask = &m
	}
	e.regions[id] = r
	e.dirty = true
	return nil
}

// Update changes some fields of an existing region.  If the resulting
// region is invalid, the registry is left unchanged.
func (e *Engine) Update(id string, u RegionUpdate) error {
	old, ok := e.regions[id]
	if !ok {
		return e.reject(id, ErrUnknownID)
	}
	r := u.applyTo(old)
	if err := r.validate(); err != nil {
		return e.reject(id, err)
	}
	e.regions[id] = r
	e.dirty = true
	return nil
}

// Delete removes the region with the given id.  The return value reports
// whether the region was present.
func (e *Engine) Delete(id string) bool {
	if _, ok := e.regions[id]; !ok {
		return false
	}
	delete(e.regions, id)
	e.dirty = true
	return true
}

// Has reports whether a region with the given id is registered.
func (e *Engine) Has(id string) bool {
	_, ok := e.regions[id]
	return ok
}

// Region returns a copy of the region registered under id.  Changes to
// the copy, including its mask, do not affect the engine.
func (e *Engine) Region(id string) (Region, bool) {
	r, ok := e.regions[id]
	if ok && r.Mask != nil {
		m := *r.Mask
		r.Mask = &m
	}
	return r, ok
}

// Len returns the number of registered regions, including disabled ones.
func (e *Engine) Len() int {
	return len(e.regions)
}

// Reset removes all regions.
func (e *Engine) Reset() {
	clear(e.regions)
	e.dirty = true
}

// Dirty reports whether the registry has been modified since the last
// compilation.
func (e *Engine) Dirty() bool {
	return e.dirty
}

// Compile rebuilds the compiled region set if the registry has changed.
// Queries call this automatically; calling Compile explicitly moves the
// cost out of the first query of a frame.
func (e *Engine) Compile() {
	e.compiled()
}

// Extent returns the smallest and largest finite limit of all regions
// taking part in queries.  If there are no such limits, both values are
// +Inf.
func (e *Engine) Extent() (rMin, rMax float64) {
	cs := e.compiled()
	return cs.rMin, cs.rMax
}

// Uniform reports whether all regions taking part in queries share the
// same limit and none of them has a mask.
func (e *Engine) Uniform() bool {
	return e.compiled().uniform
}

// compiled returns the compiled region set, rebuilding it if needed.
func (e *Engine) compiled() *compiledSet {
	if e.dirty || e.set == nil {
		e.set = compile(e.regions)
		e.dirty = false
	}
	return e.set
}

func (e *Engine) reject(id string, err error) error {
	err = fmt.Errorf("region %q: %w", id, err)
	Logger().Debug("rangelimit: region rejected", "id", id, "err", err)
	return err
}
