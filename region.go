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
	"cmp"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Errors reported when a region is rejected by an [Engine].
var (
	ErrEmptyID      = errors.New("empty region id")
	ErrDuplicateID  = errors.New("duplicate region id")
	ErrUnknownID    = errors.New("unknown region id")
	ErrInvalidLimit = errors.New("limit must be positive")
	ErrInvalidMode  = errors.New("invalid combination mode")
)

// Mode is the rule by which a region's rate is combined with the rates of
// the regions sorted before it.
type Mode uint8

// These are the supported combination modes.
const (
	// ModeSet replaces the rate accumulated so far.
	ModeSet Mode = iota

	// ModeMin keeps the smaller of the accumulated rate and the region's
	// rate, i.e. the larger range.
	ModeMin

	// ModeMax keeps the larger of the accumulated rate and the region's
	// rate, i.e. the smaller range.
	ModeMax

	// ModeAdd adds the region's rate to the accumulated rate.
	ModeAdd

	// ModeSub subtracts the region's rate from the accumulated rate.
	// The result is never negative.
	ModeSub
)

var modeNames = [...]string{"set", "min", "max", "add", "sub"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// ParseMode converts the name of a mode, as returned by [Mode.String],
// back into a Mode.  Case is ignored.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if strings.EqualFold(s, name) {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

func (m Mode) isValid() bool {
	return m <= ModeSub
}

// fold combines the accumulated rate acc with a region's rate.
func (m Mode) fold(acc, rate float64) float64 {
	switch m {
	case ModeSet:
		return rate
	case ModeMin:
		return min(acc, rate)
	case ModeMax:
		return max(acc, rate)
	case ModeAdd:
		return acc + rate
	case ModeSub:
		return max(acc-rate, 0)
	default:
		return acc
	}
}

// SortKey determines the order in which overlapping regions are combined.
// Keys are compared field by field; regions with equal keys are ordered by
// their id.
type SortKey struct {
	Priority  int
	Elevation float64
	Sort      int
}

// Compare returns -1, 0 or +1 depending on whether k sorts before, equal
// to, or after other.
func (k SortKey) Compare(other SortKey) int {
	if c := cmp.Compare(k.Priority, other.Priority); c != 0 {
		return c
	}
	if c := cmp.Compare(k.Elevation, other.Elevation); c != 0 {
		return c
	}
	return cmp.Compare(k.Sort, other.Sort)
}

// Region is an area of the plane in which sight or light can travel at most
// Limit units.
type Region struct {
	// Shape is the area affected by the region.
	Shape Shape

	// Mask, if not nil, further restricts the region to points which are
	// also inside the mask.  An empty mask disables the region.
	Mask *Shape

	// Limit is the maximum travel distance inside the region.  It must be
	// positive.  Use math.Inf(1) for regions which lift a limit.
	Limit float64

	// Mode is used to combine the region with regions sorted before it.
	Mode Mode

	// Key determines the position of the region in the combination order.
	Key SortKey

	// Disabled regions are kept in the registry but ignored by queries.
	Disabled bool
}

// Rate returns the fraction of the travel budget consumed per unit
// distance inside the region.  Unlimited regions have rate 0.
func (r *Region) Rate() float64 {
	if math.IsInf(r.Limit, 1) {
		return 0
	}
	return 1 / r.Limit
}

func (r *Region) validate() error {
	if math.IsNaN(r.Limit) || r.Limit <= 0 {
		return fmt.Errorf("%w (got %g)", ErrInvalidLimit, r.Limit)
	}
	if !r.Mode.isValid() {
		return fmt.Errorf("%w: %s", ErrInvalidMode, r.Mode)
	}
	return nil
}

// RegionUpdate describes a partial change to a region.  Nil fields are left
// unchanged.
type RegionUpdate struct {
	Shape    *Shape
	Mask     *Shape
	Limit    *float64
	Mode     *Mode
	Key      *SortKey
	Disabled *bool

	// ClearMask removes the mask of the region.  It takes precedence over
	// Mask.
	ClearMask bool
}

// applyTo returns a copy of r with the update applied.
func (u *RegionUpdate) applyTo(r Region) Region {
	if u.Shape != nil {
		r.Shape = *u.Shape
	}
	if u.Mask != nil {
		m := *u.Mask
		r.Mask = &m
	}
	if u.ClearMask {
		r.Mask = nil
	}
	if u.Limit != nil {
		r.Limit = *u.Limit
	}
	if u.Mode != nil {
		r.Mode = *u.Mode
	}
	if u.Key != nil {
		r.Key = *u.Key
	}
	if u.Disabled != nil {
		r.Disabled = *u.Disabled
	}
	return r
}
