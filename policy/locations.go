// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package policy

import (
	"github.com/ava-labs/avalanchego/utils/set"

	"github.com/ava-labs/hyperxcm/location"
)

// Locations is a membership test over locations.
type Locations interface {
	Contains(l location.Location) bool
}

var (
	_ Locations = Everything{}
	_ Locations = (*LocationSet)(nil)
	_ Locations = Prefixes(nil)
)

// Everything contains every location.
type Everything struct{}

func (Everything) Contains(location.Location) bool { return true }

// LocationSet contains an exact set of locations.
type LocationSet struct {
	s set.Set[string]
}

func NewLocationSet(ls ...location.Location) *LocationSet {
	s := set.NewSet[string](len(ls))
	for _, l := range ls {
		s.Add(l.Key())
	}
	return &LocationSet{s: s}
}

func (ls *LocationSet) Add(l location.Location) {
	ls.s.Add(l.Key())
}

func (ls *LocationSet) Contains(l location.Location) bool {
	return ls.s.Contains(l.Key())
}

func (ls *LocationSet) Len() int {
	return ls.s.Len()
}

// Prefixes contains every location equal to or below one of its entries.
type Prefixes []location.Location

func (p Prefixes) Contains(l location.Location) bool {
	for _, prefix := range p {
		if l.StartsWith(prefix) {
			return true
		}
	}
	return false
}
