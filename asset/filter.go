// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package asset

import (
	"fmt"

	"github.com/ava-labs/hyperxcm/codec"
	"github.com/ava-labs/hyperxcm/location"
)

const (
	DefiniteFilter uint8 = iota
	WildFilter
)

const (
	WildAll uint8 = iota
	WildAllOf
)

// Wild selects every held asset, or every held asset of one class and
// fungibility.
type Wild struct {
	Kind     uint8
	ID       ID
	Fungible bool
}

func (w Wild) Matches(a Asset) bool {
	if w.Kind == WildAll {
		return true
	}
	return a.Fungible == w.Fungible && a.ID.Equal(w.ID)
}

// Filter selects assets from a holding register without necessarily
// knowing the exact amounts held.
type Filter struct {
	Kind     uint8
	Definite Assets
	Wild     Wild
}

// Definite filters for exactly [as].
func Definite(as ...Asset) Filter {
	return Filter{Kind: DefiniteFilter, Definite: NewAssets(as...)}
}

// All filters for everything held.
func All() Filter {
	return Filter{Kind: WildFilter, Wild: Wild{Kind: WildAll}}
}

// AllOf filters for everything held of one class and fungibility.
func AllOf(id ID, fungible bool) Filter {
	return Filter{Kind: WildFilter, Wild: Wild{Kind: WildAllOf, ID: id, Fungible: fungible}}
}

func (f Filter) IsWild() bool {
	return f.Kind == WildFilter
}

// Matches reports whether [a] belongs to the class of assets [f] selects.
// Amounts are not considered.
func (f Filter) Matches(a Asset) bool {
	if f.Kind == WildFilter {
		return f.Wild.Matches(a)
	}
	for _, d := range f.Definite {
		if compare(d, a) == 0 {
			return true
		}
	}
	return false
}

// Count is the number of distinct assets a definite filter names, or
// [limit] for wildcards.
func (f Filter) Count(limit int) int {
	if f.Kind == WildFilter {
		return limit
	}
	return len(f.Definite)
}

// Reanchored re-expresses [f] relative to [prefix].
func (f Filter) Reanchored(prefix location.Location) (Filter, error) {
	switch {
	case f.Kind == DefiniteFilter:
		as, err := f.Definite.Reanchored(prefix)
		if err != nil {
			return f, err
		}
		return Filter{Kind: DefiniteFilter, Definite: as}, nil
	case f.Wild.Kind == WildAllOf:
		id, err := f.Wild.ID.Reanchored(prefix)
		if err != nil {
			return f, err
		}
		return AllOf(id, f.Wild.Fungible), nil
	default:
		return f, nil
	}
}

func (f Filter) Marshal(p *codec.Packer) {
	p.PackByte(f.Kind)
	if f.Kind == DefiniteFilter {
		f.Definite.Marshal(p)
		return
	}
	p.PackByte(f.Wild.Kind)
	if f.Wild.Kind == WildAllOf {
		f.Wild.ID.Marshal(p)
		if f.Wild.Fungible {
			p.PackByte(FungibleKind)
		} else {
			p.PackByte(NonFungibleKind)
		}
	}
}

func UnmarshalFilter(p *codec.Packer) Filter {
	switch kind := p.UnpackByte(); kind {
	case DefiniteFilter:
		return Filter{Kind: DefiniteFilter, Definite: UnmarshalAssets(p)}
	case WildFilter:
		switch wild := p.UnpackByte(); wild {
		case WildAll:
			return All()
		case WildAllOf:
			id := UnmarshalID(p)
			switch fun := p.UnpackByte(); fun {
			case FungibleKind, NonFungibleKind:
				return AllOf(id, fun == FungibleKind)
			default:
				p.AddErr(fmt.Errorf("%w: fungibility %d", ErrUnknownKind, fun))
			}
		default:
			p.AddErr(fmt.Errorf("%w: wild %d", ErrUnknownKind, wild))
		}
	default:
		p.AddErr(fmt.Errorf("%w: filter %d", ErrUnknownKind, kind))
	}
	return Filter{}
}

func (f Filter) String() string {
	switch {
	case f.Kind == DefiniteFilter:
		return f.Definite.String()
	case f.Wild.Kind == WildAll:
		return "all"
	case f.Wild.Fungible:
		return fmt.Sprintf("all fungible of %s", f.Wild.ID)
	default:
		return fmt.Sprintf("all non-fungible of %s", f.Wild.ID)
	}
}
