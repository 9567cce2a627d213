// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package asset

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ava-labs/hyperxcm/codec"
	"github.com/ava-labs/hyperxcm/consts"
	"github.com/ava-labs/hyperxcm/location"
)

// Assets is a canonical asset list: sorted, with at most one fungible
// entry per class, no duplicate non-fungible instances and no fungible
// entries of zero value. Build one with [NewAssets].
type Assets []Asset

// NewAssets sorts [as], merges fungibles of the same class (saturating),
// drops repeated instances and zero amounts.
func NewAssets(as ...Asset) Assets {
	sorted := make([]Asset, 0, len(as))
	for _, a := range as {
		if a.IsZero() {
			continue
		}
		sorted = append(sorted, a)
	}
	slices.SortStableFunc(sorted, compare)

	out := make(Assets, 0, len(sorted))
	for _, a := range sorted {
		if n := len(out); n > 0 && compare(out[n-1], a) == 0 {
			if a.Fungible {
				saturatingAdd(&out[n-1].Amount, &out[n-1].Amount, &a.Amount)
			}
			continue
		}
		out = append(out, a)
	}
	return out
}

func (as Assets) Len() int {
	return len(as)
}

// Contains reports whether [as] holds at least [a].
func (as Assets) Contains(a Asset) bool {
	for _, held := range as {
		if compare(held, a) != 0 {
			continue
		}
		if !a.Fungible {
			return true
		}
		return !held.Amount.Lt(&a.Amount)
	}
	return a.IsZero()
}

// Reanchored re-expresses every id relative to [prefix] and restores
// canonical order.
func (as Assets) Reanchored(prefix location.Location) (Assets, error) {
	out := make([]Asset, len(as))
	for i, a := range as {
		r, err := a.Reanchored(prefix)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return NewAssets(out...), nil
}

func (as Assets) Marshal(p *codec.Packer) {
	p.PackLen(len(as))
	for _, a := range as {
		a.Marshal(p)
	}
}

func (as Assets) Bytes() []byte {
	p := codec.NewWriter(64*len(as)+4, consts.MaxInt)
	as.Marshal(p)
	return p.Bytes()
}

// UnmarshalAssets decodes a list and rejects it unless it is already
// canonical.
func UnmarshalAssets(p *codec.Packer) Assets {
	n := p.UnpackLen(consts.MaxItems)
	if p.Errored() {
		return nil
	}
	as := make(Assets, 0, n)
	for i := 0; i < n; i++ {
		a := UnmarshalAsset(p)
		if p.Errored() {
			return nil
		}
		if i > 0 && compare(as[i-1], a) >= 0 {
			p.AddErr(fmt.Errorf("%w: entry %d out of order", ErrNotCanonical, i))
			return nil
		}
		as = append(as, a)
	}
	return as
}

func (as Assets) String() string {
	parts := make([]string, len(as))
	for i, a := range as {
		parts[i] = a.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
