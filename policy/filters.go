// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package policy

import (
	"github.com/ava-labs/hyperxcm/asset"
	"github.com/ava-labs/hyperxcm/location"
)

// AssetFilter matches executor.AssetLocationFilter.
type AssetFilter interface {
	Contains(a asset.Asset, origin location.Location) bool
}

var (
	_ AssetFilter = NativeAsset{}
	_ AssetFilter = Case{}
	_ AssetFilter = AssetFilters(nil)
)

// NativeAsset trusts an origin for the assets it issues itself: those whose
// concrete id is the origin.
type NativeAsset struct{}

func (NativeAsset) Contains(a asset.Asset, origin location.Location) bool {
	return a.ID.IsConcrete() && a.ID.Location.Equal(origin)
}

// Case trusts [Origin] for every asset matched by [Assets].
type Case struct {
	Assets asset.Filter
	Origin location.Location
}

func (c Case) Contains(a asset.Asset, origin location.Location) bool {
	return origin.Equal(c.Origin) && c.Assets.Matches(a)
}

// AssetFilters trusts a pair if any member does.
type AssetFilters []AssetFilter

func (fs AssetFilters) Contains(a asset.Asset, origin location.Location) bool {
	for _, f := range fs {
		if f.Contains(a, origin) {
			return true
		}
	}
	return false
}
