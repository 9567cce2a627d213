// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package policy

import (
	"fmt"

	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/xcm"
)

// LocationOrigin converts message origins into dispatch origins that are
// themselves locations.
//
// Sovereign-account and xcm origins pass through unchanged. A native
// origin is only granted to the interpreting consensus itself and a
// superuser origin only to [Superusers].
type LocationOrigin struct {
	Superusers Locations
}

func (c *LocationOrigin) ConvertOrigin(origin location.Location, kind xcm.OriginKind) (location.Location, error) {
	switch kind {
	case xcm.OriginSovereignAccount, xcm.OriginXcm:
		return origin, nil
	case xcm.OriginNative:
		if !origin.IsHere() {
			return location.Location{}, fmt.Errorf("%w: %s is not native", ErrUnsupportedOriginKind, origin)
		}
		return origin, nil
	case xcm.OriginSuperuser:
		if c.Superusers == nil || !c.Superusers.Contains(origin) {
			return location.Location{}, fmt.Errorf("%w: %s is not a superuser", ErrUnsupportedOriginKind, origin)
		}
		return origin, nil
	default:
		return location.Location{}, fmt.Errorf("%w: %d", ErrUnsupportedOriginKind, kind)
	}
}
