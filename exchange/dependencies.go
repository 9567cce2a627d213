// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"context"

	"github.com/ava-labs/hyperxcm/asset"
	"github.com/ava-labs/hyperxcm/location"
)

// Escrow holds offered supply while an offer stands and pays makers when
// it is filled.
type Escrow interface {
	Deposit(ctx context.Context, what asset.Asset, who location.Location) error
	Withdraw(ctx context.Context, what asset.Asset, who location.Location) (asset.Assets, error)
}
