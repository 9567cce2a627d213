// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ava-labs/hyperxcm/asset"
	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/state"
)

// DropAssets records [assets] as trapped for [origin]. Identical drops
// from the same origin stack up and are claimed one at a time.
func (l *Ledger) DropAssets(ctx context.Context, origin location.Location, assets asset.Assets) {
	if len(assets) == 0 {
		return
	}
	assets = asset.NewAssets(assets...)
	k := TrapKey(origin, assets)
	if err := l.update(ctx, func(mu state.Mutable) error {
		count, err := getTrapped(ctx, mu, k)
		if err != nil {
			return err
		}
		return setTrapped(ctx, mu, k, count+1)
	}); err != nil {
		l.cfg.Log.Error("unable to trap assets",
			zap.Stringer("origin", origin),
			zap.Stringer("assets", assets),
			zap.Error(err),
		)
		return
	}
	l.cfg.Log.Info("trapped assets",
		zap.Stringer("origin", origin),
		zap.Stringer("assets", assets),
	)
}

// Trapped returns how many times [origin] dropped exactly [assets].
func (l *Ledger) Trapped(ctx context.Context, origin location.Location, assets asset.Assets) (uint64, error) {
	return getTrapped(ctx, l.db, TrapKey(origin, assets))
}

// Claim releases one trapped drop of [assets] by [origin] to [beneficiary].
func (l *Ledger) Claim(ctx context.Context, origin location.Location, assets asset.Assets, beneficiary location.Location) error {
	assets = asset.NewAssets(assets...)
	k := TrapKey(origin, assets)
	return l.update(ctx, func(mu state.Mutable) error {
		count, err := getTrapped(ctx, mu, k)
		if err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: %s from %s", ErrNoTrappedAssets, assets, origin)
		}
		if err := setTrapped(ctx, mu, k, count-1); err != nil {
			return err
		}
		for _, a := range assets {
			if err := deposit(ctx, mu, a, beneficiary); err != nil {
				return err
			}
		}
		return nil
	})
}
