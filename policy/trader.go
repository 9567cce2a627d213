// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package policy

import (
	"context"
	"fmt"
	"sync"

	smath "github.com/ava-labs/avalanchego/utils/math"
	"github.com/holiman/uint256"

	"github.com/ava-labs/hyperxcm/asset"
	"github.com/ava-labs/hyperxcm/consts"
	"github.com/ava-labs/hyperxcm/xcm"
)

// RevenueSink collects what a trader earned over one root execution.
type RevenueSink interface {
	TakeRevenue(ctx context.Context, revenue asset.Asset)
}

// FixedRateTrader sells weight for a single fungible asset at
// [UnitsPerSecond] per [consts.WeightPerSecond] units of weight.
type FixedRateTrader struct {
	ID             asset.ID
	UnitsPerSecond uint256.Int

	// Sink receives revenue when a trader closes. May be nil, in which
	// case revenue is burned.
	Sink RevenueSink
}

// NewTrader returns a trader for one root execution.
func (f *FixedRateTrader) NewTrader() *RateTrader {
	return &RateTrader{config: f}
}

// Cost is the price of [weight] rounded down. It reports false when the
// price does not fit in a fungible amount.
func (f *FixedRateTrader) Cost(weight uint64) (*uint256.Int, bool) {
	cost, overflow := new(uint256.Int).MulOverflow(&f.UnitsPerSecond, uint256.NewInt(weight))
	if overflow {
		return nil, false
	}
	cost.Div(cost, uint256.NewInt(consts.WeightPerSecond))
	if cost.Gt(asset.MaxAmount) {
		return nil, false
	}
	return cost, true
}

// RateTrader is the per-execution state of a [FixedRateTrader].
type RateTrader struct {
	config *FixedRateTrader

	l       sync.Mutex
	weight  uint64
	revenue uint256.Int
}

func (t *RateTrader) BuyWeight(_ context.Context, weight uint64, payment *asset.Holding) (*asset.Holding, error) {
	cost, ok := t.config.Cost(weight)
	if !ok {
		return nil, fmt.Errorf("%w: cost of %d weight exceeds %s", xcm.ErrUnderpaid, weight, asset.MaxAmount)
	}
	required := asset.NewFungibleAmount(t.config.ID, cost)
	if !payment.Contains(asset.NewAssets(required)) {
		return nil, fmt.Errorf("%w: %s required", xcm.ErrUnderpaid, required)
	}
	unspent := payment.Clone()
	if err := unspent.CheckedSub(required); err != nil {
		return nil, fmt.Errorf("%w: %w", xcm.ErrUnderpaid, err)
	}

	t.l.Lock()
	defer t.l.Unlock()
	t.weight = saturatingAdd(t.weight, weight)
	t.revenue.Add(&t.revenue, cost)
	return unspent, nil
}

// RefundWeight refunds at most the weight bought so far.
func (t *RateTrader) RefundWeight(weight uint64) (asset.Asset, bool) {
	t.l.Lock()
	defer t.l.Unlock()

	weight = min(weight, t.weight)
	refund, ok := t.config.Cost(weight)
	if !ok || refund.Gt(&t.revenue) {
		refund = new(uint256.Int).Set(&t.revenue)
	}
	t.weight -= weight
	t.revenue.Sub(&t.revenue, refund)
	if refund.IsZero() {
		return asset.Asset{}, false
	}
	return asset.NewFungibleAmount(t.config.ID, refund), true
}

func (t *RateTrader) Close(ctx context.Context) {
	t.l.Lock()
	revenue := t.revenue
	t.revenue.Clear()
	t.weight = 0
	t.l.Unlock()

	if revenue.IsZero() || t.config.Sink == nil {
		return
	}
	t.config.Sink.TakeRevenue(ctx, asset.NewFungibleAmount(t.config.ID, &revenue))
}

// Weight is the weight currently bought and not refunded.
func (t *RateTrader) Weight() uint64 {
	t.l.Lock()
	defer t.l.Unlock()
	return t.weight
}

func saturatingAdd(a, b uint64) uint64 {
	c, err := smath.Add64(a, b)
	if err != nil {
		return consts.MaxUint64
	}
	return c
}
