// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/math"
	"go.uber.org/zap"

	"github.com/ava-labs/hyperxcm/asset"
	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/xcm"
)

// execution is the state of one root execution. The depth counter and
// trader are shared by every frame of the root and never by two roots.
type execution[O, C any] struct {
	*Executor[O, C]

	trader Trader
	depth  int
	peak   int
}

// nested enters a program run inline by the current frame. The recursion
// limit is checked before anything else so an aborted frame has no
// effects.
func (x *execution[O, C]) nested(
	ctx context.Context,
	origin location.Location,
	topLevel bool,
	program xcm.Program,
	weightCredit *uint64,
) (uint64, error) {
	if x.depth >= x.config.MaxRecursionLimit {
		x.metrics.recursionLimit.Inc()
		return 0, fmt.Errorf("%w: %d", xcm.ErrRecursionLimitReached, x.config.MaxRecursionLimit)
	}
	x.depth++
	x.peak = max(x.peak, x.depth)
	defer func() { x.depth-- }()

	shallow, err := x.config.Weigher.Shallow(program)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", xcm.ErrWeightNotComputable, err)
	}
	if err := x.config.Barrier.ShouldExecute(origin, topLevel, program, shallow, weightCredit); err != nil {
		return 0, fmt.Errorf("%w: %w", xcm.ErrBarrier, err)
	}
	return x.interpret(ctx, origin, topLevel, program, weightCredit)
}

// interpret runs one admitted program and returns the weight it did not
// need.
func (x *execution[O, C]) interpret(
	ctx context.Context,
	origin location.Location,
	topLevel bool,
	program xcm.Program,
	weightCredit *uint64,
) (uint64, error) {
	var (
		holding *asset.Holding
		effects []xcm.Order
	)
	switch p := program.(type) {
	case *xcm.WithdrawAsset:
		holding = asset.NewHolding()
		for _, a := range p.Assets {
			withdrawn, err := x.config.AssetTransactor.Withdraw(ctx, a, origin)
			if err != nil {
				x.trap(ctx, origin, holding)
				return 0, err
			}
			holding.SubsumeAssets(withdrawn)
		}
		effects = p.Effects

	case *xcm.ReserveAssetDeposited:
		for _, a := range p.Assets {
			if x.config.IsReserve == nil || !x.config.IsReserve.Contains(a, origin) {
				return 0, fmt.Errorf("%w: %s from %s", xcm.ErrUntrustedReserveLocation, a, origin)
			}
		}
		holding = asset.NewHolding(p.Assets...)
		effects = p.Effects

	case *xcm.ReceiveTeleportedAsset:
		for _, a := range p.Assets {
			if x.config.IsTeleporter == nil || !x.config.IsTeleporter.Contains(a, origin) {
				return 0, fmt.Errorf("%w: %s from %s", xcm.ErrUntrustedTeleportLocation, a, origin)
			}
			if err := x.config.AssetTransactor.CanCheckIn(ctx, origin, a); err != nil {
				return 0, err
			}
		}
		for _, a := range p.Assets {
			x.config.AssetTransactor.CheckIn(ctx, origin, a)
		}
		holding = asset.NewHolding(p.Assets...)
		effects = p.Effects

	case *xcm.TransferAsset:
		for _, a := range p.Assets {
			if err := x.config.AssetTransactor.Transfer(ctx, a, origin, p.Beneficiary); err != nil {
				return 0, err
			}
		}
		return 0, nil

	case *xcm.TransferReserveAsset:
		inverted, err := x.config.LocationInverter.Invert(p.Dest)
		if err != nil {
			return 0, err
		}
		assets, err := p.Assets.Reanchored(inverted)
		if err != nil {
			return 0, err
		}
		for _, a := range p.Assets {
			if err := x.config.AssetTransactor.Transfer(ctx, a, origin, p.Dest); err != nil {
				return 0, err
			}
		}
		return 0, x.send(ctx, p.Dest, &xcm.ReserveAssetDeposited{Assets: assets, Effects: p.Effects})

	case *xcm.Transact:
		return x.transact(ctx, origin, p)

	case *xcm.QueryResponse:
		if x.config.ResponseHandler == nil {
			return 0, fmt.Errorf("%w: no response handler", xcm.ErrUnhandledXcmMessage)
		}
		return 0, x.config.ResponseHandler.OnResponse(ctx, origin, p.QueryID, p.Response)

	case *xcm.RelayedFrom:
		relayed := origin
		for _, j := range p.Who {
			next, err := relayed.PushInterior(j)
			if err != nil {
				return 0, fmt.Errorf("%w: %w", xcm.ErrLocationFull, err)
			}
			relayed = next
		}
		return x.nested(ctx, relayed, topLevel, p.Message, weightCredit)

	default:
		return 0, fmt.Errorf("%w: program %d", xcm.ErrUnhandledXcmMessage, program.GetTypeID())
	}

	defer x.trap(ctx, origin, holding)
	var surplus uint64
	for i, order := range effects {
		s, err := x.executeOrder(ctx, origin, holding, order)
		if err != nil {
			x.log.Debug("order failed",
				zap.Stringer("origin", origin),
				zap.Int("index", i),
				zap.Uint8("order", order.GetTypeID()),
				zap.Error(err),
			)
			return surplus, err
		}
		surplus = saturatingAdd(surplus, s)
	}
	return surplus, nil
}

// executeOrder runs [order] against [holding]. A failing order puts back
// into [holding] whatever it took and did not commit.
func (x *execution[O, C]) executeOrder(
	ctx context.Context,
	origin location.Location,
	holding *asset.Holding,
	order xcm.Order,
) (uint64, error) {
	switch o := order.(type) {
	case *xcm.Noop:
		return 0, nil

	case *xcm.DepositAsset:
		taken := holding.SaturatingTake(o.Assets, int(o.MaxAssets))
		return 0, x.deposit(ctx, holding, taken, o.Beneficiary)

	case *xcm.DepositReserveAsset:
		taken := holding.SaturatingTake(o.Assets, int(o.MaxAssets))
		assets, err := x.reanchored(taken.Assets(), o.Dest)
		if err != nil {
			holding.SubsumeHolding(taken)
			return 0, err
		}
		if err := x.deposit(ctx, holding, taken, o.Dest); err != nil {
			return 0, err
		}
		return 0, x.send(ctx, o.Dest, &xcm.ReserveAssetDeposited{Assets: assets, Effects: o.Effects})

	case *xcm.ExchangeAsset:
		if x.config.Exchanger == nil {
			return 0, fmt.Errorf("%w: no exchanger", xcm.ErrUnhandledEffect)
		}
		give, err := holding.Withdraw(o.Give)
		if err != nil {
			return 0, err
		}
		got, err := x.config.Exchanger.Exchange(ctx, origin, give.Clone(), o.Receive)
		if err != nil {
			holding.SubsumeHolding(give)
			return 0, fmt.Errorf("%w: %w", xcm.ErrExchangeFailed, err)
		}
		if !got.Contains(o.Receive) {
			holding.SubsumeHolding(give)
			return 0, fmt.Errorf("%w: received %s, wanted %s", xcm.ErrExchangeFailed, got, o.Receive)
		}
		holding.SubsumeHolding(got)
		return 0, nil

	case *xcm.InitiateReserveWithdraw:
		taken := holding.SaturatingTake(o.Assets, -1)
		assets, err := x.reanchored(taken.Assets(), o.Reserve)
		if err != nil {
			holding.SubsumeHolding(taken)
			return 0, err
		}
		if err := x.send(ctx, o.Reserve, &xcm.WithdrawAsset{Assets: assets, Effects: o.Effects}); err != nil {
			holding.SubsumeHolding(taken)
			return 0, err
		}
		return 0, nil

	case *xcm.InitiateTeleport:
		taken := holding.SaturatingTake(o.Assets, -1)
		assets, err := x.reanchored(taken.Assets(), o.Dest)
		if err != nil {
			holding.SubsumeHolding(taken)
			return 0, err
		}
		if err := x.send(ctx, o.Dest, &xcm.ReceiveTeleportedAsset{Assets: assets, Effects: o.Effects}); err != nil {
			holding.SubsumeHolding(taken)
			return 0, err
		}
		for _, a := range taken.Assets() {
			x.config.AssetTransactor.CheckOut(ctx, o.Dest, a)
		}
		return 0, nil

	case *xcm.QueryHolding:
		assets, err := x.reanchored(holding.Min(o.Assets), o.Dest)
		if err != nil {
			return 0, err
		}
		return 0, x.send(ctx, o.Dest, &xcm.QueryResponse{
			QueryID:  o.QueryID,
			Response: xcm.Response{Assets: assets},
		})

	case *xcm.BuyExecution:
		return x.buyExecution(ctx, origin, holding, o)

	default:
		return 0, fmt.Errorf("%w: order %d", xcm.ErrUnhandledEffect, order.GetTypeID())
	}
}

// buyExecution pays for [o] out of [holding] and runs its instructions
// inline with the paid weight as their credit.
func (x *execution[O, C]) buyExecution(
	ctx context.Context,
	origin location.Location,
	holding *asset.Holding,
	o *xcm.BuyExecution,
) (uint64, error) {
	purchasing, err := math.Add64(o.Weight, o.Debt)
	if err != nil {
		return 0, fmt.Errorf("%w: weight %d + debt %d", xcm.ErrOverflow, o.Weight, o.Debt)
	}
	fees, err := holding.Withdraw(asset.Definite(o.Fees))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", xcm.ErrNotHoldingFees, err)
	}
	unspent, err := x.trader.BuyWeight(ctx, purchasing, fees)
	if err != nil {
		if x.config.RefundUnderpaidFees {
			holding.SubsumeHolding(fees)
		}
		return 0, err
	}
	holding.SubsumeHolding(unspent)

	var (
		remaining = o.Weight
		surplus   uint64
	)
	for i, program := range o.Instructions {
		s, err := x.nested(ctx, origin, false, program, &remaining)
		if err != nil {
			if o.HaltOnError {
				return surplus, err
			}
			x.log.Debug("ignoring failed instruction",
				zap.Stringer("origin", origin),
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		surplus = saturatingAdd(surplus, s)
	}
	if refund, ok := x.trader.RefundWeight(surplus); ok {
		holding.Subsume(refund)
	}
	return surplus, nil
}

func (x *execution[O, C]) transact(ctx context.Context, origin location.Location, t *xcm.Transact) (uint64, error) {
	dispatcher := x.config.CallDispatcher
	if dispatcher == nil || x.config.OriginConverter == nil {
		return 0, fmt.Errorf("%w: no call dispatcher", xcm.ErrUnhandledXcmMessage)
	}
	call, err := dispatcher.Decode(t.Call)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", xcm.ErrFailedToDecode, err)
	}
	dispatchOrigin, err := x.config.OriginConverter.ConvertOrigin(origin, t.OriginKind)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", xcm.ErrBadOrigin, err)
	}
	weight := dispatcher.Weight(call)
	if weight > t.RequireWeightAtMost {
		return 0, fmt.Errorf("%w: %d > %d", xcm.ErrTooMuchWeightRequired, weight, t.RequireWeightAtMost)
	}
	actual, err := dispatcher.Dispatch(ctx, dispatchOrigin, call)
	if err != nil {
		x.metrics.dispatchFailures.Inc()
		x.log.Debug("transact dispatch failed",
			zap.Stringer("origin", origin),
			zap.Error(err),
		)
	}
	return saturatingSub(weight, actual), nil
}

// deposit credits every asset of [taken] to [beneficiary]. Assets not
// deposited when an error occurs are returned to [holding].
func (x *execution[O, C]) deposit(
	ctx context.Context,
	holding *asset.Holding,
	taken *asset.Holding,
	beneficiary location.Location,
) error {
	assets := taken.Assets()
	for i, a := range assets {
		if err := x.config.AssetTransactor.Deposit(ctx, a, beneficiary); err != nil {
			holding.SubsumeAssets(assets[i:])
			return err
		}
	}
	return nil
}

// reanchored re-expresses [assets] as seen from [dest].
func (x *execution[O, C]) reanchored(assets asset.Assets, dest location.Location) (asset.Assets, error) {
	inverted, err := x.config.LocationInverter.Invert(dest)
	if err != nil {
		return nil, err
	}
	return assets.Reanchored(inverted)
}

func (x *execution[O, C]) send(ctx context.Context, dest location.Location, program xcm.Program) error {
	if err := x.config.Router.Send(ctx, dest, program); err != nil {
		if errors.Is(err, xcm.ErrSendFailed) {
			return err
		}
		return fmt.Errorf("%w: %w", xcm.ErrSendFailed, err)
	}
	x.metrics.sent.Inc()
	return nil
}

// trap hands the remainder of a finished frame to the asset trap.
func (x *execution[O, C]) trap(ctx context.Context, origin location.Location, holding *asset.Holding) {
	if holding.IsEmpty() {
		return
	}
	assets := holding.Assets()
	x.metrics.trappedAssets.Add(float64(len(assets)))
	if x.config.AssetTrap != nil {
		x.config.AssetTrap.DropAssets(ctx, origin, assets)
	}
}
