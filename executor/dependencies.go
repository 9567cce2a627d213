// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"context"

	"github.com/ava-labs/hyperxcm/asset"
	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/xcm"
)

// AssetTransactor moves assets in and out of the host ledger. Every call
// must be atomic at the storage level: an error means nothing changed.
type AssetTransactor interface {
	// Deposit credits [what] to [who].
	Deposit(ctx context.Context, what asset.Asset, who location.Location) error

	// Withdraw debits [what] from [who] and returns it in a form that can
	// be placed in holding.
	Withdraw(ctx context.Context, what asset.Asset, who location.Location) (asset.Assets, error)

	// Transfer moves [what] from [from] to [to] without passing through
	// holding.
	Transfer(ctx context.Context, what asset.Asset, from, to location.Location) error

	// CanCheckIn reports whether [what] may be teleported in from [origin].
	CanCheckIn(ctx context.Context, origin location.Location, what asset.Asset) error

	// CheckIn records that [what] was teleported in from [origin]. It is
	// only called after [CanCheckIn] succeeded for every asset.
	CheckIn(ctx context.Context, origin location.Location, what asset.Asset)

	// CheckOut records that [what] is being teleported out to [dest].
	CheckOut(ctx context.Context, dest location.Location, what asset.Asset)
}

// Router forwards a program to another consensus system. Failures are
// reported to the caller and never retried.
type Router interface {
	Send(ctx context.Context, dest location.Location, program xcm.Program) error
}

// OriginConverter maps a message origin to the host's dispatch origin.
type OriginConverter[O any] interface {
	ConvertOrigin(origin location.Location, kind xcm.OriginKind) (O, error)
}

// Barrier decides whether [program] from [origin] may run at all. It may
// consume [weightCredit].
type Barrier interface {
	ShouldExecute(
		origin location.Location,
		topLevel bool,
		program xcm.Program,
		shallowWeight uint64,
		weightCredit *uint64,
	) error
}

// Weigher estimates the cost of a program before it runs. [Shallow] is the
// cost of [program] itself, [Deep] the cost of any programs it runs inline.
type Weigher interface {
	Shallow(program xcm.Program) (uint64, error)
	Deep(program xcm.Program) (uint64, error)
}

// Trader buys weight with assets taken from holding. One Trader serves a
// single root execution.
type Trader interface {
	// BuyWeight takes the cost of [weight] out of [payment] and returns what
	// is left. On failure [payment] is left untouched.
	BuyWeight(ctx context.Context, weight uint64, payment *asset.Holding) (*asset.Holding, error)

	// RefundWeight returns the cost of [weight] previously bought, if any.
	RefundWeight(weight uint64) (asset.Asset, bool)

	// Close settles the revenue of the trader.
	Close(ctx context.Context)
}

type TraderFactory interface {
	NewTrader() Trader
}

// TraderFunc adapts a constructor to a [TraderFactory].
type TraderFunc func() Trader

func (f TraderFunc) NewTrader() Trader { return f() }

// AssetLocationFilter reports whether [origin] is trusted for [a]. It
// backs the reserve and teleport trust checks.
type AssetLocationFilter interface {
	Contains(a asset.Asset, origin location.Location) bool
}

// ResponseHandler consumes query responses.
type ResponseHandler interface {
	ExpectingResponse(origin location.Location, queryID uint64) bool
	OnResponse(ctx context.Context, origin location.Location, queryID uint64, response xcm.Response) error
}

// LocationInverter expresses the interpreting consensus as seen from a
// location relative to it.
type LocationInverter interface {
	Invert(target location.Location) (location.Location, error)
}

// Exchanger swaps [give] for at least [want]. On failure [give] must be
// returned untouched by the caller.
type Exchanger interface {
	Exchange(ctx context.Context, origin location.Location, give *asset.Holding, want asset.Assets) (*asset.Holding, error)
}

// AssetTrap receives whatever is left in holding when a frame ends.
type AssetTrap interface {
	DropAssets(ctx context.Context, origin location.Location, assets asset.Assets)
}

// CallDispatcher decodes and dispatches [xcm.Transact] payloads. [C] is the
// host call type and [O] the host origin type.
type CallDispatcher[O, C any] interface {
	Decode(call xcm.DoubleEncoded) (C, error)
	Weight(call C) uint64
	// Dispatch runs [call] and returns the weight actually used. A dispatch
	// error does not fail the surrounding program.
	Dispatch(ctx context.Context, origin O, call C) (uint64, error)
}
