// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xcm

import (
	"github.com/ava-labs/hyperxcm/asset"
	"github.com/ava-labs/hyperxcm/codec"
	"github.com/ava-labs/hyperxcm/location"
)

// Order discriminants. These are part of the wire format and must never
// be renumbered.
const (
	NoopID uint8 = iota
	DepositAssetID
	DepositReserveAssetID
	ExchangeAssetID
	InitiateReserveWithdrawID
	InitiateTeleportID
	QueryHoldingID
	BuyExecutionID
)

// Order is an instruction executed against an active holding register.
type Order interface {
	// GetTypeID is the stable discriminant of the order.
	GetTypeID() uint8

	// Marshal writes the order body (without the discriminant).
	Marshal(p *codec.Packer)
}

var (
	_ Order = (*Noop)(nil)
	_ Order = (*DepositAsset)(nil)
	_ Order = (*DepositReserveAsset)(nil)
	_ Order = (*ExchangeAsset)(nil)
	_ Order = (*InitiateReserveWithdraw)(nil)
	_ Order = (*InitiateTeleport)(nil)
	_ Order = (*QueryHolding)(nil)
	_ Order = (*BuyExecution)(nil)
)

type Noop struct{}

func (*Noop) GetTypeID() uint8 { return NoopID }

func (*Noop) Marshal(*codec.Packer) {}

// DepositAsset deposits up to [MaxAssets] assets matching [Assets] from
// holding into [Beneficiary].
type DepositAsset struct {
	Assets      asset.Filter
	MaxAssets   uint32
	Beneficiary location.Location
}

func (*DepositAsset) GetTypeID() uint8 { return DepositAssetID }

func (d *DepositAsset) Marshal(p *codec.Packer) {
	d.Assets.Marshal(p)
	p.PackUint32(d.MaxAssets)
	d.Beneficiary.Marshal(p)
}

// DepositReserveAsset deposits up to [MaxAssets] assets matching [Assets]
// into the sovereign account of [Dest] and notifies [Dest] with a
// [ReserveAssetDeposited] carrying [Effects].
type DepositReserveAsset struct {
	Assets    asset.Filter
	MaxAssets uint32
	Dest      location.Location
	Effects   []Order
}

func (*DepositReserveAsset) GetTypeID() uint8 { return DepositReserveAssetID }

func (d *DepositReserveAsset) Marshal(p *codec.Packer) {
	d.Assets.Marshal(p)
	p.PackUint32(d.MaxAssets)
	d.Dest.Marshal(p)
	marshalOrders(p, d.Effects)
}

// ExchangeAsset swaps [Give] from holding for at least [Receive].
type ExchangeAsset struct {
	Give    asset.Filter
	Receive asset.Assets
}

func (*ExchangeAsset) GetTypeID() uint8 { return ExchangeAssetID }

func (e *ExchangeAsset) Marshal(p *codec.Packer) {
	e.Give.Marshal(p)
	e.Receive.Marshal(p)
}

// InitiateReserveWithdraw burns derivative [Assets] from holding and asks
// [Reserve] to withdraw the underlying assets from our sovereign account
// and run [Effects] on them.
type InitiateReserveWithdraw struct {
	Assets  asset.Filter
	Reserve location.Location
	Effects []Order
}

func (*InitiateReserveWithdraw) GetTypeID() uint8 { return InitiateReserveWithdrawID }

func (i *InitiateReserveWithdraw) Marshal(p *codec.Packer) {
	i.Assets.Marshal(p)
	i.Reserve.Marshal(p)
	marshalOrders(p, i.Effects)
}

// InitiateTeleport destroys [Assets] from holding and tells [Dest] to
// create them and run [Effects] on them.
type InitiateTeleport struct {
	Assets  asset.Filter
	Dest    location.Location
	Effects []Order
}

func (*InitiateTeleport) GetTypeID() uint8 { return InitiateTeleportID }

func (i *InitiateTeleport) Marshal(p *codec.Packer) {
	i.Assets.Marshal(p)
	i.Dest.Marshal(p)
	marshalOrders(p, i.Effects)
}

// QueryHolding reports the part of holding matching [Assets] to [Dest]
// in a [QueryResponse] tagged [QueryID].
type QueryHolding struct {
	QueryID uint64
	Dest    location.Location
	Assets  asset.Filter
}

func (*QueryHolding) GetTypeID() uint8 { return QueryHoldingID }

func (q *QueryHolding) Marshal(p *codec.Packer) {
	p.PackCompactUint64(q.QueryID)
	q.Dest.Marshal(p)
	q.Assets.Marshal(p)
}

// BuyExecution pays [Fees] from holding for [Weight] plus [Debt] and then
// runs [Instructions] inline. If [HaltOnError] is set the first failing
// instruction stops the order.
type BuyExecution struct {
	Fees         asset.Asset
	Weight       uint64
	Debt         uint64
	HaltOnError  bool
	Instructions []Program
}

func (*BuyExecution) GetTypeID() uint8 { return BuyExecutionID }

func (b *BuyExecution) Marshal(p *codec.Packer) {
	b.Fees.Marshal(p)
	p.PackUint64(b.Weight)
	p.PackUint64(b.Debt)
	p.PackBool(b.HaltOnError)
	p.PackLen(len(b.Instructions))
	for _, prog := range b.Instructions {
		MarshalProgram(p, prog)
	}
}
