// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xcm

import (
	"github.com/ava-labs/hyperxcm/asset"
	"github.com/ava-labs/hyperxcm/codec"
	"github.com/ava-labs/hyperxcm/location"
)

// Program discriminants. These are part of the wire format and must never
// be renumbered.
const (
	WithdrawAssetID uint8 = iota
	ReserveAssetDepositedID
	ReceiveTeleportedAssetID
	QueryResponseID
	TransferAssetID
	TransferReserveAssetID
	TransactID
	HrmpNewChannelOpenRequestID
	HrmpChannelAcceptedID
	HrmpChannelClosingID
	RelayedFromID
)

// Program is a top-level instruction sent from one consensus to another.
type Program interface {
	// GetTypeID is the stable discriminant of the instruction.
	GetTypeID() uint8

	// Marshal writes the instruction body (without the discriminant).
	Marshal(p *codec.Packer)
}

var (
	_ Program = (*WithdrawAsset)(nil)
	_ Program = (*ReserveAssetDeposited)(nil)
	_ Program = (*ReceiveTeleportedAsset)(nil)
	_ Program = (*QueryResponse)(nil)
	_ Program = (*TransferAsset)(nil)
	_ Program = (*TransferReserveAsset)(nil)
	_ Program = (*Transact)(nil)
	_ Program = (*HrmpNewChannelOpenRequest)(nil)
	_ Program = (*HrmpChannelAccepted)(nil)
	_ Program = (*HrmpChannelClosing)(nil)
	_ Program = (*RelayedFrom)(nil)
)

// WithdrawAsset withdraws [Assets] from the origin into holding and runs
// [Effects] against it.
type WithdrawAsset struct {
	Assets  asset.Assets
	Effects []Order
}

func (*WithdrawAsset) GetTypeID() uint8 { return WithdrawAssetID }

func (w *WithdrawAsset) Marshal(p *codec.Packer) {
	w.Assets.Marshal(p)
	marshalOrders(p, w.Effects)
}

// ReserveAssetDeposited notifies that [Assets] were deposited into the
// sovereign account of the recipient held by the origin (the reserve).
// Derivative assets are minted into holding and [Effects] run against it.
type ReserveAssetDeposited struct {
	Assets  asset.Assets
	Effects []Order
}

func (*ReserveAssetDeposited) GetTypeID() uint8 { return ReserveAssetDepositedID }

func (r *ReserveAssetDeposited) Marshal(p *codec.Packer) {
	r.Assets.Marshal(p)
	marshalOrders(p, r.Effects)
}

// ReceiveTeleportedAsset notifies that [Assets] were destroyed at the
// origin. Equivalent assets are created into holding and [Effects] run
// against it.
type ReceiveTeleportedAsset struct {
	Assets  asset.Assets
	Effects []Order
}

func (*ReceiveTeleportedAsset) GetTypeID() uint8 { return ReceiveTeleportedAssetID }

func (r *ReceiveTeleportedAsset) Marshal(p *codec.Packer) {
	r.Assets.Marshal(p)
	marshalOrders(p, r.Effects)
}

// Response discriminants.
const (
	AssetsResponseID uint8 = iota
)

// Response is the payload of a [QueryResponse]. Only the holding report
// is defined.
type Response struct {
	Assets asset.Assets
}

func (r Response) Marshal(p *codec.Packer) {
	p.PackByte(AssetsResponseID)
	r.Assets.Marshal(p)
}

// QueryResponse answers a query previously sent by the recipient.
type QueryResponse struct {
	QueryID  uint64
	Response Response
}

func (*QueryResponse) GetTypeID() uint8 { return QueryResponseID }

func (q *QueryResponse) Marshal(p *codec.Packer) {
	p.PackCompactUint64(q.QueryID)
	q.Response.Marshal(p)
}

// TransferAsset moves [Assets] from the origin to [Beneficiary] without
// materializing a holding register.
type TransferAsset struct {
	Assets      asset.Assets
	Beneficiary location.Location
}

func (*TransferAsset) GetTypeID() uint8 { return TransferAssetID }

func (t *TransferAsset) Marshal(p *codec.Packer) {
	t.Assets.Marshal(p)
	t.Beneficiary.Marshal(p)
}

// TransferReserveAsset moves [Assets] from the origin into the sovereign
// account of [Dest] and notifies [Dest] with a [ReserveAssetDeposited]
// carrying [Effects].
type TransferReserveAsset struct {
	Assets  asset.Assets
	Dest    location.Location
	Effects []Order
}

func (*TransferReserveAsset) GetTypeID() uint8 { return TransferReserveAssetID }

func (t *TransferReserveAsset) Marshal(p *codec.Packer) {
	t.Assets.Marshal(p)
	t.Dest.Marshal(p)
	marshalOrders(p, t.Effects)
}

// Origin kinds for [Transact].
type OriginKind uint8

const (
	OriginNative OriginKind = iota
	OriginSovereignAccount
	OriginSuperuser
	OriginXcm
)

func (k OriginKind) String() string {
	switch k {
	case OriginNative:
		return "native"
	case OriginSovereignAccount:
		return "sovereign"
	case OriginSuperuser:
		return "superuser"
	case OriginXcm:
		return "xcm"
	default:
		return "unknown"
	}
}

// MaxCallSize bounds [DoubleEncoded] payloads.
const MaxCallSize = 16 * 1024

// DoubleEncoded is an encoded call carried opaquely. It is decoded into
// the host's call type only at dispatch.
type DoubleEncoded []byte

// Transact dispatches [Call] with an origin derived from the message
// origin according to [OriginKind].
type Transact struct {
	OriginKind          OriginKind
	RequireWeightAtMost uint64
	Call                DoubleEncoded
}

func (*Transact) GetTypeID() uint8 { return TransactID }

func (t *Transact) Marshal(p *codec.Packer) {
	p.PackByte(uint8(t.OriginKind))
	p.PackUint64(t.RequireWeightAtMost)
	p.PackBytes(t.Call)
}

// HrmpNewChannelOpenRequest is sent by a relay to a parachain when
// another parachain asks to open a channel to it.
type HrmpNewChannelOpenRequest struct {
	Sender         uint32
	MaxMessageSize uint32
	MaxCapacity    uint32
}

func (*HrmpNewChannelOpenRequest) GetTypeID() uint8 { return HrmpNewChannelOpenRequestID }

func (h *HrmpNewChannelOpenRequest) Marshal(p *codec.Packer) {
	p.PackCompactUint64(uint64(h.Sender))
	p.PackCompactUint64(uint64(h.MaxMessageSize))
	p.PackCompactUint64(uint64(h.MaxCapacity))
}

// HrmpChannelAccepted is sent by a relay to a channel opener once the
// recipient accepted.
type HrmpChannelAccepted struct {
	Recipient uint32
}

func (*HrmpChannelAccepted) GetTypeID() uint8 { return HrmpChannelAcceptedID }

func (h *HrmpChannelAccepted) Marshal(p *codec.Packer) {
	p.PackCompactUint64(uint64(h.Recipient))
}

// HrmpChannelClosing is sent by a relay to both ends of a closing channel.
type HrmpChannelClosing struct {
	Initiator uint32
	Sender    uint32
	Recipient uint32
}

func (*HrmpChannelClosing) GetTypeID() uint8 { return HrmpChannelClosingID }

func (h *HrmpChannelClosing) Marshal(p *codec.Packer) {
	p.PackCompactUint64(uint64(h.Initiator))
	p.PackCompactUint64(uint64(h.Sender))
	p.PackCompactUint64(uint64(h.Recipient))
}

// RelayedFrom runs [Message] with the origin extended by [Who].
type RelayedFrom struct {
	Who     []location.Junction
	Message Program
}

func (*RelayedFrom) GetTypeID() uint8 { return RelayedFromID }

func (r *RelayedFrom) Marshal(p *codec.Packer) {
	location.MarshalJunctions(p, r.Who)
	MarshalProgram(p, r.Message)
}
