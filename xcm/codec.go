// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xcm

import (
	"errors"
	"fmt"

	"github.com/ava-labs/hyperxcm/asset"
	"github.com/ava-labs/hyperxcm/codec"
	"github.com/ava-labs/hyperxcm/consts"
	"github.com/ava-labs/hyperxcm/location"
)

var (
	errDecodeDepth = errors.New("nesting too deep")
	errBadResponse = errors.New("unknown response")
	errBadOrigin   = errors.New("unknown origin kind")
	errNotUint32   = errors.New("value exceeds uint32")
)

// Decoders receive the remaining nesting budget and pass one less to any
// nested program or order list.
var (
	programParser = codec.NewTypeParser[Program, int]()
	orderParser   = codec.NewTypeParser[Order, int]()
)

func init() {
	errs := []error{
		programParser.Register(WithdrawAssetID, func(p *codec.Packer, depth int) (Program, error) {
			as, effects := unmarshalAssetsAndEffects(p, depth)
			return &WithdrawAsset{Assets: as, Effects: effects}, p.Err()
		}),
		programParser.Register(ReserveAssetDepositedID, func(p *codec.Packer, depth int) (Program, error) {
			as, effects := unmarshalAssetsAndEffects(p, depth)
			return &ReserveAssetDeposited{Assets: as, Effects: effects}, p.Err()
		}),
		programParser.Register(ReceiveTeleportedAssetID, func(p *codec.Packer, depth int) (Program, error) {
			as, effects := unmarshalAssetsAndEffects(p, depth)
			return &ReceiveTeleportedAsset{Assets: as, Effects: effects}, p.Err()
		}),
		programParser.Register(QueryResponseID, func(p *codec.Packer, _ int) (Program, error) {
			var q QueryResponse
			q.QueryID = p.UnpackCompactUint64()
			if kind := p.UnpackByte(); !p.Errored() && kind != AssetsResponseID {
				p.AddErr(fmt.Errorf("%w: %d", errBadResponse, kind))
			}
			q.Response.Assets = asset.UnmarshalAssets(p)
			return &q, p.Err()
		}),
		programParser.Register(TransferAssetID, func(p *codec.Packer, _ int) (Program, error) {
			var t TransferAsset
			t.Assets = asset.UnmarshalAssets(p)
			t.Beneficiary = location.Unmarshal(p)
			return &t, p.Err()
		}),
		programParser.Register(TransferReserveAssetID, func(p *codec.Packer, depth int) (Program, error) {
			var t TransferReserveAsset
			t.Assets = asset.UnmarshalAssets(p)
			t.Dest = location.Unmarshal(p)
			t.Effects = unmarshalOrders(p, depth)
			return &t, p.Err()
		}),
		programParser.Register(TransactID, func(p *codec.Packer, _ int) (Program, error) {
			var t Transact
			kind := OriginKind(p.UnpackByte())
			if !p.Errored() && kind > OriginXcm {
				p.AddErr(fmt.Errorf("%w: %d", errBadOrigin, kind))
			}
			t.OriginKind = kind
			t.RequireWeightAtMost = p.UnpackUint64()
			var call []byte
			p.UnpackBytes(MaxCallSize, false, &call)
			t.Call = call
			return &t, p.Err()
		}),
		programParser.Register(HrmpNewChannelOpenRequestID, func(p *codec.Packer, _ int) (Program, error) {
			var h HrmpNewChannelOpenRequest
			h.Sender = unpackCompactUint32(p)
			h.MaxMessageSize = unpackCompactUint32(p)
			h.MaxCapacity = unpackCompactUint32(p)
			return &h, p.Err()
		}),
		programParser.Register(HrmpChannelAcceptedID, func(p *codec.Packer, _ int) (Program, error) {
			return &HrmpChannelAccepted{Recipient: unpackCompactUint32(p)}, p.Err()
		}),
		programParser.Register(HrmpChannelClosingID, func(p *codec.Packer, _ int) (Program, error) {
			var h HrmpChannelClosing
			h.Initiator = unpackCompactUint32(p)
			h.Sender = unpackCompactUint32(p)
			h.Recipient = unpackCompactUint32(p)
			return &h, p.Err()
		}),
		programParser.Register(RelayedFromID, func(p *codec.Packer, depth int) (Program, error) {
			who := location.UnmarshalJunctions(p)
			if err := p.Err(); err != nil {
				return nil, err
			}
			msg, err := unmarshalProgram(p, depth)
			if err != nil {
				return nil, err
			}
			return &RelayedFrom{Who: who, Message: msg}, nil
		}),

		orderParser.Register(NoopID, func(*codec.Packer, int) (Order, error) {
			return &Noop{}, nil
		}),
		orderParser.Register(DepositAssetID, func(p *codec.Packer, _ int) (Order, error) {
			var d DepositAsset
			d.Assets = asset.UnmarshalFilter(p)
			d.MaxAssets = p.UnpackUint32()
			d.Beneficiary = location.Unmarshal(p)
			return &d, p.Err()
		}),
		orderParser.Register(DepositReserveAssetID, func(p *codec.Packer, depth int) (Order, error) {
			var d DepositReserveAsset
			d.Assets = asset.UnmarshalFilter(p)
			d.MaxAssets = p.UnpackUint32()
			d.Dest = location.Unmarshal(p)
			d.Effects = unmarshalOrders(p, depth)
			return &d, p.Err()
		}),
		orderParser.Register(ExchangeAssetID, func(p *codec.Packer, _ int) (Order, error) {
			var e ExchangeAsset
			e.Give = asset.UnmarshalFilter(p)
			e.Receive = asset.UnmarshalAssets(p)
			return &e, p.Err()
		}),
		orderParser.Register(InitiateReserveWithdrawID, func(p *codec.Packer, depth int) (Order, error) {
			var i InitiateReserveWithdraw
			i.Assets = asset.UnmarshalFilter(p)
			i.Reserve = location.Unmarshal(p)
			i.Effects = unmarshalOrders(p, depth)
			return &i, p.Err()
		}),
		orderParser.Register(InitiateTeleportID, func(p *codec.Packer, depth int) (Order, error) {
			var i InitiateTeleport
			i.Assets = asset.UnmarshalFilter(p)
			i.Dest = location.Unmarshal(p)
			i.Effects = unmarshalOrders(p, depth)
			return &i, p.Err()
		}),
		orderParser.Register(QueryHoldingID, func(p *codec.Packer, _ int) (Order, error) {
			var q QueryHolding
			q.QueryID = p.UnpackCompactUint64()
			q.Dest = location.Unmarshal(p)
			q.Assets = asset.UnmarshalFilter(p)
			return &q, p.Err()
		}),
		orderParser.Register(BuyExecutionID, func(p *codec.Packer, depth int) (Order, error) {
			var b BuyExecution
			b.Fees = asset.UnmarshalAsset(p)
			b.Weight = p.UnpackUint64()
			b.Debt = p.UnpackUint64()
			b.HaltOnError = p.UnpackBool()
			count := p.UnpackLen(consts.MaxItems)
			if err := p.Err(); err != nil {
				return nil, err
			}
			if count > 0 {
				b.Instructions = make([]Program, 0, count)
			}
			for i := 0; i < count; i++ {
				prog, err := unmarshalProgram(p, depth)
				if err != nil {
					return nil, err
				}
				b.Instructions = append(b.Instructions, prog)
			}
			return &b, nil
		}),
	}
	for _, err := range errs {
		if err != nil {
			panic(err)
		}
	}
}

// MarshalProgram writes the discriminant of [prog] followed by its body.
func MarshalProgram(p *codec.Packer, prog Program) {
	p.PackByte(prog.GetTypeID())
	prog.Marshal(p)
}

// UnmarshalProgram decodes a single program from [p].
func UnmarshalProgram(p *codec.Packer) (Program, error) {
	return unmarshalProgram(p, consts.MaxDecodeDepth)
}

func unmarshalProgram(p *codec.Packer, depth int) (Program, error) {
	if depth <= 0 {
		p.AddErr(errDecodeDepth)
		return nil, errDecodeDepth
	}
	prog, err := programParser.Unpack(p, depth-1)
	if err != nil {
		p.AddErr(err)
		return nil, err
	}
	return prog, nil
}

// MarshalOrder writes the discriminant of [o] followed by its body.
func MarshalOrder(p *codec.Packer, o Order) {
	p.PackByte(o.GetTypeID())
	o.Marshal(p)
}

func marshalOrders(p *codec.Packer, orders []Order) {
	p.PackLen(len(orders))
	for _, o := range orders {
		MarshalOrder(p, o)
	}
}

func unmarshalOrders(p *codec.Packer, depth int) []Order {
	count := p.UnpackLen(consts.MaxItems)
	if p.Errored() {
		return nil
	}
	if depth <= 0 && count > 0 {
		p.AddErr(errDecodeDepth)
		return nil
	}
	var orders []Order
	if count > 0 {
		orders = make([]Order, 0, count)
	}
	for i := 0; i < count; i++ {
		o, err := orderParser.Unpack(p, depth-1)
		if err != nil {
			p.AddErr(err)
			return nil
		}
		orders = append(orders, o)
	}
	return orders
}

func unmarshalAssetsAndEffects(p *codec.Packer, depth int) (asset.Assets, []Order) {
	as := asset.UnmarshalAssets(p)
	effects := unmarshalOrders(p, depth)
	return as, effects
}

func unpackCompactUint32(p *codec.Packer) uint32 {
	v := p.UnpackCompactUint64()
	if v > uint64(consts.MaxUint32) {
		p.AddErr(fmt.Errorf("%w: %d", errNotUint32, v))
		return 0
	}
	return uint32(v)
}

// ProgramBytes encodes [prog] without a version prefix.
func ProgramBytes(prog Program) ([]byte, error) {
	p := codec.NewWriter(256, consts.NetworkSizeLimit)
	MarshalProgram(p, prog)
	return p.Bytes(), p.Err()
}

// ParseProgram decodes an unversioned program that must span all of [b].
// Every failure is reported as [ErrFailedToDecode].
func ParseProgram(b []byte) (Program, error) {
	p := codec.NewReader(b, consts.NetworkSizeLimit)
	prog, err := UnmarshalProgram(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToDecode, err)
	}
	if !p.Empty() {
		return nil, fmt.Errorf("%w: %w", ErrFailedToDecode, codec.ErrTrailingBytes)
	}
	return prog, nil
}

// MarshalVersioned encodes [prog] behind the message version byte.
func MarshalVersioned(prog Program) ([]byte, error) {
	p := codec.NewWriter(256, consts.NetworkSizeLimit)
	p.PackByte(consts.Version)
	MarshalProgram(p, prog)
	return p.Bytes(), p.Err()
}

// UnmarshalVersioned decodes a versioned program. An unknown version yields
// [ErrUnhandledXcmVersion]; any other failure yields [ErrFailedToDecode].
func UnmarshalVersioned(b []byte) (Program, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty message", ErrFailedToDecode)
	}
	if b[0] != consts.Version {
		return nil, fmt.Errorf("%w: %d", ErrUnhandledXcmVersion, b[0])
	}
	return ParseProgram(b[1:])
}
