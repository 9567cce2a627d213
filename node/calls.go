// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/hyperxcm/asset"
	"github.com/ava-labs/hyperxcm/codec"
	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/xcm"
)

const (
	RemarkID uint8 = iota
	TransferID
	ClaimAssetsID
	AddOfferID
	CancelOfferID
)

// MaxRemarkSize bounds [Remark.Data].
const MaxRemarkSize = 1_024

var errTrailingBytes = errors.New("trailing bytes")

// Call is a host operation carried by [xcm.Transact].
type Call interface {
	GetTypeID() uint8
	Marshal(p *codec.Packer)

	// Units is the weight of the call in unit weights.
	Units() uint64
}

var (
	_ Call = (*Remark)(nil)
	_ Call = (*Transfer)(nil)
	_ Call = (*ClaimAssets)(nil)
	_ Call = (*AddOffer)(nil)
	_ Call = (*CancelOffer)(nil)
)

// Remark does nothing.
type Remark struct {
	Data []byte
}

func (*Remark) GetTypeID() uint8 { return RemarkID }

func (*Remark) Units() uint64 { return 1 }

func (r *Remark) Marshal(p *codec.Packer) { p.PackBytes(r.Data) }

// Transfer moves [What] from the dispatch origin to [To].
type Transfer struct {
	What asset.Asset
	To   location.Location
}

func (*Transfer) GetTypeID() uint8 { return TransferID }

func (*Transfer) Units() uint64 { return 2 }

func (t *Transfer) Marshal(p *codec.Packer) {
	t.What.Marshal(p)
	t.To.Marshal(p)
}

// ClaimAssets releases assets trapped for the dispatch origin to
// [Beneficiary].
type ClaimAssets struct {
	Assets      asset.Assets
	Beneficiary location.Location
}

func (*ClaimAssets) GetTypeID() uint8 { return ClaimAssetsID }

func (*ClaimAssets) Units() uint64 { return 4 }

func (c *ClaimAssets) Marshal(p *codec.Packer) {
	c.Assets.Marshal(p)
	c.Beneficiary.Marshal(p)
}

// AddOffer lists [Supply] of [Out] at [OutTick] per [InTick] of [In].
type AddOffer struct {
	In      asset.ID
	InTick  uint64
	Out     asset.ID
	OutTick uint64
	Supply  uint64
}

func (*AddOffer) GetTypeID() uint8 { return AddOfferID }

func (*AddOffer) Units() uint64 { return 4 }

func (a *AddOffer) Marshal(p *codec.Packer) {
	a.In.Marshal(p)
	p.PackUint64(a.InTick)
	a.Out.Marshal(p)
	p.PackUint64(a.OutTick)
	p.PackUint64(a.Supply)
}

// CancelOffer delists an offer of the dispatch origin.
type CancelOffer struct {
	ID ids.ID
}

func (*CancelOffer) GetTypeID() uint8 { return CancelOfferID }

func (*CancelOffer) Units() uint64 { return 2 }

func (c *CancelOffer) Marshal(p *codec.Packer) { p.PackID(c.ID) }

var callParser = codec.NewTypeParser[Call, struct{}]()

func init() {
	errs := []error{
		callParser.Register(RemarkID, func(p *codec.Packer, _ struct{}) (Call, error) {
			var r Remark
			p.UnpackBytes(MaxRemarkSize, false, &r.Data)
			return &r, p.Err()
		}),
		callParser.Register(TransferID, func(p *codec.Packer, _ struct{}) (Call, error) {
			var t Transfer
			t.What = asset.UnmarshalAsset(p)
			t.To = location.Unmarshal(p)
			return &t, p.Err()
		}),
		callParser.Register(ClaimAssetsID, func(p *codec.Packer, _ struct{}) (Call, error) {
			var c ClaimAssets
			c.Assets = asset.UnmarshalAssets(p)
			c.Beneficiary = location.Unmarshal(p)
			return &c, p.Err()
		}),
		callParser.Register(AddOfferID, func(p *codec.Packer, _ struct{}) (Call, error) {
			var a AddOffer
			a.In = asset.UnmarshalID(p)
			a.InTick = p.UnpackUint64()
			a.Out = asset.UnmarshalID(p)
			a.OutTick = p.UnpackUint64()
			a.Supply = p.UnpackUint64()
			return &a, p.Err()
		}),
		callParser.Register(CancelOfferID, func(p *codec.Packer, _ struct{}) (Call, error) {
			var c CancelOffer
			p.UnpackID(true, &c.ID)
			return &c, p.Err()
		}),
	}
	for _, err := range errs {
		if err != nil {
			panic(err)
		}
	}
}

// EncodeCall produces the [xcm.DoubleEncoded] form of [c].
func EncodeCall(c Call) (xcm.DoubleEncoded, error) {
	p := codec.NewWriter(0, xcm.MaxCallSize)
	p.PackByte(c.GetTypeID())
	c.Marshal(p)
	if err := p.Err(); err != nil {
		return nil, err
	}
	return p.Bytes(), nil
}

// DecodeCall is the inverse of [EncodeCall].
func DecodeCall(b xcm.DoubleEncoded) (Call, error) {
	p := codec.NewReader(b, xcm.MaxCallSize)
	c, err := callParser.Unpack(p, struct{}{})
	if err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, fmt.Errorf("%w: %d", errTrailingBytes, len(b)-p.Offset())
	}
	return c, nil
}
