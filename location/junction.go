// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package location

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ava-labs/hyperxcm/codec"
	"github.com/ava-labs/hyperxcm/consts"
)

// Junction discriminants.
const (
	ParachainID uint8 = iota
	AccountID32ID
	AccountIndex64ID
	AccountKey20ID
	PalletInstanceID
	GeneralIndexID
	GeneralKeyID
	OnlyChildID
)

// Network discriminants.
const (
	AnyNetwork uint8 = iota
	NamedNetwork
	PolkadotNetwork
	KusamaNetwork
)

// MaxGeneralKeyLen bounds [GeneralKey] and [NetworkID] names.
const MaxGeneralKeyLen = 32

// NetworkID qualifies account junctions with the consensus they belong to.
type NetworkID struct {
	Kind uint8
	Name []byte
}

var Any = NetworkID{Kind: AnyNetwork}

func (n NetworkID) Marshal(p *codec.Packer) {
	p.PackByte(n.Kind)
	if n.Kind == NamedNetwork {
		p.PackBytes(n.Name)
	}
}

func UnmarshalNetworkID(p *codec.Packer) NetworkID {
	n := NetworkID{Kind: p.UnpackByte()}
	switch n.Kind {
	case AnyNetwork, PolkadotNetwork, KusamaNetwork:
	case NamedNetwork:
		p.UnpackBytes(MaxGeneralKeyLen, false, &n.Name)
	default:
		p.AddErr(fmt.Errorf("%w: %d", ErrUnknownNetwork, n.Kind))
	}
	return n
}

// Junction is one step in the interior path of a [Location].
type Junction interface {
	// GetTypeID is the stable discriminant of the junction.
	GetTypeID() uint8

	// Marshal writes the junction body (without the discriminant).
	Marshal(p *codec.Packer)

	String() string
}

type Parachain uint32

func (Parachain) GetTypeID() uint8 { return ParachainID }

func (j Parachain) Marshal(p *codec.Packer) { p.PackCompactUint64(uint64(j)) }

type AccountID32 struct {
	Network NetworkID
	ID      [32]byte
}

func (AccountID32) GetTypeID() uint8 { return AccountID32ID }

func (j AccountID32) Marshal(p *codec.Packer) {
	j.Network.Marshal(p)
	p.PackFixedBytes(j.ID[:])
}

type AccountIndex64 struct {
	Network NetworkID
	Index   uint64
}

func (AccountIndex64) GetTypeID() uint8 { return AccountIndex64ID }

func (j AccountIndex64) Marshal(p *codec.Packer) {
	j.Network.Marshal(p)
	p.PackCompactUint64(j.Index)
}

type AccountKey20 struct {
	Network NetworkID
	Key     [20]byte
}

func (AccountKey20) GetTypeID() uint8 { return AccountKey20ID }

func (j AccountKey20) Marshal(p *codec.Packer) {
	j.Network.Marshal(p)
	p.PackFixedBytes(j.Key[:])
}

type PalletInstance uint8

func (PalletInstance) GetTypeID() uint8 { return PalletInstanceID }

func (j PalletInstance) Marshal(p *codec.Packer) { p.PackByte(uint8(j)) }

// GeneralIndex is an unsigned 128-bit index.
type GeneralIndex struct {
	Index uint256.Int
}

func (GeneralIndex) GetTypeID() uint8 { return GeneralIndexID }

func (j GeneralIndex) Marshal(p *codec.Packer) { p.PackCompact(&j.Index) }

type GeneralKey []byte

func (GeneralKey) GetTypeID() uint8 { return GeneralKeyID }

func (j GeneralKey) Marshal(p *codec.Packer) { p.PackBytes(j) }

type OnlyChild struct{}

func (OnlyChild) GetTypeID() uint8 { return OnlyChildID }

func (OnlyChild) Marshal(*codec.Packer) {}

// MarshalJunction writes the discriminant and body of [j].
func MarshalJunction(p *codec.Packer, j Junction) {
	p.PackByte(j.GetTypeID())
	j.Marshal(p)
}

// UnmarshalJunction reads one junction. Errors are recorded on [p].
func UnmarshalJunction(p *codec.Packer) Junction {
	typeID := p.UnpackByte()
	if p.Errored() {
		return nil
	}
	switch typeID {
	case ParachainID:
		id := p.UnpackCompactUint64()
		if id > uint64(consts.MaxUint32) {
			p.AddErr(fmt.Errorf("%w: parachain %d", codec.ErrInvalidSize, id))
			return nil
		}
		return Parachain(id)
	case AccountID32ID:
		j := AccountID32{Network: UnmarshalNetworkID(p)}
		b := j.ID[:]
		p.UnpackFixedBytes(len(j.ID), &b)
		return j
	case AccountIndex64ID:
		return AccountIndex64{
			Network: UnmarshalNetworkID(p),
			Index:   p.UnpackCompactUint64(),
		}
	case AccountKey20ID:
		j := AccountKey20{Network: UnmarshalNetworkID(p)}
		b := j.Key[:]
		p.UnpackFixedBytes(len(j.Key), &b)
		return j
	case PalletInstanceID:
		return PalletInstance(p.UnpackByte())
	case GeneralIndexID:
		return GeneralIndex{Index: *p.UnpackCompact(consts.Uint128Len)}
	case GeneralKeyID:
		var k []byte
		p.UnpackBytes(MaxGeneralKeyLen, false, &k)
		return GeneralKey(k)
	case OnlyChildID:
		return OnlyChild{}
	default:
		p.AddErr(fmt.Errorf("%w: %d", ErrUnknownJunction, typeID))
		return nil
	}
}

func junctionBytes(j Junction) []byte {
	p := codec.NewWriter(64, consts.MaxInt)
	MarshalJunction(p, j)
	return p.Bytes()
}
