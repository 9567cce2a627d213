// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package asset

import (
	"bytes"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ava-labs/hyperxcm/codec"
	"github.com/ava-labs/hyperxcm/consts"
	"github.com/ava-labs/hyperxcm/location"
)

const (
	FungibleKind uint8 = iota
	NonFungibleKind
)

// MaxAmount is the largest fungible amount (2^128 - 1).
var MaxAmount = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))

// Asset is either an amount of a fungible class or a single instance of a
// non-fungible class.
type Asset struct {
	ID       ID
	Fungible bool
	Amount   uint256.Int
	Instance Instance
}

func NewFungible(id ID, amount uint64) Asset {
	return Asset{ID: id, Fungible: true, Amount: *uint256.NewInt(amount)}
}

// NewFungibleAmount caps [amount] at [MaxAmount].
func NewFungibleAmount(id ID, amount *uint256.Int) Asset {
	a := Asset{ID: id, Fungible: true}
	a.Amount.Set(amount)
	if a.Amount.Gt(MaxAmount) {
		a.Amount.Set(MaxAmount)
	}
	return a
}

func NewNonFungible(id ID, instance Instance) Asset {
	return Asset{ID: id, Instance: instance}
}

// IsZero reports whether [a] is a fungible asset of no value.
func (a Asset) IsZero() bool {
	return a.Fungible && a.Amount.IsZero()
}

// Key identifies the holding slot of [a]: the class for fungibles, the
// class and instance for non-fungibles.
func (a Asset) Key() string {
	if a.Fungible {
		return a.ID.Key()
	}
	return a.ID.Key() + string(a.Instance.Bytes())
}

func (a Asset) Marshal(p *codec.Packer) {
	a.ID.Marshal(p)
	if a.Fungible {
		p.PackByte(FungibleKind)
		p.PackCompact(&a.Amount)
		return
	}
	p.PackByte(NonFungibleKind)
	a.Instance.Marshal(p)
}

func UnmarshalAsset(p *codec.Packer) Asset {
	a := Asset{ID: UnmarshalID(p)}
	switch kind := p.UnpackByte(); kind {
	case FungibleKind:
		a.Fungible = true
		a.Amount = *p.UnpackCompact(consts.Uint128Len)
	case NonFungibleKind:
		a.Instance = UnmarshalInstance(p)
	default:
		p.AddErr(fmt.Errorf("%w: fungibility %d", ErrUnknownKind, kind))
	}
	return a
}

func (a Asset) Bytes() []byte {
	p := codec.NewWriter(64, consts.MaxInt)
	a.Marshal(p)
	return p.Bytes()
}

func (a Asset) Equal(o Asset) bool {
	return bytes.Equal(a.Bytes(), o.Bytes())
}

// Reanchored re-expresses the id of [a] relative to [prefix].
func (a Asset) Reanchored(prefix location.Location) (Asset, error) {
	id, err := a.ID.Reanchored(prefix)
	if err != nil {
		return a, err
	}
	a.ID = id
	return a, nil
}

func (a Asset) String() string {
	if a.Fungible {
		return fmt.Sprintf("%s of %s", a.Amount.Dec(), a.ID)
	}
	return fmt.Sprintf("%s of %s", a.Instance, a.ID)
}

// compare orders assets by id encoding, fungibles before non-fungibles,
// then by instance encoding.
func compare(a, b Asset) int {
	if c := bytes.Compare(a.ID.Bytes(), b.ID.Bytes()); c != 0 {
		return c
	}
	switch {
	case a.Fungible && b.Fungible:
		return 0
	case a.Fungible:
		return -1
	case b.Fungible:
		return 1
	default:
		return bytes.Compare(a.Instance.Bytes(), b.Instance.Bytes())
	}
}

// saturatingAdd sets z = min(x + y, MaxAmount).
func saturatingAdd(z, x, y *uint256.Int) {
	if _, overflow := z.AddOverflow(x, y); overflow || z.Gt(MaxAmount) {
		z.Set(MaxAmount)
	}
}
