// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package asset

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ava-labs/hyperxcm/codec"
	"github.com/ava-labs/hyperxcm/consts"
	"github.com/ava-labs/hyperxcm/location"
)

const (
	ConcreteKind uint8 = iota
	AbstractKind
)

// MaxAbstractLen bounds abstract identifiers.
const MaxAbstractLen = 32

const abstractPrefix = "abstract:"

// ID names a class of assets. A concrete id is the location of the
// asset's issuer; an abstract id is an opaque name agreed out of band.
type ID struct {
	Kind     uint8
	Location location.Location
	Abstract []byte
}

func Concrete(l location.Location) ID {
	return ID{Kind: ConcreteKind, Location: l}
}

func Abstract(name []byte) ID {
	return ID{Kind: AbstractKind, Abstract: name}
}

func (id ID) IsConcrete() bool {
	return id.Kind == ConcreteKind
}

func (id ID) Marshal(p *codec.Packer) {
	p.PackByte(id.Kind)
	switch id.Kind {
	case ConcreteKind:
		id.Location.Marshal(p)
	default:
		p.PackBytes(id.Abstract)
	}
}

func UnmarshalID(p *codec.Packer) ID {
	kind := p.UnpackByte()
	switch kind {
	case ConcreteKind:
		return Concrete(location.Unmarshal(p))
	case AbstractKind:
		var name []byte
		p.UnpackBytes(MaxAbstractLen, false, &name)
		return Abstract(name)
	default:
		p.AddErr(fmt.Errorf("%w: asset id %d", ErrUnknownKind, kind))
		return ID{}
	}
}

func (id ID) Bytes() []byte {
	p := codec.NewWriter(64, consts.MaxInt)
	id.Marshal(p)
	return p.Bytes()
}

// Key is a stable map key for [id].
func (id ID) Key() string {
	return string(id.Bytes())
}

func (id ID) Equal(o ID) bool {
	return bytes.Equal(id.Bytes(), o.Bytes())
}

// Reanchored re-expresses a concrete id relative to the consensus that
// [prefix] is relative to. Abstract ids are returned unchanged.
func (id ID) Reanchored(prefix location.Location) (ID, error) {
	if id.Kind != ConcreteKind {
		return id, nil
	}
	l, err := id.Location.Prepended(prefix)
	if err != nil {
		return id, err
	}
	return Concrete(l), nil
}

func (id ID) String() string {
	if id.Kind == ConcreteKind {
		return id.Location.String()
	}
	return abstractPrefix + codec.ToHex(id.Abstract)
}

// ParseID reads either a location or "abstract:0x..".
func ParseID(s string) (ID, error) {
	if strings.HasPrefix(s, abstractPrefix) {
		name, err := codec.LoadHex(strings.TrimPrefix(s, abstractPrefix), -1)
		if err != nil {
			return ID{}, fmt.Errorf("%w: %w", ErrInvalidID, err)
		}
		if len(name) > MaxAbstractLen {
			return ID{}, fmt.Errorf("%w: abstract id too long", ErrInvalidID)
		}
		return Abstract(name), nil
	}
	l, err := location.Parse(s)
	if err != nil {
		return ID{}, fmt.Errorf("%w: %w", ErrInvalidID, err)
	}
	return Concrete(l), nil
}

func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
