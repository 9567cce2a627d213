// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package asset

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ava-labs/hyperxcm/codec"
	"github.com/ava-labs/hyperxcm/consts"
)

const (
	UndefinedInstance uint8 = iota
	IndexInstance
	Array4Instance
	Array8Instance
	Array16Instance
	Array32Instance
	BlobInstance
)

// MaxBlobLen bounds blob instances.
const MaxBlobLen = 256

var arrayLen = map[uint8]int{
	Array4Instance:  4,
	Array8Instance:  8,
	Array16Instance: 16,
	Array32Instance: 32,
}

// Instance discriminates one non-fungible asset within its class.
type Instance struct {
	Kind  uint8
	Index uint256.Int
	Data  []byte
}

func Undefined() Instance {
	return Instance{Kind: UndefinedInstance}
}

func Index(i uint64) Instance {
	return Instance{Kind: IndexInstance, Index: *uint256.NewInt(i)}
}

// Array returns a fixed width instance. [b] must be 4, 8, 16 or 32 bytes.
func Array(b []byte) (Instance, error) {
	for kind, l := range arrayLen {
		if l == len(b) {
			return Instance{Kind: kind, Data: b}, nil
		}
	}
	return Instance{}, fmt.Errorf("%w: array of %d bytes", codec.ErrInvalidSize, len(b))
}

func Blob(b []byte) Instance {
	return Instance{Kind: BlobInstance, Data: b}
}

func (i Instance) Marshal(p *codec.Packer) {
	p.PackByte(i.Kind)
	switch i.Kind {
	case IndexInstance:
		p.PackCompact(&i.Index)
	case Array4Instance, Array8Instance, Array16Instance, Array32Instance:
		p.PackFixedBytes(i.Data)
	case BlobInstance:
		p.PackBytes(i.Data)
	}
}

func UnmarshalInstance(p *codec.Packer) Instance {
	i := Instance{Kind: p.UnpackByte()}
	switch i.Kind {
	case UndefinedInstance:
	case IndexInstance:
		i.Index = *p.UnpackCompact(consts.Uint128Len)
	case Array4Instance, Array8Instance, Array16Instance, Array32Instance:
		i.Data = make([]byte, arrayLen[i.Kind])
		p.UnpackFixedBytes(len(i.Data), &i.Data)
	case BlobInstance:
		p.UnpackBytes(MaxBlobLen, false, &i.Data)
	default:
		p.AddErr(fmt.Errorf("%w: instance %d", ErrUnknownKind, i.Kind))
	}
	return i
}

func (i Instance) Bytes() []byte {
	p := codec.NewWriter(16, consts.MaxInt)
	i.Marshal(p)
	return p.Bytes()
}

func (i Instance) String() string {
	switch i.Kind {
	case UndefinedInstance:
		return "undefined"
	case IndexInstance:
		return "#" + i.Index.Dec()
	default:
		return codec.ToHex(i.Data)
	}
}
