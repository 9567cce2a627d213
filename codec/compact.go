// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"github.com/holiman/uint256"

	"github.com/ava-labs/hyperxcm/consts"
)

// Compact integers use the low two bits of the first byte as a mode:
//
//	0b00: single byte, value in the upper six bits
//	0b01: two bytes little-endian, value in the upper fourteen bits
//	0b10: four bytes little-endian, value in the upper thirty bits
//	0b11: (n-4) in the upper six bits followed by n little-endian bytes
//
// Only the shortest encoding of a value is accepted when decoding.
const (
	compactSingle = 0b00
	compactTwo    = 0b01
	compactFour   = 0b10
	compactBig    = 0b11

	maxSingle = 1 << 6
	maxTwo    = 1 << 14
	maxFour   = 1 << 30
)

// CompactLen returns the encoded size of [v].
func CompactLen(v *uint256.Int) int {
	switch {
	case v.IsUint64() && v.Uint64() < maxSingle:
		return 1
	case v.IsUint64() && v.Uint64() < maxTwo:
		return 2
	case v.IsUint64() && v.Uint64() < maxFour:
		return 4
	default:
		return 1 + (v.BitLen()+7)/8
	}
}

// PackCompact packs [v] in its shortest compact form.
func (p *Packer) PackCompact(v *uint256.Int) {
	switch {
	case v.IsUint64() && v.Uint64() < maxSingle:
		p.p.PackByte(byte(v.Uint64()<<2) | compactSingle)
	case v.IsUint64() && v.Uint64() < maxTwo:
		x := v.Uint64()<<2 | compactTwo
		p.p.PackFixedBytes([]byte{byte(x), byte(x >> 8)})
	case v.IsUint64() && v.Uint64() < maxFour:
		x := v.Uint64()<<2 | compactFour
		p.p.PackFixedBytes([]byte{byte(x), byte(x >> 8), byte(x >> 16), byte(x >> 24)})
	default:
		be := v.Bytes()
		n := len(be)
		out := make([]byte, n+1)
		out[0] = byte(n-4)<<2 | compactBig
		for i := 0; i < n; i++ {
			out[1+i] = be[n-1-i]
		}
		p.p.PackFixedBytes(out)
	}
}

func (p *Packer) PackCompactUint64(v uint64) {
	p.PackCompact(uint256.NewInt(v))
}

// UnpackCompact unpacks a compact integer of at most [maxLen] bytes.
func (p *Packer) UnpackCompact(maxLen int) *uint256.Int {
	v := new(uint256.Int)
	first := p.p.UnpackByte()
	if p.Errored() {
		return v
	}
	switch first & 0b11 {
	case compactSingle:
		return v.SetUint64(uint64(first >> 2))
	case compactTwo:
		b := p.p.UnpackFixedBytes(1)
		if p.Errored() {
			return v
		}
		x := (uint64(first) | uint64(b[0])<<8) >> 2
		if x < maxSingle {
			p.addErr(ErrNonCanonical)
			return v
		}
		return v.SetUint64(x)
	case compactFour:
		b := p.p.UnpackFixedBytes(3)
		if p.Errored() {
			return v
		}
		x := (uint64(first) | uint64(b[0])<<8 | uint64(b[1])<<16 | uint64(b[2])<<24) >> 2
		if x < maxTwo {
			p.addErr(ErrNonCanonical)
			return v
		}
		return v.SetUint64(x)
	default:
		n := int(first>>2) + 4
		if n > maxLen {
			p.addErr(ErrInvalidSize)
			return v
		}
		b := p.p.UnpackFixedBytes(n)
		if p.Errored() {
			return v
		}
		if b[n-1] == 0 {
			p.addErr(ErrNonCanonical)
			return v
		}
		be := make([]byte, n)
		for i := 0; i < n; i++ {
			be[i] = b[n-1-i]
		}
		v.SetBytes(be)
		if v.IsUint64() && v.Uint64() < maxFour {
			p.addErr(ErrNonCanonical)
			return new(uint256.Int)
		}
		return v
	}
}

func (p *Packer) UnpackCompactUint64() uint64 {
	return p.UnpackCompact(consts.Uint64Len).Uint64()
}
