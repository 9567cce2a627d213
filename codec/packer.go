// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/ava-labs/hyperxcm/consts"
)

// Packer is a wrapper struct for the Packer struct
// from avalanchego/utils/wrappers/packing.go. It adds the
// compact integer and collection helpers used by the message
// wire format. Errors are sticky: once a call fails every
// subsequent call is a no-op and [Err] reports the first failure.
type Packer struct {
	p *wrappers.Packer
}

// NewReader returns a Packer instance with the current byte array set
// to [src] and a maximum size of [limit].
func NewReader(src []byte, limit int) *Packer {
	return &Packer{
		p: &wrappers.Packer{Bytes: src, MaxSize: limit},
	}
}

// NewWriter returns a Packer instance with an initial size of [initial] and a
// maximum size of [limit].
func NewWriter(initial, limit int) *Packer {
	return &Packer{
		p: &wrappers.Packer{Bytes: make([]byte, 0, initial), MaxSize: limit},
	}
}

func (p *Packer) PackByte(b byte) {
	p.p.PackByte(b)
}

func (p *Packer) UnpackByte() byte {
	return p.p.UnpackByte()
}

func (p *Packer) PackBool(b bool) {
	p.p.PackBool(b)
}

func (p *Packer) UnpackBool() bool {
	return p.p.UnpackBool()
}

func (p *Packer) PackUint32(v uint32) {
	p.p.PackInt(v)
}

func (p *Packer) UnpackUint32() uint32 {
	return p.p.UnpackInt()
}

func (p *Packer) PackUint64(v uint64) {
	p.p.PackLong(v)
}

func (p *Packer) UnpackUint64() uint64 {
	return p.p.UnpackLong()
}

func (p *Packer) PackID(src ids.ID) {
	p.p.PackFixedBytes(src[:])
}

// UnpackID unpacks an avalanchego ID into [dest]. If [required] is true,
// and the unpacked bytes are empty, Packer will add an ErrFieldNotPopulated error.
func (p *Packer) UnpackID(required bool, dest *ids.ID) {
	copy((*dest)[:], p.p.UnpackFixedBytes(consts.IDLen))
	if required && *dest == ids.Empty {
		p.addErr(fmt.Errorf("%w: ID field is not populated", ErrFieldNotPopulated))
	}
}

func (p *Packer) PackFixedBytes(b []byte) {
	p.p.PackFixedBytes(b)
}

func (p *Packer) UnpackFixedBytes(size int, dest *[]byte) {
	copy((*dest), p.p.UnpackFixedBytes(size))
}

// PackBytes packs [b] behind a compact length prefix.
func (p *Packer) PackBytes(b []byte) {
	p.PackCompactUint64(uint64(len(b)))
	p.p.PackFixedBytes(b)
}

// UnpackBytes unpacks a compact length prefixed byte slice of at most
// [limit] bytes into [dest]. If [limit] is negative no bound other than the
// remaining input applies.
func (p *Packer) UnpackBytes(limit int, required bool, dest *[]byte) {
	l := p.UnpackCompactUint64()
	if p.Errored() {
		return
	}
	if limit >= 0 && l > uint64(limit) {
		p.addErr(fmt.Errorf("%w: %d > %d", ErrTooManyItems, l, limit))
		return
	}
	if l > uint64(len(p.p.Bytes)-p.p.Offset) {
		p.addErr(ErrInsufficientLength)
		return
	}
	b := p.p.UnpackFixedBytes(int(l))
	*dest = append((*dest)[:0], b...)
	if required && len(*dest) == 0 {
		p.addErr(fmt.Errorf("%w: bytes field is not populated", ErrFieldNotPopulated))
	}
}

// PackLen packs a collection length.
func (p *Packer) PackLen(n int) {
	p.PackCompactUint64(uint64(n))
}

// UnpackLen unpacks a collection length that may not exceed [limit].
func (p *Packer) UnpackLen(limit int) int {
	l := p.UnpackCompactUint64()
	if p.Errored() {
		return 0
	}
	if l > uint64(limit) {
		p.addErr(fmt.Errorf("%w: %d > %d", ErrTooManyItems, l, limit))
		return 0
	}
	return int(l)
}

func (p *Packer) Bytes() []byte {
	return p.p.Bytes
}

func (p *Packer) Offset() int {
	return p.p.Offset
}

// Empty reports whether all input was consumed.
func (p *Packer) Empty() bool {
	return p.p.Offset == len(p.p.Bytes)
}

func (p *Packer) Err() error {
	return p.p.Err
}

func (p *Packer) Errored() bool {
	return p.p.Errored()
}

// AddErr records [err] unless an earlier error is already recorded.
func (p *Packer) AddErr(err error) {
	p.addErr(err)
}

func (p *Packer) addErr(err error) {
	p.p.Add(err)
}
