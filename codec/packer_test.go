// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"math"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperxcm/consts"
)

func TestNewWriter(t *testing.T) {
	require := require.New(t)

	wr := NewWriter(consts.Uint64Len, consts.Uint64Len)
	wr.PackUint64(math.MaxUint64)
	require.NoError(wr.Err())
	require.Len(wr.Bytes(), consts.Uint64Len)

	// Exceeding the limit is sticky.
	wr.PackByte(1)
	require.Error(wr.Err())
}

func TestPackerFixedWidth(t *testing.T) {
	require := require.New(t)

	wr := NewWriter(0, consts.MaxInt)
	wr.PackByte(7)
	wr.PackBool(true)
	wr.PackUint32(0xdeadbeef)
	wr.PackUint64(42)
	id := ids.GenerateTestID()
	wr.PackID(id)
	require.NoError(wr.Err())

	rd := NewReader(wr.Bytes(), consts.MaxInt)
	require.Equal(byte(7), rd.UnpackByte())
	require.True(rd.UnpackBool())
	require.Equal(uint32(0xdeadbeef), rd.UnpackUint32())
	require.Equal(uint64(42), rd.UnpackUint64())
	var out ids.ID
	rd.UnpackID(true, &out)
	require.Equal(id, out)
	require.True(rd.Empty())
	require.NoError(rd.Err())
}

func TestPackerUnpackBytes(t *testing.T) {
	require := require.New(t)

	wr := NewWriter(0, consts.MaxInt)
	wr.PackBytes([]byte("hello"))
	wr.PackBytes(nil)

	rd := NewReader(wr.Bytes(), consts.MaxInt)
	var b []byte
	rd.UnpackBytes(-1, true, &b)
	require.Equal([]byte("hello"), b)
	var empty []byte
	rd.UnpackBytes(-1, false, &empty)
	require.Empty(empty)
	require.NoError(rd.Err())

	rd = NewReader(wr.Bytes(), consts.MaxInt)
	rd.UnpackBytes(2, false, &b)
	require.ErrorIs(rd.Err(), ErrTooManyItems)
}

func TestPackerUnpackBytesTruncated(t *testing.T) {
	require := require.New(t)

	// length claims 10 bytes, only 2 present
	rd := NewReader([]byte{10 << 2, 1, 2}, consts.MaxInt)
	var b []byte
	rd.UnpackBytes(-1, false, &b)
	require.ErrorIs(rd.Err(), ErrInsufficientLength)
}

func TestCompactEncoding(t *testing.T) {
	tests := []struct {
		name    string
		value   *uint256.Int
		encoded []byte
	}{
		{"zero", uint256.NewInt(0), []byte{0x00}},
		{"one", uint256.NewInt(1), []byte{0x04}},
		{"max single", uint256.NewInt(63), []byte{0xfc}},
		{"min two", uint256.NewInt(64), []byte{0x01, 0x01}},
		{"max two", uint256.NewInt(16383), []byte{0xfd, 0xff}},
		{"min four", uint256.NewInt(16384), []byte{0x02, 0x00, 0x01, 0x00}},
		{"max four", uint256.NewInt(1<<30 - 1), []byte{0xfe, 0xff, 0xff, 0xff}},
		{"min big", uint256.NewInt(1 << 30), []byte{0x03, 0x00, 0x00, 0x00, 0x40}},
		{"max uint64", uint256.NewInt(math.MaxUint64), []byte{0x13, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			wr := NewWriter(0, consts.MaxInt)
			wr.PackCompact(tt.value)
			require.NoError(wr.Err())
			require.Equal(tt.encoded, wr.Bytes())
			require.Equal(len(tt.encoded), CompactLen(tt.value))

			rd := NewReader(tt.encoded, consts.MaxInt)
			v := rd.UnpackCompact(consts.Uint128Len)
			require.NoError(rd.Err())
			require.True(rd.Empty())
			require.Equal(tt.value, v)
		})
	}
}

func TestCompactUint128(t *testing.T) {
	require := require.New(t)

	max128 := new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))
	wr := NewWriter(0, consts.MaxInt)
	wr.PackCompact(max128)
	require.Len(wr.Bytes(), 17)

	rd := NewReader(wr.Bytes(), consts.MaxInt)
	require.Equal(max128, rd.UnpackCompact(consts.Uint128Len))
	require.NoError(rd.Err())

	// Does not fit in eight bytes.
	rd = NewReader(wr.Bytes(), consts.MaxInt)
	rd.UnpackCompact(consts.Uint64Len)
	require.ErrorIs(rd.Err(), ErrInvalidSize)
}

func TestCompactRejectsNonCanonical(t *testing.T) {
	tests := []struct {
		name    string
		encoded []byte
		err     error
	}{
		{"two byte small", []byte{0x01, 0x00}, ErrNonCanonical},
		{"four byte small", []byte{0x02, 0x01, 0x00, 0x00}, ErrNonCanonical},
		{"big small", []byte{0x03, 0xff, 0xff, 0xff, 0x3f}, ErrNonCanonical},
		{"big trailing zero", []byte{0x07, 0x00, 0x00, 0x00, 0x40, 0x00}, ErrNonCanonical},
		{"truncated", []byte{0x02, 0x00}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			rd := NewReader(tt.encoded, consts.MaxInt)
			rd.UnpackCompact(consts.Uint128Len)
			require.Error(rd.Err())
			if tt.err != nil {
				require.ErrorIs(rd.Err(), tt.err)
			}
		})
	}
}

func TestUnpackLen(t *testing.T) {
	require := require.New(t)

	wr := NewWriter(0, consts.MaxInt)
	wr.PackLen(5)
	rd := NewReader(wr.Bytes(), consts.MaxInt)
	require.Equal(5, rd.UnpackLen(5))
	require.NoError(rd.Err())

	rd = NewReader(wr.Bytes(), consts.MaxInt)
	require.Zero(rd.UnpackLen(4))
	require.ErrorIs(rd.Err(), ErrTooManyItems)
}
