// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package location

import (
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperxcm/codec"
	"github.com/ava-labs/hyperxcm/consts"
)

func account(b byte) AccountID32 {
	j := AccountID32{Network: Any}
	for i := range j.ID {
		j.ID[i] = b
	}
	return j
}

func TestLocationRoundTrip(t *testing.T) {
	tests := []Location{
		Here(),
		Parent(),
		MustNew(1, Parachain(1000)),
		MustNew(0, account(1)),
		MustNew(2,
			Parachain(2000),
			AccountIndex64{Network: NetworkID{Kind: PolkadotNetwork}, Index: 1 << 40},
			AccountKey20{Network: NetworkID{Kind: NamedNetwork, Name: []byte("test")}},
			PalletInstance(5),
			GeneralIndex{Index: *uint256.NewInt(99)},
			GeneralKey([]byte{1, 2, 3}),
			OnlyChild{},
		),
	}
	for _, l := range tests {
		t.Run(l.String(), func(t *testing.T) {
			require := require.New(t)

			b := l.Bytes()
			decoded, err := FromBytes(b)
			require.NoError(err)
			require.True(l.Equal(decoded))
			require.Equal(b, decoded.Bytes())

			parsed, err := Parse(l.String())
			require.NoError(err)
			require.True(l.Equal(parsed))
		})
	}
}

func TestLocationDecodeErrors(t *testing.T) {
	require := require.New(t)

	// nine junctions
	b := []byte{0, 9}
	for i := 0; i < 9; i++ {
		b = append(b, OnlyChildID)
	}
	_, err := FromBytes(b)
	require.ErrorIs(err, ErrLocationFull)

	_, err = FromBytes([]byte{0, 1, 99})
	require.ErrorIs(err, ErrUnknownJunction)

	_, err = FromBytes([]byte{0, 1, AccountID32ID, AnyNetwork, 1, 2})
	require.Error(err)

	_, err = FromBytes([]byte{1, 0, 0})
	require.ErrorIs(err, codec.ErrTrailingBytes)
}

func TestPushInterior(t *testing.T) {
	require := require.New(t)

	l := Here()
	var err error
	for i := 0; i < consts.MaxJunctions; i++ {
		l, err = l.PushInterior(Parachain(uint32(i)))
		require.NoError(err)
	}
	_, err = l.PushInterior(OnlyChild{})
	require.ErrorIs(err, ErrLocationFull)

	_, err = New(0, make([]Junction, consts.MaxJunctions+1)...)
	require.ErrorIs(err, ErrLocationFull)
}

func TestPrepended(t *testing.T) {
	tests := []struct {
		name     string
		suffix   string
		prefix   string
		expected string
	}{
		{"here in here", "here", "here", "here"},
		{"sibling account", "account32:0x" + strings.Repeat("01", 32), "../parachain:2000", "../parachain:2000/account32:0x" + strings.Repeat("01", 32)},
		{"parent cancels", "../parachain:3000", "../parachain:2000", "../parachain:3000"},
		{"parents exceed interior", "../../pallet:1", "parachain:1000", "../pallet:1"},
		{"prefix parents kept", "pallet:3", "../../parachain:7", "../../parachain:7/pallet:3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			out, err := MustParse(tt.suffix).Prepended(MustParse(tt.prefix))
			require.NoError(err)
			require.Equal(tt.expected, out.String())
		})
	}
}

func TestPrependedFull(t *testing.T) {
	require := require.New(t)

	prefix := MustNew(0, Parachain(1), Parachain(2), Parachain(3), Parachain(4), Parachain(5))
	suffix := MustNew(0, Parachain(6), Parachain(7), Parachain(8), Parachain(9))
	_, err := suffix.Prepended(prefix)
	require.ErrorIs(err, ErrLocationFull)

	out, err := MustNew(1, Parachain(6), Parachain(7), Parachain(8), Parachain(9)).Prepended(prefix)
	require.NoError(err)
	require.Len(out.Interior, consts.MaxJunctions)
}

func TestInverter(t *testing.T) {
	tests := []struct {
		name     string
		ancestry string
		target   string
		expected string
	}{
		{"relay to child", "here", "parachain:1000", ".."},
		{"child to relay", "parachain:1000", "..", "parachain:1000"},
		{"sibling", "parachain:1000", "../parachain:2000", "../parachain:1000"},
		{"exhausted ancestry", "here", "../..", "child/child"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			inv := NewInverter(MustParse(tt.ancestry))
			out, err := inv.Invert(MustParse(tt.target))
			require.NoError(err)
			require.Equal(tt.expected, out.String())
		})
	}
}

func TestMatchAndSplit(t *testing.T) {
	require := require.New(t)

	l := MustParse("../parachain:1000/pallet:5")
	rest, ok := l.MatchAndSplit(MustParse("../parachain:1000"))
	require.True(ok)
	require.Len(rest, 1)
	require.True(JunctionEqual(PalletInstance(5), rest[0]))

	_, ok = l.MatchAndSplit(l)
	require.False(ok)
	require.True(l.StartsWith(l))
	require.False(l.StartsWith(MustParse("parachain:1000")))
}

func TestParseErrors(t *testing.T) {
	for _, s := range []string{
		"parachain:x",
		"unknown:1",
		"parachain:1/..",
		"account32:0x01",
		"pallet:256",
		"account32:0x" + strings.Repeat("01", 32) + "@mars",
	} {
		_, err := Parse(s)
		require.Error(t, err, s)
	}
}
