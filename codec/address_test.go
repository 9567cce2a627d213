// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"
)

func TestAddressBech32(t *testing.T) {
	require := require.New(t)

	addr := CreateAddress(1, ids.GenerateTestID())
	s, err := AddressBech32("xcm", addr)
	require.NoError(err)
	require.Equal(s, MustAddressBech32("xcm", addr))

	parsed, err := ParseAddressBech32("xcm", s)
	require.NoError(err)
	require.Equal(addr, parsed)

	_, err = ParseAddressBech32("other", s)
	require.ErrorIs(err, ErrIncorrectHRP)

	_, err = ParseAddressBech32("xcm", "not-an-address")
	require.Error(err)
}
