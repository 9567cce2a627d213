// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestSaveBytes(t *testing.T) {
	require := require.New(t)

	filename := filepath.Join(t.TempDir(), "SaveBytes")

	id := ids.GenerateTestID()
	require.NoError(SaveBytes(filename, id[:]), "Error during call to SaveBytes")
	require.FileExists(filename, "SaveBytes did not create file")

	// Check correct bytes were saved in file
	b, err := os.ReadFile(filename)
	require.NoError(err, "Reading saved file threw an error")
	var lid ids.ID
	copy(lid[:], b)
	require.Equal(id, lid, "ID is different than saved bytes")
}

func TestLoadBytesIncorrectLength(t *testing.T) {
	// Creates dummy file with invalid size
	require := require.New(t)
	invalidBytes := []byte{1, 2, 3, 4, 5}

	fileName := filepath.Join(t.TempDir(), "TestLoadBytes")
	require.NoError(os.WriteFile(fileName, invalidBytes, 0o600), "Error writing using OS during tests")

	_, err := LoadBytes(fileName, ids.IDLen)
	require.ErrorIs(err, ErrInvalidSize)

	// Any size is accepted when not constrained
	b, err := LoadBytes(fileName, -1)
	require.NoError(err)
	require.Equal(invalidBytes, b)
}

func TestLoadBytesInvalidFile(t *testing.T) {
	require := require.New(t)

	filename := "FileNameDoesntExist"
	_, err := LoadBytes(filename, ids.IDLen)
	require.ErrorIs(err, os.ErrNotExist)
}

func TestLoadBytes(t *testing.T) {
	require := require.New(t)

	fileName := filepath.Join(t.TempDir(), "TestLoadBytes")
	id := ids.GenerateTestID()
	require.NoError(SaveBytes(fileName, id[:]))

	lid, err := LoadBytes(fileName, ids.IDLen)
	require.NoError(err)
	require.True(bytes.Equal(lid, id[:]))
}

func TestFormatAndParseAmount(t *testing.T) {
	require := require.New(t)

	testCases := []struct {
		input    uint64
		decimals int
		expected string
	}{
		{10_000_000_000, 10, "1.0000000000"},
		{123456789, 10, "0.0123456789"},
		{5, 3, "0.005"},
		{0, 3, "0.000"},
		{42, 0, "42"},
	}
	for _, tc := range testCases {
		v := uint256.NewInt(tc.input)
		formatted := FormatAmount(v, tc.decimals)
		require.Equal(tc.expected, formatted)

		parsed, err := ParseAmount(tc.expected, tc.decimals)
		require.NoError(err)
		require.Equal(v, parsed)
	}

	parsed, err := ParseAmount("1.5", 3)
	require.NoError(err)
	require.Equal(uint64(1500), parsed.Uint64())

	for _, invalid := range []string{"", ".5", "1.2345", "abc", "340282366920938463463374607431768211456"} {
		_, err := ParseAmount(invalid, 3)
		require.ErrorIs(err, ErrInvalidAmount, invalid)
	}
}

func TestBoundedBufferEvictsOldest(t *testing.T) {
	require := require.New(t)

	var evicted []int
	b, err := NewBoundedBuffer(3, func(i int) { evicted = append(evicted, i) })
	require.NoError(err)

	for i := 0; i < 5; i++ {
		b.Insert(i)
	}
	require.Equal([]int{0, 1}, evicted)
	require.Equal([]int{2, 3, 4}, b.Items())
	last, ok := b.Last()
	require.True(ok)
	require.Equal(4, last)

	require.Equal([]int{2, 3}, b.Take(2))
	require.Equal(1, b.Len())
	require.Equal([]int{4}, b.Take(10))
	require.Empty(b.Take(1))

	_, err = NewBoundedBuffer[int](0, nil)
	require.ErrorIs(err, errInvalidMaxSize)
}

func TestMap(t *testing.T) {
	require := require.New(t)

	require.Equal([]int{2, 4, 6}, Map(func(i int) int { return i * 2 }, []int{1, 2, 3}))
}
