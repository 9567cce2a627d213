// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperxcm/consts"
)

type bark interface {
	Bark() string
}

type blah1 struct{}

func (*blah1) Bark() string { return "blah1" }

type blah2 struct{ depth int }

func (*blah2) Bark() string { return "blah2" }

func TestTypeParser(t *testing.T) {
	tp := NewTypeParser[bark, int]()

	t.Run("empty parser", func(t *testing.T) {
		require := require.New(t)
		f, ok := tp.LookupIndex(0)
		require.Nil(f)
		require.False(ok)
	})

	t.Run("populated parser", func(t *testing.T) {
		require := require.New(t)
		require.NoError(tp.Register(0, func(*Packer, int) (bark, error) { return &blah1{}, nil }))
		require.NoError(tp.Register(3, func(_ *Packer, d int) (bark, error) { return &blah2{depth: d}, nil }))

		f, ok := tp.LookupIndex(3)
		require.True(ok)
		v, err := f(nil, 4)
		require.NoError(err)
		require.Equal("blah2", v.Bark())
	})

	t.Run("duplicate index", func(t *testing.T) {
		require := require.New(t)
		err := tp.Register(0, func(*Packer, int) (bark, error) { return &blah1{}, nil })
		require.ErrorIs(err, ErrDuplicateItem)
	})

	t.Run("unpack", func(t *testing.T) {
		require := require.New(t)

		v, err := tp.Unpack(NewReader([]byte{3}, consts.MaxInt), 7)
		require.NoError(err)
		require.Equal(&blah2{depth: 7}, v)

		_, err = tp.Unpack(NewReader([]byte{1}, consts.MaxInt), 0)
		require.ErrorIs(err, ErrUnknownType)

		_, err = tp.Unpack(NewReader(nil, consts.MaxInt), 0)
		require.Error(err)
	})
}
