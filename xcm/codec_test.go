// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xcm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperxcm/asset"
	"github.com/ava-labs/hyperxcm/codec"
	"github.com/ava-labs/hyperxcm/location"
)

var (
	dot   = asset.Concrete(location.Parent())
	alice = location.Account([32]byte{1})
	para  = location.MustNew(1, location.Parachain(2000))
)

func allPrograms() []Program {
	orders := []Order{
		&Noop{},
		&DepositAsset{Assets: asset.All(), MaxAssets: 1, Beneficiary: alice},
		&DepositReserveAsset{
			Assets:    asset.AllOf(dot, true),
			MaxAssets: 2,
			Dest:      para,
			Effects:   []Order{&Noop{}},
		},
		&ExchangeAsset{
			Give:    asset.Definite(asset.NewFungible(dot, 5)),
			Receive: asset.NewAssets(asset.NewFungible(asset.Abstract([]byte("usd")), 1)),
		},
		&InitiateReserveWithdraw{Assets: asset.All(), Reserve: location.Parent()},
		&InitiateTeleport{
			Assets: asset.All(),
			Dest:   para,
			Effects: []Order{
				&DepositAsset{Assets: asset.All(), MaxAssets: 1, Beneficiary: alice},
			},
		},
		&QueryHolding{QueryID: 1 << 33, Dest: location.Parent(), Assets: asset.All()},
		&BuyExecution{Fees: asset.NewFungible(dot, 10), Weight: 1000, Debt: 5},
		&BuyExecution{
			Fees:        asset.NewFungible(dot, 1),
			HaltOnError: true,
			Instructions: []Program{
				&TransferAsset{Assets: asset.NewAssets(asset.NewFungible(dot, 1)), Beneficiary: alice},
			},
		},
	}
	assets := asset.NewAssets(
		asset.NewFungible(dot, 100),
		asset.NewNonFungible(asset.Abstract([]byte("nft")), asset.Index(3)),
	)
	return []Program{
		&WithdrawAsset{Assets: assets, Effects: orders},
		&WithdrawAsset{},
		&ReserveAssetDeposited{Assets: assets, Effects: orders[:2]},
		&ReceiveTeleportedAsset{Assets: assets},
		&QueryResponse{QueryID: 7, Response: Response{Assets: assets}},
		&TransferAsset{Assets: assets, Beneficiary: alice},
		&TransferReserveAsset{Assets: assets, Dest: para, Effects: orders[1:3]},
		&Transact{OriginKind: OriginSovereignAccount, RequireWeightAtMost: 1 << 20, Call: []byte{1, 2, 3}},
		&HrmpNewChannelOpenRequest{Sender: 2000, MaxMessageSize: 1 << 16, MaxCapacity: 8},
		&HrmpChannelAccepted{Recipient: 1000},
		&HrmpChannelClosing{Initiator: 1, Sender: 2, Recipient: 3},
		&RelayedFrom{
			Who:     []location.Junction{location.Parachain(1), location.PalletInstance(2)},
			Message: &WithdrawAsset{Assets: assets, Effects: orders[:1]},
		},
	}
}

func TestProgramRoundTrip(t *testing.T) {
	for i, prog := range allPrograms() {
		t.Run(fmt.Sprintf("%d_%T", i, prog), func(t *testing.T) {
			require := require.New(t)

			b, err := ProgramBytes(prog)
			require.NoError(err)
			require.Equal(prog.GetTypeID(), b[0])

			decoded, err := ParseProgram(b)
			require.NoError(err)
			require.Equal(prog.GetTypeID(), decoded.GetTypeID())

			again, err := ProgramBytes(decoded)
			require.NoError(err)
			require.Equal(b, again)
		})
	}
}

func TestOrderRoundTrip(t *testing.T) {
	require := require.New(t)

	for _, o := range []Order{&Noop{}, &BuyExecution{Fees: asset.NewFungible(dot, 1)}} {
		p := codec.NewWriter(0, 1024)
		MarshalOrder(p, o)
		require.NoError(p.Err())

		rp := codec.NewReader(p.Bytes(), 1024)
		decoded, err := orderParser.Unpack(rp, 4)
		require.NoError(err)
		require.True(rp.Empty())
		require.IsType(o, decoded)

		wp := codec.NewWriter(0, 1024)
		MarshalOrder(wp, decoded)
		require.Equal(p.Bytes(), wp.Bytes())
	}
}

func TestNoopEncoding(t *testing.T) {
	require := require.New(t)

	b, err := ProgramBytes(&WithdrawAsset{Effects: []Order{&Noop{}}})
	require.NoError(err)
	// discriminant, empty assets, one order, noop
	require.Equal([]byte{WithdrawAssetID, 0x00, 0x04, NoopID}, b)
}

func TestDecodeErrors(t *testing.T) {
	valid, err := ProgramBytes(&TransferAsset{
		Assets:      asset.NewAssets(asset.NewFungible(dot, 1)),
		Beneficiary: alice,
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input []byte
	}{
		{"empty", nil},
		{"unknown program", []byte{0xff}},
		{"unknown order", []byte{WithdrawAssetID, 0x00, 0x04, 0xff}},
		{"truncated", valid[:len(valid)-1]},
		{"trailing", append(append([]byte{}, valid...), 0x00)},
		{"bad origin kind", []byte{TransactID, 0x09}},
		{"bad response", []byte{QueryResponseID, 0x00, 0x01}},
		{"hrmp overflow", []byte{HrmpChannelAcceptedID, 0x07, 0xff, 0xff, 0xff, 0xff, 0xff}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProgram(tt.input)
			require.ErrorIs(t, err, ErrFailedToDecode)
		})
	}
}

func TestDecodeDepthBounded(t *testing.T) {
	require := require.New(t)

	var prog Program = &WithdrawAsset{}
	for i := 0; i < 100; i++ {
		prog = &RelayedFrom{Message: prog}
	}
	b, err := ProgramBytes(prog)
	require.NoError(err)

	_, err = ParseProgram(b)
	require.ErrorIs(err, ErrFailedToDecode)
	require.ErrorIs(err, errDecodeDepth)
}

func TestVersioned(t *testing.T) {
	require := require.New(t)

	prog := &TransferAsset{Assets: asset.NewAssets(asset.NewFungible(dot, 9)), Beneficiary: alice}
	b, err := MarshalVersioned(prog)
	require.NoError(err)

	decoded, err := UnmarshalVersioned(b)
	require.NoError(err)
	require.IsType(prog, decoded)

	b[0] = 0
	_, err = UnmarshalVersioned(b)
	require.ErrorIs(err, ErrUnhandledXcmVersion)
	require.False(errors.Is(err, ErrFailedToDecode))

	_, err = UnmarshalVersioned(nil)
	require.ErrorIs(err, ErrFailedToDecode)
}
