// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperxcm/asset"
	"github.com/ava-labs/hyperxcm/config"
	"github.com/ava-labs/hyperxcm/executor"
	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/xcm"
)

var (
	dot      = asset.Concrete(location.Parent())
	usd      = asset.Abstract([]byte("usd"))
	alice    = location.Account([32]byte{1})
	bob      = location.Account([32]byte{2})
	sibling  = location.MustParse("../parachain:2000")
	treasury = location.MustParse("pallet:3")
)

const testGenesis = `{"allocations":[
	{"account":"..","asset":"..","amount":"500"},
	{"account":"../parachain:2000","asset":"abstract:0x757364","amount":"100"}
]}`

func newTestNode(t *testing.T, extra string) *Node {
	require := require.New(t)

	dir := t.TempDir()
	genesisPath := filepath.Join(dir, "genesis.json")
	require.NoError(os.WriteFile(genesisPath, []byte(testGenesis), 0o600))

	cfg, err := config.New([]byte(fmt.Sprintf(`{
		"unitWeight": 10,
		"unitsPerSecond": "1000000000000",
		"feeAsset": "..",
		"revenueAccount": "pallet:3",
		"genesisPath": %q,
		"reachable": [".."]%s
	}`, genesisPath, extra)))
	require.NoError(err)
	n, err := New(context.Background(), cfg, nil, nil)
	require.NoError(err)
	t.Cleanup(func() { require.NoError(n.Close()) })
	return n
}

func balance(t *testing.T, n *Node, who location.Location, id asset.ID) uint64 {
	bal, err := n.Ledger().Balance(context.Background(), who, id)
	require.NoError(t, err)
	return bal.Uint64()
}

func TestPaidReserveDeposit(t *testing.T) {
	require := require.New(t)
	n := newTestNode(t, `, "paidOrigins": [".."]`)

	out := n.ExecuteProgram(context.Background(), location.Parent(), &xcm.ReserveAssetDeposited{
		Assets: asset.Assets{asset.NewFungible(dot, 1000)},
		Effects: []xcm.Order{
			&xcm.BuyExecution{Fees: asset.NewFungible(dot, 100), Debt: 30},
			&xcm.DepositAsset{Assets: asset.All(), MaxAssets: 1, Beneficiary: alice},
		},
	})
	require.NoError(out.EnsureComplete())
	require.Equal(uint64(30), out.Weight)
	require.Equal(uint64(970), balance(t, n, alice, dot))
	require.Equal(uint64(30), balance(t, n, treasury, dot))
}

func TestUnpaidRejected(t *testing.T) {
	require := require.New(t)
	n := newTestNode(t, `, "paidOrigins": [".."]`)

	out := n.ExecuteProgram(context.Background(), location.Parent(), &xcm.ReserveAssetDeposited{
		Assets: asset.Assets{asset.NewFungible(dot, 1000)},
		Effects: []xcm.Order{
			&xcm.DepositAsset{Assets: asset.All(), MaxAssets: 1, Beneficiary: alice},
		},
	})
	require.Equal(xcm.OutcomeError, out.Kind)
	require.ErrorIs(out.Err, xcm.ErrBarrier)
	require.Zero(balance(t, n, alice, dot))
}

func TestTransactTransfer(t *testing.T) {
	require := require.New(t)
	n := newTestNode(t, `, "unpaidOrigins": [".."]`)

	call, err := EncodeCall(&Transfer{What: asset.NewFungible(dot, 200), To: bob})
	require.NoError(err)
	msg, err := xcm.MarshalVersioned(&xcm.Transact{
		OriginKind:          xcm.OriginSovereignAccount,
		RequireWeightAtMost: 100,
		Call:                call,
	})
	require.NoError(err)

	out := n.Execute(context.Background(), location.Parent(), msg)
	require.NoError(out.EnsureComplete())
	require.Equal(uint64(30), out.Weight)
	require.Equal(uint64(300), balance(t, n, location.Parent(), dot))
	require.Equal(uint64(200), balance(t, n, bob, dot))
}

func TestExchangeAgainstOffer(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	n := newTestNode(t, `, "unpaidOrigins": [".."]`)

	call, err := EncodeCall(&AddOffer{In: usd, InTick: 2, Out: dot, OutTick: 1, Supply: 50})
	require.NoError(err)
	out := n.ExecuteProgram(ctx, location.Parent(), &xcm.Transact{
		OriginKind:          xcm.OriginSovereignAccount,
		RequireWeightAtMost: 100,
		Call:                call,
	})
	require.NoError(out.EnsureComplete())
	require.Equal(uint64(450), balance(t, n, location.Parent(), dot))
	offers := n.Book().Offers(usd, dot, -1)
	require.Len(offers, 1)

	out = n.ExecuteProgram(ctx, sibling, &xcm.WithdrawAsset{
		Assets: asset.Assets{asset.NewFungible(usd, 40)},
		Effects: []xcm.Order{
			&xcm.ExchangeAsset{Give: asset.AllOf(usd, true), Receive: asset.Assets{asset.NewFungible(dot, 20)}},
			&xcm.DepositAsset{Assets: asset.All(), MaxAssets: 2, Beneficiary: sibling},
		},
	})
	require.NoError(out.EnsureComplete())
	require.Equal(uint64(20), balance(t, n, sibling, dot))
	require.Equal(uint64(60), balance(t, n, sibling, usd))
	require.Equal(uint64(40), balance(t, n, location.Parent(), usd))

	offer, ok := n.Book().Offer(offers[0].ID)
	require.True(ok)
	require.Equal(uint64(30), offer.Remaining)

	call, err = EncodeCall(&CancelOffer{ID: offer.ID})
	require.NoError(err)
	out = n.ExecuteProgram(ctx, location.Parent(), &xcm.Transact{
		OriginKind:          xcm.OriginSovereignAccount,
		RequireWeightAtMost: 100,
		Call:                call,
	})
	require.NoError(out.EnsureComplete())
	require.Equal(uint64(480), balance(t, n, location.Parent(), dot))
}

func TestTrapAndClaim(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	n := newTestNode(t, `, "unpaidOrigins": [".."]`)

	// nothing deposits the withdrawn assets so they end up trapped
	out := n.ExecuteProgram(ctx, location.Parent(), &xcm.WithdrawAsset{
		Assets: asset.Assets{asset.NewFungible(dot, 25)},
	})
	require.NoError(out.EnsureComplete())
	trapped := asset.Assets{asset.NewFungible(dot, 25)}
	count, err := n.Ledger().Trapped(ctx, location.Parent(), trapped)
	require.NoError(err)
	require.Equal(uint64(1), count)

	call, err := EncodeCall(&ClaimAssets{Assets: trapped, Beneficiary: alice})
	require.NoError(err)
	out = n.ExecuteProgram(ctx, location.Parent(), &xcm.Transact{
		OriginKind:          xcm.OriginSovereignAccount,
		RequireWeightAtMost: 100,
		Call:                call,
	})
	require.NoError(out.EnsureComplete())
	require.Equal(uint64(25), balance(t, n, alice, dot))
	require.Equal(uint64(475), balance(t, n, location.Parent(), dot))
}

func TestReserveWithdrawQueued(t *testing.T) {
	require := require.New(t)
	n := newTestNode(t, `, "unpaidOrigins": [".."]`)

	out := n.ExecuteProgram(context.Background(), location.Parent(), &xcm.WithdrawAsset{
		Assets: asset.Assets{asset.NewFungible(dot, 100)},
		Effects: []xcm.Order{
			&xcm.InitiateReserveWithdraw{Assets: asset.All(), Reserve: location.Parent()},
		},
	})
	require.NoError(out.EnsureComplete())
	require.Equal(uint64(400), balance(t, n, location.Parent(), dot))

	envelopes := n.Outbox().Take(10)
	require.Len(envelopes, 1)
	require.True(envelopes[0].Dest.Equal(location.Parent()))
	program, err := xcm.UnmarshalVersioned(envelopes[0].Message)
	require.NoError(err)
	require.IsType(&xcm.WithdrawAsset{}, program)
}

func TestExpectedQueryResponse(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	n := newTestNode(t, "")

	response := &xcm.QueryResponse{
		QueryID:  0,
		Response: xcm.Response{Assets: asset.Assets{asset.NewFungible(dot, 1)}},
	}
	out := n.ExecuteProgram(ctx, location.Parent(), response)
	require.ErrorIs(out.Err, xcm.ErrBarrier)

	id := n.Queries().NewQuery(location.Parent())
	require.Equal(uint64(0), id)
	out = n.ExecuteProgram(ctx, location.Parent(), response)
	require.NoError(out.EnsureComplete())

	got, ok := n.Queries().Response(id)
	require.True(ok)
	require.Equal(response.Response.Assets, got.Assets)
}

func TestExecuteBatch(t *testing.T) {
	require := require.New(t)
	n := newTestNode(t, `, "unpaidOrigins": [".."]`)

	msgs := make([]executor.Message, 10)
	for i := range msgs {
		msgs[i] = executor.Message{
			Origin: location.Parent(),
			Program: &xcm.TransferAsset{
				Assets:      asset.Assets{asset.NewFungible(dot, 10)},
				Beneficiary: alice,
			},
		}
	}
	outcomes, err := n.ExecuteBatch(context.Background(), msgs)
	require.NoError(err)
	for _, out := range outcomes {
		require.NoError(out.EnsureComplete())
	}
	require.Equal(uint64(100), balance(t, n, alice, dot))
}

func TestGenesisAppliedOnce(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	dir := t.TempDir()
	genesisPath := filepath.Join(dir, "genesis.json")
	require.NoError(os.WriteFile(genesisPath, []byte(testGenesis), 0o600))
	cfg, err := config.New([]byte(fmt.Sprintf(`{"genesisPath": %q, "databasePath": %q}`, genesisPath, filepath.Join(dir, "db"))))
	require.NoError(err)

	for i := 0; i < 2; i++ {
		n, err := New(ctx, cfg, nil, nil)
		require.NoError(err)
		require.Equal(uint64(500), balance(t, n, location.Parent(), dot))
		require.NoError(n.Close())
	}
}

func TestDecodeCall(t *testing.T) {
	require := require.New(t)

	calls := []Call{
		&Remark{Data: []byte("hello")},
		&Transfer{What: asset.NewFungible(dot, 5), To: bob},
		&ClaimAssets{Assets: asset.Assets{asset.NewFungible(usd, 1)}, Beneficiary: alice},
		&AddOffer{In: usd, InTick: 1, Out: dot, OutTick: 2, Supply: 4},
	}
	for _, c := range calls {
		b, err := EncodeCall(c)
		require.NoError(err)
		decoded, err := DecodeCall(b)
		require.NoError(err)
		again, err := EncodeCall(decoded)
		require.NoError(err)
		require.Equal(b, again)
	}

	_, err := DecodeCall(xcm.DoubleEncoded{0xff})
	require.Error(err)
	_, err = DecodeCall(xcm.DoubleEncoded{RemarkID, 0, 0, 0, 0, 9})
	require.ErrorIs(err, errTrailingBytes)
}
