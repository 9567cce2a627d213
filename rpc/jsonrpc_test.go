// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperxcm/asset"
	"github.com/ava-labs/hyperxcm/config"
	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/node"
	"github.com/ava-labs/hyperxcm/server"
	"github.com/ava-labs/hyperxcm/xcm"
)

var (
	dot   = asset.Concrete(location.Parent())
	alice = location.Account([32]byte{1})
)

func newTestClient(t *testing.T) (*node.Node, *JSONRPCClient) {
	require := require.New(t)

	cfg, err := config.New([]byte(`{
		"unitWeight": 10,
		"unpaidOrigins": [".."],
		"reachable": [".."]
	}`))
	require.NoError(err)
	n, err := node.New(context.Background(), cfg, nil, nil)
	require.NoError(err)
	t.Cleanup(func() { require.NoError(n.Close()) })

	handler, err := server.NewHandler(NewJSONRPCServer(n), Name)
	require.NoError(err)
	mux := http.NewServeMux()
	mux.Handle(JSONRPCEndpoint, handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return n, NewJSONRPCClient(srv.URL)
}

func TestPing(t *testing.T) {
	require := require.New(t)
	_, cli := newTestClient(t)

	ok, err := cli.Ping(context.Background())
	require.NoError(err)
	require.True(ok)
}

func TestExecuteAndBalance(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	n, cli := newTestClient(t)

	msg, err := xcm.MarshalVersioned(&xcm.ReserveAssetDeposited{
		Assets: asset.Assets{asset.NewFungible(dot, 70)},
		Effects: []xcm.Order{
			&xcm.DepositAsset{Assets: asset.All(), MaxAssets: 1, Beneficiary: alice},
		},
	})
	require.NoError(err)

	reply, err := cli.Execute(ctx, location.Parent(), msg)
	require.NoError(err)
	require.Equal(xcm.OutcomeComplete.String(), reply.Outcome)
	require.Equal(uint64(20), reply.Weight)
	require.Empty(reply.Error)

	addr, bal, err := cli.Balance(ctx, alice, dot)
	require.NoError(err)
	require.Equal(n.Ledger().Address(alice), addr)
	require.Equal(uint64(70), bal.Uint64())

	// malformed messages are reported in the outcome
	reply, err = cli.Execute(ctx, location.Parent(), []byte{0xff})
	require.NoError(err)
	require.Equal(xcm.OutcomeError.String(), reply.Outcome)
	require.NotEmpty(reply.Error)
}

func TestDecode(t *testing.T) {
	require := require.New(t)
	_, cli := newTestClient(t)

	msg, err := xcm.MarshalVersioned(&xcm.TransferAsset{
		Assets:      asset.Assets{asset.NewFungible(dot, 5)},
		Beneficiary: alice,
	})
	require.NoError(err)

	reply, err := cli.Decode(context.Background(), msg)
	require.NoError(err)
	require.Equal("TransferAsset", reply.Type)
	var fields map[string]json.RawMessage
	require.NoError(json.Unmarshal(reply.Program, &fields))
	require.Contains(fields, "Beneficiary")

	_, err = cli.Decode(context.Background(), []byte{0xff})
	require.Error(err)
}

func TestTrapped(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	n, cli := newTestClient(t)

	trapped := asset.Assets{asset.NewFungible(dot, 3)}
	out := n.ExecuteProgram(ctx, location.Parent(), &xcm.ReserveAssetDeposited{Assets: trapped})
	require.NoError(out.EnsureComplete())

	count, err := cli.Trapped(ctx, location.Parent(), trapped)
	require.NoError(err)
	require.Equal(uint64(1), count)
}

func TestOutbox(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	n, cli := newTestClient(t)

	for i := 0; i < 3; i++ {
		out := n.ExecuteProgram(ctx, location.Parent(), &xcm.ReserveAssetDeposited{
			Assets: asset.Assets{asset.NewFungible(dot, 10)},
			Effects: []xcm.Order{
				&xcm.InitiateReserveWithdraw{Assets: asset.All(), Reserve: location.Parent()},
			},
		})
		require.NoError(out.EnsureComplete())
	}

	envelopes, dropped, err := cli.Outbox(ctx, 2, false)
	require.NoError(err)
	require.Len(envelopes, 2)
	require.Zero(dropped)
	require.True(envelopes[0].Dest.Equal(location.Parent()))

	envelopes, _, err = cli.Outbox(ctx, 0, true)
	require.NoError(err)
	require.Len(envelopes, 3)
	require.Zero(n.Outbox().Len())
}

func TestQueries(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	n, cli := newTestClient(t)

	id, err := cli.NewQuery(ctx, location.Parent())
	require.NoError(err)

	_, err = cli.Response(ctx, id)
	require.ErrorContains(err, ErrNoResponse.Error())

	out := n.ExecuteProgram(ctx, location.Parent(), &xcm.QueryResponse{
		QueryID:  id,
		Response: xcm.Response{Assets: asset.Assets{asset.NewFungible(dot, 9)}},
	})
	require.NoError(out.EnsureComplete())

	assets, err := cli.Response(ctx, id)
	require.NoError(err)
	require.Len(assets, 1)
	require.Equal(uint64(9), assets[0].Amount.Uint64())
}

func TestOffersEmpty(t *testing.T) {
	require := require.New(t)
	_, cli := newTestClient(t)

	offers, err := cli.Offers(context.Background(), dot, asset.Abstract([]byte("usd")), 10)
	require.NoError(err)
	require.Empty(offers)
}
