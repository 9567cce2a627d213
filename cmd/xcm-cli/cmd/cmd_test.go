// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperxcm/asset"
	"github.com/ava-labs/hyperxcm/codec"
	"github.com/ava-labs/hyperxcm/config"
	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/node"
	"github.com/ava-labs/hyperxcm/rpc"
	"github.com/ava-labs/hyperxcm/server"
	"github.com/ava-labs/hyperxcm/xcm"
)

func run(t *testing.T, configDir string, args ...string) (string, error) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config-dir", configDir}, args...))
	err := cmd.ExecuteContext(context.Background())
	return strings.TrimSpace(out.String()), err
}

func newTestEndpoint(t *testing.T) (*node.Node, string) {
	require := require.New(t)

	cfg, err := config.New([]byte(`{"unitWeight": 10, "unpaidOrigins": [".."]}`))
	require.NoError(err)
	n, err := node.New(context.Background(), cfg, nil, nil)
	require.NoError(err)
	t.Cleanup(func() { require.NoError(n.Close()) })

	handler, err := server.NewHandler(rpc.NewJSONRPCServer(n), rpc.Name)
	require.NoError(err)
	mux := http.NewServeMux()
	mux.Handle(rpc.JSONRPCEndpoint, handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return n, srv.URL
}

func TestBuildAndDecode(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	out, err := run(t, dir, "build", "transfer",
		"--asset", "..",
		"--amount", "42",
		"--beneficiary", "account32:0x0101010101010101010101010101010101010101010101010101010101010101",
	)
	require.NoError(err)
	msg, err := codec.LoadHex(out, -1)
	require.NoError(err)
	program, err := xcm.UnmarshalVersioned(msg)
	require.NoError(err)
	transfer, ok := program.(*xcm.TransferAsset)
	require.True(ok)
	require.Equal(uint64(42), transfer.Assets[0].Amount.Uint64())

	out, err = run(t, dir, "decode", codec.ToHex(msg))
	require.NoError(err)
	require.True(strings.HasPrefix(out, "xcm.TransferAsset"))

	out, err = run(t, dir, "-o", "json", "decode", codec.ToHex(msg))
	require.NoError(err)
	var reply map[string]json.RawMessage
	require.NoError(json.Unmarshal([]byte(out), &reply))
	require.Equal(`"xcm.TransferAsset"`, string(reply["type"]))
}

func TestBuildDepositToFile(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "deposit.bin")

	out, err := run(t, dir, "build", "deposit",
		"--asset", "..",
		"--amount", "100",
		"--fee", "10",
		"--debt", "30",
		"--beneficiary", "pallet:3",
		"--out", path,
	)
	require.NoError(err)
	require.Contains(out, path)

	out, err = run(t, dir, "decode", path)
	require.NoError(err)
	require.True(strings.HasPrefix(out, "xcm.ReserveAssetDeposited"))

	_, err = run(t, dir, "build", "deposit",
		"--asset", "..",
		"--amount", "1",
		"--fee", "10",
		"--beneficiary", "pallet:3",
	)
	require.ErrorContains(err, "exceeds amount")
}

func TestExecuteAndBalance(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	n, endpoint := newTestEndpoint(t)

	msg, err := xcm.MarshalVersioned(&xcm.ReserveAssetDeposited{
		Assets: asset.Assets{asset.NewFungible(asset.Concrete(location.Parent()), 5)},
		Effects: []xcm.Order{
			&xcm.DepositAsset{Assets: asset.All(), MaxAssets: 1, Beneficiary: location.MustParse("pallet:3")},
		},
	})
	require.NoError(err)

	out, err := run(t, dir, "--endpoint", endpoint, "execute", "..", codec.ToHex(msg))
	require.NoError(err)
	require.Equal("complete weight=20", out)

	out, err = run(t, dir, "--endpoint", endpoint, "balance", "pallet:3")
	require.NoError(err)
	require.Contains(out, n.Ledger().Address(location.MustParse("pallet:3")))
	require.Contains(out, ": 5 of ..")
}

func TestEndpointPersisted(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	out, err := run(t, dir, "endpoint")
	require.NoError(err)
	require.Equal(defaultEndpoint, out)

	_, err = run(t, dir, "endpoint", "set", "http://10.0.0.1:9650")
	require.NoError(err)
	out, err = run(t, dir, "endpoint")
	require.NoError(err)
	require.Equal("http://10.0.0.1:9650", out)
}
