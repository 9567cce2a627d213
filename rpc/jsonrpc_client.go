// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/rpc"
	"github.com/holiman/uint256"

	"github.com/ava-labs/hyperxcm/asset"
	"github.com/ava-labs/hyperxcm/exchange"
	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/policy"
)

type JSONRPCClient struct {
	requester rpc.EndpointRequester
}

func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += JSONRPCEndpoint
	return &JSONRPCClient{requester: rpc.NewEndpointRequester(uri)}
}

func (cli *JSONRPCClient) send(ctx context.Context, method string, args, reply interface{}) error {
	return cli.requester.SendRequest(ctx, Name+"."+method, args, reply)
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.send(ctx, "ping", struct{}{}, resp)
	return resp.Success, err
}

func (cli *JSONRPCClient) Execute(ctx context.Context, origin location.Location, msg []byte) (*ExecuteReply, error) {
	resp := new(ExecuteReply)
	err := cli.send(ctx, "execute", &ExecuteArgs{Origin: origin, Message: msg}, resp)
	return resp, err
}

func (cli *JSONRPCClient) Decode(ctx context.Context, msg []byte) (*DecodeReply, error) {
	resp := new(DecodeReply)
	err := cli.send(ctx, "decode", &DecodeArgs{Message: msg}, resp)
	return resp, err
}

// Balance returns the bech32 address of [account] and its balance of [id].
func (cli *JSONRPCClient) Balance(ctx context.Context, account location.Location, id asset.ID) (string, *uint256.Int, error) {
	resp := new(BalanceReply)
	if err := cli.send(ctx, "balance", &BalanceArgs{Account: account, Asset: id}, resp); err != nil {
		return "", nil, err
	}
	amount, err := uint256.FromDecimal(resp.Amount)
	if err != nil {
		return "", nil, err
	}
	return resp.Address, amount, nil
}

func (cli *JSONRPCClient) Trapped(ctx context.Context, origin location.Location, assets asset.Assets) (uint64, error) {
	p := asset.NewAssets(assets...).Bytes()
	resp := new(TrappedReply)
	err := cli.send(ctx, "trapped", &TrappedArgs{Origin: origin, Assets: p}, resp)
	return resp.Count, err
}

func (cli *JSONRPCClient) Offers(ctx context.Context, in, out asset.ID, limit int) ([]*exchange.Offer, error) {
	resp := new(OffersReply)
	err := cli.send(ctx, "offers", &OffersArgs{In: in, Out: out, Limit: limit}, resp)
	return resp.Offers, err
}

func (cli *JSONRPCClient) Offer(ctx context.Context, id ids.ID) (*exchange.Offer, error) {
	resp := new(OfferReply)
	err := cli.send(ctx, "offer", &OfferArgs{ID: id}, resp)
	return resp.Offer, err
}

func (cli *JSONRPCClient) Outbox(ctx context.Context, limit int, take bool) ([]*policy.Envelope, uint64, error) {
	resp := new(OutboxReply)
	err := cli.send(ctx, "outbox", &OutboxArgs{Limit: limit, Take: take}, resp)
	return resp.Envelopes, resp.Dropped, err
}

func (cli *JSONRPCClient) NewQuery(ctx context.Context, responder location.Location) (uint64, error) {
	resp := new(NewQueryReply)
	err := cli.send(ctx, "newQuery", &NewQueryArgs{Responder: responder}, resp)
	return resp.QueryID, err
}

func (cli *JSONRPCClient) Response(ctx context.Context, queryID uint64) (asset.Assets, error) {
	resp := new(ResponseReply)
	err := cli.send(ctx, "response", &ResponseArgs{QueryID: queryID}, resp)
	return resp.Assets, err
}
