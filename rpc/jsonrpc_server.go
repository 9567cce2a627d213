// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ava-labs/hyperxcm/asset"
	"github.com/ava-labs/hyperxcm/codec"
	"github.com/ava-labs/hyperxcm/exchange"
	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/policy"
	"github.com/ava-labs/hyperxcm/xcm"

	oteltrace "go.opentelemetry.io/otel/trace"
)

type JSONRPCServer struct {
	node Node
}

func NewJSONRPCServer(node Node) *JSONRPCServer {
	return &JSONRPCServer{node}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	j.node.Logger().Info("ping")
	reply.Success = true
	return nil
}

type ExecuteArgs struct {
	Origin  location.Location `json:"origin"`
	Message codec.Bytes       `json:"message"`
}

type ExecuteReply struct {
	Outcome string `json:"outcome"`
	Weight  uint64 `json:"weight"`
	Error   string `json:"error,omitempty"`
}

// Execute runs a versioned message as if it arrived from [Origin]. A
// program that does not complete is not an RPC error.
func (j *JSONRPCServer) Execute(req *http.Request, args *ExecuteArgs, reply *ExecuteReply) error {
	ctx, span := j.node.Tracer().Start(req.Context(), "JSONRPCServer.Execute", oteltrace.WithAttributes(
		attribute.String("origin", args.Origin.String()),
		attribute.Int("size", len(args.Message)),
	))
	defer span.End()

	out := j.node.Execute(ctx, args.Origin, args.Message)
	outcomeReply(out, reply)
	return nil
}

type DecodeArgs struct {
	Message codec.Bytes `json:"message"`
}

type DecodeReply struct {
	Type    string          `json:"type"`
	Program json.RawMessage `json:"program"`
}

func (*JSONRPCServer) Decode(_ *http.Request, args *DecodeArgs, reply *DecodeReply) error {
	program, err := xcm.UnmarshalVersioned(args.Message)
	if err != nil {
		return err
	}
	b, err := json.Marshal(program)
	if err != nil {
		return err
	}
	reply.Type = typeName(program)
	reply.Program = b
	return nil
}

type BalanceArgs struct {
	Account location.Location `json:"account"`
	Asset   asset.ID          `json:"asset"`
}

type BalanceReply struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
}

func (j *JSONRPCServer) Balance(req *http.Request, args *BalanceArgs, reply *BalanceReply) error {
	ctx, span := j.node.Tracer().Start(req.Context(), "JSONRPCServer.Balance")
	defer span.End()

	bal, err := j.node.Ledger().Balance(ctx, args.Account, args.Asset)
	if err != nil {
		return err
	}
	reply.Address = j.node.Ledger().Address(args.Account)
	reply.Amount = bal.Dec()
	return nil
}

type TrappedArgs struct {
	Origin location.Location `json:"origin"`
	Assets codec.Bytes       `json:"assets"`
}

type TrappedReply struct {
	Count uint64 `json:"count"`
}

// Trapped counts the drops of the encoded [Assets] by [Origin].
func (j *JSONRPCServer) Trapped(req *http.Request, args *TrappedArgs, reply *TrappedReply) error {
	p := codec.NewReader(args.Assets, xcm.MaxCallSize)
	assets := asset.UnmarshalAssets(p)
	if err := p.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	count, err := j.node.Ledger().Trapped(req.Context(), args.Origin, asset.NewAssets(assets...))
	if err != nil {
		return err
	}
	reply.Count = count
	return nil
}

type OffersArgs struct {
	In    asset.ID `json:"in"`
	Out   asset.ID `json:"out"`
	Limit int      `json:"limit"`
}

type OffersReply struct {
	Offers []*exchange.Offer `json:"offers"`
}

func (j *JSONRPCServer) Offers(_ *http.Request, args *OffersArgs, reply *OffersReply) error {
	reply.Offers = j.node.Book().Offers(args.In, args.Out, args.Limit)
	return nil
}

type OfferArgs struct {
	ID ids.ID `json:"id"`
}

type OfferReply struct {
	Offer *exchange.Offer `json:"offer"`
}

func (j *JSONRPCServer) Offer(_ *http.Request, args *OfferArgs, reply *OfferReply) error {
	offer, ok := j.node.Book().Offer(args.ID)
	if !ok {
		return fmt.Errorf("%w: %s", exchange.ErrOfferMissing, args.ID)
	}
	reply.Offer = offer
	return nil
}

type OutboxArgs struct {
	Limit int  `json:"limit"`
	Take  bool `json:"take"`
}

type OutboxReply struct {
	Envelopes []*policy.Envelope `json:"envelopes"`
	Dropped   uint64             `json:"dropped"`
}

// Outbox lists queued envelopes, oldest first. With [Take] they are
// removed from the queue.
func (j *JSONRPCServer) Outbox(_ *http.Request, args *OutboxArgs, reply *OutboxReply) error {
	if args.Limit <= 0 || args.Limit > MaxOutboxLimit {
		args.Limit = MaxOutboxLimit
	}
	outbox := j.node.Outbox()
	var envelopes []*policy.Envelope
	if args.Take {
		envelopes = outbox.Take(args.Limit)
		j.node.Logger().Info("envelopes taken", zap.Int("count", len(envelopes)))
	} else {
		envelopes = outbox.Pending()
		if len(envelopes) > args.Limit {
			envelopes = envelopes[:args.Limit]
		}
	}
	if envelopes == nil {
		envelopes = []*policy.Envelope{}
	}
	reply.Envelopes = envelopes
	reply.Dropped = outbox.Dropped()
	return nil
}

type NewQueryArgs struct {
	Responder location.Location `json:"responder"`
}

type NewQueryReply struct {
	QueryID uint64 `json:"queryId"`
}

func (j *JSONRPCServer) NewQuery(_ *http.Request, args *NewQueryArgs, reply *NewQueryReply) error {
	reply.QueryID = j.node.Queries().NewQuery(args.Responder)
	return nil
}

type ResponseArgs struct {
	QueryID uint64 `json:"queryId"`
}

type ResponseReply struct {
	Assets asset.Assets `json:"assets"`
}

func (j *JSONRPCServer) Response(_ *http.Request, args *ResponseArgs, reply *ResponseReply) error {
	response, ok := j.node.Queries().Response(args.QueryID)
	if !ok {
		return fmt.Errorf("%w: query %d", ErrNoResponse, args.QueryID)
	}
	reply.Assets = response.Assets
	return nil
}
