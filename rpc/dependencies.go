// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/hyperxcm/exchange"
	"github.com/ava-labs/hyperxcm/ledger"
	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/policy"
	"github.com/ava-labs/hyperxcm/xcm"
)

type Node interface {
	Execute(ctx context.Context, origin location.Location, msg []byte) xcm.Outcome
	Ledger() *ledger.Ledger
	Book() *exchange.Book
	Outbox() *policy.Outbox
	Queries() *policy.QueryTracker
	Tracer() trace.Tracer
	Logger() logging.Logger
}
