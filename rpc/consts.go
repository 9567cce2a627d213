// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

const (
	Name            = "xcm"
	JSONRPCEndpoint = "/xcmapi"

	// MaxOutboxLimit bounds the envelopes returned by one outbox call.
	MaxOutboxLimit = 1_024
)
