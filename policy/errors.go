// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package policy

import (
	"errors"

	"github.com/ava-labs/hyperxcm/xcm"
)

var (
	ErrNotTopLevel           = errors.New("not top level")
	ErrUntrustedOrigin       = errors.New("untrusted origin")
	ErrNotPaid               = errors.New("execution not paid")
	ErrInsufficientCredit    = errors.New("insufficient weight credit")
	ErrUnexpectedQuery       = errors.New("unexpected query response")
	ErrNoBarrierPassed       = errors.New("no barrier passed")
	ErrTooManyInstructions   = errors.New("too many instructions")
	ErrUnsupportedOriginKind = errors.New("unsupported origin kind")

	ErrCannotReachDestination = xcm.ErrCannotReachDestination
	ErrExceedsMaxMessageSize  = xcm.ErrExceedsMaxMessageSize
	ErrUnexpectedResponse     = xcm.ErrUnexpectedResponse
)
