// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xcm

import (
	"errors"

	"github.com/ava-labs/hyperxcm/asset"
	"github.com/ava-labs/hyperxcm/location"
)

var (
	ErrBarrier                   = errors.New("barrier")
	ErrRecursionLimitReached     = errors.New("recursion limit reached")
	ErrNotWithdrawable           = asset.ErrNotWithdrawable
	ErrNotDepositable            = errors.New("not depositable")
	ErrUnderpaid                 = errors.New("underpaid")
	ErrExchangeFailed            = errors.New("exchange failed")
	ErrSendFailed                = errors.New("send failed")
	ErrUnhandledXcmMessage       = errors.New("unhandled xcm message")
	ErrUnhandledEffect           = errors.New("unhandled effect")
	ErrUnhandledXcmVersion       = errors.New("unhandled xcm version")
	ErrFailedToDecode            = errors.New("failed to decode")
	ErrUntrustedReserveLocation  = errors.New("untrusted reserve location")
	ErrUntrustedTeleportLocation = errors.New("untrusted teleport location")
	ErrBadOrigin                 = errors.New("bad origin")
	ErrTooMuchWeightRequired     = errors.New("too much weight required")
	ErrNotHoldingFees            = errors.New("not holding fees")
	ErrWeightNotComputable       = errors.New("weight not computable")
	ErrWeightLimitReached        = errors.New("weight limit reached")
	ErrLocationFull              = location.ErrLocationFull
	ErrAssetNotFound             = errors.New("asset not found")
	ErrCannotReachDestination    = errors.New("cannot reach destination")
	ErrExceedsMaxMessageSize     = errors.New("exceeds max message size")
	ErrUnexpectedResponse        = errors.New("unexpected response")
	ErrUnimplemented             = errors.New("unimplemented")
	ErrOverflow                  = asset.ErrOverflow
	ErrUnexpected                = errors.New("unexpected")
)
