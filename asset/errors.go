// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package asset

import "errors"

var (
	ErrNotWithdrawable = errors.New("not withdrawable")
	ErrOverflow        = errors.New("overflow")
	ErrUnknownKind     = errors.New("unknown asset kind")
	ErrNotCanonical    = errors.New("assets not canonical")
	ErrInvalidID       = errors.New("invalid asset id")
)
