// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"errors"

	"github.com/ava-labs/hyperxcm/xcm"
)

var (
	ErrInvalidBalance    = errors.New("invalid balance")
	ErrAlreadyOwned      = errors.New("instance already owned")
	ErrNotOwner          = errors.New("not owner")
	ErrNoTrappedAssets   = errors.New("no trapped assets")
	ErrInvalidAllocation = errors.New("invalid allocation")

	ErrNotWithdrawable = xcm.ErrNotWithdrawable
	ErrNotDepositable  = xcm.ErrNotDepositable
)
