// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import "errors"

var (
	ErrTickZero              = errors.New("tick must be positive")
	ErrSupplyMisaligned      = errors.New("supply is misaligned")
	ErrSameAsset             = errors.New("offer must trade two assets")
	ErrBookFull              = errors.New("pair has too many offers")
	ErrOfferMissing          = errors.New("offer missing")
	ErrWrongMaker            = errors.New("wrong maker")
	ErrNonFungible           = errors.New("only fungible assets are exchanged")
	ErrAmountTooLarge        = errors.New("amount too large")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
)
