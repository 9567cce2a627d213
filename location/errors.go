// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package location

import "errors"

var (
	ErrLocationFull    = errors.New("location full")
	ErrTooManyParents  = errors.New("too many parents")
	ErrUnknownJunction = errors.New("unknown junction")
	ErrUnknownNetwork  = errors.New("unknown network")
	ErrInvalidFormat   = errors.New("invalid location format")
)
