// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import "errors"

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNoResponse      = errors.New("no response")
)
