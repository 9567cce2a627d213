// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import "errors"

var (
	ErrDuplicateRoute = errors.New("duplicate route")
	ErrUnknownRoute   = errors.New("unknown route")
)
