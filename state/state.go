// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
)

// Keys are []byte on the way in and string in every map. Missing keys
// are reported as database.ErrNotFound.
type Immutable interface {
	GetValue(ctx context.Context, key []byte) (value []byte, err error)
}

type Mutable interface {
	Immutable

	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
}

// Change is a pending write. A nil [Value] with [Delete] unset stores an
// empty value.
type Change struct {
	Value  []byte
	Delete bool
}

// Database is durable storage that applies a set of changes atomically.
type Database interface {
	Immutable

	Apply(ctx context.Context, changes map[string]Change) error
}
