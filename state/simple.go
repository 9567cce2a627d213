// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
)

var _ Mutable = (*SimpleMutable)(nil)

// SimpleMutable buffers writes over a [Database] until [Commit]. Reads see
// the buffered writes first.
type SimpleMutable struct {
	db Database

	changes map[string]Change
}

func NewSimpleMutable(db Database) *SimpleMutable {
	return &SimpleMutable{db, make(map[string]Change)}
}

func (s *SimpleMutable) GetValue(ctx context.Context, k []byte) ([]byte, error) {
	if v, ok := s.changes[string(k)]; ok {
		if v.Delete {
			return nil, database.ErrNotFound
		}
		return v.Value, nil
	}
	return s.db.GetValue(ctx, k)
}

func (s *SimpleMutable) Insert(_ context.Context, k []byte, v []byte) error {
	s.changes[string(k)] = Change{Value: v}
	return nil
}

func (s *SimpleMutable) Remove(_ context.Context, k []byte) error {
	s.changes[string(k)] = Change{Delete: true}
	return nil
}

// Keys returns the keys written so far.
func (s *SimpleMutable) Keys() Keys {
	keys := make(Keys, len(s.changes))
	for k := range s.changes {
		keys.Add(k, Write)
	}
	return keys
}

// Commit writes every buffered change at once. The buffer is cleared only
// if the write succeeds.
func (s *SimpleMutable) Commit(ctx context.Context) error {
	if len(s.changes) == 0 {
		return nil
	}
	if err := s.db.Apply(ctx, s.changes); err != nil {
		return err
	}
	s.changes = make(map[string]Change)
	return nil
}
