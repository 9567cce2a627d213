// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"slices"
	"sync"

	"github.com/ava-labs/avalanchego/database"
	"golang.org/x/exp/maps"
)

var (
	_ Database = (*MemoryDatabase)(nil)
	_ Mutable  = (*MemoryDatabase)(nil)
)

// MemoryDatabase is a [Database] held in memory. It is safe for concurrent
// use.
type MemoryDatabase struct {
	l       sync.RWMutex
	storage map[string][]byte
}

func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{storage: map[string][]byte{}}
}

func (m *MemoryDatabase) GetValue(_ context.Context, key []byte) ([]byte, error) {
	m.l.RLock()
	defer m.l.RUnlock()

	if v, has := m.storage[string(key)]; has {
		return slices.Clone(v), nil
	}
	return nil, database.ErrNotFound
}

func (m *MemoryDatabase) Insert(_ context.Context, key []byte, value []byte) error {
	m.l.Lock()
	defer m.l.Unlock()

	m.storage[string(key)] = slices.Clone(value)
	return nil
}

func (m *MemoryDatabase) Remove(_ context.Context, key []byte) error {
	m.l.Lock()
	defer m.l.Unlock()

	delete(m.storage, string(key))
	return nil
}

func (m *MemoryDatabase) Apply(_ context.Context, changes map[string]Change) error {
	m.l.Lock()
	defer m.l.Unlock()

	for k, c := range changes {
		if c.Delete {
			delete(m.storage, k)
			continue
		}
		m.storage[k] = slices.Clone(c.Value)
	}
	return nil
}

// Keys returns every stored key in sorted order.
func (m *MemoryDatabase) Keys() []string {
	m.l.RLock()
	defer m.l.RUnlock()

	ks := maps.Keys(m.storage)
	slices.Sort(ks)
	return ks
}

func (m *MemoryDatabase) Len() int {
	m.l.RLock()
	defer m.l.RUnlock()
	return len(m.storage)
}
