// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"context"
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperxcm/state"
)

const batchSize = 10_000

func randBytes() []byte {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return b
}

func testConfig() Config {
	cfg := NewDefaultConfig()
	cfg.Sync = false
	cfg.CacheSize = 1024 * 1024
	return cfg
}

func TestDatabase(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	dir := t.TempDir()
	db, registry, err := New(dir, testConfig())
	require.NoError(err)
	require.NotNil(registry)

	_, err = db.GetValue(ctx, []byte("missing"))
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(db.Insert(ctx, []byte("a"), []byte{1}))
	require.NoError(db.Apply(ctx, map[string]state.Change{
		"a": {Delete: true},
		"b": {Value: []byte{2}},
	}))
	_, err = db.GetValue(ctx, []byte("a"))
	require.ErrorIs(err, database.ErrNotFound)

	families, err := registry.Gather()
	require.NoError(err)
	var batches float64
	for _, f := range families {
		if f.GetName() == "ledger_db_batches" {
			batches = f.GetMetric()[0].GetCounter().GetValue()
		}
	}
	require.Equal(float64(1), batches)
	require.NoError(db.Close())

	// changes survive a restart
	db, _, err = New(dir, testConfig())
	require.NoError(err)
	v, err := db.GetValue(ctx, []byte("b"))
	require.NoError(err)
	require.Equal([]byte{2}, v)
	require.NoError(db.Remove(ctx, []byte("b")))
	_, err = db.GetValue(ctx, []byte("b"))
	require.ErrorIs(err, database.ErrNotFound)
	require.NoError(db.Close())
}

func TestSimpleMutableOverPebble(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	db, _, err := New(t.TempDir(), testConfig())
	require.NoError(err)
	defer func() {
		require.NoError(db.Close())
	}()

	s := state.NewSimpleMutable(db)
	require.NoError(s.Insert(ctx, []byte("k"), []byte("v")))
	_, err = db.GetValue(ctx, []byte("k"))
	require.ErrorIs(err, database.ErrNotFound)
	require.NoError(s.Commit(ctx))
	v, err := db.GetValue(ctx, []byte("k"))
	require.NoError(err)
	require.Equal([]byte("v"), v)
}

func BenchmarkBatchInsertion(b *testing.B) {
	for _, sync := range []bool{false, true} {
		b.Run(fmt.Sprintf("sync=%t", sync), func(b *testing.B) {
			// Setup DB
			b.StopTimer()
			cfg := NewDefaultConfig()
			cfg.Sync = sync
			db, _, err := New(b.TempDir(), cfg)
			if err != nil {
				b.Fatal(err)
			}

			// Setup keys
			keys := make([][]byte, batchSize)
			for i := 0; i < batchSize; i++ {
				keys[i] = randBytes()
			}

			b.StartTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				changes := make(map[string]state.Change, batchSize)
				for j := 0; j < batchSize; j++ {
					changes[string(keys[j])] = state.Change{Value: randBytes()}
				}
				if err := db.Apply(context.Background(), changes); err != nil {
					b.Fatal(err)
				}
			}
			b.StopTimer()

			if err := db.Close(); err != nil {
				b.Fatal(err)
			}
		})
	}
}
