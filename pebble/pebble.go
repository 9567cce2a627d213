// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/hyperxcm/state"
)

var (
	_ state.Database = (*Database)(nil)
	_ state.Mutable  = (*Database)(nil)
)

type Config struct {
	CacheSize                   int64  `json:"cacheSize"`
	BytesPerSync                int    `json:"bytesPerSync"`
	WALBytesPerSync             int    `json:"walBytesPerSync"`
	MemTableStopWritesThreshold int    `json:"memTableStopWritesThreshold"`
	MemTableSize                uint64 `json:"memTableSize"`
	MaxOpenFiles                int    `json:"maxOpenFiles"`
	ConcurrentCompactions       int    `json:"concurrentCompactions"`
	Sync                        bool   `json:"sync"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:                   64 * 1024 * 1024,
		BytesPerSync:                1024 * 1024,
		WALBytesPerSync:             1024 * 1024,
		MemTableStopWritesThreshold: 8,
		MemTableSize:                16 * 1024 * 1024,
		MaxOpenFiles:                4_096,
		ConcurrentCompactions:       1,
		Sync:                        true,
	}
}

// Database persists ledger state in a pebble store.
type Database struct {
	db      *pebble.DB
	write   *pebble.WriteOptions
	closing chan struct{}
	metrics *metrics
}

// New opens (or creates) the store at [file] and returns the registry its
// metrics are registered with.
func New(file string, cfg Config) (*Database, *prometheus.Registry, error) {
	d := &Database{closing: make(chan struct{}), write: pebble.NoSync}
	if cfg.Sync {
		d.write = pebble.Sync
	}
	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	d.metrics = metrics

	cache := pebble.NewCache(cfg.CacheSize)
	defer cache.Unref()
	opts := &pebble.Options{
		Cache:                       cache,
		BytesPerSync:                cfg.BytesPerSync,
		Comparer:                    pebble.DefaultComparer,
		WALBytesPerSync:             cfg.WALBytesPerSync,
		MemTableStopWritesThreshold: cfg.MemTableStopWritesThreshold,
		MemTableSize:                cfg.MemTableSize,
		MaxOpenFiles:                cfg.MaxOpenFiles,
		MaxConcurrentCompactions:    func() int { return cfg.ConcurrentCompactions },
		EventListener: &pebble.EventListener{
			CompactionBegin: d.onCompactionBegin,
			CompactionEnd:   d.onCompactionEnd,
			WriteStallBegin: d.onWriteStallBegin,
			WriteStallEnd:   d.onWriteStallEnd,
		},
	}
	opts.EnsureDefaults()
	db, err := pebble.Open(file, opts)
	if err != nil {
		return nil, nil, err
	}
	d.db = db
	go d.collectMetrics()
	return d, registry, nil
}

func (db *Database) GetValue(_ context.Context, key []byte) ([]byte, error) {
	start := time.Now()
	defer func() {
		db.metrics.getLatency.Observe(float64(time.Since(start)))
	}()

	v, closer, err := db.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	value := slices.Clone(v)
	return value, closer.Close()
}

func (db *Database) Insert(_ context.Context, key []byte, value []byte) error {
	return db.db.Set(key, value, db.write)
}

func (db *Database) Remove(_ context.Context, key []byte) error {
	return db.db.Delete(key, db.write)
}

// Apply writes [changes] in a single batch.
func (db *Database) Apply(_ context.Context, changes map[string]state.Change) error {
	batch := db.db.NewBatch()
	defer batch.Close()

	for k, c := range changes {
		var err error
		if c.Delete {
			err = batch.Delete([]byte(k), nil)
		} else {
			err = batch.Set([]byte(k), c.Value, nil)
		}
		if err != nil {
			return err
		}
	}
	if err := batch.Commit(db.write); err != nil {
		return err
	}
	db.metrics.batches.Inc()
	db.metrics.batchSize.Observe(float64(len(changes)))
	return nil
}

func (db *Database) Close() error {
	close(db.closing)
	return db.db.Close()
}
