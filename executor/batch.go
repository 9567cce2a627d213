// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/atomic"

	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/state"
	"github.com/ava-labs/hyperxcm/xcm"
)

var ErrStopped = errors.New("stopped")

// Shared accounts that serialize every root touching them.
const (
	teleportKey = "teleport"
	exchangeKey = "exchange"
)

// Batch sequences the concurrent execution of
// root programs with arbitrary conflicts on-the-fly.
//
// Batch ensures that conflicting roots
// are executed in the order they were queued.
// Roots with no conflicts are executed immediately.
type Batch struct {
	added int
	tasks []*task
	edges map[string]int

	outstanding sync.WaitGroup

	err atomic.Error
}

// NewBatch creates a new [Batch] that accepts at most [items] tasks.
func NewBatch(items int) *Batch {
	return &Batch{
		tasks: make([]*task, items),
		edges: make(map[string]int, items*2),
	}
}

type task struct {
	f func() error

	l        sync.Mutex
	waiters  map[int]*sync.WaitGroup
	executed bool
}

// Run executes [f] after all previously enqueued [f] with
// overlapping [conflicts] are executed.
//
// Run is not safe to call concurrently.
func (b *Batch) Run(conflicts state.Keys, f func() error) {
	// Ensure too many tasks not enqueued
	if b.added >= len(b.tasks) {
		b.err.CompareAndSwap(nil, errors.New("too many tasks created"))
		return
	}

	// Generate task
	id := b.added
	b.added++
	t := &task{
		f:       f,
		waiters: map[int]*sync.WaitGroup{},
	}
	b.tasks[id] = t
	b.outstanding.Add(1)

	// Record dependencies
	wg := sync.WaitGroup{}
	for k := range conflicts {
		latest, ok := b.edges[k]
		if ok {
			lt := b.tasks[latest]
			lt.l.Lock()
			// A predecessor sharing several keys is waited on once.
			if _, waiting := lt.waiters[id]; !lt.executed && !waiting {
				wg.Add(1)
				lt.waiters[id] = &wg
			}
			lt.l.Unlock()
		}
		b.edges[k] = id
	}

	go func() {
		// Block until our dependencies have been executed
		wg.Wait()

		// Ensure we unblock our dependencies
		defer func() {
			t.l.Lock()
			for _, w := range t.waiters {
				w.Done()
			}
			t.waiters = nil
			t.executed = true
			t.l.Unlock()
			b.outstanding.Done()
		}()

		// Stop early if batch is stopped
		if b.err.Load() != nil {
			return
		}

		if err := t.f(); err != nil {
			b.err.CompareAndSwap(nil, err)
			return
		}
	}()
}

func (b *Batch) Stop() {
	b.err.CompareAndSwap(nil, ErrStopped)
}

// Wait returns as soon as all enqueued [f] are executed.
//
// You should not call [Run] after [Wait] is called.
func (b *Batch) Wait() error {
	b.outstanding.Wait()
	return b.err.Load()
}

// Message is one inbound root program.
type Message struct {
	Origin  location.Location
	Program xcm.Program
}

// ExecuteBatch runs every message as an independent root. Messages whose
// conflict keys overlap run in the order given; the rest run
// concurrently. Outcomes are returned in input order.
func (e *Executor[O, C]) ExecuteBatch(ctx context.Context, msgs []Message, weightLimit uint64) ([]xcm.Outcome, error) {
	var (
		outcomes = make([]xcm.Outcome, len(msgs))
		b        = NewBatch(len(msgs))
	)
	for i, msg := range msgs {
		i, msg := i, msg
		b.Run(ConflictKeys(msg.Origin, msg.Program), func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcomes[i] = e.Execute(ctx, msg.Origin, msg.Program, weightLimit)
			return nil
		})
	}
	if err := b.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// ConflictKeys returns the keys of every account [program] from [origin]
// may touch: the origin, every beneficiary and destination named anywhere
// in the program and the shared teleport and exchange accounts when they
// are involved.
func ConflictKeys(origin location.Location, program xcm.Program) state.Keys {
	keys := state.Keys{}
	keys.Add(origin.Key(), state.Write)
	addProgramKeys(keys, origin, program)
	return keys
}

func addProgramKeys(keys state.Keys, origin location.Location, program xcm.Program) {
	switch p := program.(type) {
	case *xcm.WithdrawAsset:
		addOrderKeys(keys, origin, p.Effects)
	case *xcm.ReserveAssetDeposited:
		addOrderKeys(keys, origin, p.Effects)
	case *xcm.ReceiveTeleportedAsset:
		keys.Add(teleportKey, state.Write)
		addOrderKeys(keys, origin, p.Effects)
	case *xcm.TransferAsset:
		keys.Add(p.Beneficiary.Key(), state.Write)
	case *xcm.TransferReserveAsset:
		keys.Add(p.Dest.Key(), state.Write)
	case *xcm.RelayedFrom:
		relayed := origin
		for _, j := range p.Who {
			next, err := relayed.PushInterior(j)
			if err != nil {
				break
			}
			relayed = next
		}
		keys.Add(relayed.Key(), state.Write)
		addProgramKeys(keys, relayed, p.Message)
	}
}

func addOrderKeys(keys state.Keys, origin location.Location, orders []xcm.Order) {
	for _, order := range orders {
		switch o := order.(type) {
		case *xcm.DepositAsset:
			keys.Add(o.Beneficiary.Key(), state.Write)
		case *xcm.DepositReserveAsset:
			keys.Add(o.Dest.Key(), state.Write)
		case *xcm.InitiateTeleport:
			keys.Add(teleportKey, state.Write)
		case *xcm.ExchangeAsset:
			keys.Add(exchangeKey, state.Write)
		case *xcm.BuyExecution:
			for _, prog := range o.Instructions {
				addProgramKeys(keys, origin, prog)
			}
		}
	}
}
