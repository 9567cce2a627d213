// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperxcm/asset"
	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/state"
	"github.com/ava-labs/hyperxcm/xcm"
)

// Run several times to catch non-determinism
const numIterations = 10

func randomKeys(n int) state.Keys {
	s := make(state.Keys, n)
	for k := 0; k < n; k++ {
		s.Add(ids.GenerateTestID().String(), state.Read|state.Write)
	}
	return s
}

func TestBatchNoConflicts(t *testing.T) {
	var (
		require   = require.New(t)
		l         sync.Mutex
		completed = make([]int, 0, 100)
		b         = NewBatch(100)
		canWait   = make(chan struct{})
	)

	for i := 0; i < 100; i++ {
		ti := i
		b.Run(randomKeys(i+1), func() error {
			l.Lock()
			completed = append(completed, ti)
			if len(completed) == 100 {
				close(canWait)
			}
			l.Unlock()
			return nil
		})
	}
	<-canWait
	require.NoError(b.Wait()) // no task running
	require.Len(completed, 100)
}

func TestBatchNoConflictsSlow(t *testing.T) {
	for j := 0; j < numIterations; j++ {
		var (
			require   = require.New(t)
			l         sync.Mutex
			completed = make([]int, 0, 100)
			b         = NewBatch(100)
			slow      = make(chan struct{})
		)
		for i := 0; i < 100; i++ {
			ti := i
			b.Run(randomKeys(i+1), func() error {
				if ti == 0 {
					<-slow
				}
				l.Lock()
				completed = append(completed, ti)
				if len(completed) == 99 {
					close(slow)
				}
				l.Unlock()
				return nil
			})
		}
		require.NoError(b.Wait()) // existing task is running
		require.Len(completed, 100)
		require.Equal(0, completed[99])
	}
}

func TestBatchSimpleConflict(t *testing.T) {
	var (
		require     = require.New(t)
		conflictKey = ids.GenerateTestID().String()
		l           sync.Mutex
		completed   = make([]int, 0, 100)
		b           = NewBatch(100)
		slow        = make(chan struct{})
	)
	for i := 0; i < 100; i++ {
		s := randomKeys(i + 1)
		if i%10 == 0 {
			s.Add(conflictKey, state.Read|state.Write)
		}
		ti := i
		b.Run(s, func() error {
			if ti == 0 {
				<-slow
			}

			l.Lock()
			completed = append(completed, ti)
			if len(completed) == 90 {
				close(slow)
			}
			l.Unlock()
			return nil
		})
	}
	require.NoError(b.Wait())
	require.Equal([]int{0, 10, 20, 30, 40, 50, 60, 70, 80, 90}, completed[90:])
}

func TestBatchSharedKeys(t *testing.T) {
	var (
		require   = require.New(t)
		first     = ids.GenerateTestID().String()
		second    = ids.GenerateTestID().String()
		l         sync.Mutex
		completed = make([]int, 0, 3)
		b         = NewBatch(3)
		done      = make(chan error, 1)
	)
	for i := 0; i < 3; i++ {
		keys := state.Keys{}
		keys.Add(first, state.Write)
		keys.Add(second, state.Write)
		ti := i
		b.Run(keys, func() error {
			l.Lock()
			completed = append(completed, ti)
			l.Unlock()
			return nil
		})
	}
	go func() { done <- b.Wait() }()
	select {
	case err := <-done:
		require.NoError(err)
	case <-time.After(5 * time.Second):
		require.FailNow("batch with roots sharing two keys never finished")
	}
	require.Equal([]int{0, 1, 2}, completed)
}

func TestBatchMultiConflict(t *testing.T) {
	var (
		require      = require.New(t)
		conflictKey  = ids.GenerateTestID().String()
		conflictKey2 = ids.GenerateTestID().String()
		l            sync.Mutex
		completed    = make([]int, 0, 100)
		b            = NewBatch(100)
		slow1        = make(chan struct{})
		slow2        = make(chan struct{})
	)
	for i := 0; i < 100; i++ {
		s := randomKeys(i + 1)
		if i%10 == 0 {
			s.Add(conflictKey, state.Read|state.Write)
		}
		if i == 15 || i == 20 {
			s.Add(conflictKey2, state.Read|state.Write)
		}
		ti := i
		b.Run(s, func() error {
			if ti == 0 {
				<-slow1
			}
			if ti == 15 {
				<-slow2
			}

			l.Lock()
			completed = append(completed, ti)
			if len(completed) == 89 {
				close(slow1)
			}
			if len(completed) == 91 {
				close(slow2)
			}
			l.Unlock()
			return nil
		})
	}
	require.NoError(b.Wait())
	require.Equal([]int{0, 10, 15, 20, 30, 40, 50, 60, 70, 80, 90}, completed[89:])
}

func TestBatchEarlyExit(t *testing.T) {
	var (
		require   = require.New(t)
		shared    = ids.GenerateTestID().String()
		l         sync.Mutex
		completed = make([]int, 0, 500)
		b         = NewBatch(500)
		terr      = errors.New("uh oh")
	)
	for i := 0; i < 500; i++ {
		s := randomKeys(1)
		s.Add(shared, state.Write)
		ti := i
		b.Run(s, func() error {
			l.Lock()
			completed = append(completed, ti)
			l.Unlock()
			if ti == 200 {
				return terr
			}
			return nil
		})
	}
	require.ErrorIs(b.Wait(), terr) // no task running
	require.Len(completed, 201)
}

func TestBatchStop(t *testing.T) {
	var (
		require   = require.New(t)
		shared    = ids.GenerateTestID().String()
		l         sync.Mutex
		completed = make([]int, 0, 500)
		b         = NewBatch(500)
	)
	for i := 0; i < 500; i++ {
		s := randomKeys(1)
		s.Add(shared, state.Write)
		ti := i
		b.Run(s, func() error {
			l.Lock()
			completed = append(completed, ti)
			l.Unlock()
			if ti == 200 {
				b.Stop()
			}
			return nil
		})
	}
	require.ErrorIs(b.Wait(), ErrStopped) // no task running
	require.Len(completed, 201)
}

func TestBatchTooManyTasks(t *testing.T) {
	require := require.New(t)

	b := NewBatch(1)
	b.Run(randomKeys(1), func() error { return nil })
	b.Run(randomKeys(1), func() error { return nil })
	require.Error(b.Wait())
}

func TestConflictKeys(t *testing.T) {
	require := require.New(t)

	var (
		origin = location.MustNew(1, location.Parachain(1000))
		bob    = location.Account([32]byte{2})
		dest   = location.MustNew(1, location.Parachain(2000))
	)
	keys := ConflictKeys(origin, &xcm.ReceiveTeleportedAsset{
		Effects: []xcm.Order{
			&xcm.DepositAsset{Assets: asset.All(), MaxAssets: 1, Beneficiary: bob},
			&xcm.BuyExecution{Instructions: []xcm.Program{
				&xcm.TransferReserveAsset{Dest: dest},
			}},
		},
	})
	require.Len(keys, 4)
	for _, k := range []string{origin.Key(), bob.Key(), dest.Key(), teleportKey} {
		require.Contains(keys, k)
	}

	relayed := ConflictKeys(origin, &xcm.RelayedFrom{
		Who:     []location.Junction{location.PalletInstance(3)},
		Message: &xcm.WithdrawAsset{Effects: []xcm.Order{&xcm.ExchangeAsset{}}},
	})
	inner, err := origin.PushInterior(location.PalletInstance(3))
	require.NoError(err)
	require.Contains(relayed, inner.Key())
	require.Contains(relayed, exchangeKey)
}
