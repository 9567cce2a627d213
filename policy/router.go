// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package policy

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/atomic"

	"github.com/ava-labs/hyperxcm/consts"
	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/utils"
	"github.com/ava-labs/hyperxcm/xcm"
)

// Router matches executor.Router.
type Router interface {
	Send(ctx context.Context, dest location.Location, program xcm.Program) error
}

var (
	_ Router = DoNothingRouter{}
	_ Router = (*Outbox)(nil)
	_ Router = Routers(nil)
)

// DoNothingRouter reaches nowhere.
type DoNothingRouter struct{}

func (DoNothingRouter) Send(context.Context, location.Location, xcm.Program) error {
	return ErrCannotReachDestination
}

// Envelope is an encoded message waiting for transport.
type Envelope struct {
	Dest    location.Location `json:"dest"`
	Message []byte            `json:"message"`
}

// Outbox queues versioned messages for the destinations in [Prefixes].
// When full, the oldest envelope is dropped.
type Outbox struct {
	reachable      Locations
	maxMessageSize int

	l       sync.Mutex
	queue   utils.BoundedBuffer[*Envelope]
	dropped atomic.Uint64
}

// NewOutbox returns an outbox holding at most [capacity] envelopes of at
// most [maxMessageSize] bytes each. A non-positive [maxMessageSize]
// defaults to [consts.MaxMessageSize].
func NewOutbox(reachable Locations, capacity int, maxMessageSize int) (*Outbox, error) {
	if maxMessageSize <= 0 {
		maxMessageSize = consts.MaxMessageSize
	}
	o := &Outbox{
		reachable:      reachable,
		maxMessageSize: maxMessageSize,
	}
	queue, err := utils.NewBoundedBuffer(capacity, func(*Envelope) { o.dropped.Inc() })
	if err != nil {
		return nil, err
	}
	o.queue = queue
	return o, nil
}

func (o *Outbox) Send(_ context.Context, dest location.Location, program xcm.Program) error {
	if !o.reachable.Contains(dest) {
		return fmt.Errorf("%w: %s", ErrCannotReachDestination, dest)
	}
	msg, err := xcm.MarshalVersioned(program)
	if err != nil {
		return err
	}
	if len(msg) > o.maxMessageSize {
		return fmt.Errorf("%w: %d > %d", ErrExceedsMaxMessageSize, len(msg), o.maxMessageSize)
	}

	o.l.Lock()
	defer o.l.Unlock()
	o.queue.Insert(&Envelope{Dest: dest, Message: msg})
	return nil
}

// Take removes up to [n] of the oldest envelopes.
func (o *Outbox) Take(n int) []*Envelope {
	o.l.Lock()
	defer o.l.Unlock()
	return o.queue.Take(n)
}

// Pending returns the queued envelopes without removing them.
func (o *Outbox) Pending() []*Envelope {
	o.l.Lock()
	defer o.l.Unlock()
	return o.queue.Items()
}

func (o *Outbox) Len() int {
	o.l.Lock()
	defer o.l.Unlock()
	return o.queue.Len()
}

// Dropped is the number of envelopes evicted before being taken.
func (o *Outbox) Dropped() uint64 {
	return o.dropped.Load()
}

// Routers tries each member in turn until one can reach the destination.
type Routers []Router

func (rs Routers) Send(ctx context.Context, dest location.Location, program xcm.Program) error {
	for _, r := range rs {
		err := r.Send(ctx, dest, program)
		if errors.Is(err, ErrCannotReachDestination) {
			continue
		}
		return err
	}
	return fmt.Errorf("%w: %s", ErrCannotReachDestination, dest)
}
