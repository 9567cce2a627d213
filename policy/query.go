// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package policy

import (
	"context"
	"fmt"
	"sync"

	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/xcm"
)

type query struct {
	responder location.Location
	response  *xcm.Response
}

// QueryTracker issues query ids and records the responses that arrive for
// them. A response is only accepted once, from the responder named when
// the query was issued.
type QueryTracker struct {
	l       sync.Mutex
	next    uint64
	queries map[uint64]*query
}

func NewQueryTracker() *QueryTracker {
	return &QueryTracker{queries: map[uint64]*query{}}
}

// NewQuery reserves an id for a query answered by [responder].
func (q *QueryTracker) NewQuery(responder location.Location) uint64 {
	q.l.Lock()
	defer q.l.Unlock()

	id := q.next
	q.next++
	q.queries[id] = &query{responder: responder}
	return id
}

func (q *QueryTracker) ExpectingResponse(origin location.Location, queryID uint64) bool {
	q.l.Lock()
	defer q.l.Unlock()

	pending, ok := q.queries[queryID]
	return ok && pending.response == nil && pending.responder.Equal(origin)
}

func (q *QueryTracker) OnResponse(_ context.Context, origin location.Location, queryID uint64, response xcm.Response) error {
	q.l.Lock()
	defer q.l.Unlock()

	pending, ok := q.queries[queryID]
	if !ok || pending.response != nil || !pending.responder.Equal(origin) {
		return fmt.Errorf("%w: query %d from %s", ErrUnexpectedResponse, queryID, origin)
	}
	pending.response = &response
	return nil
}

// Response returns the answer to [queryID] once it arrived. The query is
// forgotten when its answer is returned.
func (q *QueryTracker) Response(queryID uint64) (xcm.Response, bool) {
	q.l.Lock()
	defer q.l.Unlock()

	pending, ok := q.queries[queryID]
	if !ok || pending.response == nil {
		return xcm.Response{}, false
	}
	delete(q.queries, queryID)
	return *pending.response, true
}

// Pending is the number of queries not yet collected.
func (q *QueryTracker) Pending() int {
	q.l.Lock()
	defer q.l.Unlock()
	return len(q.queries)
}
