// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package heap

import (
	"cmp"
	"container/heap"
	"fmt"
)

var _ heap.Interface = (*innerHeap[int, any, int])(nil)

type Entry[K comparable, I any, V cmp.Ordered] struct {
	ID   K // id of entry
	Item I // associated item
	Val  V // Value to be prioritized

	// Seq breaks ties between equal [Val]s: lower goes first.
	Seq uint64

	Index int // Index of the entry in heap
}

type innerHeap[K comparable, I any, V cmp.Ordered] struct {
	isMinHeap bool
	items     []*Entry[K, I, V]
	lookup    map[K]*Entry[K, I, V]
}

func newInnerHeap[K comparable, I any, V cmp.Ordered](items int, isMinHeap bool) *innerHeap[K, I, V] {
	return &innerHeap[K, I, V]{
		isMinHeap: isMinHeap,
		items:     make([]*Entry[K, I, V], 0, items),
		lookup:    make(map[K]*Entry[K, I, V], items),
	}
}

func (h *innerHeap[K, I, V]) Len() int { return len(h.items) }

func (h *innerHeap[K, I, V]) before(a, b *Entry[K, I, V]) bool {
	if a.Val == b.Val {
		return a.Seq < b.Seq
	}
	if h.isMinHeap {
		return a.Val < b.Val
	}
	return a.Val > b.Val
}

func (h *innerHeap[K, I, V]) Less(i, j int) bool {
	return h.before(h.items[i], h.items[j])
}

func (h *innerHeap[K, I, V]) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].Index = i
	h.items[j].Index = j
}

// Push adds an *Entry to the heap. It panics if the id is already tracked.
func (h *innerHeap[K, I, V]) Push(x any) {
	entry := x.(*Entry[K, I, V])
	if _, ok := h.lookup[entry.ID]; ok {
		panic(fmt.Errorf("attempting to insert duplicate item: %v", entry.ID))
	}
	entry.Index = len(h.items)
	h.items = append(h.items, entry)
	h.lookup[entry.ID] = entry
}

func (h *innerHeap[K, I, V]) Pop() any {
	n := len(h.items)
	item := h.items[n-1]
	h.items[n-1] = nil // avoid memory leak
	h.items = h.items[0 : n-1]
	delete(h.lookup, item.ID)
	return item
}
