// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package heap

import (
	"cmp"
	"container/heap"
	"slices"
)

// Heap[K,I,V] tracks objects of [I], identified by [K], by [Val].
//
// This data structure does not perform any synchronization and is not
// safe to use concurrently without external locking.
type Heap[K comparable, I any, V cmp.Ordered] struct {
	ih *innerHeap[K, I, V]
}

// New returns an instance of Heap[K,I,V]
func New[K comparable, I any, V cmp.Ordered](items int, isMinHeap bool) *Heap[K, I, V] {
	return &Heap[K, I, V]{newInnerHeap[K, I, V](items, isMinHeap)}
}

// Len returns the number of items in the heap.
func (h *Heap[K, I, V]) Len() int { return h.ih.Len() }

// Get returns the entry associated with [id], and a bool if [id] was found.
func (h *Heap[K, I, V]) Get(id K) (*Entry[K, I, V], bool) {
	e, ok := h.ih.lookup[id]
	return e, ok
}

func (h *Heap[K, I, V]) Has(id K) bool {
	_, ok := h.ih.lookup[id]
	return ok
}

// Items returns all items in heap order. You should not modify the
// response.
func (h *Heap[K, I, V]) Items() []*Entry[K, I, V] {
	return h.ih.items
}

// Sorted returns a copy of the items from first to last.
func (h *Heap[K, I, V]) Sorted() []*Entry[K, I, V] {
	items := slices.Clone(h.ih.items)
	slices.SortStableFunc(items, func(a, b *Entry[K, I, V]) int {
		c := cmp.Compare(a.Val, b.Val)
		if !h.ih.isMinHeap {
			c = -c
		}
		if c == 0 {
			return cmp.Compare(a.Seq, b.Seq)
		}
		return c
	})
	return items
}

// Push adds [e] to the heap. [e.ID] must not already be present.
func (h *Heap[K, I, V]) Push(e *Entry[K, I, V]) {
	heap.Push(h.ih, e)
}

// Pop removes the first item in the heap.
func (h *Heap[K, I, V]) Pop() *Entry[K, I, V] {
	if len(h.ih.items) == 0 {
		return nil
	}
	return heap.Pop(h.ih).(*Entry[K, I, V])
}

// Remove removes the object at [index] from the heap.
func (h *Heap[K, I, V]) Remove(index int) *Entry[K, I, V] {
	if index >= len(h.ih.items) {
		return nil
	}
	return heap.Remove(h.ih, index).(*Entry[K, I, V])
}

// First returns the smallest item in a minHeap and the largest item in a
// maxHeap.
//
// If no items are in the heap, it will return nil.
func (h *Heap[K, I, V]) First() *Entry[K, I, V] {
	if len(h.ih.items) == 0 {
		return nil
	}
	return h.ih.items[0]
}

// Last returns the worst item by [Val]. It is O(n).
func (h *Heap[K, I, V]) Last() *Entry[K, I, V] {
	var last *Entry[K, I, V]
	for _, e := range h.ih.items {
		if last == nil || h.ih.before(last, e) {
			last = e
		}
	}
	return last
}
