// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"errors"

	"github.com/ava-labs/avalanchego/utils/buffer"
)

var (
	_ BoundedBuffer[bool] = (*boundedBuffer[bool])(nil)

	errInvalidMaxSize = errors.New("maxSize must be greater than 0")
)

type BoundedBuffer[T any] interface {
	// Insert adds a new value to the buffer. If the buffer is full, the
	// oldest value will be evicted and [onEvict] will be invoked.
	Insert(elt T)

	// Last retrieves the last item added to the buffer.
	//
	// If no items have been added to the buffer, Last returns the default value of
	// [T] and [false].
	Last() (T, bool)

	// Take removes and returns up to [n] of the oldest items.
	Take(n int) []T

	Len() int

	// Returns all the items in the buffer sorted from oldest to newest.
	Items() []T
}

// boundedBuffer keeps [maxSize] entries of type [T] in a buffer and calls
// [onEvict] on any item that is overwritten. This is used to hold outbound
// messages until a transport collects them.
//
// boundedBuffer is not thread-safe and requires the caller synchronize usage.
type boundedBuffer[T any] struct {
	innerBuffer buffer.Deque[T]
	maxSize     int
	onEvict     func(T)
}

func NewBoundedBuffer[T any](maxSize int, onEvict func(T)) (BoundedBuffer[T], error) {
	if maxSize < 1 {
		return nil, errInvalidMaxSize
	}
	if onEvict == nil {
		onEvict = func(T) {}
	}
	return &boundedBuffer[T]{
		innerBuffer: buffer.NewUnboundedDeque[T](maxSize + 1), // +1 so we never resize
		maxSize:     maxSize,
		onEvict:     onEvict,
	}, nil
}

func (b *boundedBuffer[T]) Insert(elt T) {
	if b.innerBuffer.Len() == b.maxSize {
		evicted, _ := b.innerBuffer.PopLeft()
		b.onEvict(evicted)
	}
	b.innerBuffer.PushRight(elt)
}

func (b *boundedBuffer[T]) Last() (T, bool) {
	return b.innerBuffer.PeekRight()
}

func (b *boundedBuffer[T]) Take(n int) []T {
	n = min(n, b.innerBuffer.Len())
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		elt, _ := b.innerBuffer.PopLeft()
		out = append(out, elt)
	}
	return out
}

func (b *boundedBuffer[T]) Len() int {
	return b.innerBuffer.Len()
}

func (b *boundedBuffer[T]) Items() []T {
	return b.innerBuffer.List()
}
