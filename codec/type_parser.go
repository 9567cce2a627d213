// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "fmt"

// TypeParser maps the one byte discriminant of a tagged union to the
// function that decodes the variant. [X] carries decoding context (for
// example the remaining nesting budget) into every decoder.
type TypeParser[T any, X any] struct {
	indexToDecoder map[uint8]func(*Packer, X) (T, error)
}

func NewTypeParser[T any, X any]() *TypeParser[T, X] {
	return &TypeParser[T, X]{
		indexToDecoder: map[uint8]func(*Packer, X) (T, error){},
	}
}

// Register binds [index] to [f]. Discriminants are part of the wire
// contract and can never be rebound.
func (p *TypeParser[T, X]) Register(index uint8, f func(*Packer, X) (T, error)) error {
	if _, ok := p.indexToDecoder[index]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateItem, index)
	}
	p.indexToDecoder[index] = f
	return nil
}

func (p *TypeParser[T, X]) LookupIndex(index uint8) (func(*Packer, X) (T, error), bool) {
	f, ok := p.indexToDecoder[index]
	return f, ok
}

// Unpack reads a discriminant from [pk] and decodes the variant it names.
func (p *TypeParser[T, X]) Unpack(pk *Packer, x X) (T, error) {
	var empty T
	index := pk.UnpackByte()
	if err := pk.Err(); err != nil {
		return empty, err
	}
	f, ok := p.indexToDecoder[index]
	if !ok {
		return empty, fmt.Errorf("%w: %d", ErrUnknownType, index)
	}
	return f(pk, x)
}
