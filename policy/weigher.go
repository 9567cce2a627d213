// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package policy

import (
	"fmt"

	smath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/ava-labs/hyperxcm/xcm"
)

// CallWeigher returns the declared weight of an encoded call.
type CallWeigher func(call xcm.DoubleEncoded) (uint64, error)

// FixedWeightBounds charges [UnitWeight] per instruction and per order. A
// [xcm.Transact] additionally costs the weight of its call: as reported by
// [CallWeight] if set, otherwise as the sender declared it.
type FixedWeightBounds struct {
	UnitWeight uint64

	// MaxInstructions bounds the orders and nested programs counted in a
	// single estimate. Zero means no bound.
	MaxInstructions int

	CallWeight CallWeigher
}

func (f *FixedWeightBounds) Shallow(program xcm.Program) (uint64, error) {
	count := 0
	return f.shallow(program, &count)
}

func (f *FixedWeightBounds) Deep(program xcm.Program) (uint64, error) {
	count := 0
	return f.deep(program, &count)
}

func (f *FixedWeightBounds) tick(count *int) error {
	*count++
	if f.MaxInstructions > 0 && *count > f.MaxInstructions {
		return fmt.Errorf("%w: more than %d", ErrTooManyInstructions, f.MaxInstructions)
	}
	return nil
}

func (f *FixedWeightBounds) shallow(program xcm.Program, count *int) (uint64, error) {
	if err := f.tick(count); err != nil {
		return 0, err
	}
	switch p := program.(type) {
	case *xcm.RelayedFrom:
		inner, err := f.shallow(p.Message, count)
		if err != nil {
			return 0, err
		}
		return smath.Add64(f.UnitWeight, inner)

	case *xcm.Transact:
		call := p.RequireWeightAtMost
		if f.CallWeight != nil {
			w, err := f.CallWeight(p.Call)
			if err != nil {
				return 0, err
			}
			call = w
		}
		return smath.Add64(f.UnitWeight, call)
	}

	effects := effectsOf(program)
	for range effects {
		if err := f.tick(count); err != nil {
			return 0, err
		}
	}
	return smath.Mul64(f.UnitWeight, uint64(len(effects))+1)
}

func (f *FixedWeightBounds) deep(program xcm.Program, count *int) (uint64, error) {
	if p, ok := program.(*xcm.RelayedFrom); ok {
		return f.deep(p.Message, count)
	}
	var total uint64
	for _, order := range effectsOf(program) {
		buy, ok := order.(*xcm.BuyExecution)
		if !ok {
			continue
		}
		for _, inner := range buy.Instructions {
			s, err := f.shallow(inner, count)
			if err != nil {
				return 0, err
			}
			d, err := f.deep(inner, count)
			if err != nil {
				return 0, err
			}
			if total, err = smath.Add64(total, s); err != nil {
				return 0, err
			}
			if total, err = smath.Add64(total, d); err != nil {
				return 0, err
			}
		}
	}
	return total, nil
}

// effectsOf returns the orders [program] runs over its holding.
func effectsOf(program xcm.Program) []xcm.Order {
	switch p := program.(type) {
	case *xcm.WithdrawAsset:
		return p.Effects
	case *xcm.ReserveAssetDeposited:
		return p.Effects
	case *xcm.ReceiveTeleportedAsset:
		return p.Effects
	default:
		return nil
	}
}
