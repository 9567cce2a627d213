// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package asset

import (
	"fmt"

	"github.com/holiman/uint256"
	"golang.org/x/exp/maps"

	"github.com/ava-labs/hyperxcm/location"
)

// Holding is the transient register of assets under the control of one
// execution frame. It is not safe for concurrent use and is never shared
// between root executions.
//
// All arithmetic saturates at [MaxAmount]; no operation panics.
type Holding struct {
	fungible    map[string]Asset
	nonFungible map[string]Asset
}

// NewHolding returns a register seeded with [as].
func NewHolding(as ...Asset) *Holding {
	h := &Holding{
		fungible:    map[string]Asset{},
		nonFungible: map[string]Asset{},
	}
	for _, a := range as {
		h.Subsume(a)
	}
	return h
}

// Subsume merges [a] into the register. Fungible amounts are summed
// (saturating) and instances are set-inserted.
func (h *Holding) Subsume(a Asset) {
	if a.IsZero() {
		return
	}
	k := a.Key()
	if !a.Fungible {
		h.nonFungible[k] = a
		return
	}
	held, ok := h.fungible[k]
	if !ok {
		h.fungible[k] = NewFungibleAmount(a.ID, &a.Amount)
		return
	}
	saturatingAdd(&held.Amount, &held.Amount, &a.Amount)
	h.fungible[k] = held
}

// SubsumeAssets merges every asset of [as]. It never fails.
func (h *Holding) SubsumeAssets(as Assets) {
	for _, a := range as {
		h.Subsume(a)
	}
}

// SubsumeHolding merges the contents of [o] into [h]. [o] is unchanged.
func (h *Holding) SubsumeHolding(o *Holding) {
	if o == nil {
		return
	}
	for _, a := range o.fungible {
		h.Subsume(a)
	}
	for _, a := range o.nonFungible {
		h.Subsume(a)
	}
}

// Len is the number of distinct assets held.
func (h *Holding) Len() int {
	return len(h.fungible) + len(h.nonFungible)
}

func (h *Holding) IsEmpty() bool {
	return h.Len() == 0
}

// Assets returns the contents in canonical order.
func (h *Holding) Assets() Assets {
	all := maps.Values(h.fungible)
	all = append(all, maps.Values(h.nonFungible)...)
	return NewAssets(all...)
}

// Clone returns an independent copy of [h].
func (h *Holding) Clone() *Holding {
	return &Holding{
		fungible:    maps.Clone(h.fungible),
		nonFungible: maps.Clone(h.nonFungible),
	}
}

// Balance returns the fungible amount held of [id].
func (h *Holding) Balance(id ID) *uint256.Int {
	held, ok := h.fungible[id.Key()]
	if !ok {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(&held.Amount)
}

// Contains reports whether every asset of [as] is held in full.
func (h *Holding) Contains(as Assets) bool {
	for _, a := range as {
		if !h.contains(a) {
			return false
		}
	}
	return true
}

func (h *Holding) contains(a Asset) bool {
	if a.IsZero() {
		return true
	}
	if !a.Fungible {
		_, ok := h.nonFungible[a.Key()]
		return ok
	}
	held, ok := h.fungible[a.Key()]
	return ok && !held.Amount.Lt(&a.Amount)
}

// Withdraw removes the assets selected by [f]. A definite filter either
// succeeds in full or fails with [ErrNotWithdrawable] leaving [h]
// untouched. A wild filter removes every matching asset.
func (h *Holding) Withdraw(f Filter) (*Holding, error) {
	if f.IsWild() {
		return h.takeMatching(f.Wild, -1), nil
	}
	requested := NewAssets(f.Definite...)
	for _, a := range requested {
		if !h.contains(a) {
			return nil, fmt.Errorf("%w: %s", ErrNotWithdrawable, a)
		}
	}
	out := NewHolding()
	for _, a := range requested {
		h.remove(a)
		out.Subsume(a)
	}
	return out, nil
}

// SaturatingTake removes up to [limit] distinct assets selected by [f],
// taking as much of each as is held. A negative [limit] takes without
// bound. It never fails.
func (h *Holding) SaturatingTake(f Filter, limit int) *Holding {
	if f.IsWild() {
		return h.takeMatching(f.Wild, limit)
	}
	out := NewHolding()
	for i, a := range f.Definite {
		if limit >= 0 && i >= limit {
			break
		}
		taken, ok := h.available(a)
		if !ok {
			continue
		}
		h.remove(taken)
		out.Subsume(taken)
	}
	return out
}

// Min returns, without mutating [h], the most of [f] that [h] could
// satisfy.
func (h *Holding) Min(f Filter) Assets {
	if f.IsWild() {
		out := make([]Asset, 0, h.Len())
		for _, a := range h.Assets() {
			if f.Wild.Matches(a) {
				out = append(out, a)
			}
		}
		return out
	}
	out := make([]Asset, 0, len(f.Definite))
	for _, a := range f.Definite {
		if available, ok := h.available(a); ok {
			out = append(out, available)
		}
	}
	return NewAssets(out...)
}

// CheckedSub removes exactly [a] or fails with [ErrNotWithdrawable]
// leaving [h] untouched.
func (h *Holding) CheckedSub(a Asset) error {
	if !h.contains(a) {
		return fmt.Errorf("%w: %s", ErrNotWithdrawable, a)
	}
	h.remove(a)
	return nil
}

// available returns the part of [a] that is held.
func (h *Holding) available(a Asset) (Asset, bool) {
	if !a.Fungible {
		held, ok := h.nonFungible[a.Key()]
		return held, ok
	}
	held, ok := h.fungible[a.Key()]
	if !ok || a.Amount.IsZero() {
		return Asset{}, false
	}
	if held.Amount.Lt(&a.Amount) {
		return held, true
	}
	return a, true
}

// remove assumes [h] contains [a].
func (h *Holding) remove(a Asset) {
	k := a.Key()
	if !a.Fungible {
		delete(h.nonFungible, k)
		return
	}
	held := h.fungible[k]
	held.Amount.Sub(&held.Amount, &a.Amount)
	if held.Amount.IsZero() {
		delete(h.fungible, k)
		return
	}
	h.fungible[k] = held
}

// takeMatching removes up to [limit] matching assets in canonical order.
// A negative [limit] removes all matches.
func (h *Holding) takeMatching(w Wild, limit int) *Holding {
	out := NewHolding()
	for _, a := range h.Assets() {
		if limit >= 0 && out.Len() >= limit {
			break
		}
		if !w.Matches(a) {
			continue
		}
		h.remove(a)
		out.Subsume(a)
	}
	return out
}

// PrependLocation re-anchors every held asset id to [prefix]. Either all
// assets are re-anchored or [h] is left unchanged.
func (h *Holding) PrependLocation(prefix location.Location) error {
	out := NewHolding()
	for _, a := range h.Assets() {
		r, err := a.Reanchored(prefix)
		if err != nil {
			return err
		}
		out.Subsume(r)
	}
	h.fungible, h.nonFungible = out.fungible, out.nonFungible
	return nil
}

func (h *Holding) String() string {
	return h.Assets().String()
}
