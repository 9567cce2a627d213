// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/holiman/uint256"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ava-labs/hyperxcm/asset"
	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/state"

	oteltrace "go.opentelemetry.io/otel/trace"
)

type Allocation struct {
	Account location.Location `json:"account"`
	Asset   asset.ID          `json:"asset"`
	Amount  string            `json:"amount"`
}

type Genesis struct {
	Allocations []*Allocation `json:"allocations"`
}

func NewGenesis(allocations []*Allocation) *Genesis {
	return &Genesis{Allocations: allocations}
}

func LoadGenesis(b []byte) (*Genesis, error) {
	g := &Genesis{}
	if err := json.Unmarshal(b, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Initialized reports whether a genesis was already applied to [l].
func (l *Ledger) Initialized(ctx context.Context) (bool, error) {
	_, err := l.db.GetValue(ctx, genesisKey)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return false, nil
	case err != nil:
		return false, err
	default:
		return true, nil
	}
}

// InitializeState credits every allocation to [l] and marks it
// initialized. Allocations of the same asset may not together exceed
// [asset.MaxAmount].
func (g *Genesis) InitializeState(ctx context.Context, tracer trace.Tracer, l *Ledger) error {
	ctx, span := tracer.Start(ctx, "Genesis.InitializeState", oteltrace.WithAttributes(
		attribute.Int("allocations", len(g.Allocations)),
	))
	defer span.End()

	supply := map[string]*uint256.Int{}
	for _, alloc := range g.Allocations {
		amount, err := uint256.FromDecimal(alloc.Amount)
		if err != nil {
			return fmt.Errorf("%w: %w: %s", ErrInvalidAllocation, err, alloc.Amount)
		}
		total, ok := supply[alloc.Asset.Key()]
		if !ok {
			total = new(uint256.Int)
			supply[alloc.Asset.Key()] = total
		}
		if _, overflow := total.AddOverflow(total, amount); overflow || total.Gt(asset.MaxAmount) {
			return fmt.Errorf("%w: supply of %s overflows", ErrInvalidAllocation, alloc.Asset)
		}
		if err := l.Deposit(ctx, asset.NewFungibleAmount(alloc.Asset, amount), alloc.Account); err != nil {
			return fmt.Errorf("%w: account=%s, asset=%s, amount=%s", err, alloc.Account, alloc.Asset, alloc.Amount)
		}
	}
	return l.update(ctx, func(mu state.Mutable) error {
		return mu.Insert(ctx, genesisKey, []byte{1})
	})
}
