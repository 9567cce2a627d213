// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/hyperxcm/exchange"
	"github.com/ava-labs/hyperxcm/executor"
	"github.com/ava-labs/hyperxcm/ledger"
	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/xcm"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

var _ executor.CallDispatcher[location.Location, Call] = (*Dispatcher)(nil)

// Dispatcher runs [Call]s against the ledger and the exchange book. The
// dispatch origin is the converted message origin.
type Dispatcher struct {
	ledger     *ledger.Ledger
	book       *exchange.Book
	unitWeight uint64
	log        logging.Logger
}

func NewDispatcher(l *ledger.Ledger, book *exchange.Book, unitWeight uint64, log logging.Logger) *Dispatcher {
	return &Dispatcher{
		ledger:     l,
		book:       book,
		unitWeight: unitWeight,
		log:        log,
	}
}

func (*Dispatcher) Decode(call xcm.DoubleEncoded) (Call, error) {
	return DecodeCall(call)
}

func (d *Dispatcher) Weight(call Call) uint64 {
	w, err := smath.Mul64(call.Units(), d.unitWeight)
	if err != nil {
		return ^uint64(0)
	}
	return w
}

// CallWeight estimates encoded calls for the weigher.
func (d *Dispatcher) CallWeight(call xcm.DoubleEncoded) (uint64, error) {
	c, err := DecodeCall(call)
	if err != nil {
		return 0, err
	}
	return d.Weight(c), nil
}

// Dispatch reports the estimated weight as used whether or not [call]
// succeeds.
func (d *Dispatcher) Dispatch(ctx context.Context, origin location.Location, call Call) (uint64, error) {
	weight := d.Weight(call)
	switch c := call.(type) {
	case *Remark:
		d.log.Info("remark",
			zap.Stringer("origin", origin),
			zap.Int("size", len(c.Data)),
		)
		return weight, nil
	case *Transfer:
		return weight, d.ledger.Transfer(ctx, c.What, origin, c.To)
	case *ClaimAssets:
		return weight, d.ledger.Claim(ctx, origin, c.Assets, c.Beneficiary)
	case *AddOffer:
		id, err := d.book.Add(ctx, origin, c.In, c.InTick, c.Out, c.OutTick, c.Supply)
		if err != nil {
			return weight, err
		}
		d.log.Info("offer added",
			zap.Stringer("origin", origin),
			zap.Stringer("id", id),
		)
		return weight, nil
	case *CancelOffer:
		return weight, d.book.Cancel(ctx, c.ID, origin)
	default:
		return weight, fmt.Errorf("%w: call %d", xcm.ErrUnimplemented, call.GetTypeID())
	}
}
