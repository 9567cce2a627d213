// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package policy

import (
	"errors"
	"fmt"

	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/xcm"
)

// Barrier matches executor.Barrier.
type Barrier interface {
	ShouldExecute(
		origin location.Location,
		topLevel bool,
		program xcm.Program,
		shallowWeight uint64,
		weightCredit *uint64,
	) error
}

var (
	_ Barrier = TakeWeightCredit{}
	_ Barrier = (*AllowTopLevelPaidExecutionFrom)(nil)
	_ Barrier = (*AllowUnpaidExecutionFrom)(nil)
	_ Barrier = (*AllowKnownQueryResponses)(nil)
	_ Barrier = Barriers(nil)
)

// TakeWeightCredit admits any program whose shallow weight is covered by
// the credit, deducting it.
type TakeWeightCredit struct{}

func (TakeWeightCredit) ShouldExecute(
	_ location.Location,
	_ bool,
	_ xcm.Program,
	shallowWeight uint64,
	weightCredit *uint64,
) error {
	if *weightCredit < shallowWeight {
		return fmt.Errorf("%w: %d < %d", ErrInsufficientCredit, *weightCredit, shallowWeight)
	}
	*weightCredit -= shallowWeight
	return nil
}

// AllowTopLevelPaidExecutionFrom admits top-level programs from [Origins]
// that place assets in holding and start by buying enough execution to
// cover their own shallow weight.
type AllowTopLevelPaidExecutionFrom struct {
	Origins Locations
}

func (a *AllowTopLevelPaidExecutionFrom) ShouldExecute(
	origin location.Location,
	topLevel bool,
	program xcm.Program,
	shallowWeight uint64,
	_ *uint64,
) error {
	if !a.Origins.Contains(origin) {
		return fmt.Errorf("%w: %s", ErrUntrustedOrigin, origin)
	}
	if !topLevel {
		return ErrNotTopLevel
	}
	var effects []xcm.Order
	switch p := program.(type) {
	case *xcm.WithdrawAsset:
		effects = p.Effects
	case *xcm.ReserveAssetDeposited:
		effects = p.Effects
	case *xcm.ReceiveTeleportedAsset:
		effects = p.Effects
	default:
		return fmt.Errorf("%w: program %d cannot pay", ErrNotPaid, program.GetTypeID())
	}
	if len(effects) == 0 {
		return fmt.Errorf("%w: no effects", ErrNotPaid)
	}
	buy, ok := effects[0].(*xcm.BuyExecution)
	if !ok {
		return fmt.Errorf("%w: first effect is not a purchase", ErrNotPaid)
	}
	if buy.Debt < shallowWeight {
		return fmt.Errorf("%w: debt %d < %d", ErrNotPaid, buy.Debt, shallowWeight)
	}
	return nil
}

// AllowUnpaidExecutionFrom admits anything from [Origins].
type AllowUnpaidExecutionFrom struct {
	Origins Locations
}

func (a *AllowUnpaidExecutionFrom) ShouldExecute(
	origin location.Location,
	_ bool,
	_ xcm.Program,
	_ uint64,
	_ *uint64,
) error {
	if !a.Origins.Contains(origin) {
		return fmt.Errorf("%w: %s", ErrUntrustedOrigin, origin)
	}
	return nil
}

// ResponseExpecter reports whether a query response is awaited.
type ResponseExpecter interface {
	ExpectingResponse(origin location.Location, queryID uint64) bool
}

// AllowKnownQueryResponses admits query responses that [Expecter] awaits.
type AllowKnownQueryResponses struct {
	Expecter ResponseExpecter
}

func (a *AllowKnownQueryResponses) ShouldExecute(
	origin location.Location,
	_ bool,
	program xcm.Program,
	_ uint64,
	_ *uint64,
) error {
	q, ok := program.(*xcm.QueryResponse)
	if !ok || !a.Expecter.ExpectingResponse(origin, q.QueryID) {
		return ErrUnexpectedQuery
	}
	return nil
}

// Barriers admits a program if any member does. Members are consulted in
// order and the first to admit wins.
type Barriers []Barrier

func (b Barriers) ShouldExecute(
	origin location.Location,
	topLevel bool,
	program xcm.Program,
	shallowWeight uint64,
	weightCredit *uint64,
) error {
	if len(b) == 0 {
		return ErrNoBarrierPassed
	}
	errs := make([]error, 0, len(b))
	for _, barrier := range b {
		err := barrier.ShouldExecute(origin, topLevel, program, shallowWeight, weightCredit)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	return fmt.Errorf("%w: %w", ErrNoBarrierPassed, errors.Join(errs...))
}
