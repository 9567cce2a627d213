// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package policy

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperxcm/asset"
	"github.com/ava-labs/hyperxcm/consts"
	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/xcm"
)

var (
	relay = location.Parent()
	para  = location.MustNew(1, location.Parachain(1000))
	alice = location.Account([32]byte{1})
	dot   = asset.Concrete(location.Parent())
)

func paidProgram(debt uint64, effects ...xcm.Order) xcm.Program {
	return &xcm.WithdrawAsset{
		Assets: asset.NewAssets(asset.NewFungible(dot, 100)),
		Effects: append([]xcm.Order{
			&xcm.BuyExecution{Fees: asset.NewFungible(dot, 10), Debt: debt},
		}, effects...),
	}
}

func TestLocations(t *testing.T) {
	require := require.New(t)

	s := NewLocationSet(relay)
	require.True(s.Contains(relay))
	require.False(s.Contains(para))
	s.Add(para)
	require.True(s.Contains(para))
	require.Equal(2, s.Len())

	p := Prefixes{relay}
	require.True(p.Contains(relay))
	require.True(p.Contains(para))
	require.False(p.Contains(alice))

	require.True(Everything{}.Contains(alice))
}

func TestTakeWeightCredit(t *testing.T) {
	require := require.New(t)

	credit := uint64(10)
	require.NoError(TakeWeightCredit{}.ShouldExecute(relay, true, &xcm.TransferAsset{}, 4, &credit))
	require.Equal(uint64(6), credit)

	err := TakeWeightCredit{}.ShouldExecute(relay, true, &xcm.TransferAsset{}, 7, &credit)
	require.ErrorIs(err, ErrInsufficientCredit)
	require.Equal(uint64(6), credit)
}

func TestAllowTopLevelPaidExecution(t *testing.T) {
	var credit uint64
	barrier := &AllowTopLevelPaidExecutionFrom{Origins: NewLocationSet(relay)}

	tests := []struct {
		name     string
		origin   location.Location
		topLevel bool
		program  xcm.Program
		err      error
	}{
		{
			name:     "paid",
			origin:   relay,
			topLevel: true,
			program:  paidProgram(20),
		},
		{
			name:     "untrusted origin",
			origin:   para,
			topLevel: true,
			program:  paidProgram(20),
			err:      ErrUntrustedOrigin,
		},
		{
			name:    "nested",
			origin:  relay,
			program: paidProgram(20),
			err:     ErrNotTopLevel,
		},
		{
			name:     "debt below weight",
			origin:   relay,
			topLevel: true,
			program:  paidProgram(5),
			err:      ErrNotPaid,
		},
		{
			name:     "no purchase first",
			origin:   relay,
			topLevel: true,
			program: &xcm.ReserveAssetDeposited{
				Effects: []xcm.Order{&xcm.Noop{}, &xcm.BuyExecution{Debt: 100}},
			},
			err: ErrNotPaid,
		},
		{
			name:     "cannot pay",
			origin:   relay,
			topLevel: true,
			program:  &xcm.TransferAsset{},
			err:      ErrNotPaid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := barrier.ShouldExecute(tt.origin, tt.topLevel, tt.program, 10, &credit)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestBarriersAnyOf(t *testing.T) {
	require := require.New(t)

	tracker := NewQueryTracker()
	id := tracker.NewQuery(para)
	barrier := Barriers{
		&AllowUnpaidExecutionFrom{Origins: NewLocationSet(relay)},
		&AllowKnownQueryResponses{Expecter: tracker},
	}

	var credit uint64
	require.NoError(barrier.ShouldExecute(relay, true, &xcm.TransferAsset{}, 1, &credit))
	require.NoError(barrier.ShouldExecute(para, true, &xcm.QueryResponse{QueryID: id}, 1, &credit))

	err := barrier.ShouldExecute(para, true, &xcm.QueryResponse{QueryID: id + 1}, 1, &credit)
	require.ErrorIs(err, ErrNoBarrierPassed)
	require.ErrorIs(err, ErrUntrustedOrigin)
	require.ErrorIs(err, ErrUnexpectedQuery)

	require.ErrorIs(Barriers{}.ShouldExecute(relay, true, &xcm.TransferAsset{}, 1, &credit), ErrNoBarrierPassed)
}

func TestFixedWeightBounds(t *testing.T) {
	require := require.New(t)

	w := &FixedWeightBounds{UnitWeight: 10}
	inner := &xcm.TransferAsset{}
	program := &xcm.WithdrawAsset{
		Effects: []xcm.Order{
			&xcm.BuyExecution{Instructions: []xcm.Program{inner, paidProgram(0, &xcm.Noop{})}},
			&xcm.Noop{},
		},
	}

	shallow, err := w.Shallow(program)
	require.NoError(err)
	require.Equal(uint64(30), shallow)

	// transfer (10) + withdraw with two effects (30)
	deep, err := w.Deep(program)
	require.NoError(err)
	require.Equal(uint64(40), deep)

	relayed := &xcm.RelayedFrom{Message: program}
	shallow, err = w.Shallow(relayed)
	require.NoError(err)
	require.Equal(uint64(40), shallow)
	deep, err = w.Deep(relayed)
	require.NoError(err)
	require.Equal(uint64(40), deep)

	transact := &xcm.Transact{RequireWeightAtMost: 500}
	shallow, err = w.Shallow(transact)
	require.NoError(err)
	require.Equal(uint64(510), shallow)

	w.CallWeight = func(xcm.DoubleEncoded) (uint64, error) { return 7, nil }
	shallow, err = w.Shallow(transact)
	require.NoError(err)
	require.Equal(uint64(17), shallow)

	w.MaxInstructions = 2
	_, err = w.Shallow(program)
	require.ErrorIs(err, ErrTooManyInstructions)

	overflow := &FixedWeightBounds{UnitWeight: consts.MaxUint64}
	_, err = overflow.Shallow(program)
	require.Error(err)
}

type revenue struct {
	taken []asset.Asset
}

func (r *revenue) TakeRevenue(_ context.Context, a asset.Asset) {
	r.taken = append(r.taken, a)
}

func TestFixedRateTrader(t *testing.T) {
	require := require.New(t)

	sink := &revenue{}
	f := &FixedRateTrader{ID: dot, UnitsPerSecond: *uint256.NewInt(1_000), Sink: sink}
	trader := f.NewTrader()
	ctx := context.Background()

	// 1s of weight costs 1_000
	payment := asset.NewHolding(asset.NewFungible(dot, 1_500))
	_, err := trader.BuyWeight(ctx, 2*consts.WeightPerSecond, payment)
	require.ErrorIs(err, xcm.ErrUnderpaid)
	require.Equal(uint64(1_500), payment.Balance(dot).Uint64())

	unspent, err := trader.BuyWeight(ctx, consts.WeightPerSecond, payment)
	require.NoError(err)
	require.Equal(uint64(500), unspent.Balance(dot).Uint64())
	require.Equal(uint64(1_500), payment.Balance(dot).Uint64())
	require.Equal(consts.WeightPerSecond, trader.Weight())

	refund, ok := trader.RefundWeight(consts.WeightPerSecond / 4)
	require.True(ok)
	require.Equal(uint64(250), refund.Amount.Uint64())

	// refunds never exceed what was bought
	refund, ok = trader.RefundWeight(2 * consts.WeightPerSecond)
	require.True(ok)
	require.Equal(uint64(750), refund.Amount.Uint64())
	_, ok = trader.RefundWeight(1)
	require.False(ok)

	_, err = trader.BuyWeight(ctx, consts.WeightPerSecond/10, unspent)
	require.NoError(err)
	trader.Close(ctx)
	require.Len(sink.taken, 1)
	require.Equal(uint64(100), sink.taken[0].Amount.Uint64())

	// closing twice pays nothing more
	trader.Close(ctx)
	require.Len(sink.taken, 1)

	// wrong asset
	_, err = f.NewTrader().BuyWeight(ctx, consts.WeightPerSecond, asset.NewHolding(
		asset.NewFungible(asset.Abstract([]byte("usd")), 10_000),
	))
	require.ErrorIs(err, xcm.ErrUnderpaid)
}

func TestFixedRateTraderBounds(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	// a price above the largest amount is never met, even by the largest payment
	f := &FixedRateTrader{ID: dot, UnitsPerSecond: *asset.MaxAmount}
	payment := asset.NewHolding(asset.NewFungibleAmount(dot, asset.MaxAmount))
	_, err := f.NewTrader().BuyWeight(ctx, 2*consts.WeightPerSecond, payment)
	require.ErrorIs(err, xcm.ErrUnderpaid)

	unspent, err := f.NewTrader().BuyWeight(ctx, consts.WeightPerSecond, payment)
	require.NoError(err)
	require.Zero(unspent.Len())

	// bought weight saturates
	free := (&FixedRateTrader{ID: dot}).NewTrader()
	_, err = free.BuyWeight(ctx, consts.MaxUint64, asset.NewHolding())
	require.NoError(err)
	_, err = free.BuyWeight(ctx, consts.MaxUint64, asset.NewHolding())
	require.NoError(err)
	require.Equal(consts.MaxUint64, free.Weight())
}

func TestAssetFilters(t *testing.T) {
	require := require.New(t)

	native := asset.NewFungible(asset.Concrete(para), 1)
	require.True(NativeAsset{}.Contains(native, para))
	require.False(NativeAsset{}.Contains(native, relay))

	c := Case{Assets: asset.AllOf(dot, true), Origin: para}
	require.True(c.Contains(asset.NewFungible(dot, 5), para))
	require.False(c.Contains(asset.NewFungible(dot, 5), relay))

	fs := AssetFilters{NativeAsset{}, c}
	require.True(fs.Contains(asset.NewFungible(dot, 5), para))
	require.True(fs.Contains(asset.NewFungible(dot, 5), relay))
	require.False(fs.Contains(native, relay))
}

func TestLocationOrigin(t *testing.T) {
	require := require.New(t)

	c := &LocationOrigin{Superusers: NewLocationSet(relay)}
	o, err := c.ConvertOrigin(para, xcm.OriginSovereignAccount)
	require.NoError(err)
	require.Equal(para, o)

	_, err = c.ConvertOrigin(para, xcm.OriginNative)
	require.ErrorIs(err, ErrUnsupportedOriginKind)
	o, err = c.ConvertOrigin(location.Here(), xcm.OriginNative)
	require.NoError(err)
	require.True(o.IsHere())

	_, err = c.ConvertOrigin(para, xcm.OriginSuperuser)
	require.ErrorIs(err, ErrUnsupportedOriginKind)
	_, err = c.ConvertOrigin(relay, xcm.OriginSuperuser)
	require.NoError(err)
}

func TestOutbox(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	o, err := NewOutbox(Prefixes{para}, 2, 0)
	require.NoError(err)

	program := &xcm.TransferAsset{Beneficiary: alice}
	require.ErrorIs(o.Send(ctx, relay, program), ErrCannotReachDestination)
	for i := 0; i < 3; i++ {
		require.NoError(o.Send(ctx, para, program))
	}
	require.Equal(2, o.Len())
	require.Equal(uint64(1), o.Dropped())

	envelopes := o.Take(1)
	require.Len(envelopes, 1)
	require.Equal(para, envelopes[0].Dest)
	decoded, err := xcm.UnmarshalVersioned(envelopes[0].Message)
	require.NoError(err)
	expected, err := xcm.ProgramBytes(program)
	require.NoError(err)
	got, err := xcm.ProgramBytes(decoded)
	require.NoError(err)
	require.Equal(expected, got)
	require.Len(o.Pending(), 1)

	small, err := NewOutbox(Everything{}, 1, 4)
	require.NoError(err)
	require.ErrorIs(small.Send(ctx, para, program), ErrExceedsMaxMessageSize)

	_, err = NewOutbox(Everything{}, 0, 0)
	require.Error(err)
}

func TestRouters(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	o, err := NewOutbox(Prefixes{para}, 4, 0)
	require.NoError(err)
	r := Routers{DoNothingRouter{}, o}
	require.NoError(r.Send(ctx, para, &xcm.TransferAsset{}))
	require.Equal(1, o.Len())
	require.ErrorIs(r.Send(ctx, relay, &xcm.TransferAsset{}), ErrCannotReachDestination)
}

func TestQueryTracker(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	q := NewQueryTracker()
	id := q.NewQuery(para)
	require.NotEqual(id, q.NewQuery(relay))
	require.True(q.ExpectingResponse(para, id))
	require.False(q.ExpectingResponse(relay, id))

	_, ok := q.Response(id)
	require.False(ok)

	response := xcm.Response{Assets: asset.NewAssets(asset.NewFungible(dot, 3))}
	require.ErrorIs(q.OnResponse(ctx, relay, id, response), ErrUnexpectedResponse)
	require.NoError(q.OnResponse(ctx, para, id, response))
	require.ErrorIs(q.OnResponse(ctx, para, id, response), ErrUnexpectedResponse)
	require.False(q.ExpectingResponse(para, id))

	got, ok := q.Response(id)
	require.True(ok)
	require.Equal(response, got)
	require.Equal(1, q.Pending())
}
