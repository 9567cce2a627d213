// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/math"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ava-labs/hyperxcm/consts"
	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/xcm"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// Executor interprets inbound programs against the host through the
// capabilities of its [Config]. An Executor holds no per-message state and
// is safe for concurrent use as long as its capabilities are.
type Executor[O, C any] struct {
	config  *Config[O, C]
	log     logging.Logger
	tracer  trace.Tracer
	metrics *metrics
}

func New[O, C any](config *Config[O, C], options ...Option) (*Executor[O, C], error) {
	if err := config.verify(); err != nil {
		return nil, err
	}
	opts := &Options{}
	for _, o := range options {
		o(opts)
	}
	if opts.Log == nil {
		opts.Log = logging.NoLog{}
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.Noop
	}
	if opts.Registerer == nil {
		opts.Registerer = prometheus.NewRegistry()
	}
	m, err := newMetrics(opts.Registerer)
	if err != nil {
		return nil, err
	}
	return &Executor[O, C]{
		config:  config,
		log:     opts.Log,
		tracer:  opts.Tracer,
		metrics: m,
	}, nil
}

// Execute runs [program] from [origin] with no weight credit.
func (e *Executor[O, C]) Execute(
	ctx context.Context,
	origin location.Location,
	program xcm.Program,
	weightLimit uint64,
) xcm.Outcome {
	return e.ExecuteInCredit(ctx, origin, program, weightLimit, 0)
}

// ExecuteBytes decodes a versioned program and runs it. Decode failures are
// reported as an [xcm.OutcomeError] without side effects.
func (e *Executor[O, C]) ExecuteBytes(
	ctx context.Context,
	origin location.Location,
	raw []byte,
	weightLimit uint64,
) xcm.Outcome {
	program, err := xcm.UnmarshalVersioned(raw)
	if err != nil {
		out := xcm.Error(err)
		e.metrics.observe(out, 0)
		return out
	}
	return e.Execute(ctx, origin, program, weightLimit)
}

// ExecuteInCredit runs [program] from [origin]. The full estimated weight of
// [program] must fit in [weightLimit]; [weightCredit] is weight already
// paid for that barriers may consume.
//
// Nothing runs when the weight estimate fails, exceeds [weightLimit] or the
// barrier rejects the program: the outcome is then [xcm.OutcomeError].
// Once interpretation starts, a failure yields [xcm.OutcomeIncomplete] and
// effects already committed are kept.
func (e *Executor[O, C]) ExecuteInCredit(
	ctx context.Context,
	origin location.Location,
	program xcm.Program,
	weightLimit uint64,
	weightCredit uint64,
) (out xcm.Outcome) {
	ctx, span := e.tracer.Start(ctx, "Executor.Execute", oteltrace.WithAttributes(
		attribute.String("origin", origin.String()),
		attribute.Int("program", int(program.GetTypeID())),
		attribute.Int64("weightLimit", int64(weightLimit)),
	))
	start := time.Now()
	defer func() {
		span.SetAttributes(
			attribute.String("outcome", out.Kind.String()),
			attribute.Int64("weight", int64(out.WeightUsed())),
		)
		span.End()
		e.metrics.observe(out, time.Since(start))
		if out.Err != nil {
			e.log.Debug("program did not complete",
				zap.Stringer("origin", origin),
				zap.Stringer("outcome", out.Kind),
				zap.Uint64("weight", out.Weight),
				zap.Error(out.Err),
			)
		}
	}()

	shallow, err := e.config.Weigher.Shallow(program)
	if err != nil {
		return xcm.Error(fmt.Errorf("%w: %w", xcm.ErrWeightNotComputable, err))
	}
	deep, err := e.config.Weigher.Deep(program)
	if err != nil {
		return xcm.Error(fmt.Errorf("%w: %w", xcm.ErrWeightNotComputable, err))
	}
	maxWeight := saturatingAdd(shallow, deep)
	if maxWeight > weightLimit {
		return xcm.Error(fmt.Errorf("%w: %d > %d", xcm.ErrWeightLimitReached, maxWeight, weightLimit))
	}
	if err := e.config.Barrier.ShouldExecute(origin, true, program, shallow, &weightCredit); err != nil {
		return xcm.Error(fmt.Errorf("%w: %w", xcm.ErrBarrier, err))
	}

	x := &execution[O, C]{
		Executor: e,
		trader:   e.config.Trader.NewTrader(),
	}
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("unexpected panic during execution",
				zap.Stringer("origin", origin),
				zap.Any("panic", r),
			)
			out = xcm.Incomplete(maxWeight, fmt.Errorf("%w: %v", xcm.ErrUnexpected, r))
		}
	}()
	surplus, err := x.interpret(ctx, origin, true, program, &weightCredit)
	x.trader.Close(ctx)
	span.SetAttributes(attribute.Int("depth", x.peak))

	used := saturatingSub(maxWeight, surplus)
	if err != nil {
		return xcm.Incomplete(used, err)
	}
	return xcm.Complete(used)
}

func saturatingAdd(a, b uint64) uint64 {
	c, err := math.Add64(a, b)
	if err != nil {
		return consts.MaxUint64
	}
	return c
}

func saturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
