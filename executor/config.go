// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/hyperxcm/consts"
)

var ErrMissingDependency = errors.New("missing dependency")

// Config binds the capabilities an [Executor] consults. [O] is the host
// dispatch origin and [C] the host call type.
//
// ResponseHandler, Exchanger, AssetTrap and CallDispatcher are optional:
// when unset the instructions that need them are unhandled (and holding
// remainders are dropped).
type Config[O, C any] struct {
	AssetTransactor  AssetTransactor
	Router           Router
	OriginConverter  OriginConverter[O]
	IsReserve        AssetLocationFilter
	IsTeleporter     AssetLocationFilter
	LocationInverter LocationInverter
	Barrier          Barrier
	Weigher          Weigher
	Trader           TraderFactory
	ResponseHandler  ResponseHandler
	Exchanger        Exchanger
	AssetTrap        AssetTrap
	CallDispatcher   CallDispatcher[O, C]

	// MaxRecursionLimit is the deepest nested program one root may enter.
	MaxRecursionLimit int

	// RefundUnderpaidFees returns fees the trader rejected to holding.
	// When false they are forfeited.
	RefundUnderpaidFees bool
}

func (c *Config[O, C]) verify() error {
	switch {
	case c.AssetTransactor == nil:
		return fmt.Errorf("%w: asset transactor", ErrMissingDependency)
	case c.Router == nil:
		return fmt.Errorf("%w: router", ErrMissingDependency)
	case c.LocationInverter == nil:
		return fmt.Errorf("%w: location inverter", ErrMissingDependency)
	case c.Barrier == nil:
		return fmt.Errorf("%w: barrier", ErrMissingDependency)
	case c.Weigher == nil:
		return fmt.Errorf("%w: weigher", ErrMissingDependency)
	case c.Trader == nil:
		return fmt.Errorf("%w: trader", ErrMissingDependency)
	}
	if c.MaxRecursionLimit <= 0 {
		c.MaxRecursionLimit = consts.MaxRecursionLimit
	}
	return nil
}

type Options struct {
	Log        logging.Logger
	Tracer     trace.Tracer
	Registerer prometheus.Registerer
}

type Option func(*Options)

func WithLogger(log logging.Logger) Option {
	return func(opts *Options) {
		opts.Log = log
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(opts *Options) {
		opts.Tracer = tracer
	}
}

// WithRegisterer registers the executor metrics with [r].
func WithRegisterer(r prometheus.Registerer) Option {
	return func(opts *Options) {
		opts.Registerer = r
	}
}
