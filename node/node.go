// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/hyperxcm/asset"
	"github.com/ava-labs/hyperxcm/config"
	"github.com/ava-labs/hyperxcm/exchange"
	"github.com/ava-labs/hyperxcm/executor"
	"github.com/ava-labs/hyperxcm/ledger"
	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/pebble"
	"github.com/ava-labs/hyperxcm/policy"
	"github.com/ava-labs/hyperxcm/state"
	"github.com/ava-labs/hyperxcm/xcm"
)

var (
	_ executor.AssetTransactor     = (*ledger.Ledger)(nil)
	_ executor.AssetTrap           = (*ledger.Ledger)(nil)
	_ policy.RevenueSink           = (*ledger.Ledger)(nil)
	_ exchange.Escrow              = (*ledger.Ledger)(nil)
	_ executor.Exchanger           = (*exchange.Book)(nil)
	_ executor.Router              = (*policy.Outbox)(nil)
	_ executor.ResponseHandler     = (*policy.QueryTracker)(nil)
	_ executor.Barrier             = policy.Barriers(nil)
	_ executor.Weigher             = (*policy.FixedWeightBounds)(nil)
	_ executor.Trader              = (*policy.RateTrader)(nil)
	_ executor.AssetLocationFilter = policy.AssetFilters(nil)
	_ executor.LocationInverter    = (*location.Inverter)(nil)

	_ executor.OriginConverter[location.Location] = (*policy.LocationOrigin)(nil)
)

// Executor is the executor specialized to the node's calls.
type Executor = executor.Executor[location.Location, Call]

// Node binds a ledger, an exchange book, an outbox and a query tracker to
// an [Executor] configured by [config.Config].
type Node struct {
	config   *config.Config
	log      logging.Logger
	tracer   trace.Tracer
	registry *prometheus.Registry
	gatherer prometheus.Gatherers

	db      state.Database
	closeDB func() error

	ledger     *ledger.Ledger
	book       *exchange.Book
	outbox     *policy.Outbox
	queries    *policy.QueryTracker
	dispatcher *Dispatcher
	executor   *Executor
}

func New(ctx context.Context, cfg *config.Config, log logging.Logger, tracer trace.Tracer) (*Node, error) {
	if log == nil {
		log = logging.NoLog{}
	}
	if tracer == nil {
		tracer = trace.Noop
	}
	n := &Node{
		config:   cfg,
		log:      log,
		tracer:   tracer,
		registry: prometheus.NewRegistry(),
		queries:  policy.NewQueryTracker(),
	}
	n.gatherer = prometheus.Gatherers{n.registry}

	if len(cfg.DatabasePath) > 0 {
		db, registry, err := pebble.New(cfg.DatabasePath, pebble.NewDefaultConfig())
		if err != nil {
			return nil, err
		}
		n.db = db
		n.closeDB = db.Close
		n.gatherer = append(n.gatherer, registry)
	} else {
		n.db = state.NewMemoryDatabase()
		n.closeDB = func() error { return nil }
	}

	n.ledger = ledger.New(n.db, ledger.Config{
		HRP:             cfg.HRP,
		CheckingAccount: cfg.GetCheckingAccount(),
		RevenueAccount:  cfg.GetRevenueAccount(),
		Log:             log,
	})
	if err := n.initialize(ctx); err != nil {
		_ = n.closeDB()
		return nil, err
	}
	n.book = exchange.New(n.ledger, cfg.MaxOffersPerPair, log)
	n.dispatcher = NewDispatcher(n.ledger, n.book, cfg.UnitWeight, log)

	outbox, err := policy.NewOutbox(policy.Prefixes(cfg.GetReachable()), cfg.OutboxSize, cfg.MaxMessageSize)
	if err != nil {
		_ = n.closeDB()
		return nil, err
	}
	n.outbox = outbox

	trader := &policy.FixedRateTrader{
		ID:             cfg.GetFeeAsset(),
		UnitsPerSecond: *cfg.GetUnitsPerSecond(),
		Sink:           n.ledger,
	}
	reserves := trustFilters(cfg.TrustNativeAssets, cfg.GetReserves())
	teleporters := trustFilters(false, cfg.GetTeleporters())
	xcfg := &executor.Config[location.Location, Call]{
		AssetTransactor: n.ledger,
		Router:          n.outbox,
		OriginConverter: &policy.LocationOrigin{
			Superusers: policy.NewLocationSet(cfg.GetSuperusers()...),
		},
		IsReserve:        reserves,
		IsTeleporter:     teleporters,
		LocationInverter: location.NewInverter(cfg.GetAncestry()),
		Barrier: policy.Barriers{
			policy.TakeWeightCredit{},
			&policy.AllowTopLevelPaidExecutionFrom{Origins: policy.Prefixes(cfg.GetPaidOrigins())},
			&policy.AllowUnpaidExecutionFrom{Origins: policy.Prefixes(cfg.GetUnpaidOrigins())},
			&policy.AllowKnownQueryResponses{Expecter: n.queries},
		},
		Weigher: &policy.FixedWeightBounds{
			UnitWeight:      cfg.UnitWeight,
			MaxInstructions: cfg.MaxInstructions,
			CallWeight:      n.dispatcher.CallWeight,
		},
		Trader: executor.TraderFunc(func() executor.Trader {
			return trader.NewTrader()
		}),
		ResponseHandler:     n.queries,
		Exchanger:           n.book,
		AssetTrap:           n.ledger,
		CallDispatcher:      n.dispatcher,
		MaxRecursionLimit:   cfg.MaxRecursionLimit,
		RefundUnderpaidFees: cfg.RefundUnderpaidFees,
	}
	n.executor, err = executor.New(
		xcfg,
		executor.WithLogger(log),
		executor.WithTracer(tracer),
		executor.WithRegisterer(n.registry),
	)
	if err != nil {
		_ = n.closeDB()
		return nil, err
	}
	log.Info("node initialized",
		zap.Stringer("ancestry", cfg.GetAncestry()),
		zap.Bool("persistent", len(cfg.DatabasePath) > 0),
		zap.Uint64("weightLimit", cfg.WeightLimit),
	)
	return n, nil
}

func trustFilters(native bool, cases []config.Case) policy.AssetFilters {
	filters := policy.AssetFilters{}
	if native {
		filters = append(filters, policy.NativeAsset{})
	}
	for _, c := range cases {
		filters = append(filters,
			policy.Case{Assets: asset.AllOf(c.Asset, true), Origin: c.Origin},
			policy.Case{Assets: asset.AllOf(c.Asset, false), Origin: c.Origin},
		)
	}
	return filters
}

// initialize applies the genesis file once per database.
func (n *Node) initialize(ctx context.Context) error {
	if len(n.config.GenesisPath) == 0 {
		return nil
	}
	initialized, err := n.ledger.Initialized(ctx)
	if err != nil {
		return err
	}
	if initialized {
		n.log.Info("genesis already applied")
		return nil
	}
	b, err := os.ReadFile(n.config.GenesisPath)
	if err != nil {
		return fmt.Errorf("unable to read genesis: %w", err)
	}
	g, err := ledger.LoadGenesis(b)
	if err != nil {
		return fmt.Errorf("unable to parse genesis: %w", err)
	}
	if err := g.InitializeState(ctx, n.tracer, n.ledger); err != nil {
		return err
	}
	n.log.Info("genesis applied", zap.Int("allocations", len(g.Allocations)))
	return nil
}

// Execute decodes and runs a versioned message from [origin].
func (n *Node) Execute(ctx context.Context, origin location.Location, msg []byte) xcm.Outcome {
	return n.executor.ExecuteBytes(ctx, origin, msg, n.config.WeightLimit)
}

// ExecuteProgram runs [program] from [origin].
func (n *Node) ExecuteProgram(ctx context.Context, origin location.Location, program xcm.Program) xcm.Outcome {
	return n.executor.Execute(ctx, origin, program, n.config.WeightLimit)
}

// ExecuteBatch runs independent messages, in parallel where they do not
// conflict.
func (n *Node) ExecuteBatch(ctx context.Context, msgs []executor.Message) ([]xcm.Outcome, error) {
	return n.executor.ExecuteBatch(ctx, msgs, n.config.WeightLimit)
}

func (n *Node) Config() *config.Config            { return n.config }
func (n *Node) Logger() logging.Logger            { return n.log }
func (n *Node) Tracer() trace.Tracer              { return n.tracer }
func (n *Node) Gatherer() prometheus.Gatherer     { return n.gatherer }
func (n *Node) Ledger() *ledger.Ledger            { return n.ledger }
func (n *Node) Book() *exchange.Book              { return n.book }
func (n *Node) Outbox() *policy.Outbox            { return n.outbox }
func (n *Node) Queries() *policy.QueryTracker     { return n.queries }
func (n *Node) Dispatcher() *Dispatcher           { return n.dispatcher }
func (n *Node) Executor() *Executor               { return n.executor }
func (n *Node) Registerer() prometheus.Registerer { return n.registry }

func (n *Node) Close() error {
	return errors.Join(n.closeDB(), n.tracer.Close())
}
