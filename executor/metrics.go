// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/hyperxcm/xcm"
)

type metrics struct {
	complete          prometheus.Counter
	incomplete        prometheus.Counter
	failed            prometheus.Counter
	recursionLimit    prometheus.Counter
	dispatchFailures  prometheus.Counter
	trappedAssets     prometheus.Counter
	weightUsed        prometheus.Counter
	sent              prometheus.Counter
	executionDuration metric.Averager
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	executionDuration, err := metric.NewAverager(
		"executor_execution",
		"time spent executing root programs",
		r,
	)
	if err != nil {
		return nil, err
	}
	m := &metrics{
		complete: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "executor",
			Name:      "complete",
			Help:      "number of root programs that completed",
		}),
		incomplete: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "executor",
			Name:      "incomplete",
			Help:      "number of root programs that stopped part way",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "executor",
			Name:      "failed",
			Help:      "number of root programs rejected before running",
		}),
		recursionLimit: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "executor",
			Name:      "recursion_limit",
			Help:      "number of nested programs refused at the recursion limit",
		}),
		dispatchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "executor",
			Name:      "dispatch_failures",
			Help:      "number of transact calls that failed in dispatch",
		}),
		trappedAssets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "executor",
			Name:      "trapped_assets",
			Help:      "number of assets left in holding at the end of a frame",
		}),
		weightUsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "executor",
			Name:      "weight_used",
			Help:      "weight consumed by root programs",
		}),
		sent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "executor",
			Name:      "sent",
			Help:      "number of programs forwarded to the router",
		}),
		executionDuration: executionDuration,
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.complete),
		r.Register(m.incomplete),
		r.Register(m.failed),
		r.Register(m.recursionLimit),
		r.Register(m.dispatchFailures),
		r.Register(m.trappedAssets),
		r.Register(m.weightUsed),
		r.Register(m.sent),
	)
	return m, errs.Err
}

func (m *metrics) observe(out xcm.Outcome, d time.Duration) {
	switch out.Kind {
	case xcm.OutcomeComplete:
		m.complete.Inc()
	case xcm.OutcomeIncomplete:
		m.incomplete.Inc()
	default:
		m.failed.Inc()
	}
	m.weightUsed.Add(float64(out.WeightUsed()))
	m.executionDuration.Observe(float64(d))
}
