// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace       = "ledger_db"
	metricsInterval = 10 * time.Second
)

type metrics struct {
	stallStart time.Time
	writeStall metric.Averager
	getLatency metric.Averager

	batches     prometheus.Counter
	batchSize   metric.Averager
	compactions *prometheus.CounterVec
	compacting  prometheus.Gauge

	diskUsage  prometheus.Gauge
	readAmp    prometheus.Gauge
	tombstones prometheus.Gauge
}

func newMetrics() (*prometheus.Registry, *metrics, error) {
	r := prometheus.NewRegistry()
	m := &metrics{
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches",
			Help:      "number of change sets committed",
		}),
		compactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compactions",
			Help:      "number of compactions by input level",
		}, []string{"level"}),
		compacting: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_compactions",
			Help:      "number of running compactions",
		}),
		diskUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "disk_usage",
			Help:      "bytes on disk used by the store",
		}),
		readAmp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "read_amplification",
			Help:      "number of sstables a point read may consult",
		}),
		tombstones: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tombstones",
			Help:      "approximate count of internal tombstones",
		}),
	}

	var err error
	if m.writeStall, err = metric.NewAverager(namespace+"_write_stall", "time spent stalled on writes (ns)", r); err != nil {
		return nil, nil, err
	}
	if m.getLatency, err = metric.NewAverager(namespace+"_read_latency", "time spent serving a read (ns)", r); err != nil {
		return nil, nil, err
	}
	if m.batchSize, err = metric.NewAverager(namespace+"_batch_size", "changes per committed change set", r); err != nil {
		return nil, nil, err
	}

	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.batches),
		r.Register(m.compactions),
		r.Register(m.compacting),
		r.Register(m.diskUsage),
		r.Register(m.readAmp),
		r.Register(m.tombstones),
	)
	return r, m, errs.Err
}

func (db *Database) onCompactionBegin(info pebble.CompactionInfo) {
	db.metrics.compacting.Inc()
	level := "l1+"
	if len(info.Input) > 0 && info.Input[0].Level == 0 {
		level = "l0"
	}
	db.metrics.compactions.WithLabelValues(level).Inc()
}

func (db *Database) onCompactionEnd(pebble.CompactionInfo) {
	db.metrics.compacting.Dec()
}

func (db *Database) onWriteStallBegin(pebble.WriteStallBeginInfo) {
	db.metrics.stallStart = time.Now()
}

func (db *Database) onWriteStallEnd() {
	db.metrics.writeStall.Observe(float64(time.Since(db.metrics.stallStart)))
}

func (db *Database) collectMetrics() {
	t := time.NewTicker(metricsInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			m := db.db.Metrics()
			db.metrics.diskUsage.Set(float64(m.DiskSpaceUsage()))
			db.metrics.readAmp.Set(float64(m.ReadAmp()))
			db.metrics.tombstones.Set(float64(m.Keys.TombstoneCount))
		case <-db.closing:
			return
		}
	}
}
