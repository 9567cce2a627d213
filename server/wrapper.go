// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/prometheus/client_golang/prometheus"
)

type Wrapper interface {
	// WrapHandler wraps an http.Handler.
	WrapHandler(h http.Handler) http.Handler
}

var _ Wrapper = (*metricsWrapper)(nil)

type metricsWrapper struct {
	requests *prometheus.CounterVec
	latency  metric.Averager
}

// NewMetricsWrapper counts requests by path and status and tracks their
// average latency.
func NewMetricsWrapper(reg prometheus.Registerer) (Wrapper, error) {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "api",
		Name:      "requests",
		Help:      "number of http requests served",
	}, []string{"path", "code"})
	latency, err := metric.NewAverager(
		"api_request_latency",
		"time spent serving a request (ns)",
		reg,
	)
	if err != nil {
		return nil, err
	}
	if err := reg.Register(requests); err != nil {
		return nil, err
	}
	return &metricsWrapper{requests: requests, latency: latency}, nil
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.code = code
	s.ResponseWriter.WriteHeader(code)
}

func (m *metricsWrapper) WrapHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h.ServeHTTP(rec, r)
		m.latency.Observe(float64(time.Since(start)))
		m.requests.WithLabelValues(r.URL.Path, strconv.Itoa(rec.code)).Inc()
	})
}
