// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ffdb

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Operation labels of the future metrics.
const (
	opGet      = "get"
	opGetRange = "get_range"
	opCommit   = "commit"
)

// Metrics holds the collectors of a Store. Stores registered with the same
// prometheus.Registerer share collectors.
type Metrics struct {
	// FutureWait is the time spent blocked on engine futures, by operation.
	FutureWait *prometheus.HistogramVec
	// Errors counts engine errors, by kind.
	Errors *prometheus.CounterVec
	// RowsFetched counts rows returned by range reads.
	RowsFetched prometheus.Counter
	// Commits counts successful commits.
	Commits prometheus.Counter
	// IteratorFetches counts the windows fetched by iterators.
	IteratorFetches prometheus.Counter
	// Retries counts transactions run again by Store.Transact.
	Retries prometheus.Counter
}

func newMetrics() *Metrics {
	return &Metrics{
		FutureWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ffdb",
			Name:      "future_wait_seconds",
			Help:      "Time spent waiting for engine futures.",
			Buckets:   prometheus.ExponentialBuckets(10e-6, 4, 10),
		}, []string{"op"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ffdb",
			Name:      "errors_total",
			Help:      "Engine errors by kind.",
		}, []string{"kind"}),
		RowsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ffdb",
			Name:      "rows_fetched_total",
			Help:      "Rows returned by range reads.",
		}),
		Commits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ffdb",
			Name:      "commits_total",
			Help:      "Successful commits.",
		}),
		IteratorFetches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ffdb",
			Name:      "iterator_fetches_total",
			Help:      "Range windows fetched by iterators.",
		}),
		Retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ffdb",
			Name:      "transaction_retries_total",
			Help:      "Transactions reset and run again after a retryable error.",
		}),
	}
}

// register registers m with r. Collectors already registered by another
// Store replace the corresponding fields of m.
func (m *Metrics) register(r prometheus.Registerer) error {
	var err error
	m.FutureWait, err = registerOrExisting(r, m.FutureWait, err)
	m.Errors, err = registerOrExisting(r, m.Errors, err)
	m.RowsFetched, err = registerOrExisting(r, m.RowsFetched, err)
	m.Commits, err = registerOrExisting(r, m.Commits, err)
	m.IteratorFetches, err = registerOrExisting(r, m.IteratorFetches, err)
	m.Retries, err = registerOrExisting(r, m.Retries, err)
	return err
}

func registerOrExisting[C prometheus.Collector](r prometheus.Registerer, c C, err error) (C, error) {
	if err != nil {
		return c, err
	}
	if err := r.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, errors.Wrap(err, "ffdb: registering metrics")
	}
	return c, nil
}

// observeWait records one completed wait.
func (m *Metrics) observeWait(op string, d time.Duration, err error) {
	m.FutureWait.WithLabelValues(op).Observe(d.Seconds())
	switch {
	case err == nil:
	case IsRetryable(err):
		m.Errors.WithLabelValues(KindRetryable.String()).Inc()
	default:
		m.Errors.WithLabelValues(KindFatal.String()).Inc()
	}
}
