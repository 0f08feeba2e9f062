// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ffdb

import (
	"testing"

	"github.com/cockroachdb/crlib/testutils/leaktest"
	"github.com/freefdb/ffdb/engine/memengine"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func histogramCount(t *testing.T, h *prometheus.HistogramVec, op string) uint64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, h.WithLabelValues(op).(prometheus.Histogram).Write(m))
	return m.GetHistogram().GetSampleCount()
}

func TestMetrics(t *testing.T) {
	defer leaktest.AfterTest(t)()

	reg := prometheus.NewPedanticRegistry()
	s, closeStore := openTestStore(t, &memengine.Options{MaxBatchRows: 3}, &Options{MetricsRegisterer: reg})
	defer closeStore()
	loadAlphabet(t, s)

	txn, err := s.NewTransaction()
	require.NoError(t, err)
	defer txn.Close()
	_, _, err = txn.Get([]byte("A_key_1"))
	require.NoError(t, err)
	_, _, err = txn.Get([]byte("\xff"))
	require.True(t, IsFatal(err))

	iter := txn.NewIterator(nil)
	n := 0
	for valid := iter.SeekFirst(); valid; valid = iter.Next() {
		n++
	}
	require.NoError(t, iter.Close())
	require.Equal(t, 10, n)

	m := s.Metrics()
	require.Equal(t, 1.0, counterValue(t, m.Commits))
	require.Equal(t, 10.0, counterValue(t, m.RowsFetched))
	// 3 + 3 + 3 + 1 rows.
	require.Equal(t, 4.0, counterValue(t, m.IteratorFetches))
	require.Equal(t, uint64(2), histogramCount(t, m.FutureWait, opGet))
	require.Equal(t, uint64(4), histogramCount(t, m.FutureWait, opGetRange))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Errors.WithLabelValues("fatal")))
	// Three future_wait series, one per op, plus one series per other
	// collector.
	n, err = testutil.GatherAndCount(reg)
	require.NoError(t, err)
	require.Equal(t, 8, n)

	// A second store on the same registry shares the collectors.
	s2, closeStore2 := openTestStore(t, nil, &Options{MetricsRegisterer: reg})
	defer closeStore2()
	require.Same(t, m.Commits, s2.Metrics().Commits)
}
