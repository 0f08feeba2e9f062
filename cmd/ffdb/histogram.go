// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	minLatency = 10 * time.Microsecond
	maxLatency = 10 * time.Second
)

func newHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(minLatency.Nanoseconds(), maxLatency.Nanoseconds(), 1)
}

// opHistogram records the latencies of one kind of operation since the last
// tick.
type opHistogram struct {
	name string
	mu   struct {
		sync.Mutex
		current *hdrhistogram.Histogram
	}
}

func (h *opHistogram) record(elapsed time.Duration) {
	elapsed = max(minLatency, min(elapsed, maxLatency))
	h.mu.Lock()
	err := h.mu.current.RecordValue(elapsed.Nanoseconds())
	h.mu.Unlock()
	if err != nil {
		// Values are clamped to the histogram's range.
		panic(fmt.Sprintf(`%s: recording value: %s`, h.name, err))
	}
}

func (h *opHistogram) swap() *hdrhistogram.Histogram {
	h.mu.Lock()
	defer h.mu.Unlock()
	cur := h.mu.current
	h.mu.current = newHistogram()
	return cur
}

type histogramTick struct {
	name string
	// hist covers the operations since the previous tick.
	hist *hdrhistogram.Histogram
	// cumulative covers every operation since the registry was created.
	cumulative *hdrhistogram.Histogram
	elapsed    time.Duration
}

// histogramRegistry hands out per-operation histograms and merges them on
// every tick.
type histogramRegistry struct {
	mu struct {
		sync.Mutex
		byName map[string]*opHistogram
	}
	cumulative map[string]*hdrhistogram.Histogram
	prevTick   time.Time
}

func newHistogramRegistry() *histogramRegistry {
	r := &histogramRegistry{
		cumulative: make(map[string]*hdrhistogram.Histogram),
		prevTick:   time.Now(),
	}
	r.mu.byName = make(map[string]*opHistogram)
	return r
}

func (r *histogramRegistry) get(name string) *opHistogram {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.mu.byName[name]
	if !ok {
		h = &opHistogram{name: name}
		h.mu.current = newHistogram()
		r.mu.byName[name] = h
	}
	return h
}

// tick calls fn for each operation, in name order. tick must not be called
// concurrently.
func (r *histogramRegistry) tick(fn func(histogramTick)) {
	r.mu.Lock()
	names := make([]string, 0, len(r.mu.byName))
	for name := range r.mu.byName {
		names = append(names, name)
	}
	r.mu.Unlock()
	sort.Strings(names)

	now := time.Now()
	elapsed := now.Sub(r.prevTick)
	r.prevTick = now
	for _, name := range names {
		h := r.get(name).swap()
		c, ok := r.cumulative[name]
		if !ok {
			c = newHistogram()
			r.cumulative[name] = c
		}
		c.Merge(h)
		fn(histogramTick{name: name, hist: h, cumulative: c, elapsed: elapsed})
	}
}
