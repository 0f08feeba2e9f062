// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/crlib/crhumanize"
	"github.com/cockroachdb/crlib/crtime"
	"github.com/cockroachdb/errors"
	"github.com/freefdb/ffdb"
	"github.com/freefdb/ffdb/internal/base"
	"github.com/freefdb/ffdb/internal/rate"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var benchConfig = struct {
	concurrency  int
	duration     time.Duration
	maxOpsPerSec float64
	keys         int
	valueSize    int
	readPercent  int
	scanPercent  int
	scanRows     int
	seed         int64
}{
	duration:    10 * time.Second,
	keys:        10000,
	valueSize:   64,
	readPercent: 50,
	scanPercent: 10,
	scanRows:    10,
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "run a mixed point read, range read and write workload",
	Long: `
Runs --concurrency workers, each issuing operations against keys chosen
uniformly at random from --keys keys. --read-percent of the operations are
point reads, --scan-percent are range reads of --scan-rows rows and the rest
are single-key writes committed through a retry loop.
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if benchConfig.readPercent+benchConfig.scanPercent > 100 {
			return errors.New("--read-percent and --scan-percent add up to more than 100")
		}
		return withStore(runBench)
	},
}

type benchStats struct {
	bytesWritten atomic.Int64
	rowsRead     atomic.Int64
}

func benchKey(i int) []byte {
	return []byte(fmt.Sprintf("bench-%010d", i))
}

func runBench(s *ffdb.Store) error {
	bc := benchConfig
	fmt.Printf("concurrency %d\nkeys %s\n", bc.concurrency, crhumanize.Count(int64(bc.keys), crhumanize.Compact))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if bc.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, bc.duration)
		defer cancel()
	}

	reg := newHistogramRegistry()
	limiter := rate.NewLimiter(bc.maxOpsPerSec, max(1, bc.maxOpsPerSec/10))
	var stats benchStats
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < bc.concurrency; i++ {
		rng := rand.New(rand.NewSource(bc.seed + int64(i)))
		g.Go(func() error {
			return runBenchWorker(ctx, s, rng, limiter, reg, &stats)
		})
	}
	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	start := crtime.NowMono()
	// throughput holds the ops/sec of every tick, over all operations.
	var throughput []float64
	for i := 0; ; i++ {
		select {
		case <-ticker.C:
			var ops float64
			reg.tick(func(tick histogramTick) {
				ops += float64(tick.hist.TotalCount()) / tick.elapsed.Seconds()
				if i%20 == 0 && tick.name == "read" {
					fmt.Println("_elapsed____optype__ops/sec(inst)___ops/sec(cum)__p50(ms)__p95(ms)__p99(ms)_pMax(ms)")
				}
				elapsed := start.Elapsed()
				h := tick.hist
				fmt.Printf("%8s %9s %14.1f %14.1f %8.1f %8.1f %8.1f %8.1f\n",
					time.Duration(elapsed.Seconds()+0.5)*time.Second,
					tick.name,
					float64(h.TotalCount())/tick.elapsed.Seconds(),
					float64(tick.cumulative.TotalCount())/elapsed.Seconds(),
					time.Duration(h.ValueAtQuantile(50)).Seconds()*1000,
					time.Duration(h.ValueAtQuantile(95)).Seconds()*1000,
					time.Duration(h.ValueAtQuantile(99)).Seconds()*1000,
					time.Duration(h.ValueAtQuantile(100)).Seconds()*1000,
				)
			})
			throughput = append(throughput, ops)

		case err := <-done:
			elapsed := start.Elapsed()
			fmt.Println("\n_elapsed____optype_____ops(total)___ops/sec(cum)__avg(ms)__p50(ms)__p95(ms)__p99(ms)_pMax(ms)")
			reg.tick(func(tick histogramTick) {
				h := tick.cumulative
				fmt.Printf("%7.1fs %9s %14d %14.1f %8.1f %8.1f %8.1f %8.1f %8.1f\n",
					elapsed.Seconds(),
					tick.name,
					h.TotalCount(),
					float64(h.TotalCount())/elapsed.Seconds(),
					time.Duration(h.Mean()).Seconds()*1000,
					time.Duration(h.ValueAtQuantile(50)).Seconds()*1000,
					time.Duration(h.ValueAtQuantile(95)).Seconds()*1000,
					time.Duration(h.ValueAtQuantile(99)).Seconds()*1000,
					time.Duration(h.ValueAtQuantile(100)).Seconds()*1000,
				)
			})
			fmt.Printf("\nwritten %s, read %s rows\n",
				crhumanize.Bytes(stats.bytesWritten.Load(), crhumanize.Compact, crhumanize.OmitI),
				crhumanize.Count(stats.rowsRead.Load(), crhumanize.Compact))
			if len(throughput) > 1 {
				fmt.Printf("\n%s\n", asciigraph.Plot(throughput,
					asciigraph.Height(10), asciigraph.Caption("ops/sec")))
			}
			return err
		}
	}
}

func runBenchWorker(
	ctx context.Context,
	s *ffdb.Store,
	rng *rand.Rand,
	limiter *rate.Limiter,
	reg *histogramRegistry,
	stats *benchStats,
) error {
	bc := benchConfig
	reads, scans, writes := reg.get("read"), reg.get("scan"), reg.get("write")
	value := make([]byte, bc.valueSize)
	for {
		if err := limiter.Wait(ctx, 1); err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		key := benchKey(rng.Intn(bc.keys))
		start := crtime.NowMono()
		switch p := rng.Intn(100); {
		case p < bc.readPercent:
			err := readOnly(s, func(txn *ffdb.Transaction) error {
				_, ok, err := txn.Get(key)
				if ok {
					stats.rowsRead.Add(1)
				}
				return err
			})
			if err != nil {
				return err
			}
			reads.record(start.Elapsed())

		case p < bc.readPercent+bc.scanPercent:
			err := readOnly(s, func(txn *ffdb.Transaction) error {
				res, err := txn.GetRange(key, base.KeyspaceEnd, &ffdb.RangeOptions{Limit: bc.scanRows})
				stats.rowsRead.Add(int64(len(res.Values)))
				return err
			})
			if err != nil {
				return err
			}
			scans.record(start.Elapsed())

		default:
			rng.Read(value)
			if err := s.Transact(func(txn *ffdb.Transaction) error {
				txn.Put(key, value)
				return nil
			}); err != nil {
				return err
			}
			stats.bytesWritten.Add(int64(len(key) + len(value)))
			writes.record(start.Elapsed())
		}
	}
}

// readOnly runs fn in a transaction that is discarded afterwards.
func readOnly(s *ffdb.Store, fn func(txn *ffdb.Transaction) error) error {
	txn, err := s.NewTransaction()
	if err != nil {
		return err
	}
	defer txn.Close()
	return fn(txn)
}
