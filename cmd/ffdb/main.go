// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// The ffdb command reads, writes and benchmarks a key/value store through
// the ffdb client.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:               "ffdb [command] (flags)",
	Short:             "ffdb key/value and benchmarking tool",
	Long:              ``,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func main() {
	log.SetFlags(0)

	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(
		getCmd,
		setCmd,
		clearCmd,
		clearRangeCmd,
		rangeCmd,
		scanCmd,
		counterCmd,
		benchCmd,
	)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(
		&configFile, "config", "", "config file (yaml, json or toml)")
	flags.String(
		"engine", "native", `engine to use: "native" (libfdb_c) or "memory" (in-process)`)
	flags.String(
		"cluster-file", "", "cluster file of the database")
	flags.String(
		"lib", "", "path to libfdb_c (default: resolved by the dynamic loader)")
	flags.String(
		"data-dir", "ffdb-data", "directory of the in-process engine's databases")
	flags.Int(
		"api-version", 0, "engine API version to select (0 for the default)")
	flags.String(
		"log-level", "info", "log level: debug, info, warn or error")

	rangeCmd.Flags().IntVar(
		&rangeConfig.limit, "limit", 0, "maximum number of rows (0 means unlimited)")
	rangeCmd.Flags().BoolVarP(
		&rangeConfig.reverse, "reverse", "r", false, "return rows in descending order")
	rangeCmd.Flags().BoolVar(
		&rangeConfig.lowerExclusive, "lower-exclusive", false, "leave the from key out of the range")
	rangeCmd.Flags().BoolVar(
		&rangeConfig.upperInclusive, "upper-inclusive", false, "bring the to key into the range")

	scanCmd.Flags().StringVar(
		&scanConfig.lower, "lower", "", "inclusive lower bound")
	scanCmd.Flags().StringVar(
		&scanConfig.upper, "upper", "", "exclusive upper bound (default: end of the key space)")
	scanCmd.Flags().IntVar(
		&scanConfig.limit, "limit", 0, "maximum number of rows (0 means unlimited)")
	scanCmd.Flags().BoolVar(
		&scanConfig.last, "last", false, "scan backward from the upper bound")
	scanCmd.Flags().StringVar(
		&scanConfig.seek, "seek", "", "scan the keys having this prefix")
	scanCmd.Flags().StringVar(
		&scanConfig.seekForPrev, "seek-for-prev", "", "scan backward from the greatest key before this one")

	benchCmd.Flags().IntVarP(
		&benchConfig.concurrency, "concurrency", "c", 1, "number of concurrent workers")
	benchCmd.Flags().DurationVarP(
		&benchConfig.duration, "duration", "d", benchConfig.duration, "the duration to run (0, run forever)")
	benchCmd.Flags().Float64Var(
		&benchConfig.maxOpsPerSec, "max-ops-per-sec", 0, "maximum operations per second (0 means unlimited)")
	benchCmd.Flags().IntVar(
		&benchConfig.keys, "keys", benchConfig.keys, "number of distinct keys")
	benchCmd.Flags().IntVar(
		&benchConfig.valueSize, "value", benchConfig.valueSize, "size of written values")
	benchCmd.Flags().IntVar(
		&benchConfig.readPercent, "read-percent", benchConfig.readPercent,
		"percent (0-100) of operations that are point reads")
	benchCmd.Flags().IntVar(
		&benchConfig.scanPercent, "scan-percent", benchConfig.scanPercent,
		"percent (0-100) of operations that are range reads")
	benchCmd.Flags().IntVar(
		&benchConfig.scanRows, "scan-rows", benchConfig.scanRows, "number of rows read by each range read")
	benchCmd.Flags().Int64Var(
		&benchConfig.seed, "seed", 1, "random seed")

	if err := rootCmd.Execute(); err != nil {
		// Cobra has already printed the error message.
		os.Exit(1)
	}
}
