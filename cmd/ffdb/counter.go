// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"fmt"
	"strconv"

	"github.com/freefdb/ffdb"
	"github.com/spf13/cobra"
)

var counterCmd = &cobra.Command{
	Use:   "counter [command]",
	Short: "read and update 64-bit counters",
}

func init() {
	counterCmd.AddCommand(
		&cobra.Command{
			Use:   "get <key>",
			Short: "print a counter",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCounter(args, 0)
			},
		},
		&cobra.Command{
			Use:   "add <key> [delta]",
			Short: "add delta (default 1) to a counter",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCounter(args, 1)
			},
		},
		&cobra.Command{
			Use:   "sub <key> [delta]",
			Short: "subtract delta (default 1) from a counter",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCounter(args, -1)
			},
		},
	)
}

// runCounter adds sign*delta to the counter named by args[0] and prints its
// new value.
func runCounter(args []string, sign int64) error {
	key, err := parseKey(args[0])
	if err != nil {
		return err
	}
	delta := int64(1)
	if len(args) == 2 {
		if delta, err = strconv.ParseInt(args[1], 10, 64); err != nil {
			return err
		}
	}
	c := ffdb.NewCounter(key)
	var v int64
	if err := transact(func(txn *ffdb.Transaction) error {
		if sign != 0 {
			if err := c.Add(txn, sign*delta); err != nil {
				return err
			}
		}
		v, err = c.Value(txn)
		return err
	}); err != nil {
		return err
	}
	fmt.Printf("%s: %d\n", formatKey(key), v)
	return nil
}
