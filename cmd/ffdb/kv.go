// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/freefdb/ffdb"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "print the value of a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseKey(args[0])
		if err != nil {
			return err
		}
		return withStore(func(s *ffdb.Store) error {
			txn, err := s.NewTransaction()
			if err != nil {
				return err
			}
			defer txn.Close()
			kv, ok, err := txn.Get(key)
			switch {
			case err != nil:
				return err
			case !ok:
				fmt.Printf("%s: not found\n", formatKey(key))
			default:
				printKV(kv)
			}
			return nil
		})
	},
}

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "set a key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseKey(args[0])
		if err != nil {
			return err
		}
		value, err := parseKey(args[1])
		if err != nil {
			return err
		}
		return transact(func(txn *ffdb.Transaction) error {
			txn.Put(key, value)
			return nil
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear <key>",
	Short: "delete a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseKey(args[0])
		if err != nil {
			return err
		}
		return transact(func(txn *ffdb.Transaction) error {
			txn.Delete(key)
			return nil
		})
	},
}

var clearRangeCmd = &cobra.Command{
	Use:   "clear-range <begin> <end>",
	Short: "delete the keys in [begin, end)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		begin, err := parseKey(args[0])
		if err != nil {
			return err
		}
		end, err := parseKey(args[1])
		if err != nil {
			return err
		}
		return transact(func(txn *ffdb.Transaction) error {
			txn.DeleteRange(begin, end)
			return nil
		})
	},
}

var rangeConfig struct {
	limit          int
	reverse        bool
	lowerExclusive bool
	upperInclusive bool
}

var rangeCmd = &cobra.Command{
	Use:   "range <from> <to>",
	Short: "read the keys between from and to in one request",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseKey(args[0])
		if err != nil {
			return err
		}
		to, err := parseKey(args[1])
		if err != nil {
			return err
		}
		return withStore(func(s *ffdb.Store) error {
			txn, err := s.NewTransaction()
			if err != nil {
				return err
			}
			defer txn.Close()
			res, err := txn.GetRange(from, to, &ffdb.RangeOptions{
				Limit:          rangeConfig.limit,
				Reverse:        rangeConfig.reverse,
				LowerExclusive: rangeConfig.lowerExclusive,
				UpperInclusive: rangeConfig.upperInclusive,
			})
			if err != nil {
				return err
			}
			tbl := tablewriter.NewWriter(os.Stdout)
			tbl.SetHeader([]string{"Key", "Value"})
			for _, kv := range res.Values {
				tbl.Append([]string{formatKey(kv.Key), formatKey(kv.Value)})
			}
			tbl.Render()
			if res.Truncated {
				fmt.Printf("(%d rows, truncated)\n", len(res.Values))
			} else {
				fmt.Printf("(%d rows)\n", len(res.Values))
			}
			return nil
		})
	},
}

var scanConfig struct {
	lower       string
	upper       string
	limit       int
	last        bool
	seek        string
	seekForPrev string
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "iterate over a key range",
	Long: `
Iterates forward from --lower, or backward from --upper with --last.
--seek iterates forward over the keys having the given prefix, and
--seek-for-prev backward from the greatest key before the given key; both
ignore the bounds.
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := &ffdb.IteratorOptions{Limit: scanConfig.limit}
		var err error
		if opts.LowerBound, err = parseKey(scanConfig.lower); err != nil {
			return err
		}
		if scanConfig.upper != "" {
			if opts.UpperBound, err = parseKey(scanConfig.upper); err != nil {
				return err
			}
		}
		var seek func(iter *ffdb.Iterator) bool
		switch {
		case cmd.Flags().Changed("seek"):
			key, err := parseKey(scanConfig.seek)
			if err != nil {
				return err
			}
			seek = func(iter *ffdb.Iterator) bool { return iter.Seek(key) }
		case cmd.Flags().Changed("seek-for-prev"):
			key, err := parseKey(scanConfig.seekForPrev)
			if err != nil {
				return err
			}
			seek = func(iter *ffdb.Iterator) bool { return iter.SeekForPrev(key) }
		case scanConfig.last:
			seek = (*ffdb.Iterator).SeekLast
		default:
			seek = (*ffdb.Iterator).SeekFirst
		}
		return withStore(func(s *ffdb.Store) error {
			iter, err := s.NewIterator(opts)
			if err != nil {
				return err
			}
			var n int
			for ok := seek(iter); ok; ok = iter.Next() {
				printKV(iter.Current())
				n++
			}
			fmt.Printf("(%d rows)\n", n)
			return iter.Close()
		})
	},
}

func transact(fn func(txn *ffdb.Transaction) error) error {
	return withStore(func(s *ffdb.Store) error {
		return s.Transact(fn)
	})
}
