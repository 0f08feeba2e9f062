// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/freefdb/ffdb"
	"github.com/freefdb/ffdb/engine/memengine"
	"github.com/rs/zerolog"
)

const (
	engineNative = "native"
	engineMem    = "memory"
)

// zerologLogger adapts a zerolog.Logger to ffdb.Logger.
type zerologLogger struct {
	l zerolog.Logger
}

var _ ffdb.Logger = zerologLogger{}

func newLogger(level string) (zerologLogger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerologLogger{}, err
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerologLogger{l: zerolog.New(w).Level(lvl).With().Timestamp().Logger()}, nil
}

func (z zerologLogger) Infof(format string, args ...interface{}) {
	z.l.Info().Msgf(format, args...)
}

func (z zerologLogger) Errorf(format string, args ...interface{}) {
	z.l.Error().Msgf(format, args...)
}

func (z zerologLogger) Fatalf(format string, args ...interface{}) {
	z.l.Fatal().Msgf(format, args...)
}

// openStore opens the configured store. The returned function closes it and
// shuts the engine down.
func openStore() (*ffdb.Store, func() error, error) {
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	opts := &ffdb.Options{
		LibraryPath: cfg.Lib,
		APIVersion:  cfg.APIVersion,
		Logger:      logger,
	}
	var mem *memengine.API
	if cfg.Engine == engineMem {
		mem = memengine.New(&memengine.Options{
			FS:     vfs.Default,
			Dir:    cfg.DataDir,
			Sync:   true,
			Logger: logger,
		})
		opts.Engine = mem
	}
	s, err := ffdb.Open(cfg.ClusterFile, opts)
	if err != nil {
		return nil, nil, err
	}
	return s, func() error {
		err := s.Close()
		err = errors.CombineErrors(err, s.Network().Stop())
		if mem != nil {
			err = errors.CombineErrors(err, mem.Close())
		}
		return err
	}, nil
}

// withStore runs fn against the configured store.
func withStore(fn func(s *ffdb.Store) error) error {
	s, closeStore, err := openStore()
	if err != nil {
		return err
	}
	return errors.CombineErrors(fn(s), closeStore())
}

// parseKey reads a key given on the command line. Go escapes such as \xff
// are interpreted.
func parseKey(arg string) ([]byte, error) {
	s, err := strconv.Unquote(`"` + arg + `"`)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed key %q", arg)
	}
	return []byte(s), nil
}

// formatKey prints a key the way parseKey reads it.
func formatKey(key []byte) string {
	q := strconv.Quote(string(key))
	return q[1 : len(q)-1]
}

func printKV(kv ffdb.KeyValue) {
	fmt.Printf("%s: %s\n", formatKey(kv.Key), formatKey(kv.Value))
}
