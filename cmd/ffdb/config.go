// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// config is the connection configuration shared by every command. Values
// come from, in decreasing precedence: flags, FFDB_* environment variables
// and the config file.
type config struct {
	Engine      string `mapstructure:"engine"`
	ClusterFile string `mapstructure:"cluster-file"`
	Lib         string `mapstructure:"lib"`
	DataDir     string `mapstructure:"data-dir"`
	APIVersion  int    `mapstructure:"api-version"`
	LogLevel    string `mapstructure:"log-level"`
}

var (
	configFile string
	cfg        config
)

func loadConfig(cmd *cobra.Command, _ []string) error {
	v := viper.New()
	v.SetEnvPrefix("ffdb")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading %s", configFile)
		}
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return errors.Wrap(err, "parsing config")
	}
	switch cfg.Engine {
	case engineNative, engineMem:
	default:
		return errors.Newf("unknown engine %q", cfg.Engine)
	}
	return nil
}
