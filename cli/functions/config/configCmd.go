/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package configCmd

import (
	"fmt"
	"io"
	"net/url"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/CardScan/CardScan/cli/global"
	"github.com/CardScan/CardScan/cli/util"
)

// Keys that can be changed with "config set", and the set holding each.
// Theme and language have their own commands.
var settable = map[string]string{
	global.ConfigServerURL: global.ConfigSettingsSet,
	global.ConfigTimeout:   global.ConfigSettingsSet,
	global.ConfigLogFile:   global.ConfigSettingsSet,
	global.ConfigDebug:     global.ConfigSettingsSet,
	global.ConfigDataDir:   global.ConfigPrivateSet,
}

func Register() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "configuration commands",
		Long:  "show or set CLI configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("a subcommand is required")
			}
			return fmt.Errorf("unknown subcommand: %s", args[0])
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "show the CLI configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := global.Config(global.ConfigDir)
			if err != nil {
				return err
			}
			show(cmd.OutOrStdout(), conf)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set key1=value1 [key2=value2] ...",
		Short: "set CLI configuration",
		Long:  "set CLI configuration. Keys: server_url, timeout, log_file, debug, data_dir",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := util.NewNVPairs(args)
			if err != nil {
				return err
			}
			conf, err := global.Config(global.ConfigDir)
			if err != nil {
				return err
			}
			if err = set(conf, pairs); err != nil {
				return err
			}
			if err = conf.Save(); err != nil {
				return err
			}
			show(cmd.OutOrStdout(), conf)
			return nil
		},
	})

	return cmd
}

// set validates every pair before changing anything
func set(conf *global.CLIConfig, pairs *util.NVPairs) error {
	for key, value := range pairs.Pairs {
		if _, ok := settable[key]; !ok {
			return fmt.Errorf("unknown configuration key %q", key)
		}
		if err := validate(key, value); err != nil {
			return err
		}
	}

	for key, value := range pairs.Pairs {
		if settable[key] == global.ConfigPrivateSet {
			conf.Private.Set(key, value)
		} else {
			conf.Settings.Set(key, value)
		}
	}
	return nil
}

func validate(key, value string) error {
	if value == "" {
		return nil // restores the default
	}
	switch key {
	case global.ConfigServerURL:
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("server_url must be an http or https URL")
		}
	case global.ConfigTimeout:
		if i, err := strconv.Atoi(value); err != nil || i < 1 || i > 300 {
			return fmt.Errorf("timeout must be between 1 and 300 seconds")
		}
	case global.ConfigDebug:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("debug must be true or false")
		}
	}
	return nil
}

func show(w io.Writer, conf *global.CLIConfig) {
	_, _ = fmt.Fprintf(w, "File: %s\n", conf.C.File())
	for _, set := range []string{global.ConfigSettingsSet, global.ConfigPrivateSet} {
		values := conf.C.GetSet(set).GetMap()
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		_, _ = fmt.Fprintf(w, "[%s]\n", set)
		for _, k := range keys {
			_, _ = fmt.Fprintf(w, "  %s = %s\n", k, values[k])
		}
	}
}
