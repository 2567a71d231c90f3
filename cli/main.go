//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// See LICENSE file for details
//

package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/CardScan/CardScan/cli/display"
	"github.com/CardScan/CardScan/cli/functions/account"
	"github.com/CardScan/CardScan/cli/functions/auth"
	configCmd "github.com/CardScan/CardScan/cli/functions/config"
	contactsCmd "github.com/CardScan/CardScan/cli/functions/contacts"
	"github.com/CardScan/CardScan/cli/functions/password"
	"github.com/CardScan/CardScan/cli/functions/ping"
	"github.com/CardScan/CardScan/cli/functions/scan"
	settingsCmd "github.com/CardScan/CardScan/cli/functions/settings"
	"github.com/CardScan/CardScan/cli/functions/version"
	"github.com/CardScan/CardScan/cli/global"
)

func main() {
	// Get the name of this binary, eliminating any path information
	progName := filepath.Base(os.Args[0])

	rootCmd := &cobra.Command{
		Use:           progName,
		Short:         global.Description,
		Long:          global.LongDescription,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Disable completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&global.ServerURL, "server", "s", "", "server URL (overrides "+global.EnvServer+" and the config file)")
	rootCmd.PersistentFlags().BoolVarP(&global.Debug, "debug", "d", false, "write debug log entries to stderr")
	rootCmd.PersistentFlags().StringVar(&global.ConfigDir, "config-dir", "", "configuration directory (default ~/"+global.ConfigDirName+")")

	// Add the functions
	rootCmd.AddCommand(auth.Commands()...)
	rootCmd.AddCommand(account.Register())
	rootCmd.AddCommand(account.WhoAmI())
	rootCmd.AddCommand(password.Register())
	rootCmd.AddCommand(contactsCmd.Register())
	rootCmd.AddCommand(scan.Register())
	rootCmd.AddCommand(settingsCmd.Register())
	rootCmd.AddCommand(configCmd.Register())
	rootCmd.AddCommand(ping.Register())
	rootCmd.AddCommand(version.Register())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		display.ErrorWrapper(err)
		os.Exit(1)
	}
}
