/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package settingsCmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/CardScan/CardScan/cli/global"
	"github.com/CardScan/CardScan/cli/settings"
)

func Register() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "display preferences",
		Long:  "show or change the theme and language",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettings(func(prefs *settings.Settings, _ *global.CLIConfig) error {
				show(cmd.OutOrStdout(), prefs)
				return nil
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "show the current theme and language",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettings(func(prefs *settings.Settings, _ *global.CLIConfig) error {
				show(cmd.OutOrStdout(), prefs)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "theme <system|light|dark>",
		Short:     "set the theme",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(settings.ThemeSystem), string(settings.ThemeLight), string(settings.ThemeDark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettings(func(prefs *settings.Settings, conf *global.CLIConfig) error {
				theme, err := prefs.SetTheme(args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s\n", theme)
				return conf.Save()
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "language <tr|en>",
		Short: "set the language",
		Long:  "set the language used for sorting contacts and capitalizing names. Regional tags such as tr-TR are accepted.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettings(func(prefs *settings.Settings, conf *global.CLIConfig) error {
				tag, err := prefs.SetLanguage(args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Language set to %s\n", tag)
				return conf.Save()
			})
		},
	})

	return cmd
}

// withSettings loads only the configuration; no credentials are needed
func withSettings(fn func(*settings.Settings, *global.CLIConfig) error) error {
	conf, err := global.Config(global.ConfigDir)
	if err != nil {
		return err
	}
	return fn(settings.New(conf.Settings, global.ConfigTheme, global.ConfigLanguage), conf)
}

func show(w io.Writer, prefs *settings.Settings) {
	_, _ = fmt.Fprintf(w, "Theme:    %s\n", prefs.Theme())
	_, _ = fmt.Fprintf(w, "Language: %s\n", prefs.Language())
}
