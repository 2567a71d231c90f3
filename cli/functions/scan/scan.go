/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package scan

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/CardScan/CardScan/cli/contacts"
	"github.com/CardScan/CardScan/cli/display"
	"github.com/CardScan/CardScan/cli/global"
	"github.com/CardScan/CardScan/cli/recognizer"
	"github.com/CardScan/CardScan/cli/session"
	"github.com/CardScan/CardScan/cli/settings"
	"github.com/CardScan/CardScan/common/schema"
)

// maxText caps the recognized text read from a file or stdin
const maxText = 1 << 20

func Register() *cobra.Command {
	var overrides schema.ScanResult
	var save, asJSON bool

	cmd := &cobra.Command{
		Use:   "scan <file|->",
		Short: "extract contact details from recognized card text",
		Long: "read the text recognized on a business card from a file, or stdin when the file is '-', " +
			"and extract name, job title, company, phone number, email, and address. " +
			"Flags replace recognized values. With --save the result is added to your contacts.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			return session.Run(cmd.Context(), func(ctx context.Context, s *session.Session) error {
				prefs := settings.New(s.Config.Settings, global.ConfigTheme, global.ConfigLanguage)
				result := merge(recognizer.New(prefs.Language()).Recognize(text), overrides)

				if asJSON {
					display.Pretty(cmd.OutOrStdout(), result)
				} else {
					display.Scan(cmd.OutOrStdout(), result)
				}

				if !save {
					return nil
				}
				contact, err := contacts.New(s.Comms, prefs.Language()).Add(ctx, result.ContactRequest())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved as contact %s\n", contact.ID)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "add the result to your contacts")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().StringVar(&overrides.FullName, "name", "", "full name")
	cmd.Flags().StringVar(&overrides.JobTitle, "title", "", "job title")
	cmd.Flags().StringVar(&overrides.Company, "company", "", "company")
	cmd.Flags().StringVar(&overrides.PhoneNumber, "phone", "", "phone number")
	cmd.Flags().StringVar(&overrides.Email, "email", "", "email address")
	cmd.Flags().StringVar(&overrides.Address, "address", "", "address")
	cmd.Flags().StringVar(&overrides.Notes, "notes", "", "notes")
	return cmd
}

func readText(name string, stdin io.Reader) (string, error) {
	r := stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return "", err
		}
		defer func() {
			_ = f.Close()
		}()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, maxText))
	if err != nil {
		return "", fmt.Errorf("unable to read %s: %w", name, err)
	}
	return string(data), nil
}

// merge replaces recognized fields with any non-empty override
func merge(result, overrides schema.ScanResult) schema.ScanResult {
	pick := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	pick(&result.FullName, overrides.FullName)
	pick(&result.JobTitle, overrides.JobTitle)
	pick(&result.Company, overrides.Company)
	pick(&result.PhoneNumber, overrides.PhoneNumber)
	pick(&result.Email, overrides.Email)
	pick(&result.Address, overrides.Address)
	pick(&result.Notes, overrides.Notes)
	return result
}
