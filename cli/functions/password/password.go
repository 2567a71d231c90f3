/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package password

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/CardScan/CardScan/cli/login"
	"github.com/CardScan/CardScan/cli/session"
	"github.com/CardScan/CardScan/common/schema"
)

// Register returns the password command with subcommands
func Register() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "recover a forgotten password",
		Long:  "password commands: reset",
	}

	cmd.AddCommand(resetCmd())
	return cmd
}

func resetCmd() *cobra.Command {
	var email, token, newPassword string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "email a reset code, or set a new password with one",
		Long: "without --token, ask the server to email a reset code to the address given by --email, CARDSCAN_EMAIL, or a prompt.\n" +
			"with --token, set a new password. You will need to log in again afterwards.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return session.Run(cmd.Context(), func(ctx context.Context, s *session.Session) error {
				return reset(ctx, cmd.OutOrStdout(), login.NewPrompter(), login.New(s.Comms, s.Store, s.Logger), email, token, newPassword)
			})
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "email address to send the reset code to")
	cmd.Flags().StringVarP(&token, "token", "t", "", "reset code from the email")
	cmd.Flags().StringVarP(&newPassword, "password", "p", "", "new password")
	cmd.MarkFlagsMutuallyExclusive("email", "token")
	return cmd
}

func reset(ctx context.Context, w io.Writer, p *login.Prompter, l *login.Login, email, token, newPassword string) error {
	var err error
	if token == "" {
		if email, err = p.Email(email); err != nil {
			return err
		}
		if err = l.ForgotPassword(ctx, email); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "If %s has an account, a reset code is on its way\n", email)
		return nil
	}

	if newPassword, err = p.NewPassword(newPassword); err != nil {
		return err
	}
	if err = l.ResetPassword(ctx, schema.ResetPasswordRequest{Token: token, Password: newPassword}); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w, "Password changed. Please log in again")
	return nil
}
