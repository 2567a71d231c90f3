/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CardScan/CardScan/cli/display"
	"github.com/CardScan/CardScan/cli/login"
	"github.com/CardScan/CardScan/cli/session"
	"github.com/CardScan/CardScan/common/schema"
)

// Register returns the account command with subcommands
func Register() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "manage your account",
		Long:  "account commands: show, verify, delete",
	}

	cmd.AddCommand(showCmd("show"))
	cmd.AddCommand(verifyCmd())
	cmd.AddCommand(deleteCmd())
	return cmd
}

// WhoAmI returns the top level whoami command
func WhoAmI() *cobra.Command {
	return showCmd("whoami")
}

func showCmd(use string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: "show the signed in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return session.Run(cmd.Context(), func(ctx context.Context, s *session.Session) error {
				var u schema.User
				code, data, err := s.Comms.Get(ctx, schema.EndpointMe)
				if err = display.Decode(code, data, err, &u); err != nil {
					return err
				}
				display.User(cmd.OutOrStdout(), u)
				return nil
			})
		},
	}
}

func verifyCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "confirm your email address",
		Long:  "confirm your email address with the code from the verification email. Without --token, a new email is requested.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return session.Run(cmd.Context(), func(ctx context.Context, s *session.Session) error {
				l := login.New(s.Comms, s.Store, s.Logger)
				if token == "" {
					if err := l.SendVerification(ctx); err != nil {
						return err
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Verification email sent")
					return nil
				}
				if err := l.VerifyEmail(ctx, token); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Email address verified")
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&token, "token", "t", "", "code from the verification email")
	return cmd
}

func deleteCmd() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "permanently delete your account and contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return errors.New("account deletion requires --yes")
			}
			return session.Run(cmd.Context(), func(ctx context.Context, s *session.Session) error {
				code, data, err := s.Comms.Delete(ctx, schema.EndpointMe)
				if err = display.Decode(code, data, err, nil); err != nil {
					return err
				}
				if err = s.Store.Clear(ctx); err != nil {
					return fmt.Errorf("account deleted but credentials could not be cleared: %w", err)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Account deleted")
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&confirm, "yes", "y", false, "confirm deletion")
	return cmd
}
