/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package auth

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/CardScan/CardScan/cli/login"
	"github.com/CardScan/CardScan/cli/session"
	"github.com/CardScan/CardScan/common/interfaces"
	"github.com/CardScan/CardScan/common/schema"
)

// Commands returns login, register, logout, and the auth group
func Commands() []*cobra.Command {
	return []*cobra.Command{loginCmd(), registerCmd(), logoutCmd(), authCmd()}
}

func loginCmd() *cobra.Command {
	var email, password, fullName string
	var create bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "sign in and store credentials",
		Long:  "sign in with email and password. Values not given as flags are read from CARDSCAN_EMAIL, CARDSCAN_PASSWORD, or prompted for.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return session.Run(cmd.Context(), func(ctx context.Context, s *session.Session) error {
				return doLogin(ctx, cmd.OutOrStdout(), s, email, password, fullName, create)
			})
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "email address")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	cmd.Flags().BoolVar(&create, "create", false, "register the account if the email address is unknown")
	cmd.Flags().StringVarP(&fullName, "name", "n", "", "full name, used with --create")
	return cmd
}

func doLogin(ctx context.Context, w io.Writer, s *session.Session, email, password, fullName string, create bool) error {
	p := login.NewPrompter()
	var err error
	if email, err = p.Email(email); err != nil {
		return err
	}
	if password, err = p.Password(password); err != nil {
		return err
	}

	l := login.New(s.Comms, s.Store, s.Logger)
	if !create {
		if err = l.Login(ctx, schema.LoginRequest{Email: email, Password: password}); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "Logged in as %s\n", email)
		return nil
	}

	if fullName == "" {
		if fullName, err = p.Ask("Full name: "); err != nil {
			return err
		}
	}
	registered, err := l.LoginOrRegister(ctx, schema.RegisterRequest{FullName: fullName, Email: email, Password: password})
	if err != nil {
		return err
	}
	if registered {
		_, _ = fmt.Fprintf(w, "Registered and logged in as %s\n", email)
	} else {
		_, _ = fmt.Fprintf(w, "Logged in as %s\n", email)
	}
	return nil
}

func registerCmd() *cobra.Command {
	var req schema.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "create an account",
		Long:  "create an account and store its credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			return session.Run(cmd.Context(), func(ctx context.Context, s *session.Session) error {
				p := login.NewPrompter()
				var err error
				if req.FullName == "" {
					if req.FullName, err = p.Ask("Full name: "); err != nil {
						return err
					}
				}
				if req.Email, err = p.Email(req.Email); err != nil {
					return err
				}
				if req.Password, err = p.Password(req.Password); err != nil {
					return err
				}
				if err = login.New(s.Comms, s.Store, s.Logger).Register(ctx, req); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Registered as %s\n", req.Email)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&req.FullName, "name", "n", "", "full name")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "email address")
	cmd.Flags().StringVar(&req.PhoneNumber, "phone", "", "phone number (optional)")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "password")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "sign out and erase stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			return session.Run(cmd.Context(), func(ctx context.Context, s *session.Session) error {
				if err := login.New(s.Comms, s.Store, s.Logger).Logout(ctx); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
				return nil
			})
		},
	}
}

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "credential commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "show whether credentials are stored",
		Long:  "show whether credentials are stored and when the access token expires. Nothing is sent to the server.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return session.Run(cmd.Context(), func(ctx context.Context, s *session.Session) error {
				return status(ctx, cmd.OutOrStdout(), s.Store, time.Now())
			})
		},
	})
	return cmd
}

func status(ctx context.Context, w io.Writer, store interfaces.CredentialStore, now time.Time) error {
	access, err := store.Get(ctx, interfaces.KeyAccessToken)
	if err != nil {
		return err
	}
	refresh, err := store.Get(ctx, interfaces.KeyRefreshToken)
	if err != nil {
		return err
	}

	if access == "" && refresh == "" {
		_, _ = fmt.Fprintln(w, "Not logged in")
		return nil
	}

	_, _ = fmt.Fprintln(w, "Logged in")
	if access != "" {
		_, _ = fmt.Fprintln(w, "Access token: "+describe(access, now))
	}
	if refresh != "" {
		_, _ = fmt.Fprintln(w, "Refresh token: "+describe(refresh, now))
	}
	return nil
}

// describe reports a token's expiry without verifying its signature, which
// only the server can do
func describe(token string, now time.Time) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "stored"
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return "stored"
	}
	if exp.Before(now) {
		return fmt.Sprintf("expired %s", exp.Local().Format(time.DateTime))
	}
	return fmt.Sprintf("expires %s (in %s)", exp.Local().Format(time.DateTime), exp.Sub(now).Round(time.Second))
}
