/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package ping

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CardScan/CardScan/cli/display"
	"github.com/CardScan/CardScan/cli/session"
	"github.com/CardScan/CardScan/common/schema"
)

func Register() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "ping the server",
		Long:  "ping the server, which also requires login",
		RunE: func(cmd *cobra.Command, args []string) error {
			return session.Run(cmd.Context(), execute(cmd))
		},
	}
}

func execute(cmd *cobra.Command) func(context.Context, *session.Session) error {
	return func(ctx context.Context, s *session.Session) error {
		var resp schema.PingResponse
		code, data, err := s.Comms.Get(ctx, schema.EndpointPing)
		if err = display.Decode(code, data, err, &resp); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s as %s\n", s.ServerURL, resp.Status, resp.User)
		return nil
	}
}
