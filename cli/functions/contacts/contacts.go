/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package contactsCmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CardScan/CardScan/cli/contacts"
	"github.com/CardScan/CardScan/cli/display"
	"github.com/CardScan/CardScan/cli/global"
	"github.com/CardScan/CardScan/cli/session"
	"github.com/CardScan/CardScan/cli/settings"
	"github.com/CardScan/CardScan/common/schema"
)

// Register returns the contacts command with subcommands
func Register() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "contacts",
		Aliases: []string{"contact"},
		Short:   "manage contacts",
		Long:    "contact commands: list, add, update, delete",
	}

	cmd.AddCommand(listCmd())
	cmd.AddCommand(addCmd())
	cmd.AddCommand(updateCmd())
	cmd.AddCommand(deleteCmd())
	return cmd
}

// client returns a contacts client using the configured language for sorting
func client(s *session.Session) *contacts.Contacts {
	prefs := settings.New(s.Config.Settings, global.ConfigTheme, global.ConfigLanguage)
	return contacts.New(s.Comms, prefs.Language())
}

func listCmd() *cobra.Command {
	var asJSON bool
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "list contacts sorted by name",
		RunE: func(cmd *cobra.Command, args []string) error {
			return session.Run(cmd.Context(), func(ctx context.Context, s *session.Session) error {
				list, err := client(s).Search(ctx, search)
				if err != nil {
					return err
				}
				if asJSON {
					display.Pretty(cmd.OutOrStdout(), list)
					return nil
				}
				display.Contacts(cmd.OutOrStdout(), list)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().StringVarP(&search, "search", "s", "", "only contacts matching this text")
	return cmd
}

func addCmd() *cobra.Command {
	var req schema.ContactRequest

	cmd := &cobra.Command{
		Use:   "add",
		Short: "add a contact",
		RunE: func(cmd *cobra.Command, args []string) error {
			return session.Run(cmd.Context(), func(ctx context.Context, s *session.Session) error {
				contact, err := client(s).Add(ctx, req)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", contact.Name, contact.ID)
				return nil
			})
		},
	}

	contactFlags(cmd, &req)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func contactFlags(cmd *cobra.Command, req *schema.ContactRequest) {
	cmd.Flags().StringVarP(&req.Name, "name", "n", "", "name")
	cmd.Flags().StringSliceVarP(&req.PhoneNumbers, "phone", "p", nil, "phone number, may be repeated")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "email address")
	cmd.Flags().StringVarP(&req.Company, "company", "c", "", "company")
	cmd.Flags().StringVarP(&req.JobTitle, "title", "t", "", "job title")
	cmd.Flags().StringVar(&req.Address, "address", "", "address")
	cmd.Flags().StringVar(&req.Notes, "notes", "", "notes")
}

// updateCmd changes only the fields given on the command line
func updateCmd() *cobra.Command {
	var flags schema.ContactRequest

	cmd := &cobra.Command{
		Use:   "update <contact_id>",
		Short: "change fields of a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return session.Run(cmd.Context(), func(ctx context.Context, s *session.Session) error {
				c := client(s)
				current, err := c.Get(ctx, args[0])
				if err != nil {
					return err
				}

				contact, err := c.Update(ctx, args[0], Merge(current.Request(), flags, cmd.Flags().Changed))
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", contact.Name, contact.ID)
				return nil
			})
		},
	}

	contactFlags(cmd, &flags)
	return cmd
}

// Merge copies into req the fields of flags whose flag changed
func Merge(req, flags schema.ContactRequest, changed func(name string) bool) schema.ContactRequest {
	if changed("name") {
		req.Name = flags.Name
	}
	if changed("phone") {
		req.PhoneNumbers = flags.PhoneNumbers
	}
	if changed("email") {
		req.Email = flags.Email
	}
	if changed("company") {
		req.Company = flags.Company
	}
	if changed("title") {
		req.JobTitle = flags.JobTitle
	}
	if changed("address") {
		req.Address = flags.Address
	}
	if changed("notes") {
		req.Notes = flags.Notes
	}
	return req
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <contact_id>",
		Short: "delete a contact by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return session.Run(cmd.Context(), func(ctx context.Context, s *session.Session) error {
				if err := client(s).Delete(ctx, args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}
