/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/CardScan/CardScan/common"
	"github.com/CardScan/CardScan/common/schema"
)

// Pretty writes v as indented JSON
func Pretty(w io.Writer, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(w, "%v\n", v)
		return
	}
	_, _ = fmt.Fprintln(w, string(data))
}

// Contacts writes one contact per line in aligned columns
func Contacts(w io.Writer, contacts []schema.Contact) {
	if len(contacts) == 0 {
		_, _ = fmt.Fprintln(w, "No contacts")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tPHONE\tEMAIL\tCOMPANY")
	for _, c := range contacts {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			c.ID,
			common.Truncate(common.SingleLine(c.Name), 32),
			strings.Join(c.PhoneNumbers, ", "),
			c.Email,
			common.Truncate(common.SingleLine(c.Company), 32))
	}
	_ = tw.Flush()
}

// User writes the profile of the signed in user
func User(w io.Writer, u schema.User) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "ID:\t%s\n", u.ID)
	_, _ = fmt.Fprintf(tw, "Name:\t%s\n", u.DisplayName)
	_, _ = fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	_, _ = fmt.Fprintf(tw, "Verified:\t%s\n", yesNo(u.EmailVerified))
	if u.PhoneNumber != "" {
		_, _ = fmt.Fprintf(tw, "Phone:\t%s\n", u.PhoneNumber)
	}
	if !u.CreatedAt.IsZero() {
		_, _ = fmt.Fprintf(tw, "Created:\t%s\n", u.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	_ = tw.Flush()
}

// Scan writes the fields recognized on a card
func Scan(w io.Writer, s schema.ScanResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range [][2]string{
		{"Name", s.FullName},
		{"Job title", s.JobTitle},
		{"Company", s.Company},
		{"Phone", s.PhoneNumber},
		{"Email", s.Email},
		{"Address", s.Address},
		{"Notes", s.Notes},
	} {
		_, _ = fmt.Fprintf(tw, "%s:\t%s\n", row[0], common.SingleLine(row[1]))
	}
	_ = tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no (run: cardscan account verify)"
}
