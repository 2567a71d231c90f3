/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package schema

import (
	"errors"
	"strings"
	"time"
)

type Contact struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PhoneNumbers []string  `json:"phoneNumbers"`
	Email        string    `json:"email,omitempty"`
	Company      string    `json:"company,omitempty"`
	JobTitle     string    `json:"jobTitle,omitempty"`
	Address      string    `json:"address,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ContactRequest creates a contact
type ContactRequest struct {
	Name         string   `json:"name"`
	PhoneNumbers []string `json:"phoneNumbers"`
	Email        string   `json:"email,omitempty"`
	Company      string   `json:"company,omitempty"`
	JobTitle     string   `json:"jobTitle,omitempty"`
	Address      string   `json:"address,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

// Request returns the editable fields of c
func (c Contact) Request() ContactRequest {
	return ContactRequest{
		Name:         c.Name,
		PhoneNumbers: c.PhoneNumbers,
		Email:        c.Email,
		Company:      c.Company,
		JobTitle:     c.JobTitle,
		Address:      c.Address,
		Notes:        c.Notes,
	}
}

var ErrContactName = errors.New("contact name is required")

func (r ContactRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrContactName
	}
	return nil
}

// ScanResult holds the fields recognized on a business card
type ScanResult struct {
	FullName    string `json:"fullName"`
	JobTitle    string `json:"jobTitle"`
	Company     string `json:"company"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	Notes       string `json:"notes"`
}

// ContactRequest converts a scan into a contact
func (s ScanResult) ContactRequest() ContactRequest {
	r := ContactRequest{
		Name:     s.FullName,
		Email:    s.Email,
		Company:  s.Company,
		JobTitle: s.JobTitle,
		Address:  s.Address,
		Notes:    s.Notes,
	}
	if s.PhoneNumber != "" {
		r.PhoneNumbers = []string{s.PhoneNumber}
	}
	return r
}

// PingResponse is returned by the ping endpoint
type PingResponse struct {
	Status string    `json:"status"`
	User   string    `json:"user"`
	Time   time.Time `json:"time"`
}
