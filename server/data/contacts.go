/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package data

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/CardScan/CardScan/common/schema"
	"github.com/CardScan/CardScan/server/db"
)

var ErrContactNotFound = errors.New("contact not found")

// ListContacts returns the caller's contacts
func (d *Data) ListContacts(userID string) ([]schema.Contact, error) {
	return d.database.ListContacts(userID)
}

// SearchContacts returns the caller's contacts with query in the name,
// company, job title, email or a phone number. Matching ignores case.
func (d *Data) SearchContacts(userID, query string) ([]schema.Contact, error) {
	list, err := d.database.ListContacts(userID)
	if err != nil {
		return nil, err
	}

	fold := cases.Fold()
	query = fold.String(strings.TrimSpace(query))
	if query == "" {
		return list, nil
	}

	return slices.DeleteFunc(list, func(c schema.Contact) bool {
		for _, field := range append([]string{c.Name, c.Company, c.JobTitle, c.Email}, c.PhoneNumbers...) {
			if strings.Contains(fold.String(field), query) {
				return false
			}
		}
		return true
	}), nil
}

// AddContact validates and stores a new contact for userID
func (d *Data) AddContact(userID string, req schema.ContactRequest) (schema.Contact, error) {
	if err := req.Validate(); err != nil {
		return schema.Contact{}, err
	}

	contact := newContact("C-"+uuid.New().String(), req)
	contact.CreatedAt = time.Now().UTC()

	if err := d.database.SetContact(userID, contact); err != nil {
		return schema.Contact{}, err
	}
	return contact, nil
}

// UpdateContact replaces the fields of one of the caller's contacts
func (d *Data) UpdateContact(userID, contactID string, req schema.ContactRequest) (schema.Contact, error) {
	if err := req.Validate(); err != nil {
		return schema.Contact{}, err
	}

	contact, err := d.database.ReplaceContact(userID, newContact(contactID, req))
	if errors.Is(err, db.ErrNotFound) {
		return schema.Contact{}, ErrContactNotFound
	}
	return contact, err
}

// newContact builds a contact from a request with whitespace trimmed
func newContact(id string, req schema.ContactRequest) schema.Contact {
	phones := make([]string, 0, len(req.PhoneNumbers))
	for _, p := range req.PhoneNumbers {
		if p = strings.TrimSpace(p); p != "" {
			phones = append(phones, p)
		}
	}

	return schema.Contact{
		ID:           id,
		Name:         strings.TrimSpace(req.Name),
		PhoneNumbers: phones,
		Email:        strings.TrimSpace(req.Email),
		Company:      strings.TrimSpace(req.Company),
		JobTitle:     strings.TrimSpace(req.JobTitle),
		Address:      strings.TrimSpace(req.Address),
		Notes:        req.Notes,
	}
}

// DeleteContact removes one of the caller's contacts
func (d *Data) DeleteContact(userID, contactID string) error {
	err := d.database.DeleteContact(userID, contactID)
	if errors.Is(err, db.ErrNotFound) {
		return ErrContactNotFound
	}
	return err
}
