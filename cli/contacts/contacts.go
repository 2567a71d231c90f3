/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package contacts lists and edits the signed in user's contacts
package contacts

import (
	"context"
	"errors"
	"net/url"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/CardScan/CardScan/cli/display"
	"github.com/CardScan/CardScan/cli/global"
	"github.com/CardScan/CardScan/common/schema"
)

type Contacts struct {
	comms global.Comms
	tag   language.Tag
}

// New returns a Contacts client that sorts names using the collation of tag
func New(comms global.Comms, tag language.Tag) *Contacts {
	return &Contacts{comms: comms, tag: tag}
}

var ErrNotFound = errors.New("contact not found")

// List returns the contacts with a name, sorted by name
func (c *Contacts) List(ctx context.Context) ([]schema.Contact, error) {
	return c.Search(ctx, "")
}

// Search returns the named contacts the server matches with query, sorted
// by name. An empty query matches every contact.
func (c *Contacts) Search(ctx context.Context, query string) ([]schema.Contact, error) {
	var list []schema.Contact
	var values url.Values
	if query = strings.TrimSpace(query); query != "" {
		values = url.Values{schema.ContactSearchParam: {query}}
	}
	code, data, err := c.comms.GetQuery(ctx, schema.EndpointContacts, values)
	if err = display.Decode(code, data, err, &list); err != nil {
		return nil, err
	}
	return Sort(Named(list), c.tag), nil
}

// Get returns the contact with the given ID
func (c *Contacts) Get(ctx context.Context, id string) (schema.Contact, error) {
	list, err := c.List(ctx)
	if err != nil {
		return schema.Contact{}, err
	}
	for _, contact := range list {
		if contact.ID == id {
			return contact, nil
		}
	}
	return schema.Contact{}, ErrNotFound
}

// Add creates a contact and returns it as stored by the server
func (c *Contacts) Add(ctx context.Context, req schema.ContactRequest) (schema.Contact, error) {
	var contact schema.Contact
	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		return contact, err
	}
	code, data, err := c.comms.Post(ctx, schema.EndpointContacts, req)
	err = display.Decode(code, data, err, &contact)
	return contact, err
}

// Update replaces every field of the contact with those in req
func (c *Contacts) Update(ctx context.Context, id string, req schema.ContactRequest) (schema.Contact, error) {
	var contact schema.Contact
	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		return contact, err
	}
	code, data, err := c.comms.Put(ctx, schema.EndpointContacts+"/"+url.PathEscape(id), req)
	err = display.Decode(code, data, err, &contact)
	return contact, err
}

func (c *Contacts) Delete(ctx context.Context, id string) error {
	code, data, err := c.comms.Delete(ctx, schema.EndpointContacts+"/"+url.PathEscape(id))
	return display.Decode(code, data, err, nil)
}

// Named drops contacts whose name is empty or blank
func Named(list []schema.Contact) []schema.Contact {
	return slices.DeleteFunc(list, func(c schema.Contact) bool {
		return strings.TrimSpace(c.Name) == ""
	})
}

// Sort orders contacts by name, ascending, using the collation rules of tag.
// Equal names keep their original order.
func Sort(list []schema.Contact, tag language.Tag) []schema.Contact {
	col := collate.New(tag, collate.IgnoreCase)
	slices.SortStableFunc(list, func(a, b schema.Contact) int {
		return col.CompareString(a.Name, b.Name)
	})
	return list
}
