/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package api

import (
	"errors"
	"net/http"

	"github.com/CardScan/CardScan/common/fields"
	"github.com/CardScan/CardScan/common/schema"
	"github.com/CardScan/CardScan/common/userver"
	"github.com/CardScan/CardScan/server/data"
)

// @Summary List contacts
// @Security BearerAuth
// @Tags Contacts
// @Produce json
// @Param q query string false "Search text"
// @Success 200 {array} schema.Contact
// @Router /contacts [get]
func (a *API) getContacts(req *http.Request) userver.JResponse {
	query := req.URL.Query().Get(schema.ContactSearchParam)
	list, err := a.data.SearchContacts(GetAuthDetails(req).ID, query)
	if err != nil {
		a.logger.Errorf(2881, "error listing contacts: %s", err.Error())
		return internalError()
	}
	return success(list)
}

// @Summary Add contact
// @Security BearerAuth
// @Tags Contacts
// @Accept json
// @Produce json
// @Param contact body schema.ContactRequest true "Contact"
// @Success 201 {object} schema.Contact
// @Failure 400 {object} schema.APIError
// @Router /contacts [post]
func (a *API) postContact(req *http.Request) userver.JResponse {
	var contactRequest schema.ContactRequest
	if err := decode(req, &contactRequest); err != nil {
		return badRequest("invalid contact")
	}

	id := GetAuthDetails(req).ID
	contact, err := a.data.AddContact(id, contactRequest)
	if err != nil {
		if errors.Is(err, schema.ErrContactName) {
			return badRequest(err.Error())
		}
		a.logger.Errorf(2882, "error adding contact: %s", err.Error())
		return internalError()
	}

	a.logger.Info(2883, "contact added", fields.NewFields(
		fields.NewField("id", id),
		fields.NewField("contact", contact.ID)))
	return created(contact)
}

// @Summary Update contact
// @Security BearerAuth
// @Tags Contacts
// @Accept json
// @Produce json
// @Param id path string true "Contact ID"
// @Param contact body schema.ContactRequest true "Contact"
// @Success 200 {object} schema.Contact
// @Failure 400 {object} schema.APIError
// @Failure 404 {object} schema.APIError
// @Router /contacts/{id} [put]
func (a *API) putContact(req *http.Request) userver.JResponse {
	var contactRequest schema.ContactRequest
	if err := decode(req, &contactRequest); err != nil {
		return badRequest("invalid contact")
	}

	id := GetAuthDetails(req).ID
	contactID := userver.GetParam(req, "id")

	contact, err := a.data.UpdateContact(id, contactID, contactRequest)
	if err != nil {
		switch {
		case errors.Is(err, schema.ErrContactName):
			return badRequest(err.Error())
		case errors.Is(err, data.ErrContactNotFound):
			return userver.Error(http.StatusNotFound, schema.ErrCodeNotFound, "contact not found")
		}
		a.logger.Errorf(2886, "error updating contact: %s", err.Error())
		return internalError()
	}

	a.logger.Info(2887, "contact updated", fields.NewFields(
		fields.NewField("id", id),
		fields.NewField("contact", contactID)))
	return success(contact)
}

// @Summary Delete contact
// @Security BearerAuth
// @Tags Contacts
// @Param id path string true "Contact ID"
// @Success 204
// @Failure 404 {object} schema.APIError
// @Router /contacts/{id} [delete]
func (a *API) deleteContact(req *http.Request) userver.JResponse {
	id := GetAuthDetails(req).ID
	contactID := userver.GetParam(req, "id")

	err := a.data.DeleteContact(id, contactID)
	if err != nil {
		if errors.Is(err, data.ErrContactNotFound) {
			return userver.Error(http.StatusNotFound, schema.ErrCodeNotFound, "contact not found")
		}
		a.logger.Errorf(2884, "error deleting contact: %s", err.Error())
		return internalError()
	}

	a.logger.Info(2885, "contact deleted", fields.NewFields(
		fields.NewField("id", id),
		fields.NewField("contact", contactID)))
	return noContent()
}
