package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"stockcount/pkg/contact"
	"stockcount/pkg/otel"
)

// listContactsHandler lists registered customers.
// @Summary List contacts
// @Description Contacts are ordered by name.
// @Produce json
// @Success 200 {array} contact.Contact
// @Router /contacts [get]
func (a *api) listContactsHandler(w http.ResponseWriter, r *http.Request) {
	_, span := otel.AddSpan(r.Context(), "listContactsHandler")
	defer span.End()

	writeJSON(w, http.StatusOK, a.contacts.Contacts())
}

// getContactHandler retrieves a contact by ID.
// @Summary Get contact
// @Produce json
// @Param id path string true "Contact ID"
// @Success 200 {object} contact.Contact
// @Router /contacts/{id} [get]
func (a *api) getContactHandler(w http.ResponseWriter, r *http.Request) {
	_, span := otel.AddSpan(r.Context(), "getContactHandler")
	defer span.End()

	c, ok := a.contacts.Get(mux.Vars(r)["id"])
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// createContactHandler registers a new contact with a generated ID.
// @Summary Create contact
// @Accept json
// @Produce json
// @Param contact body contact.Form true "Contact"
// @Success 201 {object} contact.Contact
// @Failure 400 {object} errorResponse
// @Router /contacts [post]
func (a *api) createContactHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createContactHandler")
	defer span.End()

	var f contact.Form
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	c, err := a.contacts.Save(ctx, "", f)
	if err != nil {
		a.writeError(w, r, "create contact", err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// updateContactHandler replaces a contact, creating it under the given ID
// if it does not exist.
// @Summary Update contact
// @Accept json
// @Produce json
// @Param id path string true "Contact ID"
// @Param contact body contact.Form true "Contact"
// @Success 200 {object} contact.Contact
// @Failure 400 {object} errorResponse
// @Router /contacts/{id} [put]
func (a *api) updateContactHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateContactHandler")
	defer span.End()

	var f contact.Form
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	c, err := a.contacts.Save(ctx, mux.Vars(r)["id"], f)
	if err != nil {
		a.writeError(w, r, "update contact", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// deleteContactHandler removes a contact. Unknown IDs are not an error.
// @Summary Delete contact
// @Param id path string true "Contact ID"
// @Success 204
// @Router /contacts/{id} [delete]
func (a *api) deleteContactHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "deleteContactHandler")
	defer span.End()

	if err := a.contacts.Remove(ctx, mux.Vars(r)["id"]); err != nil {
		a.writeError(w, r, "delete contact", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// clearContactsHandler removes every contact.
// @Summary Clear contacts
// @Param confirm query bool true "Must be true"
// @Success 204
// @Failure 400 {object} errorResponse
// @Router /contacts [delete]
func (a *api) clearContactsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "clearContactsHandler")
	defer span.End()

	if !confirmed(w, r) {
		return
	}
	if err := a.contacts.Clear(ctx); err != nil {
		a.writeError(w, r, "clear contacts", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// exportContactsHandler downloads the contacts as CSV.
// @Summary Export contacts
// @Produce text/csv
// @Success 200 {string} string "Nome;Email;Telefone; rows"
// @Router /export/contacts [get]
func (a *api) exportContactsHandler(w http.ResponseWriter, r *http.Request) {
	_, span := otel.AddSpan(r.Context(), "exportContactsHandler")
	defer span.End()

	a.writeCSV(w, contact.FilePrefix, a.contacts.ExportRows())
}
