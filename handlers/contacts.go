package handlers

import (
	"fmt"

	"events-webapp/errors"
	"events-webapp/messages"
	"events-webapp/model"
	"events-webapp/views"

	"github.com/gofiber/fiber/v2"
)

// CreateContact stores a message from the public contact form.
func (h *Handler) CreateContact(c *fiber.Ctx) error {
	submission := new(model.ContactSubmission)
	if err := c.BodyParser(submission); err != nil {
		return errors.RaiseBadRequestError(c, h.t(c, messages.FormInvalid, nil))
	}
	submission.Trim()

	invalid := []string{}
	if err := model.Validate(submission); err != nil {
		invalid = model.InvalidFields(err)
	}
	if !submission.Acceptance {
		invalid = append(invalid, "acceptance")
	}
	if len(invalid) > 0 {
		return h.invalidForm(c, invalid)
	}

	id, err := h.Cols.Contacts.Insert(c.UserContext(), submission.Contact(h.Now()))
	if err != nil {
		return h.storeError(c, err, messages.ContactNotFound)
	}
	return errors.Created(c, h.t(c, messages.ContactReceived, nil), fiber.Map{"id": id, "resetForm": true})
}

func (h *Handler) ListContacts(c *fiber.Ctx) error {
	if status := c.Query("status"); status != "" {
		if _, err := model.ParseContactStatus(status); err != nil {
			return errors.RaiseBadRequestError(c, h.t(c, messages.StatusInvalid, nil))
		}
	}
	page := h.session(c).Contacts
	_ = page.Sync(c.UserContext(), refresh(c))
	table := page.Render(views.Filter{Status: c.Query("status")})
	h.translate(c, table.Placeholder)
	return errors.Success(c, "", table)
}

// OpenContact returns the detail of one message and marks it read.
func (h *Handler) OpenContact(c *fiber.Ctx) error {
	page := h.session(c).Contacts
	if err := page.Sync(c.UserContext(), false); err != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprint(err))
	}
	detail, table, err := page.Open(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.storeError(c, err, messages.ContactNotFound)
	}
	h.translate(c, table.Placeholder)
	return errors.Success(c, "", fiber.Map{"contact": detail, "table": table})
}

func (h *Handler) MarkContactReplied(c *fiber.Ctx) error {
	page := h.session(c).Contacts
	if err := page.Sync(c.UserContext(), false); err != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprint(err))
	}
	table, err := page.MarkReplied(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.storeError(c, err, messages.ContactNotFound)
	}
	h.translate(c, table.Placeholder)
	return errors.Success(c, h.t(c, messages.StatusUpdated, nil), table)
}

func (h *Handler) DeleteContact(c *fiber.Ctx) error {
	page := h.session(c).Contacts
	if err := page.Sync(c.UserContext(), false); err != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprint(err))
	}
	table, err := page.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.storeError(c, err, messages.ContactNotFound)
	}
	h.translate(c, table.Placeholder)
	return errors.Success(c, h.t(c, messages.ContactDeleted, nil), table)
}
