package handlers

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"

	"events-webapp/database"
	"events-webapp/errors"
	"events-webapp/messages"
	"events-webapp/model"
	"events-webapp/storage"
	"events-webapp/views"

	"github.com/gofiber/fiber/v2"
)

// ListPartnerEvents fills the event dropdown of the application forms.
func (h *Handler) ListPartnerEvents(c *fiber.Ctx) error {
	events, err := h.Cols.Events.All(c.UserContext(), database.Query{})
	if err != nil {
		log.Printf("handlers: list partner events: %v", err)
		return errors.RaiseInternalServerError(c, h.t(c, messages.EventsLoadFailed, nil))
	}

	open := model.OpenEvents(events, h.Now())
	options := make([]views.Option, 0, len(open))
	for _, e := range open {
		options = append(options, views.Option{Value: e.Id.Hex(), Label: e.DisplayTitle()})
	}

	data := fiber.Map{"options": options}
	if len(options) == 0 {
		data["placeholder"] = h.t(c, messages.PartnerNoOpenEvents, nil)
	} else {
		data["selected"] = options[0].Value
	}
	return errors.Success(c, "", data)
}

func (h *Handler) unknownPartnerType(c *fiber.Ctx) error {
	return errors.RaiseNotFoundError(c, h.t(c, messages.PartnerTypeNotAllowed, nil))
}

// CreatePartnerApplication stores a sponsor, speaker or volunteer application
// with its optional bio file.
func (h *Handler) CreatePartnerApplication(c *fiber.Ctx) error {
	t, err := model.ParsePartnerType(c.Params("type"))
	if err != nil {
		return h.unknownPartnerType(c)
	}

	app := new(model.PartnerApplication)
	if err := c.BodyParser(app); err != nil {
		return errors.RaiseBadRequestError(c, h.t(c, messages.FormInvalid, nil))
	}
	if err := model.Validate(app); err != nil {
		return h.invalidForm(c, model.InvalidFields(err))
	}

	event, err := h.Cols.Events.Get(c.UserContext(), app.EventID)
	if err != nil {
		return h.storeError(c, err, messages.EventNotFound)
	}

	bio, closeBio, err := formFile(c, "bio")
	if err != nil {
		return errors.RaiseBadRequestError(c, err.Error())
	}
	defer closeBio()

	var uploaded storage.Upload
	if bio != nil {
		switch err := storage.CheckFile(*bio, storage.BioTypes, storage.MaxBioSize); {
		case stderrors.Is(err, storage.ErrUnsupportedFile):
			return errors.RaiseBadRequestError(c, h.t(c, messages.PartnerFileType, nil))
		case stderrors.Is(err, storage.ErrFileTooLarge):
			return errors.RaiseBadRequestError(c, h.t(c, messages.PartnerFileSize, nil))
		}
		uploaded, err = h.Uploader.Upload(c.UserContext(), "partners/"+string(t), *bio, logProgress(bio.Name))
		if err != nil {
			log.Printf("handlers: upload bio: %v", err)
			return errors.RaiseInternalServerError(c, fmt.Sprint(err))
		}
	}

	partner := app.Partner(t, event.Title, uploaded.URL, h.Now())
	id, err := h.Cols.Partners.Insert(c.UserContext(), partner)
	if err != nil {
		h.discard(c.UserContext(), uploaded)
		return h.storeError(c, err, messages.EventNotFound)
	}
	return errors.Created(c, h.t(c, messages.PartnerReceived, nil), fiber.Map{"id": id, "type": t, "bioUrl": uploaded.URL})
}

// discard removes an upload whose document could not be written.
func (h *Handler) discard(ctx context.Context, upload storage.Upload) {
	if upload.Path == "" {
		return
	}
	if err := h.Uploader.Discard(ctx, upload); err != nil {
		log.Printf("handlers: could not remove orphaned upload %s: %v", upload.Path, err)
		return
	}
	log.Printf("handlers: removed orphaned upload %s", upload.Path)
}

// partnersPage returns the list page of the partner type in the path.
func (h *Handler) partnersPage(c *fiber.Ctx) (*views.PartnersView, bool) {
	t, err := model.ParsePartnerType(c.Params("type"))
	if err != nil {
		return nil, false
	}
	return h.session(c).Partners(t), true
}

func (h *Handler) ListPartners(c *fiber.Ctx) error {
	page, ok := h.partnersPage(c)
	if !ok {
		return h.unknownPartnerType(c)
	}
	_ = page.Sync(c.UserContext(), refresh(c))
	table := page.Render(views.Filter{Event: c.Query("event"), Status: c.Query("status")})
	h.translate(c, table.Placeholder)
	return errors.Success(c, "", table)
}

func (h *Handler) GetPartner(c *fiber.Ctx) error {
	page, ok := h.partnersPage(c)
	if !ok {
		return h.unknownPartnerType(c)
	}
	if err := page.Sync(c.UserContext(), false); err != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprint(err))
	}
	detail, err := page.Detail(c.Params("id"))
	if err != nil {
		return h.storeError(c, err, messages.PartnerNotFound)
	}
	return errors.Success(c, "", detail)
}

func (h *Handler) SetPartnerStatus(c *fiber.Ctx) error {
	page, ok := h.partnersPage(c)
	if !ok {
		return h.unknownPartnerType(c)
	}
	change := new(statusChange)
	if err := c.BodyParser(change); err != nil {
		return errors.RaiseBadRequestError(c, h.t(c, messages.StatusInvalid, nil))
	}
	status, err := model.ParsePartnerStatus(change.Status)
	if err != nil {
		return errors.RaiseBadRequestError(c, h.t(c, messages.StatusInvalid, nil))
	}

	if err := page.Sync(c.UserContext(), false); err != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprint(err))
	}
	table, err := page.SetStatus(c.UserContext(), c.Params("id"), status)
	if err != nil {
		return h.storeError(c, err, messages.PartnerNotFound)
	}
	h.translate(c, table.Placeholder)
	return errors.Success(c, h.t(c, messages.StatusUpdated, nil), table)
}

func (h *Handler) DeletePartner(c *fiber.Ctx) error {
	page, ok := h.partnersPage(c)
	if !ok {
		return h.unknownPartnerType(c)
	}
	if err := page.Sync(c.UserContext(), false); err != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprint(err))
	}
	table, err := page.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.storeError(c, err, messages.PartnerNotFound)
	}
	h.translate(c, table.Placeholder)
	return errors.Success(c, h.t(c, messages.PartnerDeleted, nil), table)
}
