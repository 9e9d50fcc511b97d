package handlers

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"log"
	"strconv"
	"strings"

	"events-webapp/database"
	"events-webapp/editor"
	"events-webapp/errors"
	"events-webapp/messages"
	"events-webapp/model"
	"events-webapp/storage"
	"events-webapp/views"

	"github.com/gofiber/fiber/v2"
)

const detailURL = "/events/event-detail.html?id="

type EventSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Month       string `json:"month"`
	Day         string `json:"day"`
	Year        string `json:"year,omitempty"`
	When        string `json:"when"`
	Venue       string `json:"venue"`
	Location    string `json:"location"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Cost        string `json:"cost,omitempty"`
	DetailURL   string `json:"detailUrl"`
}

func summarize(e model.Event, past bool) EventSummary {
	id := e.Id.Hex()
	s := EventSummary{
		ID:          id,
		Title:       e.Title,
		When:        model.ShortDateLabel(e.StartDate, e.StartTime),
		Venue:       e.Venue,
		Location:    e.Location,
		Description: model.TruncateText(e.Description, 150),
		ImageURL:    e.ImageURL,
		DetailURL:   detailURL + id,
	}
	if e.StartDate.Valid {
		s.Month = e.StartDate.Time.Format("Jan")
		s.Day = strconv.Itoa(e.StartDate.Time.Day())
		if past {
			s.Year = strconv.Itoa(e.StartDate.Time.Year())
		}
	}
	if !past {
		s.Cost = model.PriceLabel(e.Price)
	}
	return s
}

// ListPublicEvents splits all events into upcoming and past.
func (h *Handler) ListPublicEvents(c *fiber.Ctx) error {
	events, err := h.Cols.Events.All(c.UserContext(), database.OrderBy("startDate", false))
	if err != nil {
		log.Printf("handlers: list events: %v", err)
		return errors.RaiseInternalServerError(c, h.t(c, messages.EventsLoadFailed, nil))
	}

	upcoming, past := model.PartitionEvents(events, h.Now())
	data := fiber.Map{
		"upcoming": summaries(upcoming, false),
		"past":     summaries(past, true),
	}
	if len(upcoming) == 0 {
		data["upcomingPlaceholder"] = h.t(c, messages.EventsNoUpcoming, nil)
	}
	return errors.Success(c, "", data)
}

func summaries(events []model.Event, past bool) []EventSummary {
	out := make([]EventSummary, 0, len(events))
	for _, e := range events {
		out = append(out, summarize(e, past))
	}
	return out
}

// GetPublicEvent returns one event with the labels of the detail page.
func (h *Handler) GetPublicEvent(c *fiber.Ctx) error {
	event, err := h.Cols.Events.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.storeError(c, err, messages.EventNotFound)
	}

	var description bytes.Buffer
	if err := h.Markdown.Convert([]byte(event.Description), &description); err != nil {
		log.Printf("handlers: render description of %s: %v", c.Params("id"), err)
		description.Reset()
	}

	options := make([]int, 0, event.MaxTicketsPerBooking())
	for n := 1; n <= event.MaxTicketsPerBooking(); n++ {
		options = append(options, n)
	}

	return errors.Success(c, "", fiber.Map{
		"event":            event,
		"dateLabel":        model.DateRangeLabel(event.StartDate, event.EndDate, event.StartTime, event.EndTime),
		"priceLabel":       model.TicketPriceLabel(event.Price),
		"descriptionHtml":  description.String(),
		"ticketOptions":    options,
		"boothBookingOpen": event.BoothBookingOpen(),
	})
}

func (h *Handler) Dashboard(c *fiber.Ctx) error {
	dash, err := views.LoadDashboard(c.UserContext(), h.Cols)
	if err != nil {
		return errors.RaiseInternalServerError(c, err.Error())
	}
	if dash.Placeholder != nil {
		h.translate(c, dash.Placeholder)
	}
	return errors.Success(c, "", dash)
}

func (h *Handler) ListEvents(c *fiber.Ctx) error {
	table := views.EventsTable(c.UserContext(), h.Cols)
	if table.Placeholder != nil {
		h.translate(c, table.Placeholder)
	}
	return errors.Success(c, "", table)
}

func (h *Handler) NewEventForm(c *fiber.Ctx) error {
	return errors.Success(c, "", editor.New())
}

func (h *Handler) EditEventForm(c *fiber.Ctx) error {
	ed, err := editor.Open(c.UserContext(), h.Cols.Events, c.Params("id"))
	if err != nil {
		return h.storeError(c, err, messages.EventNotFound)
	}
	return errors.Success(c, "", ed)
}

// eventForm reads the submitted form. Multipart requests carry it as JSON in
// the "payload" field next to the optional "image" file.
func eventForm(c *fiber.Ctx) (editor.Form, error) {
	var form editor.Form
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		err := json.Unmarshal([]byte(c.FormValue("payload")), &form)
		return form, err
	}
	err := c.BodyParser(&form)
	return form, err
}

func (h *Handler) CreateEvent(c *fiber.Ctx) error {
	ed := editor.New()
	return h.saveEvent(c, ed, fiber.StatusCreated)
}

func (h *Handler) UpdateEvent(c *fiber.Ctx) error {
	ed, err := editor.Open(c.UserContext(), h.Cols.Events, c.Params("id"))
	if err != nil {
		return h.storeError(c, err, messages.EventNotFound)
	}
	return h.saveEvent(c, ed, fiber.StatusOK)
}

func (h *Handler) saveEvent(c *fiber.Ctx, ed *editor.Editor, status int) error {
	form, err := eventForm(c)
	if err != nil {
		return errors.RaiseBadRequestError(c, h.t(c, messages.EventInvalid, nil))
	}
	ed.Form = form

	image, closeImage, err := formFile(c, "image")
	if err != nil {
		return errors.RaiseBadRequestError(c, err.Error())
	}
	defer closeImage()

	var progress storage.ProgressFunc
	if image != nil {
		progress = logProgress(image.Name)
	}

	result, err := ed.Save(c.UserContext(), editor.Store{
		Events:   h.Cols.Events,
		Uploader: h.Uploader,
		Now:      h.Now,
	}, image, progress)
	if stderrors.Is(err, editor.ErrValidation) {
		return errors.RaiseError(c, fiber.StatusBadRequest, h.t(c, messages.EventInvalid, nil), err.Error())
	}
	if err != nil {
		return h.storeError(c, err, messages.EventNotFound)
	}

	return c.Status(status).JSON(fiber.Map{
		"status":  "success",
		"message": h.t(c, messages.EventSaved, nil),
		"data":    result})
}

func (h *Handler) DeleteEvent(c *fiber.Ctx) error {
	if err := h.Cols.Events.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.storeError(c, err, messages.EventNotFound)
	}
	return errors.Success(c, h.t(c, messages.EventDeleted, nil), fiber.Map{"id": c.Params("id")})
}
