package handlers

import (
	"fmt"

	"events-webapp/errors"
	"events-webapp/messages"
	"events-webapp/model"
	"events-webapp/views"

	"github.com/gofiber/fiber/v2"
)

// CreateBooking stores a ticket RSVP for an event.
func (h *Handler) CreateBooking(c *fiber.Ctx) error {
	req := new(model.BookingRequest)
	if err := c.BodyParser(req); err != nil {
		return errors.RaiseBadRequestError(c, h.t(c, messages.FormInvalid, nil))
	}
	if err := model.Validate(req); err != nil {
		return h.invalidForm(c, model.InvalidFields(err))
	}

	eventID := c.Params("id")
	event, err := h.Cols.Events.Get(c.UserContext(), eventID)
	if err != nil {
		return h.storeError(c, err, messages.EventNotFound)
	}
	if req.Tickets > event.MaxTicketsPerBooking() {
		return h.invalidForm(c, []string{"tickets"})
	}

	booking := req.Booking(eventID, event, h.Now())
	id, err := h.Cols.Bookings.Insert(c.UserContext(), booking)
	if err != nil {
		return h.storeError(c, err, messages.EventNotFound)
	}

	return errors.Created(c, h.t(c, messages.BookingReceived, map[string]any{"Title": event.Title}), fiber.Map{
		"id":         id,
		"tickets":    booking.Tickets,
		"totalPrice": booking.TotalPrice,
		"status":     booking.Status,
	})
}

type boothOptionCard struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Price      float64  `json:"price"`
	PriceLabel string   `json:"priceLabel"`
	Items      []string `json:"items"`
}

// GetBoothOptions lists the booth packages of an event, or says booking is closed.
func (h *Handler) GetBoothOptions(c *fiber.Ctx) error {
	event, err := h.Cols.Events.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.storeError(c, err, messages.EventNotFound)
	}

	data := fiber.Map{
		"eventId":   c.Params("id"),
		"title":     event.Title,
		"dateLabel": model.DateRangeLabel(event.StartDate, event.EndDate, event.StartTime, event.EndTime),
		"available": event.BoothBookingOpen(),
		"options":   []boothOptionCard{},
	}
	if !event.BoothBookingOpen() {
		return errors.Success(c, h.t(c, messages.BoothNotAvailable, nil), data)
	}

	cards := make([]boothOptionCard, 0, len(event.BoothOptions))
	for _, option := range event.BoothOptions {
		cards = append(cards, boothOptionCard{
			ID:         option.ID,
			Name:       option.Name,
			Price:      option.Price,
			PriceLabel: model.GroupedMoney(option.Price),
			Items:      option.Items,
		})
	}
	data["options"] = cards
	return errors.Success(c, "", data)
}

func (h *Handler) CreateBoothBooking(c *fiber.Ctx) error {
	eventID := c.Params("id")
	event, err := h.Cols.Events.Get(c.UserContext(), eventID)
	if err != nil {
		return h.storeError(c, err, messages.EventNotFound)
	}
	if !event.BoothBookingOpen() {
		return errors.RaiseConflictError(c, h.t(c, messages.BoothNotAvailable, nil))
	}
	option, ok := event.BoothOption(c.Params("optionId"))
	if !ok {
		return errors.RaiseNotFoundError(c, h.t(c, messages.BoothOptionNotFound, nil))
	}

	req := new(model.BoothBookingRequest)
	if err := c.BodyParser(req); err != nil {
		return errors.RaiseBadRequestError(c, h.t(c, messages.FormInvalid, nil))
	}
	if err := model.Validate(req); err != nil {
		return h.invalidForm(c, model.InvalidFields(err))
	}

	booking := req.BoothBooking(eventID, event, option, h.Now())
	id, err := h.Cols.BoothBookings.Insert(c.UserContext(), booking)
	if err != nil {
		return h.storeError(c, err, messages.EventNotFound)
	}

	msg := h.t(c, messages.BoothBookingReceived, map[string]any{"Title": event.Title, "Email": booking.Email})
	return errors.Created(c, msg, fiber.Map{"id": id, "boothOption": booking.BoothOption, "status": booking.Status})
}

func (h *Handler) ListBookings(c *fiber.Ctx) error {
	page := h.session(c).Bookings
	_ = page.Sync(c.UserContext(), refresh(c))
	table := page.Render(views.Filter{Event: c.Query("event"), Status: c.Query("status")})
	h.translate(c, table.Placeholder)
	return errors.Success(c, "", table)
}

func (h *Handler) ListBoothBookings(c *fiber.Ctx) error {
	page := h.session(c).BoothBookings
	_ = page.Sync(c.UserContext(), refresh(c))
	table := page.Render(views.Filter{Event: c.Query("event")})
	h.translate(c, table.Placeholder)
	return errors.Success(c, "", table)
}

type statusChange struct {
	Status string `json:"status" form:"status"`
}

func (h *Handler) SetBoothBookingStatus(c *fiber.Ctx) error {
	change := new(statusChange)
	if err := c.BodyParser(change); err != nil {
		return errors.RaiseBadRequestError(c, h.t(c, messages.StatusInvalid, nil))
	}
	status, err := model.ParseBookingStatus(change.Status)
	if err != nil {
		return errors.RaiseBadRequestError(c, h.t(c, messages.StatusInvalid, nil))
	}

	page := h.session(c).BoothBookings
	if err := page.Sync(c.UserContext(), false); err != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprint(err))
	}
	table, err := page.SetStatus(c.UserContext(), c.Params("id"), status)
	if err != nil {
		return h.storeError(c, err, messages.BoothBookingNotFound)
	}
	h.translate(c, table.Placeholder)
	return errors.Success(c, h.t(c, messages.StatusUpdated, nil), table)
}
