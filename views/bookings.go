package views

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"events-webapp/database"
	"events-webapp/messages"
	"events-webapp/model"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"
)

type BookingRow struct {
	ID      string              `json:"id"`
	Name    string              `json:"name"`
	Email   string              `json:"email"`
	Phone   string              `json:"phone"`
	Event   string              `json:"event"`
	Tickets int                 `json:"tickets"`
	Created string              `json:"created"`
	Status  model.BookingStatus `json:"status"`
	Badge   string              `json:"badge"`
}

// BookingsView is the RSVP list page, filterable by event and status.
type BookingsView struct {
	mu   sync.Mutex
	cols *database.Collections

	loaded   bool
	err      error
	events   eventIndex
	bookings []model.Booking
	filter   Filter
}

func NewBookingsView(cols *database.Collections) *BookingsView {
	return &BookingsView{cols: cols}
}

// Sync loads the page data on first use, or again when refresh is set.
func (v *BookingsView) Sync(ctx context.Context, refresh bool) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.loaded && !refresh {
		return nil
	}

	var (
		events   eventIndex
		bookings []model.Booking
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		events, err = loadEvents(gctx, v.cols, database.Query{})
		return err
	})
	g.Go(func() (err error) {
		bookings, err = v.cols.Bookings.All(gctx, database.OrderBy("createdAt", true))
		return err
	})
	if err := g.Wait(); err != nil {
		logLoadError("bookings", err)
		v.loaded, v.err = false, err
		return err
	}

	v.events, v.bookings = events, bookings
	v.loaded, v.err = true, nil
	return nil
}

// Render filters the cached bookings. It never touches the store.
func (v *BookingsView) Render(filter Filter) Table[BookingRow] {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = filter
	return v.render()
}

func (v *BookingsView) render() Table[BookingRow] {
	if v.err != nil {
		return failedTable[BookingRow](v.filter, messages.BookingsLoadFailed, v.err)
	}

	rows := []BookingRow{}
	for _, b := range v.bookings {
		status := b.Status.OrDefault()
		if v.filter.Event != "" && b.EventID != v.filter.Event {
			continue
		}
		if v.filter.Status != "" && string(status) != v.filter.Status {
			continue
		}
		tickets := b.Tickets
		if tickets == 0 {
			tickets = 1
		}
		rows = append(rows, BookingRow{
			ID:      b.Id.Hex(),
			Name:    model.OrDash(b.Name),
			Email:   model.OrDash(b.Email),
			Phone:   model.OrDash(b.Phone),
			Event:   v.events.title(b.EventID),
			Tickets: tickets,
			Created: model.DateTimeLabel(b.CreatedAt),
			Status:  status,
			Badge:   strings.ToUpper(string(status)),
		})
	}

	table := Table[BookingRow]{Rows: rows, Filter: v.filter}
	if len(rows) == 0 {
		table = emptyTable[BookingRow](v.filter, messages.BookingsEmpty, nil)
	}
	table.EventOptions = v.events.options(false)
	return table
}

type BoothBookingRow struct {
	ID      string              `json:"id"`
	Company string              `json:"company"`
	Contact string              `json:"contact"`
	Email   string              `json:"email"`
	Event   string              `json:"event"`
	Option  string              `json:"option"`
	Price   string              `json:"price"`
	Created string              `json:"created"`
	Status  model.BookingStatus `json:"status"`
}

// BoothBookingsView is the booth booking list page with an event filter
// and an inline status dropdown per row.
type BoothBookingsView struct {
	mu   sync.Mutex
	cols *database.Collections
	now  func() time.Time

	loaded   bool
	err      error
	events   eventIndex
	bookings []model.BoothBooking
	filter   Filter
}

func NewBoothBookingsView(cols *database.Collections) *BoothBookingsView {
	return &BoothBookingsView{cols: cols, now: time.Now}
}

func (v *BoothBookingsView) Sync(ctx context.Context, refresh bool) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.loaded && !refresh {
		return nil
	}

	var (
		events   eventIndex
		bookings []model.BoothBooking
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		events, err = loadEvents(gctx, v.cols, database.OrderBy("startDate", true))
		return err
	})
	g.Go(func() (err error) {
		bookings, err = v.cols.BoothBookings.All(gctx, database.OrderBy("createdAt", true))
		return err
	})
	if err := g.Wait(); err != nil {
		logLoadError("booth bookings", err)
		v.loaded, v.err = false, err
		return err
	}

	v.events, v.bookings = events, bookings
	v.loaded, v.err = true, nil
	return nil
}

func (v *BoothBookingsView) Render(filter Filter) Table[BoothBookingRow] {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = Filter{Event: filter.Event}
	return v.render()
}

func (v *BoothBookingsView) render() Table[BoothBookingRow] {
	if v.err != nil {
		return failedTable[BoothBookingRow](v.filter, messages.BoothBookingsLoadFailed, v.err)
	}

	rows := []BoothBookingRow{}
	for _, b := range v.bookings {
		if v.filter.Event != "" && b.EventID != v.filter.Event {
			continue
		}
		rows = append(rows, BoothBookingRow{
			ID:      b.Id.Hex(),
			Company: model.OrNA(b.Company),
			Contact: strings.TrimSpace(b.FirstName + " " + b.LastName),
			Email:   b.Email,
			Event:   model.OrNA(b.EventTitle),
			Option:  model.OrNA(b.BoothOption.Name),
			Price:   model.GroupedMoney(b.BoothOption.Price),
			Created: model.DateLabel(b.CreatedAt),
			Status:  b.Status.OrDefault(),
		})
	}

	table := Table[BoothBookingRow]{Rows: rows, Filter: v.filter}
	if len(rows) == 0 {
		table = emptyTable[BoothBookingRow](v.filter, messages.BoothBookingsEmpty, nil)
	}
	table.EventOptions = v.events.options(false)
	return table
}

// SetStatus writes the new status, patches the cached row and re-renders
// with the current filter. On a store error the cache is left untouched.
func (v *BoothBookingsView) SetStatus(ctx context.Context, id string, status model.BookingStatus) (Table[BoothBookingRow], error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	i := v.indexOf(id)
	if i < 0 {
		return Table[BoothBookingRow]{}, ErrNotLoaded
	}
	now := v.now()
	if err := patchStatus(ctx, v.cols.BoothBookings, id, string(status), now); err != nil {
		return Table[BoothBookingRow]{}, err
	}
	v.bookings[i].Status = status
	v.bookings[i].UpdatedAt = model.At(now)
	return v.render(), nil
}

func (v *BoothBookingsView) indexOf(id string) int {
	for i, b := range v.bookings {
		if b.Id.Hex() == id {
			return i
		}
	}
	return -1
}

// patchStatus writes status and a fresh updatedAt to one document.
func patchStatus[T any](ctx context.Context, c database.Collection[T], id, status string, now time.Time) error {
	err := c.Update(ctx, id, bson.M{"status": status, "updatedAt": model.At(now)})
	if err != nil {
		return fmt.Errorf("set status %q: %w", status, err)
	}
	return nil
}
