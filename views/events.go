package views

import (
	"context"

	"events-webapp/database"
	"events-webapp/messages"
	"events-webapp/model"

	"golang.org/x/sync/errgroup"
)

const (
	AddEventURL  = "/admin/events.html?action=add"
	editEventURL = "/admin/events.html?action=edit&id="
)

type EventRow struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Venue    string `json:"venue"`
	Bookings int    `json:"bookings"`
	EditURL  string `json:"editUrl"`
}

// EventsTable lists every event, latest start first, with its RSVP count.
// It is rebuilt on every visit.
func EventsTable(ctx context.Context, cols *database.Collections) Table[EventRow] {
	var (
		events   []model.Event
		bookings []model.Booking
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		events, err = cols.Events.All(gctx, database.OrderBy("startDate", true))
		return err
	})
	g.Go(func() (err error) {
		bookings, err = cols.Bookings.All(gctx, database.Query{})
		return err
	})
	if err := g.Wait(); err != nil {
		logLoadError("events", err)
		return failedTable[EventRow](Filter{}, messages.EventsLoadFailed, err)
	}

	if len(events) == 0 {
		table := emptyTable[EventRow](Filter{}, messages.EventsEmpty, nil)
		table.Placeholder.Link = AddEventURL
		return table
	}

	counts := map[string]int{}
	for _, b := range bookings {
		counts[b.EventID]++
	}

	rows := make([]EventRow, 0, len(events))
	for _, e := range events {
		id := e.Id.Hex()
		title := e.Title
		if title == "" {
			title = "Untitled"
		}
		rows = append(rows, EventRow{
			ID:       id,
			Title:    title,
			Start:    model.DateLabel(e.StartDate),
			End:      model.DateLabel(e.EndDate),
			Venue:    model.OrDash(e.Venue),
			Bookings: counts[id],
			EditURL:  editEventURL + id,
		})
	}
	return Table[EventRow]{Rows: rows}
}

type Dashboard struct {
	EventsCount   int64        `json:"eventsCount"`
	BookingsCount int64        `json:"bookingsCount"`
	RecentEvents  []Option     `json:"recentEvents"`
	Placeholder   *Placeholder `json:"placeholder,omitempty"`
}

// LoadDashboard counts events and bookings and lists the five latest events.
func LoadDashboard(ctx context.Context, cols *database.Collections) (Dashboard, error) {
	var (
		dash   Dashboard
		recent []model.Event
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		dash.EventsCount, err = cols.Events.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		dash.BookingsCount, err = cols.Bookings.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		q := database.OrderBy("startDate", true)
		q.Limit = 5
		recent, err = cols.Events.All(gctx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		logLoadError("dashboard", err)
		return Dashboard{}, err
	}

	dash.RecentEvents = make([]Option, 0, len(recent))
	for _, e := range recent {
		dash.RecentEvents = append(dash.RecentEvents, Option{Value: e.Id.Hex(), Label: e.DisplayTitle()})
	}
	if len(recent) == 0 {
		dash.Placeholder = &Placeholder{Key: messages.EventsEmpty, Link: AddEventURL}
	}
	return dash, nil
}
