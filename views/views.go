package views

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"

	"events-webapp/database"
	"events-webapp/messages"
	"events-webapp/model"
)

// ErrNotLoaded is returned when a mutation targets a record that is not in the page cache.
var ErrNotLoaded = errors.New("record not loaded")

const UnknownEvent = "Unknown Event"

// Placeholder replaces the rows of a table that has nothing to show.
// Key is a messages id the caller translates into Text. Refresh marks a failed
// load; the page offers a refresh action that repeats the request with refresh=1.
type Placeholder struct {
	Key     string         `json:"key"`
	Data    map[string]any `json:"-"`
	Text    string         `json:"text"`
	Detail  string         `json:"detail,omitempty"`
	Link    string         `json:"link,omitempty"`
	Refresh bool           `json:"refresh,omitempty"`
}

// Translate fills Text for locale.
func (p *Placeholder) Translate(t messages.Translator, locale string) {
	if p == nil {
		return
	}
	p.Text = t.T(locale, p.Key, p.Data)
}

// Filter holds the dropdown selections of a list page. Empty means "all".
type Filter struct {
	Event  string `json:"event"`
	Status string `json:"status"`
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Table[R any] struct {
	Rows         []R          `json:"rows"`
	Placeholder  *Placeholder `json:"placeholder,omitempty"`
	Filter       Filter       `json:"filter"`
	EventOptions []Option     `json:"eventOptions,omitempty"`
}

func emptyTable[R any](filter Filter, key string, data map[string]any) Table[R] {
	return Table[R]{
		Rows:        []R{},
		Filter:      filter,
		Placeholder: &Placeholder{Key: key, Data: data},
	}
}

func failedTable[R any](filter Filter, key string, err error) Table[R] {
	return Table[R]{
		Rows:        []R{},
		Filter:      filter,
		Placeholder: &Placeholder{Key: key, Detail: err.Error(), Refresh: true},
	}
}

// eventIndex is the id → event lookup list pages use for titles and the event filter.
type eventIndex struct {
	order []string
	byID  map[string]model.Event
}

func newEventIndex(events []model.Event) eventIndex {
	idx := eventIndex{byID: make(map[string]model.Event, len(events))}
	for _, e := range events {
		id := e.Id.Hex()
		idx.order = append(idx.order, id)
		idx.byID[id] = e
	}
	return idx
}

func (idx eventIndex) title(id string) string {
	if e, ok := idx.byID[id]; ok {
		return e.DisplayTitle()
	}
	return UnknownEvent
}

// options lists events in load order, or by title when byTitle is set.
func (idx eventIndex) options(byTitle bool) []Option {
	opts := make([]Option, 0, len(idx.order))
	for _, id := range idx.order {
		opts = append(opts, Option{Value: id, Label: idx.byID[id].DisplayTitle()})
	}
	if byTitle {
		sort.SliceStable(opts, func(i, j int) bool { return opts[i].Label < opts[j].Label })
	}
	return opts
}

func logLoadError(page string, err error) {
	log.Printf("views: loading %s failed: %v", page, err)
}

// Session is the page state of one signed-in admin.
type Session struct {
	Bookings      *BookingsView
	BoothBookings *BoothBookingsView
	Contacts      *ContactsView

	mu       sync.Mutex
	cols     *database.Collections
	partners map[model.PartnerType]*PartnersView
}

func (s *Session) Partners(t model.PartnerType) *PartnersView {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.partners[t]
	if !ok {
		v = NewPartnersView(s.cols, t)
		s.partners[t] = v
	}
	return v
}

// Pages keeps one Session per admin identity. Sessions never see each other's caches.
type Pages struct {
	cols *database.Collections

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewPages(cols *database.Collections) *Pages {
	return &Pages{cols: cols, sessions: map[string]*Session{}}
}

func (p *Pages) For(identity string) *Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sessions[identity]
	if !ok {
		s = &Session{
			Bookings:      NewBookingsView(p.cols),
			BoothBookings: NewBoothBookingsView(p.cols),
			Contacts:      NewContactsView(p.cols),
			cols:          p.cols,
			partners:      map[model.PartnerType]*PartnersView{},
		}
		p.sessions[identity] = s
	}
	return s
}

// Drop forgets the page state of identity, on logout.
func (p *Pages) Drop(identity string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.sessions, identity)
}

// loadEvents reads the events collection alongside another load.
func loadEvents(ctx context.Context, cols *database.Collections, q database.Query) (eventIndex, error) {
	events, err := cols.Events.All(ctx, q)
	if err != nil {
		return eventIndex{}, err
	}
	return newEventIndex(events), nil
}
