package views

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"events-webapp/database"
	"events-webapp/messages"
	"events-webapp/model"

	"golang.org/x/sync/errgroup"
)

type PartnerRow struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Organization string              `json:"organization"`
	Email        string              `json:"email"`
	Event        string              `json:"event"`
	Level        string              `json:"sponsorshipLevel,omitempty"`
	TalkTitle    string              `json:"talkTitle,omitempty"`
	Services     string              `json:"services,omitempty"`
	Availability string              `json:"availability,omitempty"`
	Created      string              `json:"created,omitempty"`
	Status       model.PartnerStatus `json:"status"`
	Badge        string              `json:"badge"`
}

// Field is one labelled line of a detail modal. Link is set for clickable values.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Link  string `json:"link,omitempty"`
}

type PartnerDetail struct {
	ID        string              `json:"id"`
	Type      model.PartnerType   `json:"type"`
	Event     string              `json:"event"`
	Submitted string              `json:"submitted"`
	Status    model.PartnerStatus `json:"status"`
	Fields    []Field             `json:"fields"`
	BioURL    string              `json:"bioUrl,omitempty"`
	Message   string              `json:"message,omitempty"`
}

// PartnersView lists the applications of one partner type.
type PartnersView struct {
	mu          sync.Mutex
	cols        *database.Collections
	partnerType model.PartnerType
	now         func() time.Time

	loaded   bool
	err      error
	events   eventIndex
	partners []model.Partner
	filter   Filter
}

func NewPartnersView(cols *database.Collections, t model.PartnerType) *PartnersView {
	return &PartnersView{cols: cols, partnerType: t, now: time.Now}
}

func (v *PartnersView) Sync(ctx context.Context, refresh bool) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.loaded && !refresh {
		return nil
	}

	var (
		events   eventIndex
		partners []model.Partner
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		events, err = loadEvents(gctx, v.cols, database.Query{})
		return err
	})
	g.Go(func() (err error) {
		partners, err = v.cols.Partners.All(gctx, database.Query{})
		return err
	})
	if err := g.Wait(); err != nil {
		logLoadError(string(v.partnerType)+"s", err)
		v.loaded, v.err = false, err
		return err
	}

	ofType := partners[:0]
	for _, p := range partners {
		if p.Type() == v.partnerType {
			ofType = append(ofType, p)
		}
	}
	sort.SliceStable(ofType, func(i, j int) bool {
		return ofType[i].CreatedAt.UnixMilli() > ofType[j].CreatedAt.UnixMilli()
	})

	v.events, v.partners = events, ofType
	v.loaded, v.err = true, nil
	return nil
}

func (v *PartnersView) Render(filter Filter) Table[PartnerRow] {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = filter
	return v.render()
}

func (v *PartnersView) render() Table[PartnerRow] {
	if v.err != nil {
		return failedTable[PartnerRow](v.filter, messages.PartnersLoadFailed, v.err)
	}

	rows := []PartnerRow{}
	for _, p := range v.partners {
		status := p.Status.OrDefault()
		if v.filter.Event != "" && p.EventID != v.filter.Event {
			continue
		}
		if v.filter.Status != "" && string(status) != v.filter.Status {
			continue
		}
		row := PartnerRow{
			ID:           p.Id.Hex(),
			Name:         model.OrDash(p.Name),
			Organization: model.OrDash(p.Organization),
			Email:        model.OrDash(p.Email),
			Event:        v.eventTitle(p),
			Status:       status,
			Badge:        strings.ToUpper(string(status)),
		}
		switch d := p.Details.(type) {
		case model.SponsorDetails:
			row.Level = model.SponsorshipLevelLabel(d.SponsorshipLevel)
			row.Created = model.DateLabel(p.CreatedAt)
		case model.SpeakerDetails:
			row.TalkTitle = model.Truncate(d.TalkTitle, 30)
			row.Created = model.DateLabel(p.CreatedAt)
		case model.VolunteerDetails:
			services := model.Dash
			if d.Services != nil {
				services = model.Truncate(strings.Join(d.Services, ", "), 25)
			}
			row.Services = services
			row.Availability = model.AvailabilityLabel(d.Availability)
		}
		rows = append(rows, row)
	}

	table := Table[PartnerRow]{Rows: rows, Filter: v.filter}
	if len(rows) == 0 {
		table = emptyTable[PartnerRow](v.filter, messages.PartnersEmpty, map[string]any{"Type": v.partnerType})
	}
	table.EventOptions = v.events.options(true)
	return table
}

func (v *PartnersView) eventTitle(p model.Partner) string {
	if p.EventTitle != "" {
		return p.EventTitle
	}
	return v.events.title(p.EventID)
}

// Detail builds the modal content from the cache.
func (v *PartnersView) Detail(id string) (PartnerDetail, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	i := v.indexOf(id)
	if i < 0 {
		return PartnerDetail{}, ErrNotLoaded
	}
	p := v.partners[i]

	detail := PartnerDetail{
		ID:        p.Id.Hex(),
		Type:      p.Type(),
		Event:     v.eventTitle(p),
		Submitted: model.DateTimeLabel(p.CreatedAt),
		Status:    p.Status.OrDefault(),
		BioURL:    p.BioURL,
		Message:   p.Message,
		Fields: []Field{
			{Label: "Name", Value: model.OrNA(p.Name)},
			{Label: "Email", Value: model.OrNA(p.Email), Link: mailto(p.Email)},
			{Label: "Phone", Value: model.OrNA(p.Phone)},
			{Label: "Organization", Value: model.OrNA(p.Organization)},
			{Label: "Position", Value: model.OrNA(p.Position)},
		},
	}

	switch d := p.Details.(type) {
	case model.SponsorDetails:
		level := model.NotAvailable
		if d.SponsorshipLevel != "" {
			level = model.SponsorshipLevelLabel(d.SponsorshipLevel)
		}
		detail.Fields = append(detail.Fields,
			Field{Label: "Sponsorship Level", Value: level},
			Field{Label: "Website", Value: model.OrNA(d.Website), Link: d.Website},
			Field{Label: "Company Description", Value: orText(d.CompanyDescription, "No description provided.")},
		)
	case model.SpeakerDetails:
		linkedIn := model.NotAvailable
		if d.LinkedIn != "" {
			linkedIn = "View Profile"
		}
		detail.Fields = append(detail.Fields,
			Field{Label: "LinkedIn", Value: linkedIn, Link: d.LinkedIn},
			Field{Label: "Expertise", Value: model.OrNA(d.Expertise)},
			Field{Label: "Talk Title", Value: orText(d.TalkTitle, "No title provided.")},
			Field{Label: "Talk Description", Value: orText(d.TalkDescription, "No description provided.")},
			Field{Label: "Previous Speaking Experience", Value: orText(d.PreviousSpeaking, "None provided.")},
		)
	case model.VolunteerDetails:
		services := "None selected"
		if d.Services != nil {
			services = strings.Join(d.Services, ", ")
		}
		availability := model.NotAvailable
		if d.Availability != "" {
			availability = model.AvailabilityLabel(d.Availability)
		}
		detail.Fields = append(detail.Fields,
			Field{Label: "Services", Value: services},
			Field{Label: "Availability", Value: availability},
			Field{Label: "Experience", Value: orText(d.Experience, "None provided.")},
		)
	}
	return detail, nil
}

func (v *PartnersView) SetStatus(ctx context.Context, id string, status model.PartnerStatus) (Table[PartnerRow], error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	i := v.indexOf(id)
	if i < 0 {
		return Table[PartnerRow]{}, ErrNotLoaded
	}
	now := v.now()
	if err := patchStatus(ctx, v.cols.Partners, id, string(status), now); err != nil {
		return Table[PartnerRow]{}, err
	}
	v.partners[i].Status = status
	v.partners[i].UpdatedAt = model.At(now)
	return v.render(), nil
}

func (v *PartnersView) Delete(ctx context.Context, id string) (Table[PartnerRow], error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	i := v.indexOf(id)
	if i < 0 {
		return Table[PartnerRow]{}, ErrNotLoaded
	}
	if err := v.cols.Partners.Delete(ctx, id); err != nil {
		return Table[PartnerRow]{}, err
	}
	v.partners = append(v.partners[:i], v.partners[i+1:]...)
	return v.render(), nil
}

func (v *PartnersView) indexOf(id string) int {
	for i, p := range v.partners {
		if p.Id.Hex() == id {
			return i
		}
	}
	return -1
}

func orText(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func mailto(email string) string {
	if email == "" {
		return ""
	}
	return "mailto:" + email
}
