package editor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"events-webapp/database"
	"events-webapp/model"
	"events-webapp/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

var (
	ErrValidation = errors.New("invalid event form")
	ErrNoOption   = errors.New("no such booth option")
)

const (
	ListURL       = "/admin/events"
	RedirectDelay = 1500 * time.Millisecond
	ImageFolder   = "events"
)

type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// TagList names one of the free-text list fields of an event.
type TagList string

const (
	WhatToExpect    TagList = "whatToExpect"
	WhoShouldAttend TagList = "whoShouldAttend"
)

// Form is the editable shape of an event. Dates are yyyy-mm-dd strings as
// a date input sends them.
type Form struct {
	Title               string              `json:"title" validate:"required"`
	Description         string              `json:"description"`
	StartDate           string              `json:"startDate" validate:"required,datetime=2006-01-02"`
	StartTime           string              `json:"startTime"`
	EndDate             string              `json:"endDate" validate:"required,datetime=2006-01-02"`
	EndTime             string              `json:"endTime"`
	Venue               string              `json:"venue"`
	Location            string              `json:"location"`
	Organizer           string              `json:"organizer"`
	Phone               string              `json:"phone"`
	ImageURL            string              `json:"imageUrl"`
	Capacity            *int                `json:"capacity" validate:"omitempty,min=1"`
	Price               float64             `json:"price" validate:"min=0"`
	BoothBookingEnabled bool                `json:"boothBookingEnabled"`
	BoothOptions        []model.BoothOption `json:"boothOptions"`
	WhatToExpect        []string            `json:"whatToExpect"`
	WhoShouldAttend     []string            `json:"whoShouldAttend"`
}

// Editor is the event form bound to at most one stored event.
type Editor struct {
	Mode Mode   `json:"mode"`
	ID   string `json:"id,omitempty"`
	Form Form   `json:"form"`
}

// Result tells the page where to go once the save has been acknowledged.
type Result struct {
	ID            string `json:"id"`
	Mode          Mode   `json:"mode"`
	Redirect      string `json:"redirect"`
	RedirectAfter int64  `json:"redirectAfterMs"`
}

func New() *Editor {
	return &Editor{
		Mode: ModeCreate,
		Form: Form{
			BoothOptions:    []model.BoothOption{},
			WhatToExpect:    []string{},
			WhoShouldAttend: []string{},
		},
	}
}

// Open loads event id into an edit-mode editor.
func Open(ctx context.Context, events database.Collection[model.Event], id string) (*Editor, error) {
	event, err := events.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromEvent(id, event), nil
}

func FromEvent(id string, e model.Event) *Editor {
	ed := New()
	ed.Mode = ModeEdit
	ed.ID = id
	ed.Form = Form{
		Title:               e.Title,
		Description:         e.Description,
		StartDate:           model.FormDate(e.StartDate),
		StartTime:           e.StartTime,
		EndDate:             model.FormDate(e.EndDate),
		EndTime:             e.EndTime,
		Venue:               e.Venue,
		Location:            e.Location,
		Organizer:           e.Organizer,
		Phone:               e.Phone,
		ImageURL:            e.ImageURL,
		Capacity:            e.Capacity,
		Price:               e.Price,
		BoothBookingEnabled: e.BoothBookingEnabled,
		BoothOptions:        []model.BoothOption{},
		WhatToExpect:        append([]string{}, e.WhatToExpect...),
		WhoShouldAttend:     append([]string{}, e.WhoShouldAttend...),
	}
	for _, option := range e.BoothOptions {
		ed.Form.BoothOptions = append(ed.Form.BoothOptions, model.SnapshotOption(option))
	}
	return ed
}

// AddBoothOption appends an option card and returns its id.
func (ed *Editor) AddBoothOption(name string, price float64) string {
	id := uuid.NewString()
	ed.Form.BoothOptions = append(ed.Form.BoothOptions, model.BoothOption{
		ID:    id,
		Name:  name,
		Price: price,
		Items: []string{},
	})
	return id
}

func (ed *Editor) RemoveBoothOption(id string) error {
	for i, option := range ed.Form.BoothOptions {
		if option.ID == id {
			ed.Form.BoothOptions = append(ed.Form.BoothOptions[:i], ed.Form.BoothOptions[i+1:]...)
			return nil
		}
	}
	return ErrNoOption
}

func (ed *Editor) AddBoothItem(optionID, item string) error {
	item = strings.TrimSpace(item)
	for i := range ed.Form.BoothOptions {
		if ed.Form.BoothOptions[i].ID == optionID {
			if item != "" {
				ed.Form.BoothOptions[i].Items = append(ed.Form.BoothOptions[i].Items, item)
			}
			return nil
		}
	}
	return ErrNoOption
}

func (ed *Editor) RemoveBoothItem(optionID string, index int) error {
	for i := range ed.Form.BoothOptions {
		option := &ed.Form.BoothOptions[i]
		if option.ID != optionID {
			continue
		}
		if index >= 0 && index < len(option.Items) {
			option.Items = append(option.Items[:index], option.Items[index+1:]...)
		}
		return nil
	}
	return ErrNoOption
}

func (ed *Editor) tags(list TagList) *[]string {
	if list == WhoShouldAttend {
		return &ed.Form.WhoShouldAttend
	}
	return &ed.Form.WhatToExpect
}

// AddTag appends a trimmed, non-empty value to list.
func (ed *Editor) AddTag(list TagList, value string) {
	if value = strings.TrimSpace(value); value == "" {
		return
	}
	tags := ed.tags(list)
	*tags = append(*tags, value)
}

func (ed *Editor) RemoveTag(list TagList, index int) {
	tags := ed.tags(list)
	if index >= 0 && index < len(*tags) {
		*tags = append((*tags)[:index], (*tags)[index+1:]...)
	}
}

// normalize trims the form the way the cards are read back from the page:
// unnamed booth options and blank tags are dropped, options get an id.
func (ed *Editor) normalize() {
	ed.Form.Title = strings.TrimSpace(ed.Form.Title)
	ed.Form.StartDate = strings.TrimSpace(ed.Form.StartDate)
	ed.Form.EndDate = strings.TrimSpace(ed.Form.EndDate)

	options := ed.Form.BoothOptions
	ed.Form.BoothOptions = []model.BoothOption{}
	for _, option := range options {
		name := strings.TrimSpace(option.Name)
		if name == "" {
			continue
		}
		id := option.ID
		if id == "" {
			id = ed.AddBoothOption(name, option.Price)
		} else {
			ed.Form.BoothOptions = append(ed.Form.BoothOptions, model.BoothOption{ID: id, Name: name, Price: option.Price, Items: []string{}})
		}
		for _, item := range option.Items {
			_ = ed.AddBoothItem(id, item)
		}
	}

	for _, list := range []TagList{WhatToExpect, WhoShouldAttend} {
		values := *ed.tags(list)
		*ed.tags(list) = []string{}
		for _, value := range values {
			ed.AddTag(list, value)
		}
	}
}

// Validate checks the form before anything is uploaded or written.
func (ed *Editor) Validate() error {
	ed.normalize()
	if err := model.Validate(ed.Form); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(model.InvalidFields(err), ", "))
	}
	if ed.Form.EndDate < ed.Form.StartDate {
		return fmt.Errorf("%w: endDate before startDate", ErrValidation)
	}
	return nil
}

// Event builds the document the form describes. Timestamps are left to Save.
func (ed *Editor) Event() model.Event {
	f := ed.Form
	return model.Event{
		Title:               f.Title,
		Description:         f.Description,
		StartDate:           model.ParseInstant(f.StartDate),
		StartTime:           f.StartTime,
		EndDate:             model.ParseInstant(f.EndDate),
		EndTime:             f.EndTime,
		Venue:               f.Venue,
		Location:            f.Location,
		Organizer:           f.Organizer,
		Phone:               f.Phone,
		ImageURL:            f.ImageURL,
		Capacity:            f.Capacity,
		Price:               f.Price,
		BoothBookingEnabled: f.BoothBookingEnabled,
		BoothOptions:        f.BoothOptions,
		WhatToExpect:        f.WhatToExpect,
		WhoShouldAttend:     f.WhoShouldAttend,
	}
}

func fields(e model.Event, now time.Time) bson.M {
	return bson.M{
		"title":               e.Title,
		"description":         e.Description,
		"startDate":           e.StartDate,
		"startTime":           e.StartTime,
		"endDate":             e.EndDate,
		"endTime":             e.EndTime,
		"venue":               e.Venue,
		"location":            e.Location,
		"organizer":           e.Organizer,
		"phone":               e.Phone,
		"imageUrl":            e.ImageURL,
		"capacity":            e.Capacity,
		"price":               e.Price,
		"boothBookingEnabled": e.BoothBookingEnabled,
		"boothOptions":        e.BoothOptions,
		"whatToExpect":        e.WhatToExpect,
		"whoShouldAttend":     e.WhoShouldAttend,
		"updatedAt":           model.At(now),
	}
}

// Store is what Save writes through.
type Store struct {
	Events   database.Collection[model.Event]
	Uploader *storage.Uploader
	Now      func() time.Time
}

// Save validates the form, uploads image when given, then inserts or patches
// the event. A successful create clears the form. The image URL is only
// written once the upload has succeeded; if the write then fails the uploaded
// object is removed again and the form keeps its previous image URL.
func (ed *Editor) Save(ctx context.Context, store Store, image *storage.File, progress storage.ProgressFunc) (Result, error) {
	if err := ed.Validate(); err != nil {
		return Result{}, err
	}
	now := time.Now
	if store.Now != nil {
		now = store.Now
	}

	var uploaded storage.Upload
	previousImage := ed.Form.ImageURL
	if image != nil {
		if err := storage.CheckFile(*image, nil, storage.MaxImageSize); err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		up, err := store.Uploader.Upload(ctx, ImageFolder, *image, progress)
		if err != nil {
			return Result{}, err
		}
		uploaded = up
		ed.Form.ImageURL = up.URL
	}

	event := ed.Event()
	at := now()
	var err error
	switch ed.Mode {
	case ModeEdit:
		err = store.Events.Update(ctx, ed.ID, fields(event, at))
	default:
		event.CreatedAt = model.At(at)
		event.UpdatedAt = model.At(at)
		var id string
		if id, err = store.Events.Insert(ctx, event); err == nil {
			ed.ID = id
		}
	}

	if err != nil {
		if uploaded.Path != "" {
			ed.Form.ImageURL = previousImage
			if discardErr := store.Uploader.Discard(ctx, uploaded); discardErr != nil {
				log.Printf("editor: could not remove orphaned image %s: %v", uploaded.Path, discardErr)
			} else {
				log.Printf("editor: removed orphaned image %s", uploaded.Path)
			}
		}
		return Result{}, err
	}

	result := Result{
		ID:            ed.ID,
		Mode:          ed.Mode,
		Redirect:      ListURL,
		RedirectAfter: RedirectDelay.Milliseconds(),
	}
	if ed.Mode == ModeCreate {
		*ed = *New()
	}
	return result, nil
}
