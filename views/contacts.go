package views

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"events-webapp/database"
	"events-webapp/messages"
	"events-webapp/model"
)

type ContactRow struct {
	ID      string              `json:"id"`
	Name    string              `json:"name"`
	Email   string              `json:"email"`
	Phone   string              `json:"phone"`
	Subject string              `json:"subject"`
	Created string              `json:"created"`
	Status  model.ContactStatus `json:"status"`
	New     bool                `json:"new"`
}

type ContactDetail struct {
	ID      string              `json:"id"`
	Subject string              `json:"subject"`
	Name    string              `json:"name"`
	Email   string              `json:"email"`
	Phone   string              `json:"phone"`
	Message string              `json:"message"`
	Date    string              `json:"date"`
	Status  model.ContactStatus `json:"status"`
	ReplyTo string              `json:"replyTo"`
}

// ContactsView is the contact submissions page with a status filter and a detail modal.
type ContactsView struct {
	mu   sync.Mutex
	cols *database.Collections
	now  func() time.Time

	loaded   bool
	err      error
	contacts []model.Contact
	filter   Filter
}

func NewContactsView(cols *database.Collections) *ContactsView {
	return &ContactsView{cols: cols, now: time.Now}
}

func (v *ContactsView) Sync(ctx context.Context, refresh bool) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.loaded && !refresh {
		return nil
	}

	contacts, err := v.cols.Contacts.All(ctx, database.OrderBy("createdAt", true))
	if err != nil {
		logLoadError("contacts", err)
		v.loaded, v.err = false, err
		return err
	}
	v.contacts = contacts
	v.loaded, v.err = true, nil
	return nil
}

func (v *ContactsView) Render(filter Filter) Table[ContactRow] {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = Filter{Status: filter.Status}
	return v.render()
}

func (v *ContactsView) render() Table[ContactRow] {
	if v.err != nil {
		return failedTable[ContactRow](v.filter, messages.ContactsLoadFailed, v.err)
	}

	rows := []ContactRow{}
	for _, c := range v.contacts {
		status := c.Status.OrDefault()
		if v.filter.Status != "" && string(status) != v.filter.Status {
			continue
		}
		rows = append(rows, ContactRow{
			ID:      c.Id.Hex(),
			Name:    model.OrNA(c.Name),
			Email:   model.OrNA(c.Email),
			Phone:   model.OrNA(c.Phone),
			Subject: model.OrNA(c.Subject),
			Created: model.DateTimeLabel(c.CreatedAt),
			Status:  status,
			New:     status == model.ContactNew,
		})
	}
	if len(rows) == 0 {
		return emptyTable[ContactRow](v.filter, messages.ContactsEmpty, nil)
	}
	return Table[ContactRow]{Rows: rows, Filter: v.filter}
}

// Open returns the detail of a cached contact. A new contact is marked read first.
func (v *ContactsView) Open(ctx context.Context, id string) (ContactDetail, Table[ContactRow], error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	i := v.indexOf(id)
	if i < 0 {
		return ContactDetail{}, Table[ContactRow]{}, ErrNotLoaded
	}
	if v.contacts[i].Status.OrDefault() == model.ContactNew {
		if err := v.setStatus(ctx, i, model.ContactRead); err != nil {
			return ContactDetail{}, Table[ContactRow]{}, err
		}
	}
	return contactDetail(v.contacts[i]), v.render(), nil
}

func (v *ContactsView) MarkReplied(ctx context.Context, id string) (Table[ContactRow], error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	i := v.indexOf(id)
	if i < 0 {
		return Table[ContactRow]{}, ErrNotLoaded
	}
	if err := v.setStatus(ctx, i, model.ContactReplied); err != nil {
		return Table[ContactRow]{}, err
	}
	return v.render(), nil
}

func (v *ContactsView) Delete(ctx context.Context, id string) (Table[ContactRow], error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	i := v.indexOf(id)
	if i < 0 {
		return Table[ContactRow]{}, ErrNotLoaded
	}
	if err := v.cols.Contacts.Delete(ctx, id); err != nil {
		return Table[ContactRow]{}, err
	}
	v.contacts = append(v.contacts[:i], v.contacts[i+1:]...)
	return v.render(), nil
}

func (v *ContactsView) setStatus(ctx context.Context, i int, status model.ContactStatus) error {
	now := v.now()
	if err := patchStatus(ctx, v.cols.Contacts, v.contacts[i].Id.Hex(), string(status), now); err != nil {
		return err
	}
	v.contacts[i].Status = status
	v.contacts[i].UpdatedAt = model.At(now)
	return nil
}

func (v *ContactsView) indexOf(id string) int {
	for i, c := range v.contacts {
		if c.Id.Hex() == id {
			return i
		}
	}
	return -1
}

func contactDetail(c model.Contact) ContactDetail {
	subject := c.Subject
	if subject == "" {
		subject = "No Subject"
	}
	message := c.Message
	if message == "" {
		message = "No message provided."
	}
	return ContactDetail{
		ID:      c.Id.Hex(),
		Subject: subject,
		Name:    model.OrNA(c.Name),
		Email:   model.OrNA(c.Email),
		Phone:   model.OrNA(c.Phone),
		Message: message,
		Date:    model.DateTimeLabel(c.CreatedAt),
		Status:  c.Status.OrDefault(),
		ReplyTo: ReplyLink(c.Email, c.Subject),
	}
}

// ReplyLink builds the mailto link of the reply button.
func ReplyLink(email, subject string) string {
	if subject == "" {
		subject = "Your inquiry"
	}
	escaped := strings.ReplaceAll(url.QueryEscape("Re: "+subject), "+", "%20")
	return "mailto:" + email + "?subject=" + escaped
}
