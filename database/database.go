package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"reflect"

	"events-webapp/model"

	"go.mongodb.org/mongo-driver/bson"
)

var ErrNotFound = errors.New("document not found")

const (
	EventsCollection        = "events"
	BookingsCollection      = "bookings"
	BoothBookingsCollection = "boothBookings"
	ContactsCollection      = "contacts"
	PartnersCollection      = "partners"
	UsersCollection         = "users"
)

// Query selects every document of a collection, optionally ordered and limited.
type Query struct {
	OrderBy    string
	Descending bool
	Limit      int64
}

func OrderBy(field string, descending bool) Query {
	return Query{OrderBy: field, Descending: descending}
}

// Backend is a document store addressed by collection name and opaque id.
type Backend interface {
	Find(ctx context.Context, collection string, q Query, out interface{}) error
	FindByID(ctx context.Context, collection, id string, out interface{}) error
	FindOneBy(ctx context.Context, collection, field string, value interface{}, out interface{}) error
	Insert(ctx context.Context, collection string, doc interface{}) (string, error)
	Update(ctx context.Context, collection, id string, fields bson.M) error
	Delete(ctx context.Context, collection, id string) error
	Count(ctx context.Context, collection string) (int64, error)
}

// Collection is a typed view over one backend collection.
type Collection[T any] struct {
	name    string
	backend Backend
}

func NewCollection[T any](backend Backend, name string) Collection[T] {
	return Collection[T]{name: name, backend: backend}
}

func (c Collection[T]) All(ctx context.Context, q Query) ([]T, error) {
	out := []T{}
	if err := c.backend.Find(ctx, c.name, q, &out); err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}
	return out, nil
}

func (c Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var doc T
	if err := c.backend.FindByID(ctx, c.name, id, &doc); err != nil {
		return doc, fmt.Errorf("get %s %s: %w", c.name, id, err)
	}
	return doc, nil
}

func (c Collection[T]) FindBy(ctx context.Context, field string, value interface{}) (T, error) {
	var doc T
	if err := c.backend.FindOneBy(ctx, c.name, field, value, &doc); err != nil {
		return doc, fmt.Errorf("find %s by %s: %w", c.name, field, err)
	}
	return doc, nil
}

func (c Collection[T]) Insert(ctx context.Context, doc T) (string, error) {
	id, err := c.backend.Insert(ctx, c.name, doc)
	if err != nil {
		return "", fmt.Errorf("insert %s: %w", c.name, err)
	}
	return id, nil
}

func (c Collection[T]) Update(ctx context.Context, id string, fields bson.M) error {
	if err := c.backend.Update(ctx, c.name, id, fields); err != nil {
		return fmt.Errorf("update %s %s: %w", c.name, id, err)
	}
	return nil
}

func (c Collection[T]) Delete(ctx context.Context, id string) error {
	if err := c.backend.Delete(ctx, c.name, id); err != nil {
		return fmt.Errorf("delete %s %s: %w", c.name, id, err)
	}
	return nil
}

func (c Collection[T]) Count(ctx context.Context) (int64, error) {
	n, err := c.backend.Count(ctx, c.name)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", c.name, err)
	}
	return n, nil
}

// Collections groups the typed collections the site uses.
type Collections struct {
	Events        Collection[model.Event]
	Bookings      Collection[model.Booking]
	BoothBookings Collection[model.BoothBooking]
	Contacts      Collection[model.Contact]
	Partners      Collection[model.Partner]
	Users         Collection[model.User]
}

func NewCollections(backend Backend) *Collections {
	return &Collections{
		Events:        NewCollection[model.Event](backend, EventsCollection),
		Bookings:      NewCollection[model.Booking](backend, BookingsCollection),
		BoothBookings: NewCollection[model.BoothBooking](backend, BoothBookingsCollection),
		Contacts:      NewCollection[model.Contact](backend, ContactsCollection),
		Partners:      NewCollection[model.Partner](backend, PartnersCollection),
		Users:         NewCollection[model.User](backend, UsersCollection),
	}
}

// decodeAll decodes raw documents into out, a pointer to a slice. Documents
// that do not match the element schema are logged and skipped.
func decodeAll(collection string, raws []bson.Raw, out interface{}) error {
	slice := reflect.ValueOf(out)
	if slice.Kind() != reflect.Pointer || slice.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("decode %s: out must be a pointer to a slice, got %T", collection, out)
	}
	elemType := slice.Elem().Type().Elem()
	result := reflect.MakeSlice(slice.Elem().Type(), 0, len(raws))

	for _, raw := range raws {
		elem := reflect.New(elemType)
		if err := bson.Unmarshal(raw, elem.Interface()); err != nil {
			log.Printf("database: skipping malformed %s document %v: %v", collection, raw.Lookup("_id"), err)
			continue
		}
		result = reflect.Append(result, elem.Elem())
	}

	slice.Elem().Set(result)
	return nil
}
