package model

import "go.mongodb.org/mongo-driver/bson/primitive"

type BoothOption struct {
	ID    string   `json:"id" bson:"id"`
	Name  string   `json:"name" bson:"name"`
	Price float64  `json:"price" bson:"price"`
	Items []string `json:"items" bson:"items"`
}

type Event struct {
	Id                  primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title               string             `json:"title" bson:"title"`
	Description         string             `json:"description" bson:"description"`
	StartDate           Instant            `json:"startDate" bson:"startDate"`
	StartTime           string             `json:"startTime,omitempty" bson:"startTime,omitempty"`
	EndDate             Instant            `json:"endDate" bson:"endDate"`
	EndTime             string             `json:"endTime,omitempty" bson:"endTime,omitempty"`
	Venue               string             `json:"venue" bson:"venue"`
	Location            string             `json:"location" bson:"location"`
	Organizer           string             `json:"organizer" bson:"organizer"`
	Phone               string             `json:"phone" bson:"phone"`
	ImageURL            string             `json:"imageUrl" bson:"imageUrl"`
	Capacity            *int               `json:"capacity" bson:"capacity"`
	Price               float64            `json:"price" bson:"price"`
	BoothBookingEnabled bool               `json:"boothBookingEnabled" bson:"boothBookingEnabled"`
	BoothOptions        []BoothOption      `json:"boothOptions" bson:"boothOptions"`
	WhatToExpect        []string           `json:"whatToExpect" bson:"whatToExpect"`
	WhoShouldAttend     []string           `json:"whoShouldAttend" bson:"whoShouldAttend"`
	CreatedAt           Instant            `json:"createdAt" bson:"createdAt,omitempty"`
	UpdatedAt           Instant            `json:"updatedAt" bson:"updatedAt,omitempty"`
}

// EffectiveEnd is the end date, or the start date when no end was recorded.
func (e Event) EffectiveEnd() Instant {
	if e.EndDate.IsSet() {
		return e.EndDate
	}
	return e.StartDate
}

func (e Event) BoothOption(id string) (BoothOption, bool) {
	for _, option := range e.BoothOptions {
		if option.ID == id {
			return option, true
		}
	}
	return BoothOption{}, false
}

// BoothBookingOpen reports whether the public booth booking page should list options.
func (e Event) BoothBookingOpen() bool {
	return e.BoothBookingEnabled && len(e.BoothOptions) > 0
}

// MaxTicketsPerBooking caps the ticket selector at five, or the capacity when smaller.
func (e Event) MaxTicketsPerBooking() int {
	if e.Capacity != nil && *e.Capacity > 0 && *e.Capacity < 5 {
		return *e.Capacity
	}
	return 5
}

func (e Event) DisplayTitle() string {
	if e.Title == "" {
		return "Untitled Event"
	}
	return e.Title
}
