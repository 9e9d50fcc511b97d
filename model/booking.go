package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Booking is a ticket RSVP for one event. EventID is not checked against the events collection.
type Booking struct {
	Id         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	EventID    string             `json:"eventId" bson:"eventId"`
	Name       string             `json:"name" bson:"name"`
	Email      string             `json:"email" bson:"email"`
	Phone      string             `json:"phone" bson:"phone"`
	Tickets    int                `json:"tickets" bson:"tickets"`
	TotalPrice float64            `json:"totalPrice" bson:"totalPrice"`
	Status     BookingStatus      `json:"status" bson:"status"`
	CreatedAt  Instant            `json:"createdAt" bson:"createdAt,omitempty"`
	UpdatedAt  Instant            `json:"updatedAt" bson:"updatedAt,omitempty"`
}

// BoothBooking keeps a copy of the event title and of the chosen option as they were when submitted.
type BoothBooking struct {
	Id          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	EventID     string             `json:"eventId" bson:"eventId"`
	EventTitle  string             `json:"eventTitle" bson:"eventTitle"`
	BoothOption BoothOption        `json:"boothOption" bson:"boothOption"`
	FirstName   string             `json:"firstName" bson:"firstName"`
	LastName    string             `json:"lastName" bson:"lastName"`
	Email       string             `json:"email" bson:"email"`
	Company     string             `json:"company" bson:"company"`
	Position    string             `json:"position,omitempty" bson:"position,omitempty"`
	Phone       string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Status      BookingStatus      `json:"status" bson:"status"`
	CreatedAt   Instant            `json:"createdAt" bson:"createdAt,omitempty"`
	UpdatedAt   Instant            `json:"updatedAt" bson:"updatedAt,omitempty"`
}

// SnapshotOption copies an option so later edits of the event cannot reach the booking.
func SnapshotOption(option BoothOption) BoothOption {
	items := make([]string, len(option.Items))
	copy(items, option.Items)
	return BoothOption{
		ID:    option.ID,
		Name:  option.Name,
		Price: option.Price,
		Items: items,
	}
}
