package model

import "go.mongodb.org/mongo-driver/bson/primitive"

type Contact struct {
	Id        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"`
	Phone     string             `json:"phone" bson:"phone"`
	Subject   string             `json:"subject" bson:"subject"`
	Message   string             `json:"message" bson:"message"`
	Status    ContactStatus      `json:"status" bson:"status"`
	CreatedAt Instant            `json:"createdAt" bson:"createdAt,omitempty"`
	UpdatedAt Instant            `json:"updatedAt" bson:"updatedAt,omitempty"`
}
