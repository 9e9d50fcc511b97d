package model

import "go.mongodb.org/mongo-driver/bson/primitive"

type User struct {
	Id             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email          string             `json:"email" bson:"email"`
	HashedPassword string             `json:"-" bson:"password_hash,omitempty"`
	Role           string             `json:"role" bson:"role,omitempty"`
	CreatedAt      Instant            `json:"createdAt" bson:"createdAt,omitempty"`
}

const RoleAdmin = "admin"
