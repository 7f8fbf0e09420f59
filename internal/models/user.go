package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserProfile is the slice of an already-managed user document this core
// reads when writing SOS booking history. Profile lifecycle belongs to the
// identity service.
type UserProfile struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FullName string             `json:"full_name" bson:"full_name"`
	Phone    string             `json:"phone" bson:"phone"`
}
