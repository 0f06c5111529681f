package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Notification struct {
	Base      `bson:",inline"`
	UserID    primitive.ObjectID  `json:"user_id" bson:"user_id" validate:"required"`
	BookingID *primitive.ObjectID `json:"booking_id,omitempty" bson:"booking_id,omitempty"`
	Message   string              `json:"message" bson:"message" validate:"required"`
	IsRead    bool                `json:"is_read" bson:"is_read"`
}
