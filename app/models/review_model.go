package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Review struct {
	Base        `bson:",inline"`
	UserID      primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	ServiceID   primitive.ObjectID `json:"service_id" bson:"service_id" validate:"required"`
	Rating      float64            `json:"rating" bson:"rating" validate:"min=0,max=5"`
	Comment     string             `json:"comment" bson:"comment"`
	IsAnonymous bool               `json:"is_anonymous" bson:"is_anonymous"`
}
