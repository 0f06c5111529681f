package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type PortfolioItem struct {
	Base        `bson:",inline"`
	ProfileID   primitive.ObjectID `json:"profile_id" bson:"profile_id" validate:"required"`
	Title       string             `json:"title" bson:"title" validate:"required,lte=255"`
	Description string             `json:"description" bson:"description"`
	ImageURL    string             `json:"image_url" bson:"image_url" validate:"omitempty,url"`
}
