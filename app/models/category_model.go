package models

type Category struct {
	Base        `bson:",inline"`
	Name        string `json:"name" bson:"name" validate:"required,lte=255"`
	Description string `json:"description" bson:"description"`
	Icon        string `json:"icon" bson:"icon"`
}
