package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RadiusUnitKilometers = "km"
	RadiusUnitMeters     = "m"
)

type Profile struct {
	Base               `bson:",inline"`
	UserID             primitive.ObjectID   `json:"user_id" bson:"user_id" validate:"required"`
	Bio                string               `json:"bio" bson:"bio"`
	ProfilePicture     string               `json:"profile_picture" bson:"profile_picture"`
	ServiceAddress     string               `json:"service_address" bson:"service_address"`
	ServiceLat         *float64             `json:"service_lat,omitempty" bson:"service_lat,omitempty" validate:"omitempty,min=-90,max=90"`
	ServiceLng         *float64             `json:"service_lng,omitempty" bson:"service_lng,omitempty" validate:"omitempty,min=-180,max=180"`
	ServiceRadiusValue float64              `json:"service_radius_value" bson:"service_radius_value" validate:"min=0"`
	ServiceRadiusUnit  string               `json:"service_radius_unit" bson:"service_radius_unit" validate:"oneof=km m"`
	RatingAverage      float64              `json:"rating_average" bson:"rating_average" validate:"min=0,max=5"`
	JobsCompleted      int                  `json:"jobs_completed" bson:"jobs_completed" validate:"min=0"`
	Categories         []primitive.ObjectID `json:"categories" bson:"categories"`
}

func (p *Profile) ApplyDefaults(now time.Time) {
	p.ServiceRadiusUnit = RadiusUnitKilometers
	p.Categories = []primitive.ObjectID{}
}
