package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PriceTypeHour    = "por_hora"
	PriceTypeDay     = "por_dia"
	PriceTypeWeek    = "por_semana"
	PriceTypeMonth   = "por_mes"
	PriceTypeProject = "por_proyecto"
	PriceTypeService = "por_servicio"
	PriceTypeMeter   = "por_metro"
	PriceTypeToAgree = "a_convenir"
)

// Service is a listing offered by a provider. The categores_id wire name is
// kept as-is for existing clients.
type Service struct {
	Base              `bson:",inline"`
	UserID            primitive.ObjectID   `json:"user_id" bson:"user_id" validate:"required"`
	CategoryIDs       []primitive.ObjectID `json:"categores_id" bson:"categores_id"`
	Title             string               `json:"title" bson:"title" validate:"required,lte=255"`
	Description       string               `json:"description" bson:"description"`
	PriceType         string               `json:"price_type" bson:"price_type" validate:"required,oneof=por_hora por_dia por_semana por_mes por_proyecto por_servicio por_metro a_convenir"`
	Price             float64              `json:"price" bson:"price" validate:"min=0"`
	Photos            []string             `json:"photos" bson:"photos"`
	MaterialsIncluded bool                 `json:"materials_included" bson:"materials_included"`
	DiscountAplied    bool                 `json:"discount_aplied" bson:"discount_aplied"`
	DiscountRecurring float64              `json:"discount_recurring" bson:"discount_recurring" validate:"min=0,max=100"`
	IsActive          bool                 `json:"is_active" bson:"is_active"`
}

func (s *Service) ApplyDefaults(now time.Time) {
	s.IsActive = true
	s.CategoryIDs = []primitive.ObjectID{}
	s.Photos = []string{}
}

// EffectiveDiscount is the recurring discount percentage, or zero when no
// discount is applied.
func (s *Service) EffectiveDiscount() float64 {
	if !s.DiscountAplied {
		return 0
	}
	return s.DiscountRecurring
}
