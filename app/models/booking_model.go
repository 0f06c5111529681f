package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	BookingStatusPending   = "pendiente"
	BookingStatusCompleted = "completada"
	BookingStatusCancelled = "cancelada"

	PaymentStatusPaid      = "pagado"
	PaymentStatusPending   = "pendiente"
	PaymentStatusCancelled = "cancelado"
)

type Booking struct {
	Base          `bson:",inline"`
	ClientID      primitive.ObjectID `json:"client_id" bson:"client_id" validate:"required"`
	ProviderID    primitive.ObjectID `json:"provider_id" bson:"provider_id" validate:"required"`
	ServiceID     primitive.ObjectID `json:"service_id" bson:"service_id" validate:"required"`
	Status        string             `json:"status" bson:"status" validate:"required,oneof=pendiente completada cancelada"`
	RequestDate   time.Time          `json:"request_date" bson:"request_date"`
	ScheduledDate *time.Time         `json:"scheduled_date,omitempty" bson:"scheduled_date,omitempty"`
	TotalPrice    float64            `json:"total_price" bson:"total_price" validate:"min=0"`
	PaymentStatus string             `json:"payment_status" bson:"payment_status" validate:"required,oneof=pagado pendiente cancelado"`
}

func (b *Booking) ApplyDefaults(now time.Time) {
	b.Status = BookingStatusPending
	b.PaymentStatus = PaymentStatusPending
	b.RequestDate = now
}
