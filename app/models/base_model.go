package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Base carries the store-managed fields shared by every document.
type Base struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func (b *Base) GetID() primitive.ObjectID { return b.ID }

func (b *Base) SetID(id primitive.ObjectID) { b.ID = id }

func (b *Base) Touch(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// Document is implemented by every stored entity through its embedded Base.
type Document interface {
	GetID() primitive.ObjectID
	SetID(primitive.ObjectID)
	Touch(now time.Time)
}

// Defaulter is implemented by documents with field defaults applied before
// a create request body is decoded over them.
type Defaulter interface {
	ApplyDefaults(now time.Time)
}

// ServerManagedFields are accepted in request bodies but never applied.
var ServerManagedFields = []string{"_id", "createdAt", "updatedAt", "__v"}
