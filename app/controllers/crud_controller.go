package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gilanghuda/corejob-backend/app/models"
	"github.com/gilanghuda/corejob-backend/app/queries"
	"github.com/gilanghuda/corejob-backend/pkg/config"
	"github.com/gilanghuda/corejob-backend/pkg/database"
	"github.com/gilanghuda/corejob-backend/pkg/events"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = validator.New()

// Patch is a decoded request body keyed by wire field name.
type Patch map[string]json.RawMessage

func (p Patch) Has(field string) bool {
	_, ok := p[field]
	return ok
}

// HasValue reports whether field is present with a non-null value. A null
// leaves the merged field unchanged.
func (p Patch) HasValue(field string) bool {
	raw, ok := p[field]
	return ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// CRUDHandlers is the list/get/create/update/delete handler set mounted for
// every entity.
type CRUDHandlers interface {
	List(c *fiber.Ctx) error
	Get(c *fiber.Ctx) error
	Create(c *fiber.Ctx) error
	Update(c *fiber.Ctx) error
	Delete(c *fiber.Ctx) error
}

// Resource implements CRUDHandlers for one document type.
type Resource[T any, P interface {
	*T
	models.Document
}] struct {
	Entity     string
	Plural     string
	Collection string

	// DuplicateMessage is returned with 409 when the store reports a unique
	// index violation.
	DuplicateMessage string

	// BeforeSave runs after validation and before the write.
	BeforeSave func(ctx context.Context, doc P, patch Patch, creating bool) error
	// AfterSave runs after a successful create or update; before is nil on create.
	AfterSave func(ctx context.Context, before, after P)
	// Present prepares a document for a response.
	Present func(doc P)
}

func (r *Resource[T, P]) queries() *queries.DocumentQueries[T] {
	return queries.NewDocumentQueries[T](r.Collection)
}

func (r *Resource[T, P]) List(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	docs, err := r.queries().List(ctx)
	if err != nil {
		log.Printf("event=list_error collection=%s error=%v", r.Collection, err)
		return errorResponse(c, fiber.StatusInternalServerError, "Error fetching "+r.Plural, err)
	}

	for i := range docs {
		r.present(P(&docs[i]))
	}
	return c.Status(fiber.StatusOK).JSON(docs)
}

func (r *Resource[T, P]) Get(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Error fetching "+r.Entity, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	doc, err := r.queries().GetByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return errorResponse(c, fiber.StatusNotFound, r.Entity+" not found", nil)
	}
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Error fetching "+r.Entity, err)
	}

	r.present(P(doc))
	return c.Status(fiber.StatusOK).JSON(doc)
}

func (r *Resource[T, P]) Create(c *fiber.Ctx) error {
	patch, err := parsePatch(c.Body())
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	doc, apiErr := r.CreateDocument(ctx, patch)
	if apiErr != nil {
		return apiErr.send(c)
	}

	r.present(doc)
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// CreateDocument builds a document from defaults and the patch, validates
// and stores it.
func (r *Resource[T, P]) CreateDocument(ctx context.Context, patch Patch) (P, *apiError) {
	now := time.Now().UTC()
	doc := P(new(T))
	if d, ok := any(doc).(models.Defaulter); ok {
		d.ApplyDefaults(now)
	}

	if err := applyPatch(doc, patch); err != nil {
		return nil, newAPIError(fiber.StatusBadRequest, "Invalid "+r.Entity+" data", err)
	}
	doc.SetID(primitive.NewObjectID())
	doc.Touch(now)

	if err := validate.Struct(doc); err != nil {
		return nil, newAPIError(fiber.StatusBadRequest, r.Entity+" validation failed", err)
	}

	if r.BeforeSave != nil {
		if err := r.BeforeSave(ctx, doc, patch, true); err != nil {
			return nil, asAPIError(err, "Error creating "+r.Entity)
		}
	}

	if err := r.queries().Insert(ctx, doc); err != nil {
		return nil, r.writeError(err, "Error creating "+r.Entity)
	}

	events.Default.Publish(events.Subject(r.Collection, events.ActionCreated), r.presented(doc))
	if r.AfterSave != nil {
		r.AfterSave(ctx, nil, doc)
	}
	return doc, nil
}

func (r *Resource[T, P]) Update(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Error updating "+r.Entity, err)
	}

	patch, err := parsePatch(c.Body())
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	q := r.queries()
	current, err := q.GetByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return errorResponse(c, fiber.StatusNotFound, r.Entity+" not found", nil)
	}
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Error updating "+r.Entity, err)
	}

	before := P(new(T))
	if err := cloneDocument(current, before); err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Error updating "+r.Entity, err)
	}
	doc := P(current)
	if err := applyPatch(doc, patch); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid "+r.Entity+" data", err)
	}
	doc.SetID(id)
	doc.Touch(time.Now().UTC())

	if err := validate.Struct(doc); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, r.Entity+" validation failed", err)
	}

	if r.BeforeSave != nil {
		if err := r.BeforeSave(ctx, doc, patch, false); err != nil {
			return asAPIError(err, "Error updating "+r.Entity).send(c)
		}
	}

	if err := q.Replace(ctx, doc); err != nil {
		return r.writeError(err, "Error updating "+r.Entity).send(c)
	}

	events.Default.Publish(events.Subject(r.Collection, events.ActionUpdated), r.presented(doc))
	if r.AfterSave != nil {
		r.AfterSave(ctx, before, doc)
	}

	r.present(doc)
	return c.Status(updateStatus()).JSON(doc)
}

func (r *Resource[T, P]) Delete(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Error deleting "+r.Entity, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	err = r.queries().Delete(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return errorResponse(c, fiber.StatusNotFound, r.Entity+" not found", nil)
	}
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Error deleting "+r.Entity, err)
	}

	events.Default.Publish(events.Subject(r.Collection, events.ActionDeleted), fiber.Map{"_id": id})
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": r.Entity + " deleted"})
}

func (r *Resource[T, P]) present(doc P) {
	if r.Present != nil {
		r.Present(doc)
	}
}

// presented returns a presentable copy without touching doc.
func (r *Resource[T, P]) presented(doc P) P {
	cp := P(new(T))
	*cp = *doc
	r.present(cp)
	return cp
}

func (r *Resource[T, P]) writeError(err error, message string) *apiError {
	if errors.Is(err, database.ErrDuplicateKey) {
		msg := r.DuplicateMessage
		if msg == "" {
			msg = r.Entity + " already exists"
		}
		return newAPIError(fiber.StatusConflict, msg, err)
	}
	if errors.Is(err, database.ErrNotFound) {
		return newAPIError(fiber.StatusNotFound, r.Entity+" not found", nil)
	}
	return newAPIError(fiber.StatusInternalServerError, message, err)
}

// parsePatch decodes a JSON object body, dropping server-managed keys.
func parsePatch(body []byte) (Patch, error) {
	patch := Patch{}
	if err := json.Unmarshal(body, &patch); err != nil {
		return nil, err
	}
	if patch == nil {
		patch = Patch{}
	}
	for _, f := range models.ServerManagedFields {
		delete(patch, f)
	}
	return patch, nil
}

// applyPatch merges patch over the JSON form of doc and decodes the result
// back into doc. Unknown fields are rejected.
func applyPatch(doc interface{}, patch Patch) error {
	current, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(current, &merged); err != nil {
		return err
	}
	for k, v := range patch {
		merged[k] = v
	}

	b, err := json.Marshal(merged)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	return dec.Decode(doc)
}

func cloneDocument(src, dst interface{}) error {
	b, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

func requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), config.App.DBTimeout)
}

func updateStatus() int {
	if config.App.UpdateStatusOK {
		return fiber.StatusOK
	}
	return fiber.StatusCreated
}
