package queries

import (
	"context"
	"fmt"

	"github.com/gilanghuda/corejob-backend/app/models"
	"github.com/gilanghuda/corejob-backend/pkg/database"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocumentQueries reads and writes documents of type T in one collection.
type DocumentQueries[T any] struct {
	Name       string
	Collection database.Collection
}

func NewDocumentQueries[T any](name string) *DocumentQueries[T] {
	return &DocumentQueries[T]{Name: name, Collection: database.Store.Collection(name)}
}

func (q *DocumentQueries[T]) List(ctx context.Context) ([]T, error) {
	return q.FindBy(ctx, nil)
}

func (q *DocumentQueries[T]) FindBy(ctx context.Context, filter database.Filter) ([]T, error) {
	docs := []T{}
	if err := q.Collection.Find(ctx, filter, &docs); err != nil {
		return nil, fmt.Errorf("unable to list %s: %w", q.Name, err)
	}
	if docs == nil {
		docs = []T{}
	}
	return docs, nil
}

func (q *DocumentQueries[T]) FindOneBy(ctx context.Context, filter database.Filter) (*T, error) {
	doc := new(T)
	if err := q.Collection.FindOne(ctx, filter, doc); err != nil {
		return nil, fmt.Errorf("unable to find %s: %w", q.Name, err)
	}
	return doc, nil
}

func (q *DocumentQueries[T]) GetByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	doc := new(T)
	if err := q.Collection.FindByID(ctx, id, doc); err != nil {
		return nil, fmt.Errorf("unable to get %s %s: %w", q.Name, id.Hex(), err)
	}
	return doc, nil
}

func (q *DocumentQueries[T]) Insert(ctx context.Context, doc models.Document) error {
	if err := q.Collection.Insert(ctx, doc.GetID(), doc); err != nil {
		return fmt.Errorf("unable to create %s: %w", q.Name, err)
	}
	return nil
}

func (q *DocumentQueries[T]) Replace(ctx context.Context, doc models.Document) error {
	if err := q.Collection.Replace(ctx, doc.GetID(), doc); err != nil {
		return fmt.Errorf("unable to update %s %s: %w", q.Name, doc.GetID().Hex(), err)
	}
	return nil
}

func (q *DocumentQueries[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := q.Collection.Delete(ctx, id); err != nil {
		return fmt.Errorf("unable to delete %s %s: %w", q.Name, id.Hex(), err)
	}
	return nil
}
