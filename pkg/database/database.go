package database

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/gilanghuda/corejob-backend/pkg/config"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	UsersCollection          = "users"
	ProfilesCollection       = "profiles"
	CategoriesCollection     = "categories"
	ServicesCollection       = "services"
	BookingsCollection       = "bookings"
	ReviewsCollection        = "reviews"
	NotificationsCollection  = "notifications"
	PortfolioItemsCollection = "portfolio_items"
	RefreshTokensCollection  = "refresh_tokens"
)

// Collections lists every collection the application reads or writes.
var Collections = []string{
	UsersCollection,
	ProfilesCollection,
	CategoriesCollection,
	ServicesCollection,
	BookingsCollection,
	ReviewsCollection,
	NotificationsCollection,
	PortfolioItemsCollection,
	RefreshTokensCollection,
}

var (
	ErrNotFound     = errors.New("document not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// Filter matches documents whose top-level fields equal the given values.
type Filter map[string]interface{}

// Collection stores documents of one kind. Read methods decode into out,
// which must be a pointer to a struct (single document) or to a slice of
// structs (Find).
type Collection interface {
	Find(ctx context.Context, filter Filter, out interface{}) error
	FindOne(ctx context.Context, filter Filter, out interface{}) error
	FindByID(ctx context.Context, id primitive.ObjectID, out interface{}) error
	Insert(ctx context.Context, id primitive.ObjectID, doc interface{}) error
	Replace(ctx context.Context, id primitive.ObjectID, doc interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type DocumentStore interface {
	Collection(name string) Collection
	EnsureUniqueIndex(ctx context.Context, collection, field string) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

var Store DocumentStore

func InitStore(ctx context.Context, cfg *config.Config) (DocumentStore, error) {
	var (
		store DocumentStore
		err   error
	)

	switch cfg.DBDriver {
	case config.DriverMongo:
		store, err = ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.DriverPostgres:
		store, err = ConnectPostgres(ctx, cfg.PostgresDSN())
	case config.DriverMemory:
		store = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, err
	}

	if err := store.EnsureUniqueIndex(ctx, UsersCollection, "email"); err != nil {
		return nil, fmt.Errorf("error creating users.email index: %w", err)
	}
	if err := store.EnsureUniqueIndex(ctx, RefreshTokensCollection, "token"); err != nil {
		return nil, fmt.Errorf("error creating refresh_tokens.token index: %w", err)
	}

	Store = store
	log.Printf("event=store_ready driver=%s", cfg.DBDriver)
	return store, nil
}

func CloseStore(ctx context.Context) error {
	if Store != nil {
		if err := Store.Close(ctx); err != nil {
			return fmt.Errorf("error closing store: %w", err)
		}
		log.Println("Store connection closed")
	}
	return nil
}
