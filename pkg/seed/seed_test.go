package seed

import (
	"context"
	"testing"

	"github.com/gilanghuda/corejob-backend/app/models"
	"github.com/gilanghuda/corejob-backend/app/queries"
	"github.com/gilanghuda/corejob-backend/pkg/database"
	"golang.org/x/crypto/bcrypt"
)

func setupStore(t *testing.T) {
	t.Helper()
	store := database.NewMemoryStore()
	if err := store.EnsureUniqueIndex(context.Background(), database.UsersCollection, "email"); err != nil {
		t.Fatalf("ensure index: %v", err)
	}
	database.Store = store
}

func TestRun_PopulatesEveryCollection(t *testing.T) {
	setupStore(t)
	ctx := context.Background()

	res, err := Run(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if res.Categories != 4 || res.Users != 2 || !res.Dependents {
		t.Fatalf("unexpected result %+v", res)
	}

	counts := map[string]int{
		database.CategoriesCollection:     4,
		database.UsersCollection:          2,
		database.ProfilesCollection:       1,
		database.PortfolioItemsCollection: 1,
		database.ServicesCollection:       2,
		database.BookingsCollection:       1,
		database.ReviewsCollection:        1,
		database.NotificationsCollection:  1,
	}
	for coll, want := range counts {
		docs, err := queries.NewDocumentQueries[map[string]interface{}](coll).List(ctx)
		if err != nil {
			t.Fatalf("list %s: %v", coll, err)
		}
		if len(docs) != want {
			t.Fatalf("expected %d %s, got %d", want, coll, len(docs))
		}
	}

	user, err := queries.NewUserQueries().GetUserByEmail(ctx, "proveedor@corejob.test")
	if err != nil {
		t.Fatalf("get provider: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(DemoPassword)); err != nil {
		t.Fatalf("expected hashed demo password: %v", err)
	}
}

func TestRun_IsIdempotent(t *testing.T) {
	setupStore(t)
	ctx := context.Background()

	if _, err := Run(ctx); err != nil {
		t.Fatalf("first run: %v", err)
	}
	res, err := Run(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if res.Categories != 0 || res.Users != 0 || res.Dependents {
		t.Fatalf("expected nothing created on second run, got %+v", res)
	}

	services, err := queries.NewDocumentQueries[models.Service](database.ServicesCollection).List(ctx)
	if err != nil {
		t.Fatalf("list services: %v", err)
	}
	if len(services) != 2 {
		t.Fatalf("expected 2 services after two runs, got %d", len(services))
	}
}
