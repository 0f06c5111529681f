package main

import (
	"context"
	"testing"

	"github.com/gilanghuda/corejob-backend/app/models"
	"github.com/gilanghuda/corejob-backend/app/queries"
	"github.com/gilanghuda/corejob-backend/pkg/database"
)

func TestRun_SeedsMemoryStore(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "test-secret")

	if err := run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	categories, err := queries.NewDocumentQueries[models.Category](database.CategoriesCollection).List(context.Background())
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(categories) == 0 {
		t.Fatalf("expected seeded categories")
	}
}

func TestRun_ReportsConfigErrors(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET", "test-secret")
	if err := run(); err == nil {
		t.Fatalf("expected error for unknown driver")
	}

	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "")
	if err := run(); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}
