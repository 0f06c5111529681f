package queries

import (
	"context"
	"strings"

	"github.com/gilanghuda/corejob-backend/app/models"
	"github.com/gilanghuda/corejob-backend/pkg/database"
)

type UserQueries struct {
	*DocumentQueries[models.User]
}

func NewUserQueries() *UserQueries {
	return &UserQueries{NewDocumentQueries[models.User](database.UsersCollection)}
}

func (q *UserQueries) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return q.FindOneBy(ctx, database.Filter{"email": NormalizeEmail(email)})
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
