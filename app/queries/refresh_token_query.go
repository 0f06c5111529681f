package queries

import (
	"context"
	"time"

	"github.com/gilanghuda/corejob-backend/app/models"
	"github.com/gilanghuda/corejob-backend/pkg/database"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RefreshTokenQueries struct {
	*DocumentQueries[models.RefreshToken]
}

func NewRefreshTokenQueries() *RefreshTokenQueries {
	return &RefreshTokenQueries{NewDocumentQueries[models.RefreshToken](database.RefreshTokensCollection)}
}

func (q *RefreshTokenQueries) CreateRefreshToken(ctx context.Context, userID primitive.ObjectID, token string, expiresAt time.Time) (*models.RefreshToken, error) {
	rt := &models.RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	rt.ID = primitive.NewObjectID()
	rt.Touch(time.Now().UTC())

	if err := q.Insert(ctx, rt); err != nil {
		return nil, err
	}
	return rt, nil
}

func (q *RefreshTokenQueries) GetRefreshTokenByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	return q.FindOneBy(ctx, database.Filter{"token": token})
}

func (q *RefreshTokenQueries) RevokeRefreshTokenByToken(ctx context.Context, token string) error {
	rt, err := q.GetRefreshTokenByToken(ctx, token)
	if err != nil {
		return err
	}
	return q.revoke(ctx, rt)
}

func (q *RefreshTokenQueries) RevokeRefreshTokensByUser(ctx context.Context, userID primitive.ObjectID) error {
	tokens, err := q.FindBy(ctx, database.Filter{"user_id": userID, "revoked": false})
	if err != nil {
		return err
	}
	for i := range tokens {
		if err := q.revoke(ctx, &tokens[i]); err != nil {
			return err
		}
	}
	return nil
}

func (q *RefreshTokenQueries) revoke(ctx context.Context, rt *models.RefreshToken) error {
	rt.Revoked = true
	rt.Touch(time.Now().UTC())
	return q.Replace(ctx, rt)
}
