package queries

import (
	"context"

	"github.com/gilanghuda/corejob-backend/app/models"
	"github.com/gilanghuda/corejob-backend/pkg/database"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationQueries struct {
	*DocumentQueries[models.Notification]
}

func NewNotificationQueries() *NotificationQueries {
	return &NotificationQueries{NewDocumentQueries[models.Notification](database.NotificationsCollection)}
}

func (q *NotificationQueries) GetUnreadByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return q.FindBy(ctx, database.Filter{"user_id": userID, "is_read": false})
}
