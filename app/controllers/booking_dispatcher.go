package controllers

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gilanghuda/corejob-backend/app/models"
	"github.com/gilanghuda/corejob-backend/app/queries"
	"github.com/gilanghuda/corejob-backend/pkg/config"
	"github.com/gilanghuda/corejob-backend/pkg/database"
	"github.com/gilanghuda/corejob-backend/pkg/events"
	"github.com/gilanghuda/corejob-backend/pkg/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingEvent is queued whenever a booking is created or updated. Before
// is nil for a new booking.
type BookingEvent struct {
	Before *models.Booking
	After  models.Booking
}

var (
	bookingEvents      = make(chan BookingEvent, 256)
	notificationPushes = make(chan models.Notification, 256)
	dispatcherOnce     sync.Once
)

func afterSaveBooking(ctx context.Context, before, after *models.Booking) {
	ev := BookingEvent{Before: before, After: *after}
	select {
	case bookingEvents <- ev:
	default:
		log.Printf("event=booking_event_dropped booking=%s reason=queue_full", after.ID.Hex())
	}
}

// afterSaveNotification queues the push so the request never waits on a
// websocket write.
func afterSaveNotification(ctx context.Context, before, after *models.Notification) {
	if before != nil {
		return
	}
	select {
	case notificationPushes <- *after:
	default:
		log.Printf("event=notification_push_dropped notification=%s reason=queue_full", after.ID.Hex())
	}
}

// StartBookingDispatcher turns queued booking events into notifications and
// delivers queued notification pushes. Calling it again is a no-op.
func StartBookingDispatcher() {
	dispatcherOnce.Do(func() {
		go func() {
			for {
				select {
				case ev := <-bookingEvents:
					ctx, cancel := context.WithTimeout(context.Background(), config.App.DBTimeout)
					if _, err := HandleBookingEvent(ctx, ev); err != nil {
						log.Printf("event=booking_dispatch_error booking=%s error=%v", ev.After.ID.Hex(), err)
					}
					cancel()
				case n := <-notificationPushes:
					pushNotification(n)
				}
			}
		}()
	})
}

// HandleBookingEvent stores and pushes the notifications for one booking
// change: the provider hears about new bookings, the client about status
// changes.
func HandleBookingEvent(ctx context.Context, ev BookingEvent) ([]models.Notification, error) {
	b := ev.After
	var pending []models.Notification

	switch {
	case ev.Before == nil:
		pending = append(pending, newBookingNotification(b.ProviderID, b.ID, "You have a new booking request"))
	case ev.Before.Status != b.Status:
		pending = append(pending, newBookingNotification(b.ClientID, b.ID,
			fmt.Sprintf("Your booking status changed to %s", b.Status)))
	}
	if ev.Before != nil && ev.Before.PaymentStatus != b.PaymentStatus {
		pending = append(pending, newBookingNotification(b.ProviderID, b.ID,
			fmt.Sprintf("Booking payment status changed to %s", b.PaymentStatus)))
	}

	q := queries.NewNotificationQueries()
	for i := range pending {
		if err := q.Insert(ctx, &pending[i]); err != nil {
			return nil, err
		}
		events.Default.Publish(events.Subject(database.NotificationsCollection, events.ActionCreated), pending[i])
		pushNotification(pending[i])
	}
	return pending, nil
}

func newBookingNotification(userID, bookingID primitive.ObjectID, message string) models.Notification {
	n := models.Notification{
		UserID:    userID,
		BookingID: &bookingID,
		Message:   message,
	}
	n.ID = primitive.NewObjectID()
	n.Touch(time.Now().UTC())
	return n
}

func pushNotification(n models.Notification) {
	if !utils.DefaultNotifier.IsConnected(n.UserID) {
		return
	}
	err := utils.DefaultNotifier.Send(n.UserID, map[string]interface{}{
		"event":        "notification",
		"notification": n,
	})
	if err != nil && err != utils.ErrNoConnection {
		log.Printf("event=notification_push_error user=%s error=%v", n.UserID.Hex(), err)
	}
}
