package controllers

import (
	"context"
	"log"
	"strings"

	"github.com/gilanghuda/corejob-backend/app/queries"
	"github.com/gilanghuda/corejob-backend/pkg/config"
	"github.com/gilanghuda/corejob-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationsUpgrade authenticates a websocket handshake. Browsers cannot
// set headers on websocket requests, so the token may come as ?token=.
func NotificationsUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return errorResponse(c, fiber.StatusUpgradeRequired, "Websocket upgrade required", nil)
	}

	tokenString := c.Query("token")
	if tokenString == "" {
		tokenString = strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
	}
	if tokenString == "" {
		return errorResponse(c, fiber.StatusUnauthorized, "Missing token", nil)
	}

	claims, err := utils.ParseAccessToken(tokenString)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Invalid or expired token", err)
	}
	userID, err := utils.UserIDFromClaims(claims)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Invalid token payload", err)
	}

	c.Locals("user_id", userID)
	return c.Next()
}

// NotificationsSocket keeps a user's connection registered and flushes their
// unread notifications on connect.
func NotificationsSocket(conn *websocket.Conn) {
	userID, ok := conn.Locals("user_id").(primitive.ObjectID)
	if !ok {
		_ = conn.Close()
		return
	}

	utils.DefaultNotifier.Register(userID, conn)
	defer utils.DefaultNotifier.Unregister(userID, conn)

	ctx, cancel := context.WithTimeout(context.Background(), config.App.DBTimeout)
	unread, err := queries.NewNotificationQueries().GetUnreadByUser(ctx, userID)
	cancel()
	if err != nil {
		log.Printf("event=ws_unread_error user=%s error=%v", userID.Hex(), err)
	}
	for _, n := range unread {
		pushNotification(n)
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
