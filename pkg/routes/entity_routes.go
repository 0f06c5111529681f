package routes

import (
	"github.com/gilanghuda/corejob-backend/app/controllers"
	"github.com/gilanghuda/corejob-backend/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func RegisterEntityRoutes(app *fiber.App) {
	registerCRUD(app, "/users", controllers.Users, false)
	registerCRUD(app, "/profiles", controllers.Profiles, true)
	registerCRUD(app, "/categories", controllers.Categories, true)
	registerCRUD(app, "/services", controllers.Services, true)
	registerCRUD(app, "/bookings", controllers.Bookings, true)
	registerCRUD(app, "/reviews", controllers.Reviews, true)
	registerCRUD(app, "/portfolio-items", controllers.PortfolioItems, true)

	// the websocket path must be registered before /notifications/:id
	app.Get("/notifications/ws", controllers.NotificationsUpgrade, websocket.New(controllers.NotificationsSocket))
	registerCRUD(app, "/notifications", controllers.Notifications, true)
}

// registerCRUD mounts the five entity routes. Registration stays open on
// POST /users even when auth is required.
func registerCRUD(app *fiber.App, path string, h controllers.CRUDHandlers, protectCreate bool) {
	group := app.Group(path)
	auth := middleware.AuthRequired()

	group.Get("/", h.List)
	group.Get("/:id", h.Get)
	if protectCreate {
		group.Post("/", auth, h.Create)
	} else {
		group.Post("/", h.Create)
	}
	group.Put("/:id", auth, h.Update)
	group.Delete("/:id", auth, h.Delete)
}
