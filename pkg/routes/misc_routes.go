package routes

import (
	"github.com/gilanghuda/corejob-backend/app/controllers"
	"github.com/gofiber/fiber/v2"
)

// RegisterGeocodeRoutes builds the geocode client from config and mounts the
// lookup endpoints.
func RegisterGeocodeRoutes(app *fiber.App) {
	controllers.GeocodeClient = controllers.NewGeocodeClient()
	app.Get("/geocode", controllers.GeocodeAddress)
	app.Get("/geocode/reverse", controllers.ReverseGeocode)
}

func RegisterHealthRoutes(app *fiber.App) {
	app.Get("/health", controllers.Health)
}

// Register mounts every route group on app.
func Register(app *fiber.App) {
	RegisterHealthRoutes(app)
	RegisterAuthRoutes(app)
	RegisterGeocodeRoutes(app)
	RegisterEntityRoutes(app)
}
