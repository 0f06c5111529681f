package routes

import (
	"github.com/gilanghuda/corejob-backend/app/controllers"
	"github.com/gilanghuda/corejob-backend/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func RegisterAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth")
	auth.Post("/register", controllers.UserRegister)
	auth.Post("/login", controllers.UserSignIn)
	auth.Post("/google", controllers.UserSignInWithGoogle)
	auth.Post("/refresh", controllers.RefreshToken)

	// Protected routes
	auth.Post("/logout", middleware.JWTProtected(), controllers.UserLogout)
	auth.Get("/me", middleware.JWTProtected(), controllers.UserProfile)
}
