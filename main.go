package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gilanghuda/corejob-backend/app/controllers"
	"github.com/gilanghuda/corejob-backend/pkg/config"
	"github.com/gilanghuda/corejob-backend/pkg/database"
	"github.com/gilanghuda/corejob-backend/pkg/events"
	"github.com/gilanghuda/corejob-backend/pkg/routes"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.App = cfg

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	_, err = database.InitStore(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}

	if cfg.NatsURL != "" {
		publisher, err := events.ConnectNATS(cfg.NatsURL, 5)
		if err != nil {
			log.Printf("event=nats_disabled error=%v", err)
		} else {
			events.Default = publisher
		}
	}

	app := NewApp(cfg)
	controllers.StartBookingDispatcher()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")
		_ = app.Shutdown()
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("event=listen_error error=%v", err)
	}

	events.Default.Close()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := database.CloseStore(shutdownCtx); err != nil {
		log.Printf("event=store_close_error error=%v", err)
	}
}

// NewApp builds the fiber app with middleware and every route mounted.
func NewApp(cfg *config.Config) *fiber.App {
	app := fiber.New()

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("CoreJob API")
	})

	routes.Register(app)
	return app
}
