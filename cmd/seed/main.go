package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gilanghuda/corejob-backend/pkg/config"
	"github.com/gilanghuda/corejob-backend/pkg/database"
	"github.com/gilanghuda/corejob-backend/pkg/seed"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		log.Fatalf("event=seed_error error=%v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	config.App = cfg

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := database.InitStore(ctx, cfg); err != nil {
		return fmt.Errorf("connect to the database: %w", err)
	}
	defer database.CloseStore(context.Background())

	res, err := seed.Run(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	log.Printf("event=seed_done categories=%d users=%d dependents=%t", res.Categories, res.Users, res.Dependents)
	return nil
}
