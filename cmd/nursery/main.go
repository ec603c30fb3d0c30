package main

import (
	"context"
	"log"

	"github.com/aussiebroadwan/nursery/internal/nursery/app"
)

func main() {
	if err := app.LoadEnvFile(); err != nil {
		log.Fatalf("failed to load environment: %v", err)
	}

	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(context.Background()); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
