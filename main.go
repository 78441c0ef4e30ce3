package main

import (
	"log"

	"quizgenie_backend/internal/app"
	"quizgenie_backend/internal/config"
	"quizgenie_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	application.Run()
}
