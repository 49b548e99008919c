package main

import (
	"log"

	"github.com/EdnondDantes/golosStroyki/internal/builder"
	"go.uber.org/zap"
)

func main() {
	app, err := builder.BuildTelegramBot()
	if err != nil {
		log.Fatal("Failed to build telegram bot:", err)
	}

	logger := app.Logger()
	defer func() { _ = logger.Sync() }()

	if err := app.Run(); err != nil {
		logger.Error("telegram bot stopped with error", zap.Error(err))
	}
}
