package main

import (
	"context"

	"rhx/config"
	"rhx/di"
	"rhx/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	app := di.InitializeApp()

	go app.Sweeper.Run(context.Background())

	app.HTTP.Serve()
}
