package main

import (
	"context"
	"os"

	"rhx/config"
	"rhx/di"
	"rhx/shared/logger"

	"github.com/rs/zerolog/log"
)

// One-shot sweep entry point for external schedulers.
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	app := di.InitializeApp()

	report, err := app.Sweeper.Sweep(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("booking sweep failed")
		os.Exit(1)
	}

	log.Info().
		Int("processed", report.ProcessedCount).
		Int("failed", len(report.Errors)).
		Msg("booking sweep finished")
}
