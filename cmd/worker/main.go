package main

import (
	"os"

	"vibe-capture/internal/config"
	"vibe-capture/internal/worker"

	"github.com/wb-go/wbf/zlog"
)

func main() {
	zlog.Init()

	cfg, err := config.MustLoad()
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to load config")
	}

	w, err := worker.NewWorker(cfg, &zlog.Logger)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to create render worker")
	}

	if err := w.Run(); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Render worker failed")
	}

	zlog.Logger.Info().Msg("Render worker stopped")
	os.Exit(0)
}
