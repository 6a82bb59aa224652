package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/deusflow/railnews/internal/app"
	"github.com/deusflow/railnews/internal/config"
	"github.com/deusflow/railnews/internal/logger"
	"github.com/deusflow/railnews/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline, closeFn, err := app.NewPipeline(ctx, cfg)
	if err != nil {
		logger.Error("failed to build pipeline", "err", err)
		os.Exit(1)
	}

	runErr := pipeline.Run(ctx)
	closeFn()

	if runErr != nil {
		metrics.Global.SetError(runErr.Error())
		logger.Error("run failed", append([]any{"err", runErr}, metrics.Global.LogArgs()...)...)
		stop()
		os.Exit(1)
	}

	logger.Info("run stats", metrics.Global.LogArgs()...)
}
