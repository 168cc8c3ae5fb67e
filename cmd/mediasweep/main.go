// Command mediasweep drains the journal of failed media releases once,
// retrying each storage deletion. Entries that fail again stay pending for
// the next run.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/Rahanur19/youStream/internal/config"
	"github.com/Rahanur19/youStream/internal/logger"
	"github.com/Rahanur19/youStream/internal/queue"
	"github.com/Rahanur19/youStream/internal/redis"
	"github.com/Rahanur19/youStream/internal/service"
	"github.com/Rahanur19/youStream/internal/storage"
	"github.com/Rahanur19/youStream/internal/worker"
)

func main() {
	if err := run(); err != nil {
		logrus.Fatalf("mediasweep failed: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger.Init(cfg.Log.Level, cfg.Log.JSON)

	if cfg.RedisURL == "" {
		return errors.New("REDIS_URL is required")
	}
	client, err := redis.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer client.Close()

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	media := service.NewMediaService(store, storage.NewFFmpegDuration(), cfg.Storage.PublicURL)

	sweeper := worker.NewSweeper(
		queue.NewConsumer(client),
		worker.NewHandler(media),
		nil,
		worker.DefaultSweeperConfig(),
	)

	report, err := sweeper.Drain(ctx)
	if err != nil {
		return err
	}
	if report.Failed > 0 {
		logrus.WithField("failed", report.Failed).Warn("[MediaSweep] Some releases still pending")
	}
	return nil
}
