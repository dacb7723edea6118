package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tazhibayda/family-gallery/internal/config"
	"github.com/tazhibayda/family-gallery/internal/log"
	"github.com/tazhibayda/family-gallery/internal/notify"
	"github.com/tazhibayda/family-gallery/internal/queue"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := log.Init(cfg.Production())
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Rabbit.URL == "" {
		logger.Fatal("RABBIT_URL is required")
	}
	cons, err := queue.NewConsumer(cfg.Rabbit.URL, cfg.Rabbit.Exchange, cfg.Rabbit.Queue, cfg.Rabbit.BindKey)
	if err != nil {
		logger.Fatal("rabbit consumer init failed", zap.Error(err))
	}
	defer cons.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("notifier up",
		zap.String("exchange", cfg.Rabbit.Exchange),
		zap.String("queue", cfg.Rabbit.Queue),
		zap.String("key", cfg.Rabbit.BindKey),
		zap.Int("workers", cfg.Rabbit.Concurrency),
	)

	if err := cons.Consume(ctx, cfg.Rabbit.Concurrency, notify.Handler(notify.LogMailer{}, cfg.Rabbit.NotifyTo)); err != nil {
		logger.Error("consumer stopped", zap.Error(err))
	}
}
