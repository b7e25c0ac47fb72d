package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"github.com/epochml/epoch-ml/internal/config"
	"github.com/epochml/epoch-ml/internal/database"
	"github.com/epochml/epoch-ml/internal/queue"
	"github.com/epochml/epoch-ml/internal/queue/workers"
	"github.com/epochml/epoch-ml/internal/training"
	"github.com/epochml/epoch-ml/internal/webhook"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.NewPool(context.Background(), cfg.Database)
	if err != nil {
		slog.Error("worker requires a database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	sessions := training.NewPGStore(db)
	dispatcher := webhook.NewDispatcher(db)
	webhooks := webhook.NewService(db, dispatcher)

	registry := queue.NewHandlersRegistry()
	notifyWorker := workers.NewNotifyWorker(sessions, webhooks)
	registry.Register(queue.TypeTrainingNotify, asynq.HandlerFunc(notifyWorker.ProcessTask))

	slog.Info("starting worker", "concurrency", 10)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
