package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/webshop/internal/app/smssender"
	"github.com/magabrotheeeer/webshop/internal/config"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting sms-sender", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := smssender.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize sms-sender", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("sms-sender stopped with error", slog.Any("err", err))
		os.Exit(1)
	}
	logger.Info("sms-sender stopped gracefully")
}
