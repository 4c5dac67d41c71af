// Package main WebShop API
//
// @title           WebShop API
// @version         1.0
// @description     API веб-магазина: каталог товаров, пакеты подписки, заказы и пользователи.

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/magabrotheeeer/webshop/docs"
	"github.com/magabrotheeeer/webshop/internal/app/webshop"
	"github.com/magabrotheeeer/webshop/internal/config"
	"github.com/magabrotheeeer/webshop/internal/grpc/client"
	"github.com/magabrotheeeer/webshop/internal/grpc/server"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "query the gRPC health service and exit")
	flag.Parse()

	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if *healthcheck {
		os.Exit(checkHealth(cfg.GRPCAddress, logger))
	}

	logger.Info("starting webshop", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := webshop.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("webshop stopped gracefully")
}

func checkHealth(addr string, logger *slog.Logger) int {
	hc, err := client.NewHealthClient(addr)
	if err != nil {
		logger.Error("failed to create health client", slog.Any("err", err))
		return 1
	}
	defer hc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	serving, err := hc.Serving(ctx, server.ServiceName)
	if err != nil || !serving {
		logger.Error("webshop is not serving", slog.Any("err", err))
		return 1
	}
	return 0
}
