package webshop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/magabrotheeeer/webshop/internal/cache"
	"github.com/magabrotheeeer/webshop/internal/config"
	"github.com/magabrotheeeer/webshop/internal/grpc/server"
	"github.com/magabrotheeeer/webshop/internal/http/middlewarectx"
	"github.com/magabrotheeeer/webshop/internal/lib/jwt"
	"github.com/magabrotheeeer/webshop/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/webshop/internal/lib/session"
	"github.com/magabrotheeeer/webshop/internal/lib/sl"
	"github.com/magabrotheeeer/webshop/internal/metrics"
	"github.com/magabrotheeeer/webshop/internal/migrations"
	"github.com/magabrotheeeer/webshop/internal/services/catalog"
	"github.com/magabrotheeeer/webshop/internal/services/notification"
	"github.com/magabrotheeeer/webshop/internal/services/order"
	"github.com/magabrotheeeer/webshop/internal/services/user"
	"github.com/magabrotheeeer/webshop/internal/storage/repository"
)

const (
	shutdownTimeout     = 15 * time.Second
	healthCheckInterval = 10 * time.Second
)

// App HTTP API магазина и gRPC-сервис здоровья.
type App struct {
	server     *http.Server
	grpcServer *grpc.Server
	health     *server.HealthServer
	grpcAddr   string
	dispatcher *notification.Dispatcher
	logger     *slog.Logger
	db         *repository.Storage
	cache      *cache.Cache
	amqpConn   *amqp.Connection
}

// New подключает хранилища, применяет миграции, создаёт администратора по
// умолчанию и собирает серверы.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString, cfg.StorageTimeout)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	notifier, amqpConn, err := newNotifier(cfg, logger)
	if err != nil {
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, err
	}
	dispatcher := notification.NewDispatcher(logger, notifier, m, cfg.Notification.SendTimeout)

	tokens := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	userService := user.NewService(db, tokens, logger)
	if err = userService.EnsureDefaultAdmin(ctx); err != nil {
		logger.Error("failed to ensure default admin", sl.Err(err))
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Deps{
		Catalog:  catalog.NewService(db, cacheRedis, cfg.RedisConnection.CacheTTL, logger),
		Orders:   order.NewService(db, dispatcher, m, logger),
		Users:    userService,
		Sessions: session.New(cfg.Session),
		Tokens:   tokens,
		DB:       db,
		Limiter:  middlewarectx.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	grpcServer := grpc.NewServer()
	health := server.NewHealthServer(logger, db, healthCheckInterval)
	health.Register(grpcServer)

	return &App{
		server:     srv,
		grpcServer: grpcServer,
		health:     health,
		grpcAddr:   cfg.GRPCAddress,
		dispatcher: dispatcher,
		logger:     logger,
		db:         db,
		cache:      cacheRedis,
		amqpConn:   amqpConn,
	}, nil
}

// newNotifier выбирает способ отправки SMS по настройке notification.mode.
func newNotifier(cfg *config.Config, logger *slog.Logger) (notification.Notifier, *amqp.Connection, error) {
	switch cfg.Notification.Mode {
	case "log":
		return notification.NewLogNotifier(logger), nil, nil
	case "queue":
		conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			return nil, nil, err
		}
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
		if err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		publisher := rabbitmq.NewPublisher(ch, rabbitmq.Exchange)
		return notification.NewQueueNotifier(logger, publisher, rabbitmq.SMSQueue.RoutingKey), conn, nil
	default:
		return nil, nil, fmt.Errorf("unknown notification mode %q", cfg.Notification.Mode)
	}
}

// Run запускает серверы и останавливает их при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", a.grpcAddr)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		a.logger.Info("gRPC health service listening on", slog.String("address", lis.Addr().String()))
		return a.grpcServer.Serve(lis)
	})

	g.Go(func() error {
		a.health.Run(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.grpcServer.GracefulStop()
		return err
	})

	err = g.Wait()
	a.close()
	return err
}

func (a *App) close() {
	a.dispatcher.Wait()
	if a.amqpConn != nil {
		if err := a.amqpConn.Close(); err != nil {
			a.logger.Error("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
