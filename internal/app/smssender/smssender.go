// Package smssender собирает воркер доставки SMS из очереди notifications.sms.
package smssender

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/webshop/internal/config"
	"github.com/magabrotheeeer/webshop/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/webshop/internal/lib/sl"
	"github.com/magabrotheeeer/webshop/internal/metrics"
	senderservice "github.com/magabrotheeeer/webshop/internal/services/sender"
	"github.com/magabrotheeeer/webshop/internal/smsprovider"
)

// App воркер рассылки SMS.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	metricsServer *http.Server
	logger        *slog.Logger
}

// New подключается к RabbitMQ и готовит обработчик очереди.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	provider := smsprovider.NewClient(cfg.SMSProvider)
	senderService := senderservice.NewSenderService(provider, m, logger, cfg.SMSTimeout)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		metricsServer: &http.Server{
			Addr:              cfg.Notification.MetricsAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}, nil
}

// Run читает очередь до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, rabbitmq.SMSQueue.QueueName, a.senderService.HandleSMS)
	if err != nil {
		a.logger.Error("failed to start sms consumer", sl.Err(err))
		return err
	}

	go func() {
		a.logger.Info("metrics server starting on", slog.String("address", a.metricsServer.Addr))
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", sl.Err(err))
		}
	}()

	<-ctx.Done()
	a.logger.Info("SMS sender shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("failed to stop metrics server", sl.Err(err))
	}

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	return nil
}
