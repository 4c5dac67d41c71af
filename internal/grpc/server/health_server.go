// Package server реализует gRPC-сервис проверки здоровья веб-магазина.
//
// HealthServer периодически проверяет доступность базы и выставляет статус
// стандартного сервиса grpc.health.v1.Health.
package server

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/webshop/internal/lib/sl"
)

// ServiceName имя сервиса, под которым публикуется статус.
const ServiceName = "webshop"

// Pinger проверяет доступность хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer обновляет статус здоровья по результату проверки базы.
type HealthServer struct {
	health   *health.Server
	db       Pinger
	log      *slog.Logger
	interval time.Duration
}

// NewHealthServer создаёт HealthServer. До первой проверки сервис считается NOT_SERVING.
func NewHealthServer(log *slog.Logger, db Pinger, interval time.Duration) *HealthServer {
	h := health.NewServer()
	h.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &HealthServer{
		health:   h,
		db:       db,
		log:      log,
		interval: interval,
	}
}

// Register регистрирует сервис здоровья на gRPC-сервере.
func (s *HealthServer) Register(srv *grpc.Server) {
	healthpb.RegisterHealthServer(srv, s.health)
}

// Check проверяет базу и обновляет статус.
func (s *HealthServer) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.db.Ping(ctx); err != nil {
		s.log.Warn("health check failed", sl.Err(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return status
}

// Run проверяет базу с заданным интервалом до отмены ctx.
// После отмены все сервисы переводятся в NOT_SERVING.
func (s *HealthServer) Run(ctx context.Context) {
	s.Check(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			return
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}
