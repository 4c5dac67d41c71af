// Package sender доставляет SMS из очереди уведомлений через провайдера.
package sender

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/webshop/internal/lib/sl"
	"github.com/magabrotheeeer/webshop/internal/models"
	"github.com/magabrotheeeer/webshop/internal/smsprovider"
)

// Provider отправляет SMS.
type Provider interface {
	Send(ctx context.Context, to, text string) (*smsprovider.SendResponse, error)
}

// Recorder учитывает результат доставки.
type Recorder interface {
	Notification(delivered bool)
}

// SenderService обрабатывает сообщения очереди notifications.sms.
type SenderService struct {
	provider    Provider
	recorder    Recorder
	log         *slog.Logger
	timeout     time.Duration
	maxAttempts int
	backoff     time.Duration
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(provider Provider, recorder Recorder, log *slog.Logger, timeout time.Duration) *SenderService {
	return &SenderService{
		provider:    provider,
		recorder:    recorder,
		log:         log,
		timeout:     timeout,
		maxAttempts: 3,
		backoff:     500 * time.Millisecond,
	}
}

// HandleSMS доставляет одно сообщение. Повреждённые сообщения и отказы
// провайдера по вине запроса отбрасываются, временные сбои после исчерпания
// попыток возвращаются ошибкой, чтобы сообщение вернулось в очередь.
func (s *SenderService) HandleSMS(body []byte) error {
	const op = "services.sender.HandleSMS"
	log := s.log.With(sl.Op(op))

	var msg models.SMSMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		log.Error("failed to unmarshal message body, dropping", sl.Err(err))
		return nil
	}
	if strings.TrimSpace(msg.To) == "" || msg.Content == "" {
		log.Error("sms without recipient or text, dropping")
		return nil
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		resp, err := s.send(msg)
		if err == nil {
			log.Info("sms delivered", slog.String("to", msg.To), slog.String("provider_id", resp.ID))
			s.record(true)
			return nil
		}
		lastErr = err

		var statusErr *smsprovider.StatusError
		if errors.As(err, &statusErr) && statusErr.Permanent() {
			log.Error("sms rejected by provider, dropping", slog.String("to", msg.To), sl.Err(err))
			s.record(false)
			return nil
		}
		log.Warn("sms delivery attempt failed",
			slog.String("to", msg.To), slog.Int("attempt", attempt), sl.Err(err))
		if attempt < s.maxAttempts {
			time.Sleep(s.backoff * time.Duration(attempt))
		}
	}

	s.record(false)
	return fmt.Errorf("%s: %w", op, lastErr)
}

func (s *SenderService) send(msg models.SMSMessage) (*smsprovider.SendResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.provider.Send(ctx, msg.To, msg.Content)
}

func (s *SenderService) record(ok bool) {
	if s.recorder != nil {
		s.recorder.Notification(ok)
	}
}
