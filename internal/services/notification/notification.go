// Package notification отправка SMS-уведомлений о заказах по принципу fire-and-forget.
// Ошибки доставки не возвращаются вызывающему коду, а только логируются.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/webshop/internal/lib/sl"
	"github.com/magabrotheeeer/webshop/internal/models"
)

// Notifier доставляет текст на номер телефона. false означает неудачу.
type Notifier interface {
	Send(ctx context.Context, to, text string) bool
}

// Publisher публикует сообщение в брокер.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Recorder учитывает результат доставки.
type Recorder interface {
	Notification(delivered bool)
}

// OrderConfirmedText текст SMS о созданном заказе.
func OrderConfirmedText(orderNumber string, total decimal.Decimal) string {
	return fmt.Sprintf("Order %s confirmed! Total: €%s. Thank you for your purchase!", orderNumber, total.StringFixed(2))
}

// StatusChangedText текст SMS о смене статуса.
func StatusChangedText(orderNumber string, status models.OrderStatus) string {
	return fmt.Sprintf("Order %s status updated to: %s", orderNumber, status)
}

// LogNotifier пишет уведомления в лог вместо отправки.
type LogNotifier struct {
	log *slog.Logger
}

// NewLogNotifier создаёт LogNotifier.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Send логирует сообщение и всегда сообщает об успехе.
func (n *LogNotifier) Send(_ context.Context, to, text string) bool {
	n.log.Info("sms notification", slog.String("to", to), slog.String("text", text))
	return true
}

// QueueNotifier публикует SMS в очередь воркера рассылки.
type QueueNotifier struct {
	log        *slog.Logger
	publisher  Publisher
	routingKey string
}

// NewQueueNotifier создаёт QueueNotifier.
func NewQueueNotifier(log *slog.Logger, publisher Publisher, routingKey string) *QueueNotifier {
	return &QueueNotifier{log: log, publisher: publisher, routingKey: routingKey}
}

// Send публикует сообщение, ожидая не дольше, чем позволяет ctx.
func (n *QueueNotifier) Send(ctx context.Context, to, text string) bool {
	const op = "notification.QueueNotifier.Send"
	if err := ctx.Err(); err != nil {
		n.log.Warn("sms notification skipped", sl.Op(op), sl.Err(err))
		return false
	}

	done := make(chan error, 1)
	go func() {
		done <- n.publisher.Publish(n.routingKey, models.SMSMessage{To: to, Content: text})
	}()

	select {
	case err := <-done:
		if err != nil {
			n.log.Warn("failed to publish sms", sl.Op(op), slog.String("to", to), sl.Err(err))
			return false
		}
		return true
	case <-ctx.Done():
		n.log.Warn("sms publish timed out", sl.Op(op), slog.String("to", to), sl.Err(ctx.Err()))
		return false
	}
}

// Dispatcher запускает отправку в отдельной горутине со своим таймаутом,
// не задерживая ответ клиенту.
type Dispatcher struct {
	log      *slog.Logger
	notifier Notifier
	recorder Recorder
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewDispatcher создаёт Dispatcher. recorder может быть nil.
func NewDispatcher(log *slog.Logger, notifier Notifier, recorder Recorder, timeout time.Duration) *Dispatcher {
	return &Dispatcher{log: log, notifier: notifier, recorder: recorder, timeout: timeout}
}

// Dispatch ставит отправку в фон и сразу возвращает управление.
func (d *Dispatcher) Dispatch(to, text string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.log.Error("sms notifier panicked", slog.Any("panic", r))
				d.record(false)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		ok := d.notifier.Send(ctx, to, text)
		if !ok {
			d.log.Warn("sms notification was not delivered", slog.String("to", to))
		}
		d.record(ok)
	}()
}

// Wait дожидается завершения запущенных отправок.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) record(ok bool) {
	if d.recorder != nil {
		d.recorder.Notification(ok)
	}
}
