package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/consultation-booking-service/internal/domain"
)

const defaultPublishTimeout = 2 * time.Second

// Publisher кладет события бронирований в Redis-список (LPUSH).
// Потребитель забирает их с другого конца списка (BRPOP).
type Publisher struct {
	client  redis.Cmdable
	key     string
	timeout time.Duration
	log     Logger
	metrics MetricsRecorder
}

// NewPublisher создает новый экземпляр издателя. metrics может быть nil.
func NewPublisher(client redis.Cmdable, key string, log Logger, metrics MetricsRecorder) *Publisher {
	return &Publisher{
		client:  client,
		key:     key,
		timeout: defaultPublishTimeout,
		log:     log,
		metrics: metrics,
	}
}

// Publish сериализует событие и кладет его в очередь
func (p *Publisher) Publish(ctx context.Context, n domain.Notification) (string, error) {
	event := toEvent(n)

	payload, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncode, err)
	}

	if err := p.client.LPush(ctx, p.key, payload).Err(); err != nil {
		return "", fmt.Errorf("%w: key=%s: %v", ErrPublish, p.key, err)
	}

	return event.EventID, nil
}

// Notify публикует событие в режиме fire-and-forget: ошибка только логируется.
// Отмена контекста запроса не прерывает публикацию.
func (p *Publisher) Notify(ctx context.Context, n domain.Notification) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	eventID, err := p.Publish(ctx, n)
	if p.metrics != nil {
		p.metrics.IncNotification(string(n.Kind), err == nil)
	}
	if err != nil {
		p.log.Error("Notify: failed to publish %s for booking id=%d: %v", n.Kind, n.BookingID, err)
		return
	}

	p.log.Info("Notify: published %s for booking id=%d, event_id=%s", n.Kind, n.BookingID, eventID)
}

// Nop уведомитель для отключенной доставки
type Nop struct{}

func (Nop) Notify(context.Context, domain.Notification) {}

func toEvent(n domain.Notification) Event {
	event := Event{
		EventID:     uuid.NewString(),
		Kind:        string(n.Kind),
		BookingID:   n.BookingID,
		ClientID:    n.ClientID,
		BookingDate: n.BookingDate.Format(domain.DateFormat),
		StartTime:   n.StartTime,
		Status:      string(n.Status),
		OccurredAt:  n.OccurredAt.UTC(),
	}

	if n.PreviousDate != nil {
		prev := n.PreviousDate.Format(domain.DateFormat)
		event.PreviousDate = &prev
	}
	event.PreviousTime = n.PreviousTime

	return event
}
