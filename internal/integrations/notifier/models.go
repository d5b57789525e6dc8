package notifier

import "time"

// Event событие в очереди уведомлений. Доставку (Telegram, email)
// выполняет внешний потребитель очереди.
type Event struct {
	EventID      string    `json:"event_id"`
	Kind         string    `json:"kind"`
	BookingID    int64     `json:"booking_id"`
	ClientID     int64     `json:"client_id"`
	BookingDate  string    `json:"booking_date"`
	StartTime    string    `json:"start_time"`
	Status       string    `json:"status"`
	PreviousDate *string   `json:"previous_date,omitempty"`
	PreviousTime *string   `json:"previous_time,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
