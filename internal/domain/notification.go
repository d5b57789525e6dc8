package domain

import "time"

// NotificationKind тип события для внешней доставки уведомлений
type NotificationKind string

const (
	NotifyBookingCreated     NotificationKind = "booking_created"
	NotifyBookingConfirmed   NotificationKind = "booking_confirmed"
	NotifyBookingCancelled   NotificationKind = "booking_cancelled"
	NotifyBookingRescheduled NotificationKind = "booking_rescheduled"
	NotifyBookingDeleted     NotificationKind = "booking_deleted"
)

// Notification событие, которое ядро отдает на доставку (fire-and-forget)
type Notification struct {
	Kind        NotificationKind
	BookingID   int64
	ClientID    int64
	BookingDate time.Time
	StartTime   string
	Status      BookingStatus
	// Прежние дата и время, заполняются только для переноса
	PreviousDate *time.Time
	PreviousTime *string
	OccurredAt   time.Time
}

// NotificationFor строит событие по бронированию
func NotificationFor(kind NotificationKind, b *Booking, now time.Time) Notification {
	return Notification{
		Kind:        kind,
		BookingID:   b.ID,
		ClientID:    b.ClientID,
		BookingDate: b.BookingDate,
		StartTime:   b.StartTime.String(),
		Status:      b.Status,
		OccurredAt:  now,
	}
}

// NotificationKindForEffects выбирает уведомление для побочных эффектов перехода
func NotificationKindForEffects(effects []SideEffect) (NotificationKind, bool) {
	for _, e := range effects {
		switch e {
		case EffectNotifyConfirmed:
			return NotifyBookingConfirmed, true
		case EffectNotifyCancelled:
			return NotifyBookingCancelled, true
		}
	}
	return "", false
}
