package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/consultation-booking-service/pkg/ptr"
)

// SideEffect побочный эффект перехода статуса
type SideEffect string

const (
	// EffectSetPaidAt выставить время оплаты в момент перехода
	EffectSetPaidAt SideEffect = "set_paid_at"
	// EffectNotifyConfirmed отправить уведомление о подтверждении
	EffectNotifyConfirmed SideEffect = "notify_confirmed"
	// EffectNotifyCancelled отправить уведомление об отмене
	EffectNotifyCancelled SideEffect = "notify_cancelled"
)

// transitions таблица допустимых переходов и их побочных эффектов.
// Отсутствие пары означает InvalidTransition; completed и cancelled терминальные.
var transitions = map[BookingStatus]map[BookingStatus][]SideEffect{
	StatusPendingPayment: {
		StatusConfirmed: {EffectSetPaidAt, EffectNotifyConfirmed},
		StatusCancelled: {EffectNotifyCancelled},
	},
	StatusConfirmed: {
		StatusCompleted: nil,
		StatusCancelled: {EffectNotifyCancelled},
	},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransition проверяет допустимость перехода from -> to
func CanTransition(from, to BookingStatus) bool {
	next, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}

// AllowedTransitions возвращает статусы, в которые можно перейти из from
func AllowedTransitions(from BookingStatus) []BookingStatus {
	result := make([]BookingStatus, 0, 2)
	for _, to := range AllStatuses {
		if CanTransition(from, to) {
			result = append(result, to)
		}
	}
	return result
}

// TransitionResult результат применения перехода
type TransitionResult struct {
	Booking *Booking // новая версия бронирования (исходное не изменяется)
	From    BookingStatus
	To      BookingStatus
	Effects []SideEffect
}

// HasEffect returns true if the transition carries the given side effect
func (r *TransitionResult) HasEffect(effect SideEffect) bool {
	for _, e := range r.Effects {
		if e == effect {
			return true
		}
	}
	return false
}

// Transition применяет переход статуса к копии бронирования.
// Это единственное место, где меняется Booking.Status.
func Transition(b *Booking, to BookingStatus, now time.Time) (*TransitionResult, error) {
	if _, err := ParseBookingStatus(string(to)); err != nil {
		return nil, fmt.Errorf("%w: unknown target status %q", ErrInvalidTransition, to)
	}
	if !CanTransition(b.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, to)
	}

	effects := transitions[b.Status][to]
	next := b.Clone()
	next.Status = to

	for _, effect := range effects {
		if effect == EffectSetPaidAt {
			next.PaidAt = ptr.Ptr(now)
		}
	}

	return &TransitionResult{
		Booking: next,
		From:    b.Status,
		To:      to,
		Effects: append([]SideEffect(nil), effects...),
	}, nil
}
