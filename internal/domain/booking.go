package domain

import (
	"time"

	"github.com/m04kA/consultation-booking-service/pkg/ptr"
	"github.com/m04kA/consultation-booking-service/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPendingPayment BookingStatus = "pending_payment"
	StatusConfirmed      BookingStatus = "confirmed"
	StatusCompleted      BookingStatus = "completed"
	StatusCancelled      BookingStatus = "cancelled"
)

// ParseBookingStatus конвертирует строку в BookingStatus с валидацией
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	for _, valid := range AllStatuses {
		if status == valid {
			return status, nil
		}
	}
	return "", ErrUnknownStatus
}

// Booking бронирование одного слота (дата + время) для одного клиента и одной услуги
type Booking struct {
	ID          int64
	ClientID    int64
	ProductID   int64
	BookingDate time.Time        // только дата, время суток обнулено
	StartTime   types.TimeString // начало слота, "HH:MM"
	Amount      float64
	Notes       *string
	Status      BookingStatus

	PaidAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OccupiesSlot returns true if the booking holds its (date, time) slot
func (b *Booking) OccupiesSlot() bool {
	return b.Status.OccupiesSlot()
}

// IsTerminal returns true if no further transitions are possible
func (b *Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}

// CanBeRescheduled returns true if the status allows moving the booking
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusPendingPayment || b.Status == StatusConfirmed
}

// ScheduledAt возвращает момент начала сессии в локации даты бронирования
func (b *Booking) ScheduledAt() (time.Time, error) {
	return b.StartTime.On(b.BookingDate)
}

// SameSlot returns true if the booking is at the given date and time
func (b *Booking) SameSlot(date time.Time, start types.TimeString) bool {
	return SameDay(b.BookingDate, date) && b.StartTime == start
}

// Clone возвращает глубокую копию бронирования
func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	c := *b
	if b.Notes != nil {
		c.Notes = ptr.Ptr(*b.Notes)
	}
	if b.PaidAt != nil {
		c.PaidAt = ptr.Ptr(*b.PaidAt)
	}
	return &c
}

// OccupiesSlot returns true for statuses that hold a slot
func (s BookingStatus) OccupiesSlot() bool {
	return s == StatusPendingPayment || s == StatusConfirmed || s == StatusCompleted
}

// IsTerminal returns true for completed and cancelled
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// BookingsFilter фильтр для получения списка бронирований
type BookingsFilter struct {
	ClientID         *int64         // Фильтр по клиенту (опционально)
	StartDate        *time.Time     // Начало периода (опционально)
	EndDate          *time.Time     // Конец периода (опционально)
	Status           *BookingStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool           // Включать ли отменённые бронирования
	ForUpdate        bool           // Блокировать строки (только внутри транзакции)
}

// ForDate фильтр занятых слотов на одну дату
func ForDate(date time.Time) BookingsFilter {
	d := DateOnly(date)
	return BookingsFilter{StartDate: &d, EndDate: &d}
}
