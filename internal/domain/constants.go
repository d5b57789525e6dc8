package domain

import "time"

// Business policy constants
const (
	// BookingHorizonDays максимальное число дней вперед, на которое можно забронировать.
	// Дата today+BookingHorizonDays еще доступна.
	BookingHorizonDays = 30

	// RescheduleNotice минимальное время до сессии, при котором клиент может
	// отменить или перенести бронирование
	RescheduleNotice = 24 * time.Hour

	// FarRescheduleWarningDays перенос дальше этого числа дней дает предупреждение
	FarRescheduleWarningDays = 14
)

// Business validation constants
const (
	MinSessionDurationMinutes = 5
	MaxSessionDurationMinutes = 180
	MaxNotesLength            = 1000
	MaxBlockedDayReasonLength = 255
)

// Default configuration values
const (
	DefaultWorkStart              = "09:00"
	DefaultWorkEnd                = "18:00"
	DefaultSessionDurationMinutes = 60
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// AllStatuses все статусы бронирования
var AllStatuses = []BookingStatus{
	StatusPendingPayment,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
}

// OccupyingStatuses статусы, занимающие слот
// Используется для фильтрации при подсчёте доступных слотов
var OccupyingStatuses = []BookingStatus{
	StatusPendingPayment,
	StatusConfirmed,
	StatusCompleted,
}
