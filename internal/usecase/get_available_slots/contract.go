package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/consultation-booking-service/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// BlockedDayRepository интерфейс репозитория заблокированных дней
type BlockedDayRepository interface {
	IsBlocked(ctx context.Context, date time.Time) (bool, error)
}

// WorkingHoursProvider текущие настройки рабочего времени
type WorkingHoursProvider interface {
	Current() domain.WorkingHoursConfig
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
