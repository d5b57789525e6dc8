package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/consultation-booking-service/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// ProductRepository интерфейс репозитория услуг
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

// BlockedDayRepository интерфейс репозитория заблокированных дней
type BlockedDayRepository interface {
	IsBlocked(ctx context.Context, date time.Time) (bool, error)
}

// WorkingHoursProvider текущие настройки рабочего времени
type WorkingHoursProvider interface {
	Current() domain.WorkingHoursConfig
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier отправка уведомлений (fire-and-forget)
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

// Metrics доменные метрики
type Metrics interface {
	IncBookingsCreated()
	IncSlotConflict(operation string)
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
