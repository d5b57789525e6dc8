package settings

import (
	"context"
	"time"

	"github.com/m04kA/consultation-booking-service/internal/domain"
)

// WorkingHoursRepository интерфейс репозитория настроек рабочего времени
type WorkingHoursRepository interface {
	Get(ctx context.Context) (*domain.WorkingHoursConfig, error)
	Save(ctx context.Context, cfg domain.WorkingHoursConfig) (*domain.WorkingHoursConfig, error)
}

// BlockedDayRepository интерфейс репозитория заблокированных дней
type BlockedDayRepository interface {
	Add(ctx context.Context, day *domain.BlockedDay) (*domain.BlockedDay, error)
	List(ctx context.Context, from, to *time.Time) ([]*domain.BlockedDay, error)
	Remove(ctx context.Context, date time.Time) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
