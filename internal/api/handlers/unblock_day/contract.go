package unblock_day

import (
	"context"
	"time"

	"github.com/m04kA/consultation-booking-service/internal/domain"
)

type SettingsService interface {
	UnblockDay(ctx context.Context, actor domain.Actor, date time.Time) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
