package list_blocked_days

import (
	"context"
	"time"

	"github.com/m04kA/consultation-booking-service/internal/service/settings/models"
)

type SettingsService interface {
	ListBlockedDays(ctx context.Context, from, to *time.Time) (*models.BlockedDayListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
