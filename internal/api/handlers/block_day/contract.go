package block_day

import (
	"context"

	"github.com/m04kA/consultation-booking-service/internal/domain"
	"github.com/m04kA/consultation-booking-service/internal/service/settings/models"
)

type SettingsService interface {
	BlockDay(ctx context.Context, actor domain.Actor, req *models.BlockDayRequest) (*models.BlockedDayResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
