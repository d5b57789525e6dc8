package get_reschedule_info

import (
	"context"

	getRescheduleInfo "github.com/m04kA/consultation-booking-service/internal/usecase/get_reschedule_info"
)

type GetRescheduleInfoUseCase interface {
	Execute(ctx context.Context, req *getRescheduleInfo.Request) (*getRescheduleInfo.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
