package cancel_booking

import (
	"context"

	"github.com/m04kA/consultation-booking-service/internal/domain"
	"github.com/m04kA/consultation-booking-service/internal/service/bookings/models"
)

type BookingService interface {
	Cancel(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
