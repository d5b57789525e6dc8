package reschedule_booking

import (
	"time"

	"github.com/m04kA/consultation-booking-service/internal/domain"
	"github.com/m04kA/consultation-booking-service/pkg/types"
)

// Request модель запроса на перенос бронирования
type Request struct {
	Actor     domain.Actor
	BookingID int64
	NewDate   time.Time
	NewTime   types.TimeString
}

// Response модель ответа с перенесенным бронированием
type Response struct {
	Booking  *domain.Booking // Актуальная версия из хранилища
	Warnings []string        // Информационные предупреждения
	NoOp     bool            // Перенос на тот же слот, изменений нет
}
