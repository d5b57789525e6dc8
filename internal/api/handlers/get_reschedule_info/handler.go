package get_reschedule_info

import (
	"errors"
	"net/http"

	"github.com/m04kA/consultation-booking-service/internal/api/handlers"
	getRescheduleInfo "github.com/m04kA/consultation-booking-service/internal/usecase/get_reschedule_info"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
	msgForbidden        = "доступ запрещен"
)

type Handler struct {
	useCase GetRescheduleInfoUseCase
	logger  Logger
}

func NewHandler(useCase GetRescheduleInfoUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/{bookingId}/reschedule-info
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := handlers.RequireActor(w, r)
	if !ok {
		return
	}

	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("GET /bookings/{id}/reschedule-info - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getRescheduleInfo.Request{Actor: actor, BookingID: bookingID})
	if err != nil {
		switch {
		case errors.Is(err, getRescheduleInfo.ErrBookingNotFound):
			h.logger.Warn("GET /bookings/{id}/reschedule-info - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, getRescheduleInfo.ErrForbidden):
			h.logger.Warn("GET /bookings/{id}/reschedule-info - Access denied: booking_id=%d, actor=%d", bookingID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /bookings/{id}/reschedule-info - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
