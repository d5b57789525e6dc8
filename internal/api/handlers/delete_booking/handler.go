package delete_booking

import (
	"net/http"
	"strings"

	"github.com/m04kA/consultation-booking-service/internal/api/handlers"
)

// HeaderConfirmDelete вызывающий слой подтверждает необратимое удаление
const HeaderConfirmDelete = "X-Confirm-Delete"

const (
	msgInvalidBookingID     = "некорректный ID бронирования"
	msgConfirmationRequired = "удаление необратимо, подтвердите операцию заголовком X-Confirm-Delete: true"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/bookings/{bookingId}
// Физическое удаление, только администратор. Без подтверждения отвечает 428.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := handlers.RequireActor(w, r)
	if !ok {
		return
	}

	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("DELETE /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	if !strings.EqualFold(r.Header.Get(HeaderConfirmDelete), "true") {
		h.logger.Warn("DELETE /bookings/{id} - Unconfirmed delete: booking_id=%d, actor=%d", bookingID, actor.UserID)
		handlers.RespondError(w, http.StatusPreconditionRequired, handlers.CodeConfirmationRequired, msgConfirmationRequired)
		return
	}

	if err := h.service.Delete(r.Context(), bookingID, actor); err != nil {
		if handlers.RespondBookingServiceError(w, err) {
			h.logger.Warn("DELETE /bookings/{id} - Rejected: booking_id=%d, actor=%d, error=%v", bookingID, actor.UserID, err)
		} else {
			h.logger.Error("DELETE /bookings/{id} - Failed to delete booking: booking_id=%d, error=%v", bookingID, err)
		}
		return
	}

	h.logger.Info("DELETE /bookings/{id} - Booking deleted: booking_id=%d, actor=%d", bookingID, actor.UserID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
