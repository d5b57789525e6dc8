package mark_booking_paid

import (
	"net/http"

	"github.com/m04kA/consultation-booking-service/internal/api/handlers"
)

const msgInvalidBookingID = "некорректный ID бронирования"

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

// Handle POST /api/v1/bookings/{bookingId}/mark-paid
// Только администратор: pending_payment -> confirmed.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := handlers.RequireActor(w, r)
	if !ok {
		return
	}

	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/mark-paid - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	booking, err := h.service.MarkPaid(r.Context(), bookingID, actor)
	if err != nil {
		if handlers.RespondBookingServiceError(w, err) {
			h.logger.Warn("POST /bookings/{id}/mark-paid - Rejected: booking_id=%d, actor=%d, error=%v",
				bookingID, actor.UserID, err)
		} else {
			h.logger.Error("POST /bookings/{id}/mark-paid - Failed to confirm booking: booking_id=%d, error=%v", bookingID, err)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/mark-paid - Booking confirmed: booking_id=%d, status=%s", bookingID, booking.Status)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
