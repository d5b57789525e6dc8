package list_bookings

import (
	"net/http"
	"time"

	"github.com/m04kA/consultation-booking-service/internal/api/handlers"
)

const msgInvalidFilter = "некорректные параметры фильтрации"

type Handler struct {
	service BookingService
	loc     *time.Location
	logger  Logger
}

func NewHandler(service BookingService, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		service: service,
		loc:     loc,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings
// Query params: from, to, status, clientId, includeCancelled (все опциональны)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := handlers.RequireActor(w, r)
	if !ok {
		return
	}

	req, err := ToServiceRequest(r, actor, h.loc)
	if err != nil {
		h.logger.Warn("GET /bookings - Invalid filter: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		if handlers.RespondBookingServiceError(w, err) {
			h.logger.Warn("GET /bookings - Rejected: actor=%d, error=%v", actor.UserID, err)
		} else {
			h.logger.Error("GET /bookings - Failed to list bookings: error=%v", err)
		}
		return
	}

	h.logger.Info("GET /bookings - Bookings retrieved: count=%d", len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
