package get_client_bookings

import (
	"net/http"

	"github.com/m04kA/consultation-booking-service/internal/api/handlers"
	"github.com/m04kA/consultation-booking-service/internal/service/bookings/models"
)

const msgInvalidClientID = "некорректный ID клиента"

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

// Handle GET /api/v1/clients/{clientId}/bookings
// Query params: status (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := handlers.RequireActor(w, r)
	if !ok {
		return
	}

	clientID, err := handlers.PathInt64(r, "clientId")
	if err != nil {
		h.logger.Warn("GET /clients/{id}/bookings - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	req := &models.ClientBookingsRequest{Actor: actor, ClientID: clientID}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.GetClientBookings(r.Context(), req)
	if err != nil {
		if handlers.RespondBookingServiceError(w, err) {
			h.logger.Warn("GET /clients/{id}/bookings - Rejected: client_id=%d, actor=%d, error=%v", clientID, actor.UserID, err)
		} else {
			h.logger.Error("GET /clients/{id}/bookings - Failed to get bookings: client_id=%d, error=%v", clientID, err)
		}
		return
	}

	h.logger.Info("GET /clients/{id}/bookings - Bookings retrieved: client_id=%d, count=%d", clientID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
