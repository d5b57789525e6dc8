package get_working_hours

import (
	"net/http"

	"github.com/m04kA/consultation-booking-service/internal/api/handlers"
)

type Handler struct {
	service SettingsService
}

func NewHandler(service SettingsService) *Handler {
	return &Handler{service: service}
}

// Handle GET /api/v1/settings/working-hours
func (h *Handler) Handle(w http.ResponseWriter, _ *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.service.GetWorkingHours())
}
