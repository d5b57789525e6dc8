package list_blocked_days

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/consultation-booking-service/internal/api/handlers"
	"github.com/m04kA/consultation-booking-service/internal/service/settings"
)

const msgInvalidPeriod = "некорректный период, ожидаются даты YYYY-MM-DD"

type Handler struct {
	service SettingsService
	loc     *time.Location
	logger  Logger
}

func NewHandler(service SettingsService, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		service: service,
		loc:     loc,
		logger:  logger,
	}
}

// Handle GET /api/v1/blocked-days?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	from, err := handlers.QueryDate(r, "from", h.loc)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}
	to, err := handlers.QueryDate(r, "to", h.loc)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	result, err := h.service.ListBlockedDays(r.Context(), from, to)
	if err != nil {
		if errors.Is(err, settings.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
		h.logger.Error("GET /blocked-days - Failed to list: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
