package unblock_day

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/consultation-booking-service/internal/api/handlers"
	"github.com/m04kA/consultation-booking-service/internal/domain"
	"github.com/m04kA/consultation-booking-service/internal/service/settings"
)

const (
	msgInvalidDate = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgForbidden   = "снимать блокировку может только администратор"
	msgNotFound    = "дата не заблокирована"
)

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

// Handle DELETE /api/v1/blocked-days/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := handlers.RequireActor(w, r)
	if !ok {
		return
	}

	dateStr := mux.Vars(r)["date"]
	date, err := domain.ParseDate(dateStr, h.loc)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	if err := h.service.UnblockDay(r.Context(), actor, date); err != nil {
		switch {
		case errors.Is(err, settings.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)
		case errors.Is(err, settings.ErrBlockedDayNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		default:
			h.logger.Error("DELETE /blocked-days/{date} - Failed to unblock %s: %v", dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /blocked-days/{date} - Day unblocked: date=%s, actor=%d", dateStr, actor.UserID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
