package block_day

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/consultation-booking-service/internal/api/handlers"
	"github.com/m04kA/consultation-booking-service/internal/domain"
	"github.com/m04kA/consultation-booking-service/internal/service/settings"
	"github.com/m04kA/consultation-booking-service/internal/service/settings/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgForbidden          = "блокировать дни может только администратор"
	msgAlreadyBlocked     = "дата уже заблокирована"
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

// Handle POST /api/v1/blocked-days
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := handlers.RequireActor(w, r)
	if !ok {
		return
	}

	var req BlockDayRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /blocked-days - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if !handlers.ValidateRequest(w, &req) {
		h.logger.Warn("POST /blocked-days - Validation failed: date=%q", req.Date)
		return
	}

	date, err := domain.ParseDate(req.Date, h.loc)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.BlockDay(r.Context(), actor, &models.BlockDayRequest{Date: date, Reason: req.Reason})
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)
		case errors.Is(err, settings.ErrAlreadyBlocked):
			handlers.RespondConflict(w, msgAlreadyBlocked)
		case errors.Is(err, settings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
		default:
			h.logger.Error("POST /blocked-days - Failed to block %s: %v", req.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /blocked-days - Day blocked: date=%s, actor=%d", result.Date, actor.UserID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
