package create_booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/consultation-booking-service/internal/api/handlers"
	"github.com/m04kA/consultation-booking-service/internal/service/bookings/models"
	createBooking "github.com/m04kA/consultation-booking-service/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgInvalidInput       = "некорректные данные бронирования"
	msgProductNotFound    = "услуга не найдена"
	msgProductInactive    = "услуга недоступна для бронирования"
	msgForbidden          = "нельзя бронировать от имени другого клиента"
)

type Handler struct {
	useCase CreateBookingUseCase
	loc     *time.Location
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		loc:     loc,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := handlers.RequireActor(w, r)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if !handlers.ValidateRequest(w, &req) {
		h.logger.Warn("POST /bookings - Validation failed: actor=%d, date=%q, time=%q", actor.UserID, req.BookingDate, req.StartTime)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor, h.loc)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: actor=%d, error=%v", actor.UserID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrForbidden):
			h.logger.Warn("POST /bookings - Forbidden: actor=%d, client=%d", actor.UserID, req.ClientID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createBooking.ErrProductNotFound):
			h.logger.Warn("POST /bookings - Product not found: product_id=%d", req.ProductID)
			handlers.RespondNotFound(w, msgProductNotFound)

		case errors.Is(err, createBooking.ErrProductInactive):
			h.logger.Warn("POST /bookings - Product inactive: product_id=%d", req.ProductID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, handlers.CodeInvalidInput, msgProductInactive)

		case handlers.RespondDomainError(w, err):
			h.logger.Warn("POST /bookings - Rejected: actor=%d, date=%s, time=%s, error=%v",
				actor.UserID, req.BookingDate, req.StartTime, err)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: actor=%d, error=%v", actor.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, client_id=%d",
		result.Booking.ID, result.Booking.ClientID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainBooking(result.Booking))
}
