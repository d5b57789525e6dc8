package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/consultation-booking-service/internal/service/bookings"
)

const (
	msgBookingNotFound = "бронирование не найдено"
	msgAccessDenied    = "доступ запрещен"
	msgInvalidInput    = "некорректные данные запроса"
)

// RespondBookingServiceError отвечает на ошибку сервиса бронирований.
// Возвращает false, если ошибка внутренняя (ответ 500 уже записан).
func RespondBookingServiceError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, bookings.ErrBookingNotFound):
		RespondNotFound(w, msgBookingNotFound)
	case errors.Is(err, bookings.ErrAccessDenied):
		RespondForbidden(w, msgAccessDenied)
	case errors.Is(err, bookings.ErrInvalidInput):
		RespondBadRequest(w, msgInvalidInput)
	case RespondDomainError(w, err):
	default:
		RespondInternalError(w)
		return false
	}
	return true
}
