package reschedule_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/consultation-booking-service/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrForbidden возвращается, когда клиент переносит чужое бронирование
	ErrForbidden = errors.New("reschedule_booking: forbidden")

	// ErrSlotNotAvailable возвращается, когда новый слот недоступен
	ErrSlotNotAvailable = fmt.Errorf("reschedule_booking: %w", domain.ErrSlotUnavailable)

	// ErrBookingChanged возвращается, когда статус бронирования изменился во время переноса
	ErrBookingChanged = fmt.Errorf("reschedule_booking: booking changed concurrently: %w", domain.ErrInvalidTransition)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
