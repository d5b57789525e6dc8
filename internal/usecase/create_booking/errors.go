package create_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/consultation-booking-service/internal/domain"
)

var (
	// ErrProductNotFound возвращается, когда услуга не найдена
	ErrProductNotFound = errors.New("create_booking: product not found")

	// ErrProductInactive возвращается, когда услуга снята с продажи
	ErrProductInactive = errors.New("create_booking: product is not active")

	// ErrSlotNotAvailable возвращается, когда слот занят, заблокирован,
	// уже начался или находится вне горизонта бронирования
	ErrSlotNotAvailable = fmt.Errorf("create_booking: %w", domain.ErrSlotUnavailable)

	// ErrForbidden возвращается, когда клиент пытается бронировать за другого клиента
	ErrForbidden = errors.New("create_booking: forbidden")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
