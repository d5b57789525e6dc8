package bookingapi

import (
	"errors"
	"fmt"

	"github.com/m04kA/consultation-booking-service/internal/domain"
)

var (
	// ErrBookingNotFound бронирование не найдено на сервере
	ErrBookingNotFound = errors.New("bookingapi: booking not found")

	// ErrAccessDenied сервер отказал в доступе (401/403 без причин блокировки)
	ErrAccessDenied = errors.New("bookingapi: access denied")

	// ErrRejected сервер отклонил запрос как некорректный
	ErrRejected = errors.New("bookingapi: request rejected")

	// ErrInvalidResponse сервер вернул ответ, который не удалось разобрать
	ErrInvalidResponse = fmt.Errorf("bookingapi: invalid response: %w", domain.ErrRemoteOperationFailed)

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("bookingapi: internal error")
)
