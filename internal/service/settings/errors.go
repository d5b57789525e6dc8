package settings

import (
	"errors"
	"fmt"

	"github.com/m04kA/consultation-booking-service/internal/domain"
)

var (
	// ErrInvalidConfiguration возвращается при некорректных настройках рабочего времени
	ErrInvalidConfiguration = fmt.Errorf("settings: %w", domain.ErrInvalidConfiguration)

	// ErrAccessDenied возвращается, когда изменить настройки пытается не администратор
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyBlocked возвращается при повторной блокировке даты
	ErrAlreadyBlocked = errors.New("day already blocked")

	// ErrBlockedDayNotFound возвращается, когда дата не заблокирована
	ErrBlockedDayNotFound = errors.New("blocked day not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
