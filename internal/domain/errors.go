package domain

import (
	"errors"
	"strings"
)

// Таксономия ошибок ядра. Ошибки пакетов оборачивают их через %w.
var (
	// ErrInvalidConfiguration некорректные настройки рабочего времени
	ErrInvalidConfiguration = errors.New("invalid working hours configuration")

	// ErrInvalidTransition переход статуса запрещен таблицей переходов
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrRescheduleBlocked перенос или отмена заблокированы жесткими причинами
	ErrRescheduleBlocked = errors.New("reschedule blocked")

	// ErrSlotUnavailable слот занят, заблокирован или вне горизонта бронирования
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrRemoteOperationFailed транспортная или серверная ошибка удаленной операции
	ErrRemoteOperationFailed = errors.New("remote operation failed")

	// ErrUnknownStatus строка не является статусом бронирования
	ErrUnknownStatus = errors.New("unknown booking status")
)

// RescheduleBlockedError несет полный список причин блокировки,
// чтобы вызывающая сторона могла показать их все сразу
type RescheduleBlockedError struct {
	Reasons []string
}

func NewRescheduleBlockedError(reasons []string) *RescheduleBlockedError {
	return &RescheduleBlockedError{Reasons: append([]string(nil), reasons...)}
}

func (e *RescheduleBlockedError) Error() string {
	if len(e.Reasons) == 0 {
		return ErrRescheduleBlocked.Error()
	}
	return ErrRescheduleBlocked.Error() + ": " + strings.Join(e.Reasons, "; ")
}

func (e *RescheduleBlockedError) Unwrap() error {
	return ErrRescheduleBlocked
}

// BlockedReasons извлекает причины из цепочки ошибок
func BlockedReasons(err error) []string {
	var blocked *RescheduleBlockedError
	if errors.As(err, &blocked) {
		return blocked.Reasons
	}
	return nil
}
