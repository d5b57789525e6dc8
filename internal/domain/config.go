package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/consultation-booking-service/pkg/types"
)

// WorkingHoursConfig рабочее окно дня и длительность сессии.
// Значение неизменяемое: изменение настроек создает новое значение.
type WorkingHoursConfig struct {
	WorkStart              types.TimeString
	WorkEnd                types.TimeString
	SessionDurationMinutes int
	UpdatedAt              time.Time
}

// NewWorkingHoursConfig парсит и валидирует настройки рабочего времени
func NewWorkingHoursConfig(workStart, workEnd string, sessionDurationMinutes int) (WorkingHoursConfig, error) {
	start, err := types.NewTimeStringFromString(workStart)
	if err != nil {
		return WorkingHoursConfig{}, fmt.Errorf("%w: work start: %v", ErrInvalidConfiguration, err)
	}

	end, err := types.NewTimeStringFromString(workEnd)
	if err != nil {
		return WorkingHoursConfig{}, fmt.Errorf("%w: work end: %v", ErrInvalidConfiguration, err)
	}

	cfg := WorkingHoursConfig{
		WorkStart:              start,
		WorkEnd:                end,
		SessionDurationMinutes: sessionDurationMinutes,
	}
	if err := cfg.Validate(); err != nil {
		return WorkingHoursConfig{}, err
	}

	return cfg, nil
}

// Validate проверяет инварианты: корректное время, start < end, длительность 5..180.
// Окно не обязано делиться на длительность без остатка.
func (c WorkingHoursConfig) Validate() error {
	start, err := c.WorkStart.Minutes()
	if err != nil {
		return fmt.Errorf("%w: work start: %v", ErrInvalidConfiguration, err)
	}

	end, err := c.WorkEnd.Minutes()
	if err != nil {
		return fmt.Errorf("%w: work end: %v", ErrInvalidConfiguration, err)
	}

	if start >= end {
		return fmt.Errorf("%w: work start %s must be before work end %s", ErrInvalidConfiguration, c.WorkStart, c.WorkEnd)
	}

	if c.SessionDurationMinutes < MinSessionDurationMinutes || c.SessionDurationMinutes > MaxSessionDurationMinutes {
		return fmt.Errorf("%w: session duration must be between %d and %d minutes, got %d",
			ErrInvalidConfiguration, MinSessionDurationMinutes, MaxSessionDurationMinutes, c.SessionDurationMinutes)
	}

	return nil
}

// WithWorkingHours возвращает новую конфигурацию с другим рабочим окном
func (c WorkingHoursConfig) WithWorkingHours(start, end types.TimeString) WorkingHoursConfig {
	c.WorkStart = start
	c.WorkEnd = end
	return c
}

// WithSessionDuration возвращает новую конфигурацию с другой длительностью сессии
func (c WorkingHoursConfig) WithSessionDuration(minutes int) WorkingHoursConfig {
	c.SessionDurationMinutes = minutes
	return c
}
