package models

import (
	"time"

	"github.com/m04kA/consultation-booking-service/internal/domain"
)

// UpdateWorkingHoursRequest запрос на изменение рабочего времени
type UpdateWorkingHoursRequest struct {
	WorkStart              string `json:"workStart"` // "09:00"
	WorkEnd                string `json:"workEnd"`   // "18:00"
	SessionDurationMinutes int    `json:"sessionDurationMinutes"`
}

// BlockDayRequest запрос на блокировку даты
type BlockDayRequest struct {
	Date   time.Time
	Reason *string
}

// WorkingHoursResponse текущие настройки рабочего времени
type WorkingHoursResponse struct {
	WorkStart              string     `json:"workStart"`
	WorkEnd                string     `json:"workEnd"`
	SessionDurationMinutes int        `json:"sessionDurationMinutes"`
	UpdatedAt              *time.Time `json:"updatedAt,omitempty"`
}

// BlockedDayResponse заблокированная дата
type BlockedDayResponse struct {
	Date      string    `json:"date"` // "2026-12-31"
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// BlockedDayListResponse список заблокированных дат
type BlockedDayListResponse struct {
	BlockedDays []BlockedDayResponse `json:"blockedDays"`
}

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(cfg domain.WorkingHoursConfig) *WorkingHoursResponse {
	resp := &WorkingHoursResponse{
		WorkStart:              cfg.WorkStart.String(),
		WorkEnd:                cfg.WorkEnd.String(),
		SessionDurationMinutes: cfg.SessionDurationMinutes,
	}
	// Значения по умолчанию из файла конфигурации еще не сохранялись
	if !cfg.UpdatedAt.IsZero() {
		updatedAt := cfg.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

// FromDomainBlockedDay конвертирует domain модель в DTO
func FromDomainBlockedDay(day *domain.BlockedDay) BlockedDayResponse {
	return BlockedDayResponse{
		Date:      day.Date.Format(domain.DateFormat),
		Reason:    day.Reason,
		CreatedAt: day.CreatedAt,
	}
}

// FromDomainBlockedDays конвертирует список domain моделей в DTO
func FromDomainBlockedDays(days []*domain.BlockedDay) *BlockedDayListResponse {
	resp := &BlockedDayListResponse{BlockedDays: make([]BlockedDayResponse, 0, len(days))}
	for _, day := range days {
		resp.BlockedDays = append(resp.BlockedDays, FromDomainBlockedDay(day))
	}
	return resp
}
