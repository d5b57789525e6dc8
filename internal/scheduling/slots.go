package scheduling

import (
	"github.com/m04kA/consultation-booking-service/internal/domain"
	"github.com/m04kA/consultation-booking-service/pkg/types"
)

// GenerateSlots генерирует все слоты рабочего дня с шагом длительности сессии.
// Хвост окна короче сессии отбрасывается. Для вырожденной конфигурации
// (начало не раньше конца или длительность <= 0) возвращается пустой список.
func GenerateSlots(cfg domain.WorkingHoursConfig) []types.TimeString {
	start, err := cfg.WorkStart.Minutes()
	if err != nil {
		return []types.TimeString{}
	}
	end, err := cfg.WorkEnd.Minutes()
	if err != nil {
		return []types.TimeString{}
	}

	duration := cfg.SessionDurationMinutes
	span := end - start
	if span <= 0 || duration <= 0 {
		return []types.TimeString{}
	}

	count := span / duration
	slots := make([]types.TimeString, 0, count)
	for i := 0; i < count; i++ {
		// start + i*duration < end < 24:00, переполнения нет
		slot, err := types.FromMinutes(start + i*duration)
		if err != nil {
			break
		}
		slots = append(slots, slot)
	}

	return slots
}
