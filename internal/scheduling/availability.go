package scheduling

import (
	"time"

	"github.com/m04kA/consultation-booking-service/internal/domain"
	"github.com/m04kA/consultation-booking-service/pkg/types"
)

// Available вычисляет слоты даты, которые еще можно забронировать.
//
// Правила по порядку:
//  1. заблокированный день - пусто;
//  2. дата в прошлом или дальше горизонта бронирования - пусто;
//  3. кандидаты из GenerateSlots;
//  4. убираются слоты, занятые бронированиями в статусах, занимающих слот;
//  5. для сегодняшней даты убираются уже начавшиеся слоты.
//
// Функция только читает аргументы и ничего не резервирует.
func Available(
	date time.Time,
	now time.Time,
	cfg domain.WorkingHoursConfig,
	bookings []*domain.Booking,
	blockedDays domain.BlockedDays,
) []types.TimeString {
	return AvailableExcluding(date, now, cfg, bookings, blockedDays, 0)
}

// AvailableExcluding то же, что Available, но бронирование excludeID не
// считается конфликтом. Используется при переносе: собственный слот
// бронирования считается свободным.
func AvailableExcluding(
	date time.Time,
	now time.Time,
	cfg domain.WorkingHoursConfig,
	bookings []*domain.Booking,
	blockedDays domain.BlockedDays,
	excludeID int64,
) []types.TimeString {
	// Шаг 1: заблокированный день
	if blockedDays.Contains(date) {
		return []types.TimeString{}
	}

	// Шаг 2: горизонт бронирования
	now = now.In(date.Location())
	if !WithinHorizon(date, now) {
		return []types.TimeString{}
	}

	// Шаг 3: кандидаты
	candidates := GenerateSlots(cfg)

	// Шаг 4: занятые слоты
	occupied := make(map[types.TimeString]struct{}, len(bookings))
	for _, b := range bookings {
		if b == nil || (excludeID != 0 && b.ID == excludeID) {
			continue
		}
		if !b.OccupiesSlot() || !domain.SameDay(b.BookingDate, date) {
			continue
		}
		occupied[b.StartTime] = struct{}{}
	}

	isToday := domain.SameDay(date, now)

	result := make([]types.TimeString, 0, len(candidates))
	for _, slot := range candidates {
		if _, busy := occupied[slot]; busy {
			continue
		}

		// Шаг 5: начавшиеся слоты сегодняшнего дня
		if isToday {
			startsAt, err := slot.On(date)
			if err != nil || !startsAt.After(now) {
				continue
			}
		}

		result = append(result, slot)
	}

	return result
}

// WithinHorizon проверяет, что дата не раньше сегодняшней и не дальше
// BookingHorizonDays дней от нее (граница включительно)
func WithinHorizon(date, now time.Time) bool {
	days := domain.DaysBetween(now.In(date.Location()), date)
	return days >= 0 && days <= domain.BookingHorizonDays
}

// IsSlotAvailable проверяет, что время входит в список доступных слотов
func IsSlotAvailable(slots []types.TimeString, start types.TimeString) bool {
	for _, s := range slots {
		if s == start {
			return true
		}
	}
	return false
}
