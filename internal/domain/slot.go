package domain

import (
	"time"

	"github.com/m04kA/consultation-booking-service/pkg/types"
)

// Slot производное значение (дата + время начала), не хранится в БД
type Slot struct {
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
}

// EndTime returns the slot end time of day
func (s Slot) EndTime() (types.TimeString, error) {
	return s.StartTime.AddMinutes(s.DurationMinutes)
}

// StartsAt returns the absolute start moment of the slot
func (s Slot) StartsAt() (time.Time, error) {
	return s.StartTime.On(s.Date)
}
