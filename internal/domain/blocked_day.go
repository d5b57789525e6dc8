package domain

import "time"

// BlockedDay дата, на которую слоты не предлагаются независимо от настроек
type BlockedDay struct {
	Date      time.Time
	Reason    *string
	CreatedAt time.Time
}

// BlockedDays множество заблокированных дат
type BlockedDays map[string]struct{}

// NewBlockedDays строит множество из списка
func NewBlockedDays(days []*BlockedDay) BlockedDays {
	set := make(BlockedDays, len(days))
	for _, d := range days {
		set.Add(d.Date)
	}
	return set
}

func (s BlockedDays) Add(date time.Time) {
	s[date.Format(DateFormat)] = struct{}{}
}

// Contains проверяет принадлежность даты множеству (nil-множество пустое)
func (s BlockedDays) Contains(date time.Time) bool {
	if s == nil {
		return false
	}
	_, ok := s[date.Format(DateFormat)]
	return ok
}
