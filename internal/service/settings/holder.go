package settings

import (
	"sync/atomic"

	"github.com/m04kA/consultation-booking-service/internal/domain"
)

// Holder хранит текущий снимок настроек рабочего времени.
// Снимок неизменяем, обновление заменяет указатель целиком.
type Holder struct {
	current atomic.Pointer[domain.WorkingHoursConfig]
}

// NewHolder создает holder с начальным значением
func NewHolder(initial domain.WorkingHoursConfig) *Holder {
	h := &Holder{}
	h.Store(initial)
	return h
}

// Current возвращает копию текущих настроек
func (h *Holder) Current() domain.WorkingHoursConfig {
	return *h.current.Load()
}

// Store заменяет текущие настройки
func (h *Holder) Store(cfg domain.WorkingHoursConfig) {
	h.current.Store(&cfg)
}
