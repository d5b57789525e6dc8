package clientview

import (
	"sort"
	"sync"

	"github.com/m04kA/consultation-booking-service/internal/domain"
)

// View локальная копия списка бронирований, которую видит пользователь.
// Отдает только копии, поэтому снаружи изменить ее нельзя.
type View struct {
	mu       sync.RWMutex
	bookings map[int64]*domain.Booking
}

// NewView создает пустое представление
func NewView() *View {
	return &View{bookings: make(map[int64]*domain.Booking)}
}

// Replace полностью заменяет содержимое (после загрузки списка с сервера)
func (v *View) Replace(bookings []*domain.Booking) {
	next := make(map[int64]*domain.Booking, len(bookings))
	for _, b := range bookings {
		next[b.ID] = b.Clone()
	}

	v.mu.Lock()
	v.bookings = next
	v.mu.Unlock()
}

// Get возвращает копию бронирования
func (v *View) Get(id int64) (*domain.Booking, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	b, ok := v.bookings[id]
	if !ok {
		return nil, false
	}
	return b.Clone(), true
}

// List возвращает копии всех бронирований по дате и времени
func (v *View) List() []*domain.Booking {
	v.mu.RLock()
	result := make([]*domain.Booking, 0, len(v.bookings))
	for _, b := range v.bookings {
		result = append(result, b.Clone())
	}
	v.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].BookingDate.Equal(result[j].BookingDate) {
			return result[i].BookingDate.Before(result[j].BookingDate)
		}
		if result[i].StartTime != result[j].StartTime {
			return result[i].StartTime < result[j].StartTime
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Len количество бронирований в представлении
func (v *View) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.bookings)
}

// put записывает бронирование; nil означает удаление
func (v *View) put(id int64, b *domain.Booking) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if b == nil {
		delete(v.bookings, id)
		return
	}
	v.bookings[id] = b.Clone()
}
