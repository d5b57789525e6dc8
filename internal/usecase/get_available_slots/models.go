package get_available_slots

import (
	"time"

	"github.com/m04kA/consultation-booking-service/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	Date time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time          // Дата, на которую запрашивались слоты
	DurationMinutes int                // Длительность сессии
	Blocked         bool               // Дата заблокирована администратором
	Slots           []types.TimeString // Свободные слоты по возрастанию
}
