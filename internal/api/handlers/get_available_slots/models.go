package get_available_slots

import (
	"time"

	"github.com/m04kA/consultation-booking-service/internal/domain"
	getAvailableSlots "github.com/m04kA/consultation-booking-service/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string   `json:"date"`
	DurationMinutes int      `json:"durationMinutes"`
	Blocked         bool     `json:"blocked"`
	Slots           []string `json:"slots"`
}

// ToUseCaseRequest парсит дату запроса в часовом поясе расписания
func ToUseCaseRequest(dateStr string, loc *time.Location) (*getAvailableSlots.Request, error) {
	date, err := domain.ParseDate(dateStr, loc)
	if err != nil {
		return nil, err
	}
	return &getAvailableSlots.Request{Date: date}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]string, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, s.String())
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		DurationMinutes: resp.DurationMinutes,
		Blocked:         resp.Blocked,
		Slots:           slots,
	}
}
