package get_reschedule_info

import (
	"github.com/m04kA/consultation-booking-service/internal/domain"
	getRescheduleInfo "github.com/m04kA/consultation-booking-service/internal/usecase/get_reschedule_info"
)

// RescheduleInfoResponse HTTP response model
type RescheduleInfoResponse struct {
	BookingID         int64    `json:"bookingId"`
	CanReschedule     bool     `json:"canReschedule"`
	Reasons           []string `json:"reasons"`
	Warnings          []string `json:"warnings"`
	MinRescheduleDate string   `json:"minRescheduleDate"`
	MaxRescheduleDate string   `json:"maxRescheduleDate"`
	HoursUntil        int      `json:"hoursUntil"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getRescheduleInfo.Response) *RescheduleInfoResponse {
	return &RescheduleInfoResponse{
		BookingID:         resp.BookingID,
		CanReschedule:     resp.CanReschedule,
		Reasons:           nonNil(resp.Reasons),
		Warnings:          nonNil(resp.Warnings),
		MinRescheduleDate: resp.MinRescheduleDate.Format(domain.DateFormat),
		MaxRescheduleDate: resp.MaxRescheduleDate.Format(domain.DateFormat),
		HoursUntil:        resp.HoursUntil,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
