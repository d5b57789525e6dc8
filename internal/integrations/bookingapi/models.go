package bookingapi

import (
	"fmt"
	"time"

	"github.com/m04kA/consultation-booking-service/internal/domain"
	"github.com/m04kA/consultation-booking-service/internal/service/bookings/models"
	"github.com/m04kA/consultation-booking-service/pkg/types"
)

// Коды ошибок API, которые клиент переводит обратно в ошибки ядра
const (
	codeSlotUnavailable      = "slot_unavailable"
	codeInvalidTransition    = "invalid_transition"
	codeRescheduleBlocked    = "reschedule_blocked"
	codeInvalidConfiguration = "invalid_configuration"
	codeNotFound             = "not_found"
	codeForbidden            = "forbidden"
	codeUnauthorized         = "unauthorized"
)

// ErrorResponse модель ошибки API
type ErrorResponse struct {
	Code    string   `json:"code"`
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Reasons []string `json:"reasons,omitempty"`
}

// ListFilter фильтр списка бронирований (только администратор)
type ListFilter struct {
	From             *time.Time
	To               *time.Time
	Status           *domain.BookingStatus
	ClientID         *int64
	IncludeCancelled bool
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type rescheduleRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type rescheduleResponse struct {
	Booking  *models.BookingResponse `json:"booking"`
	Warnings []string                `json:"warnings"`
	NoOp     bool                    `json:"noOp"`
}

// RescheduleResult результат переноса
type RescheduleResult struct {
	Booking  *domain.Booking
	Warnings []string
	NoOp     bool
}

// RescheduleInfo ответ на проверку возможности переноса
type RescheduleInfo struct {
	BookingID         int64    `json:"bookingId"`
	CanReschedule     bool     `json:"canReschedule"`
	Reasons           []string `json:"reasons"`
	Warnings          []string `json:"warnings"`
	MinRescheduleDate string   `json:"minRescheduleDate"`
	MaxRescheduleDate string   `json:"maxRescheduleDate"`
	HoursUntil        int      `json:"hoursUntil"`
}

// toDomainBooking восстанавливает бронирование из DTO в часовом поясе расписания
func toDomainBooking(resp *models.BookingResponse, loc *time.Location) (*domain.Booking, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: empty booking", ErrInvalidResponse)
	}

	date, err := domain.ParseDate(resp.BookingDate, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: bookingDate: %v", ErrInvalidResponse, err)
	}
	start, err := types.NewTimeStringFromString(resp.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: startTime: %v", ErrInvalidResponse, err)
	}
	status, err := domain.ParseBookingStatus(resp.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: status %q", ErrInvalidResponse, resp.Status)
	}

	return &domain.Booking{
		ID:          resp.ID,
		ClientID:    resp.ClientID,
		ProductID:   resp.ProductID,
		BookingDate: date,
		StartTime:   start,
		Amount:      resp.Amount,
		Notes:       resp.Notes,
		Status:      status,
		PaidAt:      resp.PaidAt,
		CreatedAt:   resp.CreatedAt,
		UpdatedAt:   resp.UpdatedAt,
	}, nil
}
