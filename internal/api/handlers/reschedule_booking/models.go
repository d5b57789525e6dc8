package reschedule_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/consultation-booking-service/internal/domain"
	"github.com/m04kA/consultation-booking-service/internal/service/bookings/models"
	rescheduleBooking "github.com/m04kA/consultation-booking-service/internal/usecase/reschedule_booking"
	"github.com/m04kA/consultation-booking-service/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid time")
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"` // "2026-10-20"
	Time string `json:"time" validate:"required,hhmm"`               // "15:00"
}

// RescheduleResponse HTTP response model
type RescheduleResponse struct {
	Booking  *models.BookingResponse `json:"booking"`
	Warnings []string                `json:"warnings"`
	NoOp     bool                    `json:"noOp"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleRequest) ToUseCaseRequest(actor domain.Actor, bookingID int64, loc *time.Location) (*rescheduleBooking.Request, error) {
	date, err := domain.ParseDate(r.Date, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	start, err := types.NewTimeStringFromString(r.Time)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
	}

	return &rescheduleBooking.Request{
		Actor:     actor,
		BookingID: bookingID,
		NewDate:   date,
		NewTime:   start,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleBooking.Response) *RescheduleResponse {
	warnings := resp.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return &RescheduleResponse{
		Booking:  models.FromDomainBooking(resp.Booking),
		Warnings: warnings,
		NoOp:     resp.NoOp,
	}
}
