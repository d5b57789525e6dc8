package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/consultation-booking-service/internal/domain"
	createBooking "github.com/m04kA/consultation-booking-service/internal/usecase/create_booking"
	"github.com/m04kA/consultation-booking-service/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ClientID    int64   `json:"clientId,omitempty" validate:"omitempty,gt=0"` // Только для администратора
	ProductID   int64   `json:"productId" validate:"required,gt=0"`
	BookingDate string  `json:"bookingDate" validate:"required,datetime=2006-01-02"` // "2026-10-20"
	StartTime   string  `json:"startTime" validate:"required,hhmm"`                  // "10:00"
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

var (
	errInvalidDate = errors.New("invalid booking date")
	errInvalidTime = errors.New("invalid start time")
)

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(actor domain.Actor, loc *time.Location) (*createBooking.Request, error) {
	bookingDate, err := domain.ParseDate(r.BookingDate, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
	}

	return &createBooking.Request{
		Actor:     actor,
		ClientID:  r.ClientID,
		ProductID: r.ProductID,
		Date:      bookingDate,
		StartTime: startTime,
		Notes:     r.Notes,
	}, nil
}
