package models

import (
	"fmt"
	"time"

	"github.com/m04kA/consultation-booking-service/internal/domain"
)

// Request модели

// ListBookingsRequest запрос на получение бронирований с фильтрацией (администратор)
type ListBookingsRequest struct {
	Actor            domain.Actor
	ClientID         *int64     // Фильтр по клиенту (опционально)
	StartDate        *time.Time // Начало периода (опционально)
	EndDate          *time.Time // Конец периода (опционально)
	Status           *string    // Фильтр по статусу (опционально)
	IncludeCancelled bool       // Включить отменённые бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		ClientID:         r.ClientID,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return filter, fmt.Errorf("endDate %s is before startDate %s",
			r.EndDate.Format(domain.DateFormat), r.StartDate.Format(domain.DateFormat))
	}

	if r.Status != nil {
		status, err := domain.ParseBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
		// Явный фильтр по cancelled подразумевает отменённые
		if status == domain.StatusCancelled {
			filter.IncludeCancelled = true
		}
	}

	return filter, nil
}

// ClientBookingsRequest запрос на получение бронирований клиента
type ClientBookingsRequest struct {
	Actor    domain.Actor
	ClientID int64
	Status   *string
}

// UpdateStatusRequest запрос на смену статуса бронирования
type UpdateStatusRequest struct {
	Actor  domain.Actor
	Status string
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          int64      `json:"id"`
	ClientID    int64      `json:"clientId"`
	ProductID   int64      `json:"productId"`
	BookingDate string     `json:"bookingDate"` // "2026-10-15"
	StartTime   string     `json:"startTime"`   // "10:00"
	Amount      float64    `json:"amount"`
	Notes       *string    `json:"notes,omitempty"`
	Status      string     `json:"status"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:          b.ID,
		ClientID:    b.ClientID,
		ProductID:   b.ProductID,
		BookingDate: b.BookingDate.Format(domain.DateFormat),
		StartTime:   b.StartTime.String(),
		Amount:      b.Amount,
		Notes:       b.Notes,
		Status:      string(b.Status),
		PaidAt:      b.PaidAt,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}
