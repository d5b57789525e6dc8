package get_reschedule_info

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/consultation-booking-service/internal/domain"
	bookingRepo "github.com/m04kA/consultation-booking-service/internal/infra/storage/booking"
	"github.com/m04kA/consultation-booking-service/internal/scheduling"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("get_reschedule_info: booking not found")

	// ErrForbidden возвращается, когда клиент запрашивает чужое бронирование
	ErrForbidden = errors.New("get_reschedule_info: forbidden")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_reschedule_info: internal error")
)

// Request модель запроса
type Request struct {
	Actor     domain.Actor
	BookingID int64
}

// Response сведения о возможности переноса
type Response struct {
	BookingID         int64
	CanReschedule     bool
	Reasons           []string
	Warnings          []string
	MinRescheduleDate time.Time
	MaxRescheduleDate time.Time
	HoursUntil        int
}

// UseCase use case для получения сведений о переносе бронирования
type UseCase struct {
	bookingRepo BookingRepository
	now         func() time.Time
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, logger Logger) *UseCase {
	return &UseCase{bookingRepo: bookingRepo, now: time.Now, logger: logger}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.now = tp.Now
	return uc
}

// Execute выполняет use case
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("GetRescheduleInfo: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("GetRescheduleInfo: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if !req.Actor.CanAccess(booking) {
		uc.logger.Warn("GetRescheduleInfo: actor=%d has no access to booking id=%d", req.Actor.UserID, req.BookingID)
		return nil, ErrForbidden
	}

	now := uc.now()
	check := scheduling.CanReschedule(booking, req.Actor, now)
	today := domain.DateOnly(now.In(booking.BookingDate.Location()))

	return &Response{
		BookingID:         booking.ID,
		CanReschedule:     check.Allowed,
		Reasons:           check.Reasons,
		Warnings:          check.Warnings,
		MinRescheduleDate: check.MinDate,
		MaxRescheduleDate: today.AddDate(0, 0, domain.BookingHorizonDays),
		HoursUntil:        check.HoursUntil,
	}, nil
}
