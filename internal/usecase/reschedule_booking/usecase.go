package reschedule_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/consultation-booking-service/internal/domain"
	bookingRepo "github.com/m04kA/consultation-booking-service/internal/infra/storage/booking"
	"github.com/m04kA/consultation-booking-service/internal/scheduling"
	"github.com/m04kA/consultation-booking-service/pkg/pgerr"
)

// Исходы переноса для метрик
const (
	outcomeSuccess     = "success"
	outcomeNoOp        = "noop"
	outcomeBlocked     = "blocked"
	outcomeUnavailable = "unavailable"
	outcomeError       = "error"
)

// UseCase use case для переноса бронирования на другую дату и время
type UseCase struct {
	bookingRepo    BookingRepository
	blockedDayRepo BlockedDayRepository
	workingHours   WorkingHoursProvider
	txManager      TransactionManager
	notifier       Notifier
	metrics        Metrics
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	blockedDayRepo BlockedDayRepository,
	workingHours WorkingHoursProvider,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		blockedDayRepo: blockedDayRepo,
		workingHours:   workingHours,
		txManager:      txManager,
		notifier:       notifier,
		metrics:        metrics,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute переносит бронирование. Статус не меняется.
// Собственный слот бронирования считается свободным, поэтому перенос
// на тот же слот завершается успешно без изменений.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("RescheduleBooking: actor=%d(%s), booking=%d, new date=%s, new time=%s",
		req.Actor.UserID, req.Actor.Role, req.BookingID, req.NewDate.Format(domain.DateFormat), req.NewTime)

	// 2. Текущее время и снимок настроек
	now := uc.timeProvider.Now()
	cfg := uc.workingHours.Current()

	var (
		previous *domain.Booking
		result   *Response
	)

	// 3. Проверка и обновление в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Бронирование с блокировкой строки
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if !req.Actor.CanAccess(booking) {
			return fmt.Errorf("%w: booking id=%d belongs to another client", ErrForbidden, booking.ID)
		}

		// 3.2. Статус и правило 24 часов, все причины сразу
		check := scheduling.CanReschedule(booking, req.Actor, now)
		if !check.Allowed {
			return fmt.Errorf("reschedule_booking: %w", check.Err())
		}

		warnings := append(check.Warnings, scheduling.TargetWarnings(req.NewDate, now)...)

		// 3.3. Перенос на собственный слот ничего не меняет
		if booking.SameSlot(req.NewDate, req.NewTime) {
			result = &Response{Booking: booking, Warnings: warnings, NoOp: true}
			return nil
		}

		// 3.4. Доступность нового слота без учета собственного слота
		blocked, err := uc.blockedDayRepo.IsBlocked(txCtx, req.NewDate)
		if err != nil {
			return fmt.Errorf("%w: failed to check blocked day: %v", ErrInternal, err)
		}
		if blocked {
			return fmt.Errorf("%w: %s is blocked", ErrSlotNotAvailable, req.NewDate.Format(domain.DateFormat))
		}

		filter := domain.ForDate(req.NewDate)
		filter.ForUpdate = true
		bookings, err := uc.bookingRepo.List(txCtx, filter)
		if err != nil {
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		available := scheduling.AvailableExcluding(req.NewDate, now, cfg, bookings, nil, booking.ID)
		if !scheduling.IsSlotAvailable(available, req.NewTime) {
			return fmt.Errorf("%w: %s %s", ErrSlotNotAvailable, req.NewDate.Format(domain.DateFormat), req.NewTime)
		}

		// 3.5. Атомарно меняем дату и время
		updated, err := uc.bookingRepo.Reschedule(txCtx, booking.ID, domain.DateOnly(req.NewDate), req.NewTime)
		if err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrSlotNotAvailable):
				return fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
			case errors.Is(err, bookingRepo.ErrStatusConflict):
				return ErrBookingChanged
			case errors.Is(err, bookingRepo.ErrBookingNotFound):
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to reschedule booking: %v", ErrInternal, err)
		}

		previous = booking
		result = &Response{Booking: updated, Warnings: warnings}
		return nil
	})

	role := string(req.Actor.Role)

	if err != nil {
		if pgerr.IsSerializationFailure(err) && !errors.Is(err, ErrSlotNotAvailable) {
			err = fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
		}

		switch {
		case errors.Is(err, domain.ErrRescheduleBlocked):
			uc.logger.Warn("RescheduleBooking: booking id=%d blocked: %v", req.BookingID, err)
			uc.metrics.IncReschedule(role, outcomeBlocked)
			return nil, err
		case errors.Is(err, ErrSlotNotAvailable):
			uc.logger.Warn("RescheduleBooking: booking id=%d slot not available: %v", req.BookingID, err)
			uc.metrics.IncReschedule(role, outcomeUnavailable)
			uc.metrics.IncSlotConflict("reschedule")
			return nil, err
		case errors.Is(err, ErrBookingNotFound), errors.Is(err, ErrForbidden), errors.Is(err, ErrBookingChanged):
			uc.logger.Warn("RescheduleBooking: booking id=%d: %v", req.BookingID, err)
			uc.metrics.IncReschedule(role, outcomeError)
			return nil, err
		}

		uc.logger.Error("RescheduleBooking: booking id=%d failed: %v", req.BookingID, err)
		uc.metrics.IncReschedule(role, outcomeError)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if result.NoOp {
		uc.logger.Info("RescheduleBooking: booking id=%d already at %s %s, nothing to do",
			req.BookingID, req.NewDate.Format(domain.DateFormat), req.NewTime)
		uc.metrics.IncReschedule(role, outcomeNoOp)
		return result, nil
	}

	uc.logger.Info("RescheduleBooking: booking id=%d moved from %s %s to %s %s",
		req.BookingID, previous.BookingDate.Format(domain.DateFormat), previous.StartTime,
		result.Booking.BookingDate.Format(domain.DateFormat), result.Booking.StartTime)
	uc.metrics.IncReschedule(role, outcomeSuccess)

	// 4. Уведомление о переносе с прежними датой и временем
	notification := domain.NotificationFor(domain.NotifyBookingRescheduled, result.Booking, now)
	prevDate := previous.BookingDate
	prevTime := previous.StartTime.String()
	notification.PreviousDate = &prevDate
	notification.PreviousTime = &prevTime
	uc.notifier.Notify(ctx, notification)

	return result, nil
}
