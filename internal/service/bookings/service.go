package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/consultation-booking-service/internal/domain"
	bookingRepo "github.com/m04kA/consultation-booking-service/internal/infra/storage/booking"
	"github.com/m04kA/consultation-booking-service/internal/scheduling"
	"github.com/m04kA/consultation-booking-service/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями: чтение, смена статуса, отмена и удаление
type Service struct {
	bookingRepo  BookingRepository
	notifier     Notifier
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		notifier:     notifier,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование по ID
// Клиент видит только свои бронирования, администратор любые
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for actor=%d(%s)", id, actor.UserID, actor.Role)

	booking, err := s.getAccessible(ctx, "GetByID", id, actor)
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// List получает бронирования с гибкой фильтрацией. Доступно только администратору.
//
// Примеры использования:
// - Все активные бронирования: List(ctx, &ListBookingsRequest{Actor: admin})
// - Бронирования на дату: StartDate и EndDate указывают на одну дату
// - Только подтвержденные: Status = "confirmed"
// - Включая отменённые: IncludeCancelled = true
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	if !req.Actor.IsAdmin() {
		s.logger.Warn("List: actor=%d(%s) is not an admin", req.Actor.UserID, req.Actor.Role)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// GetClientBookings получает историю бронирований клиента (включая отменённые)
func (s *Service) GetClientBookings(ctx context.Context, req *models.ClientBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetClientBookings: fetching bookings for client=%d by actor=%d(%s)",
		req.ClientID, req.Actor.UserID, req.Actor.Role)

	if !req.Actor.IsAdmin() && !(req.Actor.IsClient() && req.Actor.UserID == req.ClientID) {
		s.logger.Warn("GetClientBookings: actor=%d has no access to client=%d", req.Actor.UserID, req.ClientID)
		return nil, ErrAccessDenied
	}

	clientID := req.ClientID
	filter := domain.BookingsFilter{ClientID: &clientID, IncludeCancelled: true}

	if req.Status != nil {
		status, err := domain.ParseBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientBookings: invalid status=%s for client=%d", *req.Status, req.ClientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("GetClientBookings: repository error for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientBookings: fetched %d bookings for client=%d", len(bookings), req.ClientID)
	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus переводит бронирование в произвольный статус по таблице переходов.
// Доступно только администратору.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	status, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, id)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if !req.Actor.IsAdmin() {
		s.logger.Warn("UpdateStatus: actor=%d(%s) is not an admin", req.Actor.UserID, req.Actor.Role)
		return nil, ErrAccessDenied
	}

	return s.transition(ctx, "UpdateStatus", id, req.Actor, status)
}

// MarkPaid подтверждает оплату: pending_payment -> confirmed
func (s *Service) MarkPaid(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error) {
	if !actor.IsAdmin() {
		s.logger.Warn("MarkPaid: actor=%d(%s) is not an admin", actor.UserID, actor.Role)
		return nil, ErrAccessDenied
	}
	return s.transition(ctx, "MarkPaid", id, actor, domain.StatusConfirmed)
}

// Complete отмечает консультацию проведенной: confirmed -> completed
func (s *Service) Complete(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error) {
	if !actor.IsAdmin() {
		s.logger.Warn("Complete: actor=%d(%s) is not an admin", actor.UserID, actor.Role)
		return nil, ErrAccessDenied
	}
	return s.transition(ctx, "Complete", id, actor, domain.StatusCompleted)
}

// Cancel отменяет бронирование.
// Клиент может отменить только своё бронирование и не позднее чем за 24 часа,
// администратор любое (правило 24 часов на него не распространяется).
func (s *Service) Cancel(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error) {
	return s.transition(ctx, "Cancel", id, actor, domain.StatusCancelled)
}

// Delete физически удаляет бронирование. Необратимо, только администратор.
// Подтверждение операции запрашивает вызывающий слой.
func (s *Service) Delete(ctx context.Context, id int64, actor domain.Actor) error {
	s.logger.Info("Delete: deleting booking id=%d by actor=%d(%s)", id, actor.UserID, actor.Role)

	if !actor.IsAdmin() {
		s.logger.Warn("Delete: actor=%d(%s) is not an admin", actor.UserID, actor.Role)
		return ErrAccessDenied
	}

	booking, err := s.getAccessible(ctx, "Delete", id, actor)
	if err != nil {
		return err
	}

	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Delete: booking id=%d not found during deletion", id)
			return ErrBookingNotFound
		}
		s.logger.Error("Delete: repository error for booking id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: booking id=%d deleted", id)
	s.notifier.Notify(ctx, domain.NotificationFor(domain.NotifyBookingDeleted, booking, s.timeProvider.Now()))
	return nil
}

// transition общий путь смены статуса: таблица переходов, правило 24 часов
// для клиентской отмены, CAS-обновление в хранилище, побочные эффекты
func (s *Service) transition(
	ctx context.Context,
	op string,
	id int64,
	actor domain.Actor,
	to domain.BookingStatus,
) (*models.BookingResponse, error) {
	s.logger.Info("%s: booking id=%d -> %s by actor=%d(%s)", op, id, to, actor.UserID, actor.Role)

	// 1. Бронирование и права доступа
	booking, err := s.getAccessible(ctx, op, id, actor)
	if err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()

	// 2. Таблица переходов
	result, err := domain.Transition(booking, to, now)
	if err != nil {
		s.logger.Warn("%s: booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, to)
	}

	// 3. Правило 24 часов для клиента
	if to == domain.StatusCancelled {
		if err := scheduling.CheckNotice(booking, actor, now); err != nil {
			s.logger.Warn("%s: booking id=%d blocked for actor=%d: %v", op, id, actor.UserID, err)
			return nil, fmt.Errorf("service: %w", err)
		}
	}

	// 4. Обновление только если статус не изменился с момента чтения
	var paidAt = result.Booking.PaidAt
	if !result.HasEffect(domain.EffectSetPaidAt) {
		paidAt = nil
	}

	updated, err := s.bookingRepo.UpdateStatus(ctx, id, result.From, result.To, paidAt)
	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			s.logger.Warn("%s: booking id=%d disappeared during update", op, id)
			return nil, ErrBookingNotFound
		case errors.Is(err, bookingRepo.ErrStatusConflict):
			s.logger.Warn("%s: booking id=%d status changed concurrently", op, id)
			return nil, fmt.Errorf("%w: booking id=%d changed concurrently", ErrInvalidTransition, id)
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	s.metrics.IncStatusTransition(string(result.From), string(result.To))
	s.logger.Info("%s: booking id=%d %s -> %s", op, id, result.From, result.To)

	// 5. Уведомление, если переход его предусматривает
	if kind, ok := domain.NotificationKindForEffects(result.Effects); ok {
		s.notifier.Notify(ctx, domain.NotificationFor(kind, updated, now))
	}

	return models.FromDomainBooking(updated), nil
}

// getAccessible читает бронирование и проверяет права доступа
func (s *Service) getAccessible(ctx context.Context, op string, id int64, actor domain.Actor) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	if !actor.CanAccess(booking) {
		s.logger.Warn("%s: access denied for actor=%d to booking id=%d", op, actor.UserID, id)
		return nil, ErrAccessDenied
	}

	return booking, nil
}
