package get_available_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/consultation-booking-service/internal/domain"
	"github.com/m04kA/consultation-booking-service/internal/scheduling"
	"github.com/m04kA/consultation-booking-service/pkg/types"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	bookingRepo    BookingRepository
	blockedDayRepo BlockedDayRepository
	workingHours   WorkingHoursProvider
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	blockedDayRepo BlockedDayRepository,
	workingHours WorkingHoursProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		blockedDayRepo: blockedDayRepo,
		workingHours:   workingHours,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("GetAvailableSlots: date=%s", req.Date.Format(domain.DateFormat))

	// 2. Текущее время и снимок настроек
	now := uc.timeProvider.Now()
	cfg := uc.workingHours.Current()

	response := &Response{
		Date:            req.Date,
		DurationMinutes: cfg.SessionDurationMinutes,
		Slots:           []types.TimeString{},
	}

	// 3. Вне горизонта бронирования слотов нет, в БД не ходим
	if !scheduling.WithinHorizon(req.Date, now) {
		uc.logger.Info("GetAvailableSlots: date=%s is outside booking horizon", req.Date.Format(domain.DateFormat))
		return response, nil
	}

	// 4. Проверяем блокировку дня
	blocked, err := uc.blockedDayRepo.IsBlocked(ctx, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to check blocked day: %v", err)
		return nil, fmt.Errorf("%w: failed to check blocked day: %v", ErrInternal, err)
	}
	if blocked {
		uc.logger.Info("GetAvailableSlots: date=%s is blocked", req.Date.Format(domain.DateFormat))
		response.Blocked = true
		return response, nil
	}

	// 5. Получаем бронирования на эту дату (без отмененных)
	bookings, err := uc.bookingRepo.List(ctx, domain.ForDate(req.Date))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 6. Вычисляем свободные слоты
	response.Slots = scheduling.Available(req.Date, now, cfg, bookings, nil)

	uc.logger.Info("GetAvailableSlots: %d slots available for date=%s",
		len(response.Slots), req.Date.Format(domain.DateFormat))

	return response, nil
}
