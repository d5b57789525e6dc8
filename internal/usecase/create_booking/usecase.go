package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/consultation-booking-service/internal/domain"
	bookingRepo "github.com/m04kA/consultation-booking-service/internal/infra/storage/booking"
	productRepo "github.com/m04kA/consultation-booking-service/internal/infra/storage/product"
	"github.com/m04kA/consultation-booking-service/internal/scheduling"
	"github.com/m04kA/consultation-booking-service/pkg/pgerr"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo    BookingRepository
	productRepo    ProductRepository
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
	productRepo ProductRepository,
	blockedDayRepo BlockedDayRepository,
	workingHours WorkingHoursProvider,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		productRepo:    productRepo,
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

// Execute выполняет use case создания бронирования
// Использует сериализуемую транзакцию для предотвращения гонки данных.
// Частичный уникальный индекс по (дата, время) остается последней гарантией.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	clientID, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CreateBooking: actor=%d(%s), client=%d, product=%d, date=%s, time=%s",
		req.Actor.UserID, req.Actor.Role, clientID, req.ProductID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 2. Получаем текущее время и снимок настроек
	now := uc.timeProvider.Now()
	cfg := uc.workingHours.Current()

	// 3. Получаем услугу, сумма фиксируется на момент бронирования
	product, err := uc.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, productRepo.ErrProductNotFound) {
			uc.logger.Warn("CreateBooking: product id=%d not found", req.ProductID)
			return nil, ErrProductNotFound
		}
		uc.logger.Error("CreateBooking: failed to get product id=%d: %v", req.ProductID, err)
		return nil, fmt.Errorf("%w: failed to get product: %v", ErrInternal, err)
	}
	if !product.IsActive {
		uc.logger.Warn("CreateBooking: product id=%d is not active", req.ProductID)
		return nil, ErrProductInactive
	}

	var result *domain.Booking

	// 4. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Блокировка дня
		blocked, err := uc.blockedDayRepo.IsBlocked(txCtx, req.Date)
		if err != nil {
			return fmt.Errorf("%w: failed to check blocked day: %v", ErrInternal, err)
		}
		if blocked {
			return fmt.Errorf("%w: %s is blocked", ErrSlotNotAvailable, req.Date.Format(domain.DateFormat))
		}

		// 4.2. Бронирования на дату с блокировкой строк (FOR UPDATE)
		filter := domain.ForDate(req.Date)
		filter.ForUpdate = true

		bookings, err := uc.bookingRepo.List(txCtx, filter)
		if err != nil {
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 4.3. Предварительная проверка доступности слота
		available := scheduling.Available(req.Date, now, cfg, bookings, nil)
		if !scheduling.IsSlotAvailable(available, req.StartTime) {
			return fmt.Errorf("%w: %s %s", ErrSlotNotAvailable, req.Date.Format(domain.DateFormat), req.StartTime)
		}

		// 4.4. Создаем бронирование в начальном статусе
		booking := &domain.Booking{
			ClientID:    clientID,
			ProductID:   product.ID,
			BookingDate: domain.DateOnly(req.Date),
			StartTime:   req.StartTime,
			Amount:      product.Price,
			Notes:       req.Notes,
			Status:      domain.StatusPendingPayment,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
				return fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
			}
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Проигравший конкурентную транзакцию получает конфликт сериализации при коммите
		if pgerr.IsSerializationFailure(err) && !errors.Is(err, ErrSlotNotAvailable) {
			err = fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
		}
		if errors.Is(err, ErrSlotNotAvailable) {
			uc.logger.Warn("CreateBooking: slot not available: %v", err)
			uc.metrics.IncSlotConflict("create")
			return nil, err
		}
		uc.logger.Error("CreateBooking: failed: %v", err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)
	uc.metrics.IncBookingsCreated()

	// 5. Уведомление о новом бронировании
	uc.notifier.Notify(ctx, domain.NotificationFor(domain.NotifyBookingCreated, result, now))

	return &Response{Booking: result}, nil
}
