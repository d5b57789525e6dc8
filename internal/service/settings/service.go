package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/consultation-booking-service/internal/domain"
	blockedDayRepo "github.com/m04kA/consultation-booking-service/internal/infra/storage/blockedday"
	workingHoursRepo "github.com/m04kA/consultation-booking-service/internal/infra/storage/workinghours"
	"github.com/m04kA/consultation-booking-service/internal/service/settings/models"
)

// Service сервис настроек: рабочее время и заблокированные дни
type Service struct {
	workingHoursRepo WorkingHoursRepository
	blockedDayRepo   BlockedDayRepository
	holder           *Holder
	logger           Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(
	workingHoursRepo WorkingHoursRepository,
	blockedDayRepo BlockedDayRepository,
	holder *Holder,
	logger Logger,
) *Service {
	return &Service{
		workingHoursRepo: workingHoursRepo,
		blockedDayRepo:   blockedDayRepo,
		holder:           holder,
		logger:           logger,
	}
}

// Load загружает сохраненные настройки в holder.
// Если настройки еще не сохранялись, в holder остаются значения по умолчанию.
func (s *Service) Load(ctx context.Context) error {
	cfg, err := s.workingHoursRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, workingHoursRepo.ErrConfigNotFound) {
			current := s.holder.Current()
			s.logger.Warn("Load: working hours not saved yet, using defaults %s-%s/%dmin",
				current.WorkStart, current.WorkEnd, current.SessionDurationMinutes)
			return nil
		}
		return fmt.Errorf("%w: Load - repository error: %v", ErrInternal, err)
	}

	// Строка в базе могла быть записана в обход валидации
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: Load - stored config: %v", ErrInvalidConfiguration, err)
	}

	s.holder.Store(*cfg)
	s.logger.Info("Load: working hours %s-%s/%dmin", cfg.WorkStart, cfg.WorkEnd, cfg.SessionDurationMinutes)
	return nil
}

// GetWorkingHours возвращает текущие настройки. Публичный метод.
func (s *Service) GetWorkingHours() *models.WorkingHoursResponse {
	return models.FromDomainConfig(s.holder.Current())
}

// UpdateWorkingHours валидирует, сохраняет и применяет новые настройки.
// Некорректные настройки отклоняются до сохранения.
func (s *Service) UpdateWorkingHours(
	ctx context.Context,
	actor domain.Actor,
	req *models.UpdateWorkingHoursRequest,
) (*models.WorkingHoursResponse, error) {
	s.logger.Info("UpdateWorkingHours: %s-%s/%dmin by actor=%d(%s)",
		req.WorkStart, req.WorkEnd, req.SessionDurationMinutes, actor.UserID, actor.Role)

	if !actor.IsAdmin() {
		s.logger.Warn("UpdateWorkingHours: actor=%d(%s) is not an admin", actor.UserID, actor.Role)
		return nil, ErrAccessDenied
	}

	// 1. Валидация
	cfg, err := domain.NewWorkingHoursConfig(req.WorkStart, req.WorkEnd, req.SessionDurationMinutes)
	if err != nil {
		s.logger.Warn("UpdateWorkingHours: invalid configuration: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	// 2. Сохранение
	saved, err := s.workingHoursRepo.Save(ctx, cfg)
	if err != nil {
		s.logger.Error("UpdateWorkingHours: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpdateWorkingHours - repository error: %v", ErrInternal, err)
	}

	// 3. Новое значение видно только после успешного сохранения
	s.holder.Store(*saved)

	s.logger.Info("UpdateWorkingHours: applied %s-%s/%dmin", saved.WorkStart, saved.WorkEnd, saved.SessionDurationMinutes)
	return models.FromDomainConfig(*saved), nil
}

// ListBlockedDays возвращает заблокированные даты в периоде (границы опциональны)
func (s *Service) ListBlockedDays(ctx context.Context, from, to *time.Time) (*models.BlockedDayListResponse, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, fmt.Errorf("%w: 'to' is before 'from'", ErrInvalidInput)
	}

	days, err := s.blockedDayRepo.List(ctx, from, to)
	if err != nil {
		s.logger.Error("ListBlockedDays: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBlockedDays - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBlockedDays(days), nil
}

// BlockDay блокирует дату. Уже существующие бронирования на эту дату не затрагиваются.
func (s *Service) BlockDay(ctx context.Context, actor domain.Actor, req *models.BlockDayRequest) (*models.BlockedDayResponse, error) {
	if !actor.IsAdmin() {
		s.logger.Warn("BlockDay: actor=%d(%s) is not an admin", actor.UserID, actor.Role)
		return nil, ErrAccessDenied
	}

	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	var reason *string
	if req.Reason != nil {
		trimmed := strings.TrimSpace(*req.Reason)
		if utf8.RuneCountInString(trimmed) > domain.MaxBlockedDayReasonLength {
			return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxBlockedDayReasonLength)
		}
		if trimmed != "" {
			reason = &trimmed
		}
	}

	date := domain.DateOnly(req.Date)
	day, err := s.blockedDayRepo.Add(ctx, &domain.BlockedDay{Date: date, Reason: reason})
	if err != nil {
		if errors.Is(err, blockedDayRepo.ErrAlreadyBlocked) {
			s.logger.Warn("BlockDay: %s already blocked", date.Format(domain.DateFormat))
			return nil, ErrAlreadyBlocked
		}
		s.logger.Error("BlockDay: repository error: %v", err)
		return nil, fmt.Errorf("%w: BlockDay - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("BlockDay: %s blocked by actor=%d", date.Format(domain.DateFormat), actor.UserID)
	resp := models.FromDomainBlockedDay(day)
	return &resp, nil
}

// UnblockDay снимает блокировку даты
func (s *Service) UnblockDay(ctx context.Context, actor domain.Actor, date time.Time) error {
	if !actor.IsAdmin() {
		s.logger.Warn("UnblockDay: actor=%d(%s) is not an admin", actor.UserID, actor.Role)
		return ErrAccessDenied
	}

	if err := s.blockedDayRepo.Remove(ctx, domain.DateOnly(date)); err != nil {
		if errors.Is(err, blockedDayRepo.ErrBlockedDayNotFound) {
			return ErrBlockedDayNotFound
		}
		s.logger.Error("UnblockDay: repository error: %v", err)
		return fmt.Errorf("%w: UnblockDay - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UnblockDay: %s unblocked by actor=%d", date.Format(domain.DateFormat), actor.UserID)
	return nil
}
