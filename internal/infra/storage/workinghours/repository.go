package workinghours

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/consultation-booking-service/internal/domain"
	"github.com/m04kA/consultation-booking-service/pkg/dbmetrics"
	"github.com/m04kA/consultation-booking-service/pkg/psqlbuilder"
)

const (
	tableWorkingHours = "working_hours"
	// singletonID единственная строка настроек
	singletonID = 1
)

var (
	// ErrConfigNotFound возвращается, когда настройки еще не сохранялись
	ErrConfigNotFound = errors.New("workinghours.repository: config not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("workinghours.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("workinghours.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("workinghours.repository: failed to scan row")
)

// Repository репозиторий настроек рабочего времени (одна строка id=1)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get возвращает сохраненные настройки
func (r *Repository) Get(ctx context.Context) (*domain.WorkingHoursConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"work_start",
		"work_end",
		"session_duration_minutes",
		"updated_at",
	).
		From(tableWorkingHours).
		Where(squirrel.Eq{"id": singletonID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var cfg domain.WorkingHoursConfig
	var updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cfg.WorkStart,
		&cfg.WorkEnd,
		&cfg.SessionDurationMinutes,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan config: %v", ErrScanRow, err)
	}

	cfg.UpdatedAt = updatedAt.Time

	return &cfg, nil
}

// Save сохраняет настройки (upsert единственной строки)
func (r *Repository) Save(ctx context.Context, cfg domain.WorkingHoursConfig) (*domain.WorkingHoursConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableWorkingHours).
		Columns("id", "work_start", "work_end", "session_duration_minutes").
		Values(singletonID, cfg.WorkStart, cfg.WorkEnd, cfg.SessionDurationMinutes).
		Suffix("ON CONFLICT (id) DO UPDATE SET " +
			"work_start = EXCLUDED.work_start, " +
			"work_end = EXCLUDED.work_end, " +
			"session_duration_minutes = EXCLUDED.session_duration_minutes, " +
			"updated_at = NOW() " +
			"RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Save - build upsert query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Save - execute upsert: %v", ErrExecQuery, err)
	}

	cfg.UpdatedAt = updatedAt.Time

	return &cfg, nil
}
