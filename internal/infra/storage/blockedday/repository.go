package blockedday

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/consultation-booking-service/internal/domain"
	"github.com/m04kA/consultation-booking-service/pkg/dbmetrics"
	"github.com/m04kA/consultation-booking-service/pkg/pgerr"
	"github.com/m04kA/consultation-booking-service/pkg/psqlbuilder"
)

const tableBlockedDays = "blocked_days"

var (
	// ErrBlockedDayNotFound возвращается, когда дата не заблокирована
	ErrBlockedDayNotFound = errors.New("blockedday.repository: blocked day not found")

	// ErrAlreadyBlocked возвращается при повторной блокировке даты
	ErrAlreadyBlocked = errors.New("blockedday.repository: day already blocked")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("blockedday.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("blockedday.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("blockedday.repository: failed to scan row")
)

// Repository репозиторий заблокированных дней
type Repository struct {
	db  dbmetrics.DBExecutor
	loc *time.Location
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db dbmetrics.DBExecutor, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.UTC
	}
	return &Repository{db: db, loc: loc}
}

// Add блокирует дату
func (r *Repository) Add(ctx context.Context, day *domain.BlockedDay) (*domain.BlockedDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableBlockedDays).
		Columns("blocked_date", "reason").
		Values(day.Date.Format(domain.DateFormat), day.Reason).
		Suffix("RETURNING created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Add - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt); err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, ErrAlreadyBlocked
		}
		return nil, fmt.Errorf("%w: Add - execute insert: %v", ErrExecQuery, err)
	}

	day.CreatedAt = createdAt.Time

	return day, nil
}

// List возвращает заблокированные даты в периоде [from, to]; границы опциональны
func (r *Repository) List(ctx context.Context, from, to *time.Time) ([]*domain.BlockedDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("blocked_date", "reason", "created_at").
		From(tableBlockedDays).
		OrderBy("blocked_date ASC")

	if from != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"blocked_date": from.Format(domain.DateFormat)})
	}
	if to != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"blocked_date": to.Format(domain.DateFormat)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	days := make([]*domain.BlockedDay, 0)
	for rows.Next() {
		var date time.Time
		var reason sql.NullString
		var createdAt sql.NullTime

		if err := rows.Scan(&date, &reason, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}

		y, m, d := date.Date()
		day := &domain.BlockedDay{
			Date:      time.Date(y, m, d, 0, 0, 0, 0, r.loc),
			CreatedAt: createdAt.Time,
		}
		if reason.Valid {
			day.Reason = &reason.String
		}
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return days, nil
}

// IsBlocked проверяет, заблокирована ли дата
func (r *Repository) IsBlocked(ctx context.Context, date time.Time) (bool, error) {
	days, err := r.List(ctx, &date, &date)
	if err != nil {
		return false, err
	}
	return len(days) > 0, nil
}

// Remove снимает блокировку с даты
func (r *Repository) Remove(ctx context.Context, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableBlockedDays).
		Where(squirrel.Eq{"blocked_date": date.Format(domain.DateFormat)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Remove - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Remove - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Remove - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlockedDayNotFound
	}

	return nil
}
