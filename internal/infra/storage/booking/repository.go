package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/consultation-booking-service/internal/domain"
	"github.com/m04kA/consultation-booking-service/pkg/dbmetrics"
	"github.com/m04kA/consultation-booking-service/pkg/pgerr"
	"github.com/m04kA/consultation-booking-service/pkg/psqlbuilder"
	"github.com/m04kA/consultation-booking-service/pkg/types"
)

const tableBookings = "bookings"

var bookingColumns = []string{
	"id",
	"client_id",
	"product_id",
	"booking_date",
	"start_time",
	"amount",
	"notes",
	"status",
	"paid_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db  DBExecutor
	loc *time.Location
}

// NewRepository создает новый экземпляр репозитория бронирований.
// Даты бронирований возвращаются в локации loc (часовой пояс практики).
func NewRepository(db DBExecutor, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.UTC
	}
	return &Repository{db: db, loc: loc}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция (через context.Value), использует её.
// Занятый слот (частичный уникальный индекс по дате и времени) возвращает ErrSlotNotAvailable.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableBookings).
		Columns(
			"client_id",
			"product_id",
			"booking_date",
			"start_time",
			"amount",
			"notes",
			"status",
		).
		Values(
			booking.ClientID,
			booking.ProductID,
			booking.BookingDate.Format(domain.DateFormat),
			booking.StartTime,
			booking.Amount,
			booking.Notes,
			string(booking.Status),
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if pgerr.IsUniqueViolation(err) || pgerr.IsSerializationFailure(err) {
			return nil, fmt.Errorf("%w: Create - %s %s: %v",
				ErrSlotNotAvailable, booking.BookingDate.Format(domain.DateFormat), booking.StartTime, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// List получает бронирования с фильтрацией
// Поддерживает фильтрацию по:
// - клиенту (ClientID) - опционально
// - периоду (StartDate, EndDate) - опционально
// - статусу (Status) - опционально
// - включению отмененных бронирований (IncludeCancelled)
//
// Для одной даты сортирует по времени начала (ASC), иначе сначала новые.
// ForUpdate внутри транзакции блокирует найденные строки.
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableBookings)

	if filter.ClientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}

	// Фильтрация по периоду
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": filter.StartDate.Format(domain.DateFormat)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": filter.EndDate.Format(domain.DateFormat)})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": string(domain.StatusCancelled)})
	}

	singleDay := filter.StartDate != nil && filter.EndDate != nil && domain.SameDay(*filter.StartDate, *filter.EndDate)
	if singleDay {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC", "start_time DESC")
	}

	if filter.ForUpdate && dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
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

	return r.scanBookings(rows)
}

// UpdateStatus меняет статус, только если текущий статус равен expected.
// paidAt выставляется, если передан. Ноль затронутых строк означает либо
// отсутствие бронирования (ErrBookingNotFound), либо конкурентное изменение
// статуса (ErrStatusConflict).
func (r *Repository) UpdateStatus(
	ctx context.Context,
	id int64,
	expected domain.BookingStatus,
	next domain.BookingStatus,
	paidAt *time.Time,
) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update(tableBookings).
		Set("status", string(next)).
		Set("updated_at", squirrel.Expr("NOW()"))

	if paidAt != nil {
		updateBuilder = updateBuilder.Set("paid_at", *paidAt)
	}

	query, args, err := updateBuilder.
		Where(squirrel.Eq{"id": id, "status": string(expected)}).
		Suffix("RETURNING " + joinColumns()).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.missingOrConflict(ctx, id, "UpdateStatus")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// Reschedule переносит бронирование на новую дату и время, статус не меняется
func (r *Repository) Reschedule(ctx context.Context, id int64, date time.Time, start types.TimeString) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableBookings).
		Set("booking_date", date.Format(domain.DateFormat)).
		Set("start_time", start).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": []string{string(domain.StatusPendingPayment), string(domain.StatusConfirmed)}}).
		Suffix("RETURNING " + joinColumns()).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Reschedule - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.missingOrConflict(ctx, id, "Reschedule")
	}
	if err != nil {
		if pgerr.IsUniqueViolation(err) || pgerr.IsSerializationFailure(err) {
			return nil, fmt.Errorf("%w: Reschedule - %s %s: %v",
				ErrSlotNotAvailable, date.Format(domain.DateFormat), start, err)
		}
		return nil, fmt.Errorf("%w: Reschedule - execute update: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// Delete физически удаляет бронирование. Операция необратима.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableBookings).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// missingOrConflict различает отсутствие строки и конкурентное изменение статуса
func (r *Repository) missingOrConflict(ctx context.Context, id int64, op string) error {
	_, err := r.GetByID(ctx, id)
	if errors.Is(err, ErrBookingNotFound) {
		return ErrBookingNotFound
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %s - id=%d", ErrStatusConflict, op, id)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var bookingDate time.Time
	var status string
	var paidAt, createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.ClientID,
		&booking.ProductID,
		&bookingDate,
		&booking.StartTime,
		&booking.Amount,
		&booking.Notes,
		&status,
		&paidAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	y, m, d := bookingDate.Date()
	booking.BookingDate = time.Date(y, m, d, 0, 0, 0, 0, r.loc)
	booking.Status = domain.BookingStatus(status)
	if paidAt.Valid {
		t := paidAt.Time
		booking.PaidAt = &t
	}
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func joinColumns() string {
	return strings.Join(bookingColumns, ", ")
}
