package booking

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/consultation-booking-service/internal/domain"
	"github.com/m04kA/consultation-booking-service/pkg/dbmetrics"
	"github.com/m04kA/consultation-booking-service/pkg/types"
)

var testLoc = time.FixedZone("MSK", 3*3600)

func setupRepo(t *testing.T) (*Repository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewRepository(db, testLoc), mock, func() { db.Close() }
}

func bookingRow(id int64, date time.Time, start string, status domain.BookingStatus) *sqlmock.Rows {
	created := time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(bookingColumns).
		AddRow(id, int64(42), int64(3), date, start+":00", 5000.0, nil, string(status), nil, created, created)
}

func TestRepository_Create(t *testing.T) {
	repo, mock, cleanup := setupRepo(t)
	defer cleanup()

	date := time.Date(2026, 10, 20, 0, 0, 0, 0, testLoc)
	created := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings (client_id,product_id,booking_date,start_time,amount,notes,status)")).
		WithArgs(int64(42), int64(3), "2026-10-20", "10:00", 5000.0, sqlmock.AnyArg(), "pending_payment").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), created, created))

	b, err := repo.Create(context.Background(), &domain.Booking{
		ClientID:    42,
		ProductID:   3,
		BookingDate: date,
		StartTime:   types.MustFromString("10:00"),
		Amount:      5000,
		Status:      domain.StatusPendingPayment,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), b.ID)
	assert.Equal(t, created, b.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_SlotTaken(t *testing.T) {
	repo, mock, cleanup := setupRepo(t)
	defer cleanup()

	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := repo.Create(context.Background(), &domain.Booking{
		ClientID:    42,
		ProductID:   3,
		BookingDate: time.Date(2026, 10, 20, 0, 0, 0, 0, testLoc),
		StartTime:   types.MustFromString("10:00"),
		Status:      domain.StatusPendingPayment,
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock, cleanup := setupRepo(t)
	defer cleanup()

	dbDate := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1")).
		WithArgs(int64(11)).
		WillReturnRows(bookingRow(11, dbDate, "10:00", domain.StatusConfirmed))

	b, err := repo.GetByID(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, types.MustFromString("10:00"), b.StartTime)
	assert.Equal(t, domain.StatusConfirmed, b.Status)
	assert.Equal(t, testLoc, b.BookingDate.Location())
	assert.Equal(t, 20, b.BookingDate.Day())
	assert.Nil(t, b.Notes)
	assert.Nil(t, b.PaidAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock, cleanup := setupRepo(t)
	defer cleanup()

	mock.ExpectQuery("FROM bookings").
		WillReturnRows(sqlmock.NewRows(bookingColumns))

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_List_SingleDayLocksInTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db, testLoc)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		"WHERE booking_date >= $1 AND booking_date <= $2 AND status <> $3 ORDER BY start_time ASC FOR UPDATE")).
		WithArgs("2026-10-20", "2026-10-20", "cancelled").
		WillReturnRows(bookingRow(1, time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), "09:00", domain.StatusPendingPayment))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	filter := domain.ForDate(time.Date(2026, 10, 20, 0, 0, 0, 0, testLoc))
	filter.ForUpdate = true

	bookings, err := repo.List(ctx, filter)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, types.MustFromString("09:00"), bookings[0].StartTime)

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List_ClientWithCancelled(t *testing.T) {
	repo, mock, cleanup := setupRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE client_id = $1 ORDER BY booking_date DESC, start_time DESC")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(bookingColumns))

	clientID := int64(42)
	bookings, err := repo.List(context.Background(), domain.BookingsFilter{ClientID: &clientID, IncludeCancelled: true})
	require.NoError(t, err)
	assert.Empty(t, bookings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, mock, cleanup := setupRepo(t)
	defer cleanup()

	paidAt := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE bookings SET status = $1, updated_at = NOW(), paid_at = $2 WHERE id = $3 AND status = $4")).
		WithArgs("confirmed", paidAt, int64(11), "pending_payment").
		WillReturnRows(bookingRow(11, time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), "10:00", domain.StatusConfirmed))

	b, err := repo.UpdateStatus(context.Background(), 11, domain.StatusPendingPayment, domain.StatusConfirmed, &paidAt)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, b.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus_ConcurrentChange(t *testing.T) {
	repo, mock, cleanup := setupRepo(t)
	defer cleanup()

	mock.ExpectQuery("UPDATE bookings").
		WillReturnRows(sqlmock.NewRows(bookingColumns))
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1")).
		WithArgs(int64(11)).
		WillReturnRows(bookingRow(11, time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), "10:00", domain.StatusCancelled))

	_, err := repo.UpdateStatus(context.Background(), 11, domain.StatusConfirmed, domain.StatusCompleted, nil)
	assert.ErrorIs(t, err, ErrStatusConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus_NotFound(t *testing.T) {
	repo, mock, cleanup := setupRepo(t)
	defer cleanup()

	mock.ExpectQuery("UPDATE bookings").
		WillReturnRows(sqlmock.NewRows(bookingColumns))
	mock.ExpectQuery("FROM bookings").
		WillReturnRows(sqlmock.NewRows(bookingColumns))

	_, err := repo.UpdateStatus(context.Background(), 99, domain.StatusConfirmed, domain.StatusCompleted, nil)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_Reschedule_SlotTaken(t *testing.T) {
	repo, mock, cleanup := setupRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE bookings SET booking_date = $1, start_time = $2")).
		WithArgs("2026-10-21", "11:00", int64(11), "pending_payment", "confirmed").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Reschedule(context.Background(), 11,
		time.Date(2026, 10, 21, 0, 0, 0, 0, testLoc), types.MustFromString("11:00"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	repo, mock, cleanup := setupRepo(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM bookings WHERE id = $1")).
		WithArgs(int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM bookings").
		WithArgs(int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 11))
	assert.ErrorIs(t, repo.Delete(context.Background(), 12), ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
