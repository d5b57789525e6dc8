package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/consultation-booking-service/internal/domain"
	"github.com/m04kA/consultation-booking-service/pkg/logger"
	"github.com/m04kA/consultation-booking-service/pkg/types"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeBookings struct {
	bookings []*domain.Booking
	err      error
	calls    int
}

func (f *fakeBookings) List(_ context.Context, _ domain.BookingsFilter) ([]*domain.Booking, error) {
	f.calls++
	return f.bookings, f.err
}

type fakeBlocked struct{ blocked bool }

func (f fakeBlocked) IsBlocked(context.Context, time.Time) (bool, error) { return f.blocked, nil }

type staticHours struct{ cfg domain.WorkingHoursConfig }

func (s staticHours) Current() domain.WorkingHoursConfig { return s.cfg }

var now = time.Date(2026, 10, 16, 8, 30, 0, 0, time.UTC)

func newUseCase(t *testing.T, bookings *fakeBookings, blocked bool) *UseCase {
	t.Helper()
	cfg, err := domain.NewWorkingHoursConfig("09:00", "12:00", 60)
	require.NoError(t, err)
	return NewUseCase(bookings, fakeBlocked{blocked: blocked}, staticHours{cfg: cfg}, logger.Nop()).
		WithTimeProvider(fixedTime{now: now})
}

func TestExecute_ExcludesOccupiedSlots(t *testing.T) {
	date := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	repo := &fakeBookings{bookings: []*domain.Booking{
		{ID: 1, BookingDate: date, StartTime: types.MustFromString("10:00"), Status: domain.StatusPendingPayment},
	}}

	resp, err := newUseCase(t, repo, false).Execute(context.Background(), &Request{Date: date})
	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"09:00", "11:00"}, resp.Slots)
	assert.Equal(t, 60, resp.DurationMinutes)
}

func TestExecute_BlockedDay(t *testing.T) {
	repo := &fakeBookings{}
	resp, err := newUseCase(t, repo, true).Execute(context.Background(), &Request{Date: now.AddDate(0, 0, 2)})
	require.NoError(t, err)
	assert.True(t, resp.Blocked)
	assert.Empty(t, resp.Slots)
	assert.Zero(t, repo.calls)
}

func TestExecute_OutsideHorizonSkipsStorage(t *testing.T) {
	repo := &fakeBookings{}
	resp, err := newUseCase(t, repo, false).Execute(context.Background(), &Request{Date: now.AddDate(0, 0, 31)})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.Zero(t, repo.calls)
}

func TestExecute_RepositoryError(t *testing.T) {
	repo := &fakeBookings{err: errors.New("connection refused")}
	_, err := newUseCase(t, repo, false).Execute(context.Background(), &Request{Date: now.AddDate(0, 0, 1)})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_Validation(t *testing.T) {
	_, err := newUseCase(t, &fakeBookings{}, false).Execute(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
