package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/consultation-booking-service/internal/domain"
	bookingRepo "github.com/m04kA/consultation-booking-service/internal/infra/storage/booking"
	"github.com/m04kA/consultation-booking-service/internal/service/bookings/models"
	"github.com/m04kA/consultation-booking-service/pkg/logger"
	"github.com/m04kA/consultation-booking-service/pkg/types"
)

var now = time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

type fixedTime struct{}

func (fixedTime) Now() time.Time { return now }

type memoryRepo struct {
	bookings map[int64]*domain.Booking
	// staleStatus подменяет статус перед CAS, имитируя конкурентное изменение
	staleStatus *domain.BookingStatus
	lastFilter  domain.BookingsFilter
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b.Clone(), nil
}

func (m *memoryRepo) List(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	m.lastFilter = filter
	result := make([]*domain.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		if filter.ClientID != nil && b.ClientID != *filter.ClientID {
			continue
		}
		result = append(result, b.Clone())
	}
	return result, nil
}

func (m *memoryRepo) UpdateStatus(_ context.Context, id int64, expected, next domain.BookingStatus, paidAt *time.Time) (*domain.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	if m.staleStatus != nil {
		b.Status = *m.staleStatus
	}
	if b.Status != expected {
		return nil, bookingRepo.ErrStatusConflict
	}
	b.Status = next
	if paidAt != nil {
		b.PaidAt = paidAt
	}
	return b.Clone(), nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.bookings[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	delete(m.bookings, id)
	return nil
}

type recordingNotifier struct{ kinds []domain.NotificationKind }

func (n *recordingNotifier) Notify(_ context.Context, event domain.Notification) {
	n.kinds = append(n.kinds, event.Kind)
}

type transitionCounter struct{ transitions []string }

func (c *transitionCounter) IncStatusTransition(from, to string) {
	c.transitions = append(c.transitions, from+"->"+to)
}

var (
	admin    = domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	owner    = domain.Actor{UserID: 42, Role: domain.RoleClient}
	stranger = domain.Actor{UserID: 7, Role: domain.RoleClient}
)

type fixture struct {
	svc      *Service
	repo     *memoryRepo
	notifier *recordingNotifier
	metrics  *transitionCounter
}

func newFixture(bookings ...*domain.Booking) *fixture {
	repo := &memoryRepo{bookings: map[int64]*domain.Booking{}}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	f := &fixture{repo: repo, notifier: &recordingNotifier{}, metrics: &transitionCounter{}}
	f.svc = NewService(repo, f.notifier, f.metrics, logger.Nop()).WithTimeProvider(fixedTime{})
	return f
}

func booking(id int64, dayOffset int, start string, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:          id,
		ClientID:    42,
		ProductID:   1,
		BookingDate: domain.DateOnly(now).AddDate(0, 0, dayOffset),
		StartTime:   types.MustFromString(start),
		Amount:      3000,
		Status:      status,
	}
}

func TestMarkPaid(t *testing.T) {
	f := newFixture(booking(1, 3, "10:00", domain.StatusPendingPayment))

	resp, err := f.svc.MarkPaid(context.Background(), 1, admin)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	require.NotNil(t, resp.PaidAt)
	assert.True(t, resp.PaidAt.Equal(now))
	assert.Equal(t, []domain.NotificationKind{domain.NotifyBookingConfirmed}, f.notifier.kinds)
	assert.Equal(t, []string{"pending_payment->confirmed"}, f.metrics.transitions)

	_, err = f.svc.MarkPaid(context.Background(), 1, admin)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Len(t, f.notifier.kinds, 1)
}

func TestMarkPaid_ClientForbidden(t *testing.T) {
	f := newFixture(booking(1, 3, "10:00", domain.StatusPendingPayment))

	_, err := f.svc.MarkPaid(context.Background(), 1, owner)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, domain.StatusPendingPayment, f.repo.bookings[1].Status)
}

func TestComplete(t *testing.T) {
	f := newFixture(
		booking(1, 0, "07:00", domain.StatusConfirmed),
		booking(2, 0, "09:00", domain.StatusPendingPayment),
	)

	resp, err := f.svc.Complete(context.Background(), 1, admin)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
	assert.Empty(t, f.notifier.kinds)

	_, err = f.svc.Complete(context.Background(), 2, admin)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name    string
		booking *domain.Booking
		actor   domain.Actor
		wantErr error
	}{
		{name: "client with enough notice", booking: booking(1, 1, "08:00", domain.StatusConfirmed), actor: owner},
		{name: "client inside 24 hours", booking: booking(1, 1, "07:59", domain.StatusConfirmed), actor: owner, wantErr: domain.ErrRescheduleBlocked},
		{name: "admin inside 24 hours", booking: booking(1, 0, "10:00", domain.StatusPendingPayment), actor: admin},
		{name: "foreign client", booking: booking(1, 5, "10:00", domain.StatusConfirmed), actor: stranger, wantErr: ErrAccessDenied},
		{name: "already cancelled", booking: booking(1, 5, "10:00", domain.StatusCancelled), actor: admin, wantErr: domain.ErrInvalidTransition},
		{name: "completed", booking: booking(1, 5, "10:00", domain.StatusCompleted), actor: owner, wantErr: domain.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.booking)
			before := tt.booking.Status

			resp, err := f.svc.Cancel(context.Background(), 1, tt.actor)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, before, f.repo.bookings[1].Status)
				assert.Empty(t, f.notifier.kinds)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, string(domain.StatusCancelled), resp.Status)
			assert.Equal(t, []domain.NotificationKind{domain.NotifyBookingCancelled}, f.notifier.kinds)
		})
	}
}

func TestUpdateStatus_EnforcesTable(t *testing.T) {
	f := newFixture(booking(1, 3, "10:00", domain.StatusPendingPayment))

	_, err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Actor: admin, Status: "completed"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Actor: admin, Status: "archived"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	resp, err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Actor: admin, Status: "confirmed"})
	require.NoError(t, err)
	assert.NotNil(t, resp.PaidAt)
}

func TestUpdateStatus_ConcurrentChange(t *testing.T) {
	f := newFixture(booking(1, 3, "10:00", domain.StatusPendingPayment))
	cancelled := domain.StatusCancelled
	f.repo.staleStatus = &cancelled

	_, err := f.svc.MarkPaid(context.Background(), 1, admin)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Empty(t, f.metrics.transitions)
	assert.Empty(t, f.notifier.kinds)
}

func TestDelete(t *testing.T) {
	f := newFixture(booking(1, 3, "10:00", domain.StatusConfirmed))

	assert.ErrorIs(t, f.svc.Delete(context.Background(), 1, owner), ErrAccessDenied)
	require.NoError(t, f.svc.Delete(context.Background(), 1, admin))
	assert.NotContains(t, f.repo.bookings, int64(1))
	assert.Equal(t, []domain.NotificationKind{domain.NotifyBookingDeleted}, f.notifier.kinds)

	assert.ErrorIs(t, f.svc.Delete(context.Background(), 1, admin), ErrBookingNotFound)
}

func TestGetByID_Access(t *testing.T) {
	f := newFixture(booking(1, 3, "10:00", domain.StatusConfirmed))

	resp, err := f.svc.GetByID(context.Background(), 1, owner)
	require.NoError(t, err)
	assert.Equal(t, "10:00", resp.StartTime)

	_, err = f.svc.GetByID(context.Background(), 1, stranger)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetClientBookings(t *testing.T) {
	f := newFixture(booking(1, 3, "10:00", domain.StatusConfirmed), booking(2, 4, "10:00", domain.StatusCancelled))

	resp, err := f.svc.GetClientBookings(context.Background(), &models.ClientBookingsRequest{Actor: owner, ClientID: 42})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)
	assert.True(t, f.repo.lastFilter.IncludeCancelled)

	_, err = f.svc.GetClientBookings(context.Background(), &models.ClientBookingsRequest{Actor: stranger, ClientID: 42})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestList(t *testing.T) {
	f := newFixture(booking(1, 3, "10:00", domain.StatusConfirmed))

	_, err := f.svc.List(context.Background(), &models.ListBookingsRequest{Actor: owner})
	assert.ErrorIs(t, err, ErrAccessDenied)

	status := "cancelled"
	_, err = f.svc.List(context.Background(), &models.ListBookingsRequest{Actor: admin, Status: &status})
	require.NoError(t, err)
	assert.True(t, f.repo.lastFilter.IncludeCancelled)

	start := domain.DateOnly(now).AddDate(0, 0, 5)
	end := domain.DateOnly(now)
	_, err = f.svc.List(context.Background(), &models.ListBookingsRequest{Actor: admin, StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
