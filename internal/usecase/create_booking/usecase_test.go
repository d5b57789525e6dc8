package create_booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/consultation-booking-service/internal/domain"
	bookingRepo "github.com/m04kA/consultation-booking-service/internal/infra/storage/booking"
	productRepo "github.com/m04kA/consultation-booking-service/internal/infra/storage/product"
	"github.com/m04kA/consultation-booking-service/pkg/logger"
	"github.com/m04kA/consultation-booking-service/pkg/types"
)

var now = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

type fixedTime struct{}

func (fixedTime) Now() time.Time { return now }

// memoryBookings повторяет гарантию частичного уникального индекса
type memoryBookings struct {
	mu       sync.Mutex
	bookings []*domain.Booking
	nextID   int64
}

func (m *memoryBookings) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.bookings {
		if existing.OccupiesSlot() && existing.SameSlot(b.BookingDate, b.StartTime) {
			return nil, bookingRepo.ErrSlotNotAvailable
		}
	}
	m.nextID++
	b.ID = m.nextID
	b.CreatedAt = now
	m.bookings = append(m.bookings, b.Clone())
	return b, nil
}

func (m *memoryBookings) List(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Booking, 0)
	for _, b := range m.bookings {
		if filter.StartDate != nil && !domain.SameDay(b.BookingDate, *filter.StartDate) {
			continue
		}
		if b.Status == domain.StatusCancelled && !filter.IncludeCancelled {
			continue
		}
		result = append(result, b.Clone())
	}
	return result, nil
}

type products map[int64]*domain.Product

func (p products) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	if product, ok := p[id]; ok {
		return product, nil
	}
	return nil, productRepo.ErrProductNotFound
}

type blockedDays struct{ set domain.BlockedDays }

func (b blockedDays) IsBlocked(_ context.Context, date time.Time) (bool, error) {
	return b.set.Contains(date), nil
}

type staticHours struct{ cfg domain.WorkingHoursConfig }

func (s staticHours) Current() domain.WorkingHoursConfig { return s.cfg }

// serialTx выполняет функцию под мьютексом, как сериализуемая транзакция
type serialTx struct {
	mu        sync.Mutex
	commitErr error
}

func (tx *serialTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if err := fn(ctx); err != nil {
		return err
	}
	return tx.commitErr
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, event domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

type nopMetrics struct{}

func (nopMetrics) IncBookingsCreated()    {}
func (nopMetrics) IncSlotConflict(string) {}

type fixture struct {
	uc       *UseCase
	repo     *memoryBookings
	tx       *serialTx
	notifier *recordingNotifier
}

func newFixture(t *testing.T, blocked ...time.Time) *fixture {
	t.Helper()
	cfg, err := domain.NewWorkingHoursConfig("09:00", "18:00", 60)
	require.NoError(t, err)

	set := domain.BlockedDays{}
	for _, d := range blocked {
		set.Add(d)
	}

	f := &fixture{
		repo:     &memoryBookings{},
		tx:       &serialTx{},
		notifier: &recordingNotifier{},
	}
	f.uc = NewUseCase(
		f.repo,
		products{
			1: {ID: 1, Name: "Консультация", Price: 5000, IsActive: true},
			2: {ID: 2, Name: "Архив", Price: 3000, IsActive: false},
		},
		blockedDays{set: set},
		staticHours{cfg: cfg},
		f.tx,
		f.notifier,
		nopMetrics{},
		logger.Nop(),
	).WithTimeProvider(fixedTime{})
	return f
}

func clientRequest(date time.Time, start string) *Request {
	return &Request{
		Actor:     domain.Actor{UserID: 42, Role: domain.RoleClient},
		ProductID: 1,
		Date:      date,
		StartTime: types.MustFromString(start),
	}
}

func TestExecute_CreatesPendingBooking(t *testing.T) {
	f := newFixture(t)
	date := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)

	resp, err := f.uc.Execute(context.Background(), clientRequest(date, "10:00"))
	require.NoError(t, err)

	b := resp.Booking
	assert.Equal(t, int64(42), b.ClientID)
	assert.Equal(t, domain.StatusPendingPayment, b.Status)
	assert.Equal(t, 5000.0, b.Amount)
	assert.Nil(t, b.PaidAt)

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, domain.NotifyBookingCreated, f.notifier.events[0].Kind)
}

func TestExecute_SlotTaken(t *testing.T) {
	f := newFixture(t)
	date := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), clientRequest(date, "10:00"))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), clientRequest(date, "10:00"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
}

func TestExecute_ConcurrentRequestsForSameSlot(t *testing.T) {
	f := newFixture(t)
	date := time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := clientRequest(date, "11:00")
			req.Actor.UserID = int64(100 + i)
			_, errs[i] = f.uc.Execute(context.Background(), req)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, f.repo.bookings, 1)
}

func TestExecute_SerializationFailureOnCommit(t *testing.T) {
	f := newFixture(t)
	f.tx.commitErr = &pq.Error{Code: "40001"}

	_, err := f.uc.Execute(context.Background(), clientRequest(time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), "12:00"))
	assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
	assert.Empty(t, f.notifier.events)
}

func TestExecute_Rejections(t *testing.T) {
	blocked := time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC)
	f := newFixture(t, blocked)

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{name: "blocked day", req: clientRequest(blocked, "10:00"), wantErr: ErrSlotNotAvailable},
		{name: "beyond horizon", req: clientRequest(now.AddDate(0, 0, 31), "10:00"), wantErr: ErrSlotNotAvailable},
		{name: "already started today", req: clientRequest(domain.DateOnly(now), "09:00"), wantErr: ErrSlotNotAvailable},
		{name: "outside working hours", req: clientRequest(time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), "08:00"), wantErr: ErrSlotNotAvailable},
		{name: "not on slot grid", req: clientRequest(time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), "10:30"), wantErr: ErrSlotNotAvailable},
		{name: "inactive product", req: func() *Request {
			r := clientRequest(time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), "10:00")
			r.ProductID = 2
			return r
		}(), wantErr: ErrProductInactive},
		{name: "unknown product", req: func() *Request {
			r := clientRequest(time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), "10:00")
			r.ProductID = 99
			return r
		}(), wantErr: ErrProductNotFound},
		{name: "client books for another client", req: func() *Request {
			r := clientRequest(time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), "10:00")
			r.ClientID = 7
			return r
		}(), wantErr: ErrForbidden},
		{name: "missing time", req: &Request{
			Actor: domain.Actor{UserID: 1, Role: domain.RoleAdmin}, ClientID: 42, ProductID: 1,
			Date: time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		}, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, f.repo.bookings)
}

func TestExecute_AdminOnBehalfOfClient(t *testing.T) {
	f := newFixture(t)
	req := &Request{
		Actor:     domain.Actor{UserID: 1, Role: domain.RoleAdmin},
		ClientID:  42,
		ProductID: 1,
		Date:      time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		StartTime: types.MustFromString("09:00"),
	}

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.Booking.ClientID)
}
