package reschedule_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/consultation-booking-service/internal/api/handlers"
	"github.com/m04kA/consultation-booking-service/internal/domain"
	rescheduleBooking "github.com/m04kA/consultation-booking-service/internal/usecase/reschedule_booking"
	"github.com/m04kA/consultation-booking-service/pkg/logger"
	"github.com/m04kA/consultation-booking-service/pkg/types"
)

type stubUseCase struct {
	resp *rescheduleBooking.Response
	err  error
}

func (s *stubUseCase) Execute(context.Context, *rescheduleBooking.Request) (*rescheduleBooking.Response, error) {
	return s.resp, s.err
}

func serve(uc RescheduleBookingUseCase, path, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/bookings/{bookingId}/reschedule", NewHandler(uc, time.UTC, logger.Nop()).Handle)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req = req.WithContext(handlers.WithActor(req.Context(), domain.Actor{UserID: 42, Role: domain.RoleClient}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Rescheduled(t *testing.T) {
	uc := &stubUseCase{resp: &rescheduleBooking.Response{
		Booking: &domain.Booking{
			ID:          5,
			ClientID:    42,
			BookingDate: time.Date(2026, 10, 22, 0, 0, 0, 0, time.UTC),
			StartTime:   types.MustFromString("15:00"),
			Status:      domain.StatusConfirmed,
		},
		Warnings: []string{"после переноса оплаченная запись останется подтвержденной"},
	}}

	rec := serve(uc, "/bookings/5/reschedule", `{"date":"2026-10-22","time":"15:00"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp RescheduleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "15:00", resp.Booking.StartTime)
	assert.Len(t, resp.Warnings, 1)
	assert.False(t, resp.NoOp)
}

func TestHandle_BlockedReturnsAllReasons(t *testing.T) {
	reasons := []string{"до начала консультации меньше 24 часов", "бронирование уже отменено"}
	uc := &stubUseCase{err: domain.NewRescheduleBlockedError(reasons)}

	rec := serve(uc, "/bookings/5/reschedule", `{"date":"2026-10-22","time":"15:00"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	var resp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, handlers.CodeRescheduleBlocked, resp.Code)
	assert.Equal(t, reasons, resp.Reasons)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "bad id", path: "/bookings/abc/reschedule", body: `{"date":"2026-10-22","time":"15:00"}`, wantStatus: http.StatusBadRequest},
		{name: "bad time", path: "/bookings/5/reschedule", body: `{"date":"2026-10-22","time":"3pm"}`, wantStatus: http.StatusBadRequest},
		{name: "not found", path: "/bookings/5/reschedule", body: `{"date":"2026-10-22","time":"15:00"}`, err: rescheduleBooking.ErrBookingNotFound, wantStatus: http.StatusNotFound},
		{name: "slot taken", path: "/bookings/5/reschedule", body: `{"date":"2026-10-22","time":"15:00"}`, err: rescheduleBooking.ErrSlotNotAvailable, wantStatus: http.StatusConflict},
		{name: "changed concurrently", path: "/bookings/5/reschedule", body: `{"date":"2026-10-22","time":"15:00"}`, err: rescheduleBooking.ErrBookingChanged, wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubUseCase{err: tt.err}, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
