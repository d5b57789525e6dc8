package bookingapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/consultation-booking-service/internal/domain"
	"github.com/m04kA/consultation-booking-service/pkg/logger"
	"github.com/m04kA/consultation-booking-service/pkg/types"
)

var admin = domain.Actor{UserID: 1, Role: domain.RoleAdmin}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, time.Second, admin, time.UTC, logger.Nop())
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

const bookingJSON = `{"id":7,"clientId":42,"productId":1,"bookingDate":"2026-10-20","startTime":"10:00","amount":3000,"status":"confirmed","createdAt":"2026-10-16T08:00:00Z","updatedAt":"2026-10-16T08:00:00Z"}`

func TestMarkPaid_SendsActorHeaders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/bookings/7/mark-paid", r.URL.Path)
		assert.Equal(t, "1", r.Header.Get(headerUserID))
		assert.Equal(t, "admin", r.Header.Get(headerUserRole))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(bookingJSON))
	})

	booking, err := client.MarkPaid(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, booking.Status)
	assert.Equal(t, types.MustFromString("10:00"), booking.StartTime)
	assert.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), booking.BookingDate)
}

func TestDelete_SetsConfirmation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "true", r.Header.Get(headerConfirmDelete))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.Delete(context.Background(), 7))
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    ErrorResponse
		wantErr error
	}{
		{name: "slot", status: http.StatusConflict, body: ErrorResponse{Code: codeSlotUnavailable}, wantErr: domain.ErrSlotUnavailable},
		{name: "transition", status: http.StatusUnprocessableEntity, body: ErrorResponse{Code: codeInvalidTransition}, wantErr: domain.ErrInvalidTransition},
		{name: "configuration", status: http.StatusBadRequest, body: ErrorResponse{Code: codeInvalidConfiguration}, wantErr: domain.ErrInvalidConfiguration},
		{name: "not found", status: http.StatusNotFound, body: ErrorResponse{Code: codeNotFound}, wantErr: ErrBookingNotFound},
		{name: "forbidden", status: http.StatusForbidden, body: ErrorResponse{Code: codeForbidden}, wantErr: ErrAccessDenied},
		{name: "bad request", status: http.StatusBadRequest, body: ErrorResponse{Code: "invalid_input"}, wantErr: ErrRejected},
		{name: "server error", status: http.StatusInternalServerError, body: ErrorResponse{Code: "internal"}, wantErr: domain.ErrRemoteOperationFailed},
		{name: "bad gateway", status: http.StatusBadGateway, wantErr: domain.ErrRemoteOperationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := client.Cancel(context.Background(), 7)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReschedule_BlockedKeepsReasons(t *testing.T) {
	reasons := []string{"бронирование уже завершено", "до начала меньше 24 часов"}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body rescheduleRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, rescheduleRequest{Date: "2026-10-22", Time: "15:00"}, body)
		writeJSON(w, http.StatusForbidden, ErrorResponse{Code: codeRescheduleBlocked, Reasons: reasons})
	})

	_, err := client.Reschedule(context.Background(), 7, time.Date(2026, 10, 22, 0, 0, 0, 0, time.UTC), types.MustFromString("15:00"))
	assert.ErrorIs(t, err, domain.ErrRescheduleBlocked)
	assert.Equal(t, reasons, domain.BlockedReasons(err))
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()
	client := NewClient(srv.URL, time.Second, admin, time.UTC, logger.Nop())

	_, err := client.Complete(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrRemoteOperationFailed)
}

func TestTimeoutIsRemoteFailure(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { <-release }))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})
	client := NewClient(srv.URL, 50*time.Millisecond, admin, time.UTC, logger.Nop())

	_, err := client.Cancel(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrRemoteOperationFailed)
}

func TestListBookings_Query(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2026-10-01", r.URL.Query().Get("from"))
		assert.Equal(t, "cancelled", r.URL.Query().Get("status"))
		assert.Equal(t, "true", r.URL.Query().Get("includeCancelled"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bookings":[` + bookingJSON + `]}`))
	})

	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	status := domain.StatusCancelled
	list, err := client.ListBookings(context.Background(), ListFilter{From: &from, Status: &status, IncludeCancelled: true})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(7), list[0].ID)
}
