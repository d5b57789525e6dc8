package mark_booking_paid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/consultation-booking-service/internal/api/handlers"
	"github.com/m04kA/consultation-booking-service/internal/domain"
	"github.com/m04kA/consultation-booking-service/internal/service/bookings"
	"github.com/m04kA/consultation-booking-service/internal/service/bookings/models"
	"github.com/m04kA/consultation-booking-service/pkg/logger"
)

type stubService struct{ err error }

func (s stubService) MarkPaid(_ context.Context, id int64, _ domain.Actor) (*models.BookingResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.BookingResponse{ID: id, Status: string(domain.StatusConfirmed)}, nil
}

func serve(svc BookingService, actor *domain.Actor) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/bookings/{bookingId}/mark-paid", NewHandler(svc, logger.Nop()).Handle)

	req := httptest.NewRequest(http.MethodPost, "/bookings/8/mark-paid", nil)
	if actor != nil {
		req = req.WithContext(handlers.WithActor(req.Context(), *actor))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}

	tests := []struct {
		name       string
		actor      *domain.Actor
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "confirmed", actor: &admin, wantStatus: http.StatusOK},
		{name: "no actor", wantStatus: http.StatusUnauthorized, wantCode: handlers.CodeUnauthorized},
		{name: "already confirmed", actor: &admin, err: bookings.ErrInvalidTransition, wantStatus: http.StatusUnprocessableEntity, wantCode: handlers.CodeInvalidTransition},
		{name: "client", actor: &admin, err: bookings.ErrAccessDenied, wantStatus: http.StatusForbidden, wantCode: handlers.CodeForbidden},
		{name: "missing", actor: &admin, err: bookings.ErrBookingNotFound, wantStatus: http.StatusNotFound, wantCode: handlers.CodeNotFound},
		{name: "internal", actor: &admin, err: bookings.ErrInternal, wantStatus: http.StatusInternalServerError, wantCode: handlers.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(stubService{err: tt.err}, tt.actor)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Contains(t, rec.Body.String(), `"code":"`+tt.wantCode+`"`)
			}
		})
	}
}
