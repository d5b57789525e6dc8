package delete_booking

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
	"github.com/m04kA/consultation-booking-service/pkg/logger"
)

type stubService struct {
	calls int
	err   error
}

func (s *stubService) Delete(context.Context, int64, domain.Actor) error {
	s.calls++
	return s.err
}

func serve(svc BookingService, confirm string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/bookings/{bookingId}", NewHandler(svc, logger.Nop()).Handle).Methods(http.MethodDelete)

	req := httptest.NewRequest(http.MethodDelete, "/bookings/3", nil)
	if confirm != "" {
		req.Header.Set(HeaderConfirmDelete, confirm)
	}
	req = req.WithContext(handlers.WithActor(req.Context(), domain.Actor{UserID: 1, Role: domain.RoleAdmin}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_RequiresConfirmation(t *testing.T) {
	svc := &stubService{}

	rec := serve(svc, "")
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)
	assert.Contains(t, rec.Body.String(), handlers.CodeConfirmationRequired)

	rec = serve(svc, "yes")
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)
	assert.Zero(t, svc.calls)
}

func TestHandle_Deleted(t *testing.T) {
	svc := &stubService{}

	rec := serve(svc, "true")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, 1, svc.calls)
}

func TestHandle_ServiceErrors(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, serve(&stubService{err: bookings.ErrBookingNotFound}, "true").Code)
	assert.Equal(t, http.StatusForbidden, serve(&stubService{err: bookings.ErrAccessDenied}, "true").Code)
}
