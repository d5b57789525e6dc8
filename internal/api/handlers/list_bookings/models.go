package list_bookings

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/consultation-booking-service/internal/api/handlers"
	"github.com/m04kA/consultation-booking-service/internal/domain"
	"github.com/m04kA/consultation-booking-service/internal/service/bookings/models"
)

// ToServiceRequest собирает фильтр из query параметров:
// from, to (YYYY-MM-DD), status, clientId, includeCancelled
func ToServiceRequest(r *http.Request, actor domain.Actor, loc *time.Location) (*models.ListBookingsRequest, error) {
	query := r.URL.Query()
	req := &models.ListBookingsRequest{Actor: actor}

	from, err := handlers.QueryDate(r, "from", loc)
	if err != nil {
		return nil, fmt.Errorf("from: %v", err)
	}
	req.StartDate = from

	to, err := handlers.QueryDate(r, "to", loc)
	if err != nil {
		return nil, fmt.Errorf("to: %v", err)
	}
	req.EndDate = to

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if raw := query.Get("clientId"); raw != "" {
		clientID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || clientID <= 0 {
			return nil, fmt.Errorf("clientId: invalid value %q", raw)
		}
		req.ClientID = &clientID
	}

	if raw := query.Get("includeCancelled"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("includeCancelled: %v", err)
		}
		req.IncludeCancelled = include
	}

	return req, nil
}
