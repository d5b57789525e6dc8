package create_booking

import (
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/consultation-booking-service/internal/domain"
)

// validateRequest валидирует входные данные запроса и определяет клиента
func validateRequest(req *Request) (int64, error) {
	if req == nil {
		return 0, fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	clientID := req.ClientID
	switch req.Actor.Role {
	case domain.RoleClient:
		if clientID == 0 {
			clientID = req.Actor.UserID
		}
		if clientID != req.Actor.UserID {
			return 0, fmt.Errorf("%w: client %d cannot book for client %d", ErrForbidden, req.Actor.UserID, clientID)
		}
	case domain.RoleAdmin:
		// администратор бронирует от имени клиента
	default:
		return 0, fmt.Errorf("%w: unknown actor role %q", ErrForbidden, req.Actor.Role)
	}

	if clientID <= 0 {
		return 0, fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.ProductID <= 0 {
		return 0, fmt.Errorf("%w: productID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return 0, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return 0, fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := req.StartTime.Validate(); err != nil {
		return 0, fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return 0, fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return clientID, nil
}
