package get_working_hours

import "github.com/m04kA/consultation-booking-service/internal/service/settings/models"

type SettingsService interface {
	GetWorkingHours() *models.WorkingHoursResponse
}
