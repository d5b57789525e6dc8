package scheduling

import (
	"fmt"
	"math"
	"time"

	"github.com/m04kA/consultation-booking-service/internal/domain"
)

// Причины блокировки и предупреждения показываются пользователю как есть
const (
	ReasonStatusNotReschedulable = "бронирование в статусе %q нельзя перенести"
	ReasonNoticeTooShort         = "до консультации осталось меньше %d часов (%d ч.)"
	ReasonInvalidSchedule        = "у бронирования некорректные дата или время"

	WarningPaymentPending   = "оплата бронирования еще не подтверждена"
	WarningAdminShortNotice = "до консультации осталось меньше %d часов, клиент не сможет перенести ее сам"
	WarningFarAhead         = "новая дата дальше чем через %d дней"
	WarningSameDay          = "консультация переносится на сегодня"
)

// RescheduleCheck результат проверки возможности переноса
type RescheduleCheck struct {
	Allowed    bool
	Reasons    []string // жесткие причины, блокируют действие
	Warnings   []string // информационные, никогда не блокируют
	MinDate    time.Time
	HoursUntil int // округлено вниз, может быть отрицательным
}

// Err возвращает ошибку с полным списком причин, если перенос запрещен
func (c RescheduleCheck) Err() error {
	if c.Allowed {
		return nil
	}
	return domain.NewRescheduleBlockedError(c.Reasons)
}

// CanReschedule проверяет, может ли actor перенести бронирование.
// Все жесткие причины собираются сразу, а не только первая.
func CanReschedule(b *domain.Booking, actor domain.Actor, now time.Time) RescheduleCheck {
	today := domain.DateOnly(now.In(b.BookingDate.Location()))

	check := RescheduleCheck{
		Reasons:  []string{},
		Warnings: []string{},
		MinDate:  today,
	}
	if !actor.IsAdmin() {
		check.MinDate = today.AddDate(0, 0, 1)
	}

	if !b.CanBeRescheduled() {
		check.Reasons = append(check.Reasons, fmt.Sprintf(ReasonStatusNotReschedulable, b.Status))
	}

	until, err := TimeUntil(b, now)
	if err != nil {
		check.Reasons = append(check.Reasons, ReasonInvalidSchedule)
	} else {
		check.HoursUntil = floorHours(until)
		if until < domain.RescheduleNotice {
			if actor.IsAdmin() {
				if b.CanBeRescheduled() {
					check.Warnings = append(check.Warnings,
						fmt.Sprintf(WarningAdminShortNotice, int(domain.RescheduleNotice.Hours())))
				}
			} else {
				check.Reasons = append(check.Reasons,
					fmt.Sprintf(ReasonNoticeTooShort, int(domain.RescheduleNotice.Hours()), check.HoursUntil))
			}
		}
	}

	if b.Status == domain.StatusPendingPayment {
		check.Warnings = append(check.Warnings, WarningPaymentPending)
	}

	check.Allowed = len(check.Reasons) == 0
	return check
}

// TargetWarnings предупреждения, зависящие от выбранной новой даты
func TargetWarnings(newDate, now time.Time) []string {
	warnings := []string{}
	now = now.In(newDate.Location())

	if domain.SameDay(newDate, now) {
		warnings = append(warnings, WarningSameDay)
	}
	if domain.DaysBetween(now, newDate) > domain.FarRescheduleWarningDays {
		warnings = append(warnings, fmt.Sprintf(WarningFarAhead, domain.FarRescheduleWarningDays))
	}

	return warnings
}

// CheckNotice проверяет правило 24 часов для клиента. Администратор освобожден.
func CheckNotice(b *domain.Booking, actor domain.Actor, now time.Time) error {
	if actor.IsAdmin() {
		return nil
	}

	until, err := TimeUntil(b, now)
	if err != nil {
		return domain.NewRescheduleBlockedError([]string{ReasonInvalidSchedule})
	}
	if until < domain.RescheduleNotice {
		return domain.NewRescheduleBlockedError([]string{
			fmt.Sprintf(ReasonNoticeTooShort, int(domain.RescheduleNotice.Hours()), floorHours(until)),
		})
	}

	return nil
}

// TimeUntil точное время от now до начала бронирования
func TimeUntil(b *domain.Booking, now time.Time) (time.Duration, error) {
	startsAt, err := b.ScheduledAt()
	if err != nil {
		return 0, err
	}
	return startsAt.Sub(now), nil
}

func floorHours(d time.Duration) int {
	return int(math.Floor(d.Hours()))
}
