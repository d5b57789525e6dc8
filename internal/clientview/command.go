package clientview

import (
	"fmt"
	"time"

	"github.com/m04kA/consultation-booking-service/internal/domain"
	"github.com/m04kA/consultation-booking-service/pkg/types"
)

// Kind вид изменяющей операции
type Kind string

const (
	KindCancel     Kind = "cancel"
	KindMarkPaid   Kind = "mark-paid"
	KindComplete   Kind = "complete"
	KindSetStatus  Kind = "status"
	KindDelete     Kind = "delete"
	KindReschedule Kind = "reschedule"
)

func (k Kind) valid() bool {
	switch k {
	case KindCancel, KindMarkPaid, KindComplete, KindSetStatus, KindDelete, KindReschedule:
		return true
	default:
		return false
	}
}

// Command запрос на изменение одного бронирования
type Command struct {
	Kind      Kind
	BookingID int64

	// Status целевой статус для KindSetStatus
	Status domain.BookingStatus

	// Date и Time новый слот для KindReschedule
	Date time.Time
	Time types.TimeString
}

func Cancel(id int64) Command   { return Command{Kind: KindCancel, BookingID: id} }
func MarkPaid(id int64) Command { return Command{Kind: KindMarkPaid, BookingID: id} }
func Complete(id int64) Command { return Command{Kind: KindComplete, BookingID: id} }
func Delete(id int64) Command   { return Command{Kind: KindDelete, BookingID: id} }

func SetStatus(id int64, status domain.BookingStatus) Command {
	return Command{Kind: KindSetStatus, BookingID: id, Status: status}
}

func Reschedule(id int64, date time.Time, start types.TimeString) Command {
	return Command{Kind: KindReschedule, BookingID: id, Date: date, Time: start}
}

// targetStatus статус, в который команда переводит бронирование.
// Пустое значение у команд, не меняющих статус.
func (c Command) targetStatus() domain.BookingStatus {
	switch c.Kind {
	case KindCancel:
		return domain.StatusCancelled
	case KindMarkPaid:
		return domain.StatusConfirmed
	case KindComplete:
		return domain.StatusCompleted
	case KindSetStatus:
		return c.Status
	default:
		return ""
	}
}

// expected вычисляет ожидаемое локальное состояние после успешной операции.
// nil означает, что бронирование исчезает из представления.
func (c Command) expected(current *domain.Booking, now time.Time) (*domain.Booking, error) {
	switch c.Kind {
	case KindCancel, KindMarkPaid, KindComplete, KindSetStatus:
		result, err := domain.Transition(current, c.targetStatus(), now)
		if err != nil {
			return nil, err
		}
		return result.Booking, nil

	case KindDelete:
		return nil, nil

	case KindReschedule:
		if !current.CanBeRescheduled() {
			return nil, domain.NewRescheduleBlockedError([]string{
				fmt.Sprintf("бронирование в статусе %s нельзя перенести", current.Status),
			})
		}
		next := current.Clone()
		next.BookingDate = domain.DateOnly(c.Date)
		next.StartTime = c.Time
		return next, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, c.Kind)
	}
}

// Result итог операции над одним бронированием
type Result struct {
	Command Command

	// Booking итоговое состояние: ответ сервера при успехе,
	// восстановленное прежнее значение при ошибке. nil после удаления.
	Booking  *domain.Booking
	Warnings []string
	Err      error
}

// OK returns true if the remote operation succeeded
func (r Result) OK() bool {
	return r.Err == nil
}

// Pending операция, уже примененная локально и ожидающая ответа сервера
type Pending struct {
	// Applied ожидаемое состояние, которое видно в представлении
	// до ответа сервера. nil для удаления.
	Applied *domain.Booking

	done   chan struct{}
	result Result
}

func resolved(result Result) *Pending {
	p := &Pending{done: make(chan struct{}), result: result}
	close(p.done)
	return p
}

// Done закрывается, когда операция завершена и представление согласовано
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait блокируется до завершения операции
func (p *Pending) Wait() Result {
	<-p.done
	return p.result
}
