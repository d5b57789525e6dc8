package clientview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/consultation-booking-service/internal/domain"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultConcurrency = 4
)

// Coordinator применяет ожидаемое состояние к View до ответа сервера
// и согласует его с ответом: при успехе берется версия сервера,
// при ошибке восстанавливается прежнее значение.
//
// Для одного бронирования в полете не более одной операции,
// следующая ждет завершения предыдущей. Между разными бронированиями
// порядок не гарантируется. Повторов нет.
type Coordinator struct {
	view         *View
	remote       Remote
	locks        *keyedLock
	timeout      time.Duration
	concurrency  int
	timeProvider TimeProvider
	logger       Logger
}

// NewCoordinator создает координатор. timeout ограничивает одну удаленную
// операцию, concurrency число одновременных вызовов в Bulk.
func NewCoordinator(view *View, remote Remote, timeout time.Duration, concurrency int, logger Logger) *Coordinator {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Coordinator{
		view:         view,
		remote:       remote,
		locks:        newKeyedLock(),
		timeout:      timeout,
		concurrency:  concurrency,
		timeProvider: RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider устанавливает провайдер времени (для тестов)
func (c *Coordinator) WithTimeProvider(tp TimeProvider) *Coordinator {
	c.timeProvider = tp
	return c
}

// View возвращает представление, которым управляет координатор
func (c *Coordinator) View() *View {
	return c.view
}

// Submit применяет команду локально и запускает удаленную операцию.
// Если по этому бронированию уже есть операция в полете, Submit ждет ее.
func (c *Coordinator) Submit(ctx context.Context, cmd Command) *Pending {
	id := cmd.BookingID

	if !cmd.Kind.valid() {
		return resolved(Result{Command: cmd, Err: fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Kind)})
	}

	// 1. Ждем завершения предыдущей операции по этому ID
	if err := c.locks.acquire(ctx, id); err != nil {
		return resolved(Result{Command: cmd, Err: fmt.Errorf("clientview: waiting for booking %d: %w", id, err)})
	}

	// 2. Ожидаемое состояние применяется, только если бронирование уже видно
	prev, known := c.view.Get(id)
	var applied *domain.Booking
	if known {
		expected, err := cmd.expected(prev, c.timeProvider.Now())
		if err != nil {
			c.locks.release(id)
			c.logger.Warn("Submit: %s booking_id=%d rejected locally: %v", cmd.Kind, id, err)
			return resolved(Result{Command: cmd, Booking: prev, Err: err})
		}
		applied = expected
		c.view.put(id, applied)
	}

	p := &Pending{Applied: applied, done: make(chan struct{})}

	// 3. Удаленная операция; отмена ctx вызывающего ее не прерывает
	go c.run(context.WithoutCancel(ctx), cmd, prev, known, p)

	return p
}

// Execute выполняет команду и дожидается согласования
func (c *Coordinator) Execute(ctx context.Context, cmd Command) Result {
	return c.Submit(ctx, cmd).Wait()
}

// Bulk выполняет команды независимо и параллельно. Ошибка одной команды
// не откатывает и не отменяет остальные. Результаты в порядке команд.
func (c *Coordinator) Bulk(ctx context.Context, cmds []Command) []Result {
	results := make([]Result, len(cmds))

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, cmd := range cmds {
		g.Go(func() error {
			results[i] = c.Execute(ctx, cmd)
			return nil
		})
	}
	_ = g.Wait()

	failed := len(Failures(results))
	if failed > 0 {
		c.logger.Warn("Bulk: %d of %d operations failed", failed, len(cmds))
	} else {
		c.logger.Info("Bulk: %d operations succeeded", len(cmds))
	}
	return results
}

func (c *Coordinator) run(ctx context.Context, cmd Command, prev *domain.Booking, known bool, p *Pending) {
	id := cmd.BookingID
	defer close(p.done)
	defer c.locks.release(id)

	opCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	booking, warnings, err := c.invoke(opCtx, cmd)
	if err != nil {
		if errors.Is(opCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %s booking_id=%d: %v", ErrTimeout, cmd.Kind, id, err)
		}

		// Сервер считается неизменным: возвращаем прежнее значение
		if known {
			c.view.put(id, prev)
		}
		c.logger.Warn("run: %s booking_id=%d failed, local state reverted: %v", cmd.Kind, id, err)

		p.result = Result{Command: cmd, Booking: prev, Err: err}
		return
	}

	// Версия сервера заменяет ожидаемую
	c.view.put(id, booking)
	c.logger.Info("run: %s booking_id=%d applied", cmd.Kind, id)

	p.result = Result{Command: cmd, Booking: booking, Warnings: warnings}
}

func (c *Coordinator) invoke(ctx context.Context, cmd Command) (*domain.Booking, []string, error) {
	var (
		booking *domain.Booking
		err     error
	)

	switch cmd.Kind {
	case KindCancel:
		booking, err = c.remote.Cancel(ctx, cmd.BookingID)
	case KindMarkPaid:
		booking, err = c.remote.MarkPaid(ctx, cmd.BookingID)
	case KindComplete:
		booking, err = c.remote.Complete(ctx, cmd.BookingID)
	case KindSetStatus:
		booking, err = c.remote.UpdateStatus(ctx, cmd.BookingID, cmd.Status)
	case KindDelete:
		err = c.remote.Delete(ctx, cmd.BookingID)
	case KindReschedule:
		result, rErr := c.remote.Reschedule(ctx, cmd.BookingID, cmd.Date, cmd.Time)
		if rErr != nil {
			return nil, nil, rErr
		}
		return result.Booking, result.Warnings, nil
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Kind)
	}

	return booking, nil, err
}

// Failures возвращает ошибки по ID для неуспешных результатов
func Failures(results []Result) map[int64]error {
	failed := make(map[int64]error)
	for _, r := range results {
		if r.Err != nil {
			failed[r.Command.BookingID] = r.Err
		}
	}
	return failed
}
