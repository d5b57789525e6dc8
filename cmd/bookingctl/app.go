package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/m04kA/consultation-booking-service/internal/clientview"
	"github.com/m04kA/consultation-booking-service/internal/config"
	"github.com/m04kA/consultation-booking-service/internal/domain"
	"github.com/m04kA/consultation-booking-service/internal/integrations/bookingapi"
	"github.com/m04kA/consultation-booking-service/pkg/logger"
	"github.com/m04kA/consultation-booking-service/pkg/ptr"
	"github.com/m04kA/consultation-booking-service/pkg/types"
)

const usage = `usage: bookingctl [-config path] <command> [flags] [id...]

commands:
  list        [-from YYYY-MM-DD] [-to YYYY-MM-DD] [-status S] [-client ID] [-all]
  cancel      ID...
  mark-paid   ID...
  complete    ID...
  status      -to STATUS ID...
  delete      -confirm ID...
  reschedule  -date YYYY-MM-DD -time HH:MM ID...
`

// app консоль поверх HTTP API: все изменения идут через координатор
type app struct {
	client      *bookingapi.Client
	coordinator *clientview.Coordinator
	loc         *time.Location
	out         io.Writer
}

func run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("bookingctl", flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", "config.toml", "path to config file")
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return 1
	}

	loc, err := cfg.Schedule.Location()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load timezone: %v\n", err)
		return 1
	}
	role, _ := domain.ParseRole(cfg.Client.Role)

	log := logger.NewWithWriter(stderr, cfg.Logs.Level)
	client := bookingapi.NewClient(
		cfg.Client.BaseURL,
		time.Duration(cfg.Client.Timeout)*time.Second,
		domain.Actor{UserID: cfg.Client.UserID, Role: role},
		loc,
		log,
	)
	coordinator := clientview.NewCoordinator(
		clientview.NewView(),
		client,
		time.Duration(cfg.Client.MutationTimeout)*time.Second,
		cfg.Client.BulkConcurrency,
		log,
	)

	a := &app{client: client, coordinator: coordinator, loc: loc, out: stdout}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command, rest := global.Arg(0), global.Args()[1:]
	if err := a.dispatch(ctx, command, rest); err != nil {
		fmt.Fprintf(stderr, "bookingctl %s: %v\n", command, err)
		if errors.Is(err, errSomeFailed) {
			return 1
		}
		return 2
	}
	return 0
}

func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "list":
		return a.list(ctx, args)
	case "cancel":
		return a.simple(ctx, command, args, clientview.Cancel)
	case "mark-paid":
		return a.simple(ctx, command, args, clientview.MarkPaid)
	case "complete":
		return a.simple(ctx, command, args, clientview.Complete)
	case "status":
		return a.status(ctx, args)
	case "delete":
		return a.delete(ctx, args)
	case "reschedule":
		return a.reschedule(ctx, args)
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	from := fs.String("from", "", "start date YYYY-MM-DD")
	to := fs.String("to", "", "end date YYYY-MM-DD")
	status := fs.String("status", "", "status filter")
	clientID := fs.Int64("client", 0, "client id")
	all := fs.Bool("all", false, "include cancelled")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := bookingapi.ListFilter{IncludeCancelled: *all}
	var err error
	if filter.From, err = a.optionalDate(*from); err != nil {
		return err
	}
	if filter.To, err = a.optionalDate(*to); err != nil {
		return err
	}
	if *status != "" {
		s, err := domain.ParseBookingStatus(*status)
		if err != nil {
			return fmt.Errorf("status %q: %w", *status, err)
		}
		filter.Status = ptr.Ptr(s)
	}
	if *clientID > 0 {
		filter.ClientID = ptr.Ptr(*clientID)
	}

	bookings, err := a.client.ListBookings(ctx, filter)
	if err != nil {
		return err
	}
	a.coordinator.View().Replace(bookings)

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTIME\tCLIENT\tSTATUS\tAMOUNT\tNOTES")
	for _, b := range a.coordinator.View().List() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%.2f\t%s\n",
			b.ID, b.BookingDate.Format(domain.DateFormat), b.StartTime, b.ClientID, b.Status, b.Amount, ptr.Deref(b.Notes))
	}
	return w.Flush()
}

func (a *app) simple(ctx context.Context, name string, args []string, build func(int64) clientview.Command) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	ids, err := parseIDs(fs.Args())
	if err != nil {
		return err
	}

	cmds := make([]clientview.Command, 0, len(ids))
	for _, id := range ids {
		cmds = append(cmds, build(id))
	}
	return a.bulk(ctx, ids, cmds)
}

func (a *app) status(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	to := fs.String("to", "", "target status")
	if err := fs.Parse(args); err != nil {
		return err
	}
	target, err := domain.ParseBookingStatus(*to)
	if err != nil {
		return fmt.Errorf("-to %q: %w", *to, err)
	}
	ids, err := parseIDs(fs.Args())
	if err != nil {
		return err
	}

	cmds := make([]clientview.Command, 0, len(ids))
	for _, id := range ids {
		cmds = append(cmds, clientview.SetStatus(id, target))
	}
	return a.bulk(ctx, ids, cmds)
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	confirm := fs.Bool("confirm", false, "confirm irreversible deletion")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*confirm {
		return fmt.Errorf("deletion is irreversible, rerun with -confirm")
	}
	ids, err := parseIDs(fs.Args())
	if err != nil {
		return err
	}

	cmds := make([]clientview.Command, 0, len(ids))
	for _, id := range ids {
		cmds = append(cmds, clientview.Delete(id))
	}
	return a.bulk(ctx, ids, cmds)
}

func (a *app) reschedule(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reschedule", flag.ContinueOnError)
	dateStr := fs.String("date", "", "new date YYYY-MM-DD")
	timeStr := fs.String("time", "", "new time HH:MM")
	if err := fs.Parse(args); err != nil {
		return err
	}

	date, err := domain.ParseDate(*dateStr, a.loc)
	if err != nil {
		return fmt.Errorf("-date %q: %w", *dateStr, err)
	}
	start, err := types.NewTimeStringFromString(*timeStr)
	if err != nil {
		return fmt.Errorf("-time %q: %w", *timeStr, err)
	}
	ids, err := parseIDs(fs.Args())
	if err != nil {
		return err
	}

	cmds := make([]clientview.Command, 0, len(ids))
	for _, id := range ids {
		cmds = append(cmds, clientview.Reschedule(id, date, start))
	}
	return a.bulk(ctx, ids, cmds)
}

var errSomeFailed = errors.New("some operations failed")

// bulk подгружает бронирования в представление и выполняет команды.
// Бронирование, которое не удалось загрузить, все равно отправляется на сервер.
func (a *app) bulk(ctx context.Context, ids []int64, cmds []clientview.Command) error {
	loaded := make([]*domain.Booking, 0, len(ids))
	for _, id := range ids {
		if b, err := a.client.GetBooking(ctx, id); err == nil {
			loaded = append(loaded, b)
		}
	}
	a.coordinator.View().Replace(loaded)

	results := a.coordinator.Bulk(ctx, cmds)
	printResults(a.out, results)

	if len(clientview.Failures(results)) > 0 {
		return errSomeFailed
	}
	return nil
}

func printResults(out io.Writer, results []clientview.Result) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, r := range results {
		id := r.Command.BookingID
		if r.Err != nil {
			fmt.Fprintf(w, "FAIL\t%d\t%s\t%s\n", id, r.Command.Kind, describeError(r.Err))
			continue
		}

		detail := "deleted"
		if r.Booking != nil {
			detail = fmt.Sprintf("%s %s %s", r.Booking.Status, r.Booking.BookingDate.Format(domain.DateFormat), r.Booking.StartTime)
		}
		if len(r.Warnings) > 0 {
			detail += " (" + strings.Join(r.Warnings, "; ") + ")"
		}
		fmt.Fprintf(w, "OK\t%d\t%s\t%s\n", id, r.Command.Kind, detail)
	}
	_ = w.Flush()
}

// describeError показывает все причины блокировки, а не только первую
func describeError(err error) string {
	if reasons := domain.BlockedReasons(err); len(reasons) > 0 {
		return "blocked: " + strings.Join(reasons, "; ")
	}
	return err.Error()
}

func parseIDs(args []string) ([]int64, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one booking id is required")
	}

	ids := make([]int64, 0, len(args))
	seen := make(map[int64]struct{}, len(args))
	for _, raw := range args {
		for _, part := range strings.Split(raw, ",") {
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				return nil, fmt.Errorf("invalid booking id %q", part)
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one booking id is required")
	}
	return ids, nil
}

func (a *app) optionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	date, err := domain.ParseDate(raw, a.loc)
	if err != nil {
		return nil, fmt.Errorf("date %q: %w", raw, err)
	}
	return &date, nil
}
