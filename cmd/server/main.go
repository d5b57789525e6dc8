package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	blockDayHandler "github.com/m04kA/consultation-booking-service/internal/api/handlers/block_day"
	cancelBookingHandler "github.com/m04kA/consultation-booking-service/internal/api/handlers/cancel_booking"
	completeBookingHandler "github.com/m04kA/consultation-booking-service/internal/api/handlers/complete_booking"
	createBookingHandler "github.com/m04kA/consultation-booking-service/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/m04kA/consultation-booking-service/internal/api/handlers/delete_booking"
	getAvailableSlotsHandler "github.com/m04kA/consultation-booking-service/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/consultation-booking-service/internal/api/handlers/get_booking"
	getClientBookingsHandler "github.com/m04kA/consultation-booking-service/internal/api/handlers/get_client_bookings"
	getRescheduleInfoHandler "github.com/m04kA/consultation-booking-service/internal/api/handlers/get_reschedule_info"
	getWorkingHoursHandler "github.com/m04kA/consultation-booking-service/internal/api/handlers/get_working_hours"
	listBlockedDaysHandler "github.com/m04kA/consultation-booking-service/internal/api/handlers/list_blocked_days"
	listBookingsHandler "github.com/m04kA/consultation-booking-service/internal/api/handlers/list_bookings"
	markBookingPaidHandler "github.com/m04kA/consultation-booking-service/internal/api/handlers/mark_booking_paid"
	rescheduleBookingHandler "github.com/m04kA/consultation-booking-service/internal/api/handlers/reschedule_booking"
	unblockDayHandler "github.com/m04kA/consultation-booking-service/internal/api/handlers/unblock_day"
	updateBookingStatusHandler "github.com/m04kA/consultation-booking-service/internal/api/handlers/update_booking_status"
	updateWorkingHoursHandler "github.com/m04kA/consultation-booking-service/internal/api/handlers/update_working_hours"
	"github.com/m04kA/consultation-booking-service/internal/api/middleware"
	"github.com/m04kA/consultation-booking-service/internal/config"
	blockedDayRepo "github.com/m04kA/consultation-booking-service/internal/infra/storage/blockedday"
	bookingRepo "github.com/m04kA/consultation-booking-service/internal/infra/storage/booking"
	productRepo "github.com/m04kA/consultation-booking-service/internal/infra/storage/product"
	workingHoursRepo "github.com/m04kA/consultation-booking-service/internal/infra/storage/workinghours"
	"github.com/m04kA/consultation-booking-service/internal/integrations/notifier"
	bookingsService "github.com/m04kA/consultation-booking-service/internal/service/bookings"
	settingsService "github.com/m04kA/consultation-booking-service/internal/service/settings"
	createBookingUC "github.com/m04kA/consultation-booking-service/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/consultation-booking-service/internal/usecase/get_available_slots"
	getRescheduleInfoUC "github.com/m04kA/consultation-booking-service/internal/usecase/get_reschedule_info"
	rescheduleBookingUC "github.com/m04kA/consultation-booking-service/internal/usecase/reschedule_booking"
	"github.com/m04kA/consultation-booking-service/migrations"
	"github.com/m04kA/consultation-booking-service/pkg/dbmetrics"
	"github.com/m04kA/consultation-booking-service/pkg/logger"
	"github.com/m04kA/consultation-booking-service/pkg/metrics"
	"github.com/m04kA/consultation-booking-service/pkg/migrator"
	"github.com/m04kA/consultation-booking-service/pkg/txmanager"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting consultation-booking-service...")
	log.Info("Configuration loaded from %s", *configPath)

	loc, err := cfg.Schedule.Location()
	if err != nil {
		log.Fatal("Failed to load schedule timezone: %v", err)
	}
	defaultHours, err := cfg.Schedule.DefaultWorkingHours()
	if err != nil {
		log.Fatal("Invalid default working hours: %v", err)
	}

	// Инициализируем метрики (если включены).
	// nil коллектор безопасен: все методы его пропускают.
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.MigrateOnStart {
		if err := applyMigrations(cfg.Database.DSN(), log); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
	}

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB, loc)
	blockedDayRepository := blockedDayRepo.NewRepository(wrappedDB, loc)
	productRepository := productRepo.NewRepository(wrappedDB)
	workingHoursRepository := workingHoursRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Уведомления (fire-and-forget в Redis)
	var bookingNotifier bookingsService.Notifier = notifier.Nop{}
	if cfg.Notifications.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			// Доставка уведомлений не критична: ошибки публикации только логируются
			log.Warn("Redis is unavailable at %s, notifications will fail until it recovers: %v", cfg.Redis.Addr, err)
		}
		cancel()

		bookingNotifier = notifier.NewPublisher(redisClient, cfg.Redis.NotificationsKey, log, metricsCollector)
		log.Info("Notifications enabled (redis=%s, key=%s)", cfg.Redis.Addr, cfg.Redis.NotificationsKey)
	}

	// Настройки рабочего времени: значения по умолчанию до загрузки из базы
	holder := settingsService.NewHolder(defaultHours)
	settingsSvc := settingsService.NewService(workingHoursRepository, blockedDayRepository, holder, log)
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 5*time.Second)
	if err := settingsSvc.Load(loadCtx); err != nil {
		cancelLoad()
		log.Fatal("Failed to load working hours: %v", err)
	}
	cancelLoad()

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, bookingNotifier, metricsCollector, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		productRepository,
		blockedDayRepository,
		holder,
		txMgr,
		bookingNotifier,
		metricsCollector,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		blockedDayRepository,
		holder,
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		blockedDayRepository,
		holder,
		txMgr,
		bookingNotifier,
		metricsCollector,
		log,
	)
	getRescheduleInfoUseCase := getRescheduleInfoUC.NewUseCase(bookingRepository, log)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, loc, log)
	getWorkingHours := getWorkingHoursHandler.NewHandler(settingsSvc)
	updateWorkingHours := updateWorkingHoursHandler.NewHandler(settingsSvc, log)
	listBlockedDays := listBlockedDaysHandler.NewHandler(settingsSvc, loc, log)
	blockDay := blockDayHandler.NewHandler(settingsSvc, loc, log)
	unblockDay := unblockDayHandler.NewHandler(settingsSvc, loc, log)

	createBooking := createBookingHandler.NewHandler(createBookingUseCase, loc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, loc, log)
	getClientBookings := getClientBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	markBookingPaid := markBookingPaidHandler.NewHandler(bookingSvc, log)
	completeBooking := completeBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	getRescheduleInfo := getRescheduleInfoHandler.NewHandler(getRescheduleInfoUseCase, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, loc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recover(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты на дату
	api.HandleFunc("/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Рабочее время и заблокированные дни
	api.HandleFunc("/settings/working-hours", getWorkingHours.Handle).Methods(http.MethodGet)
	api.HandleFunc("/blocked-days", listBlockedDays.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID и X-User-Role)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Настройки (администратор) ---
	protected.HandleFunc("/settings/working-hours", updateWorkingHours.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/blocked-days", blockDay.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/blocked-days/{date}", unblockDay.Handle).Methods(http.MethodDelete)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/mark-paid", markBookingPaid.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/reschedule-info", getRescheduleInfo.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPost)

	// История бронирований клиента
	protected.HandleFunc("/clients/{clientId}/bookings", getClientBookings.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s (timezone=%s)", addr, loc)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

func applyMigrations(dsn string, log *logger.Logger) error {
	m, err := migrator.New(dsn, migrations.FS, log)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}
