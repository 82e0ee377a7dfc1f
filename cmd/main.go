package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/propdesk/PD-AgentBookingService/internal/api/handlers/cancel_booking"
	checkAvailabilityHandler "github.com/propdesk/PD-AgentBookingService/internal/api/handlers/check_availability"
	createBookingHandler "github.com/propdesk/PD-AgentBookingService/internal/api/handlers/create_booking"
	deleteExtraSlotsHandler "github.com/propdesk/PD-AgentBookingService/internal/api/handlers/delete_extra_slots"
	getAgentBookingsHandler "github.com/propdesk/PD-AgentBookingService/internal/api/handlers/get_agent_bookings"
	getAvailableSlotsHandler "github.com/propdesk/PD-AgentBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/propdesk/PD-AgentBookingService/internal/api/handlers/get_booking"
	getExtraSlotsHandler "github.com/propdesk/PD-AgentBookingService/internal/api/handlers/get_extra_slots"
	getProfileHandler "github.com/propdesk/PD-AgentBookingService/internal/api/handlers/get_profile"
	getScheduleHandler "github.com/propdesk/PD-AgentBookingService/internal/api/handlers/get_schedule"
	getUserBookingsHandler "github.com/propdesk/PD-AgentBookingService/internal/api/handlers/get_user_bookings"
	manageExtraSlotsHandler "github.com/propdesk/PD-AgentBookingService/internal/api/handlers/manage_extra_slots"
	updateBookingStatusHandler "github.com/propdesk/PD-AgentBookingService/internal/api/handlers/update_booking_status"
	updateMeetingTypeHandler "github.com/propdesk/PD-AgentBookingService/internal/api/handlers/update_meeting_type"
	updateProfileHandler "github.com/propdesk/PD-AgentBookingService/internal/api/handlers/update_profile"
	updateScheduleHandler "github.com/propdesk/PD-AgentBookingService/internal/api/handlers/update_schedule"
	"github.com/propdesk/PD-AgentBookingService/internal/api/middleware"
	"github.com/propdesk/PD-AgentBookingService/internal/config"
	bookingRepo "github.com/propdesk/PD-AgentBookingService/internal/infra/storage/booking"
	exceptionRepo "github.com/propdesk/PD-AgentBookingService/internal/infra/storage/exception"
	profileRepo "github.com/propdesk/PD-AgentBookingService/internal/infra/storage/profile"
	scheduleRepo "github.com/propdesk/PD-AgentBookingService/internal/infra/storage/schedule"
	bookingsService "github.com/propdesk/PD-AgentBookingService/internal/service/bookings"
	exceptionsService "github.com/propdesk/PD-AgentBookingService/internal/service/exceptions"
	profileService "github.com/propdesk/PD-AgentBookingService/internal/service/profile"
	scheduleService "github.com/propdesk/PD-AgentBookingService/internal/service/schedule"
	createBookingUC "github.com/propdesk/PD-AgentBookingService/internal/usecase/create_booking"
	resolveSlotsUC "github.com/propdesk/PD-AgentBookingService/internal/usecase/resolve_slots"
	"github.com/propdesk/PD-AgentBookingService/pkg/cooldown"
	"github.com/propdesk/PD-AgentBookingService/pkg/dbmetrics"
	"github.com/propdesk/PD-AgentBookingService/pkg/logger"
	"github.com/propdesk/PD-AgentBookingService/pkg/metrics"
	"github.com/propdesk/PD-AgentBookingService/pkg/simpletxmanager"
	"github.com/propdesk/PD-AgentBookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting PD-AgentBookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Инициализируем репозитории и транзакционные менеджеры (с метриками или без)
	var (
		bookingRepository   *bookingRepo.Repository
		profileRepository   *profileRepo.Repository
		scheduleRepository  *scheduleRepo.Repository
		exceptionRepository *exceptionRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		profileRepository = profileRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		exceptionRepository = exceptionRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		profileRepository = profileRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		exceptionRepository = exceptionRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Антиспам-трекер (in-memory окно между заявками)
	cooldownWindow := time.Duration(cfg.Booking.CooldownSeconds) * time.Second
	cooldownTracker := cooldown.New(cooldownWindow)
	log.Info("Booking cooldown window set to %s", cooldownWindow)

	// Инициализируем use cases
	resolveSlotsUseCase := resolveSlotsUC.NewUseCase(
		bookingRepository,
		profileRepository,
		scheduleRepository,
		exceptionRepository,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		profileRepository,
		resolveSlotsUseCase,
		cooldownTracker,
		cooldownWindow,
		txMgr,
		log,
	)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		profileRepository,
		log,
	)
	profileSvc := profileService.NewService(
		profileRepository,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		bookingRepository,
		txMgr,
		log,
	)
	exceptionsSvc := exceptionsService.NewService(
		exceptionRepository,
		resolveSlotsUseCase,
		txMgr,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(resolveSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	updateMeetingType := updateMeetingTypeHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getAgentBookings := getAgentBookingsHandler.NewHandler(bookingSvc, log)
	getProfile := getProfileHandler.NewHandler(profileSvc, log)
	updateProfile := updateProfileHandler.NewHandler(profileSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(scheduleSvc, log)
	getExtraSlots := getExtraSlotsHandler.NewHandler(exceptionsSvc, log)
	manageExtraSlots := manageExtraSlotsHandler.NewHandler(exceptionsSvc, log)
	deleteExtraSlots := deleteExtraSlotsHandler.NewHandler(exceptionsSvc, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(exceptionsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты агента (на дату или на месяц)
	api.HandleFunc("/agents/{agentId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Точечная проверка доступности интервала
	api.HandleFunc("/agents/{agentId}/availability",
		checkAvailability.Handle).Methods(http.MethodGet)

	// Профиль доступности агента
	api.HandleFunc("/agents/{agentId}/profile",
		getProfile.Handle).Methods(http.MethodGet)

	// Недельное расписание агента
	api.HandleFunc("/agents/{agentId}/schedule",
		getSchedule.Handle).Methods(http.MethodGet)

	// Исключения календаря агента
	api.HandleFunc("/agents/{agentId}/extra-slots",
		getExtraSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание заявки на просмотр
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Подтверждение / завершение бронирования агентом
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Смена формата встречи
	protected.HandleFunc("/bookings/{bookingId}/meeting-type", updateMeetingType.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Кабинет агента ---
	// Список бронирований агента с фильтрами
	protected.HandleFunc("/agents/{agentId}/bookings", getAgentBookings.Handle).Methods(http.MethodGet)

	// Обновление профиля доступности
	protected.HandleFunc("/agents/{agentId}/profile", updateProfile.Handle).Methods(http.MethodPut)

	// Обновление недельного расписания
	protected.HandleFunc("/agents/{agentId}/schedule", updateSchedule.Handle).Methods(http.MethodPut)

	// Управление исключениями на дату
	protected.HandleFunc("/agents/{agentId}/extra-slots/{date}", manageExtraSlots.Handle).Methods(http.MethodPut)

	// Удаление исключений
	protected.HandleFunc("/agents/{agentId}/extra-slots", deleteExtraSlots.Handle).Methods(http.MethodDelete)

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
		log.Info("Starting server on %s", addr)
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
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
